package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rastertools/cellstat/internal/cellstats"
	"github.com/rastertools/cellstat/internal/jobconfig"
	"github.com/rastertools/cellstat/internal/raster"
	"github.com/rastertools/cellstat/internal/stack"
)

var (
	runInputDir   string
	runPattern    string
	runStatistic  string
	runOutputDir  string
	runOutputName string
	runConfigPath string
)

func newRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Compute a cell statistic across a raster stack",
		Long: `Compute a per-pixel statistic across every raster matching the input
pattern, in lexicographic filename order, and write the result next to the
reference raster's spatial framing.

The last raster in sorted order is the reference: its projection,
geotransform, no-data value and format are inherited by the output.`,
		Args: cobra.NoArgs,
		RunE: runCommandE,
	}

	cmd.Flags().StringVarP(&runInputDir, "input-dir", "i", "", "Directory containing the input rasters")
	cmd.Flags().StringVarP(&runPattern, "pattern", "p", "", "Input filename glob (default \"*.tif\")")
	cmd.Flags().StringVarP(&runStatistic, "stat", "s", "", "Statistic: mean, min, max, median, rank or trend")
	cmd.Flags().StringVarP(&runOutputDir, "output-dir", "o", "", "Existing directory to write the result into")
	cmd.Flags().StringVarP(&runOutputName, "name", "n", "", "Output filename without extension (default cell_stat_<stat>)")
	cmd.Flags().StringVarP(&runConfigPath, "config", "c", "", "Job config file (default cellstat.yaml if present)")

	return cmd
}

func runCommandE(_ *cobra.Command, _ []string) error {
	job, err := resolveJob()
	if err != nil {
		return &ValidationError{Err: err}
	}
	if err := job.Validate(); err != nil {
		return &ValidationError{Err: err}
	}

	// Reject a bad statistic tag before any raster is opened.
	statType, err := cellstats.Parse(job.Statistic)
	if err != nil {
		return &ValidationError{Err: err}
	}

	paths, err := enumerateInputs(job.Input.Dir, job.Input.Pattern)
	if err != nil {
		return &ValidationError{Err: err}
	}
	if statType == cellstats.Trend && len(paths) < 2 {
		return &ValidationError{Err: fmt.Errorf(
			"statistic %q needs at least 2 rasters, found %d in %s", statType, len(paths), job.Input.Dir)}
	}
	if err := checkOutputDir(job.Output.Dir); err != nil {
		return &ValidationError{Err: err}
	}

	fmt.Printf("Working with rasters in: %s\n", job.Input.Dir)
	fmt.Printf("Total datasets found: %d\n", len(paths))
	for _, p := range paths {
		fmt.Printf("  %s\n", filepath.Base(p))
	}

	// The last raster in sorted order is the reference.
	refPath := paths[len(paths)-1]
	meta, err := raster.ReadMetadata(refPath)
	if err != nil {
		return err
	}
	fmt.Printf("\nBasing output on: %s\n", filepath.Base(refPath))
	printMetadata(meta)

	slog.Debug("loading stack", "layers", len(paths), "rows", meta.Rows, "cols", meta.Cols)
	st, err := stack.Load(raster.Store{}, paths)
	if err != nil {
		if errors.Is(err, stack.ErrShapeMismatch) {
			return &ValidationError{Err: err}
		}
		return err
	}

	slog.Debug("reducing stack", "statistic", statType.String())
	result, err := cellstats.Reduce(st, meta.NoData, meta.HasNoData, statType)
	if err != nil {
		return &ValidationError{Err: err}
	}

	outPath := filepath.Join(job.Output.Dir, outputFileName(job.Output.Name, statType, refPath))

	// rank always gets no-data 0; everything else inherits the
	// reference sentinel when one is defined.
	noData, hasNoData := meta.NoData, meta.HasNoData
	if statType == cellstats.Rank {
		noData, hasNoData = 0, true
	}
	if err := raster.Write(outPath, meta, result, statType.Integral(), noData, hasNoData); err != nil {
		return err
	}

	fmt.Printf("\nSaved output raster: %s\n", outPath)
	return nil
}

// resolveJob builds the effective job: explicit config file, else
// cellstat.yaml in the working directory, else bare defaults — then
// flag values override file values.
func resolveJob() (*jobconfig.Job, error) {
	var job *jobconfig.Job
	switch {
	case runConfigPath != "":
		loaded, err := jobconfig.Load(runConfigPath)
		if err != nil {
			return nil, err
		}
		job = loaded
	case fileExists(jobconfig.DefaultFile):
		loaded, err := jobconfig.Load(jobconfig.DefaultFile)
		if err != nil {
			return nil, err
		}
		job = loaded
	default:
		job = jobconfig.New()
	}

	if runInputDir != "" {
		job.Input.Dir = runInputDir
	}
	if runPattern != "" {
		job.Input.Pattern = runPattern
	}
	if runStatistic != "" {
		job.Statistic = runStatistic
	}
	if runOutputDir != "" {
		job.Output.Dir = runOutputDir
	}
	if runOutputName != "" {
		job.Output.Name = runOutputName
	}
	return job, nil
}

// enumerateInputs globs dir/pattern and returns the matches sorted
// lexicographically, so the newest layer sorts last under date-stamped
// naming schemes.
func enumerateInputs(dir, pattern string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, fmt.Errorf("bad input pattern %q: %w", pattern, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no rasters matching %q in %s", pattern, dir)
	}
	sort.Strings(matches)
	return matches, nil
}

// checkOutputDir fails when the output directory does not already exist;
// this tool never creates directories.
func checkOutputDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("output directory %s does not exist", dir)
	}
	if !info.IsDir() {
		return fmt.Errorf("output path %s is not a directory", dir)
	}
	return nil
}

// outputFileName derives the output filename: the caller-supplied base
// name (or cell_stat_<stat>), plus the reference raster's extension —
// everything after the first dot, so compound extensions survive.
func outputFileName(name string, statType cellstats.Statistic, refPath string) string {
	if name == "" {
		name = "cell_stat_" + statType.String()
	}
	ext := "tif"
	ref := filepath.Base(refPath)
	if i := strings.Index(ref, "."); i >= 0 && i < len(ref)-1 {
		ext = ref[i+1:]
	}
	return name + "." + ext
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
