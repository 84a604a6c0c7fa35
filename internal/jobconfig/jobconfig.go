// Package jobconfig provides the Job struct and loader for cellstat.yaml
// job files. A job file is optional: the run command accepts the same
// settings as flags, and flags win over file values.
package jobconfig

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Defaults for job configuration. New() references them and no other
// code should duplicate them.
const (
	DefaultFile    = "cellstat.yaml"
	DefaultPattern = "*.tif"
)

// InputConfig selects the rasters to stack.
type InputConfig struct {
	Dir     string `yaml:"dir,omitempty"`
	Pattern string `yaml:"pattern,omitempty"`
}

// OutputConfig controls where and under what name the result is written.
// Name carries no extension; the output inherits the reference raster's.
type OutputConfig struct {
	Dir  string `yaml:"dir,omitempty"`
	Name string `yaml:"name,omitempty"`
}

// Job is the top-level configuration for one cell-statistics run.
type Job struct {
	Input     InputConfig  `yaml:"input,omitempty"`
	Statistic string       `yaml:"statistic,omitempty"`
	Output    OutputConfig `yaml:"output,omitempty"`
}

// New returns a Job with defaults populated.
func New() *Job {
	return &Job{
		Input: InputConfig{Pattern: DefaultPattern},
	}
}

// Load reads a job file and fills in missing fields with defaults.
// A missing file is an error: unlike project-level dotfiles, a job file
// is always named explicitly by the caller.
func Load(path string) (*Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading job config: %w", err)
	}

	var fileJob Job
	if err := yaml.Unmarshal(data, &fileJob); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	job := New()
	mergeJob(job, &fileJob)
	return job, nil
}

// Validate reports the first missing required field. Directory existence
// is checked later by the run pipeline, not here.
func (j *Job) Validate() error {
	if j.Input.Dir == "" {
		return errors.New("input directory is required (--input-dir or input.dir)")
	}
	if j.Statistic == "" {
		return errors.New("statistic is required (--stat or statistic)")
	}
	if j.Output.Dir == "" {
		return errors.New("output directory is required (--output-dir or output.dir)")
	}
	return nil
}

// mergeJob overlays non-zero values from src onto dst.
func mergeJob(dst, src *Job) {
	if src.Input.Dir != "" {
		dst.Input.Dir = src.Input.Dir
	}
	if src.Input.Pattern != "" {
		dst.Input.Pattern = src.Input.Pattern
	}
	if src.Statistic != "" {
		dst.Statistic = src.Statistic
	}
	if src.Output.Dir != "" {
		dst.Output.Dir = src.Output.Dir
	}
	if src.Output.Name != "" {
		dst.Output.Name = src.Output.Name
	}
}
