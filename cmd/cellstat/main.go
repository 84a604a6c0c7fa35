package main

import (
	"errors"
	"fmt"
	"os"
)

// Exit codes for different failure modes
const (
	ExitSuccess      = 0 // Statistic computed and written
	ExitInvalidInput = 1 // Invalid statistic, directories, or raster shapes
	ExitError        = 2 // Raster library or other runtime error
)

// ValidationError indicates the invocation was rejected on its inputs;
// no output raster was produced.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)

		// Check error type to determine exit code
		var validationErr *ValidationError
		if errors.As(err, &validationErr) {
			os.Exit(ExitInvalidInput)
		}

		// All other errors are raster library or runtime errors
		os.Exit(ExitError)
	}
}
