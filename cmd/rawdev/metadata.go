package main

import (
	"os"

	"github.com/weaming/rawdev-go/develop"
	"github.com/weaming/rawdev-go/output"
)

func dumpMetadata(input string, config output.Config, pipeline *develop.Pipeline, logger *develop.Logger) error {
	outputPath := input + ".meta"

	params, err := output.LoadParams(output.ParamsPathFor(input, config))
	if err != nil {
		return err
	}

	var transform *develop.WorkingTransform
	if t, err := pipeline.WorkingTransform(params); err != nil {
		logger.Warn("%s: %v", input, err)
	} else {
		transform = &t
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return &develop.IOError{Path: outputPath, Err: err}
	}
	defer f.Close()

	output.DumpMetadata(f, params, transform)
	if err := f.Close(); err != nil {
		return &develop.IOError{Path: outputPath, Err: err}
	}

	logger.Info("dump meta data to %s", outputPath)
	return nil
}

