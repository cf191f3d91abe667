package main

import (
	"bytes"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/wippyai/comsafe/taxonomy"
)

func generate(opts options, logger *zap.Logger) error {
	in, err := os.Open(opts.Input)
	if err != nil {
		return fmt.Errorf("open table: %w", err)
	}
	defer in.Close()

	taxonomies, err := taxonomy.Parse(in)
	if err != nil {
		return fmt.Errorf("%s: %w", opts.Input, err)
	}
	for _, t := range taxonomies {
		logger.Debug("taxonomy parsed",
			zap.String("name", t.Name),
			zap.Int("codes", len(t.Codes)))
	}

	src, err := taxonomy.Generate(opts.Package, opts.Import, taxonomies)
	if err != nil {
		return err
	}

	if old, err := os.ReadFile(opts.Output); err == nil && bytes.Equal(old, src) {
		logger.Info("output unchanged", zap.String("output", opts.Output))
		return nil
	}
	if err := os.WriteFile(opts.Output, src, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	logger.Info("generated",
		zap.String("output", opts.Output),
		zap.Int("taxonomies", len(taxonomies)))
	return nil
}

func newLogger(verbose bool) *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
