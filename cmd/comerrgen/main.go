// Command comerrgen turns an error table into per-operation Go error types.
//
//	//go:generate go run ../cmd/comerrgen --input errors.md --output zz_generated_errors.go --package async
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wippyai/comsafe"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg := newConfig()

	cmd := &cobra.Command{
		Use:           "comerrgen --input errors.md --output zz_generated_errors.go --package name",
		Short:         "Generate typed error taxonomies from an error table",
		Version:       comsafe.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return cfg.load(cmd.Flags())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := cfg.options()
			if err != nil {
				return err
			}
			logger := newLogger(opts.Verbose)
			defer func() { _ = logger.Sync() }()
			return generate(opts, logger)
		},
	}

	f := cmd.Flags()
	f.StringVar(&cfg.file, "config", "", "config file (default: .comerrgen.yaml in the working directory)")
	f.String(keyInput, "", "error table to read")
	f.String(keyOutput, "", "Go file to write")
	f.String(keyPackage, "", "package clause of the generated file")
	f.String(keyImport, "", "import path of the hresult package")
	f.BoolP(keyVerbose, "v", false, "log progress")

	return cmd
}
