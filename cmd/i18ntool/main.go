// Copyright 2024 - 2026, the OpenLearn contributors
// SPDX-License-Identifier: AGPL-3.0-only

// i18ntool drives the OpenLearn translation-catalog workflow: it runs the
// external string-extraction tools over a source tree and leaves behind
// normalized per-locale .po catalogs ready for the translation platform.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"codeberg.org/openlearn/i18ntool/audit"
	"codeberg.org/openlearn/i18ntool/config"
	"codeberg.org/openlearn/i18ntool/extract"
)

// version is set via -ldflags during release builds.
var version = "dev"

func main() {
	audit.SetDefaultLogger()

	if err := newRootCmd().Execute(); err != nil {
		log.Error().Err(err).Msg("Run failed")
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbose int

	root := &cobra.Command{
		Use:   "i18ntool",
		Short: "Extract and normalize translation catalogs",
		PersistentPreRun: func(*cobra.Command, []string) {
			audit.SetVerbosity(verbose)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().IntVarP(&verbose, "verbose", "v", 1,
		"Verbosity level: 0 quiet, 1 normal, 2 verbose. Also controls whether extraction-tool stderr is shown.")

	root.AddCommand(
		newExtractCmd(&verbose),
		newConfigCmd(),
		newVersionCmd(),
	)

	return root
}

func newExtractCmd(verbose *int) *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Run every extraction pass and produce normalized per-locale catalogs",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			return extract.New(cfg, extract.Options{Verbose: *verbose}).Run()
		},
	}

	cmd.Flags().StringVar(&configPath, "config", config.DefaultPath,
		"Path to the translation configuration file.")

	return cmd
}

func newConfigCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the resolved translation configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			out, err := cfg.YAML()
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), out)

			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", config.DefaultPath,
		"Path to the translation configuration file.")

	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the i18ntool version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "i18ntool "+version)
		},
	}
}
