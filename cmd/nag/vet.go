package main

import (
	"fmt"

	"github.com/aseptimu/nag/internal/app/config"
	"github.com/aseptimu/nag/internal/app/logger"
	"github.com/aseptimu/nag/internal/app/orchestrator"
	"github.com/spf13/cobra"
)

func newVetCmd() *cobra.Command {
	return &cobra.Command{
		Use:                "vet [go vet flags] [packages]",
		Short:              "Build the linter and run go vet with it",
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.NewConfig()
			if err != nil {
				return err
			}

			log, err := logger.New(cfg.LogLevel)
			if err != nil {
				return fmt.Errorf("create logger: %w", err)
			}
			defer func() { _ = log.Sync() }()

			runner := orchestrator.NewExecRunner()
			runner.Stdout = cmd.OutOrStdout()
			runner.Stderr = cmd.ErrOrStderr()

			return orchestrator.New(cfg, runner, log).Vet(cmd.Context(), args)
		},
	}
}
