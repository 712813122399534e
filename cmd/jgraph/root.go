package main

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type cliState struct {
	cfgPath string
	cfg     config
	logger  *zap.Logger
}

func rootCommand() *cobra.Command {
	state := &cliState{}

	root := &cobra.Command{
		Use:          "jgraph",
		Short:        "jgraph encodes, decodes, and stores JSON object graphs",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(state.cfgPath)
			if err != nil {
				return err
			}
			state.cfg = cfg

			logger, err := zap.NewProduction()
			if err != nil {
				return err
			}
			state.logger = logger
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if state.logger != nil {
				return state.logger.Sync()
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&state.cfgPath, "config", "", "path to .jgraph.toml config file")

	root.AddCommand(newEncodeCmd(state))
	root.AddCommand(newDecodeCmd(state))
	root.AddCommand(newStoreCmd(state))

	return root
}

func withTimeout(ctx context.Context, state *cliState) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, state.cfg.Timeout)
}
