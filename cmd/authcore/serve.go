package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/nutricare/authcore/app"
	"github.com/nutricare/authcore/pkg/config"
	"github.com/nutricare/authcore/pkg/logger"
	"github.com/nutricare/authcore/pkg/requestid"
)

func newServeCmd() *cobra.Command {
	var envFiles []string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var cfg app.Config
			var err error
			if len(envFiles) > 0 {
				err = config.LoadFiles(&cfg, envFiles...)
			} else {
				err = config.Load(&cfg)
			}
			if err != nil {
				return err
			}

			log := logger.New(
				logger.WithEnvironment(cfg.Env, cfg.Name),
				logger.WithOutput(cmd.ErrOrStderr()),
				logger.WithContextExtractors(requestid.LoggerExtractor()),
			)

			ctx := cmd.Context()
			a, err := app.New(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer func() {
				closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := a.Close(closeCtx); err != nil {
					log.Error("shutdown cleanup failed", logger.Error(err))
				}
			}()

			return a.Run(ctx)
		},
	}
	cmd.Flags().StringSliceVar(&envFiles, "env-file", nil, "env files to load instead of ./.env")
	return cmd
}
