package main

import (
	"net/http"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hamed0406/tracegate/internal/httpapi"
	"github.com/hamed0406/tracegate/internal/probe"
	"github.com/hamed0406/tracegate/internal/state"
)

func newServeCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve a status API that reports the stack's health",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.load()
			if err != nil {
				return err
			}
			defer logger.Sync()

			store := state.New()
			checker := probe.NewHTTPChecker(checkTimeout(cfg))
			api := httpapi.NewServer(logger, cfg.Services, store, checker, checkTimeout(cfg))

			logger.Info("status_api_listen", zap.String("addr", cfg.ListenAddr))
			return http.ListenAndServe(cfg.ListenAddr, api.Router())
		},
	}
}
