// Package main is the entrypoint for tracegate, which bootstraps a local
// tracing stack (server + database via docker compose), gates on its
// readiness, and provisions per-project API credentials.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hamed0406/tracegate/internal/compose"
	"github.com/hamed0406/tracegate/internal/config"
	"github.com/hamed0406/tracegate/internal/gate"
	"github.com/hamed0406/tracegate/internal/logging"
	"github.com/hamed0406/tracegate/internal/probe"
)

var version = "dev"

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type rootOptions struct {
	configFile string
	verbose    bool
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "tracegate",
		Short: "Stand up a local tracing stack and wait until it is ready",
		Long: `tracegate launches a containerized tracing server and its database via
docker compose, polls the server's health endpoint until it answers, and
provisions per-project API credential pairs into an env file the sibling
applications read.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "tracegate.yaml", "path to the stack config file")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "echo probe attempts to stderr")

	cmd.AddCommand(
		newUpCommand(opts),
		newDownCommand(opts),
		newWaitCommand(opts),
		newCheckCommand(opts),
		newServeCommand(opts),
		newPreflightCommand(opts),
	)
	return cmd
}

// load reads the stack config and builds the logger. Shared by every
// subcommand except `up`, which materializes the config file first.
func (o *rootOptions) load() (config.Config, *zap.Logger, error) {
	cfg, err := config.Load(o.configFile)
	if err != nil {
		return config.Config{}, nil, err
	}
	logger, err := logging.NewLogger(cfg.LogDir, o.verbose)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, logger, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func gateDefaults(cfg config.Config) gate.Config {
	return gate.Config{
		MaxAttempts:       cfg.Retry.MaxAttempts,
		Interval:          cfg.Retry.Interval(),
		TimeoutPerAttempt: cfg.Retry.Timeout(),
	}
}

func newWaitCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "wait",
		Short: "Block until every configured service answers its health check",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.load()
			if err != nil {
				return err
			}
			defer logger.Sync()

			ctx, stop := signalContext()
			defer stop()
			return waitForStack(ctx, cfg, logger)
		},
	}
}

// waitForStack gates every service and prints one line per outcome. The
// gate itself never exits the process; a NotReady report becomes a non-nil
// error and the caller's non-zero exit.
func waitForStack(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	checker := probe.NewHTTPChecker(cfg.Retry.Timeout())
	mg := gate.NewMultiGate(logger, checker, gateDefaults(cfg))

	reports, err := mg.WaitAll(ctx, cfg.Services)
	for _, svc := range cfg.Services {
		rep, attempted := reports[svc.Name]
		switch {
		case !attempted:
			fmt.Printf("⚠ %s: not attempted\n", svc.Name)
		case rep.Ready:
			fmt.Printf("✔ %s ready after %d attempt(s)\n", svc.Name, rep.Attempts)
		default:
			fmt.Printf("✖ %s not ready after %d attempt(s): %s\n", svc.Name, rep.Attempts, rep.Last.Message)
		}
	}
	if err != nil {
		return fmt.Errorf("stack not ready: %w", err)
	}
	return nil
}

func newCheckCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Probe every configured service once and report",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.load()
			if err != nil {
				return err
			}
			defer logger.Sync()

			ctx, stop := signalContext()
			defer stop()

			checker := probe.NewHTTPChecker(cfg.Retry.Timeout())
			g := gate.New(logger, checker)

			down := 0
			for _, svc := range cfg.Services {
				rep := g.Wait(ctx, gate.Config{
					TargetURL:         svc.HealthURL,
					MaxAttempts:       1,
					TimeoutPerAttempt: cfg.Retry.Timeout(),
				})
				if rep.Ready {
					fmt.Printf("✔ %s up (%d, %.0f ms)\n", svc.Name, rep.Last.StatusCode, rep.Last.LatencyMS)
				} else {
					down++
					fmt.Printf("✖ %s down: %s\n", svc.Name, rep.Last.Message)
				}
			}
			if down > 0 {
				return fmt.Errorf("%d service(s) down", down)
			}
			return nil
		},
	}
}

func newDownCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "down",
		Short: "Stop and remove the stack's containers",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.load()
			if err != nil {
				return err
			}
			defer logger.Sync()

			ctx, stop := signalContext()
			defer stop()

			if err := compose.New(cfg.ComposeFile, cfg.ProjectName, logger).Down(ctx); err != nil {
				return err
			}
			fmt.Println("✔ stack stopped")
			return nil
		},
	}
}

// checkTimeout bounds the on-demand probes issued by the status server.
func checkTimeout(cfg config.Config) time.Duration {
	if t := cfg.Retry.Timeout(); t > 0 {
		return t
	}
	return 5 * time.Second
}
