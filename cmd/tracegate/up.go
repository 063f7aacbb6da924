package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hamed0406/tracegate/internal/compose"
	"github.com/hamed0406/tracegate/internal/config"
	"github.com/hamed0406/tracegate/internal/envfile"
)

func newUpCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Launch the tracing stack, wait for readiness, provision credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Materialize missing config before loading it.
			if created, err := config.Ensure(opts.configFile); err != nil {
				return err
			} else if created {
				fmt.Printf("✔ wrote default config to %s\n", opts.configFile)
			}

			cfg, logger, err := opts.load()
			if err != nil {
				return err
			}
			defer logger.Sync()

			if created, err := config.EnsureComposeFile(cfg.ComposeFile); err != nil {
				return err
			} else if created {
				fmt.Printf("✔ wrote compose file to %s\n", cfg.ComposeFile)
			}

			if created, err := envfile.Materialize(cfg.EnvFile, cfg.TracingHost, cfg.Projects); err != nil {
				return err
			} else if created {
				fmt.Printf("✔ provisioned credentials for %d project(s) in %s\n", len(cfg.Projects), cfg.EnvFile)
			} else {
				fmt.Printf("✔ %s already present, keeping existing credentials\n", cfg.EnvFile)
			}

			ctx, stop := signalContext()
			defer stop()

			fmt.Println("… starting containers (first run may pull images)")
			if err := compose.New(cfg.ComposeFile, cfg.ProjectName, logger).Up(ctx); err != nil {
				return err
			}

			if err := waitForStack(ctx, cfg, logger); err != nil {
				fmt.Println("✖ the stack did not become ready; check `docker compose logs` and retry")
				return err
			}

			printNextSteps(cfg)
			return nil
		},
	}
}

func printNextSteps(cfg config.Config) {
	fmt.Println()
	fmt.Println("✔ tracing stack is ready")
	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Printf("  1. Open %s and create an account (first signup becomes admin).\n", cfg.TracingHost)
	fmt.Printf("  2. Create the projects below and paste their API keys into %s\n", cfg.EnvFile)
	fmt.Println("     (generated placeholders are already there):")
	for _, p := range cfg.Projects {
		prefix := envfile.VarPrefix(p)
		fmt.Printf("       - %s: %s_PUBLIC_KEY / %s_SECRET_KEY\n", p, prefix, prefix)
	}
	fmt.Printf("  3. Point the client applications at %s via LANGFUSE_HOST.\n", cfg.TracingHost)
	fmt.Printf("  4. Run `tracegate preflight` to validate %s before starting them.\n", cfg.EnvFile)
}
