package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hamed0406/tracegate/internal/envfile"
)

// preflight validates the env file the sibling applications will load.
// Warnings do not fail the command; missing or empty key pairs do.
func newPreflightCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "preflight",
		Short: "Validate the provisioned env file before starting client apps",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.load()
			if err != nil {
				return err
			}
			defer logger.Sync()

			body, err := os.ReadFile(cfg.EnvFile)
			if err != nil {
				return fmt.Errorf("read %s: %w (run `tracegate up` first)", cfg.EnvFile, err)
			}
			vars := envfile.Parse(string(body))

			failed := false
			fail := func(msg string) {
				fmt.Fprintln(os.Stderr, "✖", msg)
				failed = true
			}
			warn := func(msg string) { fmt.Fprintln(os.Stderr, "⚠", msg) }
			ok := func(msg string) { fmt.Println("✔", msg) }

			if host := vars["LANGFUSE_HOST"]; host == "" {
				warn("LANGFUSE_HOST is empty; clients will fall back to their own default")
			} else {
				ok("LANGFUSE_HOST=" + host)
			}

			for _, p := range cfg.Projects {
				prefix := envfile.VarPrefix(p)
				for _, suffix := range []string{"_PUBLIC_KEY", "_SECRET_KEY"} {
					name := prefix + suffix
					v := vars[name]
					switch {
					case v == "":
						fail(name + " is missing or empty (clients for " + p + " will refuse to start)")
					case strings.ContainsAny(v, " \t"):
						warn(name + " contains whitespace; check for a paste error")
					default:
						ok(name + " present")
					}
				}
			}

			if failed {
				return fmt.Errorf("preflight failed for %s", cfg.EnvFile)
			}
			ok("preflight passed")
			return nil
		},
	}
}
