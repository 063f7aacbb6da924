// Package compose drives the docker compose CLI. Readiness is not its job;
// the gate probes health endpoints after Up returns.
package compose

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"go.uber.org/zap"
)

// runner executes one command and returns its combined output. Tests swap
// it for a fake; the default shells out.
type runner func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

type Compose struct {
	File    string // compose file path
	Project string // compose project name (-p)
	Logger  *zap.Logger

	run runner
}

func New(file, project string, logger *zap.Logger) *Compose {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Compose{File: file, Project: project, Logger: logger, run: execRunner}
}

// Up starts the stack detached. It returns once the containers are created;
// it does not wait for them to become healthy.
func (c *Compose) Up(ctx context.Context) error {
	return c.exec(ctx, "up", "-d")
}

// Down stops and removes the stack's containers.
func (c *Compose) Down(ctx context.Context) error {
	return c.exec(ctx, "down")
}

// PS returns the compose status listing.
func (c *Compose) PS(ctx context.Context) (string, error) {
	args := c.args("ps")
	out, err := c.run(ctx, "docker", args...)
	if err != nil {
		return "", fmt.Errorf("docker %s: %w: %s", strings.Join(args, " "), err, strings.TrimSpace(string(out)))
	}
	return string(out), nil
}

func (c *Compose) exec(ctx context.Context, sub ...string) error {
	args := c.args(sub...)
	c.Logger.Info("compose_exec", zap.Strings("args", args))
	out, err := c.run(ctx, "docker", args...)
	if err != nil {
		return fmt.Errorf("docker %s: %w: %s", strings.Join(args, " "), err, strings.TrimSpace(string(out)))
	}
	return nil
}

func (c *Compose) args(sub ...string) []string {
	args := []string{"compose"}
	if c.File != "" {
		args = append(args, "-f", c.File)
	}
	if c.Project != "" {
		args = append(args, "-p", c.Project)
	}
	return append(args, sub...)
}
