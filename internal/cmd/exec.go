// Package cmd provides helpers for executing external commands with proper error handling.
package cmd

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/raphi011/recents/internal/log"
)

// Run executes a command and returns stderr in the error message if it fails
func Run(cmd *exec.Cmd) error {
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return withStderr(err, stderr.String())
	}
	return nil
}

// Output executes a command and returns stdout, with stderr in error if it fails
func Output(cmd *exec.Cmd) ([]byte, error) {
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	output, err := cmd.Output()
	if err != nil {
		return nil, withStderr(err, stderr.String())
	}
	return output, nil
}

// RunContext executes name with args in dir, logging the command in verbose mode.
// If ctx is done before the command finishes, ctx.Err() is returned.
func RunContext(ctx context.Context, dir, name string, args ...string) error {
	c, done := command(ctx, dir, name, args...)
	err := Run(c)
	done()
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	return nil
}

// OutputContext is like RunContext but returns stdout.
func OutputContext(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	c, done := command(ctx, dir, name, args...)
	out, err := Output(c)
	done()
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, err
	}
	return out, nil
}

func command(ctx context.Context, dir, name string, args ...string) (*exec.Cmd, func()) {
	logDone := log.FromContext(ctx).Command(dir, name, args...)
	start := time.Now()

	c := exec.CommandContext(ctx, name, args...)
	c.Dir = dir
	return c, func() { logDone(time.Since(start)) }
}

// withStderr keeps err in the chain so callers can still match it with
// errors.Is / errors.As.
func withStderr(err error, stderr string) error {
	if msg := strings.TrimSpace(stderr); msg != "" {
		return fmt.Errorf("%s: %w", msg, err)
	}
	return err
}
