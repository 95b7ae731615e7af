package sysinfo

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// runCommand executes name with args under CommandTimeout and returns its
// trimmed stdout.
func (r *Resolver) runCommand(ctx context.Context, name string, args ...string) (string, error) {
	path, err := r.lookPath(name)
	if err != nil {
		return "", fmt.Errorf("sysinfo: find %s: %w", name, err)
	}

	execCtx, cancel := context.WithTimeout(ctx, r.opts.CommandTimeout)
	defer cancel()

	r.logger.Debug("executing command", "binary", path, "args", args)

	output, err := r.execCommand(execCtx, path, args...).Output()
	if err != nil {
		if errors.Is(execCtx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("sysinfo: %s timed out after %s", name, r.opts.CommandTimeout)
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", fmt.Errorf("sysinfo: %s exited with code %d", name, exitErr.ExitCode())
		}
		return "", fmt.Errorf("sysinfo: run %s: %w", name, err)
	}

	return strings.TrimSpace(string(output)), nil
}
