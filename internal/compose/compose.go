// Package compose wraps the docker compose CLI for container lifecycle
// operations. All the real work happens in docker; this package only
// assembles arguments and relays output.
package compose

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// Runner executes docker compose commands for one project.
type Runner struct {
	// Dir is the working directory for compose commands.
	Dir string

	// File is the compose file; empty uses compose's own lookup rules.
	File string
}

// DockerAvailable checks that the docker CLI is installed and the daemon
// answers.
func DockerAvailable(ctx context.Context) error {
	cmd := exec.CommandContext(ctx, "docker", "version")
	if out, err := cmd.CombinedOutput(); err != nil {
		if _, ok := err.(*exec.Error); ok {
			return fmt.Errorf("docker command not found: install Docker or Rancher Desktop")
		}
		return fmt.Errorf("docker is not running: %s", strings.TrimSpace(string(out)))
	}
	return nil
}

// Up starts the project. With detach the call returns once the containers
// are created; otherwise it streams output until interrupted.
func (r Runner) Up(ctx context.Context, detach, build bool) error {
	args := []string{"up"}
	if detach {
		args = append(args, "-d")
	}
	if build {
		args = append(args, "--build")
	}
	if detach {
		return r.run(ctx, args...)
	}
	return r.stream(ctx, args...)
}

// Stop stops the containers without removing them.
func (r Runner) Stop(ctx context.Context) error {
	return r.run(ctx, "stop")
}

// Restart restarts the containers.
func (r Runner) Restart(ctx context.Context) error {
	return r.run(ctx, "restart")
}

// Down stops and removes the containers. With removeVolumes it also
// deletes the data volumes.
func (r Runner) Down(ctx context.Context, removeVolumes bool) error {
	args := []string{"down"}
	if removeVolumes {
		args = append(args, "-v")
	}
	return r.run(ctx, args...)
}

// Logs relays service logs to the terminal. With follow it blocks until
// the context is cancelled or the user interrupts.
func (r Runner) Logs(ctx context.Context, service string, follow bool, tail int) error {
	args := []string{"logs", "--tail=" + strconv.Itoa(tail)}
	if follow {
		args = append(args, "-f")
	}
	if service != "" {
		args = append(args, service)
	}
	return r.stream(ctx, args...)
}

// Status returns the compose ps output.
func (r Runner) Status(ctx context.Context) (string, error) {
	cmd := r.command(ctx, "ps")
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", wrapRunError(cmd, out, err)
	}
	return string(out), nil
}

// command builds a "docker compose" invocation with the runner's file and
// working directory applied.
func (r Runner) command(ctx context.Context, args ...string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, "docker", Args(r.File, args...)...)
	cmd.Dir = r.Dir
	return cmd
}

// Args returns the docker CLI arguments for a compose subcommand, exported
// so the construction stays testable without docker installed.
func Args(file string, args ...string) []string {
	full := []string{"compose"}
	if file != "" {
		full = append(full, "-f", file)
	}
	return append(full, args...)
}

// run executes a compose command, reporting its output only on failure.
func (r Runner) run(ctx context.Context, args ...string) error {
	cmd := r.command(ctx, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return wrapRunError(cmd, out, err)
	}
	return nil
}

// stream executes a compose command wired to the terminal.
func (r Runner) stream(ctx context.Context, args ...string) error {
	cmd := r.command(ctx, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s failed: %w", strings.Join(cmd.Args, " "), err)
	}
	return nil
}

func wrapRunError(cmd *exec.Cmd, out []byte, err error) error {
	msg := strings.TrimSpace(string(out))
	if msg == "" {
		return fmt.Errorf("%s failed: %w", strings.Join(cmd.Args, " "), err)
	}
	return fmt.Errorf("%s failed: %w: %s", strings.Join(cmd.Args, " "), err, msg)
}
