package compiler

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
)

// BuildError reports a build command that ran and failed. It is distinct
// from generation errors: every file has been written when it occurs.
type BuildError struct {
	Command  []string
	ExitCode int
	Output   string
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("%s failed with exit code %d", strings.Join(e.Command, " "), e.ExitCode)
}

// Runner executes the build command in the crate root.
type Runner interface {
	Run(ctx context.Context, rootURL string, command []string) (output []byte, err error)
}

// ExecRunner runs the command as a local process.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, rootURL string, command []string) ([]byte, error) {
	if len(command) == 0 {
		return nil, fmt.Errorf("empty build command")
	}
	if scheme := url.Scheme(rootURL, file.Scheme); scheme != file.Scheme {
		return nil, fmt.Errorf("cannot build in %v: %v is not a local file system", rootURL, scheme)
	}
	cmd := exec.CommandContext(ctx, command[0], command[1:]...)
	cmd.Dir = url.Path(rootURL)
	return cmd.CombinedOutput()
}

func (c *Compiler) build(ctx context.Context) error {
	command := c.cfg.Build.Command
	c.logger.Info("building crate", "command", strings.Join(command, " "), "root", c.cfg.Output)
	output, err := c.runner.Run(ctx, c.cfg.Output, command)
	if err == nil {
		return nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &BuildError{Command: command, ExitCode: exitErr.ExitCode(), Output: string(output)}
	}
	var buildErr *BuildError
	if errors.As(err, &buildErr) {
		return buildErr
	}
	return fmt.Errorf("failed to run %s: %w", strings.Join(command, " "), err)
}
