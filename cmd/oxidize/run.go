package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/jessevdk/go-flags"
	"github.com/viant/afs"

	"github.com/lhaig/oxidize/internal/compiler"
	"github.com/lhaig/oxidize/internal/config"
	"github.com/lhaig/oxidize/internal/ir"
	"github.com/lhaig/oxidize/internal/linter"
	"github.com/lhaig/oxidize/internal/loader"
	"github.com/lhaig/oxidize/internal/logging"
)

// checkOutput is the scratch root a check run generates into.
const checkOutput = "mem://localhost/oxidize/check"

type app struct {
	fs     afs.Service
	stdout io.Writer
	stderr io.Writer
}

// run executes one command line and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	options := &Options{}
	parser := flags.NewParser(options, flags.HelpFlag|flags.PassDoubleDash)
	parser.Name = "oxidize"
	parser.SubcommandsOptional = true
	if _, err := parser.ParseArgs(args); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			fmt.Fprintln(stdout, err)
			return 0
		}
		fmt.Fprintln(stderr, err)
		return 1
	}
	if options.Version {
		fmt.Fprintf(stdout, "oxidize %s\n", version)
		return 0
	}
	if parser.Active == nil {
		parser.WriteHelp(stderr)
		return 1
	}

	a := &app{fs: afs.New(), stdout: stdout, stderr: stderr}
	var err error
	switch parser.Active.Name {
	case "build":
		err = a.generate(ctx, options.Build, false)
	case "emit":
		err = a.generate(ctx, options.Emit, true)
	case "check":
		err = a.check(ctx, options.Check)
	}
	if err == nil {
		return 0
	}

	var buildErr *compiler.BuildError
	if errors.As(err, &buildErr) {
		fmt.Fprintf(stderr, "build failed: %v\n", buildErr)
		if buildErr.Output != "" {
			fmt.Fprint(stderr, buildErr.Output)
		}
		return 1
	}
	fmt.Fprintf(stderr, "error: %v\n", err)
	return 1
}

// setup loads the configuration and the program named by in.
func (a *app) setup(ctx context.Context, in *Input) (*config.Config, *ir.Program, error) {
	in.Init()
	cfg := config.Default()
	if in.Config != "" {
		loaded, err := config.Load(ctx, a.fs, in.Config)
		if err != nil {
			return nil, nil, err
		}
		cfg = loaded
	}
	if in.LogLevel != "" {
		cfg.Log.Level = in.LogLevel
	}
	prog, err := loader.Load(ctx, a.fs, in.Program)
	if err != nil {
		return nil, nil, err
	}
	return cfg, prog, nil
}

func (a *app) generate(ctx context.Context, options *Build, skipBuild bool) error {
	cfg, prog, err := a.setup(ctx, &options.Input)
	if err != nil {
		return err
	}
	if options.Output != "" {
		cfg.Output = options.Output
	}
	cfg.Output = ensureAbsPath(cfg.Output)
	if skipBuild {
		cfg.Build.Skip = true
	}

	logger := logging.New(cfg.Log.Level, a.stderr)
	result, err := compiler.New(cfg, compiler.WithFS(a.fs), compiler.WithLogger(logger)).Run(ctx, prog)
	if result != nil {
		fmt.Fprintf(a.stdout, "%s: %d written, %d unchanged (%s)\n", cfg.Output, len(result.Written), len(result.Unchanged), result.Entry)
	}
	return err
}

// check validates and lints the program, then generates it into memory so
// unsupported expressions are reported without touching the file system.
func (a *app) check(ctx context.Context, in *Input) error {
	cfg, prog, err := a.setup(ctx, in)
	if err != nil {
		return err
	}
	diags := ir.Validate(prog)
	if diags.HasErrors() {
		return diags.Err()
	}
	diags.Merge(linter.Lint(prog))
	if diags.Count() > 0 {
		fmt.Fprintln(a.stderr, diags.Format())
	}

	cfg.Output = checkOutput
	cfg.Build.Skip = true
	defer a.fs.Delete(ctx, checkOutput)
	if _, err := compiler.New(cfg, compiler.WithFS(a.fs)).Run(ctx, prog); err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "%s: %d types ok\n", in.Program, len(prog.Types))
	return nil
}
