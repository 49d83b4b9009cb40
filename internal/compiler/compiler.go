package compiler

import (
	"context"
	"log/slog"
	"path"

	"github.com/viant/afs"

	"github.com/lhaig/oxidize/internal/config"
	"github.com/lhaig/oxidize/internal/ir"
	"github.com/lhaig/oxidize/internal/logging"
	"github.com/lhaig/oxidize/internal/rustbe"
)

// Result describes a completed run.
type Result struct {
	// Entry is src/main.rs or src/lib.rs.
	Entry string
	// Written and Unchanged list crate-relative file paths.
	Written   []string
	Unchanged []string
	// Modules are the top-level module names; Crates the external dependencies.
	Modules []string
	Crates  []string
}

// Compiler turns a typed program into a Cargo crate.
type Compiler struct {
	cfg    *config.Config
	fs     afs.Service
	logger *slog.Logger
	casts  rustbe.CastRewriter
	runner Runner
}

// Option customises a Compiler.
type Option func(c *Compiler)

// WithFS sets the file system the crate is written to.
func WithFS(fs afs.Service) Option {
	return func(c *Compiler) { c.fs = fs }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Compiler) { c.logger = logger }
}

// WithCasts replaces the value-preserving cast rewriter.
func WithCasts(casts rustbe.CastRewriter) Option {
	return func(c *Compiler) { c.casts = casts }
}

// WithRunner replaces the build command runner.
func WithRunner(runner Runner) Option {
	return func(c *Compiler) { c.runner = runner }
}

// New creates a compiler for cfg; a nil cfg selects the defaults.
func New(cfg *config.Config, opts ...Option) *Compiler {
	if cfg == nil {
		cfg = config.Default()
	}
	c := &Compiler{cfg: cfg}
	for _, opt := range opts {
		opt(c)
	}
	if c.fs == nil {
		c.fs = afs.New()
	}
	if c.logger == nil {
		c.logger = logging.Discard()
	}
	if c.casts == nil {
		c.casts = rustbe.DefaultCasts{}
	}
	if c.runner == nil {
		c.runner = ExecRunner{}
	}
	return c
}

// Run writes one Rust module per emitted declaration, the package mod.rs
// files, the crate root and Cargo.toml, then runs the build command unless
// it is disabled. Generation stops at the first error; files already written
// are left in place.
func (c *Compiler) Run(ctx context.Context, prog *ir.Program) (*Result, error) {
	if diag := ir.Validate(prog); diag.HasErrors() {
		return nil, diag.Err()
	}

	registry := NewModuleRegistry()
	out := newWriter(c.fs, c.cfg.Output, c.logger)

	for _, decl := range prog.Types {
		if !emitted(decl) {
			continue
		}
		file := registry.Register(decl.DeclPath())
		module := rustbe.NewContext(rustbe.ModulePath(decl.DeclPath()), registry.Crates())
		module.Casts = c.casts
		if err := module.EmitDecl(decl); err != nil {
			return nil, err
		}
		c.logger.Debug("emitted module", "type", decl.DeclPath().String(), "path", file)
		if err := out.write(ctx, file, module.Source()); err != nil {
			return nil, err
		}
	}

	for _, dir := range registry.PackageDirs() {
		if err := out.write(ctx, path.Join("src", dir, "mod.rs"), registry.ModSource(dir)); err != nil {
			return nil, err
		}
	}

	entry := entryFile(prog)
	source, err := c.entrySource(prog, registry)
	if err != nil {
		return nil, err
	}
	if err := out.write(ctx, entry, source); err != nil {
		return nil, err
	}

	crates := registry.ExternCrates(c.cfg.Implicit)
	if err := out.write(ctx, "Cargo.toml", c.manifest(entry, crates)); err != nil {
		return nil, err
	}

	result := &Result{
		Entry:     entry,
		Written:   out.written,
		Unchanged: out.skipped,
		Modules:   registry.Roots(),
		Crates:    crates,
	}
	c.logger.Info("generated crate", "root", c.cfg.Output, "written", len(out.written), "unchanged", len(out.skipped))

	if c.cfg.Build.Skip {
		return result, nil
	}
	return result, c.build(ctx)
}

// emitted reports whether decl gets a module of its own. Extern declarations
// exist elsewhere; typedefs and abstracts are resolved away by the type
// projector.
func emitted(decl ir.Decl) bool {
	if decl.IsExtern() {
		return false
	}
	switch decl.(type) {
	case *ir.ClassDecl, *ir.EnumDecl:
		return true
	}
	return false
}
