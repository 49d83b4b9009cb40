package compiler

import (
	"path"
	"strings"

	"github.com/lhaig/oxidize/internal/ir"
	"github.com/lhaig/oxidize/internal/rustbe"
)

// implicitCrates never need an extern crate declaration.
var implicitCrates = []string{"std", "core", "alloc", "crate", "self", "super"}

// ModuleRegistry tracks the modules a run emits, the package directories
// that hold them and the crates their imports reach. Every set keeps
// first-insertion order so the emitted files are deterministic.
type ModuleRegistry struct {
	modules  *rustbe.NameSet            // module roots declared by the entry file
	crates   *rustbe.NameSet            // root packages imported by any module
	children map[string]*rustbe.NameSet // package directory -> child module names
	dirs     []string                   // package directories in first-seen order
}

// NewModuleRegistry creates an empty registry.
func NewModuleRegistry() *ModuleRegistry {
	return &ModuleRegistry{
		modules:  rustbe.NewNameSet(),
		crates:   rustbe.NewNameSet(),
		children: make(map[string]*rustbe.NameSet),
	}
}

// Register records the module of a declaration and returns the file path of
// its source, relative to the crate root. Every intermediate package becomes
// a directory with a mod.rs listing its children.
func (r *ModuleRegistry) Register(declPath ir.Path) string {
	segments := rustbe.ModulePath(declPath)
	r.modules.Add(segments[0])
	for i := 1; i < len(segments); i++ {
		dir := strings.Join(segments[:i], "/")
		if _, ok := r.children[dir]; !ok {
			r.children[dir] = rustbe.NewNameSet()
			r.dirs = append(r.dirs, dir)
		}
		r.children[dir].Add(segments[i])
	}
	return path.Join("src", strings.Join(segments, "/")+".rs")
}

// Crates is the run-wide dependency set shared by every module context.
func (r *ModuleRegistry) Crates() *rustbe.NameSet {
	return r.crates
}

// Roots returns the top-level module names.
func (r *ModuleRegistry) Roots() []string {
	return r.modules.Names()
}

// PackageDirs returns the package directories, relative to src.
func (r *ModuleRegistry) PackageDirs() []string {
	return append([]string(nil), r.dirs...)
}

// ModSource renders the mod.rs of a package directory.
func (r *ModuleRegistry) ModSource(dir string) string {
	var sb strings.Builder
	if children, ok := r.children[dir]; ok {
		for _, child := range children.Names() {
			sb.WriteString("pub mod " + child + ";\n")
		}
	}
	return sb.String()
}

// ExternCrates returns the dependency roots that are neither modules of this
// crate nor implicitly available.
func (r *ModuleRegistry) ExternCrates(implicit []string) []string {
	skip := make(map[string]bool)
	for _, name := range implicitCrates {
		skip[name] = true
	}
	for _, name := range implicit {
		skip[name] = true
	}
	var result []string
	for _, name := range r.crates.Names() {
		if skip[name] || r.modules.Has(name) {
			continue
		}
		result = append(result, name)
	}
	return result
}
