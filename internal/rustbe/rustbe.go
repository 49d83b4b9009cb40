// Package rustbe renders typed program declarations as Rust source. One
// Context covers one output module; the module assembler in package compiler
// drives it declaration by declaration.
package rustbe

import (
	"github.com/lhaig/oxidize/internal/ir"
)

// Generate renders decl as the complete source of its own module. crates
// collects the root packages the module imports from.
func Generate(decl ir.Decl, crates *NameSet) (string, error) {
	ctx := NewContext(ModulePath(decl.DeclPath()), crates)
	if err := ctx.EmitDecl(decl); err != nil {
		return "", err
	}
	return ctx.Source(), nil
}
