package compiler

import (
	"fmt"
	"strings"

	"github.com/lhaig/oxidize/internal/ir"
	"github.com/lhaig/oxidize/internal/rustbe"
)

const (
	mainFile = "src/main.rs"
	libFile  = "src/lib.rs"
)

// entryFile returns the crate root: main.rs when the program has an entry
// expression, lib.rs otherwise.
func entryFile(prog *ir.Program) string {
	if prog.Main != nil {
		return mainFile
	}
	return libFile
}

// entrySource renders the crate root. It is produced after every module so
// the extern crate list covers the whole run, the root's own imports
// included.
func (c *Compiler) entrySource(prog *ir.Program, registry *ModuleRegistry) (string, error) {
	ctx := rustbe.NewContext(nil, registry.Crates())
	ctx.Casts = c.casts
	roots := registry.Roots()
	ctx.Reserve(roots...)

	mainBody := ""
	if prog.Main != nil {
		body, ok := prog.Main.(*ir.Block)
		if !ok {
			body = &ir.Block{Node: ir.Node{Pos: prog.Main.ExprPos()}, Exprs: []ir.Expr{prog.Main}}
		}
		text, err := ctx.Lower(body, false)
		if err != nil {
			return "", err
		}
		mainBody = text
	}

	var sb strings.Builder
	if len(c.cfg.Allow) > 0 {
		fmt.Fprintf(&sb, "#![allow(%s)]\n", strings.Join(c.cfg.Allow, ", "))
	}
	for _, feature := range c.cfg.Features {
		fmt.Fprintf(&sb, "#![feature(%s)]\n", feature)
	}
	sb.WriteString("\n")

	if crates := registry.ExternCrates(c.cfg.Implicit); len(crates) > 0 {
		for _, crate := range crates {
			fmt.Fprintf(&sb, "extern crate %s;\n", crate)
		}
		sb.WriteString("\n")
	}
	if len(roots) > 0 {
		for _, root := range roots {
			fmt.Fprintf(&sb, "mod %s;\n", root)
		}
		sb.WriteString("\n")
	}
	if uses := ctx.Imports().UseLines(); len(uses) > 0 {
		for _, line := range uses {
			sb.WriteString(line + "\n")
		}
		sb.WriteString("\n")
	}
	if len(prog.Resources) > 0 {
		sb.WriteString(resourceTable(prog.Resources))
		sb.WriteString("\n")
	}
	if prog.Main != nil {
		sb.WriteString("fn main() " + mainBody + "\n")
	}
	return strings.TrimRight(sb.String(), "\n") + "\n", nil
}

// resourceTable packs the embedded resources as byte-string literals.
func resourceTable(resources []*ir.Resource) string {
	var sb strings.Builder
	sb.WriteString("pub const RESOURCES: &[(&str, &[u8])] = &[\n")
	for _, res := range resources {
		fmt.Fprintf(&sb, "    (%s, b\"%s\"),\n", rustbe.QuoteString(res.Name), escapeBytes(res.Data))
	}
	sb.WriteString("];\n")
	return sb.String()
}

// escapeBytes renders data as the body of a Rust byte-string literal.
func escapeBytes(data []byte) string {
	var sb strings.Builder
	for _, b := range data {
		switch {
		case b == '"' || b == '\\':
			sb.WriteByte('\\')
			sb.WriteByte(b)
		case b >= 0x20 && b < 0x7f:
			sb.WriteByte(b)
		default:
			fmt.Fprintf(&sb, "\\x%02x", b)
		}
	}
	return sb.String()
}
