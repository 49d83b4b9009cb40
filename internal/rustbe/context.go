package rustbe

import (
	"fmt"
	"strings"

	"github.com/lhaig/oxidize/internal/ir"
)

// Context is the emission state of one output module. It is created when the
// module's emission starts and discarded once Source has been written; it is
// never shared between goroutines.
type Context struct {
	// Module is the Rust module path of the file being emitted.
	Module []string
	// Casts rewrites value-preserving casts before lowering.
	Casts CastRewriter

	sb      strings.Builder
	imports *ImportTable
	crates  *NameSet
	decl    ir.Decl
	indent  int

	inStatic      bool
	inConstructor bool
	ctorPrologue  bool
	closureDepth  int // closures being lowered inside the current member
	mutable       map[*ir.Var]bool

	err error
}

// NewContext opens a module context. crates is the run-wide dependency set
// that receives every root package the module imports from.
func NewContext(module []string, crates *NameSet) *Context {
	return &Context{
		Module:  module,
		Casts:   DefaultCasts{},
		imports: NewImportTable(),
		crates:  crates,
	}
}

// Reserve marks names as already visible in the module.
func (c *Context) Reserve(names ...string) {
	c.imports.Reserve(names...)
}

// Imports exposes the module's import table.
func (c *Context) Imports() *ImportTable {
	return c.imports
}

// ResolvePath returns the name under which the module refers to (pack, name),
// importing it on first use.
func (c *Context) ResolvePath(pack []string, name string) string {
	if len(pack) == 0 {
		return name
	}
	display, newRoot := c.imports.Register(pack, name)
	if newRoot && c.crates != nil {
		c.crates.Add(pack[0])
	}
	return display
}

// ResolveDecl returns the name under which the module refers to decl.
// Declarations emitted by this run live under crate::<module path>; extern
// declarations are imported from their own package.
func (c *Context) ResolveDecl(decl ir.Decl) string {
	path := decl.DeclPath()
	name := EscapeIdentifier(path.Name)
	if c.decl != nil && c.decl.DeclPath().Equal(path) {
		return name
	}
	if decl.IsExtern() {
		return c.ResolvePath(escapeAll(path.Pack), name)
	}
	return c.ResolvePath(append([]string{"crate"}, ModulePath(path)...), name)
}

// ModulePath maps a declaration path to the Rust module path of its file.
func ModulePath(path ir.Path) []string {
	return append(escapeAll(path.Pack), EscapeIdentifier(path.Name))
}

func escapeAll(segments []string) []string {
	result := make([]string, len(segments))
	for i, segment := range segments {
		result[i] = EscapeIdentifier(segment)
	}
	return result
}

// Source returns the module text: use declarations followed by the body.
func (c *Context) Source() string {
	var out strings.Builder
	lines := c.imports.UseLines()
	for _, line := range lines {
		out.WriteString(line)
		out.WriteString("\n")
	}
	if len(lines) > 0 {
		out.WriteString("\n")
	}
	out.WriteString(c.sb.String())
	return out.String()
}

// Body returns the text emitted so far, without use declarations.
func (c *Context) Body() string {
	return c.sb.String()
}

func (c *Context) emit(s string) {
	c.sb.WriteString(s)
}

func (c *Context) emitf(format string, args ...any) {
	c.sb.WriteString(fmt.Sprintf(format, args...))
}

func (c *Context) emitLinef(format string, args ...any) {
	c.sb.WriteString(c.indentStr())
	c.sb.WriteString(fmt.Sprintf(format, args...))
}

func (c *Context) emitLine(s string) {
	if s == "" {
		c.sb.WriteString("\n")
	} else {
		c.sb.WriteString(c.indentStr())
		c.sb.WriteString(s)
		c.sb.WriteString("\n")
	}
}

// EmitLine appends one line at the current indentation.
func (c *Context) EmitLine(s string) {
	c.emitLine(s)
}

func (c *Context) incIndent() { c.indent++ }
func (c *Context) decIndent() { c.indent-- }

func (c *Context) indentStr() string {
	return strings.Repeat("    ", c.indent)
}

// CastRewriter turns a value-preserving cast into an equivalent call or
// constructor expression.
type CastRewriter interface {
	RewriteCast(cast *ir.Cast) ir.Expr
}

// DefaultCasts rewrites cast(v, T) into T::from(v).
type DefaultCasts struct{}

func (DefaultCasts) RewriteCast(cast *ir.Cast) ir.Expr {
	target := &ir.FieldAccess{
		Node:   ir.Node{Type: &ir.Fun{Args: []ir.FunArg{{Name: "v", Type: cast.Value.ExprType()}}, Ret: cast.Type}, Pos: cast.Pos},
		Target: &ir.TypeExpr{Node: ir.Node{Pos: cast.Pos}, Decl: cast.To},
		Name:   "from",
		Access: ir.AccessStatic,
	}
	return &ir.Call{Node: ir.Node{Type: cast.Type, Pos: cast.Pos}, Target: target, Args: []ir.Expr{cast.Value}}
}
