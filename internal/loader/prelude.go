package loader

import "github.com/lhaig/oxidize/internal/ir"

// Core scalars, fixed-width markers and the built-in containers every
// program may reference without declaring them.
var (
	coreAbstracts = []string{"Int", "UInt", "Float", "Single", "Bool", "Void", "Any",
		"haxe.Int32", "haxe.Int64",
		"rust.Int8", "rust.Int16", "rust.Int64", "rust.UInt8", "rust.UInt16", "rust.UInt64",
		"rust.Usize", "rust.Isize"}
	externContainers = []string{"Array", "rust.NativeArray"}
)

type prelude struct {
	decls  []ir.Decl
	intT   ir.Type
	floatT ir.Type
	boolT  ir.Type
	voidT  ir.Type
	strT   ir.Type
	null   *ir.AbstractDecl
	array  *ir.ClassDecl
}

func newPrelude() prelude {
	var p prelude
	refs := make(map[string]ir.Type)
	for _, name := range coreAbstracts {
		decl := &ir.AbstractDecl{Path: ir.ParsePath(name), Core: true, Extern: true}
		p.decls = append(p.decls, decl)
		refs[name] = &ir.AbstractRef{Abstract: decl}
	}
	p.null = &ir.AbstractDecl{Path: ir.ParsePath("Null"), Core: true, Extern: true, Params: []string{"T"}}
	p.decls = append(p.decls, p.null)

	str := &ir.ClassDecl{Path: ir.ParsePath("String"), Extern: true}
	p.decls = append(p.decls, str)
	for _, name := range externContainers {
		decl := &ir.ClassDecl{Path: ir.ParsePath(name), Extern: true, Params: []string{"T"}}
		if name == "Array" {
			p.array = decl
		}
		p.decls = append(p.decls, decl)
	}

	p.intT = refs["Int"]
	p.floatT = refs["Float"]
	p.boolT = refs["Bool"]
	p.voidT = refs["Void"]
	p.strT = &ir.Inst{Class: str}
	return p
}

func (p prelude) has(decl ir.Decl) bool {
	for _, candidate := range p.decls {
		if candidate == decl {
			return true
		}
	}
	return false
}

// nullOf is Null<T>.
func (p prelude) nullOf(t ir.Type) ir.Type {
	return &ir.AbstractRef{Abstract: p.null, Params: []ir.Type{t}}
}

// arrayOf is Array<T>.
func (p prelude) arrayOf(t ir.Type) ir.Type {
	return &ir.Inst{Class: p.array, Params: []ir.Type{t}}
}
