package ir

import (
	"strings"

	"github.com/lhaig/oxidize/internal/diagnostic"
)

// Program is a fully typed program handed over by the upstream phases.
type Program struct {
	Types     []Decl
	Main      Expr // optional entry expression
	Resources []*Resource
}

// Resource is a packaged resource embedded into the entry file.
type Resource struct {
	Name string
	Data []byte
}

// Path is a qualified declaration path.
type Path struct {
	Pack []string
	Name string
}

// ParsePath splits a dotted path such as "pkg.sub.Name".
func ParsePath(dotted string) Path {
	parts := strings.Split(dotted, ".")
	return Path{Pack: parts[:len(parts)-1], Name: parts[len(parts)-1]}
}

// String returns the dotted form.
func (p Path) String() string {
	if len(p.Pack) == 0 {
		return p.Name
	}
	return strings.Join(p.Pack, ".") + "." + p.Name
}

// Equal reports structural equality.
func (p Path) Equal(other Path) bool {
	if p.Name != other.Name || len(p.Pack) != len(other.Pack) {
		return false
	}
	for i := range p.Pack {
		if p.Pack[i] != other.Pack[i] {
			return false
		}
	}
	return true
}

// Root returns the top-level package segment, or the name for root-package paths.
func (p Path) Root() string {
	if len(p.Pack) == 0 {
		return p.Name
	}
	return p.Pack[0]
}

// Decl is a declared module type.
type Decl interface {
	DeclPath() Path
	DeclPos() diagnostic.Pos
	IsExtern() bool
}

// ClassKind distinguishes the flavours of class-like declarations.
type ClassKind int

const (
	KindNormal ClassKind = iota
	KindTypeParameter
	KindExtension
	KindExpr
	KindGenericInstance
	KindMacroType
	KindGenericBuild
)

var classKindNames = map[ClassKind]string{
	KindNormal:          "normal",
	KindTypeParameter:   "param",
	KindExtension:       "extension",
	KindExpr:            "expr",
	KindGenericInstance: "generic",
	KindMacroType:       "macro",
	KindGenericBuild:    "build",
}

func (k ClassKind) String() string {
	return classKindNames[k]
}

// ParseClassKind maps a kind name back to the ClassKind.
func ParseClassKind(name string) (ClassKind, bool) {
	for kind, candidate := range classKindNames {
		if candidate == name {
			return kind, true
		}
	}
	return KindNormal, false
}

// ClassDecl is a class or interface declaration.
type ClassDecl struct {
	Path        Path
	Pos         diagnostic.Pos
	Kind        ClassKind
	Extern      bool
	Interface   bool
	Params      []string
	Super       *Inst
	Interfaces  []*Inst
	Constructor *Field
	Fields      []*Field // instance members in declaration order
	Statics     []*Field
}

func (c *ClassDecl) DeclPath() Path          { return c.Path }
func (c *ClassDecl) DeclPos() diagnostic.Pos { return c.Pos }
func (c *ClassDecl) IsExtern() bool          { return c.Extern }

// FieldKind tells plain data fields from methods.
type FieldKind int

const (
	FieldVar FieldKind = iota
	FieldMethod
)

// Field is a class member.
type Field struct {
	Name   string
	Pos    diagnostic.Pos
	Kind   FieldKind
	Type   Type
	Params []string // method type parameters
	Expr   Expr     // *Function for methods with a body, initializer for vars, nil otherwise
}

// Function returns the body of a method, or nil when the member has none.
func (f *Field) Function() *Function {
	fn, _ := f.Expr.(*Function)
	return fn
}

// EnumDecl is an enum declaration.
type EnumDecl struct {
	Path         Path
	Pos          diagnostic.Pos
	Extern       bool
	Params       []string
	Constructors []*EnumCtor
}

func (e *EnumDecl) DeclPath() Path          { return e.Path }
func (e *EnumDecl) DeclPos() diagnostic.Pos { return e.Pos }
func (e *EnumDecl) IsExtern() bool          { return e.Extern }

// Constructor returns the named constructor, or nil.
func (e *EnumDecl) Constructor(name string) *EnumCtor {
	for _, ctor := range e.Constructors {
		if ctor.Name == name {
			return ctor
		}
	}
	return nil
}

// EnumCtor is one enum constructor; Args is empty for constant constructors.
type EnumCtor struct {
	Name  string
	Index int
	Args  []FunArg
}

// TypedefDecl is a type alias.
type TypedefDecl struct {
	Path   Path
	Pos    diagnostic.Pos
	Extern bool
	Params []string
	Type   Type
}

func (t *TypedefDecl) DeclPath() Path          { return t.Path }
func (t *TypedefDecl) DeclPos() diagnostic.Pos { return t.Pos }
func (t *TypedefDecl) IsExtern() bool          { return t.Extern }

// AbstractDecl is an abstract type. Core abstracts are the built-in scalars;
// the others wrap Under.
type AbstractDecl struct {
	Path   Path
	Pos    diagnostic.Pos
	Extern bool
	Core   bool
	Params []string
	Under  Type
}

func (a *AbstractDecl) DeclPath() Path          { return a.Path }
func (a *AbstractDecl) DeclPos() diagnostic.Pos { return a.Pos }
func (a *AbstractDecl) IsExtern() bool          { return a.Extern }
