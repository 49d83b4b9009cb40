package ir

import (
	"github.com/lhaig/oxidize/internal/diagnostic"
)

// Validate checks the structural assumptions the backend relies on. It does
// not re-check types: the program is trusted to be correctly typed.
func Validate(prog *Program) *diagnostic.Diagnostics {
	diag := diagnostic.New()
	seen := make(map[string]Decl)

	for _, decl := range prog.Types {
		key := decl.DeclPath().String()
		if previous, ok := seen[key]; ok {
			diag.ErrorWithHint(decl.DeclPos(), "duplicate type path '"+key+"'",
				"first declared at "+previous.DeclPos().String())
			continue
		}
		seen[key] = decl

		switch actual := decl.(type) {
		case *ClassDecl:
			validateClass(actual, diag)
		case *EnumDecl:
			validateEnum(actual, diag)
		}
	}

	names := make(map[string]bool)
	for _, res := range prog.Resources {
		if names[res.Name] {
			diag.Errorf(diagnostic.Pos{}, "duplicate resource name %q", res.Name)
		}
		names[res.Name] = true
	}
	return diag
}

func validateClass(c *ClassDecl, diag *diagnostic.Diagnostics) {
	if c.Interface && c.Constructor != nil {
		diag.Errorf(c.Constructor.Pos, "interface %s declares a constructor", c.Path)
	}
	if c.Constructor != nil && c.Constructor.Function() == nil && !c.Extern {
		diag.Errorf(c.Constructor.Pos, "constructor of %s has no body", c.Path)
	}
	if c.Super != nil && c.Super.Class != nil && c.Super.Class.Interface {
		diag.Errorf(c.Pos, "class %s extends interface %s", c.Path, c.Super.Class.Path)
	}
	for _, iface := range c.Interfaces {
		if iface.Class != nil && !iface.Class.Interface {
			diag.Errorf(c.Pos, "%s implements %s which is not an interface", c.Path, iface.Class.Path)
		}
	}

	members := make(map[string]bool)
	for _, group := range [][]*Field{c.Fields, c.Statics} {
		for _, field := range group {
			if members[field.Name] {
				diag.Errorf(field.Pos, "duplicate member %s.%s", c.Path, field.Name)
			}
			members[field.Name] = true
			if field.Type == nil {
				diag.Errorf(field.Pos, "member %s.%s has no type", c.Path, field.Name)
			}
			if field.Kind == FieldMethod && field.Function() == nil && !c.Interface && !c.Extern {
				diag.Errorf(field.Pos, "method %s.%s has no body", c.Path, field.Name)
			}
		}
	}
}

func validateEnum(e *EnumDecl, diag *diagnostic.Diagnostics) {
	if len(e.Constructors) == 0 {
		diag.Warningf(e.Pos, "enum %s has no constructors", e.Path)
	}
	seen := make(map[string]bool)
	for _, ctor := range e.Constructors {
		if seen[ctor.Name] {
			diag.Errorf(e.Pos, "duplicate constructor %s.%s", e.Path, ctor.Name)
		}
		seen[ctor.Name] = true
	}
}
