package loader

import "github.com/lhaig/oxidize/internal/ir"

// scope holds the locals of one function. Locals are interned by name: every
// reference to a name resolves to the most recent declaration in the
// function or an enclosing one.
type scope struct {
	parent *scope
	vars   map[string]*ir.Var
}

func newScope(parent *scope) *scope {
	return &scope{parent: parent, vars: make(map[string]*ir.Var)}
}

func (s *scope) declare(v *ir.Var) {
	s.vars[v.Name] = v
}

func (s *scope) lookup(name string) *ir.Var {
	for current := s; current != nil; current = current.parent {
		if v, ok := current.vars[name]; ok {
			return v
		}
	}
	return nil
}

// frame is the decoding context of an expression.
type frame struct {
	class  *ir.ClassDecl // nil for the entry expression
	params typeScope
	locals *scope
	static bool
}

// nested returns a frame for a function defined inside f.
func (f *frame) nested() *frame {
	return &frame{class: f.class, params: f.params, locals: newScope(f.locals), static: f.static}
}
