package linter

import (
	"strings"
	"unicode"

	"github.com/lhaig/oxidize/internal/diagnostic"
	"github.com/lhaig/oxidize/internal/ir"
)

// Linter performs style and portability checks on a typed program.
// It reports warnings (never errors) using the diagnostic system.
type Linter struct {
	prog *ir.Program
	diag *diagnostic.Diagnostics
}

// Lint runs all lint rules on the given program and returns diagnostics.
// Extern declarations are skipped: their names and members belong to the
// crate that provides them.
func Lint(prog *ir.Program) *diagnostic.Diagnostics {
	l := &Linter{
		prog: prog,
		diag: diagnostic.New(),
	}

	for _, decl := range prog.Types {
		if decl.IsExtern() {
			continue
		}
		switch actual := decl.(type) {
		case *ir.ClassDecl:
			l.lintClass(actual)
		case *ir.EnumDecl:
			l.lintEnum(actual)
		}
	}
	if prog.Main != nil {
		l.lintBody("main", prog.Main)
	}
	return l.diag
}

func (l *Linter) lintClass(cls *ir.ClassDecl) {
	kind := "class"
	if cls.Interface {
		kind = "interface"
	}
	l.checkTypeNaming(kind, cls.Path, cls.Pos)

	if cls.Constructor != nil {
		if fn := cls.Constructor.Function(); fn != nil {
			l.lintFunction(cls.Path.Name+".new", fn)
		}
	}
	for _, group := range [][]*ir.Field{cls.Fields, cls.Statics} {
		for _, field := range group {
			scope := cls.Path.Name + "." + field.Name
			l.checkMemberNaming(scope, field)
			if _, dynamic := ir.Follow(field.Type).(*ir.Dynamic); dynamic && field.Kind == ir.FieldVar {
				l.diag.Warningf(field.Pos, "field '%s' is Dynamic and has no static Rust type", scope)
			}
			fn := field.Function()
			if fn == nil {
				if field.Expr != nil {
					l.lintBody(scope, field.Expr)
				}
				continue
			}
			l.checkEmptyBody(scope, field, fn)
			l.lintFunction(scope, fn)
		}
	}
}

func (l *Linter) lintEnum(enum *ir.EnumDecl) {
	l.checkTypeNaming("enum", enum.Path, enum.Pos)
	for _, ctor := range enum.Constructors {
		if !isPascalCase(ctor.Name) {
			l.diag.Warningf(enum.Pos,
				"constructor '%s' in enum '%s' should use PascalCase naming", ctor.Name, enum.Path.Name)
		}
	}
}

// lintFunction checks a member body together with every closure it holds.
func (l *Linter) lintFunction(scope string, fn *ir.Function) {
	reads := collectReads(fn)
	ir.Walk(fn, func(e ir.Expr) bool {
		if nested, ok := e.(*ir.Function); ok {
			l.checkUnusedArgs(scope, nested, reads)
		}
		return true
	})
	l.lintStatements(scope, fn.Body, reads)
}

// lintBody checks an expression that is not itself a function, such as the
// entry expression or a static initializer.
func (l *Linter) lintBody(scope string, e ir.Expr) {
	reads := collectReads(e)
	ir.Walk(e, func(candidate ir.Expr) bool {
		if nested, ok := candidate.(*ir.Function); ok {
			l.checkUnusedArgs(scope, nested, reads)
		}
		return true
	})
	l.lintStatements(scope, e, reads)
}

// lintStatements reports unread locals and the constructs that have no
// direct Rust counterpart.
func (l *Linter) lintStatements(scope string, body ir.Expr, reads map[*ir.Var]bool) {
	ir.Walk(body, func(e ir.Expr) bool {
		switch actual := e.(type) {
		case *ir.VarDecl:
			if !reads[actual.Var] && !isIgnored(actual.Var.Name) {
				l.diag.Warningf(actual.Pos,
					"variable '%s' in '%s' is declared but never used", actual.Var.Name, scope)
			}
		case *ir.Try:
			l.diag.Warningf(actual.Pos,
				"try/catch in '%s' has no Rust equivalent and is emitted as written", scope)
		case *ir.Throw:
			l.diag.Warningf(actual.Pos, "throw in '%s' is emitted as panic!", scope)
		}
		return true
	})
}

// --- Lint rules ---

// checkTypeNaming warns if a type name is not PascalCase.
func (l *Linter) checkTypeNaming(kind string, path ir.Path, pos diagnostic.Pos) {
	if !isPascalCase(path.Name) {
		l.diag.Warningf(pos, "%s '%s' should use PascalCase naming", kind, path)
	}
}

// checkMemberNaming warns if a member name starts with an upper case letter.
func (l *Linter) checkMemberNaming(scope string, field *ir.Field) {
	if !isCamelCase(field.Name) {
		l.diag.Warningf(field.Pos, "member '%s' should use camelCase naming", scope)
	}
}

// checkEmptyBody warns if a method body has no expressions.
func (l *Linter) checkEmptyBody(scope string, field *ir.Field, fn *ir.Function) {
	if fn.Body == nil {
		l.diag.Warningf(field.Pos, "method '%s' has an empty body", scope)
		return
	}
	if block, ok := ir.Unwrap(fn.Body).(*ir.Block); ok && len(block.Exprs) == 0 {
		l.diag.Warningf(field.Pos, "method '%s' has an empty body", scope)
	}
}

// checkUnusedArgs warns about function arguments that are never read.
func (l *Linter) checkUnusedArgs(scope string, fn *ir.Function, reads map[*ir.Var]bool) {
	for _, arg := range fn.Args {
		if !reads[arg.Var] && !isIgnored(arg.Var.Name) {
			l.diag.Warningf(fn.Pos, "argument '%s' in '%s' is never used", arg.Var.Name, scope)
		}
	}
}

// --- Read collection ---

// collectReads returns every local that e reads. Plain assignment to a local
// is a write: only its right-hand side is searched.
func collectReads(e ir.Expr) map[*ir.Var]bool {
	reads := make(map[*ir.Var]bool)
	var visit func(ir.Expr) bool
	visit = func(candidate ir.Expr) bool {
		switch actual := candidate.(type) {
		case *ir.Local:
			reads[actual.Var] = true
		case *ir.Binop:
			if _, ok := ir.Unwrap(actual.Left).(*ir.Local); ok && actual.Op == ir.OpAssign {
				ir.Walk(actual.Right, visit)
				return false
			}
		}
		return true
	}
	ir.Walk(e, visit)
	return reads
}

// --- Naming convention helpers ---

// isIgnored reports whether a name opts out of the unused checks.
func isIgnored(name string) bool {
	return strings.HasPrefix(name, "_")
}

// isPascalCase returns true if the name starts with an uppercase letter
// and contains no underscores.
func isPascalCase(name string) bool {
	if len(name) == 0 {
		return false
	}
	runes := []rune(name)
	if !unicode.IsUpper(runes[0]) {
		return false
	}
	return !strings.ContainsRune(name, '_')
}

// isCamelCase returns true if the name starts with a lowercase letter or an
// underscore. Constants spelled in upper snake case are accepted as well.
func isCamelCase(name string) bool {
	if len(name) == 0 {
		return false
	}
	if strings.ToUpper(name) == name {
		return true
	}
	first := []rune(name)[0]
	return unicode.IsLower(first) || first == '_'
}
