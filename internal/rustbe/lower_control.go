package rustbe

import (
	"strings"

	"github.com/lhaig/oxidize/internal/ir"
)

// lowerBlock renders a braced block. Statements end in ';' unless they are
// themselves block-shaped; in value position the last expression is the
// block's result. The first block of a constructor carries the prologue.
func (c *Context) lowerBlock(b *ir.Block, value bool) string {
	prologue := c.ctorPrologue
	c.ctorPrologue = false
	if len(b.Exprs) == 0 && !prologue {
		return "{}"
	}
	c.scanLocals(b.Exprs)

	var lines []string
	c.incIndent()
	if prologue {
		lines = append(lines, "let mut this = Self::default();")
	}
	for i, e := range b.Exprs {
		if value && !prologue && i == len(b.Exprs)-1 {
			lines = append(lines, c.lower(e, true))
			continue
		}
		if stmt := c.statement(e); stmt != "" {
			lines = append(lines, stmt)
		}
	}
	if prologue {
		lines = append(lines, "this")
	}
	indent := c.indentStr()
	c.decIndent()

	var out strings.Builder
	out.WriteString("{\n")
	for _, line := range lines {
		out.WriteString(indent)
		out.WriteString(line)
		out.WriteString("\n")
	}
	out.WriteString(c.indentStr())
	out.WriteString("}")
	return out.String()
}

// statement lowers e for effect and terminates it.
func (c *Context) statement(e ir.Expr) string {
	text := c.lower(e, false)
	if text == "" {
		return ""
	}
	switch ir.Unwrap(e).(type) {
	case *ir.Block, *ir.If, *ir.While, *ir.For, *ir.Switch, *ir.Try:
		return text
	}
	return text + ";"
}

// lowerBranch lowers a branch body as a block, wrapping a lone expression.
func (c *Context) lowerBranch(e ir.Expr, value bool) string {
	if e == nil {
		return "{}"
	}
	if b, ok := ir.Unwrap(e).(*ir.Block); ok {
		return c.lowerBlock(b, value)
	}
	return c.lowerBlock(&ir.Block{Node: ir.Node{Type: e.ExprType(), Pos: e.ExprPos()}, Exprs: []ir.Expr{e}}, value)
}

// scanLocals decides, for every declaration in exprs, whether the rest of
// the block assigns to it.
func (c *Context) scanLocals(exprs []ir.Expr) {
	for i, e := range exprs {
		decl, ok := ir.Unwrap(e).(*ir.VarDecl)
		if !ok {
			continue
		}
		if c.mutable == nil {
			c.mutable = make(map[*ir.Var]bool)
		}
		c.mutable[decl.Var] = AssignsToLocal(exprs[i+1:], decl.Var)
	}
}

func (c *Context) lowerVarDecl(v *ir.VarDecl) string {
	binding := "let "
	if c.mutable[v.Var] {
		binding = "let mut "
	}
	text := binding + EscapeIdentifier(v.Var.Name) + ": " + c.DeclaredType(v.Var.Type)
	switch {
	case v.Init != nil:
		return text + " = " + c.lower(v.Init, true)
	case Wraps(v.Var.Type):
		return text + " = None"
	}
	return text
}

func (c *Context) lowerIf(e *ir.If, value bool) string {
	text := "if " + c.lower(e.Cond, true) + " " + c.lowerBranch(e.Then, value)
	if e.Else == nil {
		return text
	}
	if elseIf, ok := ir.Unwrap(e.Else).(*ir.If); ok {
		return text + " else " + c.lowerIf(elseIf, value)
	}
	return text + " else " + c.lowerBranch(e.Else, value)
}

// lowerWhile renders pre-tested loops as while and do-while loops as a loop
// that tests the negated condition after the body.
func (c *Context) lowerWhile(w *ir.While) string {
	if !w.DoWhile {
		return "while " + c.lower(w.Cond, true) + " " + c.lowerBranch(w.Body, false)
	}
	var body []ir.Expr
	if b, ok := ir.Unwrap(w.Body).(*ir.Block); ok {
		body = append(body, b.Exprs...)
	} else if w.Body != nil {
		body = append(body, w.Body)
	}
	node := ir.Node{Pos: w.Pos}
	exit := &ir.If{
		Node: node,
		Cond: &ir.Unop{Node: ir.Node{Type: w.Cond.ExprType(), Pos: w.Cond.ExprPos()}, Op: ir.OpNot,
			Operand: &ir.Paren{Node: ir.Node{Type: w.Cond.ExprType(), Pos: w.Cond.ExprPos()}, Inner: w.Cond}},
		Then: &ir.Block{Node: node, Exprs: []ir.Expr{&ir.Break{Node: node}}},
	}
	body = append(body, exit)
	return "loop " + c.lowerBlock(&ir.Block{Node: node, Exprs: body}, false)
}

func (c *Context) lowerFor(f *ir.For) string {
	var iter string
	if b, ok := ir.Unwrap(f.Iter).(*ir.Binop); ok && b.Op == ir.OpInterval {
		iter = c.lower(b.Left, true) + ".." + c.lower(b.Right, true)
	} else {
		iter = c.lowerReceiver(f.Iter)
		if inst, ok := resolve(f.Iter.ExprType()).(*ir.Inst); ok && inst.Class != nil && inst.Class.Path.String() == arrayPath {
			iter += ".iter()"
		}
	}
	return "for " + EscapeIdentifier(f.Var.Name) + " in " + iter + " " + c.lowerBranch(f.Body, false)
}

// lowerSwitch renders a match with one arm per case, in source order, and a
// wildcard arm that is always present.
func (c *Context) lowerSwitch(s *ir.Switch, value bool) string {
	subject := c.lower(s.Subject, true)
	c.incIndent()
	indent := c.indentStr()
	var arms []string
	for _, cs := range s.Cases {
		patterns := make([]string, len(cs.Values))
		for i, v := range cs.Values {
			patterns[i] = c.lower(v, false)
		}
		arms = append(arms, strings.Join(patterns, " | ")+" => "+c.lowerBranch(cs.Body, value)+",")
	}
	arms = append(arms, "_ => "+c.lowerBranch(s.Default, value)+",")
	c.decIndent()

	var out strings.Builder
	out.WriteString("match " + subject + " {\n")
	for _, arm := range arms {
		out.WriteString(indent + arm + "\n")
	}
	out.WriteString(c.indentStr() + "}")
	return out.String()
}

// lowerTry keeps the shape of the source construct. Rust has no exception
// handling, so the output is not expected to compile unchanged.
func (c *Context) lowerTry(t *ir.Try, value bool) string {
	text := "try " + c.lowerBranch(t.Body, value)
	for _, catch := range t.Catches {
		text += " catch(" + EscapeIdentifier(catch.Var.Name) + ": " + c.DeclaredType(catch.Var.Type) + ") " +
			c.lowerBranch(catch.Body, value)
	}
	return text
}

func (c *Context) lowerReturn(r *ir.Return) string {
	bare := "return"
	if c.inConstructor && c.closureDepth == 0 {
		bare = "return this"
	}
	payload := flattenReturn(r.Value)
	if payload == nil {
		return bare
	}
	if ir.IsVoid(payload.ExprType()) {
		return c.lower(payload, false) + "; " + bare
	}
	return "return " + c.lower(payload, true)
}

// flattenReturn unwraps payloads of the form { return x; }.
func flattenReturn(e ir.Expr) ir.Expr {
	for e != nil {
		b, ok := ir.Unwrap(e).(*ir.Block)
		if !ok || len(b.Exprs) != 1 {
			return e
		}
		inner, ok := ir.Unwrap(b.Exprs[0]).(*ir.Return)
		if !ok {
			return e
		}
		e = inner.Value
	}
	return nil
}

// lowerFunction renders a closure. A closure inside a constructor still
// captures this, but its returns leave the closure only.
func (c *Context) lowerFunction(f *ir.Function) string {
	args := make([]string, len(f.Args))
	for i, arg := range f.Args {
		args[i] = EscapeIdentifier(arg.Var.Name) + ": " + c.DeclaredType(arg.Var.Type)
	}
	c.closureDepth++
	body := c.lowerFunctionBody(f)
	c.closureDepth--
	return "|" + strings.Join(args, ", ") + "| -> " + c.DeclaredType(f.Ret) + " " + body
}

// lowerFunctionBody renders a function body as a statement block. A bare
// expression body of a non-void function becomes its return value.
func (c *Context) lowerFunctionBody(f *ir.Function) string {
	if b, ok := ir.Unwrap(f.Body).(*ir.Block); ok {
		return c.lowerBlock(b, false)
	}
	if f.Body == nil {
		return c.lowerBlock(&ir.Block{Node: f.Node}, false)
	}
	body := f.Body
	if _, returns := ir.Unwrap(body).(*ir.Return); !returns && !ir.IsVoid(f.Ret) {
		body = &ir.Return{Node: ir.Node{Pos: f.Body.ExprPos()}, Value: f.Body}
	}
	return c.lowerBlock(&ir.Block{Node: f.Node, Exprs: []ir.Expr{body}}, false)
}
