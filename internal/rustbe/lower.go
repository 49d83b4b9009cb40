package rustbe

import (
	"fmt"
	"strings"

	"github.com/lhaig/oxidize/internal/diagnostic"
	"github.com/lhaig/oxidize/internal/ir"
)

// Lower translates a typed expression into Rust text. value is true when the
// result is consumed as a value rather than evaluated for effect. The first
// unsupported shape aborts the translation with *diagnostic.UnsupportedExpression.
func (c *Context) Lower(e ir.Expr, value bool) (string, error) {
	c.err = nil
	text := c.lower(e, value)
	if c.err != nil {
		return "", c.err
	}
	return text, nil
}

// fail records the first unsupported expression; lowering continues to
// unwind but its output is discarded.
func (c *Context) fail(e ir.Expr, kind, reason string) string {
	if c.err == nil {
		c.err = &diagnostic.UnsupportedExpression{Pos: e.ExprPos(), Kind: kind, Reason: reason}
	}
	return ""
}

func (c *Context) lower(e ir.Expr, value bool) string {
	if c.err != nil {
		return ""
	}
	if e == nil {
		return "()"
	}
	switch actual := e.(type) {
	case *ir.Paren:
		return "(" + c.lower(actual.Inner, value) + ")"
	case *ir.Meta:
		return c.lower(actual.Inner, value)
	case *ir.Cast:
		if actual.To != nil {
			return c.lower(c.Casts.RewriteCast(actual), value)
		}
	case *ir.Unop:
		if actual.Op == ir.OpIncrement || actual.Op == ir.OpDecrement {
			return c.lower(desugarStep(actual), value)
		}
	}
	text := c.lowerShape(e, value)
	if value && Wraps(e.ExprType()) && !producesOption(e) {
		return "Some(" + text + ")"
	}
	return text
}

// producesOption reports whether the lowered form of e already yields an
// Option when its type wraps: storage reads, calls and the constructs whose
// tails are lowered in value position.
func producesOption(e ir.Expr) bool {
	switch actual := e.(type) {
	case *ir.Const:
		return actual.Kind == ir.ConstNull
	case *ir.Local, *ir.FieldAccess, *ir.Index, *ir.Call, *ir.Block, *ir.If, *ir.Switch, *ir.Try:
		return true
	case *ir.Binop:
		return actual.Op == ir.OpAssign || actual.Op == ir.OpAssignOp || actual.Op == ir.OpNullCoal
	case *ir.Paren:
		return producesOption(actual.Inner)
	case *ir.Meta:
		return producesOption(actual.Inner)
	}
	return false
}

func (c *Context) lowerShape(e ir.Expr, value bool) string {
	switch actual := e.(type) {
	case *ir.Const:
		return c.lowerConst(actual)
	case *ir.Local:
		return EscapeIdentifier(actual.Var.Name)
	case *ir.Ident:
		return actual.Name
	case *ir.TypeExpr:
		return c.ResolveDecl(actual.Decl)
	case *ir.Index:
		return fmt.Sprintf("%s[%s as usize]", c.lowerReceiver(actual.Target), c.lower(actual.Index, true))
	case *ir.Binop:
		return c.lowerBinop(actual, value)
	case *ir.Unop:
		return c.lowerUnop(actual)
	case *ir.FieldAccess:
		return c.lowerField(actual)
	case *ir.ObjectDecl:
		return c.lowerObjectDecl(actual)
	case *ir.ArrayDecl:
		if len(actual.Elements) == 0 {
			return "Vec::new()"
		}
		return "vec![" + c.lowerList(actual.Elements) + "]"
	case *ir.Function:
		return c.lowerFunction(actual)
	case *ir.Call:
		return c.lowerCall(actual)
	case *ir.New:
		return c.ResolveDecl(actual.Class) + "::new(" + c.lowerList(actual.Args) + ")"
	case *ir.Cast:
		return "(" + c.lower(actual.Value, true) + ") as " + c.projectType(actual.Type)
	case *ir.VarDecl:
		return c.lowerVarDecl(actual)
	case *ir.Block:
		return c.lowerBlock(actual, value)
	case *ir.For:
		return c.lowerFor(actual)
	case *ir.If:
		return c.lowerIf(actual, value)
	case *ir.While:
		return c.lowerWhile(actual)
	case *ir.Switch:
		return c.lowerSwitch(actual, value)
	case *ir.Try:
		return c.lowerTry(actual, value)
	case *ir.Return:
		return c.lowerReturn(actual)
	case *ir.Break:
		return "break"
	case *ir.Continue:
		return "continue"
	case *ir.Throw:
		return "panic!(\"{:?}\", " + c.lower(actual.Value, true) + ")"
	case *ir.EnumIndex:
		return "(" + c.lower(actual.Value, true) + ") as i32"
	case *ir.EnumParameter:
		return c.fail(e, "enum parameter", "constructor arguments can only be bound by a match pattern")
	}
	return c.fail(e, fmt.Sprintf("%T", e), "no Rust projection")
}

func (c *Context) lowerConst(k *ir.Const) string {
	switch k.Kind {
	case ir.ConstInt:
		return k.Value
	case ir.ConstFloat:
		if strings.ContainsAny(k.Value, ".eE") {
			return k.Value
		}
		return k.Value + ".0"
	case ir.ConstString:
		return "\"" + escapeRustString(k.Value) + "\".to_string()"
	case ir.ConstBool:
		return k.Value
	case ir.ConstNull:
		return "None"
	case ir.ConstThis:
		return c.receiverName(k)
	case ir.ConstSuper:
		return c.receiverName(k) + "._super"
	}
	return c.fail(k, "constant", "unknown constant kind")
}

// receiverName is the spelling of the enclosing instance: the synthesized
// binding inside constructors, self elsewhere.
func (c *Context) receiverName(e ir.Expr) string {
	if c.inStatic {
		return c.fail(e, "this", "no receiver inside a static member")
	}
	if c.inConstructor {
		return "this"
	}
	return "self"
}

func isReceiver(e ir.Expr) bool {
	k, ok := ir.Unwrap(e).(*ir.Const)
	return ok && (k.Kind == ir.ConstThis || k.Kind == ir.ConstSuper)
}

// lowerReceiver lowers the target of a field or index access, unwrapping it
// when its type wraps. The receiver itself is held bare.
func (c *Context) lowerReceiver(target ir.Expr) string {
	if isReceiver(target) {
		return c.lowerConst(ir.Unwrap(target).(*ir.Const))
	}
	text := c.lower(target, true)
	if Wraps(target.ExprType()) {
		return text + ".unwrap()"
	}
	return text
}

func (c *Context) lowerField(f *ir.FieldAccess) string {
	name := EscapeIdentifier(f.Name)
	switch f.Access {
	case ir.AccessStatic, ir.AccessEnum:
		if typeExpr, ok := ir.Unwrap(f.Target).(*ir.TypeExpr); ok {
			return c.ResolveDecl(typeExpr.Decl) + "::" + name
		}
		return c.lower(f.Target, false) + "::" + name
	case ir.AccessAnon, ir.AccessDynamic:
		return c.lowerReceiver(f.Target) + "[\"" + escapeRustString(f.Name) + "\"]"
	}
	return c.lowerReceiver(f.Target) + "." + name
}

func (c *Context) lowerList(exprs []ir.Expr) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = c.lower(e, true)
	}
	return strings.Join(parts, ", ")
}

func (c *Context) lowerObjectDecl(o *ir.ObjectDecl) string {
	macro := c.ResolvePath([]string{"maplit"}, "hashmap")
	entries := make([]string, len(o.Fields))
	for i, field := range o.Fields {
		entries[i] = "\"" + escapeRustString(field.Name) + "\" => " + c.lower(field.Value, true)
	}
	return macro + "!{" + strings.Join(entries, ", ") + "}"
}

// --- Operators ---

func (c *Context) lowerBinop(b *ir.Binop, value bool) string {
	switch b.Op {
	case ir.OpAssign:
		return c.lowerAssign(b.Left, "=", b.Right, value)
	case ir.OpAssignOp:
		if b.AssignOp == ir.OpAdd && ir.IsString(b.Left.ExprType()) {
			concat := &ir.Binop{Node: b.Node, Op: ir.OpAdd, Left: b.Left, Right: b.Right}
			return c.lowerAssign(b.Left, "=", concat, value)
		}
		if !rustAssignOps[b.AssignOp] {
			return c.fail(b, "compound assignment", "operator "+b.AssignOp.Symbol()+"= has no Rust form")
		}
		return c.lowerAssign(b.Left, mapOperator(b.AssignOp)+"=", b.Right, value)
	case ir.OpArrow, ir.OpIn:
		return c.fail(b, "binary operator "+b.Op.Symbol(), "only valid inside map literals and for headers")
	}

	left := c.lower(b.Left, true)
	right := c.lower(b.Right, true)
	switch b.Op {
	case ir.OpAdd:
		if ir.IsString(b.Left.ExprType()) || ir.IsString(b.Right.ExprType()) || ir.IsString(b.Type) {
			return fmt.Sprintf("format!(\"{}{}\", %s, %s)", left, right)
		}
	case ir.OpInterval:
		return fmt.Sprintf("(%s..%s)", left, right)
	case ir.OpUShr:
		return fmt.Sprintf("((%s as u32) >> %s) as i32", left, right)
	case ir.OpNullCoal:
		if Wraps(b.Type) {
			return fmt.Sprintf("%s.or(%s)", left, right)
		}
		return fmt.Sprintf("%s.unwrap_or(%s)", left, right)
	}
	return fmt.Sprintf("(%s %s %s)", left, mapOperator(b.Op), right)
}

var rustAssignOps = map[ir.BinOp]bool{
	ir.OpAdd: true, ir.OpSub: true, ir.OpMult: true, ir.OpDiv: true, ir.OpMod: true,
	ir.OpAnd: true, ir.OpOr: true, ir.OpXor: true, ir.OpShl: true, ir.OpShr: true,
}

// lowerAssign emits target op value directly in statement position; as a
// value it becomes a block that re-yields the target.
func (c *Context) lowerAssign(target ir.Expr, op string, rhs ir.Expr, value bool) string {
	lhs := c.lower(target, false)
	stmt := lhs + " " + op + " " + c.lower(rhs, true)
	if !value {
		return stmt
	}
	return "{ " + stmt + "; " + lhs + " }"
}

// desugarStep rewrites ++/-- as target = target ± 1.
func desugarStep(u *ir.Unop) ir.Expr {
	op := ir.OpAdd
	if u.Op == ir.OpDecrement {
		op = ir.OpSub
	}
	operandType := u.Operand.ExprType()
	one := &ir.Const{Node: ir.Node{Type: operandType, Pos: u.Pos}, Kind: ir.ConstInt, Value: "1"}
	step := &ir.Binop{Node: ir.Node{Type: operandType, Pos: u.Pos}, Op: op, Left: u.Operand, Right: one}
	return &ir.Binop{Node: u.Node, Op: ir.OpAssign, Left: u.Operand, Right: step}
}

func (c *Context) lowerUnop(u *ir.Unop) string {
	switch u.Op {
	case ir.OpNot, ir.OpNegBits:
		return "!" + c.lower(u.Operand, true)
	case ir.OpNeg:
		return "-" + c.lower(u.Operand, true)
	}
	return c.fail(u, "unary operator", "spread has no Rust form")
}

func mapOperator(op ir.BinOp) string {
	switch op {
	case ir.OpUShr:
		return ">>"
	case ir.OpInterval:
		return ".."
	default:
		return op.Symbol()
	}
}

// QuoteString renders s as a Rust string literal. Non-ASCII text is kept
// as UTF-8, which Rust accepts verbatim.
func QuoteString(s string) string {
	return "\"" + escapeRustString(s) + "\""
}

func escapeRustString(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "\n", "\\n")
	s = strings.ReplaceAll(s, "\r", "\\r")
	s = strings.ReplaceAll(s, "\t", "\\t")
	return s
}
