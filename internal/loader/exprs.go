package loader

import (
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lhaig/oxidize/internal/ir"
)

var exprKinds = []string{
	"int", "float", "string", "bool", "null", "this", "super", "local", "ident", "typeref",
	"binop", "unop", "field", "index", "paren", "meta", "object", "array", "function", "call", "new", "cast",
	"var", "block", "for", "if", "while", "dowhile", "switch", "try", "return", "break", "continue", "throw",
	"enumparam", "enumindex",
}

// nodeOf builds the common node of an expression from its derived type. An
// explicit type key replaces the derived type.
type nodeOf func(derived ir.Type) ir.Node

// expr decodes a required expression: a mapping with exactly one kind key
// and an optional type key.
func (l *loader) expr(node *yaml.Node, f *frame) ir.Expr {
	if isNull(node) {
		l.diags.Errorf(l.pos(node), "missing expression")
		return l.invalid(node)
	}
	if node.Kind != yaml.MappingNode {
		l.diags.Errorf(l.pos(node), "expression must be a mapping")
		return l.invalid(node)
	}
	var kind string
	var value, explicit *yaml.Node
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i]
		switch {
		case key.Value == "type":
			explicit = node.Content[i+1]
		case contains(exprKinds, key.Value):
			if kind != "" {
				l.diags.Errorf(l.pos(key), "expression is both %s and %s", kind, key.Value)
				return l.invalid(node)
			}
			kind, value = key.Value, node.Content[i+1]
		default:
			l.diags.Errorf(l.pos(key), "unknown expression key %q", key.Value)
		}
	}
	if kind == "" {
		l.diags.Errorf(l.pos(node), "expression has no kind")
		return l.invalid(node)
	}

	pos := l.pos(node)
	var override ir.Type
	if explicit != nil {
		override = l.typeOf(explicit, f.params, "expression type")
	}
	n := func(derived ir.Type) ir.Node {
		if override != nil {
			return ir.Node{Type: override, Pos: pos}
		}
		return ir.Node{Type: derived, Pos: pos}
	}
	return l.exprOf(kind, value, n, f)
}

// optional decodes an expression that may be absent.
func (l *loader) optional(node *yaml.Node, f *frame) ir.Expr {
	if isNull(node) {
		return nil
	}
	return l.expr(node, f)
}

func (l *loader) exprs(node *yaml.Node, f *frame) []ir.Expr {
	var result []ir.Expr
	for _, item := range l.sequence(node) {
		result = append(result, l.expr(item, f))
	}
	return result
}

// invalid stands in for an expression that could not be decoded so that
// decoding can continue and report further problems.
func (l *loader) invalid(node *yaml.Node) ir.Expr {
	return &ir.Ident{Node: ir.Node{Type: &ir.Dynamic{}, Pos: l.pos(node)}, Name: "_"}
}

func (l *loader) exprOf(kind string, value *yaml.Node, n nodeOf, f *frame) ir.Expr {
	switch kind {
	case "int":
		literal := l.scalar(value, "int literal")
		if _, err := strconv.ParseInt(literal, 0, 64); err != nil {
			l.diags.Errorf(l.pos(value), "invalid int literal %q", literal)
		}
		return &ir.Const{Node: n(l.core.intT), Kind: ir.ConstInt, Value: literal}
	case "float":
		literal := l.scalar(value, "float literal")
		if _, err := strconv.ParseFloat(literal, 64); err != nil {
			l.diags.Errorf(l.pos(value), "invalid float literal %q", literal)
		}
		return &ir.Const{Node: n(l.core.floatT), Kind: ir.ConstFloat, Value: literal}
	case "string":
		if value != nil && value.Kind != yaml.ScalarNode {
			l.diags.Errorf(l.pos(value), "string literal must be a scalar")
			return l.invalid(value)
		}
		return &ir.Const{Node: n(l.core.strT), Kind: ir.ConstString, Value: text(value)}
	case "bool":
		return &ir.Const{Node: n(l.core.boolT), Kind: ir.ConstBool, Value: strconv.FormatBool(l.flag(value))}
	case "null":
		var of ir.Type = &ir.Dynamic{}
		if !isNull(value) {
			of = l.typeOf(value, f.params, "null type")
		}
		return &ir.Const{Node: n(l.core.nullOf(of)), Kind: ir.ConstNull}
	case "this":
		if f.class == nil {
			l.diags.Errorf(l.pos(value), "this outside of a class")
			return l.invalid(value)
		}
		self := &ir.Inst{Class: f.class, Params: f.params.instances(f.class.Params)}
		return &ir.Const{Node: n(self), Kind: ir.ConstThis}
	case "super":
		if f.class == nil || f.class.Super == nil {
			l.diags.Errorf(l.pos(value), "super outside of a subclass")
			return l.invalid(value)
		}
		return &ir.Const{Node: n(f.class.Super), Kind: ir.ConstSuper}
	case "local":
		name := l.scalar(value, "local name")
		v := f.locals.lookup(name)
		if v == nil {
			l.diags.Errorf(l.pos(value), "undeclared local %s", name)
			v = l.newVar(name, &ir.Dynamic{})
		}
		return &ir.Local{Node: n(v.Type), Var: v}
	case "ident":
		return &ir.Ident{Node: n(&ir.Dynamic{}), Name: l.scalar(value, "identifier")}
	case "typeref":
		name := l.scalar(value, "type path")
		decl, ok := l.decls[name]
		if !ok {
			l.diags.Errorf(l.pos(value), "unknown type %s", name)
			return l.invalid(value)
		}
		return &ir.TypeExpr{Node: n(nil), Decl: decl}
	case "binop":
		return l.binop(value, n, f)
	case "unop":
		return l.unop(value, n, f)
	case "field":
		keys := l.mapping(value, "target", "name", "access")
		target := l.expr(keys["target"], f)
		access := ir.AccessInstance
		if a := keys["access"]; !isNull(a) {
			parsed, ok := ir.ParseAccessKind(a.Value)
			if !ok {
				l.diags.Errorf(l.pos(a), "unknown access kind %q", a.Value)
			}
			access = parsed
		}
		name := l.scalar(keys["name"], "field name")
		return &ir.FieldAccess{Node: n(memberType(target, name, access)), Target: target, Name: name, Access: access}
	case "index":
		keys := l.mapping(value, "target", "index")
		target := l.expr(keys["target"], f)
		index := l.expr(keys["index"], f)
		return &ir.Index{Node: n(elementType(target.ExprType())), Target: target, Index: index}
	case "paren":
		inner := l.expr(value, f)
		return &ir.Paren{Node: n(inner.ExprType()), Inner: inner}
	case "meta":
		keys := l.mapping(value, "name", "expr")
		inner := l.expr(keys["expr"], f)
		return &ir.Meta{Node: n(inner.ExprType()), Name: l.scalar(keys["name"], "metadata name"), Inner: inner}
	case "object":
		anon := &ir.Anon{}
		var fields []ir.ObjectField
		for _, item := range l.sequence(value) {
			keys := l.mapping(item, "name", "value")
			field := ir.ObjectField{Name: l.scalar(keys["name"], "object field name"), Value: l.expr(keys["value"], f)}
			fields = append(fields, field)
			anon.Fields = append(anon.Fields, &ir.Field{Name: field.Name, Pos: l.pos(item), Type: field.Value.ExprType()})
		}
		return &ir.ObjectDecl{Node: n(anon), Fields: fields}
	case "array":
		elements := l.exprs(value, f)
		var elem ir.Type = &ir.Dynamic{}
		if len(elements) > 0 {
			elem = elements[0].ExprType()
		}
		return &ir.ArrayDecl{Node: n(l.core.arrayOf(elem)), Elements: elements}
	case "function":
		fn := l.function(l.funSpec(value, f.params), f)
		fn.Node = n(fn.Type)
		return fn
	case "call":
		keys := l.mapping(value, "target", "args")
		target := l.expr(keys["target"], f)
		args := l.exprs(keys["args"], f)
		return &ir.Call{Node: n(l.callType(target)), Target: target, Args: args}
	case "new":
		return l.newExpr(value, n, f)
	case "cast":
		keys := l.mapping(value, "value", "to")
		cast := &ir.Cast{Value: l.expr(keys["value"], f)}
		var derived ir.Type = &ir.Dynamic{}
		if to := keys["to"]; !isNull(to) {
			if decl, ok := l.decls[to.Value]; ok {
				cast.To = decl
				derived = instanceOf(decl, nil)
			} else {
				l.diags.Errorf(l.pos(to), "unknown type %s", to.Value)
			}
		}
		cast.Node = n(derived)
		return cast
	case "var":
		keys := l.mapping(value, "name", "type", "init")
		decl := &ir.VarDecl{Node: n(l.core.voidT), Init: l.optional(keys["init"], f)}
		name := l.scalar(keys["name"], "local name")
		var t ir.Type
		switch {
		case !isNull(keys["type"]):
			t = l.typeOf(keys["type"], f.params, "local type")
		case decl.Init != nil:
			t = decl.Init.ExprType()
		default:
			l.diags.Errorf(l.pos(value), "local %s needs a type or an initializer", name)
			t = &ir.Dynamic{}
		}
		decl.Var = l.newVar(name, t)
		f.locals.declare(decl.Var)
		return decl
	case "block":
		exprs := l.exprs(value, f)
		derived := l.core.voidT
		if len(exprs) > 0 {
			derived = exprs[len(exprs)-1].ExprType()
		}
		return &ir.Block{Node: n(derived), Exprs: exprs}
	case "for":
		keys := l.mapping(value, "var", "iter", "body")
		iter := l.expr(keys["iter"], f)
		name, declared := l.binding(keys["var"], f)
		t := declared
		if t == nil {
			t = l.iterationType(iter)
		}
		v := l.newVar(name, t)
		f.locals.declare(v)
		return &ir.For{Node: n(l.core.voidT), Var: v, Iter: iter, Body: l.expr(keys["body"], f)}
	case "if":
		keys := l.mapping(value, "cond", "then", "else")
		e := &ir.If{Cond: l.expr(keys["cond"], f), Then: l.expr(keys["then"], f), Else: l.optional(keys["else"], f)}
		derived := l.core.voidT
		if e.Else != nil {
			derived = e.Then.ExprType()
		}
		e.Node = n(derived)
		return e
	case "while", "dowhile":
		keys := l.mapping(value, "cond", "body")
		return &ir.While{Node: n(l.core.voidT), Cond: l.expr(keys["cond"], f), Body: l.expr(keys["body"], f), DoWhile: kind == "dowhile"}
	case "switch":
		return l.switchExpr(value, n, f)
	case "try":
		keys := l.mapping(value, "body", "catches")
		body := l.expr(keys["body"], f)
		e := &ir.Try{Node: n(body.ExprType()), Body: body}
		for _, item := range l.sequence(keys["catches"]) {
			catch := l.mapping(item, "var", "body")
			name, t := l.binding(catch["var"], f)
			if t == nil {
				l.diags.Errorf(l.pos(item), "catch variable %s needs a type", name)
				t = &ir.Dynamic{}
			}
			v := l.newVar(name, t)
			f.locals.declare(v)
			e.Catches = append(e.Catches, &ir.Catch{Var: v, Body: l.expr(catch["body"], f)})
		}
		return e
	case "return":
		return &ir.Return{Node: n(l.core.voidT), Value: l.optional(value, f)}
	case "break":
		return &ir.Break{Node: n(l.core.voidT)}
	case "continue":
		return &ir.Continue{Node: n(l.core.voidT)}
	case "throw":
		return &ir.Throw{Node: n(l.core.voidT), Value: l.expr(value, f)}
	case "enumparam":
		return l.enumParameter(value, n, f)
	case "enumindex":
		return &ir.EnumIndex{Node: n(l.core.intT), Value: l.expr(value, f)}
	}
	return l.invalid(value)
}

// binding decodes a loop or catch variable: a bare name or {name, type}.
// The type is nil when it is not given.
func (l *loader) binding(node *yaml.Node, f *frame) (string, ir.Type) {
	if node != nil && node.Kind == yaml.ScalarNode {
		return l.scalar(node, "variable name"), nil
	}
	keys := l.mapping(node, "name", "type")
	name := l.scalar(keys["name"], "variable name")
	if isNull(keys["type"]) {
		return name, nil
	}
	return name, l.typeOf(keys["type"], f.params, "variable type")
}

func (l *loader) binop(value *yaml.Node, n nodeOf, f *frame) ir.Expr {
	keys := l.mapping(value, "op", "left", "right")
	symbol := l.scalar(keys["op"], "operator")
	op, assignOp, ok := parseBinop(symbol)
	if !ok {
		l.diags.Errorf(l.pos(keys["op"]), "unknown binary operator %q", symbol)
	}
	left := l.expr(keys["left"], f)
	right := l.expr(keys["right"], f)
	b := &ir.Binop{Op: op, AssignOp: assignOp, Left: left, Right: right}
	b.Node = n(l.binopType(b))
	return b
}

// parseBinop maps an operator spelling to the operator, recognising
// compound assignments such as += and >>>=.
func parseBinop(symbol string) (op, assignOp ir.BinOp, ok bool) {
	if parsed, found := ir.ParseBinOp(symbol); found && parsed != ir.OpAssignOp {
		return parsed, ir.OpAdd, true
	}
	if inner, found := ir.ParseBinOp(strings.TrimSuffix(symbol, "=")); found && strings.HasSuffix(symbol, "=") {
		switch inner {
		case ir.OpAssign, ir.OpAssignOp, ir.OpEq, ir.OpNotEq, ir.OpGt, ir.OpGte, ir.OpLt, ir.OpLte,
			ir.OpBoolAnd, ir.OpBoolOr, ir.OpInterval, ir.OpArrow, ir.OpIn:
			return ir.OpAdd, ir.OpAdd, false
		}
		return ir.OpAssignOp, inner, true
	}
	return ir.OpAdd, ir.OpAdd, false
}

func (l *loader) binopType(b *ir.Binop) ir.Type {
	left, right := b.Left.ExprType(), b.Right.ExprType()
	switch b.Op {
	case ir.OpAssign, ir.OpAssignOp:
		return left
	case ir.OpEq, ir.OpNotEq, ir.OpGt, ir.OpGte, ir.OpLt, ir.OpLte, ir.OpBoolAnd, ir.OpBoolOr, ir.OpIn:
		return l.core.boolT
	case ir.OpInterval:
		return l.core.intT
	case ir.OpNullCoal, ir.OpArrow:
		return right
	case ir.OpAdd:
		if ir.IsString(left) || ir.IsString(right) {
			return l.core.strT
		}
	case ir.OpDiv:
		return l.core.floatT
	}
	switch b.Op {
	case ir.OpAdd, ir.OpSub, ir.OpMult, ir.OpMod:
		if isFloat(left) || isFloat(right) {
			return l.core.floatT
		}
	}
	return left
}

func (l *loader) unop(value *yaml.Node, n nodeOf, f *frame) ir.Expr {
	keys := l.mapping(value, "op", "operand", "postfix")
	symbol := l.scalar(keys["op"], "operator")
	op, ok := ir.ParseUnOp(symbol)
	if !ok {
		l.diags.Errorf(l.pos(keys["op"]), "unknown unary operator %q", symbol)
	}
	operand := l.expr(keys["operand"], f)
	derived := operand.ExprType()
	if op == ir.OpNot {
		derived = l.core.boolT
	}
	return &ir.Unop{Node: n(derived), Op: op, Postfix: l.flag(keys["postfix"]), Operand: operand}
}

func (l *loader) newExpr(value *yaml.Node, n nodeOf, f *frame) ir.Expr {
	keys := l.mapping(value, "class", "params", "args")
	name := l.scalar(keys["class"], "class path")
	class, ok := l.decls[name].(*ir.ClassDecl)
	if !ok || class.Interface {
		l.diags.Errorf(l.pos(keys["class"]), "%s is not a class", name)
		return l.invalid(value)
	}
	e := &ir.New{Class: class}
	for _, item := range l.sequence(keys["params"]) {
		e.Params = append(e.Params, l.typeOf(item, f.params, "type argument"))
	}
	e.Args = l.exprs(keys["args"], f)
	e.Node = n(&ir.Inst{Class: class, Params: e.Params})
	return e
}

func (l *loader) switchExpr(value *yaml.Node, n nodeOf, f *frame) ir.Expr {
	keys := l.mapping(value, "subject", "cases", "default")
	e := &ir.Switch{Subject: l.expr(keys["subject"], f)}
	for _, item := range l.sequence(keys["cases"]) {
		spec := l.mapping(item, "values", "body")
		e.Cases = append(e.Cases, &ir.Case{Values: l.exprs(spec["values"], f), Body: l.optional(spec["body"], f)})
	}
	e.Default = l.optional(keys["default"], f)
	derived := l.core.voidT
	if e.Default != nil && len(e.Cases) > 0 && e.Cases[0].Body != nil {
		derived = e.Cases[0].Body.ExprType()
	}
	e.Node = n(derived)
	return e
}

func (l *loader) enumParameter(value *yaml.Node, n nodeOf, f *frame) ir.Expr {
	keys := l.mapping(value, "value", "ctor", "index")
	e := &ir.EnumParameter{Value: l.expr(keys["value"], f), Index: l.integer(keys["index"], "parameter index")}
	name := l.scalar(keys["ctor"], "constructor name")
	var derived ir.Type = &ir.Dynamic{}
	if ref, ok := ir.Follow(e.Value.ExprType()).(*ir.EnumRef); ok {
		e.Ctor = ref.Enum.Constructor(name)
		switch {
		case e.Ctor == nil:
			l.diags.Errorf(l.pos(keys["ctor"]), "%s has no constructor %s", ref.Enum.Path, name)
		case e.Index < 0 || e.Index >= len(e.Ctor.Args):
			l.diags.Errorf(l.pos(keys["index"]), "%s.%s has no parameter %d", ref.Enum.Path, name, e.Index)
		default:
			derived = ir.Apply(ref.Enum.Params, ref.Params, e.Ctor.Args[e.Index].Type)
		}
	} else {
		l.diags.Errorf(l.pos(keys["value"]), "enum parameter of a value that is not an enum")
	}
	e.Node = n(derived)
	return e
}

// --- Type derivation ---

func (l *loader) callType(target ir.Expr) ir.Type {
	if k, ok := ir.Unwrap(target).(*ir.Const); ok && k.Kind == ir.ConstSuper {
		return l.core.voidT
	}
	if fun, ok := ir.Follow(target.ExprType()).(*ir.Fun); ok {
		return fun.Ret
	}
	return &ir.Dynamic{}
}

func (l *loader) iterationType(iter ir.Expr) ir.Type {
	if b, ok := ir.Unwrap(iter).(*ir.Binop); ok && b.Op == ir.OpInterval {
		return l.core.intT
	}
	return elementType(iter.ExprType())
}

// elementType is the element type of an array, or Dynamic.
func elementType(t ir.Type) ir.Type {
	if inst, ok := ir.Follow(t).(*ir.Inst); ok && inst.Class != nil && len(inst.Params) == 1 {
		switch inst.Class.Path.String() {
		case "Array", "rust.NativeArray":
			return inst.Params[0]
		}
	}
	return &ir.Dynamic{}
}

// memberType is the type of target.name. Unknown members are Dynamic.
func memberType(target ir.Expr, name string, access ir.AccessKind) ir.Type {
	switch access {
	case ir.AccessStatic, ir.AccessEnum:
		typeExpr, ok := ir.Unwrap(target).(*ir.TypeExpr)
		if !ok {
			return &ir.Dynamic{}
		}
		switch decl := typeExpr.Decl.(type) {
		case *ir.ClassDecl:
			for _, field := range decl.Statics {
				if field.Name == name {
					return field.Type
				}
			}
		case *ir.EnumDecl:
			ctor := decl.Constructor(name)
			if ctor == nil {
				break
			}
			self := &ir.EnumRef{Enum: decl}
			if len(ctor.Args) == 0 {
				return self
			}
			return &ir.Fun{Args: ctor.Args, Ret: self}
		}
		return &ir.Dynamic{}
	case ir.AccessDynamic:
		return &ir.Dynamic{}
	}

	switch actual := ir.Follow(target.ExprType()).(type) {
	case *ir.Inst:
		if t := instanceMember(actual, name, 0); t != nil {
			return t
		}
	case *ir.Anon:
		for _, field := range actual.Fields {
			if field.Name == name {
				return field.Type
			}
		}
	}
	return &ir.Dynamic{}
}

// instanceMember looks name up in the class of inst, then its superclass and
// interfaces, substituting the instance's type arguments.
func instanceMember(inst *ir.Inst, name string, depth int) ir.Type {
	if inst == nil || inst.Class == nil || depth > maxInheritanceDepth {
		return nil
	}
	class := inst.Class
	for _, field := range class.Fields {
		if field.Name == name {
			return ir.Apply(class.Params, inst.Params, field.Type)
		}
	}
	parents := append([]*ir.Inst{class.Super}, class.Interfaces...)
	for _, parent := range parents {
		if parent == nil {
			continue
		}
		applied, _ := ir.Apply(class.Params, inst.Params, parent).(*ir.Inst)
		if t := instanceMember(applied, name, depth+1); t != nil {
			return t
		}
	}
	return nil
}

const maxInheritanceDepth = 32

func isFloat(t ir.Type) bool {
	if ref, ok := ir.Follow(t).(*ir.AbstractRef); ok {
		path := ref.Abstract.Path.String()
		return path == "Float" || path == "Single"
	}
	return false
}
