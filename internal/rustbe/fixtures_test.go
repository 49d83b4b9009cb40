package rustbe

import (
	"github.com/lhaig/oxidize/internal/ir"
)

var (
	intDecl    = &ir.AbstractDecl{Path: ir.Path{Name: "Int"}, Core: true}
	floatDecl  = &ir.AbstractDecl{Path: ir.Path{Name: "Float"}, Core: true}
	boolDecl   = &ir.AbstractDecl{Path: ir.Path{Name: "Bool"}, Core: true}
	voidDecl   = &ir.AbstractDecl{Path: ir.Path{Name: "Void"}, Core: true}
	nullDecl   = &ir.AbstractDecl{Path: ir.Path{Name: "Null"}, Core: true, Params: []string{"T"}}
	stringDecl = &ir.ClassDecl{Path: ir.Path{Name: "String"}, Extern: true}
	arrayDecl  = &ir.ClassDecl{Path: ir.Path{Name: "Array"}, Extern: true, Params: []string{"T"}}

	tInt    ir.Type = &ir.AbstractRef{Abstract: intDecl}
	tFloat  ir.Type = &ir.AbstractRef{Abstract: floatDecl}
	tBool   ir.Type = &ir.AbstractRef{Abstract: boolDecl}
	tVoid   ir.Type = &ir.AbstractRef{Abstract: voidDecl}
	tString ir.Type = &ir.Inst{Class: stringDecl}
)

func nullOf(t ir.Type) ir.Type {
	return &ir.AbstractRef{Abstract: nullDecl, Params: []ir.Type{t}}
}

func arrayOf(t ir.Type) ir.Type {
	return &ir.Inst{Class: arrayDecl, Params: []ir.Type{t}}
}

func classType(c *ir.ClassDecl, params ...ir.Type) ir.Type {
	return &ir.Inst{Class: c, Params: params}
}

func newClass(path string) *ir.ClassDecl {
	return &ir.ClassDecl{Path: ir.ParsePath(path)}
}

func typed(t ir.Type) ir.Node {
	return ir.Node{Type: t}
}

func intLit(v string) *ir.Const {
	return &ir.Const{Node: typed(tInt), Kind: ir.ConstInt, Value: v}
}

func strLit(v string) *ir.Const {
	return &ir.Const{Node: typed(tString), Kind: ir.ConstString, Value: v}
}

func thisOf(c *ir.ClassDecl) *ir.Const {
	return &ir.Const{Node: typed(classType(c)), Kind: ir.ConstThis}
}

func newVar(id int, name string, t ir.Type) *ir.Var {
	return &ir.Var{ID: id, Name: name, Type: t}
}

func local(v *ir.Var) *ir.Local {
	return &ir.Local{Node: typed(v.Type), Var: v}
}

func fieldOf(target ir.Expr, name string, t ir.Type) *ir.FieldAccess {
	return &ir.FieldAccess{Node: typed(t), Target: target, Name: name, Access: ir.AccessInstance}
}

func assign(left, right ir.Expr) *ir.Binop {
	return &ir.Binop{Node: typed(left.ExprType()), Op: ir.OpAssign, Left: left, Right: right}
}

func binop(op ir.BinOp, t ir.Type, left, right ir.Expr) *ir.Binop {
	return &ir.Binop{Node: typed(t), Op: op, Left: left, Right: right}
}

func block(exprs ...ir.Expr) *ir.Block {
	return &ir.Block{Node: typed(tVoid), Exprs: exprs}
}

func ident(name string) *ir.Ident {
	return &ir.Ident{Name: name}
}

func call(t ir.Type, target ir.Expr, args ...ir.Expr) *ir.Call {
	return &ir.Call{Node: typed(t), Target: target, Args: args}
}

func method(name string, ret ir.Type, body ir.Expr, args ...*ir.Var) *ir.Field {
	fn := &ir.Function{Ret: ret, Body: body}
	funType := &ir.Fun{Ret: ret}
	for _, arg := range args {
		fn.Args = append(fn.Args, &ir.FuncArg{Var: arg})
		funType.Args = append(funType.Args, ir.FunArg{Name: arg.Name, Type: arg.Type})
	}
	fn.Type = funType
	return &ir.Field{Name: name, Kind: ir.FieldMethod, Type: funType, Expr: fn}
}

func dataField(name string, t ir.Type) *ir.Field {
	return &ir.Field{Name: name, Kind: ir.FieldVar, Type: t}
}

func constructor(body ir.Expr, args ...*ir.Var) *ir.Field {
	return method("new", tVoid, body, args...)
}

func testContext() *Context {
	return NewContext([]string{"pkg", "Main"}, NewNameSet())
}
