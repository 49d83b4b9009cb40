package rustbe

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lhaig/oxidize/internal/diagnostic"
	"github.com/lhaig/oxidize/internal/ir"
)

func TestLower_Constants(t *testing.T) {
	var testCases = []struct {
		description string
		input       ir.Expr
		expect      string
	}{
		{description: "int", input: intLit("42"), expect: "42"},
		{description: "float without dot", input: &ir.Const{Node: typed(tFloat), Kind: ir.ConstFloat, Value: "1"}, expect: "1.0"},
		{description: "float", input: &ir.Const{Node: typed(tFloat), Kind: ir.ConstFloat, Value: "2.5"}, expect: "2.5"},
		{description: "exponent", input: &ir.Const{Node: typed(tFloat), Kind: ir.ConstFloat, Value: "1e9"}, expect: "1e9"},
		{description: "string", input: strLit("say \"hi\"\n"), expect: `"say \"hi\"\n".to_string()`},
		{description: "bool", input: &ir.Const{Node: typed(tBool), Kind: ir.ConstBool, Value: "true"}, expect: "true"},
		{description: "null", input: &ir.Const{Node: typed(nullOf(tInt)), Kind: ir.ConstNull}, expect: "None"},
	}
	for _, testCase := range testCases {
		actual, err := testContext().Lower(testCase.input, true)
		assert.Nil(t, err, testCase.description)
		assert.Equal(t, testCase.expect, actual, testCase.description)
	}
}

func TestLower_WrapRoundTrip(t *testing.T) {
	point := newClass("geo.Point")
	p := newVar(1, "p", classType(point))
	n := newVar(2, "n", nullOf(tInt))
	construct := &ir.New{Node: typed(classType(point)), Class: point}

	var testCases = []struct {
		description string
		input       ir.Expr
		value       bool
		expect      string
	}{
		{description: "new in value position", input: construct, value: true, expect: "Some(Point::new())"},
		{description: "new as statement", input: construct, expect: "Point::new()"},
		{description: "literal into nullable", input: &ir.Const{Node: typed(nullOf(tInt)), Kind: ir.ConstInt, Value: "5"}, value: true, expect: "Some(5)"},
		{description: "local already optional", input: local(n), value: true, expect: "n"},
		{description: "parenthesised new", input: &ir.Paren{Node: typed(classType(point)), Inner: construct}, value: true, expect: "(Some(Point::new()))"},
		{description: "receiver unwrapped", input: fieldOf(local(p), "x", tInt), value: true, expect: "p.unwrap().x"},
		{description: "index receiver unwrapped", input: &ir.Index{Node: typed(tInt), Target: fieldOf(local(p), "items", arrayOf(tInt)), Index: intLit("0")}, value: true, expect: "p.unwrap().items[0 as usize]"},
		{description: "assignment of new", input: assign(local(p), construct), expect: "p = Some(Point::new())"},
		{description: "unchecked cast", input: &ir.Cast{Node: typed(tFloat), Value: intLit("3")}, value: true, expect: "(3) as f64"},
	}
	for _, testCase := range testCases {
		actual, err := testContext().Lower(testCase.input, testCase.value)
		assert.Nil(t, err, testCase.description)
		assert.Equal(t, testCase.expect, actual, testCase.description)
	}
}

func TestLower_Receiver(t *testing.T) {
	counter := newClass("app.Counter")
	x := fieldOf(thisOf(counter), "x", tInt)

	ctx := testContext()
	ctx.decl = counter
	actual, err := ctx.Lower(x, true)
	assert.Nil(t, err)
	assert.Equal(t, "self.x", actual)

	ctx.inConstructor = true
	actual, err = ctx.Lower(assign(x, intLit("0")), false)
	assert.Nil(t, err)
	assert.Equal(t, "this.x = 0", actual)

	ctx.inConstructor = false
	ctx.inStatic = true
	_, err = ctx.Lower(x, true)
	var unsupported *diagnostic.UnsupportedExpression
	assert.True(t, errors.As(err, &unsupported))
}

func TestLower_Operators(t *testing.T) {
	x := newVar(1, "x", tInt)
	s := newVar(2, "s", tString)
	n := newVar(3, "n", nullOf(tInt))

	var testCases = []struct {
		description string
		input       ir.Expr
		value       bool
		expect      string
	}{
		{description: "arithmetic", input: binop(ir.OpMult, tInt, local(x), intLit("2")), value: true, expect: "(x * 2)"},
		{description: "assignment statement", input: assign(local(x), intLit("1")), expect: "x = 1"},
		{description: "assignment value", input: assign(local(x), intLit("1")), value: true, expect: "{ x = 1; x }"},
		{description: "compound statement", input: &ir.Binop{Node: typed(tInt), Op: ir.OpAssignOp, AssignOp: ir.OpAdd, Left: local(x), Right: intLit("2")}, expect: "x += 2"},
		{description: "compound value", input: &ir.Binop{Node: typed(tInt), Op: ir.OpAssignOp, AssignOp: ir.OpShl, Left: local(x), Right: intLit("1")}, value: true, expect: "{ x <<= 1; x }"},
		{description: "increment", input: &ir.Unop{Node: typed(tInt), Op: ir.OpIncrement, Postfix: true, Operand: local(x)}, expect: "x = (x + 1)"},
		{description: "decrement value", input: &ir.Unop{Node: typed(tInt), Op: ir.OpDecrement, Operand: local(x)}, value: true, expect: "{ x = (x - 1); x }"},
		{description: "string concat", input: binop(ir.OpAdd, tString, local(s), strLit("!")), value: true, expect: `format!("{}{}", s, "!".to_string())`},
		{description: "string append", input: &ir.Binop{Node: typed(tString), Op: ir.OpAssignOp, AssignOp: ir.OpAdd, Left: local(s), Right: strLit("!")}, expect: `s = format!("{}{}", s, "!".to_string())`},
		{description: "null coalescing", input: binop(ir.OpNullCoal, tInt, local(n), intLit("1")), value: true, expect: "n.unwrap_or(1)"},
		{description: "unsigned shift", input: binop(ir.OpUShr, tInt, local(x), intLit("2")), value: true, expect: "((x as u32) >> 2) as i32"},
		{description: "not", input: &ir.Unop{Node: typed(tBool), Op: ir.OpNot, Operand: &ir.Const{Node: typed(tBool), Kind: ir.ConstBool, Value: "false"}}, value: true, expect: "!false"},
		{description: "negate", input: &ir.Unop{Node: typed(tInt), Op: ir.OpNeg, Operand: local(x)}, value: true, expect: "-x"},
	}
	for _, testCase := range testCases {
		actual, err := testContext().Lower(testCase.input, testCase.value)
		assert.Nil(t, err, testCase.description)
		assert.Equal(t, testCase.expect, actual, testCase.description)
	}
}

func TestLower_Calls(t *testing.T) {
	x := newVar(1, "x", tInt)
	f := newVar(2, "f", &ir.Fun{Ret: &ir.Fun{Args: []ir.FunArg{{Name: "a", Type: tInt}}, Ret: tInt}})
	util := newClass("app.Util")

	var testCases = []struct {
		description string
		input       ir.Expr
		expect      string
	}{
		{description: "raw", input: call(tVoid, ident(intrinsicRaw), strLit(`println!("hi")`)), expect: `println!("hi")`},
		{description: "raw with placeholder", input: call(tInt, ident(intrinsicRaw), strLit("{0}.len() as i32"), local(x)), expect: "x.len() as i32"},
		{description: "keyword cast", input: call(tInt, ident(intrinsicAs), local(x), strLit("u8")), expect: "(x) as u8"},
		{description: "vector", input: call(arrayOf(tInt), ident(intrinsicVec), intLit("1"), intLit("2")), expect: "vec![1, 2]"},
		{description: "macro", input: call(tVoid, ident(intrinsicMacro), strLit("assert"), local(x)), expect: "assert!(x)"},
		{description: "call of call", input: call(tInt, call(f.Type.(*ir.Fun).Ret, local(f)), intLit("1")), expect: "(f())(1)"},
		{description: "static call", input: call(tInt, &ir.FieldAccess{Node: typed(&ir.Fun{Ret: tInt}), Target: &ir.TypeExpr{Decl: util}, Name: "max", Access: ir.AccessStatic}, local(x)), expect: "Util::max(x)"},
	}
	for _, testCase := range testCases {
		actual, err := testContext().Lower(testCase.input, true)
		assert.Nil(t, err, testCase.description)
		assert.Equal(t, testCase.expect, actual, testCase.description)
	}
}

func TestLower_SuperCall(t *testing.T) {
	base := newClass("zoo.Animal")
	dog := newClass("zoo.Dog")
	dog.Super = &ir.Inst{Class: base}
	superCall := call(tVoid, &ir.Const{Node: typed(classType(base)), Kind: ir.ConstSuper}, strLit("rex"))

	ctx := testContext()
	ctx.decl = dog
	_, err := ctx.Lower(superCall, false)
	assert.NotNil(t, err, "super() outside a constructor")

	ctx.inConstructor = true
	actual, err := ctx.Lower(superCall, false)
	assert.Nil(t, err)
	assert.Equal(t, `this._super = Animal::new("rex".to_string())`, actual)
}

func TestLower_Literals(t *testing.T) {
	crates := NewNameSet()
	ctx := NewContext([]string{"app", "Main"}, crates)
	object := &ir.ObjectDecl{Node: typed(&ir.Anon{}), Fields: []ir.ObjectField{
		{Name: "a", Value: intLit("1")},
		{Name: "b", Value: strLit("x")},
	}}
	actual, err := ctx.Lower(object, true)
	assert.Nil(t, err)
	assert.Equal(t, `hashmap!{"a" => 1, "b" => "x".to_string()}`, actual)
	assert.True(t, crates.Has("maplit"))
	assert.Equal(t, []string{"use maplit::hashmap;"}, ctx.Imports().UseLines())

	actual, err = ctx.Lower(&ir.ArrayDecl{Node: typed(arrayOf(tInt)), Elements: []ir.Expr{intLit("1"), intLit("2")}}, true)
	assert.Nil(t, err)
	assert.Equal(t, "vec![1, 2]", actual)

	actual, err = ctx.Lower(&ir.ArrayDecl{Node: typed(arrayOf(tInt))}, true)
	assert.Nil(t, err)
	assert.Equal(t, "Vec::new()", actual)
}

func TestLower_DoWhile(t *testing.T) {
	i := newVar(1, "i", tInt)
	done := newVar(2, "done", tBool)
	loop := &ir.While{
		Node:    typed(tVoid),
		Cond:    local(done),
		Body:    block(&ir.Unop{Node: typed(tInt), Op: ir.OpIncrement, Postfix: true, Operand: local(i)}),
		DoWhile: true,
	}
	actual, err := testContext().Lower(loop, false)
	assert.Nil(t, err)
	assert.Equal(t, strings.Join([]string{
		"loop {",
		"    i = (i + 1);",
		"    if !(done) {",
		"        break;",
		"    }",
		"}",
	}, "\n"), actual)

	loop.DoWhile = false
	actual, err = testContext().Lower(loop, false)
	assert.Nil(t, err)
	assert.Equal(t, "while done {\n    i = (i + 1);\n}", actual)
}

func TestLower_Blocks(t *testing.T) {
	x := newVar(1, "x", tInt)
	y := newVar(2, "y", tInt)
	p := newVar(3, "p", classType(newClass("geo.Point")))

	stmt := block(
		&ir.VarDecl{Node: typed(tVoid), Var: x, Init: intLit("1")},
		&ir.VarDecl{Node: typed(tVoid), Var: y, Init: intLit("2")},
		&ir.VarDecl{Node: typed(tVoid), Var: p},
		assign(local(x), local(y)),
	)
	actual, err := testContext().Lower(stmt, false)
	assert.Nil(t, err)
	assert.Equal(t, strings.Join([]string{
		"{",
		"    let mut x: i32 = 1;",
		"    let y: i32 = 2;",
		"    let p: Option<Point> = None;",
		"    x = y;",
		"}",
	}, "\n"), actual)

	value := &ir.Block{Node: typed(tInt), Exprs: []ir.Expr{
		&ir.VarDecl{Node: typed(tVoid), Var: y, Init: intLit("2")},
		binop(ir.OpAdd, tInt, local(y), intLit("1")),
	}}
	actual, err = testContext().Lower(value, true)
	assert.Nil(t, err)
	assert.Equal(t, "{\n    let y: i32 = 2;\n    (y + 1)\n}", actual)

	actual, err = testContext().Lower(block(), true)
	assert.Nil(t, err)
	assert.Equal(t, "{}", actual)
}

func TestLower_ControlFlow(t *testing.T) {
	n := newVar(1, "n", tInt)
	x := newVar(2, "x", tInt)
	v := newVar(3, "v", tInt)
	items := newVar(4, "items", arrayOf(tInt))

	var testCases = []struct {
		description string
		input       ir.Expr
		value       bool
		expect      string
	}{
		{
			description: "switch",
			input: &ir.Switch{Node: typed(tVoid), Subject: local(n), Cases: []*ir.Case{
				{Values: []ir.Expr{intLit("1"), intLit("2")}, Body: assign(local(x), intLit("1"))},
			}},
			expect: "match n {\n    1 | 2 => {\n        x = 1;\n    },\n    _ => {},\n}",
		},
		{
			description: "if else",
			input: &ir.If{Node: typed(tInt), Cond: binop(ir.OpGt, tBool, local(n), intLit("0")),
				Then: intLit("1"), Else: intLit("2")},
			value:  true,
			expect: "if (n > 0) {\n    1\n} else {\n    2\n}",
		},
		{
			description: "interval loop",
			input: &ir.For{Node: typed(tVoid), Var: v, Iter: binop(ir.OpInterval, tInt, intLit("0"), local(n)),
				Body: block(&ir.Continue{})},
			expect: "for v in 0..n {\n    continue;\n}",
		},
		{
			description: "array loop",
			input:       &ir.For{Node: typed(tVoid), Var: v, Iter: local(items), Body: block(&ir.Break{})},
			expect:      "for v in items.iter() {\n    break;\n}",
		},
		{
			description: "flattened return",
			input:       &ir.Return{Value: block(&ir.Return{Value: local(n)})},
			expect:      "return n",
		},
		{
			description: "bare return",
			input:       &ir.Return{},
			expect:      "return",
		},
		{
			description: "throw",
			input:       &ir.Throw{Value: strLit("boom")},
			expect:      `panic!("{:?}", "boom".to_string())`,
		},
		{
			description: "closure",
			input: &ir.Function{Node: typed(&ir.Fun{Ret: tInt}), Args: []*ir.FuncArg{{Var: x}}, Ret: tInt,
				Body: binop(ir.OpMult, tInt, local(x), local(x))},
			value:  true,
			expect: "|x: i32| -> i32 {\n    return (x * x);\n}",
		},
	}
	for _, testCase := range testCases {
		actual, err := testContext().Lower(testCase.input, testCase.value)
		assert.Nil(t, err, testCase.description)
		assert.Equal(t, testCase.expect, actual, testCase.description)
	}
}

func TestLower_Unsupported(t *testing.T) {
	color := &ir.EnumDecl{Path: ir.ParsePath("geo.Color"), Constructors: []*ir.EnumCtor{{Name: "Rgb", Args: []ir.FunArg{{Name: "r", Type: tInt}}}}}
	c := newVar(1, "c", &ir.EnumRef{Enum: color})
	items := newVar(2, "items", arrayOf(tInt))

	var testCases = []struct {
		description string
		input       ir.Expr
		kind        string
	}{
		{description: "enum parameter", input: &ir.EnumParameter{Node: typed(tInt), Value: local(c), Ctor: color.Constructors[0]}, kind: "enum parameter"},
		{description: "spread", input: &ir.Unop{Node: typed(tInt), Op: ir.OpSpread, Operand: local(items)}, kind: "unary operator"},
		{description: "in", input: binop(ir.OpIn, tBool, intLit("1"), local(items)), kind: "binary operator in"},
		{description: "arrow", input: binop(ir.OpArrow, tInt, intLit("1"), intLit("2")), kind: "binary operator =>"},
		{description: "nested", input: block(assign(local(c), &ir.EnumParameter{Node: typed(tInt), Value: local(c)})), kind: "enum parameter"},
		{description: "raw without literal", input: call(tVoid, ident(intrinsicRaw), local(items)), kind: intrinsicRaw},
	}
	for _, testCase := range testCases {
		actual, err := testContext().Lower(testCase.input, true)
		assert.Equal(t, "", actual, testCase.description)
		var unsupported *diagnostic.UnsupportedExpression
		if assert.True(t, errors.As(err, &unsupported), testCase.description) {
			assert.Equal(t, testCase.kind, unsupported.Kind, testCase.description)
		}
	}
}
