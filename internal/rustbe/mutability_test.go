package rustbe

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lhaig/oxidize/internal/ir"
)

func TestAssignsToReceiver(t *testing.T) {
	counter := newClass("app.Counter")
	this := thisOf(counter)
	x := newVar(1, "x", tInt)
	items := fieldOf(this, "items", arrayOf(tInt))
	cond := &ir.Const{Node: typed(tBool), Kind: ir.ConstBool, Value: "true"}

	var testCases = []struct {
		description string
		body        ir.Expr
		expect      bool
	}{
		{description: "read only", body: block(&ir.Return{Value: fieldOf(this, "count", tInt)}), expect: false},
		{description: "field assignment", body: block(assign(fieldOf(this, "count", tInt), intLit("0"))), expect: true},
		{description: "local assignment", body: block(assign(local(x), fieldOf(this, "count", tInt))), expect: false},
		{description: "increment", body: block(&ir.Unop{Node: typed(tInt), Op: ir.OpIncrement, Operand: fieldOf(this, "count", tInt)}), expect: true},
		{description: "index store", body: block(assign(&ir.Index{Node: typed(tInt), Target: items, Index: intLit("0")}, intLit("1"))), expect: true},
		{description: "nested in branch", body: block(&ir.If{Cond: cond, Then: block(&ir.While{Cond: cond, Body: assign(fieldOf(this, "count", tInt), intLit("2"))})}), expect: true},
		{description: "nested in closure", body: block(&ir.Function{Ret: tVoid, Body: assign(fieldOf(this, "count", tInt), intLit("3"))}), expect: true},
		{description: "inherited field", body: assign(fieldOf(&ir.Const{Kind: ir.ConstSuper}, "name", tString), strLit("x")), expect: true},
		{description: "compound assignment", body: &ir.Binop{Op: ir.OpAssignOp, AssignOp: ir.OpAdd, Left: fieldOf(this, "count", tInt), Right: intLit("1")}, expect: true},
	}
	for _, testCase := range testCases {
		assert.Equal(t, testCase.expect, AssignsToReceiver(testCase.body), testCase.description)
	}
}

func TestAssignsToLocal(t *testing.T) {
	point := newClass("geo.Point")
	p := newVar(1, "p", classType(point))
	q := newVar(2, "q", classType(point))

	assert.True(t, AssignsToLocal([]ir.Expr{assign(fieldOf(local(p), "x", tInt), intLit("1"))}, p))
	assert.False(t, AssignsToLocal([]ir.Expr{assign(fieldOf(local(q), "x", tInt), intLit("1"))}, p))
	assert.False(t, AssignsToLocal(nil, p))
}
