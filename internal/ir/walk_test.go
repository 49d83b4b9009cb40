package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWalk(t *testing.T) {
	x := &Var{Name: "x"}
	assign := &Binop{Op: OpAssign, Left: &Local{Var: x}, Right: &Const{Kind: ConstInt, Value: "1"}}
	closure := &Function{Body: &Block{Exprs: []Expr{assign}}}
	body := &Block{Exprs: []Expr{
		&VarDecl{Var: x},
		&If{Cond: &Const{Kind: ConstBool, Value: "true"}, Then: closure},
		&Switch{Subject: &Local{Var: x}, Cases: []*Case{{Values: []Expr{&Const{Kind: ConstInt, Value: "2"}}}}},
	}}

	var kinds []string
	Walk(body, func(e Expr) bool {
		switch actual := e.(type) {
		case *Block:
			kinds = append(kinds, "block")
		case *Const:
			kinds = append(kinds, actual.Value)
		case *Function:
			kinds = append(kinds, "function")
			return false
		default:
			kinds = append(kinds, "_")
		}
		return true
	})
	assert.Equal(t, []string{"block", "_", "_", "true", "function", "_", "_", "2"}, kinds)

	assert.True(t, Any(body, func(e Expr) bool {
		b, ok := e.(*Binop)
		return ok && b.Op == OpAssign
	}), "nested closures are searched")
	assert.False(t, Any(body, func(e Expr) bool {
		_, ok := e.(*Return)
		return ok
	}))
}

func TestUnwrap(t *testing.T) {
	inner := &Const{Kind: ConstNull}
	assert.Equal(t, Expr(inner), Unwrap(&Paren{Inner: &Meta{Name: ":keep", Inner: &Paren{Inner: inner}}}))
}
