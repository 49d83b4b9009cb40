package rustbe

import (
	"github.com/lhaig/oxidize/internal/ir"
)

// AssignsToReceiver reports whether body writes to storage reached through
// this or super anywhere, nested blocks and closures included. Such methods
// take &mut self.
func AssignsToReceiver(body ir.Expr) bool {
	return assignsTo(body, isReceiver)
}

// AssignsToLocal reports whether any of exprs writes to v or to storage
// reached through it.
func AssignsToLocal(exprs []ir.Expr, v *ir.Var) bool {
	isVar := func(e ir.Expr) bool {
		local, ok := ir.Unwrap(e).(*ir.Local)
		return ok && local.Var == v
	}
	for _, e := range exprs {
		if assignsTo(e, isVar) {
			return true
		}
	}
	return false
}

func assignsTo(e ir.Expr, root func(ir.Expr) bool) bool {
	return ir.Any(e, func(candidate ir.Expr) bool {
		switch actual := candidate.(type) {
		case *ir.Binop:
			if actual.Op == ir.OpAssign || actual.Op == ir.OpAssignOp {
				return root(storageRoot(actual.Left))
			}
		case *ir.Unop:
			if actual.Op == ir.OpIncrement || actual.Op == ir.OpDecrement {
				return root(storageRoot(actual.Operand))
			}
		}
		return false
	})
}

// storageRoot follows field and index chains down to the expression that
// owns the written storage.
func storageRoot(e ir.Expr) ir.Expr {
	for {
		switch actual := ir.Unwrap(e).(type) {
		case *ir.FieldAccess:
			if actual.Access == ir.AccessStatic || actual.Access == ir.AccessEnum {
				return actual
			}
			e = actual.Target
		case *ir.Index:
			e = actual.Target
		default:
			return actual
		}
	}
}
