package ir

// Walk visits e and its sub-expressions in pre-order. Children of a node are
// skipped when visit returns false.
func Walk(e Expr, visit func(Expr) bool) {
	if e == nil || !visit(e) {
		return
	}
	for _, child := range Children(e) {
		Walk(child, visit)
	}
}

// Any reports whether pred holds for e or any sub-expression.
func Any(e Expr, pred func(Expr) bool) bool {
	found := false
	Walk(e, func(candidate Expr) bool {
		if found {
			return false
		}
		if pred(candidate) {
			found = true
			return false
		}
		return true
	})
	return found
}

// Children returns the direct sub-expressions of e in evaluation order.
func Children(e Expr) []Expr {
	switch actual := e.(type) {
	case *Index:
		return []Expr{actual.Target, actual.Index}
	case *Binop:
		return []Expr{actual.Left, actual.Right}
	case *Unop:
		return []Expr{actual.Operand}
	case *FieldAccess:
		return []Expr{actual.Target}
	case *Paren:
		return []Expr{actual.Inner}
	case *Meta:
		return []Expr{actual.Inner}
	case *ObjectDecl:
		result := make([]Expr, 0, len(actual.Fields))
		for _, field := range actual.Fields {
			result = append(result, field.Value)
		}
		return result
	case *ArrayDecl:
		return actual.Elements
	case *Function:
		result := make([]Expr, 0, len(actual.Args)+1)
		for _, arg := range actual.Args {
			if arg.Default != nil {
				result = append(result, arg.Default)
			}
		}
		return append(result, actual.Body)
	case *Call:
		return append([]Expr{actual.Target}, actual.Args...)
	case *New:
		return actual.Args
	case *Cast:
		return []Expr{actual.Value}
	case *VarDecl:
		return nonNil(actual.Init)
	case *Block:
		return actual.Exprs
	case *For:
		return []Expr{actual.Iter, actual.Body}
	case *If:
		return nonNil(actual.Cond, actual.Then, actual.Else)
	case *While:
		return []Expr{actual.Cond, actual.Body}
	case *Switch:
		result := []Expr{actual.Subject}
		for _, c := range actual.Cases {
			result = append(result, c.Values...)
			result = append(result, c.Body)
		}
		return append(result, nonNil(actual.Default)...)
	case *Try:
		result := []Expr{actual.Body}
		for _, c := range actual.Catches {
			result = append(result, c.Body)
		}
		return result
	case *Return:
		return nonNil(actual.Value)
	case *Throw:
		return []Expr{actual.Value}
	case *EnumParameter:
		return []Expr{actual.Value}
	case *EnumIndex:
		return []Expr{actual.Value}
	}
	return nil
}

func nonNil(exprs ...Expr) []Expr {
	result := make([]Expr, 0, len(exprs))
	for _, e := range exprs {
		if e != nil {
			result = append(result, e)
		}
	}
	return result
}
