package rustbe

import (
	"strconv"
	"strings"

	"github.com/lhaig/oxidize/internal/ir"
)

// Intrinsic identifiers recognised at call sites.
const (
	intrinsicRaw   = "__rust__"
	intrinsicAs    = "__as__"
	intrinsicVec   = "__vec__"
	intrinsicMacro = "__macro__"
)

func (c *Context) lowerCall(call *ir.Call) string {
	target := ir.Unwrap(call.Target)
	if ident, ok := target.(*ir.Ident); ok {
		switch ident.Name {
		case intrinsicRaw:
			return c.lowerRaw(call)
		case intrinsicAs:
			return c.lowerAs(call)
		case intrinsicVec:
			return "vec![" + c.lowerList(call.Args) + "]"
		case intrinsicMacro:
			return c.lowerMacro(call)
		}
	}
	if k, ok := target.(*ir.Const); ok && k.Kind == ir.ConstSuper {
		return c.lowerSuperCall(call)
	}

	args := c.lowerList(call.Args)
	switch target.(type) {
	case *ir.Call, *ir.Function:
		return "(" + c.lower(call.Target, false) + ")(" + args + ")"
	}
	return c.lower(call.Target, false) + "(" + args + ")"
}

// literalArg returns the text of a string literal argument.
func literalArg(call *ir.Call, index int) (string, bool) {
	if index >= len(call.Args) {
		return "", false
	}
	k, ok := ir.Unwrap(call.Args[index]).(*ir.Const)
	if !ok || k.Kind != ir.ConstString {
		return "", false
	}
	return k.Value, true
}

// lowerRaw splices the code literal verbatim. Placeholders {0}, {1} ... are
// replaced by the lowered trailing arguments.
func (c *Context) lowerRaw(call *ir.Call) string {
	code, ok := literalArg(call, 0)
	if !ok {
		return c.fail(call, intrinsicRaw, "first argument must be a string literal")
	}
	for i, arg := range call.Args[1:] {
		code = strings.ReplaceAll(code, "{"+strconv.Itoa(i)+"}", c.lower(arg, true))
	}
	return code
}

func (c *Context) lowerAs(call *ir.Call) string {
	typeName, ok := literalArg(call, 1)
	if len(call.Args) != 2 || !ok {
		return c.fail(call, intrinsicAs, "expects a value and a type name literal")
	}
	return "(" + c.lower(call.Args[0], true) + ") as " + typeName
}

func (c *Context) lowerMacro(call *ir.Call) string {
	name, ok := literalArg(call, 0)
	if !ok {
		return c.fail(call, intrinsicMacro, "first argument must name the macro")
	}
	return name + "!(" + c.lowerList(call.Args[1:]) + ")"
}

// lowerSuperCall initialises the embedded base value from inside a
// constructor.
func (c *Context) lowerSuperCall(call *ir.Call) string {
	class, ok := c.decl.(*ir.ClassDecl)
	if !c.inConstructor || !ok || class.Super == nil || class.Super.Class == nil {
		return c.fail(call, "super call", "only valid in the constructor of a subclass")
	}
	return "this._super = " + c.ResolveDecl(class.Super.Class) + "::new(" + c.lowerList(call.Args) + ")"
}
