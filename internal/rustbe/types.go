package rustbe

import (
	"strings"

	"github.com/lhaig/oxidize/internal/ir"
)

// primitiveTypes are the type paths that map straight to Rust built-ins and
// never consume an import slot.
var primitiveTypes = map[string]string{
	"Int":         "i32",
	"UInt":        "u32",
	"Float":       "f64",
	"Single":      "f32",
	"Bool":        "bool",
	"Void":        "()",
	"haxe.Int32":  "i32",
	"haxe.Int64":  "i64",
	"rust.Int8":   "i8",
	"rust.Int16":  "i16",
	"rust.Int64":  "i64",
	"rust.UInt8":  "u8",
	"rust.UInt16": "u16",
	"rust.UInt64": "u64",
	"rust.Usize":  "usize",
	"rust.Isize":  "isize",
}

const (
	nullPath        = "Null"
	arrayPath       = "Array"
	nativeArrayPath = "rust.NativeArray"
)

// resolve follows placeholders, aliases and boxed-scalar wrappers to the type
// that decides both the spelling and the wrap policy.
func resolve(t ir.Type) ir.Type {
	for {
		t = ir.Follow(t)
		ref, ok := t.(*ir.AbstractRef)
		if !ok || ref.Abstract.Core || ref.Abstract.Under == nil {
			return t
		}
		if _, primitive := primitiveTypes[ref.Abstract.Path.String()]; primitive {
			return t
		}
		t = ir.Apply(ref.Abstract.Params, ref.Params, ref.Abstract.Under)
	}
}

// Wraps reports whether values of t are represented as Option<T>. It is
// recomputed from the type at every use site.
func Wraps(t ir.Type) bool {
	if t == nil {
		return false
	}
	switch actual := resolve(t).(type) {
	case *ir.Inst:
		class := actual.Class
		if class == nil || class.Extern {
			return false
		}
		switch class.Kind {
		case ir.KindNormal, ir.KindExtension, ir.KindMacroType, ir.KindGenericBuild:
			return true
		}
	case *ir.AbstractRef:
		return actual.Abstract.Path.String() == nullPath
	}
	return false
}

// ProjectType maps a source type to its Rust spelling and its wrap decision.
// The spelling is the bare type: callers that declare storage use
// DeclaredType to add the Option.
func (c *Context) ProjectType(t ir.Type) (string, bool) {
	return c.projectType(t), Wraps(t)
}

// DeclaredType is the storage spelling of t: Option<T> when t wraps.
func (c *Context) DeclaredType(t ir.Type) string {
	text, wraps := c.ProjectType(t)
	if wraps {
		return "Option<" + text + ">"
	}
	return text
}

func (c *Context) projectType(t ir.Type) string {
	if t == nil {
		return "()"
	}
	switch actual := resolve(t).(type) {
	case *ir.AbstractRef:
		path := actual.Abstract.Path.String()
		if primitive, ok := primitiveTypes[path]; ok {
			return primitive
		}
		switch path {
		case nullPath:
			if len(actual.Params) == 1 {
				return c.projectType(actual.Params[0])
			}
			return c.dynamicType()
		case "Dynamic", "Any":
			return c.dynamicType()
		}
		return c.ResolveDecl(actual.Abstract) + c.typeArgs(actual.Params)
	case *ir.Dynamic:
		return c.dynamicType()
	case *ir.Anon:
		return c.ResolvePath([]string{"std", "collections"}, "HashMap") + "<String, " + c.dynamicType() + ">"
	case *ir.Fun:
		args := make([]string, len(actual.Args))
		for i, arg := range actual.Args {
			args[i] = c.DeclaredType(arg.Type)
		}
		return "|" + strings.Join(args, ", ") + "| -> " + c.DeclaredType(actual.Ret)
	case *ir.EnumRef:
		return c.ResolveDecl(actual.Enum) + c.typeArgs(actual.Params)
	case *ir.Inst:
		return c.projectInstance(actual)
	}
	return c.dynamicType()
}

func (c *Context) projectInstance(inst *ir.Inst) string {
	class := inst.Class
	if class == nil {
		return c.dynamicType()
	}
	switch class.Kind {
	case ir.KindTypeParameter:
		return EscapeIdentifier(class.Path.Name)
	case ir.KindExpr, ir.KindMacroType, ir.KindGenericBuild:
		return c.dynamicType()
	}
	switch class.Path.String() {
	case arrayPath:
		return "Vec<" + c.elementType(inst.Params) + ">"
	case nativeArrayPath:
		return "&[" + c.elementType(inst.Params) + "]"
	}
	name := c.ResolveDecl(class) + c.typeArgs(inst.Params)
	if class.Interface {
		return "Box<dyn " + name + ">"
	}
	return name
}

func (c *Context) elementType(params []ir.Type) string {
	if len(params) == 0 {
		return c.dynamicType()
	}
	return c.DeclaredType(params[0])
}

func (c *Context) typeArgs(params []ir.Type) string {
	if len(params) == 0 {
		return ""
	}
	args := make([]string, len(params))
	for i, param := range params {
		args[i] = c.DeclaredType(param)
	}
	return "<" + strings.Join(args, ", ") + ">"
}

func (c *Context) dynamicType() string {
	return "Box<dyn " + c.ResolvePath([]string{"std", "any"}, "Any") + ">"
}

// typeParams renders a generic parameter list such as <T, U>.
func typeParams(params []string) string {
	if len(params) == 0 {
		return ""
	}
	escaped := make([]string, len(params))
	for i, param := range params {
		escaped[i] = EscapeIdentifier(param)
	}
	return "<" + strings.Join(escaped, ", ") + ">"
}
