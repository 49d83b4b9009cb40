package ir

// Type is a resolved source-language type. Types are produced by the upstream
// typing phase; the backend never infers or mutates them.
type Type interface {
	typeNode()
}

// Mono is a pending-inference placeholder. Ref is nil when inference never
// bound it.
type Mono struct {
	Ref Type
}

func (*Mono) typeNode() {}

// Inst is an instance of a class, interface or type parameter.
type Inst struct {
	Class  *ClassDecl
	Params []Type
}

func (*Inst) typeNode() {}

// EnumRef is an instance of an enum.
type EnumRef struct {
	Enum   *EnumDecl
	Params []Type
}

func (*EnumRef) typeNode() {}

// TypedefRef is a use of a type alias.
type TypedefRef struct {
	Def    *TypedefDecl
	Params []Type
}

func (*TypedefRef) typeNode() {}

// AbstractRef is a use of an abstract: the core scalars (Int, Float, Null ...)
// and boxed-scalar wrappers over an underlying type.
type AbstractRef struct {
	Abstract *AbstractDecl
	Params   []Type
}

func (*AbstractRef) typeNode() {}

// FunArg is a function type argument.
type FunArg struct {
	Name     string
	Optional bool
	Type     Type
}

// Fun is a function type.
type Fun struct {
	Args []FunArg
	Ret  Type
}

func (*Fun) typeNode() {}

// Anon is an anonymous structural object type.
type Anon struct {
	Fields []*Field
}

func (*Anon) typeNode() {}

// Dynamic is the untyped dynamic type; Of is set for Dynamic<T>.
type Dynamic struct {
	Of Type
}

func (*Dynamic) typeNode() {}

// Follow resolves monomorphs and type aliases until a concrete type is reached.
// An unbound monomorph follows to Dynamic.
func Follow(t Type) Type {
	for {
		switch actual := t.(type) {
		case *Mono:
			if actual.Ref == nil {
				return &Dynamic{}
			}
			t = actual.Ref
		case *TypedefRef:
			t = Apply(actual.Def.Params, actual.Params, actual.Def.Type)
		default:
			return t
		}
	}
}

// Apply substitutes type parameters by name inside t.
func Apply(params []string, args []Type, t Type) Type {
	if len(params) == 0 || len(args) == 0 {
		return t
	}
	bindings := make(map[string]Type, len(params))
	for i, name := range params {
		if i < len(args) {
			bindings[name] = args[i]
		}
	}
	return substitute(bindings, t)
}

func substitute(bindings map[string]Type, t Type) Type {
	switch actual := t.(type) {
	case *Inst:
		if actual.Class != nil && actual.Class.Kind == KindTypeParameter {
			if bound, ok := bindings[actual.Class.Path.Name]; ok {
				return bound
			}
			return actual
		}
		return &Inst{Class: actual.Class, Params: substituteAll(bindings, actual.Params)}
	case *EnumRef:
		return &EnumRef{Enum: actual.Enum, Params: substituteAll(bindings, actual.Params)}
	case *TypedefRef:
		return &TypedefRef{Def: actual.Def, Params: substituteAll(bindings, actual.Params)}
	case *AbstractRef:
		return &AbstractRef{Abstract: actual.Abstract, Params: substituteAll(bindings, actual.Params)}
	case *Fun:
		args := make([]FunArg, len(actual.Args))
		for i, arg := range actual.Args {
			args[i] = FunArg{Name: arg.Name, Optional: arg.Optional, Type: substitute(bindings, arg.Type)}
		}
		return &Fun{Args: args, Ret: substitute(bindings, actual.Ret)}
	case *Mono:
		if actual.Ref == nil {
			return actual
		}
		return substitute(bindings, actual.Ref)
	case *Dynamic:
		if actual.Of == nil {
			return actual
		}
		return &Dynamic{Of: substitute(bindings, actual.Of)}
	default:
		return t
	}
}

func substituteAll(bindings map[string]Type, types []Type) []Type {
	if len(types) == 0 {
		return types
	}
	result := make([]Type, len(types))
	for i, t := range types {
		result[i] = substitute(bindings, t)
	}
	return result
}

// IsVoid reports whether t follows to the core Void abstract.
func IsVoid(t Type) bool {
	if t == nil {
		return true
	}
	if ref, ok := Follow(t).(*AbstractRef); ok {
		return ref.Abstract.Path.String() == "Void"
	}
	return false
}

// IsString reports whether t follows to the String class.
func IsString(t Type) bool {
	if inst, ok := Follow(t).(*Inst); ok && inst.Class != nil {
		return inst.Class.Path.String() == "String"
	}
	return false
}
