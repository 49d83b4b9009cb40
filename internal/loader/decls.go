package loader

import (
	"gopkg.in/yaml.v3"

	"github.com/lhaig/oxidize/internal/diagnostic"
	"github.com/lhaig/oxidize/internal/ir"
)

var declKinds = []string{"class", "interface", "enum", "typedef", "abstract"}

var declKeys = map[string][]string{
	"class":     {"class", "params", "extern", "kind", "super", "implements", "fields", "statics", "constructor"},
	"interface": {"interface", "params", "extern", "implements", "fields"},
	"enum":      {"enum", "params", "extern", "constructors"},
	"typedef":   {"typedef", "params", "extern", "type"},
	"abstract":  {"abstract", "params", "extern", "core", "under"},
}

// pendingDecl is a declaration whose header is resolved in the second pass.
type pendingDecl struct {
	decl  ir.Decl
	keys  map[string]*yaml.Node
	scope typeScope
}

// pendingMember is a member whose body or initializer is resolved in the
// last pass, once every signature is known.
type pendingMember struct {
	class  *ir.ClassDecl
	field  *ir.Field
	fun    *funSpec
	init   *yaml.Node
	scope  typeScope
	static bool
}

// funSpec is a decoded {args, ret, body} mapping.
type funSpec struct {
	pos  diagnostic.Pos
	args []argSpec
	ret  ir.Type
	body *yaml.Node
}

type argSpec struct {
	name     string
	pos      diagnostic.Pos
	typ      ir.Type
	optional bool
	def      *yaml.Node
}

func (s *funSpec) funType() *ir.Fun {
	result := &ir.Fun{Ret: s.ret}
	for _, arg := range s.args {
		result.Args = append(result.Args, ir.FunArg{Name: arg.name, Optional: arg.optional, Type: arg.typ})
	}
	return result
}

// declare creates the shell of a declaration and registers it by path.
func (l *loader) declare(node *yaml.Node) ir.Decl {
	if node.Kind != yaml.MappingNode {
		l.diags.Errorf(l.pos(node), "declaration must be a mapping")
		return nil
	}
	kind := ""
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		if !contains(declKinds, key) {
			continue
		}
		if kind != "" {
			l.diags.Errorf(l.pos(node.Content[i]), "declaration is both %s and %s", kind, key)
			return nil
		}
		kind = key
	}
	if kind == "" {
		l.diags.Errorf(l.pos(node), "declaration needs one of class, interface, enum, typedef or abstract")
		return nil
	}

	keys := l.mapping(node, declKeys[kind]...)
	path := ir.ParsePath(l.scalar(keys[kind], kind+" path"))
	pos := l.pos(node)
	params := l.strings(keys["params"])
	extern := l.flag(keys["extern"])

	var decl ir.Decl
	switch kind {
	case "class", "interface":
		class := &ir.ClassDecl{Path: path, Pos: pos, Extern: extern, Interface: kind == "interface", Params: params}
		if n := keys["kind"]; !isNull(n) {
			classKind, ok := ir.ParseClassKind(n.Value)
			if !ok {
				l.diags.Errorf(l.pos(n), "unknown class kind %q", n.Value)
			}
			class.Kind = classKind
		}
		decl = class
	case "enum":
		decl = &ir.EnumDecl{Path: path, Pos: pos, Extern: extern, Params: params}
	case "typedef":
		decl = &ir.TypedefDecl{Path: path, Pos: pos, Extern: extern, Params: params}
	case "abstract":
		decl = &ir.AbstractDecl{Path: path, Pos: pos, Extern: extern, Params: params, Core: l.flag(keys["core"])}
	}

	// The first declaration of a path wins; later ones are reported by
	// ir.Validate. Declarations shadow the prelude.
	key := path.String()
	if existing, ok := l.decls[key]; !ok || l.core.has(existing) {
		l.decls[key] = decl
	}
	l.pending = append(l.pending, &pendingDecl{decl: decl, keys: keys, scope: typeScope{}.with(params)})
	return decl
}

// header resolves supertypes, member signatures, enum constructors and
// aliased types.
func (l *loader) header(p *pendingDecl) {
	switch decl := p.decl.(type) {
	case *ir.ClassDecl:
		if n := p.keys["super"]; !isNull(n) {
			decl.Super = l.classType(n, p.scope, "super type")
		}
		for _, n := range l.sequence(p.keys["implements"]) {
			if iface := l.classType(n, p.scope, "interface"); iface != nil {
				decl.Interfaces = append(decl.Interfaces, iface)
			}
		}
		for _, n := range l.sequence(p.keys["fields"]) {
			if field := l.member(decl, n, p.scope, false); field != nil {
				decl.Fields = append(decl.Fields, field)
			}
		}
		for _, n := range l.sequence(p.keys["statics"]) {
			if field := l.member(decl, n, p.scope, true); field != nil {
				decl.Statics = append(decl.Statics, field)
			}
		}
		if n := p.keys["constructor"]; !isNull(n) {
			decl.Constructor = l.constructor(decl, n, p.scope)
		}
	case *ir.EnumDecl:
		for i, n := range l.sequence(p.keys["constructors"]) {
			keys := l.mapping(n, "name", "args")
			ctor := &ir.EnumCtor{Name: l.scalar(keys["name"], "constructor name"), Index: i}
			for _, arg := range l.sequence(keys["args"]) {
				spec := l.mapping(arg, "name", "type")
				ctor.Args = append(ctor.Args, ir.FunArg{
					Name: text(spec["name"]),
					Type: l.typeOf(spec["type"], p.scope, "constructor argument type"),
				})
			}
			decl.Constructors = append(decl.Constructors, ctor)
		}
	case *ir.TypedefDecl:
		decl.Type = l.typeOf(p.keys["type"], p.scope, "aliased type of "+decl.Path.String())
	case *ir.AbstractDecl:
		if n := p.keys["under"]; !isNull(n) {
			decl.Under = l.typeOf(n, p.scope, "underlying type")
		}
	}
}

// classType decodes a type that must be a class or interface instance.
func (l *loader) classType(node *yaml.Node, scope typeScope, what string) *ir.Inst {
	inst, ok := l.typeOf(node, scope, what).(*ir.Inst)
	if !ok || inst.Class == nil || inst.Class.Kind == ir.KindTypeParameter {
		l.diags.Errorf(l.pos(node), "%s must be a class or interface", what)
		return nil
	}
	return inst
}

// member decodes a field: a method when it has a fun key, a variable
// otherwise.
func (l *loader) member(class *ir.ClassDecl, node *yaml.Node, scope typeScope, static bool) *ir.Field {
	keys := l.mapping(node, "name", "type", "params", "fun", "init")
	field := &ir.Field{
		Name:   l.scalar(keys["name"], "member name"),
		Pos:    l.pos(node),
		Params: l.strings(keys["params"]),
	}
	scope = scope.with(field.Params)

	if fun := keys["fun"]; !isNull(fun) {
		if keys["type"] != nil {
			l.diags.Errorf(l.pos(keys["type"]), "method %s takes its type from fun", field.Name)
		}
		spec := l.funSpec(fun, scope)
		field.Kind = ir.FieldMethod
		field.Type = spec.funType()
		if spec.body != nil {
			l.members = append(l.members, &pendingMember{class: class, field: field, fun: spec, scope: scope, static: static})
		}
		return field
	}

	field.Kind = ir.FieldVar
	field.Type = l.typeOf(keys["type"], scope, "type of member "+field.Name)
	if init := keys["init"]; !isNull(init) {
		l.members = append(l.members, &pendingMember{class: class, field: field, init: init, scope: scope, static: static})
	}
	return field
}

func (l *loader) constructor(class *ir.ClassDecl, node *yaml.Node, scope typeScope) *ir.Field {
	spec := l.funSpec(node, scope)
	spec.ret = l.core.voidT
	field := &ir.Field{Name: "new", Pos: l.pos(node), Kind: ir.FieldMethod, Type: spec.funType()}
	if spec.body != nil {
		l.members = append(l.members, &pendingMember{class: class, field: field, fun: spec, scope: scope})
	}
	return field
}

// funSpec decodes {args, ret, body}. The body is decoded later.
func (l *loader) funSpec(node *yaml.Node, scope typeScope) *funSpec {
	keys := l.mapping(node, "args", "ret", "body")
	spec := &funSpec{pos: l.pos(node), ret: l.core.voidT}
	for _, n := range l.sequence(keys["args"]) {
		arg := l.mapping(n, "name", "type", "optional", "default")
		spec.args = append(spec.args, argSpec{
			name:     l.scalar(arg["name"], "argument name"),
			pos:      l.pos(n),
			typ:      l.typeOf(arg["type"], scope, "argument type"),
			optional: l.flag(arg["optional"]) || !isNull(arg["default"]),
			def:      arg["default"],
		})
	}
	if !isNull(keys["ret"]) {
		spec.ret = l.typeOf(keys["ret"], scope, "return type")
	}
	if !isNull(keys["body"]) {
		spec.body = keys["body"]
	}
	return spec
}

// body decodes the initializer or function body of a member.
func (l *loader) body(m *pendingMember) {
	f := &frame{class: m.class, params: m.scope, static: m.static, locals: newScope(nil)}
	if m.init != nil {
		m.field.Expr = l.expr(m.init, f)
		return
	}
	m.field.Expr = l.function(m.fun, f)
}

// function decodes a function value. Arguments and locals live in a scope
// nested in the enclosing one so closures see the locals they capture.
func (l *loader) function(spec *funSpec, outer *frame) *ir.Function {
	f := outer.nested()
	fn := &ir.Function{Node: ir.Node{Type: spec.funType(), Pos: spec.pos}, Ret: spec.ret}
	for _, arg := range spec.args {
		v := l.newVar(arg.name, arg.typ)
		f.locals.declare(v)
		fa := &ir.FuncArg{Var: v}
		if !isNull(arg.def) {
			fa.Default = l.expr(arg.def, f)
		}
		fn.Args = append(fn.Args, fa)
	}
	if spec.body != nil {
		fn.Body = l.expr(spec.body, f)
	}
	return fn
}

func (l *loader) newVar(name string, t ir.Type) *ir.Var {
	l.nextVar++
	return &ir.Var{ID: l.nextVar, Name: name, Type: t}
}
