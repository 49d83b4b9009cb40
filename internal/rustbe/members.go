package rustbe

import (
	"fmt"
	"strings"

	"github.com/lhaig/oxidize/internal/ir"
)

// EmitDecl emits one class, interface or enum into the module body.
func (c *Context) EmitDecl(decl ir.Decl) error {
	c.decl = decl
	c.err = nil
	c.Reserve(EscapeIdentifier(decl.DeclPath().Name))

	switch actual := decl.(type) {
	case *ir.ClassDecl:
		if actual.Interface {
			c.generateTrait(actual)
		} else {
			c.generateClass(actual)
		}
	case *ir.EnumDecl:
		c.generateEnumDecl(actual)
	default:
		return fmt.Errorf("%s: %s is not a class or enum", decl.DeclPos(), decl.DeclPath())
	}
	return c.err
}

// --- Class generation ---

func (c *Context) generateClass(cls *ir.ClassDecl) {
	name := EscapeIdentifier(cls.Path.Name)
	generics := typeParams(cls.Params)
	self := name + generics

	var data, methods []*ir.Field
	for _, field := range cls.Fields {
		if field.Kind == ir.FieldMethod {
			methods = append(methods, field)
		} else {
			data = append(data, field)
		}
	}

	c.emitLine("#[derive(Default)]")
	c.emitLinef("pub struct %s {\n", self)
	c.incIndent()
	if cls.Super != nil && cls.Super.Class != nil {
		c.emitLinef("pub _super: %s,\n", c.projectType(cls.Super))
	}
	for _, field := range data {
		c.emitLinef("pub %s: %s,\n", EscapeIdentifier(field.Name), c.DeclaredType(field.Type))
	}
	c.decIndent()
	c.emitLine("}")

	owners := interfaceOwners(cls)
	byIface := make(map[*ir.ClassDecl][]*ir.Field)
	var own []*ir.Field
	for _, method := range methods {
		if iface, ok := owners[method.Name]; ok {
			byIface[iface] = append(byIface[iface], method)
			continue
		}
		own = append(own, method)
	}

	c.emitLine("")
	c.emitLinef("impl%s %s {\n", generics, self)
	c.incIndent()
	first := true
	separate := func() {
		if !first {
			c.emitLine("")
		}
		first = false
	}
	for _, static := range cls.Statics {
		if static.Kind == ir.FieldVar {
			separate()
			c.generateStaticVar(static)
		}
	}
	if cls.Constructor != nil {
		separate()
		c.generateConstructor(cls, self)
	}
	for _, method := range own {
		separate()
		c.generateMethod(method, "pub ", false)
	}
	for _, static := range cls.Statics {
		if static.Kind == ir.FieldMethod {
			separate()
			c.generateMethod(static, "pub ", true)
		}
	}
	c.decIndent()
	c.emitLine("}")

	for _, iface := range cls.Interfaces {
		if iface.Class == nil {
			continue
		}
		var implemented []*ir.Field
		for _, candidate := range interfaceChain(iface.Class) {
			implemented = append(implemented, byIface[candidate]...)
		}
		c.emitLine("")
		c.emitLinef("impl%s %s for %s {\n", generics, c.ResolveDecl(iface.Class)+c.typeArgs(iface.Params), self)
		c.incIndent()
		for i, method := range implemented {
			if i > 0 {
				c.emitLine("")
			}
			c.generateMethod(method, "", false)
		}
		c.decIndent()
		c.emitLine("}")
	}

	if cls.Super != nil && cls.Super.Class != nil {
		c.generateDeref(generics, self, c.projectType(cls.Super))
	}
}

// interfaceOwners maps each method name declared by an implemented
// interface, or one it extends, to the interface listed on the class.
func interfaceOwners(cls *ir.ClassDecl) map[string]*ir.ClassDecl {
	owners := make(map[string]*ir.ClassDecl)
	for _, iface := range cls.Interfaces {
		if iface.Class == nil {
			continue
		}
		for _, decl := range interfaceChain(iface.Class) {
			for _, field := range decl.Fields {
				if _, taken := owners[field.Name]; !taken {
					owners[field.Name] = decl
				}
			}
		}
	}
	return owners
}

// interfaceChain returns iface followed by every interface it extends.
func interfaceChain(iface *ir.ClassDecl) []*ir.ClassDecl {
	var chain []*ir.ClassDecl
	seen := make(map[*ir.ClassDecl]bool)
	var visit func(*ir.ClassDecl)
	visit = func(decl *ir.ClassDecl) {
		if decl == nil || seen[decl] {
			return
		}
		seen[decl] = true
		chain = append(chain, decl)
		for _, parent := range decl.Interfaces {
			visit(parent.Class)
		}
	}
	visit(iface)
	return chain
}

func (c *Context) generateStaticVar(field *ir.Field) {
	c.inStatic = true
	defer func() { c.inStatic = false }()
	init := c.defaultValue(field.Type)
	if field.Expr != nil {
		init = c.lower(field.Expr, true)
	}
	c.emitLinef("pub const %s: %s = %s;\n", EscapeIdentifier(field.Name), c.DeclaredType(field.Type), init)
}

func (c *Context) generateConstructor(cls *ir.ClassDecl, self string) {
	fn := cls.Constructor.Function()
	if fn == nil {
		return
	}
	c.inConstructor = true
	c.ctorPrologue = true
	defer func() {
		c.inConstructor = false
		c.ctorPrologue = false
	}()

	body := c.lowerFunctionBody(fn)
	c.emitLinef("pub fn new(%s) -> %s %s\n", c.lowerArgs(fn.Args), self, body)
}

// generateMethod emits a member with a body. Instance methods take &mut self
// when their body writes through the receiver.
func (c *Context) generateMethod(field *ir.Field, visibility string, static bool) {
	fn := field.Function()
	if fn == nil {
		return
	}
	receiver := ""
	if static {
		c.inStatic = true
		defer func() { c.inStatic = false }()
	} else if AssignsToReceiver(fn.Body) {
		receiver = "&mut self"
	} else {
		receiver = "&self"
	}

	body := c.lowerFunctionBody(fn)
	params := c.lowerArgs(fn.Args)
	if receiver != "" && params != "" {
		params = receiver + ", " + params
	} else if receiver != "" {
		params = receiver
	}
	c.emitLinef("%sfn %s%s(%s)%s %s\n", visibility, EscapeIdentifier(field.Name), typeParams(field.Params),
		params, c.returnClause(fn.Ret), body)
}

func (c *Context) lowerArgs(args []*ir.FuncArg) string {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = EscapeIdentifier(arg.Var.Name) + ": " + c.DeclaredType(arg.Var.Type)
	}
	return strings.Join(parts, ", ")
}

func (c *Context) returnClause(ret ir.Type) string {
	if ir.IsVoid(ret) {
		return ""
	}
	return " -> " + c.DeclaredType(ret)
}

func (c *Context) generateDeref(generics, self, base string) {
	deref := c.ResolvePath([]string{"std", "ops"}, "Deref")
	c.emitLine("")
	c.emitLinef("impl%s %s for %s {\n", generics, deref, self)
	c.incIndent()
	c.emitLinef("type Target = %s;\n", base)
	c.emitLine("")
	c.emitLine("fn deref(&self) -> &Self::Target {")
	c.incIndent()
	c.emitLine("&self._super")
	c.decIndent()
	c.emitLine("}")
	c.decIndent()
	c.emitLine("}")
}

// --- Interface generation ---

func (c *Context) generateTrait(iface *ir.ClassDecl) {
	header := "pub trait " + EscapeIdentifier(iface.Path.Name) + typeParams(iface.Params)
	if len(iface.Interfaces) > 0 {
		supers := make([]string, 0, len(iface.Interfaces))
		for _, parent := range iface.Interfaces {
			if parent.Class != nil {
				supers = append(supers, c.ResolveDecl(parent.Class)+c.typeArgs(parent.Params))
			}
		}
		if len(supers) > 0 {
			header += ": " + strings.Join(supers, " + ")
		}
	}
	c.emitLinef("%s {\n", header)
	c.incIndent()
	for _, field := range iface.Fields {
		if sig, ok := c.signature(field); ok {
			c.emitLinef("%s;\n", sig)
		}
	}
	c.decIndent()
	c.emitLine("}")
}

// signature renders the declaration of a bodyless member. Function-typed
// members become methods; data members become getters. Dynamic members
// have no static shape and are skipped.
func (c *Context) signature(field *ir.Field) (string, bool) {
	name := EscapeIdentifier(field.Name)
	switch t := resolve(field.Type).(type) {
	case *ir.Dynamic:
		return "", false
	case *ir.Fun:
		params := []string{"&self"}
		for i, arg := range t.Args {
			argName := arg.Name
			if argName == "" {
				argName = fmt.Sprintf("a%d", i)
			}
			params = append(params, EscapeIdentifier(argName)+": "+c.DeclaredType(arg.Type))
		}
		return "fn " + name + typeParams(field.Params) + "(" + strings.Join(params, ", ") + ")" + c.returnClause(t.Ret), true
	}
	return "fn " + name + "(&self)" + c.returnClause(field.Type), true
}

// --- Enum generation ---

func (c *Context) generateEnumDecl(e *ir.EnumDecl) {
	c.emitLine("#[derive(Clone, Debug)]")
	c.emitLinef("pub enum %s%s {\n", EscapeIdentifier(e.Path.Name), typeParams(e.Params))
	c.incIndent()
	for _, ctor := range e.Constructors {
		if len(ctor.Args) == 0 {
			c.emitLinef("%s,\n", EscapeIdentifier(ctor.Name))
			continue
		}
		fields := make([]string, len(ctor.Args))
		for i, arg := range ctor.Args {
			fields[i] = c.DeclaredType(arg.Type)
		}
		c.emitLinef("%s(%s),\n", EscapeIdentifier(ctor.Name), strings.Join(fields, ", "))
	}
	c.decIndent()
	c.emitLine("}")
}

// defaultValue is the initial value of storage of type t that has no
// initializer.
func (c *Context) defaultValue(t ir.Type) string {
	if Wraps(t) {
		return "None"
	}
	switch c.projectType(t) {
	case "i8", "i16", "i32", "i64", "u8", "u16", "u32", "u64", "usize", "isize":
		return "0"
	case "f32", "f64":
		return "0.0"
	case "bool":
		return "false"
	case "()":
		return "()"
	}
	if inst, ok := resolve(t).(*ir.Inst); ok && inst.Class != nil {
		switch inst.Class.Path.String() {
		case "String":
			return "String::new()"
		case arrayPath:
			return "Vec::new()"
		}
	}
	return "Default::default()"
}
