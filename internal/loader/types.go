package loader

import (
	"fmt"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"

	"github.com/lhaig/oxidize/internal/diagnostic"
	"github.com/lhaig/oxidize/internal/ir"
)

// typeScope maps the type parameter names visible at a site to their
// declarations.
type typeScope map[string]*ir.ClassDecl

// with returns a scope that adds params on top of s.
func (s typeScope) with(params []string) typeScope {
	if len(params) == 0 {
		return s
	}
	result := make(typeScope, len(s)+len(params))
	for name, decl := range s {
		result[name] = decl
	}
	for _, name := range params {
		result[name] = &ir.ClassDecl{Path: ir.Path{Name: name}, Kind: ir.KindTypeParameter}
	}
	return result
}

// instances returns the type parameters of params as types, in order.
func (s typeScope) instances(params []string) []ir.Type {
	if len(params) == 0 {
		return nil
	}
	result := make([]ir.Type, len(params))
	for i, name := range params {
		result[i] = &ir.Inst{Class: s[name]}
	}
	return result
}

// typeRef is a parsed type string such as app.Map<String, Array<Int>>.
type typeRef struct {
	name string
	args []*typeRef
}

// parseTypeRef parses a type string.
func parseTypeRef(text string) (*typeRef, error) {
	p := &typeParser{text: text}
	ref, err := p.parse()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos < len(p.text) {
		return nil, fmt.Errorf("unexpected %q at offset %d in type %q", p.text[p.pos:], p.pos, text)
	}
	return ref, nil
}

type typeParser struct {
	text string
	pos  int
}

func (p *typeParser) skipSpace() {
	for p.pos < len(p.text) && p.text[p.pos] == ' ' {
		p.pos++
	}
}

func (p *typeParser) parse() (*typeRef, error) {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.text) {
		r := rune(p.text[p.pos])
		if r != '.' && r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			break
		}
		p.pos++
	}
	name := p.text[start:p.pos]
	if name == "" || strings.HasPrefix(name, ".") || strings.HasSuffix(name, ".") {
		return nil, fmt.Errorf("expected a type name at offset %d in type %q", start, p.text)
	}
	ref := &typeRef{name: name}
	p.skipSpace()
	if p.pos >= len(p.text) || p.text[p.pos] != '<' {
		return ref, nil
	}
	p.pos++
	for {
		arg, err := p.parse()
		if err != nil {
			return nil, err
		}
		ref.args = append(ref.args, arg)
		p.skipSpace()
		if p.pos >= len(p.text) {
			return nil, fmt.Errorf("unterminated type arguments in type %q", p.text)
		}
		switch p.text[p.pos] {
		case ',':
			p.pos++
		case '>':
			p.pos++
			return ref, nil
		default:
			return nil, fmt.Errorf("unexpected %q at offset %d in type %q", p.text[p.pos], p.pos, p.text)
		}
	}
}

// typeOf decodes a type node: a type string, {fun: {args, ret}} or
// {anon: [{name, type}]}. A missing type is an error reported as what.
func (l *loader) typeOf(node *yaml.Node, scope typeScope, what string) ir.Type {
	if isNull(node) {
		l.diags.Errorf(l.pos(node), "missing %s", what)
		return &ir.Dynamic{}
	}
	if node.Kind == yaml.ScalarNode {
		ref, err := parseTypeRef(node.Value)
		if err != nil {
			l.diags.Errorf(l.pos(node), "%v", err)
			return &ir.Dynamic{}
		}
		return l.bind(ref, scope, l.pos(node))
	}
	keys := l.mapping(node, "fun", "anon")
	switch {
	case keys["fun"] != nil:
		fun := l.mapping(keys["fun"], "args", "ret")
		result := &ir.Fun{Ret: l.core.voidT}
		for _, arg := range l.sequence(fun["args"]) {
			spec := l.mapping(arg, "name", "type", "optional")
			result.Args = append(result.Args, ir.FunArg{
				Name:     text(spec["name"]),
				Optional: l.flag(spec["optional"]),
				Type:     l.typeOf(spec["type"], scope, "argument type"),
			})
		}
		if !isNull(fun["ret"]) {
			result.Ret = l.typeOf(fun["ret"], scope, "return type")
		}
		return result
	case keys["anon"] != nil:
		result := &ir.Anon{}
		for _, item := range l.sequence(keys["anon"]) {
			spec := l.mapping(item, "name", "type")
			result.Fields = append(result.Fields, &ir.Field{
				Name: l.scalar(spec["name"], "field name"),
				Pos:  l.pos(item),
				Type: l.typeOf(spec["type"], scope, "field type"),
			})
		}
		return result
	}
	l.diags.Errorf(l.pos(node), "expected a type")
	return &ir.Dynamic{}
}

// bind resolves a parsed type string against the type parameters in scope
// and the declared types.
func (l *loader) bind(ref *typeRef, scope typeScope, pos diagnostic.Pos) ir.Type {
	args := make([]ir.Type, len(ref.args))
	for i, arg := range ref.args {
		args[i] = l.bind(arg, scope, pos)
	}
	if param, ok := scope[ref.name]; ok {
		if len(args) > 0 {
			l.diags.Errorf(pos, "type parameter %s takes no arguments", ref.name)
		}
		return &ir.Inst{Class: param}
	}
	if ref.name == "Dynamic" {
		switch len(args) {
		case 0:
			return &ir.Dynamic{}
		case 1:
			return &ir.Dynamic{Of: args[0]}
		}
		l.diags.Errorf(pos, "Dynamic takes at most one argument")
		return &ir.Dynamic{}
	}

	decl, ok := l.decls[ref.name]
	if !ok {
		l.diags.Errorf(pos, "unknown type %s", ref.name)
		return &ir.Dynamic{}
	}
	if params := declParams(decl); len(args) > 0 && len(args) != len(params) {
		l.diags.Errorf(pos, "%s expects %d type arguments, got %d", ref.name, len(params), len(args))
	}
	return instanceOf(decl, args)
}

func declParams(decl ir.Decl) []string {
	switch actual := decl.(type) {
	case *ir.ClassDecl:
		return actual.Params
	case *ir.EnumDecl:
		return actual.Params
	case *ir.TypedefDecl:
		return actual.Params
	case *ir.AbstractDecl:
		return actual.Params
	}
	return nil
}

// instanceOf is the type of values of decl.
func instanceOf(decl ir.Decl, args []ir.Type) ir.Type {
	switch actual := decl.(type) {
	case *ir.ClassDecl:
		return &ir.Inst{Class: actual, Params: args}
	case *ir.EnumDecl:
		return &ir.EnumRef{Enum: actual, Params: args}
	case *ir.TypedefDecl:
		return &ir.TypedefRef{Def: actual, Params: args}
	case *ir.AbstractDecl:
		return &ir.AbstractRef{Abstract: actual, Params: args}
	}
	return &ir.Dynamic{}
}
