// Package loader decodes a typed program document into the ir representation.
//
// The document is YAML with three top-level keys: types, main and resources.
// It is read in passes: every declaration is created first so that later
// passes can resolve references by path in any order, then member
// signatures, then bodies. The loader performs no inference beyond deriving
// the type of common expression shapes; an explicit type key always wins.
// Problems are collected as diagnostics carrying the YAML line and column.
package loader

import (
	"context"
	"encoding/base64"

	"github.com/pkg/errors"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
	"gopkg.in/yaml.v3"

	"github.com/lhaig/oxidize/internal/diagnostic"
	"github.com/lhaig/oxidize/internal/ir"
)

// Load reads and decodes the program document at URL.
func Load(ctx context.Context, fs afs.Service, URL string) (*ir.Program, error) {
	data, err := fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load program: %v", URL)
	}
	_, name := url.Split(URL, file.Scheme)
	return decode(name, data)
}

// Decode decodes a program document. Errors are returned as a
// *diagnostic.ListError.
func Decode(data []byte) (*ir.Program, error) {
	return decode("", data)
}

func decode(name string, data []byte) (*ir.Program, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "failed to decode program")
	}
	l := newLoader(name)
	prog := l.program(&doc)
	if err := l.diags.Err(); err != nil {
		return nil, err
	}
	return prog, nil
}

type loader struct {
	file    string
	diags   *diagnostic.Diagnostics
	decls   map[string]ir.Decl
	pending []*pendingDecl
	members []*pendingMember
	nextVar int
	core    prelude
}

func newLoader(name string) *loader {
	l := &loader{
		file:  name,
		diags: diagnostic.New(),
		decls: make(map[string]ir.Decl),
	}
	l.core = newPrelude()
	for _, decl := range l.core.decls {
		l.decls[decl.DeclPath().String()] = decl
	}
	return l
}

func (l *loader) program(doc *yaml.Node) *ir.Program {
	prog := &ir.Program{}
	root := doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	if root.Kind != yaml.MappingNode {
		l.diags.Errorf(l.pos(root), "program document must be a mapping")
		return prog
	}
	keys := l.mapping(root, "types", "main", "resources")

	for _, node := range l.sequence(keys["types"]) {
		if decl := l.declare(node); decl != nil {
			prog.Types = append(prog.Types, decl)
		}
	}
	for _, p := range l.pending {
		l.header(p)
	}
	for _, m := range l.members {
		l.body(m)
	}
	if main := keys["main"]; !isNull(main) {
		prog.Main = l.expr(main, &frame{static: true, locals: newScope(nil)})
	}
	prog.Resources = l.resources(keys["resources"])
	return prog
}

func (l *loader) resources(node *yaml.Node) []*ir.Resource {
	var result []*ir.Resource
	for _, item := range l.sequence(node) {
		keys := l.mapping(item, "name", "text", "base64")
		res := &ir.Resource{Name: l.scalar(keys["name"], "resource name")}
		switch {
		case keys["text"] != nil:
			res.Data = []byte(keys["text"].Value)
		case keys["base64"] != nil:
			data, err := base64.StdEncoding.DecodeString(keys["base64"].Value)
			if err != nil {
				l.diags.Errorf(l.pos(keys["base64"]), "resource %s: %v", res.Name, err)
			}
			res.Data = data
		}
		result = append(result, res)
	}
	return result
}

// --- YAML node helpers ---

func (l *loader) pos(node *yaml.Node) diagnostic.Pos {
	if node == nil {
		return diagnostic.Pos{File: l.file}
	}
	return diagnostic.Pos{File: l.file, Line: node.Line, Column: node.Column}
}

func isNull(node *yaml.Node) bool {
	return node == nil || (node.Kind == yaml.ScalarNode && node.Tag == "!!null")
}

// mapping indexes the values of a mapping node by key, reporting keys that
// are not in allowed and keys that repeat.
func (l *loader) mapping(node *yaml.Node, allowed ...string) map[string]*yaml.Node {
	result := make(map[string]*yaml.Node)
	if isNull(node) {
		return result
	}
	if node.Kind != yaml.MappingNode {
		l.diags.Errorf(l.pos(node), "expected a mapping")
		return result
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		if !contains(allowed, key.Value) {
			l.diags.Errorf(l.pos(key), "unknown key %q", key.Value)
			continue
		}
		if _, ok := result[key.Value]; ok {
			l.diags.Errorf(l.pos(key), "duplicate key %q", key.Value)
			continue
		}
		result[key.Value] = value
	}
	return result
}

func (l *loader) sequence(node *yaml.Node) []*yaml.Node {
	if isNull(node) {
		return nil
	}
	if node.Kind != yaml.SequenceNode {
		l.diags.Errorf(l.pos(node), "expected a sequence")
		return nil
	}
	return node.Content
}

// scalar returns the text of a required scalar.
func (l *loader) scalar(node *yaml.Node, what string) string {
	if isNull(node) {
		l.diags.Errorf(l.pos(node), "missing %s", what)
		return ""
	}
	if node.Kind != yaml.ScalarNode {
		l.diags.Errorf(l.pos(node), "%s must be a scalar", what)
		return ""
	}
	return node.Value
}

// text returns the text of an optional scalar.
func text(node *yaml.Node) string {
	if isNull(node) {
		return ""
	}
	return node.Value
}

func (l *loader) flag(node *yaml.Node) bool {
	if isNull(node) {
		return false
	}
	var value bool
	if err := node.Decode(&value); err != nil {
		l.diags.Errorf(l.pos(node), "expected true or false")
	}
	return value
}

func (l *loader) integer(node *yaml.Node, what string) int {
	var value int
	if isNull(node) {
		l.diags.Errorf(l.pos(node), "missing %s", what)
		return 0
	}
	if err := node.Decode(&value); err != nil {
		l.diags.Errorf(l.pos(node), "%s must be an integer", what)
	}
	return value
}

func (l *loader) strings(node *yaml.Node) []string {
	var result []string
	for _, item := range l.sequence(node) {
		result = append(result, l.scalar(item, "name"))
	}
	return result
}

func contains(values []string, value string) bool {
	for _, candidate := range values {
		if candidate == value {
			return true
		}
	}
	return false
}
