package rustbe

import (
	"strings"
)

// importName is one imported short name and the alias chosen for it, if any.
type importName struct {
	Name  string
	Alias string
}

// display returns the name the module uses to refer to the import.
func (n importName) display() string {
	if n.Alias != "" {
		return n.Alias
	}
	return n.Name
}

type importGroup struct {
	pack  []string
	names []importName
}

// ImportTable records, for one module, the names imported from each package
// path. Groups and names keep first-registration order so the emitted use
// block is deterministic.
type ImportTable struct {
	groups   []*importGroup
	byPack   map[string]*importGroup
	reserved map[string]bool
}

// NewImportTable creates a table in which the reserved names already count as
// visible (the module's own type, sibling module roots).
func NewImportTable(reserved ...string) *ImportTable {
	table := &ImportTable{
		byPack:   make(map[string]*importGroup),
		reserved: make(map[string]bool),
	}
	table.Reserve(reserved...)
	return table
}

// Reserve marks names as visible without importing them.
func (t *ImportTable) Reserve(names ...string) {
	for _, name := range names {
		t.reserved[name] = true
	}
}

func packKey(pack []string) string {
	return strings.Join(pack, "::")
}

// Lookup returns the display name previously chosen for (pack, name).
func (t *ImportTable) Lookup(pack []string, name string) (string, bool) {
	group, ok := t.byPack[packKey(pack)]
	if !ok {
		return "", false
	}
	for _, candidate := range group.names {
		if candidate.Name == name {
			return candidate.display(), true
		}
	}
	return "", false
}

// visible reports whether name is already in use in the module, across every
// imported package.
func (t *ImportTable) visible(name string) bool {
	if t.reserved[name] {
		return true
	}
	for _, group := range t.groups {
		for _, candidate := range group.names {
			if candidate.display() == name {
				return true
			}
		}
	}
	return false
}

// FindUniqueName prefixes name with "A" until nothing visible in the module
// carries it. A name without collision is returned unchanged.
func (t *ImportTable) FindUniqueName(name string) string {
	candidate := name
	for t.visible(candidate) {
		candidate = "A" + candidate
	}
	return candidate
}

// Register imports (pack, name) and returns its display name. newRoot is true
// the first time the root package of pack appears in this module.
func (t *ImportTable) Register(pack []string, name string) (display string, newRoot bool) {
	if existing, ok := t.Lookup(pack, name); ok {
		return existing, false
	}
	newRoot = !t.hasRoot(pack[0])
	unique := t.FindUniqueName(name)
	entry := importName{Name: name}
	if unique != name {
		entry.Alias = unique
	}
	key := packKey(pack)
	group, ok := t.byPack[key]
	if !ok {
		group = &importGroup{pack: append([]string(nil), pack...)}
		t.byPack[key] = group
		t.groups = append(t.groups, group)
	}
	group.names = append(group.names, entry)
	return unique, newRoot
}

func (t *ImportTable) hasRoot(root string) bool {
	for _, group := range t.groups {
		if group.pack[0] == root {
			return true
		}
	}
	return false
}

// Len returns the number of imported names.
func (t *ImportTable) Len() int {
	count := 0
	for _, group := range t.groups {
		count += len(group.names)
	}
	return count
}

// UseLines renders one use declaration per package path.
func (t *ImportTable) UseLines() []string {
	lines := make([]string, 0, len(t.groups))
	for _, group := range t.groups {
		prefix := packKey(group.pack)
		if len(group.names) == 1 {
			lines = append(lines, "use "+prefix+"::"+renderImport(group.names[0])+";")
			continue
		}
		items := make([]string, len(group.names))
		for i, name := range group.names {
			items[i] = renderImport(name)
		}
		lines = append(lines, "use "+prefix+"::{"+strings.Join(items, ", ")+"};")
	}
	return lines
}

func renderImport(name importName) string {
	if name.Alias == "" {
		return name.Name
	}
	return name.Name + " as " + name.Alias
}
