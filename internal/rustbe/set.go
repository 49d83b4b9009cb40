package rustbe

// NameSet is an insertion-ordered set of names. The run-wide dependency set
// and module set are NameSets: append-only, deduplicated on insert.
type NameSet struct {
	order []string
	index map[string]bool
}

// NewNameSet creates an empty set.
func NewNameSet() *NameSet {
	return &NameSet{index: make(map[string]bool)}
}

// Add inserts name and reports whether it was new.
func (s *NameSet) Add(name string) bool {
	if s.index[name] {
		return false
	}
	s.index[name] = true
	s.order = append(s.order, name)
	return true
}

// Has reports membership.
func (s *NameSet) Has(name string) bool {
	return s.index[name]
}

// Names returns the members in insertion order.
func (s *NameSet) Names() []string {
	result := make([]string, len(s.order))
	copy(result, s.order)
	return result
}

// Len returns the number of members.
func (s *NameSet) Len() int {
	return len(s.order)
}
