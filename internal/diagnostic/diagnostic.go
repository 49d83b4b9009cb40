package diagnostic

import (
	"fmt"
	"strings"
)

// Severity represents the severity level of a diagnostic message
type Severity int

const (
	Error Severity = iota
	Warning
)

// String returns the string representation of the severity level
func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	default:
		return "unknown"
	}
}

// Pos is a source position carried by declarations and typed expressions.
type Pos struct {
	File   string
	Line   int
	Column int
}

// IsValid reports whether the position points somewhere.
func (p Pos) IsValid() bool {
	return p.Line > 0
}

func (p Pos) String() string {
	file := p.File
	if file == "" {
		file = "<input>"
	}
	return fmt.Sprintf("%s:%d:%d", file, p.Line, p.Column)
}

// Diagnostic represents a single problem found in the input program or configuration
type Diagnostic struct {
	Severity Severity
	Message  string
	Pos      Pos
	Hint     string // optional suggestion
}

// Diagnostics manages a collection of diagnostic messages
type Diagnostics struct {
	items []Diagnostic
}

// New creates a new empty Diagnostics collection
func New() *Diagnostics {
	return &Diagnostics{
		items: make([]Diagnostic, 0),
	}
}

// Errorf adds an error diagnostic with formatted message
func (d *Diagnostics) Errorf(pos Pos, format string, args ...interface{}) {
	d.items = append(d.items, Diagnostic{
		Severity: Error,
		Message:  fmt.Sprintf(format, args...),
		Pos:      pos,
	})
}

// Warningf adds a warning diagnostic with formatted message
func (d *Diagnostics) Warningf(pos Pos, format string, args ...interface{}) {
	d.items = append(d.items, Diagnostic{
		Severity: Warning,
		Message:  fmt.Sprintf(format, args...),
		Pos:      pos,
	})
}

// ErrorWithHint adds an error diagnostic with an optional hint
func (d *Diagnostics) ErrorWithHint(pos Pos, msg, hint string) {
	d.items = append(d.items, Diagnostic{
		Severity: Error,
		Message:  msg,
		Pos:      pos,
		Hint:     hint,
	})
}

// Merge appends all diagnostics of other.
func (d *Diagnostics) Merge(other *Diagnostics) {
	if other == nil {
		return
	}
	d.items = append(d.items, other.items...)
}

// HasErrors returns true if there are any error-level diagnostics
func (d *Diagnostics) HasErrors() bool {
	for _, item := range d.items {
		if item.Severity == Error {
			return true
		}
	}
	return false
}

// Errors returns only the error-level diagnostics
func (d *Diagnostics) Errors() []Diagnostic {
	errors := make([]Diagnostic, 0)
	for _, item := range d.items {
		if item.Severity == Error {
			errors = append(errors, item)
		}
	}
	return errors
}

// All returns all diagnostics regardless of severity
func (d *Diagnostics) All() []Diagnostic {
	return d.items
}

// Count returns the total number of diagnostics
func (d *Diagnostics) Count() int {
	return len(d.items)
}

// Format returns human-readable messages, one per line:
//
//	error[program.yaml:3:10]: duplicate type path 'pkg.Foo'
//	  hint: rename one of the declarations
func (d *Diagnostics) Format() string {
	if len(d.items) == 0 {
		return ""
	}
	var builder strings.Builder
	for i, item := range d.items {
		builder.WriteString(fmt.Sprintf("%s[%s]: %s", item.Severity.String(), item.Pos.String(), item.Message))
		if item.Hint != "" {
			builder.WriteString(fmt.Sprintf("\n  hint: %s", item.Hint))
		}
		if i < len(d.items)-1 {
			builder.WriteString("\n")
		}
	}
	return builder.String()
}

// Err returns the collection as an error when it holds at least one error.
func (d *Diagnostics) Err() error {
	if !d.HasErrors() {
		return nil
	}
	return &ListError{Diagnostics: d}
}

// ListError adapts an error-carrying Diagnostics collection to the error interface.
type ListError struct {
	Diagnostics *Diagnostics
}

func (e *ListError) Error() string {
	return e.Diagnostics.Format()
}
