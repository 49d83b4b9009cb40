package diagnostic

import "fmt"

// UnsupportedExpression reports a typed expression shape that has no Rust projection.
// It is fatal: generation stops at the first one.
type UnsupportedExpression struct {
	Pos    Pos
	Kind   string
	Reason string
}

func (e *UnsupportedExpression) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%s: unsupported expression %s", e.Pos, e.Kind)
	}
	return fmt.Sprintf("%s: unsupported expression %s: %s", e.Pos, e.Kind, e.Reason)
}
