package diagnostic

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiagnostics_Format(t *testing.T) {
	diags := New()
	assert.Equal(t, "", diags.Format())
	assert.Nil(t, diags.Err())

	diags.Warningf(Pos{Line: 1, Column: 2}, "enum %s has no constructors", "Empty")
	assert.Nil(t, diags.Err(), "warnings alone are not an error")

	other := New()
	other.ErrorWithHint(Pos{File: "program.yaml", Line: 3, Column: 10}, "duplicate type path 'pkg.Foo'", "first declared at program.yaml:1:3")
	diags.Merge(other)
	diags.Merge(nil)

	assert.Equal(t, 2, diags.Count())
	assert.True(t, diags.HasErrors())
	assert.Len(t, diags.Errors(), 1)
	assert.Equal(t, "warning[<input>:1:2]: enum Empty has no constructors\n"+
		"error[program.yaml:3:10]: duplicate type path 'pkg.Foo'\n"+
		"  hint: first declared at program.yaml:1:3", diags.Format())

	err := diags.Err()
	var listErr *ListError
	assert.True(t, errors.As(err, &listErr))
	assert.Equal(t, diags.Format(), err.Error())
}

func TestUnsupportedExpression_Error(t *testing.T) {
	pos := Pos{File: "a.yaml", Line: 4, Column: 7}
	assert.Equal(t, "a.yaml:4:7: unsupported expression spread", (&UnsupportedExpression{Pos: pos, Kind: "spread"}).Error())
	assert.Equal(t, "a.yaml:4:7: unsupported expression unary operator: spread has no Rust form",
		(&UnsupportedExpression{Pos: pos, Kind: "unary operator", Reason: "spread has no Rust form"}).Error())
	assert.False(t, Pos{}.IsValid())
}
