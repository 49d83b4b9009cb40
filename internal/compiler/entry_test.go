package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lhaig/oxidize/internal/ir"
)

func TestResourceTable(t *testing.T) {
	actual := resourceTable([]*ir.Resource{
		{Name: "soft\u00adhyphen 😀.txt", Data: []byte{0, 'a'}},
		{Name: "tab\there \"quoted\".bin", Data: []byte("\\")},
	})
	assert.Equal(t, "pub const RESOURCES: &[(&str, &[u8])] = &[\n"+
		"    (\"soft\u00adhyphen 😀.txt\", b\"\\x00a\"),\n"+
		"    (\"tab\\there \\\"quoted\\\".bin\", b\"\\\\\"),\n"+
		"];\n", actual)
	assert.NotContains(t, actual, `\u00ad`)
}
