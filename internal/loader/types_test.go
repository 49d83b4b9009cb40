package loader

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTypeRef(t *testing.T) {
	ref, err := parseTypeRef("app.Map<String, Array< Null<Int> >>")
	if !assert.Nil(t, err) {
		return
	}
	assert.Equal(t, "app.Map", ref.name)
	assert.Len(t, ref.args, 2)
	assert.Equal(t, "String", ref.args[0].name)
	assert.Equal(t, "Array", ref.args[1].name)
	assert.Equal(t, "Null", ref.args[1].args[0].name)
	assert.Equal(t, "Int", ref.args[1].args[0].args[0].name)

	for _, bad := range []string{"", "Array<Int", "<Int>", "Array<Int>>", "app.", "Map<Int;Int>"} {
		_, err := parseTypeRef(bad)
		assert.NotNil(t, err, bad)
	}
}

func TestParseBinop(t *testing.T) {
	var testCases = []struct {
		symbol   string
		op       string
		assignOp string
	}{
		{symbol: "=", op: "="},
		{symbol: "+=", op: "op=", assignOp: "+"},
		{symbol: ">>>=", op: "op=", assignOp: ">>>"},
		{symbol: "<=", op: "<="},
		{symbol: "==", op: "=="},
		{symbol: "??", op: "??"},
		{symbol: "==="},
		{symbol: "<>"},
	}
	for _, testCase := range testCases {
		op, assignOp, ok := parseBinop(testCase.symbol)
		if testCase.op == "" {
			assert.False(t, ok, testCase.symbol)
			continue
		}
		assert.True(t, ok, testCase.symbol)
		assert.Equal(t, testCase.op, op.Symbol(), testCase.symbol)
		if testCase.assignOp != "" {
			assert.Equal(t, testCase.assignOp, assignOp.Symbol(), testCase.symbol)
		}
	}
}
