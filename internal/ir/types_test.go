package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFollowAndApply(t *testing.T) {
	param := &ClassDecl{Path: Path{Name: "T"}, Kind: KindTypeParameter}
	array := &ClassDecl{Path: Path{Name: "Array"}, Extern: true, Params: []string{"T"}}
	str := &ClassDecl{Path: Path{Name: "String"}, Extern: true}
	alias := &TypedefDecl{Path: ParsePath("app.List"), Params: []string{"T"},
		Type: &Inst{Class: array, Params: []Type{&Inst{Class: param}}}}

	followed := Follow(&Mono{Ref: &TypedefRef{Def: alias, Params: []Type{&Inst{Class: str}}}})
	inst, ok := followed.(*Inst)
	if assert.True(t, ok) {
		assert.Equal(t, array, inst.Class)
		assert.True(t, IsString(inst.Params[0]))
	}
	_, ok = Follow(&Mono{}).(*Dynamic)
	assert.True(t, ok, "unbound placeholders follow to Dynamic")

	fun := Apply([]string{"T"}, []Type{&Inst{Class: str}}, &Fun{Args: []FunArg{{Name: "a", Type: &Inst{Class: param}}}, Ret: &Dynamic{Of: &Inst{Class: param}}})
	assert.True(t, IsString(fun.(*Fun).Args[0].Type))
	assert.True(t, IsString(fun.(*Fun).Ret.(*Dynamic).Of))
}

func TestIsVoid(t *testing.T) {
	assert.True(t, IsVoid(nil))
	assert.True(t, IsVoid(voidType()))
	assert.False(t, IsVoid(&Dynamic{}))
}

func TestPath(t *testing.T) {
	path := ParsePath("app.ui.Button")
	assert.Equal(t, []string{"app", "ui"}, path.Pack)
	assert.Equal(t, "Button", path.Name)
	assert.Equal(t, "app.ui.Button", path.String())
	assert.Equal(t, "app", path.Root())
	assert.Equal(t, "Main", ParsePath("Main").Root())
	assert.True(t, path.Equal(ParsePath("app.ui.Button")))
	assert.False(t, path.Equal(ParsePath("app.Button")))

	kind, ok := ParseClassKind("param")
	assert.True(t, ok)
	assert.Equal(t, KindTypeParameter, kind)
	op, ok := ParseBinOp(">>>")
	assert.True(t, ok)
	assert.Equal(t, OpUShr, op)
	unop, ok := ParseUnOp("...")
	assert.True(t, ok)
	assert.Equal(t, OpSpread, unop)
	access, ok := ParseAccessKind("closure")
	assert.True(t, ok)
	assert.Equal(t, AccessClosure, access)
}
