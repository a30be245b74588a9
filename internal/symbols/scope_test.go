package symbols

import (
	"testing"

	"c99core/internal/ast"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableLookupWalksScopeChainInnermostFirst(t *testing.T) {
	tbl := NewTable()
	outer := &Symbol{Name: "x", Kind: KindVariable}
	tbl.Declare(outer)

	tbl.Push()
	inner := &Symbol{Name: "x", Kind: KindVariable}
	tbl.Declare(inner)
	assert.Same(t, inner, tbl.Lookup("x"), "inner scope's declaration must shadow the outer one")
	assert.Same(t, inner, tbl.LookupLocal("x"))

	tbl.Pop()
	assert.Same(t, outer, tbl.Lookup("x"), "popping the inner scope reveals the outer declaration again")
	assert.Nil(t, tbl.LookupLocal("missing"))
}

func TestTableDuplicateInScopeOnlyChecksInnermost(t *testing.T) {
	tbl := NewTable()
	tbl.Declare(&Symbol{Name: "x", Kind: KindVariable})
	assert.True(t, tbl.DuplicateInScope("x"))

	tbl.Push()
	assert.False(t, tbl.DuplicateInScope("x"), "a name bound in an enclosing scope is not a duplicate in a fresh nested scope")
}

func TestTableAtFileScope(t *testing.T) {
	tbl := NewTable()
	assert.True(t, tbl.AtFileScope())
	tbl.Push()
	assert.False(t, tbl.AtFileScope())
	tbl.Pop()
	assert.True(t, tbl.AtFileScope())
}

func TestDeclareTagReusesUIDWithinSameScope(t *testing.T) {
	tbl := NewTable()
	fwd := tbl.DeclareTag("Node", TagStruct, ast.Position{})
	complete := tbl.DeclareTag("Node", TagStruct, ast.Position{})
	assert.Same(t, fwd, complete, "a forward declaration and its completing definition in one scope share a Tag")
}

func TestDeclareTagShadowsWithFreshUIDInNestedScope(t *testing.T) {
	tbl := NewTable()
	outer := tbl.DeclareTag("Node", TagStruct, ast.Position{})
	tbl.Push()
	inner := tbl.DeclareTag("Node", TagStruct, ast.Position{})
	assert.NotEqual(t, outer.UID, inner.UID, "a same-named tag declared in a nested scope must get its own UID")
}

func TestNewAnonymousTagNeverCollidesWithNamedTags(t *testing.T) {
	tbl := NewTable()
	a1 := tbl.NewAnonymousTag(TagStruct)
	a2 := tbl.NewAnonymousTag(TagStruct)
	assert.NotEqual(t, a1.UID, a2.UID)
	assert.Nil(t, tbl.LookupTag(a1.UID), "an anonymous tag never occupies a name in the tag namespace")
}

func TestLookupTagWalksScopeChain(t *testing.T) {
	tbl := NewTable()
	outer := tbl.DeclareTag("Color", TagEnum, ast.Position{})
	tbl.Push()
	require.Same(t, outer, tbl.LookupTag("Color"))
	assert.Nil(t, tbl.LookupTagLocal("Color"), "LookupTagLocal must not see the outer scope's tag")
}

func TestVisibleNamesDedupesShadowedIdentifiers(t *testing.T) {
	tbl := NewTable()
	tbl.Declare(&Symbol{Name: "x", Kind: KindVariable})
	tbl.Declare(&Symbol{Name: "y", Kind: KindVariable})
	tbl.Push()
	tbl.Declare(&Symbol{Name: "x", Kind: KindVariable})

	names := tbl.VisibleNames()
	assert.ElementsMatch(t, []string{"x", "y"}, names)
}

func TestVisibleTagNamesFiltersByKind(t *testing.T) {
	tbl := NewTable()
	tbl.DeclareTag("Point", TagStruct, ast.Position{})
	tbl.DeclareTag("Color", TagEnum, ast.Position{})

	assert.ElementsMatch(t, []string{"Point"}, tbl.VisibleTagNames(TagStruct))
	assert.ElementsMatch(t, []string{"Color"}, tbl.VisibleTagNames(TagEnum))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "variable", KindVariable.String())
	assert.Equal(t, "function", KindFunction.String())
	assert.Equal(t, "typedef", KindTypedef.String())
	assert.Equal(t, "enumerator", KindEnumerator.String())
}
