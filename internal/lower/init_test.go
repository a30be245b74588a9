package lower

import (
	"testing"

	"c99core/internal/ast"
	"c99core/internal/errors"
	"c99core/internal/target"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pointStructCType() *ast.CType {
	intCT := intType(ast.RankInt, false)
	return &ast.CType{
		Kind: ast.TypeStructOrUnion, Tag: "point", TagUID: "point#1", HasBody: true,
		Fields: []ast.StructField{
			{Name: "x", Type: intCT, Pos: pos(1)},
			{Name: "y", Type: intCT, Pos: pos(1)},
		},
	}
}

func TestLowerStructInitRejectsDuplicateField(t *testing.T) {
	m := NewModule("test", target.NewLP64())
	f := m.NewFunc("f", &ast.CType{Kind: ast.TypeVoid})
	ct := pointStructCType()
	irType := m.Types.Lower(ct)

	addr := declareVar(m, "p", ct).Value
	init := &ast.Initializer{InitList: []*ast.Initializer{
		{Designators: []ast.Designator{{IsField: true, Field: "x", Pos: pos(1)}}, InitExpr: intLit("1"), Pos: pos(1)},
		{Designators: []ast.Designator{{IsField: true, Field: "x", Pos: pos(2)}}, InitExpr: intLit("2"), Pos: pos(2)},
	}}

	lowerStructInit(f, addr, ct, irType, init)
	require.True(t, m.Sink.HasErrors())
	diags := m.Sink.Diagnostics()
	assert.Equal(t, errors.ErrorDuplicateField, diags[len(diags)-1].Code)
}

func TestLowerStructInitPositionalNoDuplicateWarning(t *testing.T) {
	m := NewModule("test", target.NewLP64())
	f := m.NewFunc("f", &ast.CType{Kind: ast.TypeVoid})
	ct := pointStructCType()
	irType := m.Types.Lower(ct)

	addr := declareVar(m, "p", ct).Value
	init := &ast.Initializer{InitList: []*ast.Initializer{
		{InitExpr: intLit("1"), Pos: pos(1)},
		{InitExpr: intLit("2"), Pos: pos(2)},
	}}

	lowerStructInit(f, addr, ct, irType, init)
	assert.False(t, m.Sink.HasErrors())
}

func TestFoldStructInitRejectsDuplicateField(t *testing.T) {
	m := NewModule("test", target.NewLP64())
	ct := pointStructCType()
	irType := m.Types.Lower(ct)

	init := &ast.Initializer{InitList: []*ast.Initializer{
		{Designators: []ast.Designator{{IsField: true, Field: "y", Pos: pos(1)}}, InitExpr: intLit("1"), Pos: pos(1)},
		{Designators: []ast.Designator{{IsField: true, Field: "y", Pos: pos(2)}}, InitExpr: intLit("2"), Pos: pos(2)},
	}}

	c := foldStructInit(m, ct, irType, init, pos(1))
	require.True(t, m.Sink.HasErrors())
	diags := m.Sink.Diagnostics()
	assert.Equal(t, errors.ErrorDuplicateField, diags[len(diags)-1].Code)
	require.Len(t, c.Elems, 2)
}

func TestFoldStringLiteralConstSynthesizesAnonymousGlobal(t *testing.T) {
	m := NewModule("test", target.NewLP64())
	ptrCT := &ast.CType{Kind: ast.TypePointer, Elem: intType(ast.RankChar, false)}
	ptrIR := m.Types.Lower(ptrCT)

	before := len(m.IR.Globals)
	lit := &ast.LiteralExpr{Kind: ast.LitString, Lexeme: `"hi"`, Pos: pos(1)}
	c := foldStringLiteralConst(m, lit, ptrIR)

	require.Len(t, m.IR.Globals, before+1)
	assert.Equal(t, m.IR.Globals[before].Name, c.Name)
	assert.Equal(t, "hi", c.Str)
	require.NotNil(t, m.IR.Globals[before].Initializer)
	assert.Len(t, m.IR.Globals[before].Initializer.Elems, 3) // 'h', 'i', NUL
}

func TestInferArrayLengthCountsStringLiteralPlusNul(t *testing.T) {
	ct := &ast.CType{Kind: ast.TypeArray, Elem: intType(ast.RankChar, false)}
	init := &ast.Initializer{InitExpr: &ast.LiteralExpr{Kind: ast.LitString, Lexeme: `"abc"`, Pos: pos(1)}, Pos: pos(1)}
	InferArrayLength(ct, init)
	require.NotNil(t, ct.Size)
	assert.Equal(t, 4, *ct.Size)
}

func TestInferArrayLengthUsesHighestDesignatorIndex(t *testing.T) {
	ct := &ast.CType{Kind: ast.TypeArray, Elem: intType(ast.RankInt, false)}
	init := &ast.Initializer{InitList: []*ast.Initializer{
		{Designators: []ast.Designator{{IsField: false, Index: intLit("5"), Pos: pos(1)}}, InitExpr: intLit("1"), Pos: pos(1)},
		{InitExpr: intLit("2"), Pos: pos(2)},
	}}
	InferArrayLength(ct, init)
	require.NotNil(t, ct.Size)
	assert.Equal(t, 7, *ct.Size)
}
