package lower

import (
	"testing"

	"c99core/internal/ast"
	"c99core/internal/errors"
	"c99core/internal/target"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLowerFunctionDefinitionRejectsStaticParameter(t *testing.T) {
	m := NewModule("test", target.NewLP64())
	intCT := intType(ast.RankInt, false)
	staticCT := *intCT
	staticCT.Storage = ast.StorageStatic

	fd := &ast.FunctionDefinition{
		Name:   "f",
		Type:   &ast.CType{Kind: ast.TypeFunction, Return: &ast.CType{Kind: ast.TypeVoid}, Params: []*ast.CType{&staticCT}},
		Params: []ast.Param{{Name: "x", NamePos: pos(1), Type: &staticCT}},
		Body:   &ast.CompoundStmt{Items: []ast.Stmt{&ast.ReturnStmt{Pos: pos(1)}}},
		Pos:    pos(1),
	}

	LowerFunctionDefinition(m, fd)
	require.True(t, m.Sink.HasErrors())
	diags := m.Sink.Diagnostics()
	assert.Equal(t, errors.ErrorInvalidStorageClass, diags[0].Code)
}

func TestLowerFunctionDefinitionAllowsRegisterParameter(t *testing.T) {
	m := NewModule("test", target.NewLP64())
	intCT := intType(ast.RankInt, false)
	regCT := *intCT
	regCT.Storage = ast.StorageRegister

	fd := &ast.FunctionDefinition{
		Name:   "f",
		Type:   &ast.CType{Kind: ast.TypeFunction, Return: &ast.CType{Kind: ast.TypeVoid}, Params: []*ast.CType{&regCT}},
		Params: []ast.Param{{Name: "x", NamePos: pos(1), Type: &regCT}},
		Body:   &ast.CompoundStmt{Items: []ast.Stmt{&ast.ReturnStmt{Pos: pos(1)}}},
		Pos:    pos(1),
	}

	LowerFunctionDefinition(m, fd)
	assert.False(t, m.Sink.HasErrors())
}

func TestLowerFunctionDefinitionWarnsOnUnusedLocal(t *testing.T) {
	m := NewModule("test", target.NewLP64())
	intCT := intType(ast.RankInt, false)

	fd := &ast.FunctionDefinition{
		Name: "f",
		Type: &ast.CType{Kind: ast.TypeFunction, Return: &ast.CType{Kind: ast.TypeVoid}},
		Body: &ast.CompoundStmt{Items: []ast.Stmt{
			&ast.DeclStmt{Decl: &ast.Declaration{Name: "n", NamePos: pos(1), Type: intCT}, Pos: pos(1)},
			&ast.ReturnStmt{Pos: pos(2)},
		}},
		Pos: pos(1),
	}

	LowerFunctionDefinition(m, fd)
	require.True(t, m.Sink.HasErrors())
	found := false
	for _, d := range m.Sink.Diagnostics() {
		if d.Code == errors.WarningUnusedVariable {
			found = true
		}
	}
	assert.True(t, found)
}

func TestLowerFunctionDefinitionDoesNotWarnWhenLocalIsRead(t *testing.T) {
	m := NewModule("test", target.NewLP64())
	intCT := intType(ast.RankInt, false)

	fd := &ast.FunctionDefinition{
		Name: "f",
		Type: &ast.CType{Kind: ast.TypeFunction, Return: intCT},
		Body: &ast.CompoundStmt{Items: []ast.Stmt{
			&ast.DeclStmt{Decl: &ast.Declaration{
				Name: "n", NamePos: pos(1), Type: intCT,
				Initializer: &ast.Initializer{InitExpr: intLit("1"), Pos: pos(1)},
			}, Pos: pos(1)},
			&ast.ReturnStmt{Value: &ast.IdentExpr{Name: "n", Pos: pos(2)}, Pos: pos(2)},
		}},
		Pos: pos(1),
	}

	LowerFunctionDefinition(m, fd)
	for _, d := range m.Sink.Diagnostics() {
		assert.NotEqual(t, errors.WarningUnusedVariable, d.Code)
	}
}

func TestLowerFunctionDefinitionReportsMissingReturnOnFallthrough(t *testing.T) {
	m := NewModule("test", target.NewLP64())
	intCT := intType(ast.RankInt, false)

	fd := &ast.FunctionDefinition{
		Name: "compute",
		Type: &ast.CType{Kind: ast.TypeFunction, Return: intCT},
		Body: &ast.CompoundStmt{Items: []ast.Stmt{
			&ast.ExprStmt{Expr: intLit("1"), Pos: pos(1)},
		}},
		Pos: pos(1),
	}

	LowerFunctionDefinition(m, fd)
	require.True(t, m.Sink.HasErrors())
	diags := m.Sink.Diagnostics()
	assert.Equal(t, errors.ErrorMissingReturn, diags[len(diags)-1].Code)
	assert.Contains(t, diags[len(diags)-1].Message, "compute")
}

func TestLowerFunctionDefinitionNoMissingReturnWhenAllPathsReturn(t *testing.T) {
	m := NewModule("test", target.NewLP64())
	intCT := intType(ast.RankInt, false)

	fd := &ast.FunctionDefinition{
		Name: "compute",
		Type: &ast.CType{Kind: ast.TypeFunction, Return: intCT},
		Body: &ast.CompoundStmt{Items: []ast.Stmt{
			&ast.ReturnStmt{Value: intLit("0"), Pos: pos(1)},
		}},
		Pos: pos(1),
	}

	LowerFunctionDefinition(m, fd)
	for _, d := range m.Sink.Diagnostics() {
		assert.NotEqual(t, errors.ErrorMissingReturn, d.Code)
	}
}

func TestLowerLocalDeclRejectsExternWithInitializer(t *testing.T) {
	m := NewModule("test", target.NewLP64())
	f := m.NewFunc("f", &ast.CType{Kind: ast.TypeVoid})
	intCT := intType(ast.RankInt, false)
	externCT := *intCT
	externCT.Storage = ast.StorageExtern

	lowerLocalDecl(f, &ast.Declaration{
		Name: "x", NamePos: pos(1), Type: &externCT,
		Initializer: &ast.Initializer{InitExpr: intLit("1"), Pos: pos(1)},
	})

	require.True(t, m.Sink.HasErrors())
	diags := m.Sink.Diagnostics()
	assert.Equal(t, errors.ErrorInvalidStorageClass, diags[len(diags)-1].Code)
}

func TestStorageClassNameCoversEveryClass(t *testing.T) {
	assert.Equal(t, "auto", storageClassName(ast.StorageAuto))
	assert.Equal(t, "register", storageClassName(ast.StorageRegister))
	assert.Equal(t, "static", storageClassName(ast.StorageStatic))
	assert.Equal(t, "extern", storageClassName(ast.StorageExtern))
	assert.Equal(t, "typedef", storageClassName(ast.StorageTypedef))
}

func TestIsInvalidParamStorageAllowsAutoAndRegisterOnly(t *testing.T) {
	assert.False(t, isInvalidParamStorage(ast.StorageAuto))
	assert.False(t, isInvalidParamStorage(ast.StorageRegister))
	assert.True(t, isInvalidParamStorage(ast.StorageStatic))
	assert.True(t, isInvalidParamStorage(ast.StorageExtern))
	assert.True(t, isInvalidParamStorage(ast.StorageTypedef))
}
