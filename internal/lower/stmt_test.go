package lower

import (
	"testing"

	"c99core/internal/ast"
	"c99core/internal/errors"
	"c99core/internal/symbols"
	"c99core/internal/target"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLowerSwitchRejectsNonIntegerTag(t *testing.T) {
	m := NewModule("test", target.NewLP64())
	structCT := &ast.CType{Kind: ast.TypeStructOrUnion, Tag: "point"}
	declareVar(m, "p", structCT)
	f := m.NewFunc("f", &ast.CType{Kind: ast.TypeVoid})

	s := &ast.SwitchStmt{Tag: ident("p"), Body: &ast.CompoundStmt{}, Pos: pos(1)}
	lowerSwitch(f, s)

	require.True(t, m.Sink.HasErrors())
	diags := m.Sink.Diagnostics()
	assert.Equal(t, errors.ErrorNotScalar, diags[len(diags)-1].Code)
}

func TestLowerSwitchAcceptsIntegerTagAndEmitsCases(t *testing.T) {
	m := NewModule("test", target.NewLP64())
	declareVar(m, "x", intType(ast.RankInt, false))
	f := m.NewFunc("f", &ast.CType{Kind: ast.TypeVoid})

	body := &ast.CompoundStmt{Items: []ast.Stmt{
		&ast.CaseStmt{Value: intLit("1"), Stmt: &ast.BreakStmt{Pos: pos(1)}, Pos: pos(1)},
		&ast.CaseStmt{Stmt: &ast.BreakStmt{Pos: pos(1)}, Pos: pos(1)}, // default
	}}
	s := &ast.SwitchStmt{Tag: ident("x"), Body: body, Pos: pos(1)}
	lowerSwitch(f, s)

	assert.False(t, m.Sink.HasErrors())
}

func TestLowerCaseOutsideSwitchIsMisplaced(t *testing.T) {
	m := NewModule("test", target.NewLP64())
	f := m.NewFunc("f", &ast.CType{Kind: ast.TypeVoid})

	lowerCase(f, &ast.CaseStmt{Value: intLit("1"), Stmt: &ast.ExprStmt{Pos: pos(1)}, Pos: pos(1)})
	require.True(t, m.Sink.HasErrors())
	diags := m.Sink.Diagnostics()
	assert.Equal(t, errors.ErrorMisplacedCase, diags[len(diags)-1].Code)
}

func TestLowerCaseDuplicateValueIsRejected(t *testing.T) {
	m := NewModule("test", target.NewLP64())
	declareVar(m, "x", intType(ast.RankInt, false))
	f := m.NewFunc("f", &ast.CType{Kind: ast.TypeVoid})

	body := &ast.CompoundStmt{Items: []ast.Stmt{
		&ast.CaseStmt{Value: intLit("1"), Stmt: &ast.BreakStmt{Pos: pos(1)}, Pos: pos(1)},
		&ast.CaseStmt{Value: intLit("1"), Stmt: &ast.BreakStmt{Pos: pos(2)}, Pos: pos(2)},
	}}
	lowerSwitch(f, &ast.SwitchStmt{Tag: ident("x"), Body: body, Pos: pos(1)})

	require.True(t, m.Sink.HasErrors())
	found := false
	for _, d := range m.Sink.Diagnostics() {
		if d.Code == errors.ErrorDuplicateCase {
			found = true
		}
	}
	assert.True(t, found)
}

func TestLowerBreakOutsideLoopOrSwitchIsMisplaced(t *testing.T) {
	m := NewModule("test", target.NewLP64())
	f := m.NewFunc("f", &ast.CType{Kind: ast.TypeVoid})

	lowerBreak(f, &ast.BreakStmt{Pos: pos(1)})
	require.True(t, m.Sink.HasErrors())
	diags := m.Sink.Diagnostics()
	assert.Equal(t, errors.ErrorMisplacedJump, diags[len(diags)-1].Code)
}

func TestLowerContinueOutsideLoopIsMisplaced(t *testing.T) {
	m := NewModule("test", target.NewLP64())
	f := m.NewFunc("f", &ast.CType{Kind: ast.TypeVoid})

	lowerContinue(f, &ast.ContinueStmt{Pos: pos(1)})
	require.True(t, m.Sink.HasErrors())
	diags := m.Sink.Diagnostics()
	assert.Equal(t, errors.ErrorMisplacedJump, diags[len(diags)-1].Code)
}

func TestLowerCompoundWarnsAboutStatementAfterReturn(t *testing.T) {
	m := NewModule("test", target.NewLP64())
	f := m.NewFunc("f", &ast.CType{Kind: ast.TypeVoid})

	s := &ast.CompoundStmt{Items: []ast.Stmt{
		&ast.ReturnStmt{Pos: pos(1)},
		&ast.ExprStmt{Pos: pos(2)},
	}}
	lowerCompound(f, s)

	var warnings int
	for _, d := range m.Sink.Diagnostics() {
		if d.Code == errors.WarningUnreachableCode {
			warnings++
		}
	}
	assert.Equal(t, 1, warnings, "only the first unreachable statement in a dead run should be reported")
}

func TestLowerCompoundReportsUnreachableOncePerDeadRun(t *testing.T) {
	m := NewModule("test", target.NewLP64())
	f := m.NewFunc("f", &ast.CType{Kind: ast.TypeVoid})

	s := &ast.CompoundStmt{Items: []ast.Stmt{
		&ast.ReturnStmt{Pos: pos(1)},
		&ast.ExprStmt{Pos: pos(2)},
		&ast.ExprStmt{Pos: pos(3)},
		&ast.ExprStmt{Pos: pos(4)},
	}}
	lowerCompound(f, s)

	var warnings int
	for _, d := range m.Sink.Diagnostics() {
		if d.Code == errors.WarningUnreachableCode {
			warnings++
		}
	}
	assert.Equal(t, 1, warnings)
}

func TestStmtAlwaysTerminatesRecognizesIfWithBothBranchesTerminating(t *testing.T) {
	ifStmt := &ast.IfStmt{
		Cond: intLit("1"),
		Then: &ast.ReturnStmt{Pos: pos(1)},
		Else: &ast.ReturnStmt{Pos: pos(2)},
	}
	assert.True(t, stmtAlwaysTerminates(ifStmt))

	ifStmt.Else = nil
	assert.False(t, stmtAlwaysTerminates(ifStmt), "an if with no else can fall through")
}

func TestStmtAlwaysTerminatesLooksThroughLabel(t *testing.T) {
	labeled := &ast.LabelStmt{Name: "done", Stmt: &ast.ReturnStmt{Pos: pos(1)}}
	assert.True(t, stmtAlwaysTerminates(labeled))
}

func TestLowerGotoAndLabelResolveForwardReference(t *testing.T) {
	m := NewModule("test", target.NewLP64())
	f := m.NewFunc("f", &ast.CType{Kind: ast.TypeVoid})

	body := &ast.CompoundStmt{Items: []ast.Stmt{
		&ast.GotoStmt{Label: "skip", Pos: pos(1)},
		&ast.LabelStmt{Name: "skip", Stmt: &ast.ReturnStmt{Pos: pos(2)}, Pos: pos(2)},
	}}
	lowerCompound(f, body)
	assert.False(t, m.Sink.HasErrors())
}

func TestLowerLabelRejectsDuplicateName(t *testing.T) {
	m := NewModule("test", target.NewLP64())
	f := m.NewFunc("f", &ast.CType{Kind: ast.TypeVoid})

	body := &ast.CompoundStmt{Items: []ast.Stmt{
		&ast.LabelStmt{Name: "again", Stmt: &ast.ReturnStmt{Pos: pos(1)}, Pos: pos(1)},
		&ast.LabelStmt{Name: "again", Stmt: &ast.ReturnStmt{Pos: pos(2)}, Pos: pos(2)},
	}}
	lowerCompound(f, body)
	require.True(t, m.Sink.HasErrors())
}

func TestEvalConstIntHandlesSignAndParenAndEnumerator(t *testing.T) {
	m := NewModule("test", target.NewLP64())
	f := m.NewFunc("f", &ast.CType{Kind: ast.TypeVoid})

	v, ok := evalConstInt(f, &ast.ParenExpr{Value: &ast.UnaryExpr{Op: ast.UnaryMinus, Operand: intLit("5"), Pos: pos(1)}, Pos: pos(1)})
	require.True(t, ok)
	assert.EqualValues(t, -5, v)

	sym := declareVar(m, "RED", intType(ast.RankInt, false))
	sym.Kind = symbols.KindEnumerator
	sym.EnumValue = 3
	v, ok = evalConstInt(f, ident("RED"))
	require.True(t, ok)
	assert.EqualValues(t, 3, v)

	_, ok = evalConstInt(f, &ast.BinaryExpr{Op: ast.BinAdd, Left: intLit("1"), Right: intLit("2"), Pos: pos(1)})
	assert.False(t, ok, "compound arithmetic is outside the supported constant-expression subset")
}
