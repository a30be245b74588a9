package symbols

import (
	"testing"

	"c99core/internal/ast"

	"github.com/stretchr/testify/assert"
)

func TestLabelTableDefineRejectsDuplicate(t *testing.T) {
	lt := NewLabelTable()
	pos := ast.Position{Line: 3}
	assert.True(t, lt.Define("done", pos))
	assert.False(t, lt.Define("done", ast.Position{Line: 9}), "a label defined twice in one function must be rejected")
	assert.Equal(t, pos, lt.FirstPos("done"))
}

func TestLabelTableUnresolvedReportsOnlyUndefinedGotoTargets(t *testing.T) {
	lt := NewLabelTable()
	lt.ReferenceGoto("done", ast.Position{Line: 1})
	lt.ReferenceGoto("missing", ast.Position{Line: 2})
	lt.Define("done", ast.Position{Line: 5})

	assert.Equal(t, []string{"missing"}, lt.Unresolved())
}

func TestLabelTableFirstRefPosReturnsEarliestReference(t *testing.T) {
	lt := NewLabelTable()
	first := ast.Position{Line: 1}
	lt.ReferenceGoto("missing", first)
	lt.ReferenceGoto("missing", ast.Position{Line: 7})
	assert.Equal(t, first, lt.FirstRefPos("missing"))
	assert.Equal(t, ast.Position{}, lt.FirstRefPos("never-referenced"))
}
