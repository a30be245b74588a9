package errors

import (
	"testing"

	"c99core/internal/ast"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUndefinedIdentifierSuggestsClosestName(t *testing.T) {
	err := UndefinedIdentifier("cnt", ast.Position{}, []string{"count"})
	assert.Equal(t, ErrorUndefinedIdentifier, err.Code)
	assert.Equal(t, Error, err.Level)
	require.Len(t, err.Suggestions, 1)
	assert.Contains(t, err.Suggestions[0].Message, "count")
}

func TestUndefinedIdentifierWithoutSuggestionAddsGenericNote(t *testing.T) {
	err := UndefinedIdentifier("ghost", ast.Position{}, nil)
	assert.Empty(t, err.Suggestions)
	require.Len(t, err.Notes, 1)
}

func TestInvalidOperationOmitsRHSForUnaryOperators(t *testing.T) {
	err := InvalidOperation("!", "struct point", "", ast.Position{})
	assert.Equal(t, "invalid operand to '!' (have 'struct point')", err.Message)
}

func TestInvalidOperationShowsBothOperandsForBinary(t *testing.T) {
	err := InvalidOperation("?:", "int", "struct point", ast.Position{})
	assert.Equal(t, "invalid operands to '?:' (have 'int' and 'struct point')", err.Message)
}

func TestUnusedVariableAndUnreachableCodeAreWarnings(t *testing.T) {
	uv := UnusedVariable("n", ast.Position{})
	assert.Equal(t, Warning, uv.Level)
	assert.Equal(t, WarningUnusedVariable, uv.Code)

	uc := UnreachableCode(ast.Position{})
	assert.Equal(t, Warning, uc.Level)
	assert.Equal(t, WarningUnreachableCode, uc.Code)
}

func TestMissingReturnNamesTheFunction(t *testing.T) {
	err := MissingReturn("compute", ast.Position{})
	assert.Contains(t, err.Message, "compute")
	assert.Equal(t, Error, err.Level)
}

func TestDuplicateDeclarationNotesFirstPositionLine(t *testing.T) {
	err := DuplicateDeclaration("x", ast.Position{Line: 10}, ast.Position{Line: 3})
	require.Len(t, err.Notes, 1)
	assert.Contains(t, err.Notes[0], "3")
}
