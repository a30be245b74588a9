package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetErrorDescriptionKnownAndUnknownCodes(t *testing.T) {
	assert.Equal(t, "identifier is used but has no visible declaration", GetErrorDescription(ErrorUndefinedIdentifier))
	assert.Equal(t, "called object is not a function or function pointer", GetErrorDescription(ErrorCallTargetNotFunction))
	assert.Equal(t, "unknown error code", GetErrorDescription("E9999"))
}

func TestIsWarning(t *testing.T) {
	assert.True(t, IsWarning(WarningUnusedVariable))
	assert.True(t, IsWarning(WarningUnreachableCode))
	assert.False(t, IsWarning(ErrorUndefinedIdentifier))
}

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "Name Resolution", GetErrorCategory(ErrorUndefinedIdentifier))
	assert.Equal(t, "Type System", GetErrorCategory(ErrorNotScalar))
	assert.Equal(t, "Declaration", GetErrorCategory(ErrorInvalidStorageClass))
	assert.Equal(t, "Initializer", GetErrorCategory(ErrorDuplicateField))
	assert.Equal(t, "Expression", GetErrorCategory(ErrorVoidInExpression))
	assert.Equal(t, "Flow Control", GetErrorCategory(ErrorMissingReturn))
	assert.Equal(t, "Warning", GetErrorCategory(WarningUnusedVariable))
	assert.Equal(t, "Unknown", GetErrorCategory("nonsense"))
}
