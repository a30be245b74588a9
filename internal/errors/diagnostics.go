package errors

import (
	"fmt"
	"strings"

	"c99core/internal/ast"
)

func suggestSimilar(b *SemanticErrorBuilder, similar []string) *SemanticErrorBuilder {
	if len(similar) == 0 {
		return b
	}
	if len(similar) == 1 {
		return b.WithSuggestion(fmt.Sprintf("did you mean '%s'?", similar[0]))
	}
	return b.WithSuggestion(fmt.Sprintf("did you mean one of: '%s'?", strings.Join(similar, "', '")))
}

// UndefinedIdentifier reports a name with no visible declaration in any
// enclosing scope (spec §4.3 Lookup returning nil).
func UndefinedIdentifier(name string, pos ast.Position, similar []string) CompilerError {
	b := NewSemanticError(ErrorUndefinedIdentifier, fmt.Sprintf("'%s' undeclared", name), pos).WithLength(len(name))
	b = suggestSimilar(b, similar)
	if len(similar) == 0 {
		b = b.WithNote("every identifier must be declared before it is used")
	}
	return b.Build()
}

// UndefinedTag reports a struct/union/enum tag with no visible declaration.
func UndefinedTag(keyword, name string, pos ast.Position, similar []string) CompilerError {
	b := NewSemanticError(ErrorUndefinedTag, fmt.Sprintf("'%s %s' has not been declared", keyword, name), pos).
		WithLength(len(name))
	return suggestSimilar(b, similar).Build()
}

// UndefinedLabel reports a goto whose target label is never defined
// anywhere in the enclosing function (spec §4.7).
func UndefinedLabel(name string, pos ast.Position) CompilerError {
	return NewSemanticError(ErrorUndefinedLabel, fmt.Sprintf("label '%s' used but not defined", name), pos).
		WithLength(len(name)).
		WithNote("a goto may jump forward to a label defined later in the same function, but the label must exist somewhere in it").
		Build()
}

// FieldNotFound reports a `.`/`->` access naming a field the struct/union
// does not have.
func FieldNotFound(field, typeName string, pos ast.Position, similar []string) CompilerError {
	b := NewSemanticError(ErrorFieldNotFound, fmt.Sprintf("'%s' has no member named '%s'", typeName, field), pos).
		WithLength(len(field))
	return suggestSimilar(b, similar).Build()
}

// TypeMismatch reports operand types that are incompatible for the
// requested operation (assignment, initialization, binary operator).
func TypeMismatch(expected, actual string, pos ast.Position) CompilerError {
	return NewSemanticError(ErrorTypeMismatch, fmt.Sprintf("incompatible types: expected %s, found %s", expected, actual), pos).
		Build()
}

// NotAnLvalue reports an attempt to take the address of, assign to, or
// increment/decrement a non-lvalue expression.
func NotAnLvalue(context string, pos ast.Position) CompilerError {
	return NewSemanticError(ErrorNotAnLvalue, fmt.Sprintf("expression is not assignable in %s", context), pos).
		WithNote("only an object designated by an lvalue may be assigned to, addressed, or incremented").
		Build()
}

// NotScalar reports a value used where a scalar type is required: an
// if/loop/ternary/switch condition, or a boolean conversion.
func NotScalar(typeName string, pos ast.Position) CompilerError {
	return NewSemanticError(ErrorNotScalar,
		fmt.Sprintf("used where a scalar value is required, but expression has type '%s'", typeName), pos).
		Build()
}

// CallTargetNotFunction reports a call expression whose callee is neither a
// function nor a pointer to one.
func CallTargetNotFunction(typeName string, pos ast.Position) CompilerError {
	return NewSemanticError(ErrorCallTargetNotFunction,
		fmt.Sprintf("called object of type '%s' is not a function or function pointer", typeName), pos).
		Build()
}

// InvalidArguments reports a call whose argument count or types don't
// match the callee's function type (spec §4.5 get_rvalue call handling).
func InvalidArguments(funcName string, expected, got int, pos ast.Position) CompilerError {
	b := NewSemanticError(ErrorInvalidArguments,
		fmt.Sprintf("'%s' expects %d argument(s), got %d", funcName, expected, got), pos)
	if got < expected {
		b = b.WithSuggestion("supply the missing argument(s)")
	} else {
		b = b.WithSuggestion("remove the extra argument(s)")
	}
	return b.Build()
}

// InvalidCast reports a cast between two type categories the language
// does not permit to convert directly (e.g. struct to pointer).
func InvalidCast(from, to string, pos ast.Position) CompilerError {
	return NewSemanticError(ErrorInvalidCast, fmt.Sprintf("cannot cast from %s to %s", from, to), pos).Build()
}

// DuplicateDeclaration reports an identifier redeclared incompatibly in
// the same scope.
func DuplicateDeclaration(name string, pos, firstPos ast.Position) CompilerError {
	return NewSemanticError(ErrorDuplicateDeclaration, fmt.Sprintf("redefinition of '%s'", name), pos).
		WithLength(len(name)).
		WithNote(fmt.Sprintf("previous declaration was at line %d", firstPos.Line)).
		Build()
}

// DuplicateTag reports a struct/union/enum tag redeclared with a
// conflicting completion in the same scope.
func DuplicateTag(keyword, name string, pos, firstPos ast.Position) CompilerError {
	return NewSemanticError(ErrorDuplicateTag, fmt.Sprintf("redefinition of '%s %s'", keyword, name), pos).
		WithLength(len(name)).
		WithNote(fmt.Sprintf("previous declaration was at line %d", firstPos.Line)).
		Build()
}

// DuplicateDefinition reports a function given a body more than once.
func DuplicateDefinition(name string, pos, firstPos ast.Position) CompilerError {
	return NewSemanticError(ErrorDuplicateDefinition, fmt.Sprintf("redefinition of function '%s'", name), pos).
		WithLength(len(name)).
		WithNote(fmt.Sprintf("previous definition was at line %d", firstPos.Line)).
		Build()
}

// IncompleteType reports use of an incomplete type where completeness is
// required (sizeof, a variable definition, a non-pointer member).
func IncompleteType(typeName, context string, pos ast.Position) CompilerError {
	return NewSemanticError(ErrorIncompleteType, fmt.Sprintf("incomplete type '%s' in %s", typeName, context), pos).
		Build()
}

// InvalidStorageClass reports a storage-class specifier invalid for its
// declaration (e.g. a parameter declared `static`).
func InvalidStorageClass(storage, context string, pos ast.Position) CompilerError {
	return NewSemanticError(ErrorInvalidStorageClass,
		fmt.Sprintf("'%s' storage class is not valid for %s", storage, context), pos).Build()
}

// NotConstant reports an initializer required to be a compile-time
// constant expression but is not (spec §4.6: file-scope and static
// initializers must fold).
func NotConstant(context string, pos ast.Position) CompilerError {
	return NewSemanticError(ErrorNotConstant, fmt.Sprintf("initializer element in %s is not constant", context), pos).
		WithNote("file-scope and static initializers must be computable at compile time").
		Build()
}

// DuplicateField reports a struct/union designated initializer naming the
// same field twice.
func DuplicateField(field string, pos ast.Position) CompilerError {
	return NewSemanticError(ErrorDuplicateField, fmt.Sprintf("field '%s' initialized more than once", field), pos).
		WithLength(len(field)).Build()
}

// ExcessInitializers reports an initializer list with more elements than
// the target aggregate has slots.
func ExcessInitializers(typeName string, pos ast.Position) CompilerError {
	return NewSemanticError(ErrorExcessInitializers, fmt.Sprintf("excess elements in initializer of '%s'", typeName), pos).
		Build()
}

// InvalidDesignator reports a designator naming a field or index that
// doesn't exist on the aggregate it initializes.
func InvalidDesignator(name string, pos ast.Position) CompilerError {
	return NewSemanticError(ErrorInvalidDesignator, fmt.Sprintf("designator '%s' does not name a member or valid index", name), pos).
		Build()
}

// InvalidOperation reports a unary or binary operator applied to operand
// types it is not defined for.
func InvalidOperation(op, lhsType, rhsType string, pos ast.Position) CompilerError {
	msg := fmt.Sprintf("invalid operands to '%s' (have '%s' and '%s')", op, lhsType, rhsType)
	if rhsType == "" {
		msg = fmt.Sprintf("invalid operand to '%s' (have '%s')", op, lhsType)
	}
	return NewSemanticError(ErrorInvalidOperation, msg, pos).Build()
}

// VoidInExpression reports a void-returning call used where a value is
// required.
func VoidInExpression(pos ast.Position) CompilerError {
	return NewSemanticError(ErrorVoidInExpression, "void value not ignored as it ought to be", pos).Build()
}

// InvalidAssignment reports an assignment whose target is not modifiable
// (const-qualified, or not an lvalue at all).
func InvalidAssignment(reason string, pos ast.Position) CompilerError {
	return NewSemanticError(ErrorInvalidAssignment, fmt.Sprintf("assignment to read-only location: %s", reason), pos).
		Build()
}

// MissingReturn reports a non-void function whose control flow can reach
// the end of its body without a return statement. The CFG finalize pass
// (spec §4.9) still synthesizes a `ret 0` there so the IR stays well
// formed, but this diagnostic flags the source-level defect that made it
// necessary.
func MissingReturn(funcName string, pos ast.Position) CompilerError {
	return NewSemanticError(ErrorMissingReturn,
		fmt.Sprintf("control reaches end of non-void function '%s'", funcName), pos).
		WithNote("a non-void function must return a value on every path").
		Build()
}

// MisplacedJump reports break/continue outside any enclosing loop/switch.
func MisplacedJump(kind string, pos ast.Position) CompilerError {
	context := "a loop"
	if kind == "break" {
		context = "a loop or switch"
	}
	return NewSemanticError(ErrorMisplacedJump, fmt.Sprintf("'%s' statement not in %s", kind, context), pos).Build()
}

// MisplacedCase reports a case/default label outside any enclosing switch.
func MisplacedCase(pos ast.Position) CompilerError {
	return NewSemanticError(ErrorMisplacedCase, "case/default label not within a switch statement", pos).Build()
}

// DuplicateCase reports two case labels with the same constant value in
// one switch.
func DuplicateCase(value string, pos, firstPos ast.Position) CompilerError {
	return NewSemanticError(ErrorDuplicateCase, fmt.Sprintf("duplicate case value '%s'", value), pos).
		WithNote(fmt.Sprintf("previous case was at line %d", firstPos.Line)).
		Build()
}

// UnusedVariable warns that a declared local is never read.
func UnusedVariable(name string, pos ast.Position) CompilerError {
	return NewSemanticWarning(WarningUnusedVariable, fmt.Sprintf("unused variable '%s'", name), pos).
		WithLength(len(name)).Build()
}

// UnreachableCode warns that a statement can never execute.
func UnreachableCode(pos ast.Position) CompilerError {
	return NewSemanticWarning(WarningUnreachableCode, "this statement is unreachable", pos).Build()
}
