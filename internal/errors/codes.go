package errors

// Error codes for the semantic-analysis and IR-generation core.
//
// Error code ranges:
// E0001-E0099: Name resolution errors
// E0100-E0199: Type system errors
// E0200-E0299: Declaration errors
// E0300-E0399: Initializer errors
// E0400-E0499: Expression errors
// E0500-E0599: Flow control errors
// W0001-W0099: Warning codes (IsWarning and GetErrorCategory also treat
// the otherwise unused E0800-E0899 range as warnings)

const (
	// Name resolution (E0001-E0099)

	// E0001: identifier has no visible declaration
	ErrorUndefinedIdentifier = "E0001"

	// E0002: struct/union/enum tag has no visible declaration
	ErrorUndefinedTag = "E0002"

	// E0003: struct/union field does not exist
	ErrorFieldNotFound = "E0003"

	// E0004: label referenced by goto is never defined
	ErrorUndefinedLabel = "E0004"

	// Type system (E0100-E0199)

	// E0100: operand types are incompatible for the requested operation
	ErrorTypeMismatch = "E0100"

	// E0101: expression used where an lvalue is required
	ErrorNotAnLvalue = "E0101"

	// E0102: a scalar type was required but an aggregate was supplied
	ErrorNotScalar = "E0102"

	// E0103: call argument count or type does not match the function type
	ErrorInvalidArguments = "E0103"

	// E0104: cast between incompatible type categories
	ErrorInvalidCast = "E0104"

	// E0105: call target is not a function or function pointer
	ErrorCallTargetNotFunction = "E0105"

	// Declaration errors (E0200-E0299)

	// E0200: identifier redeclared incompatibly in the same scope
	ErrorDuplicateDeclaration = "E0200"

	// E0201: tag redeclared with conflicting completion in the same scope
	ErrorDuplicateTag = "E0201"

	// E0202: function declared with a body more than once
	ErrorDuplicateDefinition = "E0202"

	// E0203: declaration uses an incomplete type where completeness is required
	ErrorIncompleteType = "E0203"

	// E0204: storage class is invalid for this kind of declaration
	ErrorInvalidStorageClass = "E0204"

	// Initializer errors (E0300-E0399)

	// E0300: initializer is not a valid constant expression
	ErrorNotConstant = "E0300"

	// E0301: struct/union literal names a field twice
	ErrorDuplicateField = "E0301"

	// E0302: initializer list has more elements than the aggregate has slots
	ErrorExcessInitializers = "E0302"

	// E0303: designator names a field or index that does not exist
	ErrorInvalidDesignator = "E0303"

	// Expression errors (E0400-E0499)

	// E0400: unary or binary operator is not defined for its operand types
	ErrorInvalidOperation = "E0400"

	// E0401: void value used in a context that requires a value
	ErrorVoidInExpression = "E0401"

	// E0402: assignment target is not modifiable (const or not an lvalue)
	ErrorInvalidAssignment = "E0402"

	// Flow control (E0500-E0599)

	// E0500: non-void function falls off its end without a return
	ErrorMissingReturn = "E0500"

	// E0501: break/continue outside any enclosing loop or switch
	ErrorMisplacedJump = "E0501"

	// E0502: case/default label outside any enclosing switch
	ErrorMisplacedCase = "E0502"

	// E0503: duplicate case constant in the same switch
	ErrorDuplicateCase = "E0503"

	// Warning codes (W0001-W0099)

	// W0001: declared variable is never read
	WarningUnusedVariable = "W0001"

	// W0002: statement can never be reached
	WarningUnreachableCode = "W0002"
)

// GetErrorDescription returns a human-readable description of the error code.
func GetErrorDescription(code string) string {
	switch code {
	case ErrorUndefinedIdentifier:
		return "identifier is used but has no visible declaration"
	case ErrorUndefinedTag:
		return "struct, union or enum tag has no visible declaration"
	case ErrorFieldNotFound:
		return "struct or union has no field with this name"
	case ErrorUndefinedLabel:
		return "goto targets a label never defined in this function"
	case ErrorTypeMismatch:
		return "operand types are incompatible for the requested operation"
	case ErrorNotAnLvalue:
		return "expression does not designate an object"
	case ErrorNotScalar:
		return "a scalar value is required here"
	case ErrorInvalidArguments:
		return "call arguments do not match the function's parameter types"
	case ErrorInvalidCast:
		return "cast is not defined between these two types"
	case ErrorCallTargetNotFunction:
		return "called object is not a function or function pointer"
	case ErrorDuplicateDeclaration:
		return "identifier conflicts with an existing declaration in this scope"
	case ErrorDuplicateTag:
		return "tag conflicts with an existing declaration in this scope"
	case ErrorDuplicateDefinition:
		return "function already has a body"
	case ErrorIncompleteType:
		return "type must be complete in this context"
	case ErrorInvalidStorageClass:
		return "storage class is not valid for this declaration"
	case ErrorNotConstant:
		return "initializer is not a compile-time constant expression"
	case ErrorDuplicateField:
		return "field is initialized more than once"
	case ErrorExcessInitializers:
		return "too many initializers for this type"
	case ErrorInvalidDesignator:
		return "designator does not name an existing field or index"
	case ErrorInvalidOperation:
		return "operator is not defined for these operand types"
	case ErrorVoidInExpression:
		return "void value not ignored as it ought to be"
	case ErrorInvalidAssignment:
		return "assignment target is not modifiable"
	case ErrorMissingReturn:
		return "non-void function may fall off its end without a return"
	case ErrorMisplacedJump:
		return "break or continue outside any enclosing loop or switch"
	case ErrorMisplacedCase:
		return "case or default label outside any enclosing switch"
	case ErrorDuplicateCase:
		return "duplicate case constant in the same switch"
	case WarningUnusedVariable:
		return "variable is declared but never read"
	case WarningUnreachableCode:
		return "statement can never be reached"
	default:
		return "unknown error code"
	}
}

// IsWarning reports whether code names a warning rather than a hard error.
func IsWarning(code string) bool {
	return len(code) > 0 && (code[0] == 'W' || (code >= "E0800" && code < "E0900"))
}

// GetErrorCategory returns the category of the error based on its code.
func GetErrorCategory(code string) string {
	switch {
	case code >= "E0001" && code < "E0100":
		return "Name Resolution"
	case code >= "E0100" && code < "E0200":
		return "Type System"
	case code >= "E0200" && code < "E0300":
		return "Declaration"
	case code >= "E0300" && code < "E0400":
		return "Initializer"
	case code >= "E0400" && code < "E0500":
		return "Expression"
	case code >= "E0500" && code < "E0600":
		return "Flow Control"
	case code >= "E0800" && code < "E0900":
		return "Warning"
	case len(code) > 0 && code[0] == 'W':
		return "Warning"
	default:
		return "Unknown"
	}
}
