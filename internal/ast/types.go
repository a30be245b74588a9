package ast

// StorageClass is the C99 storage-class specifier attached to a declaration.
// Typedef is retained only as a no-op marker: the parser resolves and
// strips typedef-names before the core ever sees a declarator (spec §6.1).
type StorageClass int

const (
	StorageNone StorageClass = iota
	StorageAuto
	StorageRegister
	StorageStatic
	StorageExtern
	StorageTypedef
)

// IntegerRank orders C99's integer ranks (not including signedness).
type IntegerRank int

const (
	RankBool IntegerRank = iota
	RankChar
	RankShort
	RankInt
	RankLong
	RankLongLong
)

// FloatRank orders the three C99 floating ranks.
type FloatRank int

const (
	RankFloat FloatRank = iota
	RankDouble
	RankLongDouble
)

// CTypeKind discriminates the c_type tagged-variant described in spec §3.
type CTypeKind int

const (
	TypeVoid CTypeKind = iota
	TypeInteger
	TypeFloating
	TypePointer
	TypeArray
	TypeFunction
	TypeStructOrUnion
	TypeEnum
	TypeBuiltin
)

// StructField is one declared member of a struct or union type.
type StructField struct {
	Name string
	Type *CType
	Pos  Position
}

// Enumerator is one `identifier [= constant-expr]` inside an enum-specifier.
// Expr is nil when the value is implicit (previous + 1, or 0 for the first).
type Enumerator struct {
	Name string
	Expr Expr
	Pos  Position
}

// CType is the C source-level type tree (spec §3 "C type tree").
//
// Invariants (spec §3): a function type's Return is never TypeFunction or
// TypeArray; an array's Element must be complete at the array's use site;
// struct/union field names are unique within a single StructOrUnion.
type CType struct {
	Kind CTypeKind

	IsConst    bool
	IsVolatile bool
	Storage    StorageClass

	// TypeInteger
	IntRank  IntegerRank
	Unsigned bool

	// TypeFloating
	FloatRank FloatRank

	// TypePointer, TypeArray
	Elem *CType

	// TypeArray: Size is nil for an inferred-length array (spec §4.6).
	Size *int

	// TypeFunction
	Return   *CType
	Params   []*CType
	Variadic bool

	// TypeStructOrUnion
	Tag     string // empty for an anonymous struct/union
	Fields  []StructField
	IsUnion bool
	Packed  bool
	HasBody bool // false for a forward-declared, incomplete tag

	// TypeEnum
	EnumTag     string
	Enumerators []Enumerator

	// TagUID is filled in by types.ResolveType: the uid of the
	// symbols.Tag this struct/union/enum type snapshot was resolved
	// against at its declaration point (spec §4.2 resolve_type, §4.3).
	// Empty until resolved.
	TagUID string

	// TypeBuiltin
	BuiltinName string
}

// IsComplete reports whether a type has a known size — used to enforce the
// "array element type is complete at use sites" invariant and to decide
// whether a tag reference is still a forward declaration.
func (t *CType) IsComplete() bool {
	switch t.Kind {
	case TypeVoid:
		return false
	case TypeStructOrUnion:
		return t.HasBody
	case TypeArray:
		return t.Size != nil && t.Elem != nil && t.Elem.IsComplete()
	default:
		return true
	}
}

// IsScalar reports whether values of this type participate in boolean
// contexts (if/while/for conditions, `!`, ternary condition — spec §4.5).
func (t *CType) IsScalar() bool {
	switch t.Kind {
	case TypeInteger, TypeFloating, TypePointer, TypeEnum:
		return true
	default:
		return false
	}
}

func (t *CType) IsIntegerType() bool {
	return t.Kind == TypeInteger || t.Kind == TypeEnum
}

func (t *CType) IsArithmetic() bool {
	return t.Kind == TypeInteger || t.Kind == TypeFloating || t.Kind == TypeEnum
}
