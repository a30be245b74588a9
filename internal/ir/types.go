// Package ir implements the typed, SSA-adjacent linear IR produced by the
// semantic core (spec §3 "IR type tree", §6.3).
package ir

import (
	"fmt"
	"strings"
)

// Kind discriminates the IR type tree's sum type.
type Kind int

const (
	KindVoid Kind = iota
	KindI1
	KindI8
	KindI16
	KindI32
	KindI64
	KindF32
	KindF64
	KindF80
	KindPtr
	KindArray
	KindStruct
	KindFunction
)

// StructFieldType is one field (or synthesized padding field) of a struct
// or union IR type (spec §4.2 struct_layout).
type StructFieldType struct {
	Name    string // empty for a synthetic padding field
	Type    *Type
	Offset  int
	Padding bool
}

// Type is the IR type tree. A single struct-of-fields representation (kept
// uniform across every Kind, unused fields left zero) is used instead of a
// family of concrete types per kind, since every consumer (the validator,
// the printer, struct_layout) needs to switch on Kind anyway.
type Type struct {
	Kind     Kind
	Unsigned bool // meaningful for integer kinds

	Elem   *Type // KindPtr, KindArray
	Length int   // KindArray

	// KindStruct
	ID      string // unique tag uid (spec §3 "Tag"), empty for none
	Fields  []StructFieldType
	IsUnion bool
	Size    int // total size in bytes, including trailing padding
	Align   int

	// KindFunction
	Return   *Type
	Params   []*Type
	Variadic bool
}

func (t *Type) String() string {
	switch t.Kind {
	case KindVoid:
		return "void"
	case KindI1:
		return "i1"
	case KindI8:
		return signedName("i8", t.Unsigned)
	case KindI16:
		return signedName("i16", t.Unsigned)
	case KindI32:
		return signedName("i32", t.Unsigned)
	case KindI64:
		return signedName("i64", t.Unsigned)
	case KindF32:
		return "f32"
	case KindF64:
		return "f64"
	case KindF80:
		return "f80"
	case KindPtr:
		return t.Elem.String() + "*"
	case KindArray:
		return fmt.Sprintf("[%d x %s]", t.Length, t.Elem.String())
	case KindStruct:
		kw := "struct"
		if t.IsUnion {
			kw = "union"
		}
		if t.ID != "" {
			return fmt.Sprintf("%%%s.%s", kw, t.ID)
		}
		var parts []string
		for _, f := range t.Fields {
			parts = append(parts, f.Type.String())
		}
		return fmt.Sprintf("%s { %s }", kw, strings.Join(parts, ", "))
	case KindFunction:
		var parts []string
		for _, p := range t.Params {
			parts = append(parts, p.String())
		}
		variadic := ""
		if t.Variadic {
			if len(parts) > 0 {
				variadic = ", ..."
			} else {
				variadic = "..."
			}
		}
		return fmt.Sprintf("%s (%s%s)", t.Return.String(), strings.Join(parts, ", "), variadic)
	default:
		return "<invalid>"
	}
}

func signedName(base string, unsigned bool) string {
	if unsigned {
		return "u" + base
	}
	return base
}

// IsInteger reports whether t is one of the integer kinds (i1..i64).
func (t *Type) IsInteger() bool {
	switch t.Kind {
	case KindI1, KindI8, KindI16, KindI32, KindI64:
		return true
	default:
		return false
	}
}

func (t *Type) IsFloat() bool {
	switch t.Kind {
	case KindF32, KindF64, KindF80:
		return true
	default:
		return false
	}
}

// Equal reports structural equality modulo struct tag identity: two
// KindStruct types are equal iff they carry the same ID (spec §4.2
// types_equal relies on tag uids for struct/union/enum identity).
func (t *Type) Equal(o *Type) bool {
	if t == nil || o == nil {
		return t == o
	}
	if t.Kind != o.Kind {
		return false
	}
	switch t.Kind {
	case KindI8, KindI16, KindI32, KindI64:
		return t.Unsigned == o.Unsigned
	case KindPtr:
		return t.Elem.Equal(o.Elem)
	case KindArray:
		return t.Length == o.Length && t.Elem.Equal(o.Elem)
	case KindStruct:
		return t.ID == o.ID
	case KindFunction:
		if t.Variadic != o.Variadic || len(t.Params) != len(o.Params) {
			return false
		}
		if !t.Return.Equal(o.Return) {
			return false
		}
		for i := range t.Params {
			if !t.Params[i].Equal(o.Params[i]) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// FieldIndex returns the index of a named field, or -1 if absent. Synthetic
// padding fields are unnamed and never match, so lookup is by name only
// (spec §4.6 "padding fields inserted by §4.2 are transparent").
func (t *Type) FieldIndex(name string) int {
	for i, f := range t.Fields {
		if !f.Padding && f.Name == name {
			return i
		}
	}
	return -1
}

var (
	Void = &Type{Kind: KindVoid}
	I1   = &Type{Kind: KindI1}
)

func PointerTo(elem *Type) *Type { return &Type{Kind: KindPtr, Elem: elem} }
func ArrayOf(elem *Type, length int) *Type {
	return &Type{Kind: KindArray, Elem: elem, Length: length}
}
