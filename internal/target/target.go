// Package target models the architecture description supplied to the core
// by an external collaborator (spec §6.2): the IR type for every integer
// and floating rank, a pointer-sized integer, and per-type alignment used
// by struct layout.
package target

import "c99core/internal/ir"

// Arch is the target description. A real driver would construct this from
// a triple or a `-m32`/`-m64` style flag; this module only consumes it.
type Arch struct {
	Name string

	Char      *ir.Type
	Short     *ir.Type
	Int       *ir.Type
	Long      *ir.Type
	LongLong  *ir.Type
	UChar     *ir.Type
	UShort    *ir.Type
	UInt      *ir.Type
	ULong     *ir.Type
	ULongLong *ir.Type
	Bool      *ir.Type

	Float      *ir.Type
	Double     *ir.Type
	LongDouble *ir.Type

	// IntPtr is the pointer-sized integer type, used for pointer<->integer
	// conversions and for ptrdiff_t (pointer - pointer).
	IntPtr *ir.Type

	// PointerSize/Align in bytes.
	PointerSize int
	PointerAlign int

	// align maps an ir.Type's Kind (for scalar kinds) to its required
	// alignment in bytes; struct_layout (spec §4.2) consults this when
	// placing fields and synthesizing padding.
	align map[ir.Kind]int

	// ImplicitMainReturn controls whether the CFG finalize step (spec §4.9,
	// §9 Open Questions) inserts an implicit `ret 0` for every
	// non-void-returning function including `main`, regardless of return
	// type. Default true: always insert.
	ImplicitMainReturn bool
}

// SizeOf returns the size in bytes of a scalar IR type as this target lays
// it out. Aggregate sizes are computed by types.StructLayout instead.
func (a *Arch) SizeOf(t *ir.Type) int {
	switch t.Kind {
	case ir.KindI1:
		return 1
	case ir.KindI8:
		return 1
	case ir.KindI16:
		return 2
	case ir.KindI32:
		return 4
	case ir.KindI64:
		return 8
	case ir.KindF32:
		return 4
	case ir.KindF64:
		return 8
	case ir.KindF80:
		return 16 // target-specific storage size for extended precision
	case ir.KindPtr:
		return a.PointerSize
	default:
		return 0
	}
}

// AlignOf returns the required alignment in bytes of a scalar IR type.
func (a *Arch) AlignOf(t *ir.Type) int {
	if align, ok := a.align[t.Kind]; ok {
		return align
	}
	return a.SizeOf(t)
}

// NewLP64 builds the target description for the common 64-bit C ABI used
// by most Unix-like systems: char=i8, short=i16, int=i32, long=i64,
// long long=i64, pointers are 8 bytes.
func NewLP64() *Arch {
	a := &Arch{
		Name:         "lp64",
		Char:         &ir.Type{Kind: ir.KindI8},
		Short:        &ir.Type{Kind: ir.KindI16},
		Int:          &ir.Type{Kind: ir.KindI32},
		Long:         &ir.Type{Kind: ir.KindI64},
		LongLong:     &ir.Type{Kind: ir.KindI64},
		UChar:        &ir.Type{Kind: ir.KindI8, Unsigned: true},
		UShort:       &ir.Type{Kind: ir.KindI16, Unsigned: true},
		UInt:         &ir.Type{Kind: ir.KindI32, Unsigned: true},
		ULong:        &ir.Type{Kind: ir.KindI64, Unsigned: true},
		ULongLong:    &ir.Type{Kind: ir.KindI64, Unsigned: true},
		Bool:         &ir.Type{Kind: ir.KindI1, Unsigned: true},
		Float:        &ir.Type{Kind: ir.KindF32},
		Double:       &ir.Type{Kind: ir.KindF64},
		LongDouble:   &ir.Type{Kind: ir.KindF80},
		PointerSize:  8,
		PointerAlign: 8,
		ImplicitMainReturn: true,
	}
	a.IntPtr = &ir.Type{Kind: ir.KindI64, Unsigned: true}
	a.align = map[ir.Kind]int{
		ir.KindI1:  1,
		ir.KindI8:  1,
		ir.KindI16: 2,
		ir.KindI32: 4,
		ir.KindI64: 8,
		ir.KindF32: 4,
		ir.KindF64: 8,
		ir.KindF80: 16,
		ir.KindPtr: 8,
	}
	return a
}

// NewILP32 builds a 32-bit target description (long == int, pointers are 4
// bytes) — useful for exercising the width-dependent parts of struct_layout
// and conversion without a 64-bit assumption baked in everywhere.
func NewILP32() *Arch {
	a := NewLP64()
	a.Name = "ilp32"
	a.Long = &ir.Type{Kind: ir.KindI32}
	a.ULong = &ir.Type{Kind: ir.KindI32, Unsigned: true}
	a.PointerSize = 4
	a.PointerAlign = 4
	a.IntPtr = &ir.Type{Kind: ir.KindI32, Unsigned: true}
	a.align[ir.KindPtr] = 4
	return a
}
