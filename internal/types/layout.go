package types

import (
	"c99core/internal/ast"
	"c99core/internal/ir"
	"c99core/internal/target"
)

// StructLayout computes field offsets for a struct or union, synthesizing
// explicit unnamed padding fields so the layout is visible in the IR type
// itself rather than implicit (spec §4.2). Padding fields are transparent
// to name-based lookup (ir.Type.FieldIndex).
func StructLayout(fields []ast.StructField, l *Lowerer, arch *target.Arch, isUnion, packed bool) ([]ir.StructFieldType, int, int) {
	if isUnion {
		return layoutUnion(fields, l, arch)
	}
	return layoutStruct(fields, l, arch, packed)
}

func fieldAlign(t *ir.Type, arch *target.Arch) int {
	switch t.Kind {
	case ir.KindStruct:
		if t.Align > 0 {
			return t.Align
		}
		return 1
	case ir.KindArray:
		return fieldAlign(t.Elem, arch)
	default:
		return arch.AlignOf(t)
	}
}

func fieldSize(t *ir.Type, arch *target.Arch) int {
	switch t.Kind {
	case ir.KindStruct:
		return t.Size
	case ir.KindArray:
		return t.Length * fieldSize(t.Elem, arch)
	default:
		return arch.SizeOf(t)
	}
}

func paddingType(n int) *ir.Type {
	return ir.ArrayOf(&ir.Type{Kind: ir.KindI8, Unsigned: true}, n)
}

func layoutStruct(fields []ast.StructField, l *Lowerer, arch *target.Arch, packed bool) ([]ir.StructFieldType, int, int) {
	var out []ir.StructFieldType
	offset := 0
	maxAlign := 1

	for _, f := range fields {
		ft := l.Lower(f.Type)
		align := 1
		if !packed {
			align = fieldAlign(ft, arch)
			if align > maxAlign {
				maxAlign = align
			}
			if rem := offset % align; rem != 0 {
				pad := align - rem
				out = append(out, ir.StructFieldType{Type: paddingType(pad), Offset: offset, Padding: true})
				offset += pad
			}
		}
		out = append(out, ir.StructFieldType{Name: f.Name, Type: ft, Offset: offset})
		offset += fieldSize(ft, arch)
	}

	size := offset
	if !packed && maxAlign > 1 {
		if rem := size % maxAlign; rem != 0 {
			pad := maxAlign - rem
			out = append(out, ir.StructFieldType{Type: paddingType(pad), Offset: size, Padding: true})
			size += pad
		}
	}
	if packed {
		maxAlign = 1
	}
	return out, size, maxAlign
}

func layoutUnion(fields []ast.StructField, l *Lowerer, arch *target.Arch) ([]ir.StructFieldType, int, int) {
	var out []ir.StructFieldType
	size, align := 0, 1
	for _, f := range fields {
		ft := l.Lower(f.Type)
		out = append(out, ir.StructFieldType{Name: f.Name, Type: ft, Offset: 0})
		if s := fieldSize(ft, arch); s > size {
			size = s
		}
		if a := fieldAlign(ft, arch); a > align {
			align = a
		}
	}
	if rem := size % align; rem != 0 {
		size += align - rem
	}
	return out, size, align
}
