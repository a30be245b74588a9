package types

import (
	"c99core/internal/ast"
	"c99core/internal/ir"
	"c99core/internal/target"
)

// Lowerer maps the resolved C source-level type tree to the IR type tree
// (spec §4.2 ir_type_of), caching struct/union lowerings by tag uid so
// every reference to the same tag shares one *ir.Type — types_equal (spec
// §4.2, implemented as ir.Type.Equal) relies on struct/union identity
// being the tag uid, not a structural comparison of fields.
type Lowerer struct {
	Arch  *target.Arch
	cache map[string]*ir.Type
}

func NewLowerer(arch *target.Arch) *Lowerer {
	return &Lowerer{Arch: arch, cache: make(map[string]*ir.Type)}
}

// TypeMap returns the tag-uid to lowered-struct/union-type cache backing
// this Lowerer, for publishing onto ir.Module.TypeMap (spec §6.3) once a
// translation unit finishes lowering.
func (l *Lowerer) TypeMap() map[string]*ir.Type {
	return l.cache
}

// Lower converts a single resolved CType (ResolveType must already have
// run over it, so TagUID is set) into its IR type.
func (l *Lowerer) Lower(t *ast.CType) *ir.Type {
	if t == nil {
		return nil
	}
	switch t.Kind {
	case ast.TypeVoid:
		return ir.Void
	case ast.TypeInteger:
		return l.lowerInteger(t)
	case ast.TypeFloating:
		return l.lowerFloating(t)
	case ast.TypePointer:
		return ir.PointerTo(l.Lower(t.Elem))
	case ast.TypeArray:
		length := 0
		if t.Size != nil {
			length = *t.Size
		}
		return ir.ArrayOf(l.Lower(t.Elem), length)
	case ast.TypeFunction:
		params := make([]*ir.Type, len(t.Params))
		for i, p := range t.Params {
			params[i] = l.Lower(p)
		}
		return &ir.Type{Kind: ir.KindFunction, Return: l.Lower(t.Return), Params: params, Variadic: t.Variadic}
	case ast.TypeStructOrUnion:
		return l.lowerStructOrUnion(t)
	case ast.TypeEnum:
		// Enumerations are represented as plain int (spec §9 Open
		// Questions: no implementation defines a narrower underlying type
		// here; every enumerator value fits in int by construction).
		return l.Arch.Int
	case ast.TypeBuiltin:
		return l.Arch.IntPtr
	default:
		return ir.Void
	}
}

func (l *Lowerer) lowerInteger(t *ast.CType) *ir.Type {
	switch t.IntRank {
	case ast.RankBool:
		return ir.I1
	case ast.RankChar:
		if t.Unsigned {
			return l.Arch.UChar
		}
		return l.Arch.Char
	case ast.RankShort:
		if t.Unsigned {
			return l.Arch.UShort
		}
		return l.Arch.Short
	case ast.RankLong:
		if t.Unsigned {
			return l.Arch.ULong
		}
		return l.Arch.Long
	case ast.RankLongLong:
		if t.Unsigned {
			return l.Arch.ULongLong
		}
		return l.Arch.LongLong
	default:
		if t.Unsigned {
			return l.Arch.UInt
		}
		return l.Arch.Int
	}
}

func (l *Lowerer) lowerFloating(t *ast.CType) *ir.Type {
	switch t.FloatRank {
	case ast.RankFloat:
		return l.Arch.Float
	case ast.RankDouble:
		return l.Arch.Double
	default:
		return l.Arch.LongDouble
	}
}

func (l *Lowerer) lowerStructOrUnion(t *ast.CType) *ir.Type {
	if cached, ok := l.cache[t.TagUID]; ok && (cached.Fields != nil || !t.HasBody) {
		return cached
	}
	placeholder := &ir.Type{Kind: ir.KindStruct, ID: t.TagUID, IsUnion: t.IsUnion}
	l.cache[t.TagUID] = placeholder
	if !t.HasBody {
		// Incomplete: self-referential pointer fields (`struct Node
		// *next;`) resolve against this placeholder without recursing;
		// StructLayout runs once the completing declaration is lowered.
		return placeholder
	}
	fields, size, align := StructLayout(t.Fields, l, l.Arch, t.IsUnion, t.Packed)
	placeholder.Fields = fields
	placeholder.Size = size
	placeholder.Align = align
	return placeholder
}
