package types

import (
	"c99core/internal/ast"
	"c99core/internal/errors"
	"c99core/internal/symbols"
)

// ResolveType walks a declarator's parsed C type tree and binds every
// struct/union/enum reference to the symbols.Tag visible at this point in
// the program, snapshotting that binding into CType.TagUID. Once resolved,
// a type never needs the symbol table again: this is what keeps an inner
// scope's shadowing tag from retroactively changing an outer declaration's
// already-resolved field types (spec §4.2 resolve_type, §4.3, §9).
func ResolveType(t *ast.CType, tbl *symbols.Table, sink *errors.Sink, pos ast.Position) *ast.CType {
	if t == nil {
		return nil
	}
	switch t.Kind {
	case ast.TypePointer, ast.TypeArray:
		t.Elem = ResolveType(t.Elem, tbl, sink, pos)
	case ast.TypeFunction:
		t.Return = ResolveType(t.Return, tbl, sink, pos)
		for i, p := range t.Params {
			t.Params[i] = ResolveType(p, tbl, sink, pos)
		}
	case ast.TypeStructOrUnion:
		resolveStructOrUnion(t, tbl, sink, pos)
	case ast.TypeEnum:
		resolveEnum(t, tbl, sink, pos)
	}
	return t
}

func tagKind(isUnion bool) symbols.TagKind {
	if isUnion {
		return symbols.TagUnion
	}
	return symbols.TagStruct
}

func resolveStructOrUnion(t *ast.CType, tbl *symbols.Table, sink *errors.Sink, pos ast.Position) {
	kind := tagKind(t.IsUnion)
	keyword := "struct"
	if t.IsUnion {
		keyword = "union"
	}

	if t.Tag == "" {
		// Anonymous struct/union: always a distinct type, never shared
		// across declarations even if structurally identical.
		tag := tbl.NewAnonymousTag(kind)
		t.TagUID = tag.UID
		if t.HasBody {
			for i := range t.Fields {
				t.Fields[i].Type = ResolveType(t.Fields[i].Type, tbl, sink, pos)
			}
			tag.CType, tag.Complete = t, true
		}
		return
	}

	if t.HasBody {
		tag := tbl.DeclareTag(t.Tag, kind, pos)
		if tag.Complete {
			sink.Add(errors.DuplicateTag(keyword, t.Tag, pos, tag.Pos))
		}
		for i := range t.Fields {
			t.Fields[i].Type = ResolveType(t.Fields[i].Type, tbl, sink, pos)
		}
		tag.CType, tag.Complete = t, true
		t.TagUID = tag.UID
		return
	}

	// A bare reference such as `struct Foo *p;`. If no tag of this name
	// is visible anywhere in the enclosing scope chain, the reference
	// itself implicitly forward-declares an incomplete tag here, exactly
	// as a real `struct Foo;` would (spec §4.3).
	tag := tbl.LookupTag(t.Tag)
	if tag == nil {
		tag = tbl.DeclareTag(t.Tag, kind, pos)
	}
	t.TagUID = tag.UID
	if tag.Complete {
		*t = *tag.CType
		t.TagUID = tag.UID
	}
}

func resolveEnum(t *ast.CType, tbl *symbols.Table, sink *errors.Sink, pos ast.Position) {
	if t.EnumTag == "" {
		tag := tbl.NewAnonymousTag(symbols.TagEnum)
		t.TagUID = tag.UID
		if len(t.Enumerators) > 0 {
			tag.CType, tag.Complete = t, true
		}
		return
	}

	if len(t.Enumerators) > 0 {
		tag := tbl.DeclareTag(t.EnumTag, symbols.TagEnum, pos)
		if tag.Complete {
			sink.Add(errors.DuplicateTag("enum", t.EnumTag, pos, tag.Pos))
		}
		tag.CType, tag.Complete = t, true
		t.TagUID = tag.UID
		return
	}

	// Unlike struct/union, C never allows a bare `enum Foo` reference to
	// forward-declare the tag: an enum must be complete wherever it is
	// first named.
	tag := tbl.LookupTag(t.EnumTag)
	if tag == nil {
		similar := errors.SimilarNames(t.EnumTag, tbl.VisibleTagNames(symbols.TagEnum))
		sink.Add(errors.UndefinedTag("enum", t.EnumTag, pos, similar))
		return
	}
	t.TagUID = tag.UID
	if tag.Complete {
		*t = *tag.CType
		t.TagUID = tag.UID
	}
}
