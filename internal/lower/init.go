package lower

import (
	"strconv"

	"c99core/internal/ast"
	"c99core/internal/errors"
	"c99core/internal/ir"
	"c99core/internal/symbols"
	"c99core/internal/types"
)

func parseFloatLexeme(s string) float64 {
	val, _ := strconv.ParseFloat(s, 64)
	return val
}

// LowerLocalInit lowers a local variable's initializer by emitting stores
// into addr (spec §4.6). When init braces fewer elements than the aggregate
// has members, the remainder is zero-filled first, exactly as C99 6.7.8p21
// specifies for objects of any storage duration — an automatic variable
// with no initializer at all is left indeterminate instead; this function
// is only ever called once an initializer is known to be present.
func LowerLocalInit(f *Func, addr *ir.Value, ct *ast.CType, init *ast.Initializer) {
	irType := f.Mod.Types.Lower(ct)
	if aggregateWholeValue(f, ct) && init.InitExpr != nil {
		lowerScalarInit(f, addr, ct, init)
		return
	}
	switch ct.Kind {
	case ast.TypeArray:
		zeroFill(f, addr, irType)
		lowerArrayInit(f, addr, ct, irType, init)
	case ast.TypeStructOrUnion:
		zeroFill(f, addr, irType)
		lowerStructInit(f, addr, ct, irType, init)
	default:
		lowerScalarInit(f, addr, ct, init)
	}
}

// aggregateWholeValue reports whether ct is an aggregate type that a single
// expression (rather than a braced list) may initialize as a whole, e.g.
// `struct Point q = p;`.
func aggregateWholeValue(f *Func, ct *ast.CType) bool {
	return ct.Kind == ast.TypeStructOrUnion
}

func lowerScalarInit(f *Func, addr *ir.Value, ct *ast.CType, init *ast.Initializer) {
	expr := scalarExpr(init)
	if expr == nil {
		f.Mod.Sink.Add(errors.ExcessInitializers(ct.Tag, init.Pos))
		return
	}
	r := LowerExpr(f, expr)
	toIR := f.Mod.Types.Lower(ct)
	if ct.Kind == ast.TypeStructOrUnion {
		if !r.IsLValue() {
			f.Mod.Sink.Add(errors.NotAnLvalue("struct initializer", expr.NodePos()))
			return
		}
		copyAggregate(f, addr, r.Addr, toIR)
		return
	}
	fromIR := f.Mod.Types.Lower(r.CType)
	val := types.Convert(f.B, GetRValue(f, r), fromIR, toIR, f.Mod.Arch)
	f.B.Emit(&ir.StoreInst{Inst: ir.NextInstID(), Addr: addr, Val: val})
}

// scalarExpr unwraps brace elision (`int x = {5};`) down to the expression
// a non-aggregate initializer ultimately stores.
func scalarExpr(init *ast.Initializer) ast.Expr {
	if init.InitExpr != nil {
		return init.InitExpr
	}
	if len(init.InitList) == 1 {
		return scalarExpr(init.InitList[0])
	}
	return nil
}

func lowerArrayInit(f *Func, addr *ir.Value, ct *ast.CType, irType *ir.Type, init *ast.Initializer) {
	elemCType := ct.Elem
	elemIR := irType.Elem

	// `char buf[] = "hi";` — a string literal initializes a char array
	// element-by-element rather than through the general list path.
	if expr := scalarExpr(init); expr != nil {
		if lit, ok := expr.(*ast.LiteralExpr); ok && lit.Kind == ast.LitString {
			lowerStringArrayInit(f, addr, irType, lit)
			return
		}
	}

	pos := 0
	for _, elem := range init.InitList {
		designators := elem.Designators
		if len(designators) > 0 && !designators[0].IsField {
			idx, ok := evalConstInt(f, designators[0].Index)
			if ok {
				pos = int(idx)
			}
			elem = stripDesignator(elem)
		}
		if irType.Length > 0 && pos >= irType.Length {
			f.Mod.Sink.Add(errors.ExcessInitializers("array", elem.Pos))
			break
		}
		elemAddr := ir.VarValue(f.B.NewLocal(), ir.PointerTo(elemIR))
		f.B.Emit(&ir.GetArrayElementPtrInst{
			Inst: ir.NextInstID(), Res: elemAddr, Base: addr,
			Index: ir.IntConst(f.Mod.Arch.Int, uint64(pos)), ElemType: elemIR,
		})
		LowerLocalInit(f, elemAddr, elemCType, elem)
		pos++
	}
}

func lowerStringArrayInit(f *Func, addr *ir.Value, irType *ir.Type, lit *ast.LiteralExpr) {
	bytes := decodeEscapedString(trimQuotes(lit.Lexeme))
	bytes = append(bytes, 0)
	for i, b := range bytes {
		if irType.Length > 0 && i >= irType.Length {
			break
		}
		elemAddr := ir.VarValue(f.B.NewLocal(), ir.PointerTo(irType.Elem))
		f.B.Emit(&ir.GetArrayElementPtrInst{
			Inst: ir.NextInstID(), Res: elemAddr, Base: addr,
			Index: ir.IntConst(f.Mod.Arch.Int, uint64(i)), ElemType: irType.Elem,
		})
		f.B.Emit(&ir.StoreInst{Inst: ir.NextInstID(), Addr: elemAddr, Val: ir.IntConst(irType.Elem, uint64(b))})
	}
}

func trimQuotes(s string) string {
	if len(s) >= 2 && s[0] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}

func lowerStructInit(f *Func, addr *ir.Value, ct *ast.CType, irType *ir.Type, init *ast.Initializer) {
	fieldPos := 0
	seen := make(map[string]bool)
	for _, elem := range init.InitList {
		if ct.IsUnion && fieldPos > 0 {
			f.Mod.Sink.Add(errors.ExcessInitializers(ct.Tag, elem.Pos))
			break
		}
		fieldName := ""
		designators := elem.Designators
		if len(designators) > 0 && designators[0].IsField {
			fieldName = designators[0].Field
			idx := fieldIndexByName(ct, fieldName)
			if idx < 0 {
				f.Mod.Sink.Add(errors.InvalidDesignator(fieldName, designators[0].Pos))
				continue
			}
			fieldPos = idx
			elem = stripDesignator(elem)
		} else if fieldPos < len(ct.Fields) {
			fieldName = ct.Fields[fieldPos].Name
		} else {
			f.Mod.Sink.Add(errors.ExcessInitializers(ct.Tag, elem.Pos))
			break
		}
		if seen[fieldName] {
			f.Mod.Sink.Add(errors.DuplicateField(fieldName, elem.Pos))
		}
		seen[fieldName] = true

		fieldCType := fieldCTypeByName(ct, fieldName)
		irIdx := irType.FieldIndex(fieldName)
		if irIdx < 0 {
			continue
		}
		fieldIR := irType.Fields[irIdx].Type
		fieldAddr := ir.VarValue(f.B.NewLocal(), ir.PointerTo(fieldIR))
		f.B.Emit(&ir.GetStructMemberPtrInst{Inst: ir.NextInstID(), Res: fieldAddr, Base: addr, FieldIndex: irIdx, FieldName: fieldName})
		LowerLocalInit(f, fieldAddr, fieldCType, elem)
		fieldPos++
	}
}

func fieldIndexByName(ct *ast.CType, name string) int {
	for i, field := range ct.Fields {
		if field.Name == name {
			return i
		}
	}
	return -1
}

// stripDesignator drops the leading designator step, for recursing into the
// next level of a multi-step chain like `.a[2] = x`.
func stripDesignator(init *ast.Initializer) *ast.Initializer {
	if len(init.Designators) <= 1 {
		return &ast.Initializer{InitExpr: init.InitExpr, InitList: init.InitList, Pos: init.Pos, EndPs: init.EndPs}
	}
	return &ast.Initializer{
		Designators: init.Designators[1:],
		InitExpr:    init.InitExpr, InitList: init.InitList,
		Pos: init.Pos, EndPs: init.EndPs,
	}
}

// zeroFill stores a scalar zero into every leaf of the aggregate at addr,
// giving remaining not-explicitly-initialized elements C99 6.7.8p21's
// as-if-static zero value. There is no aggregate-wide memset opcode in this
// IR, so a partially initialized array of any real size pays for one store
// per element; a target wanting better codegen would lower this to a
// runtime memset instead.
func zeroFill(f *Func, addr *ir.Value, irType *ir.Type) {
	switch irType.Kind {
	case ir.KindArray:
		for i := 0; i < irType.Length; i++ {
			elemAddr := ir.VarValue(f.B.NewLocal(), ir.PointerTo(irType.Elem))
			f.B.Emit(&ir.GetArrayElementPtrInst{
				Inst: ir.NextInstID(), Res: elemAddr, Base: addr,
				Index: ir.IntConst(f.Mod.Arch.Int, uint64(i)), ElemType: irType.Elem,
			})
			zeroFill(f, elemAddr, irType.Elem)
		}
	case ir.KindStruct:
		for i, field := range irType.Fields {
			fieldAddr := ir.VarValue(f.B.NewLocal(), ir.PointerTo(field.Type))
			f.B.Emit(&ir.GetStructMemberPtrInst{Inst: ir.NextInstID(), Res: fieldAddr, Base: addr, FieldIndex: i, FieldName: field.Name})
			zeroFill(f, fieldAddr, field.Type)
		}
	default:
		f.B.Emit(&ir.StoreInst{Inst: ir.NextInstID(), Addr: addr, Val: zeroValue(irType)})
	}
}

// copyAggregate performs a field/element-wise copy from srcAddr to dstAddr,
// standing in for whole-object aggregate assignment/initialization since
// this IR carries no aggregate copy opcode.
func copyAggregate(f *Func, dstAddr, srcAddr *ir.Value, irType *ir.Type) {
	switch irType.Kind {
	case ir.KindArray:
		for i := 0; i < irType.Length; i++ {
			idx := ir.IntConst(f.Mod.Arch.Int, uint64(i))
			dstElem := ir.VarValue(f.B.NewLocal(), ir.PointerTo(irType.Elem))
			f.B.Emit(&ir.GetArrayElementPtrInst{Inst: ir.NextInstID(), Res: dstElem, Base: dstAddr, Index: idx, ElemType: irType.Elem})
			srcElem := ir.VarValue(f.B.NewLocal(), ir.PointerTo(irType.Elem))
			f.B.Emit(&ir.GetArrayElementPtrInst{Inst: ir.NextInstID(), Res: srcElem, Base: srcAddr, Index: idx, ElemType: irType.Elem})
			copyAggregate(f, dstElem, srcElem, irType.Elem)
		}
	case ir.KindStruct:
		for i, field := range irType.Fields {
			dstField := ir.VarValue(f.B.NewLocal(), ir.PointerTo(field.Type))
			f.B.Emit(&ir.GetStructMemberPtrInst{Inst: ir.NextInstID(), Res: dstField, Base: dstAddr, FieldIndex: i, FieldName: field.Name})
			srcField := ir.VarValue(f.B.NewLocal(), ir.PointerTo(field.Type))
			f.B.Emit(&ir.GetStructMemberPtrInst{Inst: ir.NextInstID(), Res: srcField, Base: srcAddr, FieldIndex: i, FieldName: field.Name})
			copyAggregate(f, dstField, srcField, field.Type)
		}
	default:
		loaded := ir.VarValue(f.B.NewLocal(), irType)
		f.B.Emit(&ir.LoadInst{Inst: ir.NextInstID(), Res: loaded, Addr: srcAddr})
		f.B.Emit(&ir.StoreInst{Inst: ir.NextInstID(), Addr: dstAddr, Val: loaded})
	}
}

// InferArrayLength fills in ct.Size for an inferred-length array declarator
// (`int a[] = {1, 2, 3};`) by counting the initializer's top-level elements,
// following any array-index designators present (spec §4.6). Called before
// the declared type is lowered, so types.Lower sees a complete array type.
func InferArrayLength(ct *ast.CType, init *ast.Initializer) {
	if ct.Kind != ast.TypeArray || ct.Size != nil || init == nil {
		return
	}
	if expr := scalarExpr(init); expr != nil {
		if lit, ok := expr.(*ast.LiteralExpr); ok && lit.Kind == ast.LitString {
			n := len(decodeEscapedString(trimQuotes(lit.Lexeme))) + 1
			ct.Size = &n
			return
		}
	}
	count, maxIdx := 0, -1
	for _, elem := range init.InitList {
		if len(elem.Designators) > 0 && !elem.Designators[0].IsField {
			if idx, ok := constIntLiteral(elem.Designators[0].Index); ok {
				count = idx + 1
				if count-1 > maxIdx {
					maxIdx = count - 1
				}
				continue
			}
		}
		count++
		if count-1 > maxIdx {
			maxIdx = count - 1
		}
	}
	n := maxIdx + 1
	ct.Size = &n
}

// constIntLiteral evaluates a designator index without needing a *Func —
// InferArrayLength runs before the enclosing function's builder exists.
func constIntLiteral(e ast.Expr) (int, bool) {
	switch e := e.(type) {
	case *ast.ParenExpr:
		return constIntLiteral(e.Value)
	case *ast.LiteralExpr:
		if e.Kind == ast.LitInt {
			return int(parseIntLexeme(e.Lexeme)), true
		}
	case *ast.UnaryExpr:
		if e.Op == ast.UnaryMinus {
			v, ok := constIntLiteral(e.Operand)
			return -v, ok
		}
		if e.Op == ast.UnaryPlus {
			return constIntLiteral(e.Operand)
		}
	}
	return 0, false
}

// FoldConstInit evaluates a file-scope (or static local) initializer into a
// compile-time ir.Const tree (spec §4.6, §4.8: globals require a constant
// expression). Sink receives NotConstant if it isn't one.
func FoldConstInit(m *Module, ct *ast.CType, init *ast.Initializer, pos ast.Position) *ir.Const {
	irType := m.Types.Lower(ct)
	switch ct.Kind {
	case ast.TypeArray:
		return foldArrayInit(m, ct, irType, init, pos)
	case ast.TypeStructOrUnion:
		return foldStructInit(m, ct, irType, init, pos)
	default:
		expr := scalarExpr(init)
		if expr == nil {
			m.Sink.Add(errors.NotConstant("initializer", pos))
			return zeroConst(irType)
		}
		c, ok := foldConstExpr(m, expr, irType)
		if !ok {
			m.Sink.Add(errors.NotConstant("initializer", expr.NodePos()))
			return zeroConst(irType)
		}
		return c
	}
}

func foldArrayInit(m *Module, ct *ast.CType, irType *ir.Type, init *ast.Initializer, pos ast.Position) *ir.Const {
	if expr := scalarExpr(init); expr != nil {
		if lit, ok := expr.(*ast.LiteralExpr); ok && lit.Kind == ast.LitString {
			bytes := decodeEscapedString(trimQuotes(lit.Lexeme))
			bytes = append(bytes, 0)
			elems := make([]*ir.Const, irType.Length)
			for i := range elems {
				var b byte
				if i < len(bytes) {
					b = bytes[i]
				}
				elems[i] = &ir.Const{Kind: ir.ConstInt, Type: irType.Elem, Int: uint64(b)}
			}
			return &ir.Const{Kind: ir.ConstArray, Type: irType, Elems: elems}
		}
	}
	elems := make([]*ir.Const, irType.Length)
	for i := range elems {
		elems[i] = zeroConst(irType.Elem)
	}
	pos2 := 0
	for _, elem := range init.InitList {
		if len(elem.Designators) > 0 && !elem.Designators[0].IsField {
			if idx, ok := constIntLiteral(elem.Designators[0].Index); ok {
				pos2 = idx
			}
			elem = stripDesignator(elem)
		}
		if pos2 >= 0 && pos2 < len(elems) {
			elems[pos2] = FoldConstInit(m, ct.Elem, elem, pos)
		}
		pos2++
	}
	return &ir.Const{Kind: ir.ConstArray, Type: irType, Elems: elems}
}

func foldStructInit(m *Module, ct *ast.CType, irType *ir.Type, init *ast.Initializer, pos ast.Position) *ir.Const {
	elems := make([]*ir.Const, len(irType.Fields))
	for i, field := range irType.Fields {
		elems[i] = zeroConst(field.Type)
	}
	fieldPos := 0
	seen := make(map[string]bool)
	for _, elem := range init.InitList {
		fieldName := ""
		if len(elem.Designators) > 0 && elem.Designators[0].IsField {
			fieldName = elem.Designators[0].Field
			fieldPos = fieldIndexByName(ct, fieldName)
			elem = stripDesignator(elem)
		} else if fieldPos < len(ct.Fields) {
			fieldName = ct.Fields[fieldPos].Name
		}
		if fieldName != "" {
			if seen[fieldName] {
				m.Sink.Add(errors.DuplicateField(fieldName, elem.Pos))
			}
			seen[fieldName] = true
		}
		irIdx := irType.FieldIndex(fieldName)
		if irIdx >= 0 {
			elems[irIdx] = FoldConstInit(m, fieldCTypeByName(ct, fieldName), elem, pos)
		}
		fieldPos++
		if ct.IsUnion {
			break
		}
	}
	return &ir.Const{Kind: ir.ConstStruct, Type: irType, Elems: elems}
}

func zeroConst(t *ir.Type) *ir.Const {
	switch {
	case t == nil || t.Kind == ir.KindVoid:
		return nil
	case t.IsFloat():
		return &ir.Const{Kind: ir.ConstFloat, Type: t}
	case t.Kind == ir.KindPtr:
		return &ir.Const{Kind: ir.ConstPointer, Type: t}
	case t.Kind == ir.KindArray:
		elems := make([]*ir.Const, t.Length)
		for i := range elems {
			elems[i] = zeroConst(t.Elem)
		}
		return &ir.Const{Kind: ir.ConstArray, Type: t, Elems: elems}
	case t.Kind == ir.KindStruct:
		elems := make([]*ir.Const, len(t.Fields))
		for i, field := range t.Fields {
			elems[i] = zeroConst(field.Type)
		}
		return &ir.Const{Kind: ir.ConstStruct, Type: t, Elems: elems}
	default:
		return &ir.Const{Kind: ir.ConstInt, Type: t}
	}
}

// foldConstExpr evaluates the subset of constant expressions a file-scope
// initializer may use: literals, enumeration constants, sign/complement,
// arithmetic between two already-constant operands, and `&g` for a
// file-scope or static object (spec §9 Open Question: only those addresses
// fold — anything without static storage duration is rejected as NotConstant
// by the caller).
func foldConstExpr(m *Module, e ast.Expr, want *ir.Type) (*ir.Const, bool) {
	switch e := e.(type) {
	case *ast.ParenExpr:
		return foldConstExpr(m, e.Value, want)
	case *ast.LiteralExpr:
		return foldLiteralConst(m, e, want)
	case *ast.UnaryExpr:
		return foldUnaryConst(m, e, want)
	case *ast.BinaryExpr:
		return foldBinaryConst(m, e, want)
	case *ast.IdentExpr:
		sym := m.Symbols.Lookup(e.Name)
		if sym != nil && sym.Kind == symbols.KindEnumerator {
			return &ir.Const{Kind: ir.ConstInt, Type: want, Int: uint64(sym.EnumValue)}, true
		}
		return nil, false
	default:
		return nil, false
	}
}

func foldLiteralConst(m *Module, e *ast.LiteralExpr, want *ir.Type) (*ir.Const, bool) {
	switch e.Kind {
	case ast.LitInt:
		return &ir.Const{Kind: ir.ConstInt, Type: want, Int: uint64(parseIntLexeme(e.Lexeme))}, true
	case ast.LitChar:
		body := trimCharQuotes(e.Lexeme)
		return &ir.Const{Kind: ir.ConstInt, Type: want, Int: uint64(int64(int8(decodeEscapedByte(body))))}, true
	case ast.LitFloat:
		lexeme := e.Lexeme
		trimmed := lexeme
		for _, suf := range []string{"f", "F", "l", "L"} {
			if len(trimmed) > 0 && trimmed[len(trimmed)-1:] == suf {
				trimmed = trimmed[:len(trimmed)-1]
			}
		}
		val := parseFloatLexeme(trimmed)
		return &ir.Const{Kind: ir.ConstFloat, Type: want, Float: val}, true
	case ast.LitString:
		return foldStringLiteralConst(m, e, want), true
	default:
		return nil, false
	}
}

// foldStringLiteralConst synthesizes the anonymous internal global holding a
// string literal's bytes (as lowerStringLiteral does inside a function body)
// and returns a ConstString referring to it, for a scalar (pointer-typed)
// context such as `char *p = "hi";` at file scope or in a static local.
func foldStringLiteralConst(m *Module, e *ast.LiteralExpr, want *ir.Type) *ir.Const {
	raw := decodeEscapedString(trimQuotes(e.Lexeme))
	name := m.MB.NewFunctionBuilder().NewGlobalName("str")
	elemType := m.Arch.Char
	arrType := ir.ArrayOf(elemType, len(raw)+1)

	bytes := make([]*ir.Const, len(raw)+1)
	for i := 0; i < len(raw); i++ {
		bytes[i] = &ir.Const{Kind: ir.ConstInt, Type: elemType, Int: uint64(raw[i])}
	}
	bytes[len(raw)] = &ir.Const{Kind: ir.ConstInt, Type: elemType, Int: 0}

	m.IR.Globals = append(m.IR.Globals, &ir.Global{
		Name:        name,
		Type:        arrType,
		Internal:    true,
		Initializer: &ir.Const{Kind: ir.ConstArray, Type: arrType, Elems: bytes},
	})
	return &ir.Const{Kind: ir.ConstString, Type: want, Str: string(raw), Name: name}
}

func foldUnaryConst(m *Module, e *ast.UnaryExpr, want *ir.Type) (*ir.Const, bool) {
	if e.Op == ast.UnaryAddr {
		return foldAddressConst(m, e.Operand, want)
	}
	operand, ok := foldConstExpr(m, e.Operand, want)
	if !ok {
		return nil, false
	}
	switch e.Op {
	case ast.UnaryPlus:
		return operand, true
	case ast.UnaryMinus:
		if operand.Kind == ir.ConstFloat {
			return &ir.Const{Kind: ir.ConstFloat, Type: operand.Type, Float: -operand.Float}, true
		}
		return &ir.Const{Kind: ir.ConstInt, Type: operand.Type, Int: uint64(-int64(operand.Int))}, true
	case ast.UnaryNot:
		return &ir.Const{Kind: ir.ConstInt, Type: operand.Type, Int: ^operand.Int}, true
	case ast.UnaryLNot:
		boolVal := uint64(0)
		if operand.Int == 0 && operand.Float == 0 {
			boolVal = 1
		}
		return &ir.Const{Kind: ir.ConstInt, Type: want, Int: boolVal}, true
	default:
		return nil, false
	}
}

func foldBinaryConst(m *Module, e *ast.BinaryExpr, want *ir.Type) (*ir.Const, bool) {
	l, ok := foldConstExpr(m, e.Left, want)
	if !ok {
		return nil, false
	}
	r, ok := foldConstExpr(m, e.Right, want)
	if !ok {
		return nil, false
	}
	if l.Kind == ir.ConstFloat || r.Kind == ir.ConstFloat {
		return nil, false // floating constant folding beyond literals is out of scope here
	}
	lv, rv := int64(l.Int), int64(r.Int)
	var res int64
	switch e.Op {
	case ast.BinAdd:
		res = lv + rv
	case ast.BinSub:
		res = lv - rv
	case ast.BinMul:
		res = lv * rv
	case ast.BinDiv:
		if rv == 0 {
			return nil, false
		}
		res = lv / rv
	case ast.BinMod:
		if rv == 0 {
			return nil, false
		}
		res = lv % rv
	case ast.BinAnd:
		res = lv & rv
	case ast.BinOr:
		res = lv | rv
	case ast.BinXor:
		res = lv ^ rv
	case ast.BinShl:
		res = lv << uint(rv)
	case ast.BinShr:
		res = lv >> uint(rv)
	default:
		return nil, false
	}
	return &ir.Const{Kind: ir.ConstInt, Type: want, Int: uint64(res)}, true
}

// foldAddressConst folds `&g` to a ConstGlobalAddr when g is a file-scope or
// static-storage-duration variable — the only addresses C recognizes as
// constant expressions.
func foldAddressConst(m *Module, operand ast.Expr, want *ir.Type) (*ir.Const, bool) {
	id, ok := operand.(*ast.IdentExpr)
	if !ok {
		return nil, false
	}
	sym := m.Symbols.Lookup(id.Name)
	if sym == nil || sym.Kind != symbols.KindVariable {
		return nil, false
	}
	staticDuration := sym.FileScope || (sym.CType != nil && sym.CType.Storage == ast.StorageStatic)
	if !staticDuration || sym.Value == nil || !sym.Value.IsConst || sym.Value.Const == nil {
		return nil, false
	}
	return &ir.Const{Kind: ir.ConstGlobalAddr, Type: want, Name: sym.Value.Const.Name}, true
}

func trimCharQuotes(s string) string {
	if len(s) >= 2 && s[0] == '\'' {
		return s[1 : len(s)-1]
	}
	return s
}
