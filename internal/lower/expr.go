package lower

import (
	"strconv"
	"strings"

	"c99core/internal/ast"
	"c99core/internal/errors"
	"c99core/internal/ir"
	"c99core/internal/symbols"
	"c99core/internal/types"
)

// Result is an expression lowering's output (spec §3 "Expression result").
// Exactly one of Addr/RVal is meaningful at any moment: an expression that
// designates an object carries Addr and defers the load — the
// "Indirection" state that lets chains like `&*p` and `*&x` cancel out
// without ever emitting a load the surrounding expression doesn't need.
// GetRValue materializes the load on demand.
type Result struct {
	CType *ast.CType
	Addr  *ir.Value // set iff this expression designates an object
	RVal  *ir.Value // set iff an rvalue is already on hand
}

func (r Result) IsLValue() bool { return r.Addr != nil }

// GetRValue materializes r's value, applying array-to-pointer decay and
// emitting a load only when no rvalue is already available (spec §4.5
// get_rvalue).
func GetRValue(f *Func, r Result) *ir.Value {
	if r.CType != nil && r.CType.Kind == ast.TypeVoid {
		f.Mod.Sink.Add(errors.VoidInExpression(ast.Position{}))
		return ir.IntConst(f.Mod.Arch.Int, 0)
	}
	if r.RVal != nil {
		return r.RVal
	}
	if r.Addr == nil {
		f.Mod.Sink.Add(errors.NotAnLvalue("expression", ast.Position{}))
		return ir.IntConst(f.Mod.Arch.Int, 0)
	}
	if r.CType != nil && r.CType.Kind == ast.TypeArray {
		elem := f.Mod.Types.Lower(r.CType.Elem)
		return &ir.Value{Name: r.Addr.Name, Type: ir.PointerTo(elem)}
	}
	irType := f.Mod.Types.Lower(r.CType)
	res := ir.VarValue(f.B.NewLocal(), irType)
	f.B.Emit(&ir.LoadInst{Inst: ir.NextInstID(), Res: res, Addr: r.Addr})
	return res
}

func LowerExpr(f *Func, e ast.Expr) Result {
	switch e := e.(type) {
	case *ast.IdentExpr:
		return lowerIdent(f, e)
	case *ast.LiteralExpr:
		return lowerLiteral(f, e)
	case *ast.ParenExpr:
		return LowerExpr(f, e.Value)
	case *ast.UnaryExpr:
		return lowerUnary(f, e)
	case *ast.BinaryExpr:
		return lowerBinary(f, e)
	case *ast.TernaryExpr:
		return lowerTernary(f, e)
	case *ast.AssignExpr:
		return lowerAssign(f, e)
	case *ast.CallExpr:
		return lowerCall(f, e)
	case *ast.MemberExpr:
		return lowerMember(f, e)
	case *ast.IndexExpr:
		return lowerIndex(f, e)
	case *ast.CastExpr:
		return lowerCast(f, e)
	case *ast.SizeofExpr:
		return lowerSizeof(f, e)
	case *ast.CommaExpr:
		return lowerComma(f, e)
	case *ast.PostfixExpr:
		return lowerPostfix(f, e)
	default:
		panic(&ir.InvariantViolation{Msg: "lower: unhandled expression node"})
	}
}

func intType(rank ast.IntegerRank, unsigned bool) *ast.CType {
	return &ast.CType{Kind: ast.TypeInteger, IntRank: rank, Unsigned: unsigned}
}

func sizeType() *ast.CType { return intType(ast.RankLong, true) }

// promote returns the CType an operand's CType becomes after the integer
// promotions (C99 6.3.1.1): anything narrower than int, or an enum, widens
// to plain int; everything else passes through unchanged.
func promote(ct *ast.CType) *ast.CType {
	if ct.Kind == ast.TypeEnum {
		return intType(ast.RankInt, false)
	}
	if ct.Kind == ast.TypeInteger && ct.IntRank < ast.RankInt {
		return intType(ast.RankInt, false)
	}
	return ct
}

// widenBoolToInt zero-extends an i1 truth value to a plain int, matching
// the `int` result type every relational/logical/`!` expression has in C
// (its bit-level i1 form is only needed locally for branching).
func widenBoolToInt(f *Func, v *ir.Value) *ir.Value {
	res := ir.VarValue(f.B.NewLocal(), f.Mod.Arch.Int)
	f.B.Emit(&ir.ConvertInst{Inst: ir.NextInstID(), Op: ir.OpExt, Res: res, Val: v, Signed: false})
	return res
}

func lowerIdent(f *Func, e *ast.IdentExpr) Result {
	sym := f.Mod.Symbols.Lookup(e.Name)
	if sym == nil {
		similar := errors.SimilarNames(e.Name, f.Mod.Symbols.VisibleNames())
		f.Mod.Sink.Add(errors.UndefinedIdentifier(e.Name, e.Pos, similar))
		return Result{CType: intType(ast.RankInt, false), RVal: ir.IntConst(f.Mod.Arch.Int, 0)}
	}
	f.markUsed(sym)
	switch sym.Kind {
	case symbols.KindFunction:
		return Result{CType: sym.CType, RVal: sym.Value}
	case symbols.KindEnumerator:
		return Result{CType: sym.CType, RVal: ir.SignedIntConst(f.Mod.Arch.Int, sym.EnumValue)}
	default: // variable or parameter
		return Result{CType: sym.CType, Addr: sym.Value}
	}
}

func lowerLiteral(f *Func, e *ast.LiteralExpr) Result {
	switch e.Kind {
	case ast.LitInt:
		return lowerIntLiteral(f, e)
	case ast.LitFloat:
		return lowerFloatLiteral(f, e)
	case ast.LitChar:
		return lowerCharLiteral(f, e)
	default: // LitString
		return lowerStringLiteral(f, e)
	}
}

func lowerIntLiteral(f *Func, e *ast.LiteralExpr) Result {
	lexeme := strings.ToLower(e.Lexeme)
	unsigned := strings.Count(lexeme, "u") > 0
	longCount := strings.Count(lexeme, "l")
	digits := strings.TrimRight(lexeme, "ul")

	base := 10
	switch {
	case strings.HasPrefix(digits, "0x"):
		base, digits = 16, digits[2:]
	case strings.HasPrefix(digits, "0") && len(digits) > 1:
		base, digits = 8, digits[1:]
	}
	if digits == "" {
		digits = "0"
	}

	val, _ := strconv.ParseUint(digits, base, 64)

	rank := ast.RankInt
	if longCount == 1 {
		rank = ast.RankLong
	} else if longCount >= 2 {
		rank = ast.RankLongLong
	}
	// An unsuffixed decimal constant that overflows a rank promotes to the
	// next one that can hold it; this module keeps the common case (the
	// value fits the chosen rank) and otherwise just widens to long.
	ct := intType(rank, unsigned)
	irType := f.Mod.Types.Lower(ct)
	if !unsigned && val > uint64(1)<<(f.Mod.Arch.SizeOf(irType)*8-1)-1 {
		ct = intType(ast.RankLong, unsigned)
		irType = f.Mod.Types.Lower(ct)
	}
	return Result{CType: ct, RVal: ir.IntConst(irType, val)}
}

func lowerFloatLiteral(f *Func, e *ast.LiteralExpr) Result {
	lexeme := strings.ToLower(e.Lexeme)
	rank := ast.RankDouble
	trimmed := lexeme
	if strings.HasSuffix(lexeme, "f") {
		rank = ast.RankFloat
		trimmed = strings.TrimSuffix(lexeme, "f")
	} else if strings.HasSuffix(lexeme, "l") {
		rank = ast.RankLongDouble
		trimmed = strings.TrimSuffix(lexeme, "l")
	}
	val, _ := strconv.ParseFloat(trimmed, 64)
	ct := &ast.CType{Kind: ast.TypeFloating, FloatRank: rank}
	return Result{CType: ct, RVal: ir.FloatConst(f.Mod.Types.Lower(ct), val)}
}

func lowerCharLiteral(f *Func, e *ast.LiteralExpr) Result {
	body := strings.Trim(e.Lexeme, "'")
	val := decodeEscapedByte(body)
	// A character constant has type int in C, not char.
	return Result{CType: intType(ast.RankInt, false), RVal: ir.SignedIntConst(f.Mod.Arch.Int, int64(int8(val)))}
}

func decodeEscapedByte(s string) byte {
	if len(s) == 0 {
		return 0
	}
	if s[0] != '\\' || len(s) < 2 {
		return s[0]
	}
	switch s[1] {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	case '0':
		return 0
	case '\\':
		return '\\'
	case '\'':
		return '\''
	case '"':
		return '"'
	default:
		return s[1]
	}
}

// lowerStringLiteral synthesizes an anonymous internal global holding the
// NUL-terminated bytes and returns its address directly as an rvalue: a
// string literal decays to `char*` immediately (spec §4.5).
func lowerStringLiteral(f *Func, e *ast.LiteralExpr) Result {
	raw := decodeEscapedString(strings.Trim(e.Lexeme, "\""))
	name := f.B.NewGlobalName("str")
	elemType := f.Mod.Arch.Char
	arrType := ir.ArrayOf(elemType, len(raw)+1)

	bytes := make([]*ir.Const, len(raw)+1)
	for i := 0; i < len(raw); i++ {
		bytes[i] = &ir.Const{Kind: ir.ConstInt, Type: elemType, Int: uint64(raw[i])}
	}
	bytes[len(raw)] = &ir.Const{Kind: ir.ConstInt, Type: elemType, Int: 0}

	f.Mod.IR.Globals = append(f.Mod.IR.Globals, &ir.Global{
		Name:        name,
		Type:        arrType,
		Internal:    true,
		Initializer: &ir.Const{Kind: ir.ConstArray, Type: arrType, Elems: bytes},
	})

	ct := &ast.CType{Kind: ast.TypePointer, Elem: intType(ast.RankChar, false)}
	ptr := ir.GlobalAddrConst(ir.PointerTo(elemType), name)
	return Result{CType: ct, RVal: ptr}
}

func decodeEscapedString(s string) []byte {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			out = append(out, decodeEscapedByte(s[i:i+2]))
			i++
			continue
		}
		out = append(out, s[i])
	}
	return out
}

func lowerUnary(f *Func, e *ast.UnaryExpr) Result {
	switch e.Op {
	case ast.UnaryAddr:
		operand := LowerExpr(f, e.Operand)
		if !operand.IsLValue() {
			f.Mod.Sink.Add(errors.NotAnLvalue("&", e.Pos))
			return Result{CType: intType(ast.RankInt, false), RVal: ir.IntConst(f.Mod.Arch.Int, 0)}
		}
		return Result{CType: &ast.CType{Kind: ast.TypePointer, Elem: operand.CType}, RVal: operand.Addr}
	case ast.UnaryDeref:
		operand := LowerExpr(f, e.Operand)
		if !isPointerish(operand.CType) {
			f.Mod.Sink.Add(errors.InvalidOperation("*", typeDisplayName(f, operand.CType), "", e.Pos))
			return Result{CType: intType(ast.RankInt, false), RVal: ir.IntConst(f.Mod.Arch.Int, 0)}
		}
		ptrVal := GetRValue(f, operand)
		return Result{CType: operand.CType.Elem, Addr: ptrVal}
	case ast.UnaryPlus:
		return LowerExpr(f, e.Operand)
	case ast.UnaryMinus:
		return lowerArithUnary(f, e.Operand, ir.OpNeg)
	case ast.UnaryNot:
		return lowerArithUnary(f, e.Operand, ir.OpNot)
	case ast.UnaryLNot:
		return lowerLogicalNot(f, e.Operand)
	case ast.UnaryPreInc, ast.UnaryPreDec:
		return lowerIncDec(f, e.Operand, e.Op == ast.UnaryPreInc, false)
	default:
		panic(&ir.InvariantViolation{Msg: "lower: unhandled unary operator"})
	}
}

func lowerArithUnary(f *Func, operand ast.Expr, op ir.UnOp) Result {
	r := LowerExpr(f, operand)
	fromIR := f.Mod.Types.Lower(r.CType)

	targetIR, resultCType := fromIR, r.CType
	if !fromIR.IsFloat() {
		targetIR = types.IntegerPromote(fromIR, f.Mod.Arch)
		resultCType = promote(r.CType)
	}

	val := types.Convert(f.B, GetRValue(f, r), fromIR, targetIR, f.Mod.Arch)
	res := ir.VarValue(f.B.NewLocal(), targetIR)
	f.B.Emit(&ir.UnaryInst{Inst: ir.NextInstID(), Op: op, Res: res, Val: val})
	return Result{CType: resultCType, RVal: res}
}

func lowerLogicalNot(f *Func, operand ast.Expr) Result {
	r := LowerExpr(f, operand)
	if r.CType != nil && !r.CType.IsScalar() {
		f.Mod.Sink.Add(errors.InvalidOperation("!", typeDisplayName(f, r.CType), "", operand.NodePos()))
		return Result{CType: intType(ast.RankInt, false), RVal: ir.IntConst(f.Mod.Arch.Int, 0)}
	}
	val := GetRValue(f, r)
	irType := f.Mod.Types.Lower(r.CType)
	res := ir.VarValue(f.B.NewLocal(), ir.I1)
	f.B.Emit(&ir.BinaryInst{Inst: ir.NextInstID(), Op: ir.OpEq, Res: res, L: val, R: zeroValue(irType)})
	return Result{CType: intType(ast.RankInt, false), RVal: widenBoolToInt(f, res)}
}

func lowerIncDec(f *Func, operand ast.Expr, inc, postfix bool) Result {
	r := LowerExpr(f, operand)
	if !r.IsLValue() {
		f.Mod.Sink.Add(errors.NotAnLvalue("increment/decrement", operand.NodePos()))
	}
	irType := f.Mod.Types.Lower(r.CType)
	old := GetRValue(f, r)

	op := ir.OpAdd
	if !inc {
		op = ir.OpSub
	}
	one := oneValue(irType)
	updated := ir.VarValue(f.B.NewLocal(), irType)
	f.B.Emit(&ir.BinaryInst{Inst: ir.NextInstID(), Op: op, Res: updated, L: old, R: one})
	if r.IsLValue() {
		f.B.Emit(&ir.StoreInst{Inst: ir.NextInstID(), Addr: r.Addr, Val: updated})
	}

	if postfix {
		return Result{CType: r.CType, RVal: old}
	}
	return Result{CType: r.CType, RVal: updated}
}

func oneValue(t *ir.Type) *ir.Value {
	if t.IsFloat() {
		return ir.FloatConst(t, 1)
	}
	return ir.IntConst(t, 1)
}

func lowerPostfix(f *Func, e *ast.PostfixExpr) Result {
	return lowerIncDec(f, e.Operand, e.Inc, true)
}

var binOpTable = map[ast.BinaryOp]ir.BinOp{
	ast.BinAdd: ir.OpAdd, ast.BinSub: ir.OpSub, ast.BinMul: ir.OpMul,
	ast.BinDiv: ir.OpDiv, ast.BinMod: ir.OpMod, ast.BinShl: ir.OpShl,
	ast.BinShr: ir.OpShr, ast.BinAnd: ir.OpAnd, ast.BinOr: ir.OpOr,
	ast.BinXor: ir.OpXor, ast.BinEq: ir.OpEq, ast.BinNe: ir.OpNe,
	ast.BinLt: ir.OpLt, ast.BinLe: ir.OpLe, ast.BinGt: ir.OpGt, ast.BinGe: ir.OpGe,
}

func lowerBinary(f *Func, e *ast.BinaryExpr) Result {
	switch e.Op {
	case ast.BinLAnd, ast.BinLOr:
		return lowerLogical(f, e)
	}

	lhs := LowerExpr(f, e.Left)
	rhs := LowerExpr(f, e.Right)

	// Pointer arithmetic (p + i, p - i, p - p) bypasses the usual
	// arithmetic conversions entirely (spec §4.5).
	if e.Op == ast.BinAdd || e.Op == ast.BinSub {
		if ptrResult, ok := tryPointerArith(f, e.Op, lhs, rhs); ok {
			return ptrResult
		}
	}

	lIR, rIR := f.Mod.Types.Lower(lhs.CType), f.Mod.Types.Lower(rhs.CType)
	common := types.UsualArithmeticConversions(lIR, rIR, f.Mod.Arch)

	lVal := types.Convert(f.B, GetRValue(f, lhs), lIR, common, f.Mod.Arch)
	rVal := types.Convert(f.B, GetRValue(f, rhs), rIR, common, f.Mod.Arch)

	op, ok := binOpTable[e.Op]
	if !ok {
		panic(&ir.InvariantViolation{Msg: "lower: unhandled binary operator"})
	}

	if op.IsRelational() {
		res := ir.VarValue(f.B.NewLocal(), ir.I1)
		f.B.Emit(&ir.BinaryInst{Inst: ir.NextInstID(), Op: op, Res: res, L: lVal, R: rVal, Signed: !common.Unsigned})
		return Result{CType: intType(ast.RankInt, false), RVal: widenBoolToInt(f, res)}
	}

	res := ir.VarValue(f.B.NewLocal(), common)
	f.B.Emit(&ir.BinaryInst{Inst: ir.NextInstID(), Op: op, Res: res, L: lVal, R: rVal, Signed: !common.Unsigned})
	return Result{CType: wideCType(common), RVal: res}
}

// wideCType builds the CType corresponding to an IR type chosen by the
// usual arithmetic conversions or a pointer-arithmetic computation.
func wideCType(common *ir.Type) *ast.CType {
	if common.IsFloat() {
		switch common.Kind {
		case ir.KindF32:
			return &ast.CType{Kind: ast.TypeFloating, FloatRank: ast.RankFloat}
		case ir.KindF64:
			return &ast.CType{Kind: ast.TypeFloating, FloatRank: ast.RankDouble}
		default:
			return &ast.CType{Kind: ast.TypeFloating, FloatRank: ast.RankLongDouble}
		}
	}
	rank := ast.RankInt
	if common.Kind == ir.KindI64 {
		rank = ast.RankLong
	}
	return intType(rank, common.Unsigned)
}

// tryPointerArith handles `+`/`-` when at least one operand is a pointer
// (or array, which decays to one). lhs/rhs are already lowered by the
// caller so neither is lowered twice when this returns false. A ptrdiff
// result is scaled by the pointee's size; pointer-minus-pointer divides the
// byte difference by the shared pointee size (spec §4.5).
func tryPointerArith(f *Func, op ast.BinaryOp, lhs, rhs Result) (Result, bool) {
	lIsPtr := isPointerish(lhs.CType)
	rIsPtr := isPointerish(rhs.CType)
	if !lIsPtr && !rIsPtr {
		return Result{}, false
	}

	if lIsPtr && rIsPtr && op == ast.BinSub {
		elem := f.Mod.Types.Lower(lhs.CType.Elem)
		elemSize := f.Mod.Arch.SizeOf(elem)
		lVal, rVal := GetRValue(f, lhs), GetRValue(f, rhs)
		diff := ir.VarValue(f.B.NewLocal(), f.Mod.Arch.IntPtr)
		f.B.Emit(&ir.BinaryInst{Inst: ir.NextInstID(), Op: ir.OpSub, Res: diff, L: lVal, R: rVal, Signed: true})
		if elemSize <= 1 {
			return Result{CType: sizeType(), RVal: diff}, true
		}
		divisor := ir.IntConst(f.Mod.Arch.IntPtr, uint64(elemSize))
		quot := ir.VarValue(f.B.NewLocal(), f.Mod.Arch.IntPtr)
		f.B.Emit(&ir.BinaryInst{Inst: ir.NextInstID(), Op: ir.OpDiv, Res: quot, L: diff, R: divisor, Signed: true})
		return Result{CType: sizeType(), RVal: quot}, true
	}

	ptrResult, intResult := lhs, rhs
	if !lIsPtr {
		ptrResult, intResult = rhs, lhs
	}
	ptrVal := GetRValue(f, ptrResult)
	idx := GetRValue(f, intResult)
	elemCType := ptrResult.CType.Elem
	elemType := f.Mod.Types.Lower(elemCType)
	if op == ast.BinSub {
		negIdx := ir.VarValue(f.B.NewLocal(), idx.TypeOf())
		f.B.Emit(&ir.UnaryInst{Inst: ir.NextInstID(), Op: ir.OpNeg, Res: negIdx, Val: idx})
		idx = negIdx
	}
	res := ir.VarValue(f.B.NewLocal(), ir.PointerTo(elemType))
	f.B.Emit(&ir.GetArrayElementPtrInst{Inst: ir.NextInstID(), Res: res, Base: ptrVal, Index: idx, ElemType: elemType})
	resultCType := &ast.CType{Kind: ast.TypePointer, Elem: elemCType}
	return Result{CType: resultCType, RVal: res}, true
}

func isPointerish(t *ast.CType) bool {
	return t != nil && (t.Kind == ast.TypePointer || t.Kind == ast.TypeArray)
}

// lowerLogical implements short-circuit `&&`/`||` by branching around the
// right operand and joining the two arms through a stack slot (spec §4.5,
// §4.7 describes the same join-through-a-temporary pattern for `if`/`for`).
func lowerLogical(f *Func, e *ast.BinaryExpr) Result {
	lhs := LowerExpr(f, e.Left)
	lVal := toBool(f, lhs, e.Left.NodePos())

	rhsLabel := f.B.NewLabel()
	shortLabel := f.B.NewLabel()
	joinLabel := f.B.NewLabel()

	slot := ir.VarValue(f.B.NewLocal()+".addr", ir.PointerTo(ir.I1))
	f.B.EmitAlloca(&ir.AllocaInst{Inst: ir.NextInstID(), Res: slot, AllocType: ir.I1, Name: "logical"})

	if e.Op == ast.BinLAnd {
		f.B.Emit(&ir.BrCondInst{Inst: ir.NextInstID(), Cond: lVal, TrueLabel: rhsLabel, FalseLabel: shortLabel})
	} else {
		f.B.Emit(&ir.BrCondInst{Inst: ir.NextInstID(), Cond: lVal, TrueLabel: shortLabel, FalseLabel: rhsLabel})
	}

	f.B.Emit(&ir.NopInst{Inst: ir.NextInstID(), Label: shortLabel})
	f.B.Emit(&ir.StoreInst{Inst: ir.NextInstID(), Addr: slot, Val: lVal})
	f.B.Emit(&ir.BrInst{Inst: ir.NextInstID(), Target: joinLabel})

	f.B.Emit(&ir.NopInst{Inst: ir.NextInstID(), Label: rhsLabel})
	rVal := toBool(f, LowerExpr(f, e.Right), e.Right.NodePos())
	f.B.Emit(&ir.StoreInst{Inst: ir.NextInstID(), Addr: slot, Val: rVal})
	f.B.Emit(&ir.BrInst{Inst: ir.NextInstID(), Target: joinLabel})

	f.B.Emit(&ir.NopInst{Inst: ir.NextInstID(), Label: joinLabel})
	res := ir.VarValue(f.B.NewLocal(), ir.I1)
	f.B.Emit(&ir.LoadInst{Inst: ir.NextInstID(), Res: res, Addr: slot})
	return Result{CType: intType(ast.RankInt, false), RVal: widenBoolToInt(f, res)}
}

// toBool produces the i1 truth value of a scalar expression (`cond != 0`),
// used everywhere a C boolean context is lowered (spec §4.5, IsScalar). Every
// caller lowers a context that C99 requires to be scalar (an if/loop/
// ternary condition, or `&&`/`||`'s operand); a non-scalar
// operand (e.g. a whole struct) is rejected here rather than at each call
// site.
func toBool(f *Func, r Result, pos ast.Position) *ir.Value {
	if r.CType != nil && !r.CType.IsScalar() {
		f.Mod.Sink.Add(errors.NotScalar(typeDisplayName(f, r.CType), pos))
		return ir.IntConst(ir.I1, 0)
	}
	val := GetRValue(f, r)
	irType := f.Mod.Types.Lower(r.CType)
	if irType.Kind == ir.KindI1 {
		return val
	}
	res := ir.VarValue(f.B.NewLocal(), ir.I1)
	f.B.Emit(&ir.BinaryInst{Inst: ir.NextInstID(), Op: ir.OpNe, Res: res, L: val, R: zeroValue(irType)})
	return res
}

// lowerTernary lowers `cond ? then : else`. Both arms are lowered once each
// into their own block; the cursor is rewound to the end of the then arm
// (via GetCursor/SetCursor) to append its conversion and store only once
// the else arm's type is known and the common type can be computed,
// without those instructions bleeding into the else block.
func lowerTernary(f *Func, e *ast.TernaryExpr) Result {
	cond := toBool(f, LowerExpr(f, e.Cond), e.Cond.NodePos())
	thenLabel, elseLabel, joinLabel := f.B.NewLabel(), f.B.NewLabel(), f.B.NewLabel()
	f.B.Emit(&ir.BrCondInst{Inst: ir.NextInstID(), Cond: cond, TrueLabel: thenLabel, FalseLabel: elseLabel})

	f.B.Emit(&ir.NopInst{Inst: ir.NextInstID(), Label: thenLabel})
	thenR := LowerExpr(f, e.Then)
	thenIR := f.Mod.Types.Lower(thenR.CType)
	thenVal := GetRValue(f, thenR)
	thenCursor := f.B.GetCursor()

	f.B.Emit(&ir.NopInst{Inst: ir.NextInstID(), Label: elseLabel})
	elseR := LowerExpr(f, e.Else)
	elseIR := f.Mod.Types.Lower(elseR.CType)
	elseVal := GetRValue(f, elseR)

	common := ternaryCommonType(f, thenR.CType, elseR.CType, thenIR, elseIR, e.Pos)
	slot := ir.VarValue(f.B.NewLocal()+".addr", ir.PointerTo(common))
	f.B.EmitAlloca(&ir.AllocaInst{Inst: ir.NextInstID(), Res: slot, AllocType: common, Name: "ternary"})

	elseConv := types.Convert(f.B, elseVal, elseIR, common, f.Mod.Arch)
	f.B.Emit(&ir.StoreInst{Inst: ir.NextInstID(), Addr: slot, Val: elseConv})
	f.B.Emit(&ir.BrInst{Inst: ir.NextInstID(), Target: joinLabel})

	afterElseCursor := f.B.GetCursor()
	f.B.SetCursor(thenCursor)
	thenConv := types.Convert(f.B, thenVal, thenIR, common, f.Mod.Arch)
	f.B.Emit(&ir.StoreInst{Inst: ir.NextInstID(), Addr: slot, Val: thenConv})
	f.B.Emit(&ir.BrInst{Inst: ir.NextInstID(), Target: joinLabel})
	f.B.SetCursor(afterElseCursor)

	f.B.Emit(&ir.NopInst{Inst: ir.NextInstID(), Label: joinLabel})
	res := ir.VarValue(f.B.NewLocal(), common)
	f.B.Emit(&ir.LoadInst{Inst: ir.NextInstID(), Res: res, Addr: slot})
	return Result{CType: wideCType(common), RVal: res}
}

// ternaryCommonType picks `cond ? then : else`'s result type (spec §4.5).
// Two arithmetic arms go through the usual arithmetic conversions exactly
// like a binary operator's operands; two pointer arms (to compatible
// pointees) keep the then-arm's pointer type unconverted. Anything else is
// not a type C99 lets the two arms agree on.
func ternaryCommonType(f *Func, thenCType, elseCType *ast.CType, thenIR, elseIR *ir.Type, pos ast.Position) *ir.Type {
	thenArith := thenCType != nil && thenCType.IsArithmetic()
	elseArith := elseCType != nil && elseCType.IsArithmetic()
	if thenArith && elseArith {
		return types.UsualArithmeticConversions(thenIR, elseIR, f.Mod.Arch)
	}
	if isPointerish(thenCType) && isPointerish(elseCType) {
		return thenIR
	}
	f.Mod.Sink.Add(errors.InvalidOperation("?:", typeDisplayName(f, thenCType), typeDisplayName(f, elseCType), pos))
	return thenIR
}

func lowerAssign(f *Func, e *ast.AssignExpr) Result {
	target := LowerExpr(f, e.Target)
	if !target.IsLValue() {
		f.Mod.Sink.Add(errors.InvalidAssignment("left side is not an object", e.Pos))
	}
	if target.CType != nil && target.CType.IsConst {
		f.Mod.Sink.Add(errors.InvalidAssignment("target is const-qualified", e.Pos))
	}
	targetIR := f.Mod.Types.Lower(target.CType)

	var newVal *ir.Value
	if e.Op == ast.AssignPlain {
		rhs := LowerExpr(f, e.Value)
		newVal = types.Convert(f.B, GetRValue(f, rhs), f.Mod.Types.Lower(rhs.CType), targetIR, f.Mod.Arch)
	} else {
		old := GetRValue(f, target)
		rhs := LowerExpr(f, e.Value)
		rIR := f.Mod.Types.Lower(rhs.CType)
		common := types.UsualArithmeticConversions(targetIR, rIR, f.Mod.Arch)
		lVal := types.Convert(f.B, old, targetIR, common, f.Mod.Arch)
		rVal := types.Convert(f.B, GetRValue(f, rhs), rIR, common, f.Mod.Arch)
		op := compoundOpTable[e.Op]
		sum := ir.VarValue(f.B.NewLocal(), common)
		f.B.Emit(&ir.BinaryInst{Inst: ir.NextInstID(), Op: op, Res: sum, L: lVal, R: rVal, Signed: !common.Unsigned})
		newVal = types.Convert(f.B, sum, common, targetIR, f.Mod.Arch)
	}

	if target.IsLValue() {
		f.B.Emit(&ir.StoreInst{Inst: ir.NextInstID(), Addr: target.Addr, Val: newVal})
	}
	return Result{CType: target.CType, RVal: newVal}
}

var compoundOpTable = map[ast.AssignOp]ir.BinOp{
	ast.AssignAdd: ir.OpAdd, ast.AssignSub: ir.OpSub, ast.AssignMul: ir.OpMul,
	ast.AssignDiv: ir.OpDiv, ast.AssignMod: ir.OpMod, ast.AssignShl: ir.OpShl,
	ast.AssignShr: ir.OpShr, ast.AssignAnd: ir.OpAnd, ast.AssignOr: ir.OpOr,
	ast.AssignXor: ir.OpXor,
}

func lowerCall(f *Func, e *ast.CallExpr) Result {
	callee := LowerExpr(f, e.Callee)
	calleeVal := GetRValue(f, callee)

	fnType := callee.CType
	if fnType != nil && fnType.Kind == ast.TypePointer {
		fnType = fnType.Elem
	}
	if fnType == nil || fnType.Kind != ast.TypeFunction {
		f.Mod.Sink.Add(errors.CallTargetNotFunction(typeDisplayName(f, callee.CType), e.Pos))
		return Result{CType: intType(ast.RankInt, false), RVal: ir.IntConst(f.Mod.Arch.Int, 0)}
	}

	args := make([]*ir.Value, len(e.Args))
	for i, a := range e.Args {
		argResult := LowerExpr(f, a)
		argIR := f.Mod.Types.Lower(argResult.CType)
		argVal := GetRValue(f, argResult)
		if i < len(fnType.Params) {
			targetIR := f.Mod.Types.Lower(fnType.Params[i])
			argVal = types.Convert(f.B, argVal, argIR, targetIR, f.Mod.Arch)
		}
		args[i] = argVal
	}
	if len(e.Args) != len(fnType.Params) && !fnType.Variadic {
		f.Mod.Sink.Add(errors.InvalidArguments(calleeName(e.Callee), len(fnType.Params), len(e.Args), e.Pos))
	}

	retCType := fnType.Return
	retIR := f.Mod.Types.Lower(retCType)
	var res *ir.Value
	if retIR != nil && retIR.Kind != ir.KindVoid {
		res = ir.VarValue(f.B.NewLocal(), retIR)
	}
	f.B.Emit(&ir.CallInst{Inst: ir.NextInstID(), Res: res, Callee: calleeVal, Args: args})
	return Result{CType: retCType, RVal: res}
}

// typeDisplayName renders a CType for a diagnostic message: a struct/union's
// tag where it has one, otherwise the lowered IR type's own rendering.
func typeDisplayName(f *Func, ct *ast.CType) string {
	if ct == nil {
		return "<unknown>"
	}
	if (ct.Kind == ast.TypeStructOrUnion || ct.Kind == ast.TypeEnum) && ct.Tag != "" {
		return ct.Tag
	}
	return f.Mod.Types.Lower(ct).String()
}

func calleeName(e ast.Expr) string {
	if id, ok := e.(*ast.IdentExpr); ok {
		return id.Name
	}
	return "<expr>"
}

func lowerMember(f *Func, e *ast.MemberExpr) Result {
	target := LowerExpr(f, e.Target)
	base := target
	structCType := target.CType
	if e.Arrow {
		// a->b lowers as (*a).b (spec §4.5).
		ptrVal := GetRValue(f, target)
		structCType = target.CType.Elem
		base = Result{CType: structCType, Addr: ptrVal}
	}
	if !base.IsLValue() {
		f.Mod.Sink.Add(errors.NotAnLvalue(".", e.Pos))
		return Result{CType: intType(ast.RankInt, false), RVal: ir.IntConst(f.Mod.Arch.Int, 0)}
	}

	irStruct := f.Mod.Types.Lower(structCType)
	idx := irStruct.FieldIndex(e.Field)
	if idx < 0 {
		fieldNames := make([]string, len(structCType.Fields))
		for i, field := range structCType.Fields {
			fieldNames[i] = field.Name
		}
		similar := errors.SimilarNames(e.Field, fieldNames)
		f.Mod.Sink.Add(errors.FieldNotFound(e.Field, structCType.Tag, e.Pos, similar))
		return Result{CType: intType(ast.RankInt, false), RVal: ir.IntConst(f.Mod.Arch.Int, 0)}
	}
	fieldCType := fieldCTypeByName(structCType, e.Field)
	fieldIR := irStruct.Fields[idx].Type

	res := ir.VarValue(f.B.NewLocal(), ir.PointerTo(fieldIR))
	f.B.Emit(&ir.GetStructMemberPtrInst{Inst: ir.NextInstID(), Res: res, Base: base.Addr, FieldIndex: idx, FieldName: e.Field})
	return Result{CType: fieldCType, Addr: res}
}

func fieldCTypeByName(structCType *ast.CType, name string) *ast.CType {
	for _, field := range structCType.Fields {
		if field.Name == name {
			return field.Type
		}
	}
	return nil
}

func lowerIndex(f *Func, e *ast.IndexExpr) Result {
	target := LowerExpr(f, e.Target)
	idxR := LowerExpr(f, e.Index)
	idxVal := GetRValue(f, idxR)

	baseVal := GetRValue(f, target)
	elemCType := target.CType.Elem
	elemIR := f.Mod.Types.Lower(elemCType)
	res := ir.VarValue(f.B.NewLocal(), ir.PointerTo(elemIR))
	f.B.Emit(&ir.GetArrayElementPtrInst{Inst: ir.NextInstID(), Res: res, Base: baseVal, Index: idxVal, ElemType: elemIR})
	return Result{CType: elemCType, Addr: res}
}

// isCastable reports whether a cast may target/from this type: only a
// scalar type, or void (the target of a cast-to-void used to discard a
// value), may appear on either side of an explicit cast (C99 6.5.4p2).
func isCastable(ct *ast.CType) bool {
	return ct != nil && (ct.Kind == ast.TypeVoid || ct.IsScalar())
}

func lowerCast(f *Func, e *ast.CastExpr) Result {
	operand := LowerExpr(f, e.Operand)
	if !isCastable(operand.CType) || !isCastable(e.Type) {
		f.Mod.Sink.Add(errors.InvalidCast(typeDisplayName(f, operand.CType), typeDisplayName(f, e.Type), e.Pos))
		return Result{CType: e.Type, RVal: ir.IntConst(f.Mod.Arch.Int, 0)}
	}
	fromIR := f.Mod.Types.Lower(operand.CType)
	toIR := f.Mod.Types.Lower(e.Type)
	val := types.Convert(f.B, GetRValue(f, operand), fromIR, toIR, f.Mod.Arch)
	return Result{CType: e.Type, RVal: val}
}

func lowerSizeof(f *Func, e *ast.SizeofExpr) Result {
	var ct *ast.CType
	if e.Type != nil {
		ct = e.Type
	} else {
		ct = typeOfExpr(f, e.Operand)
	}
	size := sizeOfIRType(f, f.Mod.Types.Lower(ct))
	st := sizeType()
	return Result{CType: st, RVal: ir.IntConst(f.Mod.Types.Lower(st), uint64(size))}
}

// typeOfExpr determines an expression's CType without lowering it for real:
// `sizeof`'s operand is not evaluated (C99 6.5.3.4p2), so `sizeof(x++)` must
// not emit the increment and `sizeof(f())` must not emit the call. It runs
// the expression through a scratch Func sharing the enclosing function's
// ModuleBuilder (which keeps no function-specific state) and discards the
// scratch instruction stream entirely.
func typeOfExpr(f *Func, e ast.Expr) *ast.CType {
	scratch := &Func{Mod: f.Mod, B: f.Mod.MB.NewFunctionBuilder(), Name: f.Name, ReturnType: f.ReturnType, Labels: f.Labels}
	return LowerExpr(scratch, e).CType
}

func sizeOfIRType(f *Func, t *ir.Type) int {
	switch t.Kind {
	case ir.KindStruct:
		return t.Size
	case ir.KindArray:
		return t.Length * sizeOfIRType(f, t.Elem)
	default:
		return f.Mod.Arch.SizeOf(t)
	}
}

// lowerComma lowers the left operand for its side effects and discards its
// value, then materializes the right operand's value under a fresh name so
// it has a stable identity independent of whatever block produced it (spec
// §4.5).
func lowerComma(f *Func, e *ast.CommaExpr) Result {
	LowerExpr(f, e.Left)
	right := LowerExpr(f, e.Right)
	rightIR := f.Mod.Types.Lower(right.CType)
	if rightIR == nil || rightIR.Kind == ir.KindVoid {
		return right
	}
	val := GetRValue(f, right)
	res := ir.VarValue(f.B.NewLocal(), rightIR)
	f.B.Emit(&ir.AssignInst{Inst: ir.NextInstID(), Res: res, Val: val})
	return Result{CType: right.CType, RVal: res}
}
