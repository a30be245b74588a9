package types

import (
	"c99core/internal/ir"
	"c99core/internal/target"
)

// IntegerPromote applies C99 6.3.1.1's integer promotions: i1/i8/i16
// operands are widened to int (the only ranks ever promoted); int and
// above pass through unchanged.
func IntegerPromote(t *ir.Type, arch *target.Arch) *ir.Type {
	switch t.Kind {
	case ir.KindI1, ir.KindI8, ir.KindI16:
		return arch.Int
	default:
		return t
	}
}

// UsualArithmeticConversions computes the common type two arithmetic
// operands are converted to before a binary operator applies to them
// (C99 6.3.1.8).
func UsualArithmeticConversions(a, b *ir.Type, arch *target.Arch) *ir.Type {
	if a.IsFloat() || b.IsFloat() {
		return widerFloat(a, b)
	}

	a = IntegerPromote(a, arch)
	b = IntegerPromote(b, arch)
	if a.Equal(b) {
		return a
	}

	aRank, bRank := intRank(a), intRank(b)
	if a.Unsigned == b.Unsigned {
		if aRank >= bRank {
			return a
		}
		return b
	}

	var unsigned, signed *ir.Type
	var unsignedRank, signedRank int
	if a.Unsigned {
		unsigned, signed, unsignedRank, signedRank = a, b, aRank, bRank
	} else {
		unsigned, signed, unsignedRank, signedRank = b, a, bRank, aRank
	}
	if unsignedRank >= signedRank {
		return unsigned
	}
	if arch.SizeOf(signed) > arch.SizeOf(unsigned) {
		return signed
	}
	return &ir.Type{Kind: signed.Kind, Unsigned: true}
}

func widerFloat(a, b *ir.Type) *ir.Type {
	rank := func(t *ir.Type) int {
		switch t.Kind {
		case ir.KindF32:
			return 0
		case ir.KindF64:
			return 1
		default:
			return 2
		}
	}
	if !a.IsFloat() {
		return b
	}
	if !b.IsFloat() {
		return a
	}
	if rank(a) >= rank(b) {
		return a
	}
	return b
}

func intRank(t *ir.Type) int {
	switch t.Kind {
	case ir.KindI1:
		return 0
	case ir.KindI8:
		return 1
	case ir.KindI16:
		return 2
	case ir.KindI32:
		return 3
	case ir.KindI64:
		return 4
	default:
		return 5
	}
}

// Convert emits whatever instruction (if any) is needed to produce a value
// of type `to` from a value of type `from` (spec §4.2 convert), folding
// over constants instead of emitting when val is itself constant.
func Convert(b *ir.Builder, val *ir.Value, from, to *ir.Type, arch *target.Arch) *ir.Value {
	if from.Equal(to) {
		return val
	}
	if val.IsConst {
		if folded, ok := foldConvert(val.Const, from, to); ok {
			return ir.ConstValue(folded)
		}
	}

	op, signed := convOp(from, to, arch)
	res := ir.VarValue(b.NewLocal(), to)
	b.Emit(&ir.ConvertInst{Inst: ir.NextInstID(), Op: op, Res: res, Val: val, Signed: signed})
	return res
}

func convOp(from, to *ir.Type, arch *target.Arch) (ir.ConvOp, bool) {
	switch {
	case from.Kind == ir.KindPtr && to.Kind == ir.KindPtr:
		return ir.OpBitcast, false
	case from.Kind == ir.KindPtr:
		return ir.OpPtoI, false
	case to.Kind == ir.KindPtr:
		return ir.OpItoP, false
	case from.IsFloat() && to.IsFloat():
		if arch.SizeOf(to) < arch.SizeOf(from) {
			return ir.OpTrunc, false
		}
		return ir.OpExt, false
	case from.IsFloat() && to.IsInteger():
		return ir.OpFtoI, !to.Unsigned
	case from.IsInteger() && to.IsFloat():
		return ir.OpItoF, !from.Unsigned
	default: // integer to integer
		if arch.SizeOf(to) < arch.SizeOf(from) {
			return ir.OpTrunc, false
		}
		if arch.SizeOf(to) > arch.SizeOf(from) {
			return ir.OpExt, !from.Unsigned
		}
		return ir.OpBitcast, false
	}
}

// foldConvert folds a compile-time constant conversion, used when an
// initializer or constant expression crosses a type boundary (spec §4.6).
func foldConvert(c *ir.Const, from, to *ir.Type) (*ir.Const, bool) {
	switch {
	case from.IsInteger() && to.IsInteger():
		return &ir.Const{Kind: ir.ConstInt, Type: to, Int: maskToWidth(c.Int, to)}, true
	case from.IsInteger() && to.IsFloat():
		var f float64
		if from.Unsigned {
			f = float64(c.Int)
		} else {
			f = float64(int64(c.Int))
		}
		return &ir.Const{Kind: ir.ConstFloat, Type: to, Float: f}, true
	case from.IsFloat() && to.IsInteger():
		if to.Unsigned {
			return &ir.Const{Kind: ir.ConstInt, Type: to, Int: uint64(c.Float)}, true
		}
		return &ir.Const{Kind: ir.ConstInt, Type: to, Int: uint64(int64(c.Float))}, true
	case from.IsFloat() && to.IsFloat():
		if to.Kind == ir.KindF32 {
			return &ir.Const{Kind: ir.ConstFloat, Type: to, Float: float64(float32(c.Float))}, true
		}
		return &ir.Const{Kind: ir.ConstFloat, Type: to, Float: c.Float}, true
	case from.Kind == ir.KindPtr && to.IsInteger():
		return &ir.Const{Kind: ir.ConstInt, Type: to, Int: c.Int}, true
	case from.IsInteger() && to.Kind == ir.KindPtr:
		return &ir.Const{Kind: ir.ConstPointer, Type: to, Int: c.Int}, true
	default:
		return nil, false
	}
}

func maskToWidth(v uint64, to *ir.Type) uint64 {
	var bits uint
	switch to.Kind {
	case ir.KindI1:
		bits = 1
	case ir.KindI8:
		bits = 8
	case ir.KindI16:
		bits = 16
	case ir.KindI32:
		bits = 32
	default:
		return v
	}
	mask := uint64(1)<<bits - 1
	v &= mask
	if !to.Unsigned && v&(1<<(bits-1)) != 0 {
		v |= ^mask
	}
	return v
}
