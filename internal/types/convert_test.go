package types

import (
	"testing"

	"c99core/internal/ir"
	"c99core/internal/target"

	"github.com/stretchr/testify/assert"
)

func TestIntegerPromoteWidensSubIntRanks(t *testing.T) {
	arch := target.NewLP64()
	assert.Same(t, arch.Int, IntegerPromote(arch.Char, arch))
	assert.Same(t, arch.Int, IntegerPromote(arch.UChar, arch))
	assert.Same(t, arch.Int, IntegerPromote(arch.Short, arch))
	assert.Same(t, arch.Int, IntegerPromote(arch.Bool, arch))
	assert.Same(t, arch.Long, IntegerPromote(arch.Long, arch))
}

// TestUsualArithmeticConversionsMatrix exercises C99 6.3.1.8's conversion
// ranking: float dominates, same-signedness picks the wider rank, and
// differing signedness follows the unsigned-rank-dominates-or-widen-to-
// unsigned rule.
func TestUsualArithmeticConversionsMatrix(t *testing.T) {
	arch := target.NewLP64()

	cases := []struct {
		name string
		a, b *ir.Type
		want *ir.Type
	}{
		{"int+int", arch.Int, arch.Int, arch.Int},
		{"int+long", arch.Int, arch.Long, arch.Long},
		{"long+int", arch.Long, arch.Int, arch.Long},
		{"int+double", arch.Int, arch.Double, arch.Double},
		{"float+double", arch.Float, arch.Double, arch.Double},
		{"char+short promotes both to int", arch.Char, arch.Short, arch.Int},
		{"uint+int same rank picks unsigned", arch.UInt, arch.Int, arch.UInt},
		{"long+ulong same rank unsigned wins when equal", arch.Long, arch.ULong, arch.ULong},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := UsualArithmeticConversions(c.a, c.b, arch)
			assert.True(t, got.Equal(c.want), "%s: got %s, want %s", c.name, got, c.want)
		})
	}
}

// TestUsualArithmeticConversionsSignedWinsWhenItCanRepresentUnsigned
// models unsigned int + long on lp64: the unsigned operand has the lower
// rank, and the wider signed type can represent every value of it.
func TestUsualArithmeticConversionsSignedWinsWhenItCanRepresentUnsigned(t *testing.T) {
	arch := target.NewLP64()
	got := UsualArithmeticConversions(arch.UInt, arch.Long, arch)
	assert.True(t, got.Equal(arch.Long), "long can represent every uint value on lp64, so signed long must win")
}

func TestConvertFoldsConstantIntToIntTruncation(t *testing.T) {
	arch := target.NewLP64()
	b := ir.NewModuleBuilder().NewFunctionBuilder()
	v := ir.IntConst(arch.Int, 0x1FF)
	out := Convert(b, v, arch.Int, arch.Char, arch)
	assert.True(t, out.IsConst)
	assert.EqualValues(t, 0xFF, out.Const.Int&0xFF)
	assert.Empty(t, b.Finalize(), "folding a constant conversion must not emit an instruction")
}

func TestConvertEmitsInstructionForNonConstant(t *testing.T) {
	arch := target.NewLP64()
	b := ir.NewModuleBuilder().NewFunctionBuilder()
	v := ir.VarValue("t1", arch.Int)
	out := Convert(b, v, arch.Int, arch.Long, arch)
	assert.False(t, out.IsConst)
	require := b.Finalize()
	assert.Len(t, require, 1)
	assert.IsType(t, &ir.ConvertInst{}, require[0])
}

func TestConvertIsNoopWhenTypesAlreadyEqual(t *testing.T) {
	arch := target.NewLP64()
	b := ir.NewModuleBuilder().NewFunctionBuilder()
	v := ir.VarValue("t1", arch.Int)
	out := Convert(b, v, arch.Int, arch.Int, arch)
	assert.Same(t, v, out)
	assert.Empty(t, b.Finalize())
}

func TestConvertFloatToIntTruncatesTowardZero(t *testing.T) {
	arch := target.NewLP64()
	b := ir.NewModuleBuilder().NewFunctionBuilder()
	v := ir.FloatConst(arch.Double, 3.9)
	out := Convert(b, v, arch.Double, arch.Int, arch)
	assert.True(t, out.IsConst)
	assert.EqualValues(t, 3, out.Const.Int)
}
