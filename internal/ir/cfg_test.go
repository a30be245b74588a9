package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildStraightLineFunc lowers `int f() { return 1; }` by hand, without
// going through internal/lower, to exercise Builder/BuildCFG/Validate in
// isolation.
func buildStraightLineFunc(name string) *Function {
	mb := NewModuleBuilder()
	b := mb.NewFunctionBuilder()
	b.Emit(&RetInst{Inst: NextInstID(), Val: IntConst(&Type{Kind: KindI32}, 1)})

	fn := &Function{Name: name, Type: &Type{Kind: KindFunction, Return: &Type{Kind: KindI32}}}
	FinalizeFunction(fn, b.Finalize(), IntConst(&Type{Kind: KindI32}, 0))
	return fn
}

func TestBuildCFGSingleBlock(t *testing.T) {
	fn := buildStraightLineFunc("f")
	require.Len(t, fn.Blocks, 1)
	assert.Equal(t, fn.Entry, fn.Blocks[0])
	assert.IsType(t, &RetInst{}, fn.Blocks[0].Term)
}

// buildIfFunc lowers `int f(int c) { if (c) return 1; return 0; }` by hand:
// a conditional branch to two blocks that both join by returning, the
// then-block's own terminator making the implicit-return insertion only
// apply to the fallthrough path.
func buildIfFunc() *Function {
	mb := NewModuleBuilder()
	b := mb.NewFunctionBuilder()

	i32 := &Type{Kind: KindI32}
	cParam := VarValue("arg.c", i32)
	slot := VarValue(b.NewLocal()+".addr", PointerTo(i32))
	b.EmitAlloca(&AllocaInst{Inst: NextInstID(), Res: slot, AllocType: i32})
	b.Emit(&StoreInst{Inst: NextInstID(), Addr: slot, Val: cParam})

	loaded := VarValue(b.NewLocal(), i32)
	b.Emit(&LoadInst{Inst: NextInstID(), Res: loaded, Addr: slot})

	thenLabel := b.NewLabel()
	joinLabel := b.NewLabel()
	b.Emit(&BrCondInst{Inst: NextInstID(), Cond: loaded, TrueLabel: thenLabel, FalseLabel: joinLabel})

	b.Emit(&NopInst{Inst: NextInstID(), Label: thenLabel})
	b.Emit(&RetInst{Inst: NextInstID(), Val: IntConst(i32, 1)})

	b.Emit(&NopInst{Inst: NextInstID(), Label: joinLabel})
	// falls off the end here without its own return

	fn := &Function{Name: "f", Type: &Type{Kind: KindFunction, Return: i32}, Params: []*Value{cParam}}
	FinalizeFunction(fn, b.Finalize(), IntConst(i32, 0))
	return fn
}

func TestBuildCFGInsertsImplicitReturnOnFallthroughOnly(t *testing.T) {
	fn := buildIfFunc()
	require.Len(t, fn.Blocks, 3)

	entry, thenBlk, joinBlk := fn.Blocks[0], fn.Blocks[1], fn.Blocks[2]
	assert.IsType(t, &BrCondInst{}, entry.Term)

	thenRet, ok := thenBlk.Term.(*RetInst)
	require.True(t, ok)
	assert.EqualValues(t, 1, thenRet.Val.Const.Int)

	joinRet, ok := joinBlk.Term.(*RetInst)
	require.True(t, ok, "fallthrough block must get a synthesized return")
	assert.EqualValues(t, 0, joinRet.Val.Const.Int)
}

func TestValidatePanicsOnMissingTerminator(t *testing.T) {
	mb := NewModuleBuilder()
	b := mb.NewFunctionBuilder()
	i32 := &Type{Kind: KindI32}
	b.Emit(&RetInst{Inst: NextInstID(), Val: IntConst(i32, 0)})

	fn := &Function{Name: "f", Type: &Type{Kind: KindFunction, Return: i32}}
	// Bypass FinalizeFunction's own implicit-return insertion by calling
	// BuildCFG with a nil zeroRet so the (already-terminated) block is left
	// alone, then manually drop the terminator to simulate a malformed CFG.
	fn.Blocks, _ = BuildCFG(b.Finalize(), nil)
	fn.Blocks[0].Term = nil
	fn.Entry = fn.Blocks[0]
	fn.Instructions = Linearize(fn.Blocks)

	mod := &Module{Functions: []*Function{{Name: "f", Type: fn.Type, Defined: true, Entry: fn.Entry, Blocks: fn.Blocks}}}
	assert.Panics(t, func() { Validate(mod) })
}

// buildUnreachableAfterReturnFunc lowers a function whose body contains a
// label no branch ever targets, following an unconditional return: the
// block that label opens is unreachable from entry and must be pruned.
func buildUnreachableAfterReturnFunc() *Function {
	mb := NewModuleBuilder()
	b := mb.NewFunctionBuilder()
	i32 := &Type{Kind: KindI32}

	b.Emit(&RetInst{Inst: NextInstID(), Val: IntConst(i32, 1)})
	b.Emit(&NopInst{Inst: NextInstID(), Label: "dead"})
	b.Emit(&RetInst{Inst: NextInstID(), Val: IntConst(i32, 2)})

	fn := &Function{Name: "f", Type: &Type{Kind: KindFunction, Return: i32}}
	FinalizeFunction(fn, b.Finalize(), IntConst(i32, 0))
	return fn
}

func TestBuildCFGPrunesBlocksUnreachableFromEntry(t *testing.T) {
	fn := buildUnreachableAfterReturnFunc()
	require.Len(t, fn.Blocks, 1, "the dead label's block is never branched to and must be dropped")
	assert.Equal(t, "entry", fn.Blocks[0].Label)
}

func TestSortGlobalsOrdersByDependency(t *testing.T) {
	i32 := &Type{Kind: KindI32}
	b := &Global{Name: "b", Type: i32, Initializer: &Const{Kind: ConstGlobalAddr, Type: PointerTo(i32), Name: "a"}}
	a := &Global{Name: "a", Type: i32, Initializer: &Const{Kind: ConstInt, Type: i32, Int: 1}}

	sorted := SortGlobals([]*Global{b, a})
	require.Len(t, sorted, 2)
	assert.Equal(t, "a", sorted[0].Name)
	assert.Equal(t, "b", sorted[1].Name)
}
