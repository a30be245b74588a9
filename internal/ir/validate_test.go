package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// buildValidFunc lowers `int f() { return 0; }` by hand and runs it through
// the normal Builder/BuildCFG/FinalizeFunction pipeline, so Validate has
// something well-formed to accept.
func buildValidFunc(name string) *Function {
	mb := NewModuleBuilder()
	b := mb.NewFunctionBuilder()
	i32 := &Type{Kind: KindI32}
	b.Emit(&RetInst{Inst: NextInstID(), Val: IntConst(i32, 0)})

	fn := &Function{Name: name, Type: &Type{Kind: KindFunction, Return: i32}, Defined: true}
	FinalizeFunction(fn, b.Finalize(), IntConst(i32, 0))
	return fn
}

func TestValidateAcceptsWellFormedFunction(t *testing.T) {
	fn := buildValidFunc("f")
	mod := &Module{Functions: []*Function{fn}}
	assert.NotPanics(t, func() { Validate(mod) })
}

func TestValidateIgnoresUndefinedDeclarations(t *testing.T) {
	decl := &Function{Name: "g", Type: &Type{Kind: KindFunction, Return: &Type{Kind: KindI32}}, Defined: false}
	mod := &Module{Functions: []*Function{decl}}
	assert.NotPanics(t, func() { Validate(mod) })
}

func TestValidatePanicsOnDuplicateBlockLabel(t *testing.T) {
	i32 := &Type{Kind: KindI32}
	blk := &BasicBlock{Label: "entry", Term: &RetInst{Inst: NextInstID(), Val: IntConst(i32, 0)}}
	fn := &Function{
		Name:   "f",
		Type:   &Type{Kind: KindFunction, Return: i32},
		Entry:  blk,
		Blocks: []*BasicBlock{blk, blk},
	}
	mod := &Module{Functions: []*Function{{Name: "f", Type: fn.Type, Defined: true, Entry: fn.Entry, Blocks: fn.Blocks}}}
	assert.Panics(t, func() { Validate(mod) })
}

func TestValidatePanicsOnBranchToUndefinedLabel(t *testing.T) {
	i32 := &Type{Kind: KindI32}
	blk := &BasicBlock{Label: "entry", Term: &BrInst{Inst: NextInstID(), Target: "nowhere"}}
	mod := &Module{Functions: []*Function{{
		Name: "f", Type: &Type{Kind: KindFunction, Return: i32}, Defined: true,
		Entry: blk, Blocks: []*BasicBlock{blk},
	}}}
	assert.Panics(t, func() { Validate(mod) })
}

func TestValidatePanicsOnUndefinedOperand(t *testing.T) {
	i32 := &Type{Kind: KindI32}
	blk := &BasicBlock{
		Label:        "entry",
		Instructions: []Instruction{&LoadInst{Inst: NextInstID(), Res: VarValue("t1", i32), Addr: VarValue("ghost", PointerTo(i32))}},
		Term:         &RetInst{Inst: NextInstID(), Val: VarValue("t1", i32)},
	}
	mod := &Module{Functions: []*Function{{
		Name: "f", Type: &Type{Kind: KindFunction, Return: i32}, Defined: true,
		Entry: blk, Blocks: []*BasicBlock{blk},
	}}}
	assert.Panics(t, func() { Validate(mod) })
}

func TestValidatePanicsOnAllocaAfterNonAlloca(t *testing.T) {
	i32 := &Type{Kind: KindI32}
	blk := &BasicBlock{
		Label: "entry",
		Instructions: []Instruction{
			&LoadInst{Inst: NextInstID(), Res: VarValue("t1", i32), Addr: VarValue("g", PointerTo(i32))},
			&AllocaInst{Inst: NextInstID(), Res: VarValue("t2.addr", PointerTo(i32)), AllocType: i32},
		},
		Term: &RetInst{Inst: NextInstID(), Val: VarValue("t1", i32)},
	}
	mod := &Module{Globals: []*Global{{Name: "g", Type: i32}}, Functions: []*Function{{
		Name: "f", Type: &Type{Kind: KindFunction, Return: i32}, Defined: true,
		Entry: blk, Blocks: []*BasicBlock{blk},
	}}}
	assert.Panics(t, func() { Validate(mod) })
}

func TestValidatePanicsOnAllocaOutsideEntryBlock(t *testing.T) {
	i32 := &Type{Kind: KindI32}
	second := &BasicBlock{
		Label:        "second",
		Instructions: []Instruction{&AllocaInst{Inst: NextInstID(), Res: VarValue("t1.addr", PointerTo(i32)), AllocType: i32}},
		Term:         &RetInst{Inst: NextInstID(), Val: IntConst(i32, 0)},
	}
	entry := &BasicBlock{Label: "entry", Term: &BrInst{Inst: NextInstID(), Target: "second"}, Succs: []*BasicBlock{second}}
	mod := &Module{Functions: []*Function{{
		Name: "f", Type: &Type{Kind: KindFunction, Return: i32}, Defined: true,
		Entry: entry, Blocks: []*BasicBlock{entry, second},
	}}}
	assert.Panics(t, func() { Validate(mod) })
}
