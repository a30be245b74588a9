package ir

import "fmt"

// InvariantViolation is raised by Validate when the IR a caller handed it
// breaks one of the structural invariants lowering is supposed to
// guarantee by construction (spec §4.10, §8). It is not a user-facing
// diagnostic: seeing one means the lowering/CFG code above this package has
// a bug, so Validate panics with it rather than returning an error value.
type InvariantViolation struct {
	Msg string
}

func (e *InvariantViolation) Error() string { return e.Msg }

func fail(format string, args ...any) {
	panic(&InvariantViolation{Msg: fmt.Sprintf(format, args...)})
}

// Validate walks every defined function in m and checks the structural
// invariants spec §8 lists: one terminator per block, every branch target
// resolved, every operand naming something actually defined, and every
// alloca sitting in the entry block ahead of any non-alloca instruction.
// It panics on the first violation found.
func Validate(m *Module) {
	moduleNames := make(map[string]bool, len(m.Globals)+len(m.Functions))
	for _, g := range m.Globals {
		moduleNames[g.Name] = true
	}
	for _, fn := range m.Functions {
		moduleNames[fn.Name] = true
	}

	for _, fn := range m.Functions {
		if !fn.Defined {
			continue
		}
		validateFunction(fn, moduleNames)
	}
}

func validateFunction(fn *Function, moduleNames map[string]bool) {
	if len(fn.Blocks) == 0 {
		fail("function %q: defined function has no blocks", fn.Name)
	}
	if fn.Entry != fn.Blocks[0] {
		fail("function %q: Entry does not match the first block", fn.Name)
	}

	labels := make(map[string]*BasicBlock, len(fn.Blocks))
	for _, b := range fn.Blocks {
		if labels[b.Label] != nil {
			fail("function %q: duplicate block label %q", fn.Name, b.Label)
		}
		labels[b.Label] = b
	}

	defined := make(map[string]bool)
	for name := range moduleNames {
		defined[name] = true
	}
	for _, p := range fn.Params {
		defined[p.Name] = true
	}

	for i, b := range fn.Blocks {
		if b.Term == nil {
			fail("function %q: block %q has no terminator", fn.Name, b.Label)
		}
		validateAllocaPrefix(fn, i, b)
		for _, inst := range b.Instructions {
			if _, isTerm := inst.(Terminator); isTerm {
				fail("function %q: terminator %s found mid-block in %q", fn.Name, inst, b.Label)
			}
			if r := inst.Result(); r != nil && !r.IsConst {
				defined[r.Name] = true
			}
		}
		if r := b.Term.Result(); r != nil && !r.IsConst {
			defined[r.Name] = true
		}
	}

	for _, b := range fn.Blocks {
		for _, lbl := range b.Term.SuccessorLabels() {
			if labels[lbl] == nil {
				fail("function %q: block %q branches to undefined label %q", fn.Name, b.Label, lbl)
			}
		}
		for _, inst := range b.Instructions {
			validateOperands(fn, b, inst, defined)
		}
		validateOperands(fn, b, b.Term, defined)
	}
}

// validateAllocaPrefix enforces invariant 4 (spec §8): every alloca
// precedes every non-alloca instruction, and (since EmitAlloca always
// inserts at the function's entry) allocas only ever appear in the entry
// block.
func validateAllocaPrefix(fn *Function, index int, b *BasicBlock) {
	seenNonAlloca := false
	for _, inst := range b.Instructions {
		_, isAlloca := inst.(*AllocaInst)
		if isAlloca {
			if index != 0 {
				fail("function %q: alloca outside the entry block (%q)", fn.Name, b.Label)
			}
			if seenNonAlloca {
				fail("function %q: alloca follows a non-alloca instruction in %q", fn.Name, b.Label)
			}
		} else {
			seenNonAlloca = true
		}
	}
}

// validateOperands confirms every non-constant operand of inst names
// something already defined: a parameter, a global, or the result of some
// instruction already walked by validateFunction's first pass.
func validateOperands(fn *Function, b *BasicBlock, inst Instruction, defined map[string]bool) {
	for _, v := range inst.Operands() {
		if v == nil || v.IsConst {
			continue
		}
		if !defined[v.Name] {
			fail("function %q, block %q: %s uses undefined value %%%s", fn.Name, b.Label, inst, v.Name)
		}
	}
}
