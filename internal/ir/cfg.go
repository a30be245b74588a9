package ir

import "fmt"

// BuildCFG partitions a function's flat, pre-CFG instruction stream (as
// produced by Builder.Finalize) into basic blocks, wires predecessor and
// successor edges, prunes blocks unreachable from entry, and appends an
// implicit return to every surviving block that falls off the end without
// one (spec §4.9). zeroRet is the return value an implicit `ret` should
// carry (nil for a void-returning function); callers derive it from the
// function's declared return type and the target's zero-value convention
// before calling BuildCFG.
//
// The returned blocks are in discovery order, with blocks[0] always the
// entry block. Labels consumed here are NopInst markers emitted by
// statement lowering wherever a branch target is needed. The second result
// reports whether any reachable block fell off the end without a
// terminator and had an implicit return synthesized for it — the caller
// uses this to diagnose a non-void function whose body can fall through.
func BuildCFG(raw []Instruction, zeroRet *Value) (blocks []*BasicBlock, implicitReturn bool) {
	blocks, labelOf := partition(raw)
	linkEdges(blocks, labelOf)
	blocks = pruneUnreachable(blocks)
	implicitReturn = closeOpenBlocks(blocks, zeroRet)
	return blocks, implicitReturn
}

// partition walks the flat stream and splits it at label markers and
// terminators. A NopInst always starts a new block; a terminator always
// closes the current one. Falling into a label without having reached a
// terminator first synthesizes an unconditional branch, since control
// really does fall through to that point.
func partition(raw []Instruction) ([]*BasicBlock, map[string]*BasicBlock) {
	var blocks []*BasicBlock
	labelOf := make(map[string]*BasicBlock)
	var cur *BasicBlock
	synthetic := 0

	newBlock := func(label string) *BasicBlock {
		blk := &BasicBlock{Label: label}
		blocks = append(blocks, blk)
		labelOf[label] = blk
		return blk
	}

	openBlock := func() *BasicBlock {
		if cur == nil {
			name := "entry"
			if len(blocks) > 0 {
				synthetic++
				name = fmt.Sprintf("unreachable.%d", synthetic)
			}
			cur = newBlock(name)
		}
		return cur
	}

	for _, inst := range raw {
		if lbl, ok := inst.(*NopInst); ok {
			if cur != nil && cur.Term == nil {
				cur.Term = &BrInst{Inst: nextID(), Target: lbl.Label}
			}
			cur = newBlock(lbl.Label)
			continue
		}
		if term, ok := inst.(Terminator); ok {
			openBlock().Term = term
			cur = nil
			continue
		}
		openBlock().Append(inst)
	}

	return blocks, labelOf
}

// linkEdges resolves every terminator's label targets into block
// predecessor/successor pointers. A target naming an undefined label is
// left unresolved here; Validate (spec §4.10) rejects it later by panicking
// with an InvariantViolation, so the CFG builder itself does not panic on it.
func linkEdges(blocks []*BasicBlock, labelOf map[string]*BasicBlock) {
	for _, b := range blocks {
		if b.Term == nil {
			continue
		}
		for _, lbl := range b.Term.SuccessorLabels() {
			target, ok := labelOf[lbl]
			if !ok {
				continue
			}
			b.Succs = append(b.Succs, target)
			target.Preds = append(target.Preds, b)
		}
	}
}

// pruneUnreachable drops every block not reachable from blocks[0] (the
// entry block), per spec §4.9, and removes dangling predecessor references
// to pruned blocks from the blocks that remain.
func pruneUnreachable(blocks []*BasicBlock) []*BasicBlock {
	if len(blocks) == 0 {
		return blocks
	}
	entry := blocks[0]
	reachable := map[*BasicBlock]bool{entry: true}
	queue := []*BasicBlock{entry}
	for len(queue) > 0 {
		b := queue[0]
		queue = queue[1:]
		for _, s := range b.Succs {
			if !reachable[s] {
				reachable[s] = true
				queue = append(queue, s)
			}
		}
	}

	var kept []*BasicBlock
	for _, b := range blocks {
		if reachable[b] {
			kept = append(kept, b)
		}
	}
	for _, b := range kept {
		var preds []*BasicBlock
		for _, p := range b.Preds {
			if reachable[p] {
				preds = append(preds, p)
			}
		}
		b.Preds = preds
	}
	return kept
}

// closeOpenBlocks appends an implicit return to every reachable block that
// fell off the end of the function without a terminator (spec §4.9: "for
// every terminal block that does not end in a return, append ret 0 / ret
// void").
func closeOpenBlocks(blocks []*BasicBlock, zeroRet *Value) (synthesized bool) {
	for _, b := range blocks {
		if b.Term != nil {
			continue
		}
		b.Term = &RetInst{Inst: nextID(), Val: zeroRet}
		synthesized = true
	}
	return synthesized
}

// Linearize flattens a function's basic blocks back into a single
// instruction slice, re-inserting a label marker at the head of every block
// so the printed form still shows branch targets by name (spec §4.9).
func Linearize(blocks []*BasicBlock) []Instruction {
	var out []Instruction
	for _, b := range blocks {
		out = append(out, &NopInst{Inst: nextID(), Label: b.Label})
		out = append(out, b.Instructions...)
		out = append(out, b.Term)
	}
	return out
}

// FinalizeFunction runs BuildCFG and Linearize over fn's raw instruction
// stream and installs the result (spec §4.9, §4.11 per-function
// orchestration's final step). The returned bool reports whether an
// implicit return was synthesized to close a fallen-through block.
func FinalizeFunction(fn *Function, raw []Instruction, zeroRet *Value) bool {
	blocks, implicitReturn := BuildCFG(raw, zeroRet)
	fn.Blocks = blocks
	if len(blocks) > 0 {
		fn.Entry = blocks[0]
	}
	fn.Instructions = Linearize(blocks)
	return implicitReturn
}

// SortGlobals topologically orders a module's globals so that any global
// referenced by another global's constant initializer (via
// ConstGlobalAddr) is emitted first (spec §4.9 "topological sort of
// globals by constant-initializer reference order"). A global that is
// already on the current visit path is skipped when reached again, so a
// reference cycle is broken at that point instead of looping forever; the
// globals in a cycle then come out in depth-first post-order.
func SortGlobals(globals []*Global) []*Global {
	byName := make(map[string]*Global, len(globals))
	for _, g := range globals {
		byName[g.Name] = g
	}

	var order []*Global
	visited := make(map[string]bool)
	visiting := make(map[string]bool)

	var visit func(g *Global)
	visit = func(g *Global) {
		if visited[g.Name] || visiting[g.Name] {
			return
		}
		visiting[g.Name] = true
		for _, ref := range referencedGlobals(g.Initializer) {
			if dep, ok := byName[ref]; ok {
				visit(dep)
			}
		}
		visiting[g.Name] = false
		visited[g.Name] = true
		order = append(order, g)
	}

	for _, g := range globals {
		visit(g)
	}
	return order
}

// referencedGlobals collects the names of every other global a constant
// initializer addresses, recursing through array/struct aggregates.
func referencedGlobals(c *Const) []string {
	if c == nil {
		return nil
	}
	switch c.Kind {
	case ConstGlobalAddr, ConstString:
		return []string{c.Name}
	case ConstArray, ConstStruct:
		var names []string
		for _, e := range c.Elems {
			names = append(names, referencedGlobals(e)...)
		}
		return names
	default:
		return nil
	}
}
