package ir

import "fmt"

// instNode is one link in the builder's doubly-linked instruction stream
// (spec §4.4, §9 "doubly-linked instruction stream with a side alloca tail
// cursor"). The stream exists only during construction of a single
// function; Finalize flattens it into an ordered slice.
type instNode struct {
	inst       Instruction
	prev, next *instNode
}

// Builder is a per-function cursor-based instruction emitter. A fresh
// Builder is created for every function (spec §4.11 "per-function
// orchestration"); NewModuleBuilder names locals/labels/globals uniquely
// across the whole translation unit.
type Builder struct {
	mb *ModuleBuilder

	head, tail *instNode
	cursor     *instNode // insert-after point for ordinary instructions
	allocaTail *instNode // insert-after point for alloca prelude; nil means "at head"
}

// ModuleBuilder hands out globally-unique names across every function and
// owns the module-level counters (spec §4.4 "monotonically increasing
// counters").
type ModuleBuilder struct {
	localCounter  int
	globalCounter int
	labelCounter  int
}

func NewModuleBuilder() *ModuleBuilder { return &ModuleBuilder{} }

func (mb *ModuleBuilder) NewFunctionBuilder() *Builder {
	return &Builder{mb: mb}
}

// NewLocal returns a fresh SSA-style temporary name, e.g. "t12".
func (b *Builder) NewLocal() string {
	b.mb.localCounter++
	return fmt.Sprintf("t%d", b.mb.localCounter)
}

// NewLabel returns a fresh block-label name, e.g. "L3".
func (b *Builder) NewLabel() string {
	b.mb.labelCounter++
	return fmt.Sprintf("L%d", b.mb.labelCounter)
}

// NewGlobalName returns a fresh name for a synthesized anonymous global
// (e.g. a string literal's backing array, spec §4.5).
func (b *Builder) NewGlobalName(prefix string) string {
	b.mb.globalCounter++
	return fmt.Sprintf("%s.%d", prefix, b.mb.globalCounter)
}

// Cursor is an opaque position in the instruction stream, returned by
// GetCursor and accepted by SetCursor (spec §4.4 "get/set cursor").
type Cursor struct{ node *instNode }

func (b *Builder) GetCursor() Cursor { return Cursor{b.cursor} }
func (b *Builder) SetCursor(c Cursor) { b.cursor = c.node }

// Emit inserts inst immediately after the current cursor and advances the
// cursor to it.
func (b *Builder) Emit(inst Instruction) *instNode {
	n := &instNode{inst: inst}
	b.insertAfter(b.cursor, n)
	b.cursor = n
	return n
}

// EmitAlloca inserts an alloca instruction at the function's alloca-tail
// cursor — the end of the entry prelude — regardless of where the main
// cursor currently sits, then restores the caller's cursor (spec §4.4,
// §9; invariant 4 in spec §8: every alloca precedes every non-alloca).
func (b *Builder) EmitAlloca(inst *AllocaInst) {
	saved := b.cursor
	n := &instNode{inst: inst}
	b.insertAfter(b.allocaTail, n)
	b.allocaTail = n
	if saved == nil {
		// The very first instruction emitted in the function was this
		// alloca; keep the main cursor here too.
		b.cursor = n
	} else {
		b.cursor = saved
	}
}

// insertAfter splices n in immediately after at (at == nil means "at the
// very head of the stream").
func (b *Builder) insertAfter(at, n *instNode) {
	if at == nil {
		n.next = b.head
		if b.head != nil {
			b.head.prev = n
		}
		b.head = n
		if b.tail == nil {
			b.tail = n
		}
		return
	}
	n.prev = at
	n.next = at.next
	if at.next != nil {
		at.next.prev = n
	} else {
		b.tail = n
	}
	at.next = n
}

// Finalize flattens the doubly-linked stream into an ordered instruction
// slice, consumed by BuildCFG/FinalizeFunction (spec §4.9).
func (b *Builder) Finalize() []Instruction {
	var out []Instruction
	for n := b.head; n != nil; n = n.next {
		out = append(out, n.inst)
	}
	return out
}
