// Package lower implements expression, initializer, statement and
// declaration lowering: turning the external AST into this module's IR
// (spec §4.5-§4.8).
package lower

import (
	"c99core/internal/ast"
	"c99core/internal/errors"
	"c99core/internal/ir"
	"c99core/internal/symbols"
	"c99core/internal/target"
	"c99core/internal/types"
)

// Module carries everything shared across every function and global in one
// translation unit (spec §4.11 per-translation-unit context).
type Module struct {
	Arch    *target.Arch
	Types   *types.Lowerer
	Symbols *symbols.Table
	Sink    *errors.Sink
	MB      *ir.ModuleBuilder
	IR      *ir.Module
}

func NewModule(name string, arch *target.Arch) *Module {
	return &Module{
		Arch:    arch,
		Types:   types.NewLowerer(arch),
		Symbols: symbols.NewTable(),
		Sink:    errors.NewSink(),
		MB:      ir.NewModuleBuilder(),
		IR:      ir.NewModule(name),
	}
}

// loopContext names the labels `break`/`continue` resolve to inside one
// enclosing loop or switch (spec §4.7).
type loopContext struct {
	breakLabel    string
	continueLabel string // empty inside a switch (switch has no continue target)
}

// Func carries one function's lowering state: its instruction builder, its
// label namespace, and the break/continue/switch-case stacks statement
// lowering pushes and pops as it descends into nested control structures.
type Func struct {
	Mod *Module
	B   *ir.Builder

	Name       string
	ReturnType *ast.CType

	Labels *symbols.LabelTable
	loops  []loopContext

	// switchCases, non-nil only while lowering a switch body, collects the
	// (constant, label) pairs a case/default statement contributes so the
	// enclosing SwitchInst can be finished once the body is lowered.
	switchCases      *[]ir.SwitchCase
	switchHasDefault *bool
	defaultLabel     *string
	switchTagType    *ir.Type // the promoted controlling expression's IR type, for building case constants

	// declaredLocals and usedSymbols back unused-variable detection: every
	// automatic local lowerLocalDecl declares is appended to declaredLocals,
	// and every lowerIdent lookup that resolves to it marks it used. Tracked
	// by pointer identity rather than name since a name may be shadowed or
	// reused by an unrelated declaration in a sibling scope.
	declaredLocals []*symbols.Symbol
	usedSymbols    map[*symbols.Symbol]bool
}

func (m *Module) NewFunc(name string, returnType *ast.CType) *Func {
	return &Func{
		Mod:         m,
		B:           m.MB.NewFunctionBuilder(),
		Name:        name,
		ReturnType:  returnType,
		Labels:      symbols.NewLabelTable(),
		usedSymbols: make(map[*symbols.Symbol]bool),
	}
}

// markUsed records that sym was read, for unused-variable detection.
func (f *Func) markUsed(sym *symbols.Symbol) {
	if f.usedSymbols != nil {
		f.usedSymbols[sym] = true
	}
}

func (f *Func) pushLoop(breakLabel, continueLabel string) {
	f.loops = append(f.loops, loopContext{breakLabel: breakLabel, continueLabel: continueLabel})
}

func (f *Func) popLoop() {
	f.loops = f.loops[:len(f.loops)-1]
}

func (f *Func) currentBreak() (string, bool) {
	if len(f.loops) == 0 {
		return "", false
	}
	return f.loops[len(f.loops)-1].breakLabel, true
}

func (f *Func) currentContinue() (string, bool) {
	for i := len(f.loops) - 1; i >= 0; i-- {
		if f.loops[i].continueLabel != "" {
			return f.loops[i].continueLabel, true
		}
	}
	return "", false
}

// zeroValue builds the zero-initialized rvalue for a scalar IR type, used
// for implicit returns, zero-fill stores and comparisons against zero.
func zeroValue(t *ir.Type) *ir.Value {
	switch {
	case t == nil || t.Kind == ir.KindVoid:
		return nil
	case t.IsFloat():
		return ir.FloatConst(t, 0)
	case t.Kind == ir.KindPtr:
		return ir.PointerConst(t, 0)
	default:
		return ir.IntConst(t, 0)
	}
}
