// Package driver ties lowering to a concrete target and a translation
// unit, the way a compiler's top-level entry point does (spec §4.11
// per-translation-unit orchestration, §4.1 diagnostics reporting).
package driver

import (
	"c99core/internal/ast"
	"c99core/internal/errors"
	"c99core/internal/ir"
	"c99core/internal/lower"
	"c99core/internal/target"
)

// TargetName selects a data model by name, the way a `-m32`/`-m64` flag
// would on a real front-end.
type TargetName string

const (
	TargetLP64  TargetName = "lp64"  // x86-64 / AArch64 Unix data model
	TargetILP32 TargetName = "ilp32" // 32-bit x86 / ARM data model
)

func resolveArch(name TargetName) *target.Arch {
	switch name {
	case TargetILP32:
		return target.NewILP32()
	default:
		return target.NewLP64()
	}
}

// Result bundles one translation unit's compiled IR and its accumulated
// diagnostics (spec §4.1: lowering never aborts on the first error, so a
// Result may carry both a partially-built module and a non-empty sink).
type Result struct {
	Module *ir.Module
	Sink   *errors.Sink
}

// Compile lowers tu against the named target's data model into one IR
// module. The caller is responsible for producing tu (this core has no
// front-end of its own) and for deciding, via Result.Sink.HasErrors, what
// to do with a module that carries semantic errors.
func Compile(unitName string, target TargetName, tu *ast.TranslationUnit) Result {
	arch := resolveArch(target)
	mod, sink := lower.LowerTranslationUnit(unitName, arch, tu)
	return Result{Module: mod, Sink: sink}
}

// Report renders every diagnostic in res.Sink against source (the original
// text of the file res was compiled from), Rust-style.
func Report(filename, source string, res Result) string {
	reporter := errors.NewErrorReporter(filename, source)
	return res.Sink.Format(reporter)
}

// EmitIR renders the compiled module's textual IR form (spec §6.3), for
// tooling or golden-file tests. Callers should check Result.Sink.HasErrors
// first: IR for a unit with semantic errors may be incomplete.
func EmitIR(res Result) string {
	return ir.PrintModule(res.Module)
}
