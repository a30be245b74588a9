package lower

import (
	"c99core/internal/ast"
	"c99core/internal/errors"
	"c99core/internal/ir"
	"c99core/internal/target"
)

// LowerTranslationUnit lowers a whole parsed file into one IR module (spec
// §4.11 per-translation-unit orchestration): every external declaration is
// lowered in source order so a later definition can see an earlier one's
// symbol, globals are deterministically ordered, and, when no error was
// reported, the result is run through structural validation before being
// handed to a back-end.
func LowerTranslationUnit(name string, arch *target.Arch, tu *ast.TranslationUnit) (*ir.Module, *errors.Sink) {
	m := NewModule(name, arch)
	for _, ed := range tu.Decls {
		LowerExternalDecl(m, ed)
	}
	m.IR.Globals = ir.SortGlobals(m.IR.Globals)
	m.IR.TypeMap = m.Types.TypeMap()
	if !m.Sink.HasErrors() {
		ir.Validate(m.IR)
	}
	return m.IR, m.Sink
}
