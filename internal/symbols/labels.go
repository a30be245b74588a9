package symbols

import "c99core/internal/ast"

// LabelTable tracks a single function's label namespace. Unlike every
// other C identifier, labels live in a namespace of their own and are
// visible throughout the whole function body regardless of block nesting
// — a goto may jump forward to a label not yet seen (spec §4.7).
type LabelTable struct {
	defined    map[string]ast.Position
	referenced map[string][]ast.Position
}

func NewLabelTable() *LabelTable {
	return &LabelTable{
		defined:    make(map[string]ast.Position),
		referenced: make(map[string][]ast.Position),
	}
}

// Define records name's definition site. It reports false if name was
// already defined earlier in this function (spec §4.8: duplicate label).
func (lt *LabelTable) Define(name string, pos ast.Position) bool {
	if _, exists := lt.defined[name]; exists {
		return false
	}
	lt.defined[name] = pos
	return true
}

// FirstPos returns the position name was first defined at, for diagnostics
// reporting a second definition.
func (lt *LabelTable) FirstPos(name string) ast.Position { return lt.defined[name] }

// ReferenceGoto records a goto site so Unresolved can report labels that
// are jumped to but never defined.
func (lt *LabelTable) ReferenceGoto(name string, pos ast.Position) {
	lt.referenced[name] = append(lt.referenced[name], pos)
}

// Unresolved returns every label name referenced by a goto but never
// defined by the end of the function body.
func (lt *LabelTable) Unresolved() []string {
	var names []string
	for name := range lt.referenced {
		if _, ok := lt.defined[name]; !ok {
			names = append(names, name)
		}
	}
	return names
}

// FirstRefPos returns the position of the first goto that referenced name,
// for diagnostics.
func (lt *LabelTable) FirstRefPos(name string) ast.Position {
	if refs := lt.referenced[name]; len(refs) > 0 {
		return refs[0]
	}
	return ast.Position{}
}
