package ast

// Declaration is a variable, function prototype, or bare tag/enum
// declaration (spec §4.8). Name is empty for a declaration that only
// introduces a struct/union/enum tag.
type Declaration struct {
	Name        string
	NamePos     Position
	Type        *CType
	Initializer *Initializer // non-nil only for variable declarations
	Pos, EndPs  Position
}

func (d *Declaration) NodePos() Position    { return d.Pos }
func (d *Declaration) NodeEndPos() Position { return d.EndPs }

// Param is one declared function parameter.
type Param struct {
	Name    string
	NamePos Position
	Type    *CType
}

// FunctionDefinition is an external declaration with a body (spec §6.1).
// Type.Kind is always TypeFunction.
type FunctionDefinition struct {
	Name       string
	NamePos    Position
	Type       *CType // TypeFunction
	Params     []Param
	Body       *CompoundStmt
	Storage    StorageClass
	Pos, EndPs Position
}

func (f *FunctionDefinition) NodePos() Position    { return f.Pos }
func (f *FunctionDefinition) NodeEndPos() Position { return f.EndPs }

// ExternalDecl is either a *FunctionDefinition or a *Declaration at file
// scope (spec §6.1).
type ExternalDecl interface {
	Node
	externalDeclNode()
}

func (f *FunctionDefinition) externalDeclNode() {}
func (d *Declaration) externalDeclNode()        {}

// TranslationUnit is the root AST node: an ordered sequence of external
// declarations (spec §6.1).
type TranslationUnit struct {
	Decls []ExternalDecl
}
