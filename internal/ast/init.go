package ast

// Designator is one `[index]` or `.field` step of a designated initializer
// (spec §4.6, §8 "Struct designator out of declared order").
type Designator struct {
	IsField bool
	Field   string
	Index   Expr // constant expression when !IsField
	Pos     Position
}

// Initializer is either a single expression (InitExpr != nil) or a braced
// initializer list (InitList != nil); exactly one is set. Designators, when
// present, is the (possibly multi-step) designator list preceding this
// element in an enclosing list.
type Initializer struct {
	Designators []Designator
	InitExpr    Expr
	InitList    []*Initializer
	Pos, EndPs  Position
}

func (i *Initializer) NodePos() Position    { return i.Pos }
func (i *Initializer) NodeEndPos() Position { return i.EndPs }
