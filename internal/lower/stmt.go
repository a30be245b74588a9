package lower

import (
	"strconv"
	"strings"

	"c99core/internal/ast"
	"c99core/internal/errors"
	"c99core/internal/ir"
	"c99core/internal/symbols"
	"c99core/internal/types"
)

// LowerStmt lowers one statement into f's instruction stream (spec §4.7).
// Control constructs are lowered the same branch-and-join-through-labels way
// expression lowering joins the arms of `&&`/`||`/`?:`: BrCondInst to
// per-construct labels, NopInst marking each label, BrInst for the
// unconditional jumps back to loop heads and out to join points.
func LowerStmt(f *Func, s ast.Stmt) {
	switch s := s.(type) {
	case *ast.CompoundStmt:
		lowerCompound(f, s)
	case *ast.DeclStmt:
		lowerLocalDecl(f, s.Decl)
	case *ast.ExprStmt:
		if s.Expr != nil {
			LowerExpr(f, s.Expr)
		}
	case *ast.IfStmt:
		lowerIf(f, s)
	case *ast.WhileStmt:
		lowerWhile(f, s)
	case *ast.DoWhileStmt:
		lowerDoWhile(f, s)
	case *ast.ForStmt:
		lowerFor(f, s)
	case *ast.ReturnStmt:
		lowerReturn(f, s)
	case *ast.BreakStmt:
		lowerBreak(f, s)
	case *ast.ContinueStmt:
		lowerContinue(f, s)
	case *ast.LabelStmt:
		lowerLabel(f, s)
	case *ast.GotoStmt:
		lowerGoto(f, s)
	case *ast.SwitchStmt:
		lowerSwitch(f, s)
	case *ast.CaseStmt:
		lowerCase(f, s)
	default:
		panic(&ir.InvariantViolation{Msg: "lower: unhandled statement node"})
	}
}

func lowerCompound(f *Func, s *ast.CompoundStmt) {
	f.Mod.Symbols.Push()
	terminated := false
	for _, item := range s.Items {
		if terminated {
			f.Mod.Sink.Add(errors.UnreachableCode(item.NodePos()))
			terminated = false // report once per unreachable run, not once per statement
		}
		LowerStmt(f, item)
		terminated = stmtAlwaysTerminates(item)
	}
	f.Mod.Symbols.Pop()
}

// stmtAlwaysTerminates reports whether every path through s ends in a
// return, break, continue or goto, so any statement textually following it
// in the same block can never run (spec §4.7 unreachable-code warning). A
// label is transparent: reachability still depends on the statement it
// labels, since a goto elsewhere in the function may target it.
func stmtAlwaysTerminates(s ast.Stmt) bool {
	switch s := s.(type) {
	case *ast.ReturnStmt, *ast.BreakStmt, *ast.ContinueStmt, *ast.GotoStmt:
		return true
	case *ast.IfStmt:
		return s.Else != nil && stmtAlwaysTerminates(s.Then) && stmtAlwaysTerminates(s.Else)
	case *ast.CompoundStmt:
		if len(s.Items) == 0 {
			return false
		}
		return stmtAlwaysTerminates(s.Items[len(s.Items)-1])
	case *ast.LabelStmt:
		return stmtAlwaysTerminates(s.Stmt)
	default:
		return false
	}
}

func lowerIf(f *Func, s *ast.IfStmt) {
	cond := toBool(f, LowerExpr(f, s.Cond), s.Cond.NodePos())
	thenLabel := f.B.NewLabel()
	joinLabel := f.B.NewLabel()
	elseLabel := joinLabel
	if s.Else != nil {
		elseLabel = f.B.NewLabel()
	}
	f.B.Emit(&ir.BrCondInst{Inst: ir.NextInstID(), Cond: cond, TrueLabel: thenLabel, FalseLabel: elseLabel})

	f.B.Emit(&ir.NopInst{Inst: ir.NextInstID(), Label: thenLabel})
	LowerStmt(f, s.Then)
	f.B.Emit(&ir.BrInst{Inst: ir.NextInstID(), Target: joinLabel})

	if s.Else != nil {
		f.B.Emit(&ir.NopInst{Inst: ir.NextInstID(), Label: elseLabel})
		LowerStmt(f, s.Else)
		f.B.Emit(&ir.BrInst{Inst: ir.NextInstID(), Target: joinLabel})
	}

	f.B.Emit(&ir.NopInst{Inst: ir.NextInstID(), Label: joinLabel})
}

func lowerWhile(f *Func, s *ast.WhileStmt) {
	headLabel, bodyLabel, endLabel := f.B.NewLabel(), f.B.NewLabel(), f.B.NewLabel()
	f.B.Emit(&ir.BrInst{Inst: ir.NextInstID(), Target: headLabel})

	f.B.Emit(&ir.NopInst{Inst: ir.NextInstID(), Label: headLabel})
	cond := toBool(f, LowerExpr(f, s.Cond), s.Cond.NodePos())
	f.B.Emit(&ir.BrCondInst{Inst: ir.NextInstID(), Cond: cond, TrueLabel: bodyLabel, FalseLabel: endLabel})

	f.B.Emit(&ir.NopInst{Inst: ir.NextInstID(), Label: bodyLabel})
	f.pushLoop(endLabel, headLabel)
	LowerStmt(f, s.Body)
	f.popLoop()
	f.B.Emit(&ir.BrInst{Inst: ir.NextInstID(), Target: headLabel})

	f.B.Emit(&ir.NopInst{Inst: ir.NextInstID(), Label: endLabel})
}

func lowerDoWhile(f *Func, s *ast.DoWhileStmt) {
	bodyLabel, condLabel, endLabel := f.B.NewLabel(), f.B.NewLabel(), f.B.NewLabel()
	f.B.Emit(&ir.BrInst{Inst: ir.NextInstID(), Target: bodyLabel})

	f.B.Emit(&ir.NopInst{Inst: ir.NextInstID(), Label: bodyLabel})
	f.pushLoop(endLabel, condLabel)
	LowerStmt(f, s.Body)
	f.popLoop()
	f.B.Emit(&ir.BrInst{Inst: ir.NextInstID(), Target: condLabel})

	f.B.Emit(&ir.NopInst{Inst: ir.NextInstID(), Label: condLabel})
	cond := toBool(f, LowerExpr(f, s.Cond), s.Cond.NodePos())
	f.B.Emit(&ir.BrCondInst{Inst: ir.NextInstID(), Cond: cond, TrueLabel: bodyLabel, FalseLabel: endLabel})

	f.B.Emit(&ir.NopInst{Inst: ir.NextInstID(), Label: endLabel})
}

func lowerFor(f *Func, s *ast.ForStmt) {
	f.Mod.Symbols.Push()
	if s.Init != nil {
		LowerStmt(f, s.Init)
	}

	headLabel, bodyLabel, postLabel, endLabel := f.B.NewLabel(), f.B.NewLabel(), f.B.NewLabel(), f.B.NewLabel()
	f.B.Emit(&ir.BrInst{Inst: ir.NextInstID(), Target: headLabel})

	f.B.Emit(&ir.NopInst{Inst: ir.NextInstID(), Label: headLabel})
	if s.Cond != nil {
		cond := toBool(f, LowerExpr(f, s.Cond), s.Cond.NodePos())
		f.B.Emit(&ir.BrCondInst{Inst: ir.NextInstID(), Cond: cond, TrueLabel: bodyLabel, FalseLabel: endLabel})
	} else {
		f.B.Emit(&ir.BrInst{Inst: ir.NextInstID(), Target: bodyLabel})
	}

	f.B.Emit(&ir.NopInst{Inst: ir.NextInstID(), Label: bodyLabel})
	f.pushLoop(endLabel, postLabel)
	LowerStmt(f, s.Body)
	f.popLoop()
	f.B.Emit(&ir.BrInst{Inst: ir.NextInstID(), Target: postLabel})

	f.B.Emit(&ir.NopInst{Inst: ir.NextInstID(), Label: postLabel})
	if s.Post != nil {
		LowerExpr(f, s.Post)
	}
	f.B.Emit(&ir.BrInst{Inst: ir.NextInstID(), Target: headLabel})

	f.B.Emit(&ir.NopInst{Inst: ir.NextInstID(), Label: endLabel})
	f.Mod.Symbols.Pop()
}

func lowerReturn(f *Func, s *ast.ReturnStmt) {
	isVoid := f.ReturnType == nil || f.ReturnType.Kind == ast.TypeVoid
	if s.Value == nil {
		if !isVoid {
			f.Mod.Sink.Add(errors.TypeMismatch(f.Mod.Types.Lower(f.ReturnType).String(), "void", s.Pos))
		}
		f.B.Emit(&ir.RetInst{Inst: ir.NextInstID()})
		return
	}
	if isVoid {
		f.Mod.Sink.Add(errors.TypeMismatch("void", "a value", s.Pos))
		LowerExpr(f, s.Value)
		f.B.Emit(&ir.RetInst{Inst: ir.NextInstID()})
		return
	}
	r := LowerExpr(f, s.Value)
	retIR := f.Mod.Types.Lower(f.ReturnType)
	val := types.Convert(f.B, GetRValue(f, r), f.Mod.Types.Lower(r.CType), retIR, f.Mod.Arch)
	f.B.Emit(&ir.RetInst{Inst: ir.NextInstID(), Val: val})
}

func lowerBreak(f *Func, s *ast.BreakStmt) {
	target, ok := f.currentBreak()
	if !ok {
		f.Mod.Sink.Add(errors.MisplacedJump("break", s.Pos))
		return
	}
	f.B.Emit(&ir.BrInst{Inst: ir.NextInstID(), Target: target})
}

func lowerContinue(f *Func, s *ast.ContinueStmt) {
	target, ok := f.currentContinue()
	if !ok {
		f.Mod.Sink.Add(errors.MisplacedJump("continue", s.Pos))
		return
	}
	f.B.Emit(&ir.BrInst{Inst: ir.NextInstID(), Target: target})
}

// userLabel mangles a source-level goto label into its IR label name,
// distinct from the auto-generated "L%d" sequence NewLabel hands out.
func userLabel(name string) string { return "user." + name }

func lowerLabel(f *Func, s *ast.LabelStmt) {
	if !f.Labels.Define(s.Name, s.Pos) {
		f.Mod.Sink.Add(errors.DuplicateDeclaration(s.Name, s.Pos, f.Labels.FirstPos(s.Name)))
	}
	f.B.Emit(&ir.NopInst{Inst: ir.NextInstID(), Label: userLabel(s.Name)})
	LowerStmt(f, s.Stmt)
}

func lowerGoto(f *Func, s *ast.GotoStmt) {
	f.Labels.ReferenceGoto(s.Label, s.Pos)
	f.B.Emit(&ir.BrInst{Inst: ir.NextInstID(), Target: userLabel(s.Label)})
}

// lowerSwitch mirrors lowerTernary's cursor-rewind pattern: the body must be
// lowered to discover every case/default label before the SwitchInst (which
// needs the complete case list up front) can be emitted, so the switch
// instruction is spliced in at the saved pre-body cursor once lowering the
// body has populated the case list through f.switchCases (spec §4.7).
func lowerSwitch(f *Func, s *ast.SwitchStmt) {
	tagR := LowerExpr(f, s.Tag)
	if tagR.CType != nil && !tagR.CType.IsIntegerType() {
		f.Mod.Sink.Add(errors.NotScalar(typeDisplayName(f, tagR.CType), s.Tag.NodePos()))
	}
	tagIR := f.Mod.Types.Lower(tagR.CType)
	promotedIR := types.IntegerPromote(tagIR, f.Mod.Arch)
	tagVal := types.Convert(f.B, GetRValue(f, tagR), tagIR, promotedIR, f.Mod.Arch)

	beforeBody := f.B.GetCursor()
	endLabel := f.B.NewLabel()

	savedCases, savedHasDefault, savedDefaultLabel := f.switchCases, f.switchHasDefault, f.defaultLabel
	savedTagType := f.switchTagType
	var cases []ir.SwitchCase
	hasDefault := false
	defaultLabel := endLabel
	f.switchCases = &cases
	f.switchHasDefault = &hasDefault
	f.defaultLabel = &defaultLabel
	f.switchTagType = promotedIR

	f.pushLoop(endLabel, "")
	LowerStmt(f, s.Body)
	f.popLoop()

	f.switchCases, f.switchHasDefault, f.defaultLabel = savedCases, savedHasDefault, savedDefaultLabel
	f.switchTagType = savedTagType

	f.B.Emit(&ir.BrInst{Inst: ir.NextInstID(), Target: endLabel})
	afterBody := f.B.GetCursor()

	f.B.SetCursor(beforeBody)
	f.B.Emit(&ir.SwitchInst{Inst: ir.NextInstID(), Tag: tagVal, Cases: cases, Default: defaultLabel})
	f.B.SetCursor(afterBody)

	f.B.Emit(&ir.NopInst{Inst: ir.NextInstID(), Label: endLabel})
}

func lowerCase(f *Func, s *ast.CaseStmt) {
	if f.switchCases == nil {
		f.Mod.Sink.Add(errors.MisplacedCase(s.Pos))
		LowerStmt(f, s.Stmt)
		return
	}
	label := f.B.NewLabel()
	f.B.Emit(&ir.NopInst{Inst: ir.NextInstID(), Label: label})

	if s.Value == nil {
		if *f.switchHasDefault {
			f.Mod.Sink.Add(errors.DuplicateCase("default", s.Pos, s.Pos))
		}
		*f.switchHasDefault = true
		*f.defaultLabel = label
		LowerStmt(f, s.Stmt)
		return
	}

	val, ok := evalConstInt(f, s.Value)
	if !ok {
		f.Mod.Sink.Add(errors.NotConstant("case label", s.Value.NodePos()))
		LowerStmt(f, s.Stmt)
		return
	}
	for _, c := range *f.switchCases {
		if c.Value.Int == uint64(val) {
			f.Mod.Sink.Add(errors.DuplicateCase(strconv.FormatInt(val, 10), s.Value.NodePos(), s.Value.NodePos()))
			break
		}
	}
	tagType := f.switchTagType
	if tagType == nil {
		tagType = f.Mod.Arch.Int
	}
	*f.switchCases = append(*f.switchCases, ir.SwitchCase{
		Value:  &ir.Const{Kind: ir.ConstInt, Type: tagType, Int: uint64(val)},
		Target: label,
	})
	LowerStmt(f, s.Stmt)
}

// evalConstInt evaluates the small subset of integer constant expressions
// C99 requires a switch case label to be: integer/character literals,
// enumeration constants, sign, and parenthesization. Anything richer (e.g.
// `1 + 2`) is out of scope for this pass and reported as not constant by
// the caller.
func evalConstInt(f *Func, e ast.Expr) (int64, bool) {
	switch e := e.(type) {
	case *ast.ParenExpr:
		return evalConstInt(f, e.Value)
	case *ast.LiteralExpr:
		switch e.Kind {
		case ast.LitInt:
			return parseIntLexeme(e.Lexeme), true
		case ast.LitChar:
			body := strings.Trim(e.Lexeme, "'")
			return int64(int8(decodeEscapedByte(body))), true
		}
		return 0, false
	case *ast.UnaryExpr:
		switch e.Op {
		case ast.UnaryPlus:
			return evalConstInt(f, e.Operand)
		case ast.UnaryMinus:
			v, ok := evalConstInt(f, e.Operand)
			return -v, ok
		}
		return 0, false
	case *ast.IdentExpr:
		sym := f.Mod.Symbols.Lookup(e.Name)
		if sym != nil && sym.Kind == symbols.KindEnumerator {
			return sym.EnumValue, true
		}
		return 0, false
	default:
		return 0, false
	}
}

func parseIntLexeme(lexeme string) int64 {
	lexeme = strings.ToLower(lexeme)
	digits := strings.TrimRight(lexeme, "ul")
	base := 10
	switch {
	case strings.HasPrefix(digits, "0x"):
		base, digits = 16, digits[2:]
	case strings.HasPrefix(digits, "0") && len(digits) > 1:
		base, digits = 8, digits[1:]
	}
	if digits == "" {
		digits = "0"
	}
	val, _ := strconv.ParseUint(digits, base, 64)
	return int64(val)
}
