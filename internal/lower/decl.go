package lower

import (
	"c99core/internal/ast"
	"c99core/internal/errors"
	"c99core/internal/ir"
	"c99core/internal/symbols"
	"c99core/internal/types"
)

// lowerLocalDecl lowers one block-scope declaration (spec §4.8): resolves
// its type against the current scope, reserves storage (an alloca for an
// automatic variable, a synthesized file-scope global for a `static`
// local), declares the symbol, and lowers any initializer.
func lowerLocalDecl(f *Func, d *ast.Declaration) {
	if prior := f.Mod.Symbols.LookupLocal(d.Name); d.Name != "" && prior != nil {
		f.Mod.Sink.Add(errors.DuplicateDeclaration(d.Name, d.NamePos, prior.Pos))
	}
	ct := types.ResolveType(d.Type, f.Mod.Symbols, f.Mod.Sink, d.NamePos)
	if d.Name == "" {
		declareEnumerators(f.Mod, ct, d.NamePos)
		return
	}
	if ct.Kind == ast.TypeArray {
		InferArrayLength(ct, d.Initializer)
	}
	if !ct.IsComplete() && d.Initializer == nil {
		f.Mod.Sink.Add(errors.IncompleteType(typeName(ct), "variable declaration", d.NamePos))
	}
	if ct.Storage == ast.StorageExtern && d.Initializer != nil {
		f.Mod.Sink.Add(errors.InvalidStorageClass("extern", "a local declaration with an initializer", d.NamePos))
	}
	irType := f.Mod.Types.Lower(ct)

	if ct.Storage == ast.StorageStatic {
		name := f.B.NewGlobalName(f.Name + "$" + d.Name)
		var constInit *ir.Const
		if d.Initializer != nil {
			constInit = FoldConstInit(f.Mod, ct, d.Initializer, d.NamePos)
		}
		f.Mod.IR.Globals = append(f.Mod.IR.Globals, &ir.Global{Name: name, Type: irType, Initializer: constInit, Internal: true})
		addr := ir.GlobalAddrConst(ir.PointerTo(irType), name)
		f.Mod.Symbols.Declare(&symbols.Symbol{Name: d.Name, Kind: symbols.KindVariable, CType: ct, IRType: irType, Value: addr, Pos: d.NamePos})
		return
	}

	allocaAddr := ir.VarValue(f.B.NewLocal()+".addr", ir.PointerTo(irType))
	f.B.EmitAlloca(&ir.AllocaInst{Inst: ir.NextInstID(), Res: allocaAddr, AllocType: irType, Name: d.Name})
	sym := &symbols.Symbol{Name: d.Name, Kind: symbols.KindVariable, CType: ct, IRType: irType, Value: allocaAddr, Pos: d.NamePos}
	f.Mod.Symbols.Declare(sym)
	f.declaredLocals = append(f.declaredLocals, sym)
	if d.Initializer != nil {
		LowerLocalInit(f, allocaAddr, ct, d.Initializer)
	}
}

func storageClassName(s ast.StorageClass) string {
	switch s {
	case ast.StorageAuto:
		return "auto"
	case ast.StorageRegister:
		return "register"
	case ast.StorageStatic:
		return "static"
	case ast.StorageExtern:
		return "extern"
	case ast.StorageTypedef:
		return "typedef"
	default:
		return "<none>"
	}
}

// isInvalidParamStorage reports whether s is a storage class C99 forbids on
// a function parameter: `auto`/`register` are legal there (register is the
// whole reason the keyword exists), but `static`, `extern` and `typedef`
// never are.
func isInvalidParamStorage(s ast.StorageClass) bool {
	return s == ast.StorageStatic || s == ast.StorageExtern || s == ast.StorageTypedef
}

func typeName(ct *ast.CType) string {
	if ct.Tag != "" {
		return ct.Tag
	}
	return "<anonymous>"
}

// declareEnumerators binds every member of an enum type just resolved into
// the ordinary identifier namespace (spec §4.3: enumeration constants share
// that namespace with variables and functions), computing each implicit
// value as the previous member's value plus one, starting at 0.
func declareEnumerators(m *Module, ct *ast.CType, pos ast.Position) {
	if ct == nil || ct.Kind != ast.TypeEnum || len(ct.Enumerators) == 0 {
		return
	}
	next := int64(0)
	for _, e := range ct.Enumerators {
		val := next
		if e.Expr != nil {
			if v, ok := evalConstIntNoFunc(m, e.Expr); ok {
				val = v
			} else {
				m.Sink.Add(errors.NotConstant("enumerator value", e.Pos))
			}
		}
		if m.Symbols.DuplicateInScope(e.Name) {
			m.Sink.Add(errors.DuplicateDeclaration(e.Name, e.Pos, pos))
		}
		m.Symbols.Declare(&symbols.Symbol{Name: e.Name, Kind: symbols.KindEnumerator, CType: intType(ast.RankInt, false), EnumValue: val, Pos: e.Pos})
		next = val + 1
	}
}

// evalConstIntNoFunc evaluates an integer constant expression for an
// enumerator value, which arises before any *Func/builder exists. Unlike
// evalConstInt it also folds binary `+`, `-` and `*`, and it does not
// accept character literals.
func evalConstIntNoFunc(m *Module, e ast.Expr) (int64, bool) {
	switch e := e.(type) {
	case *ast.ParenExpr:
		return evalConstIntNoFunc(m, e.Value)
	case *ast.LiteralExpr:
		if e.Kind == ast.LitInt {
			return parseIntLexeme(e.Lexeme), true
		}
		return 0, false
	case *ast.UnaryExpr:
		switch e.Op {
		case ast.UnaryPlus:
			return evalConstIntNoFunc(m, e.Operand)
		case ast.UnaryMinus:
			v, ok := evalConstIntNoFunc(m, e.Operand)
			return -v, ok
		}
		return 0, false
	case *ast.BinaryExpr:
		l, lok := evalConstIntNoFunc(m, e.Left)
		r, rok := evalConstIntNoFunc(m, e.Right)
		if !lok || !rok {
			return 0, false
		}
		switch e.Op {
		case ast.BinAdd:
			return l + r, true
		case ast.BinSub:
			return l - r, true
		case ast.BinMul:
			return l * r, true
		}
		return 0, false
	case *ast.IdentExpr:
		sym := m.Symbols.Lookup(e.Name)
		if sym != nil && sym.Kind == symbols.KindEnumerator {
			return sym.EnumValue, true
		}
		return 0, false
	default:
		return 0, false
	}
}

// LowerGlobalDeclaration lowers one file-scope, non-function Declaration
// (spec §4.8). Repeated tentative definitions of the same global (no
// initializer, possibly repeated across the file) merge into one Global;
// two definitions that both carry an initializer are rejected.
func LowerGlobalDeclaration(m *Module, d *ast.Declaration) {
	if prior := m.Symbols.LookupLocal(d.Name); d.Name != "" && prior != nil && prior.Kind != symbols.KindVariable {
		m.Sink.Add(errors.DuplicateDeclaration(d.Name, d.NamePos, prior.Pos))
		return
	}
	ct := types.ResolveType(d.Type, m.Symbols, m.Sink, d.NamePos)
	if d.Name == "" {
		declareEnumerators(m, ct, d.NamePos)
		return
	}
	if ct.Kind == ast.TypeArray {
		InferArrayLength(ct, d.Initializer)
	}
	if ct.Kind == ast.TypeFunction {
		declareFunctionPrototype(m, d.Name, ct, d.NamePos)
		return
	}

	irType := m.Types.Lower(ct)
	existingSym := m.Symbols.LookupLocal(d.Name)
	var existingGlobal *ir.Global
	for _, g := range m.IR.Globals {
		if g.Name == d.Name {
			existingGlobal = g
			break
		}
	}

	switch {
	case existingGlobal == nil:
		internal := ct.Storage != ast.StorageExtern
		var constInit *ir.Const
		if d.Initializer != nil {
			constInit = FoldConstInit(m, ct, d.Initializer, d.NamePos)
		}
		m.IR.Globals = append(m.IR.Globals, &ir.Global{Name: d.Name, Type: irType, Initializer: constInit, Internal: internal})
	case d.Initializer != nil:
		if existingGlobal.Initializer != nil {
			m.Sink.Add(errors.DuplicateDefinition(d.Name, d.NamePos, existingSym.Pos))
		} else {
			existingGlobal.Initializer = FoldConstInit(m, ct, d.Initializer, d.NamePos)
			existingGlobal.Internal = true
		}
	}

	if existingSym == nil {
		addr := ir.GlobalAddrConst(ir.PointerTo(irType), d.Name)
		m.Symbols.Declare(&symbols.Symbol{Name: d.Name, Kind: symbols.KindVariable, CType: ct, IRType: irType, Value: addr, Pos: d.NamePos, FileScope: true})
	}
}

func declareFunctionPrototype(m *Module, name string, ct *ast.CType, pos ast.Position) *symbols.Symbol {
	irType := m.Types.Lower(ct)
	if existing := m.Symbols.LookupLocal(name); existing != nil {
		if existing.Kind != symbols.KindFunction {
			m.Sink.Add(errors.DuplicateDeclaration(name, pos, existing.Pos))
		}
		return existing
	}
	sym := &symbols.Symbol{Name: name, Kind: symbols.KindFunction, CType: ct, IRType: irType, Value: ir.FuncValue(name, irType), Pos: pos}
	m.Symbols.Declare(sym)
	for _, fn := range m.IR.Functions {
		if fn.Name == name {
			return sym
		}
	}
	m.IR.Functions = append(m.IR.Functions, &ir.Function{Name: name, Type: irType, IsVariadic: ct.Variadic, Defined: false})
	return sym
}

// LowerFunctionDefinition lowers an external function definition's body
// into an *ir.Function (spec §4.7, §4.8, §4.11 per-function orchestration).
func LowerFunctionDefinition(m *Module, fd *ast.FunctionDefinition) {
	fd.Type.Storage = fd.Storage
	ct := types.ResolveType(fd.Type, m.Symbols, m.Sink, fd.Pos)
	irType := m.Types.Lower(ct)

	sym := m.Symbols.LookupLocal(fd.Name)
	if sym != nil && sym.Kind == symbols.KindFunction && sym.Defined {
		m.Sink.Add(errors.DuplicateDefinition(fd.Name, fd.Pos, sym.Pos))
		return
	}
	if sym == nil {
		sym = &symbols.Symbol{Name: fd.Name, Kind: symbols.KindFunction, CType: ct, IRType: irType, Value: ir.FuncValue(fd.Name, irType), Pos: fd.Pos}
		m.Symbols.Declare(sym)
	}
	sym.Defined = true

	var irFn *ir.Function
	for _, fn := range m.IR.Functions {
		if fn.Name == fd.Name {
			irFn = fn
			break
		}
	}
	if irFn == nil {
		irFn = &ir.Function{Name: fd.Name, Type: irType, IsVariadic: ct.Variadic}
		m.IR.Functions = append(m.IR.Functions, irFn)
	}
	irFn.Defined = true

	f := m.NewFunc(fd.Name, ct.Return)
	m.Symbols.Push()
	for i, p := range fd.Params {
		if pct := ct.Params[i]; pct != nil && isInvalidParamStorage(pct.Storage) {
			m.Sink.Add(errors.InvalidStorageClass(storageClassName(pct.Storage), "a parameter", p.NamePos))
		}
		paramIR := m.Types.Lower(ct.Params[i])
		paramVal := ir.VarValue("arg."+p.Name, paramIR)
		irFn.Params = append(irFn.Params, paramVal)

		slot := ir.VarValue(f.B.NewLocal()+".addr", ir.PointerTo(paramIR))
		f.B.EmitAlloca(&ir.AllocaInst{Inst: ir.NextInstID(), Res: slot, AllocType: paramIR, Name: p.Name})
		f.B.Emit(&ir.StoreInst{Inst: ir.NextInstID(), Addr: slot, Val: paramVal})
		m.Symbols.Declare(&symbols.Symbol{Name: p.Name, Kind: symbols.KindVariable, CType: ct.Params[i], IRType: paramIR, Value: slot, Pos: p.NamePos})
	}

	LowerStmt(f, fd.Body)

	for _, name := range f.Labels.Unresolved() {
		m.Sink.Add(errors.UndefinedLabel(name, f.Labels.FirstRefPos(name)))
	}
	for _, sym := range f.declaredLocals {
		if !f.usedSymbols[sym] {
			m.Sink.Add(errors.UnusedVariable(sym.Name, sym.Pos))
		}
	}
	m.Symbols.Pop()

	retIR := m.Types.Lower(ct.Return)
	var zeroRet *ir.Value
	if m.Arch.ImplicitMainReturn {
		zeroRet = zeroValue(retIR)
	}
	implicitReturn := ir.FinalizeFunction(irFn, f.B.Finalize(), zeroRet)
	if implicitReturn && ct.Return != nil && ct.Return.Kind != ast.TypeVoid {
		m.Sink.Add(errors.MissingReturn(fd.Name, fd.Pos))
	}
}

// LowerExternalDecl dispatches one top-level construct (spec §6.1) to
// function or global-declaration lowering.
func LowerExternalDecl(m *Module, ed ast.ExternalDecl) {
	switch ed := ed.(type) {
	case *ast.FunctionDefinition:
		LowerFunctionDefinition(m, ed)
	case *ast.Declaration:
		LowerGlobalDeclaration(m, ed)
	default:
		panic(&ir.InvariantViolation{Msg: "lower: unhandled external declaration"})
	}
}
