package ir

import (
	"fmt"
	"strconv"
	"strings"
)

// ConstKind discriminates ir_const's tagged variant (spec §3 "IR value").
type ConstKind int

const (
	ConstInt ConstKind = iota
	ConstFloat
	ConstPointer   // pointer-as-integer: a literal address, including null
	ConstArray
	ConstStruct
	ConstString
	ConstGlobalAddr // &g for another file-scope global g (Name holds g's name)
)

// Const is a compile-time constant IR value.
type Const struct {
	Kind  ConstKind
	Type  *Type
	Int   uint64  // ConstInt, ConstPointer (bit pattern, reinterpret per Type.Unsigned)
	Float float64 // ConstFloat
	Elems []*Const // ConstArray, ConstStruct, in declared/field order
	Str   string   // ConstString: the literal bytes (unescaped)
	Name  string   // ConstString: the name of the synthesized anonymous global
}

func (c *Const) String() string {
	switch c.Kind {
	case ConstInt, ConstPointer:
		if c.Type != nil && !c.Type.Unsigned && int64(c.Int) < 0 {
			return strconv.FormatInt(int64(c.Int), 10)
		}
		return strconv.FormatUint(c.Int, 10)
	case ConstFloat:
		return strconv.FormatFloat(c.Float, 'g', -1, 64)
	case ConstString:
		return strconv.Quote(c.Str)
	case ConstGlobalAddr:
		return "@" + c.Name
	case ConstArray:
		parts := make([]string, len(c.Elems))
		for i, e := range c.Elems {
			parts[i] = e.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case ConstStruct:
		parts := make([]string, len(c.Elems))
		for i, e := range c.Elems {
			parts[i] = e.String()
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return "<invalid-const>"
	}
}

// Value is either a constant or a reference to a named IR location: a
// local/global variable's storage pointer, or the result of an
// instruction (spec §3 "IR value": `const(ir_const) | var(ir_var)`).
type Value struct {
	IsConst bool
	Const   *Const

	// var fields
	Name string
	Type *Type
}

func ConstValue(c *Const) *Value { return &Value{IsConst: true, Const: c} }

func VarValue(name string, t *Type) *Value { return &Value{Name: name, Type: t} }

func (v *Value) TypeOf() *Type {
	if v.IsConst {
		return v.Const.Type
	}
	return v.Type
}

func (v *Value) String() string {
	if v.IsConst {
		return v.Const.String()
	}
	return "%" + v.Name
}

func IntConst(t *Type, value uint64) *Value {
	return ConstValue(&Const{Kind: ConstInt, Type: t, Int: value})
}

func SignedIntConst(t *Type, value int64) *Value {
	return ConstValue(&Const{Kind: ConstInt, Type: t, Int: uint64(value)})
}

func FloatConst(t *Type, value float64) *Value {
	return ConstValue(&Const{Kind: ConstFloat, Type: t, Float: value})
}

func PointerConst(t *Type, addr uint64) *Value {
	return ConstValue(&Const{Kind: ConstPointer, Type: t, Int: addr})
}

// GlobalAddrConst builds the constant form of `&g` for a file-scope global
// g, used as another global's initializer (spec §4.8 "global initializers
// may reference the addresses of other file-scope globals").
func GlobalAddrConst(t *Type, name string) *Value {
	return ConstValue(&Const{Kind: ConstGlobalAddr, Type: t, Name: name})
}

// fmtOperands is a small shared helper for Instruction.String implementations.
func fmtOperands(vs ...*Value) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		if v == nil {
			parts[i] = "<nil>"
			continue
		}
		parts[i] = fmt.Sprintf("%s %s", v.TypeOf(), v)
	}
	return strings.Join(parts, ", ")
}
