package ir

import (
	"fmt"
	"strings"
)

// Printer renders a Module to the textual IR form used in diagnostics and
// golden-file tests (spec §6.3 shows the canonical syntax this follows).
type Printer struct {
	sb     strings.Builder
	indent int
}

func PrintModule(m *Module) string {
	p := &Printer{}
	p.printModule(m)
	return p.sb.String()
}

func PrintFunction(fn *Function) string {
	p := &Printer{}
	p.printFunction(fn)
	return p.sb.String()
}

func (p *Printer) writeIndent() {
	p.sb.WriteString(strings.Repeat("  ", p.indent))
}

func (p *Printer) writeLine(format string, args ...any) {
	p.writeIndent()
	p.sb.WriteString(fmt.Sprintf(format, args...))
	p.sb.WriteByte('\n')
}

func (p *Printer) write(format string, args ...any) {
	p.sb.WriteString(fmt.Sprintf(format, args...))
}

func (p *Printer) printModule(m *Module) {
	p.writeLine("module %s", m.Name)
	for _, g := range m.Globals {
		p.printGlobal(g)
	}
	for _, fn := range m.Functions {
		p.sb.WriteByte('\n')
		p.printFunction(fn)
	}
}

func (p *Printer) printGlobal(g *Global) {
	vis := ""
	if !g.Internal {
		vis = "extern "
	}
	if g.Initializer != nil {
		p.writeLine("%sglobal %s %s = %s", vis, g.Type, g.Name, g.Initializer)
	} else {
		p.writeLine("%sglobal %s %s = zeroinitializer", vis, g.Type, g.Name)
	}
}

func (p *Printer) printFunction(fn *Function) {
	params := make([]string, len(fn.Params))
	for i, param := range fn.Params {
		params[i] = fmt.Sprintf("%s %s", param.TypeOf(), param)
	}
	variadic := ""
	if fn.IsVariadic {
		if len(params) > 0 {
			variadic = ", ..."
		} else {
			variadic = "..."
		}
	}
	sig := fmt.Sprintf("func %s(%s%s) -> %s", fn.Name, strings.Join(params, ", "), variadic, fn.Type.Return)
	if !fn.Defined {
		p.writeLine("declare %s", sig)
		return
	}
	p.writeLine("%s {", sig)
	p.indent++
	for _, blk := range fn.Blocks {
		p.printBlock(blk)
	}
	p.indent--
	p.writeLine("}")
}

func (p *Printer) printBlock(b *BasicBlock) {
	p.indent--
	p.writeLine("%s:", b.Label)
	p.indent++
	for _, inst := range b.Instructions {
		p.writeLine("%s", inst)
	}
	if b.Term != nil {
		p.writeLine("%s", b.Term)
	}
}
