package ui

import (
	"fmt"
	"io"
	"os"
)

// Printer writes headers and results, styled on a terminal and plain when
// output is piped
type Printer struct {
	out    io.Writer
	styled bool
}

// NewPrinter creates a Printer for w. If w is nil, os.Stdout is used and
// styling follows IsTerminal.
func NewPrinter(w io.Writer) *Printer {
	if w == nil {
		return &Printer{out: os.Stdout, styled: IsTerminal()}
	}
	return &Printer{out: w}
}

// Styled forces styling on or off
func (p *Printer) Styled(on bool) *Printer {
	p.styled = on
	return p
}

// Println writes a line
func (p *Printer) Println(content string) {
	_, _ = fmt.Fprintln(p.out, content)
}

// PrintHeader prints a command header
func (p *Printer) PrintHeader(h *Header) {
	if p.styled {
		p.Println(h.Render())
		return
	}
	_, _ = fmt.Fprint(p.out, h.Plain())
}

// PrintResult prints a result box
func (p *Printer) PrintResult(r *Result) {
	if p.styled {
		p.Println(r.Render())
		return
	}
	_, _ = fmt.Fprint(p.out, r.Plain())
}

// ResultString renders r the way PrintResult would
func (p *Printer) ResultString(r *Result) string {
	if p.styled {
		return r.Render()
	}
	return r.Plain()
}
