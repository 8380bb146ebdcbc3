package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// progressPrinter renders incremental counts. On a terminal it rewrites one
// line in place; on pipes it stays quiet so output remains parseable.
type progressPrinter struct {
	out      io.Writer
	terminal bool
	label    string
	active   bool
}

func newProgressPrinter(label string) *progressPrinter {
	return &progressPrinter{
		out:      os.Stderr,
		terminal: isTerminal(os.Stderr.Fd()),
		label:    label,
	}
}

func (p *progressPrinter) update(done, total int) {
	if !p.terminal {
		return
	}
	fmt.Fprintf(p.out, "\r%s %d/%d", p.label, done, total)
	p.active = true
}

func (p *progressPrinter) finish() {
	if p.terminal && p.active {
		fmt.Fprintln(p.out)
		p.active = false
	}
}

func isTerminal(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
