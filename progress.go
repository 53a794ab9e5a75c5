package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"
)

const progressBarWidth = 40

// progressPrinter renders progress callbacks. On a terminal it redraws a
// single bar line; otherwise it prints a line every plainStep percent.
type progressPrinter struct {
	mu        sync.Mutex
	w         io.Writer
	tty       bool
	plainStep int
	last      int
	drawn     bool
}

func newProgressPrinter(f *os.File) *progressPrinter {
	return &progressPrinter{
		w:         f,
		tty:       term.IsTerminal(int(f.Fd())),
		plainStep: 10,
		last:      -1,
	}
}

// Update is the pipeline progress callback.
func (p *progressPrinter) Update(percent int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if percent <= p.last {
		return
	}
	if p.tty {
		fmt.Fprintf(p.w, "\r%s", renderBar(percent, progressBarWidth))
		p.drawn = true
		p.last = percent
		return
	}
	if percent == 100 || percent/p.plainStep > p.last/p.plainStep || p.last < 0 {
		fmt.Fprintf(p.w, "progress: %d%%\n", percent)
		p.last = percent
	}
}

// Done ends the bar line so later output starts on a fresh line.
func (p *progressPrinter) Done() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.drawn {
		fmt.Fprintln(p.w)
		p.drawn = false
	}
}

func renderBar(percent, width int) string {
	percent = max(0, min(percent, 100))
	filled := percent * width / 100
	return fmt.Sprintf("[%s%s] %3d%%", strings.Repeat("#", filled), strings.Repeat(".", width-filled), percent)
}
