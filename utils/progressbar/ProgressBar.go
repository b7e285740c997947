// Package progressbar implements functionality of printing a progress
// bar to the terminal window
package progressbar

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// ProgressBar prints a textual progress bar. The bar is redrawn in
// place each time Increment is called, so it should be the only thing
// writing to its output while in use.
type ProgressBar struct {
	width    int
	max      int
	progress int
	started  time.Time
	out      io.Writer
}

// New returns a new progress bar that is width characters wide and
// reaches 100% after max calls to Increment
func New(width, max int, out io.Writer) *ProgressBar {
	return &ProgressBar{
		width:   width,
		max:     max,
		started: time.Now(),
		out:     out,
	}
}

// Increment advances the progress bar by n steps and redraws it
func (p *ProgressBar) Increment(n int) {
	p.progress += n
	if p.progress > p.max {
		p.progress = p.max
	}
	p.draw()
}

// Close finishes the progress bar, moving the cursor to the next line
func (p *ProgressBar) Close() {
	fmt.Fprintln(p.out)
}

func (p *ProgressBar) draw() {
	if p.max <= 0 {
		return
	}
	filled := p.width * p.progress / p.max

	var bar strings.Builder
	bar.WriteString("|")
	bar.WriteString(strings.Repeat("█", filled))
	bar.WriteString(strings.Repeat(" ", p.width-filled))
	fmt.Fprintf(p.out, "\r%v| [%.2f%% | elapsed: %v]", bar.String(),
		float64(p.progress)/float64(p.max)*100,
		time.Since(p.started).Round(time.Second))
}
