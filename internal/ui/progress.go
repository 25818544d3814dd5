package ui

import (
	"io"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

const barNameWidth = 24

// Progress manages the import progress bar.
type Progress struct {
	p *mpb.Progress
}

// NewProgress creates a progress container rendering to w.
func NewProgress(w io.Writer) *Progress {
	return &Progress{
		p: mpb.New(
			mpb.WithOutput(w),
			mpb.WithWidth(40),
		),
	}
}

// AddBar adds a bar counting total records.
func (p *Progress) AddBar(name string, total int64) *Bar {
	name = truncate(name, barNameWidth)

	bar := p.p.New(total,
		// Use ASCII chars for consistent width across terminals
		mpb.BarStyle().Lbound("[").Filler("=").Tip(">").Padding("-").Rbound("]"),
		mpb.PrependDecorators(
			decor.Name(name, decor.WC{W: barNameWidth, C: decor.DindentRight}),
		),
		mpb.AppendDecorators(
			decor.CountersNoUnit("%d / %d"),
			decor.Percentage(decor.WC{W: 5}),
		),
	)
	return &Bar{bar: bar}
}

// Wait waits for all bars to complete.
func (p *Progress) Wait() {
	p.p.Wait()
}

// Bar wraps an mpb.Bar.
type Bar struct {
	bar *mpb.Bar
}

// Increment advances the bar by one record.
func (b *Bar) Increment() {
	b.bar.Increment()
}

// Abort aborts the bar (e.g., on error).
func (b *Bar) Abort(drop bool) {
	b.bar.Abort(drop)
}

// truncate shortens s to at most width runes, marking the cut with "...".
func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-3]) + "..."
}
