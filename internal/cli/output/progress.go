package output

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// ProgressBar displays the progress of a counted operation.
type ProgressBar struct {
	w        io.Writer
	title    string
	total    int64
	current  int64
	width    int
	lastFill int
	mu       sync.Mutex
}

// NewProgressBar creates a new progress bar.
func NewProgressBar(w io.Writer, title string) *ProgressBar {
	return &ProgressBar{
		w:        w,
		title:    title,
		width:    40,
		lastFill: -1,
	}
}

// SetTotal sets the total count.
func (p *ProgressBar) SetTotal(total int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.total = total
}

// Update sets the progress.
func (p *ProgressBar) Update(current, total int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current = current
	p.total = total
	p.render(true)
}

// Increment adds to current progress. The bar is only redrawn when it
// visibly changes, so it is cheap to call from hot loops.
func (p *ProgressBar) Increment(n int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current += n
	p.render(false)
}

// Finish completes the progress bar.
func (p *ProgressBar) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current = p.total
	p.render(true)
	fmt.Fprintln(p.w)
}

func (p *ProgressBar) render(force bool) {
	if p.total <= 0 {
		fmt.Fprintf(p.w, "\r%s %d", p.title, p.current)
		return
	}

	percent := float64(p.current) / float64(p.total)
	if percent > 1 {
		percent = 1
	}

	filled := int(float64(p.width) * percent)
	if !force && filled == p.lastFill {
		return
	}
	p.lastFill = filled

	bar := strings.Repeat("█", filled) + strings.Repeat("░", p.width-filled)
	fmt.Fprintf(p.w, "\r%s [%s] %3.0f%% (%d/%d)", p.title, bar, percent*100, p.current, p.total)
}
