// Package report writes the per-file outcome lines of a batch and keeps its
// counters.
package report

import (
	"fmt"
	"io"

	"github.com/starford/imgname/internal/models"
	"github.com/starford/imgname/internal/relocate"
)

// Stats tracks outcomes across a batch. Each source file counts once.
type Stats struct {
	Total         int
	Moved         int
	AlreadyPlaced int
	Failed        int
}

// Succeeded returns the number of files that were moved or already in place.
func (s Stats) Succeeded() int {
	return s.Moved + s.AlreadyPlaced
}

// AllFailed reports whether the batch had files and none of them succeeded.
func (s Stats) AllFailed() bool {
	return s.Total > 0 && s.Succeeded() == 0
}

// Printer writes outcome lines to w.
type Printer struct {
	w      io.Writer
	dryRun bool
	stats  Stats
}

// NewPrinter creates a Printer. With dryRun set, move lines are marked as
// not performed.
func NewPrinter(w io.Writer, dryRun bool) *Printer {
	return &Printer{w: w, dryRun: dryRun}
}

// Relocated reports a planned or applied relocation: one
// "source -> destination" line per moved member, "path already exists" for
// members already in place.
func (p *Printer) Relocated(plan *relocate.Plan) {
	p.stats.Total++
	if plan.Noop() {
		p.stats.AlreadyPlaced++
	} else {
		p.stats.Moved++
	}

	for _, m := range plan.Moves {
		switch {
		case m.AlreadyPlaced:
			fmt.Fprintf(p.w, "%s already exists\n", m.To)
		case p.dryRun:
			fmt.Fprintf(p.w, "%s -> %s (dry run)\n", m.From, m.To)
		default:
			fmt.Fprintf(p.w, "%s -> %s\n", m.From, m.To)
		}
	}
}

// Failed reports a file whose relocation failed.
func (p *Printer) Failed(path string, err error) {
	p.stats.Total++
	p.stats.Failed++
	fmt.Fprintf(p.w, "%s: %v\n", path, err)
}

// Date reports the timestamp decoded from a file name.
func (p *Printer) Date(name string, ts models.Timestamp) {
	fmt.Fprintf(p.w, "%s -> %s\n", name, ts)
}

// Name reports the token for a literal timestamp.
func (p *Printer) Name(literal, token string) {
	fmt.Fprintf(p.w, "%s -> %s\n", literal, token)
}

// BadFormat reports an argument that could not be decoded.
func (p *Printer) BadFormat(arg string) {
	fmt.Fprintf(p.w, "%s: not in the correct format\n", arg)
}

// Stats returns the counters so far.
func (p *Printer) Stats() Stats {
	return p.stats
}
