package main

import (
	"fmt"
	"os"
	"time"

	"golang.org/x/term"

	"bsnap/internal/bk"
)

const progressInterval = 200 * time.Millisecond

// termProgress rewrites a single status line on an interactive terminal.
type termProgress struct {
	out   *os.File
	last  time.Time
	stats bk.RunStats
}

// newTermProgress returns nil when out is not a terminal.
func newTermProgress(out *os.File) *termProgress {
	if !term.IsTerminal(int(out.Fd())) {
		return nil
	}
	return &termProgress{out: out}
}

func (p *termProgress) FileProcessed(_ *bk.FileRecord, stats bk.RunStats) {
	p.stats = stats
	if now := time.Now(); now.Sub(p.last) >= progressInterval {
		p.last = now
		p.print()
	}
}

// Done prints the final counts and ends the status line.
func (p *termProgress) Done() {
	p.print()
	fmt.Fprintln(p.out)
}

func (p *termProgress) print() {
	s := p.stats
	fmt.Fprintf(p.out, "\r%d files: %d archived, %d excluded, %d errors",
		s.FileInserts, s.FilesAllowed, s.FilesExcluded, s.FilesErrored)
}
