package app

import (
	"fmt"
	"io"
	"strings"
	"time"

	"bsnap/internal/bk"
)

const bytesPerMB = 1000000

// WriteSummary prints the end-of-run report for run.
func WriteSummary(w io.Writer, run *bk.BackupRun) {
	s := run.Stats
	fmt.Fprintf(w, "Run                      : %s (%s)\n", run.Name, run.ID)
	fmt.Fprintf(w, "Input directories        : %s\n", strings.Join(run.InputDirs, ", "))
	fmt.Fprintf(w, "Archive                  : %s\n", run.ArchivePath)
	if run.CatalogPath != "" {
		fmt.Fprintf(w, "Catalog                  : %s\n", run.CatalogPath)
	}
	fmt.Fprintf(w, "Started at               : %s\n", run.StartedAt.Format(StampLayout))
	fmt.Fprintf(w, "Finished at              : %s\n", run.FinishedAt.Format(StampLayout))
	fmt.Fprintf(w, "Duration                 : %s\n", formatSeconds(run.Duration()))
	fmt.Fprintf(w, "Allowed files            : %d\n", s.FilesAllowed)
	fmt.Fprintf(w, "Allowed files size       : %d (%.2f MB)\n", s.FilesAllowedBytes, float64(s.FilesAllowedBytes)/bytesPerMB)
	fmt.Fprintf(w, "Excluded files           : %d\n", s.FilesExcluded)
	fmt.Fprintf(w, "Excluded files size      : %d (%.2f MB)\n", s.FilesExcludedBytes, float64(s.FilesExcludedBytes)/bytesPerMB)
	fmt.Fprintf(w, "Errored files            : %d\n", s.FilesErrored)
	fmt.Fprintf(w, "Hashed files             : %d\n", s.FilesHashed)
	if s.FilesRejected > 0 {
		fmt.Fprintf(w, "Rejected catalog rows    : %d\n", s.FilesRejected)
	}
	fmt.Fprintf(w, "Catalog inserts          : %d\n", s.FileInserts)
	fmt.Fprintf(w, "Catalog insert time      : %s\n", formatSeconds(s.FileInsertTime))
	fmt.Fprintf(w, "Archive add time         : %s\n", formatSeconds(s.ArchiveAddTime))
	fmt.Fprintf(w, "Hash time                : %s\n", formatSeconds(s.HashTime))

	if s.FileInserts > 0 {
		fmt.Fprintf(w, "Avg time per insert      : %s\n", formatSeconds(s.FileInsertTime/time.Duration(s.FileInserts)))
	}
	if s.FilesAllowed > 0 {
		fmt.Fprintf(w, "Avg time per archive add : %s\n", formatSeconds(s.ArchiveAddTime/time.Duration(s.FilesAllowed)))
	}
	if s.FilesHashed > 0 {
		fmt.Fprintf(w, "Avg time per hash        : %s\n", formatSeconds(s.HashTime/time.Duration(s.FilesHashed)))
	}
}

// WriteOutcomeCounts prints the number of cataloged files per outcome.
func WriteOutcomeCounts(w io.Writer, counts map[bk.Outcome]int64) {
	for _, o := range bk.Outcomes() {
		fmt.Fprintf(w, "%-24s : %d\n", o.Label(), counts[o])
	}
}

func formatSeconds(d time.Duration) string {
	return fmt.Sprintf("%.6fs", d.Seconds())
}
