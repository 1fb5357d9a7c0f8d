package app

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"bsnap/internal/bk"
)

func TestWriteSummary(t *testing.T) {
	start := time.Date(2024, 1, 31, 12, 0, 0, 0, time.UTC)
	run := &bk.BackupRun{
		ID:          "run-1",
		Name:        "home",
		InputDirs:   []string{"/data/a", "/data/b"},
		ArchivePath: "/backup/home-240131-120000.tar.zst",
		StartedAt:   start,
		FinishedAt:  start.Add(time.Minute),
		Stats: bk.RunStats{
			FilesAllowed:      2,
			FilesAllowedBytes: 3500000,
			FilesHashed:       2,
			FileInserts:       4,
			FileInsertTime:    4 * time.Millisecond,
			ArchiveAddTime:    10 * time.Millisecond,
			HashTime:          2 * time.Millisecond,
		},
	}

	var buf bytes.Buffer
	WriteSummary(&buf, run)
	out := buf.String()

	for _, want := range []string{
		"home (run-1)",
		"/data/a, /data/b",
		"Started at               : 240131-120000",
		"Finished at              : 240131-120100",
		"Duration                 : 60.000000s",
		"Allowed files            : 2",
		"Allowed files size       : 3500000 (3.50 MB)",
		"Catalog inserts          : 4",
		"Avg time per insert      : 0.001000s",
		"Avg time per archive add : 0.005000s",
		"Avg time per hash        : 0.001000s",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Rejected") {
		t.Errorf("summary reports rejected rows when there are none:\n%s", out)
	}
}

func TestWriteSummary_NoFiles(t *testing.T) {
	var buf bytes.Buffer
	WriteSummary(&buf, &bk.BackupRun{Name: "empty"})

	if strings.Contains(buf.String(), "Avg time") {
		t.Errorf("averages printed for an empty run:\n%s", buf.String())
	}
}

func TestWriteOutcomeCounts(t *testing.T) {
	var buf bytes.Buffer
	WriteOutcomeCounts(&buf, map[bk.Outcome]int64{
		bk.OutcomeAccepted:  5,
		bk.OutcomeReadError: 1,
	})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want 4:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], "Success") || !strings.HasSuffix(lines[0], ": 5") {
		t.Errorf("line 0 = %q", lines[0])
	}
	if !strings.HasSuffix(lines[3], ": 0") {
		t.Errorf("line 3 = %q, want zero TarError count", lines[3])
	}
}
