package bk

import "testing"

func TestExtension(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{name: "photo.jpg", want: "jpg"},
		{name: "/data/archive.tar.gz", want: "gz"},
		{name: ".bashrc", want: ""},
		{name: "..hidden.txt", want: "txt"},
		{name: "README", want: ""},
		{name: "file.", want: ""},
		{name: "/some.dir/Makefile", want: ""},
		{name: "IMG.JPG", want: "JPG"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Extension(tt.name); got != tt.want {
				t.Errorf("Extension(%q) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

func TestExclusionPolicy_Classify(t *testing.T) {
	p := NewExclusionPolicy([]string{"iso", "tmp", ""}, 0)

	tests := []struct {
		name string
		want Outcome
	}{
		{name: "/d/image.iso", want: OutcomeExcludedByExtension},
		{name: "/d/image.ISO", want: OutcomeAccepted},
		{name: "/d/notes.txt", want: OutcomeAccepted},
		{name: "/d/Makefile", want: OutcomeExcludedByExtension},
		{name: "/d/.profile", want: OutcomeExcludedByExtension},
		{name: "/d/scratch.tmp", want: OutcomeExcludedByExtension},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.Classify(tt.name); got != tt.want {
				t.Errorf("Classify(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestExclusionPolicy_ShouldHash(t *testing.T) {
	p := NewExclusionPolicy([]string{"iso"}, 100)

	tests := []struct {
		name    string
		outcome Outcome
		size    int64
		want    bool
	}{
		{name: "accepted small", outcome: OutcomeAccepted, size: 1, want: true},
		{name: "accepted large", outcome: OutcomeAccepted, size: 1 << 40, want: true},
		{name: "excluded below threshold", outcome: OutcomeExcludedByExtension, size: 99, want: true},
		{name: "excluded at threshold", outcome: OutcomeExcludedByExtension, size: 100, want: true},
		{name: "excluded above threshold", outcome: OutcomeExcludedByExtension, size: 101, want: false},
		{name: "read error", outcome: OutcomeReadError, size: 1, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.ShouldHash(tt.outcome, tt.size); got != tt.want {
				t.Errorf("ShouldHash(%v, %d) = %v, want %v", tt.outcome, tt.size, got, tt.want)
			}
		})
	}
}

func TestNewExclusionPolicy_Dedupes(t *testing.T) {
	p := NewExclusionPolicy([]string{"iso", "tmp", "iso", "tmp", "log"}, 5)

	got := p.Extensions()
	want := []string{"iso", "tmp", "log"}
	if len(got) != len(want) {
		t.Fatalf("Extensions() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Extensions()[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	got[0] = "changed"
	if p.Extensions()[0] != "iso" {
		t.Error("Extensions() returned the policy's internal slice")
	}
	if p.HashMaxSize() != 5 {
		t.Errorf("HashMaxSize() = %d, want 5", p.HashMaxSize())
	}
}

func TestRunStats_Apply(t *testing.T) {
	var s RunStats
	s.apply(tally{outcome: OutcomeAccepted, size: 10, hashed: true})
	s.apply(tally{outcome: OutcomeExcludedByExtension, size: 7, hashed: true})
	s.apply(tally{outcome: OutcomeExcludedByExtension, size: 1000})
	s.apply(tally{outcome: OutcomeReadError})
	s.apply(tally{outcome: OutcomeArchiveError, size: 3, hashed: true})

	want := RunStats{
		FilesAllowed:       1,
		FilesAllowedBytes:  10,
		FilesExcluded:      2,
		FilesExcludedBytes: 1007,
		FilesErrored:       2,
		FilesHashed:        3,
	}
	if s != want {
		t.Errorf("stats = %+v, want %+v", s, want)
	}
}
