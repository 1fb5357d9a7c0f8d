package bk

import "testing"

func TestOutcome_CodesAndLabels(t *testing.T) {
	tests := []struct {
		outcome Outcome
		code    int64
		label   string
		isError bool
	}{
		{outcome: OutcomeAccepted, code: 0, label: "Success"},
		{outcome: OutcomeExcludedByExtension, code: 1, label: "Excluded extension"},
		{outcome: OutcomeReadError, code: 2, label: "IOError", isError: true},
		{outcome: OutcomeArchiveError, code: 3, label: "TarError", isError: true},
	}
	for _, tt := range tests {
		t.Run(tt.outcome.String(), func(t *testing.T) {
			if int64(tt.outcome) != tt.code {
				t.Errorf("code = %d, want %d", tt.outcome, tt.code)
			}
			if tt.outcome.Label() != tt.label {
				t.Errorf("Label() = %q, want %q", tt.outcome.Label(), tt.label)
			}
			if tt.outcome.IsError() != tt.isError {
				t.Errorf("IsError() = %v, want %v", tt.outcome.IsError(), tt.isError)
			}
			parsed, err := ParseOutcome(tt.code)
			if err != nil {
				t.Fatalf("ParseOutcome(%d) error = %v", tt.code, err)
			}
			if parsed != tt.outcome {
				t.Errorf("ParseOutcome(%d) = %v, want %v", tt.code, parsed, tt.outcome)
			}
		})
	}

	if _, err := ParseOutcome(4); err == nil {
		t.Error("ParseOutcome(4) expected error")
	}
	if len(Outcomes()) != 4 {
		t.Errorf("len(Outcomes()) = %d, want 4", len(Outcomes()))
	}
}
