package bk

import "fmt"

// Outcome classifies what happened to a discovered file during a run.
// Every FileRecord carries exactly one Outcome. The numeric values are
// persisted in the catalog and must not change.
type Outcome uint8

const (
	// OutcomeAccepted means the file was stat'ed, hashed and appended to the archive.
	OutcomeAccepted Outcome = 0

	// OutcomeExcludedByExtension means the file's extension is in the exclusion set.
	// The file is cataloged but never archived.
	OutcomeExcludedByExtension Outcome = 1

	// OutcomeReadError means the file could not be stat'ed or read.
	OutcomeReadError Outcome = 2

	// OutcomeArchiveError means the archive writer failed to append an accepted file.
	OutcomeArchiveError Outcome = 3
)

// Outcomes lists every outcome in code order.
func Outcomes() []Outcome {
	return []Outcome{
		OutcomeAccepted,
		OutcomeExcludedByExtension,
		OutcomeReadError,
		OutcomeArchiveError,
	}
}

// Label returns the human-readable label stored in the outcome_code lookup table.
func (o Outcome) Label() string {
	switch o {
	case OutcomeAccepted:
		return "Success"
	case OutcomeExcludedByExtension:
		return "Excluded extension"
	case OutcomeReadError:
		return "IOError"
	case OutcomeArchiveError:
		return "TarError"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(o))
	}
}

// String returns a short lowercase name, used in log output.
func (o Outcome) String() string {
	switch o {
	case OutcomeAccepted:
		return "accepted"
	case OutcomeExcludedByExtension:
		return "excluded"
	case OutcomeReadError:
		return "read_error"
	case OutcomeArchiveError:
		return "archive_error"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(o))
	}
}

// IsError reports whether the outcome counts towards files_errored.
func (o Outcome) IsError() bool {
	return o == OutcomeReadError || o == OutcomeArchiveError
}

// ParseOutcome converts a stored code back into an Outcome.
func ParseOutcome(code int64) (Outcome, error) {
	for _, o := range Outcomes() {
		if int64(o) == code {
			return o, nil
		}
	}
	return 0, fmt.Errorf("unknown outcome code: %d", code)
}
