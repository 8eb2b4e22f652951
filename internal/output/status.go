// Package output renders a completed health-check run as Nagios plugin
// output: a one-line summary, performance data, and an optional verbose
// report, bridged to go-nagios for exit-code handling.
package output

// Status is the health verdict of a sensor, a category, or the whole run.
// The ordering is the severity join: combining two verdicts keeps the
// greater, so Critical absorbs everything below it. Unknown is reserved for
// indeterminate runs (command or input failures) and never aggregates.
type Status int

const (
	OK       Status = 0
	Warning  Status = 1
	Critical Status = 2
	Unknown  Status = 3
)

// String returns the verdict word used in summary and verbose output.
func (s Status) String() string {
	switch s {
	case OK:
		return "OK"
	case Warning:
		return "Warning"
	case Critical:
		return "Critical"
	default:
		return "Unknown"
	}
}

// Merge returns the more severe of the two verdicts.
func (s Status) Merge(other Status) Status {
	if other > s {
		return other
	}
	return s
}

// ParseStatus maps a verdict word back to its Status. Unrecognized words
// (including the empty string for a category that was never evaluated)
// map to OK.
func ParseStatus(word string) Status {
	switch word {
	case "Warning":
		return Warning
	case "Critical":
		return Critical
	case "Unknown":
		return Unknown
	default:
		return OK
	}
}
