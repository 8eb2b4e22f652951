// Package threshold parses and evaluates Nagios-standard threshold ranges.
//
// A range string describes the ACCEPTABLE interval for a measured value.
// The notation follows the Nagios Plugin Development Guidelines:
//
//	10      acceptable when 0 <= value <= 10
//	10:     acceptable when value >= 10
//	~:10    acceptable when value <= 10
//	10:20   acceptable when 10 <= value <= 20
//	@10:20  acceptable when value < 10 or value > 20 (inverted)
//
// Exactly these five forms are recognized; anything else is a parse error.
// This package has zero external dependencies.
package threshold

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Range is a parsed Nagios threshold range.
type Range struct {
	Start    float64 // Lower bound of the acceptable interval.
	End      float64 // Upper bound of the acceptable interval.
	Inverted bool    // @ prefix: acceptable OUTSIDE [Start, End].
	NoLower  bool    // ~ start: no lower bound (negative infinity).
}

// Parse parses a Nagios range string into a Range.
func Parse(s string) (Range, error) {
	if s == "" {
		return Range{}, fmt.Errorf("threshold must not be empty")
	}

	r := Range{}
	spec := s

	if strings.HasPrefix(spec, "@") {
		r.Inverted = true
		spec = spec[1:]
	}

	idx := strings.Index(spec, ":")
	if idx < 0 {
		// Bare value: acceptable interval is 0..N.
		if r.Inverted {
			return Range{}, fmt.Errorf("invalid threshold %q: @ requires an explicit N:M range", s)
		}
		v, err := strconv.ParseFloat(spec, 64)
		if err != nil {
			return Range{}, fmt.Errorf("invalid threshold %q: %w", s, err)
		}
		if v < 0 {
			return Range{}, fmt.Errorf("invalid threshold %q: bare value must not be negative", s)
		}
		r.Start = 0
		r.End = v
		return r, nil
	}

	startStr := spec[:idx]
	endStr := spec[idx+1:]

	switch {
	case startStr == "~":
		if r.Inverted {
			return Range{}, fmt.Errorf("invalid threshold %q: @ requires an explicit N:M range", s)
		}
		r.NoLower = true
	case startStr == "":
		return Range{}, fmt.Errorf("invalid threshold %q: missing start value", s)
	default:
		v, err := strconv.ParseFloat(startStr, 64)
		if err != nil {
			return Range{}, fmt.Errorf("invalid start value %q: %w", startStr, err)
		}
		r.Start = v
	}

	if endStr == "" {
		if r.NoLower || r.Inverted {
			return Range{}, fmt.Errorf("invalid threshold %q: missing end value", s)
		}
		r.End = math.Inf(1)
	} else {
		v, err := strconv.ParseFloat(endStr, 64)
		if err != nil {
			return Range{}, fmt.Errorf("invalid end value %q: %w", endStr, err)
		}
		r.End = v
	}

	if !r.NoLower && !math.IsInf(r.End, 1) && r.Start > r.End {
		return Range{}, fmt.Errorf("invalid threshold %q: start exceeds end", s)
	}

	return r, nil
}

// Accepts reports whether the value falls inside the acceptable interval
// described by this range. Boundaries are inclusive for the regular forms;
// an inverted range (@N:M) accepts values strictly outside [Start, End].
func (r Range) Accepts(value float64) bool {
	var inRange bool
	if r.NoLower {
		inRange = value <= r.End
	} else {
		inRange = value >= r.Start && value <= r.End
	}

	if r.Inverted {
		return !inRange
	}
	return inRange
}

// Violated is the complement of Accepts, matching the alerting view of a
// threshold: the value triggers when it is not acceptable.
func (r Range) Violated(value float64) bool {
	return !r.Accepts(value)
}

// String serializes the Range back to Nagios range notation. The output
// round-trips through Parse to an equivalent Range and is used for the
// threshold columns of perfdata.
func (r Range) String() string {
	var b strings.Builder

	if r.Inverted {
		b.WriteByte('@')
	}

	if r.NoLower {
		b.WriteString("~:")
		b.WriteString(formatFloat(r.End))
		return b.String()
	}

	if math.IsInf(r.End, 1) {
		b.WriteString(formatFloat(r.Start))
		b.WriteByte(':')
		return b.String()
	}

	if r.Start == 0 && !r.Inverted {
		b.WriteString(formatFloat(r.End))
		return b.String()
	}

	b.WriteString(formatFloat(r.Start))
	b.WriteByte(':')
	b.WriteString(formatFloat(r.End))
	return b.String()
}

// formatFloat formats a float64 compactly: integers without a decimal point,
// fractional values with minimal precision.
func formatFloat(v float64) string {
	if v == math.Trunc(v) && !math.IsInf(v, 0) {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
