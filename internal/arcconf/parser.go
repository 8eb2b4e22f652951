// Package arcconf drives the Adaptec arcconf command-line utility and parses
// its free-text GETCONFIG output into structured records. Output is organized
// in named sections ("blocks") of aligned "key : value" lines; the parser
// here is a generic block scanner that the domain extractors configure with
// per-section start and completion rules.
package arcconf

import "strings"

// Record is one parsed block: an identity tag (e.g. "ld3", "pd1", empty for
// singleton blocks) and its key/value fields. Records are immutable once
// returned by ParseBlocks.
type Record struct {
	ID     string
	Fields map[string]string
}

// Section configures the block scanner for one kind of section.
type Section struct {
	// Start recognizes a block-start line and optionally captures the
	// block's identity tag. The start line itself contributes no fields.
	Start func(line string) (id string, ok bool)

	// Done reports whether the open record is complete, tested after every
	// field assignment. A nil Done means the record completes only at end
	// of input; otherwise a record still open at end of input is dropped.
	Done func(fields map[string]string) bool

	// Discard, when non-nil and true, abandons the open record without
	// emitting it and returns the scanner to idle. Used to skip enclosure
	// service devices that share the physical-device block shape.
	Discard func(fields map[string]string) bool
}

// ParseBlocks scans lines in order and extracts every complete block matching
// the section rules. Lines are trimmed before matching. Field lines split on
// the first colon followed by whitespace, both sides trimmed; a duplicate key
// overwrites the earlier value (last write wins).
func ParseBlocks(lines []string, sec Section) []Record {
	var out []Record
	var cur *Record

	for _, raw := range lines {
		line := strings.TrimSpace(raw)

		if cur == nil {
			if id, ok := sec.Start(line); ok {
				cur = &Record{ID: id, Fields: make(map[string]string)}
			}
			continue
		}

		key, value, ok := splitField(line)
		if !ok {
			continue
		}
		cur.Fields[key] = value

		if sec.Discard != nil && sec.Discard(cur.Fields) {
			cur = nil
			continue
		}
		if sec.Done != nil && sec.Done(cur.Fields) {
			out = append(out, *cur)
			cur = nil
		}
	}

	// With no completion rule the trailing block is one record; with one,
	// an incomplete trailing block is intentionally dropped.
	if cur != nil && sec.Done == nil {
		out = append(out, *cur)
	}

	return out
}

// splitField splits a "key : value" line on the first colon that is followed
// by whitespace. Keys and values are trimmed. Lines without such a separator
// (headers, rules, blanks) are not field lines.
func splitField(line string) (key, value string, ok bool) {
	for i := 0; i+1 < len(line); i++ {
		if line[i] != ':' {
			continue
		}
		if c := line[i+1]; c != ' ' && c != '\t' {
			continue
		}
		key = strings.TrimSpace(line[:i])
		value = strings.TrimSpace(line[i+1:])
		if key == "" {
			return "", "", false
		}
		return key, value, true
	}
	return "", "", false
}
