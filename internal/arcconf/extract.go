package arcconf

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Block-start patterns. Firmware revisions vary the capitalization of
// "Logical device number" / "Logical Device number", hence (?i).
var (
	logicalStartRe  = regexp.MustCompile(`(?i)^Logical device number (\d+)`)
	physicalStartRe = regexp.MustCompile(`^Device #(\d+)`)
)

// ParseController extracts the singleton controller record from GETCONFIG AD
// output. The block opens at the controller information header and completes
// once the Boot Flash version field has been seen, which is the last field of
// the version section. ok is false when the output carries no complete
// controller block.
func ParseController(lines []string) (Record, bool) {
	recs := ParseBlocks(lines, Section{
		Start: func(line string) (string, bool) {
			if strings.HasPrefix(line, "Controller information") ||
				strings.HasPrefix(line, "Controller Version Information") {
				return "", true
			}
			return "", false
		},
		Done: func(fields map[string]string) bool {
			_, ok := fields["Boot Flash"]
			return ok
		},
	})
	if len(recs) == 0 {
		return Record{}, false
	}
	return recs[0], true
}

// ParseLogicalDevices extracts logical device records from GETCONFIG LD
// output, tagged ld<N>. With a non-nil allow-list, blocks for numbers outside
// it are never opened; a count mismatch between the allow-list and the
// produced records means a requested device does not exist and is terminal.
func ParseLogicalDevices(lines []string, allow []int) ([]Record, error) {
	allowed := toSet(allow)
	recs := ParseBlocks(lines, Section{
		Start: deviceStart(logicalStartRe, "ld", allowed),
		Done: func(fields map[string]string) bool {
			_, ok := fields["Power settings"]
			return ok
		},
	})
	if allowed != nil && len(recs) != len(allowed) {
		return nil, fmt.Errorf("%w: %d logical devices requested, %d found",
			ErrInvalidInput, len(allowed), len(recs))
	}
	return recs, nil
}

// ParsePhysicalDevices extracts physical drive records from GETCONFIG PD
// output, tagged pd<N>. A block completes on the NCQ status or MaxIQ Cache
// Assigned field, whichever is seen first. Blocks that report an Enclosure ID
// before completing describe enclosure service devices, not drives, and are
// discarded. Allow-list semantics match ParseLogicalDevices.
func ParsePhysicalDevices(lines []string, allow []int) ([]Record, error) {
	allowed := toSet(allow)
	recs := ParseBlocks(lines, Section{
		Start: deviceStart(physicalStartRe, "pd", allowed),
		Done: func(fields map[string]string) bool {
			if _, ok := fields["NCQ status"]; ok {
				return true
			}
			_, ok := fields["MaxIQ Cache Assigned"]
			return ok
		},
		Discard: func(fields map[string]string) bool {
			_, ok := fields["Enclosure ID"]
			return ok
		},
	})
	if allowed != nil && len(recs) != len(allowed) {
		return nil, fmt.Errorf("%w: %d physical devices requested, %d found",
			ErrInvalidInput, len(allowed), len(recs))
	}
	return recs, nil
}

// ParseBackupUnit extracts the cache backup unit (ZMM) record. The section
// has no completion field: everything from its header to the end of input is
// one record. ok is false when no backup unit section is present.
func ParseBackupUnit(lines []string) (Record, bool) {
	recs := ParseBlocks(lines, Section{Start: backupUnitStart})
	if len(recs) == 0 {
		return Record{}, false
	}
	return recs[0], true
}

// BackupUnitPresent reports whether the output carries a backup unit section.
func BackupUnitPresent(lines []string) bool {
	for _, raw := range lines {
		if _, ok := backupUnitStart(strings.TrimSpace(raw)); ok {
			return true
		}
	}
	return false
}

// HasZMMFailure reports whether the output mentions a failed ZMM anywhere.
// The firmware prints "ZMM Failed" outside the structured sections, so this
// scans the raw lines independently of block parsing.
func HasZMMFailure(lines []string) bool {
	for _, line := range lines {
		if strings.Contains(line, "ZMM Failed") {
			return true
		}
	}
	return false
}

func backupUnitStart(line string) (string, bool) {
	if strings.HasPrefix(line, "Controller Cache Backup") ||
		strings.HasPrefix(line, "Controller ZMM Information") {
		return "", true
	}
	return "", false
}

// deviceStart builds a start predicate for numbered device blocks, applying
// the optional allow-list and tagging records as <prefix><N>.
func deviceStart(re *regexp.Regexp, prefix string, allowed map[int]struct{}) func(string) (string, bool) {
	return func(line string) (string, bool) {
		m := re.FindStringSubmatch(line)
		if m == nil {
			return "", false
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return "", false
		}
		if allowed != nil {
			if _, ok := allowed[n]; !ok {
				return "", false
			}
		}
		return prefix + strconv.Itoa(n), true
	}
}

func toSet(nums []int) map[int]struct{} {
	if len(nums) == 0 {
		return nil
	}
	s := make(map[int]struct{}, len(nums))
	for _, n := range nums {
		s[n] = struct{}{}
	}
	return s
}
