// Package check evaluates parsed arcconf records against the health policy
// and accumulates the results into a single aggregation state: one overall
// verdict, the flagged sensors per tier, and the values needed for
// rendering. Evaluation is synchronous and strictly sequential.
package check

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/hwmon-plugins/check-adaptec-raid/internal/arcconf"
	"github.com/hwmon-plugins/check-adaptec-raid/internal/output"
	"github.com/hwmon-plugins/check-adaptec-raid/internal/threshold"
)

// Client is the command-execution boundary. It is satisfied by
// arcconf.Runner and by mock implementations in tests.
type Client interface {
	// GetConfig returns the captured output lines of one
	// `arcconf GETCONFIG <controller> <target>` invocation.
	GetConfig(ctx context.Context, target string) ([]string, error)

	// Commands returns every executed command line so far, in order.
	Commands() []string
}

// Options is the validated caller configuration for one run.
type Options struct {
	LogicalDevices  []int // allow-list of logical device numbers, nil = all
	PhysicalDevices []int // allow-list of physical device numbers, nil = all

	TempWarning  threshold.Range // controller temperature, acceptable range
	TempCritical threshold.Range
	ZMMWarning   threshold.Range // backup unit temperature, acceptable range
	ZMMCritical  threshold.Range

	ZMMRequired bool // a missing backup unit is Critical
}

// Run performs the whole health check: backup unit presence, backup unit
// detail, controller, logical devices, physical devices — five sequential
// arcconf invocations feeding one shared state. Any command or input failure
// aborts the run; the caller reports it as indeterminate.
func Run(ctx context.Context, client Client, opts Options) (*State, error) {
	st := NewState()

	// Backup unit presence is a precondition: a missing or failed unit
	// short-circuits the whole category and skips the detail evaluation.
	adLines, err := client.GetConfig(ctx, "AD")
	if err != nil {
		return nil, err
	}
	present := arcconf.BackupUnitPresent(adLines)
	failed := arcconf.HasZMMFailure(adLines)

	switch {
	case failed || (opts.ZMMRequired && !present):
		st.beginCategory(catBackup)
		value := "Not Present"
		if failed {
			value = "ZMM Failed"
		}
		st.addFinding(catBackup, Finding{ID: "ZMM_Present", Severity: output.Critical, Value: value})
	case present:
		detail, err := client.GetConfig(ctx, "AD")
		if err != nil {
			return nil, err
		}
		if rec, ok := arcconf.ParseBackupUnit(detail); ok {
			evaluateBackupUnit(st, rec, opts.ZMMWarning, opts.ZMMCritical)
		}
	default:
		// Backup unit neither required nor detected: category skipped.
	}

	ctrLines, err := client.GetConfig(ctx, "AD")
	if err != nil {
		return nil, err
	}
	ctr, ok := arcconf.ParseController(ctrLines)
	if !ok {
		return nil, fmt.Errorf("%w: no controller information in output", arcconf.ErrCommandFailed)
	}
	st.Controller = &ctr
	evaluateController(st, ctr, opts.TempWarning, opts.TempCritical)

	ldLines, err := client.GetConfig(ctx, "LD")
	if err != nil {
		return nil, err
	}
	lds, err := arcconf.ParseLogicalDevices(ldLines, opts.LogicalDevices)
	if err != nil {
		return nil, err
	}
	st.LogicalDevices = lds
	evaluateLogicalDevices(st, lds)

	pdLines, err := client.GetConfig(ctx, "PD")
	if err != nil {
		return nil, err
	}
	pds, err := arcconf.ParsePhysicalDevices(pdLines, opts.PhysicalDevices)
	if err != nil {
		return nil, err
	}
	st.PhysicalDevices = pds
	evaluatePhysicalDevices(st, pds)

	st.Commands = client.Commands()
	return st, nil
}

// leadingFloat extracts the numeric prefix of a sensor reading such as
// "45.0 C", "33 C/ 91 F (Normal)" or "8.2 V".
func leadingFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) {
		c := s[end]
		if c >= '0' && c <= '9' || c == '.' || (end == 0 && (c == '-' || c == '+')) {
			end++
			continue
		}
		break
	}
	v, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// formatNumber renders a parsed reading compactly for the value map:
// integers without a decimal point, fractional values with minimal precision.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
