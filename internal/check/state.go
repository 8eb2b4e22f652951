package check

import (
	"github.com/hwmon-plugins/check-adaptec-raid/internal/arcconf"
	"github.com/hwmon-plugins/check-adaptec-raid/internal/output"
)

// The four fixed evaluation categories. Status keys and summary
// abbreviations derive from these tags.
const (
	catController = "CTR"
	catLogical    = "LD"
	catPhysical   = "PD"
	catBackup     = "ZMM"
)

// Finding is a single non-OK evaluation result tied to one sensor.
type Finding struct {
	ID       string        // sensor identifier, e.g. "CTR_Temperature", "pd0_State"
	Severity output.Status // Warning or Critical
	Value    string        // offending display value
}

// State is the aggregation state of one run. It is created empty, mutated by
// each evaluation step in sequence (single writer, no aliasing), and read
// only once handed to the renderer.
type State struct {
	Overall   output.Status
	Warnings  []string          // warning sensor identifiers, insertion order
	Criticals []string          // critical sensor identifiers, insertion order
	Values    map[string]string // sensor/metric identifier -> display value
	Commands  []string          // executed command lines, in order

	// Parsed records retained for the verbosity-3 dump.
	Controller      *arcconf.Record
	LogicalDevices  []arcconf.Record
	PhysicalDevices []arcconf.Record
}

// NewState returns an empty aggregation state with overall verdict OK.
func NewState() *State {
	return &State{
		Overall: output.OK,
		Values:  make(map[string]string),
	}
}

// addFinding folds one finding into the state: the sensor joins the matching
// identifier sequence, its value is recorded for rendering, and both the
// category verdict and the overall verdict are raised. Severity never
// regresses; the join keeps the greater verdict.
func (s *State) addFinding(category string, f Finding) {
	switch f.Severity {
	case output.Critical:
		s.Criticals = append(s.Criticals, f.ID)
	case output.Warning:
		s.Warnings = append(s.Warnings, f.ID)
	default:
		return
	}

	if f.Value != "" {
		s.Values[f.ID] = f.Value
	}
	s.Overall = s.Overall.Merge(f.Severity)
	s.raiseCategory(category, f.Severity)
}

// beginCategory marks a category as evaluated, defaulting its verdict to OK.
// A category with zero findings stays OK.
func (s *State) beginCategory(category string) {
	key := category + "_Status"
	if _, ok := s.Values[key]; !ok {
		s.Values[key] = output.OK.String()
	}
}

func (s *State) raiseCategory(category string, sev output.Status) {
	key := category + "_Status"
	cur := output.ParseStatus(s.Values[key])
	s.Values[key] = cur.Merge(sev).String()
}

// Report copies the final state into the renderer's read-only view.
func (s *State) Report(opts Options, verbosity int) *output.Report {
	return &output.Report{
		Overall:         s.Overall,
		Warnings:        s.Warnings,
		Criticals:       s.Criticals,
		Values:          s.Values,
		Commands:        s.Commands,
		Controller:      s.Controller,
		LogicalDevices:  s.LogicalDevices,
		PhysicalDevices: s.PhysicalDevices,
		TempWarning:     opts.TempWarning.String(),
		TempCritical:    opts.TempCritical.String(),
		ZMMWarning:      opts.ZMMWarning.String(),
		ZMMCritical:     opts.ZMMCritical.String(),
		Verbosity:       verbosity,
	}
}
