package output

import (
	"fmt"
	"sort"
	"strings"

	nagios "github.com/atc0005/go-nagios"

	"github.com/hwmon-plugins/check-adaptec-raid/internal/arcconf"
)

// Categories are the four fixed evaluation categories, in summary order.
var Categories = []string{"CTR", "LD", "PD", "ZMM"}

// Report is the read-only view of a completed run handed to the renderer.
// The aggregation state is copied in by the check package; nothing here
// mutates it.
type Report struct {
	Overall   Status
	Warnings  []string          // warning sensor identifiers, insertion order
	Criticals []string          // critical sensor identifiers, insertion order
	Values    map[string]string // sensor/metric identifier -> display value
	Commands  []string          // executed command lines, in order

	// Parsed records retained for the verbosity-3 dump.
	Controller      *arcconf.Record
	LogicalDevices  []arcconf.Record
	PhysicalDevices []arcconf.Record

	// Threshold range strings for the perfdata threshold columns.
	TempWarning  string
	TempCritical string
	ZMMWarning   string
	ZMMCritical  string

	Verbosity int
}

// Summary renders the one-line service output: the overall verdict word, the
// parenthesized category list, and one bracketed entry per flagged sensor,
// critical tier first. At verbosity >= 1 each entry carries its value.
//
// When the overall verdict is OK all four categories are listed, whether or
// not they were evaluated; otherwise only the non-OK categories appear, each
// suffixed with the first four characters of its verdict (Warn/Crit).
func (r *Report) Summary() string {
	var b strings.Builder
	b.WriteString(r.Overall.String())

	if r.Overall == OK {
		b.WriteString(" (" + strings.Join(Categories, ", ") + ")")
		return b.String()
	}

	var bad []string
	for _, cat := range Categories {
		word := r.Values[cat+"_Status"]
		if ParseStatus(word) == OK {
			continue
		}
		bad = append(bad, cat+" "+word[:4])
	}
	if len(bad) > 0 {
		b.WriteString(" (" + strings.Join(bad, ", ") + ")")
	}

	r.writeTier(&b, Critical, r.Criticals)
	r.writeTier(&b, Warning, r.Warnings)
	return b.String()
}

func (r *Report) writeTier(b *strings.Builder, level Status, ids []string) {
	for _, id := range ids {
		fmt.Fprintf(b, " [%s = %s]", id, level)
		if r.Verbosity >= 1 {
			if v, ok := r.Values[id]; ok {
				fmt.Fprintf(b, " (%s)", v)
			}
		}
	}
}

// PerfDatum is a single performance metric.
type PerfDatum struct {
	Label string
	Value string
	Warn  string
	Crit  string
}

// String renders the metric as label=value, with ;warn;crit appended when
// thresholds apply.
func (pd PerfDatum) String() string {
	s := pd.Label + "=" + pd.Value
	if pd.Warn != "" || pd.Crit != "" {
		s += ";" + pd.Warn + ";" + pd.Crit
	}
	return s
}

// PerfData selects the metric keys from the value map: temperature readings
// (with the matching warning/critical ranges attached) plus the backup unit
// health percentage and voltage. Sorted by label for determinism.
func (r *Report) PerfData() []PerfDatum {
	var data []PerfDatum
	for _, key := range sortedKeys(r.Values) {
		switch {
		case strings.Contains(key, "Temperature"):
			warn, crit := r.TempWarning, r.TempCritical
			if strings.HasPrefix(key, "ZMM") {
				warn, crit = r.ZMMWarning, r.ZMMCritical
			}
			data = append(data, PerfDatum{Label: key, Value: r.Values[key], Warn: warn, Crit: crit})
		case key == "ZMM_Health" || key == "ZMM_Voltage":
			data = append(data, PerfDatum{Label: key, Value: r.Values[key]})
		}
	}
	return data
}

// Metrics renders the performance metrics as one space-separated string.
func (r *Report) Metrics() string {
	data := r.PerfData()
	parts := make([]string, len(data))
	for i, pd := range data {
		parts[i] = pd.String()
	}
	return strings.Join(parts, " ")
}

// Verbose renders the multi-section long output. Empty below verbosity 2.
// Verbosity 2 lists the executed commands and the flagged sensors with their
// values; verbosity 3 additionally dumps every parsed record and all backup
// unit values, fields sorted by name.
func (r *Report) Verbose() string {
	if r.Verbosity < 2 {
		return ""
	}

	var b strings.Builder

	b.WriteString("Executed commands:\n")
	for _, cmd := range r.Commands {
		fmt.Fprintf(&b, "  %s\n", cmd)
	}

	if r.Overall == Critical && len(r.Criticals) > 0 {
		b.WriteString("Critical sensors:\n")
		r.writeSensors(&b, r.Criticals)
	}
	if r.Overall != OK && len(r.Warnings) > 0 {
		b.WriteString("Warning sensors:\n")
		r.writeSensors(&b, r.Warnings)
	}

	if r.Verbosity >= 3 {
		if r.Controller != nil {
			b.WriteString("Controller:\n")
			writeFields(&b, r.Controller.Fields)
		}
		for _, rec := range r.LogicalDevices {
			fmt.Fprintf(&b, "Logical device %s:\n", rec.ID)
			writeFields(&b, rec.Fields)
		}
		for _, rec := range r.PhysicalDevices {
			fmt.Fprintf(&b, "Physical device %s:\n", rec.ID)
			writeFields(&b, rec.Fields)
		}
		if zmm := r.backupUnitValues(); len(zmm) > 0 {
			b.WriteString("Backup unit:\n")
			for _, key := range zmm {
				fmt.Fprintf(&b, "  %s = %s\n", key, r.Values[key])
			}
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

func (r *Report) writeSensors(b *strings.Builder, ids []string) {
	for _, id := range ids {
		fmt.Fprintf(b, "  %s = %s\n", id, r.Values[id])
	}
}

func (r *Report) backupUnitValues() []string {
	var keys []string
	for key := range r.Values {
		if strings.HasPrefix(key, "ZMM_") {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}

// ApplyToPlugin populates a go-nagios Plugin from this report: service
// output, exit code, long output, and perfdata. go-nagios takes care of the
// output protocol and panic recovery via Plugin.ReturnCheckResults().
func (r *Report) ApplyToPlugin(p *nagios.Plugin) {
	p.ServiceOutput = r.Summary()

	switch r.Overall {
	case OK:
		p.ExitStatusCode = nagios.StateOKExitCode
	case Warning:
		p.ExitStatusCode = nagios.StateWARNINGExitCode
	case Critical:
		p.ExitStatusCode = nagios.StateCRITICALExitCode
	default:
		p.ExitStatusCode = nagios.StateUNKNOWNExitCode
	}

	if v := r.Verbose(); v != "" {
		p.LongServiceOutput = v
	}

	for _, pd := range r.PerfData() {
		_ = p.AddPerfData(false, nagios.PerformanceData{
			Label: pd.Label,
			Value: pd.Value,
			Warn:  pd.Warn,
			Crit:  pd.Crit,
		})
	}
}

func writeFields(b *strings.Builder, fields map[string]string) {
	for _, key := range sortedKeys(fields) {
		fmt.Fprintf(b, "  %s = %s\n", key, fields[key])
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
