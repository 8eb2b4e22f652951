package check

import (
	"github.com/hwmon-plugins/check-adaptec-raid/internal/arcconf"
	"github.com/hwmon-plugins/check-adaptec-raid/internal/output"
)

// evaluateLogicalDevices applies the logical device policy to every parsed
// record: a non-Optimal device is Critical, failed stripes are a Warning.
func evaluateLogicalDevices(st *State, recs []arcconf.Record) {
	st.beginCategory(catLogical)

	for _, rec := range recs {
		if v, ok := rec.Fields["Status of logical device"]; ok && v != "Optimal" {
			st.addFinding(catLogical, Finding{
				ID: rec.ID + "_Status", Severity: output.Critical, Value: v,
			})
		}
		if v, ok := rec.Fields["Failed stripes"]; ok && v != "No" {
			st.addFinding(catLogical, Finding{
				ID: rec.ID + "_Failed_Stripes", Severity: output.Warning, Value: v,
			})
		}
	}
}
