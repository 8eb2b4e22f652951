package check

import (
	"github.com/hwmon-plugins/check-adaptec-raid/internal/arcconf"
	"github.com/hwmon-plugins/check-adaptec-raid/internal/output"
)

// healthyDriveStates are the drive states that carry no finding. Anything
// else (Failed, Missing, Rebuilding, ...) is Critical.
var healthyDriveStates = map[string]struct{}{
	"Online":              {},
	"Global Hot-Spare":    {},
	"Dedicated Hot-Spare": {},
	"Pooled Hot-Spare":    {},
	"Hot Spare":           {},
	"Ready":               {},
	"Online (JBOD)":       {},
	"Raw (Pass Through)":  {},
}

// evaluatePhysicalDevices applies the physical drive policy to every parsed
// record: state whitelist, SMART trip, SMART warning counter, spindle power
// state, and failed logical device segments.
func evaluatePhysicalDevices(st *State, recs []arcconf.Record) {
	st.beginCategory(catPhysical)

	for _, rec := range recs {
		if v, ok := rec.Fields["State"]; ok {
			if _, healthy := healthyDriveStates[v]; !healthy {
				st.addFinding(catPhysical, Finding{
					ID: rec.ID + "_State", Severity: output.Critical, Value: v,
				})
			}
		}
		if v, ok := rec.Fields["S.M.A.R.T."]; ok && v != "No" {
			st.addFinding(catPhysical, Finding{
				ID: rec.ID + "_SMART", Severity: output.Critical, Value: v,
			})
		}
		if v, ok := rec.Fields["S.M.A.R.T. warnings"]; ok && v != "0" {
			st.addFinding(catPhysical, Finding{
				ID: rec.ID + "_SMART_warnings", Severity: output.Warning, Value: v,
			})
		}
		if v, ok := rec.Fields["Power State"]; ok && v != "Full rpm" {
			st.addFinding(catPhysical, Finding{
				ID: rec.ID + "_Power_State", Severity: output.Critical, Value: v,
			})
		}
		if v, ok := rec.Fields["Failed logical device segments"]; ok && v != "False" {
			st.addFinding(catPhysical, Finding{
				ID: rec.ID + "_Failed_Segments", Severity: output.Critical, Value: v,
			})
		}
	}
}
