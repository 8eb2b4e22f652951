package check

import (
	"strconv"
	"strings"

	"github.com/hwmon-plugins/check-adaptec-raid/internal/arcconf"
	"github.com/hwmon-plugins/check-adaptec-raid/internal/output"
	"github.com/hwmon-plugins/check-adaptec-raid/internal/threshold"
)

// evaluateController applies the controller policy: temperature against the
// critical then warning range, controller status, defunct drive count, and
// the failed/degraded counters of the logical device summary.
func evaluateController(st *State, rec arcconf.Record, warn, crit threshold.Range) {
	st.beginCategory(catController)

	if raw, ok := rec.Fields["Temperature"]; ok {
		if temp, ok := leadingFloat(raw); ok {
			display := formatNumber(temp)
			st.Values["CTR_Temperature"] = display
			switch {
			case crit.Violated(temp):
				st.addFinding(catController, Finding{
					ID: "CTR_Temperature", Severity: output.Critical, Value: display,
				})
			case warn.Violated(temp):
				st.addFinding(catController, Finding{
					ID: "CTR_Temperature", Severity: output.Warning, Value: display,
				})
			}
		}
	}

	if v, ok := rec.Fields["Controller Status"]; ok && v != "Optimal" {
		st.addFinding(catController, Finding{
			ID: "CTR_Controller_Status", Severity: output.Critical, Value: v,
		})
	}

	if v, ok := rec.Fields["Defunct disk drive count"]; ok {
		if n, err := strconv.Atoi(v); err != nil || n != 0 {
			st.addFinding(catController, Finding{
				ID: "CTR_Defunct_Drives", Severity: output.Critical, Value: v,
			})
		}
	}

	// "Logical devices/Failed/Degraded" reads total/failed/degraded.
	if v, ok := rec.Fields["Logical devices/Failed/Degraded"]; ok {
		parts := strings.Split(v, "/")
		if len(parts) == 3 && (parts[1] != "0" || parts[2] != "0") {
			st.addFinding(catController, Finding{
				ID: "CTR_Logical_Devices", Severity: output.Critical, Value: v,
			})
		}
	}
}
