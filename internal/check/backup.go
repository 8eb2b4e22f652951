package check

import (
	"github.com/hwmon-plugins/check-adaptec-raid/internal/arcconf"
	"github.com/hwmon-plugins/check-adaptec-raid/internal/output"
	"github.com/hwmon-plugins/check-adaptec-raid/internal/threshold"
)

// evaluateBackupUnit applies the cache backup unit (ZMM) policy. The overall
// unit status is Critical when not Ready; the non-volatile storage and
// supercap sub-statuses only warn. Temperature goes through the backup unit
// threshold ranges. Voltage, health percentage, and charge level carry no
// verdict but are captured for reporting.
func evaluateBackupUnit(st *State, rec arcconf.Record, warn, crit threshold.Range) {
	st.beginCategory(catBackup)

	// Newer firmware reports "Overall Backup Unit Status"; older firmware
	// has a plain "Status" field that also reads "ZMM Optimal" when healthy.
	if v, ok := rec.Fields["Overall Backup Unit Status"]; ok {
		if v != "Ready" {
			st.addFinding(catBackup, Finding{
				ID: "ZMM_Overall_Status", Severity: output.Critical, Value: v,
			})
		}
	} else if v, ok := rec.Fields["Status"]; ok {
		if v != "Ready" && v != "ZMM Optimal" {
			st.addFinding(catBackup, Finding{
				ID: "ZMM_Overall_Status", Severity: output.Critical, Value: v,
			})
		}
	}

	if v, ok := rec.Fields["Non-Volatile Storage Status"]; ok && v != "Ready" {
		st.addFinding(catBackup, Finding{
			ID: "ZMM_NonVolatile_Storage", Severity: output.Warning, Value: v,
		})
	}
	if v, ok := rec.Fields["Supercap Status"]; ok && v != "Ready" {
		st.addFinding(catBackup, Finding{
			ID: "ZMM_Supercap", Severity: output.Warning, Value: v,
		})
	}

	if raw, ok := rec.Fields["Current Temperature"]; ok {
		if temp, ok := leadingFloat(raw); ok {
			display := formatNumber(temp)
			st.Values["ZMM_Temperature"] = display
			switch {
			case crit.Violated(temp):
				st.addFinding(catBackup, Finding{
					ID: "ZMM_Temperature", Severity: output.Critical, Value: display,
				})
			case warn.Violated(temp):
				st.addFinding(catBackup, Finding{
					ID: "ZMM_Temperature", Severity: output.Warning, Value: display,
				})
			}
		}
	}

	captureScalar(st, rec, "ZMM_Health", "Health Status", "Health")
	captureScalar(st, rec, "ZMM_Voltage", "Present Voltage", "Voltage")
	captureScalar(st, rec, "ZMM_Charge", "Charge Level", "Relative Charge")
}

// captureScalar stores the numeric prefix of the first matching field under
// the given key. Field names differ between firmware revisions.
func captureScalar(st *State, rec arcconf.Record, key string, fieldNames ...string) {
	for _, name := range fieldNames {
		raw, ok := rec.Fields[name]
		if !ok {
			continue
		}
		if v, ok := leadingFloat(raw); ok {
			st.Values[key] = formatNumber(v)
		}
		return
	}
}
