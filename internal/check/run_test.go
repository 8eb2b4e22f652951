package check

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/hwmon-plugins/check-adaptec-raid/internal/arcconf"
	"github.com/hwmon-plugins/check-adaptec-raid/internal/output"
	"github.com/hwmon-plugins/check-adaptec-raid/internal/threshold"
)

const adOK = `Controllers found: 1
----------------------------------------------------------------------
Controller information
----------------------------------------------------------------------
   Controller Status                        : Optimal
   Controller Model                         : Adaptec 6805
   Temperature                              : 45.0 C
   Defunct disk drive count                 : 0
   Logical devices/Failed/Degraded          : 2/0/0
   --------------------------------------------------------
   Controller Version Information
   --------------------------------------------------------
   BIOS                                     : 5.2-0 (19109)
   Boot Flash                               : 5.2-0 (19109)
   --------------------------------------------------------
   Controller Cache Backup Unit Information
   --------------------------------------------------------
   Overall Backup Unit Status               : Ready
   Non-Volatile Storage Status              : Ready
   Supercap Status                          : Ready
   Current Temperature                      : 32 deg C
   Health Status                            : 100 percent
   Charge Level                             : 100 percent
   Present Voltage                          : 8.2 V
`

const ldOK = `Controllers found: 1
Logical device information
Logical device number 0
   Logical device name                      : RAID1A
   Status of logical device                 : Optimal
   Failed stripes                           : No
   Power settings                           : Disabled

Logical device number 1
   Logical device name                      : RAID1B
   Status of logical device                 : Optimal
   Failed stripes                           : No
   Power settings                           : Disabled
`

const pdOK = `Controllers found: 1
Physical Device information
      Device #0
         Device is a Hard drive
         State                              : Online
         S.M.A.R.T.                         : No
         S.M.A.R.T. warnings                : 0
         Power State                        : Full rpm
         Failed logical device segments     : False
         NCQ status                         : Enabled
`

type mockClient struct {
	ad   string
	ld   string
	pd   string
	errs map[string]error
	cmds []string
}

func (m *mockClient) GetConfig(_ context.Context, target string) ([]string, error) {
	m.cmds = append(m.cmds, "arcconf GETCONFIG 1 "+target)
	if err := m.errs[target]; err != nil {
		return nil, err
	}
	switch target {
	case "AD":
		return strings.Split(m.ad, "\n"), nil
	case "LD":
		return strings.Split(m.ld, "\n"), nil
	case "PD":
		return strings.Split(m.pd, "\n"), nil
	}
	return nil, nil
}

func (m *mockClient) Commands() []string { return m.cmds }

func defaultOptions(t *testing.T) Options {
	t.Helper()
	mustParse := func(spec string) threshold.Range {
		r, err := threshold.Parse(spec)
		if err != nil {
			t.Fatalf("Parse(%q): %v", spec, err)
		}
		return r
	}
	return Options{
		TempWarning:  mustParse("80"),
		TempCritical: mustParse("90"),
		ZMMWarning:   mustParse("50"),
		ZMMCritical:  mustParse("60"),
		ZMMRequired:  true,
	}
}

func contains(ids []string, id string) bool {
	for _, have := range ids {
		if have == id {
			return true
		}
	}
	return false
}

func TestRunAllNominal(t *testing.T) {
	client := &mockClient{ad: adOK, ld: ldOK, pd: pdOK}

	st, err := Run(context.Background(), client, defaultOptions(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if st.Overall != output.OK {
		t.Errorf("Overall = %v, want OK", st.Overall)
	}
	if len(st.Warnings) != 0 || len(st.Criticals) != 0 {
		t.Errorf("flagged sensors on a nominal run: warnings %v, criticals %v",
			st.Warnings, st.Criticals)
	}
	for _, key := range []string{"CTR_Status", "LD_Status", "PD_Status", "ZMM_Status"} {
		if got := st.Values[key]; got != "OK" {
			t.Errorf("Values[%q] = %q, want OK", key, got)
		}
	}
	if got := st.Values["CTR_Temperature"]; got != "45" {
		t.Errorf("Values[CTR_Temperature] = %q, want 45", got)
	}
	if got := st.Values["ZMM_Health"]; got != "100" {
		t.Errorf("Values[ZMM_Health] = %q, want 100", got)
	}

	summary := st.Report(defaultOptions(t), 0).Summary()
	if summary != "OK (CTR, LD, PD, ZMM)" {
		t.Errorf("Summary() = %q, want %q", summary, "OK (CTR, LD, PD, ZMM)")
	}

	// Presence, detail, controller, LD, PD: five sequential invocations.
	want := []string{
		"arcconf GETCONFIG 1 AD",
		"arcconf GETCONFIG 1 AD",
		"arcconf GETCONFIG 1 AD",
		"arcconf GETCONFIG 1 LD",
		"arcconf GETCONFIG 1 PD",
	}
	if len(st.Commands) != len(want) {
		t.Fatalf("Commands = %v, want %v", st.Commands, want)
	}
	for i, cmd := range want {
		if st.Commands[i] != cmd {
			t.Errorf("Commands[%d] = %q, want %q", i, st.Commands[i], cmd)
		}
	}
}

func TestRunControllerOverTemperature(t *testing.T) {
	client := &mockClient{
		ad: strings.Replace(adOK, "Temperature                              : 45.0 C",
			"Temperature                              : 95.0 C", 1),
		ld: ldOK,
		pd: pdOK,
	}

	st, err := Run(context.Background(), client, defaultOptions(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if st.Overall != output.Critical {
		t.Errorf("Overall = %v, want Critical", st.Overall)
	}
	if !contains(st.Criticals, "CTR_Temperature") {
		t.Errorf("Criticals = %v, want CTR_Temperature flagged", st.Criticals)
	}
	if got := st.Values["CTR_Status"]; got != "Critical" {
		t.Errorf("Values[CTR_Status] = %q, want Critical", got)
	}

	summary := st.Report(defaultOptions(t), 0).Summary()
	if !strings.Contains(summary, "[CTR_Temperature = Critical]") {
		t.Errorf("Summary() = %q, want it to contain [CTR_Temperature = Critical]", summary)
	}
	if !strings.Contains(summary, "(CTR Crit)") {
		t.Errorf("Summary() = %q, want it to contain (CTR Crit)", summary)
	}
}

func TestRunSMARTWarnings(t *testing.T) {
	client := &mockClient{
		ad: adOK,
		ld: ldOK,
		pd: strings.Replace(pdOK, "S.M.A.R.T. warnings                : 0",
			"S.M.A.R.T. warnings                : 3", 1),
	}

	st, err := Run(context.Background(), client, defaultOptions(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if st.Overall != output.Warning {
		t.Errorf("Overall = %v, want Warning", st.Overall)
	}
	if !contains(st.Warnings, "pd0_SMART_warnings") {
		t.Errorf("Warnings = %v, want pd0_SMART_warnings flagged", st.Warnings)
	}
	if got := st.Values["pd0_SMART_warnings"]; got != "3" {
		t.Errorf("Values[pd0_SMART_warnings] = %q, want 3", got)
	}
}

func TestRunZMMFailed(t *testing.T) {
	client := &mockClient{
		ad: adOK + "   Status                                   : ZMM Failed\n",
		ld: ldOK,
		pd: pdOK,
	}

	st, err := Run(context.Background(), client, defaultOptions(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if st.Overall != output.Critical {
		t.Errorf("Overall = %v, want Critical", st.Overall)
	}
	if !contains(st.Criticals, "ZMM_Present") {
		t.Errorf("Criticals = %v, want ZMM_Present flagged", st.Criticals)
	}
	// The structured backup unit evaluation must not have run.
	if _, ok := st.Values["ZMM_Temperature"]; ok {
		t.Error("ZMM_Temperature captured despite ZMM_Present short-circuit")
	}
}

func TestRunZMMMissing(t *testing.T) {
	// Strip the backup unit section entirely.
	idx := strings.Index(adOK, "   Controller Cache Backup")
	adNoZMM := adOK[:idx]

	opts := defaultOptions(t)
	client := &mockClient{ad: adNoZMM, ld: ldOK, pd: pdOK}
	st, err := Run(context.Background(), client, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.Overall != output.Critical || !contains(st.Criticals, "ZMM_Present") {
		t.Errorf("Overall = %v, Criticals = %v, want Critical with ZMM_Present", st.Overall, st.Criticals)
	}

	// With the backup unit not required, the category is skipped and the
	// run is clean.
	opts.ZMMRequired = false
	client = &mockClient{ad: adNoZMM, ld: ldOK, pd: pdOK}
	st, err = Run(context.Background(), client, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.Overall != output.OK {
		t.Errorf("Overall = %v, want OK when backup unit is optional", st.Overall)
	}
	if _, ok := st.Values["ZMM_Status"]; ok {
		t.Error("ZMM_Status set although the category was skipped")
	}
}

func TestRunDegradedLogicalDevice(t *testing.T) {
	client := &mockClient{
		ad: adOK,
		ld: strings.Replace(ldOK, ": Optimal", ": Degraded", 1),
		pd: pdOK,
	}

	st, err := Run(context.Background(), client, defaultOptions(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.Overall != output.Critical {
		t.Errorf("Overall = %v, want Critical", st.Overall)
	}
	if !contains(st.Criticals, "ld0_Status") {
		t.Errorf("Criticals = %v, want ld0_Status flagged", st.Criticals)
	}
	if got := st.Values["ld0_Status"]; got != "Degraded" {
		t.Errorf("Values[ld0_Status] = %q, want Degraded", got)
	}
}

func TestRunCommandFailure(t *testing.T) {
	client := &mockClient{
		ad:   adOK,
		ld:   ldOK,
		pd:   pdOK,
		errs: map[string]error{"LD": arcconf.ErrCommandFailed},
	}

	_, err := Run(context.Background(), client, defaultOptions(t))
	if !errors.Is(err, arcconf.ErrCommandFailed) {
		t.Fatalf("err = %v, want ErrCommandFailed", err)
	}
}

func TestRunInvalidDeviceSelection(t *testing.T) {
	opts := defaultOptions(t)
	opts.LogicalDevices = []int{0, 5}

	client := &mockClient{ad: adOK, ld: ldOK, pd: pdOK}
	_, err := Run(context.Background(), client, opts)
	if !errors.Is(err, arcconf.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}
