package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"

	arg "github.com/alexflint/go-arg"
	nagios "github.com/atc0005/go-nagios"

	"github.com/hwmon-plugins/check-adaptec-raid/internal/arcconf"
	"github.com/hwmon-plugins/check-adaptec-raid/internal/check"
	"github.com/hwmon-plugins/check-adaptec-raid/internal/threshold"
)

// Args holds all CLI flags for check-adaptec-raid.
type Args struct {
	Controller      int    `arg:"-C,--controller" default:"1" help:"Controller number to check"`
	LogicalDevices  []int  `arg:"--ld,separate" help:"Logical device number to check (repeatable; default: all)"`
	PhysicalDevices []int  `arg:"--pd,separate" help:"Physical device number to check (repeatable; default: all)"`
	Warning         string `arg:"-w,--warning" default:"80" help:"Warning threshold for controller temperature (Nagios range, deg C)"`
	Critical        string `arg:"-c,--critical" default:"90" help:"Critical threshold for controller temperature (Nagios range, deg C)"`
	ZMMWarning      string `arg:"--zmm-warning" default:"50" help:"Warning threshold for backup unit temperature (Nagios range, deg C)"`
	ZMMCritical     string `arg:"--zmm-critical" default:"60" help:"Critical threshold for backup unit temperature (Nagios range, deg C)"`
	NoZMM           bool   `arg:"--no-zmm" help:"Do not require a cache backup unit (ZMM)"`
	Arcconf         string `arg:"--arcconf" default:"arcconf" help:"Path to the arcconf binary"`
	Sudo            bool   `arg:"--sudo" help:"Run arcconf through sudo"`
	Verbose         int    `arg:"-v,--verbose" default:"0" help:"Verbosity level (0-3)"`
}

// Description returns the program description for go-arg help output.
func (Args) Description() string {
	return "Nagios-compatible monitoring plugin for Adaptec/Microsemi RAID controllers"
}

func main() {
	plugin := nagios.NewPlugin()
	defer plugin.ReturnCheckResults()

	var args Args
	parser, err := arg.NewParser(arg.Config{Program: "check-adaptec-raid"}, &args)
	if err != nil {
		unknown(plugin, "Internal error: %s", err)
		return
	}

	if err := parser.Parse(os.Args[1:]); err != nil {
		switch {
		case errors.Is(err, arg.ErrHelp):
			// Nagios convention: --help exits UNKNOWN (3).
			parser.WriteHelp(os.Stdout)
			os.Exit(nagios.StateUNKNOWNExitCode)
		case errors.Is(err, arg.ErrVersion):
			os.Exit(nagios.StateUNKNOWNExitCode)
		default:
			unknown(plugin, "%s", err)
			return
		}
	}

	opts, err := buildOptions(&args)
	if err != nil {
		unknown(plugin, "%s", err)
		return
	}

	runner := &arcconf.Runner{
		Path:       args.Arcconf,
		Controller: args.Controller,
		UseSudo:    args.Sudo,
	}

	// No timeout: arcconf is a short-lived local diagnostic call.
	st, err := check.Run(context.Background(), runner, opts)
	if err != nil {
		unknown(plugin, "%s", err)
		return
	}

	st.Report(opts, args.Verbose).ApplyToPlugin(plugin)
}

// unknown reports an indeterminate outcome: validation failures, command
// failures, and bad device selections all land here, never as Warning or
// Critical.
func unknown(plugin *nagios.Plugin, format string, a ...any) {
	plugin.ServiceOutput = fmt.Sprintf("Unknown - "+format, a...)
	plugin.ExitStatusCode = nagios.StateUNKNOWNExitCode
}

// buildOptions validates all caller-supplied input before the first arcconf
// invocation and converts it into run options.
func buildOptions(args *Args) (check.Options, error) {
	var opts check.Options

	if args.Controller < 0 {
		return opts, fmt.Errorf("invalid controller number %d: must not be negative", args.Controller)
	}
	if args.Verbose < 0 || args.Verbose > 3 {
		return opts, fmt.Errorf("invalid verbosity %d: must be between 0 and 3", args.Verbose)
	}
	for _, n := range args.LogicalDevices {
		if n < 0 {
			return opts, fmt.Errorf("invalid logical device number %d: must not be negative", n)
		}
	}
	for _, n := range args.PhysicalDevices {
		if n < 0 {
			return opts, fmt.Errorf("invalid physical device number %d: must not be negative", n)
		}
	}

	var err error
	if opts.TempWarning, err = parseThreshold("warning", args.Warning); err != nil {
		return opts, err
	}
	if opts.TempCritical, err = parseThreshold("critical", args.Critical); err != nil {
		return opts, err
	}
	if opts.ZMMWarning, err = parseThreshold("zmm-warning", args.ZMMWarning); err != nil {
		return opts, err
	}
	if opts.ZMMCritical, err = parseThreshold("zmm-critical", args.ZMMCritical); err != nil {
		return opts, err
	}

	warnRangeOrdering(opts.TempWarning, opts.TempCritical)
	warnRangeOrdering(opts.ZMMWarning, opts.ZMMCritical)

	opts.LogicalDevices = args.LogicalDevices
	opts.PhysicalDevices = args.PhysicalDevices
	opts.ZMMRequired = !args.NoZMM
	return opts, nil
}

func parseThreshold(name, spec string) (threshold.Range, error) {
	r, err := threshold.Parse(spec)
	if err != nil {
		return threshold.Range{}, fmt.Errorf("invalid --%s threshold %q: expected Nagios range format", name, spec)
	}
	return r, nil
}

// warnRangeOrdering prints a note to stderr if the warning range appears
// wider than the critical range. Informational only: the Nagios convention
// allows it but it usually indicates a configuration mistake.
func warnRangeOrdering(warn, crit threshold.Range) {
	if warn.Inverted || crit.Inverted || warn.NoLower || crit.NoLower {
		return
	}
	if math.IsInf(warn.End, 1) || math.IsInf(crit.End, 1) {
		return
	}
	if warn.End > crit.End {
		fmt.Fprintln(os.Stderr, "Warning: -w range is wider than -c range")
	}
}
