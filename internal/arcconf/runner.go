package arcconf

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// ErrCommandFailed marks a failed arcconf invocation. Never retried; the run
// ends with an indeterminate outcome.
var ErrCommandFailed = errors.New("arcconf command failed")

// ErrInvalidInput marks caller-supplied input the tool cannot act on: an
// unrecognized controller number or a device selection that does not match
// the parsed configuration. Always terminal.
var ErrInvalidInput = errors.New("invalid input")

// Runner executes arcconf GETCONFIG calls for one controller. Invocations are
// strictly sequential; every executed command line is recorded in order for
// the verbose report.
type Runner struct {
	Path       string // arcconf binary, name or absolute path
	Controller int    // controller number passed to GETCONFIG
	UseSudo    bool   // prefix invocations with sudo

	commands []string
}

// GetConfig runs `arcconf GETCONFIG <controller> <target>` (target AD, LD or
// PD) and returns the captured standard output as trimmed-right lines. A
// non-zero exit status is a command failure; a second output line beginning
// with "Invalid" is arcconf rejecting the controller number.
func (r *Runner) GetConfig(ctx context.Context, target string) ([]string, error) {
	name := r.Path
	args := []string{"GETCONFIG", strconv.Itoa(r.Controller), target}
	if r.UseSudo {
		args = append([]string{name}, args...)
		name = "sudo"
	}

	cmdline := name + " " + strings.Join(args, " ")
	r.commands = append(r.commands, cmdline)

	out, err := exec.CommandContext(ctx, name, args...).Output()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCommandFailed, cmdline, err)
	}

	lines := strings.Split(strings.ReplaceAll(string(out), "\r\n", "\n"), "\n")
	if err := validateOutput(lines); err != nil {
		return nil, fmt.Errorf("%s: %w", cmdline, err)
	}
	return lines, nil
}

// Commands returns every command line executed so far, in order.
func (r *Runner) Commands() []string { return r.commands }

// validateOutput applies the arcconf failure rule to captured output: the
// utility reports a bad controller number on the second line, after the
// "Controllers found" banner.
func validateOutput(lines []string) error {
	if len(lines) >= 2 && strings.HasPrefix(strings.TrimSpace(lines[1]), "Invalid") {
		return fmt.Errorf("%w: controller not recognized: %s",
			ErrInvalidInput, strings.TrimSpace(lines[1]))
	}
	return nil
}
