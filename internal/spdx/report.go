// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025 The Linux Foundation

package spdx

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Reporter prints per-file verdict lines and the run summary. PASS and SKIP
// lines are emitted only in verbose mode; FAIL lines and the summary are
// always emitted. Output ordering follows processing order and is not
// otherwise guaranteed.
type Reporter struct {
	out     io.Writer
	verbose bool

	green, red, yellow, cyan, blue, bold *color.Color
}

// NewReporter returns a Reporter writing to out. Colors are emitted only when
// colorize is set; verbose additionally enables PASS, SKIP, and diagnostic
// lines.
func NewReporter(out io.Writer, colorize, verbose bool) *Reporter {
	r := &Reporter{
		out:     out,
		verbose: verbose,
		green:   color.New(color.FgHiGreen),
		red:     color.New(color.FgHiRed),
		yellow:  color.New(color.FgHiYellow),
		cyan:    color.New(color.FgHiCyan),
		blue:    color.New(color.FgHiBlue),
		bold:    color.New(color.Bold),
	}
	for _, c := range []*color.Color{r.green, r.red, r.yellow, r.cyan, r.blue, r.bold} {
		if colorize {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return r
}

// Verbose reports whether verbose output is enabled.
func (r *Reporter) Verbose() bool { return r.verbose }

// Pass prints a per-file pass line in verbose mode.
func (r *Reporter) Pass(path string) {
	if r.verbose {
		fmt.Fprintln(r.out, r.green.Sprintf("✅ PASS: %s", path))
	}
}

// Fail prints a per-file failure line.
func (r *Reporter) Fail(path, reason string) {
	fmt.Fprintln(r.out, r.red.Sprintf("❌ FAIL: %s - %s", path, reason))
}

// Skip prints a per-file skip line in verbose mode. reason may be empty.
func (r *Reporter) Skip(path, reason string) {
	if !r.verbose {
		return
	}
	if reason != "" {
		fmt.Fprintln(r.out, r.yellow.Sprintf("⏩ SKIP: %s (%s)", path, reason))
		return
	}
	fmt.Fprintln(r.out, r.yellow.Sprintf("⏩ SKIP: %s", path))
}

// Infof prints a cyan informational line in verbose mode.
func (r *Reporter) Infof(format string, args ...any) {
	if r.verbose {
		fmt.Fprintln(r.out, r.cyan.Sprintf(format, args...))
	}
}

// Noticef prints a green notice line unconditionally.
func (r *Reporter) Noticef(format string, args ...any) {
	fmt.Fprintln(r.out, r.green.Sprintf(format, args...))
}

// Warnf prints a yellow warning line unconditionally.
func (r *Reporter) Warnf(format string, args ...any) {
	fmt.Fprintln(r.out, r.yellow.Sprintf(format, args...))
}

// Errorf prints a red error line unconditionally.
func (r *Reporter) Errorf(format string, args ...any) {
	fmt.Fprintln(r.out, r.red.Sprintf(format, args...))
}

// Summary prints the end-of-run statistics block. Failure categories appear
// only when nonzero.
func (r *Reporter) Summary(stats *Stats) {
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, r.bold.Sprint("📊 VERIFICATION SUMMARY"))
	fmt.Fprintln(r.out, r.cyan.Sprintf("Files checked: %d", stats.Checked))
	fmt.Fprintln(r.out, r.green.Sprintf("Passed: %d", stats.Passed))
	fmt.Fprintln(r.out, r.red.Sprintf("Failed: %d", stats.Failed()))
	fmt.Fprintln(r.out, r.yellow.Sprintf("Skipped: %d", stats.Skipped))

	if stats.MissingLicense > 0 {
		fmt.Fprintln(r.out, r.red.Sprintf("Missing license: %d", stats.MissingLicense))
	}
	if stats.MissingCopyright > 0 {
		fmt.Fprintln(r.out, r.red.Sprintf("Missing copyright: %d", stats.MissingCopyright))
	}
	if stats.WrongLicense > 0 {
		fmt.Fprintln(r.out, r.red.Sprintf("Wrong license: %d", stats.WrongLicense))
	}
	if stats.WrongCopyright > 0 {
		fmt.Fprintln(r.out, r.red.Sprintf("Wrong copyright: %d", stats.WrongCopyright))
	}
}
