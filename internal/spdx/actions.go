// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025 The Linux Foundation

package spdx

import (
	"fmt"
	"os"
	"strconv"
)

// InActions reports whether the process runs under GitHub Actions. getenv is
// injected so the boundary stays testable; the core never reads the process
// environment itself.
func InActions(getenv func(string) string) bool {
	return getenv("GITHUB_ACTIONS") == "true"
}

// Output is one machine-readable key/value pair for the CI output sink.
type Output struct {
	Name  string
	Value string
}

// RunOutputs converts a run result into the output variables the action
// contract defines.
func RunOutputs(passed bool, stats *Stats) []Output {
	return []Output{
		{"passed", strconv.FormatBool(passed)},
		{"files_checked", strconv.Itoa(stats.Checked)},
		{"files_passed", strconv.Itoa(stats.Passed)},
		{"files_failed", strconv.Itoa(stats.Failed())},
	}
}

// AppendOutputs appends name=value lines to the output file at path, the
// format GITHUB_OUTPUT expects.
func AppendOutputs(path string, outputs []Output) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open output file: %w", err)
	}
	defer f.Close()

	for _, o := range outputs {
		if _, err := fmt.Fprintf(f, "%s=%s\n", o.Name, o.Value); err != nil {
			return fmt.Errorf("write output %q: %w", o.Name, err)
		}
	}
	return nil
}
