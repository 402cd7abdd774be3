// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025 The Linux Foundation

package spdx

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/modeseven-lfreleng-actions/spdx-verify-action/internal/logger"
)

// LicensesDirName is the conventional license-text directory at the
// repository root, per the REUSE specification.
const LicensesDirName = "LICENSES"

// complianceScanLines bounds license-identifier extraction for compliance
// checking; it is deliberately wider than the header scan.
const complianceScanLines = 20

// ComplianceReport is the outcome of a REUSE compliance check: a compliance
// flag and an ordered list of issues. Compliance holds iff the list is empty.
type ComplianceReport struct {
	Compliant bool
	Issues    []string
}

// ExtractLicenseIDs returns every SPDX license-identifier expression declared
// within the first 20 lines of the file at path. Each marker occurrence
// yields the full remainder of its line, with trailing comment terminators
// stripped, so compound expressions like "Apache-2.0 OR MIT" survive as
// single identifiers. Unreadable files contribute nothing.
func ExtractLicenseIDs(path string) map[string]struct{} {
	ids := make(map[string]struct{})

	data, err := os.ReadFile(path)
	if err != nil {
		return ids
	}

	lines := strings.SplitN(string(data), "\n", complianceScanLines+1)
	if len(lines) > complianceScanLines {
		lines = lines[:complianceScanLines]
	}

	for _, line := range lines {
		_, rest, ok := strings.Cut(line, LicenseMarker)
		if !ok {
			continue
		}
		expr := strings.TrimSpace(rest)
		expr = strings.ReplaceAll(expr, "-->", "")
		expr = strings.ReplaceAll(expr, "*/", "")
		expr = strings.TrimSpace(expr)
		if expr != "" {
			ids[expr] = struct{}{}
		}
	}
	return ids
}

// CheckCompliance verifies that every license identifier declared by the
// tracked files has a corresponding <identifier>.txt in the LICENSES
// directory under repoRoot, and that nothing else lives there. A missing
// LICENSES directory is itself the sole issue and short-circuits the rest.
func CheckCompliance(ctx context.Context, tracked map[string]struct{}, repoRoot string) ComplianceReport {
	licensesDir := filepath.Join(repoRoot, LicensesDirName)
	if fi, err := os.Stat(licensesDir); err != nil || !fi.IsDir() {
		return ComplianceReport{Issues: []string{"LICENSES directory not found at repository root"}}
	}

	used := make(map[string]struct{})
	for path := range tracked {
		if fi, err := os.Stat(path); err != nil || !fi.Mode().IsRegular() {
			continue
		}
		for id := range ExtractLicenseIDs(path) {
			used[id] = struct{}{}
		}
	}

	usedSorted := make([]string, 0, len(used))
	for id := range used {
		usedSorted = append(usedSorted, id)
	}
	sort.Strings(usedSorted)
	logger.Debug(ctx, "license identifiers in use", slog.String("ids", strings.Join(usedSorted, ", ")))

	var issues []string
	for _, id := range usedSorted {
		if _, err := os.Stat(filepath.Join(licensesDir, id+".txt")); err != nil {
			issues = append(issues, fmt.Sprintf("Missing license file: LICENSES/%s.txt", id))
		}
	}

	entries, err := os.ReadDir(licensesDir)
	if err == nil {
		for _, e := range entries {
			if !e.IsDir() && !strings.HasSuffix(e.Name(), ".txt") {
				issues = append(issues, fmt.Sprintf("License file with incorrect extension: LICENSES/%s (should be .txt)", e.Name()))
			}
		}
	}

	return ComplianceReport{Compliant: len(issues) == 0, Issues: issues}
}
