// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025 The Linux Foundation

package spdx

import (
	"fmt"
	"os"
	"strings"
)

// headerScanLines bounds the header scan: declarations must appear within
// the first 10 lines of a file.
const headerScanLines = 10

// VerdictKind classifies the outcome of checking one file.
type VerdictKind int

const (
	VerdictValid VerdictKind = iota
	VerdictMissingBoth
	VerdictMissingLicense
	VerdictMissingCopyright
	VerdictWrongBoth
	VerdictWrongLicense
	VerdictWrongCopyright
	VerdictUnknownType
	VerdictReadError
)

// Verdict is the outcome of checking one file: a pass flag and a
// human-readable reason from a fixed taxonomy.
type Verdict struct {
	OK      bool
	Kind    VerdictKind
	Message string
}

// CheckHeader inspects the first 10 lines of the file at path for the SPDX
// license-identifier and copyright markers and classifies them against the
// expected license identifier and copyright holder.
//
// A nil profile means the file's type could not be resolved; that is a
// trivial pass, never a failure. Detection is a substring match of the
// canonical marker text anywhere in a line, regardless of the profile's
// comment prefix; a marker's value is "correct" when the expected string also
// appears in that same line. A read error yields a failing verdict for this
// file only.
func CheckHeader(path string, profile *Language, license, copyright string) Verdict {
	if profile == nil {
		return Verdict{OK: true, Kind: VerdictUnknownType, Message: "Unknown file type, skipping"}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Verdict{Kind: VerdictReadError, Message: fmt.Sprintf("Error reading file: %v", err)}
	}

	// Undecodable byte sequences are tolerated: matching is byte-wise, so
	// invalid UTF-8 elsewhere in a line cannot fail the scan.
	lines := strings.SplitN(string(data), "\n", headerScanLines+1)
	if len(lines) > headerScanLines {
		lines = lines[:headerScanLines]
	}

	var licenseFound, copyrightFound, licenseOK, copyrightOK bool
	for _, line := range lines {
		if strings.Contains(line, LicenseMarker) {
			licenseFound = true
			if strings.Contains(line, license) {
				licenseOK = true
			}
		}
		if strings.Contains(line, CopyrightMarker) {
			copyrightFound = true
			if strings.Contains(line, copyright) {
				copyrightOK = true
			}
		}
	}

	switch {
	case !licenseFound && !copyrightFound:
		return Verdict{Kind: VerdictMissingBoth, Message: "Missing both license and copyright headers"}
	case !licenseFound:
		return Verdict{Kind: VerdictMissingLicense, Message: "Missing license header"}
	case !copyrightFound:
		return Verdict{Kind: VerdictMissingCopyright, Message: "Missing copyright header"}
	case !licenseOK && !copyrightOK:
		return Verdict{Kind: VerdictWrongBoth, Message: fmt.Sprintf("Wrong license and copyright (expected %s and %s)", license, copyright)}
	case !licenseOK:
		return Verdict{Kind: VerdictWrongLicense, Message: fmt.Sprintf("Wrong license (expected %s)", license)}
	case !copyrightOK:
		return Verdict{Kind: VerdictWrongCopyright, Message: fmt.Sprintf("Wrong copyright (expected %s)", copyright)}
	}
	return Verdict{OK: true, Kind: VerdictValid, Message: "Valid SPDX headers found"}
}
