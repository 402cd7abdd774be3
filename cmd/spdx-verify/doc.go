// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025 The Linux Foundation

/*
Spdx-verify checks that source files carry correct SPDX license and
copyright headers.

Usage:

	spdx-verify [flags] [path ...]

Each path is verified in turn: files directly, directories recursively.
With no paths, the current directory is scanned. The expected license
identifier and copyright holder come from the -license and -copyright
flags. Files are classified by extension or file name into a comment
dialect; unknown file types are skipped, never failed.

Files can be excluded with -skip (a comma-separated list of glob
patterns), through a .gitignore in the working directory, and by a
built-in set of patterns for common build and cache artifacts.

Language dialects and skip defaults can be overridden by a
spdx-config.yaml document (see -config). A missing or malformed
document falls back to the built-in configuration.

In pre-commit mode (-pre-commit-mode) only git-tracked files are
checked, and -reuse-compliance additionally verifies that every license
identifier in use has a matching LICENSES/<identifier>.txt file at the
repository root.

When GITHUB_ACTIONS=true, flags are ignored and inputs are read from
INPUT_LICENSE, INPUT_COPYRIGHT, INPUT_PATHS, INPUT_SKIP, INPUT_DEBUG,
INPUT_PRE_COMMIT_MODE and INPUT_REUSE_COMPLIANCE instead; the overall
result and file counts are appended to the file named by GITHUB_OUTPUT.

The exit status is zero when every checked file passes and nonzero
otherwise, including for nonexistent path arguments.
*/
package main

import (
	_ "embed"

	"github.com/modeseven-lfreleng-actions/spdx-verify-action/internal/cli"
)

//go:embed doc.go
var doc []byte

func init() { cli.SetDocComment(doc) }
