// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025 The Linux Foundation

package spdx_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/modeseven-lfreleng-actions/spdx-verify-action/internal/spdx"
	"github.com/modeseven-lfreleng-actions/spdx-verify-action/internal/testutil"
)

func TestInActions(t *testing.T) {
	t.Parallel()

	env := func(v string) func(string) string {
		return func(key string) string {
			if key == "GITHUB_ACTIONS" {
				return v
			}
			return ""
		}
	}

	testutil.AssertEqual(t, spdx.InActions(env("true")), true)
	testutil.AssertEqual(t, spdx.InActions(env("false")), false)
	testutil.AssertEqual(t, spdx.InActions(env("1")), false)
	testutil.AssertEqual(t, spdx.InActions(env("")), false)
}

func TestRunOutputs(t *testing.T) {
	t.Parallel()

	stats := &spdx.Stats{Checked: 5, Passed: 3}
	got := spdx.RunOutputs(false, stats)
	testutil.AssertEqual(t, got, []spdx.Output{
		{Name: "passed", Value: "false"},
		{Name: "files_checked", Value: "5"},
		{Name: "files_passed", Value: "3"},
		{Name: "files_failed", Value: "2"},
	})

	got = spdx.RunOutputs(true, &spdx.Stats{Checked: 1, Passed: 1})
	testutil.AssertEqual(t, got[0], spdx.Output{Name: "passed", Value: "true"})
}

func TestAppendOutputs(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "github_output")
	if err := os.WriteFile(path, []byte("existing=1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	err := spdx.AppendOutputs(path, []spdx.Output{
		{Name: "passed", Value: "true"},
		{Name: "files_checked", Value: "7"},
	})
	if err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	testutil.AssertEqual(t, string(data), "existing=1\npassed=true\nfiles_checked=7\n")
}

func TestAppendOutputsCreatesFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "fresh")
	if err := spdx.AppendOutputs(path, []spdx.Output{{Name: "passed", Value: "false"}}); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	testutil.AssertEqual(t, string(data), "passed=false\n")
}
