// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025 The Linux Foundation

package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/modeseven-lfreleng-actions/spdx-verify-action/internal/cli"
	"github.com/modeseven-lfreleng-actions/spdx-verify-action/internal/spdx"
	"github.com/modeseven-lfreleng-actions/spdx-verify-action/internal/testutil"
)

func testEnv(args []string, vars map[string]string) (*cli.Env, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	return &cli.Env{
		Args: args,
		Getenv: func(key string) string {
			return vars[key]
		},
		Stdin:  strings.NewReader(""),
		Stdout: &stdout,
		Stderr: &stderr,
	}, &stdout, &stderr
}

func TestOptionsFromFlags(t *testing.T) {
	t.Parallel()

	a := &app{
		license:         "MIT",
		copyright:       "Acme Corp",
		skip:            "vendor/, *.gen.go",
		config:          "custom.yaml",
		debug:           true,
		preCommitMode:   true,
		reuseCompliance: true,
	}
	env, _, _ := testEnv([]string{"src"}, nil)

	opts, paths := a.options(env)
	testutil.AssertEqual(t, opts.License, "MIT")
	testutil.AssertEqual(t, opts.Copyright, "Acme Corp")
	testutil.AssertEqual(t, opts.SkipPatterns, []string{"vendor/", "*.gen.go"})
	testutil.AssertEqual(t, opts.ConfigPath, "custom.yaml")
	testutil.AssertEqual(t, opts.Debug, true)
	testutil.AssertEqual(t, opts.PreCommit, true)
	testutil.AssertEqual(t, opts.ReuseCompliance, true)
	testutil.AssertEqual(t, paths, []string{"src"})
	testutil.AssertEqual(t, opts.WorkDir, ".")
}

func TestOptionsFromActionsEnv(t *testing.T) {
	t.Parallel()

	// Flag values lose to INPUT_* variables when running as an action.
	a := &app{license: "MIT", copyright: "Acme Corp"}
	env, _, _ := testEnv(nil, map[string]string{
		"GITHUB_ACTIONS":         "true",
		"INPUT_LICENSE":          "GPL-3.0-only",
		"INPUT_COPYRIGHT":        "Example Org",
		"INPUT_SKIP":             "docs/,build/",
		"INPUT_PRE_COMMIT_MODE":  "TRUE",
		"INPUT_REUSE_COMPLIANCE": "false",
		"INPUT_DEBUG":            "true",
		"INPUT_PATHS":            "src, tools",
	})

	opts, paths := a.options(env)
	testutil.AssertEqual(t, opts.License, "GPL-3.0-only")
	testutil.AssertEqual(t, opts.Copyright, "Example Org")
	testutil.AssertEqual(t, opts.SkipPatterns, []string{"docs/", "build/"})
	testutil.AssertEqual(t, opts.PreCommit, true)
	testutil.AssertEqual(t, opts.ReuseCompliance, false)
	testutil.AssertEqual(t, opts.Debug, true)
	testutil.AssertEqual(t, paths, []string{"src", "tools"})
}

func TestOptionsActionsDefaults(t *testing.T) {
	t.Parallel()

	a := &app{license: spdx.DefaultLicense, copyright: spdx.DefaultCopyright}
	env, _, _ := testEnv(nil, map[string]string{"GITHUB_ACTIONS": "true"})

	opts, paths := a.options(env)
	testutil.AssertEqual(t, opts.License, spdx.DefaultLicense)
	testutil.AssertEqual(t, opts.Copyright, spdx.DefaultCopyright)
	testutil.AssertEqual(t, len(opts.SkipPatterns), 0)
	testutil.AssertEqual(t, paths, []string{"."})
}

func TestRunPassing(t *testing.T) {
	dir := testutil.WriteTree(t, t.TempDir(), map[string]string{
		"ok.py": "# SPDX-License-Identifier: Apache-2.0\n# SPDX-FileCopyrightText: 2025 The Linux Foundation\n",
	})

	env, stdout, _ := testEnv([]string{dir}, nil)
	err := cli.Run(cli.WithEnv(context.Background(), env), new(app))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	testutil.AssertContains(t, stdout.String(), "📊 VERIFICATION SUMMARY")
	testutil.AssertContains(t, stdout.String(), "Files checked: 1")
	testutil.AssertContains(t, stdout.String(), "Passed: 1")
}

func TestRunFailing(t *testing.T) {
	dir := testutil.WriteTree(t, t.TempDir(), map[string]string{
		"bad.py": "print('no header')\n",
	})

	env, stdout, _ := testEnv([]string{dir}, nil)
	err := cli.Run(cli.WithEnv(context.Background(), env), new(app))
	if !errors.Is(err, cli.ErrChecksFailed) {
		t.Fatalf("Run: got %v, want ErrChecksFailed", err)
	}
	testutil.AssertContains(t, stdout.String(), "❌ FAIL: bad.py - Missing both license and copyright headers")
	testutil.AssertContains(t, stdout.String(), "Failed: 1")
}

func TestRunFlagOverrides(t *testing.T) {
	dir := testutil.WriteTree(t, t.TempDir(), map[string]string{
		"mit.py": "# SPDX-License-Identifier: MIT\n# SPDX-FileCopyrightText: 2025 Acme Corp\n",
	})

	env, stdout, _ := testEnv([]string{"-license", "MIT", "-copyright", "Acme Corp", dir}, nil)
	err := cli.Run(cli.WithEnv(context.Background(), env), new(app))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	testutil.AssertContains(t, stdout.String(), "Passed: 1")
}

func TestRunWritesActionOutputs(t *testing.T) {
	dir := testutil.WriteTree(t, t.TempDir(), map[string]string{
		"bad.py": "print('no header')\n",
	})
	outFile := filepath.Join(t.TempDir(), "github_output")

	env, _, _ := testEnv(nil, map[string]string{
		"GITHUB_ACTIONS": "true",
		"GITHUB_OUTPUT":  outFile,
		"INPUT_PATHS":    dir,
	})
	err := cli.Run(cli.WithEnv(context.Background(), env), new(app))
	if !errors.Is(err, cli.ErrChecksFailed) {
		t.Fatalf("Run: got %v, want ErrChecksFailed", err)
	}

	data, err := os.ReadFile(outFile)
	if err != nil {
		t.Fatal(err)
	}
	testutil.AssertEqual(t, string(data), "passed=false\nfiles_checked=1\nfiles_passed=0\nfiles_failed=1\n")
}

func TestRunVersionFlag(t *testing.T) {
	env, _, stderr := testEnv([]string{"-version"}, nil)
	err := cli.Run(cli.WithEnv(context.Background(), env), new(app))
	if !errors.Is(err, cli.ErrExitVersion) {
		t.Fatalf("Run: got %v, want ErrExitVersion", err)
	}
	if stderr.String() == "" {
		t.Error("expected version output on stderr")
	}
}
