// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025 The Linux Foundation

package spdx_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/modeseven-lfreleng-actions/spdx-verify-action/internal/spdx"
	"github.com/modeseven-lfreleng-actions/spdx-verify-action/internal/testutil"
)

func mustRegistry(t *testing.T, cfg *spdx.Config, opts spdx.RegistryOptions) *spdx.Registry {
	t.Helper()
	reg, err := spdx.NewRegistry(context.Background(), cfg, opts)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	return reg
}

func TestRegistryResolve(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	reg := mustRegistry(t, spdx.DefaultConfig(), spdx.RegistryOptions{})

	cases := map[string]struct {
		path     string
		wantLang string
		wantOK   bool
	}{
		"python by extension":          {"pkg/module.py", "python", true},
		"extension case insensitive":   {"BUILD.MK", "makefile", true},
		"typescript":                   {"web/app.tsx", "javascript", true},
		"dockerfile via legacy rule":   {"Dockerfile", "dockerfile", true},
		"lowercase dockerfile":         {"sub/dockerfile", "dockerfile", true},
		"suffixed dockerfile":          {"api.dockerfile", "dockerfile", true},
		"makefile via legacy rule":     {"Makefile", "makefile", true},
		"unknown extension":            {"data.xyz", "", false},
		"extensionless unknown":        {"README", "", false},
		"markdown":                     {"docs/index.md", "markdown", true},
		"yaml":                         {"ci/workflow.yml", "yaml", true},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			lang, ok := reg.Resolve(ctx, tc.path)
			testutil.AssertEqual(t, ok, tc.wantOK)
			testutil.AssertEqual(t, lang, tc.wantLang)
		})
	}
}

func TestRegistryResolveFilenames(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cfg := spdx.DefaultConfig()
	cfg.Languages["cmake"] = spdx.Language{
		Filenames:    []string{"CMakeLists.txt"},
		CommentStyle: "hash",
		Patterns:     []string{"# SPDX-License-Identifier:", "# SPDX-FileCopyrightText:"},
	}
	reg := mustRegistry(t, cfg, spdx.RegistryOptions{})

	lang, ok := reg.Resolve(ctx, "lib/CMakeLists.txt")
	testutil.AssertEqual(t, ok, true)
	testutil.AssertEqual(t, lang, "cmake")

	// Filename matching is case-insensitive.
	lang, ok = reg.Resolve(ctx, "cmakelists.txt")
	testutil.AssertEqual(t, ok, true)
	testutil.AssertEqual(t, lang, "cmake")
}

func TestRegistryDefaultFileType(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	withDefault := func() *spdx.Config {
		cfg := spdx.DefaultConfig()
		cfg.DefaultFileType = spdx.DefaultFileType{Enabled: true, Language: "python"}
		return cfg
	}

	t.Run("config enabled", func(t *testing.T) {
		reg := mustRegistry(t, withDefault(), spdx.RegistryOptions{})
		lang, ok := reg.Resolve(ctx, "mystery.xyz")
		testutil.AssertEqual(t, ok, true)
		testutil.AssertEqual(t, lang, "python")
	})

	t.Run("caller disables config", func(t *testing.T) {
		reg := mustRegistry(t, withDefault(), spdx.RegistryOptions{DisableDefaultType: true})
		_, ok := reg.Resolve(ctx, "mystery.xyz")
		testutil.AssertEqual(t, ok, false)
	})

	t.Run("caller enables when config disabled", func(t *testing.T) {
		cfg := spdx.DefaultConfig()
		cfg.DefaultFileType = spdx.DefaultFileType{Enabled: false, Language: "go"}
		reg := mustRegistry(t, cfg, spdx.RegistryOptions{EnableDefaultType: true})
		lang, ok := reg.Resolve(ctx, "mystery.xyz")
		testutil.AssertEqual(t, ok, true)
		testutil.AssertEqual(t, lang, "go")
	})

	t.Run("valid override wins over config language", func(t *testing.T) {
		reg := mustRegistry(t, withDefault(), spdx.RegistryOptions{OverrideType: "rust"})
		lang, ok := reg.Resolve(ctx, "mystery.xyz")
		testutil.AssertEqual(t, ok, true)
		testutil.AssertEqual(t, lang, "rust")
	})

	t.Run("invalid override resolves nothing", func(t *testing.T) {
		reg := mustRegistry(t, withDefault(), spdx.RegistryOptions{OverrideType: "cobol"})
		_, ok := reg.Resolve(ctx, "mystery.xyz")
		testutil.AssertEqual(t, ok, false)
	})

	t.Run("known types unaffected", func(t *testing.T) {
		reg := mustRegistry(t, withDefault(), spdx.RegistryOptions{})
		lang, ok := reg.Resolve(ctx, "main.go")
		testutil.AssertEqual(t, ok, true)
		testutil.AssertEqual(t, lang, "go")
	})
}

func TestRegistryAmbiguousExtension(t *testing.T) {
	t.Parallel()

	cfg := spdx.DefaultConfig()
	cfg.Languages["python2"] = spdx.Language{
		Extensions:   []string{".py"},
		CommentStyle: "hash",
		Patterns:     []string{"# SPDX-License-Identifier:", "# SPDX-FileCopyrightText:"},
	}

	_, err := spdx.NewRegistry(context.Background(), cfg, spdx.RegistryOptions{})
	if !errors.Is(err, spdx.ErrAmbiguousExtension) {
		t.Fatalf("want ErrAmbiguousExtension, got %v", err)
	}
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("missing file falls back to defaults", func(t *testing.T) {
		cfg := spdx.LoadConfig(ctx, filepath.Join(t.TempDir(), "absent.yaml"))
		testutil.AssertEqual(t, cfg, spdx.DefaultConfig())
	})

	t.Run("languages section replaces defaults", func(t *testing.T) {
		dir := testutil.WriteTree(t, t.TempDir(), map[string]string{
			"spdx-config.yaml": `languages:
  nim:
    extensions: [".nim"]
    comment_style: hash
    patterns:
      - "# SPDX-License-Identifier:"
      - "# SPDX-FileCopyrightText:"
`,
		})
		cfg := spdx.LoadConfig(ctx, filepath.Join(dir, "spdx-config.yaml"))
		testutil.AssertEqual(t, len(cfg.Languages), 1)
		if _, ok := cfg.Languages["nim"]; !ok {
			t.Fatal("nim language missing")
		}
		// Sections absent from the document keep their defaults.
		testutil.AssertEqual(t, cfg.DefaultSkipPatterns, spdx.DefaultConfig().DefaultSkipPatterns)
	})

	t.Run("default file type section", func(t *testing.T) {
		dir := testutil.WriteTree(t, t.TempDir(), map[string]string{
			"spdx-config.yaml": "default_file_type:\n  enabled: true\n  language: python\n",
		})
		cfg := spdx.LoadConfig(ctx, filepath.Join(dir, "spdx-config.yaml"))
		testutil.AssertEqual(t, cfg.DefaultFileType, spdx.DefaultFileType{Enabled: true, Language: "python"})
		testutil.AssertEqual(t, len(cfg.Languages), len(spdx.DefaultConfig().Languages))
	})

	t.Run("malformed document falls back to defaults", func(t *testing.T) {
		dir := testutil.WriteTree(t, t.TempDir(), map[string]string{
			"spdx-config.yaml": "languages: [not, a, mapping",
		})
		cfg := spdx.LoadConfig(ctx, filepath.Join(dir, "spdx-config.yaml"))
		testutil.AssertEqual(t, cfg, spdx.DefaultConfig())
	})

	t.Run("invalid comment style falls back to defaults", func(t *testing.T) {
		dir := testutil.WriteTree(t, t.TempDir(), map[string]string{
			"spdx-config.yaml": `languages:
  weird:
    extensions: [".w"]
    comment_style: triple_dash
    patterns: ["x:", "y:"]
`,
		})
		cfg := spdx.LoadConfig(ctx, filepath.Join(dir, "spdx-config.yaml"))
		testutil.AssertEqual(t, cfg, spdx.DefaultConfig())
	})
}
