// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025 The Linux Foundation

package spdx

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/modeseven-lfreleng-actions/spdx-verify-action/internal/logger"
)

// Options is the normalized run configuration. It is assembled once at the
// boundary — from command-line flags or CI environment inputs — and consumed
// identically by the core regardless of origin.
type Options struct {
	License   string // expected SPDX license identifier
	Copyright string // expected copyright holder

	SkipPatterns []string // caller-supplied skip patterns, already split

	Debug bool // verbose per-file trace and diagnostic logging

	EnableDefaultType  bool
	DisableDefaultType bool
	OverrideType       string

	PreCommit       bool // restrict checks to git-tracked files
	ReuseCompliance bool // cross-check LICENSES/ (effective only with PreCommit)

	ConfigPath string // configuration document; empty means ConfigFileName in WorkDir
	WorkDir    string // directory holding the ignore-file; empty means cwd
}

// Stats holds per-run counters. They are owned by a single Verifier and
// mutated only as the walker processes files.
type Stats struct {
	Checked          int
	Passed           int
	Skipped          int
	MissingLicense   int
	MissingCopyright int
	WrongLicense     int
	WrongCopyright   int
}

// Failed returns the number of checked files that did not pass.
func (s *Stats) Failed() int { return s.Checked - s.Passed }

// record updates the failure-reason counters for a failing verdict. The
// missing-both and wrong-both kinds count against both of their categories.
// Read errors fail the file without belonging to any category.
func (s *Stats) record(v Verdict) {
	switch v.Kind {
	case VerdictMissingBoth:
		s.MissingLicense++
		s.MissingCopyright++
	case VerdictMissingLicense:
		s.MissingLicense++
	case VerdictMissingCopyright:
		s.MissingCopyright++
	case VerdictWrongBoth:
		s.WrongLicense++
		s.WrongCopyright++
	case VerdictWrongLicense:
		s.WrongLicense++
	case VerdictWrongCopyright:
		s.WrongCopyright++
	}
}

// Verifier drives a single verification run. It owns the compiled skip set,
// the language registry, and the run statistics; none of them are shared
// across runs.
type Verifier struct {
	cfg      *Config
	registry *Registry
	skips    *SkipSet
	opts     Options
	rep      *Reporter
	stats    Stats
}

// NewVerifier builds a Verifier: it loads and merges the configuration,
// compiles the registry, and assembles the skip set from the default
// patterns, the working directory's ignore-file, and opts.SkipPatterns.
// Configuration problems fall back to built-in defaults and are never fatal.
func NewVerifier(ctx context.Context, opts Options, rep *Reporter) (*Verifier, error) {
	workDir := opts.WorkDir
	if workDir == "" {
		workDir = "."
	}

	configPath := opts.ConfigPath
	if configPath == "" {
		configPath = filepath.Join(workDir, ConfigFileName)
	}
	cfg := LoadConfig(ctx, configPath)

	regOpts := RegistryOptions{
		EnableDefaultType:  opts.EnableDefaultType,
		DisableDefaultType: opts.DisableDefaultType,
		OverrideType:       opts.OverrideType,
	}
	registry, err := NewRegistry(ctx, cfg, regOpts)
	if err != nil {
		rep.Warnf("Warning: invalid language configuration, using defaults: %v", err)
		cfg = DefaultConfig()
		registry, err = NewRegistry(ctx, cfg, regOpts)
		if err != nil {
			return nil, err
		}
	}

	ignore := LoadIgnorePatterns(ctx, workDir)
	if len(ignore) > 0 {
		rep.Infof("📁 Loaded %d patterns from %s", len(ignore), IgnoreFileName)
	}

	return &Verifier{
		cfg:      cfg,
		registry: registry,
		skips:    NewSkipSet(cfg.DefaultSkipPatterns, ignore, opts.SkipPatterns),
		opts:     opts,
		rep:      rep,
	}, nil
}

// Stats returns the run statistics accumulated so far.
func (v *Verifier) Stats() *Stats { return &v.stats }

// Run verifies every given path (files directly, directories recursively)
// and returns whether everything passed. An empty path list means the
// current directory. A failing file never halts the run; a nonexistent path
// fails the run but later paths are still processed. In pre-commit mode only
// git-tracked files are considered, and with ReuseCompliance set the
// LICENSES cross-check runs as well.
func (v *Verifier) Run(ctx context.Context, paths []string) bool {
	if len(paths) == 0 {
		paths = []string{"."}
	}

	var tracked map[string]struct{}
	if v.opts.PreCommit {
		var err error
		tracked, err = TrackedFiles(ctx, ".")
		if err != nil {
			v.rep.Errorf("Error: Could not get Git-tracked files for pre-commit mode")
			v.rep.Errorf("Falling back to checking all files")
			logger.Warn(ctx, "git tracked-file listing failed", slog.Any("error", err))
			tracked = nil
		} else {
			v.rep.Infof("Pre-commit mode: Only checking Git-tracked files")
			v.rep.Infof("Found %d Git-tracked files", len(tracked))
		}
	}

	allPassed := true
	for _, p := range paths {
		fi, err := os.Stat(p)
		switch {
		case err != nil:
			v.rep.Errorf("Error: Path %s does not exist", p)
			allPassed = false
		case fi.IsDir():
			if !v.verifyDirectory(ctx, p, tracked) {
				allPassed = false
			}
		default:
			if !v.verifyFile(ctx, p, p, tracked) {
				allPassed = false
			}
		}
	}

	if v.opts.ReuseCompliance && v.opts.PreCommit && tracked != nil {
		if !v.verifyCompliance(ctx, tracked) {
			allPassed = false
		}
	}

	return allPassed
}

// verifyDirectory recursively checks every regular file under dir. Unreadable
// subtrees are surfaced and fail the run, but enumeration continues.
func (v *Verifier) verifyDirectory(ctx context.Context, dir string, tracked map[string]struct{}) bool {
	v.rep.Infof("🔍 Scanning directory: %s", dir)
	v.rep.Infof("License: %s", v.opts.License)
	v.rep.Infof("Copyright: %s", v.opts.Copyright)
	if v.rep.Verbose() && len(v.skips.Patterns()) > 0 {
		v.rep.Infof("Skip patterns: %s", strings.Join(v.skips.Patterns(), ", "))
	}

	allPassed := true
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			v.rep.Errorf("Error: %v", err)
			allPassed = false
			return nil
		}
		if d.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(dir, p)
		if relErr != nil {
			rel = p
		}
		if !v.verifyFile(ctx, p, rel, tracked) {
			allPassed = false
		}
		return nil
	})
	if err != nil {
		v.rep.Errorf("Error: %v", err)
		return false
	}
	return allPassed
}

// verifyFile applies, in order: the tracked-file filter, the skip rules, the
// language registry, and finally the header check. display is the path shown
// to the user; for directory walks it is relative to the scanned root.
func (v *Verifier) verifyFile(ctx context.Context, path, display string, tracked map[string]struct{}) bool {
	if tracked != nil {
		abs, err := filepath.Abs(path)
		if err != nil {
			abs = path
		}
		if _, ok := tracked[abs]; !ok {
			// Untracked files are passed over without touching statistics.
			v.rep.Skip(display, "not Git tracked")
			return true
		}
	}

	if v.skips.Match(display) {
		v.stats.Skipped++
		v.rep.Skip(display, "")
		return true
	}

	name, ok := v.registry.Resolve(ctx, path)
	if !ok {
		v.stats.Skipped++
		v.rep.Skip(display, "unknown file type")
		return true
	}
	profile, _ := v.registry.Profile(name)

	verdict := CheckHeader(path, &profile, v.opts.License, v.opts.Copyright)
	v.stats.Checked++
	if verdict.OK {
		v.stats.Passed++
		v.rep.Pass(display)
		return true
	}
	v.stats.record(verdict)
	v.rep.Fail(display, verdict.Message)
	return false
}

// verifyCompliance runs the LICENSES cross-check against the repository root.
func (v *Verifier) verifyCompliance(ctx context.Context, tracked map[string]struct{}) bool {
	v.rep.Infof("Running REUSE compliance check...")

	root, ok := FindGitRoot(".")
	if !ok {
		v.rep.Warnf("Warning: Could not find Git root for REUSE compliance check")
		return true
	}

	report := CheckCompliance(ctx, tracked, root)
	if report.Compliant {
		v.rep.Noticef("✅ Repository REUSE compliance check passed")
		return true
	}
	v.rep.Errorf("❌ Repository REUSE compliance check failed")
	for _, issue := range report.Issues {
		v.rep.Errorf("  - %s", issue)
	}
	return false
}

// WorkDirFor determines the directory whose ignore-file governs a run: the
// parent directory when the first path argument is a file, the current
// working directory otherwise.
func WorkDirFor(paths []string) string {
	if len(paths) == 0 {
		return "."
	}
	if fi, err := os.Stat(paths[0]); err == nil && !fi.IsDir() {
		return filepath.Dir(paths[0])
	}
	return "."
}
