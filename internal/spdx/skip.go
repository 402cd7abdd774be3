// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025 The Linux Foundation

package spdx

import (
	"bufio"
	"context"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/modeseven-lfreleng-actions/spdx-verify-action/internal/logger"
)

// IgnoreFileName is the ignore-file consulted in the working directory.
const IgnoreFileName = ".gitignore"

// SkipSet is a deduplicated, order-independent set of glob-style skip
// patterns assembled from built-in defaults, the working directory's
// ignore-file, and caller-supplied patterns. It is built once per run.
type SkipSet struct {
	patterns []string
}

// NewSkipSet merges the given pattern sources, dropping duplicates. Relative
// source order does not matter; a path either matches the set or it does not.
func NewSkipSet(sources ...[]string) *SkipSet {
	seen := make(map[string]struct{})
	for _, src := range sources {
		for _, pat := range src {
			if pat == "" {
				continue
			}
			seen[pat] = struct{}{}
		}
	}
	patterns := make([]string, 0, len(seen))
	for pat := range seen {
		patterns = append(patterns, pat)
	}
	sort.Strings(patterns)
	return &SkipSet{patterns: patterns}
}

// Patterns returns the compiled pattern list, sorted.
func (s *SkipSet) Patterns() []string { return s.patterns }

// Match reports whether p is excluded by the set. Every pattern is evaluated
// against both the path as given and its bare final component, so that
// unanchored patterns like "*.min.js" work at any depth.
func (s *SkipSet) Match(p string) bool {
	full := filepath.ToSlash(p)
	base := path.Base(full)
	for _, pat := range s.patterns {
		if matchPattern(pat, full) || matchPattern(pat, base) {
			return true
		}
	}
	return false
}

// matchPattern matches a single glob pattern using gitignore-style semantics
// ("**" crosses directory separators, a trailing "/" names a directory's
// contents). Patterns doublestar rejects as malformed go through the minimal
// fallback matcher instead.
func matchPattern(pat, p string) bool {
	pat = filepath.ToSlash(pat)
	if strings.HasSuffix(pat, "/") {
		pat += "**"
	}
	ok, err := doublestar.Match(pat, p)
	if err != nil {
		return fallbackMatch(pat, p)
	}
	return ok
}

// fallbackMatch is the minimal matcher: shell-style wildcard matching for
// patterns containing a wildcard, substring containment or exact base-name
// equality otherwise. It never fails; a malformed pattern is a no-match.
func fallbackMatch(pat, p string) bool {
	base := path.Base(p)
	if strings.ContainsAny(pat, "*?[") {
		fullOK, err := path.Match(pat, p)
		if err != nil {
			return false
		}
		baseOK, err := path.Match(pat, base)
		if err != nil {
			return false
		}
		return fullOK || baseOK
	}
	return strings.Contains(p, pat) || pat == base
}

// LoadIgnorePatterns reads the ignore-file in dir, one glob pattern per line.
// Blank lines and lines starting with "#" are discarded. Any read failure
// yields an empty contribution silently.
func LoadIgnorePatterns(ctx context.Context, dir string) []string {
	f, err := os.Open(filepath.Join(dir, IgnoreFileName))
	if err != nil {
		return nil
	}
	defer f.Close()

	var patterns []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}
	if err := scanner.Err(); err != nil {
		logger.Debug(ctx, "error scanning ignore file", slog.String("dir", dir), slog.Any("error", err))
		return nil
	}
	if len(patterns) > 0 {
		logger.Debug(ctx, "loaded ignore file patterns", slog.String("dir", dir), slog.Int("count", len(patterns)))
	}
	return patterns
}

// SplitList splits a comma-separated list, trimming whitespace and dropping
// empty entries. Both the -skip flag and the action's comma-separated inputs
// use this form.
func SplitList(s string) []string {
	if s == "" {
		return nil
	}
	var items []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
