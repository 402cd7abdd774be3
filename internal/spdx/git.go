// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025 The Linux Foundation

package spdx

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/modeseven-lfreleng-actions/spdx-verify-action/internal/logger"
)

// TrackedFiles lists the files git knows about under repoPath, as a set of
// absolute paths. It shells out to "git ls-files"; the caller decides what a
// failure means — for verification runs it is non-fatal and disables
// tracked-file filtering.
func TrackedFiles(ctx context.Context, repoPath string) (map[string]struct{}, error) {
	cmd := exec.CommandContext(ctx, "git", "ls-files")
	cmd.Dir = repoPath

	out, err := cmd.Output()
	if err != nil {
		if ee, ok := err.(*exec.ExitError); ok {
			return nil, fmt.Errorf("git ls-files: %v: %s", err, strings.TrimSpace(string(ee.Stderr)))
		}
		return nil, fmt.Errorf("git ls-files: %w", err)
	}

	tracked := make(map[string]struct{})
	for _, line := range strings.Split(string(out), "\n") {
		if line == "" {
			continue
		}
		abs, err := filepath.Abs(filepath.Join(repoPath, line))
		if err != nil {
			continue
		}
		tracked[abs] = struct{}{}
	}
	logger.Debug(ctx, "listed git tracked files", slog.String("repo", repoPath), slog.Int("count", len(tracked)))
	return tracked, nil
}

// FindGitRoot walks up from start looking for a .git entry and returns the
// containing directory. It reports false when start is not inside a git
// repository.
func FindGitRoot(start string) (string, bool) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", false
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}
