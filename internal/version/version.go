// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025 The Linux Foundation

// Package version provides information about the running binary.
package version

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/modeseven-lfreleng-actions/spdx-verify-action/internal/syncx"
)

var cmdName syncx.Lazy[string]

// CmdName returns the base name of the running binary, without an .exe
// suffix on Windows.
func CmdName() string {
	return cmdName.Get(func() string {
		exe, err := os.Executable()
		if err != nil {
			return strings.TrimSuffix(filepath.Base(os.Args[0]), ".exe")
		}
		return strings.TrimSuffix(filepath.Base(exe), ".exe")
	})
}

var version syncx.Lazy[string]

// Version returns a human-readable description of the binary: its module
// version (or the VCS revision for untagged builds) and the Go toolchain it
// was built with.
func Version() string {
	return version.Get(func() string {
		ver := "devel"
		if info, ok := debug.ReadBuildInfo(); ok {
			if info.Main.Version != "" && info.Main.Version != "(devel)" {
				ver = info.Main.Version
			} else if rev := buildSetting(info, "vcs.revision"); rev != "" {
				if len(rev) > 12 {
					rev = rev[:12]
				}
				ver = rev
				if buildSetting(info, "vcs.modified") == "true" {
					ver += "-dirty"
				}
			}
		}
		return fmt.Sprintf("%s %s (%s/%s, %s)\n", CmdName(), ver, runtime.GOOS, runtime.GOARCH, runtime.Version())
	})
}

func buildSetting(info *debug.BuildInfo, key string) string {
	for _, s := range info.Settings {
		if s.Key == key {
			return s.Value
		}
	}
	return ""
}
