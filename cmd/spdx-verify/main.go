// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025 The Linux Foundation

package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"strings"

	"github.com/lmittmann/tint"
	"golang.org/x/term"

	"github.com/modeseven-lfreleng-actions/spdx-verify-action/internal/cli"
	"github.com/modeseven-lfreleng-actions/spdx-verify-action/internal/logger"
	"github.com/modeseven-lfreleng-actions/spdx-verify-action/internal/spdx"
)

func main() { cli.Main(new(app)) }

type app struct {
	license            string
	copyright          string
	skip               string
	config             string
	debug              bool
	disableDefaultType bool
	enableDefaultType  bool
	defaultType        string
	preCommitMode      bool
	reuseCompliance    bool
}

func (a *app) Flags(fs *flag.FlagSet) {
	fs.StringVar(&a.license, "license", spdx.DefaultLicense, "Expected SPDX license `identifier`.")
	fs.StringVar(&a.copyright, "copyright", spdx.DefaultCopyright, "Expected copyright `holder`.")
	fs.StringVar(&a.skip, "skip", "", "Comma-separated skip `patterns`.")
	fs.StringVar(&a.config, "config", "", "Configuration `file` (default spdx-config.yaml in the working directory).")
	fs.BoolVar(&a.debug, "debug", false, "Enable debug output.")
	fs.BoolVar(&a.disableDefaultType, "disable-default-file-type", false, "Disable default file type handling.")
	fs.BoolVar(&a.enableDefaultType, "enable-default-file-type", false, "Enable default file type handling.")
	fs.StringVar(&a.defaultType, "default-file-type", "", "Override default file type `language`.")
	fs.BoolVar(&a.preCommitMode, "pre-commit-mode", false, "Only check files tracked by Git (for pre-commit hooks).")
	fs.BoolVar(&a.reuseCompliance, "reuse-compliance", false, "Check REUSE compliance (only applies in pre-commit mode).")
}

func (a *app) Run(ctx context.Context) error {
	env := cli.GetEnv(ctx)

	opts, paths := a.options(env)
	ctx = logger.Put(ctx, newLogger(env, opts.Debug))

	rep := spdx.NewReporter(env.Stdout, colorize(env), opts.Debug)

	v, err := spdx.NewVerifier(ctx, opts, rep)
	if err != nil {
		return err
	}

	passed := v.Run(ctx, paths)
	rep.Summary(v.Stats())

	if spdx.InActions(env.Getenv) {
		if out := env.Getenv("GITHUB_OUTPUT"); out != "" {
			if err := spdx.AppendOutputs(out, spdx.RunOutputs(passed, v.Stats())); err != nil {
				logger.Warn(ctx, "could not write action outputs", slog.Any("error", err))
			}
		}
	}

	if !passed {
		return cli.ErrChecksFailed
	}
	return nil
}

// options normalizes the two invocation strategies — command-line flags and
// GitHub Actions environment inputs — into one Options value plus the path
// list. The core consumes the result identically regardless of origin.
func (a *app) options(env *cli.Env) (spdx.Options, []string) {
	opts := spdx.Options{
		License:            a.license,
		Copyright:          a.copyright,
		SkipPatterns:       spdx.SplitList(a.skip),
		Debug:              a.debug,
		EnableDefaultType:  a.enableDefaultType,
		DisableDefaultType: a.disableDefaultType,
		OverrideType:       a.defaultType,
		PreCommit:          a.preCommitMode,
		ReuseCompliance:    a.reuseCompliance,
		ConfigPath:         a.config,
	}
	paths := env.Args

	if spdx.InActions(env.Getenv) {
		opts.License = envOr(env, "INPUT_LICENSE", spdx.DefaultLicense)
		opts.Copyright = envOr(env, "INPUT_COPYRIGHT", spdx.DefaultCopyright)
		opts.SkipPatterns = spdx.SplitList(env.Getenv("INPUT_SKIP"))
		opts.PreCommit = envBool(env, "INPUT_PRE_COMMIT_MODE")
		opts.ReuseCompliance = envBool(env, "INPUT_REUSE_COMPLIANCE")
		opts.Debug = envBool(env, "INPUT_DEBUG")
		paths = spdx.SplitList(envOr(env, "INPUT_PATHS", "."))
	}

	opts.WorkDir = spdx.WorkDirFor(paths)
	return opts, paths
}

func envOr(env *cli.Env, key, fallback string) string {
	if v := env.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(env *cli.Env, key string) bool {
	return strings.EqualFold(env.Getenv(key), "true")
}

// newLogger builds the diagnostic logger: colored tint output on terminals,
// plain text otherwise. Debug mode lowers the level.
func newLogger(env *cli.Env, debug bool) *slog.Logger {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	if f, ok := env.Stderr.(*os.File); ok && term.IsTerminal(int(f.Fd())) && env.Getenv("NO_COLOR") == "" {
		return slog.New(tint.NewHandler(env.Stderr, &tint.Options{Level: level}))
	}
	return slog.New(slog.NewTextHandler(env.Stderr, &slog.HandlerOptions{Level: level}))
}

// colorize decides whether user-facing output gets ANSI colors.
func colorize(env *cli.Env) bool {
	if env.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := env.Stdout.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
