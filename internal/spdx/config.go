// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025 The Linux Foundation

// Package spdx implements SPDX license header verification: file
// classification by comment dialect, layered skip rules, header matching
// against an expected license and copyright holder, and REUSE compliance
// checking against a LICENSES directory.
package spdx

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/modeseven-lfreleng-actions/spdx-verify-action/internal/logger"
)

// SPDX declaration markers. Detection is a substring match of these tokens
// anywhere within a line, independent of the comment prefix.
const (
	LicenseMarker   = "SPDX-License-Identifier:"
	CopyrightMarker = "SPDX-FileCopyrightText:"
)

// Built-in expectations used when the caller supplies none.
const (
	DefaultLicense   = "Apache-2.0"
	DefaultCopyright = "The Linux Foundation"
)

// ConfigFileName is the configuration document looked up in the working
// directory when no explicit path is given.
const ConfigFileName = "spdx-config.yaml"

// Language describes one comment dialect: which files it claims and what its
// declaration markers look like. Patterns holds exactly two entries, the
// license marker pattern followed by the copyright marker pattern.
type Language struct {
	Extensions   []string `yaml:"extensions" validate:"omitempty,dive,required"`
	Filenames    []string `yaml:"filenames" validate:"omitempty,dive,required"`
	CommentStyle string   `yaml:"comment_style" validate:"required,oneof=hash double_slash c_style html"`
	Patterns     []string `yaml:"patterns" validate:"required,len=2,dive,required"`
}

// DefaultFileType configures the fallback profile applied to files no
// language claims.
type DefaultFileType struct {
	Enabled  bool   `yaml:"enabled"`
	Language string `yaml:"language"`
}

// Config is the full verification configuration. It is built once at startup
// and treated as immutable afterward.
type Config struct {
	Languages           map[string]Language `yaml:"languages" validate:"required,dive"`
	DefaultSkipPatterns []string            `yaml:"default_skip_patterns"`
	DefaultFileType     DefaultFileType     `yaml:"default_file_type"`
}

var (
	hashPatterns        = []string{"# " + LicenseMarker, "# " + CopyrightMarker}
	doubleSlashPatterns = []string{"// " + LicenseMarker, "// " + CopyrightMarker}
	cStylePatterns      = []string{"/* " + LicenseMarker, "/* " + CopyrightMarker}
	htmlPatterns        = []string{"<!-- " + LicenseMarker, "<!-- " + CopyrightMarker}
)

// DefaultConfig returns the built-in configuration used when no document is
// present or the present one is unusable.
func DefaultConfig() *Config {
	return &Config{
		Languages: map[string]Language{
			"python": {
				Extensions:   []string{".py", ".pyx", ".pyi"},
				CommentStyle: "hash",
				Patterns:     hashPatterns,
			},
			"javascript": {
				Extensions:   []string{".js", ".jsx", ".ts", ".tsx"},
				CommentStyle: "double_slash",
				Patterns:     doubleSlashPatterns,
			},
			"css": {
				Extensions:   []string{".css", ".scss", ".sass", ".less"},
				CommentStyle: "c_style",
				Patterns:     cStylePatterns,
			},
			"html": {
				Extensions:   []string{".html", ".xml", ".svg"},
				CommentStyle: "html",
				Patterns:     htmlPatterns,
			},
			"shell": {
				Extensions:   []string{".sh", ".bash", ".zsh"},
				CommentStyle: "hash",
				Patterns:     hashPatterns,
			},
			"c_cpp": {
				Extensions:   []string{".c", ".cpp", ".h", ".hpp", ".cc", ".cxx"},
				CommentStyle: "double_slash",
				Patterns:     doubleSlashPatterns,
			},
			"java": {
				Extensions:   []string{".java"},
				CommentStyle: "double_slash",
				Patterns:     doubleSlashPatterns,
			},
			"rust": {
				Extensions:   []string{".rs"},
				CommentStyle: "double_slash",
				Patterns:     doubleSlashPatterns,
			},
			"go": {
				Extensions:   []string{".go"},
				CommentStyle: "double_slash",
				Patterns:     doubleSlashPatterns,
			},
			"ruby": {
				Extensions:   []string{".rb", ".rake"},
				CommentStyle: "hash",
				Patterns:     hashPatterns,
			},
			"php": {
				Extensions:   []string{".php"},
				CommentStyle: "double_slash",
				Patterns:     doubleSlashPatterns,
			},
			"yaml": {
				Extensions:   []string{".yml", ".yaml"},
				CommentStyle: "hash",
				Patterns:     hashPatterns,
			},
			// Dockerfile and Makefile names live in the extensions list on
			// purpose: the legacy suffix rule in Registry.Resolve matches them.
			"dockerfile": {
				Extensions:   []string{"Dockerfile", "dockerfile"},
				CommentStyle: "hash",
				Patterns:     hashPatterns,
			},
			"makefile": {
				Extensions:   []string{"Makefile", "makefile", ".mk"},
				CommentStyle: "hash",
				Patterns:     hashPatterns,
			},
			"markdown": {
				Extensions:   []string{".md", ".markdown"},
				CommentStyle: "html",
				Patterns:     htmlPatterns,
			},
		},
		DefaultSkipPatterns: []string{
			"*.min.js",
			"*.min.css",
			"node_modules/**",
			".git/**",
			"__pycache__/**",
			"__pypackages__/**",
			"*.pyc",
			"*.pyo",
			"*.pyd",
			".pytest_cache/**",
			".mypy_cache/**",
			".DS_Store",
			"*.log",
			"*.egg-info/**",
			"dist/**",
			"build/**",
			".venv/**",
			"venv/**",
		},
	}
}

// fileConfig mirrors Config with optional sections, so that sections absent
// from the document can be told apart from empty ones during the merge.
type fileConfig struct {
	Languages           map[string]Language `yaml:"languages"`
	DefaultSkipPatterns []string            `yaml:"default_skip_patterns"`
	DefaultFileType     *DefaultFileType    `yaml:"default_file_type"`
}

// LoadConfig reads the configuration document at path and merges it
// section-by-section with the built-in defaults: a section missing from the
// document keeps its default, a present section replaces it wholesale.
// A missing, malformed, or invalid document is never fatal; it is reported
// through the context logger and the built-in defaults are used instead.
func LoadConfig(ctx context.Context, path string) *Config {
	if path == "" {
		path = ConfigFileName
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logger.Warn(ctx, "could not read config file, using defaults", slog.String("path", path), slog.Any("error", err))
		}
		return DefaultConfig()
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		logger.Warn(ctx, "could not parse config file, using defaults", slog.String("path", path), slog.Any("error", err))
		return DefaultConfig()
	}

	cfg := DefaultConfig()
	if fc.Languages != nil {
		cfg.Languages = fc.Languages
	}
	if fc.DefaultSkipPatterns != nil {
		cfg.DefaultSkipPatterns = fc.DefaultSkipPatterns
	}
	if fc.DefaultFileType != nil {
		cfg.DefaultFileType = *fc.DefaultFileType
	}

	if err := validate.Struct(cfg); err != nil {
		logger.Warn(ctx, "invalid config file, using defaults", slog.String("path", path), slog.Any("error", err))
		return DefaultConfig()
	}

	logger.Debug(ctx, "loaded config file", slog.String("path", path), slog.Int("languages", len(cfg.Languages)))
	return cfg
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// ErrAmbiguousExtension reports an extension or filename claimed by more than
// one language profile.
var ErrAmbiguousExtension = errors.New("extension claimed by multiple languages")

// RegistryOptions control the default-file-type fallback behavior of a
// Registry. Enable wins over the configured flag; Disable suppresses the
// configured flag; Override replaces the configured fallback language name.
type RegistryOptions struct {
	EnableDefaultType  bool
	DisableDefaultType bool
	OverrideType       string
}

// Registry maps file extensions and exact filenames to language profiles.
// It is built once and immutable afterward.
type Registry struct {
	cfg        *Config
	opts       RegistryOptions
	extToLang  map[string]string
	fileToLang map[string]string
	exts       []string // sorted keys of extToLang, for the legacy suffix scan
}

// NewRegistry builds a Registry from cfg. It returns an error wrapping
// [ErrAmbiguousExtension] if two language profiles claim the same extension
// or filename; ambiguity is a configuration error, not a runtime decision.
func NewRegistry(ctx context.Context, cfg *Config, opts RegistryOptions) (*Registry, error) {
	r := &Registry{
		cfg:        cfg,
		opts:       opts,
		extToLang:  make(map[string]string),
		fileToLang: make(map[string]string),
	}

	// Sort language names so that the reported conflict is deterministic.
	names := make([]string, 0, len(cfg.Languages))
	for name := range cfg.Languages {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		lang := cfg.Languages[name]
		for _, ext := range lang.Extensions {
			key := strings.ToLower(ext)
			if prev, ok := r.extToLang[key]; ok && prev != name {
				return nil, fmt.Errorf("%w: %q claimed by %q and %q", ErrAmbiguousExtension, ext, prev, name)
			}
			r.extToLang[key] = name
		}
		for _, fn := range lang.Filenames {
			key := strings.ToLower(fn)
			if prev, ok := r.fileToLang[key]; ok && prev != name {
				return nil, fmt.Errorf("%w: filename %q claimed by %q and %q", ErrAmbiguousExtension, fn, prev, name)
			}
			r.fileToLang[key] = name
		}
		if len(lang.Extensions) == 0 && len(lang.Filenames) == 0 {
			logger.Warn(ctx, "language has neither extensions nor filenames, it will never match", slog.String("language", name))
		}
	}

	r.exts = make([]string, 0, len(r.extToLang))
	for ext := range r.extToLang {
		r.exts = append(r.exts, ext)
	}
	sort.Strings(r.exts)

	return r, nil
}

// Profile returns the language profile registered under name.
func (r *Registry) Profile(name string) (Language, bool) {
	lang, ok := r.cfg.Languages[name]
	return lang, ok
}

// Resolve determines the language profile name for path. Resolution order:
// the path's extension, the exact file name, the legacy rule (file name
// equals or ends with a registered extension token verbatim), and finally
// the default-file-type fallback if one is active. It returns false when the
// file's type is unknown, which callers must treat as skip-with-no-failure.
func (r *Registry) Resolve(ctx context.Context, path string) (string, bool) {
	if ext := strings.ToLower(filepath.Ext(path)); ext != "" {
		if name, ok := r.extToLang[ext]; ok {
			return name, true
		}
	}

	base := strings.ToLower(filepath.Base(path))
	if name, ok := r.fileToLang[base]; ok {
		return name, true
	}

	// Legacy fallback: some "extensions" are really full-name tokens, like
	// Dockerfile. A bare name that is itself an extension token (a file
	// literally named ".py", say) also lands here.
	for _, ext := range r.exts {
		if base == ext || strings.HasSuffix(base, ext) {
			if name, ok := r.extToLang[ext]; ok {
				logger.Debug(ctx, "matched extension pattern", slog.String("path", path), slog.String("pattern", ext), slog.String("language", name))
				return name, true
			}
		}
	}

	useDefault := false
	switch {
	case r.opts.EnableDefaultType:
		useDefault = true
	case !r.opts.DisableDefaultType:
		useDefault = r.cfg.DefaultFileType.Enabled
	}
	if !useDefault {
		logger.Debug(ctx, "default file type handling disabled", slog.String("path", path))
		return "", false
	}

	name := r.opts.OverrideType
	if name == "" {
		name = r.cfg.DefaultFileType.Language
	}
	if name == "" {
		return "", false
	}
	if _, ok := r.cfg.Languages[name]; !ok {
		logger.Warn(ctx, "default file type not found in language configuration", slog.String("language", name))
		return "", false
	}
	logger.Debug(ctx, "using default file type", slog.String("path", path), slog.String("language", name))
	return name, true
}
