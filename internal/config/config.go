// Package config loads cncmacro.toml: lint rule severities and workspace settings.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"cncmacro/internal/diag"
	"cncmacro/internal/lint"
	"cncmacro/internal/source"
)

// FileName is the configuration file looked up from the target path upwards.
const FileName = "cncmacro.toml"

// Config is the resolved configuration. Paths are absolute.
type Config struct {
	Path      string // пусто, если файл не найден
	Root      string
	Lint      lint.Config
	Workspace Workspace
}

type Workspace struct {
	IncludePaths []string
	Encoding     source.Encoding
	Extensions   source.Extensions
}

type fileConfig struct {
	Lint      lintSection      `toml:"lint"`
	Workspace workspaceSection `toml:"workspace"`
}

type lintSection struct {
	Rules map[string]string `toml:"rules"`
}

type workspaceSection struct {
	IncludePaths  []string `toml:"include_paths"`
	Encoding      string   `toml:"encoding"`
	DefinitionExt []string `toml:"definition_ext"`
	ProgramExt    []string `toml:"program_ext"`
}

// Error is a configuration problem with its location in the file.
type Error struct {
	Code diag.Code
	Path string
	Line int // 0 - позиция неизвестна
	Col  int
	Msg  string
}

func (e *Error) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s %s", e.Path, e.Line, e.Col, e.Code.ID(), e.Msg)
	}
	return fmt.Sprintf("%s: %s %s", e.Path, e.Code.ID(), e.Msg)
}

// Default returns the built-in configuration rooted at dir.
func Default(dir string) *Config {
	return &Config{
		Root: dir,
		Lint: lint.Config{},
		Workspace: Workspace{
			Encoding:   source.EncodingUTF8,
			Extensions: source.DefaultExtensions,
		},
	}
}

// Find walks up from startDir to locate cncmacro.toml.
func Find(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	if info, statErr := os.Stat(dir); statErr == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Discover finds and loads the configuration for target, falling back to
// defaults rooted at target's directory.
func Discover(target string) (*Config, error) {
	path, ok, err := Find(target)
	if err != nil {
		return nil, err
	}
	if !ok {
		dir, absErr := filepath.Abs(target)
		if absErr != nil {
			return nil, fmt.Errorf("failed to resolve %q: %w", target, absErr)
		}
		if info, statErr := os.Stat(dir); statErr == nil && !info.IsDir() {
			dir = filepath.Dir(dir)
		}
		return Default(dir), nil
	}
	return Load(path)
}

// Load reads and validates one configuration file.
func Load(path string) (*Config, error) {
	// #nosec G304 -- path is the configuration file chosen by the user or Find
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	return parse(abs, content)
}

func parse(path string, content []byte) (*Config, error) {
	var fc fileConfig
	meta, err := toml.Decode(string(content), &fc)
	if err != nil {
		cfgErr := &Error{Code: diag.CfgParseError, Path: path, Msg: err.Error()}
		var perr toml.ParseError
		if errors.As(err, &perr) {
			cfgErr.Line = perr.Position.Line
			cfgErr.Col = perr.Position.Start - lineStart(content, perr.Position.Start) + 1
			cfgErr.Msg = perr.Message
		}
		return nil, cfgErr
	}

	cfg := Default(filepath.Dir(path))
	cfg.Path = path

	if meta.IsDefined("lint", "rules") {
		for rule, value := range fc.Lint.Rules {
			if _, ok := lint.Lookup(rule); !ok {
				return nil, errorAt(path, content, rule, diag.CfgUnknownRule,
					fmt.Sprintf("unknown lint rule %q", rule))
			}
			sev, err := diag.ParseSeverity(value)
			if err != nil {
				return nil, errorAt(path, content, rule, diag.CfgBadSeverity, err.Error())
			}
			cfg.Lint[rule] = sev
		}
	}

	if meta.IsDefined("workspace") {
		ws := fc.Workspace
		for _, p := range ws.IncludePaths {
			if !filepath.IsAbs(p) {
				p = filepath.Join(cfg.Root, filepath.FromSlash(p))
			}
			cfg.Workspace.IncludePaths = append(cfg.Workspace.IncludePaths, filepath.Clean(p))
		}
		if meta.IsDefined("workspace", "encoding") {
			enc, err := source.ParseEncoding(ws.Encoding)
			if err != nil {
				return nil, errorAt(path, content, "encoding", diag.CfgBadEncoding, err.Error())
			}
			cfg.Workspace.Encoding = enc
		}
		if meta.IsDefined("workspace", "definition_ext") {
			cfg.Workspace.Extensions.Definition = normalizeExts(ws.DefinitionExt)
		}
		if meta.IsDefined("workspace", "program_ext") {
			cfg.Workspace.Extensions.Program = normalizeExts(ws.ProgramExt)
		}
	}
	return cfg, nil
}

func normalizeExts(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		out = append(out, e)
	}
	return slices.Compact(out)
}

func lineStart(content []byte, off int) int {
	if off > len(content) {
		off = len(content)
	}
	return bytes.LastIndexByte(content[:off], '\n') + 1
}

// errorAt ищет первую строку с key, чтобы указать позицию.
func errorAt(path string, content []byte, key string, code diag.Code, msg string) *Error {
	e := &Error{Code: code, Path: path, Msg: msg}
	for i, line := range bytes.Split(content, []byte("\n")) {
		if col := bytes.Index(line, []byte(key)); col >= 0 {
			e.Line, e.Col = i+1, col+1
			break
		}
	}
	return e
}
