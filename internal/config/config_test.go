package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cncmacro/internal/config"
	"cncmacro/internal/diag"
	"cncmacro/internal/lint"
	"cncmacro/internal/source"
)

func write(t *testing.T, dir, text string) string {
	t.Helper()
	path := filepath.Join(dir, config.FileName)
	require.NoError(t, os.WriteFile(path, []byte(text), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := write(t, dir, `
[lint.rules]
duplicateAddress = "error"
unknownSymbol = "ignore"

[workspace]
include_paths = ["inc", "/opt/macros"]
encoding = "windows-1252"
definition_ext = ["DEF", ".inc"]
`)
	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.Root)
	assert.Equal(t, lint.Config{"duplicateAddress": diag.SevError, "unknownSymbol": diag.SevIgnore}, cfg.Lint)
	assert.Equal(t, []string{filepath.Join(dir, "inc"), "/opt/macros"}, cfg.Workspace.IncludePaths)
	assert.Equal(t, source.EncodingWindows1252, cfg.Workspace.Encoding)
	assert.Equal(t, []string{".def", ".inc"}, cfg.Workspace.Extensions.Definition)
	assert.Equal(t, source.DefaultExtensions.Program, cfg.Workspace.Extensions.Program)
}

func TestLoadErrors(t *testing.T) {
	cases := []struct {
		name string
		text string
		code diag.Code
		line int // 0 - любая позиция
	}{
		{"syntax", "[lint\nrules = 1\n", diag.CfgParseError, 0},
		{"unknown rule", "[lint.rules]\nduplicateAddress = \"error\"\nnoSuchRule = \"warning\"\n", diag.CfgUnknownRule, 3},
		{"bad severity", "[lint.rules]\nunknownSymbol = \"fatal\"\n", diag.CfgBadSeverity, 2},
		{"bad encoding", "[workspace]\nencoding = \"ebcdic\"\n", diag.CfgBadEncoding, 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := write(t, t.TempDir(), tc.text)
			_, err := config.Load(path)
			var cfgErr *config.Error
			require.True(t, errors.As(err, &cfgErr), "got %v", err)
			assert.Equal(t, tc.code, cfgErr.Code)
			if tc.line == 0 {
				assert.Positive(t, cfgErr.Line)
			} else {
				assert.Equal(t, tc.line, cfgErr.Line)
			}
			assert.Contains(t, err.Error(), tc.code.ID())
		})
	}
}

func TestDiscoverWalksUp(t *testing.T) {
	root := t.TempDir()
	write(t, root, "[lint.rules]\nduplicateAddress = \"hint\"\n")
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	file := filepath.Join(nested, "main.src")
	require.NoError(t, os.WriteFile(file, []byte("O1\n"), 0o600))

	cfg, err := config.Discover(file)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, config.FileName), cfg.Path)
	assert.Equal(t, diag.SevHint, cfg.Lint["duplicateAddress"])
}

func TestDiscoverDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := config.Discover(dir)
	require.NoError(t, err)
	if cfg.Path != "" {
		t.Skipf("a %s above the temp dir is in effect: %s", config.FileName, cfg.Path)
	}
	assert.Equal(t, dir, cfg.Root)
	assert.Empty(t, cfg.Lint)
	assert.Equal(t, source.EncodingUTF8, cfg.Workspace.Encoding)
}

func TestInitTemplateLoads(t *testing.T) {
	dir := t.TempDir()
	path, err := config.Init(dir, false)
	require.NoError(t, err)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	for _, a := range lint.Analyzers() {
		assert.Equal(t, a.Severity, cfg.Lint[a.Name()], a.Name())
	}
	assert.Equal(t, source.DefaultExtensions, cfg.Workspace.Extensions)

	_, err = config.Init(dir, false)
	assert.ErrorIs(t, err, config.ErrExists)
	_, err = config.Init(dir, true)
	assert.NoError(t, err)
}
