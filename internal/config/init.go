package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"cncmacro/internal/lint"
	"cncmacro/internal/source"
)

// ErrExists is returned by Init when the file is already there.
var ErrExists = errors.New(FileName + " already exists")

// Template renders the default configuration with every rule at its default severity.
func Template() ([]byte, error) {
	fc := fileConfig{
		Lint: lintSection{Rules: make(map[string]string)},
		Workspace: workspaceSection{
			IncludePaths:  []string{},
			Encoding:      string(source.EncodingUTF8),
			DefinitionExt: source.DefaultExtensions.Definition,
			ProgramExt:    source.DefaultExtensions.Program,
		},
	}
	for _, a := range lint.Analyzers() {
		fc.Lint.Rules[a.Name()] = a.Severity.Label()
	}
	var buf bytes.Buffer
	buf.WriteString("# cncmacro configuration\n# severities: error | warning | info | hint | ignore\n\n")
	if err := toml.NewEncoder(&buf).Encode(fc); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return buf.Bytes(), nil
}

// Init writes the default configuration into dir and returns its path.
func Init(dir string, force bool) (string, error) {
	path := filepath.Join(dir, FileName)
	if _, err := os.Stat(path); err == nil && !force {
		return path, ErrExists
	}
	data, err := Template()
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}
