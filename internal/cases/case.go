package cases

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// Case is a single script check loaded from YAML.
type Case struct {
	// Name identifies the case in reports.
	Name string `yaml:"name"`

	// Description says what the case demonstrates.
	Description string `yaml:"description,omitempty"`

	// Script is the inline body. Exactly one of Script and ScriptFile is set.
	Script string `yaml:"script,omitempty"`

	// ScriptFile is a path to the body, relative to the case file.
	ScriptFile string `yaml:"script_file,omitempty"`

	// Inputs are {data, type} records handed to the runner.
	Inputs []map[string]any `yaml:"inputs"`

	// Expect lists the output records the run must produce.
	Expect []map[string]any `yaml:"expect,omitempty"`

	// ExpectError, when set, is a substring the run's error must contain.
	ExpectError string `yaml:"expect_error,omitempty"`

	// Path is the file the case was loaded from.
	Path string `yaml:"-"`
}

// LoadCase reads and parses a case YAML file.
// Returns an error if the file doesn't exist, is malformed, contains
// unknown fields (typos), or is missing required fields. A script_file is
// read and inlined into Script.
func LoadCase(path string) (*Case, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read case file: %w", err)
	}

	// Strict field validation catches typos like "expects:" vs "expect:"
	var c Case
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&c); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	c.Path = path

	if err := validateCase(&c); err != nil {
		return nil, fmt.Errorf("invalid case: %w", err)
	}

	if c.ScriptFile != "" {
		scriptPath := c.ScriptFile
		if !filepath.IsAbs(scriptPath) {
			scriptPath = filepath.Join(filepath.Dir(path), scriptPath)
		}
		body, err := os.ReadFile(scriptPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read script file: %w", err)
		}
		c.Script = string(body)
	}

	return &c, nil
}

// LoadDir loads every *.yaml and *.yml case in dir, sorted by file name.
func LoadDir(dir string) ([]*Case, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read cases directory: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext == ".yaml" || ext == ".yml" {
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	slices.Sort(paths)

	loaded := make([]*Case, 0, len(paths))
	for _, p := range paths {
		c, err := LoadCase(p)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(p), err)
		}
		loaded = append(loaded, c)
	}
	return loaded, nil
}

// RawInputs renders each input record as the JSON argument the runner
// expects.
func (c *Case) RawInputs() ([]string, error) {
	raw := make([]string, len(c.Inputs))
	for i, in := range c.Inputs {
		b, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("inputs[%d]: %w", i, err)
		}
		raw[i] = string(b)
	}
	return raw, nil
}

// validateCase checks that required fields are present and consistent.
func validateCase(c *Case) error {
	if c.Name == "" {
		return fmt.Errorf("name is required")
	}

	hasScript := strings.TrimSpace(c.Script) != ""
	if hasScript == (c.ScriptFile != "") {
		return fmt.Errorf("exactly one of script or script_file is required")
	}

	if c.ExpectError != "" && len(c.Expect) > 0 {
		return fmt.Errorf("expect and expect_error are mutually exclusive")
	}

	for i, in := range c.Inputs {
		if _, ok := in["type"]; !ok {
			return fmt.Errorf("inputs[%d]: type is required", i)
		}
	}

	return nil
}
