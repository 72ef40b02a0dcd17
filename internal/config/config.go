// Package config loads and validates scour rule documents.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// ErrEmptyPattern is returned when a rule has no pattern text.
var ErrEmptyPattern = errors.New("pattern is required and cannot be empty")

// Config is a rule document. Order within both lists is significant.
type Config struct {
	Remove  []string  `yaml:"remove,omitempty" toml:"remove,omitempty"`
	Replace []Replace `yaml:"replace,omitempty" toml:"replace,omitempty"`
}

// Replace is a single substitution rule. Replacement may reference capture
// groups as $1 or ${name}.
type Replace struct {
	Regex       string `yaml:"regex" toml:"regex"`
	Replacement string `yaml:"replacement" toml:"replacement"`
}

// Format identifies the encoding of a rule document.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatFromPath picks the document format from the file extension.
// Anything that is not .toml is treated as YAML.
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return FormatTOML
	}
	return FormatYAML
}

// Load reads, decodes and validates the rule document at path.
func Load(fs afero.Fs, path string) (*Config, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if FormatFromPath(path) == FormatTOML {
		return LoadFromTOML(data)
	}
	return LoadFromYAML(data)
}

// LoadFromYAML loads config from YAML bytes. Unknown keys are rejected.
func LoadFromYAML(data []byte) (*Config, error) {
	var config Config

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&config); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// LoadFromTOML loads config from TOML bytes. Unknown keys are rejected.
func LoadFromTOML(data []byte) (*Config, error) {
	var config Config

	decoder := toml.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// Validate checks the document structure. Pattern syntax is checked when
// the rules are compiled.
func (c *Config) Validate() error {
	for i, pattern := range c.Remove {
		if pattern == "" {
			return fmt.Errorf("remove rule %d: %w", i+1, ErrEmptyPattern)
		}
	}

	for i, rule := range c.Replace {
		if err := rule.Validate(); err != nil {
			return fmt.Errorf("replace rule %d: %w", i+1, err)
		}
	}

	return nil
}

// Validate performs rule-level validation
func (r *Replace) Validate() error {
	if r.Regex == "" {
		return ErrEmptyPattern
	}
	return nil
}

// Marshal encodes the document in the given format.
func (c *Config) Marshal(format Format) ([]byte, error) {
	if format == FormatTOML {
		data, err := toml.Marshal(c)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal config: %w", err)
		}
		return data, nil
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(c); err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return buf.Bytes(), nil
}

// SaveOption configures Save.
type SaveOption func(*saveOptions)

type saveOptions struct {
	header string
}

// WithHeader writes header above the document. Every line of header must be
// a "#" comment, which both YAML and TOML accept.
func WithHeader(header string) SaveOption {
	return func(o *saveOptions) {
		o.header = header
	}
}

// Save writes the document to path, choosing the format from its extension.
func (c *Config) Save(fs afero.Fs, path string, opts ...SaveOption) error {
	var options saveOptions
	for _, opt := range opts {
		opt(&options)
	}

	data, err := c.Marshal(FormatFromPath(path))
	if err != nil {
		return err
	}
	if options.header != "" {
		data = append([]byte(options.header), data...)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := fs.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create config directory %s: %w", dir, err)
		}
	}

	if err := afero.WriteFile(fs, path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
