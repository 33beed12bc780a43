// Package config loads the per-series approximation settings.
//
// A config file names a default filter and optional overrides per series:
//
//	defaults:
//	  mode: rdp
//	  tolerance: 0.5
//	series:
//	  temperature: {mode: rdp, tolerance: 0.1}
//	  heading: {mode: rdp, tolerance: 2, metric: angle}
//	  raw: {mode: none}
//
// JSON files with the same shape are accepted too.
package config

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/paulhankin/chartapprox/approx"
)

// MaxFileSize bounds the size of a config file.
const MaxFileSize = 1 << 20

// File is the root of a config file.
type File struct {
	Defaults approx.Filter            `yaml:"defaults"`
	Series   map[string]approx.Filter `yaml:"series"`
}

// Validate checks every section and names the first bad one.
func (f *File) Validate() error {
	if err := f.Defaults.Validate(); err != nil {
		return errors.Wrap(err, "validate `defaults`")
	}
	names := make([]string, 0, len(f.Series))
	for name := range f.Series {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := f.Series[name].Validate(); err != nil {
			return errors.Wrapf(err, "validate `series.%s`", name)
		}
	}
	return nil
}

// For returns the filter for the named series, falling back to the defaults.
func (f *File) For(name string) approx.Filter {
	if flt, ok := f.Series[name]; ok {
		return flt
	}
	return f.Defaults
}

// Parse reads and validates a config. Unknown fields are an error.
func Parse(r io.Reader) (*File, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "decode config")
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Load reads a config file with a .yaml, .yml or .json extension.
func Load(path string) (*File, error) {
	cleanPath := filepath.Clean(path)
	switch ext := filepath.Ext(cleanPath); ext {
	case ".yaml", ".yml", ".json":
	default:
		return nil, errors.Errorf("config file must have a .yaml, .yml or .json extension, got %q", ext)
	}

	info, err := os.Stat(cleanPath)
	if err != nil {
		return nil, errors.Wrap(err, "stat config file")
	}
	if info.Size() > MaxFileSize {
		return nil, errors.Errorf("config file too large: %d bytes (max %d)", info.Size(), MaxFileSize)
	}
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, errors.Wrapf(err, "read file %v", cleanPath)
	}
	f, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrapf(err, "config %v", cleanPath)
	}
	return f, nil
}
