// Package config loads the optional project configuration file
// (ehlit.yaml): extra search paths and an explicit standard-library
// location. Loading it does not change the import-search order; the
// driver loads it but does not apply these fields.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// File is the shape of ehlit.yaml. Every field is optional; a missing file
// is not an error, only the absence of overrides.
type File struct {
	StdlibPath  string   `yaml:"stdlib_path"`
	SearchPaths []string `yaml:"search_paths"`
}

// Load reads and decodes path. A missing file yields a zero-value File and
// a nil error, matching the tolerant config loading the driver expects.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &File{}, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return &f, nil
}
