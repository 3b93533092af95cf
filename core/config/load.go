package config

import (
	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

// Load reads and validates an options file. An empty path yields the
// defaults.
func Load(fs afero.Fs, path string) (*Configuration, error) {
	var out Configuration

	if path != "" {
		contents, err := afero.ReadFile(fs, path)
		if err != nil {
			return nil, err
		}
		if err := yaml.UnmarshalStrict(contents, &out); err != nil {
			return nil, err
		}
	}

	if err := out.Validate(); err != nil {
		return nil, err
	}
	return &out, nil
}
