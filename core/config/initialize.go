package config

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
)

// Initialize writes the default config.yaml into the directory, creating
// it if necessary. It refuses to overwrite an existing configuration.
func Initialize(fs afero.Fs, path string) (*Configuration, error) {
	if err := fs.MkdirAll(path, 0o700); err != nil {
		return nil, err
	}

	configPath := filepath.Join(path, ConfigurationName)
	exists, err := afero.Exists(fs, configPath)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%s already exists", configPath)
	}

	if err := afero.WriteFile(fs, configPath, defaultConfigData, 0o600); err != nil {
		return nil, err
	}
	return Load(fs, path)
}
