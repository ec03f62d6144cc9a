package config

import (
	"path/filepath"

	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

// Load reads config.yaml from the given directory. A missing file yields
// the built-in defaults rooted at that directory.
func Load(fs afero.Fs, path string) (*Configuration, error) {
	// If given the path to a config.yaml file, move back up a level.
	if filepath.Base(path) == ConfigurationName {
		path = filepath.Dir(path)
	}

	configPath := filepath.Join(path, ConfigurationName)
	exists, err := afero.Exists(fs, configPath)
	if err != nil {
		return nil, err
	}
	if !exists {
		out := defaultConfig()
		out.configurationDir = path
		return out, nil
	}

	contents, err := afero.ReadFile(fs, configPath)
	if err != nil {
		return nil, err
	}
	var out Configuration
	if err := yaml.UnmarshalStrict(contents, &out); err != nil {
		return nil, err
	}
	out.configurationDir = path
	return &out, nil
}

// HistoryPath returns the absolute history file location.
func (c *Configuration) HistoryPath() string {
	name := c.HistoryFile
	if name == "" {
		name = HistoryName
	}
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.configurationDir, name)
}

// LogPath returns the absolute activity log location, or "" when logging
// is disabled.
func (c *Configuration) LogPath() string {
	if c.LogFile == "" {
		return ""
	}
	if filepath.IsAbs(c.LogFile) {
		return c.LogFile
	}
	return filepath.Join(c.configurationDir, c.LogFile)
}
