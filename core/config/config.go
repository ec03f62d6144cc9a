// Package config loads and validates the shell's per-user configuration
// directory.
package config

import (
	_ "embed"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"sigs.k8s.io/yaml"
)

//go:embed default/config.yaml
var defaultConfigData []byte

const (
	// ConfigurationName is the file name inside the configuration
	// directory.
	ConfigurationName = "config.yaml"
	// HistoryName is the default history file name, relative to the
	// configuration directory.
	HistoryName = "history"
	// LogName is the default JSON-lines activity log name, relative to
	// the configuration directory.
	LogName = "gush.log"
)

// Configuration is the parsed config.yaml.
type Configuration struct {
	configurationDir string

	// Prompt is a template using the escapes \u (user), \h (host),
	// \w (working directory) and \$ (status marker).
	Prompt string `json:"prompt" validate:"required"`

	// Motd is printed once at startup. Empty disables it.
	Motd string `json:"motd"`

	// HistoryFile overrides the history location, resolved against the
	// configuration directory.
	HistoryFile string `json:"history_file" validate:"required"`

	// LogFile overrides the activity log location, resolved against the
	// configuration directory. Empty disables logging.
	LogFile string `json:"log_file"`

	// Env is merged over the inherited environment before the first
	// prompt.
	Env map[string]string `json:"env"`

	// Aliases are installed before the first prompt.
	Aliases map[string]string `json:"aliases"`

	// Startup lines are evaluated, in order, before the first prompt.
	Startup []string `json:"startup"`
}

// Validate the configuration for basic semantic errors.
func (c *Configuration) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		return name
	})

	return validate.Struct(c)
}

// Dir returns the configuration directory.
func (c *Configuration) Dir() string {
	return c.configurationDir
}

func defaultConfig() *Configuration {
	var out Configuration
	if err := yaml.UnmarshalStrict(defaultConfigData, &out); err != nil {
		panic(err)
	}
	return &out
}
