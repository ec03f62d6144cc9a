package config

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
)

func TestInitialize(t *testing.T) {
	fs := afero.NewMemMapFs()

	cfg, err := Initialize(fs, "/home/test/.config/gush")
	if err != nil {
		t.Fatal(err)
	}
	assert.Nil(t, cfg.Validate())

	t.Run("RefusesOverwrite", func(t *testing.T) {
		_, err := Initialize(fs, "/home/test/.config/gush")
		assert.NotNil(t, err)
	})

	t.Run("LoadRoundTrip", func(t *testing.T) {
		loaded, err := Load(fs, "/home/test/.config/gush")
		assert.Nil(t, err)
		assert.Equal(t, cfg.Prompt, loaded.Prompt)
	})

	t.Run("Paths", func(t *testing.T) {
		assert.Equal(t, "/home/test/.config/gush/history", cfg.HistoryPath())
		assert.Equal(t, "/home/test/.config/gush/gush.log", cfg.LogPath())
	})
}

func TestLoadMissingUsesDefaults(t *testing.T) {
	fs := afero.NewMemMapFs()

	cfg, err := Load(fs, "/nonexistent")
	assert.Nil(t, err)
	assert.NotEmpty(t, cfg.Prompt)
	assert.Equal(t, "/nonexistent", cfg.Dir())
}
