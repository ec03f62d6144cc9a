package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/gush-sh/gush/core/config"
)

// initCmd writes the default configuration directory.
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration to ~/.config/gush",
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		path := cfgPath
		if path == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return err
			}
			path = filepath.Join(home, ".config", "gush")
		}

		configuration, err := config.Initialize(afero.NewOsFs(), path)
		if err != nil {
			return err
		}
		cmd.Printf("Wrote %s\n", filepath.Join(configuration.Dir(), config.ConfigurationName))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
