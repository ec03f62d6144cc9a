// Package cmd holds the gush command line interface.
package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/gush-sh/gush/core"
	"github.com/gush-sh/gush/core/config"
)

var (
	cfgPath  string
	exitCode int
)

func loadConfig() (*config.Configuration, error) {
	path := cfgPath
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(home, ".config", "gush")
	}

	configuration, err := config.Load(afero.NewOsFs(), path)
	if err != nil {
		return nil, err
	}
	if err := configuration.Validate(); err != nil {
		return nil, err
	}
	return configuration, nil
}

// rootCmd starts an interactive shell, or runs a script when given one.
var rootCmd = &cobra.Command{
	Use:   "gush [script [args...]]",
	Short: "An interactive shell with job control",
	Long: `gush is an interactive command shell: pipelines, && / || lists,
redirections, background jobs with terminal handoff, aliases, history
and shell functions.`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		configuration, err := loadConfig()
		if err != nil {
			return err
		}

		if len(args) > 0 {
			return runScript(configuration, args)
		}

		restore := core.InstallSignalHandlers()
		defer restore()

		shell, err := core.NewShell(configuration, true)
		if err != nil {
			return err
		}
		exitCode = shell.Run()
		return shell.Close()
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
	os.Exit(exitCode)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config directory (default ~/.config/gush)")
}
