package cmd

import (
	"github.com/spf13/cobra"

	"github.com/gush-sh/gush/core"
)

var commandLine string

// runCmd evaluates a single command line without starting the editor.
var runCmd = &cobra.Command{
	Use:   "run -c COMMAND",
	Short: "Evaluate a command line non-interactively",
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		configuration, err := loadConfig()
		if err != nil {
			return err
		}

		shell, err := core.NewShell(configuration, false)
		if err != nil {
			return err
		}
		defer shell.Close()

		status, err := shell.EvalLine(commandLine)
		if err != nil {
			return err
		}
		exitCode = status
		return nil
	},
}

func init() {
	runCmd.Flags().StringVarP(&commandLine, "command", "c", "", "command line to evaluate")
	runCmd.MarkFlagRequired("command")
	rootCmd.AddCommand(runCmd)
}
