package cmd

import (
	"os"
	"strings"

	"github.com/gush-sh/gush/core"
	"github.com/gush-sh/gush/core/config"
)

// runScript evaluates a script file line by line. Remaining arguments
// become the positional parameters.
func runScript(configuration *config.Configuration, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}

	shell, err := core.NewShell(configuration, false)
	if err != nil {
		return err
	}
	defer shell.Close()

	shell.Runtime.Name = args[0]
	shell.Runtime.Args = args[1:]

	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) == "" || strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		status, err := shell.EvalLine(line)
		if err != nil {
			return err
		}
		exitCode = status
		if shell.Ctx.ExitRequested {
			exitCode = shell.Ctx.ExitCode
			return nil
		}
	}
	return nil
}
