// Package core wires the parser, evaluator, job table and line editor into
// an interactive shell.
package core

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/abiosoft/readline"
	"github.com/anmitsu/go-shlex"
	"github.com/fatih/color"
	"github.com/spf13/afero"

	"github.com/gush-sh/gush/core/alias"
	"github.com/gush-sh/gush/core/builtin"
	"github.com/gush-sh/gush/core/config"
	"github.com/gush-sh/gush/core/history"
	"github.com/gush-sh/gush/core/hooks"
	"github.com/gush-sh/gush/core/interp"
	"github.com/gush-sh/gush/core/logger"
	"github.com/gush-sh/gush/core/parser"
	"github.com/gush-sh/gush/core/proc"
)

const (
	EnvHome     = "HOME"
	EnvPWD      = "PWD"
	EnvPath     = "PATH"
	EnvHostname = "HOSTNAME"
	EnvUser     = "USER"
)

// Shell is one shell session: terminal, environment, job table, history
// and hooks.
type Shell struct {
	Config  *config.Configuration
	Ctx     *interp.Ctx
	Runtime *interp.Runtime
	Hooks   *hooks.Hooks

	readline *readline.Instance
	fs       afero.Fs
	logFile  *os.File
	toClose  []io.Closer
}

// NewShell builds a shell from the configuration. When interactive is
// true the shell claims the terminal for job control and starts a line
// editor.
func NewShell(cfg *config.Configuration, interactive bool) (*Shell, error) {
	fs := afero.NewOsFs()

	jobs, err := proc.NewOs(os.Stdin, interactive)
	if err != nil {
		return nil, fmt.Errorf("initializing job control: %w", err)
	}

	env := interp.NewEnvFromEnviron(os.Environ())
	for k, v := range cfg.Env {
		env.Set(k, v)
	}

	wd, err := os.Getwd()
	if err != nil {
		wd = "/"
	}
	rt := interp.NewRuntime(wd, env)

	aliases := alias.NewStore()
	for k, v := range cfg.Aliases {
		aliases.Set(k, v)
	}

	hist := history.New()
	if err := hist.Load(fs, cfg.HistoryPath()); err != nil {
		return nil, fmt.Errorf("loading history: %w", err)
	}

	shell := &Shell{
		Config:  cfg,
		Runtime: rt,
		Hooks:   &hooks.Hooks{},
		fs:      fs,
	}

	var log *logger.Recorder
	if path := cfg.LogPath(); path != "" {
		fd, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
		if err != nil {
			return nil, fmt.Errorf("opening activity log: %w", err)
		}
		shell.logFile = fd
		shell.toClose = append(shell.toClose, fd)
		log = logger.NewJSONLines(fd)
	}

	shell.Ctx = &interp.Ctx{
		Jobs:     jobs,
		Builtins: builtin.Registry(),
		Aliases:  aliases,
		History:  hist,
		Hooks:    shell.Hooks,
		Log:      log,
		EvalLine: shell.EvalLine,
	}

	if interactive {
		rlCfg := &readline.Config{
			Stdin:       readline.NewCancelableStdin(os.Stdin),
			Stdout:      os.Stdout,
			Stderr:      os.Stderr,
			HistoryFile: "",
		}
		if err := rlCfg.Init(); err != nil {
			return nil, err
		}
		rl, err := readline.NewEx(rlCfg)
		if err != nil {
			return nil, err
		}
		shell.readline = rl
		shell.toClose = append(shell.toClose, rl)
		for _, line := range hist.Entries() {
			rl.SaveHistory(line)
		}
	}

	shell.registerDefaultHooks()
	return shell, nil
}

// registerDefaultHooks installs the stock lifecycle behavior: the motd on
// startup, activity logging, and background-job notices.
func (s *Shell) registerDefaultHooks() {
	if s.Config.Motd != "" {
		s.Hooks.OnStartup(func() {
			color.New(color.FgCyan).Fprintln(os.Stdout, s.Config.Motd)
		})
	}
	s.Hooks.OnStartup(func() {
		s.Ctx.Log.SessionStart()
	})
	s.Hooks.OnBeforeCommand(func(line string) {
		s.Ctx.Log.CommandStart(line)
	})
	s.Hooks.OnAfterCommand(func(line string, status int) {
		s.Ctx.Log.CommandDone(line, status)
	})
	s.Hooks.OnJobExit(func(jobID int, argv string) {
		s.Ctx.Log.JobExit(jobID, argv)
	})
}

// Run is the interactive read loop. It returns the shell's exit code.
func (s *Shell) Run() int {
	s.Hooks.RunStartup()

	for _, line := range s.Config.Startup {
		if _, err := s.EvalLine(line); err != nil {
			fmt.Fprintf(os.Stderr, "gush: startup: %v\n", err)
		}
		if s.Ctx.ExitRequested {
			return s.Ctx.ExitCode
		}
	}

	for {
		s.notifyFinishedJobs()

		s.readline.SetPrompt(s.Prompt())
		line, err := s.readline.Readline()

		switch {
		case err == io.EOF:
			return s.Ctx.ExitCode

		case err == readline.ErrInterrupt:
			continue

		case err != nil:
			fmt.Fprintf(os.Stderr, "gush: readline: %v\n", err)
			return 1

		case strings.TrimSpace(line) == "":
			continue
		}

		s.Ctx.History.Append(line)
		s.Hooks.RunBeforeCommand(line)

		status, err := s.EvalLine(line)
		if err != nil {
			fmt.Fprintf(os.Stderr, "gush: %v\n", err)
		} else {
			s.Hooks.RunAfterCommand(line, status)
		}

		if s.Ctx.ExitRequested {
			return s.Ctx.ExitCode
		}
	}
}

// notifyFinishedJobs reaps background work and announces completed jobs
// the way the prompt loop of an interactive shell does.
func (s *Shell) notifyFinishedJobs() {
	for _, st := range s.Ctx.Jobs.PollBackground() {
		if st.State != proc.JobDone {
			continue
		}
		fmt.Fprintf(os.Stderr, "[%d]  Done     %s\n", st.Job.ID, st.Job.Argv)
		s.Hooks.RunJobExit(st.Job.ID, st.Job.Argv)
	}
}

// EvalLine expands aliases, parses and evaluates one command line to
// completion, recording the status as $?.
func (s *Shell) EvalLine(line string) (int, error) {
	line = s.expandAliases(line)

	cmd, err := parser.Parse(line)
	if err != nil {
		return 0, err
	}
	return interp.Run(s.Ctx, s.Runtime, cmd, os.Stdin, os.Stdout)
}

// expandAliases rewrites the leading word of the line while it names an
// alias. Each alias expands at most once, so self-referential aliases like
// ls='ls -F' terminate.
func (s *Shell) expandAliases(line string) string {
	seen := make(map[string]bool)
	for {
		tokens, err := shlex.Split(line, true)
		if err != nil || len(tokens) == 0 {
			return line
		}
		name := tokens[0]
		if seen[name] {
			return line
		}
		value, ok := s.Ctx.Aliases.Lookup(name)
		if !ok {
			return line
		}
		seen[name] = true

		rest := strings.TrimPrefix(strings.TrimSpace(line), name)
		line = strings.TrimSpace(value + rest)
	}
}

// Close flushes the history and releases the terminal.
func (s *Shell) Close() error {
	s.Ctx.Jobs.WaitAll(time.Second)
	s.Ctx.Log.SessionEnd(s.Ctx.ExitCode)

	var lastErr error
	if err := s.Ctx.History.Save(s.fs, s.Config.HistoryPath()); err != nil {
		lastErr = err
	}
	for _, c := range s.toClose {
		if err := c.Close(); err != nil {
			lastErr = err
		}
	}
	return lastErr
}
