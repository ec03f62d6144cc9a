package core

import (
	"os"
	"strings"
)

// DefaultPrompt is used when the configuration leaves the prompt empty.
const DefaultPrompt = `\u@\h:\w\$ `

// Prompt renders the prompt template. Supported escapes: \u user, \h
// hostname, \w working directory with the home prefix abbreviated to ~,
// and \$ which prints # for root and $ otherwise.
func (s *Shell) Prompt() string {
	prompt := s.Config.Prompt
	if prompt == "" {
		prompt = DefaultPrompt
	}

	user := s.Runtime.Env.Get(EnvUser)
	if user == "" {
		user = "gush"
	}
	prompt = strings.ReplaceAll(prompt, `\u`, user)

	host := s.Runtime.Env.Get(EnvHostname)
	if host == "" {
		host, _ = os.Hostname()
	}
	prompt = strings.ReplaceAll(prompt, `\h`, host)

	pwd := s.Runtime.WorkingDir
	if home := s.Runtime.Env.Get(EnvHome); home != "" && strings.HasPrefix(pwd, home) {
		pwd = "~" + strings.TrimPrefix(pwd, home)
	}
	prompt = strings.ReplaceAll(prompt, `\w`, pwd)

	marker := "$"
	if os.Getuid() == 0 {
		marker = "#"
	}
	return strings.ReplaceAll(prompt, `\$`, marker)
}
