// Package history keeps the shell's command history in memory and on disk.
package history

import (
	"strings"
	"sync"

	"github.com/spf13/afero"
)

// History is an append-only command log. Blank lines and immediate
// duplicates are dropped.
type History struct {
	mu      sync.Mutex
	entries []string
}

// New creates an empty history.
func New() *History {
	return &History{}
}

// Append records one command line.
func (h *History) Append(line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.entries) > 0 && h.entries[len(h.entries)-1] == line {
		return
	}
	h.entries = append(h.entries, line)
}

// Entries returns a copy of the recorded lines, oldest first.
func (h *History) Entries() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, len(h.entries))
	copy(out, h.entries)
	return out
}

// Clear drops every recorded line.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = nil
}

// Len returns the number of recorded lines.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

// Load replaces the in-memory log with the contents of path. A missing
// file is not an error; the history simply starts empty.
func (h *History) Load(fs afero.Fs, path string) error {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		if exists, _ := afero.Exists(fs, path); !exists {
			return nil
		}
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = nil
	for _, line := range strings.Split(string(data), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			h.entries = append(h.entries, line)
		}
	}
	return nil
}

// Save writes the log to path, one line per entry.
func (h *History) Save(fs afero.Fs, path string) error {
	h.mu.Lock()
	lines := strings.Join(h.entries, "\n")
	h.mu.Unlock()
	if lines != "" {
		lines += "\n"
	}
	return afero.WriteFile(fs, path, []byte(lines), 0o600)
}
