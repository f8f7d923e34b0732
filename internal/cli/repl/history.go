package repl

import (
	"bufio"
	"os"
	"path/filepath"
)

const defaultHistorySize = 1000

// History manages command history for the REPL.
type History struct {
	entries []string
	maxSize int
	file    string
}

// NewHistory creates a History persisted at file. An empty file keeps the
// history in memory only.
func NewHistory(file string) *History {
	return &History{
		entries: make([]string, 0),
		maxSize: defaultHistorySize,
		file:    file,
	}
}

// Add adds a command to history, skipping immediate repeats.
func (h *History) Add(cmd string) {
	if n := len(h.entries); n > 0 && h.entries[n-1] == cmd {
		return
	}
	h.entries = append(h.entries, cmd)
	if len(h.entries) > h.maxSize {
		h.entries = h.entries[1:]
	}
}

// Get returns the history entry at index (0 = most recent).
func (h *History) Get(index int) string {
	if index < 0 || index >= len(h.entries) {
		return ""
	}
	return h.entries[len(h.entries)-1-index]
}

// Len returns the number of entries.
func (h *History) Len() int {
	return len(h.entries)
}

// Load loads history from file.
func (h *History) Load() error {
	if h.file == "" {
		return nil
	}
	file, err := os.Open(h.file)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if line := scanner.Text(); line != "" {
			h.Add(line)
		}
	}
	return scanner.Err()
}

// Save saves history to file.
func (h *History) Save() error {
	if h.file == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(h.file), 0700); err != nil {
		return err
	}

	file, err := os.OpenFile(h.file, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	for _, entry := range h.entries {
		if _, err := w.WriteString(entry + "\n"); err != nil {
			return err
		}
	}
	return w.Flush()
}
