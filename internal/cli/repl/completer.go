package repl

import (
	"sort"
	"strings"
)

// Builtin REPL commands handled locally.
var builtins = []string{"help", "exit", "quit", "clear"}

// Completer provides command completion for the REPL.
type Completer struct {
	commands []string
}

// NewCompleter creates a Completer over the server command names plus the
// REPL builtins.
func NewCompleter(commandNames []string) *Completer {
	seen := make(map[string]bool)
	var cmds []string
	for _, n := range append(append([]string{}, commandNames...), builtins...) {
		n = strings.ToLower(n)
		if !seen[n] {
			seen[n] = true
			cmds = append(cmds, n)
		}
	}
	sort.Strings(cmds)
	return &Completer{commands: cmds}
}

// Complete returns the commands starting with prefix, ignoring case.
// Suggestions keep the case style of the prefix's first letter.
func (c *Completer) Complete(prefix string) []string {
	lower := strings.ToLower(prefix)
	upper := prefix != "" && prefix[0] >= 'A' && prefix[0] <= 'Z'

	var suggestions []string
	for _, cmd := range c.commands {
		if strings.HasPrefix(cmd, lower) {
			if upper {
				cmd = strings.ToUpper(cmd)
			}
			suggestions = append(suggestions, cmd)
		}
	}
	return suggestions
}

// Commands returns every completion candidate.
func (c *Completer) Commands() []string {
	return append([]string(nil), c.commands...)
}
