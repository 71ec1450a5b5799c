// Package mathjax models the MathJax renderer as seen by a documentation
// page: the global configuration object the loader hands to the setup
// callback, TeX macro expansion against that configuration, and the
// loader script that wires it all up in the browser.
package mathjax

import (
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/fwojciec/docsite"
)

// MaxExpansionDepth bounds nested macro expansion so that self-referencing
// macros fail instead of recursing forever.
const MaxExpansionDepth = 64

// TeXConfig holds the TeX input processor settings.
type TeXConfig struct {
	Macros docsite.MacroTable
}

// HubConfig is the argument to Hub.Config.
type HubConfig struct {
	TeX TeXConfig
}

// Hub is the renderer's global configuration object. It is safe for
// concurrent use.
type Hub struct {
	version string
	hint    string

	mu     sync.RWMutex
	macros docsite.MacroTable
}

// NewHub returns a hub for the given library version and config hint
// (the "config" query parameter of the script URL).
func NewHub(version, hint string) *Hub {
	return &Hub{
		version: version,
		hint:    hint,
		macros:  docsite.MacroTable{},
	}
}

// Version returns the library version the hub was bound from, if known.
func (h *Hub) Version() string { return h.version }

// ConfigHint returns the named configuration requested in the script URL.
func (h *Hub) ConfigHint() string { return h.hint }

// Config merges cfg into the hub. Macros with names already defined are
// replaced.
func (h *Hub) Config(cfg HubConfig) {
	h.mu.Lock()
	defer h.mu.Unlock()

	next := h.macros.Clone()
	next.Merge(cfg.TeX.Macros)
	h.macros = next
}

// Macros returns a copy of the configured macro table.
func (h *Hub) Macros() docsite.MacroTable {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.macros.Clone()
}

// Expand replaces every configured macro in tex with its expansion.
// Arguments are brace-delimited groups or single tokens, as in TeX.
// Control sequences that are not configured macros are left untouched, as is
// the spacing that follows them.
func (h *Hub) Expand(tex string) (string, error) {
	h.mu.RLock()
	macros := h.macros
	h.mu.RUnlock()

	return expand(tex, macros, 0)
}

func expand(s string, macros docsite.MacroTable, depth int) (string, error) {
	if depth > MaxExpansionDepth {
		return "", docsite.Errorf(docsite.EINVALID, "macro expansion deeper than %d levels", MaxExpansionDepth)
	}

	var b strings.Builder
	for i := 0; i < len(s); {
		if s[i] != '\\' {
			b.WriteByte(s[i])
			i++
			continue
		}

		j := i + 1
		for j < len(s) && isLetter(s[j]) {
			j++
		}
		if j == i+1 {
			// Control symbol such as \, or \{, or a trailing backslash.
			end := j
			if end < len(s) {
				_, size := utf8.DecodeRuneInString(s[end:])
				end += size
			}
			b.WriteString(s[i:end])
			i = end
			continue
		}

		name := s[i+1 : j]
		m, ok := macros[name]
		if !ok {
			b.WriteString(s[i:j])
			i = j
			continue
		}

		args := make([]string, 0, m.Arity)
		next := j
		for n := 1; n <= m.Arity; n++ {
			arg, end, err := readArg(s, next)
			if err != nil {
				return "", docsite.Errorf(docsite.EINVALID, `\%s: argument %d: %s`, name, n, docsite.ErrorMessage(err))
			}
			args = append(args, arg)
			next = end
		}

		body, err := m.Expand(args...)
		if err != nil {
			return "", err
		}
		out, err := expand(body, macros, depth+1)
		if err != nil {
			return "", err
		}
		b.WriteString(out)
		i = next
	}
	return b.String(), nil
}

// readArg reads one undelimited macro argument starting at i, skipping
// leading spaces. It returns the argument text and the index after it.
func readArg(s string, i int) (string, int, error) {
	for i < len(s) && (s[i] == ' ' || s[i] == '\t' || s[i] == '\n' || s[i] == '\r') {
		i++
	}
	if i >= len(s) || s[i] == '}' {
		return "", i, docsite.Errorf(docsite.EINVALID, "missing argument")
	}

	switch s[i] {
	case '{':
		depth := 0
		for j := i; j < len(s); j++ {
			switch s[j] {
			case '\\':
				j++
			case '{':
				depth++
			case '}':
				depth--
				if depth == 0 {
					return s[i+1 : j], j + 1, nil
				}
			}
		}
		return "", i, docsite.Errorf(docsite.EINVALID, "unbalanced braces")
	case '\\':
		j := i + 1
		for j < len(s) && isLetter(s[j]) {
			j++
		}
		if j == i+1 && j < len(s) {
			_, size := utf8.DecodeRuneInString(s[j:])
			j += size
		}
		return s[i:j], j, nil
	default:
		_, size := utf8.DecodeRuneInString(s[i:])
		return s[i : i+size], i + size, nil
	}
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
