package docsite

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// MaxMacroArity is the largest number of positional parameters a TeX macro
// can declare (#1 through #9).
const MaxMacroArity = 9

// Macro is a named TeX text-expansion rule registered with the math renderer.
// A macro with Arity 0 is a plain substitution; otherwise Template refers
// to its arguments as #1..#n.
type Macro struct {
	Name     string
	Template string
	Arity    int
}

// Validate returns an error if the macro is malformed or its declared arity
// does not match the placeholders present in the template.
func (m *Macro) Validate() error {
	if m.Name == "" {
		return Errorf(EINVALID, "macro name required")
	}
	for _, r := range m.Name {
		if !isLetter(r) {
			return Errorf(EINVALID, "macro %q: name must contain letters only", m.Name)
		}
	}
	if m.Arity < 0 || m.Arity > MaxMacroArity {
		return Errorf(EINVALID, "macro %q: arity %d out of range 0..%d", m.Name, m.Arity, MaxMacroArity)
	}

	slots, err := Placeholders(m.Template)
	if err != nil {
		return Errorf(EINVALID, "macro %q: %s", m.Name, ErrorMessage(err))
	}
	if len(slots) != m.Arity {
		return Errorf(EINVALID, "macro %q: declares %d argument(s) but template uses %d", m.Name, m.Arity, len(slots))
	}
	for i, n := range slots {
		if n != i+1 {
			return Errorf(EINVALID, "macro %q: template uses #%d without #%d", m.Name, n, i+1)
		}
	}
	return nil
}

// Expand substitutes args into the template. Exactly Arity arguments must be
// given. "##" in the template produces a literal "#".
func (m *Macro) Expand(args ...string) (string, error) {
	if len(args) != m.Arity {
		return "", Errorf(EINVALID, "macro %q: expected %d argument(s), got %d", m.Name, m.Arity, len(args))
	}

	var b strings.Builder
	tmpl := m.Template
	for i := 0; i < len(tmpl); i++ {
		c := tmpl[i]
		if c != '#' || i+1 >= len(tmpl) {
			b.WriteByte(c)
			continue
		}
		next := tmpl[i+1]
		switch {
		case next == '#':
			b.WriteByte('#')
			i++
		case next >= '1' && next <= '9':
			n := int(next - '0')
			if n > len(args) {
				return "", Errorf(EINVALID, "macro %q: template uses #%d beyond arity %d", m.Name, n, m.Arity)
			}
			b.WriteString(args[n-1])
			i++
		default:
			b.WriteByte(c)
		}
	}
	return b.String(), nil
}

// MarshalJSON encodes the macro in the renderer's table form: a bare string
// for plain substitutions, or a [template, arity] pair.
func (m Macro) MarshalJSON() ([]byte, error) {
	if m.Arity == 0 {
		return json.Marshal(m.Template)
	}
	return json.Marshal([]any{m.Template, m.Arity})
}

// UnmarshalJSON decodes either table form. The name is not part of the
// encoded value and must be set by the caller.
func (m *Macro) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	return m.decodeValue(raw)
}

// UnmarshalTOML implements the BurntSushi/toml Unmarshaler interface so
// macro tables can be declared in configuration files in the same form.
func (m *Macro) UnmarshalTOML(v any) error {
	return m.decodeValue(v)
}

func (m *Macro) decodeValue(v any) error {
	switch v := v.(type) {
	case string:
		m.Template = v
		m.Arity = 0
		return nil
	case []any:
		if len(v) != 2 {
			return Errorf(EINVALID, "macro definition must be [template, arity], got %d element(s)", len(v))
		}
		tmpl, ok := v[0].(string)
		if !ok {
			return Errorf(EINVALID, "macro template must be a string")
		}
		arity, err := toArity(v[1])
		if err != nil {
			return err
		}
		m.Template = tmpl
		m.Arity = arity
		return nil
	default:
		return Errorf(EINVALID, "macro definition must be a string or [template, arity], got %T", v)
	}
}

func toArity(v any) (int, error) {
	switch n := v.(type) {
	case float64:
		if n != float64(int(n)) {
			return 0, Errorf(EINVALID, "macro arity must be an integer, got %v", n)
		}
		return int(n), nil
	case int64:
		return int(n), nil
	case int:
		return n, nil
	default:
		return 0, Errorf(EINVALID, "macro arity must be a number, got %T", v)
	}
}

// Placeholders returns the distinct positional parameters (1..9) referenced
// by a template, in ascending order. A '#' that is not followed by a digit
// or a second '#' is an error.
func Placeholders(template string) ([]int, error) {
	seen := make(map[int]bool)
	for i := 0; i < len(template); i++ {
		if template[i] != '#' {
			continue
		}
		if i+1 >= len(template) {
			return nil, Errorf(EINVALID, "dangling '#' at end of template")
		}
		next := template[i+1]
		switch {
		case next == '#':
		case next >= '1' && next <= '9':
			seen[int(next-'0')] = true
		default:
			return nil, Errorf(EINVALID, "invalid parameter '#%c'", next)
		}
		i++
	}

	slots := make([]int, 0, len(seen))
	for n := range seen {
		slots = append(slots, n)
	}
	sort.Ints(slots)
	return slots, nil
}

// MacroTable maps macro names to their definitions.
type MacroTable map[string]Macro

// Define adds m to the table. An existing definition with the same name is
// overwritten; replaced reports whether that happened.
func (t MacroTable) Define(m Macro) (replaced bool) {
	_, replaced = t[m.Name]
	t[m.Name] = m
	return replaced
}

// Lookup returns the macro registered under name.
func (t MacroTable) Lookup(name string) (Macro, bool) {
	m, ok := t[name]
	return m, ok
}

// Names returns the macro names in sorted order.
func (t MacroTable) Names() []string {
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Merge defines every macro of other in t, later definitions winning.
func (t MacroTable) Merge(other MacroTable) {
	for _, name := range other.Names() {
		t.Define(other[name])
	}
}

// Clone returns a copy of the table.
func (t MacroTable) Clone() MacroTable {
	c := make(MacroTable, len(t))
	for name, m := range t {
		c[name] = m
	}
	return c
}

// Validate checks every macro and returns the first problem found, in name
// order. A map key that disagrees with the macro's own name is an error.
func (t MacroTable) Validate() error {
	for _, name := range t.Names() {
		m := t[name]
		if m.Name != name {
			return Errorf(EINVALID, "macro registered as %q is named %q", name, m.Name)
		}
		if err := m.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// MarshalJSON encodes the table as a name → definition object.
func (t MacroTable) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]Macro(t))
}

// UnmarshalJSON decodes a name → definition object, filling in names.
// Duplicate keys are not detected here; see mathjax.ParseMacros.
func (t *MacroTable) UnmarshalJSON(data []byte) error {
	var raw map[string]Macro
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*t = make(MacroTable, len(raw))
	for name, m := range raw {
		m.Name = name
		(*t)[name] = m
	}
	return nil
}

// UnmarshalTOML decodes a TOML table of macro definitions.
func (t *MacroTable) UnmarshalTOML(v any) error {
	raw, ok := v.(map[string]any)
	if !ok {
		return Errorf(EINVALID, "macros must be a table, got %T", v)
	}
	*t = make(MacroTable, len(raw))
	for name, def := range raw {
		m := Macro{Name: name}
		if err := m.decodeValue(def); err != nil {
			return fmt.Errorf("macro %q: %w", name, err)
		}
		(*t)[name] = m
	}
	return nil
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
