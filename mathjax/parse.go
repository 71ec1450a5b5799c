package mathjax

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/fwojciec/docsite"
)

// ParseMacros reads a JSON object of macro definitions. Unlike plain
// decoding, a name that appears more than once is reported as ECONFLICT
// rather than silently keeping the last definition.
func ParseMacros(r io.Reader) (docsite.MacroTable, error) {
	dec := json.NewDecoder(r)

	tok, err := dec.Token()
	if err != nil {
		return nil, docsite.Errorf(docsite.EINVALID, "malformed macro table: %s", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, docsite.Errorf(docsite.EINVALID, "macro table must be a JSON object")
	}

	table := docsite.MacroTable{}
	var dups []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, docsite.Errorf(docsite.EINVALID, "malformed macro table: %s", err)
		}
		name := tok.(string)

		var m docsite.Macro
		if err := dec.Decode(&m); err != nil {
			return nil, docsite.Errorf(docsite.EINVALID, "macro %q: %s", name, docsite.ErrorMessage(unwrapJSON(err)))
		}
		m.Name = name

		if table.Define(m) {
			dups = append(dups, name)
		}
	}
	if _, err := dec.Token(); err != nil {
		return nil, docsite.Errorf(docsite.EINVALID, "malformed macro table: %s", err)
	}

	if len(dups) > 0 {
		return table, docsite.Errorf(docsite.ECONFLICT, "duplicate macro definition(s): %s", strings.Join(dups, ", "))
	}
	return table, nil
}

// unwrapJSON keeps application errors raised by Macro.UnmarshalJSON and
// turns decoder errors into EINVALID.
func unwrapJSON(err error) error {
	if docsite.ErrorCode(err) != docsite.EINTERNAL {
		return err
	}
	return docsite.Errorf(docsite.EINVALID, "%s", err)
}
