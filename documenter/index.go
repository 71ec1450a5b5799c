// Package documenter reads and writes the search index script produced by
// the Documenter documentation generator.
package documenter

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/fwojciec/docsite"
)

// declRe matches the variable declaration that wraps the JSON payload.
var declRe = regexp.MustCompile(`^\s*(?:var|let|const)\s+([A-Za-z_$][A-Za-z0-9_$]*)\s*=\s*`)

var identRe = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// ReadSearchIndex parses a search index. Both the script form
// (var documenterSearchIndex = {"docs": [...]}) and bare JSON are accepted.
// Records keep the order they appear in.
func ReadSearchIndex(r io.Reader) (*docsite.SearchIndex, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	idx := &docsite.SearchIndex{Name: docsite.DefaultIndexName}
	if m := declRe.FindSubmatchIndex(data); m != nil {
		idx.Name = string(data[m[2]:m[3]])
		data = data[m[1]:]
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	var payload struct {
		Docs *[]docsite.Record `json:"docs"`
	}
	if err := dec.Decode(&payload); err != nil {
		return nil, docsite.Errorf(docsite.EINVALID, "malformed search index: %s", err)
	}
	if payload.Docs == nil {
		return nil, docsite.Errorf(docsite.EINVALID, "search index has no \"docs\" key")
	}

	rest := strings.TrimSpace(string(data[dec.InputOffset():]))
	rest = strings.TrimSpace(strings.TrimPrefix(rest, ";"))
	if rest != "" {
		return nil, docsite.Errorf(docsite.EINVALID, "unexpected content after search index: %.20q", rest)
	}

	idx.Docs = *payload.Docs
	return idx, nil
}

// WriteSearchIndex writes idx in script form, one record per line.
func WriteSearchIndex(w io.Writer, idx *docsite.SearchIndex) error {
	name := idx.Name
	if name == "" {
		name = docsite.DefaultIndexName
	}
	if !identRe.MatchString(name) {
		return docsite.Errorf(docsite.EINVALID, "invalid index variable name %q", name)
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "var %s = {\"docs\":\n[", name)
	for i, rec := range idx.Docs {
		if i > 0 {
			bw.WriteString(",\n")
		}
		data, err := marshalRecord(rec)
		if err != nil {
			return err
		}
		bw.Write(data)
	}
	bw.WriteString("]\n}\n")
	return bw.Flush()
}

// marshalRecord encodes a record without HTML escaping, matching what the
// generator emits.
func marshalRecord(rec docsite.Record) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(rec); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
