package mathjax

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
	"text/template"

	"github.com/fwojciec/docsite"
)

var scriptTmpl = template.Must(template.New("latex.js").Funcs(template.FuncMap{
	"js": jsLiteral,
}).Parse(`requirejs.config({
    paths: {
{{- range .Paths}}
        {{js .Name}}: {{js .Location}},
{{- end}}
    },
    shim: {
{{- range .Paths}}{{if .Exports}}
        {{js .Name}}: {
            exports: {{js .Exports}}
        },
{{- end}}{{end}}
    }
});

require([{{js .Module}}], function(MathJax) {
    MathJax.Hub.Config({
        TeX: {
            Macros: {
{{- range $i, $m := .Macros}}{{if $i}},{{end}}
                {{$m.Name}}: {{$m.Value}}
{{- end}}
            }
        }
    });
})
`))

type scriptData struct {
	Paths  []docsite.Resource
	Module string
	Macros []scriptMacro
}

type scriptMacro struct {
	Name  string
	Value string
}

// WriteScript renders the page script that declares the loader paths,
// requires the MathJax module and installs macros once it has loaded.
func WriteScript(w io.Writer, cfg docsite.LoaderConfig, macros docsite.MacroTable) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := macros.Validate(); err != nil {
		return err
	}
	module, ok := cfg.NameForExport(Exports)
	if !ok {
		return docsite.Errorf(docsite.EINVALID, "no module exports %s", Exports)
	}

	data := scriptData{Module: module}
	for _, name := range cfg.Names() {
		r, _ := cfg.Resource(name)
		data.Paths = append(data.Paths, r)
	}
	for _, name := range macros.Names() {
		value, err := jsLiteral(macros[name])
		if err != nil {
			return err
		}
		data.Macros = append(data.Macros, scriptMacro{Name: name, Value: value})
	}

	return scriptTmpl.Execute(w, data)
}

// jsLiteral encodes v as JSON, which is also a valid JavaScript literal.
func jsLiteral(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}
