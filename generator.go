package docsite

// Generator identifies the tool that produced a documentation website.
type Generator string

// Generators recognized from page markup. Only Documenter sites ship the
// search index and loader configuration this package reads.
const (
	GeneratorUnknown    Generator = ""
	GeneratorDocumenter Generator = "documenter"
	GeneratorSphinx     Generator = "sphinx"
	GeneratorMkDocs     Generator = "mkdocs"
)

// GeneratorDetector identifies the generator of an HTML page.
type GeneratorDetector interface {
	// Detect returns GeneratorUnknown if the generator cannot be determined.
	Detect(html string) Generator
}

// Assets are the front-end files a generated page references.
type Assets struct {
	// SiteURL is the root the page's search record locations are relative to.
	SiteURL string

	// IndexURL is the search index script.
	IndexURL string

	// LoaderURL is the module loader script, if any.
	LoaderURL string

	// EntryURL is the loader's entry point (its data-main script).
	EntryURL string

	// Scripts lists every other script the page references, in page order.
	Scripts []string
}
