package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/docsite"
)

// Ensure Detector implements docsite.GeneratorDetector at compile time.
var _ docsite.GeneratorDetector = (*Detector)(nil)

// Detector identifies documentation generators from HTML content.
// It checks for generator meta tags, the loader entry point and
// structural markers unique to each generator.
type Detector struct{}

// NewDetector creates a new Detector.
func NewDetector() *Detector {
	return &Detector{}
}

// Detect analyzes HTML and returns the identified generator.
// Returns GeneratorUnknown if the generator cannot be determined.
func (d *Detector) Detect(html string) docsite.Generator {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return docsite.GeneratorUnknown
	}

	// Check meta generator tags first - most reliable when present
	if g := d.detectFromMetaGenerator(doc); g != docsite.GeneratorUnknown {
		return g
	}

	// Documenter boots its front-end through RequireJS with a
	// documenter.js entry point and sets documenterBaseURL inline.
	if d.hasSelector(doc, "script[data-main*='documenter']") ||
		d.hasSelector(doc, "#documenter") ||
		d.hasInlineScript(doc, "documenterBaseURL") {
		return docsite.GeneratorDocumenter
	}

	// Check for Sphinx markers (including ReadTheDocs theme)
	if d.hasSelector(doc, ".toctree-wrapper") ||
		d.hasSelector(doc, ".wy-nav-side") ||
		d.hasSelector(doc, ".sphinxsidebar") {
		return docsite.GeneratorSphinx
	}

	// data-md-* attributes are unique to MkDocs Material
	if d.hasSelector(doc, "[data-md-color-scheme]") ||
		d.hasSelector(doc, "[data-md-component]") {
		return docsite.GeneratorMkDocs
	}

	return docsite.GeneratorUnknown
}

// detectFromMetaGenerator checks the meta generator tag.
func (d *Detector) detectFromMetaGenerator(doc *goquery.Document) docsite.Generator {
	generator := ""
	doc.Find("meta[name='generator']").Each(func(_ int, s *goquery.Selection) {
		if content, exists := s.Attr("content"); exists {
			generator = strings.ToLower(content)
		}
	})

	switch {
	case generator == "":
		return docsite.GeneratorUnknown
	case strings.Contains(generator, "documenter"):
		return docsite.GeneratorDocumenter
	case strings.Contains(generator, "sphinx"):
		return docsite.GeneratorSphinx
	case strings.Contains(generator, "mkdocs"):
		return docsite.GeneratorMkDocs
	}
	return docsite.GeneratorUnknown
}

// hasSelector checks if the document contains at least one element matching the selector.
func (d *Detector) hasSelector(doc *goquery.Document, selector string) bool {
	return doc.Find(selector).Length() > 0
}

// hasInlineScript checks if any inline script mentions s.
func (d *Detector) hasInlineScript(doc *goquery.Document, s string) bool {
	found := false
	doc.Find("script:not([src])").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		found = strings.Contains(sel.Text(), s)
		return !found
	})
	return found
}
