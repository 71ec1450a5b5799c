package goquery

import (
	"net/url"
	"path"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/docsite"
)

// IndexFile is the file name of the search index script.
const IndexFile = "search_index.js"

var baseURLRe = regexp.MustCompile(`documenterBaseURL\s*=\s*["']([^"']*)["']`)

// ExtractAssets finds the front-end files referenced by a generated page.
// The site root comes from the inline documenterBaseURL assignment, falling
// back to the directory of the search index script or of the page itself.
func ExtractAssets(html string, pageURL string) (*docsite.Assets, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, docsite.Errorf(docsite.EINVALID, "invalid page URL: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, docsite.Errorf(docsite.EINVALID, "failed to parse HTML: %v", err)
	}

	assets := &docsite.Assets{}
	seen := make(map[string]bool)
	doc.Find("script").Each(func(_ int, sel *goquery.Selection) {
		src, ok := sel.Attr("src")
		if !ok {
			if m := baseURLRe.FindStringSubmatch(sel.Text()); m != nil && assets.SiteURL == "" {
				assets.SiteURL = resolveDir(base, m[1])
			}
			return
		}
		if src == "" || isNonHTTPLink(src) {
			return
		}
		resolved := resolveURL(base, src)
		if resolved == "" {
			return
		}

		if main, ok := sel.Attr("data-main"); ok && assets.LoaderURL == "" {
			assets.LoaderURL = resolved
			assets.EntryURL = resolveScript(base, main)
			return
		}
		if path.Base(stripQuery(resolved)) == IndexFile && assets.IndexURL == "" {
			assets.IndexURL = resolved
			return
		}
		if !seen[resolved] {
			seen[resolved] = true
			assets.Scripts = append(assets.Scripts, resolved)
		}
	})

	if assets.SiteURL == "" {
		if assets.IndexURL != "" {
			idx, _ := url.Parse(assets.IndexURL)
			assets.SiteURL = resolveDir(idx, ".")
		} else {
			assets.SiteURL = resolveDir(base, ".")
		}
	}
	if assets.IndexURL == "" {
		root, _ := url.Parse(assets.SiteURL)
		assets.IndexURL = resolveURL(root, IndexFile)
	}
	return assets, nil
}

// Anchors returns the fragment targets of a page: element ids and named
// anchors, in document order without duplicates.
func Anchors(html string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, docsite.Errorf(docsite.EINVALID, "failed to parse HTML: %v", err)
	}

	seen := make(map[string]bool)
	var anchors []string
	doc.Find("[id], a[name]").Each(func(_ int, sel *goquery.Selection) {
		for _, attr := range []string{"id", "name"} {
			v, ok := sel.Attr(attr)
			if !ok || v == "" || seen[v] {
				continue
			}
			if attr == "name" && goquery.NodeName(sel) != "a" {
				continue
			}
			seen[v] = true
			anchors = append(anchors, v)
		}
	})
	return anchors, nil
}

// resolveURL resolves a relative URL against a base URL with the fragment
// stripped. Returns empty string if the href cannot be parsed.
func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(ref)
	resolved.Fragment = ""
	return resolved.String()
}

// resolveDir resolves a directory reference and guarantees a trailing slash.
func resolveDir(base *url.URL, dir string) string {
	if dir == "" {
		dir = "."
	}
	if !strings.HasSuffix(dir, "/") {
		dir += "/"
	}
	resolved := resolveURL(base, dir)
	if u, err := url.Parse(resolved); err == nil {
		u.RawQuery = ""
		return u.String()
	}
	return resolved
}

// resolveScript resolves a RequireJS module reference, which may omit the
// .js extension.
func resolveScript(base *url.URL, ref string) string {
	if ref == "" {
		return ""
	}
	if !strings.HasSuffix(stripQuery(ref), ".js") {
		ref += ".js"
	}
	return resolveURL(base, ref)
}

func stripQuery(s string) string {
	s, _, _ = strings.Cut(s, "?")
	return s
}

// isNonHTTPLink checks if a href is a non-HTTP link that should be skipped.
func isNonHTTPLink(href string) bool {
	href = strings.ToLower(strings.TrimSpace(href))
	return strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:")
}
