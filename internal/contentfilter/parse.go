package contentfilter

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rohmanhakim/vertexcrawl/pkg/urlutil"
)

// Parse walks the fetched HTML body, pulling out title/meta-description,
// the visible text used for tokenization and ranking, the page's declared
// language, and every outbound link, all via one goquery DOM walk.
func Parse(body []byte, base url.URL) (Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return Document{}, err
	}

	// Strip non-content elements before extracting text.
	doc.Find("script, style, noscript, nav, footer, header, svg, iframe").Remove()

	result := Document{URL: base}
	result.Title = strings.TrimSpace(doc.Find("title").First().Text())
	if desc, ok := doc.Find(`meta[name="description"]`).Attr("content"); ok {
		result.Description = strings.TrimSpace(desc)
	}
	result.Language = detectDeclaredLanguage(doc)

	var textParts []string
	doc.Find("body").Each(func(_ int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if text != "" {
			textParts = append(textParts, text)
		}
	})
	result.Text = strings.Join(textParts, "\n")

	result.Links = extractLinks(doc, base)
	return result, nil
}

// detectDeclaredLanguage reads the page's own claim (html[lang] or
// html[xml:lang]) before falling back to statistical detection, since an
// explicit declaration is authoritative when present.
func detectDeclaredLanguage(doc *goquery.Document) string {
	if lang, ok := doc.Find("html").Attr("lang"); ok && lang != "" {
		return normalizeLangCode(lang)
	}
	if lang, ok := doc.Find("html").Attr("xml:lang"); ok && lang != "" {
		return normalizeLangCode(lang)
	}
	return ""
}

func normalizeLangCode(lang string) string {
	return strings.ToLower(strings.TrimSpace(lang))
}

func extractLinks(doc *goquery.Document, base url.URL) []url.URL {
	var links []url.URL
	seen := make(map[string]struct{})
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok {
			return
		}
		resolved, ok := urlutil.Resolve(href, base)
		if !ok || !urlutil.IsHTTP(resolved) {
			return
		}
		if urlutil.HasBinaryExtension(resolved.Path) {
			return
		}
		key := resolved.String()
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		links = append(links, resolved)
	})
	return links
}
