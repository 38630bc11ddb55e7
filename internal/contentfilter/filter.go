package contentfilter

import (
	"net/url"
	"strings"

	"github.com/RadhiFadlillah/whatlanggo"
)

// Options parameterizes admission: the set of allowed language codes (empty
// means no restriction) and the keywords at least one of which must appear
// in the page text (empty means no restriction).
type Options struct {
	AllowedLanguages map[string]struct{}
	RequiredKeywords []string
}

// Evaluate applies the admission gate in order: language first (cheapest,
// and a page in the wrong language is never worth tokenizing), then the
// keyword requirement. Either check short-circuits so the expensive
// statistical language detector only runs when the page declared no
// language itself.
func Evaluate(doc Document, opts Options) Verdict {
	if len(opts.AllowedLanguages) > 0 {
		lang := doc.Language
		if lang == "" {
			lang = pathSegmentLanguage(doc.URL, opts.AllowedLanguages)
		}
		if lang == "" {
			lang = detectStatisticalLanguage(doc.Text)
		}
		if _, ok := opts.AllowedLanguages[lang]; !ok {
			return Verdict{Admit: false, Reason: "language_not_allowed:" + lang}
		}
	}

	if len(opts.RequiredKeywords) > 0 && !containsAnyKeyword(doc, opts.RequiredKeywords) {
		return Verdict{Admit: false, Reason: "missing_required_keyword"}
	}

	return Verdict{Admit: true}
}

// pathSegmentLanguage reports the first path segment of u that exactly
// matches one of the allowed codes, e.g. "/en/about" admits under "en"
// even when the page declares no <html lang> itself.
func pathSegmentLanguage(u url.URL, allowed map[string]struct{}) string {
	for _, seg := range strings.Split(strings.Trim(u.Path, "/"), "/") {
		seg = strings.ToLower(seg)
		if _, ok := allowed[seg]; ok {
			return seg
		}
	}
	return ""
}

// detectStatisticalLanguage runs whatlanggo's n-gram detector over the
// page's visible text when the page itself declares no language.
func detectStatisticalLanguage(text string) string {
	sample := text
	if len(sample) > 4096 {
		sample = sample[:4096]
	}
	info := whatlanggo.Detect(sample)
	if info.Lang == whatlanggo.Unknown {
		return ""
	}
	return strings.ToLower(whatlanggo.Iso6391(info.Lang))
}

func containsAnyKeyword(doc Document, keywords []string) bool {
	haystack := strings.ToLower(doc.Title + " " + doc.Description + " " + doc.Text)
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(haystack, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}
