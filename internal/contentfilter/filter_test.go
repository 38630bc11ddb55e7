package contentfilter

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseExtractsTitleDescriptionAndLinks(t *testing.T) {
	base, err := url.Parse("https://example.com/page")
	require.NoError(t, err)

	html := `<html lang="en"><head><title>Hello</title>
<meta name="description" content="A greeting page"></head>
<body><p>Hello world</p><a href="/other">other</a><a href="#frag">frag</a>
<a href="https://example.com/doc.pdf">pdf</a></body></html>`

	doc, err := Parse([]byte(html), *base)
	require.NoError(t, err)

	assert.Equal(t, "Hello", doc.Title)
	assert.Equal(t, "A greeting page", doc.Description)
	assert.Equal(t, "en", doc.Language)
	assert.Contains(t, doc.Text, "Hello world")
	require.Len(t, doc.Links, 1)
	assert.Equal(t, "https://example.com/other", doc.Links[0].String())
}

func TestEvaluateRejectsDisallowedLanguage(t *testing.T) {
	doc := Document{Language: "fr", Text: "Bonjour le monde"}
	verdict := Evaluate(doc, Options{AllowedLanguages: map[string]struct{}{"en": {}}})
	assert.False(t, verdict.Admit)
}

func TestEvaluateAdmitsViaURLPathLanguageSegment(t *testing.T) {
	u, err := url.Parse("https://example.com/en/about")
	require.NoError(t, err)

	doc := Document{URL: *u, Text: "some ambiguous text"}
	verdict := Evaluate(doc, Options{AllowedLanguages: map[string]struct{}{"en": {}}})
	assert.True(t, verdict.Admit)
}

func TestEvaluateRequiresKeyword(t *testing.T) {
	doc := Document{Title: "Tübingen guide", Text: "a city in Germany"}
	verdict := Evaluate(doc, Options{RequiredKeywords: []string{"tübingen"}})
	assert.True(t, verdict.Admit)

	verdict = Evaluate(doc, Options{RequiredKeywords: []string{"berlin"}})
	assert.False(t, verdict.Admit)
}
