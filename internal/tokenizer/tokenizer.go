// Package tokenizer turns a document's visible text into the stemmed,
// stopword-filtered token stream the indexer folds into posting counts.
// Before word splitting it scrubs URLs, leftover HTML, emails, phone
// numbers, dates, times, percentages and emoji, and merges runs of
// capitalized words into single entity-like tokens.
package tokenizer

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/forPelevin/gomoji"
	"github.com/kljensen/snowball"
)

var (
	nonWordRun   = regexp.MustCompile(`[^\p{L}\p{N}]+`)
	urlPattern   = regexp.MustCompile(`(?i)\b(?:https?://|www\.)\S+`)
	htmlPattern  = regexp.MustCompile(`(?s)<[^>]*>|&[a-zA-Z#0-9]+;`)
	emailPattern = regexp.MustCompile(`(?i)\b[\w.+-]+@[\w-]+(?:\.[\w-]+)+\b`)
	phonePattern = regexp.MustCompile(`\+?\d[\d\-.\s()]{6,}\d`)
	datePattern  = regexp.MustCompile(`(?i)\b\d{1,4}[-/]\d{1,2}[-/]\d{1,4}\b|\b(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+\d{1,2}(?:st|nd|rd|th)?,?\s+\d{2,4}\b`)
	timePattern  = regexp.MustCompile(`(?i)\b\d{1,2}:\d{2}(?::\d{2})?\s*(?:am|pm)?\b`)
	pctPattern   = regexp.MustCompile(`\b\d+(?:\.\d+)?\s*%`)
)

// scrub strips the noise patterns step 2 names so none of them become
// index terms: URLs, leftover HTML tags/entities, emails, phone numbers,
// dates, times and percentages. Emoji removal is handled separately by
// gomoji since it needs full Unicode emoji tables, not a single regex.
func scrub(text string) string {
	text = urlPattern.ReplaceAllString(text, " ")
	text = htmlPattern.ReplaceAllString(text, " ")
	text = emailPattern.ReplaceAllString(text, " ")
	text = datePattern.ReplaceAllString(text, " ")
	text = timePattern.ReplaceAllString(text, " ")
	text = pctPattern.ReplaceAllString(text, " ")
	text = phonePattern.ReplaceAllString(text, " ")
	return text
}

// isCapitalized reports whether field opens with an uppercase letter,
// the conservative signal used to spot proper-noun runs worth merging.
func isCapitalized(field string) bool {
	for _, r := range field {
		return unicode.IsUpper(r)
	}
	return false
}

// mergeCapitalizedRuns joins consecutive capitalized words ("New York
// City") into one underscore-joined token, approximating named-entity/
// noun-chunk merging without a full NLP parse — the only signal available
// from the example pack's dependency set.
func mergeCapitalizedRuns(fields []string) []string {
	merged := make([]string, 0, len(fields))
	i := 0
	for i < len(fields) {
		if !isCapitalized(fields[i]) {
			merged = append(merged, fields[i])
			i++
			continue
		}
		run := []string{fields[i]}
		j := i + 1
		for j < len(fields) && isCapitalized(fields[j]) {
			run = append(run, fields[j])
			j++
		}
		merged = append(merged, strings.Join(run, "_"))
		i = j
	}
	return merged
}

// Tokenize scrubs known noise patterns and emoji, segments on runs of
// non-letter/non-digit characters, merges capitalized runs into single
// entity tokens, drops stopwords, lowercases, and stems what remains.
func Tokenize(text string, stopwords map[string]struct{}) []string {
	cleaned := scrub(text)
	cleaned = gomoji.RemoveEmojis(cleaned)

	fields := nonWordRun.Split(cleaned, -1)
	nonEmpty := make([]string, 0, len(fields))
	for _, f := range fields {
		if f != "" {
			nonEmpty = append(nonEmpty, f)
		}
	}
	merged := mergeCapitalizedRuns(nonEmpty)

	tokens := make([]string, 0, len(merged))
	for _, field := range merged {
		lower := strings.ToLower(field)
		if _, stop := stopwords[lower]; stop {
			continue
		}
		if strings.Contains(field, "_") {
			// A merged entity token keeps its surface form instead of
			// being stemmed word-by-word, which would scramble the phrase.
			tokens = append(tokens, lower)
			continue
		}
		stemmed, err := snowball.Stem(lower, "english", true)
		if err != nil || stemmed == "" {
			stemmed = lower
		}
		tokens = append(tokens, stemmed)
	}
	return tokens
}

// CountTokens folds a token stream into per-term occurrence counts within
// one document, the unit the indexer writes as postings.
func CountTokens(tokens []string) map[string]int {
	counts := make(map[string]int, len(tokens))
	for _, t := range tokens {
		counts[t]++
	}
	return counts
}

// DefaultStopwords is a small closed English stopword list, used as-is
// rather than a corpus-derived list.
var DefaultStopwords = buildStopwordSet([]string{
	"a", "an", "the", "and", "or", "but", "if", "then", "else",
	"is", "are", "was", "were", "be", "been", "being",
	"of", "at", "by", "for", "with", "about", "against", "between",
	"into", "through", "during", "before", "after", "above", "below",
	"to", "from", "up", "down", "in", "out", "on", "off", "over", "under",
	"again", "further", "once", "here", "there", "when", "where", "why", "how",
	"all", "any", "both", "each", "few", "more", "most", "other", "some",
	"such", "no", "nor", "not", "only", "own", "same", "so", "than", "too", "very",
	"s", "t", "can", "will", "just", "don", "should", "now",
	"i", "me", "my", "we", "our", "you", "your", "he", "she", "it", "they", "them",
	"this", "that", "these", "those", "as", "it's", "its",
})

func buildStopwordSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
