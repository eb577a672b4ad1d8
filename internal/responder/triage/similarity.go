package triage

import (
	"regexp"
	"strings"
)

var (
	sentenceBoundary = regexp.MustCompile(`[.!?]+`)
	wordPattern      = regexp.MustCompile(`[a-z0-9]+`)
)

// stopwords are filler words ignored when comparing text to symptom names.
var stopwords = map[string]bool{
	"a": true, "an": true, "the": true, "of": true, "in": true, "on": true,
	"at": true, "to": true, "for": true, "from": true, "with": true,
	"and": true, "or": true, "is": true, "am": true, "are": true,
	"i": true, "me": true, "my": true, "it": true, "have": true, "has": true,
	"had": true, "there": true, "also": true, "feel": true, "feeling": true,
}

// splitSentences breaks a query into trimmed, non-empty sentences. The whole
// query counts as one sentence when no boundaries are present.
func splitSentences(query string) []string {
	parts := sentenceBoundary.Split(query, -1)
	sentences := make([]string, 0, len(parts))
	for _, part := range parts {
		if s := strings.TrimSpace(part); s != "" {
			sentences = append(sentences, s)
		}
	}
	if len(sentences) == 0 {
		return []string{query}
	}
	return sentences
}

// stemmedTokens lowercases text and returns its set of stemmed content words.
type tokenSet map[string]bool

func stemmedTokens(text string) tokenSet {
	tokens := make(tokenSet)
	for _, word := range wordPattern.FindAllString(strings.ToLower(text), -1) {
		if stopwords[word] {
			continue
		}
		tokens[stem(word)] = true
	}
	return tokens
}

// stem strips common suffixes so close word forms line up: rashes and rash,
// itching and itches, headaches and headache, dizziness and dizzy.
func stem(word string) string {
	switch {
	case strings.HasSuffix(word, "ies") && len(word) > 4:
		word = word[:len(word)-3] + "y"
	case strings.HasSuffix(word, "es") && len(word) > 4 && sibilant(word[:len(word)-2]):
		word = word[:len(word)-2]
	case strings.HasSuffix(word, "s") && !strings.HasSuffix(word, "ss") && len(word) > 3:
		word = word[:len(word)-1]
	}

	switch {
	case strings.HasSuffix(word, "ness") && len(word) > 5:
		word = word[:len(word)-4]
		if strings.HasSuffix(word, "i") {
			word = word[:len(word)-1] + "y"
		}
	case strings.HasSuffix(word, "ful") && len(word) > 5:
		word = word[:len(word)-3]
	case strings.HasSuffix(word, "ing") && len(word) > 5:
		word = word[:len(word)-3]
	case strings.HasSuffix(word, "ed") && len(word) > 4:
		word = word[:len(word)-2]
	}

	if strings.HasSuffix(word, "e") && len(word) > 3 {
		word = word[:len(word)-1]
	}
	return word
}

func sibilant(s string) bool {
	for _, suffix := range []string{"s", "x", "z", "ch", "sh"} {
		if strings.HasSuffix(s, suffix) {
			return true
		}
	}
	return false
}

// coverage scores how much of a symptom's vocabulary appears in the text,
// as shared stems over symptom stems, in [0, 1].
func coverage(symptom, text tokenSet) float64 {
	if len(symptom) == 0 {
		return 0
	}
	shared := 0
	for token := range symptom {
		if text[token] {
			shared++
		}
	}
	return float64(shared) / float64(len(symptom))
}
