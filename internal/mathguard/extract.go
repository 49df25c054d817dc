// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package mathguard

import (
	"regexp"
	"strings"
)

// mathChars is the set of characters that may appear in a normalized
// expression.
const mathChars = "0123456789+-*/^(). "

var (
	// exprRe matches a string made entirely of arithmetic characters.
	exprRe = regexp.MustCompile(`^[0-9+\-*/^().\s]+$`)

	// candidateRe finds runs of arithmetic characters inside free text.
	candidateRe = regexp.MustCompile(`[0-9+\-*/^(). ]+`)

	// operatorRe requires at least one operator so a bare number is not
	// treated as a question.
	operatorRe = regexp.MustCompile(`[+\-*/^]`)

	spaceRe = regexp.MustCompile(`\s+`)
)

// wordOps maps spelled-out operators to symbols. Order matters:
// multi-word phrases must be replaced before their substrings.
var wordOps = []struct {
	word string
	op   string
}{
	{"to the power of", "^"},
	{"divided by", "/"},
	{"over", "/"},
	{"times", "*"},
	{"multiplied by", "*"},
	{"x", "*"},
	{"×", "*"},
	{"·", "*"},
	{"plus", "+"},
	{"minus", "-"},
	{"–", "-"}, // en-dash
	{"—", "-"}, // em-dash
	{"÷", "/"},
}

// normalize lowercases the text, drops anything after an "=", rewrites
// operator words to symbols, and strips every non-arithmetic character.
func normalize(text string) string {
	s := strings.ToLower(text)
	if i := strings.Index(s, "="); i >= 0 {
		s = s[:i]
	}
	for _, w := range wordOps {
		s = strings.ReplaceAll(s, w.word, w.op)
	}
	var b strings.Builder
	for _, ch := range s {
		if strings.ContainsRune(mathChars, ch) {
			b.WriteRune(ch)
		}
	}
	return strings.TrimSpace(spaceRe.ReplaceAllString(b.String(), " "))
}

// longestCandidate picks the longest space-stripped run of arithmetic
// characters that contains at least one operator. Ties go to the later
// occurrence.
func longestCandidate(text string) string {
	best := ""
	for _, c := range candidateRe.FindAllString(text, -1) {
		c = strings.ReplaceAll(c, " ", "")
		if c == "" {
			continue
		}
		if !exprRe.MatchString(c) || !operatorRe.MatchString(c) {
			continue
		}
		if len(c) >= len(best) {
			best = c
		}
	}
	return best
}

// Extract returns the arithmetic expression embedded in a user message,
// or "" when the message contains no evaluable math.
func Extract(userText string) string {
	return longestCandidate(normalize(userText))
}
