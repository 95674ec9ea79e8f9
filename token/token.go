// Package token segments mixed-script text into index terms.
//
// Bookmark titles are short and dominated by boilerplate, so tokenization
// pairs language-aware segmentation with aggressive noise filtering: without
// it the downstream vector space collapses onto generic terms.
package token

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// stopwords holds grammatical particles, marketing/navigation boilerplate,
// bare years, and common TLD fragments. Single characters are filtered by
// length before this set is consulted.
var stopwords = map[string]bool{
	// Chinese particles and filler
	"一个": true, "没有": true, "自己": true,
	"如何": true, "什么": true, "怎么": true,
	// Generic how-to and marketing terms
	"教程": true, "指南": true, "官网": true, "下载": true,
	"使用": true, "方法": true, "解决": true, "推荐": true,
	"工具": true, "平台": true,
	// Bare years
	"2023": true, "2024": true, "2025": true,
	// TLD fragments and ubiquitous hosts
	"com": true, "cn": true, "net": true, "org": true, "github": true,
	// English boilerplate
	"the": true, "and": true, "for": true, "with": true, "how": true,
	"www": true, "http": true, "https": true,
}

// Tokenize segments text into lowercase tokens, dropping single-character
// tokens and stopwords. Latin and digit runs become whole tokens; Han runs
// are emitted as overlapping character bigrams, which approximates dictionary
// segmentation well enough for short titles. Empty input yields an empty slice.
func Tokenize(text string) []string {
	if text == "" {
		return []string{}
	}

	// NFKC folds full-width forms and compatibility variants so CJK exports
	// and Latin text land in one vocabulary
	text = strings.ToLower(norm.NFKC.String(text))

	tokens := []string{}
	emit := func(tok string) {
		if utf8.RuneCountInString(tok) < 2 {
			return
		}
		if stopwords[tok] {
			return
		}
		tokens = append(tokens, tok)
	}

	var word []rune // current non-Han letter/digit run
	var han []rune  // current Han run
	flushWord := func() {
		if len(word) > 0 {
			emit(string(word))
			word = word[:0]
		}
	}
	flushHan := func() {
		if len(han) == 1 {
			emit(string(han))
		}
		for i := 0; i+1 < len(han); i++ {
			emit(string(han[i : i+2]))
		}
		han = han[:0]
	}

	for _, r := range text {
		switch {
		case unicode.Is(unicode.Han, r):
			flushWord()
			han = append(han, r)
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			flushHan()
			word = append(word, r)
		default:
			flushWord()
			flushHan()
		}
	}
	flushWord()
	flushHan()

	return tokens
}
