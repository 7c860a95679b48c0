package showcase

import (
	"fmt"
	"strings"
	"unicode"
)

const wordsPerMinute = 200

// ReadingTime estimates how long body takes to read, e.g. "4 min read".
func ReadingTime(body []byte) string {
	words := countWords(string(body))
	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	return fmt.Sprintf("%d min read", minutes)
}

// countWords counts whitespace separated words. Han, Hiragana, Katakana and
// Hangul runes are counted one word each since those scripts don't space
// words.
func countWords(s string) int {
	n := 0
	for _, field := range strings.Fields(s) {
		inWord := false
		for _, r := range field {
			if isCJK(r) {
				n++
				inWord = false
				continue
			}
			if !inWord {
				n++
				inWord = true
			}
		}
	}
	return n
}

func isCJK(r rune) bool {
	return unicode.In(r, unicode.Han, unicode.Hiragana, unicode.Katakana, unicode.Hangul)
}
