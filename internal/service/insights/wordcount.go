package insights

import (
	"strings"
	"unicode"
)

// WordsPerMinute is the reading speed behind ReadingMinutes
const WordsPerMinute = 200

// CountWords counts the words of a document body, ignoring list markers and
// light markdown emphasis
func CountWords(body string) int {
	count := 0
	for _, line := range strings.Split(body, "\n") {
		line = stripMarker(strings.TrimSpace(line))
		line = strings.NewReplacer("**", "", "__", "", "`", "").Replace(line)

		for _, word := range strings.FieldsFunc(line, unicode.IsSpace) {
			if strings.IndexFunc(word, isWordRune) >= 0 {
				count++
			}
		}
	}
	return count
}

// ReadingMinutes rounds up, with a minimum of one minute for any non-empty body
func ReadingMinutes(words int) int {
	if words <= 0 {
		return 0
	}
	return (words + WordsPerMinute - 1) / WordsPerMinute
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
