package content

import "strings"

const WordsPerMinute = 200

// WordCount считает слова только в параграфах.
func WordCount(blocks []Block) int {
	n := 0
	for _, b := range blocks {
		if b.Type == TypeParagraph {
			n += len(strings.Fields(b.Content))
		}
	}
	return n
}

// ReadingTime — минуты чтения, не меньше 1.
func ReadingTime(blocks []Block) int {
	return readingMinutes(WordCount(blocks))
}

func readingMinutes(words int) int {
	m := (words + WordsPerMinute - 1) / WordsPerMinute
	if m < 1 {
		return 1
	}
	return m
}
