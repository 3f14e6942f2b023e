package rewrite

import "sort"

// BuildLineOffsets returns a slice of byte offsets where each new line begins.
// E.g. if content[0]=='a' and content[5]=='\n', then offsets = [0,6,...].
func BuildLineOffsets(content []byte) []int {
	offsets := []int{0}
	for i, b := range content {
		if b == '\n' && i+1 < len(content) {
			offsets = append(offsets, i+1)
		}
	}
	return offsets
}

// LineIndexOfByte maps a byte-offset in the original content to its 0-based line index.
func LineIndexOfByte(lineOffsets []int, offset int) int {
	i := sort.Search(len(lineOffsets), func(i int) bool {
		return lineOffsets[i] > offset
	})
	if i == 0 {
		return 0
	}
	return i - 1
}

// LineSpan reports the 1-based first and last line touched by the byte span
// [start, end). An empty span reports the line holding start for both.
func LineSpan(lineOffsets []int, start, end int) (first, last int) {
	first = LineIndexOfByte(lineOffsets, start) + 1
	if end <= start {
		return first, first
	}
	return first, LineIndexOfByte(lineOffsets, end-1) + 1
}
