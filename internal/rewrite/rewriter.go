package rewrite

import "bytes"

// Splice returns a new buffer holding content[:start], then insert, then
// content[end:]. The input slice is never modified or aliased.
//
// start and end are byte offsets into content with 0 <= start <= end <= len(content).
// Out-of-range offsets are clamped rather than panicking.
func Splice(content []byte, start, end int, insert []byte) []byte {
	start = clamp(start, 0, len(content))
	end = clamp(end, start, len(content))

	var out bytes.Buffer
	out.Grow(start + len(insert) + len(content) - end)
	out.Write(content[:start])
	out.Write(insert)
	out.Write(content[end:])
	return out.Bytes()
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
