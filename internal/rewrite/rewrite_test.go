package rewrite

import (
	"reflect"
	"testing"
)

func TestSplice(t *testing.T) {
	tests := []struct {
		name       string
		content    string
		start, end int
		insert     string
		want       string
	}{
		{"replace middle", "aaaBBBccc", 3, 6, "xy", "aaaxyccc"},
		{"insert only", "abc", 1, 1, "Z", "aZbc"},
		{"delete only", "abc", 0, 2, "", "c"},
		{"whole buffer", "abc", 0, 3, "new", "new"},
		{"empty content", "", 0, 0, "x", "x"},
		{"clamped offsets", "abc", -4, 99, "q", "q"},
		{"end before start", "abcdef", 4, 2, "-", "abcd-ef"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Splice([]byte(tt.content), tt.start, tt.end, []byte(tt.insert))
			if string(got) != tt.want {
				t.Errorf("Splice() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSplice_DoesNotAliasInput(t *testing.T) {
	content := []byte("function A(){}\n\nfunction B(){}")
	orig := string(content)

	out := Splice(content, 0, 16, []byte("X"))
	out[0] = 'Y'

	if string(content) != orig {
		t.Errorf("input modified: got %q, want %q", content, orig)
	}
}

func TestBuildLineOffsets(t *testing.T) {
	tests := []struct {
		content string
		want    []int
	}{
		{"", []int{0}},
		{"abc", []int{0}},
		{"abc\n", []int{0}},
		{"a\nbc\n\nd", []int{0, 2, 5, 6}},
	}
	for _, tt := range tests {
		got := BuildLineOffsets([]byte(tt.content))
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("BuildLineOffsets(%q) = %v, want %v", tt.content, got, tt.want)
		}
	}
}

func TestLineIndexOfByte(t *testing.T) {
	offsets := BuildLineOffsets([]byte("a\nbc\n\nd"))
	cases := map[int]int{0: 0, 1: 0, 2: 1, 4: 1, 5: 2, 6: 3, 50: 3}
	for off, want := range cases {
		if got := LineIndexOfByte(offsets, off); got != want {
			t.Errorf("LineIndexOfByte(%d) = %d, want %d", off, got, want)
		}
	}
}

func TestLineSpan(t *testing.T) {
	content := []byte("function A(){}\n\nfunction B(){}")
	offsets := BuildLineOffsets(content)

	first, last := LineSpan(offsets, 0, 16)
	if first != 1 || last != 2 {
		t.Errorf("LineSpan(0,16) = %d-%d, want 1-2", first, last)
	}

	first, last = LineSpan(offsets, 16, 16)
	if first != 3 || last != 3 {
		t.Errorf("LineSpan(16,16) = %d-%d, want 3-3", first, last)
	}
}
