package showcase

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	for _, tc := range []struct {
		raw  string
		want time.Time
		ok   bool
	}{
		{"2024-01-15", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), true},
		{" 2024-01-15 ", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), true},
		{"2024-01-15T08:30:00Z", time.Date(2024, 1, 15, 8, 30, 0, 0, time.UTC), true},
		{"2024-01-15 08:30", time.Date(2024, 1, 15, 8, 30, 0, 0, time.UTC), true},
		{"2024/01/15", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), true},
		{"2024-01", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), true},
		{"January 15, 2024", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), true},
		{"Jan 15, 2024", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), true},
		{"", time.Time{}, false},
		{"soon", time.Time{}, false},
		{"2024-13-45", time.Time{}, false},
	} {
		got, ok := ParseDate(tc.raw)
		if ok != tc.ok || !got.Equal(tc.want) {
			t.Errorf("ParseDate(%q) = %v, %v; want %v, %v", tc.raw, got, ok, tc.want, tc.ok)
		}
	}
}

func TestReadingTime(t *testing.T) {
	words := func(n int) []byte {
		b := make([]byte, 0, n*5)
		for i := 0; i < n; i++ {
			b = append(b, "word "...)
		}
		return b
	}
	for _, tc := range []struct {
		name string
		body []byte
		want string
	}{
		{"empty", nil, "0 min read"},
		{"one word", []byte("hello"), "1 min read"},
		{"exactly one minute", words(200), "1 min read"},
		{"just over", words(201), "2 min read"},
		{"markdown", []byte("# Title\n\n- one\n- two\n"), "1 min read"},
		{"cjk", []byte("日本語のテキスト"), "1 min read"},
	} {
		if got := ReadingTime(tc.body); got != tc.want {
			t.Errorf("%s: ReadingTime = %q, want %q", tc.name, got, tc.want)
		}
	}

	body := words(1234)
	if ReadingTime(body) != ReadingTime(body) {
		t.Error("ReadingTime is not deterministic")
	}
}

func TestCountWords(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want int
	}{
		{"", 0},
		{"  spaced   out\twords\n", 3},
		{"日本語", 3},
		{"Go言語", 3},
	} {
		if got := countWords(tc.in); got != tc.want {
			t.Errorf("countWords(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}
