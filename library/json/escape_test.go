package json

import (
	"errors"
	"strings"
	"testing"
)

func TestEscape(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"plain", "plain"},
		{"\"\\\t\n\rstring", "\\\"\\\\\\\t\\\n\\\rstring"},
		{"a\fb\bc", "a\\\fb\\\bc"},
		{"中文", "中文"},
	}
	for _, tt := range tests {
		got, err := Escape(tt.input)
		if err != nil {
			t.Fatalf("Escape(%q) error: %v", tt.input, err)
		}
		if got != tt.expected {
			t.Errorf("Escape(%q) = %q; want %q", tt.input, got, tt.expected)
		}
	}
}

func TestEscapeEmpty(t *testing.T) {
	if _, err := Escape(""); !errors.Is(err, ErrEmpty) {
		t.Errorf("expected ErrEmpty, got %v", err)
	}
	if _, err := Unescape(""); !errors.Is(err, ErrEmpty) {
		t.Errorf("expected ErrEmpty, got %v", err)
	}
}

func TestUnescapeSingleLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"\\\"quoted\\\"", "\"quoted\""},
		{"\\\\", "\\"},
		// 不解释 \n、\uXXXX，只去掉反斜杠
		{"\\n", "n"},
		{"\\u0041", "u0041"},
		// 结尾孤立反斜杠被丢弃
		{"abc\\", "abc"},
	}
	for _, tt := range tests {
		got, err := Unescape(tt.input)
		if err != nil {
			t.Fatalf("Unescape(%q) error: %v", tt.input, err)
		}
		if got != tt.expected {
			t.Errorf("Unescape(%q) = %q; want %q", tt.input, got, tt.expected)
		}
	}
}

func TestEscapeInverse(t *testing.T) {
	inputs := []string{
		"hello world",
		"tab\there",
		"\"\\\t\n\r\f\b",
		"\\\\double",
		strings.Repeat("ab\"", 200),
		"key with spaces and symbols !@#$%^&*()",
	}
	for _, s := range inputs {
		escaped, err := Escape(s)
		if err != nil {
			t.Fatalf("Escape(%q) error: %v", s, err)
		}
		back, err := Unescape(escaped)
		if err != nil {
			t.Fatalf("Unescape(%q) error: %v", escaped, err)
		}
		if back != s {
			t.Errorf("Unescape(Escape(%q)) = %q", s, back)
		}
	}
}

func TestEscapeScratchLimit(t *testing.T) {
	limit := DefaultScratchSize - 1
	fits := strings.Repeat("x", limit)
	if got, err := Escape(fits); err != nil || got != fits {
		t.Fatalf("input at the limit should escape unchanged, err=%v", err)
	}

	over := strings.Repeat("x", limit+1)
	if _, err := Escape(over); !errors.Is(err, ErrTruncated) {
		t.Fatalf("expected ErrTruncated, got %v", err)
	}

	// 转义后膨胀超过上限同样报错
	quotes := strings.Repeat("\"", limit/2+1)
	if _, err := Escape(quotes); !errors.Is(err, ErrTruncated) {
		t.Fatalf("expected ErrTruncated for expanded input, got %v", err)
	}
}

func TestEscapeSilentTruncation(t *testing.T) {
	opts := DefaultOptions()
	opts.Truncate = true
	limit := opts.TokenLimit()

	got, err := opts.Escape(strings.Repeat("y", limit+100))
	if err != nil {
		t.Fatalf("truncate mode should not fail: %v", err)
	}
	if len(got) != limit {
		t.Errorf("expected %d bytes, got %d", limit, len(got))
	}

	// 转义对不会被拆开
	got, err = opts.Escape(strings.Repeat("y", limit-1) + "\"tail")
	if err != nil {
		t.Fatal(err)
	}
	if strings.HasSuffix(got, "\\") {
		t.Errorf("truncated output ends with a dangling backslash")
	}
	if len(got) != limit-1 {
		t.Errorf("expected %d bytes, got %d", limit-1, len(got))
	}

	unescaped, err := opts.Unescape(strings.Repeat("z", limit+5))
	if err != nil {
		t.Fatal(err)
	}
	if len(unescaped) != limit {
		t.Errorf("expected %d bytes, got %d", limit, len(unescaped))
	}
}

func TestSmallScratch(t *testing.T) {
	opts := Options{ScratchSize: 8}
	if opts.TokenLimit() != 7 {
		t.Fatalf("expected token limit 7, got %d", opts.TokenLimit())
	}
	if _, err := opts.Escape("12345678"); !errors.Is(err, ErrTruncated) {
		t.Errorf("expected ErrTruncated, got %v", err)
	}
	if _, err := opts.Unescape("12345678"); !errors.Is(err, ErrTruncated) {
		t.Errorf("expected ErrTruncated, got %v", err)
	}
}

func TestClipEscaped(t *testing.T) {
	tests := []struct {
		input    string
		limit    int
		expected string
	}{
		{"abcdef", 10, "abcdef"},
		{"abcdef", 3, "abc"},
		{"ab\\\"cd", 3, "ab"},
		{"a\\\\\\\"", 3, "a\\\\"},
	}
	for _, tt := range tests {
		got := string(clipEscaped([]byte(tt.input), tt.limit))
		if got != tt.expected {
			t.Errorf("clipEscaped(%q, %d) = %q; want %q", tt.input, tt.limit, got, tt.expected)
		}
	}
}
