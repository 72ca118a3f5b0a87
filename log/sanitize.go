package log

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// secretMember 匹配名字像凭据的 JSON 字符串成员
var secretMember = regexp.MustCompile(`("(?i:password|passwd|secret|token|access_token|refresh_token|api_?key|authorization|private_key)"\s*:\s*)"(?:[^"\\]|\\.)*"`)

// Redact 把凭据类成员的值替换为 "***"
func Redact(text string) string {
	if text == "" {
		return ""
	}
	return secretMember.ReplaceAllString(text, `$1"***"`)
}

// Excerpt 截取文档开头用于日志，超过 max 字节时追加省略号
//
// 截断点不会落在多字节字符中间。
func Excerpt(data []byte, max int) string {
	if max <= 0 {
		return ""
	}
	if len(data) <= max {
		return strings.TrimSpace(Redact(string(data)))
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(data[cut]) {
		cut--
	}
	return strings.TrimSpace(Redact(string(data[:cut]))) + "..."
}
