package json

import "fmt"

// needsEscape 需要前置反斜杠的字节
func needsEscape(c byte) bool {
	switch c {
	case '\t', '\f', '\b', '\n', '\r', '"', '\\':
		return true
	}
	return false
}

// Escape 使用默认参数转义
func Escape(s string) (string, error) {
	return DefaultOptions().Escape(s)
}

// Unescape 使用默认参数反转义
func Unescape(s string) (string, error) {
	return DefaultOptions().Unescape(s)
}

// Escape 在制表、换页、退格、换行、回车、双引号、反斜杠前插入反斜杠
//
// 按字节处理，控制字符本身保留（"\n" 转义为反斜杠加换行）。
// 输出超过 TokenLimit 时返回 ErrTruncated；截断模式下在不拆开转义对的前提下截断。
func (o Options) Escape(s string) (string, error) {
	if s == "" {
		return "", ErrEmpty
	}
	limit := o.TokenLimit()
	out := make([]byte, 0, min(len(s)+len(s)/8+1, limit))
	for i := 0; i < len(s); i++ {
		c := s[i]
		width := 1
		if needsEscape(c) {
			width = 2
		}
		if len(out)+width > limit {
			if o.Truncate {
				break
			}
			return "", fmt.Errorf("%w: escaped form of %d input bytes exceeds %d", ErrTruncated, len(s), limit)
		}
		if width == 2 {
			out = append(out, '\\')
		}
		out = append(out, c)
	}
	return string(out), nil
}

// Unescape 遇到反斜杠时跳过它并原样复制下一个字节
//
// 只做单层反转义，不解释 \uXXXX；结尾孤立的反斜杠被丢弃。
func (o Options) Unescape(s string) (string, error) {
	if s == "" {
		return "", ErrEmpty
	}
	limit := o.TokenLimit()
	out := make([]byte, 0, min(len(s), limit))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' {
			i++
			if i >= len(s) {
				break
			}
		}
		if len(out) >= limit {
			if o.Truncate {
				break
			}
			return "", fmt.Errorf("%w: unescaped form exceeds %d bytes", ErrTruncated, limit)
		}
		out = append(out, s[i])
	}
	return string(out), nil
}

// clipEscaped 截断已转义文本，保证末尾不留下孤立的反斜杠
func clipEscaped(text []byte, limit int) []byte {
	if len(text) <= limit {
		return text
	}
	text = text[:limit]
	// 统计末尾连续反斜杠，奇数个说明截断点拆开了转义对
	run := 0
	for i := len(text) - 1; i >= 0 && text[i] == '\\'; i-- {
		run++
	}
	if run%2 == 1 {
		text = text[:len(text)-1]
	}
	return text
}
