package json

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/cxykevin/tinyjson/library/varstr"
)

// Parser 递归下降解析器
type Parser struct {
	opts Options
}

// NewParser 创建解析器，零值字段使用默认参数
func NewParser(opts Options) *Parser {
	return &Parser{opts: opts.normalize()}
}

// Options 解析器参数
func (p *Parser) Options() Options {
	return p.opts
}

// Deserialize 使用默认参数把 buf 中的文档解析进 root
func Deserialize(root *Root, buf *varstr.Buffer) error {
	return NewParser(DefaultOptions()).Parse(root, buf)
}

// Parse 把 buf 中的文档解析进 root
//
// 文档必须整体包裹在一对花括号内（首尾空白忽略）。解析出的成员依次插入
// root 的链首。失败时 root 保持不变，已构建的节点全部释放。
func (p *Parser) Parse(root *Root, buf *varstr.Buffer) error {
	if root == nil || buf == nil {
		return fmt.Errorf("%w: nil root or buffer", ErrInvalidArgument)
	}
	data := buf.Bytes()
	if len(data) == 0 {
		return fmt.Errorf("%w: buffer holds no data", ErrInvalidArgument)
	}

	d := &decoder{data: data, opts: p.opts}
	start := d.skipSpace(0, len(data))
	end := len(data)
	for end > start && isSpace(data[end-1]) {
		end--
	}
	if end-start < 2 || data[start] != '{' || data[end-1] != '}' {
		return syntaxErrorf(start, nil, "document must be wrapped in '{' and '}'")
	}

	closing := end - 1
	var parsed []*Value
	fail := func(err error) error {
		for _, v := range parsed {
			v.Release()
		}
		return err
	}

	i := d.skipSpace(start+1, closing)
	for i < closing {
		v, next, err := d.value(i, closing, false, 1)
		if err != nil {
			return fail(err)
		}
		parsed = append(parsed, v)
		i = d.skipSpace(next, closing)
		if i < closing && data[i] == ',' {
			i = d.skipSpace(i+1, closing)
			if i >= closing {
				return fail(syntaxErrorf(i, nil, "trailing ',' before '}'"))
			}
		}
	}

	for _, v := range parsed {
		// 新节点未被持有，插入不会失败
		_ = root.Insert(v)
	}
	return nil
}

// ParseValue 解析 data 开头的单个值，返回节点与消耗的字节数
//
// anonymous 为 false 时先读取 "name": 前缀（对象成员），为 true 时直接读值（数组元素）。
func (p *Parser) ParseValue(data []byte, anonymous bool) (*Value, int, error) {
	if len(data) == 0 {
		return nil, 0, fmt.Errorf("%w: empty input", ErrInvalidArgument)
	}
	d := &decoder{data: data, opts: p.opts}
	v, next, err := d.value(0, len(data), anonymous, 1)
	if err != nil {
		return nil, 0, err
	}
	if anonymous {
		v.anonymous = true
	}
	return v, next, nil
}

// decoder 单次解析的状态；所有下标都是 data 内的绝对位置，end 为窗口右界
type decoder struct {
	data []byte
	opts Options
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func (d *decoder) skipSpace(i, end int) int {
	for i < end && isSpace(d.data[i]) {
		i++
	}
	return i
}

// value 解析一个值，返回节点与值之后的位置
func (d *decoder) value(i, end int, anonymous bool, depth int) (*Value, int, error) {
	if depth > d.opts.MaxDepth {
		return nil, i, syntaxErrorf(i, ErrDepth, "nesting deeper than %d", d.opts.MaxDepth)
	}

	var name string
	if !anonymous {
		var err error
		name, i, err = d.extractString(i, end)
		if err != nil {
			return nil, i, err
		}
		i = d.skipSpace(i, end)
		if i >= end || d.data[i] != ':' {
			return nil, i, syntaxErrorf(i, nil, "expected ':' after member name %q", name)
		}
		i++
	}
	i = d.skipSpace(i, end)
	if i >= end {
		return nil, i, syntaxErrorf(i, nil, "unexpected end of input, expected a value")
	}

	c := d.data[i]
	switch {
	case c == '[':
		return d.container(KindArray, name, i, end, depth)
	case c == '{':
		return d.container(KindObject, name, i, end, depth)
	case c == '"':
		text, next, err := d.extractString(i, end)
		if err != nil {
			return nil, next, err
		}
		node, _ := Raw(KindString, name, text)
		return node, d.skipSpace(next, end), nil
	case c == '-' || isDigit(c):
		return d.number(name, i, end)
	case c == 't':
		if bytes.HasPrefix(d.data[i:end], []byte(literalTrue)) {
			node, _ := Raw(KindBoolean, name, true)
			return node, i + len(literalTrue), nil
		}
		return nil, i, syntaxErrorf(i, nil, "invalid literal, expected %q", literalTrue)
	case c == 'f':
		if bytes.HasPrefix(d.data[i:end], []byte(literalFalse)) {
			node, _ := Raw(KindBoolean, name, false)
			return node, i + len(literalFalse), nil
		}
		return nil, i, syntaxErrorf(i, nil, "invalid literal, expected %q", literalFalse)
	default:
		return nil, i, syntaxErrorf(i, nil, "unexpected byte %q at start of value", c)
	}
}

// container 解析数组或对象；数组元素匿名，对象成员自带名字
func (d *decoder) container(kind Kind, name string, i, end, depth int) (*Value, int, error) {
	closing := byte(']')
	if kind == KindObject {
		closing = '}'
	}
	open := i
	node, _ := Raw(kind, name, nil)

	i = d.skipSpace(i+1, end)
	if i < end && d.data[i] == closing {
		return node, i + 1, nil
	}

	for {
		child, next, err := d.value(i, end, kind == KindArray, depth+1)
		if err != nil {
			node.Release()
			return nil, next, err
		}
		// 新节点未被持有，插入不会失败
		_ = node.InsertChild(child)

		i = d.skipSpace(next, end)
		if i >= end {
			node.Release()
			return nil, i, syntaxErrorf(open, nil, "unterminated %s, missing '%c'", kind, closing)
		}
		switch d.data[i] {
		case closing:
			return node, i + 1, nil
		case ',':
			i = d.skipSpace(i+1, end)
		}
		// 逗号可省略：不是逗号也不是右括号时直接解析下一个元素
	}
}

// number 解析整数或带小数点的浮点数，允许一个前导负号
func (d *decoder) number(name string, i, end int) (*Value, int, error) {
	start := i
	if d.data[i] == '-' {
		i++
		if i >= end || !isDigit(d.data[i]) {
			return nil, i, syntaxErrorf(start, nil, "expected digit after '-'")
		}
	}
	for i < end && isDigit(d.data[i]) {
		i++
	}

	kind := KindNumber
	if i < end && d.data[i] == '.' {
		kind = KindFloat
		i++
		for i < end && isDigit(d.data[i]) {
			i++
		}
	}

	text := string(d.data[start:i])
	if kind == KindNumber {
		n, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return nil, i, syntaxErrorf(start, nil, "invalid number %q: %v", text, err)
		}
		node, _ := Raw(KindNumber, name, n)
		return node, i, nil
	}
	f, err := strconv.ParseFloat(text, 32)
	if err != nil {
		return nil, i, syntaxErrorf(start, nil, "invalid float %q: %v", text, err)
	}
	node, _ := Raw(KindFloat, name, float32(f))
	return node, i, nil
}

// extractString 跳过前导空白后读取一个带引号的转义字符串
//
// 返回引号内的原始（仍为转义形式的）文本和右引号之后的位置。
// 未转义的换行、回车、制表、退格视为字符串未结束。
func (d *decoder) extractString(i, end int) (string, int, error) {
	i = d.skipSpace(i, end)
	if i >= end || d.data[i] != '"' {
		return "", i, syntaxErrorf(i, nil, "expected '\"' to start a string")
	}
	open := i
	i++
	start := i
	escaped := false
	for ; i < end; i++ {
		c := d.data[i]
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			escaped = true
		case '\n', '\r', '\t', '\b':
			return "", i, syntaxErrorf(open, nil, "unterminated string: unescaped control byte %q", c)
		case '"':
			text, err := d.clip(d.data[start:i], open)
			if err != nil {
				return "", i, err
			}
			return text, i + 1, nil
		}
	}
	return "", i, syntaxErrorf(open, nil, "unterminated string")
}

// clip 按暂存区上限处理 token
func (d *decoder) clip(text []byte, offset int) (string, error) {
	limit := d.opts.TokenLimit()
	if len(text) <= limit {
		return string(text), nil
	}
	if !d.opts.Truncate {
		return "", syntaxErrorf(offset, ErrTruncated, "string of %d bytes exceeds %d", len(text), limit)
	}
	return string(clipEscaped(text, limit)), nil
}
