package json

import (
	"fmt"
	"strconv"

	"github.com/cxykevin/tinyjson/library/varstr"
)

// Serialize 把整个文档写入 buf，顶层成员按链顺序以逗号分隔并包裹在 {...} 中
//
// 失败时 buf 回退到调用前的长度。
func Serialize(root *Root, buf *varstr.Buffer) error {
	if root == nil || buf == nil {
		return fmt.Errorf("%w: nil root or buffer", ErrInvalidArgument)
	}
	e := encoder{buf: buf}
	mark := buf.Len()
	e.byte('{')
	for i := len(root.elems) - 1; i >= 0; i-- {
		if i != len(root.elems)-1 {
			e.byte(',')
		}
		e.value(root.elems[i])
	}
	e.byte('}')
	return e.finish(mark)
}

// SerializeValue 把单个节点（含子树）写入 buf；非匿名节点带 "name": 前缀
func SerializeValue(v *Value, buf *varstr.Buffer) error {
	if v == nil || buf == nil {
		return fmt.Errorf("%w: nil value or buffer", ErrInvalidArgument)
	}
	e := encoder{buf: buf}
	mark := buf.Len()
	e.value(v)
	return e.finish(mark)
}

// encoder 记录第一个写入错误，之后的写入全部跳过
type encoder struct {
	buf     *varstr.Buffer
	err     error
	scratch [32]byte
}

func (e *encoder) finish(mark int) error {
	if e.err == nil {
		return nil
	}
	if terr := e.buf.Truncate(mark); terr != nil {
		return fmt.Errorf("serialize: %w (rollback: %v)", e.err, terr)
	}
	return fmt.Errorf("serialize: %w", e.err)
}

func (e *encoder) write(p []byte) {
	if e.err != nil {
		return
	}
	e.err = e.buf.Append(p)
}

func (e *encoder) string(s string) {
	if e.err != nil || s == "" {
		return
	}
	e.err = e.buf.AppendString(s)
}

func (e *encoder) byte(c byte) {
	if e.err != nil {
		return
	}
	e.err = e.buf.AppendByte(c)
}

func (e *encoder) value(v *Value) {
	if e.err != nil {
		return
	}
	if !v.anonymous {
		e.byte('"')
		e.string(v.name)
		e.string("\":")
	}

	switch v.kind {
	case KindNumber:
		e.write(strconv.AppendInt(e.scratch[:0], v.number, 10))
	case KindDouble:
		e.write(strconv.AppendFloat(e.scratch[:0], v.double, 'f', floatPrecision, 64))
	case KindFloat:
		e.write(strconv.AppendFloat(e.scratch[:0], float64(v.float), 'f', floatPrecision, 64))
	case KindBoolean:
		if v.boolean {
			e.string(literalTrue)
		} else {
			e.string(literalFalse)
		}
	case KindString:
		e.byte('"')
		e.string(v.str)
		e.byte('"')
	case KindObject:
		e.children('{', '}', v.children)
	case KindArray:
		e.children('[', ']', v.children)
	}
}

// children 逆序遍历插入顺序，即按链顺序输出
func (e *encoder) children(open, closing byte, items []*Value) {
	e.byte(open)
	for i := len(items) - 1; i >= 0; i-- {
		if i != len(items)-1 {
			e.byte(',')
		}
		e.value(items[i])
	}
	e.byte(closing)
}
