// Package varstr 可增长字节缓冲区，既承载序列化输出，也保存待解析的原始文本
package varstr

import (
	"errors"
	"fmt"
	"io"
)

var (
	// ErrNilBuffer 缓冲区为空指针
	ErrNilBuffer = errors.New("varstr: nil buffer")
	// ErrNilData 追加的数据为空指针
	ErrNilData = errors.New("varstr: nil data")
	// ErrTooLarge 超出缓冲区上限，对应分配失败
	ErrTooLarge = errors.New("varstr: buffer limit exceeded")
)

// readChunk ReadFrom 每次读取的块大小
const readChunk = 4096

// Buffer 只追加的字节缓冲区
//
// len(data) 即容量，[0, length) 为有效内容，其余部分保持零值。
type Buffer struct {
	data   []byte
	length int
	// limit 容量上限，0 表示不限制
	limit int
}

// New 创建空缓冲区
func New() *Buffer {
	return &Buffer{}
}

// NewLimited 创建带容量上限的缓冲区
func NewLimited(limit int) *Buffer {
	if limit < 0 {
		limit = 0
	}
	return &Buffer{limit: limit}
}

// grow 扩容至少 2*n 字节；失败时不修改缓冲区
func (b *Buffer) grow(n int) error {
	need := b.length + n
	if b.limit > 0 && need > b.limit {
		return fmt.Errorf("%w: need %d bytes, limit %d", ErrTooLarge, need, b.limit)
	}
	newCap := len(b.data) + 2*n
	if b.limit > 0 && newCap > b.limit {
		newCap = b.limit
	}
	space := make([]byte, newCap)
	copy(space, b.data[:b.length])
	b.data = space
	return nil
}

// Append 追加 p 的全部字节
//
// 剩余容量不大于 len(p) 时先扩容；要么完整追加，要么保持调用前的状态。
func (b *Buffer) Append(p []byte) error {
	if b == nil {
		return ErrNilBuffer
	}
	if p == nil {
		return ErrNilData
	}
	if len(p) == 0 {
		return nil
	}
	if len(b.data)-b.length <= len(p) {
		if err := b.grow(len(p)); err != nil {
			return err
		}
	}
	copy(b.data[b.length:], p)
	b.length += len(p)
	return nil
}

// AppendString 追加字符串
func (b *Buffer) AppendString(s string) error {
	if b == nil {
		return ErrNilBuffer
	}
	return b.Append([]byte(s))
}

// AppendByte 追加单个字节
func (b *Buffer) AppendByte(c byte) error {
	if b == nil {
		return ErrNilBuffer
	}
	return b.Append([]byte{c})
}

// Write 实现 io.Writer
func (b *Buffer) Write(p []byte) (int, error) {
	if p == nil {
		return 0, nil
	}
	if err := b.Append(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// ReadFrom 实现 io.ReaderFrom，读取 r 直到 EOF
func (b *Buffer) ReadFrom(r io.Reader) (int64, error) {
	if b == nil {
		return 0, ErrNilBuffer
	}
	var total int64
	chunk := make([]byte, readChunk)
	for {
		n, err := r.Read(chunk)
		if n > 0 {
			if appendErr := b.Append(chunk[:n]); appendErr != nil {
				return total, appendErr
			}
			total += int64(n)
		}
		if err == io.EOF {
			return total, nil
		}
		if err != nil {
			return total, err
		}
	}
}

// Bytes 返回有效内容的视图，后续追加可能使其失效
func (b *Buffer) Bytes() []byte {
	if b == nil || b.data == nil {
		return nil
	}
	return b.data[:b.length]
}

// String 以字符串形式返回有效内容
func (b *Buffer) String() string {
	if b == nil {
		return ""
	}
	return string(b.data[:b.length])
}

// Len 已使用字节数
func (b *Buffer) Len() int {
	if b == nil {
		return 0
	}
	return b.length
}

// Cap 已分配字节数
func (b *Buffer) Cap() int {
	if b == nil {
		return 0
	}
	return len(b.data)
}

// Limit 容量上限，0 表示不限制
func (b *Buffer) Limit() int {
	if b == nil {
		return 0
	}
	return b.limit
}

// Truncate 丢弃 n 字节之后的内容，被丢弃的区域重新置零
func (b *Buffer) Truncate(n int) error {
	if b == nil {
		return ErrNilBuffer
	}
	if n < 0 || n > b.length {
		return fmt.Errorf("varstr: truncate %d out of range [0, %d]", n, b.length)
	}
	clear(b.data[n:b.length])
	b.length = n
	return nil
}

// Reset 清空内容但保留已分配空间
func (b *Buffer) Reset() {
	if b == nil {
		return
	}
	clear(b.data[:b.length])
	b.length = 0
}

// Dup 复制出一个独立的缓冲区，容量、长度与内容均相同
func (b *Buffer) Dup() (*Buffer, error) {
	if b == nil {
		return nil, ErrNilBuffer
	}
	dst := &Buffer{
		length: b.length,
		limit:  b.limit,
	}
	if b.data != nil {
		dst.data = make([]byte, len(b.data))
		copy(dst.data, b.data[:b.length])
	}
	return dst, nil
}

// Release 释放底层存储；对空指针返回错误而不是崩溃
func (b *Buffer) Release() error {
	if b == nil {
		return ErrNilBuffer
	}
	b.data = nil
	b.length = 0
	return nil
}
