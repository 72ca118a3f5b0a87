package json

import (
	"fmt"
	"strings"
)

// equalFoldASCII 只折叠 ASCII 字母的大小写比较，其它字节须完全相同
func equalFoldASCII(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		x, y := a[i], b[i]
		if x == y {
			continue
		}
		if 'A' <= x && x <= 'Z' {
			x += 'a' - 'A'
		}
		if 'A' <= y && y <= 'Z' {
			y += 'a' - 'A'
		}
		if x != y {
			return false
		}
	}
	return true
}

// FindSameLevel 在一条链上按名字查找，ASCII 大小写不敏感，返回第一个命中
//
// 比较对象是节点保存的转义形式名字。name 为空时返回 nil。
func FindSameLevel(chain []*Value, name string) *Value {
	if name == "" {
		return nil
	}
	for _, v := range chain {
		if v != nil && equalFoldASCII(v.name, name) {
			return v
		}
	}
	return nil
}

// findInserted 与 FindSameLevel 相同，但输入为插入顺序
func findInserted(items []*Value, name string) *Value {
	if name == "" {
		return nil
	}
	for i := len(items) - 1; i >= 0; i-- {
		if equalFoldASCII(items[i].name, name) {
			return items[i]
		}
	}
	return nil
}

// Find 在顶层链上按 ">" 分隔的路径查找，未命中返回 nil
func (r *Root) Find(path string) *Value {
	v, _ := r.Lookup(path)
	return v
}

// Lookup 与 Find 相同，但返回未命中的原因
func (r *Root) Lookup(path string) (*Value, error) {
	if r == nil {
		return nil, fmt.Errorf("%w: nil root", ErrInvalidArgument)
	}
	return lookup(r.elems, path, DefaultOptions())
}

// Find 在 v 的子节点中按路径查找，未命中返回 nil
func (v *Value) Find(path string) *Value {
	found, _ := v.Lookup(path)
	return found
}

// Lookup 与 Find 相同，但返回未命中的原因
func (v *Value) Lookup(path string) (*Value, error) {
	if v == nil {
		return nil, fmt.Errorf("%w: nil value", ErrInvalidArgument)
	}
	if !v.kind.IsContainer() {
		return nil, fmt.Errorf("%w: %s", ErrNotContainer, v.kind)
	}
	return lookup(v.children, path, DefaultOptions())
}

// LookupIn 以指定参数在根的顶层链上查找
func LookupIn(r *Root, path string, opts Options) (*Value, error) {
	if r == nil {
		return nil, fmt.Errorf("%w: nil root", ErrInvalidArgument)
	}
	return lookup(r.elems, path, opts)
}

// lookup 逐段匹配：每段在当前层查找，命中后下降到其子节点
func lookup(level []*Value, path string, opts Options) (*Value, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidArgument)
	}
	limit := opts.SegmentLimit()
	segments := strings.Split(path, pathDelimiter)

	var target *Value
	for i, segment := range segments {
		if len(segment) > limit {
			if !opts.Truncate {
				return nil, fmt.Errorf("%w: segment %d is %d bytes, limit %d", ErrSegmentTooLong, i, len(segment), limit)
			}
			segment = segment[:limit]
		}
		if target != nil {
			if !target.kind.IsContainer() {
				return nil, fmt.Errorf("%w: %q is a %s, cannot descend", ErrNotFound, target.name, target.kind)
			}
			level = target.children
		}
		target = findInserted(level, segment)
		if target == nil {
			return nil, fmt.Errorf("%w: no member %q at segment %d", ErrNotFound, segment, i)
		}
	}
	return target, nil
}
