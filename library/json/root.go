package json

import "fmt"

// Root 文档根：顶层具名成员组成的链，相当于隐式对象
type Root struct {
	elems []*Value
}

// NewRoot 创建空根
func NewRoot() *Root {
	return &Root{}
}

// Insert 把 v 放到顶层链首并转移所有权
func (r *Root) Insert(v *Value) error {
	if r == nil || v == nil {
		return fmt.Errorf("%w: nil root or value", ErrInvalidArgument)
	}
	if v.owned {
		return ErrOwned
	}
	r.elems = append(r.elems, v)
	v.owned = true
	return nil
}

// Elems 按链顺序返回顶层成员
func (r *Root) Elems() []*Value {
	if r == nil {
		return nil
	}
	return chainOrder(r.elems)
}

// Len 顶层成员数量
func (r *Root) Len() int {
	if r == nil {
		return 0
	}
	return len(r.elems)
}

// Release 释放全部顶层成员；nil 根返回错误
func (r *Root) Release() error {
	if r == nil {
		return fmt.Errorf("%w: nil root", ErrInvalidArgument)
	}
	for _, v := range r.elems {
		v.Release()
	}
	clear(r.elems)
	r.elems = nil
	return nil
}

// Equal 按链顺序比较两个根
func (r *Root) Equal(other *Root) bool {
	if r == nil || other == nil {
		return r == other
	}
	if len(r.elems) != len(other.elems) {
		return false
	}
	for i := range r.elems {
		if !Equal(r.elems[i], other.elems[i]) {
			return false
		}
	}
	return true
}
