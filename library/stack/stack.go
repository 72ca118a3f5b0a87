// Package stack 泛型栈，用于把递归遍历改写为显式迭代
package stack

// Stack 后进先出栈
type Stack[T any] struct {
	items []T
}

// New 创建空栈
func New[T any]() *Stack[T] {
	return &Stack[T]{
		items: make([]T, 0),
	}
}

// WithCapacity 创建预分配容量的空栈
func WithCapacity[T any](n int) *Stack[T] {
	if n < 0 {
		n = 0
	}
	return &Stack[T]{
		items: make([]T, 0, n),
	}
}

// Push 压栈
func (s *Stack[T]) Push(item T) {
	s.items = append(s.items, item)
}

// PushAll 按顺序压入多个元素，最后一个位于栈顶
func (s *Stack[T]) PushAll(items ...T) {
	s.items = append(s.items, items...)
}

// Pop 弹出栈顶元素
func (s *Stack[T]) Pop() (T, bool) {
	var zero T
	if len(s.items) == 0 {
		return zero, false
	}
	item := s.items[len(s.items)-1]
	// 清掉引用，避免弹出的节点被底层数组继续持有
	s.items[len(s.items)-1] = zero
	s.items = s.items[:len(s.items)-1]
	return item, true
}

// IsEmpty 栈是否为空
func (s *Stack[T]) IsEmpty() bool {
	return len(s.items) == 0
}
