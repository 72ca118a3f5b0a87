package json

import (
	"fmt"
	"math"

	"github.com/cxykevin/tinyjson/library/stack"
)

// Value JSON 节点
//
// 负载只对声明的 Kind 有效，访问器在类型不符时返回 ok=false。
// name 与字符串负载均为转义形式。
type Value struct {
	kind      Kind
	name      string
	anonymous bool
	// owned 已被插入某个容器或根节点
	owned bool

	number  int64
	boolean bool
	float   float32
	double  float64
	str     string
	// children 按插入顺序保存；链顺序为其逆序
	children []*Value
}

// create 类型化构造器的公共路径：校验并转义名字
func create(kind Kind, name string) (*Value, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: %s requires a non-empty name", ErrInvalidArgument, kind)
	}
	escaped, err := Escape(name)
	if err != nil {
		return nil, fmt.Errorf("escape name: %w", err)
	}
	return &Value{kind: kind, name: escaped}, nil
}

// NewString 创建字符串节点，value 可以为空
func NewString(name, value string) (*Value, error) {
	v, err := create(KindString, name)
	if err != nil {
		return nil, err
	}
	if value == "" {
		return v, nil
	}
	escaped, err := Escape(value)
	if err != nil {
		v.Release()
		return nil, fmt.Errorf("escape value: %w", err)
	}
	v.str = escaped
	return v, nil
}

// NewBoolean 创建布尔节点
func NewBoolean(name string, value bool) (*Value, error) {
	v, err := create(KindBoolean, name)
	if err != nil {
		return nil, err
	}
	v.boolean = value
	return v, nil
}

// NewNumber 创建 64 位整数节点
func NewNumber(name string, value int64) (*Value, error) {
	v, err := create(KindNumber, name)
	if err != nil {
		return nil, err
	}
	v.number = value
	return v, nil
}

// NewFloat 创建 32 位浮点节点，不接受 NaN 与无穷
func NewFloat(name string, value float32) (*Value, error) {
	if !finite(float64(value)) {
		return nil, fmt.Errorf("%w: float %v has no textual form", ErrInvalidArgument, value)
	}
	v, err := create(KindFloat, name)
	if err != nil {
		return nil, err
	}
	v.float = value
	return v, nil
}

// NewDouble 创建 64 位浮点节点，不接受 NaN 与无穷
func NewDouble(name string, value float64) (*Value, error) {
	if !finite(value) {
		return nil, fmt.Errorf("%w: double %v has no textual form", ErrInvalidArgument, value)
	}
	v, err := create(KindDouble, name)
	if err != nil {
		return nil, err
	}
	v.double = value
	return v, nil
}

// NewObject 创建空对象
func NewObject(name string) (*Value, error) {
	return create(KindObject, name)
}

// NewArray 创建空数组
func NewArray(name string) (*Value, error) {
	return create(KindArray, name)
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Raw 以已转义的名字与负载直接构造节点，不做二次转义
//
// 解析器和解码器走这条路径。payload 的类型必须与 kind 对应：
// int64、bool、float32、float64、string，容器传 nil。名字可以为空（数组元素）。
func Raw(kind Kind, escapedName string, payload any) (*Value, error) {
	v := &Value{kind: kind, name: escapedName}
	ok := true
	switch kind {
	case KindNumber:
		v.number, ok = payload.(int64)
	case KindBoolean:
		v.boolean, ok = payload.(bool)
	case KindFloat:
		v.float, ok = payload.(float32)
	case KindDouble:
		v.double, ok = payload.(float64)
	case KindString:
		if payload != nil {
			v.str, ok = payload.(string)
		}
	case KindArray, KindObject:
		ok = payload == nil
	default:
		return nil, fmt.Errorf("%w: unknown kind %d", ErrInvalidArgument, int(kind))
	}
	if !ok {
		return nil, fmt.Errorf("%w: payload %T does not match %s", ErrInvalidArgument, payload, kind)
	}
	return v, nil
}

// Kind 节点类型
func (v *Value) Kind() Kind {
	return v.kind
}

// Name 转义形式的名字
func (v *Value) Name() string {
	return v.name
}

// Anonymous 是否为数组元素（序列化时省略名字）
func (v *Value) Anonymous() bool {
	return v.anonymous
}

// IsContainer 是否为数组或对象
func (v *Value) IsContainer() bool {
	return v.kind.IsContainer()
}

// Int 整数负载
func (v *Value) Int() (int64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	return v.number, true
}

// Bool 布尔负载
func (v *Value) Bool() (bool, bool) {
	if v.kind != KindBoolean {
		return false, false
	}
	return v.boolean, true
}

// Float32 32 位浮点负载
func (v *Value) Float32() (float32, bool) {
	if v.kind != KindFloat {
		return 0, false
	}
	return v.float, true
}

// Float64 64 位浮点负载
func (v *Value) Float64() (float64, bool) {
	if v.kind != KindDouble {
		return 0, false
	}
	return v.double, true
}

// Str 转义形式的字符串负载，空串表示缺省值
func (v *Value) Str() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.str, true
}

// Len 子节点数量，非容器为 0
func (v *Value) Len() int {
	return len(v.children)
}

// Children 按链顺序（最近插入在前）返回子节点的副本
func (v *Value) Children() []*Value {
	return chainOrder(v.children)
}

// Child 链顺序下第 i 个子节点
func (v *Value) Child(i int) *Value {
	if i < 0 || i >= len(v.children) {
		return nil
	}
	return v.children[len(v.children)-1-i]
}

func chainOrder(items []*Value) []*Value {
	if len(items) == 0 {
		return nil
	}
	out := make([]*Value, len(items))
	for i, item := range items {
		out[len(items)-1-i] = item
	}
	return out
}

// InsertChild 把 child 放到链首并转移所有权
//
// 父节点必须是数组或对象；插入数组的子节点被标记为匿名。
func (v *Value) InsertChild(child *Value) error {
	if v == nil || child == nil {
		return fmt.Errorf("%w: nil parent or child", ErrInvalidArgument)
	}
	if !v.kind.IsContainer() {
		return fmt.Errorf("%w: cannot insert into %s", ErrNotContainer, v.kind)
	}
	if child.owned || child == v {
		return ErrOwned
	}
	// v 未被持有时不可能位于 child 子树中
	if v.owned && reachable(child, v) {
		return fmt.Errorf("%w: parent lies inside the child subtree", ErrOwned)
	}
	v.children = append(v.children, child)
	child.owned = true
	if v.kind == KindArray {
		child.anonymous = true
	}
	return nil
}

// reachable 判断 target 是否位于 from 的子树中
func reachable(from, target *Value) bool {
	if len(from.children) == 0 {
		return false
	}
	pending := stack.WithCapacity[*Value](len(from.children))
	pending.PushAll(from.children...)
	for !pending.IsEmpty() {
		node, _ := pending.Pop()
		if node == target {
			return true
		}
		pending.PushAll(node.children...)
	}
	return false
}

// Release 释放整棵子树：名字、负载以及全部后代
//
// 使用显式栈迭代，避免深层嵌套耗尽调用栈。对 nil 无操作。
func (v *Value) Release() {
	if v == nil {
		return
	}
	pending := stack.WithCapacity[*Value](len(v.children) + 1)
	pending.Push(v)
	for !pending.IsEmpty() {
		node, _ := pending.Pop()
		pending.PushAll(node.children...)
		clear(node.children)
		node.children = nil
		node.name = ""
		node.str = ""
	}
}

// Equal 按链顺序比较两棵子树的形状、名字、匿名标记与负载
func Equal(a, b *Value) bool {
	if a == nil || b == nil {
		return a == b
	}
	pairs := stack.New[[2]*Value]()
	pairs.Push([2]*Value{a, b})
	for !pairs.IsEmpty() {
		pair, _ := pairs.Pop()
		x, y := pair[0], pair[1]
		if x.kind != y.kind || x.name != y.name || x.anonymous != y.anonymous {
			return false
		}
		switch x.kind {
		case KindNumber:
			if x.number != y.number {
				return false
			}
		case KindBoolean:
			if x.boolean != y.boolean {
				return false
			}
		case KindFloat:
			if x.float != y.float {
				return false
			}
		case KindDouble:
			if x.double != y.double {
				return false
			}
		case KindString:
			if x.str != y.str {
				return false
			}
		case KindArray, KindObject:
			if len(x.children) != len(y.children) {
				return false
			}
			for i := range x.children {
				pairs.Push([2]*Value{x.children[i], y.children[i]})
			}
		}
	}
	return true
}
