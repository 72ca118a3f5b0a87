// Package query 用表达式筛选文档节点
package query

import (
	"errors"
	"fmt"

	"github.com/cxykevin/tinyjson/library/json"
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// ErrInvalidQuery 表达式无法编译
var ErrInvalidQuery = errors.New("query: invalid expression")

// Env 表达式可见的节点字段
//
// 字段名避开了 expr 的内置函数（len、int、float、string）。
// 负载字段只在对应 kind 下有意义，其余为零值。
type Env struct {
	Name      string  `expr:"name"`      // 反转义后的名字
	RawName   string  `expr:"raw_name"`  // 存储的转义形式
	Kind      string  `expr:"kind"`      // number / boolean / float / double / string / array / object
	Number    int64   `expr:"number"`    // number
	Real      float64 `expr:"real"`      // float 与 double
	Boolean   bool    `expr:"boolean"`   // boolean
	Text      string  `expr:"text"`      // 反转义后的字符串负载
	Size      int     `expr:"size"`      // 容器的子节点数
	Anonymous bool    `expr:"anonymous"` // 数组元素
}

// EnvOf 从节点构造表达式环境
func EnvOf(v *json.Value) Env {
	env := Env{
		RawName:   v.Name(),
		Name:      unescape(v.Name()),
		Kind:      v.Kind().String(),
		Size:      v.Len(),
		Anonymous: v.Anonymous(),
	}
	switch v.Kind() {
	case json.KindNumber:
		env.Number, _ = v.Int()
	case json.KindBoolean:
		env.Boolean, _ = v.Bool()
	case json.KindFloat:
		f, _ := v.Float32()
		env.Real = float64(f)
	case json.KindDouble:
		env.Real, _ = v.Float64()
	case json.KindString:
		s, _ := v.Str()
		env.Text = unescape(s)
	}
	return env
}

func unescape(s string) string {
	if s == "" {
		return ""
	}
	out, err := json.Unescape(s)
	if err != nil {
		return s
	}
	return out
}

// Predicate 编译好的布尔表达式，可并发使用
type Predicate struct {
	src     string
	program *vm.Program
}

// Compile 编译表达式；结果必须是布尔值
func Compile(src string) (*Predicate, error) {
	program, err := expr.Compile(src, expr.Env(Env{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}
	return &Predicate{src: src, program: program}, nil
}

func (p *Predicate) String() string {
	return p.src
}

// Match 对单个节点求值
func (p *Predicate) Match(v *json.Value) (bool, error) {
	if v == nil {
		return false, fmt.Errorf("%w: nil value", json.ErrInvalidArgument)
	}
	out, err := expr.Run(p.program, EnvOf(v))
	if err != nil {
		return false, fmt.Errorf("evaluate %q on %q: %w", p.src, v.Name(), err)
	}
	matched, ok := out.(bool)
	if !ok {
		return false, fmt.Errorf("evaluate %q: result is %T, not bool", p.src, out)
	}
	return matched, nil
}

// Filter 保留命中的节点，顺序不变
func (p *Predicate) Filter(values []*json.Value) ([]*json.Value, error) {
	var out []*json.Value
	for _, v := range values {
		matched, err := p.Match(v)
		if err != nil {
			return nil, err
		}
		if matched {
			out = append(out, v)
		}
	}
	return out, nil
}

// Select 按链顺序筛选容器的直接子节点
func Select(container *json.Value, src string) ([]*json.Value, error) {
	if container == nil {
		return nil, fmt.Errorf("%w: nil container", json.ErrInvalidArgument)
	}
	if !container.IsContainer() {
		return nil, fmt.Errorf("%w: %s", json.ErrNotContainer, container.Kind())
	}
	p, err := Compile(src)
	if err != nil {
		return nil, err
	}
	return p.Filter(container.Children())
}
