package codec

import (
	"errors"
	"fmt"

	"github.com/cxykevin/tinyjson/library/json"
	"github.com/fxamacker/cbor/v2"
)

// formatVersion 二进制格式版本，字段编号变化时递增
const formatVersion = 1

// ErrFormat CBOR 内容无法还原成文档
var ErrFormat = errors.New("codec: invalid document encoding")

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("codec: CBOR encoder initialization failed: " + err.Error())
	}
	decMode, err = cbor.DecOptions{
		// 每层 JSON 嵌套占用一层 map 与一层 array
		MaxNestedLevels: 2*json.DefaultMaxDepth + 8,
	}.DecMode()
	if err != nil {
		panic("codec: CBOR decoder initialization failed: " + err.Error())
	}
}

// document CBOR 顶层结构
type document struct {
	Version int    `cbor:"1,keyasint"`
	Elems   []node `cbor:"2,keyasint,omitempty"`
}

// node 一个节点；Children 按链顺序排列，名字保持转义形式
type node struct {
	Kind     int     `cbor:"1,keyasint"`
	Name     string  `cbor:"2,keyasint,omitempty"`
	Number   int64   `cbor:"3,keyasint,omitempty"`
	Boolean  bool    `cbor:"4,keyasint,omitempty"`
	Float    float32 `cbor:"5,keyasint,omitempty"`
	Double   float64 `cbor:"6,keyasint,omitempty"`
	String   string  `cbor:"7,keyasint,omitempty"`
	Children []node  `cbor:"8,keyasint,omitempty"`
}

// EncodeCBOR 把整个文档编码为确定性 CBOR
func EncodeCBOR(root *json.Root) ([]byte, error) {
	if root == nil {
		return nil, fmt.Errorf("%w: nil root", json.ErrInvalidArgument)
	}
	doc := document{Version: formatVersion}
	for _, v := range root.Elems() {
		doc.Elems = append(doc.Elems, toNode(v))
	}
	data, err := encMode.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode cbor: %w", err)
	}
	return data, nil
}

func toNode(v *json.Value) node {
	n := node{Kind: int(v.Kind()), Name: v.Name()}
	switch v.Kind() {
	case json.KindNumber:
		n.Number, _ = v.Int()
	case json.KindBoolean:
		n.Boolean, _ = v.Bool()
	case json.KindFloat:
		n.Float, _ = v.Float32()
	case json.KindDouble:
		n.Double, _ = v.Float64()
	case json.KindString:
		n.String, _ = v.Str()
	case json.KindArray, json.KindObject:
		for _, child := range v.Children() {
			n.Children = append(n.Children, toNode(child))
		}
	}
	return n
}

// DecodeCBOR 还原 EncodeCBOR 的输出，链顺序与名字保持不变
func DecodeCBOR(data []byte) (*json.Root, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty input", json.ErrInvalidArgument)
	}
	var doc document
	if err := decMode.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode cbor: %w", err)
	}
	if doc.Version != formatVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrFormat, doc.Version)
	}

	root := json.NewRoot()
	// 逆序插入，链首即编码时的第一个元素
	for i := len(doc.Elems) - 1; i >= 0; i-- {
		v, err := fromNode(&doc.Elems[i])
		if err != nil {
			_ = root.Release()
			return nil, err
		}
		if err := root.Insert(v); err != nil {
			v.Release()
			_ = root.Release()
			return nil, err
		}
	}
	return root, nil
}

func fromNode(n *node) (*json.Value, error) {
	kind := json.Kind(n.Kind)
	var payload any
	switch kind {
	case json.KindNumber:
		payload = n.Number
	case json.KindBoolean:
		payload = n.Boolean
	case json.KindFloat:
		payload = n.Float
	case json.KindDouble:
		payload = n.Double
	case json.KindString:
		payload = n.String
	case json.KindArray, json.KindObject:
	default:
		return nil, fmt.Errorf("%w: unknown kind %d", ErrFormat, n.Kind)
	}
	if !kind.IsContainer() && len(n.Children) > 0 {
		return nil, fmt.Errorf("%w: %s %q carries children", ErrFormat, kind, n.Name)
	}

	v, err := json.Raw(kind, n.Name, payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	for i := len(n.Children) - 1; i >= 0; i-- {
		child, err := fromNode(&n.Children[i])
		if err != nil {
			v.Release()
			return nil, err
		}
		_ = v.InsertChild(child)
	}
	return v, nil
}

// Diagnose 返回 CBOR 的诊断记法，每个数据项一行
func Diagnose(data []byte) (string, error) {
	var out []byte
	remaining := data
	for len(remaining) > 0 {
		notation, rest, err := cbor.DiagnoseFirst(remaining)
		if err != nil {
			return "", fmt.Errorf("diagnose cbor at byte %d: %w", len(data)-len(remaining), err)
		}
		out = append(out, notation...)
		out = append(out, '\n')
		remaining = rest
	}
	return string(out), nil
}
