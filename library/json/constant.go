package json

import "strconv"

// Kind 节点类型
type Kind int

const (
	KindNumber Kind = iota
	KindBoolean
	KindFloat
	KindDouble
	KindString
	KindArray
	KindObject
)

var kindNames = [...]string{
	KindNumber:  "number",
	KindBoolean: "boolean",
	KindFloat:   "float",
	KindDouble:  "double",
	KindString:  "string",
	KindArray:   "array",
	KindObject:  "object",
}

// String 类型名
func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// IsContainer 是否为数组或对象
func (k Kind) IsContainer() bool {
	return k == KindArray || k == KindObject
}

// Valid 是否为已定义的类型
func (k Kind) Valid() bool {
	return k >= KindNumber && k <= KindObject
}

const (
	// DefaultScratchSize 单个 token 的暂存区大小，可用 DefaultScratchSize-1 字节
	DefaultScratchSize = 1024
	// DefaultSegmentSize 路径段暂存区大小，可用 DefaultSegmentSize-1 字节
	DefaultSegmentSize = 64
	// DefaultMaxDepth 最大嵌套深度
	DefaultMaxDepth = 512

	// floatPrecision 浮点输出固定 6 位小数
	floatPrecision = 6
	// pathDelimiter 路径分隔符
	pathDelimiter = ">"
)

const (
	literalTrue  = "true"
	literalFalse = "false"
)
