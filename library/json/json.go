// Package json 精简的 JSON 文档模型：树构建、递归下降解析、序列化与路径查找
//
// 字符串类节点（名字与字符串值）始终以转义形式保存，序列化时原样输出。
// 容器的子节点按“链顺序”暴露：最近插入的在最前，与插入顺序相反。
// 因此 Serialize 输出的成员顺序与构建顺序相反，再次解析又会反转一次。
//
// 单个 token 受 Options.ScratchSize 限制，路径段受 Options.SegmentSize 限制。
// 默认超限返回 ErrTruncated / ErrSegmentTooLong；Options.Truncate 为 true 时
// 改为静默截断。
//
// 本包不做任何同步，同一棵树或缓冲区只能由一个 goroutine 使用。
package json

// Options 解析、转义与查找的限制参数，零值字段使用默认值
type Options struct {
	// ScratchSize 单个 token 暂存区大小（含结尾空位）
	ScratchSize int
	// SegmentSize 路径段暂存区大小（含结尾空位）
	SegmentSize int
	// MaxDepth 最大嵌套深度
	MaxDepth int
	// Truncate 超限时静默截断而不是报错
	Truncate bool
}

// DefaultOptions 默认参数
func DefaultOptions() Options {
	return Options{
		ScratchSize: DefaultScratchSize,
		SegmentSize: DefaultSegmentSize,
		MaxDepth:    DefaultMaxDepth,
	}
}

func (o Options) normalize() Options {
	if o.ScratchSize <= 1 {
		o.ScratchSize = DefaultScratchSize
	}
	if o.SegmentSize <= 1 {
		o.SegmentSize = DefaultSegmentSize
	}
	if o.MaxDepth <= 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	return o
}

// TokenLimit 单个 token 可用字节数
func (o Options) TokenLimit() int {
	return o.normalize().ScratchSize - 1
}

// SegmentLimit 单个路径段可用字节数
func (o Options) SegmentLimit() int {
	return o.normalize().SegmentSize - 1
}
