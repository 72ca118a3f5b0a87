package structs

import (
	"github.com/cxykevin/tinyjson/library/json"
)

// Config 配置文件根结构
type Config struct {
	Version int32         `yaml:"version"`
	Parser  ParserConfig  `yaml:"parser"`
	Input   InputConfig   `yaml:"input"`
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
}

// ParserConfig 解析器参数
type ParserConfig struct {
	ScratchSize     int   `yaml:"scratch_size" default:"1024"`          // 单个 token 暂存区大小（含结尾 1 字节）
	SegmentSize     int   `yaml:"segment_size" default:"64"`            // 路径段暂存区大小
	MaxDepth        int   `yaml:"max_depth" default:"512"`              // 最大嵌套深度
	Truncate        bool  `yaml:"truncate" default:"false"`             // 超长 token 静默截断而不是报错
	MaxDocumentSize int64 `yaml:"max_document_size" default:"67108864"` // 单个文档最大字节数
}

// Options 转换为解析器参数
func (p ParserConfig) Options() json.Options {
	return json.Options{
		ScratchSize: p.ScratchSize,
		SegmentSize: p.SegmentSize,
		MaxDepth:    p.MaxDepth,
		Truncate:    p.Truncate,
	}
}

// InputConfig 输入预处理
type InputConfig struct {
	DetectCharset bool `yaml:"detect_charset" default:"true"`  // 探测编码并转为 UTF-8
	AllowComments bool `yaml:"allow_comments" default:"false"` // 接受 JSONC 注释与尾逗号
}

// StorageConfig 文档库
type StorageConfig struct {
	Path        string `yaml:"path" default:"~/.config/tinyjson/documents.db"`
	Compression string `yaml:"compression" default:"zstd"` // none / lz4 / zstd
}

// LogConfig 日志
type LogConfig struct {
	Level string `yaml:"level" default:"info"`
}
