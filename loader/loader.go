// Package loader 读取外部输入并整理成可以直接解析的缓冲区
package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"github.com/cxykevin/tinyjson/internal/configutil"
	"github.com/cxykevin/tinyjson/library/varstr"
	"github.com/cxykevin/tinyjson/log"
	"github.com/tidwall/jsonc"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/transform"
)

var logger = log.New("loader")

// DefaultMaxSize 默认单个文档上限 64 MiB
const DefaultMaxSize int64 = 64 << 20

// ErrTooLarge 输入超过 MaxSize
var ErrTooLarge = errors.New("loader: input too large")

var utf8BOM = []byte{0xef, 0xbb, 0xbf}

// Options 预处理选项
type Options struct {
	MaxSize       int64 // 0 表示 DefaultMaxSize
	DetectCharset bool  // 探测编码并转为 UTF-8
	AllowComments bool  // 去掉 JSONC 注释与尾逗号
}

// DefaultOptions 默认选项：探测编码，不接受注释
func DefaultOptions() Options {
	return Options{MaxSize: DefaultMaxSize, DetectCharset: true}
}

func (o Options) maxSize() int64 {
	if o.MaxSize <= 0 {
		return DefaultMaxSize
	}
	return o.MaxSize
}

// Read 读取 r 的全部内容并预处理
//
// 返回的缓冲区以 MaxSize 为容量上限。
func Read(r io.Reader, opts Options) (*varstr.Buffer, error) {
	limit := opts.maxSize()
	raw, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	if int64(len(raw)) > limit {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, limit)
	}

	data, err := Normalize(raw, opts)
	if err != nil {
		return nil, err
	}

	buf := varstr.NewLimited(int(limit))
	if len(data) == 0 {
		return buf, nil
	}
	if err := buf.Append(data); err != nil {
		if errors.Is(err, varstr.ErrTooLarge) {
			return nil, fmt.Errorf("%w: %d bytes after decoding", ErrTooLarge, len(data))
		}
		return nil, err
	}
	logger.Debug("loaded %d bytes (%d raw): %s", buf.Len(), len(raw), log.Excerpt(data, 64))
	return buf, nil
}

// ReadFile 读取文件；路径支持 ~ 与环境变量
func ReadFile(path string, opts Options) (*varstr.Buffer, error) {
	file, err := os.Open(configutil.ExpandPath(path))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	buf, err := Read(file, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return buf, nil
}

// Normalize 对原始字节做编码转换、去 BOM 与注释处理
func Normalize(raw []byte, opts Options) ([]byte, error) {
	data := raw
	if opts.DetectCharset && len(data) > 0 {
		decoded, err := decode(data)
		if err != nil {
			return nil, err
		}
		data = decoded
	}
	// UTF-16 解码器保留 BOM，这里统一去掉
	data = bytes.TrimPrefix(data, utf8BOM)
	if opts.AllowComments && len(data) > 0 {
		data = jsonc.ToJSON(data)
	}
	return data, nil
}

// decode 按 BOM 或内容猜测编码并转为 UTF-8
func decode(content []byte) ([]byte, error) {
	if utf8.Valid(content) {
		return content, nil
	}
	e, name, _ := charset.DetermineEncoding(content, "application/json")
	if name == "utf-8" {
		return content, nil
	}
	logger.Debug("decoding input as %s", name)
	decoded, _, err := transform.Bytes(e.NewDecoder(), content)
	if err != nil {
		return nil, fmt.Errorf("decode %s input: %w", name, err)
	}
	return decoded, nil
}
