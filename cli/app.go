package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/cxykevin/tinyjson/config/structs"
	"github.com/cxykevin/tinyjson/library/json"
	"github.com/cxykevin/tinyjson/library/varstr"
	"github.com/cxykevin/tinyjson/loader"
	"github.com/cxykevin/tinyjson/log"
	"github.com/spf13/pflag"
	"golang.org/x/term"
)

var logger = log.New("cli")

// App 命令运行所需的输入输出与配置
type App struct {
	In     io.Reader
	Out    io.Writer
	Err    io.Writer
	Config *structs.Config
}

// NewApp 使用标准输入输出
func NewApp(cfg *structs.Config) *App {
	return &App{In: os.Stdin, Out: os.Stdout, Err: os.Stderr, Config: cfg}
}

// Root 构造命令树
func (a *App) Root() *Command {
	return &Command{
		Name:    "tinyjson",
		Summary: "Parse, query and store JSON documents",
		Subcommands: []*Command{
			a.fmtCommand(),
			a.findCommand(),
			a.filterCommand(),
			a.storeCommand(),
			a.cborCommand(),
			a.logsCommand(),
			a.versionCommand(),
		},
		help: a.Err,
	}
}

// parseFlags 解析相关的通用参数，默认值取自配置
type parseFlags struct {
	truncate bool
	comments bool
	maxDepth int
}

func (a *App) registerParseFlags(fs *pflag.FlagSet, f *parseFlags) {
	fs.BoolVar(&f.truncate, "truncate", a.Config.Parser.Truncate, "silently truncate over-long strings instead of failing")
	fs.BoolVar(&f.comments, "comments", a.Config.Input.AllowComments, "accept // and /* */ comments and trailing commas")
	fs.IntVar(&f.maxDepth, "max-depth", a.Config.Parser.MaxDepth, "maximum nesting depth")
}

func (a *App) options(f *parseFlags) json.Options {
	opts := a.Config.Parser.Options()
	opts.Truncate = f.truncate
	opts.MaxDepth = f.maxDepth
	return opts
}

// readInput 读取文件；未给出或为 "-" 时读标准输入
func (a *App) readInput(args []string, f *parseFlags) (*varstr.Buffer, error) {
	opts := loader.Options{
		MaxSize:       a.Config.Parser.MaxDocumentSize,
		DetectCharset: a.Config.Input.DetectCharset,
		AllowComments: f != nil && f.comments,
	}
	if len(args) == 0 || args[0] == "-" {
		return loader.Read(a.In, opts)
	}
	return loader.ReadFile(args[0], opts)
}

// load 读取并解析文档
func (a *App) load(args []string, f *parseFlags) (*json.Root, json.Options, error) {
	opts := a.options(f)
	buf, err := a.readInput(args, f)
	if err != nil {
		return nil, opts, err
	}
	root := json.NewRoot()
	if err := json.NewParser(opts).Parse(root, buf); err != nil {
		logger.Warn("parse failed: %v; input: %s", err, log.Excerpt(buf.Bytes(), 128))
		return nil, opts, err
	}
	return root, opts, nil
}

// emit 输出一段文本；终端上追加换行
func (a *App) emit(data []byte) error {
	if _, err := a.Out.Write(data); err != nil {
		return err
	}
	if isTerminal(a.Out) {
		_, err := io.WriteString(a.Out, "\n")
		return err
	}
	return nil
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	return ok && term.IsTerminal(int(file.Fd()))
}

func expectArgs(args []string, lo, hi int, usage string) error {
	if len(args) < lo || len(args) > hi {
		return fmt.Errorf("usage: %s", usage)
	}
	return nil
}
