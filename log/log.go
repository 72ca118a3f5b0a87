// Package log 日志模块
package log

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/cxykevin/tinyjson/internal/configutil"
)

const defaultLogPath = "~/.config/tinyjson/log.log"
const envLogName = "TINYJSON_LOG_PATH"

// stderrPath 日志路径为该值时直接写标准错误
const stderrPath = "-"

// Level 日志等级
type Level int32

const (
	// LevelDebug 调试
	LevelDebug Level = iota
	// LevelInfo 信息
	LevelInfo
	// LevelWarn 警告
	LevelWarn
	// LevelError 错误
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	}
	return fmt.Sprintf("LEVEL(%d)", int32(l))
}

// ParseLevel 解析等级名，大小写不敏感
func ParseLevel(name string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", name)
}

var logPath string

// Logger 日志对象
var Logger *log.Logger

var loggerInited bool = false
var loadLock sync.Mutex

var minLevel atomic.Int32

func init() {
	minLevel.Store(int32(LevelInfo))
}

// 异步日志相关
type logMessage struct {
	level      Level
	moduleName string
	message    string
}

var logChannel chan logMessage
var logWaitGroup sync.WaitGroup
var logFlushMutex sync.Mutex
var droppedLogCount uint64
var isShutdown uint32

// SetLevel 设置最低输出等级
func SetLevel(level Level) {
	minLevel.Store(int32(level))
}

// Path 当前日志输出位置
func Path() string {
	return logPath
}

// openOutput 打开日志输出；失败时退回标准错误
func openOutput(path string) io.Writer {
	if path == stderrPath {
		return os.Stderr
	}
	expandedPath := configutil.ExpandPath(path)

	if err := os.MkdirAll(filepath.Dir(expandedPath), 0755); err != nil {
		fmt.Fprintf(os.Stderr, "log: create dir failed, fallback to stderr: %v\n", err)
		return os.Stderr
	}
	// 新建/清空日志
	file, err := os.OpenFile(expandedPath, os.O_TRUNC|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "log: open %s failed, fallback to stderr: %v\n", expandedPath, err)
		return os.Stderr
	}
	return file
}

// Load 初始化日志
func Load() {
	loadLock.Lock()
	defer loadLock.Unlock()
	if loggerInited {
		return
	}
	// 读取环境变量
	if path := os.Getenv(envLogName); path != "" {
		logPath = path
	} else {
		logPath = defaultLogPath
	}

	Logger = log.New(openOutput(logPath), "", log.LstdFlags)

	// 初始化异步日志channel
	logChannel = make(chan logMessage, 1000)

	go logWorker()

	atomic.StoreUint32(&isShutdown, 0)
	loggerInited = true

	New("log").Debug("log inited at %s", logPath)
}

// logWorker 异步日志处理worker
func logWorker() {
	for msg := range logChannel {
		Logger.Printf("[%s][%s] %s", msg.level, msg.moduleName, msg.message)
		logWaitGroup.Done()
	}
}

// flushLogs 等待所有pending的日志写入完成
func flushLogs() {
	logFlushMutex.Lock()
	defer logFlushMutex.Unlock()
	logWaitGroup.Wait()
}

// Shutdown 写完缓冲中的日志并停止worker，之后的日志同步写入
func Shutdown() {
	loadLock.Lock()
	defer loadLock.Unlock()
	if !loggerInited || atomic.LoadUint32(&isShutdown) == 1 {
		return
	}
	atomic.StoreUint32(&isShutdown, 1)
	flushLogs()
	close(logChannel)
}

// LogsObj 模块日志
type LogsObj struct {
	moduleName string
}

// format 单行化：转义反斜杠与控制字符，并遮蔽敏感字段
func format(msg string, v ...any) string {
	str := Redact(fmt.Sprintf(msg, v...))
	return strings.NewReplacer(
		"\\", "\\\\",
		"\n", "\\n",
		"\r", "\\r",
		"\t", "\\t",
	).Replace(str)
}

func (l *LogsObj) log(level Level, msg string, v ...any) {
	if int32(level) < minLevel.Load() {
		return
	}
	str := format(msg, v...)

	if atomic.LoadUint32(&isShutdown) == 1 {
		Logger.Printf("[%s][%s] %s", level, l.moduleName, str)
		return
	}

	logFlushMutex.Lock()
	logWaitGroup.Add(1)
	logFlushMutex.Unlock()

	select {
	case logChannel <- logMessage{
		level:      level,
		moduleName: l.moduleName,
		message:    str,
	}:
	default:
		logWaitGroup.Done()
		atomic.AddUint64(&droppedLogCount, 1)
		Logger.Printf("[%s][%s] log channel full, drop log (total dropped: %d)",
			LevelWarn, l.moduleName, atomic.LoadUint64(&droppedLogCount))
	}
}

// Info 打印日志
func (l *LogsObj) Info(msg string, v ...any) {
	l.log(LevelInfo, msg, v...)
}

// Warn 打印警告
func (l *LogsObj) Warn(msg string, v ...any) {
	l.log(LevelWarn, msg, v...)
}

// Error 打印错误 - 强制同步写入
func (l *LogsObj) Error(msg string, v ...any) {
	if int32(LevelError) < minLevel.Load() {
		return
	}
	flushLogs()
	Logger.Printf("[%s][%s] %s", LevelError, l.moduleName, format(msg, v...))
}

// Debug 打印调试
func (l *LogsObj) Debug(msg string, v ...any) {
	l.log(LevelDebug, msg, v...)
}

// New 创建日志对象
func New(moduleName string) *LogsObj {
	if !loggerInited {
		Load()
	}
	return &LogsObj{moduleName: moduleName}
}
