package log

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// Entry 解析后的一行日志
type Entry struct {
	Timestamp string
	Level     Level
	Module    string
	Message   string
}

// 2025/12/07 14:04:35 [INFO][log] log inited
var linePattern = regexp.MustCompile(`^(\d{4}/\d{2}/\d{2} \d{2}:\d{2}:\d{2})\s+\[([A-Z]+)\]\[([^\]]+)\]\s?(.*)$`)

// ParseLine 解析日志文件中的一行；格式不符时 ok 为 false
func ParseLine(line string) (Entry, bool) {
	matches := linePattern.FindStringSubmatch(strings.TrimSpace(line))
	if matches == nil {
		return Entry{}, false
	}
	level, err := ParseLevel(matches[2])
	if err != nil {
		return Entry{}, false
	}
	return Entry{
		Timestamp: matches[1],
		Level:     level,
		Module:    matches[3],
		Message:   matches[4],
	}, true
}

// Filter 日志筛选条件
type Filter struct {
	MinLevel Level
	Module   string // 为空表示全部模块
}

// Match 判断条目是否满足条件
func (f Filter) Match(e Entry) bool {
	if e.Level < f.MinLevel {
		return false
	}
	return f.Module == "" || e.Module == f.Module
}

// ReadEntries 逐行读取 r，对满足 filter 的条目调用 fn
//
// 无法解析的行以 ok=false 交给 fn，由调用方决定是否显示。
func ReadEntries(r io.Reader, filter Filter, fn func(line int, e Entry, ok bool) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		entry, ok := ParseLine(line)
		if !ok {
			if err := fn(lineNum, Entry{Message: line}, false); err != nil {
				return err
			}
			continue
		}
		if !filter.Match(entry) {
			continue
		}
		if err := fn(lineNum, entry, true); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read log: %w", err)
	}
	return nil
}
