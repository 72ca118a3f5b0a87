package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/cxykevin/tinyjson/internal/configutil"
	"github.com/cxykevin/tinyjson/log"
	"github.com/spf13/pflag"
)

// 终端颜色
const (
	colorReset   = "\033[0m"
	colorRed     = "\033[31m"
	colorGreen   = "\033[32m"
	colorYellow  = "\033[33m"
	colorBlue    = "\033[34m"
	colorMagenta = "\033[35m"
	colorCyan    = "\033[36m"
)

var levelColors = map[log.Level]string{
	log.LevelDebug: colorCyan,
	log.LevelInfo:  colorGreen,
	log.LevelWarn:  colorYellow,
	log.LevelError: colorRed,
}

func colorize(text, color string, enabled bool) string {
	if !enabled {
		return text
	}
	return color + text + colorReset
}

func (a *App) logsCommand() *Command {
	var (
		level   string
		module  string
		noColor bool
	)
	return &Command{
		Name:    "logs",
		Summary: "Show the log file, filtered by level and module",
		Usage:   "tinyjson logs [flags] [file]",
		Flags: func() *pflag.FlagSet {
			fs := pflag.NewFlagSet("logs", pflag.ContinueOnError)
			fs.StringVar(&level, "level", "debug", "minimum level to display (debug, info, warn, error)")
			fs.StringVar(&module, "module", "", "only show entries from this module")
			fs.BoolVar(&noColor, "no-color", false, "disable colored output")
			return fs
		},
		Run: func(args []string) error {
			if err := expectArgs(args, 0, 1, "tinyjson logs [file]"); err != nil {
				return err
			}
			minLevel, err := log.ParseLevel(level)
			if err != nil {
				return err
			}
			path := log.Path()
			if len(args) == 1 {
				path = args[0]
			}
			if path == "" || path == "-" {
				return fmt.Errorf("log is written to stderr; pass a log file path")
			}

			file, err := os.Open(configutil.ExpandPath(path))
			if err != nil {
				return err
			}
			defer file.Close()

			color := !noColor && isTerminal(a.Out)
			filter := log.Filter{MinLevel: minLevel, Module: module}
			return log.ReadEntries(file, filter, func(line int, e log.Entry, ok bool) error {
				var err error
				if !ok {
					_, err = fmt.Fprintf(a.Out, "%s %s\n", colorize(fmt.Sprintf("[LINE %d]", line), colorYellow, color), e.Message)
					return err
				}
				_, err = fmt.Fprintf(a.Out, "%s %s %s %s\n",
					colorize(e.Timestamp, colorBlue, color),
					colorize("["+e.Level.String()+"]", levelColors[e.Level], color),
					colorize("["+e.Module+"]", colorMagenta, color),
					strings.TrimSpace(e.Message))
				return err
			})
		},
	}
}
