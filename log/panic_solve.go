package log

import (
	"fmt"
	"os"
	"runtime"
)

const panicExitCode = 127 // panic退出码

// SolvePanic 记录 panic 与调用栈后退出，需以 defer 调用
func SolvePanic() {
	err := recover()
	if err == nil {
		return
	}
	defer func() {
		// 预防这段代码panic
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "\n\nrecovered panic failed: %v\n\nrecover panic details: %v\n\n", err, r)
			os.Exit(panicExitCode)
		}
	}()
	buf := make([]byte, 4096)
	n := runtime.Stack(buf, false)

	panicLogObj := New("panic")
	panicLogObj.Error("Panic! Error: %v", err)
	panicLogObj.Error("Panic Stack: %s", string(buf[:n]))
	Shutdown()

	fmt.Fprintf(os.Stderr, "tinyjson: internal error: %v (details in %s)\n", err, Path())
	os.Exit(panicExitCode)
}
