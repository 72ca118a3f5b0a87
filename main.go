package main

import (
	"fmt"
	"os"

	"github.com/cxykevin/tinyjson/cli"
	"github.com/cxykevin/tinyjson/config"
	"github.com/cxykevin/tinyjson/log"
)

func main() {
	defer log.SolvePanic()

	if err := config.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "tinyjson: %v (using defaults)\n", err)
	}
	log.Load()
	if level, err := log.ParseLevel(config.GlobalConfig.Log.Level); err == nil {
		log.SetLevel(level)
	} else {
		fmt.Fprintf(os.Stderr, "tinyjson: %v\n", err)
	}

	// 读取环境变量 TINYJSON_WORKDIR
	if workdir := os.Getenv("TINYJSON_WORKDIR"); workdir != "" {
		if err := os.Chdir(workdir); err != nil {
			fmt.Fprintf(os.Stderr, "tinyjson: %v\n", err)
			os.Exit(1)
		}
	}

	err := cli.NewApp(config.GlobalConfig).Root().Execute(os.Args[1:])
	log.Shutdown()
	if err != nil {
		fmt.Fprintf(os.Stderr, "tinyjson: %v\n", err)
		os.Exit(1)
	}
}
