package main

import (
	"os"
	"runtime/debug"

	"chainstd/cmd"
	"chainstd/logx"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			_ = logx.Errorf("CLI CRASHED: %v\n%s", r, debug.Stack())
			os.Exit(1)
		}
	}()

	cmd.Execute()
}
