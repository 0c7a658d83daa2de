package main

import (
	"fmt"
	"os"

	"github.com/andy16666/hashtable/pkg/cli"
)

func main() {
	w := os.Stdout
	ok := true
	switch c := cli.Parse(w, os.Args).(type) {
	case cli.CommandRun:
		ok = run(w, newLogger(c.LogLevel), c)
	case cli.CommandExec:
		ok = exec(w, newLogger(c.LogLevel), c)
	case cli.CommandIndex:
		ok = index(w, newLogger(c.LogLevel), c)
	case cli.CommandHelp:
	default:
		if c != nil {
			panic(fmt.Errorf("unexpected command: %#v", c))
		}
		ok = false
	}
	if !ok {
		os.Exit(1)
	}
}
