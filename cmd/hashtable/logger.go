package main

import (
	"os"

	"github.com/phuslu/log"
)

func newLogger(level string) log.Logger {
	l := log.Logger{
		Level:      log.InfoLevel,
		TimeField:  "time",
		TimeFormat: "15:04:05",
		Writer:     &log.IOWriter{Writer: os.Stderr},
	}
	switch level {
	case "debug":
		l.Level = log.DebugLevel
	case "warn":
		l.Level = log.WarnLevel
	case "error":
		l.Level = log.ErrorLevel
	}
	return l
}
