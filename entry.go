package beaverlog

import (
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/petermattis/goid"
)

// Entry is one log call as handed to destinations.
type Entry struct {
	Time     time.Time
	Level    Level
	Message  string
	Thread   string
	File     string
	Function string
	Line     int
	Context  interface{}
}

// threadName identifies the calling goroutine.
func threadName() string {
	id := goid.Get()
	if id == 1 {
		return "main"
	}
	return strconv.FormatInt(id, 10)
}

// callerInfo returns the file, function and line skip frames above its caller.
func callerInfo(skip int) (file, function string, line int) {
	var pcs [1]uintptr
	if runtime.Callers(skip+2, pcs[:]) == 0 {
		return "unknown", "unknown", 0
	}
	frame, _ := runtime.CallersFrames(pcs[:]).Next()
	if frame.PC == 0 {
		return "unknown", "unknown", 0
	}

	function = "unknown"
	if fullFunc := frame.Function; fullFunc != "" {
		if lastSlash := strings.LastIndexByte(fullFunc, '/'); lastSlash >= 0 {
			fullFunc = fullFunc[lastSlash+1:]
		}
		if firstDot := strings.IndexByte(fullFunc, '.'); firstDot >= 0 {
			function = fullFunc[firstDot+1:]
		} else {
			function = fullFunc
		}
	}
	return frame.File, function, frame.Line
}

// fileName returns the base name of path, optionally without its extension.
func fileName(path string, withExtension bool) string {
	base := filepath.Base(path)
	if withExtension {
		return base
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}
