package beaverlog

import "time"

// std is the process-wide logger behind the package-level functions.
var std = New()

// Default returns the process-wide logger.
func Default() *Logger { return std }

func AddDestination(d Destination) bool    { return std.AddDestination(d) }
func RemoveDestination(d Destination) bool { return std.RemoveDestination(d) }
func RemoveAllDestinations()               { std.RemoveAllDestinations() }
func CountDestinations() int               { return std.CountDestinations() }

// Flush waits up to timeout for the process-wide logger's destinations.
func Flush(timeout time.Duration) bool { return std.Flush(timeout) }

func Verbose(v ...interface{})                 { std.emit(1, VERBOSE, sprint(v)) }
func Verbosef(format string, v ...interface{}) { std.emit(1, VERBOSE, sprintf(format, v)) }
func VerboseFn(fn func() string)               { std.emit(1, VERBOSE, fn) }

func Debug(v ...interface{})                 { std.emit(1, DEBUG, sprint(v)) }
func Debugf(format string, v ...interface{}) { std.emit(1, DEBUG, sprintf(format, v)) }
func DebugFn(fn func() string)               { std.emit(1, DEBUG, fn) }

func Info(v ...interface{})                 { std.emit(1, INFO, sprint(v)) }
func Infof(format string, v ...interface{}) { std.emit(1, INFO, sprintf(format, v)) }
func InfoFn(fn func() string)               { std.emit(1, INFO, fn) }

func Warning(v ...interface{})                 { std.emit(1, WARNING, sprint(v)) }
func Warningf(format string, v ...interface{}) { std.emit(1, WARNING, sprintf(format, v)) }
func WarningFn(fn func() string)               { std.emit(1, WARNING, fn) }

func Error(v ...interface{})                 { std.emit(1, ERROR, sprint(v)) }
func Errorf(format string, v ...interface{}) { std.emit(1, ERROR, sprintf(format, v)) }
func ErrorFn(fn func() string)               { std.emit(1, ERROR, fn) }

func Critical(v ...interface{})                 { std.emit(1, CRITICAL, sprint(v)) }
func Criticalf(format string, v ...interface{}) { std.emit(1, CRITICAL, sprintf(format, v)) }
func CriticalFn(fn func() string)               { std.emit(1, CRITICAL, fn) }

func Fault(v ...interface{})                 { std.emit(1, FAULT, sprint(v)) }
func Faultf(format string, v ...interface{}) { std.emit(1, FAULT, sprintf(format, v)) }
func FaultFn(fn func() string)               { std.emit(1, FAULT, fn) }
