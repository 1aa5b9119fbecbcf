package beaverlog

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

const defaultCloseTimeout = 5 * time.Second

// Logger fans log calls out to a set of destinations.
//
// Registering and removing destinations replaces the set under the write
// lock. A call takes the current set under the read lock and walks it
// unlocked, so destinations may log or reconfigure the logger from Send or
// an error handler.
type Logger struct {
	mu           sync.RWMutex
	destinations []Destination
	now          func() time.Time
}

// New returns a Logger with no destinations.
func New(destinations ...Destination) *Logger {
	l := &Logger{now: time.Now}
	for _, d := range destinations {
		l.AddDestination(d)
	}
	return l
}

// Log is the entry point all level helpers go through. msg is evaluated at
// most once, and only if a destination needs it for filtering or output.
func (l *Logger) Log(level Level, msg func() string, file, function string, line int, ctx interface{}) {
	l.mu.RLock()
	destinations := l.destinations
	l.mu.RUnlock()
	if len(destinations) == 0 {
		return
	}

	var (
		message  string
		resolved bool
		entry    *Entry
	)
	resolve := func() string {
		if !resolved {
			resolved = true
			if msg != nil {
				message = msg()
			}
		}
		return message
	}

	for _, d := range destinations {
		var filterMsg *string
		if d.base().needsMessage(level) {
			m := resolve()
			filterMsg = &m
		}
		if !d.ShouldLog(level, file, function, filterMsg) {
			continue
		}
		b := d.base()
		if !b.allow() {
			continue
		}
		if entry == nil {
			entry = &Entry{
				Time:     l.now(),
				Level:    level,
				Message:  resolve(),
				Thread:   threadName(),
				File:     file,
				Function: function,
				Line:     line,
				Context:  ctx,
			}
		}
		dest, e := d, entry
		b.dispatch(func() { dest.Send(e) })
	}
}

// emit captures the caller depth frames above it and logs.
func (l *Logger) emit(depth int, level Level, msg func() string) {
	if l.CountDestinations() == 0 {
		return
	}
	file, function, line := callerInfo(depth + 1)
	l.Log(level, msg, file, function, line, nil)
}

// Flush waits up to timeout for every destination to drain its queue and
// reports whether all of them did.
func (l *Logger) Flush(timeout time.Duration) bool {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	for _, d := range l.Destinations() {
		d := d
		g.Go(func() error { return d.Flush(ctx) })
	}
	return g.Wait() == nil
}

// Close flushes, closes and unregisters every destination.
func (l *Logger) Close() error {
	l.Flush(defaultCloseTimeout)

	l.mu.Lock()
	destinations := l.destinations
	l.destinations = nil
	l.mu.Unlock()

	var first error
	for _, d := range destinations {
		if err := d.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func sprint(v []interface{}) func() string {
	return func() string { return fmt.Sprint(v...) }
}

func sprintf(format string, v []interface{}) func() string {
	return func() string { return fmt.Sprintf(format, v...) }
}

// Verbose logs at VERBOSE. Arguments are formatted with fmt.Sprint only if
// a destination needs the message.
func (l *Logger) Verbose(v ...interface{}) { l.emit(1, VERBOSE, sprint(v)) }

// Verbosef logs at VERBOSE with deferred fmt.Sprintf formatting.
func (l *Logger) Verbosef(format string, v ...interface{}) {
	l.emit(1, VERBOSE, sprintf(format, v))
}

// VerboseFn logs the result of fn at VERBOSE; fn is not called when no
// destination accepts the call.
func (l *Logger) VerboseFn(fn func() string) { l.emit(1, VERBOSE, fn) }

func (l *Logger) Debug(v ...interface{})                 { l.emit(1, DEBUG, sprint(v)) }
func (l *Logger) Debugf(format string, v ...interface{}) { l.emit(1, DEBUG, sprintf(format, v)) }
func (l *Logger) DebugFn(fn func() string)               { l.emit(1, DEBUG, fn) }

func (l *Logger) Info(v ...interface{})                 { l.emit(1, INFO, sprint(v)) }
func (l *Logger) Infof(format string, v ...interface{}) { l.emit(1, INFO, sprintf(format, v)) }
func (l *Logger) InfoFn(fn func() string)               { l.emit(1, INFO, fn) }

func (l *Logger) Warning(v ...interface{})                 { l.emit(1, WARNING, sprint(v)) }
func (l *Logger) Warningf(format string, v ...interface{}) { l.emit(1, WARNING, sprintf(format, v)) }
func (l *Logger) WarningFn(fn func() string)               { l.emit(1, WARNING, fn) }

func (l *Logger) Error(v ...interface{})                 { l.emit(1, ERROR, sprint(v)) }
func (l *Logger) Errorf(format string, v ...interface{}) { l.emit(1, ERROR, sprintf(format, v)) }
func (l *Logger) ErrorFn(fn func() string)               { l.emit(1, ERROR, fn) }

func (l *Logger) Critical(v ...interface{})                 { l.emit(1, CRITICAL, sprint(v)) }
func (l *Logger) Criticalf(format string, v ...interface{}) { l.emit(1, CRITICAL, sprintf(format, v)) }
func (l *Logger) CriticalFn(fn func() string)               { l.emit(1, CRITICAL, fn) }

// Fault logs at FAULT. Unlike a fatal log it does not exit the process.
func (l *Logger) Fault(v ...interface{})                 { l.emit(1, FAULT, sprint(v)) }
func (l *Logger) Faultf(format string, v ...interface{}) { l.emit(1, FAULT, sprintf(format, v)) }
func (l *Logger) FaultFn(fn func() string)               { l.emit(1, FAULT, fn) }
