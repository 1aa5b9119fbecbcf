package beaverlog

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/petermattis/goid"
	"golang.org/x/time/rate"
)

// Destination is a sink for rendered log lines.
//
// Implementations embed *Base, which supplies the level gate, the filter
// list, formatting settings and the sequential execution context every
// destination owns. Send is only ever called from that context.
type Destination interface {
	ID() string
	ShouldLog(level Level, path, function string, message *string) bool
	HasMessageFilters() bool
	Send(e *Entry) (string, bool)
	Flush(ctx context.Context) error
	Close() error

	base() *Base
}

// Settings is a snapshot of a destination's configurable state.
type Settings struct {
	Format   string
	Async    bool
	MinLevel Level
	Names    LevelMap
	Colors   LevelMap
	Escape   string
	Reset    string
	Filters  []*Filter
	Debug    bool
}

// Base carries the behavior shared by every destination.
type Base struct {
	id    uuid.UUID
	queue *worker

	mu           sync.RWMutex
	minLevel     Level
	filters      []*Filter
	format       string
	async        bool
	formatter    Formatter
	debug        bool
	errorHandler func(error)
	limiter      *rate.Limiter
	onChange     func()

	// goroutine currently inside errorHandler, zero when idle
	handling int64
}

// NewBase returns a synchronous destination base at VERBOSE using
// DefaultFormat with plain level words.
func NewBase() *Base {
	b := &Base{
		id:        uuid.New(),
		minLevel:  VERBOSE,
		format:    DefaultFormat,
		formatter: NewFormatter(),
	}
	b.queue = newWorker(defaultQueueSize, b.handleError)
	return b
}

func (b *Base) base() *Base { return b }

// ID uniquely identifies the destination within the process.
func (b *Base) ID() string { return b.id.String() }

// ShouldLog applies the destination's filters and level gate to a call.
// Pass a nil message when it has not been resolved.
func (b *Base) ShouldLog(level Level, path, function string, message *string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	ok := shouldLog(b.minLevel, b.filters, level, path, function, message)
	if b.debug {
		internal.WithField("destination", b.ID()).Debugf("should log %s %s:%s: %v", level, path, function, ok)
	}
	return ok
}

// HasMessageFilters reports whether ShouldLog needs the resolved message.
func (b *Base) HasMessageFilters() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return hasMessageFilters(b.filters)
}

// needsMessage is HasMessageFilters restricted to filters active at level.
func (b *Base) needsMessage(level Level) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return hasMessageFiltersAt(b.filters, level)
}

// Send renders e without writing it anywhere. Destinations override it.
func (b *Base) Send(e *Entry) (string, bool) {
	return b.Render(e)
}

// Render formats e with the destination's current settings.
func (b *Base) Render(e *Entry) (string, bool) {
	b.mu.RLock()
	format, formatter := b.format, b.formatter
	b.mu.RUnlock()

	line, err := formatter.Format(format, e)
	if err != nil {
		b.handleError(err)
		return "", false
	}
	return line, true
}

// Flush waits until every queued send has run or ctx is done.
func (b *Base) Flush(ctx context.Context) error {
	return b.queue.barrier(ctx)
}

// Close drains the queue. Later sends are dropped.
func (b *Base) Close() error {
	b.queue.close()
	return nil
}

// dispatch runs send on the destination's queue, waiting for it unless
// the destination is asynchronous.
func (b *Base) dispatch(send func()) {
	if b.IsAsync() {
		b.queue.enqueue(send)
		return
	}
	b.queue.do(send)
}

// allow applies the optional rate limit.
func (b *Base) allow() bool {
	b.mu.RLock()
	limiter := b.limiter
	b.mu.RUnlock()
	return limiter == nil || limiter.Allow()
}

// SetErrorHandler replaces the internal diagnostics logger for this
// destination's failures. The handler may log through a Logger holding this
// destination; errors raised while the handler is running on the same
// goroutine go to the internal logger instead.
func (b *Base) SetErrorHandler(handler func(error)) {
	b.mu.Lock()
	b.errorHandler = handler
	b.mu.Unlock()
}

func (b *Base) handleError(err error) {
	if err == nil {
		return
	}
	b.mu.RLock()
	handler := b.errorHandler
	b.mu.RUnlock()
	if handler != nil {
		id := goid.Get()
		if atomic.CompareAndSwapInt64(&b.handling, 0, id) {
			defer atomic.StoreInt64(&b.handling, 0)
			handler(err)
			return
		}
		if atomic.LoadInt64(&b.handling) != id {
			handler(err)
			return
		}
	}
	internal.WithField("destination", b.ID()).Error(err)
}

func (b *Base) debugf(format string, args ...interface{}) {
	b.mu.RLock()
	debug := b.debug
	b.mu.RUnlock()
	if debug {
		internal.WithField("destination", b.ID()).Debugf(format, args...)
	}
}

// SetMaxRate drops lines above perSecond per second. Zero disables it.
func (b *Base) SetMaxRate(perSecond int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if perSecond <= 0 {
		b.limiter = nil
		return
	}
	b.limiter = rate.NewLimiter(rate.Limit(perSecond), perSecond)
}

// Snapshot copies the destination's settings.
func (b *Base) Snapshot() Settings {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return Settings{
		Format:   b.format,
		Async:    b.async,
		MinLevel: b.minLevel,
		Names:    b.formatter.Names,
		Colors:   b.formatter.Colors,
		Escape:   b.formatter.Escape,
		Reset:    b.formatter.Reset,
		Filters:  append([]*Filter(nil), b.filters...),
		Debug:    b.debug,
	}
}

// Apply replaces every setting with s.
func (b *Base) Apply(s Settings) {
	b.update(func() {
		b.format = s.Format
		b.async = s.Async
		b.minLevel = s.MinLevel
		b.formatter = Formatter{Names: s.Names, Colors: s.Colors, Escape: s.Escape, Reset: s.Reset}
		b.filters = append([]*Filter(nil), s.Filters...)
		b.debug = s.Debug
	})
}

// update mutates settings under the lock, then notifies the observer.
func (b *Base) update(mutate func()) {
	b.mu.Lock()
	mutate()
	onChange := b.onChange
	b.mu.Unlock()
	if onChange != nil {
		onChange()
	}
}

func (b *Base) setOnChange(fn func()) {
	b.mu.Lock()
	b.onChange = fn
	b.mu.Unlock()
}

func (b *Base) MinLevel() Level {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.minLevel
}

func (b *Base) SetMinLevel(level Level) {
	b.update(func() { b.minLevel = level })
}

func (b *Base) Format() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.format
}

func (b *Base) SetFormat(format string) {
	b.update(func() { b.format = format })
}

func (b *Base) IsAsync() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.async
}

func (b *Base) SetAsync(async bool) {
	b.update(func() { b.async = async })
}

func (b *Base) IsDebug() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.debug
}

// SetDebug reports filter decisions and rotation events to the internal
// diagnostics logger.
func (b *Base) SetDebug(debug bool) {
	b.update(func() { b.debug = debug })
}

// Formatter returns a copy of the level names, colors and escapes.
func (b *Base) Formatter() Formatter {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.formatter
}

func (b *Base) SetLevelName(level Level, name string) {
	if !level.Valid() {
		return
	}
	b.update(func() { b.formatter.Names[level] = name })
}

func (b *Base) SetLevelColor(level Level, color string) {
	if !level.Valid() {
		return
	}
	b.update(func() { b.formatter.Colors[level] = color })
}

func (b *Base) SetLevelColors(colors LevelMap) {
	b.update(func() { b.formatter.Colors = colors })
}

func (b *Base) SetEscape(escape string) {
	b.update(func() { b.formatter.Escape = escape })
}

func (b *Base) SetReset(reset string) {
	b.update(func() { b.formatter.Reset = reset })
}

// AddFilter appends f. The same filter may be added more than once.
func (b *Base) AddFilter(f *Filter) {
	if f == nil {
		return
	}
	b.update(func() { b.filters = append(b.filters, f) })
}

// RemoveFilter removes the first filter with f's ID.
func (b *Base) RemoveFilter(f *Filter) bool {
	if f == nil {
		return false
	}
	removed := false
	b.update(func() {
		for i, existing := range b.filters {
			if existing.ID() == f.ID() {
				b.filters = append(b.filters[:i:i], b.filters[i+1:]...)
				removed = true
				return
			}
		}
	})
	return removed
}

// Filters returns the filters in insertion order.
func (b *Base) Filters() []*Filter {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]*Filter(nil), b.filters...)
}

func (b *Base) FilterCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.filters)
}
