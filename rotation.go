package beaverlog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	"github.com/trviph/collection"
)

// RotationPolicy decides which period a log file covers.
type RotationPolicy int

const (
	RotateDaily RotationPolicy = iota
	RotateHourly
)

// Layout is the time layout of the date suffix. Suffixes sort
// lexicographically in chronological order.
func (p RotationPolicy) Layout() string {
	switch p {
	case RotateHourly:
		return "2006-01-02-15"
	default:
		return "2006-01-02"
	}
}

func (p RotationPolicy) String() string {
	switch p {
	case RotateHourly:
		return "hourly"
	default:
		return "daily"
	}
}

// ParseRotationPolicy accepts "daily" and "hourly".
func ParseRotationPolicy(s string) (RotationPolicy, error) {
	switch strings.ToLower(s) {
	case "", "daily":
		return RotateDaily, nil
	case "hourly":
		return RotateHourly, nil
	default:
		return RotateDaily, errors.Errorf("invalid rotation policy: %s", s)
	}
}

// DeletionPolicy keeps the Keep most recent rotated files. Zero keeps all.
type DeletionPolicy struct {
	Keep int
}

// KeepQuantity keeps the n most recent files.
func KeepQuantity(n int) DeletionPolicy {
	return DeletionPolicy{Keep: n}
}

// FileNameTemplate renders "{Name}-{suffix}.{Extension}".
type FileNameTemplate struct {
	Name      string
	Extension string
}

func (t FileNameTemplate) Render(suffix string) string {
	return t.Name + "-" + suffix + "." + t.Extension
}

// Matches reports whether name has t's prefix and extension.
func (t FileNameTemplate) Matches(name string) bool {
	_, ok := t.Suffix(name)
	return ok
}

// Suffix returns the part of name between t's prefix and extension.
func (t FileNameTemplate) Suffix(name string) (string, bool) {
	prefix, ext := t.Name+"-", "."+t.Extension
	if len(name) < len(prefix)+len(ext) || !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, ext) {
		return "", false
	}
	return name[len(prefix) : len(name)-len(ext)], true
}

// FileRemover deletes pruned log files.
type FileRemover interface {
	Remove(path string) error
}

// TrashRemover moves files into TrashDir when set, deleting them when the
// move fails or no trash is configured.
type TrashRemover struct {
	TrashDir string
}

func (t TrashRemover) Remove(path string) error {
	if t.TrashDir != "" {
		if err := os.MkdirAll(t.TrashDir, 0755); err == nil {
			if err := os.Rename(path, filepath.Join(t.TrashDir, filepath.Base(path))); err == nil {
				return nil
			}
		}
	}
	if err := os.Remove(path); err != nil {
		return errors.Wrapf(err, "failed to remove %s", path)
	}
	return nil
}

// ErrNotDirectory is returned when the log directory is a file.
var ErrNotDirectory = errors.New("not a directory")

// ListError reports a failure to enumerate the log directory.
type ListError struct {
	Dir string
	Err error
}

func (e *ListError) Error() string {
	return fmt.Sprintf("failed to list %s: %v", e.Dir, e.Err)
}

func (e *ListError) Unwrap() error { return e.Err }

func listFiles(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, &ListError{Dir: dir, Err: err}
	}
	if !info.IsDir() {
		return nil, errors.Wrap(ErrNotDirectory, dir)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &ListError{Dir: dir, Err: err}
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.Type().IsRegular() {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}

// RotatingOption configures a RotatingFileDestination.
type RotatingOption func(*RotatingFileDestination)

func WithRotation(p RotationPolicy) RotatingOption {
	return func(r *RotatingFileDestination) { r.rotation = p }
}

func WithDeletion(d DeletionPolicy) RotatingOption {
	return func(r *RotatingFileDestination) { r.deletion = d }
}

// WithClock replaces the wall clock used to pick the current file.
func WithClock(c clock.Clock) RotatingOption {
	return func(r *RotatingFileDestination) {
		if c != nil {
			r.clock = c
		}
	}
}

func WithRemover(rm FileRemover) RotatingOption {
	return func(r *RotatingFileDestination) {
		if rm != nil {
			r.remover = rm
		}
	}
}

// RotatingFileDestination writes to one dated file per rotation period in
// dir. The current file is recomputed from the clock on every send; when
// it changes a new inner FileDestination is created with this
// destination's settings and old files are pruned.
type RotatingFileDestination struct {
	*Base

	dir      string
	template FileNameTemplate
	rotation RotationPolicy
	deletion DeletionPolicy
	clock    clock.Clock
	remover  FileRemover

	rotMu       sync.Mutex
	current     *FileDestination
	currentPath string
}

// NewRotatingFileDestination rotates daily and keeps every file unless
// configured otherwise.
func NewRotatingFileDestination(dir string, template FileNameTemplate, opts ...RotatingOption) *RotatingFileDestination {
	r := &RotatingFileDestination{
		Base:     NewBase(),
		dir:      dir,
		template: template,
		rotation: RotateDaily,
		clock:    clock.New(),
		remover:  TrashRemover{},
	}
	for _, opt := range opts {
		opt(r)
	}
	// settings changes reach the inner writer only once construction is done
	r.setOnChange(r.forward)
	return r
}

func (r *RotatingFileDestination) Directory() string { return r.dir }

// CurrentFileName is the file name for the clock's current time.
func (r *RotatingFileDestination) CurrentFileName() string {
	return r.template.Render(r.clock.Now().Format(r.rotation.Layout()))
}

// CurrentPath is the path of the cached inner writer, empty before the
// first rotation.
func (r *RotatingFileDestination) CurrentPath() string {
	r.rotMu.Lock()
	defer r.rotMu.Unlock()
	return r.currentPath
}

// CurrentFile returns the inner writer for the current period, rotating
// first if the period changed.
func (r *RotatingFileDestination) CurrentFile() *FileDestination {
	desired := filepath.Join(r.dir, r.CurrentFileName())

	var failures []error
	r.rotMu.Lock()
	if r.current == nil || desired != r.currentPath {
		failures = r.rotate(desired)
	}
	current := r.current
	r.rotMu.Unlock()

	// reported unlocked, the error handler may log through this destination
	for _, err := range failures {
		r.handleError(err)
	}
	return current
}

// rotate is called with rotMu held. A failed removal does not stop the
// remaining ones.
func (r *RotatingFileDestination) rotate(desired string) []error {
	r.debugf("rotating from %q to %q", r.currentPath, desired)

	var failures []error
	report := func(err error) { failures = append(failures, err) }

	next := NewFileDestination(desired)
	next.Apply(r.Snapshot())
	next.SetErrorHandler(r.handleError)

	previous := r.current
	r.current, r.currentPath = next, desired
	if previous != nil {
		if err := previous.Close(); err != nil {
			report(errors.Wrapf(err, "failed to close %s", previous.Path()))
		}
	}

	for _, path := range r.removableFiles(desired, report) {
		if err := r.remover.Remove(path); err != nil {
			report(err)
			continue
		}
		r.debugf("removed %q", path)
	}
	return failures
}

// RemovableFiles lists the files the deletion policy would prune at the
// clock's current time.
func (r *RotatingFileDestination) RemovableFiles() []string {
	return r.removableFiles(filepath.Join(r.dir, r.CurrentFileName()), r.handleError)
}

// removableFiles only considers names whose suffix parses with the rotation
// layout, so "app-errors-..." files are not pruned by an "app" template.
// A directory that does not exist yet has nothing to prune.
func (r *RotatingFileDestination) removableFiles(currentPath string, report func(error)) []string {
	if r.deletion.Keep <= 0 {
		return nil
	}

	names, err := listFiles(r.dir)
	var listErr *ListError
	switch {
	case err == nil:
	case errors.As(err, &listErr) && os.IsNotExist(listErr.Err):
		names = nil
	default:
		report(err)
		names = nil
	}

	currentName := filepath.Base(currentPath)
	byName, err := collection.NewHeap(func(current, other string) bool {
		return current < other
	})
	if err != nil {
		report(err)
		return nil
	}
	layout := r.rotation.Layout()
	seenCurrent := false
	for _, name := range names {
		suffix, ok := r.template.Suffix(name)
		if !ok {
			continue
		}
		if _, err := time.Parse(layout, suffix); err != nil {
			continue
		}
		if name == currentName {
			seenCurrent = true
		}
		byName.Push(name)
	}
	if !seenCurrent {
		byName.Push(currentName)
	}

	ordered := collection.NewList[string]()
	for !byName.IsEmpty() {
		name, err := byName.Pop()
		if err != nil {
			report(err)
			return nil
		}
		ordered.Append(name)
	}

	var removable []string
	for ordered.Length() > r.deletion.Keep {
		oldest, err := ordered.Dequeue()
		if err != nil {
			report(err)
			break
		}
		if oldest == currentName {
			continue
		}
		removable = append(removable, filepath.Join(r.dir, oldest))
	}
	return removable
}

// forward copies this destination's settings to the inner writer.
func (r *RotatingFileDestination) forward() {
	r.rotMu.Lock()
	defer r.rotMu.Unlock()
	if r.current != nil {
		r.current.Apply(r.Snapshot())
	}
}

// Send writes e to the current period's file.
func (r *RotatingFileDestination) Send(e *Entry) (string, bool) {
	return r.CurrentFile().Send(e)
}

// Close drains pending sends and closes the current file.
func (r *RotatingFileDestination) Close() error {
	r.Base.Close()
	r.rotMu.Lock()
	defer r.rotMu.Unlock()
	if r.current == nil {
		return nil
	}
	return r.current.Close()
}
