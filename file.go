package beaverlog

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
	"gopkg.in/natefinch/lumberjack.v2"
)

// FileDestination appends lines to a file, creating it and its directory
// on the first write.
type FileDestination struct {
	*Base

	fileMu     sync.Mutex
	path       string
	maxSizeMB  int
	maxBackups int
	compress   bool
	file       io.WriteCloser
}

// NewFileDestination writes to path with plain level words.
func NewFileDestination(path string) *FileDestination {
	return &FileDestination{Base: NewBase(), path: path}
}

// Path returns the file the destination writes to.
func (f *FileDestination) Path() string {
	return f.path
}

// SetMaxSize caps the file at maxSizeMB megabytes, keeping maxBackups
// renamed copies. Zero disables the cap.
func (f *FileDestination) SetMaxSize(maxSizeMB, maxBackups int, compress bool) {
	f.fileMu.Lock()
	defer f.fileMu.Unlock()
	f.maxSizeMB, f.maxBackups, f.compress = maxSizeMB, maxBackups, compress
	f.closeFile()
}

// Send renders e and appends it to the file.
func (f *FileDestination) Send(e *Entry) (string, bool) {
	line, ok := f.Render(e)
	if !ok {
		return "", false
	}
	if err := f.write(line + "\n"); err != nil {
		f.handleError(err)
		return "", false
	}
	return line, true
}

func (f *FileDestination) write(line string) error {
	f.fileMu.Lock()
	defer f.fileMu.Unlock()
	if f.file == nil {
		if err := f.open(); err != nil {
			return err
		}
	}
	if _, err := io.WriteString(f.file, line); err != nil {
		return errors.Wrap(err, "log write error")
	}
	return nil
}

// open is called with fileMu held.
func (f *FileDestination) open() error {
	if f.path == "" {
		return errors.New("log file path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0755); err != nil {
		return errors.Wrap(err, "failed to create log directory")
	}
	if f.maxSizeMB > 0 {
		f.file = &lumberjack.Logger{
			Filename:   f.path,
			MaxSize:    f.maxSizeMB,
			MaxBackups: f.maxBackups,
			Compress:   f.compress,
			LocalTime:  true,
		}
		return nil
	}
	file, err := os.OpenFile(f.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return errors.Wrap(err, "failed to open log file")
	}
	f.file = file
	return nil
}

func (f *FileDestination) closeFile() error {
	if f.file == nil {
		return nil
	}
	err := f.file.Close()
	f.file = nil
	return err
}

// Close drains pending sends and closes the file.
func (f *FileDestination) Close() error {
	f.Base.Close()
	f.fileMu.Lock()
	defer f.fileMu.Unlock()
	return f.closeFile()
}
