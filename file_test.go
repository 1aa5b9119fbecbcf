package beaverlog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileDestination(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "app.log")
	f := NewFileDestination(path)
	f.SetFormat("$L $M")
	assert.Equal(t, path, f.Path())

	log := New(f)
	log.Info("first")
	log.Warning("second")
	require.NoError(t, log.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "INFO first\nWARNING second\n", string(data))
}

func TestFileDestinationAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	require.NoError(t, os.WriteFile(path, []byte("existing\n"), 0644))

	f := NewFileDestination(path)
	f.SetFormat("$M")
	_, ok := f.Send(testEntry(INFO, "appended"))
	require.True(t, ok)
	require.NoError(t, f.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "existing\nappended\n", string(data))
}

func TestFileDestinationAsync(t *testing.T) {
	path := filepath.Join(t.TempDir(), "async.log")
	f := NewFileDestination(path)
	f.SetFormat("$M")
	f.SetAsync(true)

	log := New(f)
	for i := 0; i < 200; i++ {
		log.Infof("line %d", i)
	}
	require.NoError(t, log.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	require.Len(t, lines, 200)
	assert.Equal(t, "line 0", lines[0])
	assert.Equal(t, "line 199", lines[199])
}

func TestFileDestinationSizeCap(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "capped.log")
	f := NewFileDestination(path)
	f.SetFormat("$M")
	f.SetMaxSize(1, 2, false)

	line := strings.Repeat("x", 1023)
	for i := 0; i < 1100; i++ {
		_, ok := f.Send(testEntry(INFO, line))
		require.True(t, ok)
	}
	require.NoError(t, f.Close())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.LessOrEqual(t, info.Size(), int64(1024*1024))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Greater(t, len(entries), 1)
}

func TestFileDestinationErrors(t *testing.T) {
	parent := t.TempDir()
	blocker := filepath.Join(parent, "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))

	var errs []error
	f := NewFileDestination(filepath.Join(blocker, "app.log"))
	f.SetErrorHandler(func(err error) { errs = append(errs, err) })

	line, ok := f.Send(testEntry(ERROR, "nowhere"))
	assert.False(t, ok)
	assert.Empty(t, line)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "failed to create log directory")

	empty := NewFileDestination("")
	empty.SetErrorHandler(func(err error) { errs = append(errs, err) })
	_, ok = empty.Send(testEntry(ERROR, "nowhere"))
	assert.False(t, ok)
	require.Len(t, errs, 2)
}
