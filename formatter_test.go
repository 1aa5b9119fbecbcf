package beaverlog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEntry(level Level, message string) *Entry {
	return &Entry{
		Time:     time.Date(2020, 5, 17, 13, 4, 5, 123000000, time.UTC),
		Level:    level,
		Message:  message,
		Thread:   "main",
		File:     "/src/app/main.go",
		Function: "handle",
		Line:     12,
	}
}

func TestFormatDirectives(t *testing.T) {
	f := NewFormatter()

	tests := []struct {
		name     string
		template string
		entry    *Entry
		expected string
	}{
		{"level and message", "$L: $M", testEntry(DEBUG, "hi"), "DEBUG: hi"},
		{"line", "$l", testEntry(INFO, "x"), "12"},
		{"literal prefix", "[app] $L $M", testEntry(WARNING, "disk"), "[app] WARNING disk"},
		{"no directives", "plain text", testEntry(INFO, "ignored"), "plain text"},
		{"thread", "$T", testEntry(INFO, ""), "main"},
		{"file without extension", "$N", testEntry(INFO, ""), "main"},
		{"file with extension", "$n", testEntry(INFO, ""), "main.go"},
		{"function", "$F()", testEntry(INFO, ""), "handle()"},
		{"unknown directive", "a $Qb", testEntry(INFO, ""), "a Qb"},
		{"empty template", "", testEntry(INFO, "x"), ""},
		{"utc date", "$Zyyyy-MM-dd HH:mm:ss.SSS$z", testEntry(INFO, ""), "2020-05-17 13:04:05.123"},
		{"utc default layout", "$Z$z|", testEntry(INFO, ""), "2020-05-17 13:04:05.123|"},
		{"go layout", "$Z2006/01/02$z $M", testEntry(INFO, "x"), "2020/05/17 x"},
		{"missing context", "[$X]", testEntry(INFO, ""), "[]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := f.Format(tt.template, tt.entry)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, out)
		})
	}
}

func TestFormatAllLevels(t *testing.T) {
	f := NewFormatter()
	for _, level := range Levels() {
		out, err := f.Format("$L", testEntry(level, ""))
		require.NoError(t, err)
		assert.Equal(t, level.String(), out)
	}
}

func TestFormatLocalDate(t *testing.T) {
	e := testEntry(INFO, "x")
	e.Time = time.Date(2021, 1, 2, 3, 4, 5, 0, time.Local)

	out, err := NewFormatter().Format("$Ddd.MM.yyyy HH:mm$d", e)
	require.NoError(t, err)
	assert.Equal(t, "02.01.2021 03:04", out)
}

func TestFormatDefault(t *testing.T) {
	e := testEntry(INFO, "hi")
	e.Time = time.Date(2020, 5, 17, 13, 4, 5, 123000000, time.Local)

	out, err := NewFormatter().Format(DefaultFormat, e)
	require.NoError(t, err)
	assert.Equal(t, "13:04:05.123 INFO main.handle:12 - hi", out)
}

func TestFormatContext(t *testing.T) {
	e := testEntry(INFO, "x")
	e.Context = map[string]int{"user": 7}

	out, err := NewFormatter().Format("$M $X", e)
	require.NoError(t, err)
	assert.Equal(t, "x map[user:7]", out)
}

func TestFormatColors(t *testing.T) {
	tests := []struct {
		name      string
		formatter Formatter
		level     Level
		expected  string
	}{
		{
			name:      "none",
			formatter: NewFormatter(),
			level:     ERROR,
			expected:  "ERROR",
		},
		{
			name:      "terminal",
			formatter: Formatter{Names: DefaultLevelNames, Colors: TerminalLevelColors, Escape: ansiEscape, Reset: ansiReset},
			level:     ERROR,
			expected:  "\033[38;5;197mERROR\033[0m",
		},
		{
			name:      "emoji",
			formatter: Formatter{Names: DefaultLevelNames, Colors: EmojiLevelColors},
			level:     INFO,
			expected:  "💙 INFO",
		},
		{
			name:      "custom names",
			formatter: Formatter{Names: LevelMap{"V", "D", "I", "W", "E", "C", "F"}},
			level:     WARNING,
			expected:  "W",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := tt.formatter.Format("$C$L$c", testEntry(tt.level, ""))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, out)
		})
	}
}

func TestFormatJSON(t *testing.T) {
	e := testEntry(ERROR, `quote " here`)
	out, err := NewFormatter().Format(JSONFormat, e)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.InDelta(t, float64(e.Time.Unix())+0.123, decoded["timestamp"], 0.001)
	assert.Equal(t, float64(ERROR), decoded["level"])
	assert.Equal(t, `quote " here`, decoded["message"])
	assert.Equal(t, "main", decoded["thread"])
	assert.Equal(t, "/src/app/main.go", decoded["file"])
	assert.Equal(t, "handle", decoded["function"])
	assert.Equal(t, float64(12), decoded["line"])
	assert.NotContains(t, decoded, "context")

	e.Context = map[string]string{"request": "abc"}
	out, err = NewFormatter().Format(JSONFormat, e)
	require.NoError(t, err)
	assert.Contains(t, out, `"context":{"request":"abc"}`)
}

func TestFormatJSONOnlyWhenExact(t *testing.T) {
	out, err := NewFormatter().Format("$J ", testEntry(INFO, "x"))
	require.NoError(t, err)
	assert.Equal(t, "J ", out)
}
