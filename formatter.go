package beaverlog

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

const (
	// DefaultFormat renders "15:04:05.000 💙 INFO main.go:12 Function - message".
	DefaultFormat = "$DHH:mm:ss.SSS$d $C$L$c $N.$F:$l - $M"
	// JSONFormat bypasses templating and renders every entry as a JSON object.
	JSONFormat = "$J"

	defaultDateLayout = "2006-01-02 15:04:05.000"

	ansiEscape = "\033[38;5;"
	ansiReset  = "\033[0m"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// LevelMap holds one string per level, indexed by Level.
type LevelMap [FAULT + 1]string

// DefaultLevelNames are the plain level words.
var DefaultLevelNames = LevelMap{"VERBOSE", "DEBUG", "INFO", "WARNING", "ERROR", "CRITICAL", "FAULT"}

// EmojiLevelColors prefix the level word with a colored emoji.
var EmojiLevelColors = LevelMap{"💜 ", "💚 ", "💙 ", "💛 ", "❤️ ", "🧡 ", "🖤 "}

// TerminalLevelColors are ANSI 256-color codes, used after ansiEscape.
var TerminalLevelColors = LevelMap{"251m", "35m", "38m", "178m", "197m", "208m", "160m"}

// Formatter renders entries through a $-escaped template.
//
// Directives: L level, M message, T thread, N file without extension,
// n file with extension, F function, l line, X context, D<layout>/d local
// date, Z<layout>/z UTC date, C/c color start and reset. A template that
// is exactly "$J" produces a JSON object instead.
type Formatter struct {
	Names  LevelMap
	Colors LevelMap
	Escape string
	Reset  string
}

// NewFormatter returns a formatter with plain level words and no colors.
func NewFormatter() Formatter {
	return Formatter{Names: DefaultLevelNames}
}

// Format renders e through template.
func (f Formatter) Format(template string, e *Entry) (string, error) {
	if template == JSONFormat {
		return f.JSON(e)
	}

	var b strings.Builder
	b.Grow(len(template) + len(e.Message) + 64)

	phrases := strings.Split(template, "$")
	// text before the first "$" is literal
	b.WriteString(phrases[0])
	for _, phrase := range phrases[1:] {
		if phrase == "" {
			continue
		}
		rest := phrase[1:]
		switch phrase[0] {
		case 'L':
			b.WriteString(f.name(e.Level))
		case 'M':
			b.WriteString(e.Message)
		case 'T':
			b.WriteString(e.Thread)
		case 'N':
			b.WriteString(shortFile(e.File, false))
		case 'n':
			b.WriteString(shortFile(e.File, true))
		case 'F':
			b.WriteString(e.Function)
		case 'l':
			b.WriteString(strconv.Itoa(e.Line))
		case 'X':
			if e.Context != nil {
				b.WriteString(fmt.Sprint(e.Context))
			}
		case 'D':
			b.WriteString(formatDate(e.Time.Local(), rest))
			continue
		case 'Z':
			b.WriteString(formatDate(e.Time.UTC(), rest))
			continue
		case 'd', 'z':
		case 'C':
			if color := f.color(e.Level); color != "" {
				b.WriteString(f.Escape)
				b.WriteString(color)
			}
		case 'c':
			b.WriteString(f.Reset)
		default:
			b.WriteString(phrase)
			continue
		}
		b.WriteString(rest)
	}
	return b.String(), nil
}

type jsonEntry struct {
	Timestamp float64     `json:"timestamp"`
	Level     int         `json:"level"`
	Message   string      `json:"message"`
	Thread    string      `json:"thread"`
	File      string      `json:"file"`
	Function  string      `json:"function"`
	Line      int         `json:"line"`
	Context   interface{} `json:"context,omitempty"`
}

// JSON renders e as a single-line JSON object. The level is its numeric value.
func (f Formatter) JSON(e *Entry) (string, error) {
	data, err := json.Marshal(jsonEntry{
		Timestamp: float64(e.Time.UnixNano()) / float64(time.Second),
		Level:     int(e.Level),
		Message:   e.Message,
		Thread:    e.Thread,
		File:      e.File,
		Function:  e.Function,
		Line:      e.Line,
		Context:   e.Context,
	})
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal log entry")
	}
	return string(data), nil
}

func (f Formatter) name(level Level) string {
	if !level.Valid() {
		return level.String()
	}
	return f.Names[level]
}

func (f Formatter) color(level Level) string {
	if !level.Valid() {
		return ""
	}
	return f.Colors[level]
}

func shortFile(path string, withExtension bool) string {
	if path == "" {
		return ""
	}
	return fileName(path, withExtension)
}

// formatDate accepts Go reference layouts plus the common
// yyyy/MM/dd/HH/mm/ss/SSS tokens.
func formatDate(t time.Time, layout string) string {
	if layout == "" {
		layout = defaultDateLayout
	}
	return t.Format(dateLayoutReplacer.Replace(layout))
}

var dateLayoutReplacer = strings.NewReplacer(
	"yyyy", "2006",
	"yy", "06",
	"MM", "01",
	"dd", "02",
	"HH", "15",
	"mm", "04",
	"ss", "05",
	"SSS", "000",
)
