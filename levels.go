package beaverlog

import (
	"strings"

	"github.com/pkg/errors"
)

// Level represents the severity of a log call.
// Higher values indicate more severe levels.
type Level int32

// Levels are ordered from least to most severe:
// VERBOSE < DEBUG < INFO < WARNING < ERROR < CRITICAL < FAULT
const (
	VERBOSE Level = iota
	DEBUG
	INFO
	WARNING
	ERROR
	CRITICAL
	FAULT
)

// ErrInvalidLevel is returned by ParseLevel for unknown level names.
var ErrInvalidLevel = errors.New("invalid log level")

var levelNames = [...]string{"VERBOSE", "DEBUG", "INFO", "WARNING", "ERROR", "CRITICAL", "FAULT"}

// Levels returns every level from least to most severe.
func Levels() []Level {
	return []Level{VERBOSE, DEBUG, INFO, WARNING, ERROR, CRITICAL, FAULT}
}

// String converts a Level to its uppercase name.
func (l Level) String() string {
	if !l.Valid() {
		return "UNKNOWN"
	}
	return levelNames[l]
}

// Valid reports whether l is one of the defined levels.
func (l Level) Valid() bool {
	return l >= VERBOSE && l <= FAULT
}

// ParseLevel converts a string to its corresponding Level.
//
// The match is case-insensitive and accepts the common short forms
// ("warn", "crit", "trace").
//
// Example:
//
//	level, err := ParseLevel("info")
//	if err != nil {
//	    panic(err)
//	}
//	fmt.Println(level) // Output: INFO
func ParseLevel(level string) (Level, error) {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "VERBOSE", "TRACE":
		return VERBOSE, nil
	case "DEBUG":
		return DEBUG, nil
	case "INFO":
		return INFO, nil
	case "WARNING", "WARN":
		return WARNING, nil
	case "ERROR":
		return ERROR, nil
	case "CRITICAL", "CRIT":
		return CRITICAL, nil
	case "FAULT", "FATAL":
		return FAULT, nil
	default:
		return VERBOSE, errors.Wrapf(ErrInvalidLevel, "%q", level)
	}
}

// MarshalText lets levels be written by name in JSON and YAML configs.
func (l Level) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return nil, errors.Wrapf(ErrInvalidLevel, "%d", int32(l))
	}
	return []byte(l.String()), nil
}

// UnmarshalText parses a level name.
func (l *Level) UnmarshalText(text []byte) error {
	parsed, err := ParseLevel(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
