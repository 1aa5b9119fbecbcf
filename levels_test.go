package beaverlog

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestLevelOrdering(t *testing.T) {
	levels := Levels()
	require.Len(t, levels, 7)
	for i := 1; i < len(levels); i++ {
		assert.Less(t, levels[i-1], levels[i])
	}
	assert.Equal(t, Level(0), VERBOSE)
	assert.Equal(t, Level(6), FAULT)
}

func TestLevelString(t *testing.T) {
	tests := []struct {
		level    Level
		expected string
	}{
		{VERBOSE, "VERBOSE"},
		{DEBUG, "DEBUG"},
		{INFO, "INFO"},
		{WARNING, "WARNING"},
		{ERROR, "ERROR"},
		{CRITICAL, "CRITICAL"},
		{FAULT, "FAULT"},
		{Level(42), "UNKNOWN"},
		{Level(-1), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.level.String())
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
		wantErr  bool
	}{
		{"verbose", VERBOSE, false},
		{"TRACE", VERBOSE, false},
		{"debug", DEBUG, false},
		{" Info ", INFO, false},
		{"warn", WARNING, false},
		{"WARNING", WARNING, false},
		{"error", ERROR, false},
		{"crit", CRITICAL, false},
		{"fatal", FAULT, false},
		{"fault", FAULT, false},
		{"loud", VERBOSE, true},
		{"", VERBOSE, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			level, err := ParseLevel(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, ErrInvalidLevel, errors.Cause(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, level)
		})
	}
}

func TestLevelText(t *testing.T) {
	var holder struct {
		Level Level `yaml:"level"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("level: warning\n"), &holder))
	assert.Equal(t, WARNING, holder.Level)

	out, err := yaml.Marshal(holder)
	require.NoError(t, err)
	assert.Equal(t, "level: WARNING\n", string(out))

	data, err := json.Marshal(map[string]Level{"level": CRITICAL})
	require.NoError(t, err)
	assert.JSONEq(t, `{"level":"CRITICAL"}`, string(data))

	_, err = Level(9).MarshalText()
	assert.Error(t, err)
	assert.Error(t, yaml.Unmarshal([]byte("level: shouting\n"), &holder))
}
