package beaverlog

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig wraps every configuration validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Destination types accepted in DestinationConfig.Type.
const (
	TypeConsole  = "console"
	TypeFile     = "file"
	TypeRotating = "rotating"
	TypeHTTP     = "http"
)

// FilterConfig describes one filter.
type FilterConfig struct {
	Target        string   `json:"target" yaml:"target"`
	Comparison    string   `json:"comparison" yaml:"comparison"`
	Values        []string `json:"values" yaml:"values"`
	Required      bool     `json:"required" yaml:"required"`
	CaseSensitive bool     `json:"case_sensitive" yaml:"case_sensitive"`
	MinLevel      *Level   `json:"min_level,omitempty" yaml:"min_level,omitempty"`
}

// DestinationConfig describes one destination. Fields that do not apply
// to Type are ignored.
type DestinationConfig struct {
	Type      string         `json:"type" yaml:"type"`
	MinLevel  Level          `json:"min_level" yaml:"min_level"`
	Format    string         `json:"format" yaml:"format"`
	Async     bool           `json:"async" yaml:"async"`
	MaxRate   int            `json:"max_rate" yaml:"max_rate"`
	QueueSize int            `json:"queue_size" yaml:"queue_size"`
	Debug     bool           `json:"debug" yaml:"debug"`
	Filters   []FilterConfig `json:"filters" yaml:"filters"`

	// console
	Colors    string `json:"colors" yaml:"colors"`
	UseStderr bool   `json:"use_stderr" yaml:"use_stderr"`

	// file
	Path       string `json:"path" yaml:"path"`
	MaxSizeMB  int    `json:"max_size_mb" yaml:"max_size_mb"`
	MaxBackups int    `json:"max_backups" yaml:"max_backups"`
	Compress   bool   `json:"compress" yaml:"compress"`

	// rotating
	Directory string `json:"directory" yaml:"directory"`
	Name      string `json:"name" yaml:"name"`
	Extension string `json:"extension" yaml:"extension"`
	Rotation  string `json:"rotation" yaml:"rotation"`
	Keep      int    `json:"keep" yaml:"keep"`
	TrashDir  string `json:"trash_dir" yaml:"trash_dir"`

	// http
	URL        string  `json:"url" yaml:"url"`
	Threshold  int     `json:"threshold" yaml:"threshold"`
	MaxPending int     `json:"max_pending" yaml:"max_pending"`
	PostRate   float64 `json:"post_rate" yaml:"post_rate"`
}

// Config lists the destinations of a Logger.
type Config struct {
	Destinations []DestinationConfig `json:"destinations" yaml:"destinations"`
}

// DefaultConfig logs everything to the console.
func DefaultConfig() Config {
	return Config{
		Destinations: []DestinationConfig{{
			Type:     TypeConsole,
			MinLevel: VERBOSE,
			Format:   DefaultFormat,
			Colors:   "emoji",
		}},
	}
}

// LoadConfig reads a YAML (.yaml, .yml) or JSON (.json) config file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "failed to read config %s", path)
	}
	format := "yaml"
	if strings.EqualFold(filepath.Ext(path), ".json") {
		format = "json"
	}
	return ParseConfig(data, format)
}

// ParseConfig decodes data as "json" or "yaml" and validates it.
func ParseConfig(data []byte, format string) (Config, error) {
	var cfg Config
	var err error
	switch strings.ToLower(format) {
	case "json":
		err = json.Unmarshal(data, &cfg)
	case "yaml", "yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		return Config{}, errors.Wrapf(ErrInvalidConfig, "unknown config format %q", format)
	}
	if err != nil {
		return Config{}, errors.Wrap(err, "failed to parse config")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every destination and filter.
func (c *Config) Validate() error {
	for i, d := range c.Destinations {
		if err := d.validate(); err != nil {
			return errors.Wrapf(err, "destination %d", i)
		}
	}
	return nil
}

func (d *DestinationConfig) validate() error {
	if !d.MinLevel.Valid() {
		return errors.Wrapf(ErrInvalidConfig, "min_level %d", int32(d.MinLevel))
	}
	if d.MaxRate < 0 || d.QueueSize < 0 || d.MaxSizeMB < 0 || d.MaxBackups < 0 ||
		d.Keep < 0 || d.Threshold < 0 || d.MaxPending < 0 || d.PostRate < 0 {
		return errors.Wrap(ErrInvalidConfig, "numeric settings cannot be negative")
	}
	switch strings.ToLower(d.Type) {
	case TypeConsole:
		if _, err := ParseColorMode(d.Colors); err != nil {
			return errors.Wrap(ErrInvalidConfig, err.Error())
		}
	case TypeFile:
		if d.Path == "" {
			return errors.Wrap(ErrInvalidConfig, "file destination needs a path")
		}
	case TypeRotating:
		if d.Name == "" {
			return errors.Wrap(ErrInvalidConfig, "rotating destination needs a name")
		}
		if _, err := ParseRotationPolicy(d.Rotation); err != nil {
			return errors.Wrap(ErrInvalidConfig, err.Error())
		}
	case TypeHTTP:
		if d.URL == "" {
			return errors.Wrap(ErrInvalidConfig, "http destination needs a url")
		}
	default:
		return errors.Wrapf(ErrInvalidConfig, "unknown destination type %q", d.Type)
	}
	for j, f := range d.Filters {
		if _, err := f.build(); err != nil {
			return errors.Wrapf(err, "filter %d", j)
		}
	}
	return nil
}

// ApplyEnvOverrides applies LOG_LEVEL, LOG_FORMAT and LOG_DIR to every
// destination. Invalid values are ignored.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		if level, err := ParseLevel(v); err == nil {
			for i := range c.Destinations {
				c.Destinations[i].MinLevel = level
			}
		}
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		format := v
		if strings.EqualFold(v, "json") {
			format = JSONFormat
		}
		for i := range c.Destinations {
			c.Destinations[i].Format = format
		}
	}
	if v := os.Getenv("LOG_DIR"); v != "" {
		for i := range c.Destinations {
			if strings.EqualFold(c.Destinations[i].Type, TypeRotating) {
				c.Destinations[i].Directory = v
			}
		}
	}
}

func (f FilterConfig) build() (*Filter, error) {
	var target Target
	switch strings.ToLower(f.Target) {
	case "path":
		target = TargetPath
	case "function":
		target = TargetFunction
	case "message":
		target = TargetMessage
	default:
		return nil, errors.Wrapf(ErrInvalidConfig, "unknown filter target %q", f.Target)
	}

	var cmp Comparison
	switch strings.ToLower(f.Comparison) {
	case "starts_with":
		cmp = StartsWith(f.Values...)
	case "contains":
		cmp = Contains(f.Values...)
	case "ends_with":
		cmp = EndsWith(f.Values...)
	case "equals":
		cmp = Equals(f.Values...)
	case "excludes":
		cmp = Excludes(f.Values...)
	default:
		return nil, errors.Wrapf(ErrInvalidConfig, "unknown filter comparison %q", f.Comparison)
	}

	opts := []FilterOption{Required(f.Required), CaseSensitive(f.CaseSensitive)}
	if f.MinLevel != nil {
		opts = append(opts, MinLevel(*f.MinLevel))
	}
	return NewFilter(target, cmp, opts...), nil
}

// Build creates the configured destinations.
func (c Config) Build() ([]Destination, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	destinations := make([]Destination, 0, len(c.Destinations))
	for _, dc := range c.Destinations {
		destinations = append(destinations, dc.build())
	}
	return destinations, nil
}

// build assumes dc is valid.
func (dc DestinationConfig) build() Destination {
	var (
		d    Destination
		base *Base
	)
	switch strings.ToLower(dc.Type) {
	case TypeConsole:
		c := NewConsoleDestination()
		c.UseStderr(dc.UseStderr)
		mode, _ := ParseColorMode(dc.Colors)
		c.SetColorMode(mode)
		d, base = c, c.Base
	case TypeFile:
		f := NewFileDestination(dc.Path)
		f.SetMaxSize(dc.MaxSizeMB, dc.MaxBackups, dc.Compress)
		d, base = f, f.Base
	case TypeRotating:
		rotation, _ := ParseRotationPolicy(dc.Rotation)
		ext := strings.TrimPrefix(dc.Extension, ".")
		if ext == "" {
			ext = "log"
		}
		dir := dc.Directory
		if dir == "" {
			dir = "logs"
		}
		r := NewRotatingFileDestination(dir, FileNameTemplate{Name: dc.Name, Extension: ext},
			WithRotation(rotation),
			WithDeletion(KeepQuantity(dc.Keep)),
			WithRemover(TrashRemover{TrashDir: dc.TrashDir}),
		)
		d, base = r, r.Base
	case TypeHTTP:
		h := NewHTTPDestination(dc.URL)
		if dc.Threshold > 0 {
			h.SetThreshold(dc.Threshold)
		}
		if dc.MaxPending > 0 {
			h.SetMaxPending(dc.MaxPending)
		}
		h.SetPostRate(dc.PostRate)
		d, base = h, h.Base
	}

	if dc.QueueSize > 0 {
		base.queue = newWorker(dc.QueueSize, base.handleError)
	}
	base.SetMinLevel(dc.MinLevel)
	if dc.Format != "" {
		base.SetFormat(dc.Format)
	}
	base.SetAsync(dc.Async)
	base.SetMaxRate(dc.MaxRate)
	base.SetDebug(dc.Debug)
	for _, fc := range dc.Filters {
		f, _ := fc.build()
		base.AddFilter(f)
	}
	return d
}

// NewFromConfig builds a Logger with the configured destinations.
func NewFromConfig(c Config) (*Logger, error) {
	destinations, err := c.Build()
	if err != nil {
		return nil, err
	}
	return New(destinations...), nil
}
