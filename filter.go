package beaverlog

import (
	"strings"

	"github.com/google/uuid"
)

// Target names the attribute of a log call a Filter inspects.
type Target int

const (
	TargetPath Target = iota
	TargetFunction
	TargetMessage
)

func (t Target) String() string {
	switch t {
	case TargetPath:
		return "path"
	case TargetFunction:
		return "function"
	case TargetMessage:
		return "message"
	default:
		return "unknown"
	}
}

// ComparisonKind selects how candidate strings are matched.
type ComparisonKind int

const (
	KindStartsWith ComparisonKind = iota
	KindContains
	KindEndsWith
	KindEquals
	KindExcludes
)

func (k ComparisonKind) String() string {
	switch k {
	case KindStartsWith:
		return "starts_with"
	case KindContains:
		return "contains"
	case KindEndsWith:
		return "ends_with"
	case KindEquals:
		return "equals"
	case KindExcludes:
		return "excludes"
	default:
		return "unknown"
	}
}

// Comparison is a comparison kind over an ordered set of candidate strings.
type Comparison struct {
	Kind   ComparisonKind
	Values []string
}

// StartsWith matches values having any candidate as a prefix.
func StartsWith(values ...string) Comparison { return Comparison{Kind: KindStartsWith, Values: values} }

// Contains matches values containing any candidate.
func Contains(values ...string) Comparison { return Comparison{Kind: KindContains, Values: values} }

// EndsWith matches values having any candidate as a suffix.
func EndsWith(values ...string) Comparison { return Comparison{Kind: KindEndsWith, Values: values} }

// Equals matches values equal to any candidate.
func Equals(values ...string) Comparison { return Comparison{Kind: KindEquals, Values: values} }

// Excludes matches values containing none of the candidates.
func Excludes(values ...string) Comparison { return Comparison{Kind: KindExcludes, Values: values} }

// Filter is an immutable predicate over one attribute of a log call.
// Filters are identified by ID, never by their contents.
type Filter struct {
	id            uuid.UUID
	target        Target
	cmp           Comparison
	caseSensitive bool
	required      bool
	minLevel      *Level
}

// FilterOption configures a Filter at construction.
type FilterOption func(*Filter)

// Required marks the filter as required: every required filter must match.
func Required(required bool) FilterOption {
	return func(f *Filter) { f.required = required }
}

// CaseSensitive disables lowercasing of both sides before comparison.
func CaseSensitive(caseSensitive bool) FilterOption {
	return func(f *Filter) { f.caseSensitive = caseSensitive }
}

// MinLevel restricts the filter to calls at or above level.
func MinLevel(level Level) FilterOption {
	return func(f *Filter) {
		l := level
		f.minLevel = &l
	}
}

// NewFilter builds a filter over target. Candidate values are copied.
func NewFilter(target Target, cmp Comparison, opts ...FilterOption) *Filter {
	f := &Filter{
		id:     uuid.New(),
		target: target,
		cmp: Comparison{
			Kind:   cmp.Kind,
			Values: append([]string(nil), cmp.Values...),
		},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// PathFilter builds a filter over the caller's file path.
func PathFilter(cmp Comparison, opts ...FilterOption) *Filter {
	return NewFilter(TargetPath, cmp, opts...)
}

// FunctionFilter builds a filter over the caller's function name.
func FunctionFilter(cmp Comparison, opts ...FilterOption) *Filter {
	return NewFilter(TargetFunction, cmp, opts...)
}

// MessageFilter builds a filter over the rendered message text.
func MessageFilter(cmp Comparison, opts ...FilterOption) *Filter {
	return NewFilter(TargetMessage, cmp, opts...)
}

// ID is the handle used to remove the filter from a destination.
func (f *Filter) ID() uuid.UUID { return f.id }

// Target returns the inspected attribute and a copy of the comparison.
func (f *Filter) Target() (Target, Comparison) {
	return f.target, Comparison{Kind: f.cmp.Kind, Values: append([]string(nil), f.cmp.Values...)}
}

func (f *Filter) IsRequired() bool      { return f.required }
func (f *Filter) IsExcluded() bool      { return f.cmp.Kind == KindExcludes }
func (f *Filter) IsCaseSensitive() bool { return f.caseSensitive }

// MinLevel returns the filter's minimum level and whether one is set.
func (f *Filter) MinLevel() (Level, bool) {
	if f.minLevel == nil {
		return VERBOSE, false
	}
	return *f.minLevel, true
}

// ReachedMinLevel reports whether the filter applies to calls at level.
func (f *Filter) ReachedMinLevel(level Level) bool {
	return f.minLevel == nil || level >= *f.minLevel
}

// Apply evaluates the comparison against value. An empty candidate set
// places no constraint and always applies.
func (f *Filter) Apply(value string) bool {
	if len(f.cmp.Values) == 0 {
		return true
	}
	if !f.caseSensitive {
		value = strings.ToLower(value)
	}
	for _, candidate := range f.cmp.Values {
		if !f.caseSensitive {
			candidate = strings.ToLower(candidate)
		}
		var hit bool
		switch f.cmp.Kind {
		case KindStartsWith:
			hit = strings.HasPrefix(value, candidate)
		case KindContains, KindExcludes:
			hit = strings.Contains(value, candidate)
		case KindEndsWith:
			hit = strings.HasSuffix(value, candidate)
		case KindEquals:
			hit = value == candidate
		}
		if hit {
			return f.cmp.Kind != KindExcludes
		}
	}
	return f.cmp.Kind == KindExcludes
}
