package beaverlog

// tally counts how many reached filters of one bucket matched.
type tally struct {
	matched int
	total   int
}

func (t *tally) add(ok bool) {
	t.total++
	if ok {
		t.matched++
	}
}

// shouldLog is the dispatch policy of a destination. message is nil when
// the caller has not resolved the message; message filters are then skipped.
//
// Exclusions veto first, then required filters must all match, then one
// optional filter must match, and only then does the level gate decide.
func shouldLog(minLevel Level, filters []*Filter, level Level, path, function string, message *string) bool {
	if len(filters) == 0 {
		return level >= minLevel
	}

	var excluded, required, optional tally
	for _, f := range filters {
		if !f.ReachedMinLevel(level) {
			continue
		}
		var value string
		switch f.target {
		case TargetPath:
			value = path
		case TargetFunction:
			value = function
		case TargetMessage:
			if message == nil {
				continue
			}
			value = *message
		default:
			continue
		}
		ok := f.Apply(value)
		switch {
		case f.IsExcluded():
			excluded.add(ok)
		case f.required:
			required.add(ok)
		default:
			optional.add(ok)
		}
	}

	if excluded.total > 0 && excluded.matched != excluded.total {
		return false
	}
	if required.total > 0 {
		return required.matched == required.total
	}
	if optional.total > 0 {
		return optional.matched > 0
	}
	return level >= minLevel
}

func hasMessageFilters(filters []*Filter) bool {
	for _, f := range filters {
		if f.target == TargetMessage {
			return true
		}
	}
	return false
}

// hasMessageFiltersAt reports whether a message filter would take part in
// shouldLog for a call at level.
func hasMessageFiltersAt(filters []*Filter, level Level) bool {
	for _, f := range filters {
		if f.target == TargetMessage && f.ReachedMinLevel(level) {
			return true
		}
	}
	return false
}
