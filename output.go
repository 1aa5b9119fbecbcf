package beaverlog

// AddDestination registers d. It returns false if d is nil or already
// registered.
func (l *Logger) AddDestination(d Destination) bool {
	if d == nil {
		internal.Warn("refusing to add a nil destination")
		return false
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, existing := range l.destinations {
		if existing.ID() == d.ID() {
			return false
		}
	}
	l.destinations = append(l.destinations, d)
	return true
}

// RemoveDestination unregisters d. It returns false if d was not registered.
// The destination is not closed.
func (l *Logger) RemoveDestination(d Destination) bool {
	if d == nil {
		return false
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, existing := range l.destinations {
		if existing.ID() == d.ID() {
			l.destinations = append(l.destinations[:i:i], l.destinations[i+1:]...)
			return true
		}
	}
	return false
}

// RemoveAllDestinations unregisters every destination.
func (l *Logger) RemoveAllDestinations() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.destinations = nil
}

// CountDestinations returns the number of registered destinations.
func (l *Logger) CountDestinations() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.destinations)
}

// Destinations returns the registered destinations in insertion order.
func (l *Logger) Destinations() []Destination {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]Destination(nil), l.destinations...)
}
