package status

import "strings"

// TransitionMap maps a status to the set of statuses directly reachable from
// it. Lookups are case-insensitive. Every status reachable from the initial
// status must appear as a key; a key with an empty set denotes a terminal
// status.
type TransitionMap map[string][]string

// normalize folds a status string for case-insensitive comparison
func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// CanTransition reports whether newStatus is directly reachable from
// oldStatus. An empty oldStatus (first-ever transition) is allowed to reach
// any status that appears as a key in the map.
func (m TransitionMap) CanTransition(oldStatus, newStatus string) bool {
	if oldStatus == "" {
		return m.HasStatus(newStatus)
	}

	next, ok := m.lookup(oldStatus)
	if !ok {
		return false
	}
	for _, s := range next {
		if normalize(s) == normalize(newStatus) {
			return true
		}
	}
	return false
}

// HasStatus reports whether the status appears as a key in the map
func (m TransitionMap) HasStatus(s string) bool {
	_, ok := m.lookup(s)
	return ok
}

// IsTerminal reports whether the status is a known key with no outgoing
// transitions
func (m TransitionMap) IsTerminal(s string) bool {
	next, ok := m.lookup(s)
	return ok && len(next) == 0
}

// PermittedNext returns a copy of the statuses directly reachable from s
func (m TransitionMap) PermittedNext(s string) []string {
	next, ok := m.lookup(s)
	if !ok {
		return nil
	}
	return append([]string(nil), next...)
}

func (m TransitionMap) lookup(s string) ([]string, bool) {
	if next, ok := m[s]; ok {
		return next, true
	}
	want := normalize(s)
	for key, next := range m {
		if normalize(key) == want {
			return next, true
		}
	}
	return nil, false
}
