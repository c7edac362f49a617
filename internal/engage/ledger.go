package engage

import "sync"

// ViewLedger tracks which stories have already triggered a view-increment
// request. One ledger lives for one mounted story view; it is discarded when
// the view goes away, so re-opening a story later counts a fresh view.
//
// The ledger only answers "should this call dispatch the increment"; it has
// no opinion about whether the request later succeeds. A failed increment is
// not retried: double-counting is worse than losing a single view.
type ViewLedger struct {
	mu      sync.Mutex
	counted map[string]struct{}
}

// NewViewLedger returns an empty ledger.
func NewViewLedger() *ViewLedger {
	return &ViewLedger{counted: make(map[string]struct{})}
}

// ShouldCount returns true exactly once per story ID for the life of the
// ledger. The check and the insert happen under one lock, so two
// back-to-back calls (rapid remounts, double invocation) can never both
// see an empty entry.
func (l *ViewLedger) ShouldCount(storyID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, seen := l.counted[storyID]; seen {
		return false
	}
	l.counted[storyID] = struct{}{}
	return true
}

// Len returns how many distinct stories have been counted.
func (l *ViewLedger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.counted)
}
