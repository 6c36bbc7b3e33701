package session

import "sync"

// Tracker records which browsers have a login or logout in flight.
// At most one flow per browser runs at a time.
type Tracker struct {
	mu       sync.Mutex
	inFlight map[string]struct{}
}

// NewTracker creates an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{inFlight: make(map[string]struct{})}
}

// Begin marks browserID as busy. ok is false when another flow already holds it;
// in that case end is a no-op. end is safe to call more than once.
func (t *Tracker) Begin(browserID string) (end func(), ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, busy := t.inFlight[browserID]; busy {
		return func() {}, false
	}
	t.inFlight[browserID] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			t.mu.Lock()
			delete(t.inFlight, browserID)
			t.mu.Unlock()
		})
	}, true
}

// Pending reports whether a flow is in flight for browserID.
func (t *Tracker) Pending(browserID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, busy := t.inFlight[browserID]
	return busy
}

// PendingFunc adapts Pending for WithPending.
func (t *Tracker) PendingFunc(browserID string) func() bool {
	return func() bool { return t.Pending(browserID) }
}
