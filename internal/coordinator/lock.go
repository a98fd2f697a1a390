package coordinator

import "sync/atomic"

// transitionLock is the non-reentrant guard serializing mutating
// operations. It is deliberately a try-lock: a call arriving while the
// lock is held is rejected immediately rather than queued or blocked,
// and the caller may safely retry. Every acquire is paired with a
// deferred release so the lock can never leak stuck on an error path.
type transitionLock struct {
	held atomic.Bool
}

// tryAcquire takes the lock, returning false on contention
func (l *transitionLock) tryAcquire() bool {
	return l.held.CompareAndSwap(false, true)
}

// release clears the lock
func (l *transitionLock) release() {
	l.held.Store(false)
}
