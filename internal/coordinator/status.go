package coordinator

import (
	"sync"
	"time"

	"github.com/speakpost/speakpost-backend/internal/domain"
	pkglogger "github.com/speakpost/speakpost-backend/pkg/logger"
)

// statusQueue arbitrates the single temporary status slot. A temporary
// status overrides the continuously recomputed primary status; a lower-
// priority update arriving while a higher-priority one is active is
// dropped outright, never queued.
type statusQueue struct {
	mu       sync.Mutex
	temp     *domain.StatusMessage
	timer    *time.Timer
	now      func() time.Time
	onChange func()
}

func newStatusQueue(onChange func()) *statusQueue {
	return &statusQueue{
		now:      time.Now,
		onChange: onChange,
	}
}

// setTemporary installs a temporary status. Returns false when the
// update was dropped because a higher-priority status is active.
// A zero duration means the status stays until cleared or displaced.
func (q *statusQueue) setTemporary(msg domain.StatusMessage, duration time.Duration) bool {
	q.mu.Lock()

	if active := q.activeTempLocked(); active != nil && msg.Priority < active.Priority {
		q.mu.Unlock()
		pkglogger.GetLogger().Debug().
			Str("dropped", msg.Text).
			Str("priority", msg.Priority.String()).
			Str("active_priority", active.Priority.String()).
			Msg("status update dropped by priority")
		return false
	}

	if duration > 0 {
		expires := q.now().Add(duration)
		msg.ExpiresAt = &expires
	}
	q.temp = &msg

	if q.timer != nil {
		q.timer.Stop()
		q.timer = nil
	}
	if duration > 0 {
		q.timer = time.AfterFunc(duration, q.expire)
	}

	q.mu.Unlock()

	if q.onChange != nil {
		q.onChange()
	}
	return true
}

// expire self-clears the temporary status; priority falls back to low
// and the primary status shows through again
func (q *statusQueue) expire() {
	q.mu.Lock()
	q.temp = nil
	q.timer = nil
	q.mu.Unlock()

	if q.onChange != nil {
		q.onChange()
	}
}

// clear drops the temporary status immediately
func (q *statusQueue) clear() {
	q.mu.Lock()
	q.temp = nil
	if q.timer != nil {
		q.timer.Stop()
		q.timer = nil
	}
	q.mu.Unlock()
}

// active returns the temporary status if one is live, else the given
// primary status
func (q *statusQueue) active(primary domain.StatusMessage) domain.StatusMessage {
	q.mu.Lock()
	defer q.mu.Unlock()
	if temp := q.activeTempLocked(); temp != nil {
		return *temp
	}
	return primary
}

func (q *statusQueue) activeTempLocked() *domain.StatusMessage {
	if q.temp == nil {
		return nil
	}
	if q.temp.Expired(q.now()) {
		q.temp = nil
		return nil
	}
	return q.temp
}

// stop cancels any pending expiry timer (coordinator disposal)
func (q *statusQueue) stop() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.timer != nil {
		q.timer.Stop()
		q.timer = nil
	}
}
