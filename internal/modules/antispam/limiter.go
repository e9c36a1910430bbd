package antispam

import (
	"sync"
	"time"
)

// ActionClass names a rate-limited operation category.
type ActionClass string

const (
	ActionRequests ActionClass = "requests"
	ActionComments ActionClass = "comments"
	ActionPosts    ActionClass = "posts"
)

type classPolicy struct {
	limit  int
	window time.Duration
}

var policies = map[ActionClass]classPolicy{
	ActionRequests: {limit: 60, window: time.Minute},
	ActionComments: {limit: 20, window: time.Hour},
	ActionPosts:    {limit: 10, window: 24 * time.Hour},
}

// Limiter is a sliding-window counter keyed by client address, one window
// set per action class. State is process-local and volatile: a restart
// resets every counter.
type Limiter struct {
	mu   sync.Mutex
	now  func() time.Time
	logs map[ActionClass]map[string][]time.Time
}

// NewLimiter builds a limiter with the given clock. Pass time.Now in
// production; tests inject a fake.
func NewLimiter(now func() time.Time) *Limiter {
	if now == nil {
		now = time.Now
	}
	return &Limiter{
		now:  now,
		logs: make(map[ActionClass]map[string][]time.Time),
	}
}

// Allow reports whether one more action of the given class is admitted for
// the client key, recording the attempt when it is. Unknown classes are
// always admitted.
func (l *Limiter) Allow(key string, class ActionClass) bool {
	policy, ok := policies[class]
	if !ok {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	classLogs := l.logs[class]
	if classLogs == nil {
		classLogs = make(map[string][]time.Time)
		l.logs[class] = classLogs
	}

	now := l.now()
	cutoff := now.Add(-policy.window)

	recent := classLogs[key][:0]
	for _, ts := range classLogs[key] {
		if ts.After(cutoff) {
			recent = append(recent, ts)
		}
	}

	if len(recent) >= policy.limit {
		classLogs[key] = recent
		return false
	}

	classLogs[key] = append(recent, now)
	return true
}
