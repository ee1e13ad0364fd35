// package ratelimit implements the per-user sliding-window byte quota that
// guards the playlist creation pipeline.
//
// The service is cheap to run, so usage history is held in memory only and
// losing it on restart is accepted.
package ratelimit

import (
	"sync"
	"time"
)

const (
	DefaultWindow     = 24 * time.Hour
	DefaultQuotaBytes = 50 * 1024 * 1024
)

// Config holds the ledger limits. Zero values fall back to the defaults.
type Config struct {
	Window     time.Duration
	QuotaBytes int64
}

// UsageRecord is one admitted unit of work. Records are never mutated; they
// fall out of the window once older than (now - window).
type UsageRecord struct {
	At     time.Time
	Amount int64
}

// Ledger tracks bytes processed per user inside a rolling window and admits
// or denies new work against the configured quota. Safe for concurrent use;
// the expire-sum-admit sequence runs as one unit under the ledger lock, so
// two racing calls for the same user cannot both slip under the quota.
type Ledger struct {
	mu     sync.Mutex
	usage  map[string][]UsageRecord
	window time.Duration
	quota  int64

	now func() time.Time // swapped in tests
}

// NewLedger creates a ledger with the given limits.
func NewLedger(cfg Config) *Ledger {
	if cfg.Window <= 0 {
		cfg.Window = DefaultWindow
	}
	if cfg.QuotaBytes <= 0 {
		cfg.QuotaBytes = DefaultQuotaBytes
	}

	return &Ledger{
		usage:  make(map[string][]UsageRecord),
		window: cfg.Window,
		quota:  cfg.QuotaBytes,
		now:    time.Now,
	}
}

// Register reports whether amountBytes of new work for userID fits inside the
// quota for the current window. Expired records are dropped first and gone
// for good; they do not roll forward. On admission the new amount is recorded
// at the current instant. On denial nothing is charged and the user's history
// keeps only the post-expiry records.
//
// Quotas are strictly per user identifier; usage charged to one user never
// affects another.
func (l *Ledger) Register(userID string, amountBytes int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	expiry := now.Add(-l.window)

	var kept []UsageRecord
	var total int64
	for _, rec := range l.usage[userID] {
		if rec.At.Before(expiry) {
			continue
		}
		kept = append(kept, rec)
		total += rec.Amount
	}

	if amountBytes+total > l.quota {
		l.usage[userID] = kept
		return false
	}

	l.usage[userID] = append(kept, UsageRecord{At: now, Amount: amountBytes})
	return true
}

// WindowUsage returns the bytes currently charged to userID within the window.
func (l *Ledger) WindowUsage(userID string) int64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	expiry := l.now().Add(-l.window)

	var total int64
	for _, rec := range l.usage[userID] {
		if !rec.At.Before(expiry) {
			total += rec.Amount
		}
	}
	return total
}
