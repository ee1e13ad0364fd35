package ratelimit

import (
	"sync"
	"testing"
	"time"
)

func TestLedger(t *testing.T) {
	t.Run("Admit Then Deny At Quota", func(t *testing.T) {
		l := NewLedger(Config{Window: time.Hour, QuotaBytes: 100})

		if !l.Register("u1", 60) {
			t.Fatal("expected first registration to be admitted")
		}
		if l.Register("u1", 50) {
			t.Fatal("expected second registration to be denied (60+50 > 100)")
		}

		// Denial charges nothing: 40 more still fits next to the original 60.
		if !l.Register("u1", 40) {
			t.Error("expected 40 bytes to be admitted after denial left only 60 charged")
		}
		if got := l.WindowUsage("u1"); got != 100 {
			t.Errorf("expected 100 bytes charged, got %d", got)
		}
	})

	t.Run("Expired Records Reset The Quota", func(t *testing.T) {
		l := NewLedger(Config{Window: time.Hour, QuotaBytes: 100})

		t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		l.now = func() time.Time { return t0 }

		if !l.Register("u1", 90) {
			t.Fatal("expected registration at t0 to be admitted")
		}

		l.now = func() time.Time { return t0.Add(30 * time.Minute) }
		if l.Register("u1", 90) {
			t.Fatal("expected registration inside the window to be denied")
		}

		l.now = func() time.Time { return t0.Add(61 * time.Minute) }
		if !l.Register("u1", 90) {
			t.Error("expected registration after the window elapsed to be admitted")
		}
		if got := l.WindowUsage("u1"); got != 90 {
			t.Errorf("expected only the fresh 90 bytes in the window, got %d", got)
		}
	})

	t.Run("Users Are Isolated", func(t *testing.T) {
		l := NewLedger(Config{Window: time.Hour, QuotaBytes: 100})

		if !l.Register("u1", 100) {
			t.Fatal("expected u1 to fill the quota")
		}
		if !l.Register("u2", 100) {
			t.Error("expected u2 to have an untouched quota")
		}
	})

	t.Run("Zero Bytes", func(t *testing.T) {
		l := NewLedger(Config{Window: time.Hour, QuotaBytes: 100})

		if !l.Register("u1", 0) {
			t.Error("expected zero-byte registration to be admitted on an empty window")
		}
		if !l.Register("u1", 100) {
			t.Fatal("expected quota fill to be admitted")
		}
		if !l.Register("u1", 0) {
			t.Error("expected zero bytes to still be admitted at exactly quota")
		}
	})

	t.Run("New User Over Quota Alone", func(t *testing.T) {
		l := NewLedger(Config{Window: time.Hour, QuotaBytes: 100})

		if l.Register("fresh", 101) {
			t.Error("expected a single oversized registration to be denied")
		}
		if got := l.WindowUsage("fresh"); got != 0 {
			t.Errorf("expected nothing charged after denial, got %d", got)
		}
	})

	t.Run("Defaults Applied", func(t *testing.T) {
		l := NewLedger(Config{})

		if l.window != DefaultWindow {
			t.Errorf("expected default window, got %v", l.window)
		}
		if l.quota != DefaultQuotaBytes {
			t.Errorf("expected default quota, got %d", l.quota)
		}
	})

	t.Run("Concurrent Registrations Respect The Quota", func(t *testing.T) {
		l := NewLedger(Config{Window: time.Hour, QuotaBytes: 100})

		var wg sync.WaitGroup
		admitted := make(chan bool, 10)
		for range 10 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				admitted <- l.Register("u1", 60)
			}()
		}
		wg.Wait()
		close(admitted)

		wins := 0
		for ok := range admitted {
			if ok {
				wins++
			}
		}

		if wins != 1 {
			t.Errorf("expected exactly one of the racing registrations to win, got %d", wins)
		}
	})
}
