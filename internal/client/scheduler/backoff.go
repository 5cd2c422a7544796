package scheduler

import (
	"math/rand/v2"
	"time"

	"github.com/dmitrijs2005/fintrack/internal/client/models"
)

// Backoff computes retry delays as min(Initial*2^attempts, Max) plus a
// random jitter of up to JitterRatio of that value.
type Backoff struct {
	Initial     time.Duration
	Max         time.Duration
	JitterRatio float64

	// Sample returns a number in [0, 1). Defaults to math/rand.
	Sample func() float64
}

func DefaultBackoff() Backoff {
	return Backoff{
		Initial:     time.Second,
		Max:         5 * time.Minute,
		JitterRatio: 0.1,
	}
}

// Base returns the delay without jitter.
func (b Backoff) Base(attempts int) time.Duration {
	if attempts < 0 {
		attempts = 0
	}
	d := b.Initial
	for i := 0; i < attempts; i++ {
		if d >= b.Max || d > b.Max/2 {
			return b.Max
		}
		d *= 2
	}
	if d > b.Max {
		return b.Max
	}
	return d
}

func (b Backoff) Delay(attempts int) time.Duration {
	d := b.Base(attempts)
	ratio := b.JitterRatio
	if ratio <= 0 || d <= 0 {
		return d
	}
	if ratio > 1 {
		ratio = 1
	}
	sample := rand.Float64
	if b.Sample != nil {
		sample = b.Sample
	}
	return d + time.Duration(float64(d)*ratio*sample())
}

// NextWake returns how long to sleep before the earliest queued item becomes
// eligible for a retry. Both failures and deferrals back an item off. Items
// that were never attempted are due at once. An empty queue sleeps for idle.
func NextWake(items []*models.QueueItem, now time.Time, b Backoff, idle time.Duration) time.Duration {
	if len(items) == 0 {
		return idle
	}

	wait := idle
	for _, it := range items {
		if it.LastAttemptAt == nil {
			return 0
		}
		due := it.LastAttemptAt.Add(b.Delay(it.Attempts + it.Deferrals)).Sub(now)
		if due <= 0 {
			return 0
		}
		if due < wait {
			wait = due
		}
	}
	return wait
}
