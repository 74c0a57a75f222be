// Package progress estimates and reports submission progress. Estimation is
// a pure function of elapsed versus expected time; the reporter turns it
// into a stream of monotonic percentage events.
package progress

import (
	"sync"
	"time"
)

// InterpolationCap is the highest percentage reachable from time
// interpolation alone. The remaining 5% is only granted on confirmed
// completion, so a slow backend never shows a false "done".
const InterpolationCap = 95

// PerUnit is the expected processing time per (sentence, language) pair.
const PerUnit = 500 * time.Millisecond

// EstimateDuration predicts how long a submission will take.
func EstimateDuration(sentences, targetLanguages int) time.Duration {
	return time.Duration(sentences*targetLanguages) * PerUnit
}

// Estimate interpolates a percentage from elapsed wall-clock time against
// the expected total. Clamped to [0, InterpolationCap].
func Estimate(elapsed, total time.Duration) float64 {
	if elapsed <= 0 || total <= 0 {
		return 0
	}
	pct := float64(elapsed) / float64(total) * 100
	if pct > InterpolationCap {
		return InterpolationCap
	}
	return pct
}

// Reporter emits monotonically non-decreasing progress percentages on a
// timer, independent of the submission path. Emit callbacks must not block;
// the reporter calls them from its own goroutine.
type Reporter struct {
	total    time.Duration
	interval time.Duration
	emit     func(float64)
	now      func() time.Time

	mu   sync.Mutex
	last float64
	stop chan struct{}
	done sync.WaitGroup
}

// NewReporter creates a Reporter that emits every interval (default 100ms).
func NewReporter(total time.Duration, emit func(float64)) *Reporter {
	return &Reporter{
		total:    total,
		interval: 100 * time.Millisecond,
		emit:     emit,
		now:      time.Now,
		stop:     make(chan struct{}),
	}
}

// Start launches the reporting loop.
func (r *Reporter) Start() {
	started := r.now()
	r.done.Add(1)

	go func() {
		defer r.done.Done()
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()

		for {
			select {
			case <-r.stop:
				return
			case <-ticker.C:
				r.report(Estimate(r.now().Sub(started), r.total))
			}
		}
	}()
}

// Done emits the terminal 100% event and stops the loop. Safe to call once.
func (r *Reporter) Done() {
	close(r.stop)
	r.done.Wait()
	r.report(100)
}

// Abort stops the loop without emitting the terminal event.
func (r *Reporter) Abort() {
	close(r.stop)
	r.done.Wait()
}

// report clamps emissions to be monotonically non-decreasing.
func (r *Reporter) report(pct float64) {
	r.mu.Lock()
	if pct < r.last {
		pct = r.last
	}
	r.last = pct
	r.mu.Unlock()

	if r.emit != nil {
		r.emit(pct)
	}
}
