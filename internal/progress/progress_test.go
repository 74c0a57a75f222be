package progress

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstimate(t *testing.T) {
	total := 10 * time.Second

	assert.Equal(t, float64(0), Estimate(0, total))
	assert.Equal(t, float64(0), Estimate(-time.Second, total))
	assert.Equal(t, float64(0), Estimate(time.Second, 0))
	assert.InDelta(t, 10, Estimate(time.Second, total), 0.001)
	assert.InDelta(t, 50, Estimate(5*time.Second, total), 0.001)

	// Interpolation never reaches 100, no matter how long it takes.
	assert.Equal(t, float64(InterpolationCap), Estimate(total, total))
	assert.Equal(t, float64(InterpolationCap), Estimate(100*total, total))
}

func TestEstimateDuration(t *testing.T) {
	assert.Equal(t, 2*time.Second, EstimateDuration(2, 2))
	assert.Equal(t, 50*time.Second, EstimateDuration(50, 2))
}

func TestReporterMonotonicAndTerminal(t *testing.T) {
	var mu sync.Mutex
	var seen []float64

	r := NewReporter(50*time.Millisecond, func(pct float64) {
		mu.Lock()
		seen = append(seen, pct)
		mu.Unlock()
	})
	r.interval = time.Millisecond

	r.Start()
	time.Sleep(20 * time.Millisecond)
	r.Done()

	mu.Lock()
	defer mu.Unlock()

	require.NotEmpty(t, seen)
	for i := 1; i < len(seen); i++ {
		assert.GreaterOrEqual(t, seen[i], seen[i-1], "progress went backwards at %d", i)
	}
	assert.Equal(t, float64(100), seen[len(seen)-1], "terminal event must be 100")
	for _, pct := range seen[:len(seen)-1] {
		assert.LessOrEqual(t, pct, float64(InterpolationCap))
	}
}

func TestReporterAbortSkipsTerminal(t *testing.T) {
	var mu sync.Mutex
	var seen []float64

	r := NewReporter(time.Second, func(pct float64) {
		mu.Lock()
		seen = append(seen, pct)
		mu.Unlock()
	})
	r.interval = time.Millisecond

	r.Start()
	time.Sleep(5 * time.Millisecond)
	r.Abort()

	mu.Lock()
	defer mu.Unlock()
	for _, pct := range seen {
		assert.Less(t, pct, float64(100))
	}
}
