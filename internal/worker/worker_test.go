package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/apex/log"
	"github.com/apex/log/handlers/discard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/williampepple1/redirlookup/pkg/models"
)

type fakeTracer struct {
	mu       sync.Mutex
	order    []string
	inFlight atomic.Int32
	peak     atomic.Int32
	delay    time.Duration
	fail     map[string]bool
}

func (f *fakeTracer) Trace(ctx context.Context, url string) (models.RedirectChain, error) {
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		p := f.peak.Load()
		if n <= p || f.peak.CompareAndSwap(p, n) {
			break
		}
	}

	f.mu.Lock()
	f.order = append(f.order, url)
	f.mu.Unlock()

	time.Sleep(f.delay)
	if f.fail[url] {
		return models.RedirectChain{}, errors.New("unreachable")
	}
	return models.RedirectChain{url, url + "/final"}, nil
}

var testLogger = &log.Logger{Handler: discard.New(), Level: log.DebugLevel}

func TestPool_SequentialKeepsOrder(t *testing.T) {
	urls := []string{"u1", "u2", "u3", "u4"}
	tr := &fakeTracer{}

	pool := NewPool(1, tr, testLogger, len(urls))
	pool.Start(context.Background())
	pool.AddJobs(urls)
	outcomes := pool.Collect()

	require.Len(t, outcomes, len(urls))
	for i, o := range outcomes {
		assert.Equal(t, i, o.Index)
		assert.Equal(t, urls[i], o.URL)
		assert.NoError(t, o.Err)
	}
	assert.Equal(t, urls, tr.order)
	assert.EqualValues(t, 1, tr.peak.Load())
}

func TestPool_ConcurrentFanIn(t *testing.T) {
	urls := []string{"u1", "u2", "u3", "u4", "u5", "u6"}
	tr := &fakeTracer{delay: 20 * time.Millisecond, fail: map[string]bool{"u3": true}}

	pool := NewPool(3, tr, testLogger, len(urls))
	pool.Start(context.Background())
	pool.AddJobs(urls)
	outcomes := pool.Collect()

	require.Len(t, outcomes, len(urls))
	for i, o := range outcomes {
		assert.Equal(t, urls[i], o.URL)
		if o.URL == "u3" {
			assert.Error(t, o.Err)
			assert.Empty(t, o.Chain)
			continue
		}
		assert.NoError(t, o.Err)
		assert.Equal(t, models.RedirectChain{o.URL, o.URL + "/final"}, o.Chain)
	}
	assert.LessOrEqual(t, tr.peak.Load(), int32(3))
	assert.Greater(t, tr.peak.Load(), int32(1))
}

func TestPool_Empty(t *testing.T) {
	pool := NewPool(0, &fakeTracer{}, testLogger, 0)
	assert.Equal(t, 1, pool.Workers)

	pool.Start(context.Background())
	pool.AddJobs(nil)
	assert.Empty(t, pool.Collect())
}
