package worker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/williampepple1/listing-scraper/internal/config"
	"github.com/williampepple1/listing-scraper/internal/pipeline"
	"github.com/williampepple1/listing-scraper/internal/source"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

type slowRunner struct {
	delay   time.Duration
	fail    string
	running atomic.Int32
	peak    atomic.Int32
	mu      sync.Mutex
	seen    []string
}

func (r *slowRunner) Run(ctx context.Context, src *source.Source, q source.Query) (*pipeline.Result, error) {
	n := r.running.Add(1)
	defer r.running.Add(-1)
	for {
		peak := r.peak.Load()
		if n <= peak || r.peak.CompareAndSwap(peak, n) {
			break
		}
	}

	r.mu.Lock()
	r.seen = append(r.seen, src.Name())
	r.mu.Unlock()

	time.Sleep(r.delay)
	if src.Name() == r.fail {
		return nil, errors.New("upstream down")
	}
	return &pipeline.Result{Source: src.Name(), Query: q}, nil
}

func defaultSources(t *testing.T) []*source.Source {
	t.Helper()
	reg, err := source.NewRegistry(config.DefaultSources())
	require.NoError(t, err)

	var srcs []*source.Source
	for _, name := range reg.Names() {
		src, err := reg.Get(name)
		require.NoError(t, err)
		srcs = append(srcs, src)
	}
	return srcs
}

func TestRunKeepsSourceOrder(t *testing.T) {
	srcs := defaultSources(t)
	runner := &slowRunner{delay: 5 * time.Millisecond, fail: "unstop-live"}

	outcomes := Run(context.Background(), runner, 3, srcs, source.Query{Keyword: "ai"}, quiet)
	require.Len(t, outcomes, len(srcs))

	for i, o := range outcomes {
		assert.Equal(t, srcs[i].Name(), o.Job.Source.Name())
		if o.Job.Source.Name() == "unstop-live" {
			assert.Error(t, o.Err)
			assert.Nil(t, o.Result)
			continue
		}
		require.NoError(t, o.Err)
		assert.Equal(t, "ai", o.Result.Query.Keyword)
	}
	assert.LessOrEqual(t, runner.peak.Load(), int32(3))
	assert.Len(t, runner.seen, len(srcs))
}

func TestRunSingleWorker(t *testing.T) {
	runner := &slowRunner{}
	outcomes := Run(context.Background(), runner, 0, defaultSources(t), source.Query{}, quiet)
	assert.Len(t, outcomes, 5)
	assert.Equal(t, int32(1), runner.peak.Load())
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runner := &slowRunner{}
	outcomes := Run(ctx, runner, 2, defaultSources(t), source.Query{}, quiet)
	require.Len(t, outcomes, 5)
	for _, o := range outcomes {
		assert.ErrorIs(t, o.Err, context.Canceled)
	}
	assert.Empty(t, runner.seen)
}

func TestRunNoSources(t *testing.T) {
	assert.Empty(t, Run(context.Background(), &slowRunner{}, 4, nil, source.Query{}, quiet))
}
