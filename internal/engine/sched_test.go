package engine

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("n%02d", i)
	}
	return out
}

func TestSequential_OrderAndStop(t *testing.T) {
	var seen []string
	stop := errors.New("stop")
	err := sequential{}.forEach(names(5), func(name string) error {
		seen = append(seen, name)
		if name == "n02" {
			return stop
		}
		return nil
	})
	require.ErrorIs(t, err, stop)
	assert.Equal(t, []string{"n00", "n01", "n02"}, seen)
}

func TestConcurrent_BoundsInFlight(t *testing.T) {
	const workers = 3
	sched := newConcurrent(workers)

	var inFlight, peak atomic.Int32
	err := sched.forEach(names(30), func(string) error {
		release, err := sched.acquire(context.Background())
		if err != nil {
			return err
		}
		defer release()

		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(2 * time.Millisecond)
		inFlight.Add(-1)
		return nil
	})
	require.NoError(t, err)
	assert.LessOrEqual(t, peak.Load(), int32(workers))
	assert.Positive(t, peak.Load())
}

func TestConcurrent_FinishesSiblingsOnError(t *testing.T) {
	sched := newConcurrent(4)
	boom := errors.New("boom")

	var done atomic.Int32
	err := sched.forEach(names(10), func(name string) error {
		if name == "n00" {
			return boom
		}
		time.Sleep(5 * time.Millisecond)
		done.Add(1)
		return nil
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, int32(9), done.Load())
}

func TestConcurrent_AcquireHonoursContext(t *testing.T) {
	sched := newConcurrent(1)
	release, err := sched.acquire(context.Background())
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = sched.acquire(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

// countingSched wraps concurrent and records every token taken.
type countingSched struct {
	concurrent
	acquired       atomic.Int32
	inFlight, peak atomic.Int32
}

func (s *countingSched) acquire(ctx context.Context) (func(), error) {
	release, err := s.concurrent.acquire(ctx)
	if err != nil {
		return nil, err
	}
	s.acquired.Add(1)
	n := s.inFlight.Add(1)
	for {
		p := s.peak.Load()
		if n <= p || s.peak.CompareAndSwap(p, n) {
			break
		}
	}
	return func() {
		s.inFlight.Add(-1)
		release()
	}, nil
}

func TestCopyTree_DirectoriesHoldTokens(t *testing.T) {
	const workers = 2
	src := t.TempDir()
	dirs, files := 1, 0
	for _, d := range names(12) {
		writeFile(t, filepath.Join(src, d, "x.txt"), "x", 0o644)
		writeFile(t, filepath.Join(src, d, "inner", "y.txt"), "y", 0o644)
		dirs += 2
		files += 2
	}
	dst := filepath.Join(t.TempDir(), "dst")

	sched := &countingSched{concurrent: newConcurrent(workers)}
	err := copyTree(context.Background(), src, dst, Options{}.normalize(), sched)
	require.NoError(t, err)

	requireSameTree(t, src, dst)
	assert.Equal(t, int32(dirs+files), sched.acquired.Load())
	assert.LessOrEqual(t, sched.peak.Load(), int32(workers))
	assert.Zero(t, sched.inFlight.Load())
}

func TestCopyTree_SingleTokenDeepTree(t *testing.T) {
	src := t.TempDir()
	p := src
	for _, d := range names(20) {
		p = filepath.Join(p, d)
		writeFile(t, filepath.Join(p, "f.txt"), d, 0o644)
	}
	dst := filepath.Join(t.TempDir(), "dst")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err := copyTree(ctx, src, dst, Options{}.normalize(), newConcurrent(1))
	require.NoError(t, err)
	requireSameTree(t, src, dst)
}
