package engine

import (
	"context"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// scheduler decides how the children of a directory are processed. One
// scheduler is chosen per copy and used for the whole traversal.
type scheduler interface {
	// forEach calls fn for every name and returns the first error.
	forEach(names []string, fn func(name string) error) error
	// acquire blocks until an entry may open descriptors: a non-directory
	// for its whole copy, a directory while it is created and listed. The
	// returned release must be called once that work is done.
	acquire(ctx context.Context) (release func(), err error)
}

// sequential processes children one at a time in the given order and stops
// at the first failure.
type sequential struct{}

func (sequential) forEach(names []string, fn func(string) error) error {
	for _, name := range names {
		if err := fn(name); err != nil {
			return err
		}
	}
	return nil
}

func (sequential) acquire(context.Context) (func(), error) {
	return func() {}, nil
}

// concurrent starts every child of a directory at once. A weighted
// semaphore caps how many entries hold descriptors at the same time.
// Directories release their token before their children start, so nested
// directories cannot starve the pool.
//
// Siblings are not cancelled when one fails: errgroup.Group without a
// context lets in-flight entries finish and reports the first error.
type concurrent struct {
	sem *semaphore.Weighted
}

func newConcurrent(workers int) concurrent {
	return concurrent{sem: semaphore.NewWeighted(int64(workers))}
}

func (c concurrent) forEach(names []string, fn func(string) error) error {
	var g errgroup.Group
	for _, name := range names {
		g.Go(func() error {
			return fn(name)
		})
	}
	return g.Wait()
}

func (c concurrent) acquire(ctx context.Context) (func(), error) {
	if err := c.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	return func() { c.sem.Release(1) }, nil
}
