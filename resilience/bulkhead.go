package resilience

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"
)

// Bulkhead rejection errors. Both are wrapped with the bulkhead name.
var (
	ErrBulkheadFull    = errors.New("bulkhead is full")
	ErrBulkheadTimeout = errors.New("bulkhead wait timeout")
)

// BulkheadConfig configures a Bulkhead.
type BulkheadConfig struct {
	// Name appears in rejection errors.
	Name string
	// MaxConcurrent caps the calls running at once. Defaults to 10.
	MaxConcurrent int
	// MaxWait bounds the wait for a free slot. Zero rejects immediately.
	MaxWait time.Duration
}

// Bulkhead caps how many calls run at once.
type Bulkhead struct {
	name    string
	size    int
	maxWait time.Duration
	sem     *semaphore.Weighted
	inUse   atomic.Int64
}

// NewBulkhead creates a bulkhead from cfg.
func NewBulkhead(cfg BulkheadConfig) *Bulkhead {
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 10
	}
	return &Bulkhead{
		name:    cfg.Name,
		size:    cfg.MaxConcurrent,
		maxWait: cfg.MaxWait,
		sem:     semaphore.NewWeighted(int64(cfg.MaxConcurrent)),
	}
}

// Execute runs fn once a slot is free. It fails with ErrBulkheadFull,
// ErrBulkheadTimeout or ctx's error when no slot can be taken.
func (b *Bulkhead) Execute(ctx context.Context, fn func() error) error {
	if err := b.acquire(ctx); err != nil {
		return err
	}
	b.inUse.Add(1)
	defer func() {
		b.inUse.Add(-1)
		b.sem.Release(1)
	}()
	return fn()
}

// ExecuteWithResult runs fn inside b and returns its result.
func ExecuteWithResult[T any](b *Bulkhead, ctx context.Context, fn func() (T, error)) (T, error) {
	var out T
	err := b.Execute(ctx, func() error {
		var err error
		out, err = fn()
		return err
	})
	return out, err
}

func (b *Bulkhead) acquire(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if b.sem.TryAcquire(1) {
		return nil
	}
	if b.maxWait <= 0 {
		return fmt.Errorf("%w: %s", ErrBulkheadFull, b.name)
	}

	waitCtx, cancel := context.WithTimeout(ctx, b.maxWait)
	defer cancel()
	if err := b.sem.Acquire(waitCtx, 1); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%w: %s after %s", ErrBulkheadTimeout, b.name, b.maxWait)
	}
	return nil
}

// Available returns the number of free slots.
func (b *Bulkhead) Available() int {
	return b.size - b.InUse()
}

// InUse returns the number of calls currently running.
func (b *Bulkhead) InUse() int {
	return int(b.inUse.Load())
}

// MaxConcurrent returns the slot count.
func (b *Bulkhead) MaxConcurrent() int {
	return b.size
}
