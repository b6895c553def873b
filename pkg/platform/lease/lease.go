// Package lease provides a named cluster-wide lock used to run a scheduled
// job on exactly one instance per occurrence.
//
// A lease is taken for at most AtMost (so a crashed holder cannot block the
// job forever) and, when released early, is kept until LockedAt+AtLeast so an
// instance whose clock or scheduler fires slightly late still sees it held.
package lease

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Lock describes one acquisition attempt.
type Lock struct {
	Name     string
	Token    string
	LockedAt time.Time
	AtMost   time.Duration
	AtLeast  time.Duration
}

// Until is the hard expiry of the lease.
func (l Lock) Until() time.Time {
	return l.LockedAt.Add(l.AtMost)
}

// ReleaseAt is the earliest time the lease may be freed.
func (l Lock) ReleaseAt() time.Time {
	return l.LockedAt.Add(l.AtLeast)
}

// Locker is implemented by each lease backend.
type Locker interface {
	// TryLock returns true when the lease was free (or expired) and is now held under l.Token.
	TryLock(ctx context.Context, l Lock) (bool, error)
	// Unlock frees the lease when now is past l.ReleaseAt, otherwise shortens it to end there.
	// Unlocking a lease held under a different token is a no-op.
	Unlock(ctx context.Context, l Lock, now time.Time) error
}

// Runner executes a function under a lease.
type Runner struct {
	locker  Locker
	atMost  time.Duration
	atLeast time.Duration
	now     func() time.Time
}

// Option configures a Runner.
type Option func(*Runner)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) {
		r.now = now
	}
}

// NewRunner validates the hold durations and builds a Runner.
func NewRunner(locker Locker, atLeast, atMost time.Duration, opts ...Option) (*Runner, error) {
	if locker == nil {
		return nil, fmt.Errorf("lease: locker is required")
	}
	if atMost <= 0 {
		return nil, fmt.Errorf("lease: atMost must be positive")
	}
	if atLeast < 0 || atLeast > atMost {
		return nil, fmt.Errorf("lease: atLeast must be within [0, atMost]")
	}
	r := &Runner{locker: locker, atMost: atMost, atLeast: atLeast, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Run acquires name and runs fn. ran is false when another holder owns the lease.
// The lease is released even when fn fails; a release error is returned only if fn succeeded.
func (r *Runner) Run(ctx context.Context, name string, fn func(ctx context.Context) error) (ran bool, err error) {
	l := Lock{
		Name:     name,
		Token:    uuid.NewString(),
		LockedAt: r.now(),
		AtMost:   r.atMost,
		AtLeast:  r.atLeast,
	}
	ok, err := r.locker.TryLock(ctx, l)
	if err != nil {
		return false, fmt.Errorf("acquire lease %s: %w", name, err)
	}
	if !ok {
		return false, nil
	}

	defer func() {
		// release with a fresh context so a cancelled run still frees the lease
		relCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if relErr := r.locker.Unlock(relCtx, l, r.now()); relErr != nil && err == nil {
			err = fmt.Errorf("release lease %s: %w", name, relErr)
		}
	}()

	return true, fn(ctx)
}
