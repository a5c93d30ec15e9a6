// Package mutate runs client-initiated writes against the remote store and
// applies the invalidation contract: the write settles first, and only a
// successful write invalidates the mutation's statically-declared cache keys.
package mutate

import (
	"context"
	"sync"

	"github.com/avolkov/pawshare/internal/logging"
	"github.com/avolkov/pawshare/internal/notify"
	"github.com/avolkov/pawshare/internal/querycache"
)

// State of a single mutation run.
type State int

const (
	Idle State = iota
	InFlight
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case InFlight:
		return "in-flight"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Mutation declares one write operation. Invalidates is fixed per mutation
// type and never depends on the outcome of Do.
type Mutation struct {
	Name           string
	FailureMessage string
	Invalidates    []querycache.Key
	Do             func(ctx context.Context) error

	// Quiet reports failures the caller surfaces inline itself, for
	// example a taken username shown next to the input field. These skip
	// the generic failure notification. May be nil.
	Quiet func(err error) bool
}

// Run tracks the state of one mutation instance. Concurrent triggers of the
// same logical mutation each get their own Run; there is no deduplication.
type Run struct {
	mu    sync.Mutex
	state State
}

func (r *Run) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

func (r *Run) setState(s State) {
	r.mu.Lock()
	r.state = s
	r.mu.Unlock()
}

// Executor runs mutations: single attempt, no retries, no timeouts beyond
// whatever the context carries.
type Executor struct {
	cache    *querycache.Cache
	notifier notify.Notifier
	logger   logging.Logger
}

func NewExecutor(cache *querycache.Cache, notifier notify.Notifier, logger logging.Logger) *Executor {
	return &Executor{cache: cache, notifier: notifier, logger: logger}
}

// Execute performs the mutation's write and, on success, invalidates its
// declared keys in order. On failure the cache is left untouched and the
// user sees the mutation's generic failure message; the cause goes to the
// log only.
func (e *Executor) Execute(ctx context.Context, m Mutation) (*Run, error) {
	run := &Run{state: InFlight}

	if err := m.Do(ctx); err != nil {
		run.setState(Failed)
		e.logger.Error(ctx, "mutation failed", "mutation", m.Name, "error", err)
		if m.Quiet == nil || !m.Quiet(err) {
			e.notifier.Notify(ctx, m.FailureMessage)
		}
		return run, err
	}

	run.setState(Succeeded)
	for _, key := range m.Invalidates {
		e.cache.Invalidate(ctx, key)
	}
	return run, nil
}
