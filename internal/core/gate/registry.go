package gate

import "errors"

// ErrQueueFull is returned by Submit when a per-principal bound is configured
// and the principal's queue is already at it
var ErrQueueFull = errors.New("gate: pending queue full")

// Action is a zero-argument deferred operation captured at submit time
type Action func()

// PendingRequest pairs a deferred action with the page generation it was
// issued against
type PendingRequest struct {
	Action    Action
	PageToken PageToken
}

// RegistryOptions controls registry behavior
type RegistryOptions struct {
	// MaxQueued bounds each principal's queue; 0 means unbounded
	MaxQueued int
	// OnActionPanic observes a recovered panic from one released action.
	// The drain continues with the remaining actions either way
	OnActionPanic func(p Principal, index int, recovered any)
}

// Registry owns the ordered per-principal queues of deferred requests.
// It is single-owner: all methods run on the goroutine that owns the page
// session, so there is no internal locking
type Registry struct {
	pending map[Principal][]PendingRequest
	opts    RegistryOptions
}

// NewRegistry constructs an empty registry
func NewRegistry(opts RegistryOptions) *Registry {
	return &Registry{
		pending: make(map[Principal][]PendingRequest),
		opts:    opts,
	}
}

// Submit appends a deferred request to p's queue in arrival order
func (r *Registry) Submit(p Principal, a Action, tok PageToken) error {
	if r.opts.MaxQueued > 0 && len(r.pending[p]) >= r.opts.MaxQueued {
		return ErrQueueFull
	}
	r.pending[p] = append(r.pending[p], PendingRequest{Action: a, PageToken: tok})
	return nil
}

// Pending returns how many requests are queued for p (0 for unknown principals)
func (r *Registry) Pending(p Principal) int { return len(r.pending[p]) }

// Release drains p's queue and invokes every captured action in submission
// order, synchronously, returning the count released. The queue entry is
// removed before any action runs, so a re-entrant Submit from inside an
// action lands in a fresh queue for a future release, never the one in
// progress. A panicking action is contained and reported; later actions in
// the same drain still run
func (r *Registry) Release(p Principal) int {
	q := r.pending[p]
	if len(q) == 0 {
		return 0
	}
	delete(r.pending, p)
	for i := range q {
		r.invoke(p, i, q[i].Action)
	}
	return len(q)
}

func (r *Registry) invoke(p Principal, i int, a Action) {
	defer func() {
		if v := recover(); v != nil && r.opts.OnActionPanic != nil {
			r.opts.OnActionPanic(p, i, v)
		}
	}()
	a()
}

// ClearPrincipal drops p's queue without running anything (unload)
func (r *Registry) ClearPrincipal(p Principal) {
	delete(r.pending, p)
}

// Clear drops every queue without running anything (navigation)
func (r *Registry) Clear() {
	clear(r.pending)
}
