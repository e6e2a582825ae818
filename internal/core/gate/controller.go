package gate

// Config controls one page session's gating behavior
type Config struct {
	// Enforced toggles consent enforcement; false makes the whole session a
	// permissive passthrough
	Enforced bool
	// MaxQueued bounds each principal's pending queue; 0 means unbounded
	MaxQueued int
	// OnActionPanic observes contained failures from released actions
	OnActionPanic func(p Principal, index int, recovered any)
}

// Controller binds the gate, registry, and state provider for one page
// session and applies the lifecycle events that mutate them together.
// Like its parts it is single-owner: the caller serializes access
type Controller struct {
	gate *PermissionGate
	reg  *Registry
	meta *StateProvider
	page PageToken
}

// NewController constructs a controller for a fresh page session
func NewController(cfg Config) *Controller {
	g := NewPermissionGate(cfg.Enforced)
	return &Controller{
		gate: g,
		reg: NewRegistry(RegistryOptions{
			MaxQueued:     cfg.MaxQueued,
			OnActionPanic: cfg.OnActionPanic,
		}),
		meta: NewStateProvider(g),
	}
}

// PageToken returns the current page generation
func (c *Controller) PageToken() PageToken { return c.page }

// Pending returns the queued request count for p
func (c *Controller) Pending(p Principal) int { return c.reg.Pending(p) }

// CheckConsent answers the request-consent protocol message: it records p as
// seen on this page and reports whether the caller must defer via
// SubmitDeferred (true) or may act immediately (false)
func (c *Controller) CheckConsent(p Principal, tok PageToken) bool {
	c.meta.Touch(p, tok)
	return c.gate.RequiresConsent(p)
}

// SubmitDeferred queues a deferred action for p against the given page
// generation. Callers submit only after CheckConsent returned true, but a
// submit with consent already present still queues (defensive; the next
// grant releases it)
func (c *Controller) SubmitDeferred(p Principal, a Action, tok PageToken) error {
	c.meta.Touch(p, tok)
	return c.reg.Submit(p, a, tok)
}

// OnPermissionGranted applies an inbound grant: gate membership first, then
// release of everything p had queued. Returns the released count
func (c *Controller) OnPermissionGranted(p Principal) int {
	c.gate.Grant(p)
	return c.reg.Release(p)
}

// OnNavigated resets the session for a new page generation. Every queued
// action captured against the old page is dropped unrun; no pre-navigation
// state survives
func (c *Controller) OnNavigated(tok PageToken) {
	c.gate.Reset()
	c.reg.Clear()
	c.meta.Reset()
	c.page = tok
}

// OnUnloaded removes every trace of p: consent, queued work, and metadata
func (c *Controller) OnUnloaded(p Principal) {
	c.gate.Revoke(p)
	c.reg.ClearPrincipal(p)
	c.meta.Forget(p)
}

// StateFor derives p's presentation state
func (c *Controller) StateFor(p Principal) ActionState {
	return c.meta.StateFor(p)
}
