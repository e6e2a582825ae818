// Package gate implements consent gating and deferred release of pending
// script injections, scoped to a single page session
package gate

// Principal identifies the extension an action runs on behalf of
type Principal string

// PageToken identifies the page/document generation a request was issued
// against. Tokens are opaque to the gate; staleness is handled by clearing
// all state on navigation rather than per-call validation
type PageToken int64

// PermissionGate is the single source of truth for whether a principal
// currently holds consent to act on the active page
type PermissionGate struct {
	enforced  bool
	permitted map[Principal]struct{}
}

// NewPermissionGate constructs a gate. With enforced=false the gate is a
// permissive passthrough: nothing ever requires consent and grants are no-ops
func NewPermissionGate(enforced bool) *PermissionGate {
	return &PermissionGate{
		enforced:  enforced,
		permitted: make(map[Principal]struct{}),
	}
}

// Enforced reports whether gating is active at all
func (g *PermissionGate) Enforced() bool { return g.enforced }

// RequiresConsent reports whether p must be granted before acting
func (g *PermissionGate) RequiresConsent(p Principal) bool {
	if !g.enforced {
		return false
	}
	_, ok := g.permitted[p]
	return !ok
}

// Grant marks p as consented for the current page. Idempotent
func (g *PermissionGate) Grant(p Principal) {
	if !g.enforced {
		return
	}
	g.permitted[p] = struct{}{}
}

// Revoke removes p from the permitted set (extension unload)
func (g *PermissionGate) Revoke(p Principal) {
	delete(g.permitted, p)
}

// Reset clears the permitted set. Called on navigation; the only bulk path
// by which membership shrinks
func (g *PermissionGate) Reset() {
	clear(g.permitted)
}

// Permitted reports current membership (granted and enforcement on)
func (g *PermissionGate) Permitted(p Principal) bool {
	_, ok := g.permitted[p]
	return ok
}
