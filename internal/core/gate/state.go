package gate

// ActionState is the presentation-level state derived for one principal.
// It is never stored; it is computed from gate membership plus whether the
// principal has interacted with the current page at all
type ActionState int

const (
	// ActionNoneNeeded means the principal has not been seen on this page
	ActionNoneNeeded ActionState = iota
	// ActionPermissionRequired means the principal has pending interest but
	// no consent yet
	ActionPermissionRequired
	// ActionPermitted means the principal holds consent for this page
	ActionPermitted
)

// String implements fmt.Stringer
func (s ActionState) String() string {
	switch s {
	case ActionPermissionRequired:
		return "permission_required"
	case ActionPermitted:
		return "permitted"
	default:
		return "none_needed"
	}
}

// principalMeta is per-principal bookkeeping, created lazily on first
// interaction. Value-owned by the provider's map; never aliased elsewhere
type principalMeta struct {
	firstPage PageToken
}

// StateProvider tracks which principals have been seen on the current page
// and derives their ActionState for display collaborators
type StateProvider struct {
	gate *PermissionGate
	seen map[Principal]principalMeta
}

// NewStateProvider constructs a provider over the given gate
func NewStateProvider(g *PermissionGate) *StateProvider {
	return &StateProvider{gate: g, seen: make(map[Principal]principalMeta)}
}

// Touch records that p interacted with the current page (lazy metadata)
func (sp *StateProvider) Touch(p Principal, tok PageToken) {
	if _, ok := sp.seen[p]; !ok {
		sp.seen[p] = principalMeta{firstPage: tok}
	}
}

// StateFor derives the action state for p. With enforcement off nothing is
// ever surfaced, no matter what the principal did
func (sp *StateProvider) StateFor(p Principal) ActionState {
	if !sp.gate.Enforced() {
		return ActionNoneNeeded
	}
	if _, ok := sp.seen[p]; !ok {
		return ActionNoneNeeded
	}
	if sp.gate.RequiresConsent(p) {
		return ActionPermissionRequired
	}
	return ActionPermitted
}

// Forget drops p's metadata (unload)
func (sp *StateProvider) Forget(p Principal) {
	delete(sp.seen, p)
}

// Reset drops all metadata (navigation)
func (sp *StateProvider) Reset() {
	clear(sp.seen)
}
