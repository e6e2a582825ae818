package domain

import "context"

// GatePort is the consent gate surface exposed to transports
type GatePort interface {
	Check(ctx context.Context, in CheckInput) (CheckResult, error)
	Submit(ctx context.Context, in SubmitInput) (SubmitResult, error)
	Grant(ctx context.Context, in GrantInput) (GrantResult, error)
	Navigate(ctx context.Context, in NavigateInput) error
	Unload(ctx context.Context, in UnloadInput) error
	StateFor(ctx context.Context, q StateQuery) (StateResult, error)
}

// AuditPort reads back recent gate activity
type AuditPort interface {
	Recent(ctx context.Context, q AuditQuery) ([]AuditRow, error)
}

// DispatchPort receives released injections. Implementations must tolerate
// failure without affecting gate state; errors are logged, never propagated
// back into the release loop
type DispatchPort interface {
	Dispatch(ctx context.Context, d Dispatch) error
}
