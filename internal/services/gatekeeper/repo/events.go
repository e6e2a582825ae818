package repo

import (
	"context"

	"scriptgate/internal/platform/store"
	"scriptgate/internal/services/gatekeeper/domain"
)

// dispatchTable includes the column list so batch inserts stay stable if the
// CH table grows columns
const dispatchTable = "dispatch_events (session_id, principal_id, page_token, script_ref, deferred, at)"

// Events writes released injections to the ClickHouse dispatch stream
type Events struct {
	ch store.Clickhouse
}

// NewEvents constructs the CH-backed dispatch event writer; ch may be nil
// when ClickHouse is disabled, in which case writes are dropped
func NewEvents(ch store.Clickhouse) *Events { return &Events{ch: ch} }

// Dispatch implements domain.DispatchPort
func (e *Events) Dispatch(ctx context.Context, d domain.Dispatch) error {
	if e == nil || e.ch == nil {
		return nil
	}
	row := []any{
		d.SessionID, d.PrincipalID, uint64(d.PageToken),
		d.ScriptRef, boolU8(d.Deferred), d.At,
	}
	return e.ch.Insert(ctx, dispatchTable, [][]any{row})
}

func boolU8(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
