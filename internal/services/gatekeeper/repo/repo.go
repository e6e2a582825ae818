// Package repo provides the gatekeeper audit repository implementation
package repo

import (
	"context"

	"scriptgate/internal/modkit/repokit"
	"scriptgate/internal/services/gatekeeper/domain"
)

type (
	pg     struct{ q repokit.Queryer }
	binder struct{}
)

// NewPG constructs a new repo binder for Postgres
func NewPG() repokit.Binder[Storage] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) Storage { return &pg{q: q} }

// Storage defines the consent audit repository
type Storage interface {
	Append(ctx context.Context, row domain.AuditRow) error
	Recent(ctx context.Context, sessionID string, limit int) ([]domain.AuditRow, error)
}

// Append implements Storage
func (s *pg) Append(ctx context.Context, row domain.AuditRow) error {
	const q = `
		INSERT INTO consent_audit
			(session_id, principal_id, event, page_token, detail, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := s.q.Exec(ctx, q,
		row.SessionID, row.PrincipalID, string(row.Event),
		row.PageToken, row.Detail, row.CreatedAt,
	)
	return err
}

// Recent implements Storage; newest rows first
func (s *pg) Recent(ctx context.Context, sessionID string, limit int) ([]domain.AuditRow, error) {
	const q = `
		SELECT session_id::text, principal_id, event, page_token, detail, created_at
		FROM consent_audit
		WHERE session_id = $1::uuid
		ORDER BY created_at DESC, id DESC
		LIMIT $2`
	rows, err := s.q.Query(ctx, q, sessionID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.AuditRow, 0, limit)
	for rows.Next() {
		var r domain.AuditRow
		var ev string
		if err := rows.Scan(
			&r.SessionID, &r.PrincipalID, &ev, &r.PageToken, &r.Detail, &r.CreatedAt,
		); err != nil {
			return nil, err
		}
		r.Event = domain.AuditEvent(ev)
		out = append(out, r)
	}
	return out, rows.Err()
}
