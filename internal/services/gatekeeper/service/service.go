// Package service hosts per-session gate controllers behind the GatePort
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"scriptgate/internal/core/gate"
	"scriptgate/internal/modkit/repokit"
	"scriptgate/internal/modkit/scope"
	perr "scriptgate/internal/platform/errors"
	"scriptgate/internal/platform/logger"
	lumnet "scriptgate/internal/platform/net"
	"scriptgate/internal/services/gatekeeper/domain"
	"scriptgate/internal/services/gatekeeper/repo"
)

// Config for the gatekeeper service
type Config struct {
	// Enforced toggles consent enforcement for every session; false makes
	// the whole subsystem a permissive passthrough
	Enforced bool
	// MaxQueued bounds each principal's deferred queue (0 = unbounded)
	MaxQueued int
	// SessionTTL expires idle page sessions
	SessionTTL time.Duration
	// AuditEnabled toggles the Postgres decision log
	AuditEnabled bool
}

// Service implements domain.GatePort and domain.AuditPort
type Service struct {
	tx    repokit.TxRunner
	audit repokit.Binder[repo.Storage]
	disp  domain.DispatchPort
	cfg   Config
	log   *logger.Logger

	sessions *sessionTable
}

// New constructs the gatekeeper service. tx may be nil when auditing is
// disabled; disp must not be nil
func New(tx repokit.TxRunner, audit repokit.Binder[repo.Storage], disp domain.DispatchPort, cfg Config) *Service {
	if disp == nil {
		panic("gatekeeper: nil DispatchPort")
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 30 * time.Minute
	}
	s := &Service{
		tx:    tx,
		audit: audit,
		disp:  disp,
		cfg:   cfg,
		log:   logger.Named("gatekeeper"),
	}
	s.sessions = newSessionTable(cfg, s.log)
	return s
}

// Check implements domain.GatePort: the request-consent protocol message.
// The request id is echoed back (generated when the transport omitted one)
// so asynchronous replies can be correlated
func (s *Service) Check(ctx context.Context, in domain.CheckInput) (domain.CheckResult, error) {
	sess, err := s.sessions.acquire(in.SessionID)
	if err != nil {
		return domain.CheckResult{}, err
	}
	defer sess.release()

	reqID := in.RequestID
	if reqID == "" {
		reqID = uuid.NewString()
	}

	required := sess.ctl.CheckConsent(gate.Principal(in.PrincipalID), gate.PageToken(in.PageToken))
	s.record(ctx, domain.AuditRow{
		SessionID:   in.SessionID,
		PrincipalID: in.PrincipalID,
		Event:       domain.EventCheck,
		PageToken:   in.PageToken,
		Detail:      fmt.Sprintf("request_id=%s required=%t", reqID, required),
	})
	return domain.CheckResult{RequestID: reqID, ConsentRequired: required}, nil
}

// Submit implements domain.GatePort. With consent already present the
// injection goes straight to the dispatcher; otherwise a deferred action is
// queued that dispatches on a later grant
func (s *Service) Submit(ctx context.Context, in domain.SubmitInput) (domain.SubmitResult, error) {
	sess, err := s.sessions.acquire(in.SessionID)
	if err != nil {
		return domain.SubmitResult{}, err
	}
	defer sess.release()

	p := gate.Principal(in.PrincipalID)
	tok := gate.PageToken(in.PageToken)
	d := domain.Dispatch{
		SessionID:   in.SessionID,
		PrincipalID: in.PrincipalID,
		PageToken:   in.PageToken,
		ScriptRef:   in.ScriptRef,
	}

	if rid := lumnet.RequestID(ctx); rid != "" {
		ctx = scope.With(ctx, map[string]string{"request_id": rid})
	}

	if !sess.ctl.CheckConsent(p, tok) {
		d.At = time.Now().UTC()
		s.dispatch(ctx, d)
		return domain.SubmitResult{Status: domain.SubmitDispatched}, nil
	}

	// the release happens under a later grant, after the submit request has
	// ended; detach from its context but keep the correlation values
	bg := scope.With(context.Background(), scope.From(ctx).Values)
	err = sess.ctl.SubmitDeferred(p, func() {
		dd := d
		dd.Deferred = true
		dd.At = time.Now().UTC()
		s.dispatch(bg, dd)
	}, tok)
	if err != nil {
		return domain.SubmitResult{}, perr.Wrapf(err, perr.ErrorCodeTooManyRequests,
			"pending queue full for principal %s", in.PrincipalID)
	}

	s.record(ctx, domain.AuditRow{
		SessionID:   in.SessionID,
		PrincipalID: in.PrincipalID,
		Event:       domain.EventQueued,
		PageToken:   in.PageToken,
		Detail:      "script_ref=" + in.ScriptRef,
	})
	return domain.SubmitResult{
		Status:  domain.SubmitQueued,
		Pending: sess.ctl.Pending(p),
	}, nil
}

// Grant implements domain.GatePort: membership first, then release of every
// deferred injection the principal had queued, in submission order
func (s *Service) Grant(ctx context.Context, in domain.GrantInput) (domain.GrantResult, error) {
	sess, err := s.sessions.acquire(in.SessionID)
	if err != nil {
		return domain.GrantResult{}, err
	}
	defer sess.release()

	released := sess.ctl.OnPermissionGranted(gate.Principal(in.PrincipalID))
	s.record(ctx, domain.AuditRow{
		SessionID:   in.SessionID,
		PrincipalID: in.PrincipalID,
		Event:       domain.EventGrant,
		PageToken:   int64(sess.ctl.PageToken()),
		Detail:      fmt.Sprintf("released=%d", released),
	})
	return domain.GrantResult{Released: released}, nil
}

// Navigate implements domain.GatePort; all per-page state is dropped so no
// action captured against the old page can ever run
func (s *Service) Navigate(ctx context.Context, in domain.NavigateInput) error {
	sess, err := s.sessions.acquire(in.SessionID)
	if err != nil {
		return err
	}
	defer sess.release()

	sess.ctl.OnNavigated(gate.PageToken(in.PageToken))
	s.record(ctx, domain.AuditRow{
		SessionID: in.SessionID,
		Event:     domain.EventNavigated,
		PageToken: in.PageToken,
	})
	return nil
}

// Unload implements domain.GatePort; purges one principal entirely
func (s *Service) Unload(ctx context.Context, in domain.UnloadInput) error {
	sess, err := s.sessions.acquire(in.SessionID)
	if err != nil {
		return err
	}
	defer sess.release()

	sess.ctl.OnUnloaded(gate.Principal(in.PrincipalID))
	s.record(ctx, domain.AuditRow{
		SessionID:   in.SessionID,
		PrincipalID: in.PrincipalID,
		Event:       domain.EventUnloaded,
		PageToken:   int64(sess.ctl.PageToken()),
	})
	return nil
}

// StateFor implements domain.GatePort for the presentation collaborator
func (s *Service) StateFor(_ context.Context, q domain.StateQuery) (domain.StateResult, error) {
	sess, err := s.sessions.acquire(q.SessionID)
	if err != nil {
		return domain.StateResult{}, err
	}
	defer sess.release()

	return domain.StateResult{
		State: sess.ctl.StateFor(gate.Principal(q.PrincipalID)).String(),
	}, nil
}

// Recent implements domain.AuditPort
func (s *Service) Recent(ctx context.Context, q domain.AuditQuery) ([]domain.AuditRow, error) {
	if s.tx == nil || !s.cfg.AuditEnabled {
		return nil, perr.Unavailablef("consent audit is disabled")
	}
	if _, err := uuid.Parse(q.SessionID); err != nil {
		return nil, perr.InvalidArgf("session_id must be a uuid")
	}
	limit := q.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return s.audit.Bind(s.tx).Recent(ctx, q.SessionID, limit)
}

// dispatch hands a released injection to the collaborator. Failures are
// reported and contained; they never corrupt gate state or abort a release
func (s *Service) dispatch(ctx context.Context, d domain.Dispatch) {
	if err := s.disp.Dispatch(ctx, d); err != nil {
		ev := s.log.Warn().Err(err).
			Str("session_id", d.SessionID).
			Str("principal_id", d.PrincipalID).
			Str("script_ref", d.ScriptRef)
		if rid, ok := scope.Get(ctx, "request_id"); ok {
			ev = ev.Str("request_id", rid)
		}
		ev.Msg("dispatch failed")
	}
}

// record appends to the decision log, best effort
func (s *Service) record(ctx context.Context, row domain.AuditRow) {
	if s.tx == nil || !s.cfg.AuditEnabled {
		return
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	if err := s.audit.Bind(s.tx).Append(ctx, row); err != nil {
		logger.C(ctx).Warn().Err(err).
			Str("session_id", row.SessionID).
			Str("event", string(row.Event)).
			Msg("consent audit append failed")
	}
}
