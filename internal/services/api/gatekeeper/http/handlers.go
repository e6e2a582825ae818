// Package http provides http transport for the gatekeeper API
package http

import (
	stdhttp "net/http"
	"strconv"
	"time"

	"scriptgate/internal/modkit/httpkit"
	perr "scriptgate/internal/platform/errors"
	"scriptgate/internal/services/api/gatekeeper/domain"
	gdom "scriptgate/internal/services/gatekeeper/domain"
)

// Ports are the worker-module ports the handlers call through
type Ports struct {
	Gate  gdom.GatePort
	Audit gdom.AuditPort
}

// Register mounts the router
func Register(r httpkit.Router, p Ports) {
	h := &handlers{p: p}
	httpkit.PostJSON[domain.CheckRequest](r, "/consent/check", h.check)
	httpkit.PostJSON[domain.SubmitRequest](r, "/injections", h.submit)
	httpkit.PostJSON[domain.GrantRequest](r, "/events/grant", h.grant)
	httpkit.PostJSON[domain.NavigatedRequest](r, "/events/navigated", h.navigated)
	httpkit.PostJSON[domain.UnloadedRequest](r, "/events/unloaded", h.unloaded)
	httpkit.Get(r, "/state", h.state)
	httpkit.Get(r, "/audit", h.audit)
}

type handlers struct{ p Ports }

// swagger:route POST /gate/consent/check Gate gateCheck
// @Summary Ask whether a principal needs consent before injecting
// @Tags gate
// @Accept json
// @Produce json
// @Param payload body domain.CheckRequest true "Check"
// @Success 200 {object} domain.CheckResponse "ok"
// @Router /gate/consent/check [post]
func (h *handlers) check(r *stdhttp.Request, in domain.CheckRequest) (any, error) {
	out, err := h.p.Gate.Check(r.Context(), gdom.CheckInput{
		SessionID:   in.SessionID,
		PrincipalID: in.PrincipalID,
		PageToken:   in.PageToken,
		RequestID:   in.RequestID,
	})
	if err != nil {
		return nil, err
	}
	return domain.CheckResponse{
		RequestID:       out.RequestID,
		ConsentRequired: out.ConsentRequired,
	}, nil
}

// swagger:route POST /gate/injections Gate gateSubmit
// @Summary Submit a script injection; queued until consent, else dispatched
// @Tags gate
// @Accept json
// @Produce json
// @Param payload body domain.SubmitRequest true "Submit"
// @Success 200 {object} domain.SubmitResponse "ok"
// @Router /gate/injections [post]
func (h *handlers) submit(r *stdhttp.Request, in domain.SubmitRequest) (any, error) {
	out, err := h.p.Gate.Submit(r.Context(), gdom.SubmitInput{
		SessionID:   in.SessionID,
		PrincipalID: in.PrincipalID,
		PageToken:   in.PageToken,
		ScriptRef:   in.ScriptRef,
	})
	if err != nil {
		return nil, err
	}
	return domain.SubmitResponse{Status: string(out.Status), Pending: out.Pending}, nil
}

// swagger:route POST /gate/events/grant Gate gateGrant
// @Summary Grant consent to a principal and release its deferred injections
// @Tags gate
// @Accept json
// @Produce json
// @Param payload body domain.GrantRequest true "Grant"
// @Success 200 {object} domain.GrantResponse "ok"
// @Router /gate/events/grant [post]
func (h *handlers) grant(r *stdhttp.Request, in domain.GrantRequest) (any, error) {
	out, err := h.p.Gate.Grant(r.Context(), gdom.GrantInput{
		SessionID:   in.SessionID,
		PrincipalID: in.PrincipalID,
	})
	if err != nil {
		return nil, err
	}
	return domain.GrantResponse{Released: out.Released}, nil
}

// swagger:route POST /gate/events/navigated Gate gateNavigated
// @Summary Reset a session for a new page generation
// @Tags gate
// @Accept json
// @Produce json
// @Param payload body domain.NavigatedRequest true "Navigated"
// @Success 200 {object} httpkit.Envelope "ok"
// @Router /gate/events/navigated [post]
func (h *handlers) navigated(r *stdhttp.Request, in domain.NavigatedRequest) (any, error) {
	err := h.p.Gate.Navigate(r.Context(), gdom.NavigateInput{
		SessionID: in.SessionID,
		PageToken: in.PageToken,
	})
	return map[string]any{"ok": err == nil}, err
}

// swagger:route POST /gate/events/unloaded Gate gateUnloaded
// @Summary Purge a principal from a session (extension unload)
// @Tags gate
// @Accept json
// @Produce json
// @Param payload body domain.UnloadedRequest true "Unloaded"
// @Success 200 {object} httpkit.Envelope "ok"
// @Router /gate/events/unloaded [post]
func (h *handlers) unloaded(r *stdhttp.Request, in domain.UnloadedRequest) (any, error) {
	err := h.p.Gate.Unload(r.Context(), gdom.UnloadInput{
		SessionID:   in.SessionID,
		PrincipalID: in.PrincipalID,
	})
	return map[string]any{"ok": err == nil}, err
}

// swagger:route GET /gate/state Gate gateState
// @Summary Derived action state for one principal (badge collaborator)
// @Tags gate
// @Produce json
// @Param session_id query string true "Session id"
// @Param principal_id query string true "Principal id"
// @Success 200 {object} domain.StateResponse "ok"
// @Router /gate/state [get]
func (h *handlers) state(r *stdhttp.Request) (any, error) {
	q := r.URL.Query()
	sid, pid := q.Get("session_id"), q.Get("principal_id")
	if sid == "" || pid == "" {
		return nil, perr.InvalidArgf("session_id and principal_id are required")
	}
	out, err := h.p.Gate.StateFor(r.Context(), gdom.StateQuery{SessionID: sid, PrincipalID: pid})
	if err != nil {
		return nil, err
	}
	return domain.StateResponse{State: out.State}, nil
}

// swagger:route GET /gate/audit Gate gateAudit
// @Summary Recent consent decisions for one session
// @Tags gate
// @Produce json
// @Param session_id query string true "Session id"
// @Param limit query int false "Row cap"
// @Success 200 {array} domain.AuditRowDTO "ok"
// @Router /gate/audit [get]
func (h *handlers) audit(r *stdhttp.Request) (any, error) {
	q := r.URL.Query()
	sid := q.Get("session_id")
	if sid == "" {
		return nil, perr.InvalidArgf("session_id is required")
	}
	limit, _ := strconv.Atoi(q.Get("limit"))

	rows, err := h.p.Audit.Recent(r.Context(), gdom.AuditQuery{SessionID: sid, Limit: limit})
	if err != nil {
		return nil, err
	}
	out := make([]domain.AuditRowDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.AuditRowDTO{
			SessionID:   row.SessionID,
			PrincipalID: row.PrincipalID,
			Event:       string(row.Event),
			PageToken:   row.PageToken,
			Detail:      row.Detail,
			CreatedAt:   row.CreatedAt.UTC().Format(time.RFC3339Nano),
		})
	}
	return out, nil
}
