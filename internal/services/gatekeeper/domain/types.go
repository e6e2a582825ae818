// Package domain defines the types and interfaces for the gatekeeper service
package domain

import "time"

// SubmitStatus says what happened to an injection request
type SubmitStatus string

const (
	// SubmitDispatched means consent was already present and the injection
	// went straight to the dispatcher
	SubmitDispatched SubmitStatus = "dispatched"
	// SubmitQueued means the injection was deferred pending a grant
	SubmitQueued SubmitStatus = "queued"
)

// AuditEvent enumerates the consent_audit event column
type AuditEvent string

const (
	// EventCheck records a consent-required query
	EventCheck AuditEvent = "check"
	// EventQueued records a deferred submit
	EventQueued AuditEvent = "queued"
	// EventGrant records an inbound permission grant
	EventGrant AuditEvent = "grant"
	// EventNavigated records a page navigation reset
	EventNavigated AuditEvent = "navigated"
	// EventUnloaded records an extension unload purge
	EventUnloaded AuditEvent = "unloaded"
)

// CheckInput is the inbound request-consent protocol message
type CheckInput struct {
	SessionID   string
	PrincipalID string
	PageToken   int64
	RequestID   string
}

// CheckResult echoes the request id so the transport can correlate replies
type CheckResult struct {
	RequestID       string
	ConsentRequired bool
}

// SubmitInput is an injection request
type SubmitInput struct {
	SessionID   string
	PrincipalID string
	PageToken   int64
	ScriptRef   string
}

// SubmitResult reports queue-or-dispatch plus the pending depth afterwards
type SubmitResult struct {
	Status  SubmitStatus
	Pending int
}

// GrantInput is an inbound permission grant event
type GrantInput struct {
	SessionID   string
	PrincipalID string
}

// GrantResult reports how many deferred injections the grant released
type GrantResult struct {
	Released int
}

// NavigateInput is an inbound navigation event
type NavigateInput struct {
	SessionID string
	PageToken int64
}

// UnloadInput is an inbound extension-unload event
type UnloadInput struct {
	SessionID   string
	PrincipalID string
}

// StateQuery asks for a principal's presentation state
type StateQuery struct {
	SessionID   string
	PrincipalID string
}

// StateResult carries the derived action state as its wire string
type StateResult struct {
	State string
}

// AuditQuery selects recent audit rows for one session
type AuditQuery struct {
	SessionID string
	Limit     int
}

// AuditRow is one consent_audit row
type AuditRow struct {
	SessionID   string
	PrincipalID string
	Event       AuditEvent
	PageToken   int64
	Detail      string
	CreatedAt   time.Time
}

// Dispatch is one released (or immediately permitted) injection handed to
// the dispatcher collaborator
type Dispatch struct {
	SessionID   string
	PrincipalID string
	PageToken   int64
	ScriptRef   string
	Deferred    bool
	At          time.Time
}
