// Package domain defines the wire DTOs for the gatekeeper API
package domain

// CheckRequest is the request-consent protocol message
type CheckRequest struct {
	SessionID   string `json:"session_id"   validate:"required,uuid"`
	PrincipalID string `json:"principal_id" validate:"required,min=1,max=128"`
	PageToken   int64  `json:"page_token"   validate:"min=0"`
	RequestID   string `json:"request_id"   validate:"omitempty,max=128"`
}

// CheckResponse echoes the request id for reply correlation
type CheckResponse struct {
	RequestID       string `json:"request_id"       example:"req-42"`
	ConsentRequired bool   `json:"consent_required" example:"true"`
}

// SubmitRequest asks to inject a script on behalf of a principal
type SubmitRequest struct {
	SessionID   string `json:"session_id"   validate:"required,uuid"`
	PrincipalID string `json:"principal_id" validate:"required,min=1,max=128"`
	PageToken   int64  `json:"page_token"   validate:"min=0"`
	ScriptRef   string `json:"script_ref"   validate:"required,min=1,max=512"`
}

// SubmitResponse reports queue-or-dispatch
type SubmitResponse struct {
	Status  string `json:"status"  example:"queued"`
	Pending int    `json:"pending" example:"1"`
}

// GrantRequest is the inbound permission-granted event
type GrantRequest struct {
	SessionID   string `json:"session_id"   validate:"required,uuid"`
	PrincipalID string `json:"principal_id" validate:"required,min=1,max=128"`
}

// GrantResponse reports how many deferred injections were released
type GrantResponse struct {
	Released int `json:"released" example:"2"`
}

// NavigatedRequest is the inbound navigation event
type NavigatedRequest struct {
	SessionID string `json:"session_id" validate:"required,uuid"`
	PageToken int64  `json:"page_token" validate:"min=0"`
}

// UnloadedRequest is the inbound extension-unload event
type UnloadedRequest struct {
	SessionID   string `json:"session_id"   validate:"required,uuid"`
	PrincipalID string `json:"principal_id" validate:"required,min=1,max=128"`
}

// StateResponse carries a principal's derived action state
type StateResponse struct {
	State string `json:"state" example:"permission_required"`
}

// AuditRowDTO is one decision-log row
type AuditRowDTO struct {
	SessionID   string `json:"session_id"`
	PrincipalID string `json:"principal_id,omitempty"`
	Event       string `json:"event"`
	PageToken   int64  `json:"page_token"`
	Detail      string `json:"detail,omitempty"`
	CreatedAt   string `json:"created_at"`
}
