// Package module wires the gatekeeper service into the application
package module

import (
	"scriptgate/internal/modkit"
	"scriptgate/internal/modkit/httpkit"
	"scriptgate/internal/modkit/repokit"
	"scriptgate/internal/services/gatekeeper/domain"
	"scriptgate/internal/services/gatekeeper/repo"
	"scriptgate/internal/services/gatekeeper/service"
)

// Ports exposed by the gatekeeper module for cross-module wiring
type Ports struct {
	Gate  domain.GatePort
	Audit domain.AuditPort
}

// Module implements the gatekeeper service module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs the gatekeeper module. Injected Ports may override the
// dispatcher-facing wiring in tests via modkit.WithPorts
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(opts...)
	cfg := FromConfig(deps.Cfg)

	// default dispatcher: the ClickHouse dispatch stream (drops when CH off)
	var disp domain.DispatchPort = repo.NewEvents(deps.CH)
	if p, ok := b.Ports.(Ports); ok && p.Gate != nil {
		// fully injected service, nothing to construct
		return &Module{deps: deps, ports: p}
	}

	var tx repokit.TxRunner
	if cfg.Audit {
		tx = deps.PG
	}
	svc := service.New(tx, repo.NewPG(), disp, service.Config{
		Enforced:     cfg.Enforced,
		MaxQueued:    cfg.MaxQueued,
		SessionTTL:   cfg.SessionTTL,
		AuditEnabled: cfg.Audit,
	})

	m := &Module{deps: deps}
	m.ports = Ports{Gate: svc, Audit: svc}
	return m
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return "gatekeeper" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// Prefix satisfies modkit.Module
func (m *Module) Prefix() string { return "" }

// MountRoutes satisfies modkit.Module; the worker module has no routes of
// its own, the API module fronts it
func (m *Module) MountRoutes(r httpkit.Router) {}
