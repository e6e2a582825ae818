// Package module wires the gatekeeper API using modkit
package module

import (
	"net/http"

	modkit "scriptgate/internal/modkit"
	"scriptgate/internal/modkit/httpkit"

	ghttp "scriptgate/internal/services/api/gatekeeper/http"
	gdom "scriptgate/internal/services/gatekeeper/domain"
)

// Ports declares the required injected worker port(s) for this API module
type Ports struct {
	Gate  gdom.GatePort
	Audit gdom.AuditPort
}

// Module implements the gatekeeper API module
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws       []func(http.Handler) http.Handler
	ports     any
	swaggerOn bool

	subrouter func(httpkit.Router) httpkit.Router
	register  func(httpkit.Router)
}

// New constructs the gatekeeper API module; the worker module's ports are
// injected via modkit.WithPorts
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("gate"),
		modkit.WithPrefix("/gate"),
	}, opts...)...)

	var injected Ports
	if p, ok := b.Ports.(Ports); ok {
		injected = p
	}
	if injected.Gate == nil {
		panic("gatekeeper API module requires Gate port (from services/gatekeeper)")
	}

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		swaggerOn: b.SwaggerOn,
		subrouter: b.Subrouter,
		ports:     injected,
	}

	external := b.Register
	m.register = func(r httpkit.Router) {
		ghttp.Register(r, ghttp.Ports{Gate: injected.Gate, Audit: injected.Audit})
		if external != nil {
			external(r)
		}
	}
	return m
}

// MountRoutes mounts the module routes on the given router
func (m *Module) MountRoutes(r httpkit.Router) {
	r.Route(m.prefix, func(rr httpkit.Router) {
		for _, mw := range m.mws {
			rr.Use(mw)
		}
		if m.subrouter != nil {
			rr = m.subrouter(rr)
		}
		if m.register != nil {
			m.register(rr)
		}
	})
}

// Name returns the module name
func (m *Module) Name() string { return m.name }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return m.prefix }

// Ports returns the injected worker ports for registry lookups
func (m *Module) Ports() any { return m.ports }
