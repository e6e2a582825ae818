// Package api provides the HTTP API for the application
package api

import (
	"scriptgate/internal/platform/config"
	"scriptgate/internal/platform/logger"
	phttp "scriptgate/internal/platform/net/http"
	"scriptgate/internal/platform/store"

	"scriptgate/internal/modkit"
	"scriptgate/internal/modkit/httpkit"
	"scriptgate/internal/modkit/module"
	"scriptgate/internal/modkit/swaggerkit"

	apigate "scriptgate/internal/services/api/gatekeeper/module"
	metamod "scriptgate/internal/services/api/meta/module"

	// Worker module that owns the gate and audit ports
	gatekeeper "scriptgate/internal/services/gatekeeper/module"
)

// Options are the API options
type Options struct {
	Config         config.Conf
	Store          *store.Store
	Logger         *logger.Logger
	EnableSwagger  bool
	EnableProfiler bool
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) {
	// shared deps for modules
	deps := modkit.Deps{
		Cfg: opt.Config,
		PG:  opt.Store.PG,
		CH:  opt.Store.CH,
	}

	// Construct the worker gatekeeper module first and extract its ports
	worker := gatekeeper.New(deps)
	ports := module.MustPortsOf[gatekeeper.Ports](worker)

	// Inject those ports into the API gatekeeper module
	apiGate := apigate.New(
		deps,
		modkit.WithPorts(apigate.Ports{
			Gate:  ports.Gate,
			Audit: ports.Audit,
		}),
	)

	mods := []module.Module{
		metamod.New(deps),
		worker, // include worker so its ports are registered
		apiGate,
	}

	// versioned API with a common middleware stack
	httpkit.MountAPIV1(r, httpkit.CommonStack(), func(api httpkit.Router) {
		// Swagger + profiler
		swaggerkit.Mount(r, opt.EnableSwagger)
		phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

		for _, m := range mods {
			// register each module's ports under its own name (for cross-module lookups)
			module.Register(m.Name(), m.Ports())

			// mount module routes under its Prefix()
			m.MountRoutes(api)
		}
	})
}
