package module

import (
	"time"

	"scriptgate/internal/platform/config"
)

// Options holds configuration settings for the gatekeeper module
type Options struct {
	Enforced   bool
	MaxQueued  int
	SessionTTL time.Duration
	Audit      bool
}

// FromConfig reads configuration settings from the config.Conf
func FromConfig(cfg config.Conf) Options {
	gk := cfg.Prefix("CORE_GATE_")
	return Options{
		Enforced:   gk.MayBool("ENFORCED", true),
		MaxQueued:  gk.MayInt("MAX_QUEUED", 64),
		SessionTTL: gk.MayDuration("SESSION_TTL", 30*time.Minute),
		Audit:      gk.MayBool("AUDIT", true),
	}
}
