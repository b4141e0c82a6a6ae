package handlers

import (
	"github.com/cloudsound/api-gateway/internal/aggregator"
	"github.com/cloudsound/api-gateway/internal/config"
	"github.com/cloudsound/api-gateway/internal/health"
	"github.com/cloudsound/api-gateway/internal/proxy"
)

// Deps bundles everything the in-process handlers need. RegisterRoutes
// builds one and shares it across every handler closure.
type Deps struct {
	Config     config.Config
	Registry   *proxy.Registry
	Aggregator *aggregator.Client
	Prober     *health.Prober
}
