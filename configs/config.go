package configs

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/mdayat/billing-gateway/internal/catalog"
	"github.com/mdayat/billing-gateway/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

type Configs struct {
	Env        Env
	Validate   *validator.Validate
	Catalog    catalog.Catalog
	HTTPClient *http.Client
	Registry   *prometheus.Registry
	Metrics    *metrics.Metrics
	Now        func() time.Time
}

func NewConfigs(env Env) Configs {
	registry := prometheus.NewRegistry()

	return Configs{
		Env:        env,
		Validate:   NewValidate(),
		Catalog:    catalog.New(catalog.DefaultPlans()),
		HTTPClient: &http.Client{Timeout: env.UserServiceTimeout},
		Registry:   registry,
		Metrics:    metrics.New(registry),
		Now:        time.Now,
	}
}

func NewValidate() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}
