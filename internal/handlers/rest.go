package handlers

import (
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/mdayat/billing-gateway/configs"
	"github.com/mdayat/billing-gateway/internal/services"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRestHandler(configs configs.Configs, customMiddleware MiddlewareHandler, billingService services.BillingServicer) *chi.Mux {
	router := chi.NewRouter()

	router.Use(chiMiddleware.CleanPath)
	router.Use(chiMiddleware.RealIP)
	router.Use(customMiddleware.Logger)
	router.Use(customMiddleware.Metrics)
	router.Use(chiMiddleware.Recoverer)
	router.Use(httprate.LimitByIP(configs.Env.RateLimitPerMinute, 1*time.Minute))

	options := cors.Options{
		AllowedOrigins:   strings.Split(configs.Env.AllowedOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "HEAD", "OPTIONS"},
		AllowedHeaders:   []string{"User-Agent", "Content-Type", "Accept", "Accept-Encoding", "Accept-Language", "Cache-Control", "Connection", "Host", "Origin", "Referer", "Authorization", "Token", "Idempotency-Key"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	router.Use(cors.Handler(options))
	router.Use(chiMiddleware.Heartbeat("/ping"))

	router.Method("GET", "/metrics", promhttp.HandlerFor(configs.Registry, promhttp.HandlerOpts{}))

	router.Route("/billing-manager", func(r chi.Router) {
		r.Use(customMiddleware.Authenticate)

		planHandler := NewPlanHandler(configs, billingService)
		r.Get("/plans", planHandler.GetPlans)
		r.Get("/plans/{planId}", planHandler.GetPlan)

		subscriptionHandler := NewSubscriptionHandler(configs, billingService)
		r.Post("/assign-plan", subscriptionHandler.AssignPlan)
	})

	return router
}
