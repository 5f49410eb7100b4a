package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/mdayat/billing-gateway/configs"
	"github.com/mdayat/billing-gateway/internal/services"
	"github.com/rs/zerolog/log"
)

type MiddlewareHandler interface {
	Logger(next http.Handler) http.Handler
	Metrics(next http.Handler) http.Handler
	Authenticate(next http.Handler) http.Handler
}

type middleware struct {
	configs     configs.Configs
	authService services.AuthServicer
}

func NewMiddlewareHandler(configs configs.Configs, authService services.AuthServicer) MiddlewareHandler {
	return &middleware{
		configs:     configs,
		authService: authService,
	}
}

func (m middleware) Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(res http.ResponseWriter, req *http.Request) {
		subLogger := log.
			With().
			Str("request_id", uuid.New().String()).
			Str("method", req.Method).
			Str("path", req.URL.Path).
			Str("client_ip", req.RemoteAddr).
			Logger()

		req = req.WithContext(subLogger.WithContext(req.Context()))
		next.ServeHTTP(res, req)
	})
}

func (m middleware) Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(res http.ResponseWriter, req *http.Request) {
		start := time.Now()
		ww := chiMiddleware.NewWrapResponseWriter(res, req.ProtoMajor)
		next.ServeHTTP(ww, req)

		route := "unmatched"
		if routeCtx := chi.RouteContext(req.Context()); routeCtx != nil {
			if pattern := routeCtx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		m.configs.Metrics.HTTPRequestsTotal.WithLabelValues(req.Method, route, strconv.Itoa(status)).Inc()
		m.configs.Metrics.HTTPRequestDuration.WithLabelValues(req.Method, route).Observe(time.Since(start).Seconds())
	})
}

type callerKey struct{}

// Authenticate resolves the caller from the request token and stores it on
// the context. It never rejects: a missing or invalid token leaves a nil
// caller, and the billing service decides what that means for the route.
func (m middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(res http.ResponseWriter, req *http.Request) {
		ctx := req.Context()
		logger := log.Ctx(ctx).With().Logger()

		caller := m.authService.Authenticate(tokenFromRequest(req))
		if caller == nil {
			logger.Debug().Msg("request has no verified caller")
		} else {
			logger = logger.With().Str("caller_sub", caller.Subject).Str("caller_type", caller.UserType).Logger()
			ctx = logger.WithContext(ctx)
		}

		req = req.WithContext(context.WithValue(ctx, callerKey{}, caller))
		next.ServeHTTP(res, req)
	})
}

// tokenFromRequest reads "Authorization: Bearer <token>" and falls back to the
// legacy "token" header.
func tokenFromRequest(req *http.Request) string {
	if accessToken, ok := strings.CutPrefix(req.Header.Get("Authorization"), "Bearer "); ok {
		return strings.TrimSpace(accessToken)
	}

	return strings.TrimSpace(req.Header.Get("token"))
}

func callerFromContext(ctx context.Context) *services.CallerIdentity {
	caller, _ := ctx.Value(callerKey{}).(*services.CallerIdentity)
	return caller
}
