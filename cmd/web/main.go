package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/mdayat/billing-gateway/configs"
	"github.com/mdayat/billing-gateway/internal/handlers"
	"github.com/mdayat/billing-gateway/internal/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.CallerMarshalFunc = func(_ uintptr, file string, line int) string {
		return filepath.Base(file) + ":" + strconv.Itoa(line)
	}
	logger := log.With().Caller().Logger()

	env, err := configs.LoadEnv()
	if err != nil {
		logger.Fatal().Err(err).Send()
	}

	configs := configs.NewConfigs(env)

	authService := services.NewAuthService(configs)
	userManagementService := services.NewUserManagementService(configs)
	billingService := services.NewBillingService(configs, authService, userManagementService)

	customMiddleware := handlers.NewMiddlewareHandler(configs, authService)
	router := handlers.NewRestHandler(configs, customMiddleware, billingService)

	server := &http.Server{
		Addr:              ":" + env.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info().Str("addr", server.Addr).Str("user_service_url", env.UserServiceURL).Msg("billing gateway listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Send()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shut down gracefully")
		return
	}

	logger.Info().Msg("billing gateway stopped")
}
