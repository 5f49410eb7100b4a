package configs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Env struct {
	Port                     string
	AllowedOrigins           string
	OriginURL                string
	SecretKey                string
	ServiceSigningKey        string
	UserServiceURL           string
	UserServiceTimeout       time.Duration
	UserServiceRetryAttempts uint
	RateLimitPerMinute       int
}

const (
	defaultPort                     = "8080"
	defaultUserServiceURL           = "http://localhost:8002/user"
	defaultUserServiceTimeout       = 10 * time.Second
	defaultUserServiceRetryAttempts = 3
	defaultRateLimitPerMinute       = 100
)

// LoadEnv reads the given dotenv files (".env" when none are given) on top of
// the process environment. A missing default file is not an error.
func LoadEnv(filenames ...string) (Env, error) {
	if err := godotenv.Load(filenames...); err != nil {
		if len(filenames) != 0 || !errors.Is(err, fs.ErrNotExist) {
			return Env{}, fmt.Errorf("failed to load env file: %w", err)
		}
	}

	env := Env{
		Port:              getEnvOrDefault("PORT", defaultPort),
		AllowedOrigins:    os.Getenv("ALLOWED_ORIGINS"),
		OriginURL:         os.Getenv("ORIGIN_URL"),
		SecretKey:         os.Getenv("JWT_SECRET_KEY"),
		ServiceSigningKey: os.Getenv("SERVICE_SIGNING_KEY"),
		UserServiceURL:    getEnvOrDefault("USER_SERVICE_URL", defaultUserServiceURL),
	}

	if env.SecretKey == "" {
		return Env{}, errors.New("JWT_SECRET_KEY is required")
	}

	if env.ServiceSigningKey == "" {
		env.ServiceSigningKey = env.SecretKey
	}

	timeout, err := time.ParseDuration(getEnvOrDefault("USER_SERVICE_TIMEOUT", defaultUserServiceTimeout.String()))
	if err != nil {
		return Env{}, fmt.Errorf("invalid USER_SERVICE_TIMEOUT: %w", err)
	}
	env.UserServiceTimeout = timeout

	attempts, err := strconv.ParseUint(getEnvOrDefault("USER_SERVICE_RETRY_ATTEMPTS", strconv.Itoa(defaultUserServiceRetryAttempts)), 10, 32)
	if err != nil || attempts == 0 {
		return Env{}, fmt.Errorf("invalid USER_SERVICE_RETRY_ATTEMPTS: %q", os.Getenv("USER_SERVICE_RETRY_ATTEMPTS"))
	}
	env.UserServiceRetryAttempts = uint(attempts)

	rateLimit, err := strconv.Atoi(getEnvOrDefault("RATE_LIMIT_PER_MINUTE", strconv.Itoa(defaultRateLimitPerMinute)))
	if err != nil || rateLimit <= 0 {
		return Env{}, fmt.Errorf("invalid RATE_LIMIT_PER_MINUTE: %q", os.Getenv("RATE_LIMIT_PER_MINUTE"))
	}
	env.RateLimitPerMinute = rateLimit

	return env, nil
}

func getEnvOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
