package services

import (
	"context"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mdayat/billing-gateway/configs"
)

const testSecretKey = "test-secret-key"

var testNow = time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)

func newTestConfigs(mutators ...func(*configs.Env)) configs.Configs {
	env := configs.Env{
		SecretKey:                testSecretKey,
		ServiceSigningKey:        testSecretKey,
		OriginURL:                "http://billing.test",
		UserServiceURL:           "http://127.0.0.1:1/user",
		UserServiceTimeout:       2 * time.Second,
		UserServiceRetryAttempts: 3,
		RateLimitPerMinute:       1000,
	}

	for _, mutate := range mutators {
		mutate(&env)
	}

	c := configs.NewConfigs(env)
	c.Now = func() time.Time { return testNow }
	return c
}

func mintToken(secret, subject, userType string, expiresAt time.Time) string {
	claims := AccessTokenClaims{
		UserType: userType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(testNow.Add(-time.Minute)),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		panic(err)
	}
	return token
}

type fakeUserManagement struct {
	mu    sync.Mutex
	calls []AssignCompanyPlanParams
	err   error
}

func (f *fakeUserManagement) AssignCompanyPlan(_ context.Context, arg AssignCompanyPlanParams) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, arg)
	return f.err
}

func (f *fakeUserManagement) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.calls)
}
