package services

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mdayat/billing-gateway/configs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthenticate(t *testing.T) {
	authService := NewAuthService(newTestConfigs())

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, AccessTokenClaims{
		UserType:         UserTypeCompany,
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1"},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":       "user-2",
		"user_type": UserTypeCompany,
	}).SignedString([]byte(testSecretKey))
	require.NoError(t, err)

	table := []struct {
		name     string
		token    string
		expected *CallerIdentity
	}{
		{
			name:     "valid company token",
			token:    mintToken(testSecretKey, "user-1", UserTypeCompany, testNow.Add(time.Hour)),
			expected: &CallerIdentity{Subject: "user-1", UserType: UserTypeCompany},
		},
		{
			name:     "valid token without expiry",
			token:    noExpiry,
			expected: &CallerIdentity{Subject: "user-2", UserType: UserTypeCompany},
		},
		{
			name:     "non company token still authenticates",
			token:    mintToken(testSecretKey, "user-3", "customer", testNow.Add(time.Hour)),
			expected: &CallerIdentity{Subject: "user-3", UserType: "customer"},
		},
		{name: "no token", token: ""},
		{name: "garbage", token: "invalid_token"},
		{name: "wrong secret", token: mintToken("other-secret", "user-1", UserTypeCompany, testNow.Add(time.Hour))},
		{name: "expired", token: mintToken(testSecretKey, "user-1", UserTypeCompany, testNow.Add(-time.Second))},
		{name: "alg none", token: noneToken},
	}

	for _, v := range table {
		t.Run(v.name, func(t *testing.T) {
			assert.Equal(t, v.expected, authService.Authenticate(v.token))
		})
	}
}

func TestCreateServiceTokenCarriesCallerIdentity(t *testing.T) {
	authService := NewAuthService(newTestConfigs())
	caller := CallerIdentity{Subject: "user-1", UserType: UserTypeCompany}

	token, err := authService.CreateServiceToken(caller)
	require.NoError(t, err)

	claims, err := authService.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, UserTypeCompany, claims.UserType)
	assert.Equal(t, "http://billing.test", claims.Issuer)
	assert.Equal(t, testNow.Add(serviceTokenTTL).Unix(), claims.ExpiresAt.Unix())
}

func TestCreateServiceTokenUsesDedicatedKey(t *testing.T) {
	c := newTestConfigs(func(env *configs.Env) {
		env.ServiceSigningKey = "service-only-key"
	})
	authService := NewAuthService(c)

	token, err := authService.CreateServiceToken(CallerIdentity{Subject: "user-1", UserType: UserTypeCompany})
	require.NoError(t, err)

	_, err = authService.ValidateAccessToken(token)
	assert.Error(t, err, "service token must not verify with the inbound secret")

	parsed, err := jwt.ParseWithClaims(token, &AccessTokenClaims{}, func(_ *jwt.Token) (interface{}, error) {
		return []byte("service-only-key"), nil
	}, jwt.WithTimeFunc(c.Now))
	require.NoError(t, err)
	assert.Equal(t, UserTypeCompany, parsed.Claims.(*AccessTokenClaims).UserType)
}
