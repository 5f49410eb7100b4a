package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mdayat/billing-gateway/configs"
)

const (
	UserTypeCompany = "company"

	serviceTokenTTL = 5 * time.Minute
)

type AuthServicer interface {
	Authenticate(tokenString string) *CallerIdentity
	ValidateAccessToken(tokenString string) (*AccessTokenClaims, error)
	CreateAccessToken(claims AccessTokenClaims) (string, error)
	CreateServiceToken(caller CallerIdentity) (string, error)
}

type auth struct {
	configs configs.Configs
}

func NewAuthService(configs configs.Configs) AuthServicer {
	return &auth{
		configs: configs,
	}
}

// CallerIdentity is who sent the request, as asserted by a verified token.
type CallerIdentity struct {
	Subject  string
	UserType string
}

type AccessTokenClaims struct {
	UserType string `json:"user_type"`
	jwt.RegisteredClaims
}

// Authenticate returns nil for a missing or unverifiable token. Callers treat
// both the same way: the request is unauthenticated.
func (a auth) Authenticate(tokenString string) *CallerIdentity {
	if tokenString == "" {
		return nil
	}

	claims, err := a.ValidateAccessToken(tokenString)
	if err != nil {
		return nil
	}

	return &CallerIdentity{
		Subject:  claims.Subject,
		UserType: claims.UserType,
	}
}

func (a auth) ValidateAccessToken(tokenString string) (*AccessTokenClaims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&AccessTokenClaims{},
		func(_ *jwt.Token) (interface{}, error) {
			return []byte(a.configs.Env.SecretKey), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithTimeFunc(a.configs.Now),
	)

	if err != nil {
		return nil, fmt.Errorf("invalid access token: %w", err)
	}

	if !token.Valid {
		return nil, errors.New("invalid access token")
	}

	claims, ok := token.Claims.(*AccessTokenClaims)
	if !ok {
		return nil, errors.New("invalid access token claims")
	}

	return claims, nil
}

func (a auth) CreateAccessToken(claims AccessTokenClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(a.configs.Env.SecretKey))
}

// CreateServiceToken re-asserts the caller's identity to the user management
// service. It is signed with ServiceSigningKey, which falls back to the inbound
// secret when no dedicated key is configured.
func (a auth) CreateServiceToken(caller CallerIdentity) (string, error) {
	now := a.configs.Now()
	claims := AccessTokenClaims{
		UserType: caller.UserType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   caller.Subject,
			Issuer:    a.configs.Env.OriginURL,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(serviceTokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(a.configs.Env.ServiceSigningKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign service token: %w", err)
	}

	return signed, nil
}
