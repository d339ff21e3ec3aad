package jwtauth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"appointment-lifecycle/internal/ports/auth"
)

var (
	ErrTokenEmpty    = errors.New("token is empty")
	ErrNotConfigured = errors.New("jwt verifier not configured")
)

// Verifier implementa auth.AuthVerifier validando JWTs HS256 firmados por
// el emisor de identidad de la plataforma. Claims custom esperados:
// organization_id y role.
type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

type tokenClaims struct {
	jwt.RegisteredClaims

	Email          string `json:"email,omitempty"`
	OrganizationID string `json:"organization_id,omitempty"`
	Role           string `json:"role,omitempty"`
}

func (v *Verifier) Verify(ctx context.Context, token string) (auth.Claims, error) {
	if v == nil || len(v.secret) == 0 {
		return auth.Claims{}, ErrNotConfigured
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrTokenEmpty
	}

	parser := jwt.NewParser(jwt.WithValidMethods([]string{"HS256"}))

	claims := &tokenClaims{}
	tok, err := parser.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return v.secret, nil
	})
	if err != nil {
		return auth.Claims{}, fmt.Errorf("jwt verify failed: %w", err)
	}
	if !tok.Valid {
		return auth.Claims{}, errors.New("invalid token")
	}

	userID := strings.TrimSpace(claims.Subject)
	if userID == "" {
		return auth.Claims{}, errors.New("token missing subject")
	}

	return auth.Claims{
		UserID:         userID,
		Email:          strings.TrimSpace(claims.Email),
		OrganizationID: strings.TrimSpace(claims.OrganizationID),
		Role:           strings.ToLower(strings.TrimSpace(claims.Role)),
	}, nil
}
