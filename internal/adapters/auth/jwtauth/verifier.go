package jwtauth

import (
	"context"
	"errors"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"petchat-ai/internal/ports/auth"
)

const defaultLeeway = 30 * time.Second

// Verifier valida tokens HS256 emitidos por el servicio de identidad.
// Implementa auth.AuthVerifier. MVP: secreto compartido; si algún día hay
// varios emisores habrá que pasar a JWKS.
type Verifier struct {
	secret []byte
	issuer string
	leeway time.Duration
}

type Options struct {
	Secret string
	Issuer string        // opcional; vacío => no se valida iss
	Leeway time.Duration // opcional
}

func New(opts Options) (*Verifier, error) {
	secret := strings.TrimSpace(opts.Secret)
	if secret == "" {
		return nil, errors.New("jwt verifier requires a secret")
	}
	leeway := opts.Leeway
	if leeway <= 0 {
		leeway = defaultLeeway
	}
	return &Verifier{
		secret: []byte(secret),
		issuer: strings.TrimSpace(opts.Issuer),
		leeway: leeway,
	}, nil
}

type tokenClaims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

func (v *Verifier) Verify(_ context.Context, token string) (auth.Claims, error) {
	claims := tokenClaims{}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuedAt(),
		jwt.WithLeeway(v.leeway),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	parsed, err := jwt.ParseWithClaims(token, &claims, func(_ *jwt.Token) (any, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		return auth.Claims{}, err
	}
	if !parsed.Valid {
		return auth.Claims{}, errors.New("invalid token")
	}

	sub := strings.TrimSpace(claims.Subject)
	if sub == "" {
		return auth.Claims{}, errors.New("token subject missing")
	}

	return auth.Claims{
		UserID: sub,
		Email:  strings.TrimSpace(claims.Email),
	}, nil
}
