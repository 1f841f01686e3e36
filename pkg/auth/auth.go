// Package auth gates the admin surface behind a signed, time-limited token.
// There is one credential pair, one role, no refresh and no revocation: a
// leaked token stays valid until it expires.
package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrBadCredentials = errors.New("identifiants incorrects")
	ErrTokenMissing   = errors.New("token manquant")
	ErrTokenInvalid   = errors.New("token invalide")
	ErrForbidden      = errors.New("accès refusé")
)

const (
	RoleAdmin  = "admin"
	DefaultTTL = 24 * time.Hour
)

// Config carries the credential pair and signing secret. All three are
// mandatory at startup; there is deliberately no fallback secret.
type Config struct {
	Username string
	Password string
	Secret   string
	TokenTTL time.Duration
}

type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

type Service struct {
	cfg Config
}

func NewService(cfg Config) *Service {
	if cfg.TokenTTL == 0 {
		cfg.TokenTTL = DefaultTTL
	}
	return &Service{cfg: cfg}
}

// Authenticate exchanges the credential pair for a signed token embedding
// username, role and issue time.
func (s *Service) Authenticate(username, password string) (string, error) {
	if username != s.cfg.Username || password != s.cfg.Password {
		return "", ErrBadCredentials
	}

	now := time.Now().UTC()
	claims := Claims{
		Username: username,
		Role:     RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.TokenTTL)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.Secret))
}

// Verify checks signature, expiry and role. Signature or expiry problems are
// ErrTokenInvalid (unauthenticated); a well-formed token with the wrong role
// is ErrForbidden.
func (s *Service) Verify(token string) (*Claims, error) {
	if token == "" {
		return nil, ErrTokenMissing
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(s.cfg.Secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return nil, ErrTokenInvalid
	}

	if claims.Role != RoleAdmin {
		return nil, ErrForbidden
	}
	return claims, nil
}

// VerifyHeader verifies a bearer credential taken from an Authorization
// header value.
func (s *Service) VerifyHeader(authorization string) (*Claims, error) {
	token := strings.TrimPrefix(authorization, "Bearer ")
	return s.Verify(token)
}
