package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"cardsynch/internal/platform/config"
)

// Identity is what the external identity provider asserts about a bearer
// token: a stable subject id plus optional profile hints.
type Identity struct {
	Subject string
	Email   string
	Name    string
}

type Claims struct {
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

var ErrInvalidToken = errors.New("invalid token")

// Verifier validates identity-provider tokens. Tokens are HS256-signed with
// a secret shared with the provider.
type Verifier struct {
	config config.JWTConfig
}

func NewVerifier(cfg config.JWTConfig) *Verifier {
	return &Verifier{config: cfg}
}

func (v *Verifier) Verify(tokenString string) (*Identity, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(v.config.Secret), nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	return &Identity{
		Subject: claims.Subject,
		Email:   claims.Email,
		Name:    claims.Name,
	}, nil
}

// Issue mints a token for the given identity. Production tokens come from
// the identity provider; this is used by tests and local tooling.
func (v *Verifier) Issue(identity *Identity, ttl time.Duration) (string, error) {
	claims := Claims{
		Email: identity.Email,
		Name:  identity.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.Subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    v.config.Issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(v.config.Secret))
}
