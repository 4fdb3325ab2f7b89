package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/psmak4/reprint-ui/internal/entity"
)

type Claims struct {
	Sub  string `json:"sub"`  // user id
	Role string `json:"role"` // USER/ADMIN
	jwt.RegisteredClaims
}

// Identity is what the client knows about the signed-in user, decoded
// from the token it holds. Signature verification is the service's job;
// the client reads claims only for display, routing and expiry hints.
type Identity struct {
	UserID    string
	Role      string
	ExpiresAt time.Time
}

func (id Identity) Admin() bool {
	return id.Role == entity.RoleAdmin
}

// Expired reports whether the token carried an expiry that has passed.
// Tokens without an exp claim never expire client-side.
func (id Identity) Expired(now time.Time) bool {
	return !id.ExpiresAt.IsZero() && id.ExpiresAt.Before(now)
}

// IdentityFromToken decodes the claims without verifying the signature.
func IdentityFromToken(token string) (Identity, error) {
	var claims Claims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return Identity{}, fmt.Errorf("decode token: %w", err)
	}
	if claims.Sub == "" {
		return Identity{}, fmt.Errorf("token has no subject")
	}

	id := Identity{UserID: claims.Sub, Role: claims.Role}
	if claims.ExpiresAt != nil {
		id.ExpiresAt = claims.ExpiresAt.Time
	}
	return id, nil
}
