package auth

import (
	"context"
	"time"

	"github.com/evycast/inclusiva-sub001/internal/model"
)

// Result is the per-request authentication outcome. It is never stored;
// a zero Result means "no identity".
type Result struct {
	OK        bool
	UserID    string
	Role      model.Role
	TokenID   string
	ExpiresAt time.Time
}

// Denial says why Require refused a caller. The HTTP layer maps
// DenialUnauthenticated to 401 (or a login redirect) and
// DenialForbidden to 403.
type Denial int

const (
	DenialNone Denial = iota
	DenialUnauthenticated
	DenialForbidden
)

// Denylist reports whether a token id was revoked before its natural
// expiry. Implementations may be remote; errors are treated as revoked.
type Denylist interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// Gate decides, for a presented token and an allowed-role set, whether
// a caller may proceed. It holds no mutable state and is safe for
// concurrent use on every request.
type Gate struct {
	secret   string
	issuer   string
	denylist Denylist
}

// NewGate builds a gate. denylist may be nil, in which case tokens stay
// valid until expiry regardless of logout.
func NewGate(secret, issuer string, denylist Denylist) *Gate {
	return &Gate{secret: secret, issuer: issuer, denylist: denylist}
}

// Resolve is the non-denying variant: it returns the verified identity
// if the token checks out and a zero Result otherwise. Missing,
// malformed, expired and tampered tokens all land in the same place.
func (g *Gate) Resolve(ctx context.Context, token string) Result {
	if token == "" {
		return Result{}
	}
	claims, err := ParseToken(g.secret, g.issuer, token)
	if err != nil {
		return Result{}
	}
	role, ok := model.ParseRole(claims.Role)
	if !ok {
		return Result{}
	}
	if g.denylist != nil && claims.ID != "" {
		revoked, err := g.denylist.IsRevoked(ctx, claims.ID)
		if err != nil || revoked {
			return Result{}
		}
	}
	res := Result{OK: true, UserID: claims.Subject, Role: role, TokenID: claims.ID}
	if claims.ExpiresAt != nil {
		res.ExpiresAt = claims.ExpiresAt.Time
	}
	return res
}

// Require applies the allowed-role set to the resolved identity.
// Membership is exact: the caller's role must appear in allowed.
func (g *Gate) Require(ctx context.Context, token string, allowed ...model.Role) (Result, Denial) {
	res := g.Resolve(ctx, token)
	if !res.OK {
		return Result{}, DenialUnauthenticated
	}
	for _, role := range allowed {
		if res.Role == role {
			return res, DenialNone
		}
	}
	return Result{}, DenialForbidden
}
