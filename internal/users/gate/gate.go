package gate

import (
	"context"
	"strings"

	"google.golang.org/grpc/metadata"

	"github.com/Codelsoft-Microservices/codelsoft-users/internal/config"
	customerrors "github.com/Codelsoft-Microservices/codelsoft-users/internal/customErrors"
)

const (
	AuthorizationKey = "authorization"
	bearerPrefix     = "bearer "
)

// Gate verifies caller tokens and applies the role/ownership rules.
type Gate struct {
	jwt config.Token
}

func New(jwt config.Token) *Gate {
	return &Gate{jwt: jwt}
}

// TokenFromContext returns the bearer token carried in the incoming
// authorization metadata entry, with any "Bearer " prefix removed.
func TokenFromContext(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}

	values := md.Get(AuthorizationKey)
	if len(values) == 0 {
		return ""
	}

	token := strings.TrimSpace(values[0])
	if len(token) >= len(bearerPrefix) && strings.EqualFold(token[:len(bearerPrefix)], bearerPrefix) {
		token = strings.TrimSpace(token[len(bearerPrefix):])
	}
	return token
}

// Authenticate requires a valid token.
func (g *Gate) Authenticate(token string) (*config.Claims, error) {
	if token == "" {
		return nil, customerrors.ErrMissingToken
	}

	claims, err := g.jwt.ValidateJWT(token)
	if err != nil {
		return nil, customerrors.ErrInvalidToken
	}

	return claims, nil
}

// Optional returns nil claims for an absent token, but still rejects a
// token that is present and invalid.
func (g *Gate) Optional(token string) (*config.Claims, error) {
	if token == "" {
		return nil, nil
	}
	return g.Authenticate(token)
}

func SelfOrAdmin(claims *config.Claims, targetUUID string) error {
	if claims == nil {
		return customerrors.ErrMissingToken
	}
	if claims.IsAdmin() || claims.UUID == targetUUID {
		return nil
	}
	return customerrors.ErrPermissionDenied
}

func AdminOnly(claims *config.Claims) error {
	if claims == nil {
		return customerrors.ErrMissingToken
	}
	if claims.IsAdmin() {
		return nil
	}
	return customerrors.ErrPermissionDenied
}
