// internal/core/ports/identity.go
package ports

import (
	"context"

	"github.com/reusehub/reuse-be/internal/core/domain"
)

// IdentityResolver turns an opaque session token into a Session. An
// empty token mints a fresh anonymous principal; a known token resolves
// to the principal it was issued for. The returned token equals the
// input unless a new identity was minted.
type IdentityResolver interface {
	Resolve(ctx context.Context, appID, token string) (domain.Session, string, error)
}
