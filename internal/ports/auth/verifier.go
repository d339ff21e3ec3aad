package auth

import "context"

// AuthVerifier valida un token de acceso y devuelve los Claims del caller.
// La implementación concreta (JWT u otra) vive en adapters.
type AuthVerifier interface {
	Verify(ctx context.Context, token string) (Claims, error)
}
