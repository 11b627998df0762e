package auth

import (
	"context"
	"net/http"
	"strings"
)

type identityKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	if !ok || id.ID == 0 {
		return Identity{}, false
	}
	return id, true
}

// Verifier проверяет сырой токен и возвращает личность.
type Verifier interface {
	Verify(raw string) (Identity, error)
}

// BearerToken достаёт токен из "Authorization: Bearer <token>"; схема без учёта регистра.
func BearerToken(r *http.Request) string {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func Authenticate(r *http.Request, v Verifier) (Identity, error) {
	return v.Verify(BearerToken(r))
}
