package auth

import (
	"net/http"

	"github.com/gorilla/mux"

	"posgate/internal/logs"
	"posgate/internal/middleware"
	"posgate/internal/models"
)

// CredentialsDetail — единое сообщение для любого отказа по токену.
const CredentialsDetail = "Couldn't validate credentials"

// RequireIdentity отклоняет запрос с 401 до вызова обработчика, если токен
// отсутствует или невалиден; иначе кладёт Identity в контекст запроса.
func RequireIdentity(v Verifier) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := Authenticate(r, v)
			if err != nil {
				logs.Logger.WithError(err).
					WithField("reqid", middleware.GetRequestID(r)).
					Debug("bearer auth rejected")
				models.WriteUnauthorized(w, CredentialsDetail)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

// MustIdentity достаёт Identity из контекста; при отсутствии сам отвечает 401
// и возвращает false.
func MustIdentity(w http.ResponseWriter, r *http.Request) (Identity, bool) {
	id, ok := IdentityFromContext(r.Context())
	if !ok {
		models.WriteUnauthorized(w, CredentialsDetail)
	}
	return id, ok
}
