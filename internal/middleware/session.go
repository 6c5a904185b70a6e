package middleware

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/hongminglow/blog-be/internal/apperror"
	"github.com/hongminglow/blog-be/internal/auth"
	"github.com/hongminglow/blog-be/internal/http/respond"
	"github.com/hongminglow/blog-be/internal/observability"
)

// Authenticator validates an Authorization header value.
type Authenticator interface {
	Authenticate(ctx context.Context, header string) (auth.Principal, error)
}

// Session rejects requests without a live session and attaches the principal otherwise.
func Session(guard Authenticator, m *observability.Metrics) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, err := guard.Authenticate(r.Context(), r.Header.Get("Authorization"))
			if err != nil {
				m.ObserveSession(apperror.KindOf(err).String())
				respond.FromError(w, r, err)
				return
			}
			m.ObserveSession("ok")
			next.ServeHTTP(w, r.WithContext(auth.WithPrincipal(r.Context(), principal)))
		})
	}
}
