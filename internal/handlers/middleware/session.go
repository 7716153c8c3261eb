// internal/handlers/middleware/session.go
package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/reusehub/reuse-be/internal/core/domain"
	"github.com/reusehub/reuse-be/internal/core/ports"
	"github.com/reusehub/reuse-be/internal/pkg/logger"
)

type sessionContextKey struct{}

// SessionConfig names the request headers carrying the tenant scope and
// the opaque session token.
type SessionConfig struct {
	TokenHeader string
	AppIDHeader string
}

// Session resolves the caller's identity before the request reaches a
// handler. A missing or unknown token mints a fresh anonymous principal;
// the (possibly new) token is echoed back in the response header so the
// client can persist it. Resolution failures do not reject the request:
// the handler sees an unresolved session and defers scoped work.
func Session(resolver ports.IdentityResolver, cfg SessionConfig, slogger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			appID := r.Header.Get(cfg.AppIDHeader)
			token := r.Header.Get(cfg.TokenHeader)

			sess, issued, err := resolver.Resolve(ctx, appID, token)
			if err != nil {
				slogger.WarnContext(ctx, "session resolution failed",
					slog.String("error", err.Error()))
				next.ServeHTTP(w, r.WithContext(WithSession(ctx, domain.Session{})))
				return
			}

			if issued != token {
				w.Header().Set(cfg.TokenHeader, issued)
			}

			ctx = WithSession(ctx, sess)
			ctx = context.WithValue(ctx, logger.ContextKeyUserID, sess.UserID)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithSession stores the resolved session in the context.
func WithSession(ctx context.Context, sess domain.Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, sess)
}

// SessionFromContext returns the session resolved for this request. The
// zero Session means resolution is still pending or failed.
func SessionFromContext(ctx context.Context) domain.Session {
	if sess, ok := ctx.Value(sessionContextKey{}).(domain.Session); ok {
		return sess
	}
	return domain.Session{}
}
