package database

import (
	"context"
	"net/http"

	"gorm.io/gorm"
)

type sessionKey struct{}

// WithSession stores a request-scoped handle in ctx.
func WithSession(ctx context.Context, db *gorm.DB) context.Context {
	return context.WithValue(ctx, sessionKey{}, db)
}

// SessionFrom returns the handle stored by WithSession, or fallback bound to ctx.
func SessionFrom(ctx context.Context, fallback *gorm.DB) *gorm.DB {
	if db, ok := ctx.Value(sessionKey{}).(*gorm.DB); ok && db != nil {
		return db
	}
	return fallback.WithContext(ctx)
}

// Middleware opens one session per request and releases it when the handler
// returns, whether it finished normally, wrote an error or panicked.
// Statements still running on the session are cancelled at that point.
func Middleware(db *gorm.DB) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, release := context.WithCancel(r.Context())
			defer release()

			session := db.WithContext(ctx)
			next.ServeHTTP(w, r.WithContext(WithSession(ctx, session)))
		})
	}
}
