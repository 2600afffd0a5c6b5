package server

import (
	"net/http"
	"strings"

	"github.com/Tomlord1122/todoapp/internal/auth"
	"github.com/Tomlord1122/todoapp/internal/logger"
	"github.com/Tomlord1122/todoapp/internal/metrics"
)

const accessTokenCookie = "access_token"

// credential prefers an Authorization bearer header and falls back to the cookie.
func credential(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if scheme, token, ok := strings.Cut(h, " "); ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
	}
	if c, err := r.Cookie(accessTokenCookie); err == nil {
		return c.Value
	}
	return ""
}

// resolve never fails loudly: any resolver error, including a panic inside
// it, is reported as auth.ErrUnauthenticated.
func (s *Server) resolve(r *http.Request, cred string) (id *auth.Identity, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("identity resolver panicked", "panic", rec)
			id, err = nil, auth.ErrUnauthenticated
		}
	}()

	id, err = s.resolver.Resolve(r.Context(), cred)
	if err != nil || id == nil {
		return nil, auth.ErrUnauthenticated
	}
	return id, nil
}

// requireIdentity guards the JSON API. Unauthenticated requests stop here
// with 401 before any path or body validation.
func (s *Server) requireIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := s.resolve(r, credential(r))
		if err != nil {
			metrics.AuthFailures.WithLabelValues("api").Inc()
			w.Header().Set("WWW-Authenticate", "Bearer")
			respondWithError(w, http.StatusUnauthorized, msgAuthFailed)
			return
		}
		next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), id)))
	})
}

func (s *Server) setAccessCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     accessTokenCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.tokenTTL.Seconds()),
		HttpOnly: true,
		Secure:   s.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) clearAccessCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     accessTokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}
