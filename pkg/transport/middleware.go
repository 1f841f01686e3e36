package transport

import (
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/Ennaciri1/Mon-projet-salon/pkg/auth"
)

func logMiddleware(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.WithFields(log.Fields{
			"method":     r.Method,
			"url":        r.URL,
			"remoteAddr": r.RemoteAddr,
			"userAgent":  r.UserAgent(),
		}).Info("got a new request")
		h.ServeHTTP(w, r)
	})
}

// adminMiddleware guards every /api/admin route registered behind it; the
// auth endpoint itself is registered outside this subtree.
func (h *Handler) adminMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := h.auth.VerifyHeader(r.Header.Get("Authorization")); err != nil {
			writeAuthError(w, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// adminOnly wraps a single handler outside the /api/admin subtree that still
// requires the token, such as the public-path product creation.
func (h *Handler) adminOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := h.auth.VerifyHeader(r.Header.Get("Authorization")); err != nil {
			writeAuthError(w, err)
			return
		}
		next(w, r)
	}
}

func writeAuthError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, auth.ErrForbidden):
		writeError(w, http.StatusForbidden, err.Error())
	default:
		writeError(w, http.StatusUnauthorized, err.Error())
	}
}
