package router

import (
	"errors"
	"net/http"
	"strings"

	"github.com/shandysiswandi/growguard/internal/pkg/jwt"
)

// middlewareAuthentication requires a valid bearer token on every route not
// marked Public. Public routes still carry the claims of a valid token so
// handlers can serve signed-in and anonymous callers alike.
func middlewareAuthentication(verifier jwt.JWT, public map[string]map[string]struct{}) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if verifier == nil {
				next.ServeHTTP(w, r)
				return
			}

			token, hasToken := bearerToken(r)

			if _, skip := public[r.Method][matchedRoutePath(r)]; skip {
				if hasToken {
					if claims, err := verifier.Verify(token); err == nil {
						r = r.WithContext(jwt.SetAuth(r.Context(), claims))
					}
				}
				next.ServeHTTP(w, r)
				return
			}

			if !hasToken {
				writeJSON(w, errorResponse{Message: "Authentication required"}, http.StatusUnauthorized)
				return
			}

			claims, err := verifier.Verify(token)
			if errors.Is(err, jwt.ErrTokenExpired) {
				writeJSON(w, errorResponse{Message: "Token has expired"}, http.StatusUnauthorized)
				return
			}
			if err != nil {
				writeJSON(w, errorResponse{Message: "Invalid token"}, http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(jwt.SetAuth(r.Context(), claims)))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	p := strings.Fields(r.Header.Get("Authorization"))
	if len(p) != 2 || !strings.EqualFold(p[0], "Bearer") {
		return "", false
	}
	return p[1], true
}
