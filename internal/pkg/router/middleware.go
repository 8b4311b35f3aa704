package router

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

// Middleware decorates an http.Handler.
type Middleware func(next http.Handler) http.Handler

// Chain wraps h with mws; the first middleware is the outermost.
func Chain(h http.Handler, mws ...Middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

func matchedRoutePath(r *http.Request) string {
	if pattern := httprouter.ParamsFromContext(r.Context()).MatchedRoutePath(); pattern != "" {
		return pattern
	}
	return r.URL.Path
}
