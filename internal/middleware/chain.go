package middleware

import "net/http"

// Chain wraps h in the given stages. The first stage is outermost, so a
// request passes through stages in the order they are listed and any stage
// may answer without calling the next.
func Chain(h http.Handler, stages ...func(http.Handler) http.Handler) http.Handler {
	for i := len(stages) - 1; i >= 0; i-- {
		h = stages[i](h)
	}
	return h
}
