package auth

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
)

const realm = "Certification Admin"

// BasicAuth guards admin routes. An empty username disables access entirely rather
// than letting blank credentials through.
func BasicAuth(username, password string) func(http.Handler) http.Handler {
	if username == "" {
		return denyAll
	}
	return middleware.BasicAuth(realm, map[string]string{username: password})
}

func denyAll(http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("WWW-Authenticate", fmt.Sprintf(`Basic realm="%s"`, realm))
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
	})
}
