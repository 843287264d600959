package response

import (
	"errors"
	"net/http"

	"cert-dashboard/internal/service/compliance"
	"cert-dashboard/internal/storage"
)

// StatusFor maps a service error to the HTTP status the dashboard should render.
// A store whose records cannot be summarized is never answered with a partial body.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, storage.ErrStoreNotFound):
		return http.StatusNotFound
	case errors.Is(err, compliance.ErrInvalidRecord):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
