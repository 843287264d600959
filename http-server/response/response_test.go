package response

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"cert-dashboard/internal/service/compliance"
	"cert-dashboard/internal/storage"
)

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, StatusFor(fmt.Errorf("op: %w", storage.ErrStoreNotFound)))
	assert.Equal(t, http.StatusUnprocessableEntity, StatusFor(fmt.Errorf("row 3: %w", compliance.ErrInvalidRecord)))
	assert.Equal(t, http.StatusInternalServerError, StatusFor(context.DeadlineExceeded))
	assert.Equal(t, http.StatusInternalServerError, StatusFor(assert.AnError))
}
