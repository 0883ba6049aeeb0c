package transport

import (
	"fmt"
	"net/http"

	"catalog-storefront/internal/domain"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Middleware is a chi-compatible middleware constructor
type Middleware = func(http.Handler) http.Handler

// pathUUID parses a UUID route parameter
func pathUUID(r *http.Request, param string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s must be a UUID", domain.ErrInvalidInput, param)
	}
	return id, nil
}
