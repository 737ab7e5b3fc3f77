package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/quorumpoll/quorum/internal/core/domain"
)

type errorResponse struct {
	Error string `json:"error"`
}

// writeError maps the domain error taxonomy onto HTTP status codes. The
// response body carries the outermost message, which already includes the
// poll id or offending field from the wrapping site.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrInvalidPollID):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthenticated):
		status = http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, domain.ErrPollNotFound), errors.Is(err, domain.ErrOptionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrAlreadyVoted),
		errors.Is(err, domain.ErrAlreadyClosed),
		errors.Is(err, domain.ErrPollClosed),
		errors.Is(err, domain.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrStoreTimeout):
		status = http.StatusGatewayTimeout
	}

	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}
