package http

import (
	"net/http"

	"github.com/quorumpoll/quorum/internal/core/domain"
)

type UserHandler struct{}

func NewUserHandler() *UserHandler {
	return &UserHandler{}
}

// GetMe echoes the profile the identity provider attached to the request.
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		writeError(w, domain.ErrUnauthenticated)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
