package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/quorumpoll/quorum/internal/core/domain"
	"github.com/quorumpoll/quorum/internal/core/ports"
	"github.com/quorumpoll/quorum/internal/metrics"
)

type PollHandler struct {
	service    ports.PollService
	categories *domain.CategoryRegistry
	collector  *metrics.Collector
}

func NewPollHandler(service ports.PollService, categories *domain.CategoryRegistry, collector *metrics.Collector) *PollHandler {
	return &PollHandler{
		service:    service,
		categories: categories,
		collector:  collector,
	}
}

type createPollRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Options     []string `json:"options"`
	Category    string   `json:"category"`
}

type pollIDResponse struct {
	ID uuid.UUID `json:"id"`
}

func (h *PollHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		writeError(w, domain.ErrUnauthenticated)
		return
	}

	var req createPollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: malformed request body", domain.ErrValidation))
		return
	}

	pollID, err := h.service.Create(r.Context(), user, ports.CreatePollInput{
		Name:        req.Name,
		Description: req.Description,
		Options:     req.Options,
		Category:    req.Category,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	h.collector.RecordPollCreated()
	writeJSON(w, http.StatusCreated, pollIDResponse{ID: pollID})
}

func (h *PollHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		writeError(w, domain.ErrUnauthenticated)
		return
	}

	summaries, err := h.service.ListAll(r.Context(), user)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summaries)
}

type voteRequest struct {
	OptionID uuid.UUID `json:"option_id"`
}

func (h *PollHandler) Vote(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		writeError(w, domain.ErrUnauthenticated)
		return
	}

	pollID, err := pollIDParam(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req voteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: malformed request body", domain.ErrValidation))
		return
	}

	tally, err := h.service.Vote(r.Context(), user, pollID, req.OptionID)
	if err != nil {
		writeError(w, err)
		return
	}

	h.collector.RecordVoteCast()
	writeJSON(w, http.StatusOK, tally)
}

func (h *PollHandler) Details(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		writeError(w, domain.ErrUnauthenticated)
		return
	}

	pollID, err := pollIDParam(r)
	if err != nil {
		writeError(w, err)
		return
	}

	details, err := h.service.Details(r.Context(), user, pollID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, details)
}

func (h *PollHandler) Close(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		writeError(w, domain.ErrUnauthenticated)
		return
	}

	pollID, err := pollIDParam(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.service.Close(r.Context(), user, pollID); err != nil {
		writeError(w, err)
		return
	}

	h.collector.RecordPollClosed()
	writeJSON(w, http.StatusOK, pollIDResponse{ID: pollID})
}

func (h *PollHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		writeError(w, domain.ErrUnauthenticated)
		return
	}

	pollID, err := pollIDParam(r)
	if err != nil {
		writeError(w, err)
		return
	}

	deletedID, err := h.service.DeleteByID(r.Context(), user, pollID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pollIDResponse{ID: deletedID})
}

type categoriesResponse struct {
	Categories []string `json:"categories"`
}

func (h *PollHandler) Categories(w http.ResponseWriter, r *http.Request) {
	if _, ok := UserFromContext(r.Context()); !ok {
		writeError(w, domain.ErrUnauthenticated)
		return
	}
	writeJSON(w, http.StatusOK, categoriesResponse{Categories: h.categories.ListAll()})
}

func pollIDParam(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "id")
	pollID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %q", domain.ErrInvalidPollID, raw)
	}
	return pollID, nil
}
