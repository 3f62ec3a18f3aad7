package api

import (
	"net/http"

	"leetstreak/service"
)

type createTournamentRequest struct {
	Name          string `json:"name"`
	Password      string `json:"password"`
	CreatorID     string `json:"creatorId"`
	DurationHours *int   `json:"durationHours"`
}

type joinTournamentRequest struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

func (h *handlers) listTournaments(w http.ResponseWriter, r *http.Request) {
	tournaments, err := h.Tournaments.List(r.Context(), r.URL.Query().Get("userId"))
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toTournamentResponses(tournaments))
}

func (h *handlers) createTournament(w http.ResponseWriter, r *http.Request) {
	var req createTournamentRequest
	if !decodeBody(w, r, &req) {
		return
	}

	t, err := h.Tournaments.Create(r.Context(), service.CreateTournamentInput{
		Name:          req.Name,
		Password:      req.Password,
		CreatorID:     req.CreatorID,
		DurationHours: req.DurationHours,
	})
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, toTournamentResponse(t))
}

func (h *handlers) joinTournament(w http.ResponseWriter, r *http.Request) {
	var req joinTournamentRequest
	if !decodeBody(w, r, &req) {
		return
	}

	t, err := h.Tournaments.Join(r.Context(), service.JoinTournamentInput{
		UserID:   req.ID,
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toTournamentResponse(t))
}
