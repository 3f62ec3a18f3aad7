package api

import (
	"net/http"
	"strconv"

	"leetstreak/models"

	"github.com/go-chi/chi/v5"
)

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type updateUserRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

type streakSaveRequest struct {
	Count int `json:"count"`
}

type skillLevelRequest struct {
	SkillLevel models.SkillLevel `json:"skillLevel"`
}

type roomPurchaseRequest struct {
	ItemID string `json:"itemId"`
}

type roomLayoutRequest struct {
	Items []models.RoomItemState `json:"items"`
}

type linkProfileRequest struct {
	ID               string `json:"id"`
	LeetCodeUsername string `json:"lcUsername"`
}

func (h *handlers) registerUser(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user, err := h.Users.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, toUserResponse(user))
}

func (h *handlers) loginUser(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user, err := h.Users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toUserResponse(user))
}

func (h *handlers) getUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.Users.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toUserResponse(user))
}

func (h *handlers) updateUser(w http.ResponseWriter, r *http.Request) {
	var req updateUserRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user, err := h.Users.Update(r.Context(), chi.URLParam(r, "id"), models.UserUpdate{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toUserResponse(user))
}

func (h *handlers) refreshPoints(w http.ResponseWriter, r *http.Request) {
	user, err := h.Users.RefreshPoints(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toUserResponse(user))
}

func (h *handlers) pointHistory(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			respondWithError(w, "limit must be a non-negative integer", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	entries, err := h.Users.PointHistory(r.Context(), chi.URLParam(r, "id"), limit)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toPointHistoryResponses(entries))
}

func (h *handlers) purchaseStreakSaves(w http.ResponseWriter, r *http.Request) {
	var req streakSaveRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user, err := h.StreakSaves.Purchase(r.Context(), chi.URLParam(r, "id"), req.Count)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toUserResponse(user))
}

func (h *handlers) setSkillLevel(w http.ResponseWriter, r *http.Request) {
	var req skillLevelRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user, err := h.Users.SetSkillLevel(r.Context(), chi.URLParam(r, "id"), req.SkillLevel)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toUserResponse(user))
}

func (h *handlers) lessons(w http.ResponseWriter, r *http.Request) {
	track, err := h.Progression.Lessons(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, track)
}

func (h *handlers) completeLesson(w http.ResponseWriter, r *http.Request) {
	result, err := h.Progression.CompleteLesson(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "lessonID"))
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, result.Track)
}

func (h *handlers) purchaseRoomItem(w http.ResponseWriter, r *http.Request) {
	var req roomPurchaseRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user, err := h.Progression.PurchaseRoomItem(r.Context(), chi.URLParam(r, "id"), req.ItemID)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toUserResponse(user))
}

func (h *handlers) saveRoomLayout(w http.ResponseWriter, r *http.Request) {
	var req roomLayoutRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user, err := h.Progression.SaveRoomLayout(r.Context(), chi.URLParam(r, "id"), req.Items)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toUserResponse(user))
}

func (h *handlers) linkProfile(w http.ResponseWriter, r *http.Request) {
	var req linkProfileRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.ID == "" {
		respondWithError(w, "id is required", http.StatusBadRequest)
		return
	}

	linked, err := h.Users.LinkProfile(r.Context(), req.ID, req.LeetCodeUsername)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, linkProfileResponse{
		LeetCodeUsername: linked.LeetCodeUsername,
		LeetCodeProfile:  toProfileResponse(linked.Profile),
	})
}
