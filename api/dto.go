package api

import (
	"time"

	"leetstreak/models"
)

type profileResponse struct {
	TotalSolved  int    `json:"totalSolved"`
	EasySolved   int    `json:"easySolved"`
	MediumSolved int    `json:"mediumSolved"`
	HardSolved   int    `json:"hardSolved"`
	LastUpdated  string `json:"lastUpdated"`
}

type userResponse struct {
	ID               string                 `json:"id"`
	Username         string                 `json:"username"`
	Email            string                 `json:"email"`
	Points           int64                  `json:"points"`
	StreakSaves      int                    `json:"streakSaves"`
	LeetCodeUsername *string                `json:"lcUsername"`
	LeetCodeProfile  *profileResponse       `json:"leetcodeProfile"`
	SkillLevel       *models.SkillLevel     `json:"skillLevel"`
	CompletedLessons []string               `json:"completedLessons"`
	RoomItems        []models.RoomItemState `json:"roomItems"`
	CreatedAt        string                 `json:"createdAt"`
	UpdatedAt        string                 `json:"updatedAt"`
}

type tournamentResponse struct {
	ID           string               `json:"id"`
	Name         string               `json:"name"`
	CreatorID    string               `json:"creatorId"`
	StartTime    string               `json:"startTime"`
	EndTime      string               `json:"endTime"`
	Participants []models.Participant `json:"participants"`
	Streak       int                  `json:"streak"`
	LastChecked  *string              `json:"lastChecked"`
}

type pointHistoryResponse struct {
	ID              int64                  `json:"id"`
	ChangeAmount    int64                  `json:"changeAmount"`
	BalanceBefore   int64                  `json:"balanceBefore"`
	BalanceAfter    int64                  `json:"balanceAfter"`
	TransactionType models.TransactionType `json:"transactionType"`
	Metadata        map[string]any         `json:"metadata,omitempty"`
	CreatedAt       string                 `json:"createdAt"`
}

type linkProfileResponse struct {
	LeetCodeUsername string          `json:"lcUsername"`
	LeetCodeProfile  profileResponse `json:"leetcodeProfile"`
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func toProfileResponse(p models.ProfileSnapshot) profileResponse {
	return profileResponse{
		TotalSolved:  p.TotalSolved,
		EasySolved:   p.EasySolved,
		MediumSolved: p.MediumSolved,
		HardSolved:   p.HardSolved,
		LastUpdated:  formatTime(p.LastUpdated),
	}
}

func toUserResponse(u *models.User) userResponse {
	resp := userResponse{
		ID:               u.ID,
		Username:         u.Username,
		Email:            u.Email,
		Points:           u.Points,
		StreakSaves:      u.StreakSaves,
		SkillLevel:       u.SkillLevel,
		CompletedLessons: u.CompletedLessons,
		RoomItems:        u.RoomItems,
		CreatedAt:        formatTime(u.CreatedAt),
		UpdatedAt:        formatTime(u.UpdatedAt),
	}
	if resp.CompletedLessons == nil {
		resp.CompletedLessons = []string{}
	}
	if resp.RoomItems == nil {
		resp.RoomItems = models.DefaultRoomItems()
	}
	if u.LeetCodeUsername != "" {
		name := u.LeetCodeUsername
		resp.LeetCodeUsername = &name
	}
	if u.LeetCodeProfile != nil {
		profile := toProfileResponse(*u.LeetCodeProfile)
		resp.LeetCodeProfile = &profile
	}
	return resp
}

func toTournamentResponse(t *models.Tournament) tournamentResponse {
	resp := tournamentResponse{
		ID:           t.ID,
		Name:         t.Name,
		CreatorID:    t.CreatorID,
		StartTime:    formatTime(t.StartTime),
		EndTime:      formatTime(t.EndTime),
		Participants: t.Participants,
		Streak:       t.Streak,
	}
	if resp.Participants == nil {
		resp.Participants = []models.Participant{}
	}
	if date := t.LastCheckedDate(); date != "" {
		resp.LastChecked = &date
	}
	return resp
}

func toTournamentResponses(ts []*models.Tournament) []tournamentResponse {
	out := make([]tournamentResponse, 0, len(ts))
	for _, t := range ts {
		out = append(out, toTournamentResponse(t))
	}
	return out
}

func toPointHistoryResponses(entries []*models.PointHistory) []pointHistoryResponse {
	out := make([]pointHistoryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, pointHistoryResponse{
			ID:              e.ID,
			ChangeAmount:    e.ChangeAmount,
			BalanceBefore:   e.BalanceBefore,
			BalanceAfter:    e.BalanceAfter,
			TransactionType: e.TransactionType,
			Metadata:        e.Metadata,
			CreatedAt:       formatTime(e.CreatedAt),
		})
	}
	return out
}
