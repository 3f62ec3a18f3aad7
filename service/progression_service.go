package service

import (
	"context"
	"fmt"

	"leetstreak/models"

	log "github.com/sirupsen/logrus"
)

// LessonCompletion is the outcome of completing a lesson
type LessonCompletion struct {
	Track             *models.LessonTrack
	PointsAwarded     int64
	StreakSaveAwarded bool
	User              *models.User
}

// ProgressionService handles the lesson path and the room shop
type ProgressionService struct {
	users UserRepository
}

// NewProgressionService creates a new progression service
func NewProgressionService(users UserRepository) *ProgressionService {
	return &ProgressionService{users: users}
}

// BuildLessonTrack returns the lesson plan of the user's skill level with statuses filled in.
// Completed lessons are done, the first open lesson is current and the rest are locked.
func BuildLessonTrack(user *models.User) *models.LessonTrack {
	level := models.SkillLevelIntermediate
	if user.SkillLevel != nil && user.SkillLevel.Valid() {
		level = *user.SkillLevel
	}

	catalog := models.LessonCatalog[level]
	track := &models.LessonTrack{
		SkillLevel: level,
		Lessons:    make([]models.Lesson, len(catalog)),
	}

	currentAssigned := false
	for i, lesson := range catalog {
		switch {
		case user.HasCompletedLesson(lesson.ID):
			lesson.Status = models.LessonStatusDone
			track.Points += lesson.Points
		case !currentAssigned:
			lesson.Status = models.LessonStatusCurrent
			currentAssigned = true
		default:
			lesson.Status = models.LessonStatusLocked
		}
		track.Lessons[i] = lesson
	}

	return track
}

// Lessons returns the user's lesson track
func (s *ProgressionService) Lessons(ctx context.Context, userID string) (*models.LessonTrack, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return BuildLessonTrack(user), nil
}

// CompleteLesson finishes the current lesson of the user's track and credits its rewards.
// Completing a lesson that is already done awards nothing.
func (s *ProgressionService) CompleteLesson(ctx context.Context, userID, lessonID string) (*LessonCompletion, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	track := BuildLessonTrack(user)
	var lesson *models.Lesson
	for i := range track.Lessons {
		if track.Lessons[i].ID == lessonID {
			lesson = &track.Lessons[i]
			break
		}
	}
	if lesson == nil {
		return nil, fmt.Errorf("lesson %s in %s track: %w", lessonID, track.SkillLevel, ErrNotFound)
	}

	switch lesson.Status {
	case models.LessonStatusDone:
		return &LessonCompletion{Track: track, User: user}, nil
	case models.LessonStatusLocked:
		return nil, ErrLessonLocked
	}

	streakSaves := 0
	if lesson.GrantsStreakSave() {
		streakSaves = 1
	}

	updated, applied, err := s.users.CompleteLesson(ctx, userID, lesson.ID, lesson.Points, streakSaves)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, fmt.Errorf("user %s: %w", userID, ErrNotFound)
	}

	result := &LessonCompletion{
		Track: BuildLessonTrack(updated),
		User:  updated,
	}
	if applied {
		result.PointsAwarded = lesson.Points
		result.StreakSaveAwarded = streakSaves > 0
		result.Track.PointsAwarded = lesson.Points

		log.WithFields(log.Fields{
			"userID":     userID,
			"lessonID":   lesson.ID,
			"points":     lesson.Points,
			"streakSave": result.StreakSaveAwarded,
		}).Info("Completed lesson")
	}

	return result, nil
}

// PurchaseRoomItem buys a catalog item and places it at its default position
func (s *ProgressionService) PurchaseRoomItem(ctx context.Context, userID, itemID string) (*models.User, error) {
	item, ok := models.FindRoomItem(itemID)
	if !ok {
		return nil, fmt.Errorf("room item %s: %w", itemID, ErrNotFound)
	}

	user, err := s.users.ModifyRoom(ctx, userID, func(u *models.User) (RoomChange, error) {
		u.RoomItems = models.MergeRoomItems(u.RoomItems)
		for i := range u.RoomItems {
			state := &u.RoomItems[i]
			if state.ID != item.ID {
				continue
			}
			if state.Owned {
				return RoomChange{}, fmt.Errorf("room item %s is already owned: %w", item.ID, ErrConflict)
			}
			if u.Points < item.Cost {
				return RoomChange{}, fmt.Errorf("have %d points, need %d: %w", u.Points, item.Cost, ErrInsufficientBalance)
			}
			x, y := item.DefaultX, item.DefaultY
			state.Owned = true
			state.Placed = true
			state.X = &x
			state.Y = &y
		}
		return RoomChange{Cost: item.Cost, ItemID: item.ID}, nil
	})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("user %s: %w", userID, ErrNotFound)
	}

	log.WithFields(log.Fields{
		"userID":     userID,
		"itemID":     item.ID,
		"cost":       item.Cost,
		"newBalance": user.Points,
	}).Info("Purchased room item")

	return user, nil
}

// SaveRoomLayout stores placement and coordinates of owned items. Ownership never changes here,
// unknown or unowned items are ignored and coordinates are clamped to 0..100.
func (s *ProgressionService) SaveRoomLayout(ctx context.Context, userID string, layout []models.RoomItemState) (*models.User, error) {
	requested := make(map[string]models.RoomItemState, len(layout))
	for _, item := range layout {
		requested[item.ID] = item
	}

	user, err := s.users.ModifyRoom(ctx, userID, func(u *models.User) (RoomChange, error) {
		u.RoomItems = models.MergeRoomItems(u.RoomItems)
		for i := range u.RoomItems {
			state := &u.RoomItems[i]
			req, ok := requested[state.ID]
			if !ok || !state.Owned {
				continue
			}
			state.Placed = req.Placed
			state.X = clampPercent(req.X)
			state.Y = clampPercent(req.Y)
		}
		return RoomChange{}, nil
	})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("user %s: %w", userID, ErrNotFound)
	}
	return user, nil
}

func (s *ProgressionService) getUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("user %s: %w", userID, ErrNotFound)
	}
	return user, nil
}

func clampPercent(v *float64) *float64 {
	if v == nil {
		return nil
	}
	clamped := min(100, max(0, *v))
	return &clamped
}
