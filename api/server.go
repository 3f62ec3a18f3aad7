package api

import (
	"context"
	"net/http"
	"time"

	"leetstreak/metrics"
	"leetstreak/models"
	"leetstreak/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// UserService is the account surface used by the handlers
type UserService interface {
	Register(ctx context.Context, username, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.User, error)
	Get(ctx context.Context, id string) (*models.User, error)
	Update(ctx context.Context, id string, update models.UserUpdate) (*models.User, error)
	LinkProfile(ctx context.Context, id, lcUsername string) (*service.LinkedProfile, error)
	RefreshPoints(ctx context.Context, id string) (*models.User, error)
	SetSkillLevel(ctx context.Context, id string, level models.SkillLevel) (*models.User, error)
	PointHistory(ctx context.Context, id string, limit int) ([]*models.PointHistory, error)
}

// StreakSaveService sells streak saves
type StreakSaveService interface {
	Purchase(ctx context.Context, userID string, count int) (*models.User, error)
}

// ProgressionService serves lessons and the room shop
type ProgressionService interface {
	Lessons(ctx context.Context, userID string) (*models.LessonTrack, error)
	CompleteLesson(ctx context.Context, userID, lessonID string) (*service.LessonCompletion, error)
	PurchaseRoomItem(ctx context.Context, userID, itemID string) (*models.User, error)
	SaveRoomLayout(ctx context.Context, userID string, layout []models.RoomItemState) (*models.User, error)
}

// TournamentService creates, joins and lists tournaments
type TournamentService interface {
	Create(ctx context.Context, in service.CreateTournamentInput) (*models.Tournament, error)
	Join(ctx context.Context, in service.JoinTournamentInput) (*models.Tournament, error)
	List(ctx context.Context, memberID string) ([]*models.Tournament, error)
}

// Services groups the handlers' dependencies
type Services struct {
	Users       UserService
	StreakSaves StreakSaveService
	Progression ProgressionService
	Tournaments TournamentService
}

// Options configures cross-cutting router behaviour
type Options struct {
	AllowedOrigins []string
	Metrics        *metrics.Recorder
}

type handlers struct {
	Services
}

// NewRouter builds the HTTP API
func NewRouter(svc Services, opts Options) http.Handler {
	h := &handlers{Services: svc}
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(accessLog)
	r.Use(middleware.Recoverer)
	if opts.Metrics != nil {
		r.Use(opts.Metrics.Middleware)
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())
	}

	r.Route("/users", func(r chi.Router) {
		r.Post("/", h.registerUser)
		r.Post("/login", h.loginUser)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.getUser)
			r.Put("/", h.updateUser)
			r.Get("/refresh-points", h.refreshPoints)
			r.Get("/points-history", h.pointHistory)
			r.Post("/streak-saves", h.purchaseStreakSaves)
			r.Put("/skill-level", h.setSkillLevel)
			r.Get("/lessons", h.lessons)
			r.Post("/lessons/{lessonID}/complete", h.completeLesson)
			r.Post("/room/purchase", h.purchaseRoomItem)
			r.Put("/room", h.saveRoomLayout)
		})
	})

	r.Put("/leetcode/update", h.linkProfile)

	r.Route("/tournaments", func(r chi.Router) {
		r.Get("/", h.listTournaments)
		r.Post("/", h.createTournament)
		r.Put("/", h.joinTournament)
	})

	return r
}

// NewServer wraps handler in an http.Server with conservative timeouts
func NewServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
