package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"leetstreak/events"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

const namespace = "leetstreak"

// Streak evaluation outcomes
const (
	OutcomeExtended = "extended"
	OutcomeReset    = "reset"
)

// Recorder owns the service's Prometheus instruments
type Recorder struct {
	registry *prometheus.Registry

	pointsAwarded        prometheus.Counter
	streakSavesPurchased prometheus.Counter
	streakSavesConsumed  prometheus.Counter
	streakEvaluations    *prometheus.CounterVec
	tournamentsCreated   prometheus.Counter
	participantsJoined   prometheus.Counter
	requestDuration      *prometheus.HistogramVec
}

// NewRecorder creates the instruments and registers them on registry
func NewRecorder(registry *prometheus.Registry) *Recorder {
	r := &Recorder{
		registry: registry,
		pointsAwarded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "points_awarded_total",
			Help:      "Points credited for solved problems.",
		}),
		streakSavesPurchased: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "streak_saves_purchased_total",
			Help:      "Streak saves bought with points.",
		}),
		streakSavesConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "streak_saves_consumed_total",
			Help:      "Streak saves spent covering a missed day.",
		}),
		streakEvaluations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "streak_evaluations_total",
			Help:      "Daily tournament streak evaluations by outcome.",
		}, []string{"outcome"}),
		tournamentsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tournaments_created_total",
			Help:      "Tournaments created.",
		}),
		participantsJoined: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "participants_joined_total",
			Help:      "Users who joined a tournament after creation.",
		}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}

	registry.MustRegister(
		r.pointsAwarded,
		r.streakSavesPurchased,
		r.streakSavesConsumed,
		r.streakEvaluations,
		r.tournamentsCreated,
		r.participantsJoined,
		r.requestDuration,
	)
	return r
}

// Subscribe feeds the domain counters from bus
func (r *Recorder) Subscribe(bus *events.Bus) {
	for _, eventType := range []events.EventType{
		events.EventTypePointsAwarded,
		events.EventTypeStreakSavesPurchased,
		events.EventTypeStreakSaveConsumed,
		events.EventTypeStreakEvaluated,
		events.EventTypeTournamentCreated,
		events.EventTypeParticipantJoined,
	} {
		bus.Subscribe(eventType, r.handle)
	}
}

func (r *Recorder) handle(_ context.Context, event events.Event) {
	switch e := event.(type) {
	case events.PointsAwardedEvent:
		r.pointsAwarded.Add(float64(e.Amount))
	case events.StreakSavesPurchasedEvent:
		r.streakSavesPurchased.Add(float64(e.Count))
	case events.StreakSaveConsumedEvent:
		r.streakSavesConsumed.Inc()
	case events.StreakEvaluatedEvent:
		outcome := OutcomeReset
		if e.Extended() {
			outcome = OutcomeExtended
		}
		r.streakEvaluations.WithLabelValues(outcome).Inc()
	case events.TournamentCreatedEvent:
		r.tournamentsCreated.Inc()
	case events.ParticipantJoinedEvent:
		r.participantsJoined.Inc()
	default:
		log.WithField("eventType", event.Type()).Debug("No metric for event")
	}
}

// Middleware observes request latency labelled by the matched chi route pattern
func (r *Recorder) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, req.ProtoMajor)
		next.ServeHTTP(ww, req)

		route := "unmatched"
		if rctx := chi.RouteContext(req.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		r.requestDuration.
			WithLabelValues(req.Method, route, strconv.Itoa(status)).
			Observe(time.Since(start).Seconds())
	})
}

// Handler serves the registry in the Prometheus exposition format
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
