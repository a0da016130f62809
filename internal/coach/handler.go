package coach

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/2beens/fitcoach/internal/auth"
	"github.com/2beens/fitcoach/internal/goals"
	"github.com/2beens/fitcoach/internal/telemetry/metrics"
	"github.com/2beens/fitcoach/internal/telemetry/tracing"
	"github.com/2beens/fitcoach/internal/users"
	"github.com/2beens/fitcoach/internal/weeks"
	"github.com/2beens/fitcoach/pkg"

	"github.com/coocood/freecache"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=coach_mocks_test.go -package=coach_test

const (
	oneHour                    = 60 * 60
	defaultAnalysisCacheExpire = oneHour * 1 // expire in seconds

	modeMultistep = "multistep"
	modeOneShot   = "one_shot"
)

type usersRepo interface {
	Get(ctx context.Context, id uuid.UUID) (*users.User, error)
}

type goalsRepo interface {
	Get(ctx context.Context, userID, goalID uuid.UUID) (*goals.Goal, error)
	List(ctx context.Context, userID uuid.UUID) ([]goals.Goal, error)
}

type weeksRepo interface {
	Get(ctx context.Context, userID, weekID uuid.UUID) (*weeks.Week, error)
}

type WeekResponse struct {
	Workouts []weeks.Workout `json:"workouts"`
	Total    int             `json:"total"`
}

type AnalysisResponse struct {
	DataPoints []goals.DataPoint `json:"dataPoints"`
	Total      int               `json:"total"`
}

// Handler serves the coaching endpoints. Generated workouts are returned to
// the client and never persisted here, saving them into a week is a separate,
// explicit call. Goal analysis responses are cached to absorb repeat taps.
type Handler struct {
	provider            Provider
	usersRepo           usersRepo
	goalsRepo           goalsRepo
	weeksRepo           weeksRepo
	analysisCache       *freecache.Cache
	analysisCacheExpire int // in seconds
	metricsManager      *metrics.Manager
}

func NewHandler(
	provider Provider,
	usersRepo usersRepo,
	goalsRepo goalsRepo,
	weeksRepo weeksRepo,
	analysisCacheTTL time.Duration,
	metricsManager *metrics.Manager,
) *Handler {
	megabyte := 1024 * 1024
	cacheSize := 10 * megabyte

	analysisCacheExpire := defaultAnalysisCacheExpire
	if analysisCacheTTL > 0 {
		analysisCacheExpire = int(analysisCacheTTL.Seconds())
	}

	return &Handler{
		provider:            provider,
		usersRepo:           usersRepo,
		goalsRepo:           goalsRepo,
		weeksRepo:           weeksRepo,
		analysisCache:       freecache.NewCache(cacheSize),
		analysisCacheExpire: analysisCacheExpire,
		metricsManager:      metricsManager,
	}
}

func (handler *Handler) HandleGenerateWorkout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.coach.generateWorkout")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var params struct {
		WeekID uuid.UUID `json:"weekId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		log.Tracef("generate workout, unmarshal json params: %s", err)
		http.Error(w, "generate workout failed", http.StatusBadRequest)
		return
	}
	if params.WeekID == uuid.Nil {
		http.Error(w, "error, week id empty", http.StatusBadRequest)
		return
	}

	user, activeGoals, err := handler.loadCoachContext(ctx, userID)
	if err != nil {
		log.Errorf("generate workout, load context for user %s: %s", userID, err)
		http.Error(w, "generate workout failed", http.StatusInternalServerError)
		return
	}

	week, err := handler.weeksRepo.Get(ctx, userID, params.WeekID)
	if err != nil {
		if errors.Is(err, weeks.ErrWeekNotFound) {
			http.Error(w, "week not found", http.StatusNotFound)
			return
		}
		log.Errorf("generate workout, get week %s: %s", params.WeekID, err)
		http.Error(w, "generate workout failed", http.StatusInternalServerError)
		return
	}

	// prior workout context always comes from persistence, not the request
	workout, err := handler.provider.GenerateWorkout(ctx, *user, activeGoals, week.Workouts)
	if err != nil {
		handler.writeCoachError(w, "generate workout", userID, err)
		return
	}
	handler.metricsManager.CounterGeneratedWorkouts.WithLabelValues(modeMultistep).Inc()

	workoutJson, err := json.Marshal(workout)
	if err != nil {
		log.Errorf("generate workout, marshal response: %s", err)
		http.Error(w, "generate workout failed", http.StatusInternalServerError)
		return
	}

	log.Debugf("workout %q generated for user %s, %d sets", workout.Title, userID, len(workout.Sets))
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, workoutJson, http.StatusOK)
}

func (handler *Handler) HandleGenerateWeek(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.coach.generateWeek")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	user, activeGoals, err := handler.loadCoachContext(ctx, userID)
	if err != nil {
		log.Errorf("generate week, load context for user %s: %s", userID, err)
		http.Error(w, "generate week failed", http.StatusInternalServerError)
		return
	}

	workouts, err := handler.provider.GenerateWeek(ctx, *user, activeGoals)
	if err != nil {
		handler.writeCoachError(w, "generate week", userID, err)
		return
	}
	handler.metricsManager.CounterGeneratedWorkouts.WithLabelValues(modeOneShot).Add(float64(len(workouts)))

	weekJson, err := json.Marshal(WeekResponse{
		Workouts: workouts,
		Total:    len(workouts),
	})
	if err != nil {
		log.Errorf("generate week, marshal response: %s", err)
		http.Error(w, "generate week failed", http.StatusInternalServerError)
		return
	}

	log.Debugf("week of %d workouts generated for user %s", len(workouts), userID)
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, weekJson, http.StatusOK)
}

func (handler *Handler) HandleAnalyzeGoal(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.coach.analyzeGoal")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	goalID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "error, invalid goal id", http.StatusBadRequest)
		return
	}

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var params struct {
		WeekID    uuid.UUID `json:"weekId"`
		WorkoutID uuid.UUID `json:"workoutId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		log.Tracef("analyze goal, unmarshal json params: %s", err)
		http.Error(w, "analyze goal failed", http.StatusBadRequest)
		return
	}
	if params.WeekID == uuid.Nil || params.WorkoutID == uuid.Nil {
		http.Error(w, "error, week id or workout id empty", http.StatusBadRequest)
		return
	}

	cacheKey := fmt.Sprintf("analysis::%s::%s", goalID, params.WorkoutID)
	if analysisBytes, err := handler.analysisCache.Get([]byte(cacheKey)); err == nil {
		log.Tracef("found analysis of goal %s / workout %s in cache", goalID, params.WorkoutID)
		pkg.WriteResponseBytes(w, pkg.ContentType.JSON, analysisBytes, http.StatusOK)
		return
	}

	goal, err := handler.goalsRepo.Get(ctx, userID, goalID)
	if err != nil {
		if errors.Is(err, goals.ErrGoalNotFound) {
			http.Error(w, "goal not found", http.StatusNotFound)
			return
		}
		log.Errorf("analyze goal, get goal %s: %s", goalID, err)
		http.Error(w, "analyze goal failed", http.StatusInternalServerError)
		return
	}

	week, err := handler.weeksRepo.Get(ctx, userID, params.WeekID)
	if err != nil {
		if errors.Is(err, weeks.ErrWeekNotFound) {
			http.Error(w, "week not found", http.StatusNotFound)
			return
		}
		log.Errorf("analyze goal, get week %s: %s", params.WeekID, err)
		http.Error(w, "analyze goal failed", http.StatusInternalServerError)
		return
	}

	workout := week.FindWorkout(params.WorkoutID)
	if workout == nil {
		http.Error(w, "workout not found", http.StatusNotFound)
		return
	}

	points, err := handler.provider.AnalyzeGoalProgress(ctx, *goal, *workout)
	if err != nil {
		handler.writeCoachError(w, "analyze goal", userID, err)
		return
	}
	handler.metricsManager.CounterGoalAnalyses.Inc()

	analysisJson, err := json.Marshal(AnalysisResponse{
		DataPoints: points,
		Total:      len(points),
	})
	if err != nil {
		log.Errorf("analyze goal, marshal response: %s", err)
		http.Error(w, "analyze goal failed", http.StatusInternalServerError)
		return
	}

	if err := handler.analysisCache.Set([]byte(cacheKey), analysisJson, handler.analysisCacheExpire); err != nil {
		log.Errorf("failed to cache analysis of goal %s / workout %s: %s", goalID, params.WorkoutID, err)
	}

	log.Debugf("goal %s analyzed against workout %s, %d data points", goalID, params.WorkoutID, len(points))
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, analysisJson, http.StatusOK)
}

// loadCoachContext fetches the pieces of user state every generation needs,
// the profile and the goals still being chased.
func (handler *Handler) loadCoachContext(ctx context.Context, userID uuid.UUID) (*users.User, []goals.Goal, error) {
	user, err := handler.usersRepo.Get(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("get user: %w", err)
	}
	userGoals, err := handler.goalsRepo.List(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("list goals: %w", err)
	}
	return user, goals.Active(userGoals), nil
}

func (handler *Handler) writeCoachError(w http.ResponseWriter, op string, userID uuid.UUID, err error) {
	log.Errorf("%s for user %s: %s", op, userID, err)
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, "error, invalid input: "+err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrTimeout):
		http.Error(w, "error, coach timed out", http.StatusGatewayTimeout)
	case errors.Is(err, ErrMalformedResponse), errors.Is(err, ErrProvider):
		http.Error(w, "error, coach failed", http.StatusBadGateway)
	default:
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}
