package goals

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/2beens/fitcoach/internal/auth"
	"github.com/2beens/fitcoach/internal/telemetry/tracing"
	"github.com/2beens/fitcoach/pkg"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=goals_mocks_test.go -package=goals_test

type goalsRepo interface {
	Add(ctx context.Context, goal *Goal) error
	Get(ctx context.Context, userID, goalID uuid.UUID) (*Goal, error)
	List(ctx context.Context, userID uuid.UUID) ([]Goal, error)
	AppendProgress(ctx context.Context, userID, goalID uuid.UUID, points []DataPoint) error
	Delete(ctx context.Context, userID, goalID uuid.UUID) error
}

type CreatedResponse struct {
	ID uuid.UUID `json:"id"`
}

type UpdatedResponse struct {
	UpdatedID uuid.UUID `json:"updatedId"`
}

type DeletedResponse struct {
	DeletedID uuid.UUID `json:"deletedId"`
}

type ListResponse struct {
	Goals []Goal `json:"goals"`
	Total int    `json:"total"`
}

type Handler struct {
	repo goalsRepo
}

func NewHandler(repo goalsRepo) *Handler {
	return &Handler{
		repo: repo,
	}
}

func (handler *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.goals.create")
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

	var goal Goal
	if err := json.NewDecoder(r.Body).Decode(&goal); err != nil {
		log.Tracef("new goal, unmarshal json params: %s", err)
		http.Error(w, "add goal failed", http.StatusBadRequest)
		return
	}

	if err := goal.Validate(); err != nil {
		log.Tracef("new goal, invalid: %s", err)
		http.Error(w, "error, invalid goal: "+err.Error(), http.StatusBadRequest)
		return
	}

	// the id always comes from the server, never from the client
	goal.ID = uuid.New()
	goal.UserID = userID
	goal.CreatedAt = time.Now()
	if goal.StartingDate.IsZero() {
		goal.StartingDate = goal.CreatedAt
	}

	if err := handler.repo.Add(ctx, &goal); err != nil {
		log.Errorf("failed to add new goal for user %s: %s", userID, err)
		http.Error(w, "error, failed to add new goal", http.StatusInternalServerError)
		return
	}

	createdJson, err := json.Marshal(CreatedResponse{ID: goal.ID})
	if err != nil {
		log.Errorf("failed to marshal new goal response: %s", err)
		http.Error(w, "error, failed to add new goal", http.StatusInternalServerError)
		return
	}

	log.Debugf("new goal added: %s", goal.ID)
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, createdJson, http.StatusCreated)
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.goals.get")
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

	goal, err := handler.repo.Get(ctx, userID, goalID)
	if err != nil {
		if errors.Is(err, ErrGoalNotFound) {
			http.Error(w, "goal not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to get goal %s: %s", goalID, err)
		http.Error(w, "failed to get goal", http.StatusInternalServerError)
		return
	}

	goalJson, err := json.Marshal(goal)
	if err != nil {
		log.Errorf("failed to marshal goal: %s", err)
		http.Error(w, "failed to marshal goal", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, goalJson, http.StatusOK)
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.goals.list")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	userGoals, err := handler.repo.List(ctx, userID)
	if err != nil {
		log.Errorf("list goals for user %s error: %s", userID, err)
		http.Error(w, "failed to get goals", http.StatusInternalServerError)
		return
	}

	listJson, err := json.Marshal(ListResponse{
		Goals: userGoals,
		Total: len(userGoals),
	})
	if err != nil {
		log.Errorf("marshal goals error: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, listJson, http.StatusOK)
}

func (handler *Handler) HandleAppendProgress(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.goals.appendProgress")
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
		DataPoints []DataPoint `json:"dataPoints"`
	}
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		log.Tracef("append goal progress, unmarshal json params: %s", err)
		http.Error(w, "append goal progress failed", http.StatusBadRequest)
		return
	}

	if len(params.DataPoints) == 0 {
		http.Error(w, "error, no data points given", http.StatusBadRequest)
		return
	}

	now := time.Now()
	for i := range params.DataPoints {
		if err := params.DataPoints[i].Validate(); err != nil {
			log.Tracef("append goal progress, invalid point: %s", err)
			http.Error(w, "error, invalid data point: "+err.Error(), http.StatusBadRequest)
			return
		}
		if params.DataPoints[i].Date.IsZero() {
			params.DataPoints[i].Date = now
		}
	}

	if err := handler.repo.AppendProgress(ctx, userID, goalID, params.DataPoints); err != nil {
		switch {
		case errors.Is(err, ErrGoalNotFound):
			http.Error(w, "goal not found", http.StatusNotFound)
		case errors.Is(err, ErrProgressLimitReached):
			http.Error(w, "error, goal progress limit reached", http.StatusBadRequest)
		default:
			log.Errorf("failed to append progress to goal %s: %s", goalID, err)
			http.Error(w, "error, failed to append goal progress", http.StatusInternalServerError)
		}
		return
	}

	updatedJson, err := json.Marshal(UpdatedResponse{UpdatedID: goalID})
	if err != nil {
		log.Errorf("failed to marshal append progress response: %s", err)
		http.Error(w, "failed to marshal append progress response", http.StatusInternalServerError)
		return
	}

	log.Debugf("goal %s progress extended with %d points", goalID, len(params.DataPoints))
	pkg.WriteJSONResponseOK(w, string(updatedJson))
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.goals.delete")
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

	if err := handler.repo.Delete(ctx, userID, goalID); err != nil {
		if errors.Is(err, ErrGoalNotFound) {
			http.Error(w, "goal not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to delete goal %s: %s", goalID, err)
		http.Error(w, "goal not deleted", http.StatusInternalServerError)
		return
	}

	deletedJson, err := json.Marshal(DeletedResponse{DeletedID: goalID})
	if err != nil {
		log.Errorf("failed to marshal delete response: %s", err)
		http.Error(w, "failed to marshal delete response", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponseOK(w, string(deletedJson))
}
