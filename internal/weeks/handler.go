package weeks

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/2beens/fitcoach/internal/auth"
	"github.com/2beens/fitcoach/internal/telemetry/tracing"
	"github.com/2beens/fitcoach/pkg"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=weeks_mocks_test.go -package=weeks_test

type weeksRepo interface {
	Add(ctx context.Context, week *Week) error
	Get(ctx context.Context, userID, weekID uuid.UUID) (*Week, error)
	List(ctx context.Context, userID uuid.UUID) ([]Week, error)
	Update(ctx context.Context, week *Week) error
	Delete(ctx context.Context, userID, weekID uuid.UUID) error
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
	Weeks []Week `json:"weeks"`
	Total int    `json:"total"`
}

type Handler struct {
	repo weeksRepo
}

func NewHandler(repo weeksRepo) *Handler {
	return &Handler{
		repo: repo,
	}
}

func (handler *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.weeks.create")
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

	var week Week
	if err := json.NewDecoder(r.Body).Decode(&week); err != nil {
		log.Tracef("new week, unmarshal json params: %s", err)
		http.Error(w, "add week failed", http.StatusBadRequest)
		return
	}

	if err := week.Validate(); err != nil {
		log.Tracef("new week, invalid: %s", err)
		http.Error(w, "error, invalid week: "+err.Error(), http.StatusBadRequest)
		return
	}

	// the id always comes from the server, never from the client
	week.ID = uuid.New()
	week.UserID = userID
	week.CreatedAt = time.Now()
	if week.StartDate.IsZero() {
		week.StartDate = week.CreatedAt
	}

	if err := handler.repo.Add(ctx, &week); err != nil {
		log.Errorf("failed to add new week for user %s: %s", userID, err)
		http.Error(w, "error, failed to add new week", http.StatusInternalServerError)
		return
	}

	createdJson, err := json.Marshal(CreatedResponse{ID: week.ID})
	if err != nil {
		log.Errorf("failed to marshal new week response: %s", err)
		http.Error(w, "error, failed to add new week", http.StatusInternalServerError)
		return
	}

	log.Debugf("new week added: %s", week.ID)
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, createdJson, http.StatusCreated)
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.weeks.get")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	weekID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "error, invalid week id", http.StatusBadRequest)
		return
	}

	week, err := handler.repo.Get(ctx, userID, weekID)
	if err != nil {
		if errors.Is(err, ErrWeekNotFound) {
			http.Error(w, "week not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to get week %s: %s", weekID, err)
		http.Error(w, "failed to get week", http.StatusInternalServerError)
		return
	}

	weekJson, err := json.Marshal(week)
	if err != nil {
		log.Errorf("failed to marshal week: %s", err)
		http.Error(w, "failed to marshal week", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, weekJson, http.StatusOK)
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.weeks.list")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsedLimit, err := strconv.Atoi(limitStr)
		if err != nil || parsedLimit <= 0 {
			http.Error(w, "invalid limit parameter (must be positive integer)", http.StatusBadRequest)
			return
		}
		limit = parsedLimit
	}

	userWeeks, err := handler.repo.List(ctx, userID)
	if err != nil {
		log.Errorf("list weeks for user %s error: %s", userID, err)
		http.Error(w, "failed to get weeks", http.StatusInternalServerError)
		return
	}

	// weeks come back newest first, the limit keeps the most recent ones
	if limit > 0 && len(userWeeks) > limit {
		userWeeks = userWeeks[:limit]
	}

	listJson, err := json.Marshal(ListResponse{
		Weeks: userWeeks,
		Total: len(userWeeks),
	})
	if err != nil {
		log.Errorf("marshal weeks error: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, listJson, http.StatusOK)
}

func (handler *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.weeks.update")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	weekID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "error, invalid week id", http.StatusBadRequest)
		return
	}

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var week Week
	if err := json.NewDecoder(r.Body).Decode(&week); err != nil {
		log.Tracef("update week, unmarshal json params: %s", err)
		http.Error(w, "update week failed", http.StatusBadRequest)
		return
	}

	if err := week.Validate(); err != nil {
		log.Tracef("update week, invalid: %s", err)
		http.Error(w, "error, invalid week: "+err.Error(), http.StatusBadRequest)
		return
	}

	week.ID = weekID
	week.UserID = userID

	// sets created from client side updates get server ids too
	for wi := range week.Workouts {
		if week.Workouts[wi].ID == uuid.Nil {
			week.Workouts[wi].ID = uuid.New()
		}
		for si := range week.Workouts[wi].Sets {
			if week.Workouts[wi].Sets[si].ID == uuid.Nil {
				week.Workouts[wi].Sets[si].ID = uuid.New()
			}
		}
	}

	if err := handler.repo.Update(ctx, &week); err != nil {
		if errors.Is(err, ErrWeekNotFound) {
			http.Error(w, "week not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to update week %s: %s", weekID, err)
		http.Error(w, "error, failed to update week", http.StatusInternalServerError)
		return
	}

	updatedJson, err := json.Marshal(UpdatedResponse{UpdatedID: weekID})
	if err != nil {
		log.Errorf("failed to marshal update response: %s", err)
		http.Error(w, "failed to marshal update response", http.StatusInternalServerError)
		return
	}

	log.Debugf("week updated: %s", weekID)
	pkg.WriteJSONResponseOK(w, string(updatedJson))
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.weeks.delete")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	weekID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "error, invalid week id", http.StatusBadRequest)
		return
	}

	if err := handler.repo.Delete(ctx, userID, weekID); err != nil {
		if errors.Is(err, ErrWeekNotFound) {
			http.Error(w, "week not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to delete week %s: %s", weekID, err)
		http.Error(w, "week not deleted", http.StatusInternalServerError)
		return
	}

	deletedJson, err := json.Marshal(DeletedResponse{DeletedID: weekID})
	if err != nil {
		log.Errorf("failed to marshal delete response: %s", err)
		http.Error(w, "failed to marshal delete response", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponseOK(w, string(deletedJson))
}
