package users

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/mail"
	"time"

	"github.com/2beens/fitcoach/internal/auth"
	"github.com/2beens/fitcoach/internal/telemetry/tracing"
	"github.com/2beens/fitcoach/pkg"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=users_mocks_test.go -package=users_test

const minPasswordLen = 8

type usersRepo interface {
	Add(ctx context.Context, user *User) error
	Get(ctx context.Context, id uuid.UUID) (*User, error)
	Update(ctx context.Context, user *User) error
}

type CreatedResponse struct {
	ID uuid.UUID `json:"id"`
}

type UpdatedResponse struct {
	UpdatedID uuid.UUID `json:"updatedId"`
}

type Handler struct {
	repo usersRepo
}

func NewHandler(repo usersRepo) *Handler {
	return &Handler{
		repo: repo,
	}
}

func (handler *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.users.register")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var registerReq struct {
		User
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&registerReq); err != nil {
		log.Tracef("register user, unmarshal json params: %s", err)
		http.Error(w, "register user failed", http.StatusBadRequest)
		return
	}

	if _, err := mail.ParseAddress(registerReq.Email); err != nil {
		http.Error(w, "error, invalid email", http.StatusBadRequest)
		return
	}
	if len(registerReq.Password) < minPasswordLen {
		http.Error(w, "error, password too short", http.StatusBadRequest)
		return
	}

	user := registerReq.User
	if err := user.Validate(); err != nil {
		log.Tracef("register user, invalid profile: %s", err)
		http.Error(w, "error, invalid profile: "+err.Error(), http.StatusBadRequest)
		return
	}

	passwordHash, err := pkg.HashPassword(registerReq.Password)
	if err != nil {
		log.Errorf("register user, hash password: %s", err)
		http.Error(w, "register user failed", http.StatusInternalServerError)
		return
	}

	user.ID = uuid.New()
	user.CreatedAt = time.Now()
	user.PasswordHash = passwordHash
	user.Provider = "password"
	user.IsActive = true

	if err := handler.repo.Add(ctx, &user); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			http.Error(w, "error, email already taken", http.StatusConflict)
			return
		}
		log.Errorf("failed to register user: %s", err)
		http.Error(w, "register user failed", http.StatusInternalServerError)
		return
	}

	createdJson, err := json.Marshal(CreatedResponse{ID: user.ID})
	if err != nil {
		log.Errorf("failed to marshal register response: %s", err)
		http.Error(w, "register user failed", http.StatusInternalServerError)
		return
	}

	log.Debugf("new user registered: %s", user.ID)
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, createdJson, http.StatusCreated)
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.users.get")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	user, err := handler.repo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to get user %s: %s", userID, err)
		http.Error(w, "failed to get user", http.StatusInternalServerError)
		return
	}

	userJson, err := json.Marshal(user)
	if err != nil {
		log.Errorf("failed to marshal user: %s", err)
		http.Error(w, "failed to marshal user", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, userJson, http.StatusOK)
}

func (handler *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.users.update")
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

	var user User
	if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
		log.Tracef("update user, unmarshal json params: %s", err)
		http.Error(w, "update user failed", http.StatusBadRequest)
		return
	}

	if err := user.Validate(); err != nil {
		log.Tracef("update user, invalid profile: %s", err)
		http.Error(w, "error, invalid profile: "+err.Error(), http.StatusBadRequest)
		return
	}

	// the profile being updated is always the caller's own
	user.ID = userID

	if err := handler.repo.Update(ctx, &user); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to update user %s: %s", userID, err)
		http.Error(w, "error, failed to update user", http.StatusInternalServerError)
		return
	}

	updatedJson, err := json.Marshal(UpdatedResponse{UpdatedID: userID})
	if err != nil {
		log.Errorf("failed to marshal update response: %s", err)
		http.Error(w, "failed to marshal update response", http.StatusInternalServerError)
		return
	}

	log.Debugf("user updated: %s", userID)
	pkg.WriteJSONResponseOK(w, string(updatedJson))
}
