package misc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/2beens/fitcoach/internal/auth"
	"github.com/2beens/fitcoach/internal/middleware"
	"github.com/2beens/fitcoach/internal/telemetry/metrics"
	"github.com/2beens/fitcoach/internal/telemetry/tracing"
	"github.com/2beens/fitcoach/internal/users"
	"github.com/2beens/fitcoach/pkg"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=misc_mocks_test.go -package=misc_test

type usersRepo interface {
	Add(ctx context.Context, user *users.User) error
	GetByEmail(ctx context.Context, email string) (*users.User, error)
	GetByGoogleID(ctx context.Context, googleID string) (*users.User, error)
}

type Handler struct {
	quotesManager  *QuotesManager
	versionInfo    string
	authService    *auth.Service
	googleVerifier *auth.GoogleVerifier
	usersRepo      usersRepo
}

func NewHandler(
	quotesManager *QuotesManager,
	versionInfo string,
	authService *auth.Service,
	googleVerifier *auth.GoogleVerifier,
	usersRepo usersRepo,
) *Handler {
	return &Handler{
		quotesManager:  quotesManager,
		versionInfo:    versionInfo,
		authService:    authService,
		googleVerifier: googleVerifier,
		usersRepo:      usersRepo,
	}
}

func (handler *Handler) SetupRoutes(
	mainRouter *mux.Router,
	rateLimiter middleware.RequestRateLimiter,
	metricsManager *metrics.Manager,
	loginRateLimitAllowedPerMin int,
) {
	mainRouter.HandleFunc("/", handler.handleRoot).Methods("GET", "POST", "OPTIONS").Name("root")
	mainRouter.HandleFunc("/quote/random", handler.handleGetRandomQuote).Methods("GET").Name("quote")
	mainRouter.HandleFunc("/version", handler.handleGetVersionInfo).Methods("GET").Name("version")

	loginSubrouter := mainRouter.PathPrefix("/a").Subrouter()
	loginSubrouter.
		HandleFunc("/login", handler.handleLogin).
		Methods("POST", "OPTIONS").Name("login")
	loginSubrouter.
		HandleFunc("/login/google", handler.handleGoogleLogin).
		Methods("POST", "OPTIONS").Name("login-google")
	loginSubrouter.
		HandleFunc("/logout", handler.handleLogout).
		Methods("GET", "OPTIONS").Name("logout")

	// rate limit the login endpoints to prevent abuse
	loginSubrouter.Use(middleware.RateLimit(rateLimiter, "login", loginRateLimitAllowedPerMin, metricsManager))
	loginSubrouter.Use(middleware.Cors())
}

func (handler *Handler) handleRoot(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteTextResponseOK(w, "I'm OK, thanks ;)")
}

func (handler *Handler) handleGetRandomQuote(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "miscHandler.quote")
	defer span.End()

	q := handler.quotesManager.RandomQuote()
	qBytes, err := json.Marshal(q)
	if err != nil {
		http.Error(w, "", http.StatusInternalServerError)
		log.Errorf("marshal quote error: %s", err)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, qBytes)
}

func (handler *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "miscHandler.login")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	type loginRequest struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	var loginReq loginRequest
	if r.Header.Get("Content-Type") == "application/json" {
		if err := json.NewDecoder(r.Body).Decode(&loginReq); err != nil {
			log.Errorf("login, unmarshal json params: %s", err)
			http.Error(w, "login failed", http.StatusBadRequest)
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			log.Errorf("login failed, parse form error: %s", err)
			http.Error(w, "parse form error", http.StatusInternalServerError)
			return
		}
		loginReq = loginRequest{
			Email:    r.Form.Get("email"),
			Password: r.Form.Get("password"),
		}
	}

	if loginReq.Email == "" {
		http.Error(w, "error, email empty", http.StatusBadRequest)
		return
	}
	if loginReq.Password == "" {
		http.Error(w, "error, password empty", http.StatusBadRequest)
		return
	}

	user, err := handler.usersRepo.GetByEmail(ctx, loginReq.Email)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			reqIp, _ := pkg.ReadUserIP(r)
			log.Tracef("[email] failed login attempt for %s from %s", loginReq.Email, reqIp)
			http.Error(w, "error, wrong credentials", http.StatusBadRequest)
			return
		}
		log.Errorf("login failed, get user by email: %s", err)
		http.Error(w, "login failed", http.StatusInternalServerError)
		return
	}

	if user.PasswordHash == "" || !pkg.CheckPasswordHash(loginReq.Password, user.PasswordHash) {
		reqIp, _ := pkg.ReadUserIP(r)
		log.Tracef("[password] failed login attempt for %s from %s", loginReq.Email, reqIp)
		http.Error(w, "error, wrong credentials", http.StatusBadRequest)
		return
	}

	token, err := handler.authService.Login(ctx, user.ID, time.Now())
	if err != nil {
		log.Errorf("login failed, generate token error: %s", err)
		http.Error(w, "generate token error", http.StatusInternalServerError)
		return
	}

	log.Trace("new login success")
	pkg.WriteJSONResponseOK(w, fmt.Sprintf(`{"token": "%s"}`, token))
}

func (handler *Handler) handleGoogleLogin(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "miscHandler.googleLogin")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	var loginReq struct {
		IDToken string `json:"idToken"`
	}
	if err := json.NewDecoder(r.Body).Decode(&loginReq); err != nil {
		log.Errorf("google login, unmarshal json params: %s", err)
		http.Error(w, "login failed", http.StatusBadRequest)
		return
	}
	if loginReq.IDToken == "" {
		http.Error(w, "error, id token empty", http.StatusBadRequest)
		return
	}

	googleUser, err := handler.googleVerifier.Verify(ctx, loginReq.IDToken)
	if err != nil {
		reqIp, _ := pkg.ReadUserIP(r)
		log.Tracef("failed google login attempt from %s: %s", reqIp, err)
		http.Error(w, "error, invalid google token", http.StatusUnauthorized)
		return
	}

	user, err := handler.usersRepo.GetByGoogleID(ctx, googleUser.ID)
	switch {
	case err == nil:
		// known user, just log them in
	case errors.Is(err, users.ErrUserNotFound):
		if user, err = handler.registerGoogleUser(ctx, googleUser); err != nil {
			log.Errorf("google login, register new user: %s", err)
			http.Error(w, "login failed", http.StatusInternalServerError)
			return
		}
	default:
		log.Errorf("google login, get user by google id: %s", err)
		http.Error(w, "login failed", http.StatusInternalServerError)
		return
	}

	token, err := handler.authService.Login(ctx, user.ID, time.Now())
	if err != nil {
		log.Errorf("google login failed, generate token error: %s", err)
		http.Error(w, "generate token error", http.StatusInternalServerError)
		return
	}

	log.Tracef("new google login success for user %s", user.ID)
	pkg.WriteJSONResponseOK(w, fmt.Sprintf(`{"token": "%s"}`, token))
}

func (handler *Handler) registerGoogleUser(ctx context.Context, googleUser *auth.GoogleUser) (*users.User, error) {
	user := &users.User{
		ID:          uuid.New(),
		CreatedAt:   time.Now(),
		Email:       googleUser.Email,
		GoogleID:    googleUser.ID,
		Provider:    "google",
		DisplayName: googleUser.Name,
		IsActive:    true,
	}
	// the google profile name is untrusted text like any other
	if err := user.Validate(); err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}
	if err := handler.usersRepo.Add(ctx, user); err != nil {
		return nil, fmt.Errorf("add: %w", err)
	}
	log.Debugf("new user registered via google: %s", user.ID)
	return user, nil
}

func (handler *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "miscHandler.logout")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	authToken := r.Header.Get("X-FITCOACH-TOKEN")
	if authToken == "" {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	loggedOut, err := handler.authService.Logout(r.Context(), authToken)
	if err != nil {
		log.Tracef("[failed logout] => %s: %s", r.URL.Path, err)
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}
	if !loggedOut {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	log.Printf("logout for [%s] success", authToken)
	pkg.WriteTextResponseOK(w, "logged-out")
}

func (handler *Handler) handleGetVersionInfo(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteTextResponseOK(w, handler.versionInfo)
}
