package internal

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/2beens/fitcoach/internal/auth"
	"github.com/2beens/fitcoach/internal/coach"
	"github.com/2beens/fitcoach/internal/coach/gemini"
	coachmcp "github.com/2beens/fitcoach/internal/coach/mcp"
	coachmock "github.com/2beens/fitcoach/internal/coach/mock"
	"github.com/2beens/fitcoach/internal/config"
	"github.com/2beens/fitcoach/internal/db"
	"github.com/2beens/fitcoach/internal/goals"
	"github.com/2beens/fitcoach/internal/middleware"
	"github.com/2beens/fitcoach/internal/misc"
	"github.com/2beens/fitcoach/internal/telemetry/metrics"
	metricsmiddleware "github.com/2beens/fitcoach/internal/telemetry/metrics/middleware"
	"github.com/2beens/fitcoach/internal/telemetry/tracing"
	"github.com/2beens/fitcoach/internal/users"
	"github.com/2beens/fitcoach/internal/weeks"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	mcpSecret         string // shared secret for the /mcp mount
	versionInfo       string

	config        *config.Config
	dbPool        *pgxpool.Pool
	quotesManager *misc.QuotesManager
	coachProvider coach.Provider

	redisClient    *redis.Client
	loginChecker   *auth.LoginChecker
	authService    *auth.Service
	googleVerifier *auth.GoogleVerifier

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	GeminiAPIKey            string
	GoogleClientID          string
	McpSecret               string
	VersionInfo             string
	RedisPassword           string
	HoneycombTracingEnabled bool
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         params.Config.PostgresHost,
		DBPort:         params.Config.PostgresPort,
		DBName:         params.Config.PostgresDBName,
		TracingEnabled: params.HoneycombTracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("new db pool: %w", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		log.Warnf("failed to ping db: %s", err)
	}

	pgxpoolCollector := pgxpoolprometheus.NewCollector(
		dbPool,
		map[string]string{"db_name": "fitcoach_db"},
	)
	promRegistry := metrics.SetupPrometheus(pgxpoolCollector)
	metricsManager := metrics.NewManager("backend", "main", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0) // will be set to 1 when all is set and ran

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(params.Config.RedisHost, params.Config.RedisPort),
		Password: params.RedisPassword,
		DB:       0, // use default DB
	})

	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}

	authService := auth.NewAuthService(auth.DefaultTTL, rdb)
	go func() {
		for range time.Tick(time.Hour * 8) {
			authService.ScanAndClean(ctx)
		}
	}()

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, "fitcoach-backend", rdb)
	if err != nil {
		return nil, err
	}

	tracedHttpClient := &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}

	coachProvider, err := newCoachProvider(ctx, params, tracedHttpClient, metricsManager)
	if err != nil {
		return nil, fmt.Errorf("new coach provider: %w", err)
	}

	s := &Server{
		config:        params.Config,
		dbPool:        dbPool,
		mcpSecret:     params.McpSecret,
		versionInfo:   params.VersionInfo,
		coachProvider: coachProvider,

		redisClient:    rdb,
		authService:    authService,
		loginChecker:   auth.NewLoginChecker(auth.DefaultTTL, rdb),
		googleVerifier: auth.NewGoogleVerifier(params.GoogleClientID),

		// telemetry
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}

	quotesCsvFile, err := os.Open(params.Config.QuotesCsvPath)
	if err != nil {
		return nil, fmt.Errorf("open quotes file: %w", err)
	}
	defer func() {
		if err := quotesCsvFile.Close(); err != nil {
			log.Warnf("close quotes csv file: %s", err)
		}
	}()

	s.quotesManager, err = misc.NewQuoteManager(csv.NewReader(quotesCsvFile))
	if err != nil {
		return nil, fmt.Errorf("failed to create quote manager: %s", err)
	}

	return s, nil
}

// newCoachProvider picks the workout generation backend. Development
// environments run against the mock provider, everything else talks
// to the real model.
func newCoachProvider(
	ctx context.Context,
	params NewServerParams,
	httpClient *http.Client,
	metricsManager *metrics.Manager,
) (coach.Provider, error) {
	if params.Config.CoachProvider == "mock" {
		log.Warnln("using mock coach provider, generated workouts are canned")
		return coachmock.NewProvider(), nil
	}

	geminiClient, err := gemini.NewClient(ctx, params.GeminiAPIKey, httpClient)
	if err != nil {
		return nil, fmt.Errorf("new gemini client: %w", err)
	}

	return gemini.NewProvider(
		geminiClient,
		params.Config.GeminiModel,
		time.Duration(params.Config.ModelCallTimeoutSeconds)*time.Second,
		metricsManager,
	), nil
}

func (s *Server) routerSetup() (*mux.Router, error) {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("main-router"))

	usersRepo := users.NewRepo(s.dbPool)
	goalsRepo := goals.NewRepo(s.dbPool)
	weeksRepo := weeks.NewRepo(s.dbPool)

	usersHandler := users.NewHandler(usersRepo)
	r.HandleFunc("/user", usersHandler.HandleRegister).Methods("POST", "OPTIONS").Name("register-user")
	r.HandleFunc("/user", usersHandler.HandleGet).Methods("GET", "OPTIONS").Name("get-user")
	r.HandleFunc("/user", usersHandler.HandleUpdate).Methods("PUT", "OPTIONS").Name("update-user")

	goalsHandler := goals.NewHandler(goalsRepo)
	r.HandleFunc("/goal", goalsHandler.HandleCreate).Methods("POST", "OPTIONS").Name("new-goal")
	r.HandleFunc("/goal/{id}", goalsHandler.HandleGet).Methods("GET", "OPTIONS").Name("get-goal")
	r.HandleFunc("/goal/{id}", goalsHandler.HandleDelete).Methods("DELETE", "OPTIONS").Name("remove-goal")
	r.HandleFunc("/goal/{id}/progress", goalsHandler.HandleAppendProgress).Methods("PUT", "OPTIONS").Name("goal-progress")
	r.HandleFunc("/goals", goalsHandler.HandleList).Methods("GET", "OPTIONS").Name("list-goals")

	weeksHandler := weeks.NewHandler(weeksRepo)
	r.HandleFunc("/week", weeksHandler.HandleCreate).Methods("POST", "OPTIONS").Name("new-week")
	r.HandleFunc("/week/{id}", weeksHandler.HandleGet).Methods("GET", "OPTIONS").Name("get-week")
	r.HandleFunc("/week/{id}", weeksHandler.HandleUpdate).Methods("PUT", "OPTIONS").Name("update-week")
	r.HandleFunc("/week/{id}", weeksHandler.HandleDelete).Methods("DELETE", "OPTIONS").Name("remove-week")
	r.HandleFunc("/weeks", weeksHandler.HandleList).Methods("GET", "OPTIONS").Name("list-weeks")

	reqRateLimiter := redis_rate.NewLimiter(s.redisClient)

	coachHandler := coach.NewHandler(
		s.coachProvider,
		usersRepo,
		goalsRepo,
		weeksRepo,
		time.Duration(s.config.AnalysisCacheTTLMinutes)*time.Minute,
		s.metricsManager,
	)
	coachRouter := r.PathPrefix("/coach").Subrouter()
	coachRouter.HandleFunc("/workout", coachHandler.HandleGenerateWorkout).Methods("POST", "OPTIONS").Name("coach-workout")
	coachRouter.HandleFunc("/week", coachHandler.HandleGenerateWeek).Methods("POST", "OPTIONS").Name("coach-week")
	coachRouter.HandleFunc("/goal/{id}/analysis", coachHandler.HandleAnalyzeGoal).Methods("POST", "OPTIONS").Name("coach-goal-analysis")
	// model calls are expensive, keep a tight per minute budget
	coachRouter.Use(middleware.RateLimit(reqRateLimiter, "coach", s.config.CoachRateLimitAllowedPerMin, s.metricsManager))

	miscHandler := misc.NewHandler(
		s.quotesManager,
		s.versionInfo,
		s.authService,
		s.googleVerifier,
		usersRepo,
	)
	miscHandler.SetupRoutes(r, reqRateLimiter, s.metricsManager, s.config.LoginRateLimitAllowedPerMin)

	// the same MCP server also runs over stdio via cmd/coach_mcp
	mcpServer := coachmcp.NewServer(s.dbPool, usersRepo, goalsRepo, weeksRepo)
	r.PathPrefix("/mcp").Handler(mcp.NewStreamableHTTPHandler(
		func(*http.Request) *mcp.Server {
			return mcpServer
		},
		nil,
	))

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "OPTIONS").Name("unknown")

	authMiddleware := middleware.NewAuthMiddlewareHandler(
		s.mcpSecret,
		s.loginChecker,
	)

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors())
	r.Use(authMiddleware.AuthCheck())
	r.Use(middleware.DrainAndCloseRequest())

	return r, nil
}

func (s *Server) Serve(host string, port int) {
	router, err := s.routerSetup()
	if err != nil {
		log.Fatalf("failed to setup router: %s", err)
	}

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      router,
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", metricsmiddleware.
		New(s.promRegistry, nil).
		WrapHandler("/metrics", promhttp.HandlerFor(
			s.promRegistry,
			promhttp.HandlerOpts{}),
		))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:    metricsAddr,
		Handler: metricsRouter,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	s.otelShutdown()
	log.Trace("otel shut down ...")

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			log.Errorf("failed to close redis client conn: %s", err)
		}
	}

	if s.dbPool != nil {
		log.Debugln("closing db pool ...")
		s.dbPool.Close() // blocking operation
		log.Debugln("db pool closed")
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.Error(" >>> failed to gracefully shutdown http server")
	}
	log.Warnln("server shut down")

	if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
		log.Error(" >>> failed to gracefully shutdown metrics http server")
	}
	log.Warnln("metrics server shut down")
}

func (s *Server) connStateMetrics(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.metricsManager.GaugeRequests.Add(1)
	case http.StateClosed:
		s.metricsManager.GaugeRequests.Add(-1)
	default:
		// do nothing
	}
}
