package main

import (
	"database/sql"
	"log"
	"net/http"
	"os"
	"time"

	apihttp "coopweigh/internal/api/http"
	"coopweigh/internal/audit"
	"coopweigh/internal/auth"
	catalogapp "coopweigh/internal/catalog/application"
	catalogrepo "coopweigh/internal/catalog/infrastructure/postgres"
	cataloghttp "coopweigh/internal/catalog/interfaces/http"
	"coopweigh/internal/config"
	identityapp "coopweigh/internal/identity/application"
	identityrepo "coopweigh/internal/identity/infrastructure/postgres"
	identityhttp "coopweigh/internal/identity/interfaces/http"
	leaderboardapp "coopweigh/internal/leaderboard/application"
	leaderboardrepo "coopweigh/internal/leaderboard/infrastructure/postgres"
	leaderboardhttp "coopweigh/internal/leaderboard/interfaces/http"
	"coopweigh/internal/migrations"
	"coopweigh/internal/observability/metrics"
	weighingapp "coopweigh/internal/weighing/application"
	weighingrepo "coopweigh/internal/weighing/infrastructure/postgres"
	weighinghttp "coopweigh/internal/weighing/interfaces/http"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	logger := log.New(os.Stdout, "", log.LstdFlags)

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("db open error: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Fatalf("db ping error: %v", err)
	}
	if cfg.Migrate {
		if err := migrations.Up(db); err != nil {
			logger.Fatalf("migrations error: %v", err)
		}
	}

	metrics.Init()
	auditRepo := audit.NewRepository(db)

	workerRepo := identityrepo.NewWorkerRepository(db)
	identityService, err := identityapp.NewService(workerRepo, []byte(cfg.JWTSecret), cfg.TokenTTL, cfg.BcryptCost)
	if err != nil {
		logger.Fatalf("identity service error: %v", err)
	}
	identityHandler, err := identityhttp.NewHandler(identityService, auditRepo)
	if err != nil {
		logger.Fatalf("identity handler error: %v", err)
	}

	materialRepo := catalogrepo.NewMaterialRepository(db)
	materialResolver, err := catalogapp.NewResolver(materialRepo)
	if err != nil {
		logger.Fatalf("material resolver error: %v", err)
	}
	catalogHandler, err := cataloghttp.NewHandler(materialResolver)
	if err != nil {
		logger.Fatalf("catalog handler error: %v", err)
	}

	measurementRepo := weighingrepo.NewMeasurementRepository(db)
	deviceRepo := weighingrepo.NewDeviceRepository(db)
	weighingService, err := weighingapp.NewService(measurementRepo, deviceRepo, materialResolver, workerRepo, logger)
	if err != nil {
		logger.Fatalf("weighing service error: %v", err)
	}
	weighingHandler, err := weighinghttp.NewHandler(weighingService, auditRepo)
	if err != nil {
		logger.Fatalf("weighing handler error: %v", err)
	}

	ledgerQuery := leaderboardrepo.NewLedgerQuery(db)
	leaderboardService, err := leaderboardapp.NewService(ledgerQuery, workerRepo)
	if err != nil {
		logger.Fatalf("leaderboard service error: %v", err)
	}
	leaderboardHandler, err := leaderboardhttp.NewHandler(leaderboardService)
	if err != nil {
		logger.Fatalf("leaderboard handler error: %v", err)
	}

	policy := auth.NewDefaultPolicy([]string{"/health", "/metrics", "/auth/login"}, nil)
	authMiddleware := auth.NewMiddleware([]byte(cfg.JWTSecret), policy)

	mux := http.NewServeMux()
	mux.Handle("/auth/login", identityHandler)
	mux.Handle("/auth/me", identityHandler)
	mux.Handle("/materials", catalogHandler)
	mux.Handle("/weighings", weighingHandler)
	mux.Handle("/weighings/", weighingHandler)
	mux.Handle("/leaderboard/", leaderboardHandler)
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/health", apihttp.HealthHandler())

	server := &http.Server{Addr: cfg.HTTPAddr, Handler: loggingMiddleware(authMiddleware.Wrap(mux), logger)}
	logger.Printf("http listening on %s", cfg.HTTPAddr)
	logger.Fatal(server.ListenAndServe())
}

func loggingMiddleware(next http.Handler, logger *log.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)
		resp := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(resp, r)
		elapsed := time.Since(start)
		metrics.ObserveHTTPRequest(r.Method, resp.status, elapsed)
		logger.Printf("http %s %s %d %s request=%s", r.Method, r.URL.Path, resp.status, elapsed, requestID)
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
