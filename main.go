package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/cors"

	"matchup-engine/mlb"
	"matchup-engine/statcast"
)

type Server struct {
	db         *pgxpool.Pool
	store      *statcast.Store
	mlb        *mlb.Service
	router     *mux.Router
	httpServer *http.Server
	config     *Config
}

type Config struct {
	Port       string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	MLBAPIURL  string
	Season     int
}

func NewConfig() *Config {
	season := time.Now().Year()
	if seasonStr := getEnv("SEASON", ""); seasonStr != "" {
		if parsed, err := strconv.Atoi(seasonStr); err == nil {
			season = parsed
		}
	}

	return &Config{
		Port:       getEnv("PORT", "8080"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "matchup_user"),
		DBPassword: getEnv("DB_PASSWORD", "matchup_pass"),
		DBName:     getEnv("DB_NAME", "statcast"),
		MLBAPIURL:  getEnv("MLB_API_URL", "https://statsapi.mlb.com/api/v1"),
		Season:     season,
	}
}

func NewServer(config *Config) (*Server, error) {
	// Database connection
	dbURL := fmt.Sprintf("postgresql://%s:%s@%s:%s/%s",
		config.DBUser, config.DBPassword, config.DBHost, config.DBPort, config.DBName)

	dbConfig, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse db config: %w", err)
	}

	// Connection pool settings
	dbConfig.MaxConns = 25
	dbConfig.MinConns = 5
	dbConfig.MaxConnLifetime = time.Hour
	dbConfig.MaxConnIdleTime = time.Minute * 30

	db, err := pgxpool.NewWithConfig(context.Background(), dbConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Test connection
	if err := db.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &Server{
		db:     db,
		store:  statcast.NewStore(db),
		mlb:    mlb.NewServiceWithBaseURL(config.MLBAPIURL),
		config: config,
		router: mux.NewRouter(),
	}

	s.setupRoutes()
	return s, nil
}

func (s *Server) setupRoutes() {
	// Root endpoint for API documentation
	s.router.HandleFunc("/", s.rootHandler).Methods("GET")

	// Health check outside the version prefix for load balancers
	s.router.HandleFunc("/health", s.healthHandler).Methods("GET")

	// API version prefix
	api := s.router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/health", s.healthHandler).Methods("GET")

	// Pitcher endpoints
	api.HandleFunc("/pitchers/lookup/{last_name}/{first_name}", s.lookupPitcherHandler).Methods("GET")
	api.HandleFunc("/pitchers/{id}", s.getPitcherHandler).Methods("GET")
	api.HandleFunc("/pitchers/{id}/attack-pitch", s.getAttackPitchHandler).Methods("GET")

	// Batter endpoints. Batch goes first so mux doesn't capture the
	// literal "batch" as an ID.
	api.HandleFunc("/batters/batch", s.batterBatchHandler).Methods("POST")
	api.HandleFunc("/batters/lookup/{last_name}/{first_name}", s.lookupBatterHandler).Methods("GET")
	api.HandleFunc("/batters/{id}", s.getBatterHandler).Methods("GET")
	api.HandleFunc("/batters/{id}/vs-pitch/{pitch_type}", s.getBatterVsPitchHandler).Methods("GET")

	// Player search
	api.HandleFunc("/players/search", s.searchPlayersHandler).Methods("GET")

	// Games endpoints
	api.HandleFunc("/games/today", s.getTodaysGamesHandler).Methods("GET")
	api.HandleFunc("/games/schedule/{date}", s.getScheduleHandler).Methods("GET")
	api.HandleFunc("/games/{id}/matchups", s.getGameMatchupsHandler).Methods("GET")

	// Prediction endpoint
	api.HandleFunc("/matchups/predict", s.predictMatchupHandler).Methods("POST")

	// Metrics endpoint
	api.HandleFunc("/metrics", s.handleMetrics).Methods("GET")

	// Apply middleware
	s.router.Use(s.loggingMiddleware)
	s.router.Use(s.recoveryMiddleware)
}

func (s *Server) Start() error {
	// Setup CORS
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"http://localhost:3000", "http://localhost:8080"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
		MaxAge:         86400,
	})

	handler := handlers.CompressHandler(c.Handler(s.router))

	s.httpServer = &http.Server{
		Addr:         ":" + s.config.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Printf("Starting matchup engine on port %s (season %d)", s.config.Port, s.config.Season)
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	log.Println("Shutting down matchup engine...")

	// Close database connection
	if s.db != nil {
		s.db.Close()
	}

	// Shutdown HTTP server
	return s.httpServer.Shutdown(ctx)
}

// Middleware
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		lrw := &loggingResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(lrw, r)

		duration := time.Since(start)
		appMetrics.IncrementRequests()
		appMetrics.AddResponseTime(duration)
		if lrw.statusCode >= http.StatusInternalServerError {
			appMetrics.IncrementErrors()
		}
		log.Printf("%s %s %d %v", r.Method, r.RequestURI, lrw.statusCode, duration)
	})
}

func (s *Server) recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				log.Printf("Panic recovered: %v", err)
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func main() {
	config := NewConfig()

	server, err := NewServer(config)
	if err != nil {
		log.Fatal("Failed to create server:", err)
	}

	server.store.StartCacheCleanup()
	server.mlb.StartCacheCleanup()

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			log.Fatal("Server shutdown failed:", err)
		}
		log.Println("Server shutdown complete")
	}()

	if err := server.Start(); err != nil && err != http.ErrServerClosed {
		log.Fatal("Server failed to start:", err)
	}
}
