package main

import (
	"net/http"
	"os"
	"strings"
	"time"

	"route-surface-service/internal/adapters/ors"
	"route-surface-service/internal/adapters/repositories"
	"route-surface-service/internal/api"
	"route-surface-service/internal/platform/db"
	"route-surface-service/internal/ports"
	"route-surface-service/internal/services"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// main is the application composition root.
// It wires the ORS client and optional Postgres persistence behind ports
// and starts the HTTP server.
func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	if err := godotenv.Load(); err != nil {
		logger.Info("No .env file found (using environment variables)")
	}

	if level, err := logrus.ParseLevel(getEnv("LOG_LEVEL", "info")); err == nil {
		logger.SetLevel(level)
	}

	port := getEnv("PORT", "8080")
	databaseURL := os.Getenv("DATABASE_URL")

	orsKey := os.Getenv("ORS_API_KEY")
	if strings.TrimSpace(orsKey) == "" {
		logger.Fatal("ORS_API_KEY is required")
	}

	client, err := ors.NewClient(ors.Config{
		APIKey:            orsKey,
		BaseURL:           os.Getenv("ORS_BASE_URL"),
		DirectionsProfile: os.Getenv("ORS_DIRECTIONS_PROFILE"),
	}, logger)
	if err != nil {
		logger.Fatal(err)
	}

	// Persistence is optional: without DATABASE_URL computed plans are
	// returned to the caller but not stored.
	var repo ports.PlanRepository
	if databaseURL != "" {
		pool, err := db.Open(databaseURL)
		if err != nil {
			logger.Fatal(err)
		}
		defer pool.Close()

		if err := repositories.InitSchema(pool); err != nil {
			logger.Fatal(err)
		}

		repo = repositories.NewPostgresPlanRepository(pool)
		logger.Info("plan persistence enabled")
	} else {
		logger.Info("DATABASE_URL not set, plan persistence disabled")
	}

	planner := services.NewPlanner(client, client, logger)
	router := api.NewRouter(planner, repo, logger)

	// Timeouts are tuned for the two sequential external service calls
	// a single planning request makes.
	logger.WithField("addr", ":"+port).Info("server listening")
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      180 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	logger.Fatal(srv.ListenAndServe())
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
