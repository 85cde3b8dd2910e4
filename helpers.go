package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"
)

// writeJSON writes a JSON response
func writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// writeError writes an error response
func writeError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(APIError{Error: message}); err != nil {
		log.Printf("Error encoding JSON: %v", err)
	}
}

// getEnv reads an environment variable with a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// contextWithTimeout wraps a request context with the standard handler
// deadline.
func contextWithTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, 10*time.Second)
}

// parsePlayerID extracts a positive integer player ID from a path var
func parsePlayerID(raw string) (int, bool) {
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// parseSeason reads the season query parameter, falling back to the
// configured default.
func parseSeason(r *http.Request, defaultSeason int) int {
	if seasonStr := r.URL.Query().Get("season"); seasonStr != "" {
		if season, err := strconv.Atoi(seasonStr); err == nil && season > 1900 {
			return season
		}
	}
	return defaultSeason
}

// loggingResponseWriter captures the status code for request logging
type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}
