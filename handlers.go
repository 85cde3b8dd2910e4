package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"matchup-engine/models"
	"matchup-engine/scoring"
)

func (s *Server) rootHandler(w http.ResponseWriter, r *http.Request) {
	apiInfo := map[string]interface{}{
		"service": "HR Matchup Engine",
		"version": "1.0.0",
		"status":  "online",
		"time":    time.Now().UTC(),
		"endpoints": map[string]interface{}{
			"health":   "/api/v1/health",
			"pitchers": "/api/v1/pitchers/{id}",
			"batters":  "/api/v1/batters/{id}",
			"games":    "/api/v1/games/today",
			"predict":  "/api/v1/matchups/predict",
			"metrics":  "/api/v1/metrics",
		},
	}

	ctx, cancel := contextWithTimeout(r.Context())
	defer cancel()

	if err := s.store.Ping(ctx); err != nil {
		apiInfo["status"] = "degraded"
		apiInfo["database"] = "disconnected"
	} else {
		apiInfo["database"] = "connected"
	}

	writeJSON(w, apiInfo)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	health := map[string]interface{}{
		"status":   "healthy",
		"time":     time.Now().UTC(),
		"database": "connected",
	}

	ctx, cancel := contextWithTimeout(r.Context())
	defer cancel()

	if err := s.store.Ping(ctx); err != nil {
		health["database"] = "disconnected"
		health["status"] = "unhealthy"
		// Content-Type must be set before the status line goes out
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	writeJSON(w, health)
}

// Pitcher handlers
func (s *Server) getPitcherHandler(w http.ResponseWriter, r *http.Request) {
	pitcherID, ok := parsePlayerID(mux.Vars(r)["id"])
	if !ok {
		writeError(w, "Invalid pitcher ID", http.StatusBadRequest)
		return
	}
	season := parseSeason(r, s.config.Season)

	ctx, cancel := contextWithTimeout(r.Context())
	defer cancel()

	pitches, err := s.store.PitcherProfiles(ctx, pitcherID, season)
	if err != nil {
		log.Printf("Failed to load pitcher %d: %v", pitcherID, err)
		writeError(w, "Failed to load pitcher profile", http.StatusInternalServerError)
		return
	}
	if len(pitches) == 0 {
		writeError(w, "No pitch data for pitcher", http.StatusNotFound)
		return
	}

	writeJSON(w, PitcherProfileResponse{
		PitcherID:   pitcherID,
		PitcherName: pitches[0].PitcherName,
		Season:      season,
		Pitches:     pitches,
	})
}

func (s *Server) getAttackPitchHandler(w http.ResponseWriter, r *http.Request) {
	pitcherID, ok := parsePlayerID(mux.Vars(r)["id"])
	if !ok {
		writeError(w, "Invalid pitcher ID", http.StatusBadRequest)
		return
	}
	season := parseSeason(r, s.config.Season)

	ctx, cancel := contextWithTimeout(r.Context())
	defer cancel()

	pitches, err := s.store.PitcherProfiles(ctx, pitcherID, season)
	if err != nil {
		log.Printf("Failed to load pitcher %d: %v", pitcherID, err)
		writeError(w, "Failed to load pitcher profile", http.StatusInternalServerError)
		return
	}

	attack, found := scoring.SelectAttackPitch(pitches)
	if !found {
		writeError(w, "No pitch data for pitcher", http.StatusNotFound)
		return
	}

	writeJSON(w, AttackPitchResponse{
		PitcherID:   pitcherID,
		Season:      season,
		AttackPitch: attack,
	})
}

// Batter handlers
func (s *Server) getBatterHandler(w http.ResponseWriter, r *http.Request) {
	batterID, ok := parsePlayerID(mux.Vars(r)["id"])
	if !ok {
		writeError(w, "Invalid batter ID", http.StatusBadRequest)
		return
	}
	season := parseSeason(r, s.config.Season)

	ctx, cancel := contextWithTimeout(r.Context())
	defer cancel()

	profiles, err := s.store.BatterProfiles(ctx, batterID, season)
	if err != nil {
		log.Printf("Failed to load batter %d: %v", batterID, err)
		writeError(w, "Failed to load batter profile", http.StatusInternalServerError)
		return
	}
	if len(profiles) == 0 {
		writeError(w, "No pitch data for batter", http.StatusNotFound)
		return
	}

	writeJSON(w, BatterProfileResponse{
		BatterID: batterID,
		Season:   season,
		Profiles: profiles,
	})
}

func (s *Server) getBatterVsPitchHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	batterID, ok := parsePlayerID(vars["id"])
	if !ok {
		writeError(w, "Invalid batter ID", http.StatusBadRequest)
		return
	}
	pt, err := models.ParsePitchType(vars["pitch_type"])
	if err != nil {
		writeError(w, "Unknown pitch type", http.StatusBadRequest)
		return
	}
	season := parseSeason(r, s.config.Season)

	ctx, cancel := contextWithTimeout(r.Context())
	defer cancel()

	profiles, err := s.store.BatterProfiles(ctx, batterID, season)
	if err != nil {
		log.Printf("Failed to load batter %d: %v", batterID, err)
		writeError(w, "Failed to load batter profile", http.StatusInternalServerError)
		return
	}
	for _, profile := range profiles {
		if profile.PitchType == pt {
			writeJSON(w, profile)
			return
		}
	}

	writeError(w, fmt.Sprintf("No data for batter %d vs %s", batterID, pt), http.StatusNotFound)
}

func (s *Server) batterBatchHandler(w http.ResponseWriter, r *http.Request) {
	var req BatterBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if len(req.BatterIDs) == 0 {
		writeError(w, "batter_ids is required", http.StatusBadRequest)
		return
	}

	season := req.Season
	if season == 0 {
		season = s.config.Season
	}

	ctx, cancel := contextWithTimeout(r.Context())
	defer cancel()

	result := make(map[int][]models.BatterVsPitchProfile, len(req.BatterIDs))
	for _, batterID := range req.BatterIDs {
		profiles, err := s.store.BatterProfiles(ctx, batterID, season)
		if err != nil {
			log.Printf("Failed to load batter %d: %v", batterID, err)
			writeError(w, "Failed to load batter profiles", http.StatusInternalServerError)
			return
		}
		result[batterID] = profiles
	}

	writeJSON(w, result)
}

// Player lookup and search handlers
func (s *Server) lookupPitcherHandler(w http.ResponseWriter, r *http.Request) {
	s.lookupPlayer(w, r, "pitcher_id")
}

func (s *Server) lookupBatterHandler(w http.ResponseWriter, r *http.Request) {
	s.lookupPlayer(w, r, "batter_id")
}

// lookupPlayer resolves a name to an MLBAM ID. The response ID key
// differs per route so clients can feed it straight into the matching
// profile endpoint.
func (s *Server) lookupPlayer(w http.ResponseWriter, r *http.Request, idKey string) {
	vars := mux.Vars(r)
	firstName := vars["first_name"]
	lastName := vars["last_name"]
	season := parseSeason(r, s.config.Season)

	playerID, err := s.mlb.LookupPlayerID(r.Context(), firstName, lastName, season)
	if err != nil {
		log.Printf("Failed to look up %s %s: %v", firstName, lastName, err)
		writeError(w, "Failed to look up player", http.StatusBadGateway)
		return
	}
	if playerID == 0 {
		writeError(w, fmt.Sprintf("Player %s %s not found", firstName, lastName), http.StatusNotFound)
		return
	}

	// Prefer the roster-canonical spelling when available
	name := firstName + " " + lastName
	if info, err := s.mlb.PlayerInfo(r.Context(), playerID); err == nil {
		name = info.Name
	}

	writeJSON(w, map[string]interface{}{idKey: playerID, "name": name})
}

func (s *Server) searchPlayersHandler(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if len(query) < 2 {
		writeError(w, "Query must be at least 2 characters", http.StatusBadRequest)
		return
	}
	season := parseSeason(r, s.config.Season)

	results, err := s.mlb.SearchPlayers(r.Context(), query, season)
	if err != nil {
		log.Printf("Failed to search players for %q: %v", query, err)
		writeError(w, "Failed to search players", http.StatusBadGateway)
		return
	}

	writeJSON(w, results)
}

// Games handlers
func (s *Server) getTodaysGamesHandler(w http.ResponseWriter, r *http.Request) {
	games, err := s.mlb.TodaysGames(r.Context())
	if err != nil {
		log.Printf("Failed to fetch today's games: %v", err)
		writeError(w, "Failed to fetch schedule", http.StatusBadGateway)
		return
	}
	writeJSON(w, games)
}

func (s *Server) getScheduleHandler(w http.ResponseWriter, r *http.Request) {
	gameDate, err := time.Parse("2006-01-02", mux.Vars(r)["date"])
	if err != nil {
		writeError(w, "Invalid date, expected YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	games, err := s.mlb.GamesForDate(r.Context(), gameDate)
	if err != nil {
		log.Printf("Failed to fetch schedule: %v", err)
		writeError(w, "Failed to fetch schedule", http.StatusBadGateway)
		return
	}
	writeJSON(w, games)
}

func (s *Server) getGameMatchupsHandler(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["id"]
	if gameID == "" {
		writeError(w, "Game ID is required", http.StatusBadRequest)
		return
	}

	game, found, err := s.mlb.GameWithLineups(r.Context(), gameID)
	if err != nil {
		log.Printf("Failed to fetch game %s: %v", gameID, err)
		writeError(w, "Failed to fetch game", http.StatusBadGateway)
		return
	}
	if !found {
		writeError(w, "No lineup data for game", http.StatusNotFound)
		return
	}

	writeJSON(w, GameMatchupsResponse{
		Game: game,
		Home: MatchupLineup{
			OpposingPitcherID:   game.AwayTeam.StartingPitcherID,
			OpposingPitcherName: game.AwayTeam.StartingPitcherName,
			BatterIDs:           lineupBatterIDs(game.HomeTeam),
		},
		Away: MatchupLineup{
			OpposingPitcherID:   game.HomeTeam.StartingPitcherID,
			OpposingPitcherName: game.HomeTeam.StartingPitcherName,
			BatterIDs:           lineupBatterIDs(game.AwayTeam),
		},
	})
}

func lineupBatterIDs(team models.TeamLineup) []int {
	ids := make([]int, 0, len(team.Lineup))
	for _, slot := range team.Lineup {
		ids = append(ids, slot.BatterID)
	}
	return ids
}

// Prediction handler
func (s *Server) predictMatchupHandler(w http.ResponseWriter, r *http.Request) {
	var req MatchupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.PitcherID <= 0 {
		writeError(w, "pitcher_id is required", http.StatusBadRequest)
		return
	}
	if len(req.BatterIDs) == 0 {
		writeError(w, "batter_ids is required", http.StatusBadRequest)
		return
	}

	season := req.Season
	if season == 0 {
		season = s.config.Season
	}

	cfg := models.DefaultScoringConfig()
	if req.UseHRFactors != nil {
		cfg.UseHRFactors = *req.UseHRFactors
	}
	if req.MinSampleSize != nil && *req.MinSampleSize >= 0 {
		cfg.MinSampleSize = *req.MinSampleSize
	}

	ctx, cancel := contextWithTimeout(r.Context())
	defer cancel()

	snap, err := s.store.MatchupSnapshot(ctx, req.PitcherID, req.BatterIDs, season)
	if err != nil {
		log.Printf("Failed to build snapshot for pitcher %d: %v", req.PitcherID, err)
		writeError(w, "Failed to load matchup data", http.StatusInternalServerError)
		return
	}

	base := scoring.ComputeLeagueBaselines(snap)
	predictions := scoring.RankLineup(req.BatterIDs, req.PitcherID, snap, base, cfg)
	if predictions == nil {
		// Thin data means an empty ranking, never an error
		predictions = []models.Prediction{}
	}

	var pitcherName string
	if pitches := snap.PitcherPitches(req.PitcherID); len(pitches) > 0 {
		pitcherName = pitches[0].PitcherName
	}

	writeJSON(w, MatchupResponse{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Season:      season,
		PitcherID:   req.PitcherID,
		PitcherName: pitcherName,
		Baselines:   base,
		Predictions: predictions,
	})
}
