package statcast

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v5"

	"matchup-engine/models"
)

const (
	// Minimum pitches before a pitcher's pitch type is profiled
	minPitchesPerType = 50

	// Minimum pitches seen before a batter's vs-pitch split is profiled
	minPitchesSeen = 20

	// Cache duration for aggregated profiles
	profileCacheTTL = time.Hour
)

// DB is the subset of pgxpool.Pool the store uses. Narrowed so tests
// can substitute a pgxmock pool.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

// Store aggregates pitch-level Statcast rows into the profile shapes
// the scoring engine consumes. Aggregation runs once per player per
// season and is cached.
type Store struct {
	db     DB
	cache  *profileCache
	hits   atomic.Int64
	misses atomic.Int64
}

// NewStore creates a Statcast profile store
func NewStore(db DB) *Store {
	return &Store{
		db:    db,
		cache: newProfileCache(profileCacheTTL),
	}
}

// Ping verifies database connectivity
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// StartCacheCleanup starts a background goroutine that evicts expired
// profile entries.
func (s *Store) StartCacheCleanup() {
	go func() {
		ticker := time.NewTicker(15 * time.Minute)
		defer ticker.Stop()

		for range ticker.C {
			removed := s.cache.CleanExpired()
			if removed > 0 {
				log.Printf("Profile cache cleaned: %d entries evicted", removed)
			}
		}
	}()
}

// CacheStats reports profile-cache hits, misses and live entry count
func (s *Store) CacheStats() (hits, misses int64, size int) {
	return s.hits.Load(), s.misses.Load(), s.cache.Len()
}

// PitcherProfiles returns one PitchProfile per pitch type the pitcher
// threw at least minPitchesPerType times in the season. An empty slice
// means the pitcher has no usable data, which the engine treats as
// "no prediction".
func (s *Store) PitcherProfiles(ctx context.Context, pitcherID, season int) ([]models.PitchProfile, error) {
	cacheKey := fmt.Sprintf("pitcher_%d_%d", pitcherID, season)
	if cached, ok := s.cache.GetPitches(cacheKey); ok {
		s.hits.Add(1)
		return cached, nil
	}
	s.misses.Add(1)

	query := `
		SELECT pitch_type,
		       COUNT(*) AS pitches,
		       SUM(delta_run_exp) AS run_value,
		       COUNT(*) FILTER (WHERE event = 'home_run') AS home_runs,
		       COUNT(event) AS events,
		       MAX(pitcher_name) AS pitcher_name
		FROM statcast_pitches
		WHERE pitcher_id = $1 AND season = $2 AND pitch_type IS NOT NULL
		GROUP BY pitch_type
		ORDER BY pitches DESC`

	rows, err := s.db.Query(ctx, query, pitcherID, season)
	if err != nil {
		return nil, fmt.Errorf("failed to query pitcher %d: %w", pitcherID, err)
	}
	defer rows.Close()

	type pitchGroup struct {
		pitchType models.PitchType
		pitches   int64
		runValue  *float64
		homeRuns  int64
		events    int64
		name      string
	}

	var groups []pitchGroup
	var totalPitches int64

	for rows.Next() {
		var code string
		var g pitchGroup
		if err := rows.Scan(&code, &g.pitches, &g.runValue, &g.homeRuns, &g.events, &g.name); err != nil {
			return nil, fmt.Errorf("failed to scan pitch group: %w", err)
		}

		// Usage is a share of everything thrown, including pitch types
		// that end up below the profiling threshold.
		totalPitches += g.pitches

		pt, err := models.ParsePitchType(code)
		if err != nil {
			// Bad record at the boundary: drop it, keep the rest.
			log.Printf("Skipping pitcher %d pitch group: %v", pitcherID, err)
			continue
		}
		g.pitchType = pt
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read pitch groups: %w", err)
	}

	var profiles []models.PitchProfile
	for _, g := range groups {
		if g.pitches < minPitchesPerType {
			continue
		}

		profile := models.PitchProfile{
			PitcherID:   pitcherID,
			PitcherName: g.name,
			PitchType:   g.pitchType,
			PitchName:   g.pitchType.Name(),
			Usage:       float64(g.pitches) / float64(totalPitches),
		}
		if g.runValue != nil {
			profile.RunValue = *g.runValue
		}
		if g.events > 0 {
			rate := float64(g.homeRuns) / float64(g.pitches)
			profile.HRRate = &rate
		}
		profiles = append(profiles, profile)
	}

	s.cache.SetPitches(cacheKey, profiles)
	return profiles, nil
}

// BatterProfiles returns one BatterVsPitchProfile per pitch type the
// batter faced at least minPitchesSeen times in the season.
func (s *Store) BatterProfiles(ctx context.Context, batterID, season int) ([]models.BatterVsPitchProfile, error) {
	cacheKey := fmt.Sprintf("batter_%d_%d", batterID, season)
	if cached, ok := s.cache.GetBatters(cacheKey); ok {
		s.hits.Add(1)
		return cached, nil
	}
	s.misses.Add(1)

	query := `
		SELECT pitch_type,
		       COUNT(*) AS pitches_seen,
		       SUM(delta_run_exp) AS run_value,
		       COUNT(*) FILTER (WHERE event = 'home_run') AS home_runs,
		       COUNT(event) AS events,
		       MAX(batter_name) AS batter_name,
		       MAX(batter_team) AS team,
		       MAX(stand) AS stand
		FROM statcast_pitches
		WHERE batter_id = $1 AND season = $2 AND pitch_type IS NOT NULL
		GROUP BY pitch_type
		ORDER BY pitches_seen DESC`

	rows, err := s.db.Query(ctx, query, batterID, season)
	if err != nil {
		return nil, fmt.Errorf("failed to query batter %d: %w", batterID, err)
	}
	defer rows.Close()

	var profiles []models.BatterVsPitchProfile
	for rows.Next() {
		var code, name, team, stand string
		var pitchesSeen, homeRuns, events int64
		var runValue *float64

		if err := rows.Scan(&code, &pitchesSeen, &runValue, &homeRuns, &events, &name, &team, &stand); err != nil {
			return nil, fmt.Errorf("failed to scan batter group: %w", err)
		}

		if pitchesSeen < minPitchesSeen {
			continue
		}

		pt, err := models.ParsePitchType(code)
		if err != nil {
			log.Printf("Skipping batter %d pitch group: %v", batterID, err)
			continue
		}

		profile := models.BatterVsPitchProfile{
			BatterID:   batterID,
			BatterName: name,
			Team:       team,
			Side:       models.ParseBattingSide(stand),
			PitchType:  pt,
			PitchName:  pt.Name(),
			SampleSize: int(pitchesSeen),
		}
		if runValue != nil {
			profile.RunValue = *runValue
		}
		if events > 0 {
			rate := float64(homeRuns) / float64(pitchesSeen)
			profile.HRRate = &rate
		}
		profiles = append(profiles, profile)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read batter groups: %w", err)
	}

	s.cache.SetBatters(cacheKey, profiles)
	return profiles, nil
}

// MatchupSnapshot materializes the immutable dataset for one scoring
// run: the pitcher's full mix plus every lineup batter's vs-pitch
// splits. Batters with no data contribute nothing rather than failing
// the snapshot.
func (s *Store) MatchupSnapshot(ctx context.Context, pitcherID int, batterIDs []int, season int) (models.Snapshot, error) {
	var snap models.Snapshot

	pitches, err := s.PitcherProfiles(ctx, pitcherID, season)
	if err != nil {
		return models.Snapshot{}, err
	}
	snap.Pitches = pitches

	for _, batterID := range batterIDs {
		batters, err := s.BatterProfiles(ctx, batterID, season)
		if err != nil {
			return models.Snapshot{}, err
		}
		snap.Batters = append(snap.Batters, batters...)
	}

	return snap, nil
}
