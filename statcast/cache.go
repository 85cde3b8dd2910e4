package statcast

import (
	"sync"
	"time"

	"matchup-engine/models"
)

// profileCache stores aggregated profiles with expiration so repeated
// matchup requests don't re-run the aggregation queries.
type profileCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	pitches map[string]*cachedPitches
	batters map[string]*cachedBatters
}

type cachedPitches struct {
	profiles  []models.PitchProfile
	expiresAt time.Time
}

type cachedBatters struct {
	profiles  []models.BatterVsPitchProfile
	expiresAt time.Time
}

func newProfileCache(ttl time.Duration) *profileCache {
	return &profileCache{
		ttl:     ttl,
		pitches: make(map[string]*cachedPitches),
		batters: make(map[string]*cachedBatters),
	}
}

func (c *profileCache) GetPitches(key string) ([]models.PitchProfile, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if cached, ok := c.pitches[key]; ok && time.Now().Before(cached.expiresAt) {
		return cached.profiles, true
	}
	return nil, false
}

func (c *profileCache) SetPitches(key string, profiles []models.PitchProfile) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.pitches[key] = &cachedPitches{
		profiles:  profiles,
		expiresAt: time.Now().Add(c.ttl),
	}
}

func (c *profileCache) GetBatters(key string) ([]models.BatterVsPitchProfile, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if cached, ok := c.batters[key]; ok && time.Now().Before(cached.expiresAt) {
		return cached.profiles, true
	}
	return nil, false
}

func (c *profileCache) SetBatters(key string, profiles []models.BatterVsPitchProfile) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.batters[key] = &cachedBatters{
		profiles:  profiles,
		expiresAt: time.Now().Add(c.ttl),
	}
}

// CleanExpired removes expired entries and reports how many were evicted
func (c *profileCache) CleanExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	removed := 0
	for key, cached := range c.pitches {
		if now.After(cached.expiresAt) {
			delete(c.pitches, key)
			removed++
		}
	}
	for key, cached := range c.batters {
		if now.After(cached.expiresAt) {
			delete(c.batters, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of live cache entries for monitoring
func (c *profileCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.pitches) + len(c.batters)
}
