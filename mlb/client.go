package mlb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"matchup-engine/models"
)

const (
	// MLB Stats API endpoint. Free, no authentication required.
	defaultBaseURL = "https://statsapi.mlb.com/api/v1"

	// Cache duration for schedules and lineups. Short because lineups
	// change up until first pitch.
	cacheDuration = 15 * time.Minute

	// Timeout for API requests
	requestTimeout = 30 * time.Second

	// The API accepts roughly 50 comma-separated person IDs per request
	maxPlayersPerBatch = 50

	// Name searches return at most this many matches
	maxSearchResults = 20
)

// teamAbbrevs maps MLB team IDs to the abbreviations used in Statcast data
var teamAbbrevs = map[int]string{
	108: "LAA", 109: "ARI", 110: "BAL", 111: "BOS", 112: "CHC",
	113: "CIN", 114: "CLE", 115: "COL", 116: "DET", 117: "HOU",
	118: "KC", 119: "LAD", 120: "WSH", 121: "NYM", 133: "OAK",
	134: "PIT", 135: "SD", 136: "SEA", 137: "SF", 138: "STL",
	139: "TB", 140: "TEX", 141: "TOR", 142: "MIN", 143: "PHI",
	144: "ATL", 145: "CWS", 146: "MIA", 147: "NYY", 158: "MIL",
}

// TeamAbbrev returns the Statcast abbreviation for an MLB team ID
func TeamAbbrev(teamID int) string {
	if abbrev, ok := teamAbbrevs[teamID]; ok {
		return abbrev
	}
	return "UNK"
}

// Service fetches schedules, lineups and player info from the MLB
// Stats API and caches the results.
type Service struct {
	baseURL    string
	httpClient *http.Client
	cache      *gameCache
}

// gameCache stores fetched schedule and lineup data with expiration
type gameCache struct {
	mu        sync.RWMutex
	schedules map[string]*cachedSchedule
	games     map[string]*cachedGame
}

type cachedSchedule struct {
	games     []models.GameSummary
	expiresAt time.Time
}

type cachedGame struct {
	game      models.Game
	expiresAt time.Time
}

// NewService creates a new MLB Stats API service
func NewService() *Service {
	return NewServiceWithBaseURL(defaultBaseURL)
}

// NewServiceWithBaseURL creates a service against a custom endpoint
func NewServiceWithBaseURL(baseURL string) *Service {
	return &Service{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
		cache: &gameCache{
			schedules: make(map[string]*cachedSchedule),
			games:     make(map[string]*cachedGame),
		},
	}
}

// scheduleResponse covers the fields we use from /schedule
type scheduleResponse struct {
	Dates []struct {
		Date  string `json:"date"`
		Games []struct {
			GamePk int `json:"gamePk"`
			Teams  struct {
				Home scheduleTeam `json:"home"`
				Away scheduleTeam `json:"away"`
			} `json:"teams"`
		} `json:"games"`
	} `json:"dates"`
}

type scheduleTeam struct {
	Team struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	} `json:"team"`
	ProbablePitcher *struct {
		ID       int    `json:"id"`
		FullName string `json:"fullName"`
	} `json:"probablePitcher"`
}

// TodaysGames returns the schedule for the current date
func (s *Service) TodaysGames(ctx context.Context) ([]models.GameSummary, error) {
	return s.GamesForDate(ctx, time.Now())
}

// GamesForDate returns the MLB schedule for a specific date with
// probable pitchers where announced.
func (s *Service) GamesForDate(ctx context.Context, gameDate time.Time) ([]models.GameSummary, error) {
	dateStr := gameDate.Format("2006-01-02")

	if cached, ok := s.cache.getSchedule(dateStr); ok {
		return cached, nil
	}

	params := url.Values{}
	params.Set("sportId", "1")
	params.Set("date", dateStr)
	params.Set("hydrate", "probablePitcher,team")

	var resp scheduleResponse
	if err := s.getJSON(ctx, "/schedule?"+params.Encode(), &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch schedule for %s: %w", dateStr, err)
	}

	games := []models.GameSummary{}
	for _, dateEntry := range resp.Dates {
		for _, g := range dateEntry.Games {
			summary := models.GameSummary{
				GameID:   strconv.Itoa(g.GamePk),
				GameDate: dateStr,
				HomeTeam: g.Teams.Home.Team.Name,
				AwayTeam: g.Teams.Away.Team.Name,
			}
			if g.Teams.Home.ProbablePitcher != nil {
				summary.HomePitcher = g.Teams.Home.ProbablePitcher.FullName
			}
			if g.Teams.Away.ProbablePitcher != nil {
				summary.AwayPitcher = g.Teams.Away.ProbablePitcher.FullName
			}
			games = append(games, summary)
		}
	}

	s.cache.setSchedule(dateStr, games)
	return games, nil
}

// boxscoreResponse covers the fields we use from /game/{id}/boxscore
type boxscoreResponse struct {
	Teams struct {
		Home boxscoreTeam `json:"home"`
		Away boxscoreTeam `json:"away"`
	} `json:"teams"`
}

type boxscoreTeam struct {
	Team struct {
		ID    int    `json:"id"`
		Name  string `json:"name"`
		Venue struct {
			Name string `json:"name"`
		} `json:"venue"`
	} `json:"team"`
	Players      map[string]boxscorePlayer `json:"players"`
	BattingOrder []int                     `json:"battingOrder"`
	Pitchers     []int                     `json:"pitchers"`
}

type boxscorePlayer struct {
	Person struct {
		ID       int    `json:"id"`
		FullName string `json:"fullName"`
	} `json:"person"`
	Position struct {
		Abbreviation string `json:"abbreviation"`
	} `json:"position"`
}

// liveFeedResponse is the fallback for games the boxscore endpoint
// doesn't cover yet. Unlike the boxscore it also carries game metadata.
type liveFeedResponse struct {
	GameData struct {
		Datetime struct {
			OfficialDate string `json:"officialDate"`
		} `json:"datetime"`
		Status struct {
			DetailedState string `json:"detailedState"`
		} `json:"status"`
	} `json:"gameData"`
	LiveData struct {
		Boxscore boxscoreResponse `json:"boxscore"`
	} `json:"liveData"`
}

// GameWithLineups returns a game with both batting orders and starting
// pitchers resolved. A false second return means the game has no lineup
// data yet, which is not an error.
func (s *Service) GameWithLineups(ctx context.Context, gameID string) (models.Game, bool, error) {
	if cached, ok := s.cache.getGame(gameID); ok {
		return cached, true, nil
	}

	var boxscore boxscoreResponse
	var gameDate, status string

	err := s.getJSON(ctx, "/game/"+gameID+"/boxscore", &boxscore)
	if err != nil {
		// Pre-game and in-progress games may only exist on the live feed
		log.Printf("Boxscore fetch failed for game %s: %v, trying live feed", gameID, err)

		var feed liveFeedResponse
		if feedErr := s.getJSON(ctx, "/game/"+gameID+"/feed/live", &feed); feedErr != nil {
			return models.Game{}, false, fmt.Errorf("failed to fetch game %s: %w", gameID, feedErr)
		}
		boxscore = feed.LiveData.Boxscore
		gameDate = feed.GameData.Datetime.OfficialDate
		status = feed.GameData.Status.DetailedState
	}

	home := buildTeamLineup(boxscore.Teams.Home)
	away := buildTeamLineup(boxscore.Teams.Away)
	if len(home.Lineup) == 0 && len(away.Lineup) == 0 {
		return models.Game{}, false, nil
	}

	// The boxscore endpoint carries no game metadata, so date and
	// status stay empty on that path rather than being guessed.
	game := models.Game{
		GameID:   gameID,
		GameDate: gameDate,
		Venue:    boxscore.Teams.Home.Team.Venue.Name,
		HomeTeam: home,
		AwayTeam: away,
		Status:   status,
	}

	s.cache.setGame(gameID, game)
	return game, true, nil
}

// buildTeamLineup extracts the top nine batting-order slots and the
// starting pitcher from one side of a boxscore.
func buildTeamLineup(team boxscoreTeam) models.TeamLineup {
	lineup := models.TeamLineup{
		TeamID:     team.Team.ID,
		TeamName:   team.Team.Name,
		TeamAbbrev: TeamAbbrev(team.Team.ID),
	}

	order := team.BattingOrder
	if len(order) > 9 {
		order = order[:9]
	}
	for i, batterID := range order {
		player := team.Players["ID"+strconv.Itoa(batterID)]
		lineup.Lineup = append(lineup.Lineup, models.LineupPlayer{
			BatterID:     batterID,
			Name:         player.Person.FullName,
			BattingOrder: i + 1,
			Position:     player.Position.Abbreviation,
		})
	}

	// The pitchers list is in order of appearance, so the first entry
	// is the starter.
	if len(team.Pitchers) > 0 {
		starterID := team.Pitchers[0]
		lineup.StartingPitcherID = starterID
		lineup.StartingPitcherName = team.Players["ID"+strconv.Itoa(starterID)].Person.FullName
	}

	return lineup
}

// peopleResponse covers the fields we use from /people
type peopleResponse struct {
	People []struct {
		ID          int    `json:"id"`
		FullName    string `json:"fullName"`
		FirstName   string `json:"firstName"`
		LastName    string `json:"lastName"`
		CurrentTeam struct {
			ID           int    `json:"id"`
			Name         string `json:"name"`
			Abbreviation string `json:"abbreviation"`
		} `json:"currentTeam"`
		PrimaryPosition struct {
			Abbreviation string `json:"abbreviation"`
		} `json:"primaryPosition"`
		BatSide struct {
			Code string `json:"code"`
		} `json:"batSide"`
		PitchHand struct {
			Code string `json:"code"`
		} `json:"pitchHand"`
	} `json:"people"`
}

// PlayerInfo returns roster details for one player
func (s *Service) PlayerInfo(ctx context.Context, playerID int) (models.PlayerInfo, error) {
	players, err := s.PlayersInfo(ctx, []int{playerID})
	if err != nil {
		return models.PlayerInfo{}, err
	}
	info, ok := players[playerID]
	if !ok {
		return models.PlayerInfo{}, fmt.Errorf("player %d not found", playerID)
	}
	return info, nil
}

// PlayersInfo returns roster details for multiple players in one
// request using the API's comma-separated ID support.
func (s *Service) PlayersInfo(ctx context.Context, playerIDs []int) (map[int]models.PlayerInfo, error) {
	result := make(map[int]models.PlayerInfo)
	if len(playerIDs) == 0 {
		return result, nil
	}

	for start := 0; start < len(playerIDs); start += maxPlayersPerBatch {
		end := start + maxPlayersPerBatch
		if end > len(playerIDs) {
			end = len(playerIDs)
		}

		ids := make([]string, 0, end-start)
		for _, id := range playerIDs[start:end] {
			ids = append(ids, strconv.Itoa(id))
		}

		var resp peopleResponse
		if err := s.getJSON(ctx, "/people?personIds="+strings.Join(ids, ","), &resp); err != nil {
			return nil, fmt.Errorf("failed to fetch players: %w", err)
		}

		for _, p := range resp.People {
			team := p.CurrentTeam.Abbreviation
			if team == "" {
				team = p.CurrentTeam.Name
			}
			result[p.ID] = models.PlayerInfo{
				ID:        p.ID,
				Name:      p.FullName,
				FirstName: p.FirstName,
				LastName:  p.LastName,
				Team:      team,
				TeamID:    p.CurrentTeam.ID,
				Position:  p.PrimaryPosition.Abbreviation,
				Bats:      p.BatSide.Code,
				Throws:    p.PitchHand.Code,
			}
		}
	}

	return result, nil
}

// SearchPlayers searches the season's player pool by name
func (s *Service) SearchPlayers(ctx context.Context, query string, season int) ([]models.PlayerInfo, error) {
	params := url.Values{}
	params.Set("season", strconv.Itoa(season))
	params.Set("search", query)

	var resp peopleResponse
	if err := s.getJSON(ctx, "/sports/1/players?"+params.Encode(), &resp); err != nil {
		return nil, fmt.Errorf("failed to search players: %w", err)
	}

	results := make([]models.PlayerInfo, 0, len(resp.People))
	for _, p := range resp.People {
		if len(results) == maxSearchResults {
			break
		}
		team := p.CurrentTeam.Abbreviation
		if team == "" {
			team = p.CurrentTeam.Name
		}
		results = append(results, models.PlayerInfo{
			ID:       p.ID,
			Name:     p.FullName,
			Team:     team,
			TeamID:   p.CurrentTeam.ID,
			Position: p.PrimaryPosition.Abbreviation,
			Bats:     p.BatSide.Code,
		})
	}
	return results, nil
}

// LookupPlayerID resolves a player's MLBAM ID by name. Several players
// can share a name, so the highest ID wins as the most recent entrant.
// A zero ID means no match, which is not an error.
func (s *Service) LookupPlayerID(ctx context.Context, firstName, lastName string, season int) (int, error) {
	query := strings.TrimSpace(firstName + " " + lastName)
	matches, err := s.SearchPlayers(ctx, query, season)
	if err != nil {
		return 0, err
	}

	playerID := 0
	for _, m := range matches {
		if m.ID > playerID {
			playerID = m.ID
		}
	}
	return playerID, nil
}

// getJSON performs a GET against the API and decodes the response body
func (s *Service) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// StartCacheCleanup starts a background goroutine that evicts expired
// schedule and lineup entries.
func (s *Service) StartCacheCleanup() {
	go func() {
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()

		for range ticker.C {
			removed := s.cache.cleanExpired()
			if removed > 0 {
				log.Printf("MLB cache cleaned: %d entries evicted", removed)
			}
		}
	}()
}

func (c *gameCache) getSchedule(key string) ([]models.GameSummary, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if cached, ok := c.schedules[key]; ok && time.Now().Before(cached.expiresAt) {
		return cached.games, true
	}
	return nil, false
}

func (c *gameCache) setSchedule(key string, games []models.GameSummary) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.schedules[key] = &cachedSchedule{
		games:     games,
		expiresAt: time.Now().Add(cacheDuration),
	}
}

func (c *gameCache) getGame(key string) (models.Game, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if cached, ok := c.games[key]; ok && time.Now().Before(cached.expiresAt) {
		return cached.game, true
	}
	return models.Game{}, false
}

func (c *gameCache) setGame(key string, game models.Game) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.games[key] = &cachedGame{
		game:      game,
		expiresAt: time.Now().Add(cacheDuration),
	}
}

func (c *gameCache) cleanExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	removed := 0
	for key, cached := range c.schedules {
		if now.After(cached.expiresAt) {
			delete(c.schedules, key)
			removed++
		}
	}
	for key, cached := range c.games {
		if now.After(cached.expiresAt) {
			delete(c.games, key)
			removed++
		}
	}
	return removed
}
