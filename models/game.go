package models

// GameSummary is one scheduled game with probable pitchers
type GameSummary struct {
	GameID      string `json:"game_id"`
	GameDate    string `json:"game_date"`
	HomeTeam    string `json:"home_team"`
	AwayTeam    string `json:"away_team"`
	HomePitcher string `json:"home_pitcher,omitempty"`
	AwayPitcher string `json:"away_pitcher,omitempty"`
}

// LineupPlayer is one slot in a team's batting order
type LineupPlayer struct {
	BatterID     int    `json:"batter_id"`
	Name         string `json:"name"`
	BattingOrder int    `json:"batting_order"`
	Position     string `json:"position,omitempty"`
}

// TeamLineup is a team's starting pitcher and batting order for a game
type TeamLineup struct {
	TeamID              int            `json:"team_id"`
	TeamName            string         `json:"team_name"`
	TeamAbbrev          string         `json:"team_abbrev"`
	StartingPitcherID   int            `json:"starting_pitcher_id,omitempty"`
	StartingPitcherName string         `json:"starting_pitcher_name,omitempty"`
	Lineup              []LineupPlayer `json:"lineup"`
}

// Game is a single game with both lineups resolved
type Game struct {
	GameID   string     `json:"game_id"`
	GameDate string     `json:"game_date,omitempty"`
	Venue    string     `json:"venue,omitempty"`
	HomeTeam TeamLineup `json:"home_team"`
	AwayTeam TeamLineup `json:"away_team"`
	Status   string     `json:"status,omitempty"`
}

// PlayerInfo is the roster-level view of a player
type PlayerInfo struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Team      string `json:"team,omitempty"`
	TeamID    int    `json:"team_id,omitempty"`
	Position  string `json:"position,omitempty"`
	Bats      string `json:"bats,omitempty"`
	Throws    string `json:"throws,omitempty"`
}
