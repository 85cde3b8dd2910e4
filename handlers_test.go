package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matchup-engine/mlb"
	"matchup-engine/statcast"
)

func newTestServer(t *testing.T, mlbBaseURL string) (*Server, pgxmock.PgxPoolIface) {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	if mlbBaseURL == "" {
		mlbBaseURL = "http://unused.invalid"
	}

	s := &Server{
		store:  statcast.NewStore(mock),
		mlb:    mlb.NewServiceWithBaseURL(mlbBaseURL),
		config: &Config{Port: "8080", Season: 2025},
		router: mux.NewRouter(),
	}
	s.setupRoutes()
	return s, mock
}

func fptr(v float64) *float64 { return &v }

func pitcherRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{"pitch_type", "pitches", "run_value", "home_runs", "events", "pitcher_name"}).
		AddRow("FF", int64(450), fptr(2.0), int64(13), int64(120), "Ace Starter").
		AddRow("SL", int64(350), fptr(-4.0), int64(21), int64(90), "Ace Starter").
		AddRow("CU", int64(200), fptr(-6.0), int64(2), int64(50), "Ace Starter")
}

// TestHealthHandler tests the health endpoint with a reachable pool
func TestHealthHandler(t *testing.T) {
	s, mock := newTestServer(t, "")
	mock.ExpectPing()

	req := httptest.NewRequest("GET", "/api/v1/health", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var health map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, "healthy", health["status"])
	assert.Equal(t, "connected", health["database"])
}

// TestHealthHandlerDatabaseDown tests the unhealthy path
func TestHealthHandlerDatabaseDown(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	mock.ExpectPing().WillReturnError(assert.AnError)

	s := &Server{
		store:  statcast.NewStore(mock),
		mlb:    mlb.NewServiceWithBaseURL("http://unused.invalid"),
		config: &Config{Port: "8080", Season: 2025},
		router: mux.NewRouter(),
	}
	s.setupRoutes()

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	// The JSON content type must survive the early status write
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var health map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, "unhealthy", health["status"])
	assert.Equal(t, "disconnected", health["database"])
}

// TestGetPitcherHandler tests the pitch-mix endpoint
func TestGetPitcherHandler(t *testing.T) {
	s, mock := newTestServer(t, "")

	mock.ExpectQuery("SELECT pitch_type").
		WithArgs(1, 2025).
		WillReturnRows(pitcherRows())

	req := httptest.NewRequest("GET", "/api/v1/pitchers/1", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp PitcherProfileResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.PitcherID)
	assert.Equal(t, "Ace Starter", resp.PitcherName)
	assert.Equal(t, 2025, resp.Season)
	assert.Len(t, resp.Pitches, 3)
}

// TestGetPitcherHandlerNotFound tests the no-data case
func TestGetPitcherHandlerNotFound(t *testing.T) {
	s, mock := newTestServer(t, "")

	empty := pgxmock.NewRows([]string{"pitch_type", "pitches", "run_value", "home_runs", "events", "pitcher_name"})
	mock.ExpectQuery("SELECT pitch_type").
		WithArgs(42, 2025).
		WillReturnRows(empty)

	req := httptest.NewRequest("GET", "/api/v1/pitchers/42", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

// TestGetPitcherHandlerBadID tests path-var validation
func TestGetPitcherHandlerBadID(t *testing.T) {
	s, _ := newTestServer(t, "")

	req := httptest.NewRequest("GET", "/api/v1/pitchers/abc", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// TestGetAttackPitchHandler tests attack-pitch selection over the wire
func TestGetAttackPitchHandler(t *testing.T) {
	s, mock := newTestServer(t, "")

	mock.ExpectQuery("SELECT pitch_type").
		WithArgs(1, 2025).
		WillReturnRows(pitcherRows())

	req := httptest.NewRequest("GET", "/api/v1/pitchers/1/attack-pitch", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp AttackPitchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	// Slider: in the two most-used pitches and the more negative of them
	assert.Equal(t, "SL", string(resp.AttackPitch.PitchType))
	assert.Equal(t, "Slider", resp.AttackPitch.PitchName)
}

// TestPredictMatchupHandler tests a full scoring run over the wire
func TestPredictMatchupHandler(t *testing.T) {
	s, mock := newTestServer(t, "")

	mock.ExpectQuery("SELECT pitch_type").
		WithArgs(1, 2025).
		WillReturnRows(pitcherRows())

	batterRows := pgxmock.NewRows([]string{"pitch_type", "pitches_seen", "run_value", "home_runs", "events", "batter_name", "team", "stand"}).
		AddRow("SL", int64(120), fptr(4.0), int64(9), int64(30), "Slugger", "NYY", "R")
	mock.ExpectQuery("SELECT pitch_type").
		WithArgs(10, 2025).
		WillReturnRows(batterRows)

	body := `{"pitcher_id": 1, "batter_ids": [10]}`
	req := httptest.NewRequest("POST", "/api/v1/matchups/predict", strings.NewReader(body))
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp MatchupResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.NotEmpty(t, resp.RunID)
	assert.Equal(t, 1, resp.PitcherID)
	assert.Equal(t, "Ace Starter", resp.PitcherName)
	require.Len(t, resp.Predictions, 1)

	p := resp.Predictions[0]
	assert.Equal(t, 10, p.BatterID)
	assert.Equal(t, "Slugger", p.BatterName)
	assert.Equal(t, "SL", string(p.AttackPitch))

	// usage 0.35/0.45, weakness 4/6, strength 4/4, pitch HR factor
	// clamped at 1.5, batter HR factor 1.0
	assert.Equal(t, 78, p.Score)
	assert.InDelta(t, 0.35, p.Probability, 1e-9)
	assert.Len(t, p.TopReasons, 2)
}

// TestPredictMatchupHandlerNoBatterData tests the empty-ranking result
func TestPredictMatchupHandlerNoBatterData(t *testing.T) {
	s, mock := newTestServer(t, "")

	mock.ExpectQuery("SELECT pitch_type").
		WithArgs(1, 2025).
		WillReturnRows(pitcherRows())

	empty := pgxmock.NewRows([]string{"pitch_type", "pitches_seen", "run_value", "home_runs", "events", "batter_name", "team", "stand"})
	mock.ExpectQuery("SELECT pitch_type").
		WithArgs(99, 2025).
		WillReturnRows(empty)

	body := `{"pitcher_id": 1, "batter_ids": [99]}`
	req := httptest.NewRequest("POST", "/api/v1/matchups/predict", strings.NewReader(body))
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp MatchupResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Predictions, "thin data ranks nothing but never errors")
}

// TestPredictMatchupHandlerValidation tests request validation
func TestPredictMatchupHandlerValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed JSON", `{pitcher_id}`},
		{"missing pitcher", `{"batter_ids": [10]}`},
		{"missing batters", `{"pitcher_id": 1}`},
		{"empty batters", `{"pitcher_id": 1, "batter_ids": []}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestServer(t, "")

			req := httptest.NewRequest("POST", "/api/v1/matchups/predict", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			s.router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

// TestBatterBatchHandler tests the lineup profile fetch
func TestBatterBatchHandler(t *testing.T) {
	s, mock := newTestServer(t, "")

	batterRows := pgxmock.NewRows([]string{"pitch_type", "pitches_seen", "run_value", "home_runs", "events", "batter_name", "team", "stand"}).
		AddRow("FF", int64(200), fptr(3.0), int64(6), int64(50), "Slugger", "NYY", "R")
	mock.ExpectQuery("SELECT pitch_type").
		WithArgs(10, 2025).
		WillReturnRows(batterRows)

	empty := pgxmock.NewRows([]string{"pitch_type", "pitches_seen", "run_value", "home_runs", "events", "batter_name", "team", "stand"})
	mock.ExpectQuery("SELECT pitch_type").
		WithArgs(11, 2025).
		WillReturnRows(empty)

	body := `{"batter_ids": [10, 11]}`
	req := httptest.NewRequest("POST", "/api/v1/batters/batch", strings.NewReader(body))
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string][]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp["10"], 1)
	assert.Empty(t, resp["11"])
}

// TestGetBatterVsPitchHandler tests the single-pitch-type batter view
func TestGetBatterVsPitchHandler(t *testing.T) {
	s, mock := newTestServer(t, "")

	batterRows := pgxmock.NewRows([]string{"pitch_type", "pitches_seen", "run_value", "home_runs", "events", "batter_name", "team", "stand"}).
		AddRow("FF", int64(200), fptr(3.0), int64(6), int64(50), "Slugger", "NYY", "R").
		AddRow("SL", int64(120), fptr(-1.5), int64(2), int64(30), "Slugger", "NYY", "R")
	mock.ExpectQuery("SELECT pitch_type").
		WithArgs(10, 2025).
		WillReturnRows(batterRows)

	req := httptest.NewRequest("GET", "/api/v1/batters/10/vs-pitch/sl", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "SL", resp["pitch_type"])
	assert.Equal(t, "Slider", resp["pitch_name"])
	assert.Equal(t, float64(120), resp["sample_size"])
}

// TestGetBatterVsPitchHandlerNoData tests the missing-split result
func TestGetBatterVsPitchHandlerNoData(t *testing.T) {
	s, mock := newTestServer(t, "")

	batterRows := pgxmock.NewRows([]string{"pitch_type", "pitches_seen", "run_value", "home_runs", "events", "batter_name", "team", "stand"}).
		AddRow("FF", int64(200), fptr(3.0), int64(6), int64(50), "Slugger", "NYY", "R")
	mock.ExpectQuery("SELECT pitch_type").
		WithArgs(10, 2025).
		WillReturnRows(batterRows)

	req := httptest.NewRequest("GET", "/api/v1/batters/10/vs-pitch/KN", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

// TestGetBatterVsPitchHandlerBadCode tests pitch-code validation
func TestGetBatterVsPitchHandlerBadCode(t *testing.T) {
	s, _ := newTestServer(t, "")

	req := httptest.NewRequest("GET", "/api/v1/batters/10/vs-pitch/ZZ", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// TestLookupPitcherHandler tests name-to-ID lookup over the wire
func TestLookupPitcherHandler(t *testing.T) {
	mlbServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/sports/1/players":
			w.Write([]byte(`{"people": [{"id": 543037, "fullName": "Gerrit Cole"}]}`))
		case "/people":
			w.Write([]byte(`{"people": [{"id": 543037, "fullName": "Gerrit Cole", "currentTeam": {"id": 147, "abbreviation": "NYY"}}]}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer mlbServer.Close()

	s, _ := newTestServer(t, mlbServer.URL)

	req := httptest.NewRequest("GET", "/api/v1/pitchers/lookup/Cole/Gerrit", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, float64(543037), resp["pitcher_id"])
	assert.Equal(t, "Gerrit Cole", resp["name"])
}

// TestLookupBatterHandlerNotFound tests the unmatched-name result
func TestLookupBatterHandlerNotFound(t *testing.T) {
	mlbServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"people": []}`))
	}))
	defer mlbServer.Close()

	s, _ := newTestServer(t, mlbServer.URL)

	req := httptest.NewRequest("GET", "/api/v1/batters/lookup/Nobody/Home", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

// TestSearchPlayersHandler tests player search with query validation
func TestSearchPlayersHandler(t *testing.T) {
	mlbServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"people": [{"id": 592450, "fullName": "Aaron Judge", "currentTeam": {"abbreviation": "NYY"}}]}`))
	}))
	defer mlbServer.Close()

	s, _ := newTestServer(t, mlbServer.URL)

	req := httptest.NewRequest("GET", "/api/v1/players/search?q=judge", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var results []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &results))
	require.Len(t, results, 1)
	assert.Equal(t, "Aaron Judge", results[0]["name"])

	// A one-character query is rejected before any fetch
	req = httptest.NewRequest("GET", "/api/v1/players/search?q=j", nil)
	w = httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// TestGetScheduleHandler tests date validation and pass-through
func TestGetScheduleHandler(t *testing.T) {
	mlbServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"dates": [{"date": "2026-08-28", "games": [{"gamePk": 748123, "teams": {"home": {"team": {"id": 147, "name": "New York Yankees"}}, "away": {"team": {"id": 111, "name": "Boston Red Sox"}}}}]}]}`))
	}))
	defer mlbServer.Close()

	s, _ := newTestServer(t, mlbServer.URL)

	req := httptest.NewRequest("GET", "/api/v1/games/schedule/2026-08-28", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest("GET", "/api/v1/games/schedule/not-a-date", nil)
	w = httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// TestGetGameMatchupsHandler tests lineup pairing with opposing starters
func TestGetGameMatchupsHandler(t *testing.T) {
	mlbServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"teams": {
				"home": {
					"team": {"id": 147, "name": "New York Yankees"},
					"players": {
						"ID592450": {"person": {"id": 592450, "fullName": "Aaron Judge"}},
						"ID543037": {"person": {"id": 543037, "fullName": "Gerrit Cole"}}
					},
					"battingOrder": [592450],
					"pitchers": [543037]
				},
				"away": {
					"team": {"id": 111, "name": "Boston Red Sox"},
					"players": {
						"ID646240": {"person": {"id": 646240, "fullName": "Rafael Devers"}},
						"ID657240": {"person": {"id": 657240, "fullName": "Sox Starter"}}
					},
					"battingOrder": [646240],
					"pitchers": [657240]
				}
			}
		}`))
	}))
	defer mlbServer.Close()

	s, _ := newTestServer(t, mlbServer.URL)

	req := httptest.NewRequest("GET", "/api/v1/games/748123/matchups", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp GameMatchupsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	// Home batters face the away starter and vice versa
	assert.Equal(t, 657240, resp.Home.OpposingPitcherID)
	assert.Equal(t, []int{592450}, resp.Home.BatterIDs)
	assert.Equal(t, 543037, resp.Away.OpposingPitcherID)
	assert.Equal(t, []int{646240}, resp.Away.BatterIDs)
}

// TestMetricsHandler tests the metrics endpoint shape
func TestMetricsHandler(t *testing.T) {
	s, _ := newTestServer(t, "")

	req := httptest.NewRequest("GET", "/api/v1/metrics", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp MetricsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Uptime)
	assert.NotEmpty(t, resp.System.GoVersion)
	assert.Nil(t, resp.Database, "no pool stats without a real pool")
}

// TestRecoveryMiddleware tests panic recovery
func TestRecoveryMiddleware(t *testing.T) {
	s, _ := newTestServer(t, "")

	s.router.HandleFunc("/panic", func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	req := httptest.NewRequest("GET", "/panic", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
