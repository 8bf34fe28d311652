package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zapponejosh/julian/internal/config"
	"github.com/zapponejosh/julian/internal/convert"
	"github.com/zapponejosh/julian/internal/database"
)

// =============================================================================
// TEST SETUP HELPERS
// =============================================================================

// testEnv sets up a complete test environment with database, config and router
type testEnv struct {
	db       *database.DB
	cfg      *config.Config
	handlers *Handlers
	router   http.Handler
	apiKey   string
}

// setupTest creates a fresh test environment
func setupTest(t *testing.T) *testEnv {
	t.Helper()

	dbCfg := database.DefaultConfig(database.MemoryPath)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError, // Quiet during tests
	}))

	db, err := database.Open(dbCfg, logger)
	require.NoError(t, err, "open test database")
	t.Cleanup(func() { db.Close() })

	_, err = db.Migrate(context.Background())
	require.NoError(t, err, "migrate test database")

	apiKey := "test-key-for-region-updates"
	cfg := &config.Config{
		Port:         8080,
		Env:          config.EnvDevelopment,
		DatabasePath: ":memory:",
		APIKey:       apiKey,
		LogLevel:     "error",
		LogFormat:    "text",
		Precision:    5,
		OldStyle:     config.OldStyleOff,
	}

	handlers := NewHandlers(db, cfg, logger)
	handlers.now = func() time.Time { return time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC) }

	return &testEnv{
		db:       db,
		cfg:      cfg,
		handlers: handlers,
		router:   SetupRoutes(handlers, cfg, logger),
		apiKey:   apiKey,
	}
}

// makeRequest is a helper to make HTTP requests with optional API key
func makeRequest(method, path string, body interface{}, apiKey string) *http.Request {
	var bodyReader io.Reader
	if body != nil {
		jsonData, _ := json.Marshal(body)
		bodyReader = bytes.NewReader(jsonData)
	}

	req := httptest.NewRequest(method, path, bodyReader)
	req.Header.Set("Content-Type", "application/json")

	if apiKey != "" {
		req.Header.Set("X-API-Key", apiKey)
	}

	return req
}

func (env *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)
	return rr
}

type envelope[T any] struct {
	Success bool       `json:"success"`
	Data    T          `json:"data"`
	Error   *ErrorInfo `json:"error"`
}

// parseResponse parses JSON response
func parseResponse[T any](t *testing.T, rr *httptest.ResponseRecorder) envelope[T] {
	t.Helper()
	var v envelope[T]
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&v), "decode response body")
	return v
}

// =============================================================================
// CONVERSION TESTS
// =============================================================================

func TestGetJulian(t *testing.T) {
	env := setupTest(t)

	rr := env.do(makeRequest("GET", "/api/v1/jd/2451545.0", nil, ""))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	resp := parseResponse[convert.Result](t, rr)
	assert.True(t, resp.Success)
	assert.Equal(t, "2000-01-01T12:00:00Z", resp.Data.Calendar)
	assert.Equal(t, "2451545.00000", resp.Data.Julian)
	assert.Equal(t, convert.KindJulian, resp.Data.Kind)
	assert.Equal(t, 2000, resp.Data.Moment.Year)
	assert.Empty(t, resp.Data.OldStyle)
}

func TestGetJulian_OldStyle(t *testing.T) {
	env := setupTest(t)

	tests := []struct {
		name string
		path string
		want string
	}{
		{"reform", "/api/v1/jd/2299161?old_style=reform", "O.S. 1582-10-05"},
		{"always", "/api/v1/jd/2451545?old_style=always", "O.S. 1999-12-19"},
		{"off", "/api/v1/jd/2299161?old_style=off", ""},
		{"france before adoption", "/api/v1/jd/2299200?region=fr", "O.S. 1582-11-13"},
		{"france after adoption", "/api/v1/jd/2299300", ""},
		{"britain", "/api/v1/jd/2299300?region=gb", "O.S. 1583-02-21"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := env.do(makeRequest("GET", tt.path, nil, ""))
			require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
			resp := parseResponse[convert.Result](t, rr)
			assert.Equal(t, tt.want, resp.Data.OldStyle)
		})
	}
}

func TestGetDate(t *testing.T) {
	env := setupTest(t)

	rr := env.do(makeRequest("GET", "/api/v1/date/2000-01-01T00:00:00Z?places=2", nil, ""))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	resp := parseResponse[convert.Result](t, rr)
	assert.Equal(t, "2451544.50", resp.Data.Julian)
	assert.Equal(t, convert.KindCalendar, resp.Data.Kind)
	assert.Equal(t, 2451544, resp.Data.JulianMoment.DayNumber)
	frac, ok := resp.Data.JulianMoment.Fraction.Get()
	assert.True(t, ok)
	assert.Equal(t, 43200, frac)
}

func TestGetDate_Options(t *testing.T) {
	env := setupTest(t)

	rr := env.do(makeRequest("GET", "/api/v1/date/2024-12-31T18:00:00?yday=true&integer_seconds=true", nil, ""))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	resp := parseResponse[convert.Result](t, rr)
	assert.Equal(t, "2024-366T18:00:00Z", resp.Data.Calendar)
	assert.Equal(t, "2460676:21600", resp.Data.Julian)
}

func TestConvert(t *testing.T) {
	env := setupTest(t)

	rr := env.do(makeRequest("GET", "/api/v1/convert/1582-10-15", nil, ""))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	resp := parseResponse[convert.Result](t, rr)
	assert.Equal(t, "2299161 ± 0.5", resp.Data.Julian)

	rr = env.do(makeRequest("GET", "/api/v1/convert/2299160", nil, ""))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	resp = parseResponse[convert.Result](t, rr)
	assert.Equal(t, "1582-10-04", resp.Data.Calendar)
}

func TestGetNow(t *testing.T) {
	env := setupTest(t)

	rr := env.do(makeRequest("GET", "/api/v1/now", nil, ""))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	resp := parseResponse[convert.Result](t, rr)
	assert.Equal(t, convert.KindNow, resp.Data.Kind)
	assert.Equal(t, "2451545.00000", resp.Data.Julian)
	assert.Equal(t, "2000-01-01T12:00:00Z", resp.Data.Calendar)
}

func TestConversion_Errors(t *testing.T) {
	env := setupTest(t)

	tests := []struct {
		name   string
		path   string
		status int
		code   string
	}{
		{"reformation gap", "/api/v1/date/1582-10-10", http.StatusBadRequest, "REFORMATION_GAP"},
		{"invalid date", "/api/v1/date/2023-02-29", http.StatusBadRequest, "INVALID_DATE"},
		{"not a date", "/api/v1/jd/yesterday", http.StatusBadRequest, "INVALID_DATE"},
		{"julian on date endpoint", "/api/v1/date/2451545", http.StatusBadRequest, "BAD_REQUEST"},
		{"date on julian endpoint", "/api/v1/jd/2000-01-01", http.StatusBadRequest, "BAD_REQUEST"},
		{"out of range", "/api/v1/jd/9223372036854775807", http.StatusBadRequest, "OUT_OF_RANGE"},
		{"bad places", "/api/v1/jd/0?places=12", http.StatusBadRequest, "BAD_REQUEST"},
		{"bad old style", "/api/v1/jd/0?old_style=sometimes", http.StatusBadRequest, "BAD_REQUEST"},
		{"bad flag", "/api/v1/jd/0?yday=maybe", http.StatusBadRequest, "BAD_REQUEST"},
		{"unknown region", "/api/v1/jd/2299161?region=xx", http.StatusNotFound, "NOT_FOUND"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := env.do(makeRequest("GET", tt.path, nil, ""))
			assert.Equal(t, tt.status, rr.Code, rr.Body.String())
			resp := parseResponse[json.RawMessage](t, rr)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
		})
	}
}

func TestConversion_ErrorEchoesInput(t *testing.T) {
	env := setupTest(t)

	rr := env.do(makeRequest("GET", "/api/v1/convert/1582-10-10", nil, ""))
	require.Equal(t, http.StatusBadRequest, rr.Code)
	resp := parseResponse[json.RawMessage](t, rr)
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeReformationGap, resp.Error.Code)
	assert.Equal(t, "1582-10-10", resp.Error.Input)
}

// =============================================================================
// REGION TESTS
// =============================================================================

func TestListRegions(t *testing.T) {
	env := setupTest(t)

	rr := env.do(makeRequest("GET", "/api/v1/regions", nil, ""))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	resp := parseResponse[struct {
		Regions []convert.Region `json:"regions"`
		Count   int      `json:"count"`
	}](t, rr)
	assert.Equal(t, 14, resp.Data.Count)
	require.Len(t, resp.Data.Regions, 14)
	assert.Equal(t, "gr", resp.Data.Regions[13].Code)
}

func TestGetRegion(t *testing.T) {
	env := setupTest(t)

	rr := env.do(makeRequest("GET", "/api/v1/regions/gb", nil, ""))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	resp := parseResponse[convert.Region](t, rr)
	assert.Equal(t, "gb", resp.Data.Code)
	assert.Equal(t, 2361222, resp.Data.FirstGregorianJDN)
	assert.Equal(t, "1752-09-14", resp.Data.FirstGregorian)
	assert.Equal(t, "O.S. 1752-09-02", resp.Data.LastJulian)

	rr = env.do(makeRequest("GET", "/api/v1/regions/xx", nil, ""))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestPutRegion(t *testing.T) {
	env := setupTest(t)

	body := map[string]interface{}{
		"name":            "Zurich",
		"first_gregorian": "1701-01-12",
		"notes":           "Protestant cantons",
	}

	rr := env.do(makeRequest("PUT", "/api/v1/regions/ch-zh", body, ""))
	assert.Equal(t, http.StatusUnauthorized, rr.Code, "missing key")

	rr = env.do(makeRequest("PUT", "/api/v1/regions/ch-zh", body, "wrong-key"))
	assert.Equal(t, http.StatusUnauthorized, rr.Code, "wrong key")

	rr = env.do(makeRequest("PUT", "/api/v1/regions/ch-zh", body, env.apiKey))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	resp := parseResponse[convert.Region](t, rr)
	assert.Equal(t, 2342349, resp.Data.FirstGregorianJDN)
	assert.Equal(t, "1701-01-12", resp.Data.FirstGregorian)

	// Old Style now follows the new region.
	rr = env.do(makeRequest("GET", "/api/v1/jd/2342348?region=ch-zh", nil, ""))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	conv := parseResponse[convert.Result](t, rr)
	assert.Equal(t, "O.S. 1700-12-31", conv.Data.OldStyle)
}

func TestPutRegion_Invalid(t *testing.T) {
	env := setupTest(t)

	tests := []struct {
		name string
		path string
		body interface{}
	}{
		{"before reformation", "/api/v1/regions/xx", map[string]interface{}{"name": "X", "first_gregorian_jdn": 2299160}},
		{"missing name", "/api/v1/regions/xx", map[string]interface{}{"first_gregorian_jdn": 2361222}},
		{"bad code", "/api/v1/regions/X", map[string]interface{}{"name": "X", "first_gregorian_jdn": 2361222}},
		{"julian date", "/api/v1/regions/xx", map[string]interface{}{"name": "X", "first_gregorian": "2361222"}},
		{"unknown field", "/api/v1/regions/xx", map[string]interface{}{"name": "X", "jdn": 2361222}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := env.do(makeRequest("PUT", tt.path, tt.body, env.apiKey))
			assert.Equal(t, http.StatusBadRequest, rr.Code, rr.Body.String())
		})
	}
}

func TestDeleteRegion(t *testing.T) {
	env := setupTest(t)

	rr := env.do(makeRequest("DELETE", "/api/v1/regions/se", nil, ""))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = env.do(makeRequest("DELETE", "/api/v1/regions/se", nil, env.apiKey))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = env.do(makeRequest("DELETE", "/api/v1/regions/se", nil, env.apiKey))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

// =============================================================================
// MIDDLEWARE AND ROUTING TESTS
// =============================================================================

func TestHealthCheck(t *testing.T) {
	env := setupTest(t)

	rr := env.do(makeRequest("GET", "/health", nil, ""))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	resp := parseResponse[struct {
		Status        string                 `json:"status"`
		SchemaVersion int                    `json:"schema_version"`
		Adoptions     database.AdoptionStats `json:"adoptions"`
	}](t, rr)
	assert.Equal(t, "healthy", resp.Data.Status)
	assert.Equal(t, 2, resp.Data.SchemaVersion)
	assert.Equal(t, 14, resp.Data.Adoptions.Regions)
}

func TestRequestID(t *testing.T) {
	env := setupTest(t)

	rr := env.do(makeRequest("GET", "/health", nil, ""))
	_, err := uuid.Parse(rr.Header().Get("X-Request-ID"))
	assert.NoError(t, err)

	req := makeRequest("GET", "/health", nil, "")
	id := uuid.NewString()
	req.Header.Set("X-Request-ID", id)
	rr = env.do(req)
	assert.Equal(t, id, rr.Header().Get("X-Request-ID"))

	req = makeRequest("GET", "/health", nil, "")
	req.Header.Set("X-Request-ID", "not-a-uuid")
	rr = env.do(req)
	assert.NotEqual(t, "not-a-uuid", rr.Header().Get("X-Request-ID"))
}

func TestAuthMiddleware_DevelopmentWithoutKey(t *testing.T) {
	cfg := &config.Config{Env: config.EnvDevelopment}
	handler := AuthMiddleware(cfg, slog.Default())(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}),
	)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, makeRequest("PUT", "/test", nil, ""))
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestAuthMiddleware_ProductionWithoutKey(t *testing.T) {
	cfg := &config.Config{Env: config.EnvProduction}
	handler := AuthMiddleware(cfg, slog.Default())(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}),
	)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, makeRequest("PUT", "/test", nil, "anything"))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRecoveryMiddleware(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := RecoveryMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, makeRequest("GET", "/", nil, ""))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestCORSPreflight(t *testing.T) {
	env := setupTest(t)

	rr := env.do(makeRequest("OPTIONS", "/api/v1/regions/gb", nil, ""))
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestNotFound(t *testing.T) {
	env := setupTest(t)

	rr := env.do(makeRequest("GET", "/api/v1/nothing", nil, ""))
	assert.Equal(t, http.StatusNotFound, rr.Code)
	resp := parseResponse[json.RawMessage](t, rr)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
}

func TestLoggingMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	handler := RequestIDMiddleware()(LoggingMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		WriteBadRequest(w, "nope")
	})))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, makeRequest("GET", "/api/v1/jd/x?places=2", nil, ""))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "/api/v1/jd/x", entry["path"])
	assert.Equal(t, "places=2", entry["query"])
	assert.EqualValues(t, http.StatusBadRequest, entry["status"])
	assert.EqualValues(t, rr.Body.Len(), entry["bytes"])
	assert.Equal(t, rr.Header().Get("X-Request-ID"), entry["request_id"])
}
