package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/gridmatch/internal/match"
	"github.com/MeKo-Tech/gridmatch/internal/pruner"
	"github.com/MeKo-Tech/gridmatch/internal/testutil"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	s, err := NewServer(Config{
		Host:       "localhost",
		Port:       8080,
		CORSOrigin: "*",
		MaxBodyMB:  32,
		TimeoutSec: 30,
		Pruner:     pruner.DefaultConfig(),
	})
	require.NoError(t, err)
	return s
}

func postFilter(t *testing.T, s *Server, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/filter", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.filterHandler(w, req)
	return w
}

func TestHealthHandler(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	s.healthHandler(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.NotEmpty(t, resp.Time)
	assert.Positive(t, resp.Memory.Alloc)
}

func TestHealthHandlerRejectsPost(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/health", nil)
	w := httptest.NewRecorder()
	s.healthHandler(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestFilterHandlerGMS(t *testing.T) {
	s := newTestServer(t)
	set := testutil.GenerateMatchSet(testutil.DefaultSyntheticParams())

	body, err := json.Marshal(FilterRequest{MatchSet: *set})
	require.NoError(t, err)

	w := postFilter(t, s, body)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp FilterResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "gms", resp.Method)
	assert.Equal(t, len(set.Matches), resp.Total)
	assert.Len(t, resp.Mask, len(set.Matches))
	assert.Len(t, resp.Matches, resp.Kept)
	// The structured majority should survive grid verification.
	assert.GreaterOrEqual(t, resp.Kept, 70)
}

func TestFilterHandlerRatioOverride(t *testing.T) {
	s := newTestServer(t)

	set := &match.MatchSet{
		QueryKeyPoints: []match.KeyPoint{{X: 10, Y: 10}, {X: 20, Y: 20}},
		TrainKeyPoints: []match.KeyPoint{{X: 12, Y: 11}, {X: 22, Y: 21}},
		QuerySize:      match.ImageSize{Width: 100, Height: 100},
		TrainSize:      match.ImageSize{Width: 100, Height: 100},
		Candidates: [][]match.Match{
			{{QueryIdx: 0, TrainIdx: 0, Distance: 0.2}, {QueryIdx: 0, TrainIdx: 1, Distance: 0.9}},
			{{QueryIdx: 1, TrainIdx: 1, Distance: 0.8}, {QueryIdx: 1, TrainIdx: 0, Distance: 0.85}},
		},
	}

	ratio := 0.7
	body, err := json.Marshal(FilterRequest{MatchSet: *set, Method: "ratio", Ratio: &ratio})
	require.NoError(t, err)

	w := postFilter(t, s, body)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp FilterResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "ratio", resp.Method)
	// Only the first candidate passes 0.2/0.9 < 0.7.
	assert.Equal(t, 1, resp.Kept)
	assert.Equal(t, []bool{true, false}, resp.Mask)
}

func TestFilterHandlerEngineOverrides(t *testing.T) {
	s := newTestServer(t)
	set := testutil.GenerateMatchSet(testutil.DefaultSyntheticParams())

	gw, gh := 20, 20
	body, err := json.Marshal(FilterRequest{MatchSet: *set, GridWidth: &gw, GridHeight: &gh})
	require.NoError(t, err)

	w := postFilter(t, s, body)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp FilterResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
}

func TestFilterHandlerBadRequests(t *testing.T) {
	s := newTestServer(t)

	cases := []struct {
		name string
		body string
		code int
	}{
		{"invalid json", "{not json", http.StatusBadRequest},
		{"unknown method", `{"method":"lpm","query_size":{"width":10,"height":10},"train_size":{"width":10,"height":10}}`, http.StatusBadRequest},
		{"bad grid", `{"grid_width":-1,"query_size":{"width":10,"height":10},"train_size":{"width":10,"height":10}}`, http.StatusBadRequest},
		{"missing sizes", `{"matches":[]}`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := postFilter(t, s, []byte(tc.body))
			assert.Equal(t, tc.code, w.Code)

			var resp FilterResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestFilterHandlerRejectsGet(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/filter", nil)
	w := httptest.NewRecorder()
	s.filterHandler(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestFilterHandlerBodyLimit(t *testing.T) {
	s := newTestServer(t)
	s.maxBodyMB = 0 // force the limit to zero bytes

	w := postFilter(t, s, []byte(`{"query_size":{"width":10,"height":10}}`))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestNewServerRejectsBadEngineConfig(t *testing.T) {
	cfg := pruner.DefaultConfig()
	cfg.GMS.GridWidth = 0

	_, err := NewServer(Config{Pruner: cfg})
	assert.Error(t, err)
}
