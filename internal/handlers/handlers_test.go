package handlers

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Billy-Davies-2/draftkit/internal/auth"
	"github.com/Billy-Davies-2/draftkit/internal/dal"
	"github.com/Billy-Davies-2/draftkit/internal/draft"
	"github.com/Billy-Davies-2/draftkit/internal/engine"
	"github.com/Billy-Davies-2/draftkit/internal/models"
	"github.com/Billy-Davies-2/draftkit/internal/pubsub"
)

type testServer struct {
	mux    *http.ServeMux
	svc    *draft.Service
	bus    *pubsub.PubSub
	health *Health
	cookie *http.Cookie
}

func newTestServer(t *testing.T, mockGroup string) *testServer {
	t.Helper()
	bus := pubsub.New()
	svc, err := draft.NewService(dal.NewMemoryDAL(dal.DefaultRounds), bus, nil, draft.DefaultOptions())
	require.NoError(t, err)

	health := NewHealth()
	provider := auth.NewMockAuth(mockGroup)
	mux := Routes(NewAPIHandlers(svc, bus), health, provider, "admins")

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/auth/login", nil))
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)

	return &testServer{mux: mux, svc: svc, bus: bus, health: health, cookie: cookies[0]}
}

func (s *testServer) do(method, path, body string, withSession bool) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if withSession {
		req.AddCookie(s.cookie)
	}
	rec := httptest.NewRecorder()
	s.mux.ServeHTTP(rec, req)
	return rec
}

func TestGetDraftState(t *testing.T) {
	s := newTestServer(t, "admins")

	rec := s.do(http.MethodGet, "/api/draft/state", "", false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var state models.DraftState
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
	assert.Len(t, state.Teams, 12)
	assert.Equal(t, 1, state.CurrentPick)
	assert.Equal(t, "t1", state.CurrentTeamID)
}

func TestDraftPick(t *testing.T) {
	s := newTestServer(t, "admins")
	body := `{"candidateId":"c001","teamId":"t1"}`

	rec := s.do(http.MethodPost, "/api/draft/pick", body, false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(http.MethodPost, "/api/draft/pick", body, true)
	require.Equal(t, http.StatusOK, rec.Code)
	var pick models.DraftPick
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pick))
	assert.Equal(t, 1, pick.Overall)
	assert.Equal(t, "c001", pick.CandidateID)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"already drafted", body, http.StatusBadRequest},
		{"unknown candidate", `{"candidateId":"nope","teamId":"t2"}`, http.StatusNotFound},
		{"missing team", `{"candidateId":"c002"}`, http.StatusBadRequest},
		{"bad json", `{"candidateId":`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(http.MethodPost, "/api/draft/pick", tt.body, true)
			assert.Equal(t, tt.want, rec.Code)
		})
	}

	rec = s.do(http.MethodGet, "/api/draft/pick", "", true)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestAutoPick(t *testing.T) {
	s := newTestServer(t, "admins")

	rec := s.do(http.MethodPost, "/api/draft/autopick", `{}`, true)
	require.Equal(t, http.StatusOK, rec.Code)

	var result draft.AutoPickResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.NotNil(t, result.Pick)
	assert.Equal(t, "t1", result.Pick.TeamID)
	assert.Equal(t, models.PickSourceRecommendation, result.Decision.Source)

	rec = s.do(http.MethodPost, "/api/draft/autopick", `{"teamId":"t99"}`, true)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestResetRequiresAdmin(t *testing.T) {
	s := newTestServer(t, "admins")
	rec := s.do(http.MethodPost, "/api/draft/reset", "", true)
	assert.Equal(t, http.StatusOK, rec.Code)

	other := newTestServer(t, "users")
	rec = other.do(http.MethodPost, "/api/draft/reset", "", true)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestTeamRoutes(t *testing.T) {
	s := newTestServer(t, "admins")

	rec := s.do(http.MethodPost, "/api/teams/add", `{"name":"Otters","owner":"sam"}`, true)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodPost, "/api/teams/add", `{"name":""}`, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPost, "/api/teams/reorder", `{"order":["t3","t1"]}`, true)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/api/teams", "", false)
	require.Equal(t, http.StatusOK, rec.Code)
	var teams []models.Team
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &teams))
	require.Len(t, teams, 13)
	assert.Equal(t, "t3", teams[0].ID)
	assert.Equal(t, "t1", teams[1].ID)
}

func TestCandidateRoutes(t *testing.T) {
	s := newTestServer(t, "admins")

	rec := s.do(http.MethodPost, "/api/candidates/add", `{"id":"x1","name":"New Guy","position":"WR","team":"DAL","rank":61}`, true)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodPost, "/api/candidates/add", `{"id":"x2","name":"Bad","position":"LB"}`, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPost, "/api/candidates/update", `{"id":"x1","name":"New Guy","position":"TE","team":"DAL","rank":61}`, true)
	require.Equal(t, http.StatusOK, rec.Code)
	var c models.Candidate
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &c))
	assert.Equal(t, models.PositionTE, c.Position)

	rec = s.do(http.MethodPost, "/api/candidates/adp", `{"id":"x1","adp":55.5}`, true)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodPost, "/api/candidates/adp", `{"id":"x1","adp":0}`, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPost, "/api/candidates/delete", `{"id":"x1"}`, true)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodPost, "/api/candidates/delete", `{"id":"x1"}`, true)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRecommendations(t *testing.T) {
	s := newTestServer(t, "admins")

	rec := s.do(http.MethodGet, "/api/recommendations?teamId=t1&strategy=bpa", "", false)
	require.Equal(t, http.StatusOK, rec.Code)
	var recs []models.Recommendation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &recs))
	assert.NotEmpty(t, recs)

	rec = s.do(http.MethodGet, "/api/recommendations?teamId=t1&strategy=yolo", "", false)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTiers(t *testing.T) {
	s := newTestServer(t, "admins")

	rec := s.do(http.MethodGet, "/api/tiers?position=rb", "", false)
	require.Equal(t, http.StatusOK, rec.Code)
	var tiers map[models.Position][]models.Tier
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tiers))
	assert.Len(t, tiers, 1)
	assert.NotEmpty(t, tiers[models.PositionRB])

	rec = s.do(http.MethodGet, "/api/tiers?position=LB", "", false)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBoard(t *testing.T) {
	s := newTestServer(t, "admins")

	rec := s.do(http.MethodGet, "/api/board?teamId=t4", "", false)
	require.Equal(t, http.StatusOK, rec.Code)
	var board engine.Board
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &board))
	assert.Equal(t, 4, board.Turn.Pick)
	assert.Equal(t, 21, board.Turn.NextPick)
}

func TestKeepersAndAnalytics(t *testing.T) {
	s := newTestServer(t, "admins")

	rec := s.do(http.MethodPost, "/api/keepers", `{"candidates":[
		{"candidate":{"id":"a","name":"A"},"projectedValue":50,"cost":10},
		{"candidate":{"id":"b","name":"B"},"projectedValue":5,"cost":10}]}`, false)
	require.Equal(t, http.StatusOK, rec.Code)
	var sel models.KeeperSelection
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sel))
	require.NotEmpty(t, sel.Recommended)
	assert.Equal(t, "a", sel.Recommended[0].Candidate.ID)

	rec = s.do(http.MethodGet, "/api/analytics", "", false)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodGet, "/api/analytics?teamId=t1", "", false)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/api/analytics?teamId=t99", "", false)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer(t, "admins")

	rec := s.do(http.MethodGet, "/healthz", "", false)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/readyz", "", false)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	s.health.SetReady(true)
	rec = s.do(http.MethodGet, "/readyz", "", false)
	assert.Equal(t, http.StatusOK, rec.Code)

	s.health.Register("database", func(ctx context.Context) error { return nil })
	s.health.Register("nats", func(ctx context.Context) error { return errors.New("disconnected") })

	rec = s.do(http.MethodGet, "/api/health", "", false)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "degraded", body["status"])
	assert.Contains(t, rec.Body.String(), "disconnected")

	rec = s.do(http.MethodGet, "/readyz", "", false)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestEventsSSE(t *testing.T) {
	s := newTestServer(t, "admins")
	server := httptest.NewServer(s.mux)
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL+"/api/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	readData := func() string {
		for {
			line, err := reader.ReadString('\n')
			require.NoError(t, err)
			if strings.HasPrefix(line, "data: ") {
				return strings.TrimSpace(strings.TrimPrefix(line, "data: "))
			}
		}
	}

	assert.Equal(t, `{"type":"connected"}`, readData())

	require.Eventually(t, func() bool { return s.bus.SubscriberCount() == 1 }, 2*time.Second, 10*time.Millisecond)
	_, err = s.svc.Pick("c001", "t1")
	require.NoError(t, err)

	var ev pubsub.Event
	require.NoError(t, json.Unmarshal([]byte(readData()), &ev))
	assert.Equal(t, pubsub.EventDraftPick, ev.Type)
	assert.Equal(t, "c001", ev.Payload["candidateId"])
}
