package api_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/hilthontt/plugdj/event"
	"github.com/hilthontt/plugdj/internal/domain"
	"github.com/hilthontt/plugdj/internal/infrastructure/configs"
	"github.com/hilthontt/plugdj/internal/infrastructure/logging"
	"github.com/hilthontt/plugdj/internal/infrastructure/ratelimiter"
	"github.com/hilthontt/plugdj/internal/infrastructure/repository"
	"github.com/hilthontt/plugdj/internal/infrastructure/ws"
	"github.com/hilthontt/plugdj/internal/presentation/api"
	feedHandler "github.com/hilthontt/plugdj/internal/presentation/handler/feed"
	healthHandler "github.com/hilthontt/plugdj/internal/presentation/handler/health"
	roomHandler "github.com/hilthontt/plugdj/internal/presentation/handler/rooms"
	"github.com/hilthontt/plugdj/room"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

type fakeSession struct {
	slug          string
	snap          room.Snapshot
	authenticated bool
	heartbeat     time.Time
}

func (f *fakeSession) Room() string             { return f.slug }
func (f *fakeSession) Snapshot() room.Snapshot  { return f.snap }
func (f *fakeSession) Authenticated() bool      { return f.authenticated }
func (f *fakeSession) LastHeartbeat() time.Time { return f.heartbeat }

type server struct {
	session *fakeSession
	chat    domain.ChatRepository
	plays   domain.PlayRepository
	feed    *ws.Feed
	handler http.Handler
}

func newServer(t *testing.T, limit int) *server {
	t.Helper()
	s := &server{
		session: &fakeSession{},
		chat:    repository.NewChatRepository(10),
		plays:   repository.NewPlayRepository(10),
	}
	logger := zaptest.NewLogger(t)
	limiter := ratelimiter.NewFixedWindowRateLimiter(limit, time.Minute)
	t.Cleanup(limiter.Close)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	roomManager := ws.NewRoomManager()
	// feed goroutines can outlive the test
	core := ws.NewCore(roomManager, s.chat, zap.NewNop())
	go core.Run(ctx)
	s.feed = ws.NewFeed(core, s.session.Room)

	app := api.NewApplication(
		configs.StatusConfig{Host: "127.0.0.1", Port: 0},
		roomHandler.NewHandler(s.session, s.chat, s.plays, logger),
		healthHandler.NewHandler(s.session),
		feedHandler.NewHandler(s.session.Room, roomManager, core, zap.NewNop()),
		logging.Wrap(logger),
		limiter,
		prometheus.NewRegistry(),
	)
	s.handler = app.Mount()
	return s
}

func (s *server) get(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealth(t *testing.T) {
	s := newServer(t, 100)

	rec := s.get(t, "/api/health")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"unhealthy"`)

	s.session.authenticated = true
	s.session.slug = "chill-room"
	s.session.heartbeat = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	rec = s.get(t, "/api/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
	assert.Contains(t, rec.Body.String(), `"room":"chill-room"`)
	assert.Contains(t, rec.Body.String(), `"lastHeartbeat":"2024-01-01T12:00:00Z"`)
}

func TestRoom(t *testing.T) {
	s := newServer(t, 100)

	rec := s.get(t, "/api/room")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	s.session.slug = "chill-room"
	s.session.snap = room.Snapshot{
		Meta:  room.Meta{Slug: "chill-room", Name: "Chill Room", Population: 12},
		Booth: room.Booth{CurrentDJ: 7, WaitingDJs: []int64{8, 9}},
		Track: &room.Track{HistoryID: "h-1", Media: event.Media{Author: "Bonobo", Title: "Kerala", Duration: 250}},
		Votes: map[int64]int{1: 1, 2: -1, 3: 1},
	}

	rec = s.get(t, "/api/room")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"slug": "chill-room",
		"name": "Chill Room",
		"welcome": "",
		"population": 12,
		"currentDJ": 7,
		"waitingDJs": [8, 9],
		"locked": false,
		"track": {
			"historyId": "h-1",
			"author": "Bonobo",
			"title": "Kerala",
			"duration": 250,
			"startTime": "",
			"woots": 2,
			"mehs": 1
		}
	}`, rec.Body.String())
}

func TestChat(t *testing.T) {
	s := newServer(t, 100)
	s.session.slug = "chill-room"
	ctx := context.Background()
	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, s.chat.Create(ctx, &domain.ChatMessage{ID: id, Room: "chill-room", Content: id}))
	}

	rec := s.get(t, "/api/room/chat?limit=2")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":"b"`)
	assert.Contains(t, rec.Body.String(), `"id":"c"`)
	assert.NotContains(t, rec.Body.String(), `"id":"a"`)

	rec = s.get(t, "/api/room/chat?limit=zero")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHistory(t *testing.T) {
	s := newServer(t, 100)
	s.session.slug = "chill-room"
	ctx := context.Background()
	require.NoError(t, s.plays.Record(ctx, &domain.Play{HistoryID: "h-1", Room: "chill-room", Woots: 3}))
	require.NoError(t, s.plays.Record(ctx, &domain.Play{HistoryID: "h-2", Room: "chill-room", Mehs: 1}))

	rec := s.get(t, "/api/room/history?limit=1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"historyId":"h-2"`)
	assert.NotContains(t, rec.Body.String(), `"historyId":"h-1"`)

	s.session.slug = "other-room"
	rec = s.get(t, "/api/room/history")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestMetricsAndVars(t *testing.T) {
	s := newServer(t, 100)
	s.get(t, "/api/health")

	rec := s.get(t, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "plugbot_status_request_duration_seconds")
	assert.Contains(t, rec.Body.String(), `route="/api/health"`)

	rec = s.get(t, "/debug/vars")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "memstats")
}

func TestRateLimited(t *testing.T) {
	s := newServer(t, 1)

	assert.Equal(t, http.StatusServiceUnavailable, s.get(t, "/api/health").Code)

	rec := s.get(t, "/api/health")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
}

func TestFeed(t *testing.T) {
	s := newServer(t, 100)
	s.session.slug = "chill-room"
	require.NoError(t, s.chat.Create(context.Background(), &domain.ChatMessage{
		ID: "1-a", Room: "chill-room", UserID: 1, Username: "ann", Content: "earlier",
	}))

	srv := httptest.NewServer(s.handler)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/room/feed"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	var msg struct {
		Type string         `json:"type"`
		Room string         `json:"room"`
		Data map[string]any `json:"data"`
	}
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, ws.ChatReceived, msg.Type)
	assert.Equal(t, "chill-room", msg.Room)
	assert.Equal(t, "earlier", msg.Data["content"])

	// the replayed line means the client is registered
	require.NoError(t, s.feed.OnVote(event.Vote{UserID: 2, Direction: 1}))
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, ws.VoteCast, msg.Type)
	assert.EqualValues(t, 2, msg.Data["userId"])
	assert.EqualValues(t, 1, msg.Data["direction"])
}

func TestFeedOutsideRoom(t *testing.T) {
	s := newServer(t, 100)

	rec := s.get(t, "/api/room/feed")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
