package plugdj_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/hilthontt/plugdj"
	"github.com/hilthontt/plugdj/option"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// socketScript serves the push socket. Requests without the session cookie
// are refused like the real endpoint does.
func socketScript(script func(conn *websocket.Conn)) http.HandlerFunc {
	up := websocket.Upgrader{}
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := r.Cookie("session"); err != nil {
			http.Error(w, "no session", http.StatusUnauthorized)
			return
		}
		conn, err := up.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		script(conn)
	}
}

// loggedIn returns a client whose cookie jar already holds a session.
func (s *site) loggedIn(t *testing.T, opts ...option.RequestOption) *plugdj.Client {
	t.Helper()
	hc := plugdj.NewHTTPClient()
	u, err := url.Parse(s.srv.URL)
	require.NoError(t, err)
	hc.Jar.SetCookies(u, []*http.Cookie{{Name: "session", Value: "abc", Path: "/"}})
	return s.client(append([]option.RequestOption{option.WithHTTPClient(hc)}, opts...)...)
}

type packet struct {
	A string          `json:"a"`
	P json.RawMessage `json:"p"`
	T int64           `json:"t"`
}

func readPacket(conn *websocket.Conn) (packet, error) {
	var p packet
	err := conn.ReadJSON(&p)
	return p, err
}

// waitClosed blocks until the peer goes away.
func waitClosed(conn *websocket.Conn) {
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func TestSocket_AuthenticateAndListen(t *testing.T) {
	req := require.New(t)
	s := newSite(t)
	auth := make(chan packet, 1)
	s.handle("GET /socket", socketScript(func(conn *websocket.Conn) {
		p, err := readPacket(conn)
		if err != nil {
			return
		}
		auth <- p
		for _, frame := range []string{
			"h",
			`[{"a":"chat","p":{"cid":"1-2","message":"hello","uid":1,"un":"dj"}},null,{"a":"vote","p":{"i":1,"v":1}}]`,
			`not json at all`,
			`{"a":"earn","p":{"level":1,"xp":2,"pp":3}}`,
			`[{"a":"earn","p":{"level":1,"xp":2,"pp":3}}]`,
		} {
			_ = conn.WriteMessage(websocket.TextMessage, []byte(frame))
		}
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"))
		waitClosed(conn)
	}))

	sock, err := s.loggedIn(t).DialSocket(context.Background())
	req.NoError(err)
	defer sock.Close()
	req.True(sock.LastHeartbeat().IsZero())

	req.NoError(sock.Authenticate("socket-token"))
	var got []string
	err = sock.Listen(context.Background(), func(raw []byte) {
		got = append(got, string(raw))
	})

	// Then the auth packet was framed with a timestamp
	p := <-auth
	req.Equal("auth", p.A)
	req.JSONEq(`"socket-token"`, string(p.P))
	req.Positive(p.T)
	// And array frames were flattened in order, skipping everything else
	req.Equal([]string{
		`{"a":"chat","p":{"cid":"1-2","message":"hello","uid":1,"un":"dj"}}`,
		`{"a":"vote","p":{"i":1,"v":1}}`,
		`{"a":"earn","p":{"level":1,"xp":2,"pp":3}}`,
	}, got)
	req.False(sock.LastHeartbeat().IsZero())
	// And a normal close from the server surfaces as a closed socket
	req.ErrorIs(err, plugdj.ErrSocketClosed)
}

func TestSocket_DialWithoutSession(t *testing.T) {
	s := newSite(t)
	s.handle("GET /socket", socketScript(func(*websocket.Conn) {}))

	_, err := s.client().DialSocket(context.Background())

	require.Error(t, err)
}

func TestSocket_ListenStopsOnCancel(t *testing.T) {
	req := require.New(t)
	s := newSite(t)
	s.handle("GET /socket", socketScript(waitClosed))

	sock, err := s.loggedIn(t).DialSocket(context.Background())
	req.NoError(err)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() { done <- sock.Listen(ctx, func([]byte) {}) }()
	cancel()

	req.ErrorIs(<-done, context.Canceled)
	req.ErrorIs(sock.Send("chat", "late"), plugdj.ErrSocketClosed)
	req.NoError(sock.Close())
}

func TestSocket_SendChatWarnsWhenTooLong(t *testing.T) {
	req := require.New(t)
	s := newSite(t)
	chats := make(chan packet, 1)
	s.handle("GET /socket", socketScript(func(conn *websocket.Conn) {
		p, err := readPacket(conn)
		if err != nil {
			return
		}
		chats <- p
		waitClosed(conn)
	}))
	core, logs := observer.New(zapcore.WarnLevel)

	sock, err := s.loggedIn(t, option.WithLogger(zap.New(core))).DialSocket(context.Background())
	req.NoError(err)
	defer sock.Close()
	long := strings.Repeat("é", plugdj.MaxChatLength+1)

	req.NoError(sock.SendChat(long))

	p := <-chats
	req.Equal("chat", p.A)
	var msg string
	req.NoError(json.Unmarshal(p.P, &msg))
	req.Equal(long, msg)
	req.Equal(1, logs.Len())
	req.Equal(plugdj.MaxChatLength+1, int(logs.All()[0].ContextMap()["length"].(int64)))
}
