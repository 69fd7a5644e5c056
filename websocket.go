package plugdj

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/gorilla/websocket"
	"github.com/hilthontt/plugdj/internal/requestconfig"
	"github.com/hilthontt/plugdj/option"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

const (
	// heartbeatFrame is the whole payload of a keep-alive frame.
	heartbeatFrame = "h"
	// MaxChatLength is the longest chat message the site accepts untruncated.
	MaxChatLength = 256

	handshakeTimeout = 10 * time.Second
	writeTimeout     = 10 * time.Second
)

// packet is the envelope of every message written to the socket.
type packet struct {
	Action  string `json:"a"`
	Payload any    `json:"p"`
	Time    int64  `json:"t"`
}

// Socket is the push channel of a logged-in session. Reads happen in Listen
// only; writes may come from any goroutine.
type Socket struct {
	conn   *websocket.Conn
	logger *zap.Logger
	now    func() time.Time

	writeMu sync.Mutex

	mu            sync.RWMutex
	closed        bool
	lastHeartbeat time.Time
	onHeartbeat   func()
}

// DialSocket opens the push socket using the client's cookie jar, which must
// hold a logged-in session.
func (c *Client) DialSocket(ctx context.Context, opts ...option.RequestOption) (*Socket, error) {
	opts = append(c.Options, opts...)

	cfg, err := requestconfig.NewRequestConfig(ctx, http.MethodGet, "", nil, nil, opts...)
	if err != nil {
		return nil, err
	}

	endpoint := cfg.SocketURL.String()
	if after, ok := strings.CutPrefix(endpoint, "https://"); ok {
		endpoint = "wss://" + after
	} else if after, ok := strings.CutPrefix(endpoint, "http://"); ok {
		endpoint = "ws://" + after
	}

	dialer := websocket.Dialer{
		HandshakeTimeout: handshakeTimeout,
		Jar:              cfg.HTTPClient.Jar,
	}
	base := cfg.ResolvedBaseURL()
	header := http.Header{}
	header.Set("Origin", base.Scheme+"://"+base.Host)
	header.Set("User-Agent", cfg.Request.Header.Get("User-Agent"))

	conn, _, err := dialer.DialContext(ctx, endpoint, header)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to socket: %w", err)
	}

	cfg.Logger.Debug("socket connected", zap.String("url", endpoint))
	return newSocket(conn, cfg.Logger), nil
}

func newSocket(conn *websocket.Conn, logger *zap.Logger) *Socket {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Socket{conn: conn, logger: logger, now: time.Now}
}

// Authenticate sends the token scraped by AuthService.SocketToken. The site
// answers with an ack event.
func (s *Socket) Authenticate(token string) error {
	if token == "" {
		return ErrMissingToken
	}
	s.logger.Debug("sending socket auth")
	return s.Send("auth", token)
}

// Send writes {"a": action, "p": payload, "t": <ms since epoch>}.
func (s *Socket) Send(action string, payload any) error {
	s.mu.RLock()
	closed := s.closed
	s.mu.RUnlock()
	if closed {
		return ErrSocketClosed
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	msg := packet{Action: action, Payload: payload, Time: s.now().UnixMilli()}
	if err := s.conn.SetWriteDeadline(s.now().Add(writeTimeout)); err != nil {
		return fmt.Errorf("socket write deadline: %w", err)
	}
	if err := s.conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("socket write %q: %w", action, err)
	}
	return nil
}

// SendChat sends msg to the room chat. Messages longer than MaxChatLength
// are sent anyway; the site truncates them.
func (s *Socket) SendChat(msg string) error {
	if n := utf8.RuneCountInString(msg); n > MaxChatLength {
		s.logger.Warn("chat message longer than the site accepts, it will likely be truncated",
			zap.Int("length", n),
			zap.Int("max", MaxChatLength),
		)
	}
	return s.Send("chat", msg)
}

// LastHeartbeat returns when the last heartbeat frame arrived, or the zero
// time if none has.
func (s *Socket) LastHeartbeat() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastHeartbeat
}

// OnHeartbeat sets a callback run after every heartbeat frame.
func (s *Socket) OnHeartbeat(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onHeartbeat = fn
}

// Listen reads frames until ctx is done, the socket is closed or a read
// fails. Every element of an array frame is passed to fn in order, one at a
// time. Heartbeat frames and frames that are not JSON arrays never reach fn.
func (s *Socket) Listen(ctx context.Context, fn func(raw []byte)) error {
	stop := context.AfterFunc(ctx, func() { _ = s.Close() })
	defer stop()

	for {
		_, frame, err := s.conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if s.isClosed() {
				return ErrSocketClosed
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return fmt.Errorf("%w: %w", ErrSocketClosed, err)
			}
			return fmt.Errorf("socket read: %w", err)
		}

		s.handleFrame(frame, fn)
	}
}

func (s *Socket) handleFrame(frame []byte, fn func(raw []byte)) {
	if string(frame) == heartbeatFrame {
		s.mu.Lock()
		s.lastHeartbeat = s.now()
		hook := s.onHeartbeat
		s.mu.Unlock()
		if hook != nil {
			hook()
		}
		return
	}

	if !gjson.ValidBytes(frame) {
		s.logger.Debug("skipping non-json frame", zap.Int("size", len(frame)))
		return
	}
	root := gjson.ParseBytes(frame)
	if !root.IsArray() {
		s.logger.Debug("skipping non-array frame", zap.ByteString("frame", frame))
		return
	}

	root.ForEach(func(_, elem gjson.Result) bool {
		if s.isClosed() {
			return false
		}
		if elem.Type == gjson.Null {
			return true
		}
		fn([]byte(elem.Raw))
		return true
	})
}

func (s *Socket) isClosed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}

// Close closes the connection. It is safe to call more than once.
func (s *Socket) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	deadline := s.now().Add(time.Second)
	_ = s.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)

	if err := s.conn.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		return err
	}
	return nil
}
