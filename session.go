package plugdj

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/hilthontt/plugdj/dispatch"
	"github.com/hilthontt/plugdj/event"
	"github.com/hilthontt/plugdj/internal/infrastructure/tracing"
	"github.com/hilthontt/plugdj/room"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

const tracerName = "github.com/hilthontt/plugdj"

// ackOK is the payload of a successful socket auth acknowledgement.
const ackOK = "1"

// ChatLimiter decides whether one more chat message may be sent in a room.
type ChatLimiter interface {
	Allow(key string) (bool, time.Duration)
}

// Session is one logged-in user: a REST client, its push socket, the mirror
// of the joined room and the listeners notified of every event.
//
// Raw socket messages go through HandleRaw one at a time: decode, fold into
// the mirror, then dispatch to the session itself and to the registered
// listeners in order. Handlers run with the pipeline held and must not call
// JoinRoom, Refresh or LeaveRoom from the same goroutine.
type Session struct {
	ID string

	client   *Client
	mirror   *room.Mirror
	registry *dispatch.Registry
	logger   *zap.Logger
	metrics  *Metrics
	limiter  ChatLimiter
	onFailed func(*dispatch.HandlerError)

	pipeline sync.Mutex

	mu     sync.RWMutex
	socket *Socket
	slug   string
	// fault ends Run with an error the socket itself cannot report, such as
	// a rejected auth ack. Cleared by Connect.
	fault error

	authenticated atomic.Bool

	friendsMu      sync.Mutex
	friendRequests []string
}

type SessionOption func(*Session)

func WithSessionLogger(logger *zap.Logger) SessionOption {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithMetrics(m *Metrics) SessionOption {
	return func(s *Session) { s.metrics = m }
}

// WithChatLimiter bounds SendChat. Without one chat is unlimited.
func WithChatLimiter(l ChatLimiter) SessionOption {
	return func(s *Session) { s.limiter = l }
}

// WithHandlerFailureHook is called for every listener error or panic, after
// it is logged and counted.
func WithHandlerFailureHook(fn func(*dispatch.HandlerError)) SessionOption {
	return func(s *Session) { s.onFailed = fn }
}

func NewSession(client *Client, opts ...SessionOption) *Session {
	s := &Session{
		ID:     uuid.NewString(),
		client: client,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(zap.String("sessionID", s.ID))

	s.mirror = room.NewMirror(
		room.WithLogger(s.logger),
		room.WithPerformanceEnded(s.performanceEnded),
	)
	s.registry = dispatch.NewRegistry(s.logger,
		dispatch.WithOwner(s),
		dispatch.WithFailureHook(func(err *dispatch.HandlerError) {
			s.metrics.handlerFailed(err.Handler)
			if s.onFailed != nil {
				s.onFailed(err)
			}
		}),
	)
	return s
}

// performanceEnded runs inside Fold, before the advance is written.
func (s *Session) performanceEnded(prev room.Snapshot) {
	s.metrics.performanceEnded()
	s.registry.DispatchPerformanceEnd(prev)
}

// HandleRaw runs one raw socket message through the pipeline. A message that
// cannot be decoded is logged and returned; nothing is folded or dispatched.
// A rejected auth ack closes the socket and returns ErrAuthRejected.
func (s *Session) HandleRaw(raw []byte) error {
	s.pipeline.Lock()
	defer s.pipeline.Unlock()

	_, span := tracing.GetTracer(tracerName).Start(context.Background(), "plugdj.HandleRaw")
	defer span.End()

	ev, err := event.Decode(raw)
	if err != nil {
		s.metrics.decodeFailed()
		s.logger.Warn("dropping undecodable message", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "decode failed")
		return err
	}
	s.metrics.eventReceived(string(ev.Kind()))
	span.SetAttributes(
		attribute.String("plugdj.event.kind", string(ev.Kind())),
		attribute.String("plugdj.room", s.Room()),
	)

	s.mirror.Fold(ev)
	s.registry.Dispatch(ev)

	if ev.Kind() == event.KindAuthAck && !s.authenticated.Load() {
		if err := s.transportFault(); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "auth rejected")
			return err
		}
	}
	return nil
}

// Login authenticates the REST session.
func (s *Session) Login(ctx context.Context, email, password string) error {
	if err := s.client.Auth.Login(ctx, email, password); err != nil {
		return err
	}
	s.logger.Info("logged in", zap.String("email", email))
	return nil
}

// Connect fetches the socket token, dials the socket and authenticates it.
// The session must be logged in.
func (s *Session) Connect(ctx context.Context) error {
	token, err := s.client.Auth.SocketToken(ctx)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	sock, err := s.client.DialSocket(ctx)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	sock.OnHeartbeat(s.metrics.heartbeat)
	s.authenticated.Store(false)
	if err := sock.Authenticate(token); err != nil {
		_ = sock.Close()
		return fmt.Errorf("connect: %w", err)
	}

	s.mu.Lock()
	old := s.socket
	s.socket = sock
	s.fault = nil
	s.mu.Unlock()
	if old != nil {
		_ = old.Close()
	}
	return nil
}

// Run feeds every message received on the socket to HandleRaw until ctx is
// done or the socket fails. A rejected auth ack ends it with ErrAuthRejected.
func (s *Session) Run(ctx context.Context) error {
	sock := s.currentSocket()
	if sock == nil {
		return ErrNotConnected
	}
	err := sock.Listen(ctx, func(raw []byte) {
		_ = s.HandleRaw(raw)
	})
	if fault := s.transportFault(); fault != nil {
		return fault
	}
	return err
}

func (s *Session) transportFault() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fault
}

// failTransport records err for Run and closes the socket so Listen returns.
func (s *Session) failTransport(err error) {
	s.mu.Lock()
	if s.fault == nil {
		s.fault = err
	}
	sock := s.socket
	s.mu.Unlock()

	s.logger.Error("closing socket", zap.Error(err))
	if sock != nil {
		_ = sock.Close()
	}
}

func (s *Session) currentSocket() *Socket {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.socket
}

// JoinRoom joins slug, fetches its full state and notifies listeners.
func (s *Session) JoinRoom(ctx context.Context, slug string) error {
	if err := s.client.Rooms.Join(ctx, slug); err != nil {
		return fmt.Errorf("join room %q: %w", slug, err)
	}
	s.mu.Lock()
	s.slug = slug
	s.mu.Unlock()

	state, err := s.client.Rooms.State(ctx)
	if err != nil {
		return fmt.Errorf("join room %q: %w", slug, err)
	}

	s.pipeline.Lock()
	defer s.pipeline.Unlock()
	s.mirror.ApplyFullState(*state)
	s.registry.DispatchJoinRoom(slug, s.mirror.Snapshot())

	s.logger.Info("joined room", zap.String("room", slug))
	return nil
}

// Refresh replaces the mirror with a freshly fetched room state.
func (s *Session) Refresh(ctx context.Context) error {
	state, err := s.client.Rooms.State(ctx)
	if err != nil {
		return fmt.Errorf("refresh room state: %w", err)
	}

	s.pipeline.Lock()
	defer s.pipeline.Unlock()
	s.mirror.ApplyFullState(*state)
	return nil
}

// LeaveRoom forgets the joined room and empties the mirror. The site has no
// leave call; joining another room moves the user.
func (s *Session) LeaveRoom() {
	s.mu.Lock()
	s.slug = ""
	s.mu.Unlock()

	s.pipeline.Lock()
	defer s.pipeline.Unlock()
	s.mirror.Reset()
}

// Room returns the slug of the joined room, or "" before JoinRoom.
func (s *Session) Room() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.slug
}

func (s *Session) Snapshot() room.Snapshot {
	return s.mirror.Snapshot()
}

func (s *Session) Client() *Client {
	return s.client
}

// Register adds a listener. See dispatch.Registry.Register.
func (s *Session) Register(listener any) error {
	return s.registry.Register(listener)
}

func (s *Session) Unregister(listener any) {
	s.registry.Unregister(listener)
}

// SendChat sends msg to the joined room. Empty messages are ignored.
func (s *Session) SendChat(msg string) error {
	if msg == "" {
		return nil
	}
	sock := s.currentSocket()
	if sock == nil {
		return ErrNotConnected
	}
	if s.limiter != nil {
		if ok, wait := s.limiter.Allow(s.Room()); !ok {
			s.metrics.chatRefused()
			return fmt.Errorf("%w: retry in %s", ErrRateLimited, wait)
		}
	}
	if err := sock.SendChat(msg); err != nil {
		return err
	}
	s.metrics.chatWritten()
	return nil
}

func (s *Session) currentTrack() (room.Track, error) {
	track, ok := s.mirror.CurrentTrack()
	if !ok {
		return room.Track{}, ErrNoTrack
	}
	return track, nil
}

// Woot votes for the playing track.
func (s *Session) Woot(ctx context.Context) error {
	track, err := s.currentTrack()
	if err != nil {
		return err
	}
	return s.client.Votes.Woot(ctx, track.HistoryID)
}

// Meh votes against the playing track.
func (s *Session) Meh(ctx context.Context) error {
	track, err := s.currentTrack()
	if err != nil {
		return err
	}
	return s.client.Votes.Meh(ctx, track.HistoryID)
}

// Grab adds the playing track to playlistID.
func (s *Session) Grab(ctx context.Context, playlistID int64) error {
	track, err := s.currentTrack()
	if err != nil {
		return err
	}
	return s.client.Votes.Grab(ctx, playlistID, track.HistoryID)
}

// Authenticated reports whether the socket acknowledged the auth token.
func (s *Session) Authenticated() bool {
	return s.authenticated.Load()
}

// LastHeartbeat is the time of the last heartbeat frame, zero when no socket
// is connected.
func (s *Session) LastHeartbeat() time.Time {
	if sock := s.currentSocket(); sock != nil {
		return sock.LastHeartbeat()
	}
	return time.Time{}
}

// FriendRequests returns the usernames that sent a friend request since the
// session started, oldest first.
func (s *Session) FriendRequests() []string {
	s.friendsMu.Lock()
	defer s.friendsMu.Unlock()
	return slices.Clone(s.friendRequests)
}

func (s *Session) OnAuthAck(e event.AuthAck) error {
	ok := e.Ack == ackOK
	s.authenticated.Store(ok)
	if !ok {
		s.failTransport(fmt.Errorf("%w: ack %q", ErrAuthRejected, e.Ack))
		return nil
	}
	s.logger.Debug("socket authenticated")
	return nil
}

func (s *Session) OnFriendRequest(e event.FriendRequest) error {
	s.friendsMu.Lock()
	defer s.friendsMu.Unlock()
	if !slices.Contains(s.friendRequests, e.Username) {
		s.friendRequests = append(s.friendRequests, e.Username)
	}
	return nil
}

// Close closes the socket, if any.
func (s *Session) Close() error {
	s.mu.Lock()
	sock := s.socket
	s.socket = nil
	s.mu.Unlock()
	if sock == nil {
		return nil
	}
	return sock.Close()
}
