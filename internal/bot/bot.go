// Package bot is the listener run by plugbot: it keeps a chat log and a play
// history of the joined room, greets newcomers and can woot every track.
package bot

import (
	"context"
	"strings"
	"sync"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/hilthontt/plugdj/event"
	"github.com/hilthontt/plugdj/internal/domain"
	"github.com/hilthontt/plugdj/internal/infrastructure/logging"
	"github.com/hilthontt/plugdj/room"
)

// Session is the part of *plugdj.Session the bot acts through.
type Session interface {
	Room() string
	Snapshot() room.Snapshot
	SendChat(msg string) error
	Woot(ctx context.Context) error
}

// UsernamePlaceholder is replaced by the joining user's name in greetings.
const UsernamePlaceholder = "{username}"

const voteTimeout = 10 * time.Second

type Config struct {
	AutoWoot bool
	Greeting string
}

type Bot struct {
	session Session
	chat    domain.ChatRepository
	plays   domain.PlayRepository
	logger  logging.Logger
	config  Config
	now     func() time.Time

	// users who grabbed the playing track
	grabs mapset.Set[int64]

	mu     sync.Mutex
	joined time.Time
}

func New(session Session, chat domain.ChatRepository, plays domain.PlayRepository, logger logging.Logger, config Config) *Bot {
	return &Bot{
		session: session,
		chat:    chat,
		plays:   plays,
		logger:  logger,
		config:  config,
		now:     time.Now,
		grabs:   mapset.NewSet[int64](),
	}
}

func (b *Bot) OnJoinRoom(slug string, snap room.Snapshot) error {
	b.mu.Lock()
	b.joined = b.now()
	b.mu.Unlock()
	b.grabs.Clear()

	b.logger.Info(logging.Room, logging.Join, "joined room", map[logging.ExtraKey]any{
		logging.RoomSlug: slug,
		"Name":           snap.Meta.Name,
		"Population":     snap.Meta.Population,
	})
	if b.config.AutoWoot && snap.Track != nil {
		return b.woot()
	}
	return nil
}

func (b *Bot) OnChat(e event.Chat) error {
	msg := &domain.ChatMessage{
		ID:       e.ChatID,
		Room:     b.session.Room(),
		UserID:   e.UserID,
		Username: e.Username,
		Content:  e.Message,
	}
	if msg.Room == "" {
		return nil
	}
	return b.chat.Create(context.Background(), msg)
}

func (b *Bot) OnChatDelete(e event.ChatDelete) error {
	slug := b.session.Room()
	if slug == "" {
		return nil
	}
	b.logger.Debug(logging.Chat, logging.Moderation, "chat deleted", map[logging.ExtraKey]any{
		logging.RoomSlug: slug,
		logging.ChatID:   e.ChatID,
		logging.UserID:   e.ModeratorID,
	})
	return b.chat.Delete(context.Background(), slug, e.ChatID)
}

func (b *Bot) OnGrab(e event.Grab) error {
	b.grabs.Add(e.UserID)
	return nil
}

// OnPerformanceEnd records the finished turn. It is delivered before the
// advance that replaced it, so the grab set still belongs to prev.
func (b *Bot) OnPerformanceEnd(prev room.Snapshot) error {
	woots, mehs := prev.Tally()

	grabs := b.grabs.Cardinality()

	play := &domain.Play{
		HistoryID: prev.Track.HistoryID,
		Room:      prev.Meta.Slug,
		DJID:      prev.Booth.CurrentDJ,
		MediaID:   prev.Track.Media.ID,
		Author:    prev.Track.Media.Author,
		Title:     prev.Track.Media.Title,
		Woots:     woots,
		Mehs:      mehs,
		Grabs:     grabs,
		EndedAt:   b.now(),
	}
	if play.Room == "" {
		play.Room = b.session.Room()
	}

	b.logger.Info(logging.Room, logging.Performance, "performance ended", map[logging.ExtraKey]any{
		logging.RoomSlug:  play.Room,
		logging.HistoryID: play.HistoryID,
		logging.UserID:    play.DJID,
		logging.Woots:     woots,
		logging.Mehs:      mehs,
		"Grabs":           grabs,
	})
	return b.plays.Record(context.Background(), play)
}

func (b *Bot) OnAdvance(e event.Advance) error {
	b.grabs.Clear()

	b.logger.Debug(logging.Room, logging.Advance, "now playing", map[logging.ExtraKey]any{
		logging.RoomSlug:  e.RoomSlug,
		logging.HistoryID: e.HistoryID,
		logging.UserID:    e.CurrentDJ,
		"Title":           e.Media.Author + " - " + e.Media.Title,
	})
	if !b.config.AutoWoot || e.HistoryID == "" {
		return nil
	}
	return b.woot()
}

func (b *Bot) OnUserJoin(e event.UserJoin) error {
	if b.config.Greeting == "" || e.User.Guest || e.User.Username == "" {
		return nil
	}
	msg := strings.ReplaceAll(b.config.Greeting, UsernamePlaceholder, e.User.Username)

	b.logger.Debug(logging.Chat, logging.Greeting, "greeting user", map[logging.ExtraKey]any{
		logging.RoomSlug: e.RoomSlug,
		logging.UserID:   e.User.ID,
		logging.Username: e.User.Username,
	})
	return b.session.SendChat(msg)
}

func (b *Bot) woot() error {
	ctx, cancel := context.WithTimeout(context.Background(), voteTimeout)
	defer cancel()
	return b.session.Woot(ctx)
}

// Uptime is how long the bot has been in its current room.
func (b *Bot) Uptime() time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.joined.IsZero() {
		return 0
	}
	return b.now().Sub(b.joined)
}
