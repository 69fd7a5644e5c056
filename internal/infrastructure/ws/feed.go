package ws

import (
	"time"

	"github.com/hilthontt/plugdj/event"
	"github.com/hilthontt/plugdj/room"
)

// Feed is a session listener that republishes room events to feed clients.
type Feed struct {
	core *Core
	room func() string
	now  func() time.Time
}

// NewFeed publishes through core. room returns the slug of the joined room.
func NewFeed(core *Core, room func() string) *Feed {
	return &Feed{core: core, room: room, now: time.Now}
}

func (f *Feed) publish(typ string, data any) {
	slug := f.room()
	if slug == "" {
		return
	}
	f.core.Publish(&WSMessage{Type: typ, Room: slug, Data: data})
}

func (f *Feed) OnJoinRoom(slug string, snap room.Snapshot) error {
	f.core.Publish(&WSMessage{
		Type: RoomJoined,
		Room: slug,
		Data: RoomPayload{Name: snap.Meta.Name, Population: snap.Meta.Population},
	})
	return nil
}

func (f *Feed) OnChat(e event.Chat) error {
	slug := f.room()
	if slug == "" {
		return nil
	}
	f.core.Publish(NewChatReceived(slug, e.ChatID, e.Message, e.UserID, e.Username, f.now()))
	return nil
}

func (f *Feed) OnChatDelete(e event.ChatDelete) error {
	slug := f.room()
	if slug == "" {
		return nil
	}
	f.core.Publish(NewChatDeleted(slug, e.ChatID, e.ModeratorID))
	return nil
}

func (f *Feed) OnAdvance(e event.Advance) error {
	f.publish(TrackAdvanced, TrackPayload{
		HistoryID: e.HistoryID,
		DJID:      e.CurrentDJ,
		Author:    e.Media.Author,
		Title:     e.Media.Title,
		Duration:  e.Media.Duration,
	})
	return nil
}

func (f *Feed) OnPerformanceEnd(prev room.Snapshot) error {
	woots, mehs := prev.Tally()
	f.publish(PerformanceEnded, TallyPayload{
		HistoryID: prev.Track.HistoryID,
		Woots:     woots,
		Mehs:      mehs,
	})
	return nil
}

func (f *Feed) OnUserJoin(e event.UserJoin) error {
	f.publish(UserJoined, UserPayload{UserID: e.User.ID, Username: e.User.Username})
	return nil
}

func (f *Feed) OnUserLeave(e event.UserLeave) error {
	f.publish(UserLeft, UserPayload{UserID: e.UserID})
	return nil
}

func (f *Feed) OnVote(e event.Vote) error {
	f.publish(VoteCast, VotePayload{UserID: e.UserID, Direction: e.Direction})
	return nil
}
