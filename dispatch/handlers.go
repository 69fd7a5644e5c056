// Package dispatch fans decoded events out to registered listeners.
//
// A listener is any comparable value implementing one or more of the handler
// interfaces below. Listeners that do not implement the handler for an event
// are skipped.
package dispatch

import (
	"github.com/hilthontt/plugdj/event"
	"github.com/hilthontt/plugdj/room"
)

type AuthAckHandler interface {
	OnAuthAck(event.AuthAck) error
}

type AdvanceHandler interface {
	OnAdvance(event.Advance) error
}

type ChatHandler interface {
	OnChat(event.Chat) error
}

type ChatDeleteHandler interface {
	OnChatDelete(event.ChatDelete) error
}

type DJListUpdateHandler interface {
	OnDJListUpdate(event.DJListUpdate) error
}

type EarnHandler interface {
	OnEarn(event.Earn) error
}

type FriendRequestHandler interface {
	OnFriendRequest(event.FriendRequest) error
}

type GrabHandler interface {
	OnGrab(event.Grab) error
}

type ModSkipHandler interface {
	OnModSkip(event.ModSkip) error
}

type PlaylistCycleHandler interface {
	OnPlaylistCycle(event.PlaylistCycle) error
}

type RoomNameUpdateHandler interface {
	OnRoomNameUpdate(event.RoomNameUpdate) error
}

type RoomDescriptionUpdateHandler interface {
	OnRoomDescriptionUpdate(event.RoomDescriptionUpdate) error
}

type RoomWelcomeUpdateHandler interface {
	OnRoomWelcomeUpdate(event.RoomWelcomeUpdate) error
}

type SkipHandler interface {
	OnSkip(event.Skip) error
}

type UserJoinHandler interface {
	OnUserJoin(event.UserJoin) error
}

type UserLeaveHandler interface {
	OnUserLeave(event.UserLeave) error
}

type VoteHandler interface {
	OnVote(event.Vote) error
}

// UnknownHandler receives every message whose kind has no variant.
type UnknownHandler interface {
	OnUnknown(event.Unknown) error
}

// PerformanceEndHandler is notified when an advance replaces an active
// track. prev is the room as it was before the advance was folded.
type PerformanceEndHandler interface {
	OnPerformanceEnd(prev room.Snapshot) error
}

// JoinRoomHandler is notified once the session joined a room and fetched
// its full state.
type JoinRoomHandler interface {
	OnJoinRoom(slug string, snap room.Snapshot) error
}

// invoker calls the handler for one kind on a listener. handled is false
// when the listener lacks the capability.
type invoker struct {
	name string
	call func(listener any, ev event.Event) (handled bool, err error)
}

func bind[H any, E event.Event](name string, fn func(H, E) error) invoker {
	return invoker{
		name: name,
		call: func(listener any, ev event.Event) (bool, error) {
			h, ok := listener.(H)
			if !ok {
				return false, nil
			}
			e, ok := ev.(E)
			if !ok {
				return false, nil
			}
			return true, fn(h, e)
		},
	}
}

var invokers = map[event.Kind]invoker{
	event.KindAuthAck:               bind("OnAuthAck", AuthAckHandler.OnAuthAck),
	event.KindAdvance:               bind("OnAdvance", AdvanceHandler.OnAdvance),
	event.KindChat:                  bind("OnChat", ChatHandler.OnChat),
	event.KindChatDelete:            bind("OnChatDelete", ChatDeleteHandler.OnChatDelete),
	event.KindDJListUpdate:          bind("OnDJListUpdate", DJListUpdateHandler.OnDJListUpdate),
	event.KindEarn:                  bind("OnEarn", EarnHandler.OnEarn),
	event.KindFriendRequest:         bind("OnFriendRequest", FriendRequestHandler.OnFriendRequest),
	event.KindGrab:                  bind("OnGrab", GrabHandler.OnGrab),
	event.KindModSkip:               bind("OnModSkip", ModSkipHandler.OnModSkip),
	event.KindPlaylistCycle:         bind("OnPlaylistCycle", PlaylistCycleHandler.OnPlaylistCycle),
	event.KindRoomNameUpdate:        bind("OnRoomNameUpdate", RoomNameUpdateHandler.OnRoomNameUpdate),
	event.KindRoomDescriptionUpdate: bind("OnRoomDescriptionUpdate", RoomDescriptionUpdateHandler.OnRoomDescriptionUpdate),
	event.KindRoomWelcomeUpdate:     bind("OnRoomWelcomeUpdate", RoomWelcomeUpdateHandler.OnRoomWelcomeUpdate),
	event.KindSkip:                  bind("OnSkip", SkipHandler.OnSkip),
	event.KindUserJoin:              bind("OnUserJoin", UserJoinHandler.OnUserJoin),
	event.KindUserLeave:             bind("OnUserLeave", UserLeaveHandler.OnUserLeave),
	event.KindVote:                  bind("OnVote", VoteHandler.OnVote),
	event.KindUnknown:               bind("OnUnknown", UnknownHandler.OnUnknown),
}

// HandlerName returns the handler method consulted for events of kind k.
func HandlerName(k event.Kind) (string, bool) {
	inv, ok := invokers[k]
	return inv.name, ok
}
