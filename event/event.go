// Package event decodes the messages pushed over the plug.dj socket into a
// closed set of typed events.
package event

import "encoding/json"

// Kind is the wire discriminant of a message (field "a").
type Kind string

const (
	KindAuthAck               Kind = "ack"
	KindAdvance               Kind = "advance"
	KindChat                  Kind = "chat"
	KindChatDelete            Kind = "chatDelete"
	KindDJListUpdate          Kind = "djListUpdate"
	KindEarn                  Kind = "earn"
	KindFriendRequest         Kind = "friendRequest"
	KindGrab                  Kind = "grab"
	KindModSkip               Kind = "modSkip"
	KindPlaylistCycle         Kind = "playlistCycle"
	KindRoomNameUpdate        Kind = "roomNameUpdate"
	KindRoomDescriptionUpdate Kind = "roomDescriptionUpdate"
	KindRoomWelcomeUpdate     Kind = "roomWelcomeUpdate"
	KindSkip                  Kind = "skip"
	KindUserJoin              Kind = "userJoin"
	KindUserLeave             Kind = "userLeave"
	KindVote                  Kind = "vote"

	// KindUnknown tags every message whose wire kind has no variant.
	KindUnknown Kind = "unknown"
)

// Event is implemented by every variant in this package and nothing else.
type Event interface {
	Kind() Kind
	sealed()
}

// Media is a track as carried by advance events and playlists.
type Media struct {
	ID       int64  `json:"id"`
	CID      string `json:"cid"`
	Author   string `json:"author"`
	Title    string `json:"title"`
	Format   int    `json:"format"`
	Duration int    `json:"duration"`
	Image    string `json:"image"`

	// Raw is the media object as pushed on the socket, unknown keys included.
	// Empty when the media came from a REST response.
	Raw json.RawMessage `json:"-"`
}

// User is the public profile pushed on userJoin and returned by room state.
type User struct {
	ID         int64  `json:"id"`
	Username   string `json:"username"`
	Slug       string `json:"slug"`
	AvatarID   string `json:"avatarID"`
	Badge      string `json:"badge"`
	Language   string `json:"language"`
	Joined     string `json:"joined"`
	Level      int    `json:"level"`
	Role       int    `json:"role"`
	GlobalRole int    `json:"gRole"`
	Sub        int    `json:"sub"`
	Guest      bool   `json:"guest"`
	Silver     bool   `json:"silver"`

	// Raw is the userJoin payload as pushed, unknown keys included. Empty when
	// the user came from a REST response.
	Raw json.RawMessage `json:"-"`
}

type AuthAck struct {
	Ack string
}

// Advance announces that a new track has started.
type Advance struct {
	CurrentDJ  int64
	WaitingDJs []int64
	HistoryID  string
	Media      Media
	PlaylistID int64
	StartTime  string
	RoomSlug   string
}

type Chat struct {
	ChatID   string
	Message  string
	UserID   int64
	Username string
}

type ChatDelete struct {
	ChatID      string
	ModeratorID int64
}

type DJListUpdate struct {
	WaitingDJs []int64
}

type Earn struct {
	Level int64
	XP    int64
	PP    int64
}

type FriendRequest struct {
	Username string
}

type Grab struct {
	UserID int64
}

type ModSkip struct {
	Moderator   string
	ModeratorID int64
}

type PlaylistCycle struct {
	PlaylistID int64
	RoomSlug   string
}

type RoomNameUpdate struct {
	Name   string
	UserID int64
}

type RoomDescriptionUpdate struct {
	Description string
	UserID      int64
}

type RoomWelcomeUpdate struct {
	Welcome string
	UserID  int64
}

type Skip struct {
	UserID int64
}

type UserJoin struct {
	User     User
	RoomSlug string
}

type UserLeave struct {
	UserID   int64
	RoomSlug string
}

// Vote carries the raw direction sent by the server. Only -1 (meh) and
// 1 (woot) are sanctioned but other values are passed through untouched.
type Vote struct {
	UserID    int64
	Direction int
}

// Unknown wraps a message whose kind has no variant.
type Unknown struct {
	WireKind string
	Raw      json.RawMessage
}

func (AuthAck) Kind() Kind               { return KindAuthAck }
func (Advance) Kind() Kind               { return KindAdvance }
func (Chat) Kind() Kind                  { return KindChat }
func (ChatDelete) Kind() Kind            { return KindChatDelete }
func (DJListUpdate) Kind() Kind          { return KindDJListUpdate }
func (Earn) Kind() Kind                  { return KindEarn }
func (FriendRequest) Kind() Kind         { return KindFriendRequest }
func (Grab) Kind() Kind                  { return KindGrab }
func (ModSkip) Kind() Kind               { return KindModSkip }
func (PlaylistCycle) Kind() Kind         { return KindPlaylistCycle }
func (RoomNameUpdate) Kind() Kind        { return KindRoomNameUpdate }
func (RoomDescriptionUpdate) Kind() Kind { return KindRoomDescriptionUpdate }
func (RoomWelcomeUpdate) Kind() Kind     { return KindRoomWelcomeUpdate }
func (Skip) Kind() Kind                  { return KindSkip }
func (UserJoin) Kind() Kind              { return KindUserJoin }
func (UserLeave) Kind() Kind             { return KindUserLeave }
func (Vote) Kind() Kind                  { return KindVote }
func (Unknown) Kind() Kind               { return KindUnknown }

func (AuthAck) sealed()               {}
func (Advance) sealed()               {}
func (Chat) sealed()                  {}
func (ChatDelete) sealed()            {}
func (DJListUpdate) sealed()          {}
func (Earn) sealed()                  {}
func (FriendRequest) sealed()         {}
func (Grab) sealed()                  {}
func (ModSkip) sealed()               {}
func (PlaylistCycle) sealed()         {}
func (RoomNameUpdate) sealed()        {}
func (RoomDescriptionUpdate) sealed() {}
func (RoomWelcomeUpdate) sealed()     {}
func (Skip) sealed()                  {}
func (UserJoin) sealed()              {}
func (UserLeave) sealed()             {}
func (Vote) sealed()                  {}
func (Unknown) sealed()               {}
