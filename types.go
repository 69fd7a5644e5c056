package plugdj

import "github.com/hilthontt/plugdj/event"

// Profile is the logged-in user as returned by users/me.
type Profile struct {
	event.User
	PP            int64          `json:"pp"`
	XP            int64          `json:"xp"`
	Email         string         `json:"email,omitempty"`
	Notifications []Notification `json:"notifications,omitempty"`
}

type Notification struct {
	ID        int64  `json:"id"`
	Action    string `json:"action"`
	Value     string `json:"value"`
	Timestamp string `json:"timestamp"`
}

type RoomSummary struct {
	ID         int64  `json:"id"`
	Slug       string `json:"slug"`
	Name       string `json:"name"`
	CID        string `json:"cid"`
	Format     int    `json:"format"`
	Host       string `json:"host"`
	Image      string `json:"image"`
	Media      string `json:"media"`
	Population int    `json:"population"`
	Guests     int    `json:"guests"`
	Favorite   bool   `json:"favorite"`
	NSFW       bool   `json:"nsfw"`
	Private    bool   `json:"private"`
	Capacity   int    `json:"capacity"`
}

type HistoryUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

type HistoryRoom struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type Score struct {
	Positive  int `json:"positive"`
	Negative  int `json:"negative"`
	Grabs     int `json:"grabs"`
	Listeners int `json:"listeners"`
	Skipped   int `json:"skipped"`
}

// HistoryEntry is one finished turn from rooms/history.
type HistoryEntry struct {
	ID        string      `json:"id"`
	Media     event.Media `json:"media"`
	Room      HistoryRoom `json:"room"`
	Score     Score       `json:"score"`
	Timestamp string      `json:"timestamp"`
	User      HistoryUser `json:"user"`
}

type Playlist struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
	Count  int    `json:"count"`
}

// MediaInsert is a track to add to a playlist.
type MediaInsert struct {
	CID      string `json:"cid"`
	Format   int    `json:"format"`
	Author   string `json:"author"`
	Title    string `json:"title"`
	Duration int    `json:"duration"`
	Image    string `json:"image"`
}

type Friend struct {
	event.User
	Status int          `json:"status"`
	Room   *HistoryRoom `json:"room,omitempty"`
}

type Invite struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Timestamp string `json:"timestamp"`
}

type Avatar struct {
	ID       string `json:"id"`
	Category string `json:"category"`
	Type     string `json:"type"`
}

// BanDuration is how long a ban lasts.
type BanDuration string

const (
	BanHour    BanDuration = "h"
	BanDay     BanDuration = "d"
	BanForever BanDuration = "f"
)

// MuteDuration is how long a mute lasts.
type MuteDuration string

const (
	MuteShort  MuteDuration = "s"
	MuteMedium MuteDuration = "m"
	MuteLong   MuteDuration = "l"
)

// Role levels accepted by Moderation.SetRole.
const (
	RoleNone    = 0
	RoleDJ      = 1000
	RoleBouncer = 2000
	RoleManager = 3000
	RoleCohost  = 4000
	RoleHost    = 5000
)

// Vote directions.
const (
	DirectionWoot = 1
	DirectionMeh  = -1
)
