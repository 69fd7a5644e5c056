// Package room mirrors the state of the room the session is currently in.
package room

import (
	"maps"
	"slices"

	"github.com/hilthontt/plugdj/event"
)

type Meta struct {
	ID           int64  `json:"id"`
	Slug         string `json:"slug"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Welcome      string `json:"welcome"`
	HostID       int64  `json:"hostID"`
	HostName     string `json:"hostName"`
	Population   int    `json:"population"`
	Guests       int    `json:"guests"`
	MinChatLevel int    `json:"minChatLevel"`
}

// Track is the media currently playing and the turn it belongs to.
type Track struct {
	HistoryID  string      `json:"historyID"`
	Media      event.Media `json:"media"`
	PlaylistID int64       `json:"playlistID"`
	StartTime  string      `json:"startTime"`
}

type Booth struct {
	CurrentDJ   int64   `json:"currentDJ"`
	WaitingDJs  []int64 `json:"waitingDJs"`
	IsLocked    bool    `json:"isLocked"`
	ShouldCycle bool    `json:"shouldCycle"`
}

// Snapshot is a point-in-time copy of the mirrored room. Track is nil when
// nothing is playing.
type Snapshot struct {
	Meta  Meta          `json:"meta"`
	Track *Track        `json:"track"`
	Booth Booth         `json:"booth"`
	Votes map[int64]int `json:"votes"`
	Users []event.User  `json:"users"`
}

// Tally counts woots (positive directions) and mehs (negative directions).
func (s Snapshot) Tally() (woots, mehs int) {
	for _, dir := range s.Votes {
		switch {
		case dir > 0:
			woots++
		case dir < 0:
			mehs++
		}
	}
	return woots, mehs
}

func (s Snapshot) clone() Snapshot {
	out := Snapshot{
		Meta:  s.Meta,
		Booth: s.Booth,
		Votes: maps.Clone(s.Votes),
		Users: slices.Clone(s.Users),
	}
	out.Booth.WaitingDJs = slices.Clone(s.Booth.WaitingDJs)
	if s.Track != nil {
		t := *s.Track
		out.Track = &t
	}
	if out.Votes == nil {
		out.Votes = map[int64]int{}
	}
	return out
}

// RawRoomState is the first element of the rooms/state response.
type RawRoomState struct {
	Meta     Meta          `json:"meta"`
	Booth    *RawBooth     `json:"booth"`
	Playback *RawPlayback  `json:"playback"`
	Votes    map[int64]int `json:"votes"`
	Users    []event.User  `json:"users"`
}

type RawBooth struct {
	CurrentDJ   *int64  `json:"currentDJ"`
	WaitingDJs  []int64 `json:"waitingDJs"`
	IsLocked    bool    `json:"isLocked"`
	ShouldCycle bool    `json:"shouldCycle"`
}

type RawPlayback struct {
	HistoryID  string      `json:"historyID"`
	Media      event.Media `json:"media"`
	PlaylistID int64       `json:"playlistID"`
	StartTime  string      `json:"startTime"`
}

func fromRaw(state RawRoomState) Snapshot {
	snap := Snapshot{
		Meta:  state.Meta,
		Votes: maps.Clone(state.Votes),
		Users: slices.Clone(state.Users),
	}
	if snap.Votes == nil {
		snap.Votes = map[int64]int{}
	}
	if b := state.Booth; b != nil {
		if b.CurrentDJ != nil {
			snap.Booth.CurrentDJ = *b.CurrentDJ
		}
		snap.Booth.WaitingDJs = slices.Clone(b.WaitingDJs)
		snap.Booth.IsLocked = b.IsLocked
		snap.Booth.ShouldCycle = b.ShouldCycle
	}
	if p := state.Playback; p != nil {
		snap.Track = &Track{
			HistoryID:  p.HistoryID,
			Media:      p.Media,
			PlaylistID: p.PlaylistID,
			StartTime:  p.StartTime,
		}
	}
	return snap
}
