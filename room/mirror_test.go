package room_test

import (
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/hilthontt/plugdj/event"
	"github.com/hilthontt/plugdj/room"
	"github.com/stretchr/testify/require"
)

const stateJSON = `{
	"meta": {"id": 1, "slug": "room1", "name": "Room One", "population": 3, "hostID": 10},
	"booth": {"currentDJ": 10, "waitingDJs": [11, 12], "isLocked": false, "shouldCycle": true},
	"playback": {"historyID": "h-1", "media": {"id": 500, "title": "Song"}, "playlistID": 3, "startTime": "S"},
	"votes": {"11": 1, "12": -1},
	"users": [{"id": 10, "username": "host"}, {"id": 11, "username": "a"}, {"id": 12, "username": "b"}]
}`

func rawState(t *testing.T, raw string) room.RawRoomState {
	t.Helper()
	var state room.RawRoomState
	require.NoError(t, json.Unmarshal([]byte(raw), &state))
	return state
}

func initialized(t *testing.T, opts ...room.Option) *room.Mirror {
	t.Helper()
	m := room.NewMirror(opts...)
	m.ApplyFullState(rawState(t, stateJSON))
	return m
}

func TestMirror_ApplyFullState(t *testing.T) {
	req := require.New(t)
	m := initialized(t)

	snap := m.Snapshot()

	req.Equal("room1", snap.Meta.Slug)
	req.Equal(room.Booth{CurrentDJ: 10, WaitingDJs: []int64{11, 12}, ShouldCycle: true}, snap.Booth)
	req.NotNil(snap.Track)
	req.Equal(room.Track{HistoryID: "h-1", Media: event.Media{ID: 500, Title: "Song"}, PlaylistID: 3, StartTime: "S"}, *snap.Track)
	req.Equal(map[int64]int{11: 1, 12: -1}, snap.Votes)
	req.Len(snap.Users, 3)
}

func TestMirror_ApplyFullStateWithoutPlayback(t *testing.T) {
	for name, raw := range map[string]string{
		"absent": `{"meta": {"slug": "room1"}, "booth": {"currentDJ": null, "waitingDJs": []}}`,
		"null":   `{"meta": {"slug": "room1"}, "booth": {"currentDJ": null, "waitingDJs": []}, "playback": null}`,
	} {
		t.Run(name, func(t *testing.T) {
			m := initialized(t)

			m.ApplyFullState(rawState(t, raw))

			snap := m.Snapshot()
			require.Nil(t, snap.Track)
			require.Equal(t, int64(0), snap.Booth.CurrentDJ)
			require.Empty(t, snap.Votes)
			_, ok := m.CurrentTrack()
			require.False(t, ok)
		})
	}
}

func TestMirror_FoldVoteOnlyTouchesVotes(t *testing.T) {
	req := require.New(t)
	m := initialized(t)
	before := m.Snapshot()

	m.Fold(event.Vote{UserID: 42, Direction: 1})

	after := m.Snapshot()
	req.Equal(1, after.Votes[42])
	delete(after.Votes, 42)
	req.Equal(before, after)
}

func TestMirror_FoldVoteOverwritesAndKeepsDirection(t *testing.T) {
	m := initialized(t)

	m.Fold(event.Vote{UserID: 11, Direction: -1})
	m.Fold(event.Vote{UserID: 13, Direction: 7})

	votes := m.Snapshot().Votes
	require.Equal(t, -1, votes[11])
	require.Equal(t, 7, votes[13])
}

func TestMirror_FoldAdvanceWithoutPriorTrack(t *testing.T) {
	req := require.New(t)
	calls := 0
	m := room.NewMirror(room.WithPerformanceEnded(func(room.Snapshot) { calls++ }))

	m.Fold(event.Advance{
		CurrentDJ:  7,
		WaitingDJs: []int64{},
		HistoryID:  "abc",
		Media:      event.Media{ID: 1},
		PlaylistID: 99,
		StartTime:  "T",
		RoomSlug:   "room1",
	})

	req.Zero(calls)
	snap := m.Snapshot()
	req.Equal(int64(7), snap.Booth.CurrentDJ)
	req.Equal([]int64{}, snap.Booth.WaitingDJs)
	req.Equal(&room.Track{HistoryID: "abc", Media: event.Media{ID: 1}, PlaylistID: 99, StartTime: "T"}, snap.Track)
}

func TestMirror_FoldAdvanceEndsActivePerformance(t *testing.T) {
	req := require.New(t)
	var (
		m        *room.Mirror
		ended    []room.Snapshot
		observed room.Snapshot
	)
	m = initialized(t, room.WithPerformanceEnded(func(prev room.Snapshot) {
		ended = append(ended, prev)
		observed = m.Snapshot()
	}))
	m.Fold(event.Vote{UserID: 13, Direction: 1})
	before := m.Snapshot()

	m.Fold(event.Advance{CurrentDJ: 11, WaitingDJs: []int64{12}, HistoryID: "h-2", Media: event.Media{ID: 501}, PlaylistID: 4, StartTime: "S2", RoomSlug: "room1"})

	// Then exactly one notification carries the finished turn
	req.Len(ended, 1)
	req.Equal(before, ended[0])
	req.Equal("h-1", ended[0].Track.HistoryID)
	req.Equal(int64(10), ended[0].Booth.CurrentDJ)
	woots, mehs := ended[0].Tally()
	req.Equal(2, woots)
	req.Equal(1, mehs)
	// And the new track was not observable while it ran
	req.Equal(before, observed)
	// And the mirror now holds the new turn
	after := m.Snapshot()
	req.Equal("h-2", after.Track.HistoryID)
	req.Equal(int64(11), after.Booth.CurrentDJ)
	req.Equal([]int64{12}, after.Booth.WaitingDJs)
	req.Empty(after.Votes)
	req.Equal(before.Meta, after.Meta)
	req.Equal(before.Users, after.Users)
}

func TestMirror_FoldIgnoresOtherKinds(t *testing.T) {
	m := initialized(t)
	before := m.Snapshot()

	for _, ev := range []event.Event{
		event.Earn{Level: 11, XP: 42345, PP: 186444},
		event.Chat{ChatID: "1", Message: "hi", UserID: 1, Username: "u"},
		event.DJListUpdate{WaitingDJs: []int64{1}},
		event.Unknown{WireKind: "x"},
	} {
		m.Fold(ev)
	}

	require.Equal(t, before, m.Snapshot())
}

func TestMirror_LastWriteWins(t *testing.T) {
	req := require.New(t)
	m := initialized(t)
	adv := event.Advance{CurrentDJ: 11, WaitingDJs: []int64{}, HistoryID: "h-2", Media: event.Media{ID: 501}, PlaylistID: 4, StartTime: "S2", RoomSlug: "room1"}

	m.Fold(adv)
	m.ApplyFullState(rawState(t, stateJSON))
	req.Equal("h-1", m.Snapshot().Track.HistoryID)

	m.Fold(adv)
	req.Equal("h-2", m.Snapshot().Track.HistoryID)
}

func TestMirror_SnapshotIsACopy(t *testing.T) {
	m := initialized(t)

	snap := m.Snapshot()
	snap.Votes[99] = 1
	snap.Booth.WaitingDJs[0] = 99
	snap.Track.HistoryID = "changed"
	snap.Users[0].Username = "changed"

	fresh := m.Snapshot()
	require.NotContains(t, fresh.Votes, int64(99))
	require.Equal(t, int64(11), fresh.Booth.WaitingDJs[0])
	require.Equal(t, "h-1", fresh.Track.HistoryID)
	require.Equal(t, "host", fresh.Users[0].Username)
}

func TestMirror_Reset(t *testing.T) {
	m := initialized(t)

	m.Reset()

	snap := m.Snapshot()
	require.Nil(t, snap.Track)
	require.Empty(t, snap.Votes)
	require.Empty(t, snap.Users)
}

func TestMirror_ConcurrentAccess(t *testing.T) {
	m := initialized(t)
	var wg sync.WaitGroup

	for i := range 50 {
		wg.Add(3)
		go func() {
			defer wg.Done()
			m.Fold(event.Vote{UserID: int64(i), Direction: 1})
		}()
		go func() {
			defer wg.Done()
			_ = m.Snapshot()
		}()
		go func() {
			defer wg.Done()
			m.Fold(event.Advance{HistoryID: "h", WaitingDJs: []int64{}})
		}()
	}
	wg.Wait()

	require.NotNil(t, m.Snapshot().Track)
}

func TestMirror_ConcurrentAdvancesEndEachTurnOnce(t *testing.T) {
	// Given advances folded from many goroutines without outside locking
	var (
		mu    sync.Mutex
		ended []string
	)
	m := initialized(t, room.WithPerformanceEnded(func(prev room.Snapshot) {
		mu.Lock()
		defer mu.Unlock()
		ended = append(ended, prev.Track.HistoryID)
	}))

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Fold(event.Advance{HistoryID: fmt.Sprintf("h-%d", i+2), WaitingDJs: []int64{}})
		}()
	}
	wg.Wait()

	// Then every finished turn was reported exactly once
	require.Len(t, ended, 20)
	seen := map[string]bool{}
	for _, id := range ended {
		require.False(t, seen[id], "turn %s ended twice", id)
		seen[id] = true
	}
	require.True(t, seen["h-1"])
	require.False(t, seen[m.Snapshot().Track.HistoryID])
}
