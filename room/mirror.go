package room

import (
	"slices"
	"sync"

	"github.com/hilthontt/plugdj/event"
	"go.uber.org/zap"
)

// Mirror keeps the snapshot of the current room up to date from full-state
// fetches and from folded events.
//
// ApplyFullState, Fold and Reset run one at a time and are last-write-wins
// relative to each other: a refresh that resolves after an advance replaces
// what the advance wrote, and an advance folded after a refresh overwrites
// the refreshed track. The performance-ended hook runs inside that section,
// so it may read the mirror but must not update it.
type Mirror struct {
	// writeMu serializes updates, including the hook call of an advance.
	writeMu sync.Mutex
	// mu guards snap for readers.
	mu      sync.RWMutex
	snap    Snapshot
	onEnded func(prev Snapshot)
	logger  *zap.Logger
}

type Option func(*Mirror)

// WithPerformanceEnded registers the hook called when an advance replaces
// an active track. It receives the snapshot as it was before the advance and
// runs before any field of the new track is written.
func WithPerformanceEnded(fn func(prev Snapshot)) Option {
	return func(m *Mirror) { m.onEnded = fn }
}

func WithLogger(logger *zap.Logger) Option {
	return func(m *Mirror) {
		if logger != nil {
			m.logger = logger
		}
	}
}

func NewMirror(opts ...Option) *Mirror {
	m := &Mirror{
		snap:   Snapshot{Votes: map[int64]int{}},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// ApplyFullState replaces the snapshot with a freshly fetched room state.
func (m *Mirror) ApplyFullState(state RawRoomState) {
	next := fromRaw(state)

	m.writeMu.Lock()
	defer m.writeMu.Unlock()
	m.mu.Lock()
	m.snap = next
	m.mu.Unlock()

	m.logger.Debug("room state replaced",
		zap.String("room", next.Meta.Slug),
		zap.Bool("playing", next.Track != nil),
		zap.Int("users", len(next.Users)),
	)
}

// Fold applies the room-state delta carried by ev. Only votes and advances
// change the snapshot; every other kind is ignored.
func (m *Mirror) Fold(ev event.Event) {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	switch e := ev.(type) {
	case event.Vote:
		m.foldVote(e)
	case event.Advance:
		m.foldAdvance(e)
	}
}

func (m *Mirror) foldVote(e event.Vote) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.snap.Votes == nil {
		m.snap.Votes = map[int64]int{}
	}
	m.snap.Votes[e.UserID] = e.Direction
}

func (m *Mirror) foldAdvance(e event.Advance) {
	if m.onEnded != nil {
		m.mu.RLock()
		var prev *Snapshot
		if m.snap.Track != nil {
			p := m.snap.clone()
			prev = &p
		}
		m.mu.RUnlock()

		if prev != nil {
			m.onEnded(*prev)
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.snap.Booth.CurrentDJ = e.CurrentDJ
	m.snap.Booth.WaitingDJs = slices.Clone(e.WaitingDJs)
	track := &Track{}
	track.HistoryID = e.HistoryID
	track.Media = e.Media
	track.PlaylistID = e.PlaylistID
	track.StartTime = e.StartTime
	m.snap.Track = track
	// the tally went out with the finished performance
	m.snap.Votes = map[int64]int{}

	m.logger.Debug("track advanced",
		zap.String("room", e.RoomSlug),
		zap.String("historyID", e.HistoryID),
		zap.Int64("dj", e.CurrentDJ),
	)
}

// Snapshot returns a deep copy of the mirrored room.
func (m *Mirror) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snap.clone()
}

// CurrentTrack returns the playing track, if any.
func (m *Mirror) CurrentTrack() (Track, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.snap.Track == nil {
		return Track{}, false
	}
	return *m.snap.Track, true
}

// Reset empties the mirror, e.g. when leaving a room.
func (m *Mirror) Reset() {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap = Snapshot{Votes: map[int64]int{}}
}
