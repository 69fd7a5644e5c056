package dispatch_test

import (
	"errors"
	"testing"

	"github.com/hilthontt/plugdj/dispatch"
	"github.com/hilthontt/plugdj/event"
	"github.com/hilthontt/plugdj/room"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type journal struct {
	calls []string
}

type voter struct {
	name string
	j    *journal
	err  error
	boom bool
}

func (v *voter) OnVote(e event.Vote) error {
	v.j.calls = append(v.j.calls, v.name)
	if v.boom {
		panic("listener blew up")
	}
	return v.err
}

type chatter struct {
	j *journal
}

func (c *chatter) OnChat(event.Chat) error {
	c.j.calls = append(c.j.calls, "chatter")
	return nil
}

type ender struct {
	j    *journal
	prev room.Snapshot
	slug string
}

func (e *ender) OnPerformanceEnd(prev room.Snapshot) error {
	e.j.calls = append(e.j.calls, "ended")
	e.prev = prev
	return nil
}

func (e *ender) OnJoinRoom(slug string, snap room.Snapshot) error {
	e.j.calls = append(e.j.calls, "joined")
	e.slug = slug
	return nil
}

type catchAll struct {
	seen []event.Unknown
}

func (c *catchAll) OnUnknown(e event.Unknown) error {
	c.seen = append(c.seen, e)
	return nil
}

func TestRegistry_DispatchOrder(t *testing.T) {
	req := require.New(t)
	j := &journal{}
	owner := &voter{name: "owner", j: j}
	r := dispatch.NewRegistry(zap.NewNop(), dispatch.WithOwner(owner))
	req.NoError(r.Register(&voter{name: "first", j: j}))
	req.NoError(r.Register(&chatter{j: j}))
	req.NoError(r.Register(&voter{name: "second", j: j}))

	n := r.Dispatch(event.Vote{UserID: 42, Direction: 1})

	req.Equal(3, n)
	req.Equal([]string{"owner", "first", "second"}, j.calls)
}

func TestRegistry_FailuresAreContained(t *testing.T) {
	req := require.New(t)
	j := &journal{}
	var failures []*dispatch.HandlerError
	r := dispatch.NewRegistry(zap.NewNop(), dispatch.WithFailureHook(func(err *dispatch.HandlerError) {
		failures = append(failures, err)
	}))
	broken := errors.New("broken")
	req.NoError(r.Register(&voter{name: "erroring", j: j, err: broken}))
	req.NoError(r.Register(&voter{name: "panicking", j: j, boom: true}))
	req.NoError(r.Register(&voter{name: "healthy", j: j}))

	n := r.Dispatch(event.Vote{UserID: 1, Direction: -1})

	// Then every listener still ran
	req.Equal(3, n)
	req.Equal([]string{"erroring", "panicking", "healthy"}, j.calls)
	// And both failures were reported with their context
	req.Len(failures, 2)
	req.ErrorIs(failures[0], broken)
	req.Equal("*dispatch_test.voter", failures[0].Listener)
	req.Equal("OnVote", failures[0].Handler)
	req.Equal("vote", failures[0].Kind)
	req.NotEmpty(failures[0].ListenerID)
	req.ErrorIs(failures[1], dispatch.ErrHandlerPanic)

	// And later events are still delivered
	j.calls = nil
	r.Dispatch(event.Vote{UserID: 2, Direction: 1})
	req.Equal([]string{"erroring", "panicking", "healthy"}, j.calls)
}

func TestRegistry_UnknownKindWithoutHandler(t *testing.T) {
	j := &journal{}
	r := dispatch.NewRegistry(nil, dispatch.WithOwner(&voter{name: "owner", j: j}))
	require.NoError(t, r.Register(&chatter{j: j}))

	ev, err := event.Decode([]byte(`{"a":"totallyNewKind","p":{"x":1}}`))
	require.NoError(t, err)

	require.Zero(t, r.Dispatch(ev))
	require.Empty(t, j.calls)
}

func TestRegistry_UnknownHandler(t *testing.T) {
	c := &catchAll{}
	r := dispatch.NewRegistry(nil)
	require.NoError(t, r.Register(c))

	n := r.Dispatch(event.Unknown{WireKind: "totallyNewKind"})

	require.Equal(t, 1, n)
	require.Equal(t, []event.Unknown{{WireKind: "totallyNewKind"}}, c.seen)
}

func TestRegistry_RegisterIsIdempotent(t *testing.T) {
	req := require.New(t)
	j := &journal{}
	v := &voter{name: "v", j: j}
	r := dispatch.NewRegistry(nil)

	req.NoError(r.Register(v))
	req.NoError(r.Register(v))
	req.Equal(1, r.Listeners())

	r.Dispatch(event.Vote{})
	req.Equal([]string{"v"}, j.calls)

	r.Unregister(v)
	r.Unregister(v)
	r.Unregister(&voter{})
	req.Zero(r.Listeners())
	req.Zero(r.Dispatch(event.Vote{}))
}

func TestRegistry_RejectsBadListeners(t *testing.T) {
	r := dispatch.NewRegistry(nil)

	require.ErrorIs(t, r.Register(nil), dispatch.ErrNilListener)
	require.ErrorIs(t, r.Register(map[string]int{}), dispatch.ErrListenerNotComparable)
	require.Zero(t, r.Listeners())
}

// tagged is a value listener whose comparability depends on what tag holds.
type tagged struct {
	tag any
}

func (tagged) OnVote(event.Vote) error { return nil }

func TestRegistry_RejectsListenersThatCannotBeCompared(t *testing.T) {
	req := require.New(t)
	r := dispatch.NewRegistry(nil)

	req.ErrorIs(r.Register(tagged{tag: func() {}}), dispatch.ErrListenerNotComparable)
	req.ErrorIs(r.Register(tagged{tag: []int{1}}), dispatch.ErrListenerNotComparable)
	req.NoError(r.Register(tagged{tag: "ok"}))
	req.NoError(r.Register(tagged{tag: "ok"}))
	req.NotPanics(func() { r.Unregister(tagged{tag: func() {}}) })

	req.Equal(1, r.Listeners())
	req.Equal(1, r.Dispatch(event.Vote{}))
}

func TestRegistry_OwnerCannotBeRegistered(t *testing.T) {
	req := require.New(t)
	j := &journal{}
	owner := &voter{name: "owner", j: j}
	r := dispatch.NewRegistry(zap.NewNop(), dispatch.WithOwner(owner))

	req.ErrorIs(r.Register(owner), dispatch.ErrOwnerListener)

	req.Equal(1, r.Dispatch(event.Vote{UserID: 1, Direction: 1}))
	req.Equal([]string{"owner"}, j.calls)
}

func TestRegistry_SyntheticNotifications(t *testing.T) {
	req := require.New(t)
	j := &journal{}
	e := &ender{j: j}
	r := dispatch.NewRegistry(nil)
	req.NoError(r.Register(e))
	req.NoError(r.Register(&chatter{j: j}))
	prev := room.Snapshot{Track: &room.Track{HistoryID: "h-1"}}

	req.Equal(1, r.DispatchPerformanceEnd(prev))
	req.Equal(1, r.DispatchJoinRoom("room1", room.Snapshot{}))

	req.Equal([]string{"ended", "joined"}, j.calls)
	req.Equal("h-1", e.prev.Track.HistoryID)
	req.Equal("room1", e.slug)
}

type selfRemover struct {
	r     *dispatch.Registry
	calls int
}

func (s *selfRemover) OnVote(event.Vote) error {
	s.calls++
	s.r.Unregister(s)
	return nil
}

func TestRegistry_ListenerMayUnregisterDuringDispatch(t *testing.T) {
	r := dispatch.NewRegistry(nil)
	s := &selfRemover{r: r}
	require.NoError(t, r.Register(s))

	r.Dispatch(event.Vote{})
	r.Dispatch(event.Vote{})

	require.Equal(t, 1, s.calls)
}

func TestHandlerName(t *testing.T) {
	name, ok := dispatch.HandlerName(event.KindAdvance)
	require.True(t, ok)
	require.Equal(t, "OnAdvance", name)

	name, ok = dispatch.HandlerName(event.KindUnknown)
	require.True(t, ok)
	require.Equal(t, "OnUnknown", name)

	_, ok = dispatch.HandlerName("nope")
	require.False(t, ok)
}
