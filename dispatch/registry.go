package dispatch

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/google/uuid"
	"github.com/hilthontt/plugdj/event"
	"github.com/hilthontt/plugdj/room"
	"go.uber.org/zap"
)

var (
	ErrNilListener           = errors.New("dispatch: nil listener")
	ErrListenerNotComparable = errors.New("dispatch: listener type is not comparable")
	ErrHandlerPanic          = errors.New("dispatch: handler panicked")
	ErrOwnerListener         = errors.New("dispatch: the owner is always notified and cannot be registered")
)

const ownerID = "owner"

// HandlerError describes a handler that returned an error or panicked.
type HandlerError struct {
	Listener   string
	ListenerID string
	Handler    string
	Kind       string
	Err        error
}

func (e *HandlerError) Error() string {
	return fmt.Sprintf("dispatch: %s (%s) %s on %s: %v", e.Listener, e.ListenerID, e.Handler, e.Kind, e.Err)
}

func (e *HandlerError) Unwrap() error { return e.Err }

type registration struct {
	id       string
	listener any
}

// Registry delivers events to the owner first and then to every listener in
// registration order. A failing handler is logged and skipped; it never
// stops delivery to the others.
type Registry struct {
	mu        sync.RWMutex
	owner     any
	listeners []registration
	logger    *zap.Logger
	onFailure func(*HandlerError)
}

type Option func(*Registry)

// WithOwner sets the object consulted before any registered listener,
// usually the session that owns the registry.
func WithOwner(owner any) Option {
	return func(r *Registry) { r.owner = owner }
}

// WithFailureHook is called for every handler failure after it is logged.
func WithFailureHook(fn func(*HandlerError)) Option {
	return func(r *Registry) { r.onFailure = fn }
}

func NewRegistry(logger *zap.Logger, opts ...Option) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Registry{logger: logger}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// same reports whether a and b are the same listener. Values whose dynamic
// contents cannot be compared, such as a struct holding a func in an
// interface field, are never the same.
func same(a, b any) (eq bool) {
	if reflect.TypeOf(a) != reflect.TypeOf(b) {
		return false
	}
	defer func() {
		if recover() != nil {
			eq = false
		}
	}()
	return a == b
}

// Register adds a listener. Registering the same listener twice is a no-op.
func (r *Registry) Register(listener any) error {
	if listener == nil {
		return ErrNilListener
	}
	if !reflect.TypeOf(listener).Comparable() || !same(listener, listener) {
		return fmt.Errorf("%w: %T", ErrListenerNotComparable, listener)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.owner != nil && same(listener, r.owner) {
		return ErrOwnerListener
	}
	for _, reg := range r.listeners {
		if same(reg.listener, listener) {
			return nil
		}
	}
	reg := registration{id: uuid.NewString(), listener: listener}
	r.listeners = append(r.listeners, reg)

	r.logger.Debug("listener registered",
		zap.String("listener", fmt.Sprintf("%T", listener)),
		zap.String("listenerID", reg.id),
	)
	return nil
}

// Unregister removes a listener. Removing an unknown listener is a no-op.
func (r *Registry) Unregister(listener any) {
	if listener == nil || !reflect.TypeOf(listener).Comparable() {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for i, reg := range r.listeners {
		if same(reg.listener, listener) {
			r.listeners = append(r.listeners[:i:i], r.listeners[i+1:]...)
			return
		}
	}
}

func (r *Registry) Listeners() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.listeners)
}

func (r *Registry) targets() []registration {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]registration, 0, len(r.listeners)+1)
	if r.owner != nil {
		out = append(out, registration{id: ownerID, listener: r.owner})
	}
	return append(out, r.listeners...)
}

// Dispatch delivers ev and returns the number of handlers invoked.
func (r *Registry) Dispatch(ev event.Event) int {
	inv, ok := invokers[ev.Kind()]
	if !ok {
		r.logger.Debug("no handler bound to kind", zap.String("kind", string(ev.Kind())))
		return 0
	}

	kind := string(ev.Kind())
	if u, ok := ev.(event.Unknown); ok {
		kind = u.WireKind
	}

	n := r.each(kind, inv.name, func(listener any) (bool, error) {
		return inv.call(listener, ev)
	})
	if n == 0 {
		r.logger.Debug("event had no handlers", zap.String("kind", kind), zap.String("handler", inv.name))
	}
	return n
}

// DispatchPerformanceEnd notifies listeners that the track in prev ended.
func (r *Registry) DispatchPerformanceEnd(prev room.Snapshot) int {
	return r.each("performanceEnd", "OnPerformanceEnd", func(listener any) (bool, error) {
		h, ok := listener.(PerformanceEndHandler)
		if !ok {
			return false, nil
		}
		return true, h.OnPerformanceEnd(prev)
	})
}

// DispatchJoinRoom notifies listeners that the session joined slug.
func (r *Registry) DispatchJoinRoom(slug string, snap room.Snapshot) int {
	return r.each("joinRoom", "OnJoinRoom", func(listener any) (bool, error) {
		h, ok := listener.(JoinRoomHandler)
		if !ok {
			return false, nil
		}
		return true, h.OnJoinRoom(slug, snap)
	})
}

func (r *Registry) each(kind, handler string, call func(any) (bool, error)) int {
	n := 0
	for _, t := range r.targets() {
		if r.invoke(t, kind, handler, call) {
			n++
		}
	}
	return n
}

func (r *Registry) invoke(t registration, kind, handler string, call func(any) (bool, error)) (handled bool) {
	defer func() {
		if rec := recover(); rec != nil {
			handled = true
			r.fail(t, kind, handler, fmt.Errorf("%w: %v", ErrHandlerPanic, rec))
		}
	}()

	handled, err := call(t.listener)
	if !handled {
		r.logger.Debug("listener skipped",
			zap.String("listener", fmt.Sprintf("%T", t.listener)),
			zap.String("listenerID", t.id),
			zap.String("handler", handler),
		)
		return false
	}
	if err != nil {
		r.fail(t, kind, handler, err)
	}
	return true
}

func (r *Registry) fail(t registration, kind, handler string, err error) {
	herr := &HandlerError{
		Listener:   fmt.Sprintf("%T", t.listener),
		ListenerID: t.id,
		Handler:    handler,
		Kind:       kind,
		Err:        err,
	}
	r.logger.Error("handler failed",
		zap.String("listener", herr.Listener),
		zap.String("listenerID", herr.ListenerID),
		zap.String("handler", herr.Handler),
		zap.String("kind", herr.Kind),
		zap.Error(err),
	)
	if r.onFailure != nil {
		r.onFailure(herr)
	}
}
