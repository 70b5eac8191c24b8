// Package watcher turns the host's swappable lifecycle hook slots into
// subscriptions, and provides the scene event watcher that funnels every
// tracked event into one callback.
package watcher

import (
	"fmt"

	"github.com/junopark00/tk-clarisse/internal/host"
)

// Handle identifies one subscription. The zero Handle is invalid.
type Handle struct {
	event string
	id    int
}

type subscription struct {
	fn  func()
	pre bool
}

// Source adapts the host's gettable/settable hook slots into subscribe and
// unsubscribe calls with explicit ownership. The original host procedure
// always keeps running: handlers compose around it, post by default, pre for
// teardown-style handlers. A slot is wrapped when its first subscription
// arrives and restored when its last one leaves, so wrappers never nest.
type Source struct {
	slots host.HookSlots
	saved map[string]host.Hook
	subs  map[string]map[int]*subscription
	next  int
}

// NewSource creates a Source over the given hook slots.
func NewSource(slots host.HookSlots) *Source {
	return &Source{
		slots: slots,
		saved: make(map[string]host.Hook),
		subs:  make(map[string]map[int]*subscription),
	}
}

// Subscribe registers fn to run after the host's own procedure for the
// named event.
func (s *Source) Subscribe(event string, fn func()) (Handle, error) {
	return s.subscribe(event, fn, false)
}

// SubscribePre registers fn to run before the host's own procedure for the
// named event. Used for the quit hook, where cleanup must happen before the
// host starts tearing itself down.
func (s *Source) SubscribePre(event string, fn func()) (Handle, error) {
	return s.subscribe(event, fn, true)
}

func (s *Source) subscribe(event string, fn func(), pre bool) (Handle, error) {
	if fn == nil {
		return Handle{}, fmt.Errorf("subscribe %s: nil handler", event)
	}

	if len(s.subs[event]) == 0 {
		original, err := s.slots.Hook(event)
		if err != nil {
			return Handle{}, fmt.Errorf("subscribe %s: %w", event, err)
		}
		if err := s.slots.SetHook(event, s.wrapper(event, original)); err != nil {
			return Handle{}, fmt.Errorf("subscribe %s: %w", event, err)
		}
		s.saved[event] = original
		if s.subs[event] == nil {
			s.subs[event] = make(map[int]*subscription)
		}
	}

	s.next++
	h := Handle{event: event, id: s.next}
	s.subs[event][h.id] = &subscription{fn: fn, pre: pre}
	return h, nil
}

// Unsubscribe removes a subscription. When the last subscription for an
// event is removed the original host procedure is restored. Unknown handles
// are a no-op.
func (s *Source) Unsubscribe(h Handle) error {
	evSubs, ok := s.subs[h.event]
	if !ok {
		return nil
	}
	if _, ok := evSubs[h.id]; !ok {
		return nil
	}
	delete(evSubs, h.id)

	if len(evSubs) == 0 {
		original := s.saved[h.event]
		delete(s.saved, h.event)
		delete(s.subs, h.event)
		if err := s.slots.SetHook(h.event, original); err != nil {
			return fmt.Errorf("unsubscribe %s: %w", h.event, err)
		}
	}
	return nil
}

// Wrapped reports whether the named event slot currently carries a wrapper.
func (s *Source) Wrapped(event string) bool {
	return len(s.subs[event]) > 0
}

// wrapper composes the subscriptions around the original procedure. The
// subscription set is snapshotted per firing: handlers may unsubscribe
// themselves (or everything) while the event is being delivered.
func (s *Source) wrapper(event string, original host.Hook) host.Hook {
	return func() {
		for _, sub := range s.snapshot(event, true) {
			sub.fn()
		}
		original()
		for _, sub := range s.snapshot(event, false) {
			sub.fn()
		}
	}
}

func (s *Source) snapshot(event string, pre bool) []*subscription {
	var out []*subscription
	for _, sub := range s.subs[event] {
		if sub.pre == pre {
			out = append(out, sub)
		}
	}
	return out
}
