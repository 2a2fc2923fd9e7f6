// Package notify delivers settings change notifications.
//
// Observers subscribe either to every change or to a dotted path such as
// "movement". A path subscription also receives changes to its children,
// so "movement" sees "movement.step".
package notify

import (
	"sync"
)

// ChangeType represents the type of settings change.
type ChangeType int

const (
	// ChangeSet indicates a single value was updated.
	ChangeSet ChangeType = iota

	// ChangeReload indicates the settings were replaced wholesale.
	ChangeReload
)

// String returns the change type name.
func (c ChangeType) String() string {
	switch c {
	case ChangeSet:
		return "set"
	case ChangeReload:
		return "reload"
	default:
		return "unknown"
	}
}

// Change describes one settings change.
type Change struct {
	// Path is the dotted setting path. Empty for reloads.
	Path string

	Type     ChangeType
	OldValue any
	NewValue any

	// Source names the origin, e.g. "lua" or a file path.
	Source string
}

// Observer is called when a change is delivered.
type Observer func(change Change)

// Subscription is an active observer registration.
type Subscription struct {
	id       uint64
	notifier *Notifier
}

// Unsubscribe removes the observer. Safe to call more than once.
func (s *Subscription) Unsubscribe() {
	if s != nil && s.notifier != nil {
		s.notifier.unsubscribe(s.id)
	}
}

type entry struct {
	path     string
	observer Observer
}

// Notifier fans changes out to observers synchronously.
type Notifier struct {
	mu        sync.RWMutex
	observers map[uint64]entry
	order     []uint64
	nextID    uint64
	closed    bool
}

// New creates a Notifier.
func New() *Notifier {
	return &Notifier{observers: make(map[uint64]entry)}
}

// Subscribe registers an observer for every change.
func (n *Notifier) Subscribe(observer Observer) *Subscription {
	return n.SubscribePath("", observer)
}

// SubscribePath registers an observer for path and its children. Reloads
// are delivered to every observer.
func (n *Notifier) SubscribePath(path string, observer Observer) *Subscription {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.nextID
	n.nextID++
	n.observers[id] = entry{path: path, observer: observer}
	n.order = append(n.order, id)
	return &Subscription{id: id, notifier: n}
}

// Notify delivers change to matching observers in subscription order.
// Observers run outside the lock and may unsubscribe themselves.
func (n *Notifier) Notify(change Change) {
	n.mu.RLock()
	if n.closed {
		n.mu.RUnlock()
		return
	}
	var targets []Observer
	for _, id := range n.order {
		e := n.observers[id]
		if change.Type == ChangeReload || matches(e.path, change.Path) {
			targets = append(targets, e.observer)
		}
	}
	n.mu.RUnlock()

	for _, obs := range targets {
		obs(change)
	}
}

// NotifySet is shorthand for a ChangeSet notification.
func (n *Notifier) NotifySet(path string, oldValue, newValue any, source string) {
	n.Notify(Change{
		Path:     path,
		Type:     ChangeSet,
		OldValue: oldValue,
		NewValue: newValue,
		Source:   source,
	})
}

// NotifyReload is shorthand for a ChangeReload notification.
func (n *Notifier) NotifyReload(source string) {
	n.Notify(Change{Type: ChangeReload, Source: source})
}

// Len returns the number of active subscriptions.
func (n *Notifier) Len() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.observers)
}

// Close drops all observers. Later notifications are ignored.
func (n *Notifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.closed = true
	n.observers = make(map[uint64]entry)
	n.order = nil
}

func (n *Notifier) unsubscribe(id uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if _, ok := n.observers[id]; !ok {
		return
	}
	delete(n.observers, id)
	for i, v := range n.order {
		if v == id {
			n.order = append(n.order[:i], n.order[i+1:]...)
			break
		}
	}
}

// matches reports whether a subscription on sub receives a change to path.
func matches(sub, path string) bool {
	if sub == "" || sub == path {
		return true
	}
	return len(path) > len(sub) && path[:len(sub)] == sub && path[len(sub)] == '.'
}
