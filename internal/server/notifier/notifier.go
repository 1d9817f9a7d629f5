// Package notifier fans out resolution results of a watched document to
// connected clients.
package notifier

import (
	"sync"

	"github.com/leapstack-labs/macroscope/internal/resolve"
)

// Update is one published resolution of the watched document.
type Update struct {
	Version uint64
	Path    string
	Result  *resolve.Result
	Err     string
}

// Notifier keeps the latest Update and pings subscribers when it changes.
// Subscribers receive an empty struct and should call Latest.
type Notifier struct {
	mu        sync.RWMutex
	listeners map[chan struct{}]struct{}
	latest    Update
}

// New creates a new Notifier instance.
func New() *Notifier {
	return &Notifier{
		listeners: make(map[chan struct{}]struct{}),
	}
}

// Subscribe returns a channel that receives pings when updates are available.
// The caller must call Unsubscribe when done.
func (n *Notifier) Subscribe() chan struct{} {
	ch := make(chan struct{}, 1)
	n.mu.Lock()
	n.listeners[ch] = struct{}{}
	n.mu.Unlock()
	return ch
}

// Unsubscribe removes a listener channel and closes it.
func (n *Notifier) Unsubscribe(ch chan struct{}) {
	n.mu.Lock()
	delete(n.listeners, ch)
	n.mu.Unlock()
	close(ch)
}

// Publish stores u as the latest update, assigns it the next version and
// pings every listener. A listener whose channel is full is skipped; it
// still sees the newest update on its next read.
func (n *Notifier) Publish(u Update) uint64 {
	n.mu.Lock()
	defer n.mu.Unlock()

	u.Version = n.latest.Version + 1
	n.latest = u

	for ch := range n.listeners {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
	return u.Version
}

// Latest returns the most recent update. ok is false before the first
// Publish.
func (n *Notifier) Latest() (u Update, ok bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.latest, n.latest.Version > 0
}

// Listeners returns the number of subscribed listeners.
func (n *Notifier) Listeners() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.listeners)
}
