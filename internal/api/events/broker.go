// filepath: internal/api/events/broker.go
package events

import (
	"fmt"
	"net/http"
	"sync"

	"mpvshelf/internal/logging"
)

// Broker fans progress percentages out to every connected event-stream
// subscriber. Used by the mpv binary download; subscribers attach before
// triggering the download and detach when their stream closes.
type Broker struct {
	mu   sync.Mutex
	subs map[chan int]struct{}
}

func NewBroker() *Broker {
	return &Broker{subs: make(map[chan int]struct{})}
}

// Subscribe registers a new listener. The returned channel is buffered; a
// slow listener drops intermediate percentages rather than blocking the
// publisher.
func (b *Broker) Subscribe() chan int {
	ch := make(chan int, 16)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe detaches and closes a listener channel.
func (b *Broker) Unsubscribe(ch chan int) {
	b.mu.Lock()
	if _, ok := b.subs[ch]; ok {
		delete(b.subs, ch)
		close(ch)
	}
	b.mu.Unlock()
}

// Publish delivers a percentage to every subscriber, dropping it for any
// subscriber whose buffer is full.
func (b *Broker) Publish(percent int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs {
		select {
		case ch <- percent:
		default:
		}
	}
}

// ServeHTTP streams progress events to the client as server-sent events,
// one "progress" event per published percentage.
func (b *Broker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	flusher.Flush()

	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	logging.Log.Debug("Progress event stream attached")
	for {
		select {
		case percent, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "event: progress\ndata: %d\n\n", percent)
			flusher.Flush()
		case <-r.Context().Done():
			return
		}
	}
}
