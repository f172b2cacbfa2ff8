package cart

import (
	"context"
	"errors"
	"sync"

	"github.com/drinkshop/drinkshop-backend/pkg/db/models"
	"github.com/drinkshop/drinkshop-backend/pkg/metrics"
)

// ErrHubClosed is returned when subscribing after Close.
var ErrHubClosed = errors.New("cart stream closed")

// Hub fans committed cart snapshots out to live subscribers. It keeps the latest
// snapshot so new subscribers start from the current contents.
//
// Each subscriber owns a one-slot buffer: a snapshot that has not been received yet is
// replaced by the newer one, so a slow reader never holds up Publish.
type Hub struct {
	mu      sync.Mutex
	latest  []models.Drink
	primed  bool
	subs    map[uint64]chan []models.Drink
	nextID  uint64
	closed  bool
	done    chan struct{}
	metrics *metrics.CartMetrics
}

func NewHub(m *metrics.CartMetrics) *Hub {
	return &Hub{
		subs:    make(map[uint64]chan []models.Drink),
		done:    make(chan struct{}),
		metrics: m,
	}
}

// Primed reports whether a snapshot has been published yet.
func (h *Hub) Primed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.primed
}

// Latest returns a copy of the last published snapshot.
func (h *Hub) Latest() ([]models.Drink, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.primed {
		return nil, false
	}
	return cloneDrinks(h.latest), true
}

// Publish records snapshot as the latest state and offers a private copy to every
// subscriber.
func (h *Hub) Publish(snapshot []models.Drink) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}

	h.latest = cloneDrinks(snapshot)
	h.primed = true
	for _, ch := range h.subs {
		offer(ch, cloneDrinks(h.latest))
	}
	h.metrics.Emitted(len(h.latest))
}

// Invalidate drops the held snapshot so the next subscriber has to be primed from the
// table again. Live subscribers keep whatever they already received.
func (h *Hub) Invalidate() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.latest = nil
	h.primed = false
}

// Subscribe registers a subscriber. The channel receives the latest snapshot right away
// when one exists and is closed when ctx is done or the hub is closed.
func (h *Hub) Subscribe(ctx context.Context) (<-chan []models.Drink, error) {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil, ErrHubClosed
	}

	id := h.nextID
	h.nextID++
	ch := make(chan []models.Drink, 1)
	h.subs[id] = ch
	if h.primed {
		offer(ch, cloneDrinks(h.latest))
	}
	h.mu.Unlock()

	h.metrics.SubscriberAdded()

	go func() {
		select {
		case <-ctx.Done():
		case <-h.done:
		}
		h.unsubscribe(id)
	}()

	return ch, nil
}

// Subscribers returns the number of live subscriptions.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Close ends every subscription and rejects new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	close(h.done)
}

func (h *Hub) unsubscribe(id uint64) {
	h.mu.Lock()
	ch, ok := h.subs[id]
	if ok {
		delete(h.subs, id)
		close(ch)
	}
	h.mu.Unlock()

	if ok {
		h.metrics.SubscriberRemoved()
	}
}

// offer must be called with h.mu held; the hub is the only sender so the send after
// draining cannot block.
func offer(ch chan []models.Drink, snapshot []models.Drink) {
	select {
	case <-ch:
	default:
	}
	ch <- snapshot
}

func cloneDrinks(in []models.Drink) []models.Drink {
	out := make([]models.Drink, len(in))
	for i := range in {
		out[i] = in[i].Clone()
	}
	return out
}
