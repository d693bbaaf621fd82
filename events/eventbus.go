package events

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"chainstd/logx"
)

type SubscriberID string

type Subscriber struct {
	ID      SubscriberID
	Channel chan Record
}

// Bus delivers committed records to channel subscribers. It implements Sink,
// so it attaches to a contract like any other observer.
type Bus struct {
	subscribers map[SubscriberID]*Subscriber
	mu          sync.RWMutex
}

func NewBus() *Bus {
	return &Bus{
		subscribers: make(map[SubscriberID]*Subscriber),
	}
}

func (b *Bus) generateSubscriberID() SubscriberID {
	id := uuid.Must(uuid.NewV7())
	return SubscriberID(id.String())
}

func (b *Bus) Subscribe() (SubscriberID, chan Record) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.generateSubscriberID()

	ch := make(chan Record, 50) // Buffer for records
	subscriber := &Subscriber{
		ID:      id,
		Channel: ch,
	}

	b.subscribers[id] = subscriber

	logx.Info("EVENTBUS", fmt.Sprintf("Client subscribed to contract events | subscriber_id=%s | total_subscribers=%d", id, len(b.subscribers)))

	return id, ch
}

// Unsubscribe removes a subscription by ID and closes its channel.
func (b *Bus) Unsubscribe(id SubscriberID) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	subscriber, exists := b.subscribers[id]
	if !exists {
		logx.Warn("EVENTBUS", fmt.Sprintf("Attempted to unsubscribe non-existent subscriber | subscriber_id=%s", id))
		return false
	}

	delete(b.subscribers, id)
	close(subscriber.Channel)

	logx.Info("EVENTBUS", fmt.Sprintf("Client unsubscribed from contract events | subscriber_id=%s | remaining_subscribers=%d", id, len(b.subscribers)))
	return true
}

// Publish implements Sink: the record is offered to every subscriber without
// blocking. A subscriber whose channel is full misses the record.
func (b *Bus) Publish(rec Record) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if len(b.subscribers) == 0 {
		return
	}

	for id, subscriber := range b.subscribers {
		select {
		case subscriber.Channel <- rec:
			// Record sent successfully
		default:
			// Channel is full, skip this subscriber
			logx.Warn("EVENTBUS", fmt.Sprintf("Subscriber channel full | subscriber_id=%s | seq=%d | type=%s", id, rec.Seq, rec.Type))
		}
	}
}

// TotalSubscriptions returns the number of active subscriptions.
func (b *Bus) TotalSubscriptions() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return len(b.subscribers)
}

// HasSubscriber checks if a subscriber with the given ID exists.
func (b *Bus) HasSubscriber(id SubscriberID) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()

	_, exists := b.subscribers[id]
	return exists
}

// CloseAll unsubscribes everyone, closing their channels.
func (b *Bus) CloseAll() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for id, subscriber := range b.subscribers {
		delete(b.subscribers, id)
		close(subscriber.Channel)
	}
}
