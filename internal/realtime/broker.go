package realtime

import "sync"

// Broker is the in-process change feed: publishers signal that a topic's data
// changed, subscribers get woken to re-read it. Each subscriber is served by
// its own goroutine with a coalescing one-slot queue, so a burst of publishes
// collapses into a single wake-up and notifications for one subscriber never
// run concurrently or out of order.
type Broker struct {
	mu     sync.Mutex
	topics map[string]map[uint64]*subscriber
	nextID uint64
}

type subscriber struct {
	wake chan struct{}
	done chan struct{}
}

func NewBroker() *Broker {
	return &Broker{topics: make(map[string]map[uint64]*subscriber)}
}

// Subscribe registers fn to run once shortly after subscribing (the initial
// read) and after every publish on topic. The returned cancel function stops
// delivery and is safe to call more than once.
func (b *Broker) Subscribe(topic string, fn func()) func() {
	sub := &subscriber{
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}

	b.mu.Lock()
	subs, ok := b.topics[topic]
	if !ok {
		subs = make(map[uint64]*subscriber)
		b.topics[topic] = subs
	}
	b.nextID++
	id := b.nextID
	subs[id] = sub
	b.mu.Unlock()

	sub.wake <- struct{}{}

	go func() {
		for {
			select {
			case <-sub.done:
				return
			case <-sub.wake:
				fn()
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			if subs, ok := b.topics[topic]; ok {
				delete(subs, id)
				if len(subs) == 0 {
					delete(b.topics, topic)
				}
			}
			b.mu.Unlock()
			close(sub.done)
		})
	}
}

// Publish wakes every subscriber of topic.
func (b *Broker) Publish(topic string) {
	b.mu.Lock()
	subs := make([]*subscriber, 0, len(b.topics[topic]))
	for _, sub := range b.topics[topic] {
		subs = append(subs, sub)
	}
	b.mu.Unlock()

	for _, sub := range subs {
		select {
		case sub.wake <- struct{}{}:
		default:
		}
	}
}
