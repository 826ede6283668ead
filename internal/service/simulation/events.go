package simulation

import "sync"

const subscriberBuffer = 8

// broadcaster fans views out to subscribers. Slow subscribers miss
// intermediate views; the latest one is always the last delivered.
type broadcaster struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]chan View
}

func newBroadcaster() *broadcaster {
	return &broadcaster{subs: make(map[int]chan View)}
}

func (b *broadcaster) subscribe() (<-chan View, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	ch := make(chan View, subscriberBuffer)
	b.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if sub, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(sub)
			}
		})
	}
}

func (b *broadcaster) publish(v View) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- v:
		default:
			// drop the oldest pending view to make room
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- v:
			default:
			}
		}
	}
}

func (b *broadcaster) closeAll() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}
