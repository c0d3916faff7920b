// Package authstate fans auth-state events out to subscribers.
package authstate

import (
	"sync"

	"docapp/internal/domain/backend"
)

// Broadcaster keeps the current principal and delivers every change to each
// subscriber on that subscriber's own goroutine, in publish order.
// A new subscriber first receives the current principal.
type Broadcaster struct {
	mu      sync.Mutex
	current *backend.Principal
	subs    map[int]*subscriber
	nextID  int
}

type subscriber struct {
	listener backend.AuthStateListener

	mu    sync.Mutex
	queue []*backend.Principal
	wake  chan struct{}
	stop  chan struct{}
	done  chan struct{}
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: make(map[int]*subscriber)}
}

// Current returns a copy of the last published principal
func (b *Broadcaster) Current() *backend.Principal {
	b.mu.Lock()
	defer b.mu.Unlock()
	return clonePrincipal(b.current)
}

// Publish records principal (nil for signed out) and queues it for every subscriber
func (b *Broadcaster) Publish(principal *backend.Principal) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.current = clonePrincipal(principal)
	for _, s := range b.subs {
		s.push(clonePrincipal(principal))
	}
}

// Subscribe registers listener and queues the current principal for it.
// The returned func stops delivery and waits for an in-flight call to return.
func (b *Broadcaster) Subscribe(listener backend.AuthStateListener) func() {
	s := &subscriber{
		listener: listener,
		wake:     make(chan struct{}, 1),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go s.run()

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = s
	s.push(clonePrincipal(b.current))
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()

			close(s.stop)
			<-s.done
		})
	}
}

// Close stops every subscriber
func (b *Broadcaster) Close() {
	b.mu.Lock()
	subs := b.subs
	b.subs = make(map[int]*subscriber)
	b.mu.Unlock()

	for _, s := range subs {
		close(s.stop)
		<-s.done
	}
}

func (s *subscriber) push(principal *backend.Principal) {
	s.mu.Lock()
	s.queue = append(s.queue, principal)
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *subscriber) run() {
	defer close(s.done)
	for {
		select {
		case <-s.stop:
			return
		case <-s.wake:
		}

		for {
			s.mu.Lock()
			if len(s.queue) == 0 {
				s.mu.Unlock()
				break
			}
			next := s.queue[0]
			s.queue = s.queue[1:]
			s.mu.Unlock()

			select {
			case <-s.stop:
				return
			default:
			}
			s.listener(next)
		}
	}
}

func clonePrincipal(p *backend.Principal) *backend.Principal {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}
