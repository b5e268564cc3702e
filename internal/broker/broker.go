// Package broker is the fan-out pipe between relay participants and the game.
// It makes no delivery promise beyond at-most-once and per-sender ordering, and
// does not inspect frame payloads: consumers filter by session themselves.
package broker

import (
	"sync"

	"github.com/google/uuid"

	"github.com/latestcomment/go-negotiation-game/internal/models"
)

// AnySession subscribes to every frame regardless of topic.
const AnySession = "*"

// Frame is one relayed payload. Data is forwarded verbatim.
type Frame struct {
	Session string
	Sender  uuid.UUID
	Role    models.Role
	Data    []byte
}

type Handler func(Frame)

type Broker interface {
	Publish(session string, f Frame)
	Subscribe(session string, h Handler) (unsubscribe func())
}

// Local is an in-process Broker. Each subscription is drained by its own
// goroutine; a subscriber whose buffer is full misses the frame.
type Local struct {
	mu     sync.RWMutex
	subs   map[string]map[*subscription]struct{}
	buffer int
	onDrop func(Frame)
}

type subscription struct {
	ch   chan Frame
	quit chan struct{}
	done chan struct{}
	once sync.Once
}

type LocalOption func(*Local)

// WithBuffer sets the per-subscriber queue length.
func WithBuffer(n int) LocalOption {
	return func(l *Local) { l.buffer = n }
}

// WithDropHook is called for every frame a slow subscriber misses.
func WithDropHook(fn func(Frame)) LocalOption {
	return func(l *Local) { l.onDrop = fn }
}

func NewLocal(opts ...LocalOption) *Local {
	l := &Local{
		subs:   make(map[string]map[*subscription]struct{}),
		buffer: 64,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Subscribe starts delivering session's frames to h. The returned func stops
// delivery and waits for a running h to return; frames still queued are
// discarded. It must not be called from within h.
func (l *Local) Subscribe(session string, h Handler) func() {
	sub := &subscription{
		ch:   make(chan Frame, l.buffer),
		quit: make(chan struct{}),
		done: make(chan struct{}),
	}

	l.mu.Lock()
	if l.subs[session] == nil {
		l.subs[session] = make(map[*subscription]struct{})
	}
	l.subs[session][sub] = struct{}{}
	l.mu.Unlock()

	go func() {
		defer close(sub.done)
		for {
			select {
			case <-sub.quit:
				return
			case f := <-sub.ch:
				select {
				case <-sub.quit:
					return
				default:
				}
				h(f)
			}
		}
	}()

	return func() {
		sub.once.Do(func() {
			l.mu.Lock()
			delete(l.subs[session], sub)
			if len(l.subs[session]) == 0 {
				delete(l.subs, session)
			}
			l.mu.Unlock()
			close(sub.quit)
		})
		<-sub.done
	}
}

func (l *Local) Publish(session string, f Frame) {
	f.Session = session

	l.mu.RLock()
	defer l.mu.RUnlock()

	l.deliver(l.subs[session], f)
	if session != AnySession {
		l.deliver(l.subs[AnySession], f)
	}
}

func (l *Local) deliver(subs map[*subscription]struct{}, f Frame) {
	for sub := range subs {
		select {
		case sub.ch <- f:
		default:
			if l.onDrop != nil {
				l.onDrop(f)
			}
		}
	}
}

// Subscribers returns how many handlers listen on session, excluding AnySession.
func (l *Local) Subscribers(session string) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.subs[session])
}
