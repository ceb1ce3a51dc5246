package session

import (
	"sync"

	"github.com/OCAP2/mapsnap/internal/snap"
)

// OptionsChannel supplies the configuration at session start and notifies
// subscribers when it changes.
type OptionsChannel interface {
	Current() snap.Options
	// Subscribe registers fn and returns a function that removes it.
	Subscribe(fn func(snap.Options)) (unsubscribe func())
}

// Broadcaster is an OptionsChannel that fans Publish calls out to every
// subscriber on the publishing goroutine.
type Broadcaster struct {
	mu      sync.Mutex
	current snap.Options
	subs    map[int]func(snap.Options)
	nextID  int
}

var _ OptionsChannel = (*Broadcaster)(nil)

// NewBroadcaster creates a broadcaster holding initial.
func NewBroadcaster(initial snap.Options) *Broadcaster {
	return &Broadcaster{current: initial, subs: make(map[int]func(snap.Options))}
}

func (b *Broadcaster) Current() snap.Options {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current
}

func (b *Broadcaster) Subscribe(fn func(snap.Options)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.subs[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs, id)
		})
	}
}

// Publish stores opts and calls every subscriber. Subscribers run without
// the broadcaster lock held, so they may unsubscribe from inside the call.
func (b *Broadcaster) Publish(opts snap.Options) {
	b.mu.Lock()
	b.current = opts
	fns := make([]func(snap.Options), 0, len(b.subs))
	for _, fn := range b.subs {
		fns = append(fns, fn)
	}
	b.mu.Unlock()

	for _, fn := range fns {
		fn(opts)
	}
}

// Subscribers returns the number of registered subscribers.
func (b *Broadcaster) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
