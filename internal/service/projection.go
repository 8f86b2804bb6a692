package service

import (
	"sync"
)

// State is the load state of a controller's projection.
type State int

const (
	Unloaded State = iota
	Loading
	Loaded
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	default:
		return "unloaded"
	}
}

// Projection is the in-memory, filtered and ordered view of a collection that
// a controller publishes to its subscribers. A failed mutation never touches
// it, so the previous view stays in place.
// Every publish carries a ticket; a view older than the one shown is dropped.
type Projection[T any] struct {
	mu     sync.RWMutex
	items  []T
	state  State
	subs   map[int64]func([]T)
	nextID int64

	// pubMu serializes publishes so subscribers see views in ticket order.
	pubMu  sync.Mutex
	issued uint64
	shown  uint64
}

func newProjection[T any]() *Projection[T] {
	return &Projection[T]{items: []T{}, subs: make(map[int64]func([]T))}
}

// Snapshot returns a copy of the current view.
func (p *Projection[T]) Snapshot() []T {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]T{}, p.items...)
}

// State returns the current load state.
func (p *Projection[T]) State() State {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

// Subscribe registers fn to be called with every newly published view.
// The returned func unregisters it.
func (p *Projection[T]) Subscribe(fn func([]T)) (cancel func()) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.nextID++
	id := p.nextID
	p.subs[id] = fn
	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.subs, id)
	}
}

// loading marks the projection as loading unless it has already loaded once;
// a reload keeps serving the previous view.
func (p *Projection[T]) loading() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state == Unloaded {
		p.state = Loading
	}
}

// ticket reserves the next publish position.
func (p *Projection[T]) ticket() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.issued++
	return p.issued
}

// publish replaces the view with items, ahead of every ticket issued so far.
func (p *Projection[T]) publish(items []T) {
	p.publishAt(p.ticket(), items)
}

// publishAt replaces the view, marks it loaded, and notifies subscribers
// synchronously, each with its own copy. A ticket at or below the one already
// shown is stale and ignored. Subscribers must not publish to p.
func (p *Projection[T]) publishAt(t uint64, items []T) {
	p.pubMu.Lock()
	defer p.pubMu.Unlock()

	p.mu.Lock()
	if t <= p.shown {
		p.mu.Unlock()
		return
	}
	p.shown = t
	p.items = append([]T{}, items...)
	p.state = Loaded
	fns := make([]func([]T), 0, len(p.subs))
	for _, fn := range p.subs {
		fns = append(fns, fn)
	}
	p.mu.Unlock()

	for _, fn := range fns {
		fn(append([]T{}, items...))
	}
}

// failed returns a load that never completed to Unloaded, so State does
// not report Loading forever.
func (p *Projection[T]) failed() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state == Loading {
		p.state = Unloaded
	}
}
