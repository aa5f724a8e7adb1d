package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"smartcart/apperror"
	"smartcart/cart"
)

type entry struct {
	mu       sync.Mutex
	cart     *cart.Cart
	lastSeen time.Time
}

// Registry owns one Cart per open session. Each cart is only touched while
// its entry lock is held, so cart operations within a session are serial.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*entry
	ttl      time.Duration
	now      func() time.Time
	newCart  func() *cart.Cart
	logger   *zap.Logger
}

type Option func(*Registry)

func WithClock(now func() time.Time) Option {
	return func(r *Registry) {
		r.now = now
	}
}

func WithCartFactory(newCart func() *cart.Cart) Option {
	return func(r *Registry) {
		r.newCart = newCart
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

// NewRegistry creates a registry whose sessions expire after ttl without
// activity. A zero ttl disables expiry.
func NewRegistry(ttl time.Duration, opts ...Option) *Registry {
	r := &Registry{
		sessions: make(map[string]*entry),
		ttl:      ttl,
		now:      time.Now,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.newCart == nil {
		r.newCart = func() *cart.Cart { return cart.New(cart.WithClock(r.now)) }
	}
	return r
}

// Open starts a session with an empty cart and returns its ID.
func (r *Registry) Open() string {
	id := uuid.NewString()
	r.mu.Lock()
	r.sessions[id] = &entry{cart: r.newCart(), lastSeen: r.now()}
	r.mu.Unlock()
	r.logger.Debug("session opened", zap.String("session_id", id))
	return id
}

// With runs fn against the session's cart while holding the session lock.
func (r *Registry) With(id string, fn func(c *cart.Cart) error) error {
	r.mu.Lock()
	e, ok := r.sessions[id]
	r.mu.Unlock()
	if !ok {
		return apperror.NotFound("Session not found")
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastSeen = r.now()
	return fn(e.cart)
}

// Exists reports whether id names an open session.
func (r *Registry) Exists(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.sessions[id]
	return ok
}

// Close discards a session and its cart.
func (r *Registry) Close(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; !ok {
		return false
	}
	delete(r.sessions, id)
	return true
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep drops sessions idle for longer than the TTL and returns how many
// were removed.
func (r *Registry) Sweep() int {
	if r.ttl <= 0 {
		return 0
	}
	cutoff := r.now().Add(-r.ttl)

	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for id, e := range r.sessions {
		e.mu.Lock()
		idle := e.lastSeen.Before(cutoff)
		e.mu.Unlock()
		if idle {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed
}

// Run sweeps idle sessions every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				r.logger.Info("expired idle sessions", zap.Int("count", n))
			}
		}
	}
}
