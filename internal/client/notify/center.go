package notify

import (
	"sync"

	"github.com/rs/zerolog"
)

const defaultBuffer = 64

// Center fans notifications out to sinks from a single worker goroutine, so
// Notify never waits on a slow sink. When the buffer is full the notification
// is dropped and logged.
type Center struct {
	ch    chan Notification
	sinks []Notifier
	log   zerolog.Logger

	closeOnce sync.Once
	mu        sync.RWMutex
	closed    bool
	done      chan struct{}

	pendingMu sync.Mutex
	pending   int
	idle      *sync.Cond
}

// NewCenter starts the worker. buffer <= 0 selects defaultBuffer.
func NewCenter(buffer int, log zerolog.Logger, sinks ...Notifier) *Center {
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	c := &Center{
		ch:    make(chan Notification, buffer),
		sinks: sinks,
		log:   log,
		done:  make(chan struct{}),
	}
	c.idle = sync.NewCond(&c.pendingMu)
	go c.run()
	return c
}

// Notify enqueues n without blocking.
func (c *Center) Notify(n Notification) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		c.log.Warn().Str("message", n.Message).Msg("notification after close dropped")
		return
	}
	c.pendingMu.Lock()
	c.pending++
	c.pendingMu.Unlock()
	select {
	case c.ch <- n:
	default:
		c.settle()
		c.log.Warn().Str("message", n.Message).Msg("notification buffer full, dropped")
	}
}

// Close stops accepting notifications and waits until queued ones are delivered.
func (c *Center) Close() {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		close(c.ch)
		c.mu.Unlock()
	})
	<-c.done
}

func (c *Center) run() {
	defer close(c.done)
	for n := range c.ch {
		for _, s := range c.sinks {
			c.deliver(s, n)
		}
		c.settle()
	}
}

// Flush blocks until every notification accepted so far has been delivered.
func (c *Center) Flush() {
	c.pendingMu.Lock()
	for c.pending > 0 {
		c.idle.Wait()
	}
	c.pendingMu.Unlock()
}

func (c *Center) settle() {
	c.pendingMu.Lock()
	c.pending--
	if c.pending == 0 {
		c.idle.Broadcast()
	}
	c.pendingMu.Unlock()
}

func (c *Center) deliver(s Notifier, n Notification) {
	defer func() {
		if r := recover(); r != nil {
			c.log.Error().Interface("panic", r).Msg("notification sink panicked")
		}
	}()
	s.Notify(n)
}
