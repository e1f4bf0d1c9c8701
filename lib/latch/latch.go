// Package latch provides a countdown latch: goroutines block in Wait until
// CountDown has been called as often as the latch was created with.
package latch

import "sync"

// Latch is a one-shot countdown latch. It must not be copied after first use.
type Latch struct {
	mu    sync.Mutex
	cond  *sync.Cond
	count int
}

// New creates a latch that opens after count calls to CountDown.
// A latch created with count <= 0 is open from the start.
func New(count int) *Latch {
	l := &Latch{count: max(count, 0)}
	l.cond = sync.NewCond(&l.mu)
	return l
}

// CountDown decrements the counter and wakes all waiters when it reaches
// zero. Calls on an open latch have no effect.
func (l *Latch) CountDown() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.count == 0 {
		return
	}
	l.count--
	if l.count == 0 {
		l.cond.Broadcast()
	}
}

// Wait blocks until the counter reaches zero.
func (l *Latch) Wait() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for l.count > 0 {
		l.cond.Wait()
	}
}

// Remaining returns the current counter value.
func (l *Latch) Remaining() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.count
}
