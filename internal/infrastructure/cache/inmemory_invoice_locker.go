package cache

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

type lockKey struct {
	tenantID  uuid.UUID
	invoiceID uuid.UUID
}

type lockSlot struct {
	ch      chan struct{}
	waiters int
}

// InMemoryInvoiceLocker serializes invoice writes within one process.
// Slots are dropped once nobody holds or waits for them.
type InMemoryInvoiceLocker struct {
	mu    sync.Mutex
	slots map[lockKey]*lockSlot
}

// NewInMemoryInvoiceLocker creates an empty locker
func NewInMemoryInvoiceLocker() *InMemoryInvoiceLocker {
	return &InMemoryInvoiceLocker{slots: make(map[lockKey]*lockSlot)}
}

// Lock blocks until the invoice lock is held or ctx ends
func (l *InMemoryInvoiceLocker) Lock(ctx context.Context, tenantID, invoiceID uuid.UUID) (func(), error) {
	key := lockKey{tenantID: tenantID, invoiceID: invoiceID}

	l.mu.Lock()
	slot, ok := l.slots[key]
	if !ok {
		slot = &lockSlot{ch: make(chan struct{}, 1)}
		l.slots[key] = slot
	}
	slot.waiters++
	l.mu.Unlock()

	select {
	case slot.ch <- struct{}{}:
	case <-ctx.Done():
		l.leave(key, slot)
		return nil, ErrLockTimeout
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-slot.ch
			l.leave(key, slot)
		})
	}, nil
}

func (l *InMemoryInvoiceLocker) leave(key lockKey, slot *lockSlot) {
	l.mu.Lock()
	defer l.mu.Unlock()
	slot.waiters--
	if slot.waiters == 0 {
		delete(l.slots, key)
	}
}

// size reports the number of live slots
func (l *InMemoryInvoiceLocker) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.slots)
}
