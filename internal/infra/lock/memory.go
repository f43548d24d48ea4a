package lock

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MemoryLocker блокировка по ключу в пределах одного процесса
type MemoryLocker struct {
	mu          sync.Mutex
	slots       map[string]chan struct{}
	waitTimeout time.Duration
}

// NewMemoryLocker создает блокировку; waitTimeout <= 0 - ждать до отмены контекста
func NewMemoryLocker(waitTimeout time.Duration) *MemoryLocker {
	return &MemoryLocker{
		slots:       make(map[string]chan struct{}),
		waitTimeout: waitTimeout,
	}
}

func (l *MemoryLocker) slot(key string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()

	ch, ok := l.slots[key]
	if !ok {
		ch = make(chan struct{}, 1)
		l.slots[key] = ch
	}
	return ch
}

func (l *MemoryLocker) Acquire(ctx context.Context, key string) (func(), error) {
	ch := l.slot(key)

	var timeout <-chan time.Time
	if l.waitTimeout > 0 {
		timer := time.NewTimer(l.waitTimeout)
		defer timer.Stop()
		timeout = timer.C
	}

	select {
	case ch <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timeout:
		return nil, fmt.Errorf("%w: key %s", ErrLockTimeout, key)
	}

	var once sync.Once
	return func() {
		once.Do(func() { <-ch })
	}, nil
}
