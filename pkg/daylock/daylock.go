package daylock

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Locker мьютекс по ключу (владелец + дата)
// Записи удаляются, когда ключ больше никто не держит и не ждёт
type Locker struct {
	mu    sync.Mutex
	locks map[string]*entry
}

type entry struct {
	ch   chan struct{}
	refs int
}

func New() *Locker {
	return &Locker{locks: make(map[string]*entry)}
}

// Key ключ блокировки для владельца и календарной даты
func Key(ownerID int64, date time.Time) string {
	return fmt.Sprintf("%d:%s", ownerID, date.Format("2006-01-02"))
}

// Lock захватывает блокировку по ключу, ожидая её освобождения или отмены контекста
// Возвращает функцию освобождения
func (l *Locker) Lock(ctx context.Context, key string) (func(), error) {
	l.mu.Lock()
	e, ok := l.locks[key]
	if !ok {
		e = &entry{ch: make(chan struct{}, 1)}
		l.locks[key] = e
	}
	e.refs++
	l.mu.Unlock()

	select {
	case e.ch <- struct{}{}:
		var once sync.Once
		return func() {
			once.Do(func() {
				<-e.ch
				l.release(key, e)
			})
		}, nil
	case <-ctx.Done():
		l.release(key, e)
		return nil, ctx.Err()
	}
}

func (l *Locker) release(key string, e *entry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e.refs--
	if e.refs == 0 {
		delete(l.locks, key)
	}
}

// size количество активных ключей
func (l *Locker) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
