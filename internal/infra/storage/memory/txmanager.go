package memory

import (
	"context"
	"sync"
)

type txKey struct{}

// journal записи отката одной транзакции, выполняются в обратном порядке
type journal struct {
	undo []func()
}

// TxManager транзакции для хранилища в памяти
// Транзакции выполняются строго по одной; при ошибке откатываются только их собственные записи,
// изменения, сделанные вне транзакции в это же время, сохраняются
type TxManager struct {
	store *Store
	mu    sync.Mutex
}

func NewTxManager(store *Store) *TxManager {
	return &TxManager{store: store}
}

func (m *TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

func (m *TxManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

func (m *TxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

func (m *TxManager) run(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if inTx(ctx) {
		return fn(ctx)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	j := &journal{}
	defer func() {
		if p := recover(); p != nil {
			m.store.rollback(j)
			panic(p)
		}
		if err != nil {
			m.store.rollback(j)
		}
	}()

	return fn(context.WithValue(ctx, txKey{}, j))
}

func inTx(ctx context.Context) bool {
	return journalFrom(ctx) != nil
}

func journalFrom(ctx context.Context) *journal {
	j, _ := ctx.Value(txKey{}).(*journal)
	return j
}

// remember запоминает откат записи, если она сделана внутри транзакции; вызывается под s.mu
func (s *Store) remember(ctx context.Context, undo func()) {
	if j := journalFrom(ctx); j != nil {
		j.undo = append(j.undo, undo)
	}
}

func (s *Store) rollback(j *journal) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := len(j.undo) - 1; i >= 0; i-- {
		j.undo[i]()
	}
}

// keep возвращает откат, возвращающий ключу m[k] текущее значение
func keep[K comparable, V any](m map[K]V, k K) func() {
	prev, ok := m[k]
	return func() {
		if ok {
			m[k] = prev
		} else {
			delete(m, k)
		}
	}
}
