package memory

import (
	"context"
	"sort"
	"time"

	"github.com/m04kA/SMC-StudioBooking/internal/domain"
	sessionTypeRepo "github.com/m04kA/SMC-StudioBooking/internal/infra/storage/sessiontype"
)

type SessionTypeRepository struct {
	store *Store
}

func (r *SessionTypeRepository) Create(ctx context.Context, st *domain.SessionType) (*domain.SessionType, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.keyTaken(st.OwnerID, st.Key, 0) {
		return nil, sessionTypeRepo.ErrDuplicateKey
	}

	now := time.Now()
	st.ID = s.id()
	st.CreatedAt = now
	st.UpdatedAt = now
	s.remember(ctx, keep(s.state.sessionTypes, st.ID))
	s.state.sessionTypes[st.ID] = *st

	return st, nil
}

func (r *SessionTypeRepository) Update(ctx context.Context, st *domain.SessionType) (*domain.SessionType, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.state.sessionTypes[st.ID]
	if !ok || stored.OwnerID != st.OwnerID {
		return nil, sessionTypeRepo.ErrSessionTypeNotFound
	}
	if r.keyTaken(st.OwnerID, st.Key, st.ID) {
		return nil, sessionTypeRepo.ErrDuplicateKey
	}

	st.CreatedAt = stored.CreatedAt
	st.UpdatedAt = time.Now()
	s.remember(ctx, keep(s.state.sessionTypes, st.ID))
	s.state.sessionTypes[st.ID] = *st

	return st, nil
}

func (r *SessionTypeRepository) GetByID(ctx context.Context, ownerID, id int64) (*domain.SessionType, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.state.sessionTypes[id]
	if !ok || st.OwnerID != ownerID {
		return nil, sessionTypeRepo.ErrSessionTypeNotFound
	}
	return &st, nil
}

func (r *SessionTypeRepository) List(ctx context.Context, filter sessionTypeRepo.ListFilter) ([]*domain.SessionType, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.SessionType, 0)
	for _, st := range s.state.sessionTypes {
		if st.OwnerID != filter.OwnerID {
			continue
		}
		if filter.OnlyActive && !st.IsActive {
			continue
		}
		if filter.OnlyPublic && !st.IsPublic {
			continue
		}
		found := st
		result = append(result, &found)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Name != result[j].Name {
			return result[i].Name < result[j].Name
		}
		return result[i].ID < result[j].ID
	})

	return result, nil
}

// keyTaken вызывается под s.mu
func (r *SessionTypeRepository) keyTaken(ownerID int64, key string, exceptID int64) bool {
	for _, st := range r.store.state.sessionTypes {
		if st.OwnerID == ownerID && st.Key == key && st.ID != exceptID {
			return true
		}
	}
	return false
}
