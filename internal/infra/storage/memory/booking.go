package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-StudioBooking/internal/domain"
	bookingRepo "github.com/m04kA/SMC-StudioBooking/internal/infra/storage/booking"
)

// BookingRepository бронирования в памяти, ошибки совпадают с postgres реализацией
type BookingRepository struct {
	store *Store
}

func (r *BookingRepository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	booking.ID = s.id()
	booking.BookingDate = s.inLocation(booking.BookingDate)
	booking.CreatedAt = now
	booking.UpdatedAt = now
	s.remember(ctx, keep(s.state.bookings, booking.ID))
	s.state.bookings[booking.ID] = *booking

	return booking, nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.state.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	return &b, nil
}

func (r *BookingRepository) GetByUUID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, b := range s.state.bookings {
		if b.UUID == id {
			found := b
			return &found, nil
		}
	}
	return nil, bookingRepo.ErrBookingNotFound
}

func (r *BookingRepository) List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	var from, to string
	if filter.StartDate != nil {
		from = s.dateKey(*filter.StartDate)
	}
	if filter.EndDate != nil {
		to = s.dateKey(*filter.EndDate)
	}

	result := make([]*domain.Booking, 0)
	for _, b := range s.state.bookings {
		if b.OwnerID != filter.OwnerID {
			continue
		}
		day := s.dateKey(b.BookingDate)
		if from != "" && day < from {
			continue
		}
		if to != "" && day > to {
			continue
		}
		if filter.SessionTypeID != nil && b.SessionTypeID != *filter.SessionTypeID {
			continue
		}
		if filter.Status != nil {
			if b.Status != *filter.Status {
				continue
			}
		} else if !filter.IncludeInactive && !b.IsActive() {
			continue
		}
		found := b
		result = append(result, &found)
	}

	sort.Slice(result, func(i, j int) bool {
		di, dj := s.dateKey(result[i].BookingDate), s.dateKey(result[j].BookingDate)
		if di != dj {
			return di < dj
		}
		if result[i].StartTime != result[j].StartTime {
			return result[i].StartTime.Minutes() < result[j].StartTime.Minutes()
		}
		return result[i].ID < result[j].ID
	})

	return result, nil
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, booking *domain.Booking) error {
	return r.update(ctx, booking.ID, func(stored *domain.Booking) {
		stored.Status = booking.Status
		stored.StatusChangedAt = booking.StatusChangedAt
		stored.CancellationReason = booking.CancellationReason
		stored.CanceledAt = booking.CanceledAt
		stored.CompletedAt = booking.CompletedAt
	})
}

func (r *BookingRepository) Reschedule(ctx context.Context, booking *domain.Booking) error {
	return r.update(ctx, booking.ID, func(stored *domain.Booking) {
		stored.BookingDate = r.store.inLocation(booking.BookingDate)
		stored.StartTime = booking.StartTime
		stored.EndTime = booking.EndTime
	})
}

func (r *BookingRepository) CountBySessionType(ctx context.Context, sessionTypeID int64) (int, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, b := range s.state.bookings {
		if b.SessionTypeID == sessionTypeID {
			count++
		}
	}
	return count, nil
}

// LockDay транзакции в памяти уже выполняются по одной, достаточно проверить, что мы внутри неё
func (r *BookingRepository) LockDay(ctx context.Context, ownerID int64, date time.Time) error {
	if !inTx(ctx) {
		return bookingRepo.ErrNotInTransaction
	}
	return nil
}

func (r *BookingRepository) update(ctx context.Context, id int64, apply func(stored *domain.Booking)) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.state.bookings[id]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	apply(&stored)
	stored.UpdatedAt = time.Now()
	s.remember(ctx, keep(s.state.bookings, id))
	s.state.bookings[id] = stored
	return nil
}
