package memory

import (
	"context"
	"sort"
	"time"

	"github.com/m04kA/SMC-StudioBooking/internal/domain"
	availabilityRepo "github.com/m04kA/SMC-StudioBooking/internal/infra/storage/availability"
)

type AvailabilityRepository struct {
	store *Store
}

func (r *AvailabilityRepository) GetPatterns(ctx context.Context, ownerID int64) ([]domain.AvailabilityPattern, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	patterns := append([]domain.AvailabilityPattern{}, s.state.patterns[ownerID]...)
	sort.Slice(patterns, func(i, j int) bool {
		if patterns[i].Weekday != patterns[j].Weekday {
			return patterns[i].Weekday < patterns[j].Weekday
		}
		return patterns[i].StartTime.Minutes() < patterns[j].StartTime.Minutes()
	})
	return patterns, nil
}

func (r *AvailabilityRepository) ReplacePatterns(ctx context.Context, ownerID int64, patterns []domain.AvailabilityPattern) ([]domain.AvailabilityPattern, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	saved := make([]domain.AvailabilityPattern, len(patterns))
	for i, p := range patterns {
		p.ID = s.id()
		p.OwnerID = ownerID
		saved[i] = p
	}
	s.remember(ctx, keep(s.state.patterns, ownerID))
	s.state.patterns[ownerID] = append([]domain.AvailabilityPattern(nil), saved...)

	return saved, nil
}

func (r *AvailabilityRepository) GetSettings(ctx context.Context, ownerID int64) (*domain.AvailabilitySettings, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	settings, ok := s.state.settings[ownerID]
	if !ok {
		return nil, availabilityRepo.ErrSettingsNotFound
	}
	return &settings, nil
}

func (r *AvailabilityRepository) UpsertSettings(ctx context.Context, settings *domain.AvailabilitySettings) (*domain.AvailabilitySettings, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	settings.UpdatedAt = time.Now()
	s.remember(ctx, keep(s.state.settings, settings.OwnerID))
	s.state.settings[settings.OwnerID] = *settings
	return settings, nil
}

func (r *AvailabilityRepository) ListOverrides(ctx context.Context, ownerID int64, from, to time.Time) ([]domain.AvailabilityOverride, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	lo, hi := s.dateKey(from), s.dateKey(to)
	overrides := make([]domain.AvailabilityOverride, 0)
	for _, o := range s.state.overrides {
		day := s.dateKey(o.Date)
		if o.OwnerID == ownerID && day >= lo && day <= hi {
			overrides = append(overrides, o)
		}
	}
	sort.Slice(overrides, func(i, j int) bool {
		di, dj := s.dateKey(overrides[i].Date), s.dateKey(overrides[j].Date)
		if di != dj {
			return di < dj
		}
		return overrides[i].StartTime.Minutes() < overrides[j].StartTime.Minutes()
	})
	return overrides, nil
}

func (r *AvailabilityRepository) CreateOverride(ctx context.Context, o *domain.AvailabilityOverride) (*domain.AvailabilityOverride, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	o.ID = s.id()
	o.Date = s.inLocation(o.Date)
	o.CreatedAt = time.Now()
	s.remember(ctx, keep(s.state.overrides, o.ID))
	s.state.overrides[o.ID] = *o
	return o, nil
}

func (r *AvailabilityRepository) DeleteOverride(ctx context.Context, ownerID, id int64) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.state.overrides[id]
	if !ok || o.OwnerID != ownerID {
		return availabilityRepo.ErrOverrideNotFound
	}
	s.remember(ctx, keep(s.state.overrides, id))
	delete(s.state.overrides, id)
	return nil
}

func (r *AvailabilityRepository) ListBlockedDates(ctx context.Context, ownerID int64, from, to time.Time) ([]domain.BlockedDate, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	lo, hi := s.dateKey(from), s.dateKey(to)
	blocked := make([]domain.BlockedDate, 0)
	for _, b := range s.state.blocked {
		if b.OwnerID == ownerID && s.dateKey(b.StartDate) <= hi && s.dateKey(b.EndDate) >= lo {
			blocked = append(blocked, b)
		}
	}
	sort.Slice(blocked, func(i, j int) bool {
		return s.dateKey(blocked[i].StartDate) < s.dateKey(blocked[j].StartDate)
	})
	return blocked, nil
}

func (r *AvailabilityRepository) CreateBlockedDate(ctx context.Context, b *domain.BlockedDate) (*domain.BlockedDate, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if b.Source == "" {
		b.Source = domain.BlockedSourceManual
	}
	b.ID = s.id()
	b.StartDate = s.inLocation(b.StartDate)
	b.EndDate = s.inLocation(b.EndDate)
	b.CreatedAt = time.Now()
	s.remember(ctx, keep(s.state.blocked, b.ID))
	s.state.blocked[b.ID] = *b
	return b, nil
}

func (r *AvailabilityRepository) DeleteBlockedDate(ctx context.Context, ownerID, id int64) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.state.blocked[id]
	if !ok || b.OwnerID != ownerID {
		return availabilityRepo.ErrBlockedDateNotFound
	}
	s.remember(ctx, keep(s.state.blocked, id))
	delete(s.state.blocked, id)
	return nil
}

func (r *AvailabilityRepository) ListBusyIntervals(ctx context.Context, ownerID int64, from, to time.Time) ([]domain.BusyInterval, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	lo, hi := s.dateKey(from), s.dateKey(to)
	busy := make([]domain.BusyInterval, 0)
	for _, b := range s.state.busy[ownerID] {
		day := s.dateKey(b.Date)
		if day >= lo && day <= hi {
			busy = append(busy, b)
		}
	}
	sort.Slice(busy, func(i, j int) bool {
		di, dj := s.dateKey(busy[i].Date), s.dateKey(busy[j].Date)
		if di != dj {
			return di < dj
		}
		return busy[i].StartTime.Minutes() < busy[j].StartTime.Minutes()
	})
	return busy, nil
}

func (r *AvailabilityRepository) ReplaceBusyIntervals(ctx context.Context, ownerID int64, from, to time.Time, intervals []domain.BusyInterval) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	lo, hi := s.dateKey(from), s.dateKey(to)
	kept := make([]domain.BusyInterval, 0, len(s.state.busy[ownerID])+len(intervals))
	for _, b := range s.state.busy[ownerID] {
		day := s.dateKey(b.Date)
		if day < lo || day > hi {
			kept = append(kept, b)
		}
	}
	for _, b := range intervals {
		b.ID = s.id()
		b.OwnerID = ownerID
		b.Date = s.inLocation(b.Date)
		kept = append(kept, b)
	}
	s.remember(ctx, keep(s.state.busy, ownerID))
	s.state.busy[ownerID] = kept
	return nil
}
