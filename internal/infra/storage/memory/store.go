package memory

import (
	"sync"
	"time"

	"github.com/m04kA/SMC-StudioBooking/internal/domain"
)

// Store хранилище всех сущностей в памяти процесса
// Используется при database.driver = "memory" и в тестах
type Store struct {
	mu  sync.RWMutex
	loc *time.Location

	state state
}

type state struct {
	nextID int64

	bookings     map[int64]domain.Booking
	sessionTypes map[int64]domain.SessionType
	patterns     map[int64][]domain.AvailabilityPattern
	settings     map[int64]domain.AvailabilitySettings
	overrides    map[int64]domain.AvailabilityOverride
	blocked      map[int64]domain.BlockedDate
	busy         map[int64][]domain.BusyInterval
}

func NewStore(loc *time.Location) *Store {
	if loc == nil {
		loc = time.UTC
	}
	return &Store{
		loc: loc,
		state: state{
			bookings:     make(map[int64]domain.Booking),
			sessionTypes: make(map[int64]domain.SessionType),
			patterns:     make(map[int64][]domain.AvailabilityPattern),
			settings:     make(map[int64]domain.AvailabilitySettings),
			overrides:    make(map[int64]domain.AvailabilityOverride),
			blocked:      make(map[int64]domain.BlockedDate),
			busy:         make(map[int64][]domain.BusyInterval),
		},
	}
}

// Bookings репозиторий бронирований поверх хранилища
func (s *Store) Bookings() *BookingRepository {
	return &BookingRepository{store: s}
}

// SessionTypes репозиторий типов сессий поверх хранилища
func (s *Store) SessionTypes() *SessionTypeRepository {
	return &SessionTypeRepository{store: s}
}

// Availability репозиторий доступности поверх хранилища
func (s *Store) Availability() *AvailabilityRepository {
	return &AvailabilityRepository{store: s}
}

// id выдает следующий идентификатор, вызывается под s.mu
func (s *Store) id() int64 {
	s.state.nextID++
	return s.state.nextID
}

// dateKey календарная дата в часовом поясе хранилища
func (s *Store) dateKey(t time.Time) string {
	return t.In(s.loc).Format(domain.DateFormat)
}

func (s *Store) inLocation(t time.Time) time.Time {
	y, m, d := t.In(s.loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, s.loc)
}
