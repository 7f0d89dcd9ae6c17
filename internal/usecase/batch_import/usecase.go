package batch_import

import (
	"time"

	"github.com/m04kA/SMC-StudioBooking/internal/domain"
)

// UseCase проверка и импорт пакета бронирований
//
// Parse только читает: строки проверяются по тем же правилам, что и одиночное
// бронирование, против существующих бронирований и ранее принятых строк пакета.
// Execute создает строки по одной через защищенный путь создания.
type UseCase struct {
	bookingRepo      BookingRepository
	sessionTypeRepo  SessionTypeRepository
	availabilityRepo AvailabilityRepository
	creator          BookingCreator
	metrics          Metrics
	timeProvider     TimeProvider
	logger           Logger

	loc *time.Location
}

// NewUseCase создает новый экземпляр use case
// loc часовой пояс студии, в котором разбираются даты строк
func NewUseCase(
	bookingRepo BookingRepository,
	sessionTypeRepo SessionTypeRepository,
	availabilityRepo AvailabilityRepository,
	creator BookingCreator,
	m Metrics,
	loc *time.Location,
	logger Logger,
) *UseCase {
	if loc == nil {
		loc = time.UTC
	}
	return &UseCase{
		bookingRepo:      bookingRepo,
		sessionTypeRepo:  sessionTypeRepo,
		availabilityRepo: availabilityRepo,
		creator:          creator,
		metrics:          m,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
		loc:              loc,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

func (uc *UseCase) parseDate(s string) (time.Time, error) {
	return time.ParseInLocation(domain.DateFormat, s, uc.loc)
}
