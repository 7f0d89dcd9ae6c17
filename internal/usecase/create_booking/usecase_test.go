package create_booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-StudioBooking/internal/domain"
	"github.com/m04kA/SMC-StudioBooking/internal/infra/storage/memory"
	"github.com/m04kA/SMC-StudioBooking/internal/scheduling"
	"github.com/m04kA/SMC-StudioBooking/internal/usecase/reservation"
	"github.com/m04kA/SMC-StudioBooking/pkg/daylock"
	"github.com/m04kA/SMC-StudioBooking/pkg/logger"
	"github.com/m04kA/SMC-StudioBooking/pkg/metrics"
	"github.com/m04kA/SMC-StudioBooking/pkg/ptr"
	"github.com/m04kA/SMC-StudioBooking/pkg/types"
)

const ownerID = int64(1)

// Понедельник 13.10.2025 08:00, бронируем на вторник 14.10
var (
	now     = time.Date(2025, 10, 13, 8, 0, 0, 0, time.UTC)
	tuesday = time.Date(2025, 10, 14, 0, 0, 0, 0, time.UTC)
)

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.BookingEvent
}

func (p *recordingPublisher) Publish(ctx context.Context, event domain.BookingEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

type fixture struct {
	store       *memory.Store
	uc          *UseCase
	publisher   *recordingPublisher
	metrics     *metrics.Metrics
	sessionType *domain.SessionType
}

func newFixture(t *testing.T, st *domain.SessionType) *fixture {
	t.Helper()
	ctx := context.Background()

	store := memory.NewStore(time.UTC)
	_, err := store.Availability().ReplacePatterns(ctx, ownerID, []domain.AvailabilityPattern{
		{OwnerID: ownerID, Weekday: int(time.Tuesday), StartTime: "09:00", EndTime: "11:00", IsActive: true},
	})
	require.NoError(t, err)

	if st == nil {
		st = &domain.SessionType{}
	}
	st.OwnerID = ownerID
	st.Key = "portrait"
	st.Name = "Портрет"
	st.DurationMinutes = 30
	st.LocationType = domain.LocationStudio
	st.IsActive = true
	st.IsPublic = true
	sessionType, err := store.SessionTypes().Create(ctx, st)
	require.NoError(t, err)

	publisher := &recordingPublisher{}
	m := metrics.NewWithRegisterer("test", prometheus.NewRegistry())
	guard := reservation.NewGuard(daylock.New(), memory.NewTxManager(store), store.Bookings())

	uc := NewUseCase(store.Bookings(), store.SessionTypes(), store.Availability(), guard, publisher, m, logger.NewNop()).
		WithTimeProvider(fixedTime{now})

	return &fixture{store: store, uc: uc, publisher: publisher, metrics: m, sessionType: sessionType}
}

func (f *fixture) request(start string) *Request {
	return &Request{
		OwnerID:       ownerID,
		SessionTypeID: f.sessionType.ID,
		Date:          tuesday,
		StartTime:     types.TimeString(start),
		Contact:       domain.Contact{Name: "Анна", Email: "anna@example.com"},
	}
}

func TestCreateBooking_Success(t *testing.T) {
	f := newFixture(t, &domain.SessionType{DefaultLocation: ptr.Ptr("Студия 1")})

	resp, err := f.uc.Execute(context.Background(), f.request("09:30"))
	require.NoError(t, err)

	b := resp.Booking
	assert.NotZero(t, b.ID)
	assert.Equal(t, types.TimeString("10:00"), b.EndTime)
	assert.Equal(t, domain.StatusPending, b.Status)
	assert.Equal(t, domain.SourceManual, b.Source)
	assert.Equal(t, "Портрет", b.SessionTypeName)
	assert.Equal(t, "Студия 1", *b.Location)
	assert.Equal(t, "UTC", b.Timezone)
	assert.Regexp(t, `^BK-20251014-[0-9A-F]{6}$`, b.BookingNumber)

	require.Len(t, f.publisher.events, 1)
	assert.Equal(t, domain.EventBookingCreated, f.publisher.events[0].Type)
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.ReservationsTotal.WithLabelValues(operationCreate, metrics.OutcomeCreated)))
}

func TestCreateBooking_InitialStatus(t *testing.T) {
	tests := []struct {
		name     string
		st       *domain.SessionType
		expected domain.BookingStatus
	}{
		{"auto confirm", &domain.SessionType{AutoConfirm: true}, domain.StatusConfirmed},
		{"approval wins over auto confirm", &domain.SessionType{AutoConfirm: true, RequiresApproval: true}, domain.StatusPending},
		{"manual confirm", &domain.SessionType{}, domain.StatusPending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.st)
			resp, err := f.uc.Execute(context.Background(), f.request("09:00"))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, resp.Booking.Status)
		})
	}
}

func TestCreateBooking_ConflictWithSuggestions(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	first, err := f.uc.Execute(ctx, f.request("09:30"))
	require.NoError(t, err)

	_, err = f.uc.Execute(ctx, f.request("09:30"))

	var conflict *domain.ConflictError
	require.True(t, errors.As(err, &conflict))
	require.Len(t, conflict.Conflicts, 1)
	assert.Equal(t, domain.ConflictTimeOverlap, conflict.Conflicts[0].Kind)
	assert.Equal(t, first.Booking.ID, *conflict.Conflicts[0].BookingID)

	starts := make([]types.TimeString, 0, len(conflict.Suggestions))
	for _, s := range conflict.Suggestions {
		starts = append(starts, s.StartTime)
	}
	assert.Equal(t, []types.TimeString{"09:00", "10:00", "10:30"}, starts)
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.ReservationsTotal.WithLabelValues(operationCreate, metrics.OutcomeConflict)))
	assert.Len(t, f.publisher.events, 1)
}

func TestCreateBooking_OutsideAvailability(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.uc.Execute(context.Background(), f.request("10:45"))

	var conflict *domain.ConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, domain.ConflictOutsideAvailability, conflict.Conflicts[0].Kind)
}

func TestCreateBooking_DailyLimit(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	settings := domain.DefaultSettings(ownerID)
	settings.MaxDaily = 1
	_, err := f.store.Availability().UpsertSettings(ctx, &settings)
	require.NoError(t, err)

	_, err = f.uc.Execute(ctx, f.request("09:00"))
	require.NoError(t, err)

	_, err = f.uc.Execute(ctx, f.request("10:00"))

	var policy *domain.PolicyError
	require.True(t, errors.As(err, &policy))
	assert.Equal(t, domain.RuleDailyLimit, policy.Rule)
}

func TestCreateBooking_SessionTypeNotBookable(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	hidden := *f.sessionType
	hidden.IsPublic = false
	_, err := f.store.SessionTypes().Update(ctx, &hidden)
	require.NoError(t, err)

	req := f.request("09:00")
	req.PublicOnly = true
	_, err = f.uc.Execute(ctx, req)
	assert.ErrorIs(t, err, ErrSessionTypeNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	req.SessionTypeID = 999
	req.PublicOnly = false
	_, err = f.uc.Execute(ctx, req)
	assert.ErrorIs(t, err, ErrSessionTypeNotFound)
}

func TestCreateBooking_Validation(t *testing.T) {
	f := newFixture(t, nil)

	tests := []struct {
		name   string
		modify func(r *Request)
	}{
		{"no owner", func(r *Request) { r.OwnerID = 0 }},
		{"no date", func(r *Request) { r.Date = time.Time{} }},
		{"bad time", func(r *Request) { r.StartTime = "25:00" }},
		{"no contact name", func(r *Request) { r.Contact.Name = " " }},
		{"bad email", func(r *Request) { r.Contact.Email = "not-an-email" }},
		{"email with display name", func(r *Request) { r.Contact.Email = "Jane Doe <jane@example.com>" }},
		{"zero students", func(r *Request) { r.StudentCount = ptr.Ptr(0) }},
		{"unknown source", func(r *Request) { r.Source = "fax" }},
		{"past midnight", func(r *Request) { r.StartTime = "23:50" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := f.request("09:00")
			tt.modify(req)
			_, err := f.uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestCreateBooking_EverySlotIsReservable(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	snapDay := scheduling.Day{
		Date: tuesday,
		Patterns: []domain.AvailabilityPattern{
			{Weekday: int(time.Tuesday), StartTime: "09:00", EndTime: "11:00", IsActive: true},
		},
	}
	slots := scheduling.GenerateSlots(scheduling.Input{
		Day:         snapDay,
		SessionType: f.sessionType,
		Settings:    domain.DefaultSettings(ownerID),
		Now:         now,
	})
	require.Len(t, slots, 4)

	for _, slot := range slots {
		_, err := f.uc.Execute(ctx, f.request(slot.StartTime.String()))
		require.NoError(t, err, "slot %s", slot.StartTime)
	}
}

func TestCreateBooking_ConcurrentReservationsNeverOverlap(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	starts := []string{"09:00", "09:15", "09:30", "09:45", "10:00", "10:15", "10:30"}

	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		for _, start := range starts {
			wg.Add(1)
			go func(start string) {
				defer wg.Done()
				_, err := f.uc.Execute(ctx, f.request(start))
				if err != nil {
					assert.ErrorIs(t, err, domain.ErrConflict)
				}
			}(start)
		}
	}
	wg.Wait()

	bookings, err := f.store.Bookings().List(ctx, domain.BookingsFilter{OwnerID: ownerID, StartDate: &tuesday, EndDate: &tuesday})
	require.NoError(t, err)
	require.NotEmpty(t, bookings)
	assert.LessOrEqual(t, len(bookings), 4)

	for i := 0; i < len(bookings); i++ {
		for j := i + 1; j < len(bookings); j++ {
			a := scheduling.NewInterval(bookings[i].StartTime, bookings[i].EndTime)
			b := scheduling.NewInterval(bookings[j].StartTime, bookings[j].EndTime)
			assert.False(t, a.Overlaps(b), "%s-%s overlaps %s-%s",
				bookings[i].StartTime, bookings[i].EndTime, bookings[j].StartTime, bookings[j].EndTime)
		}
	}
}
