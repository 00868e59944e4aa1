package book_appointment

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trimtime/booking-service/internal/domain"
	"github.com/trimtime/booking-service/internal/integrations/businessservice"
	"github.com/trimtime/booking-service/pkg/ptr"
	"github.com/trimtime/booking-service/pkg/types"
)

// memAppointmentRepo потокобезопасный репозиторий в памяти
type memAppointmentRepo struct {
	mu           sync.Mutex
	nextID       int64
	appointments []*domain.Appointment
}

func (m *memAppointmentRepo) Create(_ context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	appt.ID = m.nextID
	appt.CreatedAt = time.Now()
	appt.UpdatedAt = appt.CreatedAt

	stored := *appt
	m.appointments = append(m.appointments, &stored)
	return appt, nil
}

func (m *memAppointmentRepo) GetByBusinessWithFilter(_ context.Context, filter domain.BusinessAppointmentsFilter) ([]*domain.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*domain.Appointment, 0)
	for _, appt := range m.appointments {
		if appt.BusinessID != filter.BusinessID {
			continue
		}
		if !filter.IncludeInactive && !appt.OccupiesSlot() {
			continue
		}
		out = append(out, appt)
	}
	return out, nil
}

type memScheduleRepo struct {
	config     *domain.ScheduleConfig
	configErr  error
	restricted []domain.RestrictedWindow
}

func (m *memScheduleRepo) GetEffectiveConfig(_ context.Context, _ int64, _ *int64) (*domain.ScheduleConfig, error) {
	return m.config, m.configErr
}

func (m *memScheduleRepo) GetRestrictedWindows(_ context.Context, _ int64) ([]domain.RestrictedWindow, error) {
	return m.restricted, nil
}

type fakeBusinessClient struct {
	business *businessservice.Business
	service  *businessservice.Service
}

func (f *fakeBusinessClient) GetBusiness(_ context.Context, _ int64) (*businessservice.Business, error) {
	return f.business, nil
}

func (f *fakeBusinessClient) GetService(_ context.Context, _, _ int64) (*businessservice.Service, error) {
	return f.service, nil
}

type fakeLoyaltyClient struct {
	tier domain.Tier
}

func (f *fakeLoyaltyClient) ResolveTier(_ context.Context, _ *int64) domain.Tier {
	return f.tier
}

// serialTxManager исполняет транзакции строго по одной, имитируя
// сериализуемый уровень изоляции
type serialTxManager struct {
	mu sync.Mutex
}

func (m *serialTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(ctx)
}

type countingInvalidator struct {
	mu    sync.Mutex
	calls int
}

func (c *countingInvalidator) Invalidate(_ context.Context, _ int64, _ string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	return nil
}

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

func testBusiness() *businessservice.Business {
	return &businessservice.Business{
		ID:   1,
		Name: "Trim Time",
		Employees: []businessservice.Employee{
			{ID: 11, Name: "Anna", IsActive: true},
			{ID: 12, Name: "Boris", IsActive: true},
		},
	}
}

func testService() *businessservice.Service {
	return &businessservice.Service{
		ID:              10,
		BusinessID:      1,
		Name:            "Haircut",
		DurationMinutes: 60,
		PriceMinorUnits: 3000,
		EmployeeIDs:     []int64{11, 12},
	}
}

func testScheduleRepo() *memScheduleRepo {
	return &memScheduleRepo{
		config: &domain.ScheduleConfig{
			ID:         1,
			BusinessID: 1,
			Window: domain.OperatingWindow{
				StartHour:           9,
				EndHour:             18,
				SlotIntervalMinutes: 30,
			},
		},
	}
}

func testRequest() *Request {
	return &Request{
		BusinessID:    1,
		ServiceID:     10,
		EmployeeID:    ptr.Ptr(int64(11)),
		Date:          time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		StartTime:     types.TimeString("10:00"),
		CustomerName:  "Ivan",
		CustomerPhone: "+79990001122",
	}
}

func newTestUseCase(repo *memAppointmentRepo, schedRepo *memScheduleRepo, tier domain.Tier, cache SlotCacheInvalidator) *UseCase {
	return NewUseCase(
		repo,
		schedRepo,
		&fakeBusinessClient{business: testBusiness(), service: testService()},
		&fakeLoyaltyClient{tier: tier},
		cache,
		&serialTxManager{},
		noopLogger{},
	)
}

func TestExecute_Success(t *testing.T) {
	repo := &memAppointmentRepo{}
	cache := &countingInvalidator{}
	uc := newTestUseCase(repo, testScheduleRepo(), domain.TierStandard, cache)

	resp, err := uc.Execute(context.Background(), testRequest())
	require.NoError(t, err)

	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
	assert.Equal(t, 60, resp.DurationMinutes)
	assert.Equal(t, "Haircut", resp.ServiceName)
	assert.Equal(t, int64(3000), resp.ServicePriceMinorUnits)
	assert.NotEmpty(t, resp.ConfirmationCode)
	assert.Nil(t, resp.BypassFeeMinorUnits)
	assert.Equal(t, 1, cache.calls)
}

func TestExecute_SlotTakenOnSecondAttempt(t *testing.T) {
	repo := &memAppointmentRepo{}
	uc := newTestUseCase(repo, testScheduleRepo(), domain.TierStandard, nil)

	_, err := uc.Execute(context.Background(), testRequest())
	require.NoError(t, err)

	_, err = uc.Execute(context.Background(), testRequest())
	assert.ErrorIs(t, err, ErrSlotTaken)
}

func TestExecute_OtherEmployeeStillBookable(t *testing.T) {
	repo := &memAppointmentRepo{}
	uc := newTestUseCase(repo, testScheduleRepo(), domain.TierStandard, nil)

	_, err := uc.Execute(context.Background(), testRequest())
	require.NoError(t, err)

	req := testRequest()
	req.EmployeeID = ptr.Ptr(int64(12))

	_, err = uc.Execute(context.Background(), req)
	assert.NoError(t, err)
}

func TestExecute_NilEmployeeBlocksWholeRoster(t *testing.T) {
	repo := &memAppointmentRepo{}
	uc := newTestUseCase(repo, testScheduleRepo(), domain.TierStandard, nil)

	req := testRequest()
	req.EmployeeID = nil

	_, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)

	// Запись без мастера консервативно занимает слот у обоих
	_, err = uc.Execute(context.Background(), testRequest())
	assert.ErrorIs(t, err, ErrSlotTaken)
}

func TestExecute_OffGridTimeRejected(t *testing.T) {
	repo := &memAppointmentRepo{}
	uc := newTestUseCase(repo, testScheduleRepo(), domain.TierStandard, nil)

	req := testRequest()
	req.StartTime = types.TimeString("10:13")

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidTimeSlot)
}

func TestExecute_TierGate(t *testing.T) {
	schedRepo := testScheduleRepo()
	schedRepo.restricted = []domain.RestrictedWindow{
		{
			ID:                  1,
			BusinessID:          1,
			StartMinuteOfDay:    16 * 60,
			EndMinuteOfDay:      18 * 60,
			RequiredTier:        domain.TierVIP,
			BypassFeeMinorUnits: ptr.Ptr(int64(1500)),
		},
	}

	req := testRequest()
	req.StartTime = types.TimeString("16:30")

	t.Run("StandardRejectedWithoutBypass", func(t *testing.T) {
		uc := newTestUseCase(&memAppointmentRepo{}, schedRepo, domain.TierStandard, nil)

		_, err := uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrTierRequired)
	})

	t.Run("StandardBooksWithPaidBypass", func(t *testing.T) {
		uc := newTestUseCase(&memAppointmentRepo{}, schedRepo, domain.TierStandard, nil)

		bypassReq := *req
		bypassReq.PayBypassFee = true

		resp, err := uc.Execute(context.Background(), &bypassReq)
		require.NoError(t, err)
		require.NotNil(t, resp.BypassFeeMinorUnits)
		assert.Equal(t, int64(1500), *resp.BypassFeeMinorUnits)
	})

	t.Run("VIPBooksWithoutFee", func(t *testing.T) {
		uc := newTestUseCase(&memAppointmentRepo{}, schedRepo, domain.TierVIP, nil)

		resp, err := uc.Execute(context.Background(), req)
		require.NoError(t, err)
		assert.Nil(t, resp.BypassFeeMinorUnits)
	})

	t.Run("NoBypassOfferedMeansHardGate", func(t *testing.T) {
		hardRepo := testScheduleRepo()
		hardRepo.restricted = []domain.RestrictedWindow{
			{
				ID:               1,
				BusinessID:       1,
				StartMinuteOfDay: 16 * 60,
				EndMinuteOfDay:   18 * 60,
				RequiredTier:     domain.TierVIP,
			},
		}
		uc := newTestUseCase(&memAppointmentRepo{}, hardRepo, domain.TierStandard, nil)

		bypassReq := *req
		bypassReq.PayBypassFee = true

		_, err := uc.Execute(context.Background(), &bypassReq)
		assert.ErrorIs(t, err, ErrTierRequired)
	})
}

func TestExecute_ConcurrentDoubleBooking(t *testing.T) {
	repo := &memAppointmentRepo{}
	uc := newTestUseCase(repo, testScheduleRepo(), domain.TierStandard, nil)

	const attempts = 8

	var wg sync.WaitGroup
	errs := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = uc.Execute(context.Background(), testRequest())
		}(i)
	}
	wg.Wait()

	successes := 0
	conflicts := 0
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		default:
			assert.ErrorIs(t, err, ErrSlotTaken)
			conflicts++
		}
	}

	// Ровно один запрос выигрывает гонку за слот
	assert.Equal(t, 1, successes)
	assert.Equal(t, attempts-1, conflicts)
}

func TestExecute_InvalidInput(t *testing.T) {
	uc := newTestUseCase(&memAppointmentRepo{}, testScheduleRepo(), domain.TierStandard, nil)

	t.Run("MissingCustomerName", func(t *testing.T) {
		req := testRequest()
		req.CustomerName = "  "

		_, err := uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("BadTimeFormat", func(t *testing.T) {
		req := testRequest()
		req.StartTime = types.TimeString("25:99")

		_, err := uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("CustomerNameTooLong", func(t *testing.T) {
		req := testRequest()
		req.CustomerName = strings.Repeat("a", domain.MaxCustomerNameLength+1)

		_, err := uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("CustomerPhoneTooLong", func(t *testing.T) {
		req := testRequest()
		req.CustomerPhone = strings.Repeat("9", domain.MaxCustomerPhoneLength+1)

		_, err := uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("NotesTooLong", func(t *testing.T) {
		req := testRequest()
		notes := strings.Repeat("x", domain.MaxNotesLength+1)
		req.Notes = &notes

		_, err := uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}
