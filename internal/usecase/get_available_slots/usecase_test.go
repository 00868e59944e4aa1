package get_available_slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trimtime/booking-service/internal/domain"
	scheduleRepo "github.com/trimtime/booking-service/internal/infra/storage/schedule"
	"github.com/trimtime/booking-service/internal/integrations/businessservice"
	"github.com/trimtime/booking-service/pkg/ptr"
	"github.com/trimtime/booking-service/pkg/types"
)

type fakeAppointmentRepo struct {
	appointments []*domain.Appointment
	err          error
}

func (f *fakeAppointmentRepo) GetByBusinessWithFilter(_ context.Context, _ domain.BusinessAppointmentsFilter) ([]*domain.Appointment, error) {
	return f.appointments, f.err
}

type fakeScheduleRepo struct {
	config     *domain.ScheduleConfig
	configErr  error
	restricted []domain.RestrictedWindow
}

func (f *fakeScheduleRepo) GetEffectiveConfig(_ context.Context, _ int64, _ *int64) (*domain.ScheduleConfig, error) {
	return f.config, f.configErr
}

func (f *fakeScheduleRepo) GetRestrictedWindows(_ context.Context, _ int64) ([]domain.RestrictedWindow, error) {
	return f.restricted, nil
}

type fakeBusinessClient struct {
	business    *businessservice.Business
	businessErr error
	service     *businessservice.Service
	serviceErr  error
}

func (f *fakeBusinessClient) GetBusiness(_ context.Context, _ int64) (*businessservice.Business, error) {
	return f.business, f.businessErr
}

func (f *fakeBusinessClient) GetService(_ context.Context, _, _ int64) (*businessservice.Service, error) {
	return f.service, f.serviceErr
}

type fakeLoyaltyClient struct {
	tier domain.Tier
}

func (f *fakeLoyaltyClient) ResolveTier(_ context.Context, _ *int64) domain.Tier {
	return f.tier
}

type fakeSlotCache struct {
	stored map[string][]domain.Slot
	sets   int
	hits   int
}

func (f *fakeSlotCache) key(businessID int64, date string) string {
	return date
}

func (f *fakeSlotCache) Get(_ context.Context, businessID int64, date string, _ int64, _ *int64, _ domain.Tier) ([]domain.Slot, error) {
	if slots, ok := f.stored[f.key(businessID, date)]; ok {
		f.hits++
		return slots, nil
	}
	return nil, nil
}

func (f *fakeSlotCache) Set(_ context.Context, businessID int64, date string, _ int64, _ *int64, _ domain.Tier, slots []domain.Slot) error {
	if f.stored == nil {
		f.stored = make(map[string][]domain.Slot)
	}
	f.stored[f.key(businessID, date)] = slots
	f.sets++
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
			{ID: 13, Name: "Retired", IsActive: false},
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
		EmployeeIDs:     []int64{11, 12, 13},
	}
}

func testScheduleConfig() *domain.ScheduleConfig {
	return &domain.ScheduleConfig{
		ID:         1,
		BusinessID: 1,
		Window: domain.OperatingWindow{
			StartHour:           9,
			EndHour:             18,
			SlotIntervalMinutes: 30,
		},
	}
}

func testRequest() *Request {
	return &Request{
		BusinessID: 1,
		ServiceID:  10,
		Date:       time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
	}
}

func newTestUseCase(
	apptRepo *fakeAppointmentRepo,
	schedRepo *fakeScheduleRepo,
	client *fakeBusinessClient,
	loyalty *fakeLoyaltyClient,
	cache *fakeSlotCache,
) *UseCase {
	var slotCache SlotCache
	if cache != nil {
		slotCache = cache
	}
	return NewUseCase(apptRepo, schedRepo, client, loyalty, slotCache, noopLogger{})
}

func TestExecute_FullGrid(t *testing.T) {
	uc := newTestUseCase(
		&fakeAppointmentRepo{},
		&fakeScheduleRepo{config: testScheduleConfig()},
		&fakeBusinessClient{business: testBusiness(), service: testService()},
		&fakeLoyaltyClient{tier: domain.TierStandard},
		nil,
	)

	resp, err := uc.Execute(context.Background(), testRequest())
	require.NoError(t, err)

	// 9:00..17:00 шагом 30 минут при услуге в 60 минут
	require.Len(t, resp.Slots, 17)
	assert.Equal(t, types.TimeString("09:00"), resp.Slots[0].Time)
	assert.Equal(t, types.TimeString("17:00"), resp.Slots[len(resp.Slots)-1].Time)
	for _, slot := range resp.Slots {
		assert.True(t, slot.Available, "slot %s", slot.Time)
	}
}

func TestExecute_OccupiedSlotForRequestedEmployee(t *testing.T) {
	appt := &domain.Appointment{
		ID:         1,
		BusinessID: 1,
		EmployeeID: ptr.Ptr(int64(11)),
		StartTime:  types.TimeString("10:00"),
		Status:     domain.StatusConfirmed,
	}

	uc := newTestUseCase(
		&fakeAppointmentRepo{appointments: []*domain.Appointment{appt}},
		&fakeScheduleRepo{config: testScheduleConfig()},
		&fakeBusinessClient{business: testBusiness(), service: testService()},
		&fakeLoyaltyClient{tier: domain.TierStandard},
		nil,
	)

	req := testRequest()
	req.EmployeeID = ptr.Ptr(int64(11))

	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)

	for _, slot := range resp.Slots {
		if slot.Time == "10:00" {
			assert.False(t, slot.Available)
		} else {
			assert.True(t, slot.Available, "slot %s", slot.Time)
		}
	}
}

func TestExecute_SecondEmployeeKeepsSlotOpen(t *testing.T) {
	appt := &domain.Appointment{
		ID:         1,
		BusinessID: 1,
		EmployeeID: ptr.Ptr(int64(11)),
		StartTime:  types.TimeString("10:00"),
		Status:     domain.StatusConfirmed,
	}

	uc := newTestUseCase(
		&fakeAppointmentRepo{appointments: []*domain.Appointment{appt}},
		&fakeScheduleRepo{config: testScheduleConfig()},
		&fakeBusinessClient{business: testBusiness(), service: testService()},
		&fakeLoyaltyClient{tier: domain.TierStandard},
		nil,
	)

	resp, err := uc.Execute(context.Background(), testRequest())
	require.NoError(t, err)

	for _, slot := range resp.Slots {
		assert.True(t, slot.Available, "slot %s", slot.Time)
	}
}

func TestExecute_InactiveEmployeeRejected(t *testing.T) {
	uc := newTestUseCase(
		&fakeAppointmentRepo{},
		&fakeScheduleRepo{config: testScheduleConfig()},
		&fakeBusinessClient{business: testBusiness(), service: testService()},
		&fakeLoyaltyClient{tier: domain.TierStandard},
		nil,
	)

	req := testRequest()
	req.EmployeeID = ptr.Ptr(int64(13))

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrEmployeeNotFound)
}

func TestExecute_ScheduleNotConfigured(t *testing.T) {
	uc := newTestUseCase(
		&fakeAppointmentRepo{},
		&fakeScheduleRepo{configErr: scheduleRepo.ErrScheduleNotFound},
		&fakeBusinessClient{business: testBusiness(), service: testService()},
		&fakeLoyaltyClient{tier: domain.TierStandard},
		nil,
	)

	_, err := uc.Execute(context.Background(), testRequest())
	assert.ErrorIs(t, err, ErrScheduleNotConfigured)
}

func TestExecute_RestrictedWindowForStandardTier(t *testing.T) {
	schedRepo := &fakeScheduleRepo{
		config: testScheduleConfig(),
		restricted: []domain.RestrictedWindow{
			{
				ID:                  1,
				BusinessID:          1,
				StartMinuteOfDay:    16 * 60,
				EndMinuteOfDay:      18 * 60,
				RequiredTier:        domain.TierVIP,
				BypassFeeMinorUnits: ptr.Ptr(int64(1500)),
			},
		},
	}

	uc := newTestUseCase(
		&fakeAppointmentRepo{},
		schedRepo,
		&fakeBusinessClient{business: testBusiness(), service: testService()},
		&fakeLoyaltyClient{tier: domain.TierStandard},
		nil,
	)

	resp, err := uc.Execute(context.Background(), testRequest())
	require.NoError(t, err)

	for _, slot := range resp.Slots {
		minute, merr := slot.Time.MinuteOfDay()
		require.NoError(t, merr)

		if minute >= 16*60 {
			assert.False(t, slot.Available, "slot %s", slot.Time)
			require.NotNil(t, slot.RestrictedToTier, "slot %s", slot.Time)
			assert.Equal(t, domain.TierVIP, *slot.RestrictedToTier)
			require.NotNil(t, slot.BypassFeeMinorUnits)
			assert.Equal(t, int64(1500), *slot.BypassFeeMinorUnits)
		} else {
			assert.True(t, slot.Available, "slot %s", slot.Time)
		}
	}
}

func TestExecute_VIPSeesRestrictedWindowOpen(t *testing.T) {
	schedRepo := &fakeScheduleRepo{
		config: testScheduleConfig(),
		restricted: []domain.RestrictedWindow{
			{
				ID:               1,
				BusinessID:       1,
				StartMinuteOfDay: 16 * 60,
				EndMinuteOfDay:   18 * 60,
				RequiredTier:     domain.TierVIP,
			},
		},
	}

	uc := newTestUseCase(
		&fakeAppointmentRepo{},
		schedRepo,
		&fakeBusinessClient{business: testBusiness(), service: testService()},
		&fakeLoyaltyClient{tier: domain.TierVIP},
		nil,
	)

	resp, err := uc.Execute(context.Background(), testRequest())
	require.NoError(t, err)

	for _, slot := range resp.Slots {
		assert.True(t, slot.Available, "slot %s", slot.Time)
		assert.Nil(t, slot.RestrictedToTier)
	}
}

func TestExecute_BusinessNotFound(t *testing.T) {
	uc := newTestUseCase(
		&fakeAppointmentRepo{},
		&fakeScheduleRepo{config: testScheduleConfig()},
		&fakeBusinessClient{businessErr: businessservice.ErrBusinessNotFound},
		&fakeLoyaltyClient{tier: domain.TierStandard},
		nil,
	)

	_, err := uc.Execute(context.Background(), testRequest())
	assert.ErrorIs(t, err, ErrBusinessNotFound)
}

func TestExecute_CacheHitSkipsRecalculation(t *testing.T) {
	cache := &fakeSlotCache{}
	apptRepo := &fakeAppointmentRepo{}

	uc := newTestUseCase(
		apptRepo,
		&fakeScheduleRepo{config: testScheduleConfig()},
		&fakeBusinessClient{business: testBusiness(), service: testService()},
		&fakeLoyaltyClient{tier: domain.TierStandard},
		cache,
	)

	resp1, err := uc.Execute(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets)

	resp2, err := uc.Execute(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Equal(t, 1, cache.hits)
	assert.Equal(t, resp1.Slots, resp2.Slots)
}

func TestExecute_InvalidInput(t *testing.T) {
	uc := newTestUseCase(
		&fakeAppointmentRepo{},
		&fakeScheduleRepo{config: testScheduleConfig()},
		&fakeBusinessClient{business: testBusiness(), service: testService()},
		&fakeLoyaltyClient{tier: domain.TierStandard},
		nil,
	)

	req := testRequest()
	req.BusinessID = 0

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
