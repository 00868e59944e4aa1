package schedule

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trimtime/booking-service/internal/domain"
	"github.com/trimtime/booking-service/internal/integrations/businessservice"
	"github.com/trimtime/booking-service/internal/service/schedule/models"
	"github.com/trimtime/booking-service/pkg/ptr"
)

type fakeScheduleRepo struct {
	configs  []*domain.ScheduleConfig
	windows  []domain.RestrictedWindow
	replaced bool
}

func (f *fakeScheduleRepo) GetAllByBusiness(_ context.Context, _ int64) ([]*domain.ScheduleConfig, error) {
	return f.configs, nil
}

func (f *fakeScheduleRepo) GetRestrictedWindows(_ context.Context, _ int64) ([]domain.RestrictedWindow, error) {
	return f.windows, nil
}

func (f *fakeScheduleRepo) ReplaceForBusiness(_ context.Context, _ int64, configs []*domain.ScheduleConfig, windows []domain.RestrictedWindow) error {
	f.configs = configs
	f.windows = windows
	f.replaced = true
	return nil
}

type fakeBusinessClient struct {
	business *businessservice.Business
	err      error
}

func (f *fakeBusinessClient) GetBusiness(_ context.Context, _ int64) (*businessservice.Business, error) {
	return f.business, f.err
}

type inlineTxManager struct{}

func (inlineTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

func testBusiness() *businessservice.Business {
	return &businessservice.Business{
		ID:         1,
		Name:       "Trim Time",
		ManagerIDs: []int64{100},
		Employees: []businessservice.Employee{
			{ID: 11, Name: "Anna", IsActive: true},
		},
	}
}

func validUpdateRequest() *models.UpdateScheduleRequest {
	return &models.UpdateScheduleRequest{
		UserID:     100,
		BusinessID: 1,
		Window: models.OperatingWindowPayload{
			StartHour:           9,
			EndHour:             21,
			SlotIntervalMinutes: 30,
		},
	}
}

func newTestService(repo *fakeScheduleRepo, client *fakeBusinessClient) *Service {
	return NewService(repo, client, inlineTxManager{}, noopLogger{})
}

func TestUpdate_Success(t *testing.T) {
	repo := &fakeScheduleRepo{}
	svc := newTestService(repo, &fakeBusinessClient{business: testBusiness()})

	req := validUpdateRequest()
	req.EmployeeOverrides = []models.EmployeeOverridePayload{
		{
			EmployeeID: 11,
			Window:     models.OperatingWindowPayload{StartHour: 10, EndHour: 18, SlotIntervalMinutes: 30},
		},
	}
	req.RestrictedWindows = []models.RestrictedWindowPayload{
		{
			StartMinuteOfDay:    17*60 + 40,
			EndMinuteOfDay:      21 * 60,
			RequiredTier:        "vip",
			BypassFeeMinorUnits: ptr.Ptr(int64(1500)),
		},
	}

	resp, err := svc.Update(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, repo.replaced)
	assert.Equal(t, 9, resp.Window.StartHour)
	require.Len(t, resp.EmployeeOverrides, 1)
	assert.Equal(t, int64(11), resp.EmployeeOverrides[0].EmployeeID)
	require.Len(t, resp.RestrictedWindows, 1)
	assert.Equal(t, "vip", resp.RestrictedWindows[0].RequiredTier)
}

func TestUpdate_NonManagerDenied(t *testing.T) {
	svc := newTestService(&fakeScheduleRepo{}, &fakeBusinessClient{business: testBusiness()})

	req := validUpdateRequest()
	req.UserID = 999

	_, err := svc.Update(context.Background(), req)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestUpdate_InvalidWindowRejected(t *testing.T) {
	svc := newTestService(&fakeScheduleRepo{}, &fakeBusinessClient{business: testBusiness()})

	tests := []struct {
		name   string
		window models.OperatingWindowPayload
	}{
		{"StartAfterEnd", models.OperatingWindowPayload{StartHour: 21, EndHour: 9, SlotIntervalMinutes: 30}},
		{"ZeroInterval", models.OperatingWindowPayload{StartHour: 9, EndHour: 21, SlotIntervalMinutes: 0}},
		{"IntervalNotDividingHour", models.OperatingWindowPayload{StartHour: 9, EndHour: 21, SlotIntervalMinutes: 25}},
		{"EndHourOutOfDay", models.OperatingWindowPayload{StartHour: 9, EndHour: 25, SlotIntervalMinutes: 30}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validUpdateRequest()
			req.Window = tt.window

			_, err := svc.Update(context.Background(), req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestUpdate_RestrictedWindowOutsideOperatingWindow(t *testing.T) {
	svc := newTestService(&fakeScheduleRepo{}, &fakeBusinessClient{business: testBusiness()})

	req := validUpdateRequest()
	req.RestrictedWindows = []models.RestrictedWindowPayload{
		{
			StartMinuteOfDay: 8 * 60, // салон открывается в 9
			EndMinuteOfDay:   10 * 60,
			RequiredTier:     "vip",
		},
	}

	_, err := svc.Update(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdate_UnknownEmployeeRejected(t *testing.T) {
	svc := newTestService(&fakeScheduleRepo{}, &fakeBusinessClient{business: testBusiness()})

	req := validUpdateRequest()
	req.EmployeeOverrides = []models.EmployeeOverridePayload{
		{
			EmployeeID: 777,
			Window:     models.OperatingWindowPayload{StartHour: 10, EndHour: 18, SlotIntervalMinutes: 30},
		},
	}

	_, err := svc.Update(context.Background(), req)
	assert.ErrorIs(t, err, ErrEmployeeNotFound)
}

func TestGet_Success(t *testing.T) {
	repo := &fakeScheduleRepo{
		configs: []*domain.ScheduleConfig{
			{
				ID:         1,
				BusinessID: 1,
				Window:     domain.OperatingWindow{StartHour: 9, EndHour: 21, SlotIntervalMinutes: 30},
			},
			{
				ID:         2,
				BusinessID: 1,
				EmployeeID: ptr.Ptr(int64(11)),
				Window:     domain.OperatingWindow{StartHour: 10, EndHour: 18, SlotIntervalMinutes: 30},
			},
		},
		windows: []domain.RestrictedWindow{
			{ID: 1, BusinessID: 1, StartMinuteOfDay: 1060, EndMinuteOfDay: 1260, RequiredTier: domain.TierVIP},
		},
	}
	svc := newTestService(repo, &fakeBusinessClient{business: testBusiness()})

	resp, err := svc.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 9, resp.Window.StartHour)
	assert.Len(t, resp.EmployeeOverrides, 1)
	assert.Len(t, resp.RestrictedWindows, 1)
}

func TestGet_NotConfigured(t *testing.T) {
	svc := newTestService(&fakeScheduleRepo{}, &fakeBusinessClient{business: testBusiness()})

	_, err := svc.Get(context.Background(), 1)
	assert.ErrorIs(t, err, ErrScheduleNotConfigured)
}
