package appointments

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trimtime/booking-service/internal/domain"
	appointmentRepo "github.com/trimtime/booking-service/internal/infra/storage/appointment"
	"github.com/trimtime/booking-service/internal/integrations/businessservice"
	"github.com/trimtime/booking-service/internal/service/appointments/models"
	"github.com/trimtime/booking-service/pkg/ptr"
	"github.com/trimtime/booking-service/pkg/types"
)

type fakeAppointmentRepo struct {
	byID            map[int64]*domain.Appointment
	cancelled       map[int64]string
	customerHistory []*domain.Appointment
}

func (f *fakeAppointmentRepo) GetByID(_ context.Context, id int64) (*domain.Appointment, error) {
	if appt, ok := f.byID[id]; ok {
		return appt, nil
	}
	return nil, appointmentRepo.ErrAppointmentNotFound
}

func (f *fakeAppointmentRepo) GetByCustomerID(_ context.Context, _ int64, status *domain.AppointmentStatus) ([]*domain.Appointment, error) {
	if status == nil {
		return f.customerHistory, nil
	}
	out := make([]*domain.Appointment, 0)
	for _, appt := range f.customerHistory {
		if appt.Status == *status {
			out = append(out, appt)
		}
	}
	return out, nil
}

func (f *fakeAppointmentRepo) GetByBusinessWithFilter(_ context.Context, _ domain.BusinessAppointmentsFilter) ([]*domain.Appointment, error) {
	return f.customerHistory, nil
}

func (f *fakeAppointmentRepo) Cancel(_ context.Context, id int64, reason string) error {
	if _, ok := f.byID[id]; !ok {
		return appointmentRepo.ErrAppointmentNotFound
	}
	if f.cancelled == nil {
		f.cancelled = make(map[int64]string)
	}
	f.cancelled[id] = reason
	return nil
}

type fakeBusinessClient struct {
	business *businessservice.Business
}

func (f *fakeBusinessClient) GetBusiness(_ context.Context, _ int64) (*businessservice.Business, error) {
	return f.business, nil
}

type countingInvalidator struct {
	calls int
}

func (c *countingInvalidator) Invalidate(_ context.Context, _ int64, _ string) error {
	c.calls++
	return nil
}

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

const (
	managerID  = int64(100)
	customerID = int64(200)
	strangerID = int64(300)
)

func testBusiness() *businessservice.Business {
	return &businessservice.Business{
		ID:         1,
		Name:       "Trim Time",
		ManagerIDs: []int64{managerID},
	}
}

func testAppointment() *domain.Appointment {
	return &domain.Appointment{
		ID:         1,
		BusinessID: 1,
		ServiceID:  10,
		CustomerID: ptr.Ptr(customerID),
		Date:       time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		StartTime:  types.TimeString("10:00"),
		Status:     domain.StatusConfirmed,
	}
}

func newTestService(repo *fakeAppointmentRepo, cache SlotCacheInvalidator) *Service {
	return NewService(repo, &fakeBusinessClient{business: testBusiness()}, cache, noopLogger{})
}

func TestGetByID_OwnerAllowed(t *testing.T) {
	repo := &fakeAppointmentRepo{byID: map[int64]*domain.Appointment{1: testAppointment()}}
	svc := newTestService(repo, nil)

	resp, err := svc.GetByID(context.Background(), 1, customerID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, "10:00", resp.StartTime)
}

func TestGetByID_ManagerAllowed(t *testing.T) {
	repo := &fakeAppointmentRepo{byID: map[int64]*domain.Appointment{1: testAppointment()}}
	svc := newTestService(repo, nil)

	_, err := svc.GetByID(context.Background(), 1, managerID)
	assert.NoError(t, err)
}

func TestGetByID_StrangerDenied(t *testing.T) {
	repo := &fakeAppointmentRepo{byID: map[int64]*domain.Appointment{1: testAppointment()}}
	svc := newTestService(repo, nil)

	_, err := svc.GetByID(context.Background(), 1, strangerID)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestGetByID_PublicAppointmentOnlyManager(t *testing.T) {
	appt := testAppointment()
	appt.CustomerID = nil
	repo := &fakeAppointmentRepo{byID: map[int64]*domain.Appointment{1: appt}}
	svc := newTestService(repo, nil)

	_, err := svc.GetByID(context.Background(), 1, customerID)
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = svc.GetByID(context.Background(), 1, managerID)
	assert.NoError(t, err)
}

func TestGetByID_NotFound(t *testing.T) {
	svc := newTestService(&fakeAppointmentRepo{}, nil)

	_, err := svc.GetByID(context.Background(), 42, customerID)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestCancel_OwnerCancels(t *testing.T) {
	repo := &fakeAppointmentRepo{byID: map[int64]*domain.Appointment{1: testAppointment()}}
	cache := &countingInvalidator{}
	svc := newTestService(repo, cache)

	err := svc.Cancel(context.Background(), 1, &models.CancelAppointmentRequest{
		UserID:             customerID,
		CancellationReason: "plans changed",
	})
	require.NoError(t, err)
	assert.Equal(t, "plans changed", repo.cancelled[1])
	assert.Equal(t, 1, cache.calls)
}

func TestCancel_ManagerCancels(t *testing.T) {
	repo := &fakeAppointmentRepo{byID: map[int64]*domain.Appointment{1: testAppointment()}}
	svc := newTestService(repo, nil)

	err := svc.Cancel(context.Background(), 1, &models.CancelAppointmentRequest{
		UserID:             managerID,
		CancellationReason: "employee sick",
	})
	assert.NoError(t, err)
}

func TestCancel_StrangerDenied(t *testing.T) {
	repo := &fakeAppointmentRepo{byID: map[int64]*domain.Appointment{1: testAppointment()}}
	svc := newTestService(repo, nil)

	err := svc.Cancel(context.Background(), 1, &models.CancelAppointmentRequest{
		UserID: strangerID,
	})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestCancel_CompletedNotCancellable(t *testing.T) {
	appt := testAppointment()
	appt.Status = domain.StatusCompleted
	repo := &fakeAppointmentRepo{byID: map[int64]*domain.Appointment{1: appt}}
	svc := newTestService(repo, nil)

	err := svc.Cancel(context.Background(), 1, &models.CancelAppointmentRequest{
		UserID: customerID,
	})
	assert.ErrorIs(t, err, ErrCannotCancel)
}

func TestCancel_ReasonTooLong(t *testing.T) {
	repo := &fakeAppointmentRepo{byID: map[int64]*domain.Appointment{1: testAppointment()}}
	svc := newTestService(repo, nil)

	err := svc.Cancel(context.Background(), 1, &models.CancelAppointmentRequest{
		UserID:             customerID,
		CancellationReason: strings.Repeat("a", domain.MaxCancellationReasonLength+1),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Empty(t, repo.cancelled)
}

func TestGetCustomerAppointments_OwnHistoryOnly(t *testing.T) {
	repo := &fakeAppointmentRepo{customerHistory: []*domain.Appointment{testAppointment()}}
	svc := newTestService(repo, nil)

	resp, err := svc.GetCustomerAppointments(context.Background(), &models.GetCustomerAppointmentsRequest{
		UserID:     customerID,
		CustomerID: customerID,
	})
	require.NoError(t, err)
	assert.Len(t, resp.Appointments, 1)

	_, err = svc.GetCustomerAppointments(context.Background(), &models.GetCustomerAppointmentsRequest{
		UserID:     strangerID,
		CustomerID: customerID,
	})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestGetCustomerAppointments_StatusFilter(t *testing.T) {
	cancelled := testAppointment()
	cancelled.ID = 2
	cancelled.Status = domain.StatusCancelled

	repo := &fakeAppointmentRepo{customerHistory: []*domain.Appointment{testAppointment(), cancelled}}
	svc := newTestService(repo, nil)

	status := "cancelled"
	resp, err := svc.GetCustomerAppointments(context.Background(), &models.GetCustomerAppointmentsRequest{
		UserID:     customerID,
		CustomerID: customerID,
		Status:     &status,
	})
	require.NoError(t, err)
	require.Len(t, resp.Appointments, 1)
	assert.Equal(t, "cancelled", resp.Appointments[0].Status)

	bad := "nonsense"
	_, err = svc.GetCustomerAppointments(context.Background(), &models.GetCustomerAppointmentsRequest{
		UserID:     customerID,
		CustomerID: customerID,
		Status:     &bad,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGetBusinessAppointments_ManagerOnly(t *testing.T) {
	repo := &fakeAppointmentRepo{customerHistory: []*domain.Appointment{testAppointment()}}
	svc := newTestService(repo, nil)

	resp, err := svc.GetBusinessAppointments(context.Background(), &models.GetBusinessAppointmentsRequest{
		UserID:     managerID,
		BusinessID: 1,
	})
	require.NoError(t, err)
	assert.Len(t, resp.Appointments, 1)

	_, err = svc.GetBusinessAppointments(context.Background(), &models.GetBusinessAppointmentsRequest{
		UserID:     strangerID,
		BusinessID: 1,
	})
	assert.ErrorIs(t, err, ErrAccessDenied)
}
