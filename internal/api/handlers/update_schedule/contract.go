package update_schedule

import (
	"context"

	"github.com/trimtime/booking-service/internal/service/schedule/models"
)

type ScheduleService interface {
	Update(ctx context.Context, req *models.UpdateScheduleRequest) (*models.ScheduleResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
