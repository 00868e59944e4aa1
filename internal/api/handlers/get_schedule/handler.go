package get_schedule

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/trimtime/booking-service/internal/api/handlers"
	"github.com/trimtime/booking-service/internal/service/schedule"
)

const (
	msgInvalidBusinessID     = "некорректный ID салона"
	msgScheduleNotConfigured = "расписание салона не настроено"
)

type Handler struct {
	service ScheduleService
	logger  Logger
}

func NewHandler(service ScheduleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/businesses/{businessId}/schedule
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	businessID, err := strconv.ParseInt(vars["businessId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /businesses/{id}/schedule - Invalid business ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	result, err := h.service.Get(r.Context(), businessID)
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrScheduleNotConfigured):
			h.logger.Warn("GET /businesses/{id}/schedule - Schedule not configured: business_id=%d", businessID)
			handlers.RespondNotFound(w, msgScheduleNotConfigured)

		default:
			h.logger.Error("GET /businesses/{id}/schedule - Failed to get schedule: business_id=%d, error=%v",
				businessID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /businesses/{id}/schedule - Schedule retrieved: business_id=%d", businessID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
