package update_schedule

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/trimtime/booking-service/internal/api/handlers"
	"github.com/trimtime/booking-service/internal/api/middleware"
	"github.com/trimtime/booking-service/internal/service/schedule"
	"github.com/trimtime/booking-service/internal/service/schedule/models"
)

const (
	msgInvalidBusinessID = "некорректный ID салона"
	msgInvalidBody       = "некорректное тело запроса"
	msgUnauthorized      = "требуется аутентификация"
	msgBusinessNotFound  = "салон не найден"
	msgEmployeeNotFound  = "мастер не найден"
	msgAccessDenied      = "доступ запрещен"
	msgInvalidSchedule   = "некорректное расписание"
)

// UpdateScheduleBody HTTP request model
type UpdateScheduleBody struct {
	Window            models.OperatingWindowPayload    `json:"window"`
	EmployeeOverrides []models.EmployeeOverridePayload `json:"employeeOverrides,omitempty"`
	RestrictedWindows []models.RestrictedWindowPayload `json:"restrictedWindows,omitempty"`
}

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

// Handle PUT /api/v1/businesses/{businessId}/schedule
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PUT /businesses/{id}/schedule - Missing user ID in context")
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	vars := mux.Vars(r)
	businessID, err := strconv.ParseInt(vars["businessId"], 10, 64)
	if err != nil {
		h.logger.Warn("PUT /businesses/{id}/schedule - Invalid business ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	var body UpdateScheduleBody
	if err := handlers.DecodeJSON(r, &body); err != nil {
		h.logger.Warn("PUT /businesses/{id}/schedule - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBody)
		return
	}

	req := &models.UpdateScheduleRequest{
		UserID:            userID,
		BusinessID:        businessID,
		Window:            body.Window,
		EmployeeOverrides: body.EmployeeOverrides,
		RestrictedWindows: body.RestrictedWindows,
	}

	result, err := h.service.Update(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrBusinessNotFound):
			h.logger.Warn("PUT /businesses/{id}/schedule - Business not found: business_id=%d", businessID)
			handlers.RespondNotFound(w, msgBusinessNotFound)

		case errors.Is(err, schedule.ErrEmployeeNotFound):
			h.logger.Warn("PUT /businesses/{id}/schedule - Employee not found: business_id=%d", businessID)
			handlers.RespondNotFound(w, msgEmployeeNotFound)

		case errors.Is(err, schedule.ErrAccessDenied):
			h.logger.Warn("PUT /businesses/{id}/schedule - Access denied: business_id=%d, user_id=%d",
				businessID, userID)
			handlers.RespondForbidden(w, msgAccessDenied)

		case errors.Is(err, schedule.ErrInvalidInput):
			h.logger.Warn("PUT /businesses/{id}/schedule - Invalid schedule: business_id=%d, error=%v",
				businessID, err)
			handlers.RespondBadRequest(w, msgInvalidSchedule)

		default:
			h.logger.Error("PUT /businesses/{id}/schedule - Failed to update schedule: business_id=%d, error=%v",
				businessID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /businesses/{id}/schedule - Schedule updated: business_id=%d, user_id=%d", businessID, userID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
