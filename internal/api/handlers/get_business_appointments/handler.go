package get_business_appointments

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/trimtime/booking-service/internal/api/handlers"
	"github.com/trimtime/booking-service/internal/api/middleware"
	"github.com/trimtime/booking-service/internal/domain"
	"github.com/trimtime/booking-service/internal/service/appointments"
	"github.com/trimtime/booking-service/internal/service/appointments/models"
	"github.com/trimtime/booking-service/pkg/ptr"
)

const (
	msgInvalidBusinessID = "некорректный ID салона"
	msgInvalidEmployeeID = "некорректный ID мастера"
	msgInvalidDate       = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidStatus     = "некорректный статус записи"
	msgUnauthorized      = "требуется аутентификация"
	msgBusinessNotFound  = "салон не найден"
	msgAccessDenied      = "доступ запрещен"
)

type Handler struct {
	service AppointmentsService
	logger  Logger
}

func NewHandler(service AppointmentsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/businesses/{businessId}/appointments
// Query params: date (optional), employeeId (optional), status (optional),
// includeInactive (optional)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /businesses/{id}/appointments - Missing user ID in context")
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	vars := mux.Vars(r)
	businessID, err := strconv.ParseInt(vars["businessId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /businesses/{id}/appointments - Invalid business ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	req := &models.GetBusinessAppointmentsRequest{
		UserID:     userID,
		BusinessID: businessID,
	}

	if dateStr := r.URL.Query().Get("date"); dateStr != "" {
		date, err := time.Parse(domain.DateFormat, dateStr)
		if err != nil {
			h.logger.Warn("GET /businesses/{id}/appointments - Invalid date: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
		req.StartDate = ptr.Ptr(date)
		req.EndDate = ptr.Ptr(date)
	}

	if employeeIDStr := r.URL.Query().Get("employeeId"); employeeIDStr != "" {
		employeeID, err := strconv.ParseInt(employeeIDStr, 10, 64)
		if err != nil {
			h.logger.Warn("GET /businesses/{id}/appointments - Invalid employee ID: %v", err)
			handlers.RespondBadRequest(w, msgInvalidEmployeeID)
			return
		}
		req.EmployeeID = ptr.Ptr(employeeID)
	}

	if status := r.URL.Query().Get("status"); status != "" {
		req.Status = &status
	}

	if includeInactive := r.URL.Query().Get("includeInactive"); includeInactive == "true" {
		req.IncludeInactive = true
	}

	result, err := h.service.GetBusinessAppointments(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrBusinessNotFound):
			h.logger.Warn("GET /businesses/{id}/appointments - Business not found: business_id=%d", businessID)
			handlers.RespondNotFound(w, msgBusinessNotFound)

		case errors.Is(err, appointments.ErrAccessDenied):
			h.logger.Warn("GET /businesses/{id}/appointments - Access denied: business_id=%d, user_id=%d",
				businessID, userID)
			handlers.RespondForbidden(w, msgAccessDenied)

		case errors.Is(err, appointments.ErrInvalidInput):
			h.logger.Warn("GET /businesses/{id}/appointments - Invalid filter: business_id=%d", businessID)
			handlers.RespondBadRequest(w, msgInvalidStatus)

		default:
			h.logger.Error("GET /businesses/{id}/appointments - Failed to get appointments: business_id=%d, error=%v",
				businessID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /businesses/{id}/appointments - Retrieved %d appointments: business_id=%d",
		len(result.Appointments), businessID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
