package get_available_slots

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/trimtime/booking-service/internal/api/handlers"
	getAvailableSlots "github.com/trimtime/booking-service/internal/usecase/get_available_slots"
	"github.com/trimtime/booking-service/pkg/ptr"
)

const (
	msgInvalidBusinessID     = "некорректный ID салона"
	msgInvalidServiceID      = "некорректный ID услуги"
	msgInvalidEmployeeID     = "некорректный ID мастера"
	msgInvalidCustomerID     = "некорректный ID клиента"
	msgMissingServiceID      = "ID услуги обязателен"
	msgMissingDate           = "дата обязательна"
	msgInvalidDate           = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgBusinessNotFound      = "салон не найден"
	msgServiceNotFound       = "услуга не найдена"
	msgEmployeeNotFound      = "мастер не найден"
	msgScheduleNotConfigured = "расписание салона не настроено"
	msgInvalidRequest        = "некорректные параметры запроса"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/businesses/{businessId}/available-slots
// Query params: serviceId (required), date (required, YYYY-MM-DD),
// employeeId (optional), customerId (optional)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	businessID, err := strconv.ParseInt(vars["businessId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /businesses/{id}/available-slots - Invalid business ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	serviceIDStr := r.URL.Query().Get("serviceId")
	if serviceIDStr == "" {
		h.logger.Warn("GET /businesses/{id}/available-slots - Missing service ID")
		handlers.RespondBadRequest(w, msgMissingServiceID)
		return
	}

	serviceID, err := strconv.ParseInt(serviceIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("GET /businesses/{id}/available-slots - Invalid service ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	var employeeID *int64
	if employeeIDStr := r.URL.Query().Get("employeeId"); employeeIDStr != "" {
		id, err := strconv.ParseInt(employeeIDStr, 10, 64)
		if err != nil {
			h.logger.Warn("GET /businesses/{id}/available-slots - Invalid employee ID: %v", err)
			handlers.RespondBadRequest(w, msgInvalidEmployeeID)
			return
		}
		employeeID = ptr.Ptr(id)
	}

	var customerID *int64
	if customerIDStr := r.URL.Query().Get("customerId"); customerIDStr != "" {
		id, err := strconv.ParseInt(customerIDStr, 10, 64)
		if err != nil {
			h.logger.Warn("GET /businesses/{id}/available-slots - Invalid customer ID: %v", err)
			handlers.RespondBadRequest(w, msgInvalidCustomerID)
			return
		}
		customerID = ptr.Ptr(id)
	}

	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /businesses/{id}/available-slots - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	useCaseReq, err := ToUseCaseRequest(businessID, serviceID, employeeID, customerID, dateStr)
	if err != nil {
		h.logger.Warn("GET /businesses/{id}/available-slots - Invalid date format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrBusinessNotFound):
			h.logger.Warn("GET /businesses/{id}/available-slots - Business not found: business_id=%d", businessID)
			handlers.RespondNotFound(w, msgBusinessNotFound)

		case errors.Is(err, getAvailableSlots.ErrServiceNotFound):
			h.logger.Warn("GET /businesses/{id}/available-slots - Service not found: business_id=%d, service_id=%d",
				businessID, serviceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, getAvailableSlots.ErrEmployeeNotFound):
			h.logger.Warn("GET /businesses/{id}/available-slots - Employee not found: business_id=%d", businessID)
			handlers.RespondNotFound(w, msgEmployeeNotFound)

		case errors.Is(err, getAvailableSlots.ErrScheduleNotConfigured):
			h.logger.Warn("GET /businesses/{id}/available-slots - Schedule not configured: business_id=%d", businessID)
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgScheduleNotConfigured)

		case errors.Is(err, getAvailableSlots.ErrInvalidInput), errors.Is(err, getAvailableSlots.ErrInvalidDate):
			h.logger.Warn("GET /businesses/{id}/available-slots - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequest)

		default:
			h.logger.Error("GET /businesses/{id}/available-slots - Failed to get slots: business_id=%d, service_id=%d, error=%v",
				businessID, serviceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /businesses/{id}/available-slots - Slots retrieved successfully: business_id=%d, service_id=%d, slots_count=%d",
		businessID, serviceID, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
