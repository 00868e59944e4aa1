package book_appointment

import (
	"errors"
	"net/http"

	"github.com/trimtime/booking-service/internal/api/handlers"
	bookAppointment "github.com/trimtime/booking-service/internal/usecase/book_appointment"
)

const (
	msgInvalidBody           = "некорректное тело запроса"
	msgInvalidDate           = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgBusinessNotFound      = "салон не найден"
	msgServiceNotFound       = "услуга не найдена"
	msgEmployeeNotFound      = "мастер не найден"
	msgScheduleNotConfigured = "расписание салона не настроено"
	msgInvalidTimeSlot       = "время не попадает в сетку слотов"
	msgSlotTaken             = "слот уже занят"
	msgTierRequired          = "слот доступен только клиентам с более высоким уровнем лояльности"
	msgInvalidRequest        = "некорректные параметры запроса"
)

type Handler struct {
	useCase BookAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase BookAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments/public/book
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req BookAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments/public/book - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /appointments/public/book - Invalid date format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, bookAppointment.ErrBusinessNotFound):
			h.logger.Warn("POST /appointments/public/book - Business not found: business_id=%d", req.BusinessID)
			handlers.RespondNotFound(w, msgBusinessNotFound)

		case errors.Is(err, bookAppointment.ErrServiceNotFound):
			h.logger.Warn("POST /appointments/public/book - Service not found: business_id=%d, service_id=%d",
				req.BusinessID, req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, bookAppointment.ErrEmployeeNotFound):
			h.logger.Warn("POST /appointments/public/book - Employee not found: business_id=%d", req.BusinessID)
			handlers.RespondNotFound(w, msgEmployeeNotFound)

		case errors.Is(err, bookAppointment.ErrScheduleNotConfigured):
			h.logger.Warn("POST /appointments/public/book - Schedule not configured: business_id=%d", req.BusinessID)
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgScheduleNotConfigured)

		case errors.Is(err, bookAppointment.ErrInvalidTimeSlot):
			h.logger.Warn("POST /appointments/public/book - Time off the slot grid: business_id=%d, time=%s",
				req.BusinessID, req.Time)
			handlers.RespondBadRequest(w, msgInvalidTimeSlot)

		case errors.Is(err, bookAppointment.ErrSlotTaken):
			// Проигрыш гонки за слот - отдельный код, клиент может выбрать другой слот
			h.logger.Warn("POST /appointments/public/book - Slot taken: business_id=%d, date=%s, time=%s",
				req.BusinessID, req.Date, req.Time)
			handlers.RespondConflict(w, msgSlotTaken)

		case errors.Is(err, bookAppointment.ErrTierRequired):
			h.logger.Warn("POST /appointments/public/book - Tier gate rejected: business_id=%d, time=%s",
				req.BusinessID, req.Time)
			handlers.RespondForbidden(w, msgTierRequired)

		case errors.Is(err, bookAppointment.ErrInvalidInput):
			h.logger.Warn("POST /appointments/public/book - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequest)

		default:
			h.logger.Error("POST /appointments/public/book - Failed to book: business_id=%d, error=%v",
				req.BusinessID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /appointments/public/book - Appointment created: id=%d, business_id=%d, date=%s, time=%s",
		result.ID, result.BusinessID, req.Date, req.Time)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
