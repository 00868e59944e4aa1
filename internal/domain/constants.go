package domain

// Business validation constants
const (
	MinOperatingHour = 0
	MaxOperatingHour = 24

	MinSlotIntervalMinutes = 5
	MaxSlotIntervalMinutes = 240

	MinDurationMinutes = 5
	MaxDurationMinutes = 480 // 8 hours

	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
	MaxCustomerNameLength       = 120
	MaxCustomerPhoneLength      = 32
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActiveStatuses статусы, занимающие слот.
// Отмененные записи слот не занимают, завершенные - только историю.
var ActiveStatuses = []AppointmentStatus{
	StatusPending,
	StatusConfirmed,
}

// InactiveStatuses статусы, не блокирующие слот
var InactiveStatuses = []AppointmentStatus{
	StatusCompleted,
	StatusCancelled,
}
