package types

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"time"
)

// TimeString время в формате HH:MM (24 часа) без даты и секунд.
// Используется для времени начала слотов и записей.
type TimeString string

const timeStringLayout = "15:04"

var (
	// ErrInvalidTimeString возвращается при некорректном формате времени
	ErrInvalidTimeString = errors.New("invalid time string format, expected HH:MM")
)

// NewTimeString создает TimeString из time.Time (отбрасывает дату и секунды)
func NewTimeString(t time.Time) TimeString {
	return TimeString(t.Format(timeStringLayout))
}

// NewTimeStringFromString парсит строку HH:MM и возвращает TimeString
func NewTimeStringFromString(s string) (TimeString, error) {
	if _, err := time.Parse(timeStringLayout, s); err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidTimeString, s)
	}
	return TimeString(s), nil
}

// NewTimeStringFromMinutes создает TimeString из количества минут с начала дня
func NewTimeStringFromMinutes(minutes int) (TimeString, error) {
	if minutes < 0 || minutes >= 24*60 {
		return "", fmt.Errorf("%w: %d minutes of day", ErrInvalidTimeString, minutes)
	}
	return TimeString(fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)), nil
}

// Validate проверяет корректность формата
func (ts TimeString) Validate() error {
	if _, err := time.Parse(timeStringLayout, string(ts)); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidTimeString, string(ts))
	}
	return nil
}

// IsZero возвращает true для пустого значения
func (ts TimeString) IsZero() bool {
	return ts == ""
}

// String возвращает строковое представление HH:MM
func (ts TimeString) String() string {
	return string(ts)
}

// MinuteOfDay возвращает количество минут с начала дня
func (ts TimeString) MinuteOfDay() (int, error) {
	t, err := time.Parse(timeStringLayout, string(ts))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeString, string(ts))
	}
	return t.Hour()*60 + t.Minute(), nil
}

// AddMinutes возвращает время, сдвинутое на minutes минут вперед.
// Выход за границу суток считается ошибкой: слоты не переживают полночь.
func (ts TimeString) AddMinutes(minutes int) (TimeString, error) {
	current, err := ts.MinuteOfDay()
	if err != nil {
		return "", err
	}

	total := current + minutes
	if total > 24*60 {
		return "", fmt.Errorf("%w: %s + %d minutes crosses midnight", ErrInvalidTimeString, ts, minutes)
	}
	// Ровно 24:00 допускаем только как границу сравнения конца дня
	if total == 24*60 {
		return TimeString("24:00"), nil
	}

	return NewTimeStringFromMinutes(total)
}

// IsBefore возвращает true, если ts строго раньше other
func (ts TimeString) IsBefore(other TimeString) bool {
	return ts.compare(other) < 0
}

// IsAfter возвращает true, если ts строго позже other
func (ts TimeString) IsAfter(other TimeString) bool {
	return ts.compare(other) > 0
}

// compare лексикографическое сравнение корректно для формата HH:MM
// с ведущими нулями ("09:30" < "10:00" < "24:00")
func (ts TimeString) compare(other TimeString) int {
	switch {
	case string(ts) < string(other):
		return -1
	case string(ts) > string(other):
		return 1
	default:
		return 0
	}
}

// Scan реализует sql.Scanner: колонка TIME приходит из lib/pq как time.Time,
// текстовые колонки - как []byte или string
func (ts *TimeString) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*ts = ""
		return nil
	case time.Time:
		*ts = NewTimeString(v)
		return nil
	case []byte:
		return ts.scanString(string(v))
	case string:
		return ts.scanString(v)
	default:
		return fmt.Errorf("%w: unsupported scan type %T", ErrInvalidTimeString, value)
	}
}

func (ts *TimeString) scanString(s string) error {
	// Postgres может вернуть "10:00:00" - отбрасываем секунды
	if len(s) > 5 {
		s = s[:5]
	}
	parsed, err := NewTimeStringFromString(s)
	if err != nil {
		return err
	}
	*ts = parsed
	return nil
}

// Value реализует driver.Valuer
func (ts TimeString) Value() (driver.Value, error) {
	if ts.IsZero() {
		return nil, nil
	}
	if err := ts.Validate(); err != nil {
		return nil, err
	}
	return string(ts), nil
}
