package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/trimtime/booking-service/internal/api/handlers"
)

type contextKey string

const userIDKey contextKey = "userID"

const msgMissingUserID = "требуется заголовок X-User-ID"

// Logger интерфейс для логирования
type Logger interface {
	Warn(format string, v ...interface{})
}

// Auth извлекает ID пользователя из заголовка X-User-ID и кладет его
// в контекст запроса. Запросы без валидного заголовка отклоняются с 401.
// Аутентификацию выполняет внешний шлюз, сервис доверяет заголовку.
func Auth(logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userIDStr := r.Header.Get("X-User-ID")
			if userIDStr == "" {
				logger.Warn("%s %s - Missing X-User-ID header", r.Method, r.URL.Path)
				handlers.RespondUnauthorized(w, msgMissingUserID)
				return
			}

			userID, err := strconv.ParseInt(userIDStr, 10, 64)
			if err != nil || userID <= 0 {
				logger.Warn("%s %s - Invalid X-User-ID header: %s", r.Method, r.URL.Path, userIDStr)
				handlers.RespondUnauthorized(w, msgMissingUserID)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserID возвращает ID пользователя из контекста запроса
func GetUserID(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(userIDKey).(int64)
	return userID, ok
}
