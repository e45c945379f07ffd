package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-RentalService/internal/api/handlers"
	"github.com/m04kA/SMC-RentalService/internal/domain"
)

type contextKey string

const (
	callerContextKey contextKey = "caller"

	headerUserID   = "X-User-ID"
	headerUserRole = "X-User-Role"

	msgMissingUserID = "отсутствует заголовок X-User-ID"
	msgInvalidUserID = "некорректный ID пользователя"
)

// Auth извлекает идентификацию вызывающего из доверенных заголовков,
// проставленных API-гейтвеем. Сама аутентификация выполняется снаружи,
// сервис доверяет заголовкам.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userIDStr := r.Header.Get(headerUserID)
		if userIDStr == "" {
			handlers.RespondUnauthorized(w, msgMissingUserID)
			return
		}

		userID, err := strconv.ParseInt(userIDStr, 10, 64)
		if err != nil || userID <= 0 {
			handlers.RespondUnauthorized(w, msgInvalidUserID)
			return
		}

		role := domain.RoleUser
		if r.Header.Get(headerUserRole) == string(domain.RoleAdmin) {
			role = domain.RoleAdmin
		}

		caller := domain.Caller{ID: userID, Role: role}
		ctx := context.WithValue(r.Context(), callerContextKey, caller)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetCaller возвращает вызывающего из контекста запроса
func GetCaller(ctx context.Context) (domain.Caller, bool) {
	caller, ok := ctx.Value(callerContextKey).(domain.Caller)
	return caller, ok
}

// GetUserID возвращает ID вызывающего из контекста запроса
func GetUserID(ctx context.Context) (int64, bool) {
	caller, ok := GetCaller(ctx)
	if !ok {
		return 0, false
	}
	return caller.ID, true
}
