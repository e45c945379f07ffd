package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

const (
	requestIDContextKey contextKey = "requestID"

	headerRequestID = "X-Request-ID"
)

// RequestID проставляет идентификатор запроса: берет из заголовка
// X-Request-ID, если гейтвей его уже назначил, иначе генерирует новый.
// Идентификатор возвращается в ответе и кладется в контекст.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(headerRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		w.Header().Set(headerRequestID, requestID)
		ctx := context.WithValue(r.Context(), requestIDContextKey, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID возвращает идентификатор запроса из контекста
func GetRequestID(ctx context.Context) (string, bool) {
	requestID, ok := ctx.Value(requestIDContextKey).(string)
	return requestID, ok
}
