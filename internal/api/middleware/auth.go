package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-StudioBooking/internal/api/handlers"
)

// OwnerIDHeader заголовок с ID владельца студии, проставляется шлюзом после аутентификации
const OwnerIDHeader = "X-Owner-ID"

const msgMissingOwnerID = "отсутствует или некорректен заголовок X-Owner-ID"

type contextKey string

const ownerIDKey contextKey = "ownerID"

// Auth пропускает только запросы с валидным X-Owner-ID
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ownerID, err := strconv.ParseInt(r.Header.Get(OwnerIDHeader), 10, 64)
		if err != nil || ownerID <= 0 {
			handlers.RespondUnauthorized(w, msgMissingOwnerID)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithOwnerID(r.Context(), ownerID)))
	})
}

// WithOwnerID кладет ID владельца в контекст
func WithOwnerID(ctx context.Context, ownerID int64) context.Context {
	return context.WithValue(ctx, ownerIDKey, ownerID)
}

// GetOwnerID ID владельца из контекста
func GetOwnerID(ctx context.Context) (int64, bool) {
	ownerID, ok := ctx.Value(ownerIDKey).(int64)
	return ownerID, ok
}
