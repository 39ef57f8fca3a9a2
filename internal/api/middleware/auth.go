package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
)

const (
	// HeaderUserID заголовок с ID пользователя, проставляемый внешним шлюзом авторизации
	HeaderUserID = "X-User-ID"

	msgMissingUserID = "отсутствует или некорректен заголовок X-User-ID"
)

type userIDKey struct{}

// Auth требует заголовок X-User-ID и кладет ID в контекст.
// Проверка ролей и принадлежности бизнеса выполняется снаружи.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := strconv.ParseInt(r.Header.Get(HeaderUserID), 10, 64)
		if err != nil || userID <= 0 {
			handlers.RespondUnauthorized(w, msgMissingUserID)
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey{}, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserID возвращает ID пользователя, установленный Auth
func GetUserID(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(userIDKey{}).(int64)
	return userID, ok
}
