package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

const (
	maxBodyBytes = 1 << 20

	msgInternalError = "внутренняя ошибка сервера"
)

// Дополнительные виды ошибок транспортного уровня
const (
	KindUnauthorized    domain.Kind = "UNAUTHORIZED"
	KindTooManyRequests domain.Kind = "TOO_MANY_REQUESTS"
)

// ErrorResponse тело ответа с ошибкой
type ErrorResponse struct {
	Kind    domain.Kind `json:"kind"`
	Message string      `json:"message"`
}

// DecodeJSON декодирует тело запроса; неизвестные поля и лишние данные запрещены
func DecodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("decode json: %w", err)
	}
	if dec.More() {
		return errors.New("decode json: unexpected data after object")
	}
	return nil
}

// PathInt64 читает положительный int64 параметр пути
func PathInt64(r *http.Request, name string) (int64, error) {
	value, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil || value <= 0 {
		return 0, fmt.Errorf("invalid path parameter %s", name)
	}
	return value, nil
}

// RespondJSON пишет JSON ответ
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// RespondError пишет ответ с ошибкой заданного вида
func RespondError(w http.ResponseWriter, status int, kind domain.Kind, message string) {
	RespondJSON(w, status, ErrorResponse{Kind: kind, Message: message})
}

// RespondDomainError определяет статус по виду ошибки движка.
// Для внутренних ошибок текст не раскрывается.
func RespondDomainError(w http.ResponseWriter, err error) {
	kind := domain.KindOf(err)
	status := StatusFor(kind)
	if status == http.StatusInternalServerError {
		RespondInternalError(w)
		return
	}
	RespondError(w, status, kind, err.Error())
}

// StatusFor HTTP статус для вида ошибки
func StatusFor(kind domain.Kind) int {
	switch kind {
	case domain.KindResourceNotFound:
		return http.StatusNotFound
	case domain.KindTenantInactive:
		return http.StatusForbidden
	case domain.KindBookingConflict:
		return http.StatusConflict
	case domain.KindInvalidConfiguration:
		return http.StatusUnprocessableEntity
	case domain.KindInvalidInput:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindTooManyRequests:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// RespondBadRequest 400
func RespondBadRequest(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusBadRequest, domain.KindInvalidInput, message)
}

// RespondUnauthorized 401
func RespondUnauthorized(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusUnauthorized, KindUnauthorized, message)
}

// RespondTooManyRequests 429
func RespondTooManyRequests(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusTooManyRequests, KindTooManyRequests, message)
}

// RespondInternalError 500
func RespondInternalError(w http.ResponseWriter) {
	RespondError(w, http.StatusInternalServerError, domain.KindInternal, msgInternalError)
}
