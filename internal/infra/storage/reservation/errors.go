package reservation

import (
	"errors"

	"github.com/lib/pq"
)

var (
	// ErrReservationNotFound возвращается, когда бронирование не найдено
	ErrReservationNotFound = errors.New("reservation.repository: reservation not found")

	// ErrOverlap возвращается, когда БД отклонила вставку из-за пересечения
	// интервалов или конфликта сериализации
	ErrOverlap = errors.New("reservation.repository: overlapping reservation")

	// ErrStatusChanged возвращается, когда условное обновление статуса не нашло
	// бронирование в ожидаемом статусе
	ErrStatusChanged = errors.New("reservation.repository: reservation status changed concurrently")

	// ErrNoTransaction возвращается, когда блокировка запрошена вне транзакции
	ErrNoTransaction = errors.New("reservation.repository: advisory lock requires a transaction")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("reservation.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("reservation.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("reservation.repository: failed to scan row")
)

const (
	codeExclusionViolation   = "23P01"
	codeSerializationFailure = "40001"
)

// IsConflict сообщает, что ошибка PostgreSQL означает конкурирующее бронирование:
// нарушение exclusion constraint или ошибку сериализации (в т.ч. при COMMIT)
func IsConflict(err error) bool {
	if errors.Is(err, ErrOverlap) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == codeExclusionViolation || pqErr.Code == codeSerializationFailure
	}
	return false
}
