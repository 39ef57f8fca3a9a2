package calendar

import "errors"

var (
	// ErrOperatingDayNotFound возвращается, когда для дня недели нет записи
	ErrOperatingDayNotFound = errors.New("calendar.repository: operating day not found")

	// ErrClosedDateNotFound возвращается, когда нерабочая дата не найдена
	ErrClosedDateNotFound = errors.New("calendar.repository: closed date not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("calendar.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("calendar.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("calendar.repository: failed to scan row")
)
