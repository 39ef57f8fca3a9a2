package delete_closed_date

import "context"

type ClosedDatesService interface {
	DeleteClosedDate(ctx context.Context, tenantSlug string, id int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
