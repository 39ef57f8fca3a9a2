package add_closed_date

import (
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/service/calendar/models"
)

// AddClosedDateRequest HTTP request model
type AddClosedDateRequest struct {
	Date   string  `json:"date"` // "2025-12-31"
	Reason *string `json:"reason,omitempty"`
}

// ToServiceInput конвертирует HTTP запрос во входные данные сервиса
func (r *AddClosedDateRequest) ToServiceInput() (models.ClosedDateInput, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return models.ClosedDateInput{}, err
	}
	return models.ClosedDateInput{Date: date, Reason: r.Reason}, nil
}
