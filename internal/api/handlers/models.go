package handlers

import (
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// ReservationResponse бронирование в ответах API
type ReservationResponse struct {
	ID            int64  `json:"id"`
	TenantID      int64  `json:"tenantId"`
	ServiceID     int64  `json:"serviceId"`
	StartTime     string `json:"startTime"`
	EndTime       string `json:"endTime"`
	CustomerName  string `json:"customerName"`
	CustomerPhone string `json:"customerPhone"`
	Status        string `json:"status"`
	CreatedAt     string `json:"createdAt"`
	UpdatedAt     string `json:"updatedAt,omitempty"`
}

// NewReservationResponse конвертирует бронирование в модель ответа
func NewReservationResponse(r *domain.Reservation) *ReservationResponse {
	resp := &ReservationResponse{
		ID:            r.ID,
		TenantID:      r.TenantID,
		ServiceID:     r.ServiceID,
		StartTime:     r.StartTime.Format(time.RFC3339),
		EndTime:       r.EndTime.Format(time.RFC3339),
		CustomerName:  r.CustomerName,
		CustomerPhone: r.CustomerPhone,
		Status:        string(r.Status),
		CreatedAt:     r.CreatedAt.Format(time.RFC3339),
	}
	if !r.UpdatedAt.IsZero() {
		resp.UpdatedAt = r.UpdatedAt.Format(time.RFC3339)
	}
	return resp
}

// NewReservationsResponse конвертирует список; пустой список сериализуется как []
func NewReservationsResponse(list []*domain.Reservation) []*ReservationResponse {
	result := make([]*ReservationResponse, 0, len(list))
	for _, r := range list {
		result = append(result, NewReservationResponse(r))
	}
	return result
}

// OperatingDayResponse часы работы на день недели
type OperatingDayResponse struct {
	ID         int64   `json:"id"`
	Weekday    int     `json:"weekday"`
	DayName    string  `json:"dayName"`
	IsOpen     bool    `json:"isOpen"`
	OpenTime   *string `json:"openTime"`
	CloseTime  *string `json:"closeTime"`
	BreakStart *string `json:"breakStart"`
	BreakEnd   *string `json:"breakEnd"`
}

// NewOperatingDayResponse конвертирует запись в модель ответа; незаданное время - null
func NewOperatingDayResponse(d *domain.OperatingDay) *OperatingDayResponse {
	return &OperatingDayResponse{
		ID:         d.ID,
		Weekday:    int(d.Weekday),
		DayName:    d.Weekday.String(),
		IsOpen:     d.IsOpen,
		OpenTime:   optionalTime(d.OpenTime.String()),
		CloseTime:  optionalTime(d.CloseTime.String()),
		BreakStart: optionalTime(d.BreakStart.String()),
		BreakEnd:   optionalTime(d.BreakEnd.String()),
	}
}

// NewOperatingDaysResponse конвертирует расписание недели
func NewOperatingDaysResponse(days []*domain.OperatingDay) []*OperatingDayResponse {
	result := make([]*OperatingDayResponse, 0, len(days))
	for _, d := range days {
		result = append(result, NewOperatingDayResponse(d))
	}
	return result
}

// ClosedDateResponse нерабочая дата
type ClosedDateResponse struct {
	ID        int64   `json:"id"`
	Date      string  `json:"date"`
	Reason    *string `json:"reason"`
	CreatedAt string  `json:"createdAt"`
}

// NewClosedDateResponse конвертирует нерабочую дату в модель ответа
func NewClosedDateResponse(cd *domain.ClosedDate) *ClosedDateResponse {
	return &ClosedDateResponse{
		ID:        cd.ID,
		Date:      cd.Date.Format(domain.DateFormat),
		Reason:    cd.Reason,
		CreatedAt: cd.CreatedAt.Format(time.RFC3339),
	}
}

func optionalTime(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// NewClosedDatesResponse конвертирует список нерабочих дат
func NewClosedDatesResponse(dates []*domain.ClosedDate) []*ClosedDateResponse {
	result := make([]*ClosedDateResponse, 0, len(dates))
	for _, cd := range dates {
		result = append(result, NewClosedDateResponse(cd))
	}
	return result
}
