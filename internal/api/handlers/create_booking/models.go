package create_booking

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	createBooking "github.com/m04kA/SMC-SalonBooking/internal/usecase/create_booking"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

var (
	errInvalidDate = errors.New("invalid date")
	errInvalidTime = errors.New("invalid time")
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	ServiceID     int64  `json:"serviceId"`
	Date          string `json:"date"`      // "2025-10-15"
	StartTime     string `json:"startTime"` // "10:00", часы бизнеса
	CustomerName  string `json:"customerName"`
	CustomerPhone string `json:"customerPhone"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID              int64   `json:"id"`
	TenantID        int64   `json:"tenantId"`
	ServiceID       int64   `json:"serviceId"`
	StartTime       string  `json:"startTime"`
	EndTime         string  `json:"endTime"`
	DurationMinutes int     `json:"durationMinutes"`
	CustomerName    string  `json:"customerName"`
	CustomerPhone   string  `json:"customerPhone"`
	Status          string  `json:"status"`
	ServiceName     string  `json:"serviceName"`
	ServicePrice    float64 `json:"servicePrice"`
	CreatedAt       string  `json:"createdAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(tenantSlug string) (*createBooking.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidDate, err)
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidTime, err)
	}

	return &createBooking.Request{
		TenantSlug:    tenantSlug,
		ServiceID:     r.ServiceID,
		Date:          date,
		StartTime:     startTime,
		CustomerName:  r.CustomerName,
		CustomerPhone: r.CustomerPhone,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:              resp.ID,
		TenantID:        resp.TenantID,
		ServiceID:       resp.ServiceID,
		StartTime:       resp.StartTime.Format(time.RFC3339),
		EndTime:         resp.EndTime.Format(time.RFC3339),
		DurationMinutes: resp.DurationMinutes,
		CustomerName:    resp.CustomerName,
		CustomerPhone:   resp.CustomerPhone,
		Status:          resp.Status,
		ServiceName:     resp.ServiceName,
		ServicePrice:    resp.ServicePrice,
		CreatedAt:       resp.CreatedAt.Format(time.RFC3339),
	}
}
