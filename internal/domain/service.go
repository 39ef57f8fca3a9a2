package domain

// Service is a bookable catalog entry owned by exactly one tenant.
type Service struct {
	ID              int64
	TenantID        int64
	Name            string
	DurationMinutes int
	Price           float64
	Active          bool
}

// BelongsTo reports whether the service is owned by tenantID.
func (s *Service) BelongsTo(tenantID int64) bool {
	return s.TenantID == tenantID
}
