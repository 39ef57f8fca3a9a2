package domain

import "time"

// Tenant is an independent business account. Provisioning happens elsewhere;
// the engine only reads it.
type Tenant struct {
	ID        int64
	Slug      string
	Name      string
	Timezone  string // IANA name, empty means the deployment default
	Active    bool
	CreatedAt time.Time
}

// Location resolves the tenant time zone, falling back to fallback when the
// tenant has none or it cannot be loaded.
func (t *Tenant) Location(fallback *time.Location) *time.Location {
	if t.Timezone == "" {
		return fallback
	}
	loc, err := time.LoadLocation(t.Timezone)
	if err != nil {
		return fallback
	}
	return loc
}
