package calendar

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	calendarRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/calendar"
	tenantRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/tenant"
	"github.com/m04kA/SMC-SalonBooking/internal/service/calendar/models"
	"github.com/m04kA/SMC-SalonBooking/pkg/logger"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

type fakeRepo struct {
	days   map[time.Weekday]*domain.OperatingDay
	closed map[string]*domain.ClosedDate
	nextID int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{days: map[time.Weekday]*domain.OperatingDay{}, closed: map[string]*domain.ClosedDate{}}
}

func (f *fakeRepo) GetOperatingDay(_ context.Context, _ int64, wd time.Weekday) (*domain.OperatingDay, error) {
	if d, ok := f.days[wd]; ok {
		return d, nil
	}
	return nil, calendarRepo.ErrOperatingDayNotFound
}

func (f *fakeRepo) ListOperatingDays(context.Context, int64) ([]*domain.OperatingDay, error) {
	out := make([]*domain.OperatingDay, 0, len(f.days))
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		if d, ok := f.days[wd]; ok {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeRepo) CountOperatingDays(context.Context, int64) (int, error) {
	return len(f.days), nil
}

func (f *fakeRepo) UpsertOperatingDay(_ context.Context, d *domain.OperatingDay) (*domain.OperatingDay, error) {
	f.nextID++
	d.ID = f.nextID
	f.days[d.Weekday] = d
	return d, nil
}

func (f *fakeRepo) IsClosedDate(_ context.Context, _ int64, date time.Time) (bool, error) {
	_, ok := f.closed[date.Format(domain.DateFormat)]
	return ok, nil
}

func (f *fakeRepo) ListClosedDates(_ context.Context, _ int64, from time.Time) ([]*domain.ClosedDate, error) {
	out := make([]*domain.ClosedDate, 0)
	for key, cd := range f.closed {
		if key >= from.Format(domain.DateFormat) {
			out = append(out, cd)
		}
	}
	return out, nil
}

func (f *fakeRepo) AddClosedDate(_ context.Context, cd *domain.ClosedDate) (*domain.ClosedDate, error) {
	f.nextID++
	cd.ID = f.nextID
	f.closed[cd.Date.Format(domain.DateFormat)] = cd
	return cd, nil
}

func (f *fakeRepo) DeleteClosedDate(_ context.Context, _ int64, id int64) error {
	for key, cd := range f.closed {
		if cd.ID == id {
			delete(f.closed, key)
			return nil
		}
	}
	return calendarRepo.ErrClosedDateNotFound
}

type fakeTenants struct{}

func (fakeTenants) GetBySlug(_ context.Context, slug string) (*domain.Tenant, error) {
	if slug != "salon" {
		return nil, tenantRepo.ErrTenantNotFound
	}
	return &domain.Tenant{ID: 1, Slug: "salon", Active: true}, nil
}

type fakeTx struct{}

func (fakeTx) Do(ctx context.Context, fn func(ctx context.Context) error) error { return fn(ctx) }

type fixedClock time.Time

func (c fixedClock) Now() time.Time { return time.Time(c) }

// Monday
var monday = time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC)

func newService(repo *fakeRepo, policy FallbackPolicy) *Service {
	return NewService(repo, fakeTenants{}, fakeTx{}, Options{Policy: policy}, logger.NewNop()).
		WithTimeProvider(fixedClock(monday.Add(8 * time.Hour)))
}

func TestIsOpen_NoRecordMeansClosed(t *testing.T) {
	svc := newService(newFakeRepo(), PolicyClosed)

	open, err := svc.IsOpen(context.Background(), 1, monday)

	require.NoError(t, err)
	assert.False(t, open)
}

func TestWindowsFor_ConfiguredDay(t *testing.T) {
	repo := newFakeRepo()
	repo.days[time.Monday] = &domain.OperatingDay{
		Weekday: time.Monday, IsOpen: true,
		OpenTime: types.MustTimeString("10:00"), CloseTime: types.MustTimeString("19:00"),
		BreakStart: types.MustTimeString("14:00"), BreakEnd: types.MustTimeString("15:00"),
	}
	svc := newService(repo, PolicyDefaultHours)

	w, open, err := svc.WindowsFor(context.Background(), 1, monday)

	require.NoError(t, err)
	require.True(t, open)
	assert.Equal(t, "10:00", w.Open.String())
	assert.Equal(t, "19:00", w.Close.String())
	assert.True(t, w.HasBreak())
	assert.Equal(t, domain.SourceConfigured, w.Source)
}

func TestWindowsFor_ClosedDateOverridesWeekday(t *testing.T) {
	repo := newFakeRepo()
	repo.days[time.Monday] = &domain.OperatingDay{
		Weekday: time.Monday, IsOpen: true,
		OpenTime: types.MustTimeString("09:00"), CloseTime: types.MustTimeString("18:00"),
	}
	repo.closed[monday.Format(domain.DateFormat)] = &domain.ClosedDate{Date: monday}
	svc := newService(repo, PolicyClosed)

	_, open, err := svc.WindowsFor(context.Background(), 1, monday)

	require.NoError(t, err)
	assert.False(t, open)
}

func TestFallbackPolicy_AppliesOnlyToUnconfiguredTenant(t *testing.T) {
	repo := newFakeRepo()
	svc := newService(repo, PolicyDefaultHours)

	w, open, err := svc.WindowsFor(context.Background(), 1, monday)
	require.NoError(t, err)
	require.True(t, open)
	assert.Equal(t, domain.SourceFallback, w.Source)
	assert.Equal(t, "09:00", w.Open.String())
	assert.Equal(t, "18:00", w.Close.String())

	isOpen, err := svc.IsOpen(context.Background(), 1, monday)
	require.NoError(t, err)
	assert.True(t, isOpen, "IsOpen and WindowsFor share one fallback policy")

	// после настройки одного дня отсутствующие дни считаются выходными
	repo.days[time.Tuesday] = &domain.OperatingDay{Weekday: time.Tuesday}
	_, open, err = svc.WindowsFor(context.Background(), 1, monday)
	require.NoError(t, err)
	assert.False(t, open)
}

func TestSetOperatingDay(t *testing.T) {
	repo := newFakeRepo()
	svc := newService(repo, PolicyClosed)

	_, err := svc.SetOperatingDay(context.Background(), "salon", models.OperatingDayInput{
		Weekday: time.Monday, IsOpen: true, OpenTime: types.MustTimeString("09:00"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)

	saved, err := svc.SetOperatingDay(context.Background(), "salon", models.OperatingDayInput{
		Weekday: time.Sunday, IsOpen: false, OpenTime: types.MustTimeString("09:00"), CloseTime: types.MustTimeString("12:00"),
	})
	require.NoError(t, err)
	assert.True(t, saved.OpenTime.IsZero(), "closed day times are cleared")
	assert.Equal(t, int64(1), saved.TenantID)

	_, err = svc.SetOperatingDay(context.Background(), "unknown", models.OperatingDayInput{Weekday: time.Sunday})
	assert.ErrorIs(t, err, domain.ErrResourceNotFound)
}

func TestInitializeDefaultHours(t *testing.T) {
	repo := newFakeRepo()
	svc := newService(repo, PolicyClosed)

	days, err := svc.InitializeDefaultHours(context.Background(), "salon")
	require.NoError(t, err)
	require.Len(t, days, 7)
	assert.False(t, repo.days[time.Saturday].IsOpen)
	assert.False(t, repo.days[time.Sunday].IsOpen)
	assert.True(t, repo.days[time.Wednesday].IsOpen)
	assert.Equal(t, "18:00", repo.days[time.Friday].CloseTime.String())

	repo.days[time.Monday].IsOpen = false
	_, err = svc.InitializeDefaultHours(context.Background(), "salon")
	require.NoError(t, err)
	assert.False(t, repo.days[time.Monday].IsOpen, "existing configuration is kept")
}

type trackingTx struct {
	inTx bool
}

func (tx *trackingTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	tx.inTx = true
	defer func() { tx.inTx = false }()
	return fn(ctx)
}

type recordingInvalidator struct {
	tx          *trackingTx
	calls       int
	callsWithTx int
}

func (r *recordingInvalidator) InvalidateTenant(int64) {
	r.calls++
	if r.tx.inTx {
		r.callsWithTx++
	}
}

func TestInitializeDefaultHours_InvalidatesAfterCommit(t *testing.T) {
	tx := &trackingTx{}
	inv := &recordingInvalidator{tx: tx}
	svc := NewService(newFakeRepo(), fakeTenants{}, tx, Options{}, logger.NewNop()).WithInvalidator(inv)

	_, err := svc.InitializeDefaultHours(context.Background(), "salon")
	require.NoError(t, err)

	assert.Equal(t, 1, inv.calls)
	assert.Zero(t, inv.callsWithTx)
}

func TestClosedDates(t *testing.T) {
	repo := newFakeRepo()
	svc := newService(repo, PolicyClosed)
	reason := "holiday"

	_, err := svc.AddClosedDate(context.Background(), "salon", models.ClosedDateInput{Date: monday.AddDate(0, 0, -1)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	cd, err := svc.AddClosedDate(context.Background(), "salon", models.ClosedDateInput{Date: monday.AddDate(0, 0, 3), Reason: &reason})
	require.NoError(t, err)

	list, err := svc.ListClosedDates(context.Background(), "salon")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, svc.DeleteClosedDate(context.Background(), "salon", cd.ID))
	assert.ErrorIs(t, svc.DeleteClosedDate(context.Background(), "salon", cd.ID), domain.ErrResourceNotFound)
}
