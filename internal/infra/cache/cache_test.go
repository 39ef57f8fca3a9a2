package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	calendarRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/calendar"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := New(1000, time.Minute, nil)
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c
}

func TestGetOrLoad_CachesValue(t *testing.T) {
	c := newTestCache(t)
	var calls atomic.Int32
	load := func(context.Context) (string, error) {
		calls.Add(1)
		return "salon", nil
	}

	v, err := GetOrLoad(context.Background(), c, "k", load)
	require.NoError(t, err)
	assert.Equal(t, "salon", v)
	c.Wait()

	v, err = GetOrLoad(context.Background(), c, "k", load)
	require.NoError(t, err)
	assert.Equal(t, "salon", v)
	assert.Equal(t, int32(1), calls.Load())
}

func TestGetOrLoad_DoesNotCacheErrors(t *testing.T) {
	c := newTestCache(t)
	var calls atomic.Int32
	load := func(context.Context) (int, error) {
		calls.Add(1)
		return 0, errors.New("db down")
	}

	_, err := GetOrLoad(context.Background(), c, "k", load)
	require.Error(t, err)
	c.Wait()
	_, err = GetOrLoad(context.Background(), c, "k", load)
	require.Error(t, err)

	assert.Equal(t, int32(2), calls.Load())
}

func TestGetOrLoad_NilCacheCallsLoader(t *testing.T) {
	v, err := GetOrLoad(context.Background(), nil, "k", func(context.Context) (int, error) { return 7, nil })
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}

type fakeCalendar struct {
	CalendarStore
	mu     sync.Mutex
	closed map[string]bool
	reads  int
}

func (f *fakeCalendar) IsClosedDate(_ context.Context, _ int64, date time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++
	return f.closed[date.Format(domain.DateFormat)], nil
}

func (f *fakeCalendar) AddClosedDate(_ context.Context, cd *domain.ClosedDate) (*domain.ClosedDate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed[cd.Date.Format(domain.DateFormat)] = true
	return cd, nil
}

func (f *fakeCalendar) GetOperatingDay(context.Context, int64, time.Weekday) (*domain.OperatingDay, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++
	return nil, calendarRepo.ErrOperatingDayNotFound
}

func TestCalendarRepository_WriteInvalidatesTenant(t *testing.T) {
	c := newTestCache(t)
	store := &fakeCalendar{closed: map[string]bool{}}
	repo := NewCalendarRepository(store, c)
	ctx := context.Background()
	date := time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)

	closed, err := repo.IsClosedDate(ctx, 1, date)
	require.NoError(t, err)
	assert.False(t, closed)
	c.Wait()

	_, err = repo.AddClosedDate(ctx, &domain.ClosedDate{TenantID: 1, Date: date})
	require.NoError(t, err)

	closed, err = repo.IsClosedDate(ctx, 1, date)
	require.NoError(t, err)
	assert.True(t, closed)
	assert.Equal(t, 2, store.reads)
}

func TestCalendarRepository_CachesMissingOperatingDay(t *testing.T) {
	c := newTestCache(t)
	store := &fakeCalendar{closed: map[string]bool{}}
	repo := NewCalendarRepository(store, c)

	_, err := repo.GetOperatingDay(context.Background(), 1, time.Sunday)
	assert.ErrorIs(t, err, calendarRepo.ErrOperatingDayNotFound)
	c.Wait()
	_, err = repo.GetOperatingDay(context.Background(), 1, time.Sunday)
	assert.ErrorIs(t, err, calendarRepo.ErrOperatingDayNotFound)

	assert.Equal(t, 1, store.reads)
}
