package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

const timeLayout = "15:04"

// ErrInvalidTimeString возвращается при некорректном формате времени
var ErrInvalidTimeString = errors.New("invalid time string format")

// TimeString время суток в формате HH:MM без привязки к дате
// Хранится как количество минут от полуночи
type TimeString struct {
	minutes int
	set     bool
}

// NewTimeString создает TimeString из часов и минут time.Time (секунды отбрасываются)
func NewTimeString(t time.Time) TimeString {
	return TimeString{minutes: t.Hour()*60 + t.Minute(), set: true}
}

// NewTimeStringFromString парсит строку вида "09:30"
func NewTimeStringFromString(s string) (TimeString, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return TimeString{}, fmt.Errorf("%w: %q", ErrInvalidTimeString, s)
	}
	return NewTimeString(t), nil
}

// MustTimeString как NewTimeStringFromString, но паникует на ошибке
func MustTimeString(s string) TimeString {
	ts, err := NewTimeStringFromString(s)
	if err != nil {
		panic(err)
	}
	return ts
}

// IsZero возвращает true, если время не задано
func (t TimeString) IsZero() bool {
	return !t.set
}

// Validate проверяет, что время находится в пределах суток
func (t TimeString) Validate() error {
	if !t.set {
		return fmt.Errorf("%w: empty", ErrInvalidTimeString)
	}
	if t.minutes < 0 || t.minutes >= 24*60 {
		return fmt.Errorf("%w: out of range", ErrInvalidTimeString)
	}
	return nil
}

// Minutes количество минут от полуночи
func (t TimeString) Minutes() int {
	return t.minutes
}

// AddMinutes возвращает время, сдвинутое на n минут
// Переход через полночь считается ошибкой
func (t TimeString) AddMinutes(n int) (TimeString, error) {
	m := t.minutes + n
	if m < 0 || m >= 24*60 {
		return TimeString{}, fmt.Errorf("%w: %s%+d min crosses midnight", ErrInvalidTimeString, t, n)
	}
	return TimeString{minutes: m, set: true}, nil
}

func (t TimeString) IsBefore(other TimeString) bool {
	return t.minutes < other.minutes
}

func (t TimeString) IsAfter(other TimeString) bool {
	return t.minutes > other.minutes
}

func (t TimeString) Equal(other TimeString) bool {
	return t.set == other.set && t.minutes == other.minutes
}

// OnDate переносит время суток на календарную дату date в её часовом поясе
func (t TimeString) OnDate(date time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, t.minutes/60, t.minutes%60, 0, 0, date.Location())
}

func (t TimeString) String() string {
	if !t.set {
		return ""
	}
	return fmt.Sprintf("%02d:%02d", t.minutes/60, t.minutes%60)
}

// Scan реализует sql.Scanner (колонки TIME / TEXT)
func (t *TimeString) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*t = TimeString{}
		return nil
	case time.Time:
		*t = NewTimeString(v)
		return nil
	case []byte:
		return t.scanString(string(v))
	case string:
		return t.scanString(v)
	default:
		return fmt.Errorf("%w: cannot scan %T", ErrInvalidTimeString, src)
	}
}

func (t *TimeString) scanString(s string) error {
	// postgres отдает TIME как "15:04:05"
	if len(s) >= 8 {
		s = s[:5]
	}
	parsed, err := NewTimeStringFromString(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Value реализует driver.Valuer
func (t TimeString) Value() (driver.Value, error) {
	if !t.set {
		return nil, nil
	}
	return t.String(), nil
}

func (t TimeString) MarshalJSON() ([]byte, error) {
	if !t.set {
		return []byte("null"), nil
	}
	return json.Marshal(t.String())
}

func (t *TimeString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*t = TimeString{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTimeString, err)
	}
	parsed, err := NewTimeStringFromString(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
