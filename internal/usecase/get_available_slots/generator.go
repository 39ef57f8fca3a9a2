package get_available_slots

import (
	"iter"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// SlotParams входные данные генератора слотов на один день
type SlotParams struct {
	Date     time.Time        // полночь даты в часовом поясе бизнеса
	Window   domain.DayWindow // часы работы на дату
	Duration time.Duration    // длительность услуги
	Step     time.Duration    // шаг сетки
	Now      time.Time        // момент вычисления
	Busy     []*domain.Reservation
}

// GenerateSlots лениво перечисляет слоты [t, t+Duration), начиная с открытия с шагом Step.
// Перечисление останавливается на первом слоте, который заканчивается позже закрытия.
// Слот недоступен, если начинается в перерыве, пересекается с неотмененным
// бронированием или начинается не позже Now. Последовательность зависит от Now,
// поэтому генерируется заново на каждый запрос.
func GenerateSlots(p SlotParams) iter.Seq[domain.Slot] {
	return func(yield func(domain.Slot) bool) {
		if p.Duration <= 0 || p.Step <= 0 || p.Window.Open.IsZero() || p.Window.Close.IsZero() {
			return
		}

		open := p.Window.Open.OnDate(p.Date)
		closeAt := p.Window.Close.OnDate(p.Date)

		var breakStart, breakEnd time.Time
		hasBreak := p.Window.HasBreak()
		if hasBreak {
			breakStart = p.Window.BreakStart.OnDate(p.Date)
			breakEnd = p.Window.BreakEnd.OnDate(p.Date)
		}

		for start := open; ; start = start.Add(p.Step) {
			end := start.Add(p.Duration)
			if end.After(closeAt) {
				return
			}

			available := start.After(p.Now) &&
				!(hasBreak && !start.Before(breakStart) && start.Before(breakEnd)) &&
				!overlapsAny(start, end, p.Busy)

			if !yield(domain.Slot{StartTime: start, EndTime: end, Available: available}) {
				return
			}
		}
	}
}

func overlapsAny(start, end time.Time, busy []*domain.Reservation) bool {
	for _, r := range busy {
		if r.HoldsTime() && r.Overlaps(start, end) {
			return true
		}
	}
	return false
}
