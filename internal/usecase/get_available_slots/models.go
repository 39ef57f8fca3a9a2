package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// Request модель запроса на получение слотов
type Request struct {
	TenantSlug string    // slug бизнеса
	ServiceID  int64     // ID услуги
	Date       time.Time // календарная дата; время и часовой пояс игнорируются
}

// Response модель ответа со списком слотов
type Response struct {
	Date      time.Time           // полночь даты в часовом поясе бизнеса
	TenantID  int64               // ID бизнеса
	ServiceID int64               // ID услуги
	Source    domain.WindowSource // откуда взяты часы работы (пусто, если закрыто)
	Slots     []domain.Slot       // слоты в порядке времени начала
}
