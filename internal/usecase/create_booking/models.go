package create_booking

import (
	"github.com/m04kA/SMC-HotelBookingService/internal/domain"
	"github.com/m04kA/SMC-HotelBookingService/pkg/types"
)

// Request модель запроса на создание бронирования
type Request struct {
	UserID        int64      // ID пользователя из заголовка идентификации
	RoomTypeID    int64      // ID типа номера
	CheckIn       types.Date // Дата заезда
	CheckOut      types.Date // Дата выезда (не включается)
	GuestCount    int        // Количество гостей
	GuestName     string     // Контакты гостя
	GuestEmail    string
	GuestPhone    *string
	PaymentMethod string  // cash | gateway, пусто - gateway
	OrderID       *string // Ключ идемпотентности (опционально)
}

// Response модель ответа с созданным бронированием
type Response struct {
	Booking      *domain.Booking
	PaymentToken string // Токен оплаты (только gateway)
	RedirectURL  string // Ссылка на страницу оплаты (только gateway)
	Existing     bool   // Бронирование с этим order id уже существовало
}
