package roomtype

import (
	"context"
	"strconv"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/m04kA/SMC-HotelBookingService/internal/domain"
)

// CachedRepository кэширует чтение каталога в памяти процесса.
// unit_count влияет на подсчёт доступности, поэтому TTL должен быть коротким.
type CachedRepository struct {
	next  Reader
	store *cache.Cache
	ttl   time.Duration
}

// NewCachedRepository оборачивает Reader кэшем go-cache
func NewCachedRepository(next Reader, ttl, cleanupInterval time.Duration) *CachedRepository {
	return &CachedRepository{
		next:  next,
		store: cache.New(ttl, cleanupInterval),
		ttl:   ttl,
	}
}

// GetByID возвращает тип номера из кэша или из базы.
// Ошибки (включая ErrRoomTypeNotFound) не кэшируются.
func (c *CachedRepository) GetByID(ctx context.Context, id int64) (*domain.RoomType, error) {
	key := strconv.FormatInt(id, 10)

	if cached, found := c.store.Get(key); found {
		roomType := *cached.(*domain.RoomType)
		return &roomType, nil
	}

	roomType, err := c.next.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	stored := *roomType
	c.store.Set(key, &stored, c.ttl)

	return roomType, nil
}
