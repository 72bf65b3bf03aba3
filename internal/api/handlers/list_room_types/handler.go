package list_room_types

import (
	"net/http"

	"github.com/m04kA/SMC-HotelBookingService/internal/api/handlers"
)

type Handler struct {
	catalog RoomTypeCatalog
	logger  Logger
}

func NewHandler(catalog RoomTypeCatalog, logger Logger) *Handler {
	return &Handler{
		catalog: catalog,
		logger:  logger,
	}
}

// Handle GET /api/v1/room-types
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	roomTypes, err := h.catalog.List(r.Context())
	if err != nil {
		h.logger.Error("GET /room-types - Failed to list room types: error=%v", err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromDomainRoomTypes(roomTypes))
}
