package get_slot_assignments

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-HotelBookingService/internal/api/handlers"
	getSlotAssignments "github.com/m04kA/SMC-HotelBookingService/internal/usecase/get_slot_assignments"
	"github.com/m04kA/SMC-HotelBookingService/pkg/types"
)

const (
	msgInvalidRoomTypeID = "некорректный ID типа номера"
	msgInvalidDate       = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidRange      = "конец периода должен быть позже начала"
	msgInvalidInput      = "некорректные параметры запроса"
	msgRoomTypeNotFound  = "тип номера не найден"
)

type Handler struct {
	useCase GetSlotAssignmentsUseCase
	logger  Logger
}

func NewHandler(useCase GetSlotAssignmentsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/room-types/{roomTypeId}/slots?from=YYYY-MM-DD&to=YYYY-MM-DD
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	roomTypeID, err := handlers.PathInt64(r, "roomTypeId")
	if err != nil {
		h.logger.Warn("GET /room-types/{id}/slots - Invalid room type ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRoomTypeID)
		return
	}

	query := r.URL.Query()
	from, err := types.ParseDate(query.Get("from"))
	if err != nil {
		h.logger.Warn("GET /room-types/{id}/slots - Invalid from: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}
	to, err := types.ParseDate(query.Get("to"))
	if err != nil {
		h.logger.Warn("GET /room-types/{id}/slots - Invalid to: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &getSlotAssignments.Request{
		RoomTypeID: roomTypeID,
		From:       from,
		To:         to,
	})
	if err != nil {
		switch {
		case errors.Is(err, getSlotAssignments.ErrInvalidRange):
			handlers.RespondBadRequest(w, msgInvalidRange)

		case errors.Is(err, getSlotAssignments.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, getSlotAssignments.ErrRoomTypeNotFound):
			h.logger.Warn("GET /room-types/{id}/slots - Room type not found: room_type_id=%d", roomTypeID)
			handlers.RespondNotFound(w, msgRoomTypeNotFound)

		default:
			h.logger.Error("GET /room-types/{id}/slots - Failed to assign slots: room_type_id=%d, error=%v",
				roomTypeID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /room-types/{id}/slots - Slots assigned: room_type_id=%d, slots=%d, collisions=%d",
		roomTypeID, result.SlotCount, len(result.Collisions))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
