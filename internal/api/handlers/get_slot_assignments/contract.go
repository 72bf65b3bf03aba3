package get_slot_assignments

import (
	"context"

	getSlotAssignments "github.com/m04kA/SMC-HotelBookingService/internal/usecase/get_slot_assignments"
)

type GetSlotAssignmentsUseCase interface {
	Execute(ctx context.Context, req *getSlotAssignments.Request) (*getSlotAssignments.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
