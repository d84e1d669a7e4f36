package join_waitlist

import (
	"context"

	joinWaitlist "github.com/slotmind/booking-engine/internal/usecase/join_waitlist"
)

type JoinWaitlistUseCase interface {
	Execute(ctx context.Context, req *joinWaitlist.Request) (*joinWaitlist.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
