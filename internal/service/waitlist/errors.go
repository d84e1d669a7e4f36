package waitlist

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках координатора
	ErrInternal = errors.New("waitlist: internal error")
)
