package socket

import "errors"

var (
	ErrAlreadyListen = errors.New("server already listening")
	ErrServerClosed  = errors.New("server closed")
)
