package errors

import "fmt"

var (
	ErrWorkerPanic     = fmt.Errorf("worker panic")
	ErrNoSession       = fmt.Errorf("assistant session is not initialized")
	ErrSendInFlight    = fmt.Errorf("a send is already in flight for this conversation")
	ErrEmptyMessage    = fmt.Errorf("message is empty")
	ErrMessageTooLong  = fmt.Errorf("message exceeds the maximum length")
	ErrNotAnImage      = fmt.Errorf("attachment is not an image")
	ErrMissingAPIKey   = fmt.Errorf("assistant API key is missing")
	ErrEmptyWords      = fmt.Errorf("no words have been found")
	ErrTransportClosed = fmt.Errorf("room transport is not ready")
)
