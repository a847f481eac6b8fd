package chat

import "errors"

var (
	ErrSendFailed   = errors.New("message could not be sent")
	ErrEmptyMessage = errors.New("message text is empty")
)
