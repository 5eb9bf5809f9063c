package interfaces

import "context"

// NoticeType selects how a notice is rendered by the host editor.
type NoticeType string

const (
	NoticeTypeDefault  NoticeType = "default"
	NoticeTypeSnackbar NoticeType = "snackbar"
)

// NoticeOptions carries presentation hints for an emitted notice.
type NoticeOptions struct {
	ID            string
	Type          NoticeType
	IsDismissible bool
}

// Notifier surfaces user facing notices.
type Notifier interface {
	Success(ctx context.Context, message string, opts NoticeOptions)
	Error(ctx context.Context, message string, opts NoticeOptions)
}
