package notifier

import "context"

// TextNotifier defines a minimal text notification interface.
// It is intentionally small so different components can depend on it
// without importing concrete implementations (e.g. Telegram).
type TextNotifier interface {
	SendText(ctx context.Context, text string) error
}

// ReplyPoller drains new inbound text replies from the configured
// recipient. Each call returns only messages not seen by earlier calls.
type ReplyPoller interface {
	PollReplies(ctx context.Context) ([]string, error)
}

// Channel is the full duplex surface the approval gate needs.
type Channel interface {
	TextNotifier
	ReplyPoller
}
