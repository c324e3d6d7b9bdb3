// Package notify delivers alert messages to subscribers. The chat
// platform is reached only through the Notifier interface; gateway and
// command handling live outside this codebase.
package notify

import (
	"context"
	"errors"
)

// ErrUnreachable marks a target that no longer exists (deleted channel,
// revoked access). Callers prune the subscription instead of retrying.
var ErrUnreachable = errors.New("notification target unreachable")

// Notifier sends a message to a channel.
type Notifier interface {
	Notify(ctx context.Context, channelID, content string) error
}

// Nop discards every message. Used by tests and the one-shot advise
// command.
type Nop struct{}

func (Nop) Notify(context.Context, string, string) error { return nil }
