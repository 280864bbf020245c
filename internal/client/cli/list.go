package cli

import (
	"context"
	"fmt"
	"time"
)

func formatExpiry(epochMillis int64) string {
	left := time.Until(time.UnixMilli(epochMillis))
	if left <= 0 {
		return "expired"
	}
	return fmt.Sprintf("expires in %s", left.Round(time.Minute))
}

// Inbox lists messages waiting for the user. Content stays on the server
// until an explicit open.
func (a *App) Inbox(ctx context.Context) error {
	items, err := a.client.Inbox(ctx)
	if err != nil {
		printlnFn("Inbox failed:", err.Error())
		return err
	}
	if len(items) == 0 {
		printlnFn("Inbox is empty.")
		return nil
	}
	for _, it := range items {
		printlnFn(fmt.Sprintf("%s  (%s)", it.UUID, formatExpiry(it.ExpiresAt)))
	}
	return nil
}

// Sent lists messages the user created.
func (a *App) Sent(ctx context.Context) error {
	msgs, err := a.client.Sent(ctx)
	if err != nil {
		printlnFn("Sent failed:", err.Error())
		return err
	}
	if len(msgs) == 0 {
		printlnFn("No sent messages.")
		return nil
	}
	for _, m := range msgs {
		printlnFn(fmt.Sprintf("%s  to %s  (%s)", m.UUID, m.RecipientEmail, formatExpiry(m.ExpiresAt)))
	}
	return nil
}
