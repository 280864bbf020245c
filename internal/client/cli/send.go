package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/secretspace/secretspace/internal/client/api"
	"github.com/secretspace/secretspace/internal/cryptox"
	"github.com/secretspace/secretspace/internal/mailx"
)

// ttlMinutes are the self-destruct options offered to the sender.
var ttlMinutes = []int{1, 10, 30, 60, 720, 1440, 2880}

func ttlLabel(minutes int) string {
	switch {
	case minutes < 60:
		return fmt.Sprintf("%d min", minutes)
	case minutes < 1440:
		return fmt.Sprintf("%d h", minutes/60)
	default:
		return fmt.Sprintf("%d d", minutes/1440)
	}
}

// Send walks the user through composing a secret message: recipient search,
// local encryption with the recipient's email as passphrase, TTL choice, and
// finally prints the shareable one-time link.
func (a *App) Send(ctx context.Context) error {

	prefix, err := GetSimpleText(a.reader, "Recipient email (or prefix to search)", os.Stdout)
	if err != nil {
		return err
	}

	users, err := a.client.SearchUsers(ctx, mailx.Normalize(prefix))
	if err != nil {
		printlnFn("Search failed:", err.Error())
		return err
	}

	recipientEmail := mailx.Normalize(prefix)
	if len(users) > 0 {
		for i, u := range users {
			printlnFn(fmt.Sprintf("%d) %s (%s)", i+1, u.Email, u.FullName))
		}
		choice, err := GetSimpleText(a.reader, "Pick a number, or press Enter to use what you typed", os.Stdout)
		if err != nil {
			return err
		}
		if choice != "" {
			n, err := strconv.Atoi(choice)
			if err != nil || n < 1 || n > len(users) {
				printlnFn("Invalid choice")
				return fmt.Errorf("invalid choice: %q", choice)
			}
			recipientEmail = users[n-1].Email
		}
	}

	text, err := GetMultiline(a.reader, "Message", os.Stdout)
	if err != nil {
		return err
	}
	if text == "" {
		printlnFn("Nothing to send")
		return nil
	}

	for i, m := range ttlMinutes {
		printlnFn(fmt.Sprintf("%d) %s", i+1, ttlLabel(m)))
	}
	ttlChoice, err := GetSimpleText(a.reader, "Self-destruct after", os.Stdout)
	if err != nil {
		return err
	}
	n, err := strconv.Atoi(ttlChoice)
	if err != nil || n < 1 || n > len(ttlMinutes) {
		printlnFn("Invalid choice")
		return fmt.Errorf("invalid ttl choice: %q", ttlChoice)
	}
	expiresAt := time.Now().Add(time.Duration(ttlMinutes[n-1]) * time.Minute).UnixMilli()

	encrypted, err := cryptox.EncryptWithPassphrase(text, recipientEmail)
	if err != nil {
		printlnFn("Encryption failed:", err.Error())
		return err
	}

	resp, err := a.client.CreateMessage(ctx, &api.CreateMessageRequest{
		UUID:             uuid.NewString(),
		EncryptedContent: encrypted,
		ExpiresAt:        expiresAt,
		RecipientEmail:   recipientEmail,
	})
	if err != nil {
		printlnFn("Send failed:", err.Error())
		return err
	}

	printlnFn("Message sent. Share this link:")
	printlnFn(resp.ShareLink)
	return nil
}
