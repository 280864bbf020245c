package cli

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/secretspace/secretspace/internal/common"
	"github.com/secretspace/secretspace/internal/cryptox"
	"github.com/secretspace/secretspace/internal/mailx"
)

// messageUUIDFromArg accepts either a bare uuid or a full share link and
// returns the uuid part.
func messageUUIDFromArg(arg string) string {
	arg = strings.TrimRight(arg, "/")
	if i := strings.LastIndex(arg, "/"); i >= 0 {
		return arg[i+1:]
	}
	return arg
}

// Open claims a message and decrypts it locally. The decryption passphrase
// is the recipient's own email; the server never sees it. A message can be
// opened exactly once.
func (a *App) Open(ctx context.Context, arg string) error {
	id := messageUUIDFromArg(arg)

	msg, err := a.client.ClaimMessage(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrWrongRecipient):
			printlnFn("This message was sent to someone else.")
		case errors.Is(err, common.ErrMessageNotFoundOrExpired):
			printlnFn("Message not found, expired, or already viewed.")
		case errors.Is(err, common.ErrorUnauthorized):
			printlnFn("Please sign in first (set SECRETSPACE_TOKEN or use -t).")
		default:
			printlnFn("Open failed:", err.Error())
		}
		return err
	}

	// The record is gone server-side after the claim, so the ciphertext held
	// here is the only copy. Let the user retry a mistyped email instead of
	// losing the message to a typo.
	var plaintext string
	for attempt := 0; ; attempt++ {
		email, err := GetSimpleText(a.reader, "Your email (used as the decryption key)", os.Stdout)
		if err != nil {
			return err
		}
		plaintext, err = cryptox.DecryptWithPassphrase(msg.EncryptedContent, mailx.Normalize(email))
		if err == nil {
			break
		}
		if attempt == 2 {
			printlnFn("Could not decrypt the message with that email.")
			return err
		}
		printlnFn("Decryption failed, try again.")
	}

	printlnFn("--- message ---")
	printlnFn(plaintext)
	printlnFn("---------------")
	printlnFn("This message has now self-destructed.")
	return nil
}
