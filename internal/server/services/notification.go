// Package services contains server-side business logic. This file implements
// the notification dispatcher that emails a recipient when a secret message
// is waiting for them.
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/secretspace/secretspace/internal/server/config"
)

// Notification describes one outbound "you have a secret message" email.
// FirstName/LastName/ProfileImage personalize the body and may be empty when
// the recipient has no profile yet.
type Notification struct {
	ToEmail      string
	FirstName    string
	LastName     string
	ProfileImage string
}

// Dispatcher sends notifications. Implementations return the provider's
// message id on success.
type Dispatcher interface {
	Notify(ctx context.Context, n Notification) (string, error)
}

const (
	defaultAvatarURL = "https://secretspace.me/static/default-avatar.png"

	notifyAttempts = 3
)

var notifyBackoffBase = 2 * time.Second

// EmailDispatcher delivers notifications through a Resend-compatible HTTP
// email API. Transient failures (HTTP 429, timeouts, connection errors) are
// retried with exponential backoff; anything else fails immediately.
type EmailDispatcher struct {
	endpoint string
	apiKey   string
	from     string
	client   *http.Client
}

func NewEmailDispatcher(cfg *config.Config) *EmailDispatcher {
	return &EmailDispatcher{
		endpoint: cfg.EmailEndpoint,
		apiKey:   cfg.EmailAPIKey,
		from:     cfg.EmailFrom,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

type emailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

type emailResponse struct {
	ID string `json:"id"`
}

// Notify sends the notification email, retrying transient failures up to
// three attempts with exponential backoff starting at two seconds.
func (d *EmailDispatcher) Notify(ctx context.Context, n Notification) (string, error) {
	var id string

	backoff := retry.WithMaxRetries(notifyAttempts-1, retry.NewExponential(notifyBackoffBase))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		var attemptErr error
		id, attemptErr = d.send(ctx, n)
		if attemptErr == nil {
			return nil
		}
		if isTransient(attemptErr) {
			return retry.RetryableError(attemptErr)
		}
		return attemptErr
	})
	if err != nil {
		return "", fmt.Errorf("error sending notification: %w", err)
	}
	return id, nil
}

func (d *EmailDispatcher) send(ctx context.Context, n Notification) (string, error) {
	payload := emailRequest{
		From:    d.from,
		To:      []string{n.ToEmail},
		Subject: "Someone sent you a secret message",
		HTML:    renderNotificationHTML(n),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+d.apiKey)

	resp, err := d.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", errRateLimited
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("email api returned %s", resp.Status)
	}

	var out emailResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	return out.ID, nil
}

var errRateLimited = errors.New("email api rate limited")

// isTransient reports whether the failure is worth retrying: rate limiting,
// timeouts and connection-level errors. HTTP 4xx/5xx other than 429 are not,
// and neither are transport errors with no network cause. url.Error matches
// net.Error regardless of its cause, so the check is on Timeout(), not on the
// interface alone.
func isTransient(err error) bool {
	if errors.Is(err, errRateLimited) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}

func renderNotificationHTML(n Notification) string {
	greeting := "there"
	if n.FirstName != "" {
		greeting = n.FirstName
		if n.LastName != "" {
			greeting += " " + n.LastName
		}
	}
	avatar := n.ProfileImage
	if avatar == "" {
		avatar = defaultAvatarURL
	}
	return fmt.Sprintf(`<div style="font-family:sans-serif;max-width:480px;margin:0 auto">
<img src="%s" width="48" height="48" style="border-radius:50%%" alt="" />
<h2>Hi %s,</h2>
<p>Someone sent you a secret message on SecretSpace. It can be viewed only once
and it self-destructs when its timer runs out.</p>
<p>Sign in and check your inbox before it is gone.</p>
</div>`, avatar, greeting)
}
