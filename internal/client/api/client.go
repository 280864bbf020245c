// Package api is the HTTP client for the SecretSpace backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/secretspace/secretspace/internal/common"
)

// Client talks to the backend REST API, attaching the session token to every
// request.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

type apiError struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// mapError turns structured API errors back into the sentinel errors the CLI
// reports on.
func mapError(status int, body apiError) error {
	switch body.Code {
	case "wrong_recipient":
		return common.ErrWrongRecipient
	case "not_found_or_expired":
		return common.ErrMessageNotFoundOrExpired
	}
	switch status {
	case http.StatusUnauthorized:
		return common.ErrorUnauthorized
	case http.StatusNotFound:
		return common.ErrorNotFound
	case http.StatusForbidden:
		return common.ErrorNotOwner
	case http.StatusBadRequest:
		return common.ErrorValidation
	}
	return fmt.Errorf("server returned %d: %s", status, body.Error)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body *bytes.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var ae apiError
		_ = json.NewDecoder(resp.Body).Decode(&ae)
		return mapError(resp.StatusCode, ae)
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

type UserResult struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	FullName string `json:"fullName"`
}

func (c *Client) SearchUsers(ctx context.Context, prefix string) ([]UserResult, error) {
	var resp struct {
		Users []UserResult `json:"users"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/users/search?q="+prefix, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Users, nil
}

type CreateMessageRequest struct {
	UUID             string `json:"uuid"`
	EncryptedContent string `json:"encryptedContent"`
	ExpiresAt        int64  `json:"expiresAt"`
	RecipientEmail   string `json:"recipientEmail"`
}

type CreateMessageResponse struct {
	ID        string `json:"id"`
	UUID      string `json:"uuid"`
	ExpiresAt int64  `json:"expiresAt"`
	ShareLink string `json:"shareLink"`
}

func (c *Client) CreateMessage(ctx context.Context, req *CreateMessageRequest) (*CreateMessageResponse, error) {
	var resp CreateMessageResponse
	if err := c.do(ctx, http.MethodPost, "/api/secret-messages", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

type ClaimedMessage struct {
	UUID             string `json:"uuid"`
	EncryptedContent string `json:"encryptedContent"`
	ExpiresAt        int64  `json:"expiresAt"`
}

func (c *Client) ClaimMessage(ctx context.Context, uuid string) (*ClaimedMessage, error) {
	var resp ClaimedMessage
	if err := c.do(ctx, http.MethodPost, "/api/secret-messages/"+uuid+"/claim", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

type InboxItem struct {
	ID        string `json:"id"`
	UUID      string `json:"uuid"`
	ExpiresAt int64  `json:"expiresAt"`
}

func (c *Client) Inbox(ctx context.Context) ([]InboxItem, error) {
	var resp struct {
		Messages []InboxItem `json:"messages"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/secret-messages/inbox", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Messages, nil
}

type SentMessage struct {
	ID             string `json:"id"`
	UUID           string `json:"uuid"`
	ExpiresAt      int64  `json:"expiresAt"`
	RecipientEmail string `json:"recipientEmail"`
}

func (c *Client) Sent(ctx context.Context) ([]SentMessage, error) {
	var resp struct {
		Messages []SentMessage `json:"messages"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/secret-messages/sent", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Messages, nil
}

type UploadTicket struct {
	Key       string `json:"key"`
	UploadURL string `json:"uploadUrl"`
}

func (c *Client) CreateUpload(ctx context.Context) (*UploadTicket, error) {
	var resp UploadTicket
	if err := c.do(ctx, http.MethodPost, "/api/uploads", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

type CreatePostRequest struct {
	ImageURL   string `json:"imageUrl"`
	StorageKey string `json:"storageKey"`
	Text       string `json:"text"`
}

func (c *Client) CreatePost(ctx context.Context, req *CreatePostRequest) error {
	return c.do(ctx, http.MethodPost, "/api/posts", req, nil)
}
