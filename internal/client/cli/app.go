// Package cli implements the interactive SecretSpace command-line client.
// Messages are encrypted and decrypted locally; the server only ever sees
// ciphertext.
package cli

import (
	"bufio"
	"context"
	"os"

	"github.com/secretspace/secretspace/internal/client/api"
	"github.com/secretspace/secretspace/internal/client/config"
)

// backend is the API surface the CLI needs; api.Client satisfies it.
type backend interface {
	SearchUsers(ctx context.Context, prefix string) ([]api.UserResult, error)
	CreateMessage(ctx context.Context, req *api.CreateMessageRequest) (*api.CreateMessageResponse, error)
	ClaimMessage(ctx context.Context, uuid string) (*api.ClaimedMessage, error)
	Inbox(ctx context.Context) ([]api.InboxItem, error)
	Sent(ctx context.Context) ([]api.SentMessage, error)
	CreateUpload(ctx context.Context) (*api.UploadTicket, error)
	CreatePost(ctx context.Context, req *api.CreatePostRequest) error
}

type App struct {
	config *config.Config
	client backend
	reader *bufio.Reader
}

func NewApp(c *config.Config) (*App, error) {
	return &App{
		config: c,
		client: api.NewClient(c.ServerEndpointAddr, c.Token),
		reader: bufio.NewReader(os.Stdin),
	}, nil
}

func (a *App) Run(ctx context.Context) {
	a.Root(ctx)
}
