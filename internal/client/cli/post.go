package cli

import (
	"context"
	"os"

	"github.com/secretspace/secretspace/internal/client/api"
	"github.com/secretspace/secretspace/internal/netx"
)

// uploadFile is a test seam for the presigned-URL upload.
var uploadFile = netx.UploadToS3PresignedURL

// Post publishes a confession: an optional image uploaded straight to object
// storage via a presigned URL, plus optional text.
func (a *App) Post(ctx context.Context) error {

	text, err := GetMultiline(a.reader, "Confession text (optional if you attach an image)", os.Stdout)
	if err != nil {
		return err
	}

	imagePath, err := GetSimpleText(a.reader, "Image file path (optional)", os.Stdout)
	if err != nil {
		return err
	}

	req := &api.CreatePostRequest{Text: text}

	if imagePath != "" {
		data, err := os.ReadFile(imagePath)
		if err != nil {
			printlnFn("Cannot read image:", err.Error())
			return err
		}

		ticket, err := a.client.CreateUpload(ctx)
		if err != nil {
			printlnFn("Upload failed:", err.Error())
			return err
		}
		if err := uploadFile(ticket.UploadURL, data); err != nil {
			printlnFn("Upload failed:", err.Error())
			return err
		}
		req.StorageKey = ticket.Key
	}

	if req.Text == "" && req.StorageKey == "" {
		printlnFn("Nothing to post")
		return nil
	}

	if err := a.client.CreatePost(ctx, req); err != nil {
		printlnFn("Post failed:", err.Error())
		return err
	}
	printlnFn("Posted.")
	return nil
}
