package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
)

// UploadKind tells the server which bucket folder a picture belongs to.
type UploadKind string

const (
	UploadProfile UploadKind = "profile"
	UploadClub    UploadKind = "club"
	UploadPost    UploadKind = "post"
	UploadEvent   UploadKind = "event"
)

// Upload sends a picture and returns its public URL. The body is buffered so
// the request can be replayed after a token refresh.
func (c *Client) Upload(ctx context.Context, kind UploadKind, filename string, r io.Reader) (string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.WriteField("kind", string(kind)); err != nil {
		return "", fmt.Errorf("write kind: %w", err)
	}
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return "", fmt.Errorf("copy file: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("close multipart: %w", err)
	}

	var out struct {
		URL string `json:"url"`
	}
	req := request{
		method:      http.MethodPost,
		path:        "/uploads",
		body:        buf.Bytes(),
		contentType: w.FormDataContentType(),
	}
	if err := c.do(ctx, req, &out); err != nil {
		return "", err
	}
	return out.URL, nil
}
