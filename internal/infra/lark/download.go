package lark

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"

	"hr_evaluation_reminder/internal/domain/employee"
)

const maxAttachmentBytes = 25 << 20

// Download fetches an attachment by file token, falling back to its URL.
// It returns nil data for descriptors that carry neither.
func (c *Client) Download(ctx context.Context, att employee.Attachment) ([]byte, string, error) {
	var reqURL string
	switch {
	case att.FileToken != "":
		reqURL = fmt.Sprintf("%s/open-apis/drive/v1/medias/%s/download", c.cfg.BaseURL, url.PathEscape(att.FileToken))
	case att.URL != "":
		reqURL = att.URL
	default:
		return nil, "", nil
	}

	token, err := c.tenantToken(ctx)
	if err != nil {
		return nil, "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create download request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("download failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, "", fmt.Errorf("%w: download %s (status %d): %s", ErrAPI, att.Name, resp.StatusCode, body)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxAttachmentBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read attachment: %w", err)
	}
	if len(data) > maxAttachmentBytes {
		return nil, "", fmt.Errorf("attachment %s exceeds %d bytes", att.Name, maxAttachmentBytes)
	}

	filename := att.Name
	if filename == "" {
		if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil {
			filename = params["filename"]
		}
	}
	if filename == "" {
		filename = att.FileToken
	}
	return data, filename, nil
}

var _ employee.AttachmentResolver = (*Client)(nil)
