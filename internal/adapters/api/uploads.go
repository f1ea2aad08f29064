package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
)

type uploadResponse struct {
	Path string `json:"path"`
}

// UploadFile streams a local file to the backend's media storage and returns
// the stored backend-relative path.
func (c *Client) UploadFile(ctx context.Context, path, assetType string) (string, error) {
	var resp uploadResponse
	fields := map[string]string{"type": assetType}
	if err := c.multipartFile(ctx, "/api/upload-image", path, fields, &resp); err != nil {
		return "", err
	}
	return resp.Path, nil
}

// UploadURL makes the backend fetch a remote URL into media storage.
func (c *Client) UploadURL(ctx context.Context, url, assetType string) (string, error) {
	body := map[string]string{"url": url, "type": assetType}
	var resp uploadResponse
	if err := c.do(ctx, http.MethodPost, "/api/upload-url", body, &resp, nil); err != nil {
		return "", err
	}
	return resp.Path, nil
}

// multipartFile posts one local file plus form fields and decodes the JSON
// response into out.
func (c *Client) multipartFile(ctx context.Context, urlPath, filePath string, fields map[string]string, out any) error {
	f, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("opening %s: %w", filePath, err)
	}
	defer f.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filepath.Base(filePath))
	if err != nil {
		return fmt.Errorf("building upload: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return fmt.Errorf("reading %s: %w", filePath, err)
	}
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return fmt.Errorf("building upload: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("building upload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+urlPath, &buf)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return classify(err)
	}
	defer resp.Body.Close()
	c.log.Debugw("upload", "path", urlPath, "file", filepath.Base(filePath), "status", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
