package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

type importResult struct {
	Imported int `json:"imported"`
}

// Export streams the full catalog archive into w.
func (c *Client) Export(ctx context.Context, w io.Writer) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/assets/export/", nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return classify(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return fmt.Errorf("writing archive: %w", err)
	}
	c.log.Debugw("archive exported", "bytes", n)
	return nil
}

// ImportArchive uploads a catalog archive and returns how many assets the
// backend restored from it.
func (c *Client) ImportArchive(ctx context.Context, path string) (int, error) {
	var result importResult
	if err := c.multipartFile(ctx, "/api/assets/import/", path, nil, &result); err != nil {
		return 0, err
	}
	return result.Imported, nil
}
