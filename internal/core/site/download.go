package site

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path"
	"path/filepath"
)

// DefaultFileName is used when the response names no file.
const DefaultFileName = "download.pdf"

// Download fetches ref into dir and returns the written file's path. The
// file name comes from Content-Disposition, falling back to the URL's last
// segment. A failed response leaves nothing behind in dir.
func (c *Client) Download(ctx context.Context, ref, dir string) (string, error) {
	if ref == "" {
		ref = c.cfg.DownloadPath
	}

	resp, err := c.do(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", statusError(resp)
	}
	defer func() { _ = resp.Body.Close() }()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create download dir: %w", err)
	}

	name := fileName(resp)
	tmp, err := os.CreateTemp(dir, "."+name+".*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", name, err)
	}

	dest := filepath.Join(dir, name)
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return "", fmt.Errorf("move %s into place: %w", name, err)
	}

	return dest, nil
}

func fileName(resp *http.Response) string {
	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil {
		if name := filepath.Base(params["filename"]); name != "." && name != ".." && name != "/" && name != "" {
			return name
		}
	}

	base := path.Base(resp.Request.URL.Path)
	if base == "/" || base == "." || path.Ext(base) == "" {
		return DefaultFileName
	}
	return base
}
