package site

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/colonyops/aula/internal/core/toast"
)

// Page is a fetched HTML page.
type Page struct {
	// Path is the path of the final URL after redirects.
	Path string
	URL  string
	Body []byte
}

// Toasts scans the page for server-rendered notifications. A page without
// a toast container yields a nil container.
func (p Page) Toasts() (*toast.Container, error) {
	return toast.ScanMarkup(bytes.NewReader(p.Body))
}

// FetchPage gets the page at path, following redirects.
func (c *Client) FetchPage(ctx context.Context, path string) (Page, error) {
	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return Page{}, err
	}
	return readPage(resp)
}

// Delete submits the delete confirmation form to target. The site answers
// with a redirect to the page that lists what remains, which carries the
// outcome as a flash notification; that page is returned.
func (c *Client) Delete(ctx context.Context, target string) (Page, error) {
	resp, err := c.do(ctx, http.MethodPost, target, url.Values{})
	if err != nil {
		return Page{}, err
	}
	return readPage(resp)
}

func readPage(resp *http.Response) (Page, error) {
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Page{}, statusError(resp)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Page{}, fmt.Errorf("read page: %w", err)
	}

	return Page{
		Path: resp.Request.URL.Path,
		URL:  resp.Request.URL.String(),
		Body: body,
	}, nil
}
