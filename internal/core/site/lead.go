package site

import (
	"context"
	"net/http"
	"net/url"
)

// LeadRequest is the book-download form.
type LeadRequest struct {
	Email string
}

// LeadResult is the site's answer to a lead submission. Exactly one of
// DownloadURL (success), Errors (validation) or Error (other failure) is
// normally set.
type LeadResult struct {
	Success     bool        `json:"success"`
	DownloadURL string      `json:"download_url"`
	Message     string      `json:"message"`
	Error       string      `json:"error"`
	Errors      FieldErrors `json:"errors"`
	StatusCode  int         `json:"-"`
}

// SubmitLead posts the email to the landing page. Validation failures come
// back as a result with Success false and a nil error; an error means the
// request failed or the answer was not JSON.
func (c *Client) SubmitLead(ctx context.Context, req LeadRequest) (LeadResult, error) {
	resp, err := c.do(ctx, http.MethodPost, c.cfg.LeadPath, url.Values{"email": {req.Email}})
	if err != nil {
		return LeadResult{}, err
	}

	status := resp.StatusCode
	var result LeadResult
	if err := decodeJSON(resp, &result); err != nil {
		return LeadResult{}, err
	}
	result.StatusCode = status

	if result.Success && result.DownloadURL == "" {
		result.DownloadURL = c.cfg.DownloadPath
	}
	return result, nil
}
