package site

import (
	"context"
	"net/http"
	"net/url"
)

// CommentRequest is the comment form. ParentID is empty for a root comment.
type CommentRequest struct {
	Content  string
	ParentID string
}

// CommentResult is the site's answer to a comment post. On success HTML
// holds the rendered comment fragment.
type CommentResult struct {
	Success    bool        `json:"success"`
	HTML       string      `json:"html"`
	Error      string      `json:"error"`
	Errors     FieldErrors `json:"errors"`
	StatusCode int         `json:"-"`
}

// PostComment posts a comment or reply to the form action at path.
func (c *Client) PostComment(ctx context.Context, path string, req CommentRequest) (CommentResult, error) {
	form := url.Values{
		"content": {req.Content},
		"parent":  {req.ParentID},
	}

	resp, err := c.do(ctx, http.MethodPost, path, form)
	if err != nil {
		return CommentResult{}, err
	}

	status := resp.StatusCode
	var result CommentResult
	if err := decodeJSON(resp, &result); err != nil {
		return CommentResult{}, err
	}
	result.StatusCode = status
	return result, nil
}
