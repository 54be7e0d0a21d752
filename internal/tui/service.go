package tui

import (
	"context"

	"github.com/colonyops/aula/internal/core/site"
)

// SiteClient is the part of the site client the TUI Model talks to.
type SiteClient interface {
	FetchPage(ctx context.Context, path string) (site.Page, error)
	SubmitLead(ctx context.Context, req site.LeadRequest) (site.LeadResult, error)
	Download(ctx context.Context, ref, dir string) (string, error)
	PostComment(ctx context.Context, path string, req site.CommentRequest) (site.CommentResult, error)
	Delete(ctx context.Context, target string) (site.Page, error)
	BaseURL() string
}

// Compile-time check that *site.Client satisfies SiteClient.
var _ SiteClient = (*site.Client)(nil)
