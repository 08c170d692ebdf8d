// -----------------------------------------------------------------------
// Last Modified: Monday, 1st September 2025
// -----------------------------------------------------------------------

// Package notion publishes stored reports as child pages of a
// configured Notion parent page.
package notion

import (
	"context"
	"errors"
	"fmt"

	"github.com/jomei/notionapi"
	"github.com/ternarybob/arbor"

	"github.com/twokomi/oneclick-reports-backend/internal/common"
	"github.com/twokomi/oneclick-reports-backend/internal/models"
)

// ErrNotConfigured is returned when the Notion token or parent page is
// missing from configuration.
var ErrNotConfigured = errors.New("notion publishing is not configured")

// pageAPI is the slice of the Notion client the publisher uses.
type pageAPI interface {
	Create(ctx context.Context, request *notionapi.PageCreateRequest) (*notionapi.Page, error)
}

// Publisher creates one Notion page per published report.
type Publisher struct {
	pages  pageAPI
	pageID string
	logger arbor.ILogger
}

// NewPublisher creates a publisher from configuration. A publisher is
// always returned; Publish reports ErrNotConfigured when credentials
// are missing.
func NewPublisher(config *common.NotionConfig, logger arbor.ILogger) *Publisher {
	p := &Publisher{pageID: config.PageID, logger: logger}
	if config.Token != "" {
		client := notionapi.NewClient(notionapi.Token(config.Token))
		p.pages = client.Page
	}
	return p
}

// Publish creates a child page titled after the report, with the report
// markdown converted to Notion blocks.
func (p *Publisher) Publish(ctx context.Context, report *models.Report) error {
	if p.pages == nil || p.pageID == "" {
		return ErrNotConfigured
	}

	blocks := BlocksFromMarkdown(report.Markdown)

	page, err := p.pages.Create(ctx, &notionapi.PageCreateRequest{
		Parent: notionapi.Parent{
			Type:   notionapi.ParentTypePageID,
			PageID: notionapi.PageID(p.pageID),
		},
		Properties: notionapi.Properties{
			"title": notionapi.TitleProperty{
				Title: richText(report.Title),
			},
		},
		Children: blocks,
	})
	if err != nil {
		return fmt.Errorf("failed to create notion page: %w", err)
	}

	p.logger.Info().
		Int64("report_id", report.ID).
		Str("page_id", string(page.ID)).
		Msg("Report published to Notion")
	return nil
}
