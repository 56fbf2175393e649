package core

import (
	"context"

	"github.com/stackdio/console/internal/domain/model"
)

// This file contains the port definitions shared by the list engine and its adapters.
// The list controller depends on these interfaces, never on the concrete HTTP client.

// PageFetcher retrieves one page object from a list endpoint.
// The url is either a path relative to the API root or an absolute
// next/previous link returned by an earlier page.
type PageFetcher interface {
	FetchPage(ctx context.Context, url string) (model.Page, error)
}

// Navigator performs the side effects a list screen asks of its host.
type Navigator interface {
	// Navigate opens the page at url (a detail page of a list object).
	Navigate(ctx context.Context, url string) error
	// Reload reloads the whole session, used when the API reports the session as expired.
	Reload(ctx context.Context) error
}
