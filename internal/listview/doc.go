// Package listview implements the paginated list controller behind every console list screen.
//
// A Controller keeps a consistent view of one page of a remote paginated collection:
// it follows the next/previous links returned by the API, learns the page size from
// the first non-terminal page, sorts the loaded page on the client, rewrites the list
// URL for searches and, when asked to, reloads the page on a fixed interval.
//
// Concrete screens plug in through ListDataSource. Renderers observe the controller
// through Subscribe and receive a Snapshot after every committed change.
//
// Failures while reloading never reach the caller. A 403 asks the Navigator to reload
// the whole session; anything else resets the list to a clean first page.
package listview
