//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import "encoding/json"

// Page is the page object returned by every list endpoint of the API.
// Next and Previous are absolute URLs to follow verbatim, or nil at either end.
type Page struct {
	Count    int               `json:"count"`
	Next     *string           `json:"next"`
	Previous *string           `json:"previous"`
	Results  []json.RawMessage `json:"results"`
}

// HasNext reports whether the API advertised a following page.
func (p Page) HasNext() bool {
	return p.Next != nil && *p.Next != ""
}

// HasPrevious reports whether the API advertised a preceding page.
func (p Page) HasPrevious() bool {
	return p.Previous != nil && *p.Previous != ""
}
