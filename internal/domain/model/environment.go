package model

import "time"

// Environment is a named group of externally managed hosts.
// Environments are addressed by name rather than by numeric id.
type Environment struct {
	Name        string            `json:"name"`
	URL         string            `json:"url"`
	Description string            `json:"description"`
	Activity    Activity          `json:"activity"`
	Health      string            `json:"health"`
	Labels      map[string]string `json:"labels"`
	Created     time.Time         `json:"created"`
}

// ObjectID returns the identifier used in detail URLs.
func (e Environment) ObjectID() string {
	return e.Name
}
