package model

import (
	"strconv"
	"time"
)

// Blueprint is a reusable template of host definitions a stack is launched from.
type Blueprint struct {
	ID                  int       `json:"id"`
	URL                 string    `json:"url"`
	Title               string    `json:"title"`
	Description         string    `json:"description"`
	HostDefinitionCount int       `json:"host_definition_count"`
	StackCount          int       `json:"stack_count"`
	Created             time.Time `json:"created"`
}

// ObjectID returns the identifier used in detail URLs.
func (b Blueprint) ObjectID() string {
	return strconv.Itoa(b.ID)
}
