package model

import (
	"strconv"
	"time"
)

// Stack is a launched set of hosts built from a blueprint.
type Stack struct {
	ID          int       `json:"id"`
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Namespace   string    `json:"namespace"`
	Blueprint   int       `json:"blueprint"`
	HostCount   int       `json:"host_count"`
	Activity    Activity  `json:"activity"`
	Health      string    `json:"health"`
	Created     time.Time `json:"created"`
}

// ObjectID returns the identifier used in detail URLs.
func (s Stack) ObjectID() string {
	return strconv.Itoa(s.ID)
}
