package model

import (
	"strconv"
	"time"
)

// CloudAccount is a provider account hosts are launched into.
type CloudAccount struct {
	ID          int       `json:"id"`
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Provider    string    `json:"provider"`
	Region      string    `json:"region"`
	VPCID       string    `json:"vpc_id"`
	Created     time.Time `json:"created"`
}

// ObjectID returns the identifier used in detail URLs.
func (a CloudAccount) ObjectID() string {
	return strconv.Itoa(a.ID)
}

// SecurityGroup is a provider security group known to a cloud account.
type SecurityGroup struct {
	ID          int    `json:"id"`
	URL         string `json:"url"`
	Name        string `json:"name"`
	Description string `json:"description"`
	GroupID     string `json:"group_id"`
	Account     int    `json:"account"`
	Default     bool   `json:"default"`
	Managed     bool   `json:"managed"`
}

// ObjectID returns the identifier used in detail URLs.
func (g SecurityGroup) ObjectID() string {
	return strconv.Itoa(g.ID)
}
