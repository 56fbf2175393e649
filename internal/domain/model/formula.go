package model

import (
	"strconv"
	"time"
)

// FormulaStatus is the import state of a formula repository.
type FormulaStatus string

const (
	FormulaStatusImporting FormulaStatus = "importing"
	FormulaStatusComplete  FormulaStatus = "complete"
	FormulaStatusError     FormulaStatus = "error"
)

// Formula is a salt formula repository imported into the orchestrator.
type Formula struct {
	ID             int           `json:"id"`
	URL            string        `json:"url"`
	Title          string        `json:"title"`
	Description    string        `json:"description"`
	URI            string        `json:"uri"`
	RootPath       string        `json:"root_path"`
	Status         FormulaStatus `json:"status"`
	StatusDetail   string        `json:"status_detail"`
	PrivateGitRepo bool          `json:"private_git_repo"`
	Created        time.Time     `json:"created"`
}

// ObjectID returns the identifier used in detail URLs.
func (f Formula) ObjectID() string {
	return strconv.Itoa(f.ID)
}

// Importing reports whether the formula is still being imported.
func (f Formula) Importing() bool {
	return f.Status == FormulaStatusImporting
}
