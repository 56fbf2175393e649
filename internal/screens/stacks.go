package screens

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/stackdio/console/internal/domain/model"
	"github.com/stackdio/console/internal/listview"
	"github.com/stackdio/console/internal/util"
)

// StackRow is one stack in the stacks screen.
type StackRow struct {
	model.Stack
	rowBase

	// Status is the activity while the stack is busy and its health otherwise.
	Status string
}

// stackStatus derives the label shown in the status column.
func stackStatus(s model.Stack) string {
	if s.Activity.Transitional() || s.Activity == model.ActivityTerminated || s.Activity == model.ActivityDead {
		return string(s.Activity)
	}
	return string(model.NormalizeHealth(s.Health))
}

// Stacks lists launched stacks. It refreshes while open so activity changes show up.
var Stacks Screen = &definition[StackRow]{
	name:        "stacks",
	aliases:     []string{"stack", "st"},
	title:       "Stacks",
	path:        "/api/stacks/",
	autoRefresh: true,
	columns: []column[StackRow]{
		{"ID", func(r StackRow, _ time.Time) string { return strconv.Itoa(r.ID) }},
		{"TITLE", func(r StackRow, _ time.Time) string { return util.Truncate(r.Title, 40) }},
		{"NAMESPACE", func(r StackRow, _ time.Time) string { return util.OrDash(r.Namespace) }},
		{"HOSTS", func(r StackRow, _ time.Time) string { return strconv.Itoa(r.HostCount) }},
		{"STATUS", func(r StackRow, _ time.Time) string { return r.Status }},
		{"AGE", func(r StackRow, now time.Time) string { return util.FormatAge(r.Created, now) }},
	},
	sortFields: listview.SortFields[StackRow]{
		"title":   listview.ByFold(func(r StackRow) string { return r.Title }),
		"status":  listview.By(func(r StackRow) string { return r.Status }),
		"hosts":   listview.By(func(r StackRow) int { return r.HostCount }),
		"created": listview.By(func(r StackRow) int64 { return r.Created.UnixNano() }),
	},
	decode: func(raw json.RawMessage, list listview.Reloader) (StackRow, error) {
		s, err := decodeJSON[model.Stack](raw)
		if err != nil {
			return StackRow{}, err
		}
		return StackRow{Stack: s, rowBase: rowBase{list: list}}, nil
	},
	process: func(_ context.Context, r StackRow) StackRow {
		r.Status = stackStatus(r.Stack)
		return r
	},
}
