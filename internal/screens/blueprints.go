package screens

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/stackdio/console/internal/domain/model"
	"github.com/stackdio/console/internal/listview"
	"github.com/stackdio/console/internal/util"
)

// BlueprintRow is one blueprint in the blueprints screen.
type BlueprintRow struct {
	model.Blueprint
	rowBase
}

// Blueprints lists the templates stacks are launched from.
var Blueprints Screen = &definition[BlueprintRow]{
	name:    "blueprints",
	aliases: []string{"blueprint", "bp"},
	title:   "Blueprints",
	path:    "/api/blueprints/",
	columns: []column[BlueprintRow]{
		{"ID", func(r BlueprintRow, _ time.Time) string { return strconv.Itoa(r.ID) }},
		{"TITLE", func(r BlueprintRow, _ time.Time) string { return util.Truncate(r.Title, 40) }},
		{"HOSTS", func(r BlueprintRow, _ time.Time) string { return strconv.Itoa(r.HostDefinitionCount) }},
		{"STACKS", func(r BlueprintRow, _ time.Time) string { return strconv.Itoa(r.StackCount) }},
		{"AGE", func(r BlueprintRow, now time.Time) string { return util.FormatAge(r.Created, now) }},
	},
	sortFields: listview.SortFields[BlueprintRow]{
		"title":   listview.ByFold(func(r BlueprintRow) string { return r.Title }),
		"hosts":   listview.By(func(r BlueprintRow) int { return r.HostDefinitionCount }),
		"created": listview.By(func(r BlueprintRow) int64 { return r.Created.UnixNano() }),
	},
	decode: func(raw json.RawMessage, list listview.Reloader) (BlueprintRow, error) {
		b, err := decodeJSON[model.Blueprint](raw)
		if err != nil {
			return BlueprintRow{}, err
		}
		return BlueprintRow{Blueprint: b, rowBase: rowBase{list: list}}, nil
	},
}
