package screens

import (
	"context"
	"encoding/json"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/stackdio/console/internal/domain/model"
	"github.com/stackdio/console/internal/listview"
	"github.com/stackdio/console/internal/util"
)

// EnvironmentRow is one environment in the environments screen.
type EnvironmentRow struct {
	model.Environment
	rowBase
}

// activitySummary counts rows per activity, e.g. "idle=3 launching=1".
func activitySummary(rows []EnvironmentRow) string {
	counts := make(map[string]int)
	for _, r := range rows {
		a := string(r.Activity)
		if a == "" {
			a = "unknown"
		}
		counts[a]++
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+strconv.Itoa(counts[k]))
	}
	return strings.Join(parts, " ")
}

// Environments lists externally managed host groups. Environments are addressed by name.
var Environments Screen = &definition[EnvironmentRow]{
	name:        "environments",
	aliases:     []string{"environment", "env", "envs"},
	title:       "Environments",
	path:        "/api/environments/",
	autoRefresh: true,
	columns: []column[EnvironmentRow]{
		{"NAME", func(r EnvironmentRow, _ time.Time) string { return r.Name }},
		{"ACTIVITY", func(r EnvironmentRow, _ time.Time) string { return util.OrDash(string(r.Activity)) }},
		{"HEALTH", func(r EnvironmentRow, _ time.Time) string { return string(model.NormalizeHealth(r.Health)) }},
		{"DESCRIPTION", func(r EnvironmentRow, _ time.Time) string { return util.Truncate(r.Description, 50) }},
		{"AGE", func(r EnvironmentRow, now time.Time) string { return util.FormatAge(r.Created, now) }},
	},
	sortFields: listview.SortFields[EnvironmentRow]{
		"name":     listview.ByFold(func(r EnvironmentRow) string { return r.Name }),
		"activity": listview.By(func(r EnvironmentRow) string { return string(r.Activity) }),
		"health":   listview.By(func(r EnvironmentRow) string { return string(model.NormalizeHealth(r.Health)) }),
	},
	decode: func(raw json.RawMessage, list listview.Reloader) (EnvironmentRow, error) {
		e, err := decodeJSON[model.Environment](raw)
		if err != nil {
			return EnvironmentRow{}, err
		}
		return EnvironmentRow{Environment: e, rowBase: rowBase{list: list}}, nil
	},
	extra: func(ctx context.Context, logger *slog.Logger, rows []EnvironmentRow) {
		if len(rows) == 0 {
			return
		}
		logger.DebugContext(ctx, "environment activity", "summary", activitySummary(rows))
	},
}
