package screens

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"time"

	"github.com/stackdio/console/internal/domain/model"
	"github.com/stackdio/console/internal/listview"
	"github.com/stackdio/console/internal/util"
)

// FormulaRow is one formula in the formulas screen.
type FormulaRow struct {
	model.Formula
	rowBase
}

// Formulas lists imported formula repositories. It refreshes while imports are running.
var Formulas Screen = &definition[FormulaRow]{
	name:        "formulas",
	aliases:     []string{"formula", "fm"},
	title:       "Formulas",
	path:        "/api/formulas/",
	autoRefresh: true,
	columns: []column[FormulaRow]{
		{"ID", func(r FormulaRow, _ time.Time) string { return strconv.Itoa(r.ID) }},
		{"TITLE", func(r FormulaRow, _ time.Time) string { return util.Truncate(r.Title, 40) }},
		{"STATUS", func(r FormulaRow, _ time.Time) string { return string(r.Status) }},
		{"PRIVATE", func(r FormulaRow, _ time.Time) string { return util.FormatBool(r.PrivateGitRepo) }},
		{"URI", func(r FormulaRow, _ time.Time) string { return util.Truncate(r.URI, 60) }},
	},
	sortFields: listview.SortFields[FormulaRow]{
		"title":  listview.ByFold(func(r FormulaRow) string { return r.Title }),
		"status": listview.By(func(r FormulaRow) string { return string(r.Status) }),
	},
	decode: func(raw json.RawMessage, list listview.Reloader) (FormulaRow, error) {
		f, err := decodeJSON[model.Formula](raw)
		if err != nil {
			return FormulaRow{}, err
		}
		return FormulaRow{Formula: f, rowBase: rowBase{list: list}}, nil
	},
	extra: func(ctx context.Context, logger *slog.Logger, rows []FormulaRow) {
		importing := 0
		for _, r := range rows {
			if r.Importing() {
				importing++
			}
		}
		if importing > 0 {
			logger.DebugContext(ctx, "formula imports running", "count", importing)
		}
	},
}
