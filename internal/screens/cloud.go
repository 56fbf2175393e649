package screens

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/stackdio/console/internal/domain/model"
	"github.com/stackdio/console/internal/listview"
	"github.com/stackdio/console/internal/util"
)

// AccountRow is one cloud account in the accounts screen.
type AccountRow struct {
	model.CloudAccount
	rowBase
}

// Accounts lists the cloud provider accounts.
var Accounts Screen = &definition[AccountRow]{
	name:    "accounts",
	aliases: []string{"account", "cloud-accounts"},
	title:   "Cloud Accounts",
	path:    "/api/cloud/accounts/",
	columns: []column[AccountRow]{
		{"ID", func(r AccountRow, _ time.Time) string { return strconv.Itoa(r.ID) }},
		{"TITLE", func(r AccountRow, _ time.Time) string { return util.Truncate(r.Title, 40) }},
		{"PROVIDER", func(r AccountRow, _ time.Time) string { return r.Provider }},
		{"REGION", func(r AccountRow, _ time.Time) string { return util.OrDash(r.Region) }},
		{"VPC", func(r AccountRow, _ time.Time) string { return util.OrDash(r.VPCID) }},
	},
	sortFields: listview.SortFields[AccountRow]{
		"title":    listview.ByFold(func(r AccountRow) string { return r.Title }),
		"provider": listview.By(func(r AccountRow) string { return r.Provider }),
		"region":   listview.By(func(r AccountRow) string { return r.Region }),
	},
	decode: func(raw json.RawMessage, list listview.Reloader) (AccountRow, error) {
		a, err := decodeJSON[model.CloudAccount](raw)
		if err != nil {
			return AccountRow{}, err
		}
		return AccountRow{CloudAccount: a, rowBase: rowBase{list: list}}, nil
	},
}

// SecurityGroupRow is one security group in the security groups screen.
type SecurityGroupRow struct {
	model.SecurityGroup
	rowBase
}

// SecurityGroups lists provider security groups. Default groups are hidden and
// detail pages need the advanced view.
var SecurityGroups Screen = &definition[SecurityGroupRow]{
	name:         "security-groups",
	aliases:      []string{"security_groups", "securitygroups", "sg"},
	title:        "Security Groups",
	path:         "/api/cloud/security_groups/",
	advancedOnly: true,
	columns: []column[SecurityGroupRow]{
		{"ID", func(r SecurityGroupRow, _ time.Time) string { return strconv.Itoa(r.ID) }},
		{"NAME", func(r SecurityGroupRow, _ time.Time) string { return util.Truncate(r.Name, 40) }},
		{"GROUP ID", func(r SecurityGroupRow, _ time.Time) string { return r.GroupID }},
		{"ACCOUNT", func(r SecurityGroupRow, _ time.Time) string { return strconv.Itoa(r.Account) }},
		{"MANAGED", func(r SecurityGroupRow, _ time.Time) string { return util.FormatBool(r.Managed) }},
	},
	sortFields: listview.SortFields[SecurityGroupRow]{
		"name":     listview.ByFold(func(r SecurityGroupRow) string { return r.Name }),
		"group_id": listview.By(func(r SecurityGroupRow) string { return r.GroupID }),
		"account":  listview.By(func(r SecurityGroupRow) int { return r.Account }),
	},
	decode: func(raw json.RawMessage, list listview.Reloader) (SecurityGroupRow, error) {
		g, err := decodeJSON[model.SecurityGroup](raw)
		if err != nil {
			return SecurityGroupRow{}, err
		}
		return SecurityGroupRow{SecurityGroup: g, rowBase: rowBase{list: list}}, nil
	},
	keep: func(r SecurityGroupRow) bool { return !r.Default },
}
