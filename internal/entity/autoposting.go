package entity

import (
	"cmp"
	"strings"

	"github.com/pthm/hxdash/lib/form"
	"github.com/pthm/hxdash/lib/ui"
)

// Autoposting is a scheduled publishing rule.
type Autoposting struct {
	ID             int64    `json:"id"`
	OrganizationID int64    `json:"organization_id"`
	Name           string   `json:"name"`
	Schedule       string   `json:"schedule"`
	PostsPerDay    int      `json:"posts_per_day"`
	Sources        []string `json:"sources"`
	Active         bool     `json:"active"`
}

func (a Autoposting) GetID() int64 { return a.ID }

// AutopostingCategory links an autoposting rule to a category with a
// relative weight.
type AutopostingCategory struct {
	ID            int64 `json:"id"`
	AutopostingID int64 `json:"autoposting_id"`
	CategoryID    int64 `json:"category_id"`
	Weight        int   `json:"weight"`
}

func (a AutopostingCategory) GetID() int64 { return a.ID }

var Autopostings = Schema[Autoposting]{
	Kind:   "autoposting",
	Title:  "Autoposting",
	Plural: "Autoposting",
	Scoped: true,
	Sections: []ui.Section{
		{
			Title: "Rule",
			Fields: []ui.Field{
				&ui.Input{FieldBase: ui.FieldBase{Name: "name", Label: "Name", Required: true}},
				&ui.Checkbox{FieldBase: ui.FieldBase{Name: "active", Label: "Active"}},
			},
		},
		{
			Title:   "Schedule",
			Grouped: true,
			Fields: []ui.Field{
				&ui.Input{FieldBase: ui.FieldBase{Name: "schedule", Label: "Schedule", Required: true, Placeholder: "0 9 * * *", Help: "Cron expression"}},
				&ui.Input{FieldBase: ui.FieldBase{Name: "posts_per_day", Label: "Posts per day", Required: true}, Type: "number"},
			},
		},
		{
			Title: "Sources",
			Fields: []ui.Field{
				&ui.StringList{FieldBase: ui.FieldBase{Name: "sources", Label: "Source URLs"}},
			},
		},
	},
	Columns: []ui.Column[Autoposting]{
		{Header: "ID", Key: "id"},
		{Header: "Name", Key: "name"},
		{Header: "Schedule", Key: "schedule"},
		{Header: "Posts per day", Key: "posts_per_day"},
		{Header: "Active", Key: "active"},
	},
	Initial: form.Values{
		"name":          "",
		"schedule":      "",
		"posts_per_day": "1",
		"sources":       []string{},
		"active":        false,
	},
	ToForm: func(a Autoposting) form.Values {
		return form.Values{
			"name":          a.Name,
			"schedule":      a.Schedule,
			"posts_per_day": formatInt(a.PostsPerDay),
			"sources":       append([]string{}, a.Sources...),
			"active":        a.Active,
		}
	},
	FromForm: func(v form.Values) Autoposting {
		return Autoposting{
			Name:        trimmed(v, "name"),
			Schedule:    trimmed(v, "schedule"),
			PostsPerDay: int(intValue(v, "posts_per_day")),
			Sources:     stringList(v, "sources"),
			Active:      v.Bool("active"),
		}
	},
	Validate: form.All(
		form.Required("name", "Name"),
		form.Required("schedule", "Schedule"),
		form.Required("posts_per_day", "Posts per day"),
		form.Integer("posts_per_day", "Posts per day"),
	),
	Matches: func(a Autoposting, q string) bool { return contains(q, a.Name, a.Schedule) },
	Compare: func(a, b Autoposting) int {
		return cmp.Or(strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)), cmp.Compare(a.ID, b.ID))
	},
	SetOrganization: func(a Autoposting, id int64) Autoposting { a.OrganizationID = id; return a },
	Name:            func(a Autoposting) string { return a.Name },
}

var AutopostingCategories = Schema[AutopostingCategory]{
	Kind:   "autoposting-category",
	Title:  "Autoposting category",
	Plural: "Autoposting categories",
	Sections: []ui.Section{{
		Title:   "Link",
		Grouped: true,
		Fields: []ui.Field{
			&ui.Input{FieldBase: ui.FieldBase{Name: "autoposting_id", Label: "Autoposting", Required: true}, Type: "number"},
			&ui.Input{FieldBase: ui.FieldBase{Name: "category_id", Label: "Category", Required: true}, Type: "number"},
			&ui.Input{FieldBase: ui.FieldBase{Name: "weight", Label: "Weight"}, Type: "number"},
		},
	}},
	Columns: []ui.Column[AutopostingCategory]{
		{Header: "ID", Key: "id"},
		{Header: "Autoposting", Key: "autoposting_id"},
		{Header: "Category", Key: "category_id"},
		{Header: "Weight", Key: "weight"},
	},
	Initial: form.Values{"autoposting_id": "", "category_id": "", "weight": "1"},
	ToForm: func(a AutopostingCategory) form.Values {
		return form.Values{
			"autoposting_id": formatID(a.AutopostingID),
			"category_id":    formatID(a.CategoryID),
			"weight":         formatInt(a.Weight),
		}
	},
	FromForm: func(v form.Values) AutopostingCategory {
		return AutopostingCategory{
			AutopostingID: intValue(v, "autoposting_id"),
			CategoryID:    intValue(v, "category_id"),
			Weight:        int(intValue(v, "weight")),
		}
	},
	Validate: form.All(
		form.Required("autoposting_id", "Autoposting"),
		form.Integer("autoposting_id", "Autoposting"),
		form.Required("category_id", "Category"),
		form.Integer("category_id", "Category"),
		form.Integer("weight", "Weight"),
	),
	Matches: func(a AutopostingCategory, q string) bool {
		return contains(q, formatID(a.AutopostingID), formatID(a.CategoryID))
	},
	Compare: func(a, b AutopostingCategory) int {
		return cmp.Or(cmp.Compare(a.AutopostingID, b.AutopostingID), cmp.Compare(a.CategoryID, b.CategoryID))
	},
	Name: func(a AutopostingCategory) string {
		return "link " + formatID(a.AutopostingID) + "/" + formatID(a.CategoryID)
	},
}
