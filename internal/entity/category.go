package entity

import (
	"cmp"
	"strings"

	"github.com/pthm/hxdash/lib/form"
	"github.com/pthm/hxdash/lib/ui"
)

// Category is a content category of an organization.
type Category struct {
	ID             int64    `json:"id"`
	OrganizationID int64    `json:"organization_id"`
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	Prompt         string   `json:"prompt"`
	Keywords       []string `json:"keywords"`
	Active         bool     `json:"active"`
}

func (c Category) GetID() int64 { return c.ID }

var Categories = Schema[Category]{
	Kind:   "category",
	Title:  "Category",
	Plural: "Categories",
	Scoped: true,
	Sections: []ui.Section{
		{
			Title: "General",
			Fields: []ui.Field{
				&ui.Input{FieldBase: ui.FieldBase{Name: "name", Label: "Name", Required: true}},
				&ui.Textarea{FieldBase: ui.FieldBase{Name: "description", Label: "Description"}, Rows: 3},
				&ui.Checkbox{FieldBase: ui.FieldBase{Name: "active", Label: "Active"}},
			},
		},
		{
			Title: "Generation",
			Fields: []ui.Field{
				&ui.Textarea{FieldBase: ui.FieldBase{Name: "prompt", Label: "Prompt", Help: "Instructions used when writing posts for this category"}, Rows: 6},
				&ui.StringList{FieldBase: ui.FieldBase{Name: "keywords", Label: "Keywords"}},
			},
		},
	},
	Columns: []ui.Column[Category]{
		{Header: "ID", Key: "id"},
		{Header: "Name", Key: "name"},
		{Header: "Description", Key: "description"},
		{Header: "Active", Key: "active"},
	},
	Initial: form.Values{
		"name":        "",
		"description": "",
		"prompt":      "",
		"keywords":    []string{},
		"active":      true,
	},
	ToForm: func(c Category) form.Values {
		return form.Values{
			"name":        c.Name,
			"description": c.Description,
			"prompt":      c.Prompt,
			"keywords":    append([]string{}, c.Keywords...),
			"active":      c.Active,
		}
	},
	FromForm: func(v form.Values) Category {
		return Category{
			Name:        trimmed(v, "name"),
			Description: trimmed(v, "description"),
			Prompt:      strings.TrimSpace(v.String("prompt")),
			Keywords:    stringList(v, "keywords"),
			Active:      v.Bool("active"),
		}
	},
	Validate: form.Required("name", "Name"),
	Matches: func(c Category, q string) bool {
		return contains(q, c.Name, c.Description, strings.Join(c.Keywords, " "))
	},
	Compare: func(a, b Category) int {
		return cmp.Or(strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)), cmp.Compare(a.ID, b.ID))
	},
	SetOrganization: func(c Category, id int64) Category { c.OrganizationID = id; return c },
	Name:            func(c Category) string { return c.Name },
}
