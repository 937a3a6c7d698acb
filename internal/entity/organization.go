package entity

import (
	"cmp"
	"strings"

	"github.com/a-h/templ"
	"github.com/pthm/hxdash/lib/form"
	"github.com/pthm/hxdash/lib/ui"
)

// Organization is a tenant of the publishing platform.
type Organization struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Website     string    `json:"website"`
	Language    string    `json:"language"`
	ToneOfVoice string    `json:"tone_of_voice"`
	Keywords    []string  `json:"keywords"`
	Contacts    []Contact `json:"contacts"`
	Active      bool      `json:"active"`
}

// Contact is a person to reach at an organization.
type Contact struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (o Organization) GetID() int64 { return o.ID }

// CostMultiplier scales what an organization is billed.
type CostMultiplier struct {
	ID             int64   `json:"id"`
	OrganizationID int64   `json:"organization_id"`
	Multiplier     float64 `json:"multiplier"`
}

func (c CostMultiplier) GetID() int64 { return c.ID }

// OrganizationWithCost joins an organization with its cost multiplier.
type OrganizationWithCost struct {
	Organization
	Cost CostMultiplier `json:"cost"`
}

// Organizations is the organization schema.
var Organizations = Schema[Organization]{
	Kind:   "organization",
	Title:  "Organization",
	Plural: "Organizations",
	Sections: []ui.Section{
		{
			Title: "General",
			Fields: []ui.Field{
				&ui.Input{FieldBase: ui.FieldBase{Name: "name", Label: "Name", Required: true}},
				&ui.Textarea{FieldBase: ui.FieldBase{Name: "description", Label: "Description"}, Rows: 3},
				&ui.Input{FieldBase: ui.FieldBase{Name: "website", Label: "Website", Placeholder: "https://"}, Type: "url"},
				&ui.Checkbox{FieldBase: ui.FieldBase{Name: "active", Label: "Active"}},
			},
		},
		{
			Title:   "Content",
			Grouped: true,
			Fields: []ui.Field{
				&ui.Input{FieldBase: ui.FieldBase{Name: "language", Label: "Language", Placeholder: "en"}},
				&ui.Textarea{FieldBase: ui.FieldBase{Name: "tone_of_voice", Label: "Tone of voice"}, Rows: 4},
				&ui.StringList{FieldBase: ui.FieldBase{Name: "keywords", Label: "Keywords"}},
			},
		},
		{
			Title: "Contacts",
			Fields: []ui.Field{
				&ui.ObjectList{
					FieldBase: ui.FieldBase{Name: "contacts", Label: "Contacts"},
					Keys:      []ui.ObjectKey{{Key: "name", Label: "Name"}, {Key: "email", Label: "Email"}},
				},
			},
		},
	},
	Columns: []ui.Column[Organization]{
		{Header: "ID", Key: "id"},
		{Header: "Name", Key: "name"},
		{Header: "Language", Key: "language"},
		{Header: "Keywords", Render: func(o Organization) templ.Component {
			return ui.Text(strings.Join(o.Keywords, ", "))
		}},
		{Header: "Active", Key: "active"},
	},
	Initial: form.Values{
		"name":          "",
		"description":   "",
		"website":       "",
		"language":      "en",
		"tone_of_voice": "",
		"keywords":      []string{},
		"contacts":      []map[string]any{},
		"active":        true,
	},
	ToForm:   OrganizationToForm,
	FromForm: OrganizationFromForm,
	Validate: form.All(
		form.Required("name", "Name"),
		form.Required("language", "Language"),
	),
	Matches: func(o Organization, q string) bool {
		return contains(q, o.Name, o.Description, o.Website)
	},
	Compare: func(a, b Organization) int {
		return cmp.Or(strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)), cmp.Compare(a.ID, b.ID))
	},
	Name: func(o Organization) string { return o.Name },
}

// OrganizationToForm fills every form field, defaulting missing ones.
func OrganizationToForm(o Organization) form.Values {
	contacts := make([]map[string]any, 0, len(o.Contacts))
	for _, c := range o.Contacts {
		contacts = append(contacts, map[string]any{"name": c.Name, "email": c.Email})
	}
	keywords := append([]string{}, o.Keywords...)
	return form.Values{
		"name":          o.Name,
		"description":   o.Description,
		"website":       o.Website,
		"language":      o.Language,
		"tone_of_voice": o.ToneOfVoice,
		"keywords":      keywords,
		"contacts":      contacts,
		"active":        o.Active,
	}
}

// OrganizationFromForm builds the request body. The id is not a form
// field.
func OrganizationFromForm(v form.Values) Organization {
	o := Organization{
		Name:        trimmed(v, "name"),
		Description: trimmed(v, "description"),
		Website:     trimmed(v, "website"),
		Language:    trimmed(v, "language"),
		ToneOfVoice: trimmed(v, "tone_of_voice"),
		Keywords:    stringList(v, "keywords"),
		Contacts:    []Contact{},
		Active:      v.Bool("active"),
	}
	for _, m := range v.ObjectList("contacts") {
		c := Contact{Name: objectString(m, "name"), Email: objectString(m, "email")}
		if c != (Contact{}) {
			o.Contacts = append(o.Contacts, c)
		}
	}
	return o
}

// CostMultipliers is the schema of the cost editor on the organization
// page.
var CostMultipliers = Schema[CostMultiplier]{
	Kind:   "cost-multiplier",
	Title:  "Cost multiplier",
	Plural: "Cost multipliers",
	Scoped: true,
	Sections: []ui.Section{{
		Title: "Billing",
		Fields: []ui.Field{
			&ui.Input{
				FieldBase: ui.FieldBase{Name: "multiplier", Label: "Multiplier", Required: true, Help: "1 bills the list price"},
				Type:      "number",
			},
		},
	}},
	Columns: []ui.Column[CostMultiplier]{
		{Header: "Organization", Key: "organization_id"},
		{Header: "Multiplier", Key: "multiplier"},
	},
	Initial: form.Values{"multiplier": "1"},
	ToForm: func(c CostMultiplier) form.Values {
		return form.Values{"multiplier": formatFloat(c.Multiplier)}
	},
	FromForm: func(v form.Values) CostMultiplier {
		return CostMultiplier{Multiplier: floatValue(v, "multiplier")}
	},
	Validate: form.All(
		form.Required("multiplier", "Multiplier"),
		form.Number("multiplier", "Multiplier"),
	),
	Matches:         func(c CostMultiplier, q string) bool { return contains(q, formatFloat(c.Multiplier)) },
	Compare:         func(a, b CostMultiplier) int { return cmp.Compare(a.OrganizationID, b.OrganizationID) },
	SetOrganization: func(c CostMultiplier, id int64) CostMultiplier { c.OrganizationID = id; return c },
	Name:            func(c CostMultiplier) string { return "cost multiplier " + formatID(c.ID) },
}
