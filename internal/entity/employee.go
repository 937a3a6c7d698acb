package entity

import (
	"cmp"
	"strings"

	"github.com/pthm/hxdash/lib/form"
	"github.com/pthm/hxdash/lib/ui"
)

// Employee is a staff member of an organization.
type Employee struct {
	ID             int64  `json:"id"`
	OrganizationID int64  `json:"organization_id"`
	FullName       string `json:"full_name"`
	Email          string `json:"email"`
	Role           string `json:"role"`
	Active         bool   `json:"active"`
}

func (e Employee) GetID() int64 { return e.ID }

var Employees = Schema[Employee]{
	Kind:   "employee",
	Title:  "Employee",
	Plural: "Employees",
	Scoped: true,
	Sections: []ui.Section{{
		Title:   "Employee",
		Grouped: true,
		Fields: []ui.Field{
			&ui.Input{FieldBase: ui.FieldBase{Name: "full_name", Label: "Full name", Required: true}},
			&ui.Input{FieldBase: ui.FieldBase{Name: "email", Label: "Email", Required: true}, Type: "email"},
			&ui.Input{FieldBase: ui.FieldBase{Name: "role", Label: "Role", Placeholder: "editor"}},
			&ui.Checkbox{FieldBase: ui.FieldBase{Name: "active", Label: "Active"}},
		},
	}},
	Columns: []ui.Column[Employee]{
		{Header: "ID", Key: "id"},
		{Header: "Name", Key: "full_name"},
		{Header: "Email", Key: "email"},
		{Header: "Role", Key: "role"},
		{Header: "Active", Key: "active"},
	},
	Initial: form.Values{"full_name": "", "email": "", "role": "", "active": true},
	ToForm: func(e Employee) form.Values {
		return form.Values{
			"full_name": e.FullName,
			"email":     e.Email,
			"role":      e.Role,
			"active":    e.Active,
		}
	},
	FromForm: func(v form.Values) Employee {
		return Employee{
			FullName: trimmed(v, "full_name"),
			Email:    trimmed(v, "email"),
			Role:     trimmed(v, "role"),
			Active:   v.Bool("active"),
		}
	},
	Validate: form.All(
		form.Required("full_name", "Full name"),
		form.Required("email", "Email"),
	),
	Matches: func(e Employee, q string) bool { return contains(q, e.FullName, e.Email, e.Role) },
	Compare: func(a, b Employee) int {
		return cmp.Or(strings.Compare(strings.ToLower(a.FullName), strings.ToLower(b.FullName)), cmp.Compare(a.ID, b.ID))
	},
	SetOrganization: func(e Employee, id int64) Employee { e.OrganizationID = id; return e },
	Name:            func(e Employee) string { return e.FullName },
}
