package server

import (
	"context"
	"embed"

	"derrclan.com/daily-seed/internal/host"
)

//go:embed web
var web embed.FS

// SettingsPage is the data behind settings.gotmpl.
type SettingsPage struct {
	Title   string
	Section string
	Action  string
	Updated bool
	Fields  []FieldView
}

// FieldView is one rendered settings input.
type FieldView struct {
	ID          string
	Name        string
	Label       string
	Kind        string
	Placeholder string
	Value       string
	Checked     bool
	Choices     []ChoiceView
}

type ChoiceView struct {
	Value    string
	Label    string
	Selected bool
}

func newSettingsPage(ctx context.Context, s host.Setting, action string, updated bool) SettingsPage {
	values := s.Values(ctx)

	page := SettingsPage{
		Title:   s.Title,
		Section: s.Section,
		Action:  action,
		Updated: updated,
	}
	for _, f := range s.Fields {
		v := FieldView{
			ID:          f.ID,
			Name:        s.Option + "[" + f.ID + "]",
			Label:       f.Label,
			Placeholder: f.Placeholder,
			Value:       values[f.ID],
		}
		switch f.Kind {
		case host.FieldCheckbox:
			v.Kind = "checkbox"
			v.Checked = v.Value != "" && v.Value != "0"
		case host.FieldSelect:
			v.Kind = "select"
			for _, c := range f.Choices {
				v.Choices = append(v.Choices, ChoiceView{Value: c.Value, Label: c.Label, Selected: c.Value == v.Value})
			}
		default:
			v.Kind = "text"
		}
		page.Fields = append(page.Fields, v)
	}
	return page
}
