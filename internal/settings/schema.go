package settings

import (
	"context"
	"net/url"

	"derrclan.com/daily-seed/internal/host"
)

// Page is the slug of the admin settings page.
const Page = "daily-seed"

// Schema describes the admin form editing the record.
func (s *Settings) Schema() host.Setting {
	return host.Setting{
		Option:  OptionName,
		Page:    Page,
		Title:   "Daily Seed - Bible Verse of the Day Settings",
		Section: "Configure Daily Seed Settings",
		Fields: []host.Field{
			{ID: FieldAPIKey, Label: "Bible API Key", Kind: host.FieldText, Placeholder: "Enter API Key"},
			{ID: FieldDefaultVersion, Label: "Default Bible Version", Kind: host.FieldText, Placeholder: "e.g., NIV"},
			{ID: FieldUseRandomVersion, Label: "Use Random Bible Version?", Kind: host.FieldCheckbox},
			{ID: FieldVerseScope, Label: "Verse Scope (OT, NT, Both)", Kind: host.FieldSelect, Choices: []host.Choice{
				{Value: string(ScopeOT), Label: "Old Testament"},
				{Value: string(ScopeNT), Label: "New Testament"},
				{Value: string(ScopeBoth), Label: "Both"},
			}},
		},
		Values: s.formValues,
		Save: func(ctx context.Context, form url.Values) error {
			_, err := s.Save(ctx, FormInput(form))
			return err
		},
	}
}

func (s *Settings) formValues(ctx context.Context) map[string]string {
	rec := s.Read(ctx)
	random := ""
	if rec.UseRandomVersion {
		random = "1"
	}
	return map[string]string{
		FieldAPIKey:           rec.APIKey,
		FieldDefaultVersion:   rec.DefaultVersion,
		FieldUseRandomVersion: random,
		FieldVerseScope:       string(rec.VerseScope),
	}
}
