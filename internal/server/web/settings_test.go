package web_test

import (
	"bytes"
	"html/template"
	"strings"
	"testing"
)

type choice struct {
	Value    string
	Label    string
	Selected bool
}

type field struct {
	ID, Name, Label, Kind, Placeholder, Value string
	Checked                                   bool
	Choices                                   []choice
}

func TestSettingsTemplate(t *testing.T) {
	data := map[string]any{
		"Title":   "Daily Seed Settings",
		"Section": "Configure",
		"Action":  "/admin/daily-seed",
		"Updated": false,
		"Fields": []field{
			{ID: "api_key", Name: "opts[api_key]", Label: "Key", Kind: "text", Value: `"><script>`},
			{ID: "use_random_version", Name: "opts[use_random_version]", Label: "Random", Kind: "checkbox"},
			{ID: "verse_scope", Name: "opts[verse_scope]", Label: "Scope", Kind: "select", Choices: []choice{
				{Value: "ot", Label: "Old Testament", Selected: true},
				{Value: "nt", Label: "New Testament"},
			}},
		},
	}

	tmpl, err := template.New("settings.gotmpl").ParseFiles("settings.gotmpl")
	if err != nil {
		t.Fatalf("Failed to parse template: %v", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		t.Fatalf("Failed to execute template: %v", err)
	}
	output := buf.String()

	if strings.Contains(output, "<script>") {
		t.Errorf("field value was not escaped")
	}
	if !strings.Contains(output, `<option value="ot" selected>Old Testament</option>`) {
		t.Errorf("expected selected Old Testament option")
	}
	if strings.Contains(output, `value="1" checked`) {
		t.Errorf("unchecked checkbox rendered as checked")
	}
	if strings.Contains(output, "Settings saved.") {
		t.Errorf("saved notice shown without an update")
	}
	if !strings.Contains(output, `action="/admin/daily-seed"`) {
		t.Errorf("expected form action")
	}
}
