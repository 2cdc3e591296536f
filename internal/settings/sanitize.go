package settings

import (
	"encoding/json"
	"io"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/net/html"
)

// Sanitize normalizes an arbitrary input mapping into a Record. It is
// total: unknown keys are ignored and bad values are coerced.
func Sanitize(input map[string]any) Record {
	return decode(input, SanitizeText)
}

func decode(m map[string]any, clean func(string) string) Record {
	rec := Default()
	rec.APIKey = clean(textValue(m[FieldAPIKey]))
	rec.DefaultVersion = clean(textValue(m[FieldDefaultVersion]))
	rec.UseRandomVersion = truthy(m[FieldUseRandomVersion])
	rec.VerseScope = ParseScope(m[FieldVerseScope])
	return rec
}

// FormInput turns a posted admin form into Sanitize input. Both
// "daily_seed_options[field]" and bare "field" names are accepted.
// Unchecked checkboxes are simply absent.
func FormInput(form url.Values) map[string]any {
	input := make(map[string]any)
	for _, field := range []string{FieldAPIKey, FieldDefaultVersion, FieldUseRandomVersion, FieldVerseScope} {
		for _, key := range []string{OptionName + "[" + field + "]", field} {
			if vals, ok := form[key]; ok && len(vals) > 0 {
				input[field] = vals[0]
				break
			}
		}
	}
	return input
}

var (
	whitespaceRun = regexp.MustCompile(`[\r\n\t ]+`)
	spaceRun      = regexp.MustCompile(` +`)
	encodedOctet  = regexp.MustCompile(`(?i)%[a-f0-9]{2}`)
)

// SanitizeText reduces s to a single line of text: invalid UTF-8, tags,
// control characters, percent-encoded octets and surrounding whitespace
// are removed and inner whitespace is collapsed. Entities are left
// encoded, so the result never contains live markup and sanitizing it
// again changes nothing.
func SanitizeText(s string) string {
	s = strings.ToValidUTF8(s, "")

	if strings.Contains(s, "<") {
		s = stripTags(escapeStrayLessThan(s))
	}

	s = whitespaceRun.ReplaceAllString(s, " ")
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
	s = strings.TrimSpace(s)

	for encodedOctet.MatchString(s) {
		s = encodedOctet.ReplaceAllString(s, "")
	}
	return strings.TrimSpace(spaceRun.ReplaceAllString(s, " "))
}

// escapeStrayLessThan escapes every '<' that is not closed by a '>'
// before the next '<', so "a < b" survives tag stripping as text.
func escapeStrayLessThan(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '<' {
			b.WriteByte(s[i])
			continue
		}
		end := strings.IndexAny(s[i+1:], "<>")
		if end >= 0 && s[i+1+end] == '>' {
			b.WriteByte('<')
			continue
		}
		b.WriteString("&lt;")
	}
	return b.String()
}

// stripTags keeps only the text content of s, dropping script and style
// bodies along with every tag and comment. Text is copied raw so entities
// stay encoded; a '<' the tokenizer kept as text is encoded too.
func stripTags(s string) string {
	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(s))
	skip := 0
	for {
		switch z.Next() {
		case html.ErrorToken:
			if z.Err() != io.EOF {
				return ""
			}
			return b.String()
		case html.StartTagToken:
			if isHidden(z) {
				skip++
			}
		case html.EndTagToken:
			if isHidden(z) && skip > 0 {
				skip--
			}
		case html.TextToken:
			if skip == 0 {
				b.WriteString(strings.ReplaceAll(string(z.Raw()), "<", "&lt;"))
			}
		}
	}
}

func isHidden(z *html.Tokenizer) bool {
	name, _ := z.TagName()
	switch string(name) {
	case "script", "style":
		return true
	}
	return false
}

func textValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		if t {
			return "1"
		}
		return ""
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	}
	return ""
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != "" && t != "0"
	case int:
		return t != 0
	case int64:
		return t != 0
	case float64:
		return t != 0
	case json.Number:
		return t.String() != "0"
	case []any:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	}
	return true
}
