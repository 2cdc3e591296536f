package host

import (
	"context"
	"regexp"
	"strings"
)

var (
	// [tag attrs], with [[tag]] as the escape for a literal token.
	shortcodeToken = regexp.MustCompile(`\[(\[?)([A-Za-z0-9_-]+)((?:\s[^\]]*)?)\](\]?)`)
	shortcodeAttr  = regexp.MustCompile(`([\w-]+)\s*=\s*"([^"]*)"|([\w-]+)\s*=\s*'([^']*)'|([\w-]+)\s*=\s*([^\s'"]+)`)
)

// Render replaces every registered shortcode token in content with its
// handler's output. Unknown tags are left as written.
func (r *Registry) Render(ctx context.Context, content string) string {
	matches := shortcodeToken.FindAllStringSubmatchIndex(content, -1)
	if len(matches) == 0 {
		return content
	}

	var b strings.Builder
	last := 0
	for _, m := range matches {
		b.WriteString(content[last:m[0]])
		last = m[1]

		token := content[m[0]:m[1]]
		tag := content[m[4]:m[5]]
		fn, ok := r.Shortcode(tag)
		if !ok {
			b.WriteString(token)
			continue
		}

		// [[tag]] renders as the literal [tag].
		if m[3] > m[2] && m[9] > m[8] {
			b.WriteString(token[1 : len(token)-1])
			continue
		}

		if m[3] > m[2] {
			b.WriteByte('[')
		}
		b.WriteString(fn(ctx, ParseAttributes(content[m[6]:m[7]])))
		if m[9] > m[8] {
			b.WriteByte(']')
		}
	}
	b.WriteString(content[last:])
	return b.String()
}

// ParseAttributes reads name="value", name='value' and name=value pairs.
func ParseAttributes(s string) Attributes {
	attrs := make(Attributes)
	for _, m := range shortcodeAttr.FindAllStringSubmatch(s, -1) {
		switch {
		case m[1] != "":
			attrs[strings.ToLower(m[1])] = m[2]
		case m[3] != "":
			attrs[strings.ToLower(m[3])] = m[4]
		case m[5] != "":
			attrs[strings.ToLower(m[5])] = m[6]
		}
	}
	return attrs
}
