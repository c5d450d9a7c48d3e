package render

import (
	"encoding/xml"
	"io"
	"strings"
	"unicode"
)

// FillOptions controls slot substitution.
type FillOptions struct {
	// Strict turns a placeholder without an entry in the value map into an
	// error instead of a blank.
	Strict bool
}

// Fill substitutes values into the placeholder slots of merged markup. Each
// {{ name }} inside a text element is replaced by the XML-escaped value for
// name. The result is checked for well-formedness before it is returned.
func Fill(markup string, values map[string]string, opts FillOptions) (string, error) {
	var (
		out     strings.Builder
		missing []string
		last    int
	)

	pos := 0
	for {
		el, ok := nextTextElement(markup, pos)
		if !ok {
			break
		}
		pos = el.end

		text := el.text(markup)
		if !strings.Contains(text, OpenDelim) {
			continue
		}

		replaced := placeholderPattern.ReplaceAllStringFunc(text, func(token string) string {
			sub := placeholderPattern.FindStringSubmatch(token)
			name := PlaceholderName(sub[1])
			if name == "" {
				return token
			}
			value, ok := values[name]
			if !ok {
				missing = append(missing, name)
			}
			return escapeText(value)
		})
		if replaced == text {
			continue
		}

		attrs := el.attrs
		if needsPreserve(replaced) && !strings.Contains(attrs, "xml:space") {
			attrs += ` xml:space="preserve"`
		}
		out.WriteString(markup[last:el.start])
		out.WriteString(textOpen)
		out.WriteString(attrs)
		out.WriteByte('>')
		out.WriteString(replaced)
		out.WriteString(textClose)
		last = el.end
	}
	out.WriteString(markup[last:])

	if opts.Strict && len(missing) > 0 {
		return "", &MissingValueError{Names: missing}
	}

	result := out.String()
	if err := checkWellFormed(result); err != nil {
		return "", &MalformedMarkupError{Cause: err}
	}
	return result, nil
}

func escapeText(s string) string {
	var b strings.Builder
	// strings.Builder never returns a write error
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}

func needsPreserve(s string) bool {
	r := []rune(s)
	if len(r) == 0 {
		return false
	}
	return unicode.IsSpace(r[0]) || unicode.IsSpace(r[len(r)-1])
}

func checkWellFormed(markup string) error {
	d := xml.NewDecoder(strings.NewReader(markup))
	for {
		_, err := d.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}
