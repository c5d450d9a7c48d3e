package render

import "strings"

const (
	// OpenDelim opens a placeholder.
	OpenDelim = "{{"
	// CloseDelim closes a placeholder.
	CloseDelim = "}}"

	textOpen  = "<w:t"
	textClose = "</w:t>"
)

// textElement is the position of one <w:t> element inside a markup string.
type textElement struct {
	start    int    // '<' of the opening tag
	textFrom int    // first byte of character data
	textTo   int    // '<' of the closing tag
	end      int    // first byte after the closing tag
	attrs    string // raw attribute text, leading whitespace included
}

func (e textElement) text(markup string) string {
	return markup[e.textFrom:e.textTo]
}

// nextTextElement returns the first text-bearing element starting at or after
// pos. Elements that merely share the prefix (<w:tab/>, <w:tbl>, <w:tr>, ...)
// and self-closing <w:t/> elements are skipped.
func nextTextElement(markup string, pos int) (textElement, bool) {
	for pos < len(markup) {
		i := strings.Index(markup[pos:], textOpen)
		if i < 0 {
			return textElement{}, false
		}
		start := pos + i
		nameEnd := start + len(textOpen)
		if nameEnd >= len(markup) {
			return textElement{}, false
		}
		switch markup[nameEnd] {
		case '>', ' ', '\t', '\r', '\n', '/':
		default:
			pos = nameEnd
			continue
		}

		gt := strings.IndexByte(markup[nameEnd:], '>')
		if gt < 0 {
			return textElement{}, false
		}
		openEnd := nameEnd + gt
		if markup[openEnd-1] == '/' {
			pos = openEnd + 1
			continue
		}

		c := strings.Index(markup[openEnd+1:], textClose)
		if c < 0 {
			return textElement{}, false
		}
		textTo := openEnd + 1 + c
		return textElement{
			start:    start,
			textFrom: openEnd + 1,
			textTo:   textTo,
			end:      textTo + len(textClose),
			attrs:    markup[nameEnd:openEnd],
		}, true
	}
	return textElement{}, false
}

// hasUnclosedOpen reports whether s contains an opening delimiter that is not
// followed by a closing one.
func hasUnclosedOpen(s string) bool {
	return strings.LastIndex(s, OpenDelim) > strings.LastIndex(s, CloseDelim)
}

// opensAcrossBoundary reports whether the opening delimiter itself is split
// between two adjacent elements ("...{" followed by "{...").
func opensAcrossBoundary(text, next string) bool {
	return strings.HasSuffix(text, "{") && !strings.HasSuffix(text, OpenDelim) &&
		strings.HasPrefix(next, "{")
}

// TextContent returns the concatenated character data of every <w:t> element
// in markup. Text of deleted runs (<w:delText>) and field codes
// (<w:instrText>) is left out, as Fill never touches it.
func TextContent(markup string) string {
	var b strings.Builder
	pos := 0
	for {
		el, ok := nextTextElement(markup, pos)
		if !ok {
			return b.String()
		}
		b.WriteString(el.text(markup))
		pos = el.end
	}
}
