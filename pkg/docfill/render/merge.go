package render

import "strings"

type mergeState int

const (
	outsideToken mergeState = iota
	accumulatingSplitToken
)

// merger walks the text elements of a markup string in document order and
// collapses every split placeholder into the element where it started.
type merger struct {
	markup string
	out    strings.Builder

	state mergeState
	last  int // markup before this offset is already written or consumed

	// accumulatingSplitToken only
	attrs      string
	tokenStart int
	buf        strings.Builder
}

// Merge repairs placeholders whose delimiters Word split across several text
// elements. Every run of elements forming one placeholder is replaced by a
// single <w:t> carrying the attributes of the first element and the combined
// text. Markup outside merged regions is returned unchanged.
//
// An opening delimiter that is never closed is reported as an
// *UnterminatedPlaceholderError.
func Merge(markup string) (string, error) {
	m := &merger{markup: markup}
	m.run()
	if m.state == accumulatingSplitToken {
		return "", &UnterminatedPlaceholderError{
			Offset:   m.tokenStart,
			Fragment: fragment(m.buf.String()),
		}
	}
	return m.finish(), nil
}

// MergeLenient behaves like Merge but an unterminated placeholder swallows
// every remaining text element up to the end of the document.
func MergeLenient(markup string) string {
	m := &merger{markup: markup}
	m.run()
	if m.state == accumulatingSplitToken {
		m.emit()
	}
	return m.finish()
}

func (m *merger) run() {
	pos := 0
	for {
		el, ok := nextTextElement(m.markup, pos)
		if !ok {
			return
		}
		pos = el.end
		text := el.text(m.markup)

		switch m.state {
		case outsideToken:
			m.out.WriteString(m.markup[m.last:el.start])
			if m.needsMore(text, el) {
				m.state = accumulatingSplitToken
				m.attrs = el.attrs
				m.tokenStart = el.start
				m.buf.Reset()
				m.buf.WriteString(text)
			} else {
				m.out.WriteString(m.markup[el.start:el.end])
			}
		case accumulatingSplitToken:
			m.buf.WriteString(text)
			if !m.needsMore(m.buf.String(), el) {
				m.emit()
			}
		}
		m.last = el.end
	}
}

// needsMore reports whether text, ending with element el, leaves a
// placeholder open so that following elements have to be consumed.
func (m *merger) needsMore(text string, el textElement) bool {
	if hasUnclosedOpen(text) {
		return true
	}
	if !strings.HasSuffix(text, "{") {
		return false
	}
	next, ok := nextTextElement(m.markup, el.end)
	return ok && opensAcrossBoundary(text, next.text(m.markup))
}

func (m *merger) emit() {
	m.out.WriteString(textOpen)
	m.out.WriteString(m.attrs)
	m.out.WriteByte('>')
	m.out.WriteString(m.buf.String())
	m.out.WriteString(textClose)
	m.buf.Reset()
	m.state = outsideToken
}

func (m *merger) finish() string {
	m.out.WriteString(m.markup[m.last:])
	return m.out.String()
}

func fragment(s string) string {
	const limit = 40
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit]) + "..."
}
