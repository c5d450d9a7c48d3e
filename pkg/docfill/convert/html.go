// Package convert turns the body of a filled DOCX document into HTML and
// Markdown. The HTML is deliberately plain: paragraphs, headings, lists,
// tables and basic run formatting. Anything else is dropped with a warning
// message.
package convert

import (
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// Message is a warning produced while converting a document.
type Message struct {
	Type string
	Text string
}

func (m Message) String() string {
	return m.Type + ": " + m.Text
}

var headingStyles = map[string]string{
	"title":    "h1",
	"heading1": "h1",
	"heading2": "h2",
	"heading3": "h3",
	"heading4": "h4",
	"heading5": "h5",
	"heading6": "h6",
}

// unsupported elements are skipped together with their content
var unsupported = map[string]string{
	"drawing":           "images are not converted",
	"pict":              "images are not converted",
	"object":            "embedded objects are not converted",
	"instrText":         "field codes are not converted",
	"footnoteReference": "footnotes are not converted",
	"commentReference":  "comments are not converted",
}

type runFormat struct {
	bold, italic, underline, strike bool
}

type paragraph struct {
	style  string
	isList bool
	body   strings.Builder
}

type htmlWriter struct {
	out      strings.Builder
	para     *paragraph
	run      runFormat
	runText  strings.Builder
	inPPr    bool
	inRPr    bool
	inText   bool
	inList   bool
	skip     int
	warnings map[string]bool
}

// ToHTML converts word/document.xml markup to sanitized HTML. Unsupported
// content produces warning messages instead of failing the conversion.
func ToHTML(documentXML string) (string, []Message, error) {
	w := &htmlWriter{warnings: make(map[string]bool)}
	dec := xml.NewDecoder(strings.NewReader(documentXML))

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", nil, fmt.Errorf("failed to parse document: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			w.start(t)
		case xml.EndElement:
			w.end(t)
		case xml.CharData:
			if w.inText && w.skip == 0 {
				w.runText.WriteString(html.EscapeString(string(t)))
			}
		}
	}
	w.closeList()

	body := strings.TrimSpace(sanitizer().Sanitize(w.out.String()))
	return body, w.messages(), nil
}

func (w *htmlWriter) start(t xml.StartElement) {
	name := t.Name.Local
	if w.skip > 0 {
		w.skip++
		return
	}
	if reason, ok := unsupported[name]; ok {
		w.warnings[reason] = true
		w.skip = 1
		return
	}

	switch name {
	case "p":
		w.para = &paragraph{}
	case "pPr":
		w.inPPr = true
	case "pStyle":
		if w.para != nil {
			w.para.style = strings.ToLower(attr(t, "val"))
		}
	case "numPr":
		if w.para != nil {
			w.para.isList = true
		}
	case "r":
		w.run = runFormat{}
		w.runText.Reset()
	case "rPr":
		w.inRPr = true
	case "b":
		if w.inRPr {
			w.run.bold = toggle(t)
		}
	case "i":
		if w.inRPr {
			w.run.italic = toggle(t)
		}
	case "u":
		if w.inRPr {
			w.run.underline = toggle(t)
		}
	case "strike", "dstrike":
		if w.inRPr {
			w.run.strike = toggle(t)
		}
	case "t":
		w.inText = true
	case "br", "cr":
		w.runText.WriteString("<br/>")
	case "tab":
		if !w.inPPr && !w.inRPr && w.para != nil {
			w.runText.WriteString("\t")
		}
	case "tbl":
		w.closeList()
		w.out.WriteString("<table>")
	case "tr":
		w.out.WriteString("<tr>")
	case "tc":
		w.out.WriteString("<td>")
	}
}

func (w *htmlWriter) end(t xml.EndElement) {
	if w.skip > 0 {
		w.skip--
		return
	}

	switch t.Name.Local {
	case "pPr":
		w.inPPr = false
	case "rPr":
		w.inRPr = false
	case "t":
		w.inText = false
	case "r":
		w.flushRun()
	case "p":
		w.flushParagraph()
	case "tbl":
		w.out.WriteString("</table>")
	case "tr":
		w.out.WriteString("</tr>")
	case "tc":
		w.closeList()
		w.out.WriteString("</td>")
	}
}

func (w *htmlWriter) flushRun() {
	text := w.runText.String()
	w.runText.Reset()
	if text == "" || w.para == nil {
		return
	}

	var openers, closers []string
	wrap := func(on bool, tag string) {
		if on {
			openers = append(openers, "<"+tag+">")
			closers = append([]string{"</" + tag + ">"}, closers...)
		}
	}
	wrap(w.run.bold, "strong")
	wrap(w.run.italic, "em")
	wrap(w.run.underline, "u")
	wrap(w.run.strike, "s")

	w.para.body.WriteString(strings.Join(openers, ""))
	w.para.body.WriteString(text)
	w.para.body.WriteString(strings.Join(closers, ""))
}

func (w *htmlWriter) flushParagraph() {
	p := w.para
	w.para = nil
	if p == nil {
		return
	}

	if p.isList {
		if !w.inList {
			w.out.WriteString("<ul>")
			w.inList = true
		}
		w.out.WriteString("<li>" + p.body.String() + "</li>")
		return
	}
	w.closeList()

	tag, ok := headingStyles[p.style]
	if !ok {
		tag = "p"
	}
	w.out.WriteString("<" + tag + ">" + p.body.String() + "</" + tag + ">")
}

func (w *htmlWriter) closeList() {
	if w.inList {
		w.out.WriteString("</ul>")
		w.inList = false
	}
}

func (w *htmlWriter) messages() []Message {
	texts := make([]string, 0, len(w.warnings))
	for text := range w.warnings {
		texts = append(texts, text)
	}
	sort.Strings(texts)

	msgs := make([]Message, len(texts))
	for i, text := range texts {
		msgs[i] = Message{Type: "warning", Text: text}
	}
	return msgs
}

func attr(t xml.StartElement, local string) string {
	for _, a := range t.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

// toggle reads an OOXML on/off property: present without a value means on.
func toggle(t xml.StartElement) bool {
	switch strings.ToLower(attr(t, "val")) {
	case "0", "false", "off", "none":
		return false
	default:
		return true
	}
}

var (
	policyOnce sync.Once
	policy     *bluemonday.Policy
)

func sanitizer() *bluemonday.Policy {
	policyOnce.Do(func() {
		p := bluemonday.StrictPolicy()
		p.AllowElements(
			"p", "h1", "h2", "h3", "h4", "h5", "h6",
			"strong", "em", "u", "s", "br",
			"ul", "ol", "li",
			"table", "thead", "tbody", "tr", "td", "th",
		)
		policy = p
	})
	return policy
}
