package convert

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const wordNS = `xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"`

func doc(body string) string {
	return `<?xml version="1.0" encoding="UTF-8"?><w:document ` + wordNS + `><w:body>` + body + `<w:sectPr/></w:body></w:document>`
}

func TestToHTML(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "plain paragraph",
			body: `<w:p><w:r><w:t>Hello</w:t></w:r><w:r><w:t xml:space="preserve"> world</w:t></w:r></w:p>`,
			want: `<p>Hello world</p>`,
		},
		{
			name: "headings from styles",
			body: `<w:p><w:pPr><w:pStyle w:val="Title"/></w:pPr><w:r><w:t>Lease</w:t></w:r></w:p>` +
				`<w:p><w:pPr><w:pStyle w:val="Heading2"/></w:pPr><w:r><w:t>Terms</w:t></w:r></w:p>`,
			want: `<h1>Lease</h1><h2>Terms</h2>`,
		},
		{
			name: "run formatting",
			body: `<w:p><w:r><w:rPr><w:b/><w:i/></w:rPr><w:t>both</w:t></w:r>` +
				`<w:r><w:rPr><w:u w:val="single"/></w:rPr><w:t>under</w:t></w:r>` +
				`<w:r><w:rPr><w:strike/></w:rPr><w:t>gone</w:t></w:r>` +
				`<w:r><w:rPr><w:b w:val="0"/></w:rPr><w:t>plain</w:t></w:r></w:p>`,
			want: `<p><strong><em>both</em></strong><u>under</u><s>gone</s>plain</p>`,
		},
		{
			name: "line breaks and escaping",
			body: `<w:p><w:r><w:t>a &amp; b</w:t><w:br/><w:t>&lt;c&gt;</w:t></w:r></w:p>`,
			want: `<p>a &amp; b<br/>&lt;c&gt;</p>`,
		},
		{
			name: "paragraph tab stops are not text",
			body: `<w:p><w:pPr><w:tabs><w:tab w:val="left" w:pos="720"/></w:tabs></w:pPr><w:r><w:t>x</w:t></w:r></w:p>`,
			want: `<p>x</p>`,
		},
		{
			name: "table",
			body: `<w:tbl><w:tr><w:tc><w:p><w:r><w:t>k</w:t></w:r></w:p></w:tc><w:tc><w:p><w:r><w:t>v</w:t></w:r></w:p></w:tc></w:tr></w:tbl>`,
			want: `<table><tr><td><p>k</p></td><td><p>v</p></td></tr></table>`,
		},
		{
			name: "numbered paragraphs become a list",
			body: `<w:p><w:pPr><w:numPr><w:ilvl w:val="0"/></w:numPr></w:pPr><w:r><w:t>one</w:t></w:r></w:p>` +
				`<w:p><w:pPr><w:numPr><w:ilvl w:val="0"/></w:numPr></w:pPr><w:r><w:t>two</w:t></w:r></w:p>` +
				`<w:p><w:r><w:t>after</w:t></w:r></w:p>`,
			want: `<ul><li>one</li><li>two</li></ul><p>after</p>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, msgs, err := ToHTML(doc(tt.body))
			require.NoError(t, err)
			assert.Empty(t, msgs)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestToHTML_UnsupportedContent(t *testing.T) {
	body := `<w:p><w:r><w:drawing><inline>picture</inline></w:drawing></w:r><w:r><w:t>caption</w:t></w:r></w:p>` +
		`<w:p><w:r><w:instrText>PAGE</w:instrText></w:r><w:r><w:t>1</w:t></w:r></w:p>` +
		`<w:p><w:r><w:drawing/></w:r></w:p>`

	got, msgs, err := ToHTML(doc(body))
	require.NoError(t, err)
	assert.Equal(t, `<p>caption</p><p>1</p><p></p>`, got)

	require.Len(t, msgs, 2)
	assert.Equal(t, Message{Type: "warning", Text: "field codes are not converted"}, msgs[0])
	assert.Equal(t, "warning: images are not converted", msgs[1].String())
}

func TestToHTML_Malformed(t *testing.T) {
	_, _, err := ToHTML(`<w:document><w:body><w:p>`)
	assert.Error(t, err)
}

func TestPrintPage(t *testing.T) {
	page, err := PrintPage(`<p>Tenant: <strong>Alice</strong></p>`, PageOptions{Title: "Lease <draft>"})
	require.NoError(t, err)

	d, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	require.NoError(t, err)

	assert.Equal(t, "en", d.Find("html").AttrOr("lang", ""))
	assert.Equal(t, "Lease <draft>", d.Find("title").Text())
	assert.Equal(t, "Alice", d.Find("body p strong").Text())
	style := d.Find("style").Text()
	assert.Contains(t, style, `font-family: "Times New Roman", serif`)
	assert.Contains(t, style, "border-collapse: collapse")
	assert.Contains(t, style, "line-height: 1.45")
}

func TestPrintPage_NoTitle(t *testing.T) {
	page, err := PrintPage("<p>x</p>", PageOptions{Lang: "de"})
	require.NoError(t, err)
	assert.NotContains(t, page, "<title>")
	assert.Contains(t, page, `lang="de"`)
}

func TestToMarkdown(t *testing.T) {
	html := `<h1>Lease</h1><p><strong>Tenant:</strong> Alice</p><p></p><p></p><ul><li>one</li><li>two</li></ul>`

	md, err := ToMarkdown(html)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(md, "# Lease\n\n**Tenant:** Alice"), "got %q", md)
	assert.Contains(t, md, "- one\n- two")
	assert.NotContains(t, md, "\n\n\n")
	assert.True(t, strings.HasSuffix(md, "\n"))
}

func TestToMarkdown_Empty(t *testing.T) {
	md, err := ToMarkdown("")
	require.NoError(t, err)
	assert.Equal(t, "", md)
}
