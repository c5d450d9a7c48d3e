package convert

import (
	"fmt"

	"github.com/flosch/pongo2/v6"
)

// PageOptions controls the print page wrapped around converted HTML.
type PageOptions struct {
	Title string
	// Lang is the html lang attribute; "en" when empty.
	Lang string
}

var printTemplate = pongo2.Must(pongo2.FromString(`<!doctype html>
<html lang="{{ lang }}">
  <head>
    <meta charset="utf-8"/>
    <meta name="viewport" content="width=device-width, initial-scale=1"/>
    {% if title %}<title>{{ title }}</title>{% endif %}
    <style>
      body { font-family: "Times New Roman", serif; font-size: 12pt; margin: 0; color: #111; }
      p { margin: 0 0 8px; line-height: 1.45; }
      table { border-collapse: collapse; width: 100%; }
      table td, table th { border: 1px solid #ccc; padding: 6px; }
      img { max-width: 100%; height: auto; }
      u { text-decoration: underline; }
    </style>
  </head>
  <body>{{ body|safe }}</body>
</html>
`))

// PrintPage wraps an HTML body in a standalone page with the print
// stylesheet used for PDF output. Page margins come from the PDF renderer.
func PrintPage(body string, opts PageOptions) (string, error) {
	lang := opts.Lang
	if lang == "" {
		lang = "en"
	}

	out, err := printTemplate.Execute(pongo2.Context{
		"lang":  lang,
		"title": opts.Title,
		"body":  body,
	})
	if err != nil {
		return "", fmt.Errorf("failed to render print page: %w", err)
	}
	return out, nil
}
