package render

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFill(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		values map[string]string
		want   string
	}{
		{
			name:   "simple substitution",
			input:  `<w:p><w:r><w:t>Hello {{name}}!</w:t></w:r></w:p>`,
			values: map[string]string{"name": "Ada"},
			want:   `<w:p><w:r><w:t>Hello Ada!</w:t></w:r></w:p>`,
		},
		{
			name:   "whitespace inside delimiters",
			input:  `<w:t>{{ Full Name }}</w:t>`,
			values: map[string]string{"Full Name": "Ada Lovelace"},
			want:   `<w:t>Ada Lovelace</w:t>`,
		},
		{
			name:   "value is escaped",
			input:  `<w:t>{{company}}</w:t>`,
			values: map[string]string{"company": `Smith & Sons <Ltd>`},
			want:   `<w:t>Smith &amp; Sons &lt;Ltd&gt;</w:t>`,
		},
		{
			name:   "escaped name matches decoded key",
			input:  `<w:t>{{Tenant&apos;s Name}}</w:t>`,
			values: map[string]string{"Tenant's Name": "Bob"},
			want:   `<w:t>Bob</w:t>`,
		},
		{
			name:   "edge whitespace gets preserve attribute",
			input:  `<w:t>{{greeting}}</w:t>`,
			values: map[string]string{"greeting": "Hi "},
			want:   `<w:t xml:space="preserve">Hi </w:t>`,
		},
		{
			name:   "existing space attribute kept",
			input:  `<w:t xml:space="preserve">{{a}} x</w:t>`,
			values: map[string]string{"a": ""},
			want:   `<w:t xml:space="preserve"> x</w:t>`,
		},
		{
			name:   "missing value becomes blank",
			input:  `<w:t>[{{unknown}}]</w:t>`,
			values: map[string]string{},
			want:   `<w:t>[]</w:t>`,
		},
		{
			name:   "untouched elements are preserved",
			input:  `<w:r><w:rPr><w:b/></w:rPr><w:t>Static</w:t></w:r><w:r><w:t>{{x}}</w:t></w:r>`,
			values: map[string]string{"x": "1"},
			want:   `<w:r><w:rPr><w:b/></w:rPr><w:t>Static</w:t></w:r><w:r><w:t>1</w:t></w:r>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Fill(tt.input, tt.values, FillOptions{})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFill_Strict(t *testing.T) {
	_, err := Fill(`<w:t>{{a}} {{b}}</w:t>`, map[string]string{"a": "1"}, FillOptions{Strict: true})
	require.Error(t, err)

	var missing *MissingValueError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, []string{"b"}, missing.Names)
}

func TestFill_Malformed(t *testing.T) {
	_, err := Fill(`<w:p><w:t>{{a}}</w:t>`, map[string]string{"a": "1"}, FillOptions{})
	require.Error(t, err)

	var malformed *MalformedMarkupError
	assert.True(t, errors.As(err, &malformed))
}

func TestFill_AfterMerge(t *testing.T) {
	merged, err := Merge(`<w:p><w:r><w:t>Hello {{na</w:t></w:r><w:r><w:t>me}}!</w:t></w:r></w:p>`)
	require.NoError(t, err)

	got, err := Fill(merged, map[string]string{"name": "World"}, FillOptions{Strict: true})
	require.NoError(t, err)
	assert.Equal(t, `<w:p><w:r><w:t>Hello World!</w:t></w:r></w:p>`, got)
}
