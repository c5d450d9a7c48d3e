package render

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "no placeholders",
			input: `<w:p><w:r><w:t>Plain text</w:t></w:r></w:p>`,
			want:  []string{},
		},
		{
			name:  "first occurrence order without duplicates",
			input: `<w:r><w:t>{{a}} then {{b}} then {{a}}</w:t></w:r>`,
			want:  []string{"a", "b"},
		},
		{
			name:  "whitespace inside delimiters is trimmed",
			input: `<w:t>{{  Full Name  }}</w:t><w:t>{{Full Name}}</w:t>`,
			want:  []string{"Full Name"},
		},
		{
			name:  "tags between delimiters are stripped",
			input: `<w:r><w:t>{{na</w:t></w:r><w:r><w:t>me}}</w:t></w:r>`,
			want:  []string{"name"},
		},
		{
			name:  "character references decoded",
			input: `<w:t>{{Tenant&apos;s Name}} &amp; {{A &amp; B}}</w:t>`,
			want:  []string{"Tenant's Name", "A & B"},
		},
		{
			name:  "empty token ignored",
			input: `<w:t>{{ }} {{x}}</w:t>`,
			want:  []string{"x"},
		},
		{
			name:  "unterminated token ignored",
			input: `<w:t>{{x}} {{broken</w:t>`,
			want:  []string{"x"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.input)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Extract() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestExtract_RoundTripAfterMerge(t *testing.T) {
	// The same three placeholders, split three different ways.
	variants := []string{
		`<w:p><w:r><w:t>{{landlord}} leases to {{tenant}} for {{rent}}</w:t></w:r></w:p>`,
		`<w:p><w:r><w:t>{{land</w:t></w:r><w:r><w:t>lord}} leases to {{</w:t></w:r><w:r><w:t>tenant}} for {</w:t></w:r><w:r><w:t>{rent}}</w:t></w:r></w:p>`,
		`<w:p><w:r><w:t>{{</w:t></w:r><w:r><w:t>landlord</w:t></w:r><w:r><w:t>}}</w:t></w:r></w:p><w:p><w:r><w:t> leases to {{tenant}} for {{ren</w:t></w:r><w:r><w:t>t}}</w:t></w:r></w:p>`,
	}
	want := []string{"landlord", "tenant", "rent"}

	for _, v := range variants {
		merged, err := Merge(v)
		require.NoError(t, err)
		if diff := cmp.Diff(want, Extract(merged)); diff != "" {
			t.Errorf("Extract(Merge()) mismatch for %s (-want +got):\n%s", v, diff)
		}
	}
}

func TestExtract_SplitTokenScenario(t *testing.T) {
	merged, err := Merge(`<w:p><w:r><w:t>Hello {{na</w:t></w:r><w:r><w:t>me}}!</w:t></w:r></w:p>`)
	require.NoError(t, err)
	require.Equal(t, `<w:p><w:r><w:t>Hello {{name}}!</w:t></w:r></w:p>`, merged)

	if diff := cmp.Diff([]string{"name"}, Extract(merged)); diff != "" {
		t.Errorf("Extract() mismatch (-want +got):\n%s", diff)
	}
}

func TestFindTokens(t *testing.T) {
	got := FindTokens(`<w:t>{{a}} {{ b }} {{a}}</w:t>`)
	want := []string{"{{a}}", "{{ b }}", "{{a}}"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("FindTokens() mismatch (-want +got):\n%s", diff)
	}

	if got := FindTokens("nothing"); len(got) != 0 {
		t.Errorf("FindTokens() = %v, want empty", got)
	}
}

func TestTextContent(t *testing.T) {
	markup := `<w:p><w:r><w:t xml:space="preserve">Rent {{rent}} </w:t></w:r>` +
		`<w:del><w:r><w:delText>{{oldRent}}</w:delText></w:r></w:del>` +
		`<w:r><w:instrText> MERGEFIELD {{field}} </w:instrText></w:r>` +
		`<w:r><w:tab/><w:t/><w:t>due {{dueDate}}</w:t></w:r></w:p>`

	require.Equal(t, "Rent {{rent}} due {{dueDate}}", TextContent(markup))

	if diff := cmp.Diff([]string{"rent", "dueDate"}, Extract(TextContent(markup))); diff != "" {
		t.Errorf("Extract(TextContent()) mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"rent", "oldRent", "field", "dueDate"}, Extract(markup)); diff != "" {
		t.Errorf("Extract() mismatch (-want +got):\n%s", diff)
	}
}
