package docfill

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/benjaminschreck/go-docfill/pkg/docfill/render"
)

// Strategy names the key normalization that produced a match.
type Strategy int

const (
	StrategyNone Strategy = iota
	StrategyExact
	StrategyLower
	StrategyAlnum
	StrategyAlnumLower
	StrategyCamel
	StrategyNoSpace
	StrategyUnderscore
	StrategyIdentifier
)

func (s Strategy) String() string {
	switch s {
	case StrategyNone:
		return "none"
	case StrategyExact:
		return "exact"
	case StrategyLower:
		return "lowercase"
	case StrategyAlnum:
		return "alphanumeric"
	case StrategyAlnumLower:
		return "alphanumeric-lowercase"
	case StrategyCamel:
		return "camelCase"
	case StrategyNoSpace:
		return "no-whitespace"
	case StrategyUnderscore:
		return "underscore"
	case StrategyIdentifier:
		return "identifier"
	default:
		return "unknown"
	}
}

var (
	nonAlnum      = regexp.MustCompile(`[^a-zA-Z0-9]`)
	nonAlnumSpace = regexp.MustCompile(`[^a-zA-Z0-9 ]+`)
	nonIdentifier = regexp.MustCompile(`[^a-zA-Z0-9_]`)
	// \p{Zs} covers the no-break spaces Word puts between words
	whitespace    = regexp.MustCompile(`[\s\p{Zs}]+`)
	lineBreaks    = regexp.MustCompile(`[\r\n]+`)
)

type candidate struct {
	key      string
	strategy Strategy
}

// Resolution is the outcome of resolving one placeholder.
type Resolution struct {
	Name     string
	Key      string
	Value    string
	Strategy Strategy
	Matched  bool
	// Diagnostics holds exactly one DiagUnresolved entry when nothing matched.
	Diagnostics []Diagnostic
}

// Resolve finds the form-data key that best matches a placeholder name and
// returns its sanitized value. Keys are tried in this order, first hit wins:
// the name itself, lowercased, without non-alphanumerics, without
// non-alphanumerics and lowercased, camelCased, without whitespace, with
// whitespace runs as underscores, and with everything outside [a-zA-Z0-9_]
// removed.
//
// Resolve never fails: an unmatched name resolves to "" with a diagnostic.
func Resolve(name string, data FormData) Resolution {
	raw := strings.TrimSpace(name)
	res := Resolution{Name: raw}

	for i, c := range candidates(raw) {
		if i > 0 && c.key == "" {
			continue
		}
		value, ok := data[c.key]
		if !ok {
			continue
		}
		res.Key = c.key
		res.Value = SanitizeValue(value)
		res.Strategy = c.strategy
		res.Matched = true
		return res
	}

	keys := data.Keys()
	res.Diagnostics = []Diagnostic{{
		Code:        DiagUnresolved,
		Placeholder: raw,
		Message:     fmt.Sprintf("no match found for placeholder: %s", raw),
		Keys:        keys,
	}}
	return res
}

// ResolveAll resolves every name and returns the name->value mapping expected
// by render.Fill together with the collected diagnostics.
func ResolveAll(names []string, data FormData) (map[string]string, []Diagnostic) {
	values := make(map[string]string, len(names))
	var diags []Diagnostic
	for _, name := range names {
		res := Resolve(name, data)
		values[name] = res.Value
		diags = append(diags, res.Diagnostics...)
	}
	return values, diags
}

func candidates(raw string) []candidate {
	alnum := nonAlnum.ReplaceAllString(raw, "")
	return []candidate{
		{raw, StrategyExact},
		{strings.ToLower(raw), StrategyLower},
		{alnum, StrategyAlnum},
		{strings.ToLower(alnum), StrategyAlnumLower},
		{camelCase(raw), StrategyCamel},
		{whitespace.ReplaceAllString(raw, ""), StrategyNoSpace},
		{whitespace.ReplaceAllString(raw, "_"), StrategyUnderscore},
		{nonIdentifier.ReplaceAllString(raw, ""), StrategyIdentifier},
	}
}

// camelCase turns "Full name-of tenant" into "fullNameOfTenant". Runs of
// characters outside [a-zA-Z0-9 ] become a single space, the result is split
// on single spaces, the first word is lowercased and later words are
// capitalized.
func camelCase(s string) string {
	words := strings.Split(nonAlnumSpace.ReplaceAllString(s, " "), " ")
	var b strings.Builder
	for i, w := range words {
		if i == 0 {
			b.WriteString(strings.ToLower(w))
			continue
		}
		if w == "" {
			continue
		}
		// only ASCII letters and digits remain
		b.WriteString(strings.ToUpper(w[:1]))
		b.WriteString(strings.ToLower(w[1:]))
	}
	return b.String()
}

// SanitizeValue converts a form value to the text inserted into a document:
// nil becomes "", placeholder delimiters are removed, line breaks collapse to
// a single space and surrounding whitespace is trimmed.
func SanitizeValue(v any) string {
	if v == nil {
		return ""
	}
	s := stringify(v)
	s = strings.ReplaceAll(s, render.OpenDelim, "")
	s = strings.ReplaceAll(s, render.CloseDelim, "")
	s = lineBreaks.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Keys returns the form-data keys in sorted order.
func (d FormData) Keys() []string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
