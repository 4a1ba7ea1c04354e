package core

import (
	"regexp"
	"strings"
	"unicode"
)

// matchStrategy looks for a header matching one of the aliases and returns
// its index, or Unmapped. Headers and aliases are already folded.
type matchStrategy func(headers, aliases []string, patterns []*regexp.Regexp) int

// strategies are tried in order; the first hit wins. Each step is more
// permissive than the one before it.
var strategies = []struct {
	name  string
	match matchStrategy
}{
	{"exact", matchExact},
	{"contains", matchContains},
	{"prefix", matchPrefix},
	{"compound", matchCompound},
	{"numbered", matchNumbered},
}

const (
	prefixLen = 3

	// minReverseLen keeps tiny headers ("id", "n") from matching inside
	// longer aliases ("cidade", "nome").
	minReverseLen = 3
)

// ResolveColumn returns the index of the header that best matches kind, or
// Unmapped when nothing matches.
func ResolveColumn(headers []string, kind FieldKind) int {
	idx, _ := resolveFolded(foldHeaders(headers), kind)
	return idx
}

// ResolveMapping resolves every FieldKind against the header row. When none
// of name, email or phone resolve, columns 0, 1 and 2 are assigned to them
// and forced is true.
func ResolveMapping(headers []string) (mapping ColumnMapping, forced bool) {
	mapping = NewColumnMapping()
	folded := foldHeaders(headers)

	for _, kind := range AllFieldKinds {
		mapping[kind], _ = resolveFolded(folded, kind)
	}

	if mapping.Has(FieldName) || mapping.Has(FieldEmail) || mapping.Has(FieldPhone) {
		return mapping, false
	}

	for i, kind := range []FieldKind{FieldName, FieldEmail, FieldPhone} {
		if i < len(headers) {
			mapping[kind] = i
			forced = true
		}
	}
	return mapping, forced
}

// ApplyOverrides pins fields named in overrides ("phone": 3) to the given
// columns. Unknown field names and out-of-range columns are returned as
// rejected and leave the mapping unchanged for that entry.
func (m *ColumnMapping) ApplyOverrides(overrides map[string]int, columns int) (rejected []string) {
	for field, col := range overrides {
		kind, ok := ParseFieldKind(strings.ToLower(strings.TrimSpace(field)))
		if !ok || col < Unmapped || col >= columns {
			rejected = append(rejected, field)
			continue
		}
		m[kind] = col
	}
	return rejected
}

func resolveFolded(headers []string, kind FieldKind) (int, string) {
	if kind < 0 || kind >= fieldKindCount || len(headers) == 0 {
		return Unmapped, ""
	}
	aliases := fieldAliases[kind]
	patterns := numberedPatterns[kind]

	for _, s := range strategies {
		if idx := s.match(headers, aliases, patterns); idx != Unmapped {
			return idx, s.name
		}
	}
	return Unmapped, ""
}

func foldHeaders(headers []string) []string {
	out := make([]string, len(headers))
	for i, h := range headers {
		out[i] = FoldHeader(CleanCell(h))
	}
	return out
}

func matchExact(headers, aliases []string, _ []*regexp.Regexp) int {
	for _, alias := range aliases {
		for i, h := range headers {
			if h != "" && h == alias {
				return i
			}
		}
	}
	return Unmapped
}

func matchContains(headers, aliases []string, _ []*regexp.Regexp) int {
	for _, alias := range aliases {
		for i, h := range headers {
			if containsEither(h, alias) {
				return i
			}
		}
	}
	return Unmapped
}

func matchPrefix(headers, aliases []string, _ []*regexp.Regexp) int {
	for _, alias := range aliases {
		for i, h := range headers {
			if prefixOverlap(h, alias) {
				return i
			}
		}
	}
	return Unmapped
}

// matchCompound splits headers such as "tel/cel" or "endereco comercial"
// into tokens and matches each token by containment, then by prefix.
func matchCompound(headers, aliases []string, _ []*regexp.Regexp) int {
	tokens := make([][]string, len(headers))
	for i, h := range headers {
		tokens[i] = splitCompound(h)
	}

	for _, alias := range aliases {
		for i := range headers {
			for _, tok := range tokens[i] {
				if containsEither(tok, alias) {
					return i
				}
			}
		}
	}
	for _, alias := range aliases {
		for i := range headers {
			for _, tok := range tokens[i] {
				if prefixOverlap(tok, alias) {
					return i
				}
			}
		}
	}
	return Unmapped
}

func matchNumbered(headers, _ []string, patterns []*regexp.Regexp) int {
	for _, re := range patterns {
		for i, h := range headers {
			if re.MatchString(h) {
				return i
			}
		}
	}
	return Unmapped
}

func containsEither(header, alias string) bool {
	if header == "" || alias == "" {
		return false
	}
	if strings.Contains(header, alias) {
		return true
	}
	return len(header) >= minReverseLen && strings.Contains(alias, header)
}

func prefixOverlap(header, alias string) bool {
	if len(header) < prefixLen || len(alias) < prefixLen {
		return false
	}
	return strings.Contains(alias, header[:prefixLen]) || strings.Contains(header, alias[:prefixLen])
}

func splitCompound(h string) []string {
	return strings.FieldsFunc(h, func(r rune) bool {
		if unicode.IsSpace(r) {
			return true
		}
		return strings.ContainsRune("/-_.,;:|&+", r)
	})
}
