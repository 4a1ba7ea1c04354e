package core

// normalize.go holds the string primitives the importer builds on:
//
//   - FoldHeader: accent/case folding used only to compare headers
//   - RepairTable / RepairText: mojibake repair for cell values
//   - CleanCell: spreadsheet export artifacts (formula prefix, quotes)

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// FoldHeader lowercases s, strips diacritics and trims surrounding space.
// "Endereço " becomes "endereco".
func FoldHeader(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.TrimSpace(strings.ToLower(folded))
}

// Repair is one corrupted-sequence substitution.
type Repair struct {
	Broken string
	Fixed  string
}

// RepairTable is an ordered list of substitutions applied by RepairText.
// Longer sequences must come before any sequence they contain.
type RepairTable []Repair

// Extend returns a copy of t with extra substitutions appended.
func (t RepairTable) Extend(extra ...Repair) RepairTable {
	out := make(RepairTable, 0, len(t)+len(extra))
	out = append(out, t...)
	return append(out, extra...)
}

// Apply runs every substitution in order.
func (t RepairTable) Apply(s string) string {
	for _, r := range t {
		if r.Broken != "" && strings.Contains(s, r.Broken) {
			s = strings.ReplaceAll(s, r.Broken, r.Fixed)
		}
	}
	return s
}

// DefaultRepairTable covers Portuguese letters and punctuation as they come
// out of UTF-8 read as Mac Roman ("S√£o") and as Latin-1/Windows-1252
// ("SÃ£o").
var DefaultRepairTable = RepairTable{
	// UTF-8 read as Mac Roman
	{"√°", "á"}, {"√†", "à"}, {"√¢", "â"}, {"√£", "ã"}, {"√§", "ä"},
	{"√©", "é"}, {"√®", "è"}, {"√™", "ê"},
	{"√≠", "í"}, {"√¨", "ì"}, {"√Æ", "î"},
	{"√≥", "ó"}, {"√≤", "ò"}, {"√¥", "ô"}, {"√µ", "õ"}, {"√∂", "ö"},
	{"√∫", "ú"}, {"√π", "ù"}, {"√ª", "û"}, {"√º", "ü"},
	{"√ß", "ç"}, {"√±", "ñ"},
	{"√Å", "Á"}, {"√Ä", "À"}, {"√Ç", "Â"}, {"√É", "Ã"},
	{"√â", "É"}, {"√ä", "Ê"}, {"√ç", "Í"},
	{"√ì", "Ó"}, {"√î", "Ô"}, {"√ï", "Õ"},
	{"√ö", "Ú"}, {"√á", "Ç"},

	// UTF-8 read as Windows-1252 / Latin-1
	{"Ã¡", "á"}, {"Ã\u00a0", "à"}, {"Ã¢", "â"}, {"Ã£", "ã"}, {"Ã¤", "ä"},
	{"Ã©", "é"}, {"Ã¨", "è"}, {"Ãª", "ê"},
	{"Ã­", "í"}, {"Ã¬", "ì"}, {"Ã®", "î"},
	{"Ã³", "ó"}, {"Ã²", "ò"}, {"Ã´", "ô"}, {"Ãµ", "õ"}, {"Ã¶", "ö"},
	{"Ãº", "ú"}, {"Ã¹", "ù"}, {"Ã»", "û"}, {"Ã¼", "ü"},
	{"Ã§", "ç"}, {"Ã±", "ñ"},
	{"Ã\u0081", "Á"}, {"Ã€", "À"}, {"Ã‚", "Â"}, {"Ãƒ", "Ã"},
	{"Ã‰", "É"}, {"ÃŠ", "Ê"}, {"Ã\u008d", "Í"},
	{"Ã“", "Ó"}, {"Ã”", "Ô"}, {"Ã•", "Õ"},
	{"Ãš", "Ú"}, {"Ã‡", "Ç"},
	{"Âº", "º"}, {"Âª", "ª"}, {"Â°", "°"},

	// Punctuation
	{"â€™", "'"}, {"â€˜", "'"}, {"â€œ", "\""}, {"â€\u009d", "\""},
	{"â€“", "-"}, {"â€”", "-"}, {"â€¦", "..."},
	{"‚Äô", "'"}, {"‚Äú", "\""}, {"‚Äù", "\""}, {"‚Äì", "-"}, {"‚Äî", "-"},
	{"\u00a0", " "},
}

var (
	unsafeRunesRegex = regexp.MustCompile(`[^\p{L}\p{N}\s.,;:@/\-_()&'+#]`)
	spaceRunRegex    = regexp.MustCompile(`\s+`)
)

// RepairText fixes known corrupted sequences using table. If replacement
// characters survive, it falls back to keeping only letters, digits and
// basic punctuation, with whitespace collapsed.
func RepairText(s string, table RepairTable) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	s = table.Apply(s)
	if !strings.ContainsRune(s, unicode.ReplacementChar) {
		return s
	}
	s = unsafeRunesRegex.ReplaceAllString(s, "")
	s = spaceRunRegex.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// CleanCell removes common spreadsheet export artifacts from a cell value:
// surrounding whitespace, the Excel formula prefix (="...") and surrounding
// quotes.
func CleanCell(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") && len(s) >= 3 {
		s = s[2 : len(s)-1]
	} else if strings.HasPrefix(s, "=") {
		s = s[1:]
	}

	return strings.TrimSpace(strings.Trim(s, `"'`))
}

func isEmptyRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
