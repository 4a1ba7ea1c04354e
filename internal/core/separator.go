package core

import "strings"

// DetectSeparator picks the field separator of a CSV text by inspecting the
// first data line (the header is skipped because exports often format it
// differently). It returns ';' when that line contains semicolons and either
// has no commas or splits into more fields on ';'. Otherwise it returns ','.
func DetectSeparator(text string) rune {
	lines := strings.SplitN(text, "\n", 3)
	if len(lines) < 2 {
		return ','
	}
	line := strings.TrimRight(lines[1], "\r")

	semicolons := strings.Count(line, ";")
	commas := strings.Count(line, ",")
	if semicolons > 0 && (commas == 0 || semicolons > commas) {
		return ';'
	}
	return ','
}
