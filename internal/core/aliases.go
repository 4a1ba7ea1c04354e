package core

import "regexp"

// fieldAliases lists the known header spellings per field, already folded
// (lowercase, no diacritics). Order matters: the first alias that matches
// wins within each resolution strategy.
var fieldAliases = [fieldKindCount][]string{
	FieldName: {
		"nome", "name", "razao social", "nome fantasia", "fantasia",
		"empresa", "company", "cliente", "contato", "responsavel",
	},
	FieldEmail: {
		"email", "e-mail", "e mail", "mail", "correio eletronico",
	},
	FieldPhone: {
		"telefone", "phone", "celular", "tel", "whatsapp", "whats",
		"fone", "mobile", "numero", "cel",
	},
	FieldAddress: {
		"endereco", "address", "logradouro", "rua",
	},
	FieldCity: {
		"cidade", "city", "municipio", "localidade",
	},
	FieldState: {
		"estado", "uf", "state", "provincia",
	},
	FieldWebsite: {
		"site", "website", "url", "homepage", "pagina",
	},
	FieldType: {
		"tipo", "type", "categoria", "category", "segmento", "ramo", "atividade",
	},
}

// numberedPatterns catch sequentially numbered columns ("tel1", "telefone2").
var numberedPatterns = [fieldKindCount][]*regexp.Regexp{
	FieldPhone: {
		regexp.MustCompile(`tel[0-9]`),
		regexp.MustCompile(`telefone[0-9]`),
		regexp.MustCompile(`phone[0-9]`),
		regexp.MustCompile(`fone[0-9]`),
		regexp.MustCompile(`celular[0-9]`),
		regexp.MustCompile(`cel[0-9]`),
	},
}

// Aliases returns the folded header aliases for kind.
func Aliases(kind FieldKind) []string {
	if kind < 0 || kind >= fieldKindCount {
		return nil
	}
	return fieldAliases[kind]
}
