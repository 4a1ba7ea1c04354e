package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveColumn(t *testing.T) {
	tests := []struct {
		name    string
		headers []string
		kind    FieldKind
		want    int
	}{
		{"exact accented", []string{"Nome", "E-mail", "Telefone"}, FieldPhone, 2},
		{"exact english", []string{"Name", "Phone"}, FieldName, 0},
		{"contains", []string{"ID", "Telefone Comercial"}, FieldPhone, 1},
		{"header inside alias", []string{"Celu", "Nome"}, FieldPhone, 0},
		{"truncated header", []string{"Nome", "Endere"}, FieldAddress, 1},
		{"prefix on typo", []string{"Nome", "Endereso"}, FieldAddress, 1},
		{"compound header", []string{"Nome", "Tel/Cel"}, FieldPhone, 1},
		{"numbered phone", []string{"Nome", "tel1", "tel2"}, FieldPhone, 1},
		{"accent and case insensitive", []string{"MUNICÍPIO"}, FieldCity, 0},
		{"email variants", []string{"Nome", "Correio Eletrônico"}, FieldEmail, 1},
		{"quoted header", []string{`"Nome"`}, FieldName, 0},
		{"alias order beats header order", []string{"Contato", "Nome"}, FieldName, 1},
		{"not found", []string{"Col1", "Col2"}, FieldEmail, Unmapped},
		{"short header not matched inside alias", []string{"ID"}, FieldCity, Unmapped},
		{"empty headers", nil, FieldName, Unmapped},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveColumn(tt.headers, tt.kind); got != tt.want {
				t.Errorf("ResolveColumn(%q, %s) = %d, want %d", tt.headers, tt.kind, got, tt.want)
			}
		})
	}
}

func TestResolveMapping_CombinedCityState(t *testing.T) {
	mapping, forced := ResolveMapping([]string{"Nome", "E-mail", "Telefone", "Cidade/UF"})

	assert.False(t, forced)
	assert.Equal(t, 0, mapping[FieldName])
	assert.Equal(t, 1, mapping[FieldEmail])
	assert.Equal(t, 2, mapping[FieldPhone])
	assert.Equal(t, 3, mapping[FieldCity])
	assert.Equal(t, 3, mapping[FieldState])
}

func TestResolveMapping_Forced(t *testing.T) {
	tests := []struct {
		name       string
		headers    []string
		wantName   int
		wantEmail  int
		wantPhone  int
		wantForced bool
	}{
		{"three unknown columns", []string{"Col1", "Col2", "Col3"}, 0, 1, 2, true},
		{"two unknown columns", []string{"A1", "B2"}, 0, 1, Unmapped, true},
		{"one recognized field prevents fallback", []string{"Col1", "Email"}, Unmapped, 1, Unmapped, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mapping, forced := ResolveMapping(tt.headers)
			assert.Equal(t, tt.wantForced, forced)
			assert.Equal(t, tt.wantName, mapping[FieldName], "name")
			assert.Equal(t, tt.wantEmail, mapping[FieldEmail], "email")
			assert.Equal(t, tt.wantPhone, mapping[FieldPhone], "phone")
		})
	}
}

func TestResolveMapping_Deterministic(t *testing.T) {
	headers := []string{"Razão Social", "Whatsapp", "Endereço", "Cidade", "UF", "Site", "Segmento"}
	first, _ := ResolveMapping(headers)
	for i := 0; i < 10; i++ {
		again, _ := ResolveMapping(headers)
		assert.Equal(t, first, again)
	}

	assert.Equal(t, map[string]int{
		"name": 0, "phone": 1, "address": 2, "city": 3, "state": 4, "website": 5, "type": 6,
	}, first.Map())
}

func TestApplyOverrides(t *testing.T) {
	mapping := NewColumnMapping()

	rejected := mapping.ApplyOverrides(map[string]int{"Phone": 2, "name": 0}, 3)
	assert.Empty(t, rejected)
	assert.Equal(t, 2, mapping[FieldPhone])
	assert.Equal(t, 0, mapping[FieldName])

	rejected = mapping.ApplyOverrides(map[string]int{"colour": 1, "email": 9}, 3)
	assert.ElementsMatch(t, []string{"colour", "email"}, rejected)
	assert.Equal(t, Unmapped, mapping[FieldEmail])
}
