package core

import (
	"context"
	"time"
)

// FieldKind is a semantic lead attribute that a spreadsheet column can be
// mapped onto.
type FieldKind int

const (
	FieldName FieldKind = iota
	FieldEmail
	FieldPhone
	FieldAddress
	FieldCity
	FieldState
	FieldWebsite
	FieldType

	fieldKindCount
)

// AllFieldKinds lists every FieldKind in resolution order.
var AllFieldKinds = []FieldKind{
	FieldName, FieldEmail, FieldPhone, FieldAddress,
	FieldCity, FieldState, FieldWebsite, FieldType,
}

var fieldKindNames = [fieldKindCount]string{
	FieldName:    "name",
	FieldEmail:   "email",
	FieldPhone:   "phone",
	FieldAddress: "address",
	FieldCity:    "city",
	FieldState:   "state",
	FieldWebsite: "website",
	FieldType:    "type",
}

// String returns the lowercase name of the field ("name", "email", ...).
func (k FieldKind) String() string {
	if k < 0 || k >= fieldKindCount {
		return "unknown"
	}
	return fieldKindNames[k]
}

// ParseFieldKind converts a field name back to its FieldKind.
func ParseFieldKind(s string) (FieldKind, bool) {
	for i, name := range fieldKindNames {
		if name == s {
			return FieldKind(i), true
		}
	}
	return 0, false
}

// Unmapped marks a FieldKind with no source column.
const Unmapped = -1

// ColumnMapping maps each FieldKind to a column index, or Unmapped.
type ColumnMapping [fieldKindCount]int

// NewColumnMapping returns a mapping with every field unmapped.
func NewColumnMapping() ColumnMapping {
	var m ColumnMapping
	for i := range m {
		m[i] = Unmapped
	}
	return m
}

// Has reports whether kind is mapped to a column.
func (m ColumnMapping) Has(kind FieldKind) bool {
	return m[kind] != Unmapped
}

// Map returns the mapped fields keyed by field name, for logging and JSON.
func (m ColumnMapping) Map() map[string]int {
	out := make(map[string]int, len(m))
	for _, kind := range AllFieldKinds {
		if m.Has(kind) {
			out[kind.String()] = m[kind]
		}
	}
	return out
}

// RawTable is a header row followed by data rows, as produced by a reader.
// Rows may be shorter than the header; missing cells read as "".
type RawTable [][]string

// Header returns the first row, or nil for an empty table.
func (t RawTable) Header() []string {
	if len(t) == 0 {
		return nil
	}
	return t[0]
}

// DataRows returns every row after the header.
func (t RawTable) DataRows() [][]string {
	if len(t) < 2 {
		return nil
	}
	return t[1:]
}

// LeadRecord is one imported lead. Optional fields are empty when absent.
type LeadRecord struct {
	ID       int64  `json:"id,omitempty"`
	SearchID int64  `json:"searchId"`
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Address  string `json:"address,omitempty"`
	Cidade   string `json:"cidade,omitempty"`
	Estado   string `json:"estado,omitempty"`
	Site     string `json:"site,omitempty"`
	Type     string `json:"type,omitempty"`
}

// Identifiable reports whether the record carries a name, email or phone.
func (l LeadRecord) Identifiable() bool {
	return l.Name != "" || l.Email != "" || l.Phone != ""
}

// ImportResult summarizes one import. It is built once and never mutated.
type ImportResult struct {
	ImportID       string `json:"importId,omitempty"`
	ImportedLeads  int    `json:"importedLeads"`
	ErrorLeads     int    `json:"errorLeads"`
	DuplicateLeads int    `json:"duplicateLeads"`
	Message        string `json:"message"`
}

// LeadStore is the storage collaborator the engine hands records to.
type LeadStore interface {
	// CreateProspectingResult persists one lead and returns the stored copy.
	CreateProspectingResult(ctx context.Context, lead LeadRecord) (LeadRecord, error)

	// GetLeadBySearchAndPhone returns nil, nil when no lead matches.
	GetLeadBySearchAndPhone(ctx context.Context, searchID int64, phone string) (*LeadRecord, error)
}

// Format is the input file format selected for an upload.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// Upload is a buffered uploaded file handed to the engine.
type Upload struct {
	FileName    string
	ContentType string
	Data        []byte

	// Mapping optionally pins field names ("phone", ...) to column indices,
	// bypassing header resolution for those fields.
	Mapping map[string]int
}

// ImportHistoryEntry is one recorded import for a search.
type ImportHistoryEntry struct {
	ID             string    `json:"id"`
	SearchID       int64     `json:"searchId"`
	FileName       string    `json:"fileName"`
	Format         Format    `json:"format"`
	ImportedLeads  int       `json:"importedLeads"`
	ErrorLeads     int       `json:"errorLeads"`
	DuplicateLeads int       `json:"duplicateLeads"`
	ForcedMapping  bool      `json:"forcedMapping"`
	DurationMs     int64     `json:"durationMs"`
	ClientIP       string    `json:"clientIp,omitempty"`
	UserAgent      string    `json:"userAgent,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}
