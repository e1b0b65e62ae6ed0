package metadata

// FieldType identifies the declared value kind of a custom contact field
type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeDecimal  FieldType = "decimal"
	FieldTypeDatetime FieldType = "datetime"
	FieldTypeState    FieldType = "state"
	FieldTypeDistrict FieldType = "district"
	FieldTypeWard     FieldType = "ward"
)

// IsLocation returns true for the three location hierarchy levels.
func (ft FieldType) IsLocation() bool {
	return ft == FieldTypeState || ft == FieldTypeDistrict || ft == FieldTypeWard
}

// Field describes a custom contact field defined by an org
type Field struct {
	// Key is the unique, lowercase lookup key used in queries.
	Key string

	// Label is the human-readable name shown in UIs.
	Label string

	// Type determines which comparators are legal and how values are parsed.
	Type FieldType
}
