package types

// Record is one row of a model as returned by the record store. Keys are
// field names, values are whatever the store driver produced for the
// column type.
type Record map[string]interface{}

// FieldType identifies the storage type of a model field. The set mirrors
// the type vocabulary of the record store's schema registry; filtering
// support and value coercion are decided per type.
type FieldType string

// Known field types.
const (
	FieldChar              FieldType = "char"
	FieldText              FieldType = "text"
	FieldSelection         FieldType = "selection"
	FieldInteger           FieldType = "integer"
	FieldFloat             FieldType = "float"
	FieldMonetary          FieldType = "monetary"
	FieldBoolean           FieldType = "boolean"
	FieldDate              FieldType = "date"
	FieldDatetime          FieldType = "datetime"
	FieldMany2One          FieldType = "many2one"
	FieldMany2OneReference FieldType = "many2one_reference"
	FieldOne2Many          FieldType = "one2many"
	FieldMany2Many         FieldType = "many2many"
)

// FieldDescriptor describes one field of a model as reported by the
// schema registry.
type FieldDescriptor struct {
	Name     string    `json:"name"`
	Label    string    `json:"label"`
	Type     FieldType `json:"type"`
	Required bool      `json:"required"`
	// Relation is the target model for relational field types, empty
	// otherwise.
	Relation string `json:"relation,omitempty"`
}

// FieldMap indexes a descriptor slice by field name. The slice keeps the
// model's declaration order; the map is for existence checks.
func FieldMap(fields []FieldDescriptor) map[string]FieldDescriptor {
	m := make(map[string]FieldDescriptor, len(fields))
	for _, f := range fields {
		m[f.Name] = f
	}
	return m
}
