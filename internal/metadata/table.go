package metadata

import (
	"github.com/goccy/duckdbtype/types"
)

// Table is a registered table whose column types were parsed at registration.
type Table struct {
	ID     string
	data   *types.Table
	fields []*types.NameWithType
}

func NewTable(data *types.Table, fields []*types.NameWithType) *Table {
	return &Table{
		ID:     data.ID,
		data:   data,
		fields: fields,
	}
}

// Data returns the table as it was declared, with type strings.
func (t *Table) Data() *types.Table {
	return t.data
}

// Fields returns the parsed columns in declaration order.
func (t *Table) Fields() []*types.NameWithType {
	return t.fields
}

// RowType returns the table row as a struct type.
func (t *Table) RowType() *types.Type {
	return types.NewStructType(t.fields...)
}
