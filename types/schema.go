package types

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrDuplicateColumn is returned when two columns of a table share a name, ignoring case.
var ErrDuplicateColumn = errors.New("duplicate column")

// Schema is the document loaded from YAML or JSON schema files.
type Schema struct {
	Tables []*Table `yaml:"tables" json:"tables" validate:"required,dive"`
}

type Table struct {
	ID      string    `yaml:"id" json:"id" validate:"required"`
	Columns []*Column `yaml:"columns" json:"columns" validate:"required,dive"`
}

// Column holds a type string as emitted by the DuckDB catalog.
type Column struct {
	Name string `yaml:"name" json:"name" validate:"required"`
	Type string `yaml:"type" json:"type" validate:"type"`
}

func NewSchema(tables ...*Table) *Schema {
	return &Schema{Tables: tables}
}

func NewTable(id string, columns ...*Column) *Table {
	return &Table{
		ID:      id,
		Columns: columns,
	}
}

func NewColumn(name, typ string) *Column {
	return &Column{
		Name: name,
		Type: typ,
	}
}

func (c *Column) ParsedType() (*Type, error) {
	typ, err := Parse(c.Type)
	if err != nil {
		return nil, fmt.Errorf("failed to parse type of column %s: %w", c.Name, err)
	}
	return typ, nil
}

// Fields parses every column type and returns the columns in declaration order.
func (t *Table) Fields(ctx context.Context) ([]*NameWithType, error) {
	seen := make(map[string]struct{}, len(t.Columns))
	inputs := make([]string, 0, len(t.Columns))
	for _, col := range t.Columns {
		key := strings.ToLower(col.Name)
		if _, exists := seen[key]; exists {
			return nil, fmt.Errorf("%w %s in table %s", ErrDuplicateColumn, col.Name, t.ID)
		}
		seen[key] = struct{}{}
		inputs = append(inputs, col.Type)
	}
	parsed, err := ParseAll(ctx, inputs)
	if err != nil {
		return nil, fmt.Errorf("failed to parse columns of table %s: %w", t.ID, err)
	}
	fields := make([]*NameWithType, 0, len(parsed))
	for i, typ := range parsed {
		fields = append(fields, NewNameWithType(t.Columns[i].Name, typ))
	}
	return fields, nil
}

// RowType returns the table row as a struct type.
func (t *Table) RowType(ctx context.Context) (*Type, error) {
	fields, err := t.Fields(ctx)
	if err != nil {
		return nil, err
	}
	return NewStructType(fields...), nil
}
