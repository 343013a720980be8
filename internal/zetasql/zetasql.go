// Package zetasql maps canonical types onto the ZetaSQL type system.
package zetasql

import (
	"fmt"
	"strings"

	"github.com/goccy/go-zetasql/types"

	duckdbtypes "github.com/goccy/duckdbtype/types"
)

// TypeKind returns the ZetaSQL kind storing values of t.
// ZetaSQL has no 8/16-bit integers, UUID or MAP, so those widen to the closest kind.
func TypeKind(t *duckdbtypes.Type) types.TypeKind {
	switch t.Kind {
	case duckdbtypes.Boolean:
		return types.BOOL
	case duckdbtypes.Int8, duckdbtypes.Int16, duckdbtypes.Int32:
		return types.INT32
	case duckdbtypes.Int64:
		return types.INT64
	case duckdbtypes.UInt8, duckdbtypes.UInt16, duckdbtypes.UInt32:
		return types.UINT32
	case duckdbtypes.UInt64:
		return types.UINT64
	case duckdbtypes.Float32:
		return types.FLOAT
	case duckdbtypes.Float64:
		return types.DOUBLE
	case duckdbtypes.Binary:
		return types.BYTES
	case duckdbtypes.String, duckdbtypes.UUID:
		return types.STRING
	case duckdbtypes.Date:
		return types.DATE
	case duckdbtypes.Time:
		return types.TIME
	case duckdbtypes.Interval:
		return types.INTERVAL
	case duckdbtypes.JSON:
		return types.JSON
	case duckdbtypes.Timestamp:
		if t.Timezone == "" {
			return types.DATETIME
		}
		return types.TIMESTAMP
	case duckdbtypes.Decimal:
		if t.Precision-t.DecimalScale() <= 29 && t.DecimalScale() <= 9 {
			return types.NUMERIC
		}
		return types.BIG_NUMERIC
	case duckdbtypes.Array, duckdbtypes.Map:
		return types.ARRAY
	case duckdbtypes.Struct:
		return types.STRUCT
	}
	return types.UNKNOWN
}

// ToZetaSQLType converts t into a ZetaSQL type.
// A map becomes ARRAY<STRUCT<key, value>>.
func ToZetaSQLType(t *duckdbtypes.Type) (types.Type, error) {
	switch t.Kind {
	case duckdbtypes.Array:
		elem, err := ToZetaSQLType(t.ElementType)
		if err != nil {
			return nil, err
		}
		return types.NewArrayType(elem)
	case duckdbtypes.Map:
		entry, err := ToZetaSQLType(mapEntryType(t))
		if err != nil {
			return nil, err
		}
		return types.NewArrayType(entry)
	case duckdbtypes.Struct:
		fields := make([]*types.StructField, 0, len(t.FieldTypes))
		for _, field := range t.FieldTypes {
			typ, err := ToZetaSQLType(field.Type)
			if err != nil {
				return nil, err
			}
			fields = append(fields, types.NewStructField(field.Name, typ))
		}
		return types.NewStructType(fields)
	}
	kind := TypeKind(t)
	if kind == types.UNKNOWN {
		return nil, fmt.Errorf("cannot convert %s to zetasql type", t.Kind)
	}
	return types.TypeFromKind(kind), nil
}

// FormatType renders t with ZetaSQL type syntax, e.g. ARRAY<STRUCT<`a` INT32>>.
func FormatType(t *duckdbtypes.Type) string {
	switch t.Kind {
	case duckdbtypes.Struct:
		formatTypes := make([]string, 0, len(t.FieldTypes))
		for _, field := range t.FieldTypes {
			formatTypes = append(formatTypes, fmt.Sprintf("`%s` %s", field.Name, FormatType(field.Type)))
		}
		return fmt.Sprintf("STRUCT<%s>", strings.Join(formatTypes, ","))
	case duckdbtypes.Array:
		return fmt.Sprintf("ARRAY<%s>", FormatType(t.ElementType))
	case duckdbtypes.Map:
		return fmt.Sprintf("ARRAY<%s>", FormatType(mapEntryType(t)))
	}
	return TypeKind(t).String()
}

func mapEntryType(t *duckdbtypes.Type) *duckdbtypes.Type {
	return duckdbtypes.NewStructType(
		duckdbtypes.NewNameWithType("key", t.KeyType),
		duckdbtypes.NewNameWithType("value", t.ValueType),
	)
}
