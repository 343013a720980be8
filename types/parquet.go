package types

import (
	"fmt"

	"github.com/segmentio/parquet-go"
)

// FieldsToParquet converts table columns into a parquet schema.
// parquet.Group orders columns by name, so declaration order is not kept.
func FieldsToParquet(name string, fields []*NameWithType) (*parquet.Schema, error) {
	group, err := fieldsToParquetGroup(fields)
	if err != nil {
		return nil, err
	}
	return parquet.NewSchema(name, group), nil
}

func fieldsToParquetGroup(fields []*NameWithType) (parquet.Group, error) {
	group := make(parquet.Group, len(fields))
	for _, field := range fields {
		node, err := field.Type.ToParquet()
		if err != nil {
			return nil, fmt.Errorf("failed to convert field %s: %w", field.Name, err)
		}
		group[field.Name] = parquet.Optional(node)
	}
	return group, nil
}

// ToParquet returns the parquet node holding values of t.
func (t *Type) ToParquet() (parquet.Node, error) {
	switch t.Kind {
	case Boolean:
		return parquet.Leaf(parquet.BooleanType), nil
	case Int8:
		return parquet.Int(8), nil
	case Int16:
		return parquet.Int(16), nil
	case Int32:
		return parquet.Int(32), nil
	case Int64:
		return parquet.Int(64), nil
	case UInt8:
		return parquet.Uint(8), nil
	case UInt16:
		return parquet.Uint(16), nil
	case UInt32:
		return parquet.Uint(32), nil
	case UInt64:
		return parquet.Uint(64), nil
	case Float32:
		return parquet.Leaf(parquet.FloatType), nil
	case Float64:
		return parquet.Leaf(parquet.DoubleType), nil
	case Binary:
		return parquet.Leaf(parquet.ByteArrayType), nil
	case String:
		return parquet.String(), nil
	case JSON:
		return parquet.JSON(), nil
	case UUID:
		return parquet.UUID(), nil
	case Date:
		return parquet.Date(), nil
	case Time:
		return parquet.Time(parquet.Microsecond), nil
	case Interval:
		return parquet.Leaf(parquet.FixedLenByteArrayType(12)), nil
	case Timestamp:
		return parquet.Timestamp(parquetTimeUnit(t)), nil
	case Decimal:
		typ, err := parquetDecimalType(t.Precision)
		if err != nil {
			return nil, err
		}
		return parquet.Decimal(int(t.DecimalScale()), int(t.Precision), typ), nil
	case Array:
		elem, err := t.ElementType.ToParquet()
		if err != nil {
			return nil, err
		}
		return parquet.List(parquet.Optional(elem)), nil
	case Map:
		key, err := t.KeyType.ToParquet()
		if err != nil {
			return nil, err
		}
		value, err := t.ValueType.ToParquet()
		if err != nil {
			return nil, err
		}
		return parquet.Map(key, parquet.Optional(value)), nil
	case Struct:
		return fieldsToParquetGroup(t.FieldTypes)
	}
	return nil, fmt.Errorf("unsupported parquet type %s", t.Kind)
}

// parquetTimeUnit rounds the timestamp scale up to a unit parquet supports.
func parquetTimeUnit(t *Type) parquet.TimeUnit {
	scale, ok := t.TimestampScale()
	if !ok {
		return parquet.Microsecond
	}
	switch {
	case scale <= 3:
		return parquet.Millisecond
	case scale <= 6:
		return parquet.Microsecond
	}
	return parquet.Nanosecond
}

func parquetDecimalType(precision uint32) (parquet.Type, error) {
	switch {
	case precision == 0:
	case precision <= 9:
		return parquet.Int32Type, nil
	case precision <= 18:
		return parquet.Int64Type, nil
	case precision <= 38:
		return parquet.FixedLenByteArrayType(16), nil
	case precision <= 76:
		return parquet.FixedLenByteArrayType(32), nil
	}
	return nil, fmt.Errorf("unsupported parquet decimal precision %d", precision)
}
