package types

import (
	"fmt"

	"github.com/apache/arrow/go/v10/arrow"
)

const maxDecimal128Precision = 38

// FieldsToARROW converts table columns into an arrow schema. Every field is nullable.
func FieldsToARROW(fields []*NameWithType) (*arrow.Schema, error) {
	arrowFields := make([]arrow.Field, 0, len(fields))
	for _, field := range fields {
		f, err := NameWithTypeToARROW(field)
		if err != nil {
			return nil, err
		}
		arrowFields = append(arrowFields, *f)
	}
	return arrow.NewSchema(arrowFields, nil), nil
}

func NameWithTypeToARROW(f *NameWithType) (*arrow.Field, error) {
	typ, err := f.Type.ToARROW()
	if err != nil {
		return nil, fmt.Errorf("failed to convert field %s: %w", f.Name, err)
	}
	field := &arrow.Field{Name: f.Name, Type: typ, Nullable: true}
	switch f.Type.Kind {
	case JSON:
		field.Metadata = arrow.MetadataFrom(map[string]string{
			"ARROW:extension:name": "arrow.json",
		})
	case UUID:
		field.Metadata = arrow.MetadataFrom(map[string]string{
			"ARROW:extension:name": "arrow.uuid",
		})
	}
	return field, nil
}

// ToARROW returns the arrow data type holding values of t.
func (t *Type) ToARROW() (arrow.DataType, error) {
	switch t.Kind {
	case Boolean:
		return arrow.FixedWidthTypes.Boolean, nil
	case Int8:
		return arrow.PrimitiveTypes.Int8, nil
	case Int16:
		return arrow.PrimitiveTypes.Int16, nil
	case Int32:
		return arrow.PrimitiveTypes.Int32, nil
	case Int64:
		return arrow.PrimitiveTypes.Int64, nil
	case UInt8:
		return arrow.PrimitiveTypes.Uint8, nil
	case UInt16:
		return arrow.PrimitiveTypes.Uint16, nil
	case UInt32:
		return arrow.PrimitiveTypes.Uint32, nil
	case UInt64:
		return arrow.PrimitiveTypes.Uint64, nil
	case Float32:
		return arrow.PrimitiveTypes.Float32, nil
	case Float64:
		return arrow.PrimitiveTypes.Float64, nil
	case Binary:
		return arrow.BinaryTypes.Binary, nil
	case String, JSON:
		return arrow.BinaryTypes.String, nil
	case Date:
		return arrow.PrimitiveTypes.Date32, nil
	case Time:
		return arrow.FixedWidthTypes.Time64us, nil
	case Interval:
		return arrow.FixedWidthTypes.MonthDayNanoInterval, nil
	case UUID:
		return &arrow.FixedSizeBinaryType{ByteWidth: 16}, nil
	case Decimal:
		if t.Precision == 0 || t.Precision > maxDecimal128Precision {
			return nil, fmt.Errorf("unsupported arrow decimal precision %d", t.Precision)
		}
		return &arrow.Decimal128Type{
			Precision: int32(t.Precision),
			Scale:     int32(t.DecimalScale()),
		}, nil
	case Timestamp:
		unit, err := t.arrowTimeUnit()
		if err != nil {
			return nil, err
		}
		return &arrow.TimestampType{Unit: unit, TimeZone: t.Timezone}, nil
	case Array:
		elem, err := t.ElementType.ToARROW()
		if err != nil {
			return nil, err
		}
		return arrow.ListOf(elem), nil
	case Map:
		key, err := t.KeyType.ToARROW()
		if err != nil {
			return nil, err
		}
		value, err := t.ValueType.ToARROW()
		if err != nil {
			return nil, err
		}
		return arrow.MapOf(key, value), nil
	case Struct:
		fields := make([]arrow.Field, 0, len(t.FieldTypes))
		for _, field := range t.FieldTypes {
			f, err := NameWithTypeToARROW(field)
			if err != nil {
				return nil, err
			}
			fields = append(fields, *f)
		}
		return arrow.StructOf(fields...), nil
	}
	return nil, fmt.Errorf("unsupported arrow type %s", t.Kind)
}

// arrowTimeUnit maps the timestamp scale to an arrow unit.
// Unscaled timestamps are stored with microsecond precision by DuckDB.
func (t *Type) arrowTimeUnit() (arrow.TimeUnit, error) {
	scale, ok := t.TimestampScale()
	if !ok {
		return arrow.Microsecond, nil
	}
	switch scale {
	case 0:
		return arrow.Second, nil
	case 3:
		return arrow.Millisecond, nil
	case 6:
		return arrow.Microsecond, nil
	case 9:
		return arrow.Nanosecond, nil
	}
	return 0, fmt.Errorf("unsupported arrow timestamp scale %d", scale)
}
