package types

import (
	"fmt"

	"cloud.google.com/go/bigquery"
	bigqueryv2 "google.golang.org/api/bigquery/v2"
)

type FieldType string

const (
	FieldInteger    FieldType = "INTEGER"
	FieldBoolean    FieldType = "BOOLEAN"
	FieldFloat      FieldType = "FLOAT"
	FieldString     FieldType = "STRING"
	FieldBytes      FieldType = "BYTES"
	FieldDate       FieldType = "DATE"
	FieldTimestamp  FieldType = "TIMESTAMP"
	FieldRecord     FieldType = "RECORD"
	FieldTime       FieldType = "TIME"
	FieldDatetime   FieldType = "DATETIME"
	FieldGeography  FieldType = "GEOGRAPHY"
	FieldNumeric    FieldType = "NUMERIC"
	FieldBignumeric FieldType = "BIGNUMERIC"
	FieldInterval   FieldType = "INTERVAL"
	FieldJSON       FieldType = "JSON"
)

type Mode string

const (
	NullableMode Mode = "NULLABLE"
	RequiredMode Mode = "REQUIRED"
	RepeatedMode Mode = "REPEATED"
)

const (
	maxNumericIntegerDigits    = 29
	maxNumericScale            = 9
	maxBignumericIntegerDigits = 38
	maxBignumericScale         = 38
)

func init() {
	for _, v := range []struct {
		fieldType   FieldType
		bqFieldType bigquery.FieldType
	}{
		{FieldInteger, bigquery.IntegerFieldType},
		{FieldBoolean, bigquery.BooleanFieldType},
		{FieldFloat, bigquery.FloatFieldType},
		{FieldString, bigquery.StringFieldType},
		{FieldBytes, bigquery.BytesFieldType},
		{FieldDate, bigquery.DateFieldType},
		{FieldTimestamp, bigquery.TimestampFieldType},
		{FieldRecord, bigquery.RecordFieldType},
		{FieldTime, bigquery.TimeFieldType},
		{FieldDatetime, bigquery.DateTimeFieldType},
		{FieldGeography, bigquery.GeographyFieldType},
		{FieldNumeric, bigquery.NumericFieldType},
		{FieldBignumeric, bigquery.BigNumericFieldType},
		{FieldInterval, bigquery.IntervalFieldType},
		{FieldJSON, bigquery.JSONFieldType},
	} {
		validateFieldType(v.fieldType, v.bqFieldType)
	}
}

func validateFieldType(typ FieldType, fieldType bigquery.FieldType) {
	if string(typ) != string(fieldType) {
		panic(fmt.Sprintf("FieldType is %s but bigquery.FieldType is %s", typ, fieldType))
	}
}

// FieldsToBigQuery converts table columns into a BigQuery schema.
func FieldsToBigQuery(fields []*NameWithType) (bigquery.Schema, error) {
	schema := make(bigquery.Schema, 0, len(fields))
	for _, field := range fields {
		f, err := field.Type.ToBigQuery(field.Name)
		if err != nil {
			return nil, err
		}
		schema = append(schema, f)
	}
	return schema, nil
}

// ToBigQuery returns the BigQuery column named name holding values of t.
// Arrays become REPEATED fields and maps become REPEATED key/value records.
// BigQuery has no array of arrays, so nested arrays are rejected.
func (t *Type) ToBigQuery(name string) (*bigquery.FieldSchema, error) {
	switch t.Kind {
	case Array:
		if t.ElementType.IsArray() {
			return nil, fmt.Errorf("failed to convert field %s: BigQuery does not support nested arrays", name)
		}
		f, err := t.ElementType.ToBigQuery(name)
		if err != nil {
			return nil, err
		}
		f.Repeated = true
		return f, nil
	case Map:
		key, err := t.KeyType.ToBigQuery("key")
		if err != nil {
			return nil, err
		}
		key.Required = true
		value, err := t.ValueType.ToBigQuery("value")
		if err != nil {
			return nil, err
		}
		return &bigquery.FieldSchema{
			Name:     name,
			Type:     bigquery.RecordFieldType,
			Repeated: true,
			Schema:   bigquery.Schema{key, value},
		}, nil
	case Struct:
		schema, err := FieldsToBigQuery(t.FieldTypes)
		if err != nil {
			return nil, err
		}
		return &bigquery.FieldSchema{
			Name:   name,
			Type:   bigquery.RecordFieldType,
			Schema: schema,
		}, nil
	case Decimal:
		return decimalToBigQuery(name, t.Precision, t.DecimalScale())
	case UInt64:
		// uint64 exceeds INT64, keep every value exact.
		return decimalToBigQuery(name, 20, 0)
	}
	fieldType := t.FieldType()
	if fieldType == "" {
		return nil, fmt.Errorf("unsupported bigquery type %s", t.Kind)
	}
	return &bigquery.FieldSchema{
		Name: name,
		Type: bigquery.FieldType(fieldType),
	}, nil
}

func decimalToBigQuery(name string, precision, scale uint32) (*bigquery.FieldSchema, error) {
	integerDigits := precision - scale
	switch {
	case integerDigits <= maxNumericIntegerDigits && scale <= maxNumericScale:
		return &bigquery.FieldSchema{
			Name:      name,
			Type:      bigquery.NumericFieldType,
			Precision: int64(precision),
			Scale:     int64(scale),
		}, nil
	case integerDigits <= maxBignumericIntegerDigits && scale <= maxBignumericScale:
		return &bigquery.FieldSchema{
			Name:      name,
			Type:      bigquery.BigNumericFieldType,
			Precision: int64(precision),
			Scale:     int64(scale),
		}, nil
	}
	return nil, fmt.Errorf("failed to convert field %s: decimal(%d, %d) exceeds BIGNUMERIC", name, precision, scale)
}

// FieldType returns the BigQuery field type of a non-composite type.
func (t *Type) FieldType() FieldType {
	switch t.Kind {
	case Int8, Int16, Int32, Int64, UInt8, UInt16, UInt32:
		return FieldInteger
	case UInt64, Decimal:
		return FieldNumeric
	case Boolean:
		return FieldBoolean
	case Float32, Float64:
		return FieldFloat
	case String, UUID:
		return FieldString
	case Binary:
		return FieldBytes
	case Date:
		return FieldDate
	case Time:
		return FieldTime
	case Timestamp:
		if t.Timezone == "" {
			return FieldDatetime
		}
		return FieldTimestamp
	case Interval:
		return FieldInterval
	case JSON:
		return FieldJSON
	case Struct, Map:
		return FieldRecord
	}
	return ""
}

// SchemaToBigQueryV2 converts a BigQuery schema into its REST representation.
func SchemaToBigQueryV2(schema bigquery.Schema) *bigqueryv2.TableSchema {
	return &bigqueryv2.TableSchema{
		Fields: fieldSchemasToBigQueryV2(schema),
	}
}

func fieldSchemasToBigQueryV2(schema bigquery.Schema) []*bigqueryv2.TableFieldSchema {
	ret := make([]*bigqueryv2.TableFieldSchema, 0, len(schema))
	for _, f := range schema {
		mode := NullableMode
		switch {
		case f.Repeated:
			mode = RepeatedMode
		case f.Required:
			mode = RequiredMode
		}
		ret = append(ret, &bigqueryv2.TableFieldSchema{
			Name:      f.Name,
			Type:      string(f.Type),
			Mode:      string(mode),
			Precision: f.Precision,
			Scale:     f.Scale,
			Fields:    fieldSchemasToBigQueryV2(f.Schema),
		})
	}
	return ret
}
