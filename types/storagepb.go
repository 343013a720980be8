package types

import (
	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/bigquery/storage/apiv1/storagepb"
)

// FieldsToProto converts table columns into a BigQuery Storage API table schema.
func FieldsToProto(fields []*NameWithType) (*storagepb.TableSchema, error) {
	schema, err := FieldsToBigQuery(fields)
	if err != nil {
		return nil, err
	}
	return SchemaToProto(schema), nil
}

func SchemaToProto(schema bigquery.Schema) *storagepb.TableSchema {
	return &storagepb.TableSchema{
		Fields: fieldSchemasToProto(schema),
	}
}

func fieldSchemasToProto(schema bigquery.Schema) []*storagepb.TableFieldSchema {
	ret := make([]*storagepb.TableFieldSchema, 0, len(schema))
	for _, f := range schema {
		mode := NullableMode
		switch {
		case f.Repeated:
			mode = RepeatedMode
		case f.Required:
			mode = RequiredMode
		}
		ret = append(ret, &storagepb.TableFieldSchema{
			Name:      f.Name,
			Type:      FieldType(f.Type).Proto(),
			Mode:      mode.Proto(),
			Precision: f.Precision,
			Scale:     f.Scale,
			Fields:    fieldSchemasToProto(f.Schema),
		})
	}
	return ret
}

func (t FieldType) Proto() storagepb.TableFieldSchema_Type {
	switch t {
	case FieldInteger:
		return storagepb.TableFieldSchema_INT64
	case FieldBoolean:
		return storagepb.TableFieldSchema_BOOL
	case FieldFloat:
		return storagepb.TableFieldSchema_DOUBLE
	case FieldString:
		return storagepb.TableFieldSchema_STRING
	case FieldBytes:
		return storagepb.TableFieldSchema_BYTES
	case FieldDate:
		return storagepb.TableFieldSchema_DATE
	case FieldTimestamp:
		return storagepb.TableFieldSchema_TIMESTAMP
	case FieldRecord:
		return storagepb.TableFieldSchema_STRUCT
	case FieldTime:
		return storagepb.TableFieldSchema_TIME
	case FieldDatetime:
		return storagepb.TableFieldSchema_DATETIME
	case FieldGeography:
		return storagepb.TableFieldSchema_GEOGRAPHY
	case FieldNumeric:
		return storagepb.TableFieldSchema_NUMERIC
	case FieldBignumeric:
		return storagepb.TableFieldSchema_BIGNUMERIC
	case FieldInterval:
		return storagepb.TableFieldSchema_INTERVAL
	case FieldJSON:
		return storagepb.TableFieldSchema_JSON
	}
	return storagepb.TableFieldSchema_TYPE_UNSPECIFIED
}

func (m Mode) Proto() storagepb.TableFieldSchema_Mode {
	switch m {
	case RequiredMode:
		return storagepb.TableFieldSchema_REQUIRED
	case RepeatedMode:
		return storagepb.TableFieldSchema_REPEATED
	}
	return storagepb.TableFieldSchema_NULLABLE
}
