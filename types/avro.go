package types

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/linkedin/goavro/v2"
)

type AVROSchema struct {
	Namespace string             `json:"namespace"`
	Name      string             `json:"name"`
	Type      string             `json:"type"`
	Fields    []*AVROFieldSchema `json:"fields"`
}

type AVROFieldSchema struct {
	Type *AVROType `json:"type"`
	Name string    `json:"name"`
}

// AVROType marshals a canonical type as a nullable avro type.
// RecordName names the avro record generated for struct and map types.
type AVROType struct {
	Type       *Type
	RecordName string
}

func (t *AVROType) MarshalJSON() ([]byte, error) {
	b, err := marshalAVROType(t.Type, t.RecordName)
	if err != nil {
		return nil, err
	}
	return json.Marshal([]interface{}{
		"null",
		json.RawMessage(b),
	})
}

func marshalAVROType(t *Type, recordName string) ([]byte, error) {
	switch t.Kind {
	case Boolean:
		return []byte(`"boolean"`), nil
	case Int8, Int16, Int32, UInt8, UInt16:
		return []byte(`"int"`), nil
	case Int64, UInt32:
		return []byte(`"long"`), nil
	case UInt64:
		return json.Marshal(map[string]interface{}{
			"type":        "bytes",
			"logicalType": "decimal",
			"precision":   20,
			"scale":       0,
		})
	case Float32:
		return []byte(`"float"`), nil
	case Float64:
		return []byte(`"double"`), nil
	case Binary:
		return []byte(`"bytes"`), nil
	case String:
		return []byte(`"string"`), nil
	case UUID:
		return json.Marshal(map[string]string{
			"type":        "string",
			"logicalType": "uuid",
		})
	case JSON:
		return json.Marshal(map[string]string{
			"type":    "string",
			"sqlType": "JSON",
		})
	case Interval:
		return json.Marshal(map[string]string{
			"type":    "string",
			"sqlType": "INTERVAL",
		})
	case Date:
		return json.Marshal(map[string]string{
			"type":        "int",
			"logicalType": "date",
		})
	case Time:
		return json.Marshal(map[string]string{
			"type":        "long",
			"logicalType": "time-micros",
		})
	case Timestamp:
		return json.Marshal(map[string]string{
			"type":        "long",
			"logicalType": avroTimestampLogicalType(t),
		})
	case Decimal:
		return json.Marshal(map[string]interface{}{
			"type":        "bytes",
			"logicalType": "decimal",
			"precision":   t.Precision,
			"scale":       t.DecimalScale(),
		})
	case Array:
		items, err := marshalAVROType(t.ElementType, recordName)
		if err != nil {
			return nil, err
		}
		return json.Marshal(map[string]interface{}{
			"type":  "array",
			"items": json.RawMessage(items),
		})
	case Map:
		return marshalAVROMap(t, recordName)
	case Struct:
		fields := make([]interface{}, 0, len(t.FieldTypes))
		for _, field := range t.FieldTypes {
			b, err := json.Marshal(&AVROType{
				Type:       field.Type,
				RecordName: recordName + "_" + avroName(field.Name),
			})
			if err != nil {
				return nil, err
			}
			fields = append(fields, map[string]interface{}{
				"name": avroName(field.Name),
				"type": json.RawMessage(b),
			})
		}
		return json.Marshal(map[string]interface{}{
			"type":   "record",
			"name":   recordName,
			"fields": fields,
		})
	}
	return nil, fmt.Errorf("unsupported avro type %s", t.Kind)
}

// marshalAVROMap uses an avro map for string keys, and an array of key/value records otherwise.
func marshalAVROMap(t *Type, recordName string) ([]byte, error) {
	value, err := marshalAVROType(t.ValueType, recordName+"_value")
	if err != nil {
		return nil, err
	}
	if t.KeyType.Kind == String {
		return json.Marshal(map[string]interface{}{
			"type":   "map",
			"values": json.RawMessage(value),
		})
	}
	key, err := marshalAVROType(t.KeyType, recordName+"_key")
	if err != nil {
		return nil, err
	}
	return json.Marshal(map[string]interface{}{
		"type": "array",
		"items": map[string]interface{}{
			"type": "record",
			"name": recordName + "_entry",
			"fields": []interface{}{
				map[string]interface{}{"name": "key", "type": json.RawMessage(key)},
				map[string]interface{}{"name": "value", "type": json.RawMessage(value)},
			},
		},
	})
}

func avroTimestampLogicalType(t *Type) string {
	scale, ok := t.TimestampScale()
	if !ok {
		return "timestamp-micros"
	}
	switch {
	case scale <= 3:
		return "timestamp-millis"
	case scale <= 6:
		return "timestamp-micros"
	}
	return "timestamp-nanos"
}

// avroName replaces characters that avro does not allow in names.
func avroName(name string) string {
	var b strings.Builder
	for i := 0; i < len(name); i++ {
		c := name[i]
		if isWordChar(c) {
			b.WriteByte(c)
		} else {
			b.WriteByte('_')
		}
	}
	s := b.String()
	if s == "" || isDigit(s[0]) {
		s = "_" + s
	}
	return s
}

func TableToAVRO(namespace, name string, fields []*NameWithType) *AVROSchema {
	name = avroName(name)
	return &AVROSchema{
		Namespace: namespace,
		Name:      name,
		Type:      "record",
		Fields:    FieldsToAVRO(name, fields),
	}
}

func FieldsToAVRO(recordName string, fields []*NameWithType) []*AVROFieldSchema {
	ret := make([]*AVROFieldSchema, 0, len(fields))
	for _, field := range fields {
		ret = append(ret, &AVROFieldSchema{
			Type: &AVROType{
				Type:       field.Type,
				RecordName: recordName + "_" + avroName(field.Name),
			},
			Name: avroName(field.Name),
		})
	}
	return ret
}

// Codec compiles the schema with goavro, which rejects schemas avro cannot express.
func (s *AVROSchema) Codec() (*goavro.Codec, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to encode avro schema: %w", err)
	}
	codec, err := goavro.NewCodec(string(b))
	if err != nil {
		return nil, fmt.Errorf("invalid avro schema: %w", err)
	}
	return codec, nil
}
