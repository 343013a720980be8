package types

import (
	"fmt"
	"strings"
)

// Kind identifies the variant of a canonical Type.
type Kind int

const (
	Unknown Kind = iota
	Boolean
	Int8
	Int16
	Int32
	Int64
	UInt8
	UInt16
	UInt32
	UInt64
	Float32
	Float64
	Binary
	String
	Date
	Time
	Interval
	UUID
	JSON
	Decimal
	Timestamp
	Array
	Map
	Struct
)

const (
	DefaultDecimalPrecision uint32 = 18
	DefaultDecimalScale     uint32 = 3

	// UTC is the timezone assigned to every timestamp alias.
	UTC = "UTC"
)

var kindNames = map[Kind]string{
	Unknown:   "unknown",
	Boolean:   "boolean",
	Int8:      "int8",
	Int16:     "int16",
	Int32:     "int32",
	Int64:     "int64",
	UInt8:     "uint8",
	UInt16:    "uint16",
	UInt32:    "uint32",
	UInt64:    "uint64",
	Float32:   "float32",
	Float64:   "float64",
	Binary:    "binary",
	String:    "string",
	Date:      "date",
	Time:      "time",
	Interval:  "interval",
	UUID:      "uuid",
	JSON:      "json",
	Decimal:   "decimal",
	Timestamp: "timestamp",
	Array:     "array",
	Map:       "map",
	Struct:    "struct",
}

func (k Kind) String() string {
	if name, exists := kindNames[k]; exists {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

func (k Kind) MarshalText() ([]byte, error) {
	if _, exists := kindNames[k]; !exists {
		return nil, fmt.Errorf("unexpected kind %d", int(k))
	}
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(b []byte) error {
	name := strings.ToLower(string(b))
	for kind, kindName := range kindNames {
		if kind == Unknown {
			continue
		}
		if kindName == name {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown kind %q", string(b))
}

// IsScalar reports whether the kind is a leaf without parameters.
func (k Kind) IsScalar() bool {
	return k >= Boolean && k <= JSON
}

// Type is the canonical type descriptor produced by Parse.
// Only the fields relevant to Kind are populated.
// A Type must not be modified after construction.
type Type struct {
	Kind Kind `json:"kind"`

	// Decimal
	Precision uint32 `json:"precision,omitempty"`

	// Decimal scale is always set. Timestamp scale is nil when unscaled.
	Scale *uint32 `json:"scale,omitempty"`

	// Timestamp
	Timezone string `json:"timezone,omitempty"`

	// Array
	ElementType *Type `json:"elementType,omitempty"`

	// Map
	KeyType   *Type `json:"keyType,omitempty"`
	ValueType *Type `json:"valueType,omitempty"`

	// Struct
	FieldTypes []*NameWithType `json:"fieldTypes,omitempty"`
}

type NameWithType struct {
	Name string `json:"name"`
	Type *Type  `json:"type"`
}

func NewNameWithType(name string, typ *Type) *NameWithType {
	return &NameWithType{Name: name, Type: typ}
}

// NewType creates a type without parameters.
// Decimal gets the default precision and scale, Timestamp is UTC and unscaled.
func NewType(kind Kind) *Type {
	switch kind {
	case Decimal:
		return NewDecimalType(DefaultDecimalPrecision, DefaultDecimalScale)
	case Timestamp:
		return NewTimestampType(UTC)
	}
	return &Type{Kind: kind}
}

func NewDecimalType(precision, scale uint32) *Type {
	return &Type{Kind: Decimal, Precision: precision, Scale: &scale}
}

func NewTimestampType(timezone string) *Type {
	return &Type{Kind: Timestamp, Timezone: timezone}
}

func NewTimestampTypeWithScale(timezone string, scale uint32) *Type {
	return &Type{Kind: Timestamp, Timezone: timezone, Scale: &scale}
}

func NewArrayType(elem *Type) *Type {
	return &Type{Kind: Array, ElementType: elem}
}

func NewMapType(key, value *Type) *Type {
	return &Type{Kind: Map, KeyType: key, ValueType: value}
}

func NewStructType(fields ...*NameWithType) *Type {
	return &Type{Kind: Struct, FieldTypes: fields}
}

func (t *Type) IsArray() bool {
	return t.Kind == Array
}

func (t *Type) IsMap() bool {
	return t.Kind == Map
}

func (t *Type) IsStruct() bool {
	return t.Kind == Struct
}

func (t *Type) IsComposite() bool {
	return t.IsArray() || t.IsMap() || t.IsStruct()
}

// DecimalScale returns the decimal scale, or zero for non-decimal types.
func (t *Type) DecimalScale() uint32 {
	if t.Kind != Decimal || t.Scale == nil {
		return 0
	}
	return *t.Scale
}

// TimestampScale returns the fractional-second digits of a timestamp.
// ok is false for unscaled timestamps and for non-timestamp types.
func (t *Type) TimestampScale() (scale uint32, ok bool) {
	if t.Kind != Timestamp || t.Scale == nil {
		return 0, false
	}
	return *t.Scale, true
}

// Field looks up a struct field by its exact name.
func (t *Type) Field(name string) (*Type, bool) {
	for _, field := range t.FieldTypes {
		if field.Name == name {
			return field.Type, true
		}
	}
	return nil, false
}

// Equal reports whether t and other describe the same type.
// Struct comparison is sensitive to field order.
func (t *Type) Equal(other *Type) bool {
	if t == nil || other == nil {
		return t == other
	}
	if t.Kind != other.Kind {
		return false
	}
	switch t.Kind {
	case Decimal:
		return t.Precision == other.Precision && t.DecimalScale() == other.DecimalScale()
	case Timestamp:
		if t.Timezone != other.Timezone {
			return false
		}
		scale, hasScale := t.TimestampScale()
		otherScale, otherHasScale := other.TimestampScale()
		return hasScale == otherHasScale && scale == otherScale
	case Array:
		return t.ElementType.Equal(other.ElementType)
	case Map:
		return t.KeyType.Equal(other.KeyType) && t.ValueType.Equal(other.ValueType)
	case Struct:
		if len(t.FieldTypes) != len(other.FieldTypes) {
			return false
		}
		for i, field := range t.FieldTypes {
			otherField := other.FieldTypes[i]
			if field.Name != otherField.Name || !field.Type.Equal(otherField.Type) {
				return false
			}
		}
		return true
	}
	return true
}
