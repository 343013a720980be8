package types

import (
	"fmt"
	"strings"
)

// FormatType renders t in DuckDB syntax. Parse(t.FormatType()) yields a type equal to t
// for every type produced by Parse.
func (t *Type) FormatType() string {
	switch t.Kind {
	case Boolean:
		return "BOOLEAN"
	case Int8:
		return "TINYINT"
	case Int16:
		return "SMALLINT"
	case Int32:
		return "INTEGER"
	case Int64:
		return "BIGINT"
	case UInt8:
		return "UTINYINT"
	case UInt16:
		return "USMALLINT"
	case UInt32:
		return "UINTEGER"
	case UInt64:
		return "UBIGINT"
	case Float32:
		return "FLOAT"
	case Float64:
		return "DOUBLE"
	case Binary:
		return "BLOB"
	case String:
		return "VARCHAR"
	case Date:
		return "DATE"
	case Time:
		return "TIME"
	case Interval:
		return "INTERVAL"
	case UUID:
		return "UUID"
	case JSON:
		return "JSON"
	case Decimal:
		return fmt.Sprintf("DECIMAL(%d, %d)", t.Precision, t.DecimalScale())
	case Timestamp:
		// Scales other than 0/3/6/9 have no DuckDB spelling.
		scale, ok := t.TimestampScale()
		if !ok {
			return "TIMESTAMP"
		}
		switch scale {
		case 0:
			return "TIMESTAMP_S"
		case 3:
			return "TIMESTAMP_MS"
		case 6:
			return "TIMESTAMP_US"
		case 9:
			return "TIMESTAMP_NS"
		}
		return "TIMESTAMP"
	case Array:
		return t.ElementType.FormatType() + "[]"
	case Map:
		return fmt.Sprintf("MAP(%s, %s)", t.KeyType.FormatType(), t.ValueType.FormatType())
	case Struct:
		formatFields := make([]string, 0, len(t.FieldTypes))
		for _, field := range t.FieldTypes {
			formatFields = append(formatFields, fmt.Sprintf("%s %s", quoteIdent(field.Name), field.Type.FormatType()))
		}
		return fmt.Sprintf("STRUCT(%s)", strings.Join(formatFields, ", "))
	}
	return strings.ToUpper(t.Kind.String())
}

// String renders t in a compact display form such as "array<int32>" or "decimal(10, 3)".
func (t *Type) String() string {
	switch t.Kind {
	case Decimal:
		return fmt.Sprintf("decimal(%d, %d)", t.Precision, t.DecimalScale())
	case Timestamp:
		var args []string
		if t.Timezone != "" {
			args = append(args, fmt.Sprintf("'%s'", t.Timezone))
		}
		if scale, ok := t.TimestampScale(); ok {
			args = append(args, fmt.Sprint(scale))
		}
		if len(args) == 0 {
			return "timestamp"
		}
		return fmt.Sprintf("timestamp(%s)", strings.Join(args, ", "))
	case Array:
		return fmt.Sprintf("array<%s>", t.ElementType)
	case Map:
		return fmt.Sprintf("map<%s, %s>", t.KeyType, t.ValueType)
	case Struct:
		fields := make([]string, 0, len(t.FieldTypes))
		for _, field := range t.FieldTypes {
			fields = append(fields, fmt.Sprintf("%s: %s", field.Name, field.Type))
		}
		return fmt.Sprintf("struct<%s>", strings.Join(fields, ", "))
	}
	return t.Kind.String()
}

func quoteIdent(name string) string {
	if isPlainIdent(name) {
		return name
	}
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func isPlainIdent(name string) bool {
	if name == "" || isDigit(name[0]) {
		return false
	}
	for i := 0; i < len(name); i++ {
		if !isWordChar(name[i]) {
			return false
		}
	}
	return true
}
