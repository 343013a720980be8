package types

// lookupAlias resolves a scalar keyword that must already be upper-cased.
// Composite keywords (STRUCT, MAP) and DECIMAL/NUMERIC are handled by the parser.
func lookupAlias(keyword string) (*Type, bool) {
	switch keyword {
	case "BIGINT", "INT8", "LONG":
		return NewType(Int64), true
	case "INTEGER", "INT4", "INT", "SIGNED":
		return NewType(Int32), true
	case "SMALLINT", "INT2", "SHORT":
		return NewType(Int16), true
	case "TINYINT", "INT1":
		return NewType(Int8), true
	case "UBIGINT":
		return NewType(UInt64), true
	case "UINTEGER":
		return NewType(UInt32), true
	case "USMALLINT":
		return NewType(UInt16), true
	case "UTINYINT":
		return NewType(UInt8), true
	case "BOOLEAN", "BOOL", "LOGICAL":
		return NewType(Boolean), true
	case "BLOB", "BYTEA", "BINARY", "VARBINARY":
		return NewType(Binary), true
	case "DATE":
		return NewType(Date), true
	case "DOUBLE", "FLOAT8":
		return NewType(Float64), true
	case "REAL", "FLOAT4", "FLOAT":
		return NewType(Float32), true
	case "TIME":
		return NewType(Time), true
	case "INTERVAL":
		return NewType(Interval), true
	case "UUID":
		return NewType(UUID), true
	case "VARCHAR", "CHAR", "BPCHAR", "TEXT", "STRING":
		return NewType(String), true
	case "JSON":
		return NewType(JSON), true
	case "TIMESTAMP", "DATETIME", "TIMESTAMP_TZ":
		return NewTimestampType(UTC), true
	case "TIMESTAMP_SEC", "TIMESTAMP_S":
		return NewTimestampTypeWithScale(UTC, 0), true
	case "TIMESTAMP_MS":
		return NewTimestampTypeWithScale(UTC, 3), true
	case "TIMESTAMP_US":
		return NewTimestampTypeWithScale(UTC, 6), true
	case "TIMESTAMP_NS":
		return NewTimestampTypeWithScale(UTC, 9), true
	}
	return nil, false
}
