package types

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFormatType(t *testing.T) {
	for _, test := range []struct {
		input    string
		expected string
	}{
		{"INT8", "BIGINT"},
		{"INT4", "INTEGER"},
		{"SHORT", "SMALLINT"},
		{"INT1", "TINYINT"},
		{"UBIGINT", "UBIGINT"},
		{"UINTEGER", "UINTEGER"},
		{"USMALLINT", "USMALLINT"},
		{"UTINYINT", "UTINYINT"},
		{"LOGICAL", "BOOLEAN"},
		{"BYTEA", "BLOB"},
		{"FLOAT8", "DOUBLE"},
		{"REAL", "FLOAT"},
		{"TEXT", "VARCHAR"},
		{"DATE", "DATE"},
		{"TIME", "TIME"},
		{"INTERVAL", "INTERVAL"},
		{"UUID", "UUID"},
		{"JSON", "JSON"},
		{"NUMERIC", "DECIMAL(18, 3)"},
		{"DECIMAL(10,2)", "DECIMAL(10, 2)"},
		{"DATETIME", "TIMESTAMP"},
		{"TIMESTAMP_SEC", "TIMESTAMP_S"},
		{"TIMESTAMP_MS", "TIMESTAMP_MS"},
		{"TIMESTAMP_US", "TIMESTAMP_US"},
		{"TIMESTAMP_NS", "TIMESTAMP_NS"},
		{"int[][]", "INTEGER[][]"},
		{"map(text, float8[])", "MAP(VARCHAR, DOUBLE[])"},
		{"STRUCT(a INT, b TEXT, c MAP(TEXT, FLOAT8[])[])", "STRUCT(a INTEGER, b VARCHAR, c MAP(VARCHAR, DOUBLE[])[])"},
		{`STRUCT("first name" TEXT, "a""b" INT, "1st" INT, _ok INT)`, `STRUCT("first name" VARCHAR, "a""b" INTEGER, "1st" INTEGER, _ok INTEGER)`},
	} {
		test := test
		t.Run(test.input, func(t *testing.T) {
			typ, err := Parse(test.input)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(test.expected, typ.FormatType()); diff != "" {
				t.Errorf("(-want +got):\n%s", diff)
			}
		})
	}
}

func TestFormatTypeRoundTrip(t *testing.T) {
	for _, input := range []string{
		"BIGINT", "INT8", "LONG", "INTEGER", "INT4", "INT", "SIGNED",
		"SMALLINT", "INT2", "SHORT", "TINYINT", "INT1",
		"UBIGINT", "UINTEGER", "USMALLINT", "UTINYINT",
		"BOOLEAN", "BOOL", "LOGICAL", "BLOB", "BYTEA", "BINARY", "VARBINARY",
		"DATE", "DOUBLE", "FLOAT8", "REAL", "FLOAT4", "FLOAT", "TIME", "INTERVAL", "UUID",
		"VARCHAR", "CHAR", "BPCHAR", "TEXT", "STRING", "JSON",
		"NUMERIC", "DECIMAL", "DECIMAL(38, 38)", "DECIMAL(0, 0)",
		"TIMESTAMP", "DATETIME", "TIMESTAMP_TZ", "TIMESTAMP_SEC", "TIMESTAMP_S",
		"TIMESTAMP_MS", "TIMESTAMP_US", "TIMESTAMP_NS",
		"INT[][][]",
		"MAP(INT[], MAP(VARCHAR, UUID))",
		"STRUCT(a INT, b TEXT, c MAP(TEXT, FLOAT8[])[])",
		`STRUCT("x y" STRUCT("""" INT, z DECIMAL(4, 1)[])[], w TIMESTAMP_MS)`,
	} {
		expected, err := Parse(input)
		if err != nil {
			t.Fatal(err)
		}
		formatted := expected.FormatType()
		got, err := Parse(formatted)
		if err != nil {
			t.Fatalf("failed to parse %q formatted from %q: %v", formatted, input, err)
		}
		if diff := cmp.Diff(expected, got); diff != "" {
			t.Errorf("%s (-want +got):\n%s", input, diff)
		}
	}
}

func TestTypeString(t *testing.T) {
	for _, test := range []struct {
		typ      *Type
		expected string
	}{
		{NewType(Int64), "int64"},
		{NewType(UInt8), "uint8"},
		{NewType(String), "string"},
		{NewDecimalType(10, 3), "decimal(10, 3)"},
		{NewTimestampType(UTC), "timestamp('UTC')"},
		{NewTimestampTypeWithScale(UTC, 3), "timestamp('UTC', 3)"},
		{NewTimestampType(""), "timestamp"},
		{NewArrayType(NewType(Int32)), "array<int32>"},
		{NewMapType(NewType(String), NewType(Int64)), "map<string, int64>"},
		{
			NewStructType(
				NewNameWithType("a", NewType(Int32)),
				NewNameWithType("b", NewType(String)),
			),
			"struct<a: int32, b: string>",
		},
	} {
		if diff := cmp.Diff(test.expected, test.typ.String()); diff != "" {
			t.Errorf("(-want +got):\n%s", diff)
		}
	}
}
