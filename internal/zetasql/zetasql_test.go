package zetasql

import (
	"testing"

	"github.com/goccy/go-zetasql/types"
	"github.com/google/go-cmp/cmp"

	duckdbtypes "github.com/goccy/duckdbtype/types"
)

func TestTypeKind(t *testing.T) {
	for _, test := range []struct {
		input    string
		expected types.TypeKind
	}{
		{"BOOLEAN", types.BOOL},
		{"TINYINT", types.INT32},
		{"INTEGER", types.INT32},
		{"BIGINT", types.INT64},
		{"USMALLINT", types.UINT32},
		{"UBIGINT", types.UINT64},
		{"REAL", types.FLOAT},
		{"DOUBLE", types.DOUBLE},
		{"BLOB", types.BYTES},
		{"VARCHAR", types.STRING},
		{"UUID", types.STRING},
		{"DATE", types.DATE},
		{"TIME", types.TIME},
		{"INTERVAL", types.INTERVAL},
		{"JSON", types.JSON},
		{"TIMESTAMP_NS", types.TIMESTAMP},
		{"DECIMAL(10, 2)", types.NUMERIC},
		{"DECIMAL(38, 20)", types.BIG_NUMERIC},
		{"INT[]", types.ARRAY},
		{"MAP(INT, INT)", types.ARRAY},
		{"STRUCT(a INT)", types.STRUCT},
	} {
		test := test
		t.Run(test.input, func(t *testing.T) {
			if got := TypeKind(duckdbtypes.MustParse(test.input)); got != test.expected {
				t.Fatalf("expected %v but got %v", test.expected, got)
			}
		})
	}
	if got := TypeKind(duckdbtypes.NewTimestampType("")); got != types.DATETIME {
		t.Fatalf("expected %v but got %v", types.DATETIME, got)
	}
}

func TestToZetaSQLType(t *testing.T) {
	for _, test := range []struct {
		input    string
		expected types.TypeKind
	}{
		{"BIGINT", types.INT64},
		{"VARCHAR[]", types.ARRAY},
		{"MAP(VARCHAR, DOUBLE)", types.ARRAY},
		{"STRUCT(a INT, b STRUCT(c DATE)[])", types.STRUCT},
	} {
		test := test
		t.Run(test.input, func(t *testing.T) {
			typ, err := ToZetaSQLType(duckdbtypes.MustParse(test.input))
			if err != nil {
				t.Fatal(err)
			}
			if typ.Kind() != test.expected {
				t.Fatalf("expected %v but got %v", test.expected, typ.Kind())
			}
		})
	}
	if _, err := ToZetaSQLType(duckdbtypes.NewType(duckdbtypes.Unknown)); err == nil {
		t.Fatal("expected error for unknown type")
	}
}

func TestFormatType(t *testing.T) {
	for _, test := range []struct {
		input    string
		expected string
	}{
		{"BIGINT", "INT64"},
		{"VARCHAR[]", "ARRAY<STRING>"},
		{"MAP(VARCHAR, BIGINT)", "ARRAY<STRUCT<`key` STRING,`value` INT64>>"},
		{"STRUCT(a BIGINT, b BOOLEAN)", "STRUCT<`a` INT64,`b` BOOL>"},
	} {
		if diff := cmp.Diff(test.expected, FormatType(duckdbtypes.MustParse(test.input))); diff != "" {
			t.Errorf("(-want +got):\n%s", diff)
		}
	}
}
