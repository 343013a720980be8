package types

import (
	"testing"

	"cloud.google.com/go/bigquery/storage/apiv1/storagepb"
	"github.com/google/go-cmp/cmp"
	"google.golang.org/protobuf/testing/protocmp"
)

func TestFieldsToProto(t *testing.T) {
	fields := []*NameWithType{
		NewNameWithType("id", MustParse("BIGINT")),
		NewNameWithType("amount", MustParse("DECIMAL(10, 2)")),
		NewNameWithType("points", MustParse("STRUCT(x DOUBLE, at TIMESTAMP)[]")),
	}
	got, err := FieldsToProto(fields)
	if err != nil {
		t.Fatal(err)
	}
	expected := &storagepb.TableSchema{
		Fields: []*storagepb.TableFieldSchema{
			{
				Name: "id",
				Type: storagepb.TableFieldSchema_INT64,
				Mode: storagepb.TableFieldSchema_NULLABLE,
			},
			{
				Name:      "amount",
				Type:      storagepb.TableFieldSchema_NUMERIC,
				Mode:      storagepb.TableFieldSchema_NULLABLE,
				Precision: 10,
				Scale:     2,
			},
			{
				Name: "points",
				Type: storagepb.TableFieldSchema_STRUCT,
				Mode: storagepb.TableFieldSchema_REPEATED,
				Fields: []*storagepb.TableFieldSchema{
					{
						Name: "x",
						Type: storagepb.TableFieldSchema_DOUBLE,
						Mode: storagepb.TableFieldSchema_NULLABLE,
					},
					{
						Name: "at",
						Type: storagepb.TableFieldSchema_TIMESTAMP,
						Mode: storagepb.TableFieldSchema_NULLABLE,
					},
				},
			},
		},
	}
	if diff := cmp.Diff(expected, got, protocmp.Transform()); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestFieldTypeProto(t *testing.T) {
	for _, test := range []struct {
		fieldType FieldType
		expected  storagepb.TableFieldSchema_Type
	}{
		{FieldBignumeric, storagepb.TableFieldSchema_BIGNUMERIC},
		{FieldJSON, storagepb.TableFieldSchema_JSON},
		{FieldDatetime, storagepb.TableFieldSchema_DATETIME},
		{FieldInterval, storagepb.TableFieldSchema_INTERVAL},
		{FieldType("UNKNOWN"), storagepb.TableFieldSchema_TYPE_UNSPECIFIED},
	} {
		if got := test.fieldType.Proto(); got != test.expected {
			t.Errorf("%s: expected %s but got %s", test.fieldType, test.expected, got)
		}
	}
}
