package main

import (
	"fmt"
	"strings"

	"cloud.google.com/go/bigquery"
	"github.com/goccy/go-json"
	"github.com/goccy/go-yaml"

	"github.com/goccy/duckdbtype/internal/zetasql"
	"github.com/goccy/duckdbtype/types"
)

type outputFormat string

const (
	outputFormatDuckDB   outputFormat = "duckdb"
	outputFormatDisplay  outputFormat = "display"
	outputFormatJSON     outputFormat = "json"
	outputFormatYAML     outputFormat = "yaml"
	outputFormatARROW    outputFormat = "arrow"
	outputFormatAVRO     outputFormat = "avro"
	outputFormatBigQuery outputFormat = "bigquery"
	outputFormatZetaSQL  outputFormat = "zetasql"
)

// columnName names the single column used by formats that describe columns rather than types.
const columnName = "value"

func renderType(input string, format outputFormat) (string, error) {
	typ, err := types.Parse(input)
	if err != nil {
		return "", err
	}
	switch format {
	case outputFormatDuckDB:
		return typ.FormatType(), nil
	case outputFormatDisplay:
		return typ.String(), nil
	case outputFormatJSON:
		b, err := json.Marshal(typ)
		if err != nil {
			return "", err
		}
		return string(b), nil
	case outputFormatYAML:
		b, err := yaml.Marshal(typ)
		if err != nil {
			return "", err
		}
		return strings.TrimSuffix(string(b), "\n"), nil
	case outputFormatARROW:
		dataType, err := typ.ToARROW()
		if err != nil {
			return "", err
		}
		return dataType.String(), nil
	case outputFormatAVRO:
		b, err := json.Marshal(&types.AVROType{Type: typ, RecordName: columnName})
		if err != nil {
			return "", err
		}
		return string(b), nil
	case outputFormatBigQuery:
		field, err := typ.ToBigQuery(columnName)
		if err != nil {
			return "", err
		}
		b, err := json.Marshal(types.SchemaToBigQueryV2(bigquery.Schema{field}).Fields[0])
		if err != nil {
			return "", err
		}
		return string(b), nil
	case outputFormatZetaSQL:
		if _, err := zetasql.ToZetaSQLType(typ); err != nil {
			return "", err
		}
		return zetasql.FormatType(typ), nil
	}
	return "", fmt.Errorf("unsupported output format %q", format)
}
