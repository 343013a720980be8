package server_test

import (
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"
	bigqueryv2 "google.golang.org/api/bigquery/v2"

	internaltypes "github.com/goccy/duckdbtype/internal/types"
	"github.com/goccy/duckdbtype/server"
	"github.com/goccy/duckdbtype/types"
)

func newTestServer(t *testing.T) (*server.Server, string) {
	t.Helper()
	typeServer, err := server.New()
	if err != nil {
		t.Fatal(err)
	}
	if err := typeServer.Load(server.YAMLSource(filepath.Join("testdata", "data.yaml"))); err != nil {
		t.Fatal(err)
	}
	testServer := typeServer.TestServer()
	t.Cleanup(func() {
		testServer.Close()
		typeServer.Close()
	})
	return typeServer, testServer.URL
}

func doRequest(t *testing.T, method, url string, body interface{}, v interface{}) int {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer res.Body.Close()
	if v != nil {
		if err := json.NewDecoder(res.Body).Decode(v); err != nil {
			t.Fatal(err)
		}
	}
	return res.StatusCode
}

func TestParseTypes(t *testing.T) {
	_, url := newTestServer(t)

	var res internaltypes.ParseResponse
	status := doRequest(t, http.MethodPost, url+"/types:parse", &internaltypes.ParseRequest{
		Types: []string{"INT[]", "FOO", "STRUCT(a INT, b MAP(TEXT, FLOAT8[])[])", "DECIMAL(3, 10)"},
	}, &res)
	if status != http.StatusOK {
		t.Fatalf("unexpected status code %d", status)
	}
	if len(res.Results) != 4 {
		t.Fatalf("expected 4 results but got %d", len(res.Results))
	}
	if diff := cmp.Diff(
		&internaltypes.ParseResult{
			Input:   "INT[]",
			Type:    types.NewArrayType(types.NewType(types.Int32)),
			DuckDB:  "INTEGER[]",
			Display: "array<int32>",
		},
		res.Results[0],
	); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(
		&internaltypes.ParseResult{
			Input: "FOO",
			Error: &internaltypes.ParseErrorDetails{
				Reason:   types.UnknownType,
				Message:  "unknown type FOO",
				Position: 0,
				Token:    "FOO",
			},
		},
		res.Results[1],
	); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if diff := cmp.Diff("STRUCT(a INTEGER, b MAP(VARCHAR, DOUBLE[])[])", res.Results[2].DuckDB); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if res.Results[3].Error == nil || res.Results[3].Error.Reason != types.InvalidDecimalParams {
		t.Fatalf("expected %s error but got %+v", types.InvalidDecimalParams, res.Results[3])
	}
}

func TestParseTypesInvalidRequest(t *testing.T) {
	_, url := newTestServer(t)

	res, err := http.Post(url+"/types:parse", "application/json", strings.NewReader("{"))
	if err != nil {
		t.Fatal(err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("unexpected status code %d", res.StatusCode)
	}
	var errRes server.ResponseError
	if err := json.NewDecoder(res.Body).Decode(&errRes); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(server.Invalid, errRes.Error.Errors[0].Reason); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestParseTypesGzip(t *testing.T) {
	_, url := newTestServer(t)

	var buf bytes.Buffer
	writer := gzip.NewWriter(&buf)
	if _, err := writer.Write([]byte(`{"types":["UUID"]}`)); err != nil {
		t.Fatal(err)
	}
	if err := writer.Close(); err != nil {
		t.Fatal(err)
	}
	req, err := http.NewRequest(http.MethodPost, url+"/types:parse", &buf)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Encoding", "gzip")
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer res.Body.Close()
	if res.Header.Get("X-Request-Id") == "" {
		t.Fatal("missing request id")
	}
	var parsed internaltypes.ParseResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff("UUID", parsed.Results[0].DuckDB); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestTables(t *testing.T) {
	_, url := newTestServer(t)

	var list internaltypes.TableList
	if status := doRequest(t, http.MethodGet, url+"/tables", nil, &list); status != http.StatusOK {
		t.Fatalf("unexpected status code %d", status)
	}
	var ids []string
	for _, table := range list.Tables {
		ids = append(ids, table.ID)
	}
	if diff := cmp.Diff([]string{"events", "users"}, ids); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}

	var table internaltypes.TableResponse
	if status := doRequest(t, http.MethodGet, url+"/duckdbtype/v1/tables/events", nil, &table); status != http.StatusOK {
		t.Fatalf("unexpected status code %d", status)
	}
	var formatTypes []string
	for _, column := range table.Columns {
		formatTypes = append(formatTypes, column.DuckDB)
	}
	if diff := cmp.Diff([]string{"BIGINT", "VARCHAR[]", "DECIMAL(10, 2)", "TIMESTAMP_MS"}, formatTypes); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}

	var errRes server.ResponseError
	if status := doRequest(t, http.MethodGet, url+"/tables/missing", nil, &errRes); status != http.StatusNotFound {
		t.Fatalf("unexpected status code %d", status)
	}
	if diff := cmp.Diff(server.NotFound, errRes.Error.Errors[0].Reason); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestInsertTable(t *testing.T) {
	_, url := newTestServer(t)

	var table internaltypes.TableResponse
	status := doRequest(t, http.MethodPost, url+"/tables", types.NewTable(
		"orders",
		types.NewColumn("id", "UBIGINT"),
		types.NewColumn("items", "STRUCT(sku VARCHAR, qty INT)[]"),
	), &table)
	if status != http.StatusOK {
		t.Fatalf("unexpected status code %d", status)
	}
	if diff := cmp.Diff("STRUCT(sku VARCHAR, qty INTEGER)[]", table.Columns[1].DuckDB); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}

	t.Run("duplicate", func(t *testing.T) {
		var errRes server.ResponseError
		status := doRequest(t, http.MethodPost, url+"/tables", types.NewTable(
			"orders",
			types.NewColumn("id", "INT"),
		), &errRes)
		if status != http.StatusConflict {
			t.Fatalf("unexpected status code %d", status)
		}
		if diff := cmp.Diff(server.Duplicate, errRes.Error.Errors[0].Reason); diff != "" {
			t.Errorf("(-want +got):\n%s", diff)
		}
	})
	t.Run("invalid type", func(t *testing.T) {
		var errRes server.ResponseError
		status := doRequest(t, http.MethodPost, url+"/tables", types.NewTable(
			"broken",
			types.NewColumn("id", "STRUCT(a INT"),
		), &errRes)
		if status != http.StatusBadRequest {
			t.Fatalf("unexpected status code %d", status)
		}
		serverErr := errRes.Error.Errors[0]
		if diff := cmp.Diff(
			&server.ServerError{
				Reason:    server.Invalid,
				Location:  "STRUCT(a INT",
				DebugInfo: string(types.UnexpectedToken),
				Message:   serverErr.Message,
			},
			serverErr,
		); diff != "" {
			t.Errorf("(-want +got):\n%s", diff)
		}
	})
	t.Run("duplicate column", func(t *testing.T) {
		var errRes server.ResponseError
		status := doRequest(t, http.MethodPost, url+"/tables", types.NewTable(
			"pairs",
			types.NewColumn("a", "INT"),
			types.NewColumn("A", "TEXT"),
		), &errRes)
		if status != http.StatusBadRequest {
			t.Fatalf("unexpected status code %d", status)
		}
		if diff := cmp.Diff(server.Invalid, errRes.Error.Errors[0].Reason); diff != "" {
			t.Errorf("(-want +got):\n%s", diff)
		}
		if status := doRequest(t, http.MethodGet, url+"/tables/pairs", nil, nil); status != http.StatusNotFound {
			t.Fatalf("unexpected status code %d", status)
		}
	})
	t.Run("missing id", func(t *testing.T) {
		status := doRequest(t, http.MethodPost, url+"/tables", types.NewTable(
			"",
			types.NewColumn("id", "INT"),
		), nil)
		if status != http.StatusBadRequest {
			t.Fatalf("unexpected status code %d", status)
		}
	})
}

func TestDeleteTable(t *testing.T) {
	_, url := newTestServer(t)

	if status := doRequest(t, http.MethodDelete, url+"/tables/users", nil, nil); status != http.StatusNoContent {
		t.Fatalf("unexpected status code %d", status)
	}
	if status := doRequest(t, http.MethodGet, url+"/tables/users", nil, nil); status != http.StatusNotFound {
		t.Fatalf("unexpected status code %d", status)
	}
}

func TestTableSchema(t *testing.T) {
	_, url := newTestServer(t)

	for _, format := range []server.SchemaFormat{
		server.SchemaFormatARROW,
		server.SchemaFormatAVRO,
		server.SchemaFormatBigQuery,
		server.SchemaFormatStorage,
		server.SchemaFormatParquet,
		server.SchemaFormatZetaSQL,
	} {
		format := format
		for _, tableID := range []string{"events", "users"} {
			tableID := tableID
			t.Run(fmt.Sprintf("%s/%s", format, tableID), func(t *testing.T) {
				var res internaltypes.SchemaResponse
				status := doRequest(t, http.MethodGet, fmt.Sprintf("%s/tables/%s/schema?format=%s", url, tableID, format), nil, &res)
				if status != http.StatusOK {
					t.Fatalf("unexpected status code %d", status)
				}
				if res.TableID != tableID || res.Format != string(format) {
					t.Fatalf("unexpected response %s/%s", res.TableID, res.Format)
				}
				if len(res.Schema) == 0 {
					t.Fatal("empty schema")
				}
			})
		}
	}

	t.Run("bigquery", func(t *testing.T) {
		var res internaltypes.SchemaResponse
		if status := doRequest(t, http.MethodGet, url+"/tables/events/schema", nil, &res); status != http.StatusOK {
			t.Fatalf("unexpected status code %d", status)
		}
		var schema bigqueryv2.TableSchema
		if err := json.Unmarshal(res.Schema, &schema); err != nil {
			t.Fatal(err)
		}
		var fieldTypes []string
		for _, field := range schema.Fields {
			fieldTypes = append(fieldTypes, fmt.Sprintf("%s %s %s", field.Name, field.Type, field.Mode))
		}
		if diff := cmp.Diff([]string{
			"id INTEGER NULLABLE",
			"tags STRING REPEATED",
			"amount NUMERIC NULLABLE",
			"created_at TIMESTAMP NULLABLE",
		}, fieldTypes); diff != "" {
			t.Errorf("(-want +got):\n%s", diff)
		}
	})
	t.Run("zetasql", func(t *testing.T) {
		var res internaltypes.SchemaResponse
		if status := doRequest(t, http.MethodGet, url+"/tables/events/schema?format=zetasql", nil, &res); status != http.StatusOK {
			t.Fatalf("unexpected status code %d", status)
		}
		var rowType string
		if err := json.Unmarshal(res.Schema, &rowType); err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff("STRUCT<`id` INT64,`tags` ARRAY<STRING>,`amount` NUMERIC,`created_at` TIMESTAMP>", rowType); diff != "" {
			t.Errorf("(-want +got):\n%s", diff)
		}
	})
	t.Run("unknown format", func(t *testing.T) {
		if status := doRequest(t, http.MethodGet, url+"/tables/events/schema?format=orc", nil, nil); status != http.StatusBadRequest {
			t.Fatalf("unexpected status code %d", status)
		}
	})
	t.Run("unsupported type", func(t *testing.T) {
		if status := doRequest(t, http.MethodPost, url+"/tables", types.NewTable(
			"nested",
			types.NewColumn("matrix", "INT[][]"),
		), nil); status != http.StatusOK {
			t.Fatalf("unexpected status code %d", status)
		}
		if status := doRequest(t, http.MethodGet, url+"/tables/nested/schema?format=bigquery", nil, nil); status != http.StatusBadRequest {
			t.Fatalf("unexpected status code %d", status)
		}
	})
}

func TestUnknownEndpoint(t *testing.T) {
	_, url := newTestServer(t)

	var errRes server.ResponseError
	if status := doRequest(t, http.MethodGet, url+"/datasets", nil, &errRes); status != http.StatusNotFound {
		t.Fatalf("unexpected status code %d", status)
	}
	if diff := cmp.Diff(http.StatusNotFound, errRes.Error.Code); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestLoad(t *testing.T) {
	ctx := context.Background()
	typeServer, err := server.New()
	if err != nil {
		t.Fatal(err)
	}
	defer typeServer.Close()

	if err := typeServer.Load(server.YAMLSource(filepath.Join("testdata", "invalid.yaml"))); err == nil {
		t.Fatal("expected error for invalid schema")
	}
	if err := typeServer.Load(
		server.JSONSource(filepath.Join("testdata", "data.json")),
		server.StructSource(types.NewTable("t", types.NewColumn("a", "INT"))),
	); err != nil {
		t.Fatal(err)
	}
	if err := typeServer.AddTable(ctx, types.NewTable("bad", types.NewColumn("a", "FOO"))); err == nil {
		t.Fatal("expected error for invalid column type")
	}
	if err := typeServer.SetLogLevel(server.LogLevelDebug); err != nil {
		t.Fatal(err)
	}
	if err := typeServer.SetLogFormat(server.LogFormatJSON); err != nil {
		t.Fatal(err)
	}
	if err := typeServer.SetLogLevel(server.LogLevelUnknown); err == nil {
		t.Fatal("expected error for unknown log level")
	}
}

func TestServe(t *testing.T) {
	typeServer, err := server.New()
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- typeServer.Serve(ctx, "127.0.0.1:0")
	}()
	cancel()
	if err := <-done; err != nil {
		t.Fatal(err)
	}
}
