package server

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net/http"
	"runtime"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/protobuf/encoding/protojson"

	"github.com/goccy/duckdbtype/internal/logger"
	"github.com/goccy/duckdbtype/internal/metadata"
	internaltypes "github.com/goccy/duckdbtype/internal/types"
	"github.com/goccy/duckdbtype/internal/zetasql"
	"github.com/goccy/duckdbtype/types"
)

const avroNamespace = "duckdbtype"

type SchemaFormat string

const (
	SchemaFormatARROW    SchemaFormat = "arrow"
	SchemaFormatAVRO     SchemaFormat = "avro"
	SchemaFormatBigQuery SchemaFormat = "bigquery"
	SchemaFormatStorage  SchemaFormat = "storage"
	SchemaFormatParquet  SchemaFormat = "parquet"
	SchemaFormatZetaSQL  SchemaFormat = "zetasql"
)

type handler struct {
	Path       string
	HTTPMethod string
	Handler    http.Handler
}

var handlers = []*handler{
	{
		Path:       "/types:parse",
		HTTPMethod: http.MethodPost,
		Handler:    &typesParseHandler{},
	},
	{
		Path:       "/tables",
		HTTPMethod: http.MethodGet,
		Handler:    &tablesListHandler{},
	},
	{
		Path:       "/tables",
		HTTPMethod: http.MethodPost,
		Handler:    &tablesInsertHandler{},
	},
	{
		Path:       "/tables/{tableId}",
		HTTPMethod: http.MethodGet,
		Handler:    &tablesGetHandler{},
	},
	{
		Path:       "/tables/{tableId}",
		HTTPMethod: http.MethodDelete,
		Handler:    &tablesDeleteHandler{},
	},
	{
		Path:       "/tables/{tableId}/schema",
		HTTPMethod: http.MethodGet,
		Handler:    &tablesSchemaHandler{},
	},
}

func encodeResponse(ctx context.Context, w http.ResponseWriter, response interface{}) {
	b, err := json.Marshal(response)
	if err != nil {
		errorResponse(ctx, w, errInternalError(err.Error()))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(b)
}

type (
	typesParseHandler   struct{}
	tablesListHandler   struct{}
	tablesInsertHandler struct{}
	tablesGetHandler    struct{}
	tablesDeleteHandler struct{}
	tablesSchemaHandler struct{}
)

func (h *typesParseHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req internaltypes.ParseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(ctx, w, errInvalid(fmt.Sprintf("failed to decode request: %s", err)))
		return
	}
	res, err := h.Handle(ctx, &typesParseRequest{
		types: req.Types,
	})
	if err != nil {
		errorResponse(ctx, w, errInternalError(err.Error()))
		return
	}
	encodeResponse(ctx, w, res)
}

type typesParseRequest struct {
	types []string
}

func (h *typesParseHandler) Handle(ctx context.Context, r *typesParseRequest) (*internaltypes.ParseResponse, error) {
	results := make([]*internaltypes.ParseResult, len(r.types))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for i, input := range r.types {
		i, input := i, input
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			typ, err := types.Parse(input)
			if err != nil {
				var parseErr *types.ParseError
				if !errors.As(err, &parseErr) {
					return err
				}
				results[i] = internaltypes.NewParseErrorResult(input, parseErr)
				return nil
			}
			results[i] = internaltypes.NewParseResult(input, typ)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	logger.Logger(ctx).Debug("parse types", zap.Int("count", len(results)))
	return &internaltypes.ParseResponse{Results: results}, nil
}

func (h *tablesListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	server := serverFromContext(ctx)
	res, err := h.Handle(ctx, &tablesListRequest{
		server: server,
	})
	if err != nil {
		errorResponse(ctx, w, errInternalError(err.Error()))
		return
	}
	encodeResponse(ctx, w, res)
}

type tablesListRequest struct {
	server *Server
}

func (h *tablesListHandler) Handle(ctx context.Context, r *tablesListRequest) (*internaltypes.TableList, error) {
	tables, err := r.server.metaRepo.FindAllTables(ctx)
	if err != nil {
		return nil, err
	}
	res := &internaltypes.TableList{
		Tables: make([]*internaltypes.TableResponse, 0, len(tables)),
	}
	for _, table := range tables {
		res.Tables = append(res.Tables, internaltypes.NewTableResponse(table.ID, table.Fields()))
	}
	return res, nil
}

func (h *tablesInsertHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	server := serverFromContext(ctx)
	var table types.Table
	if err := json.NewDecoder(r.Body).Decode(&table); err != nil {
		errorResponse(ctx, w, errInvalid(fmt.Sprintf("failed to decode table: %s", err)))
		return
	}
	validate := validator.New()
	types.RegisterTypeValidation(validate)
	if err := validate.Struct(&table); err != nil {
		errorResponse(ctx, w, errValidation(err))
		return
	}
	res, err := h.Handle(ctx, &tablesInsertRequest{
		server: server,
		table:  &table,
	})
	if err != nil {
		var parseErr *types.ParseError
		switch {
		case errors.Is(err, metadata.ErrDuplicateTable):
			errorResponse(ctx, w, errDuplicate(err.Error()))
		case errors.Is(err, types.ErrDuplicateColumn):
			errorResponse(ctx, w, errInvalid(err.Error()))
		case errors.As(err, &parseErr):
			errorResponse(ctx, w, errParse(err))
		default:
			errorResponse(ctx, w, errInternalError(err.Error()))
		}
		return
	}
	encodeResponse(ctx, w, res)
}

type tablesInsertRequest struct {
	server *Server
	table  *types.Table
}

func (h *tablesInsertHandler) Handle(ctx context.Context, r *tablesInsertRequest) (*internaltypes.TableResponse, error) {
	table, err := r.server.metaRepo.TableFromData(ctx, r.table)
	if err != nil {
		return nil, err
	}
	if err := r.server.metaRepo.AddTable(ctx, table); err != nil {
		return nil, err
	}
	logger.Logger(ctx).Info("insert table", zap.String("id", table.ID))
	return internaltypes.NewTableResponse(table.ID, table.Fields()), nil
}

func (h *tablesGetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	table := tableFromContext(ctx)
	encodeResponse(ctx, w, internaltypes.NewTableResponse(table.ID, table.Fields()))
}

func (h *tablesDeleteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	server := serverFromContext(ctx)
	table := tableFromContext(ctx)
	if err := server.metaRepo.DeleteTable(ctx, table.ID); err != nil {
		errorResponse(ctx, w, errNotFound(err.Error()))
		return
	}
	logger.Logger(ctx).Info("delete table", zap.String("id", table.ID))
	w.WriteHeader(http.StatusNoContent)
}

func (h *tablesSchemaHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	table := tableFromContext(ctx)
	format := SchemaFormat(r.URL.Query().Get("format"))
	if format == "" {
		format = SchemaFormatBigQuery
	}
	res, err := h.Handle(ctx, &tablesSchemaRequest{
		table:  table,
		format: format,
	})
	if err != nil {
		errorResponse(ctx, w, err)
		return
	}
	encodeResponse(ctx, w, res)
}

type tablesSchemaRequest struct {
	table  *metadata.Table
	format SchemaFormat
}

func (h *tablesSchemaHandler) Handle(ctx context.Context, r *tablesSchemaRequest) (*internaltypes.SchemaResponse, *ServerError) {
	schema, err := encodeSchema(r.table, r.format)
	if err != nil {
		return nil, err
	}
	return &internaltypes.SchemaResponse{
		TableID: r.table.ID,
		Format:  string(r.format),
		Schema:  schema,
	}, nil
}

// encodeSchema renders the table columns in format.
// Text based renderings are returned as a JSON string.
func encodeSchema(table *metadata.Table, format SchemaFormat) (json.RawMessage, *ServerError) {
	fields := table.Fields()
	var (
		v   interface{}
		err error
	)
	switch format {
	case SchemaFormatARROW:
		v, err = encodeARROWSchema(fields)
	case SchemaFormatAVRO:
		v, err = encodeAVROSchema(table.ID, fields)
	case SchemaFormatBigQuery:
		v, err = encodeBigQuerySchema(fields)
	case SchemaFormatStorage:
		return encodeStorageSchema(fields)
	case SchemaFormatParquet:
		v, err = encodeParquetSchema(table.ID, fields)
	case SchemaFormatZetaSQL:
		v, err = encodeZetaSQLType(table.RowType())
	default:
		return nil, errInvalid(fmt.Sprintf("unsupported schema format %q", format))
	}
	if err != nil {
		return nil, errInvalid(fmt.Sprintf("failed to convert table %s to %s: %s", table.ID, format, err))
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, errInternalError(err.Error())
	}
	return b, nil
}

func encodeARROWSchema(fields []*types.NameWithType) (string, error) {
	schema, err := types.FieldsToARROW(fields)
	if err != nil {
		return "", err
	}
	return schema.String(), nil
}

func encodeAVROSchema(tableID string, fields []*types.NameWithType) (*types.AVROSchema, error) {
	schema := types.TableToAVRO(avroNamespace, tableID, fields)
	if _, err := schema.Codec(); err != nil {
		return nil, err
	}
	return schema, nil
}

func encodeBigQuerySchema(fields []*types.NameWithType) (interface{}, error) {
	schema, err := types.FieldsToBigQuery(fields)
	if err != nil {
		return nil, err
	}
	return types.SchemaToBigQueryV2(schema), nil
}

func encodeStorageSchema(fields []*types.NameWithType) (json.RawMessage, *ServerError) {
	schema, err := types.FieldsToProto(fields)
	if err != nil {
		return nil, errInvalid(fmt.Sprintf("failed to convert to storage schema: %s", err))
	}
	b, err := protojson.Marshal(schema)
	if err != nil {
		return nil, errInternalError(err.Error())
	}
	return b, nil
}

func encodeParquetSchema(tableID string, fields []*types.NameWithType) (string, error) {
	schema, err := types.FieldsToParquet(tableID, fields)
	if err != nil {
		return "", err
	}
	return schema.String(), nil
}

func encodeZetaSQLType(row *types.Type) (string, error) {
	if _, err := zetasql.ToZetaSQLType(row); err != nil {
		return "", err
	}
	return zetasql.FormatType(row), nil
}

type defaultHandler struct{}

func (h *defaultHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	errorResponse(ctx, w, errNotFound(fmt.Sprintf("unknown endpoint %s %s", r.Method, html.EscapeString(r.URL.Path))))
}
