package types

import (
	"github.com/goccy/go-json"

	duckdbtypes "github.com/goccy/duckdbtype/types"
)

type (
	ParseRequest struct {
		Types []string `json:"types"`
	}

	ParseResponse struct {
		Results []*ParseResult `json:"results"`
	}

	// ParseResult carries either the parsed type or the parse error of one input.
	ParseResult struct {
		Input   string             `json:"input"`
		Type    *duckdbtypes.Type  `json:"type,omitempty"`
		DuckDB  string             `json:"duckdb,omitempty"`
		Display string             `json:"display,omitempty"`
		Error   *ParseErrorDetails `json:"error,omitempty"`
	}

	ParseErrorDetails struct {
		Reason   duckdbtypes.ErrorReason `json:"reason"`
		Message  string                  `json:"message"`
		Position int                     `json:"position"`
		Token    string                  `json:"token,omitempty"`
	}

	TableList struct {
		Tables []*TableResponse `json:"tables"`
	}

	TableResponse struct {
		ID      string            `json:"id"`
		Columns []*ColumnResponse `json:"columns"`
	}

	ColumnResponse struct {
		Name   string            `json:"name"`
		Type   *duckdbtypes.Type `json:"type"`
		DuckDB string            `json:"duckdb"`
	}

	// SchemaResponse holds a table schema rendered for another type system.
	// Schema is a JSON document, or a JSON string for text based formats.
	SchemaResponse struct {
		TableID string          `json:"tableId"`
		Format  string          `json:"format"`
		Schema  json.RawMessage `json:"schema"`
	}
)

func NewParseResult(input string, typ *duckdbtypes.Type) *ParseResult {
	return &ParseResult{
		Input:   input,
		Type:    typ,
		DuckDB:  typ.FormatType(),
		Display: typ.String(),
	}
}

func NewParseErrorResult(input string, err *duckdbtypes.ParseError) *ParseResult {
	return &ParseResult{
		Input: input,
		Error: &ParseErrorDetails{
			Reason:   err.Reason,
			Message:  err.Message,
			Position: err.Pos,
			Token:    err.Token,
		},
	}
}

func NewTableResponse(id string, fields []*duckdbtypes.NameWithType) *TableResponse {
	columns := make([]*ColumnResponse, 0, len(fields))
	for _, field := range fields {
		columns = append(columns, &ColumnResponse{
			Name:   field.Name,
			Type:   field.Type,
			DuckDB: field.Type.FormatType(),
		})
	}
	return &TableResponse{
		ID:      id,
		Columns: columns,
	}
}
