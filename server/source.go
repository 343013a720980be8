package server

import (
	"bytes"
	"context"
	"errors"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/goccy/go-yaml"

	"github.com/goccy/duckdbtype/types"
)

type Source func(*Server) error

// YAMLSource loads tables from a schema document whose column types are validated while decoding.
func YAMLSource(path string) Source {
	return func(s *Server) error {
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		schema, err := DecodeYAMLSchema(content)
		if err != nil {
			return err
		}
		return s.addTables(context.Background(), schema.Tables)
	}
}

func DecodeYAMLSchema(content []byte) (*types.Schema, error) {
	validate := validator.New()
	types.RegisterTypeValidation(validate)
	dec := yaml.NewDecoder(
		bytes.NewBuffer(content),
		yaml.Validator(validate),
		yaml.Strict(),
	)
	var v types.Schema
	if err := dec.Decode(&v); err != nil {
		return nil, errors.New(yaml.FormatError(err, false, true))
	}
	return &v, nil
}

func JSONSource(path string) Source {
	return func(s *Server) error {
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		var v types.Schema
		if err := json.Unmarshal(content, &v); err != nil {
			return err
		}
		return s.addTables(context.Background(), v.Tables)
	}
}

func StructSource(tables ...*types.Table) Source {
	return func(s *Server) error {
		return s.addTables(context.Background(), tables)
	}
}

func (s *Server) addTables(ctx context.Context, tables []*types.Table) error {
	for _, table := range tables {
		if err := s.AddTable(ctx, table); err != nil {
			return err
		}
	}
	return nil
}
