package server

import (
	"context"

	"github.com/goccy/duckdbtype/internal/metadata"
)

type (
	serverKey struct{}
	tableKey  struct{}
)

func withServer(ctx context.Context, server *Server) context.Context {
	return context.WithValue(ctx, serverKey{}, server)
}

func serverFromContext(ctx context.Context) *Server {
	return ctx.Value(serverKey{}).(*Server)
}

func withTable(ctx context.Context, table *metadata.Table) context.Context {
	return context.WithValue(ctx, tableKey{}, table)
}

func tableFromContext(ctx context.Context) *metadata.Table {
	return ctx.Value(tableKey{}).(*metadata.Table)
}
