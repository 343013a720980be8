package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/goccy/duckdbtype/internal/metadata"
	"github.com/goccy/duckdbtype/types"
)

const apiPrefix = "/duckdbtype/v1"

type Server struct {
	Handler      http.Handler
	loggerConfig *zap.Config
	logger       *zap.Logger
	metaRepo     *metadata.Repository
	httpServer   *http.Server
}

func New() (*Server, error) {
	server := &Server{}
	server.loggerConfig = &zap.Config{
		Level:             zap.NewAtomicLevelAt(zap.ErrorLevel),
		Development:       false,
		Encoding:          "console",
		DisableStacktrace: true,
		EncoderConfig:     zap.NewDevelopmentEncoderConfig(),
		OutputPaths:       []string{"stderr"},
		ErrorOutputPaths:  []string{"stderr"},
	}
	if _, err := server.loggerConfig.Build(); err != nil {
		return nil, fmt.Errorf("invalid default logger config: %w", err)
	}
	server.logger = zap.NewNop()
	server.metaRepo = metadata.NewRepository()

	r := mux.NewRouter()
	for _, handler := range handlers {
		r.Handle(handler.Path, handler.Handler).Methods(handler.HTTPMethod)
		r.Handle(apiPrefix+handler.Path, handler.Handler).Methods(handler.HTTPMethod)
	}
	r.PathPrefix("/").Handler(&defaultHandler{})
	r.Use(recoveryMiddleware(server))
	r.Use(loggerMiddleware(server))
	r.Use(accessLogMiddleware())
	r.Use(decompressMiddleware())
	r.Use(bodyLimitMiddleware())
	r.Use(withServerMiddleware(server))
	r.Use(withTableMiddleware())
	server.Handler = r
	return server, nil
}

func (s *Server) Close() error {
	// Sync fails for stderr on some platforms.
	_ = s.logger.Sync()
	return nil
}

type LogLevel string

const (
	LogLevelUnknown LogLevel = "unknown"
	LogLevelDebug   LogLevel = "debug"
	LogLevelInfo    LogLevel = "info"
	LogLevelWarn    LogLevel = "warn"
	LogLevelError   LogLevel = "error"
	LogLevelFatal   LogLevel = "fatal"
)

func (s *Server) SetLogLevel(level LogLevel) error {
	var atomicLevel zap.AtomicLevel
	switch level {
	case LogLevelDebug:
		atomicLevel = zap.NewAtomicLevelAt(zap.DebugLevel)
	case LogLevelInfo:
		atomicLevel = zap.NewAtomicLevelAt(zap.InfoLevel)
	case LogLevelWarn:
		atomicLevel = zap.NewAtomicLevelAt(zap.WarnLevel)
	case LogLevelError:
		atomicLevel = zap.NewAtomicLevelAt(zap.ErrorLevel)
	case LogLevelFatal:
		atomicLevel = zap.NewAtomicLevelAt(zap.FatalLevel)
	default:
		return fmt.Errorf("unexpected log level %s", level)
	}
	s.loggerConfig.Level = atomicLevel
	logger, err := s.loggerConfig.Build()
	if err != nil {
		return err
	}
	s.logger = logger
	return nil
}

type LogFormat string

const (
	LogFormatConsole LogFormat = "console"
	LogFormatJSON    LogFormat = "json"
)

func (s *Server) SetLogFormat(format LogFormat) error {
	switch format {
	case LogFormatConsole:
		s.loggerConfig.Encoding = "console"
	case LogFormatJSON:
		s.loggerConfig.Encoding = "json"
	default:
		return fmt.Errorf("unexpected log format %s", format)
	}
	logger, err := s.loggerConfig.Build()
	if err != nil {
		return err
	}
	s.logger = logger
	return nil
}

// SetLogger replaces the logger built from the log level and format.
func (s *Server) SetLogger(logger *zap.Logger) {
	s.logger = logger
}

func (s *Server) Load(sources ...Source) error {
	for _, source := range sources {
		if err := source(s); err != nil {
			return err
		}
	}
	return nil
}

// AddTable parses the column types of table and registers it.
// A table with the same ID is replaced.
func (s *Server) AddTable(ctx context.Context, table *types.Table) error {
	t, err := s.metaRepo.TableFromData(ctx, table)
	if err != nil {
		return err
	}
	if err := s.metaRepo.AddOrReplaceTable(ctx, t); err != nil {
		return err
	}
	s.logger.Debug("register table", zap.String("id", t.ID), zap.Int("columns", len(t.Fields())))
	return nil
}

// Serve listens on addr until the server is stopped or ctx is canceled.
func (s *Server) Serve(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Handler:      s.Handler,
		Addr:         addr,
		WriteTimeout: 1 * time.Minute,
		ReadTimeout:  15 * time.Second,
	}
	s.httpServer = httpServer

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.logger.Info("listening", zap.String("addr", listener.Addr().String()))

	serveCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var eg errgroup.Group
	eg.Go(func() error {
		defer cancel()
		if err := httpServer.Serve(listener); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	eg.Go(func() error {
		<-serveCtx.Done()
		if ctx.Err() == nil {
			// stopped by Stop or by a serve error
			return nil
		}
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancelShutdown()
		return httpServer.Shutdown(shutdownCtx)
	})
	return eg.Wait()
}

func (s *Server) Stop(ctx context.Context) error {
	defer s.Close()

	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
