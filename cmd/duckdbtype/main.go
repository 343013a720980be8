package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jessevdk/go-flags"

	"github.com/goccy/duckdbtype/server"
)

type option struct {
	Format       outputFormat     `description:"specify the output format (duckdb/display/json/yaml/arrow/avro/bigquery/zetasql)" long:"format" short:"f" default:"duckdb"`
	Serve        bool             `description:"run the HTTP server instead of parsing arguments" long:"serve"`
	Port         uint16           `description:"specify the port number" long:"port" default:"9070"`
	LogLevel     server.LogLevel  `description:"specify the log level (debug/info/warn/error)" long:"log-level" default:"error"`
	LogFormat    server.LogFormat `description:"specify the log format (console/json)" long:"log-format" default:"console"`
	DataFromYAML string           `description:"specify the path to the YAML file that contains the initial tables" long:"data-from-yaml"`
	Version      bool             `description:"print version" long:"version" short:"v"`
}

type exitCode int

const (
	exitOK    exitCode = 0
	exitError exitCode = 1
)

var (
	version  string
	revision string
)

func main() {
	os.Exit(int(run()))
}

func run() exitCode {
	args, opt, err := parseOpt()
	if err != nil {
		flagsErr, ok := err.(*flags.Error)
		if !ok {
			fmt.Fprintf(os.Stderr, "[duckdbtype] unknown parsed option error: %[1]T %[1]v\n", err)
			return exitError
		}
		if flagsErr.Type == flags.ErrHelp {
			return exitOK
		}
		return exitError
	}
	if opt.Version {
		fmt.Fprintf(os.Stdout, "version: %s (%s)\n", version, revision)
		return exitOK
	}
	if opt.Serve {
		if err := runServer(opt); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return exitError
		}
		return exitOK
	}
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "[duckdbtype] no type specified")
		return exitError
	}
	return runFormat(os.Stdout, os.Stderr, args, opt.Format)
}

func parseOpt() ([]string, option, error) {
	var opt option
	parser := flags.NewParser(&opt, flags.Default)
	parser.Usage = "[OPTIONS] TYPE..."
	args, err := parser.Parse()
	return args, opt, err
}

// runFormat prints one rendering per argument and keeps going after a failure.
func runFormat(stdout, stderr io.Writer, args []string, format outputFormat) exitCode {
	code := exitOK
	for _, arg := range args {
		out, err := renderType(arg, format)
		if err != nil {
			fmt.Fprintf(stderr, "[duckdbtype] %s\n", err)
			code = exitError
			continue
		}
		fmt.Fprintln(stdout, out)
	}
	return code
}

func runServer(opt option) error {
	typeServer, err := server.New()
	if err != nil {
		return err
	}
	if err := typeServer.SetLogLevel(opt.LogLevel); err != nil {
		return err
	}
	if err := typeServer.SetLogFormat(opt.LogFormat); err != nil {
		return err
	}
	if opt.DataFromYAML != "" {
		if err := typeServer.Load(server.YAMLSource(opt.DataFromYAML)); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := fmt.Sprintf("0.0.0.0:%d", opt.Port)
	fmt.Fprintf(os.Stdout, "[duckdbtype] listening at %s\n", addr)
	if err := typeServer.Serve(ctx, addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	fmt.Fprintln(os.Stdout, "[duckdbtype] shutdown gracefully")
	return typeServer.Close()
}
