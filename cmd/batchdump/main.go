// Command batchdump decodes captured OData batch requests and prints them as JSON.
//
// Usage:
//
//	batchdump [file ...]
//
// Every file is a raw HTTP request as it was sent over the wire. If BATCHDUMP_CONTENT_TYPE
// is set, files are treated as bare batch bodies instead. With no files, stdin is read.
package main

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/indigo-web/odata/logging"
	"github.com/joho/godotenv"
)

type Config struct {
	ServiceRoot   string `env:"BATCHDUMP_SERVICE_ROOT"   envDefault:"http://localhost/odata/"`
	ResolutionURI string `env:"BATCHDUMP_RESOLUTION_URI"`
	Strict        bool   `env:"BATCHDUMP_STRICT"         envDefault:"true"`
	ContentType   string `env:"BATCHDUMP_CONTENT_TYPE"`
	LogLevel      string `env:"LOG_LEVEL"                envDefault:"INFO"`
}

func main() {
	// .env file is optional
	dotenv := godotenv.Load() == nil

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "failed to parse config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.NewWithWriter(os.Stderr, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}

	logger.Debug().
		Bool("dotenv", dotenv).
		Str("service_root", cfg.ServiceRoot).
		Bool("strict", cfg.Strict).
		Msg("starting batchdump")

	if err = run(cfg, os.Args[1:], os.Stdin, os.Stdout, logger); err != nil {
		logger.Error().Err(err).Msg("batchdump failed")
		os.Exit(1)
	}
}
