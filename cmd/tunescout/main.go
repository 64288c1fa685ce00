package main

import (
	"context"
	"net/http"
	"os"

	"github.com/rs/zerolog/log"

	"tunescout/internal/logging"
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	logging.SetGlobal(logging.New(logging.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Output: os.Stdout,
	}))

	db, err := openDatabase(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("connect database")
	}
	defer db.Close()

	handler := newHTTPHandler(cfg, db)

	log.Info().Str("addr", cfg.Addr).Msg("API listening")
	if err := http.ListenAndServe(cfg.Addr, handler); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}
