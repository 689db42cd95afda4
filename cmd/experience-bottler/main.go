package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"experience-bottler/internal/app"
	"experience-bottler/internal/config"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("failed to load .env: %v", err)
	}

	cfg, err := config.LoadGlobalConfig()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	unsugared, err := createLogger(cfg)
	if err != nil {
		log.Fatal(err)
	}
	logger := unsugared.Sugar()
	defer func() { _ = logger.Sync() }()

	app.Run(cfg, logger)
}

func createLogger(cfg *config.Config) (log *zap.Logger, err error) {
	if cfg.Development {
		log, err = zap.NewDevelopment()
	} else {
		log, err = zap.NewProduction()
	}
	return
}
