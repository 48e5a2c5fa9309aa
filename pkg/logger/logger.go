package logger

import (
	"log"

	"go.uber.org/zap"
)

// New создает zap logger в зависимости от окружения
func New(env string) *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)

	switch env {
	case "local", "dev":
		logger, err = zap.NewDevelopment()
	default:
		logger, err = zap.NewProduction()
	}

	if err != nil {
		log.Fatalf("cannot initialize zap logger: %s", err)
	}

	return logger
}
