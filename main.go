// Package main is the entry point for the integrationhub service
package main

import (
	"github.com/jrschumacher/integrationhub/cmd"
	"github.com/jrschumacher/integrationhub/internal/config"
	"github.com/jrschumacher/integrationhub/internal/logger"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	cmd.Execute(cfg)
}
