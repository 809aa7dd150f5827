package main

import (
	"github.com/joho/godotenv"

	app "creative-approval-engine/internal/app/server"
	"creative-approval-engine/internal/config"
)

func main() {
	// .env is optional; real environment variables take precedence.
	_ = godotenv.Load()

	cfg := config.Load()
	config.SetupLogging(cfg.Server.LogLevel, cfg.Server.LogFormat)

	app.Run(cfg)
}
