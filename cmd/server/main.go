package main

import (
	"log"

	_ "workplace/docs"
	"workplace/internal/config"
	"workplace/internal/logger"
	"workplace/internal/server"
)

// @title           Workplace Tasks API
// @version         1.0
// @description     Role-based task management for Admin, Manager and Member accounts.

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @schemes http
func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}

	l := logger.Setup(cfg.LogLevel)

	s, err := server.Init(cfg, l)
	if err != nil {
		log.Fatalf("❌ Server initialization failed: %v", err)
	}

	s.Run()
}
