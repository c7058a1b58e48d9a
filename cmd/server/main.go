package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"lineforge/internal/protocol"
	"lineforge/pkg/logger"
	"lineforge/pkg/server"
)

// Config holds all server configuration, sourced from the environment.
type Config struct {
	Port                string
	BroadcastBufferSize int
	WriteTimeout        time.Duration
}

func main() {
	// server takes no command-line arguments; it always listens on the
	// configured (or default) port.
	if len(os.Args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: server")
		os.Exit(1)
	}

	logger.Init()

	config := Config{
		Port:                getEnv("PORT", protocol.Port),
		BroadcastBufferSize: getEnvInt("BROADCAST_BUFFER_SIZE", 16),
		WriteTimeout:        time.Duration(getEnvInt("WRITE_TIMEOUT_SECONDS", 10)) * time.Second,
	}

	logger.Info("starting lineforge server...")
	logger.Info("port: %s", config.Port)

	srv := server.NewServer(config.BroadcastBufferSize, config.WriteTimeout)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("shutting down...")
		if err := srv.Shutdown(); err != nil {
			logger.Error("shutdown: %v", err)
		}
		os.Exit(0)
	}()

	addr := fmt.Sprintf(":%s", config.Port)
	if err := srv.ListenAndServe(addr); err != nil {
		log.Fatalf("bind %s: %v", addr, err)
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}
