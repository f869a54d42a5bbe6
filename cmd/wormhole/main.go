package main

import (
	"flag"
	"runtime"

	"wormhole/internal/logger"
	"wormhole/pkg/config"
	"wormhole/pkg/engine"
)

func init() {
	// GLFW requires the program to be running on the main thread
	runtime.LockOSThread()
}

func main() {
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	logLevel := flag.String("log-level", "", "Override the configured log level")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)

	level := cfg.LogLevel
	if *logLevel != "" {
		level = *logLevel
	}
	log := logger.NewLogger(level)
	if cfg.LogFile != "" {
		fileLog, ferr := logger.NewMultiLogger(level, cfg.LogFile)
		if ferr != nil {
			log.Warnf("Logging to stderr only: %v", ferr)
		} else {
			log = fileLog
		}
	}
	defer log.Close()

	if err != nil {
		log.Warnf("%v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	log.Info("Starting Wormhole...")

	// Shader, framebuffer and missing-asset failures are fatal
	game, err := engine.NewEngine(cfg, log)
	if err != nil {
		log.Fatalf("Failed to initialize engine: %v", err)
	}

	log.Info("Engine initialized, starting render loop...")
	if err := game.Run(); err != nil {
		log.Fatalf("%v", err)
	}
}
