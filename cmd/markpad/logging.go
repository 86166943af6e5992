package main

import (
	"io"
	"log"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/patrickward/markpad/internal/config"
)

type LogConfig struct {
	LogFile    string // Log file path
	MaxSize    int    // Max size in megabytes
	MaxBackups int    // Max number of backups
	MaxAge     int    // Max age in days
	Compress   bool   // Compress backups
}

// NewLogConfig places the log under <data>/service and takes rotation
// settings from the config file.
func NewLogConfig(dataDir string, cfg config.LogConfig) LogConfig {
	return LogConfig{
		LogFile:    filepath.Join(dataDir, "service", "markpad.log"),
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   cfg.Compress,
	}
}

func SetupLogging(config LogConfig) (io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(config.LogFile), 0755); err != nil {
		return nil, err
	}

	logger := &lumberjack.Logger{
		Filename:   config.LogFile,
		MaxSize:    config.MaxSize,
		MaxBackups: config.MaxBackups,
		MaxAge:     config.MaxAge,
		Compress:   config.Compress,
	}

	log.SetOutput(io.MultiWriter(os.Stdout, logger))

	return logger, nil
}
