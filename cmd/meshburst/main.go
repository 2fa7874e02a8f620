// Package main is the headless meshburst runner. It shatters a mesh, runs the
// explosion at a fixed frame rate and writes WebP snapshots.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/meshburst/internal/config"
	"github.com/Faultbox/meshburst/internal/logger"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== meshburst ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	sum, err := run(cfg)
	if err != nil {
		logger.Error("run failed", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("done",
		zap.Int("frames", sum.Frames),
		zap.Int("snapshots", len(sum.Files)),
		zap.Int("fragments", sum.Fragments),
		zap.String("out", cfg.Preview.OutputDir),
	)
}
