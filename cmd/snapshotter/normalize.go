package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"poolSnapshot/internal/config"
	"poolSnapshot/internal/model"
	"poolSnapshot/internal/snapshot"
)

func runNormalize(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadNormalize(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.In == "" {
		return fmt.Errorf("input path is required")
	}
	protocol, err := model.ParseProtocol(cfg.Protocol)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(cfg.In)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	out, err := normalizeResponse(protocol, data)
	if err != nil {
		return err
	}

	if cfg.Out == "" {
		_, err = cmd.OutOrStdout().Write(append(out, '\n'))
		return err
	}

	if dir := filepath.Dir(cfg.Out); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(cfg.Out, out, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	logger.Info("snapshot normalized",
		zap.String("protocol", string(protocol)),
		zap.String("in", cfg.In),
		zap.String("out", cfg.Out),
	)
	return nil
}

// normalizeResponse assembles the snapshot document for a saved JSON-RPC response.
func normalizeResponse(protocol model.Protocol, data []byte) ([]byte, error) {
	raw, err := model.ParseResponse(data)
	if err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	out, err := json.Marshal(snapshot.AssembleResult(protocol, raw))
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return out, nil
}
