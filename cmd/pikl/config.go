package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const configEnv = "PIKL_CONFIG"

type config struct {
	LogLevel    string `yaml:"log_level"`
	Color       bool   `yaml:"color"`
	Prompt      string `yaml:"prompt"`
	HistoryFile string `yaml:"history_file"`
}

func defaultConfig() config {
	cfg := config{
		LogLevel: "warn",
		Color:    true,
		Prompt:   "pikl> ",
	}
	if home, err := os.UserHomeDir(); err == nil {
		cfg.HistoryFile = filepath.Join(home, ".pikl_history")
	}
	return cfg
}

// loadConfig reads path, or $PIKL_CONFIG when path is empty. Keys missing
// from the file keep their defaults. A missing file is only an error when
// it was asked for explicitly, and unknown keys are rejected.
func loadConfig(path string) (config, error) {
	cfg := defaultConfig()

	explicit := path != ""
	if !explicit {
		path = os.Getenv(configEnv)
	}
	if path == "" {
		return cfg, nil
	}

	file, err := os.Open(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}
