package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/tinyc-lang/tinyc/tinyc"
	"gopkg.in/yaml.v3"
)

const defaultConfigName = "tinyc.yaml"

// settings are the interpreter limits and host options shared by the file
// config and the command line flags.
type settings struct {
	StepQuota      int    `yaml:"step_quota"`
	RecursionLimit int    `yaml:"recursion_limit"`
	Root           string `yaml:"root"`
	LogLevel       string `yaml:"log_level"`
}

func loadSettings(path string) (settings, error) {
	var cfg settings
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.Root != "" && !filepath.IsAbs(cfg.Root) {
		cfg.Root = filepath.Join(filepath.Dir(path), cfg.Root)
	}
	return cfg, nil
}

// engine builds an interpreter engine from the settings.
func (s settings) engine() (*tinyc.Engine, error) {
	logger, err := newLogger(s.LogLevel, os.Stderr)
	if err != nil {
		return nil, err
	}
	return tinyc.NewEngine(tinyc.Config{
		StepQuota:      s.StepQuota,
		RecursionLimit: s.RecursionLimit,
		Logger:         logger,
	})
}

// newLogger returns nil for an empty level so the engine keeps its silent
// default.
func newLogger(level string, w io.Writer) (*slog.Logger, error) {
	if level == "" {
		return nil, nil
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q", level)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), nil
}

type settingsFlags struct {
	config         string
	stepQuota      int
	recursionLimit int
	root           string
	logLevel       string
}

func (f *settingsFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.config, "config", "", "read settings from a YAML file")
	fs.IntVar(&f.stepQuota, "steps", 0, "abort after this many statements and calls (0 = unlimited)")
	fs.IntVar(&f.recursionLimit, "recursion-limit", 0, "maximum call depth")
	fs.StringVar(&f.root, "root", "", "directory relative file paths are resolved against")
	fs.StringVar(&f.logLevel, "log-level", "", "log interpreter activity to stderr at this level")
}

// resolve merges the config file for scriptPath with the flags. Flags win
// over file values. Without -config, a tinyc.yaml beside the script is used
// when present.
func (f *settingsFlags) resolve(scriptPath string) (settings, error) {
	var cfg settings
	path := f.config
	if path == "" {
		candidate := filepath.Join(filepath.Dir(scriptPath), defaultConfigName)
		if _, err := os.Stat(candidate); err == nil {
			path = candidate
		} else if !errors.Is(err, fs.ErrNotExist) {
			return cfg, fmt.Errorf("stat config: %w", err)
		}
	}
	if path != "" {
		loaded, err := loadSettings(path)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	if f.stepQuota != 0 {
		cfg.StepQuota = f.stepQuota
	}
	if f.recursionLimit != 0 {
		cfg.RecursionLimit = f.recursionLimit
	}
	if f.root != "" {
		root, err := filepath.Abs(f.root)
		if err != nil {
			return cfg, fmt.Errorf("resolve root: %w", err)
		}
		cfg.Root = root
	}
	if f.logLevel != "" {
		cfg.LogLevel = f.logLevel
	}
	return cfg, nil
}
