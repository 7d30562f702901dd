/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	applog "panelcanvas/internal/log"
)

// AppConfig is the user-editable configuration persisted to a YAML file in the user scope.
// Environment variables are treated as read-only overrides at runtime.
//
// config_version: bump when the structure changes in a backward-incompatible way.
// Unknown fields are ignored on unmarshal.

type CanvasConfig struct {
	Width          int `yaml:"width"`
	Height         int `yaml:"height"`
	HistoryDepth   int `yaml:"history_depth"`
	ViewportWidth  int `yaml:"viewport_width"`
	ViewportHeight int `yaml:"viewport_height"`
}

type ExportConfig struct {
	Scale       float64 `yaml:"scale"`
	OutDir      string  `yaml:"out_dir"`
	IncludeGrid bool    `yaml:"include_grid"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

type AppConfig struct {
	ConfigVersion int           `yaml:"config_version"`
	Canvas        CanvasConfig  `yaml:"canvas"`
	Export        ExportConfig  `yaml:"export"`
	Logging       LoggingConfig `yaml:"logging"`
}

// Defaults returns the application defaults.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		Canvas:        CanvasConfig{Width: 1280, Height: 720, HistoryDepth: 50},
		Export:        ExportConfig{Scale: 1, OutDir: "exports"},
		Logging:       LoggingConfig{Level: "info", Format: "console"},
	}
}

// Env var names used as overrides.
const (
	EnvConfigPath   = "PNC_CONFIG"
	EnvCanvasWidth  = "PNC_CANVAS_WIDTH"
	EnvCanvasHeight = "PNC_CANVAS_HEIGHT"
	EnvHistoryDepth = "PNC_HISTORY_DEPTH"
	EnvExportScale  = "PNC_EXPORT_SCALE"
	EnvExportDir    = "PNC_EXPORT_DIR"
	// EnvLogLevel Logging envs
	EnvLogLevel  = "PNC_LOG_LEVEL"
	EnvLogFormat = "PNC_LOG_FORMAT"
	EnvLogSource = "PNC_LOG_SOURCE"
	EnvLogFile   = "PNC_LOG_FILE"
)

// envOverrides mirrors the PNC_* variables; nil means "not set".
type envOverrides struct {
	CanvasWidth  *int     `envconfig:"CANVAS_WIDTH"`
	CanvasHeight *int     `envconfig:"CANVAS_HEIGHT"`
	HistoryDepth *int     `envconfig:"HISTORY_DEPTH"`
	ExportScale  *float64 `envconfig:"EXPORT_SCALE"`
	ExportDir    *string  `envconfig:"EXPORT_DIR"`
	LogLevel     *string  `envconfig:"LOG_LEVEL"`
	LogFormat    *string  `envconfig:"LOG_FORMAT"`
	LogSource    *bool    `envconfig:"LOG_SOURCE"`
	LogFile      *string  `envconfig:"LOG_FILE"`
}

// ConfigPath returns the per-user config file path. PNC_CONFIG wins when set.
func ConfigPath() (string, error) {
	if p := strings.TrimSpace(os.Getenv(EnvConfigPath)); p != "" {
		return p, nil
	}
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" { // fallback
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "PanelCanvas")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "PanelCanvas")
	default: // linux and others
		home := os.Getenv("HOME")
		if home == "" {
			return "", errors.New("cannot resolve config directory")
		}
		base = filepath.Join(home, ".config", "panelcanvas")
	}
	return filepath.Join(base, "config.yaml"), nil
}

// Load reads the user config file (if present), applies defaults, and merges environment overrides.
// A missing or unreadable file yields defaults; a malformed override is reported but the
// rest of the configuration is still returned.
func Load() (AppConfig, error) {
	cfg := Defaults()
	path, err := ConfigPath()
	if err != nil {
		return cfg, err
	}
	if data, err := os.ReadFile(path); err == nil {
		var fileCfg AppConfig
		if err := yaml.Unmarshal(data, &fileCfg); err == nil {
			mergeInto(&cfg, &fileCfg)
		} else {
			applog.WithComponent("config").Warn("ignoring malformed config file", "path", path, "err", err)
		}
	}
	if err := applyEnvOverrides(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Save writes the user config YAML.
func Save(cfg AppConfig) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func mergeInto(dst *AppConfig, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	if src.Canvas.Width > 0 {
		dst.Canvas.Width = src.Canvas.Width
	}
	if src.Canvas.Height > 0 {
		dst.Canvas.Height = src.Canvas.Height
	}
	if src.Canvas.HistoryDepth > 0 {
		dst.Canvas.HistoryDepth = src.Canvas.HistoryDepth
	}
	if src.Canvas.ViewportWidth > 0 {
		dst.Canvas.ViewportWidth = src.Canvas.ViewportWidth
	}
	if src.Canvas.ViewportHeight > 0 {
		dst.Canvas.ViewportHeight = src.Canvas.ViewportHeight
	}
	if src.Export.Scale > 0 {
		dst.Export.Scale = src.Export.Scale
	}
	if strings.TrimSpace(src.Export.OutDir) != "" {
		dst.Export.OutDir = strings.TrimSpace(src.Export.OutDir)
	}
	// booleans: copy directly from src (file) so user preferences persist
	dst.Export.IncludeGrid = src.Export.IncludeGrid
	if strings.TrimSpace(src.Logging.Level) != "" {
		dst.Logging.Level = strings.ToLower(strings.TrimSpace(src.Logging.Level))
	}
	if strings.TrimSpace(src.Logging.Format) != "" {
		dst.Logging.Format = strings.ToLower(strings.TrimSpace(src.Logging.Format))
	}
	dst.Logging.Source = src.Logging.Source
	if strings.TrimSpace(src.Logging.File) != "" {
		dst.Logging.File = strings.TrimSpace(src.Logging.File)
	}
}

func applyEnvOverrides(cfg *AppConfig) error {
	var env envOverrides
	if err := envconfig.Process(applog.EnvPrefix, &env); err != nil {
		return fmt.Errorf("config: env overrides: %w", err)
	}
	if env.CanvasWidth != nil && *env.CanvasWidth > 0 {
		cfg.Canvas.Width = *env.CanvasWidth
	}
	if env.CanvasHeight != nil && *env.CanvasHeight > 0 {
		cfg.Canvas.Height = *env.CanvasHeight
	}
	if env.HistoryDepth != nil && *env.HistoryDepth > 0 {
		cfg.Canvas.HistoryDepth = *env.HistoryDepth
	}
	if env.ExportScale != nil && *env.ExportScale > 0 {
		cfg.Export.Scale = *env.ExportScale
	}
	if env.ExportDir != nil && strings.TrimSpace(*env.ExportDir) != "" {
		cfg.Export.OutDir = strings.TrimSpace(*env.ExportDir)
	}
	if env.LogLevel != nil && strings.TrimSpace(*env.LogLevel) != "" {
		cfg.Logging.Level = strings.ToLower(strings.TrimSpace(*env.LogLevel))
	}
	if env.LogFormat != nil && strings.TrimSpace(*env.LogFormat) != "" {
		cfg.Logging.Format = strings.ToLower(strings.TrimSpace(*env.LogFormat))
	}
	if env.LogSource != nil {
		cfg.Logging.Source = *env.LogSource
	}
	if env.LogFile != nil && strings.TrimSpace(*env.LogFile) != "" {
		cfg.Logging.File = strings.TrimSpace(*env.LogFile)
	}
	return nil
}

// EnvOverrideFor returns the env var name if the field is overridden by environment variables.
func EnvOverrideFor(key string) (string, bool) {
	names := map[string]string{
		"canvas.width":         EnvCanvasWidth,
		"canvas.height":        EnvCanvasHeight,
		"canvas.history_depth": EnvHistoryDepth,
		"export.scale":         EnvExportScale,
		"export.out_dir":       EnvExportDir,
		"logging.level":        EnvLogLevel,
		"logging.format":       EnvLogFormat,
		"logging.source":       EnvLogSource,
		"logging.file":         EnvLogFile,
	}
	name, ok := names[key]
	if !ok || os.Getenv(name) == "" {
		return "", false
	}
	return name, true
}

// Options converts the logging section into logger options.
func (l LoggingConfig) Options() applog.Options {
	return applog.Options{Level: l.Level, Format: l.Format, AddSource: l.Source, File: l.File}
}
