// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/rigrun-sidebar/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete sidebar configuration.
type Config struct {
	Version string `toml:"version" json:"version"`

	// Model tool invocation
	Model ModelConfig `toml:"model" json:"model"`

	// Single-instance lock
	Lock LockConfig `toml:"lock" json:"lock"`

	// Overlay presentation
	UI UIConfig `toml:"ui" json:"ui"`

	// Log output
	Log LogConfig `toml:"log" json:"log"`
}

// ModelConfig controls how prompts reach the local model tool.
type ModelConfig struct {
	// Command is the executable, looked up on PATH when not absolute.
	Command string `toml:"command" json:"command"`
	// Name is the model passed to `<command> run`.
	Name string `toml:"name" json:"name"`
	// TimeoutSecs is the hard wall-clock budget per prompt.
	TimeoutSecs int `toml:"timeout_secs" json:"timeout_secs"`
	// NumThreads is exported as OLLAMA_NUM_THREADS. Zero leaves it unset.
	NumThreads int `toml:"num_threads" json:"num_threads"`
	// KeepAlive is exported as OLLAMA_KEEP_ALIVE. Empty leaves it unset.
	KeepAlive string `toml:"keep_alive" json:"keep_alive"`
	// MaxPromptChars caps each prompt, in characters.
	MaxPromptChars int `toml:"max_prompt_chars" json:"max_prompt_chars"`
}

// LockConfig locates the pid file used for the toggle.
type LockConfig struct {
	// Path of the pid file. Empty means $TMPDIR/ai_assistant.pid.
	Path string `toml:"path" json:"path"`
}

// UIConfig contains overlay settings.
type UIConfig struct {
	Theme    string `toml:"theme" json:"theme"` // auto, dark, light
	Width    int    `toml:"width" json:"width"` // 0 means full terminal width
	Markdown bool   `toml:"markdown" json:"markdown"`
	Plain    bool   `toml:"plain" json:"plain"` // line mode instead of the overlay
}

// LogConfig contains log output settings.
type LogConfig struct {
	// Path of the log file. Empty means $TMPDIR/sidebar.log.
	Path  string `toml:"path" json:"path"`
	Level string `toml:"level" json:"level"` // debug, info, warn, error
}

// =============================================================================
// DEFAULTS
// =============================================================================

const (
	defaultVersion        = "1.0.0"
	defaultCommand        = "ollama"
	defaultModel          = "llama3.2:1b"
	defaultTimeoutSecs    = 45
	defaultNumThreads     = 6
	defaultKeepAlive      = "30m"
	defaultMaxPromptChars = 1000
	defaultWidth          = 60
)

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Version: defaultVersion,
		Model: ModelConfig{
			Command:        defaultCommand,
			Name:           defaultModel,
			TimeoutSecs:    defaultTimeoutSecs,
			NumThreads:     defaultNumThreads,
			KeepAlive:      defaultKeepAlive,
			MaxPromptChars: defaultMaxPromptChars,
		},
		UI: UIConfig{
			Theme:    "auto",
			Width:    defaultWidth,
			Markdown: true,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Timeout returns the per-prompt budget as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Model.TimeoutSecs) * time.Second
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the sidebar configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".sidebar"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathJSON returns the path to the JSON config file.
func ConfigPathJSON() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// ResolvePath returns the config file that Load would read: the TOML file
// if it exists, else the JSON file if it exists, else the TOML path.
func ResolvePath() (string, error) {
	tomlPath, err := ConfigPathTOML()
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(tomlPath); err == nil {
		return tomlPath, nil
	}
	jsonPath, err := ConfigPathJSON()
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(jsonPath); err == nil {
		return jsonPath, nil
	}
	return tomlPath, nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load reads the default config file (TOML first, then JSON) and falls
// back to defaults when neither exists. Environment overrides are applied
// last. A file that exists but cannot be parsed is reported alongside the
// defaults so startup can continue.
func Load() (*Config, error) {
	path, err := ResolvePath()
	if err != nil {
		return finish(Default())
	}
	if _, statErr := os.Stat(path); statErr != nil {
		return finish(Default())
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		def, defErr := finish(Default())
		if defErr != nil {
			return nil, defErr
		}
		return def, err
	}
	return cfg, nil
}

// LoadFromPath loads configuration from a specific file path with full
// validation. Files ending in .json are decoded as JSON, anything else as
// TOML.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if strings.HasSuffix(strings.ToLower(path), ".json") {
		if err := LoadJSON(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load JSON config from %s: %w", path, err)
		}
	} else {
		if err := LoadTOML(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load TOML config from %s: %w", path, err)
		}
	}

	return finish(cfg)
}

// finish applies env overrides, fills blanks and validates.
func finish(cfg *Config) (*Config, error) {
	cfg.ApplyEnvOverrides()
	fillDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML decodes a TOML file on top of cfg.
func LoadTOML(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

// LoadJSON decodes a JSON file on top of cfg.
func LoadJSON(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	return nil
}

// fillDefaults fills in any missing values with defaults.
func fillDefaults(cfg *Config) {
	defaults := Default()

	if cfg.Version == "" {
		cfg.Version = defaults.Version
	}

	// Model
	if cfg.Model.Command == "" {
		cfg.Model.Command = defaults.Model.Command
	}
	if cfg.Model.Name == "" {
		cfg.Model.Name = defaults.Model.Name
	}
	if cfg.Model.TimeoutSecs == 0 {
		cfg.Model.TimeoutSecs = defaults.Model.TimeoutSecs
	}
	if cfg.Model.MaxPromptChars == 0 {
		cfg.Model.MaxPromptChars = defaults.Model.MaxPromptChars
	}

	// UI
	if cfg.UI.Theme == "" {
		cfg.UI.Theme = defaults.UI.Theme
	}

	// Log
	if cfg.Log.Level == "" {
		cfg.Log.Level = defaults.Log.Level
	}
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// SaveTOML saves the configuration to a TOML file.
// RELIABILITY: written to a temp file and renamed so a crash never leaves
// a half-written config behind.
func SaveTOML(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var b strings.Builder
	b.WriteString("# sidebar configuration file\n")
	b.WriteString("# Generated by `sidebar config init` - edit with care\n\n")

	if err := toml.NewEncoder(&b).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := util.AtomicWriteFile(path, []byte(b.String()), 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// SaveJSON saves the configuration to a JSON file.
func SaveJSON(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := util.AtomicWriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Save writes cfg to path, choosing the format from the extension.
func Save(cfg *Config, path string) error {
	if strings.HasSuffix(strings.ToLower(path), ".json") {
		return SaveJSON(cfg, path)
	}
	return SaveTOML(cfg, path)
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns any errors as
// ValidateErrors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	// ==========================================================================
	// Model
	// ==========================================================================

	if strings.TrimSpace(c.Model.Command) == "" {
		errs = append(errs, ValidationError{Field: "model.command", Message: "must not be empty"})
	}
	if strings.TrimSpace(c.Model.Name) == "" {
		errs = append(errs, ValidationError{Field: "model.name", Message: "must not be empty"})
	} else if strings.ContainsAny(c.Model.Name, " \t\r\n") {
		errs = append(errs, ValidationError{
			Field:   "model.name",
			Message: fmt.Sprintf("invalid model name '%s', must not contain whitespace", c.Model.Name),
		})
	}
	if c.Model.TimeoutSecs < 1 || c.Model.TimeoutSecs > 3600 {
		errs = append(errs, ValidationError{
			Field:   "model.timeout_secs",
			Message: fmt.Sprintf("must be between 1 and 3600, got %d", c.Model.TimeoutSecs),
		})
	}
	if c.Model.NumThreads < 0 || c.Model.NumThreads > 1024 {
		errs = append(errs, ValidationError{
			Field:   "model.num_threads",
			Message: fmt.Sprintf("must be between 0 and 1024, got %d", c.Model.NumThreads),
		})
	}
	if c.Model.KeepAlive != "" && !validKeepAlive(c.Model.KeepAlive) {
		errs = append(errs, ValidationError{
			Field:   "model.keep_alive",
			Message: fmt.Sprintf("invalid duration '%s', use a Go duration such as 30m or a number of seconds", c.Model.KeepAlive),
		})
	}
	if c.Model.MaxPromptChars < 1 || c.Model.MaxPromptChars > 100000 {
		errs = append(errs, ValidationError{
			Field:   "model.max_prompt_chars",
			Message: fmt.Sprintf("must be between 1 and 100000, got %d", c.Model.MaxPromptChars),
		})
	}

	// ==========================================================================
	// UI
	// ==========================================================================

	validThemes := map[string]bool{"auto": true, "dark": true, "light": true}
	if !validThemes[strings.ToLower(c.UI.Theme)] {
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("invalid theme '%s', must be one of: auto, dark, light", c.UI.Theme),
		})
	}
	if c.UI.Width != 0 && (c.UI.Width < 30 || c.UI.Width > 400) {
		errs = append(errs, ValidationError{
			Field:   "ui.width",
			Message: fmt.Sprintf("must be 0 or between 30 and 400, got %d", c.UI.Width),
		})
	}

	// ==========================================================================
	// Log
	// ==========================================================================

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Log.Level)] {
		errs = append(errs, ValidationError{
			Field:   "log.level",
			Message: fmt.Sprintf("invalid level '%s', must be one of: debug, info, warn, error", c.Log.Level),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// validKeepAlive accepts what the model tool accepts: a Go duration or a
// plain (possibly negative) number of seconds.
func validKeepAlive(s string) bool {
	if _, err := time.ParseDuration(s); err == nil {
		return true
	}
	_, err := strconv.Atoi(s)
	return err == nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies SIDEBAR_* environment variables to the config.
func (c *Config) ApplyEnvOverrides() {
	// SIDEBAR_MODEL
	if model := os.Getenv("SIDEBAR_MODEL"); model != "" {
		c.Model.Name = model
	}

	// SIDEBAR_OLLAMA_BIN
	if bin := os.Getenv("SIDEBAR_OLLAMA_BIN"); bin != "" {
		c.Model.Command = bin
	}

	// SIDEBAR_TIMEOUT (seconds). Unparseable values are ignored.
	if timeout := os.Getenv("SIDEBAR_TIMEOUT"); timeout != "" {
		if secs, err := strconv.Atoi(timeout); err == nil {
			c.Model.TimeoutSecs = secs
		}
	}

	// SIDEBAR_LOCK
	if lock := os.Getenv("SIDEBAR_LOCK"); lock != "" {
		c.Lock.Path = lock
	}

	// SIDEBAR_LOG_LEVEL
	if level := os.Getenv("SIDEBAR_LOG_LEVEL"); level != "" {
		c.Log.Level = strings.ToLower(level)
	}
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// Get retrieves a configuration value using dot notation (e.g., "model.name").
func (c *Config) Get(key string) (interface{}, error) {
	field, err := c.lookup(key)
	if err != nil {
		return nil, err
	}
	return field.Interface(), nil
}

// Set sets a configuration value using dot notation (e.g., "model.name").
// String values are converted to the field's type.
func (c *Config) Set(key string, value interface{}) error {
	field, err := c.lookup(key)
	if err != nil {
		return err
	}
	if !field.CanSet() {
		return fmt.Errorf("cannot set field: %s", key)
	}
	return setFieldValue(field, value)
}

func (c *Config) lookup(key string) (reflect.Value, error) {
	if strings.TrimSpace(key) == "" {
		return reflect.Value{}, errors.New("empty key")
	}
	parts := strings.Split(key, ".")

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		fieldName := normalizeFieldName(part)
		field := v.FieldByNameFunc(func(name string) bool {
			return strings.EqualFold(name, fieldName)
		})
		if !field.IsValid() {
			return reflect.Value{}, fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}
		if i == len(parts)-1 {
			return field, nil
		}
		if field.Kind() != reflect.Struct {
			return reflect.Value{}, fmt.Errorf("field '%s' is not a struct", strings.Join(parts[:i+1], "."))
		}
		v = field
	}
	return reflect.Value{}, fmt.Errorf("invalid key: %s", key)
}

// normalizeFieldName converts a snake_case or kebab-case name to its Go
// field equivalent.
func normalizeFieldName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-'
	})

	var result strings.Builder
	for _, part := range parts {
		if len(part) > 0 {
			result.WriteString(strings.ToUpper(string(part[0])))
			result.WriteString(strings.ToLower(part[1:]))
		}
	}
	return result.String()
}

// setFieldValue sets a reflect.Value from an interface{} value with type conversion.
func setFieldValue(field reflect.Value, value interface{}) error {
	if strVal, ok := value.(string); ok {
		switch field.Kind() {
		case reflect.String:
			field.SetString(strVal)
			return nil
		case reflect.Int, reflect.Int64:
			intVal, err := strconv.ParseInt(strVal, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer value: %w", err)
			}
			field.SetInt(intVal)
			return nil
		case reflect.Bool:
			lower := strings.ToLower(strVal)
			field.SetBool(lower == "1" || lower == "true" || lower == "yes")
			return nil
		}
	}

	val := reflect.ValueOf(value)
	if !val.IsValid() {
		return fmt.Errorf("cannot assign nil to %s", field.Type())
	}
	if val.Type().AssignableTo(field.Type()) {
		field.Set(val)
		return nil
	}
	if val.Type().ConvertibleTo(field.Type()) && val.Kind() != reflect.String && field.Kind() != reflect.String {
		field.Set(val.Convert(field.Type()))
		return nil
	}
	return fmt.Errorf("cannot assign %T to %s", value, field.Type())
}

// Keys returns every configuration key in dot notation.
func Keys() []string {
	return []string{
		"version",
		"model.command",
		"model.name",
		"model.timeout_secs",
		"model.num_threads",
		"model.keep_alive",
		"model.max_prompt_chars",
		"lock.path",
		"ui.theme",
		"ui.width",
		"ui.markdown",
		"ui.plain",
		"log.path",
		"log.level",
	}
}

// Clone returns a copy of the configuration. Config holds only value
// types, so a struct copy is deep.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// String returns the config as indented JSON for debugging.
func (c *Config) String() string {
	data, _ := json.MarshalIndent(c, "", "  ")
	return string(data)
}
