// Copyright 2025 Tom Barlow
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config loads codeconv settings from a YAML file and the
// environment.
package config

import (
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	codeconverrors "github.com/tombee/codeconv/pkg/errors"
)

// Token storage backends.
const (
	StorageKeychain = "keychain"
	StorageFile     = "file"
)

// Config is the full CLI configuration.
type Config struct {
	API  APIConfig  `yaml:"api"`
	Auth AuthConfig `yaml:"auth"`
	Log  LogConfig  `yaml:"log"`

	Tracing TracingConfig `yaml:"tracing"`

	// ProfilePath is the JSON file holding the logged-in profile.
	ProfilePath string `yaml:"profile_path"`
}

// APIConfig configures the conversion service client.
type APIConfig struct {
	// BaseURL is the service root; endpoint paths are resolved against it.
	BaseURL string `yaml:"base_url"`

	Timeout       time.Duration `yaml:"timeout"`
	RetryAttempts int           `yaml:"retry_attempts"`

	// RequestsPerSecond limits outgoing requests. Zero disables limiting.
	RequestsPerSecond float64 `yaml:"requests_per_second"`

	// MaxContentLength is the largest script, in characters, accepted for
	// conversion.
	MaxContentLength int `yaml:"max_content_length"`
}

// AuthConfig configures the device authorization login.
type AuthConfig struct {
	ClientID      string   `yaml:"client_id"`
	DeviceAuthURL string   `yaml:"device_auth_url"`
	TokenURL      string   `yaml:"token_url"`
	Audience      string   `yaml:"audience"`
	Scopes        []string `yaml:"scopes"`

	// TokenStorage selects where the access token lives: keychain or file.
	TokenStorage string `yaml:"token_storage"`
}

// LogConfig mirrors the logging options of internal/log.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// TracingConfig selects the OpenTelemetry span exporter.
type TracingConfig struct {
	// Exporter is none, console, otlp or otlp_http.
	Exporter   string  `yaml:"exporter"`
	Endpoint   string  `yaml:"endpoint"`
	Insecure   bool    `yaml:"insecure"`
	SampleRate float64 `yaml:"sample_rate"`
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg := &Config{
		API: APIConfig{
			BaseURL:           "https://api.codeconv.dev/",
			Timeout:           30 * time.Second,
			RetryAttempts:     2,
			RequestsPerSecond: 5,
			MaxContentLength:  8192,
		},
		Auth: AuthConfig{
			DeviceAuthURL: "https://auth.codeconv.dev/oauth/device/code",
			TokenURL:      "https://auth.codeconv.dev/oauth/token",
			Audience:      "https://api.codeconv.dev",
			Scopes:        []string{"openid", "profile", "email"},
			TokenStorage:  StorageKeychain,
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
		Tracing: TracingConfig{
			Exporter:   "none",
			SampleRate: 1,
		},
	}
	if p, err := DefaultProfilePath(); err == nil {
		cfg.ProfilePath = p
	}
	return cfg
}

// Load reads configPath (when non-empty), fills unset fields with
// defaults, applies environment overrides and validates the result.
// A missing file is not an error.
func Load(configPath string) (*Config, error) {
	cfg := &Config{}

	if configPath != "" {
		if err := cfg.loadFromFile(configPath); err != nil {
			return nil, &codeconverrors.ConfigError{
				Key:    "config_file",
				Reason: fmt.Sprintf("failed to load from %s", configPath),
				Cause:  err,
			}
		}
	}

	cfg.applyDefaults()
	cfg.loadFromEnv()

	if err := cfg.Validate(); err != nil {
		return nil, &codeconverrors.ConfigError{
			Key:    "validation",
			Reason: "configuration validation failed",
			Cause:  err,
		}
	}
	return cfg, nil
}

func (c *Config) loadFromFile(path string) error {
	path, err := expandHome(path)
	if err != nil {
		return codeconverrors.Wrap(err, "failed to get home directory")
	}

	data, err := os.ReadFile(path)
	if codeconverrors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return codeconverrors.Wrap(err, "failed to read config file")
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return codeconverrors.Wrap(err, "failed to parse YAML")
	}
	return nil
}

// applyDefaults fills zero values so partial files work.
func (c *Config) applyDefaults() {
	d := Default()

	if c.API.BaseURL == "" {
		c.API.BaseURL = d.API.BaseURL
	}
	if c.API.Timeout == 0 {
		c.API.Timeout = d.API.Timeout
	}
	if c.API.RetryAttempts == 0 {
		c.API.RetryAttempts = d.API.RetryAttempts
	}
	if c.API.RequestsPerSecond == 0 {
		c.API.RequestsPerSecond = d.API.RequestsPerSecond
	}
	if c.API.MaxContentLength == 0 {
		c.API.MaxContentLength = d.API.MaxContentLength
	}

	if c.Auth.DeviceAuthURL == "" {
		c.Auth.DeviceAuthURL = d.Auth.DeviceAuthURL
	}
	if c.Auth.TokenURL == "" {
		c.Auth.TokenURL = d.Auth.TokenURL
	}
	if c.Auth.Audience == "" {
		c.Auth.Audience = d.Auth.Audience
	}
	if len(c.Auth.Scopes) == 0 {
		c.Auth.Scopes = d.Auth.Scopes
	}
	if c.Auth.TokenStorage == "" {
		c.Auth.TokenStorage = d.Auth.TokenStorage
	}

	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = d.Log.Format
	}

	if c.Tracing.Exporter == "" {
		c.Tracing.Exporter = d.Tracing.Exporter
	}
	if c.Tracing.SampleRate == 0 {
		c.Tracing.SampleRate = d.Tracing.SampleRate
	}

	if c.ProfilePath == "" {
		c.ProfilePath = d.ProfilePath
	} else if p, err := expandHome(c.ProfilePath); err == nil {
		c.ProfilePath = p
	}
}

func (c *Config) loadFromEnv() {
	if val := os.Getenv("CODECONV_API_URL"); val != "" {
		c.API.BaseURL = val
	}
	if val := os.Getenv("CODECONV_API_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			c.API.Timeout = d
		}
	}
	if val := os.Getenv("CODECONV_API_RETRIES"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			c.API.RetryAttempts = n
		}
	}
	if val := os.Getenv("CODECONV_CLIENT_ID"); val != "" {
		c.Auth.ClientID = val
	}
	if val := os.Getenv("CODECONV_TOKEN_STORAGE"); val != "" {
		c.Auth.TokenStorage = strings.ToLower(val)
	}
	if val := os.Getenv("CODECONV_PROFILE"); val != "" {
		c.ProfilePath = val
	}
	if val := os.Getenv("CODECONV_LOG_LEVEL"); val != "" {
		c.Log.Level = strings.ToLower(val)
	}
	if val := os.Getenv("CODECONV_TRACE_EXPORTER"); val != "" {
		c.Tracing.Exporter = strings.ToLower(val)
	}
	if val := os.Getenv("CODECONV_TRACE_ENDPOINT"); val != "" {
		c.Tracing.Endpoint = val
	}
	if val := os.Getenv("CODECONV_TRACE_INSECURE"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			c.Tracing.Insecure = b
		}
	}
}

// Validate checks every section and reports all problems at once.
func (c *Config) Validate() error {
	var errs []string

	if u, err := url.Parse(c.API.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Sprintf("api.base_url must be an absolute URL, got %q", c.API.BaseURL))
	}
	if c.API.Timeout <= 0 {
		errs = append(errs, fmt.Sprintf("api.timeout must be positive, got %v", c.API.Timeout))
	}
	if c.API.RetryAttempts < 0 {
		errs = append(errs, fmt.Sprintf("api.retry_attempts must be >= 0, got %d", c.API.RetryAttempts))
	}
	if c.API.RequestsPerSecond < 0 {
		errs = append(errs, fmt.Sprintf("api.requests_per_second must be >= 0, got %v", c.API.RequestsPerSecond))
	}
	if c.API.MaxContentLength <= 0 {
		errs = append(errs, fmt.Sprintf("api.max_content_length must be positive, got %d", c.API.MaxContentLength))
	}

	switch c.Auth.TokenStorage {
	case StorageKeychain, StorageFile:
	default:
		errs = append(errs, fmt.Sprintf("auth.token_storage must be one of [keychain, file], got %q", c.Auth.TokenStorage))
	}

	validLevels := map[string]bool{"trace": true, "debug": true, "info": true, "warn": true, "warning": true, "error": true}
	if !validLevels[c.Log.Level] {
		errs = append(errs, fmt.Sprintf("log.level must be one of [trace, debug, info, warn, error], got %q", c.Log.Level))
	}
	if c.Log.Format != "json" && c.Log.Format != "text" {
		errs = append(errs, fmt.Sprintf("log.format must be one of [json, text], got %q", c.Log.Format))
	}

	switch c.Tracing.Exporter {
	case "none", "console":
	case "otlp", "otlp_http":
		if c.Tracing.Endpoint == "" {
			errs = append(errs, fmt.Sprintf("tracing.endpoint is required for exporter %q", c.Tracing.Exporter))
		}
	default:
		errs = append(errs, fmt.Sprintf("tracing.exporter must be one of [none, console, otlp, otlp_http], got %q", c.Tracing.Exporter))
	}
	if c.Tracing.SampleRate < 0 || c.Tracing.SampleRate > 1 {
		errs = append(errs, fmt.Sprintf("tracing.sample_rate must be between 0 and 1, got %v", c.Tracing.SampleRate))
	}

	if c.ProfilePath == "" {
		errs = append(errs, "profile_path could not be determined")
	}

	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

