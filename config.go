// Copyright 2025 The Rivaas Authors
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

package compress

import (
	"errors"
	"strings"

	"dario.cat/mergo"
	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
)

// Settings keys recognized by [ConfigFromSettings].
const (
	SettingMimetypes = "COMPRESS_MIMETYPES"
	SettingDebug     = "COMPRESS_DEBUG"
	SettingLevel     = "COMPRESS_LEVEL"
	SettingMinSize   = "COMPRESS_MIN_SIZE"
)

// Default values applied when a setting is not overridden.
const (
	DefaultLevel   = 6
	DefaultMinSize = 500
)

// DefaultMimetypes returns the content types compressed by default.
func DefaultMimetypes() []string {
	return []string{
		"text/html",
		"text/css",
		"text/xml",
		"application/json",
		"application/javascript",
	}
}

// Config holds the compression settings.
// It is populated once at startup and read-only afterwards; a [Compressor]
// keeps its own copy.
type Config struct {
	// Mimetypes lists the media types eligible for compression.
	// Matching is exact: no wildcards, no parameters.
	Mimetypes []string `mapstructure:"COMPRESS_MIMETYPES" validate:"dive,required"`

	// DebugCompression enables compression while the host runs in debug mode.
	DebugCompression bool `mapstructure:"COMPRESS_DEBUG"`

	// Level is the gzip level, 0 (store) to 9 (best compression).
	Level int `mapstructure:"COMPRESS_LEVEL" validate:"gte=0,lte=9"`

	// MinSize is the smallest body, in bytes, worth compressing.
	MinSize int `mapstructure:"COMPRESS_MIN_SIZE" validate:"gte=0"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Mimetypes: DefaultMimetypes(),
		Level:     DefaultLevel,
		MinSize:   DefaultMinSize,
	}
}

// defaultSettings returns the defaults in settings-store form.
func defaultSettings() map[string]any {
	return map[string]any{
		SettingMimetypes: DefaultMimetypes(),
		SettingDebug:     false,
		SettingLevel:     DefaultLevel,
		SettingMinSize:   DefaultMinSize,
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the configuration and returns a *ConfigError for the first
// rejected field.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &ConfigError{Operation: "validate", Err: err}
	}

	fe := fieldErrs[0]
	field := fe.StructField()
	switch {
	case field == "Level":
		return &ConfigError{Field: SettingLevel, Operation: "validate", Err: ErrInvalidLevel}
	case field == "MinSize":
		return &ConfigError{Field: SettingMinSize, Operation: "validate", Err: ErrInvalidMinSize}
	case strings.HasPrefix(field, "Mimetypes"):
		return &ConfigError{Field: SettingMimetypes, Operation: "validate", Err: ErrEmptyMimetype}
	default:
		return &ConfigError{Field: field, Operation: "validate", Err: fe}
	}
}

// ConfigFromSettings builds a Config from a host settings store.
// The defaults are merged with settings (keys are case-insensitive, settings
// win), decoded with weak typing so "9" and "text/html,text/css" are accepted,
// and validated. Keys that do not belong to this package are ignored.
//
// Example:
//
//	cfg, err := compress.ConfigFromSettings(map[string]any{
//	    "COMPRESS_LEVEL":    9,
//	    "COMPRESS_MIN_SIZE": "1024",
//	})
func ConfigFromSettings(settings map[string]any) (Config, error) {
	merged := defaultSettings()
	if len(settings) > 0 {
		overrides := make(map[string]any, len(settings))
		for k, v := range settings {
			overrides[strings.ToUpper(k)] = v
		}
		if err := mergo.Merge(&merged, overrides, mergo.WithOverride); err != nil {
			return Config{}, &ConfigError{Operation: "merge", Err: err}
		}
	}

	var cfg Config
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.StringToSliceHookFunc(","),
	})
	if err != nil {
		return Config{}, &ConfigError{Operation: "decode", Err: err}
	}
	if err = decoder.Decode(merged); err != nil {
		return Config{}, &ConfigError{Operation: "decode", Err: err}
	}

	for i, mt := range cfg.Mimetypes {
		cfg.Mimetypes[i] = strings.TrimSpace(mt)
	}

	if err = cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}
