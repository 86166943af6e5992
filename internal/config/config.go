// Package config loads the optional config.toml that sits in the data
// directory. Flags and environment variables are applied on top by main.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// FileName is the name of the config file inside the data directory.
const FileName = "config.toml"

// Config is the full set of file settings.
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Search  SearchConfig  `toml:"search"`
	Editor  EditorConfig  `toml:"editor"`
	Session SessionConfig `toml:"session"`
	Log     LogConfig     `toml:"log"`
}

type ServerConfig struct {
	Addr         string   `toml:"addr"`
	Port         int      `toml:"port"`
	ReadTimeout  Duration `toml:"read_timeout"`
	WriteTimeout Duration `toml:"write_timeout"`
	IdleTimeout  Duration `toml:"idle_timeout"`
}

// SearchConfig holds the initial state of the find bar toggles.
type SearchConfig struct {
	CaseSensitive bool `toml:"case_sensitive"`
	WholeWord     bool `toml:"whole_word"`
	Regex         bool `toml:"regex"`
}

type EditorConfig struct {
	// MaxChars is the soft character limit shown under the editor. 0 disables it.
	MaxChars int `toml:"max_chars"`
}

type SessionConfig struct {
	TTL           Duration `toml:"ttl"`
	SweepInterval Duration `toml:"sweep_interval"`
	MaxSessions   int      `toml:"max_sessions"`
}

type LogConfig struct {
	MaxSize    int  `toml:"max_size"`    // megabytes
	MaxBackups int  `toml:"max_backups"` // files
	MaxAge     int  `toml:"max_age"`     // days
	Compress   bool `toml:"compress"`
}

// Default returns the settings used when no file is present.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:         "localhost",
			Port:         8080,
			ReadTimeout:  Duration{5 * time.Second},
			WriteTimeout: Duration{10 * time.Second},
			IdleTimeout:  Duration{time.Minute},
		},
		Editor: EditorConfig{
			MaxChars: 1000,
		},
		Session: SessionConfig{
			TTL:           Duration{30 * time.Minute},
			SweepInterval: Duration{5 * time.Minute},
			MaxSessions:   1000,
		},
		Log: LogConfig{
			MaxSize:    100,
			MaxBackups: 3,
			MaxAge:     30,
			Compress:   true,
		},
	}
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config file %s: %w", path, err)
	}

	if err := Parse(data, &cfg); err != nil {
		return Default(), &ParseError{Path: path, Err: err}
	}

	if err := cfg.Validate(); err != nil {
		return Default(), fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return cfg, nil
}

// Parse decodes TOML data into cfg, keeping fields the data does not set.
// Unknown keys are rejected.
func Parse(data []byte, cfg *Config) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(cfg)
}

// Validate checks value ranges.
func (c Config) Validate() error {
	var errs []error
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}
	if c.Editor.MaxChars < 0 {
		errs = append(errs, fmt.Errorf("editor.max_chars must not be negative"))
	}
	if c.Session.TTL.Duration <= 0 {
		errs = append(errs, fmt.Errorf("session.ttl must be positive"))
	}
	if c.Session.SweepInterval.Duration <= 0 {
		errs = append(errs, fmt.Errorf("session.sweep_interval must be positive"))
	}
	if c.Session.MaxSessions < 0 {
		errs = append(errs, fmt.Errorf("session.max_sessions must not be negative"))
	}
	return errors.Join(errs...)
}

// ParseError reports a config file that is not valid TOML for Config.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	var decodeErr *toml.DecodeError
	if errors.As(e.Err, &decodeErr) {
		row, col := decodeErr.Position()
		return fmt.Sprintf("parse error in %s at line %d, column %d: %s", e.Path, row, col, decodeErr.Error())
	}
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Duration is a time.Duration written as a string such as "30m" in TOML.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}
