// Package config provides functionality for managing configuration options
// for the FRUS binaries using command-line flags, a config file and
// environment variables.
//
// Precedence, lowest first: defaults, flags, config file, environment.
package config

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Options holds the configuration values for the application.
type Options struct {
	// Addr is the gateway's listening address (ip:port).
	Addr string

	// BackendURL is the base URL of the FRUS backend API.
	BackendURL string

	// TokenFile is where the shell keeps the auth token.
	TokenFile string

	// TokenDSN, when set, keeps the token in a database instead
	// (postgres://..., sqlite://path or file:path).
	TokenDSN string

	// ShortURLPrefix turns a short code into the short URL the backend knows.
	ShortURLPrefix string

	// CAFile is an optional PEM bundle trusted for the backend's TLS certificate.
	CAFile string

	LogLevel string

	// RequestTimeout bounds every backend call.
	RequestTimeout time.Duration

	// RateLimit caps backend calls per second; 0 disables the cap.
	RateLimit float64

	// RefreshInterval reloads the URL panels periodically; 0 disables it.
	RefreshInterval time.Duration

	// DevChecks makes the store panic on in-place state mutation.
	DevChecks bool

	// Config is the path to the config file.
	Config string
}

// Defaults.
const (
	DefaultAddr           = "localhost:8080"
	DefaultBackendURL     = "http://127.0.0.1:5000"
	DefaultTokenFile      = "frus_token.json"
	DefaultShortURLPrefix = "bit.ly/"
	DefaultLogLevel       = "info"
	DefaultRequestTimeout = 10 * time.Second
)

// Parse reads args (without the program name) and the environment. A
// missing config file is ignored; an unreadable or malformed one is an error.
func Parse(args []string) (*Options, error) {
	return parse(args, os.Getenv)
}

func parse(args []string, getenv func(string) string) (*Options, error) {
	options := &Options{}

	fs := flag.NewFlagSet("frus", flag.ContinueOnError)
	fs.StringVar(&options.Addr, "a", DefaultAddr, "run on ip:port server")
	fs.StringVar(&options.BackendURL, "b", DefaultBackendURL, "backend base URL")
	fs.StringVar(&options.TokenFile, "t", DefaultTokenFile, "token file")
	fs.StringVar(&options.TokenDSN, "d", "", "token database DSN")
	fs.StringVar(&options.ShortURLPrefix, "p", DefaultShortURLPrefix, "short URL prefix")
	fs.StringVar(&options.CAFile, "ca", "", "path to CA cert for the backend")
	fs.StringVar(&options.LogLevel, "l", DefaultLogLevel, "log level")
	fs.DurationVar(&options.RequestTimeout, "timeout", DefaultRequestTimeout, "backend request timeout")
	fs.Float64Var(&options.RateLimit, "rate", 0, "backend requests per second, 0 for unlimited")
	fs.DurationVar(&options.RefreshInterval, "refresh", 0, "URL panel refresh interval, 0 to disable")
	fs.BoolVar(&options.DevChecks, "dev", false, "panic on in-place state mutation")
	fs.StringVar(&options.Config, "config", "config.json", "path to config file")
	fs.StringVar(&options.Config, "c", "config.json", "path to config file (shorthand)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if configPath := getenv("CONFIG"); configPath != "" {
		options.Config = configPath
	}

	if options.Config != "" {
		if err := loadFile(options.Config, options); err != nil {
			return nil, err
		}
	}

	if err := applyEnv(options, getenv); err != nil {
		return nil, err
	}

	return options, nil
}

func loadFile(path string, options *Options) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("error while reading config file: %w", err)
	}

	var fc fileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		return fmt.Errorf("error while parsing config file: %w", err)
	}
	return fc.apply(options)
}

// fileConfig mirrors Options with durations as strings ("5s") so JSON and
// YAML files read the same.
type fileConfig struct {
	Addr            *string  `json:"addr" yaml:"addr"`
	BackendURL      *string  `json:"backend_url" yaml:"backend_url"`
	TokenFile       *string  `json:"token_file" yaml:"token_file"`
	TokenDSN        *string  `json:"token_dsn" yaml:"token_dsn"`
	ShortURLPrefix  *string  `json:"short_url_prefix" yaml:"short_url_prefix"`
	CAFile          *string  `json:"ca_file" yaml:"ca_file"`
	LogLevel        *string  `json:"log_level" yaml:"log_level"`
	RequestTimeout  *string  `json:"request_timeout" yaml:"request_timeout"`
	RateLimit       *float64 `json:"rate_limit" yaml:"rate_limit"`
	RefreshInterval *string  `json:"refresh_interval" yaml:"refresh_interval"`
	DevChecks       *bool    `json:"dev_checks" yaml:"dev_checks"`
}

func (fc fileConfig) apply(o *Options) error {
	setString(&o.Addr, fc.Addr)
	setString(&o.BackendURL, fc.BackendURL)
	setString(&o.TokenFile, fc.TokenFile)
	setString(&o.TokenDSN, fc.TokenDSN)
	setString(&o.ShortURLPrefix, fc.ShortURLPrefix)
	setString(&o.CAFile, fc.CAFile)
	setString(&o.LogLevel, fc.LogLevel)
	if fc.RateLimit != nil {
		o.RateLimit = *fc.RateLimit
	}
	if fc.DevChecks != nil {
		o.DevChecks = *fc.DevChecks
	}
	if err := setDuration(&o.RequestTimeout, fc.RequestTimeout, "request_timeout"); err != nil {
		return err
	}
	return setDuration(&o.RefreshInterval, fc.RefreshInterval, "refresh_interval")
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setDuration(dst *time.Duration, v *string, name string) error {
	if v == nil {
		return nil
	}
	d, err := time.ParseDuration(*v)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", name, *v, err)
	}
	*dst = d
	return nil
}

func applyEnv(o *Options, getenv func(string) string) error {
	strs := map[string]*string{
		"SERVER_ADDRESS":   &o.Addr,
		"BACKEND_URL":      &o.BackendURL,
		"TOKEN_FILE":       &o.TokenFile,
		"TOKEN_DSN":        &o.TokenDSN,
		"SHORT_URL_PREFIX": &o.ShortURLPrefix,
		"CA_FILE":          &o.CAFile,
		"LOG_LEVEL":        &o.LogLevel,
	}
	for key, dst := range strs {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}

	if v := getenv("REQUEST_TIMEOUT"); v != "" {
		if err := setDuration(&o.RequestTimeout, &v, "REQUEST_TIMEOUT"); err != nil {
			return err
		}
	}
	if v := getenv("REFRESH_INTERVAL"); v != "" {
		if err := setDuration(&o.RefreshInterval, &v, "REFRESH_INTERVAL"); err != nil {
			return err
		}
	}
	if v := getenv("RATE_LIMIT"); v != "" {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid RATE_LIMIT %q: %w", v, err)
		}
		o.RateLimit = rps
	}
	if v := getenv("DEV_CHECKS"); v != "" {
		dev, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid DEV_CHECKS %q: %w", v, err)
		}
		o.DevChecks = dev
	}
	return nil
}
