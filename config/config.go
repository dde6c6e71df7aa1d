// Package config handles configuration management for httpsredirect.
//
// Provides functionality for:
// - Applying defaults
// - Loading an optional YAML file
// - Applying environment overrides (a local .env file is honoured)
// - Validating the result and building the bind address
package config

import (
	"errors"
	"io"
	"io/fs"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/flrossetto/httpsredirect/internal/redirecterr"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config holds the redirector configuration.
type Config struct {
	// Port to listen on
	Port uint16 `yaml:"port"`
	// Bind address (IPv4 or IPv6 literal)
	Address string `yaml:"address"`
	// Controls logging verbosity
	LogLevel logrus.Level `yaml:"logLevel"`
	// Status code used for every redirect (301, 302, 303, 307 or 308)
	RedirectStatus int `yaml:"redirectStatus"`

	// Maximum duration to wait for reading HTTP headers (e.g. "30s", "1m")
	// If zero, no timeout is applied
	ReadHeaderTimeout time.Duration `yaml:"readHeaderTimeout"`
}

// Default returns the configuration used when nothing else is specified.
func Default() Config {
	return Config{
		Port:           DefaultPort,
		Address:        DefaultAddress,
		LogLevel:       logrus.InfoLevel,
		RedirectStatus: DefaultRedirectStatus,
	}
}

// LoadConfig loads configuration from a YAML file on top of cfg.
//
// When path is empty, DefaultConfigFile is used if it exists in the current
// directory; a missing default file leaves cfg untouched. An explicit path
// that cannot be read is an error.
func LoadConfig(path string, cfg *Config) error {
	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return redirecterr.New(redirecterr.CodeConfigError, "invalid config path", redirecterr.WithError(err))
	}

	file, err := os.Open(filepath.Clean(absPath))
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}

		return redirecterr.New(redirecterr.CodeConfigError, "failed to open config", redirecterr.WithError(err))
	}

	defer func() {
		if err := file.Close(); err != nil {
			logrus.WithError(err).Warn("Failed to close config file")
		}
	}()

	return decode(file, cfg)
}

func decode(r io.Reader, cfg *Config) error {
	// Read one byte past the limit so oversized files are rejected, not truncated
	data, err := io.ReadAll(io.LimitReader(r, MaxConfigSize+1))
	if err != nil {
		return redirecterr.New(redirecterr.CodeConfigError, "failed to read config", redirecterr.WithError(err))
	}

	if len(data) > MaxConfigSize {
		return redirecterr.New(redirecterr.CodeConfigError, "config file too large",
			redirecterr.WithDetails(redirecterr.Details{"maxBytes": MaxConfigSize}))
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return redirecterr.New(redirecterr.CodeConfigError, "invalid config format", redirecterr.WithError(err))
	}

	return nil
}

// ApplyEnv applies environment overrides to cfg. A .env file in the working
// directory is loaded first if present; variables already set in the process
// environment win over it.
func ApplyEnv(cfg *Config) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return redirecterr.New(redirecterr.CodeConfigError, "failed to load .env", redirecterr.WithError(err))
	}

	v := strings.TrimSpace(os.Getenv(EnvLogLevel))
	if v == "" {
		return nil
	}

	level, err := logrus.ParseLevel(v)
	if err != nil {
		return redirecterr.New(redirecterr.CodeConfigError, "invalid "+EnvLogLevel, redirecterr.WithError(err))
	}

	cfg.LogLevel = level

	return nil
}

// Validate checks cfg and returns the first problem found.
func (c Config) Validate() error {
	if net.ParseIP(c.Address) == nil {
		return redirecterr.New(redirecterr.CodeConfigError, "Invalid bind address",
			redirecterr.WithDetails(redirecterr.Details{"address": c.Address}))
	}

	switch c.RedirectStatus {
	case http.StatusMovedPermanently, http.StatusFound, http.StatusSeeOther,
		http.StatusTemporaryRedirect, http.StatusPermanentRedirect:
	default:
		return redirecterr.New(redirecterr.CodeConfigError, "redirectStatus must be one of 301, 302, 303, 307, 308",
			redirecterr.WithDetails(redirecterr.Details{"redirectStatus": c.RedirectStatus}))
	}

	if c.ReadHeaderTimeout < 0 {
		return redirecterr.New(redirecterr.CodeConfigError, "readHeaderTimeout cannot be negative")
	}

	if c.ReadHeaderTimeout > MaxReadHeaderTimeout {
		return redirecterr.New(redirecterr.CodeConfigError, "readHeaderTimeout cannot exceed 5 minutes")
	}

	return nil
}

// BindAddr combines Address and Port into a socket address.
func (c Config) BindAddr() string {
	return net.JoinHostPort(c.Address, strconv.FormatUint(uint64(c.Port), 10))
}
