package config

import (
	"net/http"
	"time"
)

const (
	// DefaultPort is the port the redirector listens on when none is given.
	DefaultPort uint16 = 80

	// DefaultAddress is the bind address used when none is given.
	DefaultAddress = "0.0.0.0"

	// DefaultRedirectStatus is the status used for every redirect.
	DefaultRedirectStatus = http.StatusTemporaryRedirect

	// DefaultConfigFile is looked up in the working directory when --config is not set.
	DefaultConfigFile = ".httpsredirect.yaml"

	// MaxConfigSize Define constant for max config file size (1MB)
	MaxConfigSize = 1 << 20 // 1MB

	// MaxReadHeaderTimeout caps the configurable header read timeout.
	MaxReadHeaderTimeout = 5 * time.Minute

	// ShutdownTimeout is the timeout for graceful shutdown
	ShutdownTimeout = 10 * time.Second

	// EnvLogLevel overrides the configured log level.
	EnvLogLevel = "LOG_LEVEL"
)
