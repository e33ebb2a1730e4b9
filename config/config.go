package config

import (
	"fmt"
	"net/url"
)

const (
	EnvRPCURL = "SIGCHECK_RPC_URL"
	EnvPort   = "SIGCHECK_PORT"
	EnvDebug  = "SIGCHECK_DEBUG"

	DefaultRPCURL = "http://localhost:8545"
	DefaultPort   = 4271
)

// Config holds the runtime settings shared by the sigcheck commands
type Config struct {
	RPCURL string
	Port   int
	Debug  bool
}

// Validate checks that the settings are usable
func (c *Config) Validate() error {
	if c.RPCURL == "" {
		return fmt.Errorf("rpc url is required (%s)", EnvRPCURL)
	}
	u, err := url.Parse(c.RPCURL)
	if err != nil {
		return fmt.Errorf("invalid rpc url: %w", err)
	}
	switch u.Scheme {
	case "http", "https", "ws", "wss":
	default:
		return fmt.Errorf("unsupported rpc url scheme %q", u.Scheme)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	return nil
}
