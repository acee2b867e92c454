package signer

import (
	"errors"
	"net/url"
	"strings"
)

const defaultTimeout = 15 // seconds

// Config remote signer config
type Config struct {
	APIAddress string
	APIKey     string
	APISecret  string `json:"-"`
	Timeout    int    `toml:",omitempty" json:",omitempty"` // seconds
}

// CheckConfig check signer config
func (c *Config) CheckConfig() error {
	if c.APIAddress == "" {
		return errors.New("signer must config 'APIAddress'")
	}
	if u, err := url.Parse(c.APIAddress); err != nil || u.Scheme == "" || u.Host == "" {
		return errors.New("signer 'APIAddress' must be an absolute url")
	}
	if c.APIKey == "" || c.APISecret == "" {
		return errors.New("signer must config 'APIKey' and 'APISecret'")
	}
	if c.Timeout < 0 {
		return errors.New("signer 'Timeout' must not be negative")
	}
	return nil
}

// GetTimeout get request timeout in seconds
func (c *Config) GetTimeout() int {
	if c.Timeout == 0 {
		return defaultTimeout
	}
	return c.Timeout
}

func (c *Config) payloadURL(parts ...string) string {
	return strings.TrimRight(c.APIAddress, "/") + "/payload" + joinPath(parts)
}

func joinPath(parts []string) string {
	var sb strings.Builder
	for _, part := range parts {
		sb.WriteString("/")
		sb.WriteString(url.PathEscape(part))
	}
	return sb.String()
}
