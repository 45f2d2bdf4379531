package shared

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Environment variables consulted by [Config.ApplyEnv].
const (
	EnvLogin       = "YAMUSIC_LOGIN"
	EnvAccessToken = "YAMUSIC_ACCESS_TOKEN"
	EnvUserID      = "YAMUSIC_USER_ID"
)

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	API         APIConfig         `toml:"api"`
	OAuth       OAuthConfig       `toml:"oauth"`
	Credentials CredentialsConfig `toml:"credentials"`
}

// APIConfig contains the service endpoints and transport settings.
type APIConfig struct {
	Host           string  `toml:"host"`
	OAuthHost      string  `toml:"oauth_host"`
	Scheme         string  `toml:"scheme"`
	TimeoutSeconds int     `toml:"timeout_seconds"`
	RateLimit      float64 `toml:"rate_limit"`
}

// Timeout returns the configured request timeout, zero meaning no timeout.
func (c APIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// OAuthConfig contains the application credentials of the mobile client.
type OAuthConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	PackageName  string `toml:"package_name"`
}

// CredentialsConfig contains the user's persisted authentication state.
type CredentialsConfig struct {
	Login       string `toml:"login"`
	AccessToken string `toml:"access_token"`
	UserID      int64  `toml:"user_id"`
	DeviceID    string `toml:"device_id"`
	UUID        string `toml:"uuid"`
}

// HasToken reports whether both an access token and a user id are present.
func (c CredentialsConfig) HasToken() bool {
	return c.AccessToken != "" && c.UserID != 0
}

// Update stores a freshly issued token.
func (c *CredentialsConfig) Update(login, accessToken string, userID int64) error {
	if accessToken == "" || userID == 0 {
		return fmt.Errorf("%w: access token and user id are required", ErrMissingCredentials)
	}
	c.Login = login
	c.AccessToken = accessToken
	c.UserID = userID
	return nil
}

// EnsureDevice fills in a device id and uuid when they are missing, returning true if anything changed.
func (c *CredentialsConfig) EnsureDevice() bool {
	changed := false
	if c.DeviceID == "" {
		c.DeviceID = GenerateID()
		changed = true
	}
	if c.UUID == "" {
		c.UUID = GenerateID()
		changed = true
	}
	return changed
}

// ApplyEnv overrides credentials with values from the environment.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv(EnvLogin); v != "" {
		c.Credentials.Login = v
	}
	if v := os.Getenv(EnvAccessToken); v != "" {
		c.Credentials.AccessToken = v
	}
	if v := os.Getenv(EnvUserID); v != "" {
		uid, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: %s must be numeric: %v", ErrInvalidConfig, EnvUserID, err)
		}
		c.Credentials.UserID = uid
	}
	return nil
}

// Validate checks that the endpoints needed to reach the service are set.
func (c *Config) Validate() error {
	if c.API.Host == "" || c.API.OAuthHost == "" {
		return fmt.Errorf("%w: api.host and api.oauth_host must be set", ErrInvalidConfig)
	}
	if c.API.RateLimit < 0 {
		return fmt.Errorf("%w: api.rate_limit must not be negative", ErrInvalidConfig)
	}
	return nil
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys absent from the file keep the embedded defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// SaveConfig writes the configuration to path, replacing any existing file.
//
// The file holds an access token, so it is written with owner-only permissions.
func SaveConfig(path string, config *Config) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(config); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
