// Package config loads application configuration from environment variables
// and an optional YAML file.
package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every configuration key to form its environment
// variable name: listen_addr is read from GITHUBEXPLORER_LISTEN_ADDR.
const EnvPrefix = "GITHUBEXPLORER"

// Storage drivers accepted by the storage_driver key.
const (
	StorageSQLite = "sqlite"
	StorageBolt   = "bolt"
	StorageMemory = "memory"
)

// Config holds the application configuration.
type Config struct {
	ListenAddr     string
	StorageDriver  string
	DBPath         string
	BoltPath       string
	GitHubToken    string
	GitHubAPIURL   string
	RequestTimeout time.Duration
	IssuesLimit    int
}

// HasGitHubToken reports whether requests are authenticated. Unauthenticated
// requests work but get GitHub's lower rate limit.
func (c *Config) HasGitHubToken() bool {
	return c.GitHubToken != ""
}

// Load reads configuration and returns a validated Config. Environment
// variables win over the YAML file at configFile; configFile may be empty.
// Variables with defaults: GITHUBEXPLORER_LISTEN_ADDR (127.0.0.1:8080),
// GITHUBEXPLORER_STORAGE_DRIVER (sqlite), GITHUBEXPLORER_DB_PATH (githubexplorer.db),
// GITHUBEXPLORER_BOLT_PATH (githubexplorer.bolt), GITHUBEXPLORER_REQUEST_TIMEOUT (10s),
// GITHUBEXPLORER_ISSUES_LIMIT (30). GITHUBEXPLORER_GITHUB_TOKEN and
// GITHUBEXPLORER_GITHUB_API_URL are optional.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("listen_addr", "127.0.0.1:8080")
	v.SetDefault("storage_driver", StorageSQLite)
	v.SetDefault("db_path", "githubexplorer.db")
	v.SetDefault("bolt_path", "githubexplorer.bolt")
	v.SetDefault("github_token", "")
	v.SetDefault("github_api_url", "")
	v.SetDefault("request_timeout", "10s")
	v.SetDefault("issues_limit", "30")

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", configFile, err)
		}
	}

	timeoutRaw := v.GetString("request_timeout")
	timeout, err := time.ParseDuration(timeoutRaw)
	if err != nil {
		return nil, fmt.Errorf("%s has invalid duration %q: %w", envName("request_timeout"), timeoutRaw, err)
	}
	if timeout < 0 {
		return nil, fmt.Errorf("%s must not be negative, got %s", envName("request_timeout"), timeout)
	}

	limitRaw := v.GetString("issues_limit")
	limit, err := strconv.Atoi(limitRaw)
	if err != nil || limit < 1 || limit > 100 {
		return nil, fmt.Errorf("%s must be an integer between 1 and 100, got %q", envName("issues_limit"), limitRaw)
	}

	driver := strings.ToLower(strings.TrimSpace(v.GetString("storage_driver")))
	switch driver {
	case StorageSQLite, StorageBolt, StorageMemory:
	default:
		return nil, fmt.Errorf("%s must be one of %s, %s, %s, got %q",
			envName("storage_driver"), StorageSQLite, StorageBolt, StorageMemory, driver)
	}

	return &Config{
		ListenAddr:     v.GetString("listen_addr"),
		StorageDriver:  driver,
		DBPath:         v.GetString("db_path"),
		BoltPath:       v.GetString("bolt_path"),
		GitHubToken:    v.GetString("github_token"),
		GitHubAPIURL:   v.GetString("github_api_url"),
		RequestTimeout: timeout,
		IssuesLimit:    limit,
	}, nil
}

func envName(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(key)
}
