package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	// AppName is the client configuration directory name.
	AppName = "planner"

	// SessionFile stores the token obtained at login.
	SessionFile = "session.json"

	defaultAPIURL = "http://localhost:8080"
)

// Client holds settings for the planner CLI.
type Client struct {
	// APIURL is the base URL of the REST API.
	APIURL string

	// Dir is the configuration directory path.
	Dir string
}

// LoadClient reads PLANNER_API_URL and PLANNER_CONFIG_DIR. Empty values fall
// back to localhost and the XDG config directory.
func LoadClient() Client {
	v := viper.New()
	v.SetEnvPrefix("planner")
	_ = v.BindEnv("api_url")
	_ = v.BindEnv("config_dir")
	v.SetDefault("api_url", defaultAPIURL)

	c := Client{
		APIURL: strings.TrimRight(strings.TrimSpace(v.GetString("api_url")), "/"),
		Dir:    strings.TrimSpace(v.GetString("config_dir")),
	}
	if c.APIURL == "" {
		c.APIURL = defaultAPIURL
	}
	if c.Dir == "" {
		c.Dir = DefaultClientDir()
	}
	return c
}

// DefaultClientDir uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultClientDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// SessionPath returns the path to the stored session.
func (c Client) SessionPath() string {
	return filepath.Join(c.Dir, SessionFile)
}
