package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
)

const (
	defaultServerURL = "http://localhost:8080"
	defaultTimeout   = 15 * time.Second
)

// Duration decodes TOML strings like "15s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(b)))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Config is ~/.config/ddadmin/config.toml.
type Config struct {
	ServerURL string   `toml:"server_url"`
	StateDir  string   `toml:"state_dir"`
	Timeout   Duration `toml:"timeout"`
}

// overrides are flag values; empty means unset.
type overrides struct {
	ServerURL string
	StateDir  string
	Timeout   string
}

func configDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "ddadmin"), nil
}

func defaultConfigPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

func defaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".ddadmin"
	}
	return filepath.Join(home, ".local", "state", "ddadmin")
}

// loadConfigFile reads path. A missing file yields a zero Config.
func loadConfigFile(path string) (Config, error) {
	var c Config
	if _, err := toml.DecodeFile(path, &c); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("read %s: %w", path, err)
	}
	return c, nil
}

func saveConfigFile(path string, c Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(c)
}

// resolveConfig layers defaults, the file, DDADMIN_* env and flags, in
// increasing priority.
func resolveConfig(path string, o overrides) (Config, error) {
	if path == "" {
		p, err := defaultConfigPath()
		if err == nil {
			path = p
		}
	}
	c := Config{}
	if path != "" {
		var err error
		if c, err = loadConfigFile(path); err != nil {
			return Config{}, err
		}
	}

	pick := func(dst *string, vals ...string) {
		for _, v := range vals {
			if strings.TrimSpace(v) != "" {
				*dst = strings.TrimSpace(v)
			}
		}
	}
	pick(&c.ServerURL, os.Getenv("DDADMIN_SERVER_URL"), o.ServerURL)
	pick(&c.StateDir, os.Getenv("DDADMIN_STATE_DIR"), o.StateDir)

	timeout := ""
	pick(&timeout, os.Getenv("DDADMIN_TIMEOUT"), o.Timeout)
	if timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return Config{}, fmt.Errorf("invalid timeout %q: %w", timeout, err)
		}
		c.Timeout.Duration = d
	}

	if c.ServerURL == "" {
		c.ServerURL = defaultServerURL
	}
	c.ServerURL = strings.TrimSuffix(c.ServerURL, "/")
	if c.StateDir == "" {
		c.StateDir = defaultStateDir()
	}
	if c.Timeout.Duration <= 0 {
		c.Timeout.Duration = defaultTimeout
	}
	return c, nil
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or write the CLI configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if jsonOutput {
			return printJSON(cfg)
		}
		return toml.NewEncoder(os.Stdout).Encode(cfg)
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the effective configuration to the config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configPath
		if path == "" {
			p, err := defaultConfigPath()
			if err != nil {
				return err
			}
			path = p
		}
		if err := saveConfigFile(path, cfg); err != nil {
			return err
		}
		fmt.Println("wrote", path)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd, configInitCmd)
}
