package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables read by Resolve.
const (
	EnvConfig    = "BANKTOTAL_CONFIG"
	EnvDebug     = "BANKTOTAL_DEBUG"
	EnvTermuxBin = "BANKTOTAL_TERMUX_BIN"
)

// DefaultPath is used when BANKTOTAL_CONFIG is unset.
const DefaultPath = "~/.banktotal/config.yaml"

// Config represents the banktotal configuration file.
type Config struct {
	TermuxBin     string             `yaml:"termux_bin"`
	State         StateConfig        `yaml:"state"`
	SMS           SMSConfig          `yaml:"sms"`
	Notifications NotificationConfig `yaml:"notifications"`
	Debug         bool               `yaml:"debug"`
}

// StateConfig locates the files banktotal reads and writes.
type StateConfig struct {
	Balances    string `yaml:"balances"`
	CapturedLog string `yaml:"captured_log"` // written by Tasker, read-only here
	HistoryDB   string `yaml:"history_db"`
	RunLog      string `yaml:"run_log"`
}

// SMSConfig controls inbox listing.
type SMSConfig struct {
	Limit   int           `yaml:"limit"`
	Folder  string        `yaml:"folder"`
	Timeout time.Duration `yaml:"timeout"`
}

// NotificationConfig controls notification listing and the summary notification.
type NotificationConfig struct {
	ListTimeout    time.Duration `yaml:"list_timeout"`
	PublishTimeout time.Duration `yaml:"publish_timeout"`
	ID             string        `yaml:"id"`
	Icon           string        `yaml:"icon"`
	ButtonLabel    string        `yaml:"button_label"`
	UpdateCommand  string        `yaml:"update_command"`
}

// Load reads a config file from disk. Fields absent from the file keep
// their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns the configuration used on a stock Termux install.
func Default() *Config {
	return &Config{
		TermuxBin: "/data/data/com.termux/files/usr/bin",
		State: StateConfig{
			Balances:    "~/.banktotal_balances.json",
			CapturedLog: "~/.bank_sms_log.json",
			HistoryDB:   "~/.banktotal/history.db",
			RunLog:      "~/.banktotal/runs.csv",
		},
		SMS: SMSConfig{
			Limit:   1000,
			Folder:  "inbox",
			Timeout: 30 * time.Second,
		},
		Notifications: NotificationConfig{
			ListTimeout:    15 * time.Second,
			PublishTimeout: 15 * time.Second,
			ID:             "banktotal",
			Icon:           "account_balance_wallet",
			ButtonLabel:    "업데이트",
			UpdateCommand:  "bash /data/data/com.termux/files/home/banktotal.sh",
		},
	}
}

// Resolve loads .env from the working directory if present, then the
// config file named by BANKTOTAL_CONFIG or DefaultPath. A missing config
// file yields Default. BANKTOTAL_DEBUG=true turns on debug logging and
// BANKTOTAL_TERMUX_BIN overrides the tool directory. State paths come back
// with ~ expanded.
//
// A config file that exists but cannot be read or parsed is reported as an
// *InvalidFileError alongside a usable Config built from Default, so callers
// that must always complete can carry on.
func Resolve() (*Config, error) {
	_ = godotenv.Load()

	path := os.Getenv(EnvConfig)
	if path == "" {
		path = DefaultPath
	}
	path, err := ExpandHome(path)
	if err != nil {
		return nil, err
	}

	var invalid error
	cfg, err := Load(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			invalid = &InvalidFileError{Path: path, Err: err}
		}
		cfg = Default()
	}

	if v := os.Getenv(EnvDebug); v != "" {
		cfg.Debug = v == "true" || v == "1"
	}
	if v := os.Getenv(EnvTermuxBin); v != "" {
		cfg.TermuxBin = v
	}

	for _, p := range []*string{
		&cfg.State.Balances,
		&cfg.State.CapturedLog,
		&cfg.State.HistoryDB,
		&cfg.State.RunLog,
	} {
		if *p, err = ExpandHome(*p); err != nil {
			return nil, err
		}
	}
	return cfg, invalid
}

// InvalidFileError reports a config file that exists but could not be used.
type InvalidFileError struct {
	Path string
	Err  error
}

func (e *InvalidFileError) Error() string {
	return fmt.Sprintf("config %s: %v", e.Path, e.Err)
}

func (e *InvalidFileError) Unwrap() error {
	return e.Err
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
