package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/example/shiftcall/internal/infrastructure/crypto"
)

type Config struct {
	Jolt     JoltConfig     `yaml:"jolt"`
	Slack    SlackConfig    `yaml:"slack"`
	Session  SessionConfig  `yaml:"session"`
	Schedule ScheduleConfig `yaml:"schedule"`
	Logging  LoggingConfig  `yaml:"logging"`

	DatabaseURL string `yaml:"databaseURL"`
	HTTPAddr    string `yaml:"httpAddr"`
}

type JoltConfig struct {
	BaseURL     string        `yaml:"baseURL"`
	LocationID  string        `yaml:"locationID"`
	Email       string        `yaml:"email"`
	Password    string        `yaml:"password"`
	WaitTimeout time.Duration `yaml:"waitTimeout"`
	Headless    bool          `yaml:"headless"`
}

type SlackConfig struct {
	Token   string `yaml:"token"`
	Channel string `yaml:"channel"`
}

// SessionConfig controls the sealed browser session cache. The cache is
// disabled unless Secret is set.
type SessionConfig struct {
	CachePath string        `yaml:"cachePath"`
	Secret    string        `yaml:"secret"`
	MaxAge    time.Duration `yaml:"maxAge"`
}

type ScheduleConfig struct {
	// AnnounceAt is the local HH:MM the serve command posts at.
	AnnounceAt  string `yaml:"announceAt"`
	GroupByName bool   `yaml:"groupByName"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load builds the configuration from defaults, an optional YAML file, a
// .env file in the working directory and the process environment, in that
// order of precedence (environment wins).
func Load(path string) (Config, error) {
	// .env is optional; existing variables are not overwritten
	_ = godotenv.Load()

	if path == "" {
		path = os.Getenv("SHIFTCALL_CONFIG")
	}

	cfg := defaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return Config{}, fmt.Errorf("config file %s not found: %w", path, err)
			}
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func defaultConfig() Config {
	return Config{
		Jolt: JoltConfig{
			BaseURL:     "https://app.joltup.com",
			LocationID:  "0000029b258af59dee075b58f3060177",
			WaitTimeout: 30 * time.Second,
			Headless:    true,
		},
		Session: SessionConfig{
			CachePath: ".shiftcall/session",
			MaxAge:    12 * time.Hour,
		},
		Schedule: ScheduleConfig{AnnounceAt: "06:30"},
		Logging:  LoggingConfig{Level: "info", Format: "json"},
		HTTPAddr: ":8080",
	}
}

func applyEnvOverrides(cfg *Config) error {
	if v := envString("JOLT_BASE_URL"); v != "" {
		cfg.Jolt.BaseURL = v
	}
	if v := envString("JOLT_LOCATION_ID"); v != "" {
		cfg.Jolt.LocationID = v
	}
	if v := envString("JOLT_EMAIL"); v != "" {
		cfg.Jolt.Email = v
	}
	if v := os.Getenv("JOLT_PASSWORD"); v != "" {
		cfg.Jolt.Password = v
	}
	if v := envString("JOLT_WAIT_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid JOLT_WAIT_TIMEOUT: %w", err)
		}
		cfg.Jolt.WaitTimeout = d
	}
	if v := envString("CHROME_HEADLESS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid CHROME_HEADLESS: %w", err)
		}
		cfg.Jolt.Headless = b
	}
	if v := envString("SLACK_BOT_TOKEN"); v != "" {
		cfg.Slack.Token = v
	}
	if v := envString("SLACK_CHANNEL"); v != "" {
		cfg.Slack.Channel = v
	}
	if v := envString("SESSION_CACHE_PATH"); v != "" {
		cfg.Session.CachePath = v
	}
	if v := envString("SESSION_SECRET"); v != "" {
		cfg.Session.Secret = v
	}
	if v := envString("SESSION_MAX_AGE"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid SESSION_MAX_AGE: %w", err)
		}
		cfg.Session.MaxAge = d
	}
	if v := envString("ANNOUNCE_AT"); v != "" {
		cfg.Schedule.AnnounceAt = v
	}
	if v := envString("GROUP_BY_NAME"); v != "" {
		cfg.Schedule.GroupByName = v == "1" || strings.EqualFold(v, "true")
	}
	if v := envString("DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := envString("LISTEN_ADDR"); v != "" {
		cfg.HTTPAddr = v
	}
	if v := envString("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := envString("LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	return nil
}

// Validate checks values every command depends on.
func (c Config) Validate() error {
	if c.Jolt.WaitTimeout <= 0 {
		return fmt.Errorf("jolt wait timeout must be positive")
	}
	if _, _, err := ParseClock(c.Schedule.AnnounceAt); err != nil {
		return fmt.Errorf("invalid ANNOUNCE_AT: %w", err)
	}
	if c.Session.Secret != "" {
		if _, err := crypto.DecodeSecret(c.Session.Secret); err != nil {
			return fmt.Errorf("SESSION_SECRET: %w", err)
		}
	}
	return nil
}

// ValidateFetch checks what reading the roster needs.
func (c Config) ValidateFetch() error {
	return requireVars(c.fetchVars())
}

// ValidateRun checks what a live announcement needs.
func (c Config) ValidateRun() error {
	missing := c.fetchVars()
	if c.Slack.Token == "" {
		missing = append(missing, "SLACK_BOT_TOKEN")
	}
	if c.Slack.Channel == "" {
		missing = append(missing, "SLACK_CHANNEL")
	}
	return requireVars(missing)
}

func (c Config) fetchVars() []string {
	var missing []string
	if c.Jolt.Email == "" {
		missing = append(missing, "JOLT_EMAIL")
	}
	if c.Jolt.Password == "" {
		missing = append(missing, "JOLT_PASSWORD")
	}
	return missing
}

func requireVars(missing []string) error {
	if len(missing) > 0 {
		return fmt.Errorf("%s required", strings.Join(missing, ", "))
	}
	return nil
}

// SessionKeys returns the cookie cache keys, or ok=false when the cache is disabled.
func (c Config) SessionKeys() (hashKey, blockKey []byte, ok bool, err error) {
	if c.Session.Secret == "" || c.Session.CachePath == "" {
		return nil, nil, false, nil
	}
	secret, err := crypto.DecodeSecret(c.Session.Secret)
	if err != nil {
		return nil, nil, false, err
	}
	hashKey, blockKey, err = crypto.DeriveCookieKeys(secret)
	if err != nil {
		return nil, nil, false, err
	}
	return hashKey, blockKey, true, nil
}

// ParseClock parses a local wall-clock time in HH:MM form.
func ParseClock(s string) (hour, minute int, err error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 0, 0, fmt.Errorf("want HH:MM, got %q", s)
	}
	return t.Hour(), t.Minute(), nil
}

func envString(k string) string {
	return strings.TrimSpace(os.Getenv(k))
}
