// Package config loads fixedphrase settings from defaults, config.yaml, a
// .env file, FIXEDPHRASE_* environment variables and command-line flags, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/inovacc/fixedphrase/internal/application"
	"github.com/inovacc/fixedphrase/internal/kv"
	"github.com/inovacc/fixedphrase/internal/slack"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config is the resolved application configuration.
type Config struct {
	Slack   SlackConfig   `mapstructure:"slack" yaml:"slack"`
	OAuth   OAuthConfig   `mapstructure:"oauth" yaml:"oauth"`
	Store   StoreConfig   `mapstructure:"store" yaml:"store"`
	History HistoryConfig `mapstructure:"history" yaml:"history"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`

	// Dir is the application directory relative paths are resolved against.
	Dir string `mapstructure:"-" yaml:"-"`
}

type SlackConfig struct {
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`
}

type OAuthConfig struct {
	Port        int           `mapstructure:"port" yaml:"port"`
	UserScope   string        `mapstructure:"user_scope" yaml:"user_scope"`
	RedirectURI string        `mapstructure:"redirect_uri" yaml:"redirect_uri"`
	Timeout     time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

type StoreConfig struct {
	Backend string      `mapstructure:"backend" yaml:"backend"`
	Path    string      `mapstructure:"path" yaml:"path"`
	Redis   RedisConfig `mapstructure:"redis" yaml:"redis"`
	S3      S3Config    `mapstructure:"s3" yaml:"s3"`
	SealKey string      `mapstructure:"seal_key" yaml:"-"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr" yaml:"addr"`
	Password string `mapstructure:"password" yaml:"-"`
	DB       int    `mapstructure:"db" yaml:"db"`
	Prefix   string `mapstructure:"prefix" yaml:"prefix"`
}

type S3Config struct {
	Endpoint  string `mapstructure:"endpoint" yaml:"endpoint"`
	Bucket    string `mapstructure:"bucket" yaml:"bucket"`
	AccessKey string `mapstructure:"access_key" yaml:"-"`
	SecretKey string `mapstructure:"secret_key" yaml:"-"`
	UseSSL    bool   `mapstructure:"use_ssl" yaml:"use_ssl"`
	Prefix    string `mapstructure:"prefix" yaml:"prefix"`
}

type HistoryConfig struct {
	// Limit caps each user's history; 0 keeps everything.
	Limit         int  `mapstructure:"limit" yaml:"limit"`
	RecordReplays bool `mapstructure:"record_replays" yaml:"record_replays"`
}

type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
}

// LoadOptions tells Load where to look.
type LoadOptions struct {
	// Dir overrides the application directory.
	Dir string
	// ConfigFile is an explicit config file; it must exist when set.
	ConfigFile string
	// EnvFile is loaded into the environment when present. Defaults to .env
	// in the working directory.
	EnvFile string
	// Flags maps config keys to command-line flags that override them.
	Flags map[string]*pflag.Flag
}

// Defaults returns the built-in settings.
func Defaults() map[string]any {
	return map[string]any{
		"slack.base_url":         slack.DefaultBaseURL,
		"oauth.port":             slack.DefaultOAuthPort,
		"oauth.user_scope":       slack.DefaultUserScope,
		"oauth.redirect_uri":     "",
		"oauth.timeout":          slack.DefaultOAuthTimeout,
		"store.backend":          kv.BackendBolt,
		"store.path":             "",
		"store.redis.addr":       "localhost:6379",
		"store.redis.password":   "",
		"store.redis.db":         0,
		"store.redis.prefix":     application.AppName + ":",
		"store.s3.endpoint":      "",
		"store.s3.bucket":        application.AppName,
		"store.s3.access_key":    "",
		"store.s3.secret_key":    "",
		"store.s3.use_ssl":       true,
		"store.s3.prefix":        "",
		"store.seal_key":         "",
		"history.limit":          0,
		"history.record_replays": true,
		"log.level":              "warn",
	}
}

// Load resolves the configuration.
func Load(opts LoadOptions) (*Config, error) {
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}

	// Variables already set in the environment win over the .env file.
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	dir := opts.Dir
	if dir == "" {
		d, err := application.GetApplicationDirectory()
		if err != nil {
			return nil, err
		}

		dir = d
	}

	v := viper.New()

	for key, value := range Defaults() {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(application.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)

		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", opts.ConfigFile, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(dir)

		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	for key, flag := range opts.Flags {
		if flag == nil {
			continue
		}

		if err := v.BindPFlag(key, flag); err != nil {
			return nil, fmt.Errorf("failed to bind flag %s: %w", flag.Name, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	cfg.Dir = dir

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks values Load cannot type-check.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case kv.BackendBolt, kv.BackendSQLite, kv.BackendRedis, kv.BackendS3, kv.BackendMemory:
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}

	if c.Store.Backend == kv.BackendS3 && c.Store.S3.Endpoint == "" {
		return errors.New("store.s3.endpoint is required for the s3 backend")
	}

	if c.History.Limit < 0 {
		return fmt.Errorf("history.limit must not be negative, got %d", c.History.Limit)
	}

	if c.OAuth.Port < 0 || c.OAuth.Port > 65535 {
		return fmt.Errorf("oauth.port out of range: %d", c.OAuth.Port)
	}

	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}

	return nil
}

// StorePath returns the database file for file-backed stores.
func (c *Config) StorePath() string {
	path := c.Store.Path
	if path == "" {
		name := application.AppName + ".db"
		if c.Store.Backend == kv.BackendSQLite {
			name = application.AppName + ".sqlite"
		}

		path = name
	}

	if !filepath.IsAbs(path) {
		path = filepath.Join(c.Dir, path)
	}

	return path
}

// KVOptions returns the persistence backend settings.
func (c *Config) KVOptions() kv.Options {
	return kv.Options{
		Backend:       c.Store.Backend,
		Path:          c.StorePath(),
		RedisAddr:     c.Store.Redis.Addr,
		RedisPassword: c.Store.Redis.Password,
		RedisDB:       c.Store.Redis.DB,
		RedisPrefix:   c.Store.Redis.Prefix,
		S3Endpoint:    c.Store.S3.Endpoint,
		S3Bucket:      c.Store.S3.Bucket,
		S3AccessKey:   c.Store.S3.AccessKey,
		S3SecretKey:   c.Store.S3.SecretKey,
		S3UseSSL:      c.Store.S3.UseSSL,
		S3Prefix:      c.Store.S3.Prefix,
		SealKey:       c.Store.SealKey,
	}
}

// ParseLevel maps debug, info, warn and error to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelWarn, fmt.Errorf("invalid log level %q", s)
	}

	return level, nil
}

// NewLogger builds the text logger the CLI writes to stderr.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	level, err := ParseLevel(c.Log.Level)
	if err != nil {
		level = slog.LevelWarn
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
