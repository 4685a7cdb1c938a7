// Package config loads the server configuration.
//
// Values are resolved in order of increasing priority: built-in defaults,
// YAML file, environment (after an optional .env file), command-line flags.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/iudanet/areacheck/internal/crypto"
	"github.com/iudanet/areacheck/internal/server/jwt"
)

// MinSecretLength минимальная длина секрета подписи токенов в байтах
const MinSecretLength = 16

// Имена переменных окружения
const (
	EnvConfig            = "AREACHECK_CONFIG"
	EnvAddr              = "AREACHECK_ADDR"
	EnvDatabasePath      = "AREACHECK_DB"
	EnvJWTSecret         = "AREACHECK_JWT_SECRET"
	EnvTokenTTL          = "AREACHECK_TOKEN_TTL"
	EnvClockSkew         = "AREACHECK_CLOCK_SKEW"
	EnvTokenIssuer       = "AREACHECK_TOKEN_ISSUER"
	EnvCredentialHashing = "AREACHECK_CREDENTIAL_HASHING"
	EnvCORSOrigins       = "AREACHECK_CORS_ORIGINS"
	EnvLogLevel          = "AREACHECK_LOG_LEVEL"
	EnvLogFormat         = "AREACHECK_LOG_FORMAT"
	EnvShutdownTimeout   = "AREACHECK_SHUTDOWN_TIMEOUT"
)

// Форматы логов
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Config holds the server settings.
type Config struct {
	Addr              string        `yaml:"addr"`
	DatabasePath      string        `yaml:"database_path"`
	JWTSecret         string        `yaml:"jwt_secret"`
	TokenIssuer       string        `yaml:"token_issuer"`
	CredentialHashing string        `yaml:"credential_hashing"`
	LogLevel          string        `yaml:"log_level"`
	LogFormat         string        `yaml:"log_format"`
	CORSOrigins       []string      `yaml:"cors_origins"`
	TokenTTL          time.Duration `yaml:"token_ttl"`
	ClockSkew         time.Duration `yaml:"clock_skew"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout"`

	// ShowVersion устанавливается флагом -version
	ShowVersion bool `yaml:"-"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Addr:              ":8080",
		DatabasePath:      "areacheck.db",
		TokenIssuer:       jwt.DefaultIssuer,
		CredentialHashing: crypto.ModePlain,
		LogLevel:          "info",
		LogFormat:         LogFormatText,
		TokenTTL:          time.Hour,
		ShutdownTimeout:   10 * time.Second,
	}
}

// Load builds the configuration from args (without the program name),
// the environment and the optional YAML and .env files.
func Load(args []string) (*Config, error) {
	flags := flag.NewFlagSet("areacheck-server", flag.ContinueOnError)

	// Значения флагов читаются только если флаг явно указан
	var (
		flagCfg    = Default()
		configPath = flags.String("config", "", "Path to YAML config file (env "+EnvConfig+")")
		envFile    = flags.String("env-file", ".env", "Path to .env file, ignored if missing")
		cors       = flags.String("cors-origins", "", "Comma separated list of allowed CORS origins")
	)
	flags.StringVar(&flagCfg.Addr, "addr", flagCfg.Addr, "HTTP listen address")
	flags.StringVar(&flagCfg.DatabasePath, "db", flagCfg.DatabasePath, "Path to SQLite database")
	flags.StringVar(&flagCfg.JWTSecret, "jwt-secret", "", "Token signing secret")
	flags.DurationVar(&flagCfg.TokenTTL, "token-ttl", flagCfg.TokenTTL, "Token lifetime")
	flags.DurationVar(&flagCfg.ClockSkew, "clock-skew", flagCfg.ClockSkew, "Accepted clock skew for token expiry")
	flags.StringVar(&flagCfg.TokenIssuer, "token-issuer", flagCfg.TokenIssuer, "Token issuer claim")
	flags.StringVar(&flagCfg.CredentialHashing, "credential-hashing", flagCfg.CredentialHashing, "Credential storage: plain or bcrypt")
	flags.StringVar(&flagCfg.LogLevel, "log-level", flagCfg.LogLevel, "Log level: debug, info, warn, error")
	flags.StringVar(&flagCfg.LogFormat, "log-format", flagCfg.LogFormat, "Log format: text or json")
	flags.DurationVar(&flagCfg.ShutdownTimeout, "shutdown-timeout", flagCfg.ShutdownTimeout, "Graceful shutdown timeout")
	flags.BoolVar(&flagCfg.ShowVersion, "version", false, "Show version information")

	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	if err := loadEnvFile(*envFile); err != nil {
		return nil, err
	}

	cfg := Default()

	path := *configPath
	if path == "" {
		path = os.Getenv(EnvConfig)
	}
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	// Явно заданные флаги имеют наивысший приоритет
	flags.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "addr":
			cfg.Addr = flagCfg.Addr
		case "db":
			cfg.DatabasePath = flagCfg.DatabasePath
		case "jwt-secret":
			cfg.JWTSecret = flagCfg.JWTSecret
		case "token-ttl":
			cfg.TokenTTL = flagCfg.TokenTTL
		case "clock-skew":
			cfg.ClockSkew = flagCfg.ClockSkew
		case "token-issuer":
			cfg.TokenIssuer = flagCfg.TokenIssuer
		case "credential-hashing":
			cfg.CredentialHashing = flagCfg.CredentialHashing
		case "cors-origins":
			cfg.CORSOrigins = splitList(*cors)
		case "log-level":
			cfg.LogLevel = flagCfg.LogLevel
		case "log-format":
			cfg.LogFormat = flagCfg.LogFormat
		case "shutdown-timeout":
			cfg.ShutdownTimeout = flagCfg.ShutdownTimeout
		case "version":
			cfg.ShowVersion = flagCfg.ShowVersion
		}
	})

	return cfg, nil
}

// loadEnvFile загружает .env, не перезаписывая уже заданные переменные
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

// loadFile накладывает значения из YAML файла
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}

	return nil
}

// applyEnv накладывает значения из переменных окружения
func (c *Config) applyEnv() error {
	setString := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}
	setDuration := func(key string, dst *time.Duration) error {
		v, ok := os.LookupEnv(key)
		if !ok || v == "" {
			return nil
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", key, err)
		}
		*dst = d
		return nil
	}

	setString(EnvAddr, &c.Addr)
	setString(EnvDatabasePath, &c.DatabasePath)
	setString(EnvJWTSecret, &c.JWTSecret)
	setString(EnvTokenIssuer, &c.TokenIssuer)
	setString(EnvCredentialHashing, &c.CredentialHashing)
	setString(EnvLogLevel, &c.LogLevel)
	setString(EnvLogFormat, &c.LogFormat)

	if v, ok := os.LookupEnv(EnvCORSOrigins); ok && v != "" {
		c.CORSOrigins = splitList(v)
	}

	if err := setDuration(EnvTokenTTL, &c.TokenTTL); err != nil {
		return err
	}
	if err := setDuration(EnvClockSkew, &c.ClockSkew); err != nil {
		return err
	}
	return setDuration(EnvShutdownTimeout, &c.ShutdownTimeout)
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	var errs []error

	if c.Addr == "" {
		errs = append(errs, errors.New("addr is required"))
	}
	if c.DatabasePath == "" {
		errs = append(errs, errors.New("database_path is required"))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("jwt_secret is required"))
	} else if len(c.JWTSecret) < MinSecretLength {
		errs = append(errs, fmt.Errorf("jwt_secret must be at least %d bytes", MinSecretLength))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, errors.New("token_ttl must be positive"))
	}
	if c.ClockSkew < 0 {
		errs = append(errs, errors.New("clock_skew cannot be negative"))
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("shutdown_timeout must be positive"))
	}
	if _, err := crypto.NewSealer(c.CredentialHashing); err != nil {
		errs = append(errs, err)
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if c.LogFormat != LogFormatText && c.LogFormat != LogFormatJSON {
		errs = append(errs, fmt.Errorf("unknown log_format %q", c.LogFormat))
	}

	return errors.Join(errs...)
}

// JWT returns the token manager settings.
func (c *Config) JWT() jwt.Config {
	return jwt.Config{
		Secret:    []byte(c.JWTSecret),
		Issuer:    c.TokenIssuer,
		TTL:       c.TokenTTL,
		ClockSkew: c.ClockSkew,
	}
}

// NewLogger creates the server logger writing to w.
func (c *Config) NewLogger(w io.Writer) (*slog.Logger, error) {
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch c.LogFormat {
	case LogFormatJSON:
		handler = slog.NewJSONHandler(w, opts)
	case LogFormatText, "":
		handler = slog.NewTextHandler(w, opts)
	default:
		return nil, fmt.Errorf("unknown log_format %q", c.LogFormat)
	}

	return slog.New(handler), nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return level, fmt.Errorf("unknown log_level %q", s)
	}
	return level, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
