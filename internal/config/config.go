// Package config loads biblioteca.yaml through viper, applies defaults and
// BIBLIOTECA_* environment overrides, and validates the result.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/GuuhFranca/blibioteca-de-livros-on/internal/domain"
)

const (
	FileName  = "biblioteca.yaml"
	EnvPrefix = "BIBLIOTECA"
)

type Config struct {
	Client   ClientConfig      `mapstructure:"client"`
	Server   ServerConfig      `mapstructure:"server"`
	Database DatabaseConfig    `mapstructure:"database"`
	Logging  LoggingConfig     `mapstructure:"logging"`
	Paths    PathsConfig       `mapstructure:"paths"`
	Masking  MaskingConfig     `mapstructure:"masking"`
	Vars     map[string]string `mapstructure:"vars"`
}

type ClientConfig struct {
	BaseURL      string        `mapstructure:"base_url" validate:"omitempty,url"`
	Timeout      time.Duration `mapstructure:"timeout" validate:"gt=0"`
	MaxBodyBytes int64         `mapstructure:"max_body_bytes" validate:"gt=0"`
	UserAgent    string        `mapstructure:"user_agent"`
}

type ServerConfig struct {
	Addr            string        `mapstructure:"addr" validate:"required"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" validate:"gte=0"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" validate:"gte=0"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
}

type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver" validate:"oneof=sqlite mysql"`
	DSN             string        `mapstructure:"dsn" validate:"required"`
	MaxOpenConns    int           `mapstructure:"max_open_conns" validate:"gte=0"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns" validate:"gte=0"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" validate:"gte=0"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
}

type PathsConfig struct {
	ScriptsDir string `mapstructure:"scripts_dir" validate:"required"`
	RunsDir    string `mapstructure:"runs_dir" validate:"required"`
}

type MaskingConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type Loader struct {
	viper      *viper.Viper
	validator  *validator.Validate
	translator ut.Translator
}

// NewLoader reads configFile when set; otherwise it searches searchPaths,
// the working directory and $HOME/.config/biblioteca for biblioteca.yaml.
func NewLoader(configFile string, searchPaths ...string) (*Loader, error) {
	validate, trans, err := newValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to create new validator: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(strings.TrimSuffix(FileName, ".yaml"))
		for _, p := range searchPaths {
			if strings.TrimSpace(p) != "" {
				v.AddConfigPath(p)
			}
		}
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/biblioteca")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return &Loader{viper: v, validator: validate, translator: trans}, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("client.base_url", "http://localhost:5000")
	v.SetDefault("client.timeout", 10*time.Second)
	v.SetDefault("client.max_body_bytes", 256*1024)
	v.SetDefault("client.user_agent", "biblioteca")

	v.SetDefault("server.addr", ":5000")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)
	v.SetDefault("server.shutdown_timeout", 5*time.Second)

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "biblioteca.db")
	v.SetDefault("database.max_open_conns", 1)
	v.SetDefault("database.max_idle_conns", 1)
	v.SetDefault("database.conn_max_lifetime", time.Duration(0))

	v.SetDefault("logging.level", "info")

	v.SetDefault("paths.scripts_dir", "scripts")
	v.SetDefault("paths.runs_dir", "runs")

	v.SetDefault("masking.enabled", true)
}

func (l *Loader) Load() (*Config, error) {
	v := l.viper
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, &domain.OpError{
				Op:   "config.load",
				Kind: domain.KindInvalidConfig,
				Path: v.ConfigFileUsed(),
				Err:  fmt.Errorf("configuration file found but could not be read: %w", err),
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, &domain.OpError{
			Op:   "config.load",
			Kind: domain.KindInvalidConfig,
			Path: v.ConfigFileUsed(),
			Err:  fmt.Errorf("invalid configuration format: %w", err),
		}
	}
	if cfg.Vars == nil {
		cfg.Vars = map[string]string{}
	}

	if err := l.validator.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return nil, &domain.OpError{Op: "config.validate", Kind: domain.KindInvalidConfig, Err: err}
		}
		msgs := make([]string, 0, len(verrs))
		for _, e := range verrs {
			msgs = append(msgs, e.Translate(l.translator))
		}
		return nil, &domain.OpError{
			Op:   "config.validate",
			Kind: domain.KindInvalidConfig,
			Path: v.ConfigFileUsed(),
			Err:  fmt.Errorf("invalid configuration: %s", strings.Join(msgs, ", ")),
		}
	}

	return &cfg, nil
}

// Used returns the config file that was read, or "" when only defaults apply.
func (l *Loader) Used() string {
	return l.viper.ConfigFileUsed()
}
