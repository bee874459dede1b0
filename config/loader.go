package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	// default first
	setDefaults(v)

	// File Config
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Env Config
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read File
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	applyDerived(&cfg)

	// Validate
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "development")
	v.SetDefault("service_name", "sitepulse")
	v.SetDefault("port", 0)

	v.SetDefault("monitor.schedule", "0 */4 * * *")
	v.SetDefault("monitor.request_timeout_ms", 10000)

	v.SetDefault("history.max_open_conns", 5)
	v.SetDefault("history.min_idle_conns", 1)
	v.SetDefault("history.conn_max_lifetime", "1h")
	v.SetDefault("history.conn_max_idle_time", "30m")
	v.SetDefault("history.health_timeout", "5s")
}

// applyDerived fills the optional target urls from the base url when the
// deployment does not name them explicitly.
func applyDerived(cfg *Config) {
	base := strings.TrimRight(cfg.Target.BaseURL, "/")

	if cfg.Target.ProtectedURL == "" && base != "" {
		cfg.Target.ProtectedURL = base + "/dashboard"
	}
	if cfg.Target.LogoutURL == "" && base != "" {
		cfg.Target.LogoutURL = base + "/logout"
	}
}

func validateConfig(cfg *Config) error {

	validate := validator.New()

	if err := validate.Struct(cfg); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			return formatValidationErrors(ve)
		}
		return err
	}
	return nil
}

func formatValidationErrors(ve validator.ValidationErrors) error {
	var sb strings.Builder
	sb.WriteString("config validation failed:\n")

	for _, fe := range ve {
		fmt.Fprintf(&sb, "- field '%s' failed on '%s'\n", fe.Namespace(), fe.Tag())
	}
	return errors.New(sb.String())
}
