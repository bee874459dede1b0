package config

import "time"

// TargetConfig describes the site under watch
type TargetConfig struct {
	BaseURL      string `mapstructure:"base_url" validate:"required,url"`
	LoginURL     string `mapstructure:"login_url" validate:"required,url"`
	ProtectedURL string `mapstructure:"protected_url"`
	LogoutURL    string `mapstructure:"logout_url"`
	Username     string `mapstructure:"username" validate:"required"`
	Password     string `mapstructure:"password" validate:"required"`
}

type MonitorConfig struct {
	Schedule         string `mapstructure:"schedule"`
	RequestTimeoutMS int    `mapstructure:"request_timeout_ms" validate:"gt=0"`
}

func (m *MonitorConfig) RequestTimeout() time.Duration {
	return time.Duration(m.RequestTimeoutMS) * time.Millisecond
}

type EmailConfig struct {
	Host       string   `mapstructure:"host"`
	Port       int      `mapstructure:"port"`
	Username   string   `mapstructure:"username"`
	Password   string   `mapstructure:"password"`
	From       string   `mapstructure:"from"`
	Recipients []string `mapstructure:"recipients"`
}

// Enabled reports whether the email channel is configured at all.
// A missing channel is not an error, it just gets skipped.
func (e *EmailConfig) Enabled() bool {
	return e != nil && e.Host != "" && len(e.Recipients) > 0
}

type ChatConfig struct {
	WebhookURL   string `mapstructure:"webhook_url"`
	FailuresOnly bool   `mapstructure:"failures_only"`
	Username     string `mapstructure:"username"`
	IconEmoji    string `mapstructure:"icon_emoji"`
}

func (c *ChatConfig) Enabled() bool {
	return c != nil && c.WebhookURL != ""
}

type DBConfig struct {
	URL             string        `mapstructure:"url"`
	MaxOpenConns    int32         `mapstructure:"max_open_conns"`
	MinIdleConns    int32         `mapstructure:"min_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	HealthTimeout   time.Duration `mapstructure:"health_timeout"`
}

func (d *DBConfig) Enabled() bool {
	return d != nil && d.URL != ""
}

type Config struct {
	Env         string        `mapstructure:"env"`
	ServiceName string        `mapstructure:"service_name"`
	Port        int           `mapstructure:"port"` // status server, 0 disables it
	Target      TargetConfig  `mapstructure:"target"`
	Monitor     MonitorConfig `mapstructure:"monitor"`
	Email       *EmailConfig  `mapstructure:"email"`
	Chat        *ChatConfig   `mapstructure:"chat"`
	History     *DBConfig     `mapstructure:"history"`
}
