package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	SolarAssistant SolarAssistantConfig `mapstructure:"solar_assistant"`
	Browser        BrowserConfig        `mapstructure:"browser"`
	Webhook        WebhookConfig        `mapstructure:"webhook"`
	Schedule       ScheduleConfig       `mapstructure:"schedule"`
	Alerts         AlertsConfig         `mapstructure:"alerts"`
	Screenshot     ScreenshotConfig     `mapstructure:"screenshot"`
	StatusFile     string               `mapstructure:"status_file"`
}

type SolarAssistantConfig struct {
	URL      string `mapstructure:"url"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

type BrowserConfig struct {
	// Driver selects the automation backend: "playwright" or "selenium".
	Driver   string `mapstructure:"driver"`
	Headless bool   `mapstructure:"headless"`
}

type WebhookConfig struct {
	URL            string `mapstructure:"url"`
	Format         string `mapstructure:"format"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

type ScheduleConfig struct {
	Enabled         bool `mapstructure:"enabled"`
	IntervalMinutes int  `mapstructure:"interval_minutes"`
}

type AlertsConfig struct {
	Enabled         bool    `mapstructure:"enabled"`
	CooldownMinutes int     `mapstructure:"cooldown_minutes"`
	GreenThreshold  int     `mapstructure:"green_threshold"`
	RedThreshold    int     `mapstructure:"red_threshold"`
	MinBrightness   float64 `mapstructure:"min_brightness"`
}

type ScreenshotConfig struct {
	WaitTimeSeconds int    `mapstructure:"wait_time_seconds"`
	Dir             string `mapstructure:"dir"`
	KeepCount       int    `mapstructure:"keep_count"`
}

const (
	FormatGeneric = "generic"
	FormatDiscord = "discord"

	DriverPlaywright = "playwright"
	DriverSelenium   = "selenium"
)

// Load reads config.json from the given path (or the working directory when
// path is empty), with environment variable overrides.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("GRIDWATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("json")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("browser.driver", DriverPlaywright)
	v.SetDefault("browser.headless", true)

	v.SetDefault("webhook.format", FormatGeneric)
	v.SetDefault("webhook.timeout_seconds", 30)

	v.SetDefault("schedule.enabled", true)
	v.SetDefault("schedule.interval_minutes", 60)

	v.SetDefault("alerts.enabled", true)
	v.SetDefault("alerts.cooldown_minutes", 30)
	v.SetDefault("alerts.green_threshold", 500)
	v.SetDefault("alerts.red_threshold", 200)
	v.SetDefault("alerts.min_brightness", 30.0)

	v.SetDefault("screenshot.wait_time_seconds", 10)
	v.SetDefault("screenshot.dir", "screenshots")
	v.SetDefault("screenshot.keep_count", 50)

	v.SetDefault("status_file", "status.json")
}

func (c *Config) validate() error {
	if c.SolarAssistant.URL == "" {
		return fmt.Errorf("solar_assistant.url is required")
	}

	switch c.Webhook.Format {
	case FormatGeneric, FormatDiscord:
	default:
		return fmt.Errorf("webhook.format must be %q or %q, got %q", FormatGeneric, FormatDiscord, c.Webhook.Format)
	}

	switch c.Browser.Driver {
	case DriverPlaywright, DriverSelenium:
	default:
		return fmt.Errorf("browser.driver must be %q or %q, got %q", DriverPlaywright, DriverSelenium, c.Browser.Driver)
	}

	if c.Schedule.IntervalMinutes <= 0 {
		return fmt.Errorf("schedule.interval_minutes must be positive")
	}

	return nil
}

func (c *Config) Interval() time.Duration {
	return time.Duration(c.Schedule.IntervalMinutes) * time.Minute
}

func (c *Config) Cooldown() time.Duration {
	return time.Duration(c.Alerts.CooldownMinutes) * time.Minute
}

func (c *Config) WebhookTimeout() time.Duration {
	return time.Duration(c.Webhook.TimeoutSeconds) * time.Second
}

func (c *Config) SettleWait() time.Duration {
	return time.Duration(c.Screenshot.WaitTimeSeconds) * time.Second
}
