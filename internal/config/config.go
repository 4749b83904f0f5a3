package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string
	Environment string
	CORSOrigins string
	// Debug enables verbose request logging
	Debug bool

	Actions ActionTimings
	Feed    FeedConfig

	SSEKeepAlive time.Duration
	// SessionTTL is how long an untouched page session survives
	SessionTTL time.Duration
}

// ActionTimings holds the duration of every simulated action
type ActionTimings struct {
	Scan        time.Duration
	Reply       time.Duration
	ReaderQuery time.Duration
	Synthesize  time.Duration
	Provision   time.Duration
	Invite      time.Duration
	RoleChange  time.Duration
	Rollback    time.Duration

	UploadStep int
	UploadTick time.Duration
	VerifyStep int
	VerifyTick time.Duration
}

// FeedConfig tunes the history live feed
type FeedConfig struct {
	Interval time.Duration
	Capacity int
}

// Load reads configuration from the environment (LUMINA_ prefix, with the bare
// PORT / ENVIRONMENT / CORS_ORIGINS names also honoured) and an optional
// lumina.yaml in the working directory or /etc/lumina. A missing file is fine.
func Load() (*Config, error) {
	return load(viper.New(), "")
}

// LoadFile is Load with an explicit config file
func LoadFile(path string) (*Config, error) {
	return load(viper.New(), path)
}

func load(v *viper.Viper, file string) (*Config, error) {
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("lumina")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/lumina")
	}

	v.SetEnvPrefix("LUMINA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("port", "LUMINA_PORT", "PORT")
	_ = v.BindEnv("environment", "LUMINA_ENVIRONMENT", "ENVIRONMENT")
	_ = v.BindEnv("cors_origins", "LUMINA_CORS_ORIGINS", "CORS_ORIGINS")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	env := v.GetString("environment")
	if !v.IsSet("debug") {
		v.Set("debug", getDefaultDebug(env))
	}

	cfg := &Config{
		Port:        v.GetString("port"),
		Environment: env,
		CORSOrigins: v.GetString("cors_origins"),
		Debug:       v.GetBool("debug"),
		Actions: ActionTimings{
			Scan:        v.GetDuration("actions.scan"),
			Reply:       v.GetDuration("actions.reply"),
			ReaderQuery: v.GetDuration("actions.reader_query"),
			Synthesize:  v.GetDuration("actions.synthesize"),
			Provision:   v.GetDuration("actions.provision"),
			Invite:      v.GetDuration("actions.invite"),
			RoleChange:  v.GetDuration("actions.role_change"),
			Rollback:    v.GetDuration("actions.rollback"),
			UploadStep:  v.GetInt("actions.upload_step"),
			UploadTick:  v.GetDuration("actions.upload_tick"),
			VerifyStep:  v.GetInt("actions.verify_step"),
			VerifyTick:  v.GetDuration("actions.verify_tick"),
		},
		Feed: FeedConfig{
			Interval: v.GetDuration("feed.interval"),
			Capacity: v.GetInt("feed.capacity"),
		},
		SSEKeepAlive: v.GetDuration("sse_keepalive"),
		SessionTTL:   v.GetDuration("session_ttl"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("environment", "dev")
	v.SetDefault("cors_origins", "http://localhost:3000")

	d := DefaultActionTimings()
	v.SetDefault("actions.scan", d.Scan)
	v.SetDefault("actions.reply", d.Reply)
	v.SetDefault("actions.reader_query", d.ReaderQuery)
	v.SetDefault("actions.synthesize", d.Synthesize)
	v.SetDefault("actions.provision", d.Provision)
	v.SetDefault("actions.invite", d.Invite)
	v.SetDefault("actions.role_change", d.RoleChange)
	v.SetDefault("actions.rollback", d.Rollback)
	v.SetDefault("actions.upload_step", d.UploadStep)
	v.SetDefault("actions.upload_tick", d.UploadTick)
	v.SetDefault("actions.verify_step", d.VerifyStep)
	v.SetDefault("actions.verify_tick", d.VerifyTick)

	v.SetDefault("feed.interval", 4*time.Second)
	v.SetDefault("feed.capacity", DefaultFeedCapacity)

	v.SetDefault("sse_keepalive", 10*time.Second)
	v.SetDefault("session_ttl", 30*time.Minute)
}

// DefaultActionTimings are the durations the product was designed around
func DefaultActionTimings() ActionTimings {
	return ActionTimings{
		Scan:        800 * time.Millisecond,
		Reply:       1500 * time.Millisecond,
		ReaderQuery: 1500 * time.Millisecond,
		Synthesize:  4 * time.Second,
		Provision:   3 * time.Second,
		Invite:      2 * time.Second,
		RoleChange:  2 * time.Second,
		Rollback:    2500 * time.Millisecond,
		UploadStep:  5,
		UploadTick:  150 * time.Millisecond,
		VerifyStep:  2,
		VerifyTick:  40 * time.Millisecond,
	}
}

// DefaultFeed returns the live feed defaults
func DefaultFeed() FeedConfig {
	return FeedConfig{Interval: 4 * time.Second, Capacity: DefaultFeedCapacity}
}

func (c *Config) validate() error {
	if c.Feed.Interval <= 0 {
		return fmt.Errorf("feed.interval must be positive, got %s", c.Feed.Interval)
	}
	if c.Feed.Capacity < 1 {
		return fmt.Errorf("feed.capacity must be at least 1, got %d", c.Feed.Capacity)
	}
	for name, step := range map[string]int{"upload_step": c.Actions.UploadStep, "verify_step": c.Actions.VerifyStep} {
		if step < 1 || step > 100 {
			return fmt.Errorf("actions.%s must be within 1..100, got %d", name, step)
		}
	}
	return nil
}

// getDefaultDebug returns the default debug setting based on environment
func getDefaultDebug(env string) bool {
	return env != "prod"
}
