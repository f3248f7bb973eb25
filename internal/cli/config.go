package cli

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/pflag"
)

// Config holds the settings shared by the serving commands. Values come
// from the environment first; flags set on the command line win.
type Config struct {
	Scene     string `env:"CASCADE_SCENE"`
	Name      string `env:"CASCADE_NAME"`
	Addr      string `env:"CASCADE_ADDR"       envDefault:":8080"`
	LogLevel  string `env:"CASCADE_LOG_LEVEL"  envDefault:"info"`
	LogFormat string `env:"CASCADE_LOG_FORMAT" envDefault:"text"`

	RedisAddr     string        `env:"CASCADE_REDIS_ADDR"`
	RedisPassword string        `env:"CASCADE_REDIS_PASSWORD"`
	RedisDB       int           `env:"CASCADE_REDIS_DB"`
	QueueTTL      time.Duration `env:"CASCADE_QUEUE_TTL"  envDefault:"1m"`
	LeaseTTL      time.Duration `env:"CASCADE_LEASE_TTL"  envDefault:"5s"`

	ShutdownTimeout time.Duration `env:"CASCADE_SHUTDOWN_TIMEOUT" envDefault:"5s"`
}

// LoadConfig reads Config from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// RegisterSceneFlags declares the flags every scene command shares.
func RegisterSceneFlags(fs *pflag.FlagSet) {
	fs.String("scene", "", "Scene file (.yaml, .json) or entity directory (env CASCADE_SCENE)")
	fs.String("name", "", "Scene name used for logs and queue keys (env CASCADE_NAME)")
	fs.String("log-level", "info", "Log level: debug, info, warn, error (env CASCADE_LOG_LEVEL)")
	fs.String("log-format", "text", "Log format on stderr: text or json (env CASCADE_LOG_FORMAT)")
}

// RegisterServeFlags declares the flags of the long-running commands.
func RegisterServeFlags(fs *pflag.FlagSet) {
	fs.String("addr", ":8080", "Listen address (env CASCADE_ADDR)")
	fs.String("redis-addr", "", "Share the descriptor queue through Redis (env CASCADE_REDIS_ADDR)")
	fs.Int("redis-db", 0, "Redis database (env CASCADE_REDIS_DB)")
}

// ApplyFlags overrides cfg with every flag explicitly set in fs.
func (c *Config) ApplyFlags(fs *pflag.FlagSet) error {
	strs := map[string]*string{
		"scene":      &c.Scene,
		"name":       &c.Name,
		"addr":       &c.Addr,
		"log-level":  &c.LogLevel,
		"log-format": &c.LogFormat,
		"redis-addr": &c.RedisAddr,
	}
	for name, dst := range strs {
		if fs.Lookup(name) == nil || !fs.Changed(name) {
			continue
		}
		v, err := fs.GetString(name)
		if err != nil {
			return err
		}
		*dst = v
	}
	if fs.Lookup("redis-db") != nil && fs.Changed("redis-db") {
		v, err := fs.GetInt("redis-db")
		if err != nil {
			return err
		}
		c.RedisDB = v
	}
	return nil
}
