package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/foomo/publisher-mcp/logger"
	"github.com/foomo/publisher-mcp/service/vo"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	CMS     ClientConfig  `mapstructure:"cms"`
	Pexels  ClientConfig  `mapstructure:"pexels"`
	Publish PublishConfig `mapstructure:"publish"`
	Server  ServerConfig  `mapstructure:"server"`
	HTTP    HTTPConfig    `mapstructure:"http"`
	Log     logger.Config `mapstructure:"log"`
}

type ClientConfig struct {
	URL    string `mapstructure:"url"`
	APIKey string `mapstructure:"api_key"`
}

type PublishConfig struct {
	AffiliateTag string    `mapstructure:"affiliate_tag"`
	Author       string    `mapstructure:"author"`
	Status       vo.Status `mapstructure:"status"`
	Publisher    string    `mapstructure:"publisher"`
}

type ServerConfig struct {
	Port             int    `mapstructure:"port"`
	AccessKey        string `mapstructure:"access_key"`
	RateLimitPerHour int    `mapstructure:"rate_limit_per_hour"`
}

type HTTPConfig struct {
	Timeout time.Duration `mapstructure:"timeout"` // 0 disables the client timeout
}

// envBindings maps config keys to the environment variables overriding them.
var envBindings = map[string]string{
	"cms.url":                    "CMS_API_URL",
	"cms.api_key":                "CMS_API_KEY",
	"pexels.url":                 "PEXELS_API_URL",
	"pexels.api_key":             "PEXELS_API_KEY",
	"publish.affiliate_tag":      "AMAZON_AFFILIATE_TAG",
	"publish.author":             "DEFAULT_AUTHOR",
	"publish.status":             "DEFAULT_STATUS",
	"publish.publisher":          "PUBLISHER_NAME",
	"server.port":                "PORT",
	"server.access_key":          "MCP_ACCESS_KEY",
	"server.rate_limit_per_hour": "RATE_LIMIT_PER_HOUR",
	"http.timeout":               "HTTP_TIMEOUT",
	"log.level":                  "LOG_LEVEL",
	"log.format":                 "LOG_FORMAT",
	"log.output":                 "LOG_OUTPUT",
	"log.file.filename":          "LOG_FILE",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("cms.url", "http://localhost:3000")
	v.SetDefault("cms.api_key", "")
	v.SetDefault("pexels.url", "https://api.pexels.com")
	v.SetDefault("pexels.api_key", "")
	v.SetDefault("publish.affiliate_tag", "editorial-20")
	v.SetDefault("publish.author", "Editorial Team")
	v.SetDefault("publish.status", string(vo.StatusPublished))
	v.SetDefault("publish.publisher", "Editorial Team")
	v.SetDefault("server.port", 3001)
	v.SetDefault("server.access_key", "")
	v.SetDefault("server.rate_limit_per_hour", 100)
	v.SetDefault("http.timeout", "0s")

	log := logger.DefaultConfig()
	v.SetDefault("log.level", log.Level)
	v.SetDefault("log.format", log.Format)
	v.SetDefault("log.output", log.Output)
	v.SetDefault("log.enablestacktrace", log.EnableStacktrace)
	v.SetDefault("log.file.filename", log.File.Filename)
	v.SetDefault("log.file.maxsize", log.File.MaxSize)
	v.SetDefault("log.file.maxage", log.File.MaxAge)
	v.SetDefault("log.file.maxbackups", log.File.MaxBackups)
	v.SetDefault("log.file.compress", log.File.Compress)
}

// Load reads configuration from defaults, an optional config file at path
// and the environment, in increasing precedence. A .env file in the working
// directory is loaded first when present.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if !c.Publish.Status.Valid() {
		return fmt.Errorf("invalid default status %q, must be 'draft' or 'published'", c.Publish.Status)
	}
	if c.Server.Port <= 0 {
		return errors.New("server port must be greater than 0")
	}
	if c.Server.RateLimitPerHour <= 0 {
		return errors.New("rate limit per hour must be greater than 0")
	}
	if c.HTTP.Timeout < 0 {
		return errors.New("http timeout must not be negative")
	}
	if err := c.Log.Validate(); err != nil {
		return fmt.Errorf("invalid log configuration: %w", err)
	}
	return nil
}
