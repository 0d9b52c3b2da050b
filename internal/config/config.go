package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server struct {
		Port string
	}
	Database struct {
		URL string
	}
	Redis struct {
		URL string
	}
	FAQ struct {
		TableURL string
		CacheTTL time.Duration
	}
	Docs struct {
		AllowList string
		CacheTTL  time.Duration
	}
	Fetch struct {
		Timeout   time.Duration
		UserAgent string
	}
	Matching struct {
		Strategy     string
		FAQThreshold float64
		DocThreshold float64
		Synonyms     []string
	}
	Line struct {
		ChannelSecret string
		ChannelToken  string
	}
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	viper.SetDefault("server.port", "8080")
	viper.SetDefault("faq.cache_ttl", "60s")
	viper.SetDefault("docs.cache_ttl", "300s")
	viper.SetDefault("fetch.timeout", "10s")
	viper.SetDefault("fetch.user_agent", "faqbot/1.0")
	viper.SetDefault("matching.strategy", "containment")
	// Weighted-containment minimums: one word hit accepts a FAQ row, while
	// noisier whole documents need full containment or several word hits.
	viper.SetDefault("matching.faq_threshold", 1.0)
	viper.SetDefault("matching.doc_threshold", 2.0)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	config.Server.Port = viper.GetString("server.port")
	config.Database.URL = viper.GetString("database.url")
	config.Redis.URL = viper.GetString("redis.url")
	config.FAQ.TableURL = viper.GetString("faq.table_url")
	config.FAQ.CacheTTL = viper.GetDuration("faq.cache_ttl")
	config.Docs.AllowList = viper.GetString("docs.allow_list")
	config.Docs.CacheTTL = viper.GetDuration("docs.cache_ttl")
	config.Fetch.Timeout = viper.GetDuration("fetch.timeout")
	config.Fetch.UserAgent = viper.GetString("fetch.user_agent")
	config.Matching.Strategy = viper.GetString("matching.strategy")
	config.Matching.FAQThreshold = viper.GetFloat64("matching.faq_threshold")
	config.Matching.DocThreshold = viper.GetFloat64("matching.doc_threshold")
	config.Matching.Synonyms = viper.GetStringSlice("matching.synonyms")
	config.Line.ChannelSecret = os.Getenv("LINE_CHANNEL_SECRET")
	config.Line.ChannelToken = os.Getenv("LINE_CHANNEL_ACCESS_TOKEN")

	if config.FAQ.TableURL == "" {
		return nil, fmt.Errorf("faq.table_url is required")
	}
	return &config, nil
}

func (c *Config) ValidateLine() error {
	if c.Line.ChannelSecret == "" {
		return fmt.Errorf("LINE_CHANNEL_SECRET is required")
	}
	if c.Line.ChannelToken == "" {
		return fmt.Errorf("LINE_CHANNEL_ACCESS_TOKEN is required")
	}
	return nil
}

// AllowListURLs splits the configured allow-list string on any run of
// whitespace and/or commas.
func (c *Config) AllowListURLs() []string {
	return SplitAllowList(c.Docs.AllowList)
}

func SplitAllowList(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}
