package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port           int     `yaml:"port"`
		RateLimitRPS   float64 `yaml:"rate_limit_rps"`
		RateLimitBurst int     `yaml:"rate_limit_burst"`
		AllowedOrigin  string  `yaml:"allowed_origin"`
	} `yaml:"server"`
	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`
	Engine struct {
		HalfLifeHours     float64 `yaml:"half_life_hours"`
		IntensityBoost    float64 `yaml:"intensity_boost"`
		MinArticleLength  int     `yaml:"min_article_length"`
		MinMentions       int     `yaml:"min_mentions"`
		MaxJustifications int     `yaml:"max_justifications"`
		MaxReportedItems  int     `yaml:"max_reported_items"`
		Thresholds        struct {
			StrongBuy float64 `yaml:"strong_buy"`
			Buy       float64 `yaml:"buy"`
			Hold      float64 `yaml:"hold"`
			Sell      float64 `yaml:"sell"`
		} `yaml:"thresholds"`
	} `yaml:"engine"`
	Classifier struct {
		Provider       string `yaml:"provider"` // LEXICON, OPENAI, CLAUDE, HUGGINGFACE, NOOP
		Model          string `yaml:"model"`
		RequestDelayMs int    `yaml:"request_delay_ms"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"classifier"`
	News struct {
		Enabled         bool     `yaml:"enabled"`
		MaxArticles     int      `yaml:"max_articles"`
		APIBaseURL      string   `yaml:"api_base_url"`
		DomainBlacklist []string `yaml:"domain_blacklist"`
		SourceBlacklist []string `yaml:"source_blacklist"`
		ScrapeFallback  bool     `yaml:"scrape_fallback"`
	} `yaml:"news"`
	Reddit struct {
		Enabled         bool     `yaml:"enabled"`
		Subreddits      []string `yaml:"subreddits"`
		Timespan        string   `yaml:"timespan"`
		PostLimit       int      `yaml:"post_limit"`
		CommentsPerPost int      `yaml:"comments_per_post"`
	} `yaml:"reddit"`
	Market struct {
		Provider string `yaml:"provider"` // YAHOO or KITE
		Exchange string `yaml:"exchange"`
	} `yaml:"market"`
	Cache struct {
		TTLMinutes int `yaml:"ttl_minutes"`
	} `yaml:"cache"`
	Stream struct {
		Enabled      bool     `yaml:"enabled"`
		Brokers      []string `yaml:"brokers"`
		ResultTopic  string   `yaml:"result_topic"`
		RequestTopic string   `yaml:"request_topic"`
		Group        string   `yaml:"group"`
	} `yaml:"stream"`
	Watchlist      []string `yaml:"watchlist"`
	RefreshMinutes int      `yaml:"refresh_minutes"`
	Audit          struct {
		Dir           string `yaml:"dir"`
		RetentionDays int    `yaml:"retention_days"`
	} `yaml:"audit"`
}

// DefaultConfig returns the configuration used when no config file is
// present. Threshold and weighting defaults match the reference
// partition the engine is tested against.
func DefaultConfig() *Config {
	c := &Config{}
	c.Server.Port = 8000
	c.Server.RateLimitRPS = 5
	c.Server.RateLimitBurst = 10
	c.Server.AllowedOrigin = "*"
	c.Database.Path = "data/sentiment.db"
	c.Engine.HalfLifeHours = 72
	c.Engine.IntensityBoost = 0.15
	c.Engine.MinArticleLength = 100
	c.Engine.MinMentions = 1
	c.Engine.MaxJustifications = 3
	c.Engine.MaxReportedItems = 15
	c.Engine.Thresholds.StrongBuy = 0.25
	c.Engine.Thresholds.Buy = 0.05
	c.Engine.Thresholds.Hold = -0.05
	c.Engine.Thresholds.Sell = -0.25
	c.Classifier.Provider = "LEXICON"
	c.Classifier.RequestDelayMs = 1000
	c.Classifier.TimeoutSeconds = 30
	c.News.Enabled = true
	c.News.MaxArticles = 15
	c.News.APIBaseURL = "https://newsapi.org/v2"
	c.News.DomainBlacklist = []string{"prnewswire.com", "globenewswire.com", "businesswire.com"}
	c.News.ScrapeFallback = true
	c.Reddit.Enabled = true
	c.Reddit.Subreddits = []string{"stocks", "investing", "wallstreetbets"}
	c.Reddit.Timespan = "week"
	c.Reddit.PostLimit = 10
	c.Reddit.CommentsPerPost = 5
	c.Market.Provider = "YAHOO"
	c.Market.Exchange = "NSE"
	c.Cache.TTLMinutes = 60
	c.Stream.ResultTopic = "sentiment-results"
	c.Stream.RequestTopic = "sentiment-requests"
	c.Stream.Group = "sentiment-worker"
	c.RefreshMinutes = 60
	c.Audit.Dir = "logs"
	return c
}

func (c *Config) Validate() error {
	switch c.Classifier.Provider {
	case "LEXICON", "OPENAI", "CLAUDE", "HUGGINGFACE", "NOOP":
	default:
		return fmt.Errorf("invalid classifier.provider '%s': must be 'LEXICON', 'OPENAI', 'CLAUDE', 'HUGGINGFACE', or 'NOOP'", c.Classifier.Provider)
	}
	if c.Market.Provider != "YAHOO" && c.Market.Provider != "KITE" {
		return fmt.Errorf("invalid market.provider '%s': must be 'YAHOO' or 'KITE'", c.Market.Provider)
	}
	if c.Engine.HalfLifeHours <= 0 {
		return fmt.Errorf("engine.half_life_hours must be positive, got %.2f", c.Engine.HalfLifeHours)
	}
	if c.Engine.IntensityBoost < 0 {
		return fmt.Errorf("engine.intensity_boost must not be negative, got %.2f", c.Engine.IntensityBoost)
	}
	t := c.Engine.Thresholds
	if t.StrongBuy < t.Buy || t.Buy < t.Hold || t.Hold < t.Sell {
		return fmt.Errorf("engine.thresholds must be ordered strong_buy >= buy >= hold >= sell, got %.2f/%.2f/%.2f/%.2f",
			t.StrongBuy, t.Buy, t.Hold, t.Sell)
	}
	switch c.Reddit.Timespan {
	case "hour", "day", "week", "month", "year", "all":
	default:
		return fmt.Errorf("invalid reddit.timespan '%s'", c.Reddit.Timespan)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1-65535, got %d", c.Server.Port)
	}
	if c.Stream.Enabled && len(c.Stream.Brokers) == 0 {
		return fmt.Errorf("stream.brokers cannot be empty when stream.enabled is true")
	}
	return nil
}

// LoadConfig reads the yaml config at path over the defaults. A missing
// file is not an error; the defaults stand on their own.
func LoadConfig(path string) (*Config, error) {
	c := DefaultConfig()

	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, err
	}

	// Guard fields where an explicit zero would break the pipeline
	if c.News.MaxArticles <= 0 {
		c.News.MaxArticles = 15
	}
	if c.Engine.MaxJustifications <= 0 {
		c.Engine.MaxJustifications = 3
	}
	if c.Cache.TTLMinutes <= 0 {
		c.Cache.TTLMinutes = 60
	}
	if c.RefreshMinutes <= 0 {
		c.RefreshMinutes = 60
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return c, nil
}
