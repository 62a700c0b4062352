package config

import (
	"log/slog"
	"time"
)

type LogLeveler string

func (l LogLeveler) Level() slog.Level {
	var level slog.Level

	_ = level.UnmarshalText([]byte(l))

	return level
}

// Config holds the server configuration.
type Config struct {
	LogLevel LogLeveler `mapstructure:"LOG_LEVEL"`
	HTTP     HTTP       `mapstructure:",squash"`
	Redis    Redis      `mapstructure:",squash"`
	Scraper  Scraper    `mapstructure:",squash"`
	Search   Search     `mapstructure:",squash"`
	Output   Output     `mapstructure:",squash"`
}

type HTTP struct {
	Port    int           `mapstructure:"HTTP_PORT"`
	Timeout time.Duration `mapstructure:"HTTP_TIMEOUT"`
}

type Redis struct {
	Addr     string        `mapstructure:"REDIS_ADDR"`
	Password string        `mapstructure:"REDIS_PASSWORD"`
	DB       int           `mapstructure:"REDIS_DB"`
	Timeout  time.Duration `mapstructure:"REDIS_TIMEOUT"`
}

// Scraper tunes the browser automation against the booking site.
type Scraper struct {
	BaseURL        string        `mapstructure:"SCRAPER_BASE_URL"`
	Headless       bool          `mapstructure:"SCRAPER_HEADLESS"`
	StepTimeout    time.Duration `mapstructure:"SCRAPER_STEP_TIMEOUT"`
	ResultTimeout  time.Duration `mapstructure:"SCRAPER_RESULT_TIMEOUT"`
	NavigateSettle time.Duration `mapstructure:"SCRAPER_NAVIGATE_SETTLE"`
	SubmitSettle   time.Duration `mapstructure:"SCRAPER_SUBMIT_SETTLE"`
	ResultSettle   time.Duration `mapstructure:"SCRAPER_RESULT_SETTLE"`
	MaxRetries     int           `mapstructure:"SCRAPER_MAX_RETRIES"`
	RetryDelay     time.Duration `mapstructure:"SCRAPER_RETRY_DELAY"`
	RateLimitRPM   int           `mapstructure:"SCRAPER_RATE_LIMIT"`
}

// RouteConfig is one scrapeable city pair. ROUTES takes a JSON array in the
// environment, e.g. [{"from":"TPE","to":"NRT","name":"台北-東京成田"}].
type RouteConfig struct {
	From string `mapstructure:"from" json:"from"`
	To   string `mapstructure:"to" json:"to"`
	Name string `mapstructure:"name" json:"name"`
}

type Search struct {
	Routes           []RouteConfig `mapstructure:"ROUTES"`
	TripDurationDays int           `mapstructure:"TRIP_DURATION_DAYS"`
	DaysAhead        int           `mapstructure:"DAYS_AHEAD"`
	MaxResults       int           `mapstructure:"MAX_RESULTS"`
	RequestDelay     time.Duration `mapstructure:"REQUEST_DELAY"`
	CacheExpiration  time.Duration `mapstructure:"SEARCH_CACHE_EXPIRATION"`
	LockTimeout      time.Duration `mapstructure:"SEARCH_LOCK_TIMEOUT"`
}

type Output struct {
	Dir string `mapstructure:"OUTPUT_DIR"`
}

// DefaultRoutes is the route table used when ROUTES is unset.
func DefaultRoutes() []RouteConfig {
	return []RouteConfig{
		{From: "TPE", To: "NRT", Name: "台北-東京成田"},
		{From: "TPE", To: "KIX", Name: "台北-大阪關西"},
		{From: "TPE", To: "FUK", Name: "台北-福岡"},
		{From: "TPE", To: "OKA", Name: "台北-沖繩那霸"},
		{From: "KHH", To: "NRT", Name: "高雄-東京成田"},
		{From: "KHH", To: "KIX", Name: "高雄-大阪關西"},
	}
}
