package config

import "time"

// Config 是 coinpilot 的主配置载体。
type Config struct {
	App       AppConfig       `toml:"app"`
	Binance   BinanceConfig   `toml:"binance"`
	Universe  UniverseConfig  `toml:"universe"`
	Collector CollectorConfig `toml:"collector"`
	Forecast  ForecastConfig  `toml:"forecast"`
	Decision  DecisionConfig  `toml:"decision"`
	Approval  ApprovalConfig  `toml:"approval"`
	Trading   TradingConfig   `toml:"trading"`
	Ledger    LedgerConfig    `toml:"ledger"`
	Store     StoreConfig     `toml:"store"`
	Scheduler SchedulerConfig `toml:"scheduler"`
}

type AppConfig struct {
	LogLevel string `toml:"log_level"`
	LogPath  string `toml:"log_path"`
	HTTPAddr string `toml:"http_addr"`
}

// BinanceConfig carries endpoint wiring plus the names of the env vars
// holding credentials. Keys never appear in config files.
type BinanceConfig struct {
	APIKeyEnv      string `toml:"api_key_env"`
	APISecretEnv   string `toml:"api_secret_env"`
	RESTBaseURL    string `toml:"rest_base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	ProxyURL       string `toml:"proxy_url"`

	// resolved at load time
	APIKey    string `toml:"-"`
	APISecret string `toml:"-"`
}

func (b BinanceConfig) Timeout() time.Duration {
	return time.Duration(b.TimeoutSeconds) * time.Second
}

type UniverseConfig struct {
	Size  int    `toml:"size"`
	Quote string `toml:"quote"`
}

type CollectorConfig struct {
	LookbackYears int    `toml:"lookback_years"`
	Interval      string `toml:"interval"`
	PageLimit     int    `toml:"page_limit"`
	MaxParallel   int    `toml:"max_parallel"`
}

type ForecastConfig struct {
	HorizonDays int `toml:"horizon_days"`
	MinSamples  int `toml:"min_samples"`
}

type DecisionConfig struct {
	TopK int `toml:"top_k"`
}

// ApprovalConfig controls the human-confirmation gate. FailOpen is the
// named policy from the design notes: when confirmation cannot be
// obtained (no channel, timeout) the run proceeds as approved.
type ApprovalConfig struct {
	Enabled        bool   `toml:"enabled"`
	BotTokenEnv    string `toml:"bot_token_env"`
	ChatIDEnv      string `toml:"chat_id_env"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	PollSeconds    int    `toml:"poll_seconds"`
	FailOpen       bool   `toml:"fail_open"`

	BotToken string `toml:"-"`
	ChatID   string `toml:"-"`
}

func (a ApprovalConfig) Timeout() time.Duration {
	return time.Duration(a.TimeoutSeconds) * time.Second
}

func (a ApprovalConfig) PollInterval() time.Duration {
	return time.Duration(a.PollSeconds) * time.Second
}

type TradingConfig struct {
	USDAllocation float64 `toml:"usd_allocation"`
	Live          bool    `toml:"live"`
}

type LedgerConfig struct {
	Path string `toml:"path"`
}

type StoreConfig struct {
	Path string `toml:"path"`
}

type SchedulerConfig struct {
	Cron           string `toml:"cron"`
	RunImmediately bool   `toml:"run_immediately"`
}
