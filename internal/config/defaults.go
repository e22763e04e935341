package config

import "github.com/spf13/viper"

// 默认值常量
const (
	defaultLogLevel         = "info"
	defaultRESTBaseURL      = "https://api.binance.com"
	defaultHTTPTimeout      = 15
	defaultUniverseSize     = 10
	defaultUniverseQuote    = "USDT"
	defaultLookbackYears    = 5
	defaultInterval         = "1d"
	defaultPageLimit        = 1000
	defaultMaxParallel      = 4
	defaultHorizonDays      = 7
	defaultMinSamples       = 2
	defaultTopK             = 30
	defaultApprovalTimeout  = 300
	defaultApprovalPoll     = 5
	defaultUSDAllocation    = 100.0
	defaultLedgerPath       = "logs/profits.csv"
	defaultBinanceKeyEnv    = "BINANCE_API_KEY"
	defaultBinanceSecretEnv = "BINANCE_API_SECRET"
	defaultBotTokenEnv      = "TELEGRAM_BOT_TOKEN"
	defaultChatIDEnv        = "TELEGRAM_CHAT_ID"
)

func applyDefaults(v *viper.Viper) {
	v.SetDefault("app.log_level", defaultLogLevel)
	v.SetDefault("binance.rest_base_url", defaultRESTBaseURL)
	v.SetDefault("binance.timeout_seconds", defaultHTTPTimeout)
	v.SetDefault("binance.api_key_env", defaultBinanceKeyEnv)
	v.SetDefault("binance.api_secret_env", defaultBinanceSecretEnv)
	v.SetDefault("universe.size", defaultUniverseSize)
	v.SetDefault("universe.quote", defaultUniverseQuote)
	v.SetDefault("collector.lookback_years", defaultLookbackYears)
	v.SetDefault("collector.interval", defaultInterval)
	v.SetDefault("collector.page_limit", defaultPageLimit)
	v.SetDefault("collector.max_parallel", defaultMaxParallel)
	v.SetDefault("forecast.horizon_days", defaultHorizonDays)
	v.SetDefault("forecast.min_samples", defaultMinSamples)
	v.SetDefault("decision.top_k", defaultTopK)
	v.SetDefault("approval.bot_token_env", defaultBotTokenEnv)
	v.SetDefault("approval.chat_id_env", defaultChatIDEnv)
	v.SetDefault("approval.timeout_seconds", defaultApprovalTimeout)
	v.SetDefault("approval.poll_seconds", defaultApprovalPoll)
	v.SetDefault("approval.fail_open", true)
	v.SetDefault("trading.usd_allocation", defaultUSDAllocation)
	v.SetDefault("trading.live", false)
	v.SetDefault("ledger.path", defaultLedgerPath)
}
