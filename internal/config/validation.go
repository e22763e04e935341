package config

import (
	"fmt"
	"math"
	"strings"
)

// validate 对配置进行基础校验。
func validate(c *Config) error {
	if err := c.Universe.validate(); err != nil {
		return err
	}
	if err := c.Collector.validate(); err != nil {
		return err
	}
	if err := c.Forecast.validate(); err != nil {
		return err
	}
	if err := c.Decision.validate(); err != nil {
		return err
	}
	if err := c.Approval.validate(); err != nil {
		return err
	}
	if err := c.Trading.validate(c); err != nil {
		return err
	}
	if strings.TrimSpace(c.Ledger.Path) == "" {
		return fmt.Errorf("ledger.path cannot be empty")
	}
	return nil
}

func (u *UniverseConfig) validate() error {
	if u.Size < 1 {
		return fmt.Errorf("universe.size must be >= 1")
	}
	if strings.TrimSpace(u.Quote) == "" {
		return fmt.Errorf("universe.quote cannot be empty")
	}
	return nil
}

func (c *CollectorConfig) validate() error {
	if c.LookbackYears < 1 {
		return fmt.Errorf("collector.lookback_years must be >= 1")
	}
	if c.PageLimit < 1 {
		return fmt.Errorf("collector.page_limit must be >= 1")
	}
	if c.MaxParallel < 1 {
		return fmt.Errorf("collector.max_parallel must be >= 1")
	}
	if strings.TrimSpace(c.Interval) == "" {
		return fmt.Errorf("collector.interval cannot be empty")
	}
	return nil
}

func (f *ForecastConfig) validate() error {
	if f.HorizonDays < 1 {
		return fmt.Errorf("forecast.horizon_days must be >= 1")
	}
	if f.MinSamples < 2 {
		return fmt.Errorf("forecast.min_samples must be >= 2")
	}
	return nil
}

func (d *DecisionConfig) validate() error {
	if d.TopK < 1 {
		return fmt.Errorf("decision.top_k must be >= 1")
	}
	return nil
}

func (a *ApprovalConfig) validate() error {
	if a.TimeoutSeconds <= 0 {
		return fmt.Errorf("approval.timeout_seconds must be > 0")
	}
	if a.PollSeconds <= 0 {
		return fmt.Errorf("approval.poll_seconds must be > 0")
	}
	if a.Enabled && (a.BotToken == "" || a.ChatID == "") {
		return fmt.Errorf("approval enabled but %s/%s are not set", a.BotTokenEnv, a.ChatIDEnv)
	}
	return nil
}

func (t *TradingConfig) validate(c *Config) error {
	if t.USDAllocation <= 0 || math.IsNaN(t.USDAllocation) || math.IsInf(t.USDAllocation, 0) {
		return fmt.Errorf("trading.usd_allocation must be positive and finite")
	}
	if t.Live && (c.Binance.APIKey == "" || c.Binance.APISecret == "") {
		return fmt.Errorf("trading.live requires %s/%s to be set",
			c.Binance.APIKeyEnv, c.Binance.APISecretEnv)
	}
	return nil
}
