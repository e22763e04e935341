package binance

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"coinpilot/internal/market"

	"github.com/adshao/go-binance/v2"
)

const maxKlinesLimit = 1000

// Source 基于 go-binance SDK 实现 market.Source 与 market.Trader（现货）。
type Source struct {
	cfg    Config
	client *binance.Client
}

func New(cfg Config) (*Source, error) {
	final := cfg.withDefaults()
	client := binance.NewClient(final.APIKey, final.APISecret)
	client.BaseURL = final.RESTBaseURL
	httpClient := &http.Client{Timeout: final.HTTPTimeout}
	if final.ProxyURL != "" {
		proxyURL, err := url.Parse(final.ProxyURL)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy url: %w", err)
		}
		baseTransport, ok := http.DefaultTransport.(*http.Transport)
		if !ok || baseTransport == nil {
			return nil, fmt.Errorf("http DefaultTransport is not *http.Transport")
		}
		transport := baseTransport.Clone()
		transport.Proxy = http.ProxyURL(proxyURL)
		httpClient.Transport = transport
	}
	client.HTTPClient = httpClient
	return &Source{cfg: final, client: client}, nil
}

func (s *Source) ListPairStats(ctx context.Context) ([]market.PairStats, error) {
	stats, err := s.client.NewListPriceChangeStatsService().Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("24h stats: %w", err)
	}
	out := make([]market.PairStats, 0, len(stats))
	for _, st := range stats {
		if st == nil {
			continue
		}
		out = append(out, market.PairStats{
			Symbol:      st.Symbol,
			QuoteVolume: parseFloat(st.QuoteVolume),
			LastPrice:   parseFloat(st.LastPrice),
		})
	}
	return out, nil
}

func (s *Source) FetchKlinesRange(ctx context.Context, pair, interval string, start, end time.Time, limit int) ([]market.Candle, error) {
	pair = strings.ToUpper(strings.TrimSpace(pair))
	if pair == "" {
		return nil, fmt.Errorf("pair is required")
	}
	interval = strings.ToLower(strings.TrimSpace(interval))
	if interval == "" {
		return nil, fmt.Errorf("interval is required")
	}
	if limit <= 0 || limit > maxKlinesLimit {
		limit = maxKlinesLimit
	}
	svc := s.client.NewKlinesService().
		Symbol(pair).
		Interval(interval).
		StartTime(start.UnixMilli()).
		EndTime(end.UnixMilli()).
		Limit(limit)
	kls, err := svc.Do(ctx)
	if err != nil {
		return nil, market.ClassifySymbolErr(err)
	}
	out := make([]market.Candle, 0, len(kls))
	for _, kl := range kls {
		if kl == nil {
			continue
		}
		out = append(out, market.Candle{
			OpenTime:    kl.OpenTime,
			CloseTime:   kl.CloseTime,
			Open:        parseFloat(kl.Open),
			High:        parseFloat(kl.High),
			Low:         parseFloat(kl.Low),
			Close:       parseFloat(kl.Close),
			Volume:      parseFloat(kl.Volume),
			QuoteVolume: parseFloat(kl.QuoteAssetVolume),
			Trades:      kl.TradeNum,
		})
	}
	return out, nil
}

func (s *Source) GetPrice(ctx context.Context, pair string) (float64, error) {
	pair = strings.ToUpper(strings.TrimSpace(pair))
	prices, err := s.client.NewListPricesService().Symbol(pair).Do(ctx)
	if err != nil {
		return 0, market.ClassifySymbolErr(err)
	}
	if len(prices) == 0 || prices[0] == nil {
		return 0, fmt.Errorf("no price returned for %s", pair)
	}
	price := parseFloat(prices[0].Price)
	if price <= 0 {
		return 0, fmt.Errorf("non-positive price for %s: %q", pair, prices[0].Price)
	}
	return price, nil
}

func (s *Source) ListTradablePairs(ctx context.Context) (map[string]bool, error) {
	info, err := s.client.NewExchangeInfoService().Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("exchange info: %w", err)
	}
	out := make(map[string]bool, len(info.Symbols))
	for _, sym := range info.Symbols {
		out[sym.Symbol] = sym.Status == "TRADING"
	}
	return out, nil
}

func (s *Source) PlaceMarketOrder(ctx context.Context, pair string, side market.Side, quantity string) (*market.Fill, error) {
	var sideType binance.SideType
	switch side {
	case market.SideBuy:
		sideType = binance.SideTypeBuy
	case market.SideSell:
		sideType = binance.SideTypeSell
	default:
		return nil, fmt.Errorf("unsupported order side: %q", side)
	}
	resp, err := s.client.NewCreateOrderService().
		Symbol(strings.ToUpper(strings.TrimSpace(pair))).
		Side(sideType).
		Type(binance.OrderTypeMarket).
		Quantity(quantity).
		Do(ctx)
	if err != nil {
		return nil, market.ClassifySymbolErr(err)
	}
	avgPrice := "0"
	if len(resp.Fills) > 0 && resp.Fills[0] != nil {
		avgPrice = resp.Fills[0].Price
	}
	return &market.Fill{
		ExecutedQty: resp.ExecutedQuantity,
		AvgPrice:    avgPrice,
		QuoteQty:    resp.CummulativeQuoteQuantity,
		Status:      string(resp.Status),
	}, nil
}

func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}
